package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/data/redisStore"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

// TableStore serves the pre-generated chapter images and the stored story for
// the fixed document.
type TableStore interface {
	GetChapterImage(ctx context.Context, chapter int) (string, bool, error)
	SaveChapterImage(ctx context.Context, chapter int, link string) error
	GetStory(ctx context.Context, id int) (string, bool, error)
	SaveStory(ctx context.Context, id int, raw string) error
}

type RedisTableStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetTableStore(ctx context.Context) TableStore {
	if s := redisStore.GetRedisStore(ctx, config.RedisTableStore); s != nil {
		return NewRedisTableStore(s)
	}
	inMemLogger.Warn("redis unavailable, fixed tables are in-memory and start empty")
	return NewInMemoryTableStore()
}

func NewRedisTableStore(s *redisStore.Store) *RedisTableStore {
	return &RedisTableStore{store: s, logger: logger_i.NewLogger("TableStore")}
}

func storyKey(id int) string {
	return config.RedisStoryKeyPrefix + strconv.Itoa(id)
}

func (t *RedisTableStore) GetChapterImage(ctx context.Context, chapter int) (string, bool, error) {
	link, err := t.store.HGet(ctx, config.RedisImageTableKey, strconv.Itoa(chapter))
	if t.store.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return link, true, nil
}

func (t *RedisTableStore) SaveChapterImage(ctx context.Context, chapter int, link string) error {
	return t.store.HSet(ctx, config.RedisImageTableKey, strconv.Itoa(chapter), link)
}

func (t *RedisTableStore) GetStory(ctx context.Context, id int) (string, bool, error) {
	raw, err := t.store.Get(ctx, storyKey(id))
	if t.store.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

func (t *RedisTableStore) SaveStory(ctx context.Context, id int, raw string) error {
	return t.store.Set(ctx, storyKey(id), raw, 0)
}

type InMemoryTableStore struct {
	mu      sync.RWMutex
	images  map[int]string
	stories map[int]string
}

func NewInMemoryTableStore() *InMemoryTableStore {
	return &InMemoryTableStore{
		images:  make(map[int]string),
		stories: make(map[int]string),
	}
}

func (t *InMemoryTableStore) GetChapterImage(ctx context.Context, chapter int) (string, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	link, ok := t.images[chapter]
	return link, ok, nil
}

func (t *InMemoryTableStore) SaveChapterImage(ctx context.Context, chapter int, link string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.images[chapter] = link
	return nil
}

func (t *InMemoryTableStore) GetStory(ctx context.Context, id int) (string, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	raw, ok := t.stories[id]
	return raw, ok, nil
}

func (t *InMemoryTableStore) SaveStory(ctx context.Context, id int, raw string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stories[id] = raw
	return nil
}

// SeedFile is the on-disk layout the seed command loads into the fixed tables.
// Chapter keys are zero based. Story may be a JSON object or the raw text game.
type SeedFile struct {
	Images  map[int]string  `json:"images"`
	StoryId int             `json:"story_id"`
	Story   json.RawMessage `json:"story"`
}

// Seed writes every image row and the story into t.
func Seed(ctx context.Context, t TableStore, seed SeedFile) error {
	for chapter, link := range seed.Images {
		if err := t.SaveChapterImage(ctx, chapter, link); err != nil {
			return fmt.Errorf("seeding image for chapter %d: %w", chapter, err)
		}
	}
	if len(seed.Story) == 0 {
		return nil
	}
	id := seed.StoryId
	if id == 0 {
		id = config.FixedStoryId
	}

	raw := string(seed.Story)
	var text string
	if err := json.Unmarshal(seed.Story, &text); err == nil {
		raw = text
	}
	if err := t.SaveStory(ctx, id, raw); err != nil {
		return fmt.Errorf("seeding story %d: %w", id, err)
	}
	return nil
}
