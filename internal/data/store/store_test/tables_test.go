package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/data/redisStore"
	"github.com/akolanti/StudyAPI/internal/data/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisTables(t *testing.T) (*miniredis.Miniredis, store.TableStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, store.NewRedisTableStore(redisStore.NewTestStore(client))
}

func TestRedisTableStore_Images(t *testing.T) {
	mr, tables := newRedisTables(t)
	ctx := context.Background()

	if err := tables.SaveChapterImage(ctx, 0, "https://cdn/ch1.png"); err != nil {
		t.Fatal(err)
	}
	if got := mr.HGet(config.RedisImageTableKey, "0"); got != "https://cdn/ch1.png" {
		t.Errorf("unexpected hash field %q", got)
	}

	link, found, err := tables.GetChapterImage(ctx, 0)
	if err != nil || !found || link != "https://cdn/ch1.png" {
		t.Fatalf("got %q found=%v err=%v", link, found, err)
	}

	_, found, err = tables.GetChapterImage(ctx, 7)
	if err != nil || found {
		t.Errorf("expected a clean miss, got found=%v err=%v", found, err)
	}
}

func TestRedisTableStore_Story(t *testing.T) {
	_, tables := newRedisTables(t)
	ctx := context.Background()

	if _, found, _ := tables.GetStory(ctx, 1); found {
		t.Fatal("story should not exist yet")
	}
	if err := tables.SaveStory(ctx, 1, `{"title":"Snake Quest"}`); err != nil {
		t.Fatal(err)
	}
	raw, found, err := tables.GetStory(ctx, 1)
	if err != nil || !found || raw != `{"title":"Snake Quest"}` {
		t.Fatalf("got %q found=%v err=%v", raw, found, err)
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	tables := store.NewInMemoryTableStore()

	var seed store.SeedFile
	data := `{"images":{"0":"https://a","1":"https://b"},"story":"Game Title: Quest\nChapter 1: Start"}`
	if err := json.Unmarshal([]byte(data), &seed); err != nil {
		t.Fatal(err)
	}
	if err := store.Seed(ctx, tables, seed); err != nil {
		t.Fatal(err)
	}

	link, found, _ := tables.GetChapterImage(ctx, 1)
	if !found || link != "https://b" {
		t.Errorf("chapter 1 image = %q", link)
	}
	raw, found, _ := tables.GetStory(ctx, config.FixedStoryId)
	if !found || raw != "Game Title: Quest\nChapter 1: Start" {
		t.Errorf("story text was not unquoted: %q", raw)
	}
}
