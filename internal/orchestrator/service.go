package orchestrator

import (
	"context"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

/*
The orchestrator owns every session: the document, the cached extraction and
one workflow record per kind. Views (http handlers, workers, the cli, mcp tools)
only ever see the Service interface and get the same instance injected.

Each run captures the session epoch and its workflow seq before suspending.
A result is committed only if both still match, so a document replacement or a
newer request for the same kind silently wins over a slow older one.
*/

type Service interface {
	CreateSession(ctx context.Context) string
	SetDocument(ctx context.Context, sessionID string, doc commonModels.Document) error
	Document(ctx context.Context, sessionID string) (commonModels.Document, error)

	Generate(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error)
	Regenerate(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error)
	RegenerateFromWrong(ctx context.Context, sessionID string, wrongIDs []int) (workflowModel.Artifact, error)

	Progress(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind) (workflowModel.ProgressState, error)
	Artifact(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error)

	Questions(ctx context.Context, sessionID string) ([]learningModel.Question, error)
	StoryGame(ctx context.Context, sessionID string) (*learningModel.StoryGame, error)
	Summary(ctx context.Context, sessionID string) (summary string, advice string, err error)
	AdviseOnMistake(ctx context.Context, sessionID string, questionID int, chosen string) (string, error)
	LearningPath(ctx context.Context, input string) (string, learningModel.LearningPath)
	ResolveImage(ctx context.Context, sessionID string, chapterIndex int, prompt string) (string, error)
}

type Extractor interface {
	ExtractText(ctx context.Context, doc commonModels.Document, progress workflowModel.ProgressFunc) (string, error)
}

type Generator interface {
	ForKind(kind workflowModel.WorkflowKind) (func(context.Context, string) (string, error), error)
	McqsFromWrong(ctx context.Context, wrongBlocks string) (string, error)
	Advice(ctx context.Context, wrongBlock string) (string, error)
	SearchQuery(ctx context.Context, input string) string
	LearningPath(ctx context.Context, topic string) learningModel.LearningPath
}

type ImageResolver interface {
	ResolveImage(ctx context.Context, prompt string, documentIdentity string, chapterIndex int) (string, error)
}

type StoryTable interface {
	GetStory(ctx context.Context, id int) (string, bool, error)
}

// Deps is everything a Service needs. FixedDocument defaults to the configured
// fixed document name.
type Deps struct {
	Extractor     Extractor
	Generator     Generator
	Images        ImageResolver
	Stories       StoryTable
	FixedDocument string
}

type service struct {
	extractor     Extractor
	generator     Generator
	images        ImageResolver
	stories       StoryTable
	fixedDocument string

	sessions    *cache.Cache
	extractions singleflight.Group
	logger      *logger_i.Logger
}

func NewService(deps Deps) Service {
	fixed := deps.FixedDocument
	if fixed == "" {
		fixed = config.FixedDocument()
	}
	return &service{
		extractor:     deps.Extractor,
		generator:     deps.Generator,
		images:        deps.Images,
		stories:       deps.Stories,
		fixedDocument: fixed,
		sessions:      cache.New(config.SessionTTL, 10*time.Minute),
		logger:        logger_i.NewLogger("Orchestrator"),
	}
}

func (s *service) CreateSession(ctx context.Context) string {
	id := uuid.New().String()
	s.sessions.Set(id, newSession(id), cache.DefaultExpiration)
	s.logger.FromContext(ctx).Debug("session created", "sessionId", id)
	return id
}

func (s *service) session(id string) (*session, error) {
	value, found := s.sessions.Get(id)
	if !found {
		return nil, workflowModel.ErrSessionNotFound
	}
	// touch so active sessions do not expire mid use
	s.sessions.Set(id, value, cache.DefaultExpiration)
	return value.(*session), nil
}

// SetDocument replaces the document, resets every workflow to idle and drops
// all cached artifacts and the extraction. In-flight runs are not stopped; the
// epoch bump makes their results stale.
func (s *service) SetDocument(ctx context.Context, sessionID string, doc commonModels.Document) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.epoch++
	sess.doc = doc
	sess.extracted = ""
	for _, kind := range workflowModel.AllKinds {
		sess.workflows[kind] = newWorkflow(sess.workflows[kind].seq)
	}

	s.logger.FromContext(ctx).Info("document set", "sessionId", sessionID, "document", doc.Name, "epoch", sess.epoch)
	return nil
}

func (s *service) Document(ctx context.Context, sessionID string) (commonModels.Document, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return commonModels.Document{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.doc.IsEmpty() {
		return commonModels.Document{}, workflowModel.ErrNoDocument
	}
	return sess.doc, nil
}

func (s *service) Progress(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind) (workflowModel.ProgressState, error) {
	if err := validKind(kind); err != nil {
		return workflowModel.ProgressState{}, err
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return workflowModel.ProgressState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.workflows[kind].state, nil
}

// Artifact returns the stored artifact for kind, empty when there is none.
func (s *service) Artifact(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error) {
	if err := validKind(kind); err != nil {
		return workflowModel.Artifact{}, err
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return workflowModel.Artifact{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if a := sess.workflows[kind].artifact; a != nil {
		return *a, nil
	}
	return workflowModel.Artifact{Kind: kind}, nil
}

// Generate returns the stored artifact when the workflow is done, and runs
// extraction (once per document) plus generation otherwise.
func (s *service) Generate(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error) {
	return s.run(ctx, sessionID, kind, false)
}

// Regenerate clears the artifact and its parsed form, then re-runs generation.
// The cached extraction is reused.
func (s *service) Regenerate(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind) (workflowModel.Artifact, error) {
	return s.run(ctx, sessionID, kind, true)
}
