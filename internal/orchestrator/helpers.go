package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

type statusText struct {
	start    string
	request  string
	received string
	done     string
	failed   string
}

var statuses = map[workflowModel.WorkflowKind]statusText{
	workflowModel.Summary: {
		start:    "Starting summary process...",
		request:  "Requesting summary from AI...",
		received: "Summary received.",
		done:     "Summary Done.",
		failed:   "AI summary request failed.",
	},
	workflowModel.Mcq: {
		start:    "Starting MCQ generation process...",
		request:  "Requesting MCQs from AI...",
		received: "MCQs received.",
		done:     "MCQs Done.",
		failed:   "AI MCQ request failed.",
	},
	workflowModel.Story: {
		start:    "Starting Story Game generation process...",
		request:  "Requesting Story Game from AI...",
		received: "Story Game received.",
		done:     "Story Game Done.",
		failed:   "AI Story Game request failed.",
	},
}

const extractionFailedStatus = "Error during OCR."

func (s *service) run(ctx context.Context, sessionID string, kind workflowModel.WorkflowKind, regenerate bool) (workflowModel.Artifact, error) {
	if err := validKind(kind); err != nil {
		return workflowModel.Artifact{}, err
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return workflowModel.Artifact{}, err
	}
	log := s.logger.FromContext(ctx).With("sessionId", sessionID, "workflow", kind)
	text := statuses[kind]

	sess.mu.Lock()
	if sess.doc.IsEmpty() {
		sess.mu.Unlock()
		return workflowModel.Artifact{}, workflowModel.ErrNoDocument
	}
	wf := sess.workflows[kind]
	if !regenerate && wf.state.Phase == workflowModel.PhaseDone && !wf.artifact.IsEmpty() {
		stored := *wf.artifact
		sess.mu.Unlock()
		log.Debug("workflow already done, returning stored artifact")
		return stored, nil
	}
	wf.seq++
	epoch, seq, doc := sess.epoch, wf.seq, sess.doc
	wf.clear()
	wf.state = workflowModel.ProgressState{
		Phase:         workflowModel.PhaseExtracting,
		StatusMessage: text.start,
		UpdatedAt:     time.Now(),
	}
	sess.mu.Unlock()

	log = log.With("epoch", epoch, "seq", seq)
	log.Info("workflow started", "regenerate", regenerate)

	runCtx, cancel := context.WithTimeout(ctx, config.WorkflowTimeout)
	defer cancel()

	extracted, err := s.executeExtractionStep(runCtx, log, sess, epoch, doc)
	if err != nil {
		return s.fail(sess, kind, epoch, seq, extractionFailedStatus, err, log)
	}

	if !s.advance(sess, kind, epoch, seq, text.request) {
		log.Info("discarding stale extraction result")
		return workflowModel.Artifact{}, workflowModel.ErrStaleResult
	}

	raw, err := s.executeGenerationStep(runCtx, log, kind, doc, extracted)
	if err != nil {
		return s.fail(sess, kind, epoch, seq, text.failed, err, log)
	}
	log.Debug(text.received, "chars", len(raw))

	return s.commit(sess, kind, epoch, seq, raw, text.done, log)
}

// RegenerateFromWrong asks for a fresh MCQ set built from the questions the
// user missed. Extraction is never involved.
func (s *service) RegenerateFromWrong(ctx context.Context, sessionID string, wrongIDs []int) (workflowModel.Artifact, error) {
	if len(wrongIDs) == 0 {
		return workflowModel.Artifact{}, fmt.Errorf("%w: no wrong question ids given", workflowModel.ErrNoQuestions)
	}
	block, err := s.wrongAnswerBlock(ctx, sessionID, wrongIDs)
	if err != nil {
		return workflowModel.Artifact{}, err
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return workflowModel.Artifact{}, err
	}
	kind := workflowModel.Mcq
	text := statuses[kind]

	sess.mu.Lock()
	wf := sess.workflows[kind]
	wf.seq++
	epoch, seq := sess.epoch, wf.seq
	wf.clear()
	wf.state = workflowModel.ProgressState{
		Phase:         workflowModel.PhaseGenerating,
		StatusMessage: text.request,
		UpdatedAt:     time.Now(),
	}
	sess.mu.Unlock()

	log := s.logger.FromContext(ctx).With("sessionId", sessionID, "workflow", kind, "epoch", epoch, "seq", seq)
	log.Info("regenerating from wrong answers", "wrongIds", wrongIDs)

	runCtx, cancel := context.WithTimeout(ctx, config.WorkflowTimeout)
	defer cancel()

	raw, err := s.executeRetryStep(runCtx, log, block)
	if err != nil {
		return s.fail(sess, kind, epoch, seq, text.failed, err, log)
	}
	return s.commit(sess, kind, epoch, seq, raw, text.done, log)
}

func (s *service) executeExtractionStep(ctx context.Context, log *logger_i.Logger, sess *session, epoch uint64, doc commonModels.Document) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("workflow_extraction", time.Since(start)) }()

	sess.mu.Lock()
	if sess.epoch == epoch && sess.extracted != "" {
		cached := sess.extracted
		sess.mu.Unlock()
		log.Debug("reusing cached extraction")
		return cached, nil
	}
	sess.mu.Unlock()

	key := fmt.Sprintf("%s:%d", sess.id, epoch)
	value, err, shared := s.extractions.Do(key, func() (interface{}, error) {
		// a flight that finished between the check above and Do already cached it
		sess.mu.Lock()
		if sess.epoch == epoch && sess.extracted != "" {
			cached := sess.extracted
			sess.mu.Unlock()
			return cached, nil
		}
		sess.mu.Unlock()

		// the flight outlives any single caller; sharers must not fail when the first one cancels
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.WorkflowTimeout)
		defer cancel()
		text, err := s.extractor.ExtractText(flightCtx, doc, s.extractionProgress(sess, epoch))
		if err != nil {
			return "", err
		}
		sess.mu.Lock()
		if sess.epoch == epoch {
			sess.extracted = text
		}
		sess.mu.Unlock()
		return text, nil
	})
	if err != nil {
		log.Error("extraction failed", "error", err)
		return "", err
	}
	log.Debug("extraction finished", "shared", shared)
	return value.(string), nil
}

// extractionProgress fans one extraction's progress out to every workflow of
// the same epoch that is waiting on it.
func (s *service) extractionProgress(sess *session, epoch uint64) workflowModel.ProgressFunc {
	return func(percent int, status string) {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if sess.epoch != epoch {
			return
		}
		for _, wf := range sess.workflows {
			if wf.state.Phase != workflowModel.PhaseExtracting || percent < wf.state.Percent {
				continue
			}
			wf.state.Percent = percent
			wf.state.StatusMessage = status
			wf.state.UpdatedAt = time.Now()
		}
	}
}

func (s *service) executeGenerationStep(ctx context.Context, log *logger_i.Logger, kind workflowModel.WorkflowKind, doc commonModels.Document, extracted string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("workflow_generation", time.Since(start)) }()

	if kind == workflowModel.Story && doc.Identity() == s.fixedDocument {
		return s.fixedStory(ctx, log)
	}
	generate, err := s.generator.ForKind(kind)
	if err != nil {
		return "", err
	}
	return generate(ctx, extracted)
}

func (s *service) executeRetryStep(ctx context.Context, log *logger_i.Logger, block string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("workflow_retry_wrong", time.Since(start)) }()

	log.Debug("sending wrong answer blocks", "chars", len(block))
	return s.generator.McqsFromWrong(ctx, block)
}

// fixedStory serves the stored story row for the fixed document.
func (s *service) fixedStory(ctx context.Context, log *logger_i.Logger) (string, error) {
	if s.stories == nil {
		return "", workflowModel.NewConfigurationError("Story storage is not configured.", nil)
	}
	raw, found, err := s.stories.GetStory(ctx, config.FixedStoryId)
	if err != nil {
		return "", workflowModel.NewGenerationError("Failed to fetch story data from storage.", err)
	}
	if !found || raw == "" {
		return "", workflowModel.NewGenerationError("Story not found in storage.", nil)
	}
	log.Debug("using stored story", "storyId", config.FixedStoryId)
	return raw, nil
}

// advance moves a run from extracting to generating. False means the run is stale.
func (s *service) advance(sess *session, kind workflowModel.WorkflowKind, epoch uint64, seq uint64, status string) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.current(kind, epoch, seq) {
		return false
	}
	wf := sess.workflows[kind]
	wf.state = workflowModel.ProgressState{
		Phase:         workflowModel.PhaseGenerating,
		Percent:       100,
		StatusMessage: status,
		UpdatedAt:     time.Now(),
	}
	return true
}

func (s *service) commit(sess *session, kind workflowModel.WorkflowKind, epoch uint64, seq uint64, raw string, status string, log *logger_i.Logger) (workflowModel.Artifact, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.current(kind, epoch, seq) {
		log.Info("discarding stale generation result")
		return workflowModel.Artifact{}, workflowModel.ErrStaleResult
	}

	artifact := &workflowModel.Artifact{Kind: kind, Raw: raw, GeneratedAt: time.Now()}
	wf := sess.workflows[kind]
	wf.clear()
	wf.artifact = artifact
	wf.state = workflowModel.ProgressState{
		Phase:         workflowModel.PhaseDone,
		Percent:       100,
		StatusMessage: status,
		UpdatedAt:     time.Now(),
	}
	metrics.CaptureWorkflowOutcome(string(kind), string(workflowModel.PhaseDone))
	log.Info("workflow done")
	return *artifact, nil
}

func (s *service) fail(sess *session, kind workflowModel.WorkflowKind, epoch uint64, seq uint64, status string, cause error, log *logger_i.Logger) (workflowModel.Artifact, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.current(kind, epoch, seq) {
		log.Info("discarding stale failure", "error", cause)
		return workflowModel.Artifact{}, workflowModel.ErrStaleResult
	}

	sess.workflows[kind].state = workflowModel.ProgressState{
		Phase:         workflowModel.PhaseError,
		StatusMessage: status,
		ErrorMessage:  workflowModel.UserMessage(cause),
		UpdatedAt:     time.Now(),
	}
	metrics.CaptureWorkflowOutcome(string(kind), string(workflowModel.PhaseError))
	log.Error("workflow failed", "error", cause)
	return workflowModel.Artifact{}, cause
}
