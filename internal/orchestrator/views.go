package orchestrator

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/pipeline/parse"
)

// Questions parses the MCQ artifact on first use and caches the result until
// the artifact changes.
func (s *service) Questions(ctx context.Context, sessionID string) ([]learningModel.Question, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	wf := sess.workflows[workflowModel.Mcq]
	if wf.artifact.IsEmpty() {
		return nil, workflowModel.ErrNoQuestions
	}
	if wf.questions == nil {
		wf.questions = parse.ParseMcqs(wf.artifact.Raw)
	}
	if len(wf.questions) == 0 {
		return nil, workflowModel.ErrNoQuestions
	}
	return learningModel.CloneQuestions(wf.questions), nil
}

func (s *service) StoryGame(ctx context.Context, sessionID string) (*learningModel.StoryGame, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	wf := sess.workflows[workflowModel.Story]
	if wf.artifact.IsEmpty() {
		return nil, workflowModel.ErrNoArtifact
	}
	if wf.story == nil {
		wf.story = parse.DecodeStoredStory(wf.artifact.Raw)
	}
	if wf.story == nil {
		return nil, workflowModel.ErrNoArtifact
	}
	return wf.story.Clone(), nil
}

func (s *service) Summary(ctx context.Context, sessionID string) (string, string, error) {
	artifact, err := s.Artifact(ctx, sessionID, workflowModel.Summary)
	if err != nil {
		return "", "", err
	}
	if artifact.IsEmpty() {
		return "", "", workflowModel.ErrNoArtifact
	}
	summary, advice := parse.SplitSummary(artifact.Raw)
	return summary, advice, nil
}

// AdviseOnMistake asks for short study advice about one missed question.
func (s *service) AdviseOnMistake(ctx context.Context, sessionID string, questionID int, chosen string) (string, error) {
	chosen = strings.ToUpper(strings.TrimSpace(chosen))
	if !slices.Contains(learningModel.OptionIds, chosen) {
		return "", fmt.Errorf("invalid option %q", chosen)
	}
	questions, err := s.Questions(ctx, sessionID)
	if err != nil {
		return "", err
	}
	idx := slices.IndexFunc(questions, func(q learningModel.Question) bool { return q.Id == questionID })
	if idx < 0 {
		return "", fmt.Errorf("%w: %d", workflowModel.ErrQuestionNotFound, questionID)
	}
	return s.generator.Advice(ctx, parse.FormatWrongAnswer(questions[idx], chosen))
}

// LearningPath never fails, both calls have fallbacks.
func (s *service) LearningPath(ctx context.Context, input string) (string, learningModel.LearningPath) {
	query := s.generator.SearchQuery(ctx, input)
	return query, s.generator.LearningPath(ctx, input)
}

func (s *service) ResolveImage(ctx context.Context, sessionID string, chapterIndex int, prompt string) (string, error) {
	doc, err := s.Document(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if s.images == nil {
		return "", workflowModel.NewConfigurationError("Image lookup is not configured.", nil)
	}
	return s.images.ResolveImage(ctx, prompt, doc.Identity(), chapterIndex)
}

func (s *service) wrongAnswerBlock(ctx context.Context, sessionID string, wrongIDs []int) (string, error) {
	questions, err := s.Questions(ctx, sessionID)
	if err != nil {
		return "", err
	}
	selected := make([]learningModel.Question, 0, len(wrongIDs))
	for _, id := range wrongIDs {
		idx := slices.IndexFunc(questions, func(q learningModel.Question) bool { return q.Id == id })
		if idx < 0 {
			return "", fmt.Errorf("%w: %d", workflowModel.ErrQuestionNotFound, id)
		}
		selected = append(selected, questions[idx])
	}
	return parse.FormatQuestions(selected), nil
}
