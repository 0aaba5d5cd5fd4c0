package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/metrics"
	"github.com/akolanti/StudyAPI/internal/pipeline/llm"
	"github.com/akolanti/StudyAPI/internal/pipeline/parse"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

// Generator renders a fixed prompt per workflow and makes exactly one
// completion call. Retries are the caller's job.
type Generator struct {
	provider llm.Provider
	logger   *logger_i.Logger
}

func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger_i.NewLogger("Generator"),
	}
}

func (g *Generator) complete(ctx context.Context, label string, prompt string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_"+label, time.Since(start)) }()

	g.logger.FromContext(ctx).Debug("requesting completion", "workflow", label, "promptChars", len(prompt))
	return g.provider.Complete(ctx, prompt)
}

func (g *Generator) Summary(ctx context.Context, text string) (string, error) {
	return g.complete(ctx, string(workflowModel.Summary), summaryPrompt(text))
}

func (g *Generator) Mcqs(ctx context.Context, text string) (string, error) {
	return g.complete(ctx, string(workflowModel.Mcq), mcqPrompt(text))
}

// McqsFromWrong feeds previously missed question blocks in place of document text.
func (g *Generator) McqsFromWrong(ctx context.Context, wrongBlocks string) (string, error) {
	if strings.TrimSpace(wrongBlocks) == "" {
		return "", workflowModel.NewGenerationError("No wrong answers to build questions from.", nil)
	}
	return g.complete(ctx, "mcq_retry", mcqPrompt(wrongBlocks))
}

func (g *Generator) StoryGame(ctx context.Context, text string) (string, error) {
	return g.complete(ctx, string(workflowModel.Story), storyPrompt(text))
}

// ForKind maps a workflow to its generation call.
func (g *Generator) ForKind(kind workflowModel.WorkflowKind) (func(context.Context, string) (string, error), error) {
	switch kind {
	case workflowModel.Summary:
		return g.Summary, nil
	case workflowModel.Mcq:
		return g.Mcqs, nil
	case workflowModel.Story:
		return g.StoryGame, nil
	}
	return nil, fmt.Errorf("no generator for workflow %q", kind)
}

func (g *Generator) Advice(ctx context.Context, wrongBlock string) (string, error) {
	return g.complete(ctx, "advice", advicePrompt(wrongBlock))
}

// SearchQuery never fails; on any error it falls back to keyword enrichment.
func (g *Generator) SearchQuery(ctx context.Context, input string) string {
	query, err := g.complete(ctx, "search_query", searchQueryPrompt(input))
	if err != nil || strings.TrimSpace(query) == "" {
		g.logger.FromContext(ctx).Warn("search query generation failed, using fallback", "error", err)
		return EnhanceQueryFallback(input)
	}
	return strings.Trim(strings.TrimSpace(query), `"`)
}

// LearningPath never fails; a failed call or unparsable reply gives the
// four step fallback path.
func (g *Generator) LearningPath(ctx context.Context, topic string) learningModel.LearningPath {
	log := g.logger.FromContext(ctx).With("topic", topic)
	raw, err := g.complete(ctx, "learning_path", learningPathPrompt(topic))
	if err != nil {
		log.Warn("learning path generation failed, using fallback", "error", err)
		return FallbackLearningPath(topic)
	}
	path, ok := parse.ParseLearningPath(raw)
	if !ok {
		log.Warn("learning path reply could not be parsed, using fallback")
		return FallbackLearningPath(topic)
	}
	return path
}

func FallbackLearningPath(topic string) learningModel.LearningPath {
	return learningModel.LearningPath{
		Title:       "Learning " + topic,
		Description: "A basic guide to learning about " + topic,
		Steps: []learningModel.LearningStep{
			{
				Title:       topic + " Fundamentals",
				Description: "Learn the basic concepts and principles of " + topic,
				SearchQuery: topic + " fundamentals basics tutorial beginners",
			},
			{
				Title:       topic + " Core Techniques",
				Description: "Master the essential techniques and methodologies in " + topic,
				SearchQuery: topic + " essential techniques tutorial",
			},
			{
				Title:       topic + " Advanced Concepts",
				Description: "Explore advanced concepts and applications of " + topic,
				SearchQuery: topic + " advanced concepts tutorial",
			},
			{
				Title:       topic + " Practical Applications",
				Description: "Apply your knowledge in real-world " + topic + " projects",
				SearchQuery: topic + " practical projects applications examples",
			},
		},
	}
}

var topicHints = []struct {
	keyword string
	suffix  string
}{
	{"javascript", " javascript tutorial documentation examples"},
	{"python", " python programming guide documentation"},
	{"web development", " web development html css javascript resources"},
}

func EnhanceQueryFallback(input string) string {
	query := input
	lower := strings.ToLower(query)
	if !containsAny(lower, "learn", "tutorial", "course") {
		query += " learn tutorial course"
	}
	if containsAny(strings.ToLower(query), "beginner", "start", "new to") {
		query += " for beginners step by step"
	}
	lower = strings.ToLower(query)
	for _, hint := range topicHints {
		if strings.Contains(lower, hint.keyword) {
			query += hint.suffix
			break
		}
	}
	return query
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
