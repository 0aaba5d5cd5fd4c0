package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
)

type MockLLM struct {
	OnComplete func(ctx context.Context, prompt string) (string, error)
	prompts    []string
}

func (m *MockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.OnComplete != nil {
		return m.OnComplete(ctx, prompt)
	}
	return "mocked llm response", nil
}

func TestGenerator_PromptsEmbedText(t *testing.T) {
	tests := []struct {
		kind     workflowModel.WorkflowKind
		contains []string
	}{
		{workflowModel.Summary, []string{"summarize in detail", "User Weaknesses Personalize Advice:"}},
		{workflowModel.Mcq, []string{"Generate 8 multiple-choice questions", "Answer: Y", "9. Ensure exactly 8 questions"}},
		{workflowModel.Story, []string{"Game Title:", "Chapter Image Prompt:", "- Option 4:", "Success Message:"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			mock := &MockLLM{}
			g := NewGenerator(mock)
			run, err := g.ForKind(tt.kind)
			if err != nil {
				t.Fatal(err)
			}

			if _, err := run(context.Background(), "EXTRACTED-TEXT"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(mock.prompts) != 1 {
				t.Fatalf("expected exactly one completion call, got %d", len(mock.prompts))
			}
			prompt := mock.prompts[0]
			if !strings.Contains(prompt, "EXTRACTED-TEXT") {
				t.Error("prompt does not embed the extracted text")
			}
			for _, c := range tt.contains {
				if !strings.Contains(prompt, c) {
					t.Errorf("prompt missing %q", c)
				}
			}
		})
	}
}

func TestGenerator_ErrorsAreNotRetried(t *testing.T) {
	mock := &MockLLM{OnComplete: func(context.Context, string) (string, error) {
		return "", workflowModel.NewGenerationError("API request failed: 502", nil)
	}}
	g := NewGenerator(mock)

	_, err := g.Summary(context.Background(), "text")

	if !workflowModel.IsGenerationError(err) {
		t.Fatalf("expected generation error, got %v", err)
	}
	if len(mock.prompts) != 1 {
		t.Errorf("expected a single attempt, got %d", len(mock.prompts))
	}
}

func TestGenerator_McqsFromWrongRejectsEmpty(t *testing.T) {
	mock := &MockLLM{}
	g := NewGenerator(mock)

	if _, err := g.McqsFromWrong(context.Background(), "  "); err == nil {
		t.Fatal("expected an error for an empty wrong answer set")
	}
	if len(mock.prompts) != 0 {
		t.Error("no completion call expected")
	}
}

func TestGenerator_LearningPathFallback(t *testing.T) {
	g := NewGenerator(&MockLLM{OnComplete: func(context.Context, string) (string, error) {
		return "", errors.New("down")
	}})

	path := g.LearningPath(context.Background(), "Rust")

	if path.Title != "Learning Rust" || len(path.Steps) != 4 {
		t.Fatalf("unexpected fallback path: %+v", path)
	}
	if path.Steps[3].Title != "Rust Practical Applications" {
		t.Errorf("unexpected last step %q", path.Steps[3].Title)
	}
}

func TestGenerator_LearningPathParsesReply(t *testing.T) {
	g := NewGenerator(&MockLLM{OnComplete: func(context.Context, string) (string, error) {
		return `Here you go {"title":"Rust","description":"d","steps":[{"title":"Ownership","description":"x","searchQuery":"rust ownership"}]}`, nil
	}})

	path := g.LearningPath(context.Background(), "Rust")

	if path.Title != "Rust" || len(path.Steps) != 1 {
		t.Fatalf("unexpected path %+v", path)
	}
}

func TestEnhanceQueryFallback(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"python", "python learn tutorial course python programming guide documentation"},
		{"learn go", "learn go"},
		{"start javascript", "start javascript learn tutorial course for beginners step by step javascript tutorial documentation examples"},
	}
	for _, tt := range tests {
		if got := EnhanceQueryFallback(tt.in); got != tt.want {
			t.Errorf("EnhanceQueryFallback(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerator_SearchQuery(t *testing.T) {
	g := NewGenerator(&MockLLM{OnComplete: func(context.Context, string) (string, error) {
		return `"go concurrency patterns course"`, nil
	}})
	if got := g.SearchQuery(context.Background(), "go"); got != "go concurrency patterns course" {
		t.Errorf("got %q", got)
	}

	failing := NewGenerator(&MockLLM{OnComplete: func(context.Context, string) (string, error) {
		return "", errors.New("down")
	}})
	if got := failing.SearchQuery(context.Background(), "learn go"); got != "learn go" {
		t.Errorf("got %q", got)
	}
}
