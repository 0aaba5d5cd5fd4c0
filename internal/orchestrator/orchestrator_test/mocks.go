package orchestrator_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
)

// MockExtractor implements orchestrator.Extractor
type MockExtractor struct {
	OnExtractText func(ctx context.Context, doc commonModels.Document, progress workflowModel.ProgressFunc) (string, error)
	calls         atomic.Int32
}

func (m *MockExtractor) ExtractText(ctx context.Context, doc commonModels.Document, progress workflowModel.ProgressFunc) (string, error) {
	m.calls.Add(1)
	if m.OnExtractText != nil {
		return m.OnExtractText(ctx, doc, progress)
	}
	progress(20, "Processing 1 pages...")
	progress(100, "OCR Complete.")
	return "extracted text\n", nil
}

func (m *MockExtractor) Calls() int {
	return int(m.calls.Load())
}

// MockGenerator implements orchestrator.Generator
type MockGenerator struct {
	OnGenerate      func(ctx context.Context, kind workflowModel.WorkflowKind, text string) (string, error)
	OnMcqsFromWrong func(ctx context.Context, blocks string) (string, error)
	OnAdvice        func(ctx context.Context, block string) (string, error)

	mu    sync.Mutex
	calls map[workflowModel.WorkflowKind]int
}

func (m *MockGenerator) ForKind(kind workflowModel.WorkflowKind) (func(context.Context, string) (string, error), error) {
	return func(ctx context.Context, text string) (string, error) {
		m.mu.Lock()
		if m.calls == nil {
			m.calls = make(map[workflowModel.WorkflowKind]int)
		}
		m.calls[kind]++
		m.mu.Unlock()
		if m.OnGenerate != nil {
			return m.OnGenerate(ctx, kind, text)
		}
		return defaultRaw(kind), nil
	}, nil
}

func (m *MockGenerator) Calls(kind workflowModel.WorkflowKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[kind]
}

func (m *MockGenerator) McqsFromWrong(ctx context.Context, blocks string) (string, error) {
	if m.OnMcqsFromWrong != nil {
		return m.OnMcqsFromWrong(ctx, blocks)
	}
	return mcqRaw, nil
}

func (m *MockGenerator) Advice(ctx context.Context, block string) (string, error) {
	if m.OnAdvice != nil {
		return m.OnAdvice(ctx, block)
	}
	return "Review list slicing.", nil
}

func (m *MockGenerator) SearchQuery(ctx context.Context, input string) string {
	return input + " tutorial"
}

func (m *MockGenerator) LearningPath(ctx context.Context, topic string) learningModel.LearningPath {
	return learningModel.LearningPath{Title: topic}
}

// MockImages implements orchestrator.ImageResolver
type MockImages struct {
	OnResolveImage func(ctx context.Context, prompt, identity string, chapter int) (string, error)
}

func (m *MockImages) ResolveImage(ctx context.Context, prompt, identity string, chapter int) (string, error) {
	if m.OnResolveImage != nil {
		return m.OnResolveImage(ctx, prompt, identity, chapter)
	}
	return "https://img/" + identity, nil
}

// MockStories implements orchestrator.StoryTable
type MockStories struct {
	Rows map[int]string
}

func (m *MockStories) GetStory(ctx context.Context, id int) (string, bool, error) {
	raw, ok := m.Rows[id]
	return raw, ok, nil
}

const mcqRaw = `1. Question: What does len([1, 2, 3]) return?
A. 2
B. 3
C. 4
D. An error
Answer: B

2. Question: Which keyword defines a function in Python?
A. func
B. function
C. def
D. lambda
Answer: C`

const summaryRaw = `Python is a general purpose language.

User Weaknesses Personalize Advice:
Practice loops.`

const storyRaw = `Game Title: Snake Quest
Game Description: Learn Python on an island.
Theme: adventure
Game Image Prompt: a tropical island
---
Chapter Name: The Beach
Description: You land on the beach.
Chapter Image Prompt: sandy beach
Question: What prints text?
Options:
1. print
2. echo
3. say
4. write
Answers and Explanations:
- Option 1: Correct! print writes to stdout.
- Option 2: Incorrect, that is shell.
- Option 3: Incorrect.
- Option 4: Incorrect.
Success Message: You cross the beach.`

func defaultRaw(kind workflowModel.WorkflowKind) string {
	switch kind {
	case workflowModel.Mcq:
		return mcqRaw
	case workflowModel.Story:
		return storyRaw
	}
	return summaryRaw
}
