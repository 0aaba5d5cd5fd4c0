package mcptools_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/mcptools"
	"github.com/akolanti/StudyAPI/internal/orchestrator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct{}

func (stubExtractor) ExtractText(ctx context.Context, doc commonModels.Document, progress workflowModel.ProgressFunc) (string, error) {
	progress(100, "OCR Complete.")
	return string(doc.Content), nil
}

type stubGenerator struct{}

func (stubGenerator) ForKind(kind workflowModel.WorkflowKind) (func(context.Context, string) (string, error), error) {
	return func(_ context.Context, text string) (string, error) {
		if kind == workflowModel.Mcq {
			return "1. Question: Which keyword defines a function?\nA. func\nB. function\nC. def\nD. lambda\nAnswer: C", nil
		}
		return "Summary of " + text, nil
	}, nil
}
func (stubGenerator) McqsFromWrong(context.Context, string) (string, error) {
	return "1. Question: Retry?\nA. yes\nB. no\nC. maybe\nD. never\nAnswer: A", nil
}
func (stubGenerator) Advice(context.Context, string) (string, error)  { return "", nil }
func (stubGenerator) SearchQuery(_ context.Context, in string) string { return in + " tutorial" }
func (stubGenerator) LearningPath(_ context.Context, topic string) learningModel.LearningPath {
	return learningModel.LearningPath{Title: topic}
}

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	o := orchestrator.NewService(orchestrator.Deps{Extractor: stubExtractor{}, Generator: stubGenerator{}})
	server := mcptools.NewServer(o, "test")

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func call[T any](t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (T, *mcp.CallToolResult) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)

	var out T
	if !res.IsError {
		raw, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return out, res
}

func TestTools_DocumentToQuestions(t *testing.T) {
	session := connect(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("python basics"), 0o600))

	loaded, res := call[mcptools.LoadDocumentOutput](t, session, "load_document", map[string]any{"path": path})
	require.False(t, res.IsError)
	assert.Equal(t, "notes.txt", loaded.Name)
	require.NotEmpty(t, loaded.SessionId)

	summary, res := call[mcptools.WorkflowOutput](t, session, "generate", map[string]any{"session_id": loaded.SessionId, "kind": "summary"})
	require.False(t, res.IsError)
	assert.Equal(t, "done", summary.Phase)
	assert.Equal(t, "Summary Done.", summary.StatusMessage)
	assert.Equal(t, "Summary of python basics", summary.Raw)

	_, res = call[mcptools.WorkflowOutput](t, session, "generate", map[string]any{"session_id": loaded.SessionId, "kind": "mcq"})
	require.False(t, res.IsError)
	questions, res := call[mcptools.QuestionsOutput](t, session, "get_questions", map[string]any{"session_id": loaded.SessionId})
	require.False(t, res.IsError)
	require.Len(t, questions.Questions, 1)
	assert.Equal(t, "C", questions.Questions[0].CorrectOptionId)

	retried, res := call[mcptools.QuestionsOutput](t, session, "retry_wrong", map[string]any{"session_id": loaded.SessionId, "wrong_ids": []int{1}})
	require.False(t, res.IsError)
	require.Len(t, retried.Questions, 1)
	assert.Equal(t, "Retry?", retried.Questions[0].Text)
}

func TestTools_Errors(t *testing.T) {
	session := connect(t)

	_, res := call[mcptools.LoadDocumentOutput](t, session, "load_document", map[string]any{"path": "/does/not/exist.pdf"})
	assert.True(t, res.IsError)

	_, res = call[mcptools.WorkflowOutput](t, session, "generate", map[string]any{"session_id": "missing", "kind": "summary"})
	assert.True(t, res.IsError)

	_, res = call[mcptools.WorkflowOutput](t, session, "workflow_status", map[string]any{"session_id": "missing", "kind": "poem"})
	assert.True(t, res.IsError)
}

func TestTools_LearningPath(t *testing.T) {
	session := connect(t)
	out, res := call[mcptools.LearningPathOutput](t, session, "learning_path", map[string]any{"input": "go"})
	require.False(t, res.IsError)
	assert.Equal(t, "go tutorial", out.SearchQuery)
	assert.Equal(t, "go", out.Path.Title)
}
