package mcptools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akolanti/StudyAPI/internal/adapter/utils"
	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/orchestrator"
	"github.com/akolanti/StudyAPI/internal/pipeline/extract"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tools exposes the orchestrator to mcp clients. Runs are synchronous: a
// generate call returns once the workflow is done or failed.
type Tools struct {
	orchestrator orchestrator.Service
	logger       *logger_i.Logger
}

type LoadDocumentInput struct {
	Path string `json:"path" jsonschema:"path of the pdf, docx, odt, rtf or txt file to study"`
}

type LoadDocumentOutput struct {
	SessionId string `json:"session_id"`
	Name      string `json:"doc_name"`
	PageCount int    `json:"page_count"`
}

type GenerateInput struct {
	SessionId  string `json:"session_id" jsonschema:"session returned by load_document"`
	Kind       string `json:"kind" jsonschema:"summary, mcq or story"`
	Regenerate bool   `json:"regenerate,omitempty" jsonschema:"discard the stored result and generate again"`
}

type WorkflowOutput struct {
	Kind          string `json:"kind"`
	Phase         string `json:"phase"`
	Percent       int    `json:"percent"`
	StatusMessage string `json:"status_message"`
	ErrorMessage  string `json:"error_message,omitempty"`
	Raw           string `json:"raw,omitempty"`
}

type StatusInput struct {
	SessionId string `json:"session_id" jsonschema:"session returned by load_document"`
	Kind      string `json:"kind" jsonschema:"summary, mcq or story"`
}

type SessionInput struct {
	SessionId string `json:"session_id" jsonschema:"session returned by load_document"`
}

type QuestionsOutput struct {
	Questions []learningModel.Question `json:"questions"`
}

type RetryWrongInput struct {
	SessionId string `json:"session_id" jsonschema:"session returned by load_document"`
	WrongIds  []int  `json:"wrong_ids" jsonschema:"ids of the questions answered wrong"`
}

type ImageInput struct {
	SessionId    string `json:"session_id" jsonschema:"session returned by load_document"`
	ChapterIndex int    `json:"chapter_index" jsonschema:"zero based chapter index"`
	Prompt       string `json:"prompt,omitempty" jsonschema:"image prompt of the chapter"`
}

type ImageOutput struct {
	URL string `json:"url"`
}

type LearningPathInput struct {
	Input string `json:"input" jsonschema:"topic to learn"`
}

type LearningPathOutput struct {
	SearchQuery string                     `json:"search_query"`
	Path        learningModel.LearningPath `json:"path"`
}

func NewServer(o orchestrator.Service, version string) *mcp.Server {
	t := &Tools{orchestrator: o, logger: logger_i.NewLogger("mcp")}
	server := mcp.NewServer(&mcp.Implementation{Name: "studytool", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{Name: "load_document", Description: "Open a new study session from a local document"}, t.loadDocument)
	mcp.AddTool(server, &mcp.Tool{Name: "generate", Description: "Run the summary, mcq or story workflow and return its raw result"}, t.generate)
	mcp.AddTool(server, &mcp.Tool{Name: "workflow_status", Description: "Progress of one workflow"}, t.workflowStatus)
	mcp.AddTool(server, &mcp.Tool{Name: "get_questions", Description: "Parsed multiple choice questions of the session"}, t.questions)
	mcp.AddTool(server, &mcp.Tool{Name: "retry_wrong", Description: "New questions built from the ones answered wrong"}, t.retryWrong)
	mcp.AddTool(server, &mcp.Tool{Name: "resolve_image", Description: "Image url for a story chapter"}, t.resolveImage)
	mcp.AddTool(server, &mcp.Tool{Name: "learning_path", Description: "Search query and staged learning path for a topic"}, t.learningPath)
	return server
}

func (t *Tools) loadDocument(ctx context.Context, _ *mcp.CallToolRequest, in LoadDocumentInput) (*mcp.CallToolResult, LoadDocumentOutput, error) {
	content, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, LoadDocumentOutput{}, fmt.Errorf("read document: %w", err)
	}
	doc, err := extract.NewDocument(utils.GetNewUUID(), filepath.Base(in.Path), content)
	if err != nil {
		return nil, LoadDocumentOutput{}, err
	}
	sessionId := t.orchestrator.CreateSession(ctx)
	if err := t.orchestrator.SetDocument(ctx, sessionId, doc); err != nil {
		return nil, LoadDocumentOutput{}, err
	}
	t.logger.FromContext(ctx).Info("document loaded", "sessionId", sessionId, "document", doc.Name)
	return nil, LoadDocumentOutput{SessionId: sessionId, Name: doc.Name, PageCount: doc.PageCount}, nil
}

func (t *Tools) generate(ctx context.Context, _ *mcp.CallToolRequest, in GenerateInput) (*mcp.CallToolResult, WorkflowOutput, error) {
	kind, err := workflowModel.ParseKind(in.Kind)
	if err != nil {
		return nil, WorkflowOutput{}, err
	}
	if in.Regenerate {
		_, err = t.orchestrator.Regenerate(ctx, in.SessionId, kind)
	} else {
		_, err = t.orchestrator.Generate(ctx, in.SessionId, kind)
	}
	if err != nil {
		return nil, WorkflowOutput{}, fmt.Errorf("%s failed: %s", kind.Label(), workflowModel.UserMessage(err))
	}
	return t.workflow(ctx, in.SessionId, kind)
}

func (t *Tools) workflowStatus(ctx context.Context, _ *mcp.CallToolRequest, in StatusInput) (*mcp.CallToolResult, WorkflowOutput, error) {
	kind, err := workflowModel.ParseKind(in.Kind)
	if err != nil {
		return nil, WorkflowOutput{}, err
	}
	return t.workflow(ctx, in.SessionId, kind)
}

func (t *Tools) workflow(ctx context.Context, sessionId string, kind workflowModel.WorkflowKind) (*mcp.CallToolResult, WorkflowOutput, error) {
	state, err := t.orchestrator.Progress(ctx, sessionId, kind)
	if err != nil {
		return nil, WorkflowOutput{}, err
	}
	artifact, err := t.orchestrator.Artifact(ctx, sessionId, kind)
	if err != nil {
		return nil, WorkflowOutput{}, err
	}
	return nil, WorkflowOutput{
		Kind:          string(kind),
		Phase:         string(state.Phase),
		Percent:       state.Percent,
		StatusMessage: state.StatusMessage,
		ErrorMessage:  state.ErrorMessage,
		Raw:           artifact.Raw,
	}, nil
}

func (t *Tools) questions(ctx context.Context, _ *mcp.CallToolRequest, in SessionInput) (*mcp.CallToolResult, QuestionsOutput, error) {
	questions, err := t.orchestrator.Questions(ctx, in.SessionId)
	if err != nil {
		return nil, QuestionsOutput{}, err
	}
	return nil, QuestionsOutput{Questions: questions}, nil
}

func (t *Tools) retryWrong(ctx context.Context, req *mcp.CallToolRequest, in RetryWrongInput) (*mcp.CallToolResult, QuestionsOutput, error) {
	if _, err := t.orchestrator.RegenerateFromWrong(ctx, in.SessionId, in.WrongIds); err != nil {
		return nil, QuestionsOutput{}, err
	}
	return t.questions(ctx, req, SessionInput{SessionId: in.SessionId})
}

func (t *Tools) resolveImage(ctx context.Context, _ *mcp.CallToolRequest, in ImageInput) (*mcp.CallToolResult, ImageOutput, error) {
	link, err := t.orchestrator.ResolveImage(ctx, in.SessionId, in.ChapterIndex, in.Prompt)
	if err != nil {
		return nil, ImageOutput{}, errors.New(workflowModel.UserMessage(err))
	}
	return nil, ImageOutput{URL: link}, nil
}

func (t *Tools) learningPath(ctx context.Context, _ *mcp.CallToolRequest, in LearningPathInput) (*mcp.CallToolResult, LearningPathOutput, error) {
	query, path := t.orchestrator.LearningPath(ctx, in.Input)
	return nil, LearningPathOutput{SearchQuery: query, Path: path}, nil
}
