package gemini

import (
	"context"
	"strings"

	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/pipeline/llm"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

// GetGeminiClient returns an llm.Unconfigured provider when the key is absent
// or the client cannot be built, so callers see a configuration error per call.
func GetGeminiClient(ctx context.Context, apikey string, modelName string) llm.Provider {
	logger := logger_i.NewLogger("llm_gemini")
	if strings.TrimSpace(apikey) == "" {
		return llm.Unconfigured{Err: workflowModel.NewConfigurationError("Gemini API key is not configured. Check .env file and restart server.", nil)}
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return llm.Unconfigured{Err: workflowModel.NewConfigurationError("Gemini client could not be created.", err)}
	}
	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, logger: logger}
}

func (c *llmClient) Complete(ctx context.Context, prompt string) (string, error) {
	log := c.logger.FromContext(ctx)

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		log.Error("gemini generate failed", "error", err)
		return "", workflowModel.NewGenerationError("AI request failed.", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", workflowModel.NewGenerationError("AI response did not contain any content.", nil)
	}
	return text, nil
}
