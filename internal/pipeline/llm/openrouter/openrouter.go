package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/customHttpClient"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/pipeline/llm"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const missingKeyMessage = "OpenRouter API key is not configured. Check .env file and restart server."

type llmClient struct {
	api       openai.Client
	modelName string
	hasKey    bool
	logger    *logger_i.Logger
}

// NewClient talks to any OpenAI compatible chat completions endpoint; by
// default the OpenRouter one.
func NewClient(apiKey string, baseURL string, modelName string, httpClient *http.Client) llm.Provider {
	if httpClient == nil {
		httpClient = customHttpClient.NewPooledClient(config.LLMRequestTimeout)
	}
	return &llmClient{
		api: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(0),
		),
		modelName: modelName,
		hasKey:    strings.TrimSpace(apiKey) != "",
		logger:    logger_i.NewLogger("llm_openrouter"),
	}
}

func (c *llmClient) Complete(ctx context.Context, prompt string) (string, error) {
	log := c.logger.FromContext(ctx)
	if !c.hasKey {
		return "", workflowModel.NewConfigurationError(missingKeyMessage, nil)
	}

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			log.Error("completion request rejected", "status", apiErr.StatusCode, "error", err)
			return "", workflowModel.NewGenerationError(
				fmt.Sprintf("API request failed: %d %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode)), err)
		}
		log.Error("completion request failed", "error", err)
		return "", workflowModel.NewGenerationError("API request failed.", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		log.Warn("completion response had no content", "model", c.modelName)
		return "", workflowModel.NewGenerationError("AI response did not contain any content.", nil)
	}

	log.Debug("completion received", "model", c.modelName, "elapsed", time.Since(start))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
