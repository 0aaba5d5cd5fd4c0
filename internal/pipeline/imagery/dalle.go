package imagery

import (
	"context"
	"net/http"
	"strings"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/customHttpClient"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type DalleGenerator struct {
	api    openai.Client
	hasKey bool
}

func NewDalleGenerator(apiKey string, httpClient *http.Client, opts ...option.RequestOption) *DalleGenerator {
	if httpClient == nil {
		httpClient = customHttpClient.NewPooledClient(config.LLMRequestTimeout)
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}, opts...)
	return &DalleGenerator{
		api:    openai.NewClient(opts...),
		hasKey: strings.TrimSpace(apiKey) != "",
	}
}

func (d *DalleGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if !d.hasKey {
		return "", workflowModel.NewConfigurationError("OpenAI API key is not configured. Check .env file and restart server.", nil)
	}

	resp, err := d.api.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(config.ImageModel),
		N:      openai.Int(1),
		Size:   openai.ImageGenerateParamsSize1024x1792,
	})
	if err != nil {
		return "", workflowModel.NewImageError("Failed to generate image. Please try again.", err)
	}
	if resp == nil || len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", workflowModel.NewImageError("Image generation did not return a valid URL.", nil)
	}
	return resp.Data[0].URL, nil
}
