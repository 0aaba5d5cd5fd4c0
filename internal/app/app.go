package app

import (
	"context"

	"github.com/akolanti/StudyAPI/internal/config"
	"github.com/akolanti/StudyAPI/internal/customHttpClient"
	"github.com/akolanti/StudyAPI/internal/data/store"
	"github.com/akolanti/StudyAPI/internal/orchestrator"
	"github.com/akolanti/StudyAPI/internal/pipeline/extract"
	"github.com/akolanti/StudyAPI/internal/pipeline/generate"
	"github.com/akolanti/StudyAPI/internal/pipeline/imagery"
	"github.com/akolanti/StudyAPI/internal/pipeline/llm"
	"github.com/akolanti/StudyAPI/internal/pipeline/llm/gemini"
	"github.com/akolanti/StudyAPI/internal/pipeline/llm/openrouter"
	"github.com/akolanti/StudyAPI/pkg/logger_i"
)

// Services is the wired pipeline shared by the api server, the cli and the
// mcp server. Missing credentials never fail construction; each stage reports
// a configuration error when it is first used.
type Services struct {
	Orchestrator orchestrator.Service
	Tables       store.TableStore
}

func NewServices(ctx context.Context) Services {
	logger := logger_i.NewLogger("app")

	tables := store.GetTableStore(ctx)
	resolver := imagery.NewResolver(
		config.FixedDocument(),
		tables,
		imagery.NewDalleGenerator(config.OpenAIAPIKey(), customHttpClient.NewPooledClient(config.LLMRequestTimeout)),
	)

	o := orchestrator.NewService(orchestrator.Deps{
		Extractor:     NewExtractor(ctx),
		Generator:     generate.NewGenerator(NewLLMProvider(ctx)),
		Images:        resolver,
		Stories:       tables,
		FixedDocument: config.FixedDocument(),
	})
	logger.Info("Pipeline ready", "llmProvider", config.LLMProvider(), "fixedDocument", config.FixedDocument())
	return Services{Orchestrator: o, Tables: tables}
}

func NewLLMProvider(ctx context.Context) llm.Provider {
	switch config.LLMProvider() {
	case config.LLMProviderGemini:
		return gemini.GetGeminiClient(ctx, config.GeminiAPIKey(), config.GeminiModelName)
	default:
		return openrouter.NewClient(config.OpenRouterAPIKey(), config.OpenRouterURL(), config.CompletionModel(), nil)
	}
}

// NewExtractor falls back to an unavailable recognizer when the vision client
// cannot be built so text documents still work.
func NewExtractor(ctx context.Context) *extract.Extractor {
	var recognizer extract.Recognizer
	vision, err := extract.NewVisionRecognizer(ctx)
	if err != nil {
		logger_i.NewLogger("app").Warn("OCR unavailable", "error", err)
		recognizer = extract.UnavailableRecognizer{Reason: err}
	} else {
		recognizer = vision
	}
	return extract.NewExtractor(extract.NewFitzRenderer(), recognizer)
}
