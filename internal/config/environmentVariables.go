package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internals in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 10
	BURST_RATE_LIMIT_PER_SECOND     = 20

	RequestsPerNewWorkerCount int64 = 5
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//uploads
	MaxUploadSize = 32 << 20 //32mb

	//a single workflow run: extraction of every page plus one llm call
	WorkflowTimeout = 10 * time.Minute

	//how often a running job checks whether its workflow reached the llm call
	JobStepPollInterval = 200 * time.Millisecond

	//idle sessions are dropped with their document and artifacts
	SessionTTL = 6 * time.Hour

	//extraction
	RenderScale     = 1.5
	BaseRenderDPI   = 72.0
	OCRLanguage     = "eng"
	OCRPageTimeout  = 60 * time.Second
	PDFOpenTimeout  = 10 * time.Second
	ExtractSetupPct = 10
	ExtractReadyPct = 20

	//llm
	LLMRequestTimeout    = 2 * time.Minute
	OpenRouterBaseURL    = "https://openrouter.ai/api/v1/"
	OpenRouterModel      = "google/gemini-2.5-flash-preview"
	GeminiModelName      = "gemini-2.5-flash"
	LLMProviderOpenRoute = "openrouter"
	LLMProviderGemini    = "gemini"

	//images
	ImageModel       = "dall-e-3"
	ImageStyleSuffix = ", illustration style, purely visual, without any words or letters, focus on the visual elements, avoid all text"

	//the one document whose story and chapter images come from the fixed tables
	FixedDocumentName = "Python Basics with Explanations.pdf"
	FixedStoryId      = 1

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore   = 0
	RedisTableStore = 1

	RedisImageTableKey  = "imageStorage"
	RedisStoryKeyPrefix = "story:"

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
)
