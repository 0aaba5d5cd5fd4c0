package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads a local .env when one exists. Variables already set in the
// environment win over the file.
func Load() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}
}

func envOrDefault(key string, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func IsProd() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "production")
}

func ListenAddr() string {
	return envOrDefault("LISTEN_ADDR", ServerListenAddr)
}

func RedisAddress() string {
	return envOrDefault("REDIS_ADDR", RedisAddr)
}

func RedisPassword() string {
	return os.Getenv("REDIS_PASSWORD")
}

func OpenRouterAPIKey() string {
	return strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
}

func OpenRouterURL() string {
	return envOrDefault("OPENROUTER_BASE_URL", OpenRouterBaseURL)
}

func CompletionModel() string {
	return envOrDefault("OPENROUTER_MODEL", OpenRouterModel)
}

func OpenAIAPIKey() string {
	return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
}

func GeminiAPIKey() string {
	return strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
}

func LLMProvider() string {
	return strings.ToLower(envOrDefault("LLM_PROVIDER", LLMProviderOpenRoute))
}

func FixedDocument() string {
	return envOrDefault("FIXED_DOCUMENT_NAME", FixedDocumentName)
}

func LogLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	}
	if IsProd() {
		return LOG_LEVEL_PROD
	}
	return slog.LevelDebug
}
