package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AllowedOrigin string
	// OpenAI
	OpenAIAPIKey  string
	OpenAIBaseURL string
	Model         string
	ImageModel    string
	ImageSize     string
	// Optional YAML persona (system prompt + style) applied to chat completions
	AssistantProfile string
	// Requests per minute per client on the proxy endpoints; 0 disables limiting
	RateLimitPerMinute int
	// Optional rotating log file; empty logs to stderr only
	LogFile string
	// OTLP/HTTP collector for provider spans; empty disables export
	TraceEndpoint string
	// Terminal client
	BackendURL string
	DataDir    string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:               getEnvDefault("PORT", "8080"),
		AllowedOrigin:      getEnvDefault("ALLOWED_ORIGIN", "*"),
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		Model:              getEnvDefault("OPENAI_MODEL", "gpt-4.1-mini"),
		ImageModel:         getEnvDefault("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		ImageSize:          getEnvDefault("OPENAI_IMAGE_SIZE", "1024x1024"),
		AssistantProfile:   getEnvDefault("ASSISTANT_PROFILE", "prompts/assistant.yaml"),
		RateLimitPerMinute: getEnvIntDefault("RATE_LIMIT_PER_MINUTE", 0),
		LogFile:            os.Getenv("LOG_FILE"),
		TraceEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"),
		BackendURL:         strings.TrimRight(getEnvDefault("YAI_BACKEND_URL", "http://localhost:8080"), "/"),
		DataDir:            getEnvDefault("YAI_DATA_DIR", defaultDataDir()),
	}
	return cfg
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "yai")
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("warning: ignoring invalid %s=%q", key, v)
		return def
	}
	return n
}
