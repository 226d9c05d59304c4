package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration shared by both assistants.
type Config struct {
	// Server
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Model server
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"openai"` // "openai" (any OpenAI-compatible endpoint) or "ollama"
	LLMBaseURL  string `env:"LLM_BASE_URL" envDefault:"http://localhost:11434/v1/"`
	LLMAPIKey   string `env:"LLM_API_KEY" envDefault:"ollama"`
	LLMModel    string `env:"LLM_MODEL" envDefault:"deepseek-r1:1.5b"`

	// Model endpoints admit this many requests per second (0 disables)
	RateLimit float64 `env:"RATE_LIMIT" envDefault:"1"`
	RateBurst int     `env:"RATE_BURST" envDefault:"3"`

	// Prompting
	ReportCharLimit int `env:"REPORT_CHAR_LIMIT" envDefault:"2000"`

	// Startup connections to Redis, Postgres and NATS
	ConnectAttempts int           `env:"CONNECT_ATTEMPTS" envDefault:"5"`
	ConnectBackoff  time.Duration `env:"CONNECT_BACKOFF" envDefault:"500ms"`

	// Response cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none"` // "redis" or "none"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Transcript store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"none"` // "postgres", "sqlite" or "none"
	DBURL         string `env:"DB_URL"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/transcripts.db"`

	// Completion events
	EventsProvider string `env:"EVENTS_PROVIDER" envDefault:"none"` // "nats" or "none"
	NATSURL        string `env:"NATS_URL"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
