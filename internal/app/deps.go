package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"local-assistants/internal/assistant"
	"local-assistants/internal/cache"
	"local-assistants/internal/config"
	"local-assistants/internal/events"
	"local-assistants/internal/llm"
	"local-assistants/internal/logger"
	"local-assistants/internal/retry"
	"local-assistants/internal/store"
)

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	LLM       llm.Client
	Cache     cache.Cache
	Store     store.Store
	Events    events.Publisher
	Assistant *assistant.Service
}

// Build loads env, config, and shared components for service.
func Build(service string) (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	log := logger.New(cfg.LogLevel).With("service", service)

	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	st, err := buildStore(cfg, log)
	if err != nil {
		_ = c.Close()
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	pub, err := buildEvents(cfg, log)
	if err != nil {
		_ = c.Close()
		_ = st.Close()
		return Deps{}, fmt.Errorf("failed to initialize events: %w", err)
	}
	return New(cfg, log, llmClient, c, st, pub), nil
}

// New assembles Deps from already built parts.
func New(cfg config.Config, log *slog.Logger, client llm.Client, c cache.Cache, st store.Store, pub events.Publisher) Deps {
	return Deps{
		Config: cfg,
		Log:    log,
		LLM:    client,
		Cache:  c,
		Store:  st,
		Events: pub,
		Assistant: &assistant.Service{
			LLM:      client,
			Cache:    c,
			Store:    st,
			Events:   pub,
			Log:      log,
			CacheTTL: time.Duration(cfg.CacheTTL) * time.Second,
		},
	}
}

// Close releases the cache, store and event connections.
func (d Deps) Close() error {
	var errs []error
	if d.Events != nil {
		errs = append(errs, d.Events.Close())
	}
	if d.Store != nil {
		errs = append(errs, d.Store.Close())
	}
	if d.Cache != nil {
		errs = append(errs, d.Cache.Close())
	}
	return errors.Join(errs...)
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.LLMBaseURL == "" {
			return nil, fmt.Errorf("LLM_BASE_URL is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(llm.OpenAIOptions{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI-compatible client: %w", err)
		}
		log.Info("using OpenAI-compatible LLM client", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)
		return client, nil
	case "ollama":
		client, err := llm.NewOllamaClient(cfg.LLMBaseURL, cfg.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Ollama client: %w", err)
		}
		log.Info("using Ollama LLM client", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: openai, ollama)", cfg.LLMProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_PROVIDER=redis")
		}
		c, err := retry.Connect(context.Background(), cfg.ConnectAttempts, cfg.ConnectBackoff, func() (*cache.RedisCache, error) {
			return cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		log.Info("using Redis response cache", "addr", cfg.RedisAddr, "ttl_seconds", cfg.CacheTTL)
		return c, nil
	case "none", "":
		log.Info("response cache disabled")
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: redis, none)", cfg.CacheProvider)
	}
}

func buildStore(cfg config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreProvider {
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := retry.Connect(context.Background(), cfg.ConnectAttempts, cfg.ConnectBackoff, func() (*store.PostgresStore, error) {
			return store.NewPostgres(cfg.DBURL)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres transcript store")
		return db, nil
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required when STORE_PROVIDER=sqlite")
		}
		db, err := store.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
		}
		log.Info("using SQLite transcript store", "path", cfg.SQLitePath)
		return db, nil
	case "none", "":
		log.Info("transcript history disabled")
		return store.NewNoOpStore(), nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid options: postgres, sqlite, none)", cfg.StoreProvider)
	}
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Publisher, error) {
	switch cfg.EventsProvider {
	case "nats":
		if cfg.NATSURL == "" {
			return nil, fmt.Errorf("NATS_URL is required when EVENTS_PROVIDER=nats")
		}
		nc, err := retry.Connect(context.Background(), cfg.ConnectAttempts, cfg.ConnectBackoff, func() (*nats.Conn, error) {
			return nats.Connect(cfg.NATSURL)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("publishing completion events to NATS")
		return events.NewNATS(log, nc), nil
	case "none", "":
		return events.NoOpPublisher{}, nil
	default:
		return nil, fmt.Errorf("invalid EVENTS_PROVIDER: %s (valid options: nats, none)", cfg.EventsProvider)
	}
}
