package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/KagemniKarimu/nyota/internal/analyzer"
	"github.com/KagemniKarimu/nyota/internal/chat"
	"github.com/KagemniKarimu/nyota/internal/conversation"
	"github.com/KagemniKarimu/nyota/internal/debugserver"
	"github.com/KagemniKarimu/nyota/internal/domain"
	"github.com/KagemniKarimu/nyota/internal/metrics"
	"github.com/KagemniKarimu/nyota/internal/platform/config"
	"github.com/KagemniKarimu/nyota/internal/platform/logging"
	"github.com/KagemniKarimu/nyota/internal/platform/retry"
	"github.com/KagemniKarimu/nyota/internal/platform/version"
	"github.com/KagemniKarimu/nyota/internal/provider"
	"github.com/KagemniKarimu/nyota/internal/sentiment"
)

const (
	evictionInterval  = time.Minute
	redisSetupTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second

	initialBackoff   = time.Second
	rateLimitBackoff = 10 * time.Second
	maxBackoff       = 30 * time.Second
)

// application is everything one nyota process runs. Close releases it in
// reverse order of construction.
type application struct {
	chat    *chat.Service
	closers []func()
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *application) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

func setup(ctx context.Context, modelOverride string) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if modelOverride != "" {
		cfg.Model = modelOverride
	}

	app := &application{}
	logOut, closeLog, err := logging.OpenLogFile(cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	app.onClose(func() { _ = closeLog() })
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat, logOut)
	slog.Info("nyota starting", "version", version.Get().Version, "model", cfg.Model)

	clock := clockwork.NewRealClock()
	reg := metrics.NewRegistry()

	store, healthChecks, err := setupStore(ctx, app, cfg, reg, clock)
	if err != nil {
		app.Close()
		return nil, err
	}

	adapter, err := provider.NewAdapter(cfg.Model, provider.Options{
		APIKeys:   cfg.APIKeys(),
		BaseURLs:  map[domain.Provider]string{domain.ProviderOllama: cfg.OllamaURL},
		Timeout:   cfg.LLMTimeout,
		RateLimit: cfg.LLMRateLimit,
		Retry: retry.Policy{
			MaxAttempts:      cfg.LLMMaxAttempts,
			InitialBackoff:   initialBackoff,
			RateLimitBackoff: rateLimitBackoff,
			MaxBackoff:       maxBackoff,
		},
		Metrics: metrics.NewProviderMetrics(reg),
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	session := sentiment.NewSession(analyzer.New(analyzer.Options{ExpandEmojis: cfg.EmojiExpansion}), clock)
	app.chat = chat.NewService(session, store, adapter, cfg.SystemPrompt, metrics.NewSentimentMetrics(reg), clock)
	slog.Info("Session started", "session", session.ID, "provider", adapter.Provider())

	if cfg.DebugAddr != "" {
		startDebugServer(app, cfg.DebugAddr, reg, healthChecks)
	}
	return app, nil
}

// setupStore builds the conversation store: memory only, or memory in front
// of Redis when REDIS_URL is set.
func setupStore(ctx context.Context, app *application, cfg *config.Config, reg *prometheus.Registry, clock clockwork.Clock) (domain.ConversationStore, []debugserver.HealthCheck, error) {
	cacheMetrics := metrics.NewCacheMetrics(reg)

	mem, err := conversation.NewMemoryStore(cfg.CacheCapacity, cfg.CacheTTL, clock)
	if err != nil {
		return nil, nil, err
	}
	stopEviction := mem.StartEvictionTimer(evictionInterval, func(n int) {
		cacheMetrics.Evictions.Add(float64(n))
	})
	app.onClose(stopEviction)

	if cfg.RedisURL == "" {
		return mem, nil, nil
	}

	redisCtx, cancel := context.WithTimeout(ctx, redisSetupTimeout)
	defer cancel()
	rdb, breaker, err := conversation.NewRedisClient(redisCtx, cfg.RedisURL, metrics.NewRedisMetrics(reg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.onClose(func() { _ = rdb.Close() })
	slog.Info("Conversation cache backed by Redis", "ttl", cfg.CacheTTL, "breaker", breaker.GetState().String())

	checks := []debugserver.HealthCheck{{Name: "redis", Check: redisCheck(rdb)}}
	return conversation.NewHybridStore(mem, conversation.NewRedisStore(rdb, cfg.CacheTTL), cacheMetrics), checks, nil
}

func redisCheck(rdb *goredis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

func startDebugServer(app *application, addr string, reg *prometheus.Registry, checks []debugserver.HealthCheck) {
	srv := debugserver.New(app.chat, reg, checks)
	go func() {
		if err := srv.Start(addr); err != nil {
			slog.Error("Debug server stopped", "error", err)
		}
	}()
	app.onClose(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Debug server shutdown error", "error", err)
		}
	})
}
