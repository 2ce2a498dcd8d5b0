package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/KagemniKarimu/nyota/internal/metrics"
	"github.com/KagemniKarimu/nyota/internal/platform/retry"
)

// pingPolicy covers a Redis that is still starting alongside nyota.
var pingPolicy = retry.Policy{
	MaxAttempts:    3,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     time.Second,
	OnRetry: func(attempt int, err error, backoff time.Duration) {
		slog.Warn("Redis ping failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
	},
}

func classifyPing(err error) retry.Action {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retry.Stop
	}
	return retry.Retry
}

// NewRedisClient connects to redisURL (e.g. "redis://localhost:6379/0"),
// installs the metrics and circuit breaker hooks, and pings until the
// server answers or pingPolicy gives up. m may be nil, in which case no metrics hook is installed.
func NewRedisClient(ctx context.Context, redisURL string, m *metrics.RedisMetrics) (*goredis.Client, *CircuitBreakerHook, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opts)
	if m != nil {
		rdb.AddHook(NewMetricsHook(m))
	}
	breaker := NewCircuitBreakerHook(m)
	rdb.AddHook(breaker)

	err = retry.DoVoid(ctx, pingPolicy, classifyPing, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, breaker, nil
}
