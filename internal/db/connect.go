package db

import (
	"context"
	"fmt"
	"math"
	"time"

	"taskboard/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectOptions controls pool sizing and the bootstrap retry loop.
type ConnectOptions struct {
	MaxConns int32
	Retries  int
	Delay    time.Duration
}

// Connect opens a pool and pings it once.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// ConnectWithRetry keeps trying Connect with a growing delay until it
// succeeds, the attempts run out or ctx is done.
func ConnectWithRetry(ctx context.Context, dsn string, opts ConnectOptions) (*pgxpool.Pool, error) {
	attempts := opts.Retries
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		pool, err := Connect(ctx, dsn, opts.MaxConns)
		if err == nil {
			logger.Info("database connected", "attempt", attempt+1)
			return pool, nil
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}
		wait := RetryDelay(opts.Delay, attempt)
		logger.Warn("database not ready, retrying",
			"attempt", attempt+1, "max_attempts", attempts, "wait", wait, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("database unavailable after %d attempts: %w", attempts, lastErr)
}

// RetryDelay grows the base delay by 1.5x per attempt.
func RetryDelay(base time.Duration, attempt int) time.Duration {
	return time.Duration(float64(base) * math.Pow(1.5, float64(attempt)))
}
