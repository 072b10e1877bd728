package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"workconnect/internal/metrics"
)

// availabilityTTL bounds how often request-path liveness checks hit the server.
const availabilityTTL = 2 * time.Second

type Options struct {
	URL                string
	MaxConns           int32
	MinConns           int32
	SlowQueryThreshold time.Duration
	Metrics            *metrics.Metrics
}

type DB struct {
	Pool   *pgxpool.Pool
	tracer *QueryTracer

	mu        sync.Mutex
	checkedAt time.Time
	lastErr   error
}

type Stats struct {
	TotalConns     int32 `json:"total_conns"`
	IdleConns      int32 `json:"idle_conns"`
	AcquiredConns  int32 `json:"acquired_conns"`
	MaxConns       int32 `json:"max_conns"`
	AcquireCount   int64 `json:"acquire_count"`
	QueryCount     int64 `json:"query_count"`
	SlowQueryCount int64 `json:"slow_query_count"`
}

// New builds the pool. An unreachable server is logged, not fatal: the pool
// dials lazily and callers learn about outages through Available.
func New(ctx context.Context, opts Options) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = opts.MinConns
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	tracer := NewQueryTracer(opts.SlowQueryThreshold, opts.Metrics)
	cfg.ConnConfig.Tracer = tracer

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	db := &DB{Pool: pool, tracer: tracer}
	tracer.start(pool)

	if err := db.Health(ctx); err != nil {
		slog.Warn("database unreachable at startup", "error", err)
		db.remember(err)
		return db, nil
	}

	slog.Info("database connected", "max_conns", opts.MaxConns, "min_conns", opts.MinConns)
	db.remember(nil)
	return db, nil
}

func (db *DB) Close() {
	if db.tracer != nil {
		db.tracer.stop()
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

func (db *DB) Health(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return db.Pool.Ping(pingCtx)
}

// Available reports database liveness, reusing a recent result.
func (db *DB) Available(ctx context.Context) error {
	db.mu.Lock()
	if time.Since(db.checkedAt) < availabilityTTL {
		err := db.lastErr
		db.mu.Unlock()
		return err
	}
	db.mu.Unlock()

	err := db.Health(ctx)
	db.mu.Lock()
	recovered := db.lastErr != nil && err == nil
	db.mu.Unlock()

	if err != nil {
		slog.Warn("database liveness check failed", "error", err)
	} else if recovered {
		slog.Info("database connection restored")
	}

	db.remember(err)
	return err
}

func (db *DB) remember(err error) {
	db.mu.Lock()
	db.checkedAt = time.Now()
	db.lastErr = err
	db.mu.Unlock()
}

func (db *DB) Stats() Stats {
	s := db.Pool.Stat()
	queries, slow := db.tracer.Counts()

	return Stats{
		TotalConns:     s.TotalConns(),
		IdleConns:      s.IdleConns(),
		AcquiredConns:  s.AcquiredConns(),
		MaxConns:       s.MaxConns(),
		AcquireCount:   s.AcquireCount(),
		QueryCount:     queries,
		SlowQueryCount: slow,
	}
}
