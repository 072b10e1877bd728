package database

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workconnect/internal/metrics"
)

const maxLoggedSQL = 2000

type queryStartKey struct{}

type skipQueryLogKey struct{}

type queryStart struct {
	sql     string
	started time.Time
}

type slowQuery struct {
	sql      string
	duration time.Duration
	at       time.Time
}

// QueryTracer times every statement, warns about slow ones and records them
// in query_log on a best-effort basis.
type QueryTracer struct {
	threshold time.Duration
	metrics   *metrics.Metrics
	queries   atomic.Int64
	slow      atomic.Int64
	sink      chan slowQuery
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewQueryTracer(threshold time.Duration, m *metrics.Metrics) *QueryTracer {
	return &QueryTracer{
		threshold: threshold,
		metrics:   m,
		sink:      make(chan slowQuery, 64),
	}
}

func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, started: time.Now()})
}

func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	elapsed := time.Since(start.started)
	t.queries.Add(1)
	slow := t.threshold > 0 && elapsed > t.threshold
	t.metrics.ObserveQuery(elapsed, slow)
	if !slow {
		return
	}

	t.slow.Add(1)
	sql := compactSQL(start.sql)
	attrs := []any{"duration_ms", elapsed.Milliseconds(), "sql", sql}
	if data.Err != nil {
		attrs = append(attrs, "error", data.Err)
	}
	slog.Warn("slow query", attrs...)

	if ctx.Value(skipQueryLogKey{}) != nil {
		return
	}

	select {
	case t.sink <- slowQuery{sql: sql, duration: elapsed, at: time.Now().UTC()}:
	default:
		slog.Debug("query log buffer full; dropping slow query record")
	}
}

func (t *QueryTracer) Counts() (queries int64, slow int64) {
	if t == nil {
		return 0, 0
	}
	return t.queries.Load(), t.slow.Load()
}

func (t *QueryTracer) start(pool *pgxpool.Pool) {
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.wg.Add(1)

	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case record := <-t.sink:
				t.persist(ctx, pool, record)
			}
		}
	}()
}

func (t *QueryTracer) stop() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	t.wg.Wait()
}

// persist never reports failure: query_log may be missing or the database down.
func (t *QueryTracer) persist(ctx context.Context, pool *pgxpool.Pool, record slowQuery) {
	insertCtx, cancel := context.WithTimeout(context.WithValue(ctx, skipQueryLogKey{}, true), 2*time.Second)
	defer cancel()

	_, err := pool.Exec(insertCtx,
		`INSERT INTO query_log (query_text, duration_ms, logged_at) VALUES ($1, $2, $3)`,
		record.sql, record.duration.Milliseconds(), record.at)
	if err != nil {
		slog.Debug("query log insert skipped", "error", err)
	}
}

func compactSQL(sql string) string {
	compact := strings.Join(strings.Fields(sql), " ")
	if len(compact) > maxLoggedSQL {
		return compact[:maxLoggedSQL] + "..."
	}
	return compact
}
