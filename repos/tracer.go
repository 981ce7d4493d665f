package repos

import (
	"context"
	"log/slog"
	"time"

	"github.com/DataDog/go-sqllexer"
	"github.com/jackc/pgx/v5"
)

type tracer struct{}

var normalizer = sqllexer.NewNormalizer()

type ctxKey int

const (
	_ ctxKey = iota
	traceQueryCtxKey
	traceConnectCtxKey
)

type traceQueryData struct {
	startTime time.Time
	sql       string
}

const slowQueryThreshold = 200 * time.Millisecond

func (tl *tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	sql, _, err := normalizer.Normalize(data.SQL)
	if err != nil {
		slog.DebugContext(ctx, "error normalizing SQL", "err", err)
		sql = data.SQL
	}
	return context.WithValue(ctx, traceQueryCtxKey, &traceQueryData{
		startTime: time.Now(),
		sql:       sql,
	})
}

func (tl *tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	queryData, ok := ctx.Value(traceQueryCtxKey).(*traceQueryData)
	if !ok {
		return
	}
	interval := time.Since(queryData.startTime)

	if data.Err != nil {
		slog.ErrorContext(ctx, "query failed", "sql", queryData.sql, "err", data.Err, "time", interval)
		return
	}

	if interval > slowQueryThreshold {
		slog.WarnContext(ctx, "slow query", "sql", queryData.sql, "time", interval, "command_tag", data.CommandTag.String())
	}
}

type traceConnectData struct {
	startTime  time.Time
	connConfig *pgx.ConnConfig
}

func (tl *tracer) TraceConnectStart(ctx context.Context, data pgx.TraceConnectStartData) context.Context {
	return context.WithValue(ctx, traceConnectCtxKey, &traceConnectData{
		startTime:  time.Now(),
		connConfig: data.ConnConfig,
	})
}

func (tl *tracer) TraceConnectEnd(ctx context.Context, data pgx.TraceConnectEndData) {
	connectData, ok := ctx.Value(traceConnectCtxKey).(*traceConnectData)
	if !ok {
		return
	}
	interval := time.Since(connectData.startTime)

	if data.Err != nil {
		slog.ErrorContext(ctx, "connect failed",
			"err", data.Err,
			"host", connectData.connConfig.Host,
			"port", connectData.connConfig.Port,
			"database", connectData.connConfig.Database,
			"time", interval)
	}
}
