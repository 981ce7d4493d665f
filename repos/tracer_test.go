package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracerNormalizesQuery(t *testing.T) {
	tl := &tracer{}
	ctx := tl.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{
		SQL: "SELECT name, value FROM settings WHERE name = 'flickr_api_key'",
	})

	data, ok := ctx.Value(traceQueryCtxKey).(*traceQueryData)
	require.True(t, ok)
	assert.Contains(t, data.sql, "settings")
	assert.False(t, data.startTime.IsZero())

	// must not panic with or without start data
	tl.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})
	tl.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
}

func TestTracerConnect(t *testing.T) {
	tl := &tracer{}
	cfg, err := pgx.ParseConfig("postgres://user@localhost:5432/embed")
	require.NoError(t, err)

	ctx := tl.TraceConnectStart(context.Background(), pgx.TraceConnectStartData{ConnConfig: cfg})
	data, ok := ctx.Value(traceConnectCtxKey).(*traceConnectData)
	require.True(t, ok)
	assert.Equal(t, "embed", data.connConfig.Database)

	tl.TraceConnectEnd(ctx, pgx.TraceConnectEndData{Err: errors.New("refused")})
}
