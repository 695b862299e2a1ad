package obs

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestQueryName(t *testing.T) {
	name, kind := queryName("-- name: GetProductPriceForUpdate :one\nSELECT price FROM products WHERE id = $1 FOR UPDATE\n")
	require.Equal(t, "GetProductPriceForUpdate", name)
	require.Equal(t, "one", kind)

	name, kind = queryName("select 1")
	require.Equal(t, "query", name)
	require.Empty(t, kind)

	require.Equal(t, "UPDATE", statementVerb("-- name: UpdateProductPrice :execrows\n\nupdate products set price = $2"))
	require.Empty(t, statementVerb("-- only a comment"))
}

func TestPGXTracerSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	var tracer PGXTracer
	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{
		SQL: "-- name: UpdateProductPrice :execrows\nUPDATE products SET price = $2 WHERE id = $1 AND deleted_at IS NULL\n",
	})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("UPDATE 1")})

	ctx = tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{
		SQL: "-- name: GetProductPriceForUpdate :one\nSELECT price FROM products WHERE id = $1 FOR UPDATE\n",
	})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: pgx.ErrNoRows})

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "db UpdateProductPrice", spans[0].Name())
	require.Equal(t, "Unset", spans[0].Status().Code.String())
	require.Equal(t, "db GetProductPriceForUpdate", spans[1].Name())
	require.Empty(t, spans[1].Events(), "no-rows is not recorded as an error")
}
