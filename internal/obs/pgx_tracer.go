package obs

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxSpanKey struct{}

// sqlc prefixes every generated statement with "-- name: <Query> :<kind>".
var sqlcName = regexp.MustCompile(`^\s*--\s*name:\s*(\w+)\s*:(\w+)`)

// PGXTracer implements pgx.QueryTracer. Spans are named after the sqlc query
// (e.g. "db GetProductPriceForUpdate") so a bulk commit reads as one lock and
// write pair per product.
type PGXTracer struct{}

// TraceQueryStart starts a span for the SQL statement.
func (PGXTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	name, kind := queryName(data.SQL)
	ctx, span := otel.Tracer("db.pgx").Start(ctx, "db "+name, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.statement", truncateSQL(data.SQL)),
	)
	if kind != "" {
		span.SetAttributes(attribute.String("db.sqlc.kind", kind))
	}
	if op := statementVerb(data.SQL); op != "" {
		span.SetAttributes(attribute.String("db.operation", op))
	}
	return context.WithValue(ctx, ctxSpanKey{}, span)
}

// TraceQueryEnd ends the span and records any error other than an empty result.
func (PGXTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span, ok := ctx.Value(ctxSpanKey{}).(trace.Span)
	if !ok {
		return
	}
	if data.Err != nil && !errors.Is(data.Err, pgx.ErrNoRows) {
		span.RecordError(data.Err)
		span.SetStatus(codes.Error, data.Err.Error())
	} else {
		span.SetAttributes(attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()))
	}
	span.End()
}

// queryName returns the sqlc query name and kind, or "query" for ad-hoc SQL
// such as migrations and health pings.
func queryName(sql string) (name, kind string) {
	if m := sqlcName.FindStringSubmatch(sql); m != nil {
		return m[1], m[2]
	}
	return "query", ""
}

// statementVerb returns the first SQL keyword after any leading comment lines.
func statementVerb(sql string) string {
	for _, line := range strings.Split(sql, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		return strings.ToUpper(strings.Fields(line)[0])
	}
	return ""
}

func truncateSQL(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if len(trimmed) > 300 {
		return trimmed[:300] + "..."
	}
	return trimmed
}
