package engine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Spans go through the global OTel tracer provider; without one
// configured they are no-ops.
var tracer = otel.Tracer("condex")

func startQuerySpan(ctx context.Context, op, queryID, system string) (context.Context, trace.Span) {
	return tracer.Start(ctx, op,
		trace.WithAttributes(
			attribute.String("db.system", system),
			attribute.String("query.id", queryID),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// setStatement records the compiled SQL once it is known.
func setStatement(span trace.Span, sqlText string) {
	span.SetAttributes(attribute.String("db.statement", sqlText))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
