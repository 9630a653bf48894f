package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "basenames"

// StartResolveSpan starts the parent span of one availability resolution.
func StartResolveSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "availability.resolve",
		trace.WithAttributes(attribute.String("basename.name", name)),
	)
}

// StartStageSpan starts a child span for one cascade stage.
func StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "availability.stage."+stage,
		trace.WithAttributes(attribute.String("basename.stage", stage)),
	)
}

// StartRegisterSpan starts a span for a registration submission.
func StartRegisterSpan(ctx context.Context, name, owner string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "registration.submit",
		trace.WithAttributes(
			attribute.String("basename.name", name),
			attribute.String("basename.owner", owner),
		),
	)
}

// StartCollectionSpan starts a span for a demo collection operation.
func StartCollectionSpan(ctx context.Context, op, address string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "collection."+op,
		trace.WithAttributes(attribute.String("collection.address", address)),
	)
}

// EndSpan records err on span (if any) and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
