package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SinkWrite 为一次 sink 写入创建 span
func SinkWrite(ctx context.Context, sink string, fn func(context.Context) error) error {
	ctx, span := Tracer().Start(ctx, "sink.write "+sink,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("sink.name", sink)),
	)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
