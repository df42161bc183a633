// Package otel holds the tracing helpers shared by the synchronizer and the HTTP API.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys used on every span so traces can be filtered by index
const (
	AttrIndexName   = attribute.Key("index.name")
	AttrOperation   = attribute.Key("sync.operation")
	AttrSyncState   = attribute.Key("sync.state")
	AttrStorageType = attribute.Key("storage.type")
	AttrObjectCount = attribute.Key("objects.count")
)

// StartSpan starts a span on tracer. A nil tracer yields the span already
// carried by ctx, a no-op when there is none.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError marks the span as failed. The status description stays
// generic; the error itself is attached as a span event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
