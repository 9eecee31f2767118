package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that records nothing.
type NoopMetrics struct{}

// RecordNodeExecution implements MetricsRecorder.
func (NoopMetrics) RecordNodeExecution(context.Context, string, time.Duration, bool) {}

// RecordNodeSkip implements MetricsRecorder.
func (NoopMetrics) RecordNodeSkip(context.Context, string) {}

// RecordRun implements MetricsRecorder.
func (NoopMetrics) RecordRun(context.Context, bool, time.Duration) {}

// RecordAutosave implements MetricsRecorder.
func (NoopMetrics) RecordAutosave(context.Context, bool) {}

// NoopSpanManager is a SpanManager that produces non-recording spans.
type NoopSpanManager struct{}

var noopTracer = noop.NewTracerProvider().Tracer("promptflow")

// StartRunSpan implements SpanManager.
func (NoopSpanManager) StartRunSpan(ctx context.Context, flowID, runID string) (context.Context, trace.Span) {
	return noopTracer.Start(ctx, "promptflow.run")
}

// StartNodeSpan implements SpanManager.
func (NoopSpanManager) StartNodeSpan(ctx context.Context, nodeID, nodeType string) (context.Context, trace.Span) {
	return noopTracer.Start(ctx, "promptflow.node")
}

// EndSpanWithError implements SpanManager.
func (NoopSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span != nil {
		span.End()
	}
}
