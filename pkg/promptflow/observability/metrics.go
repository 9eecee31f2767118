package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records engine metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordNodeExecution records one node invocation with its outcome.
	RecordNodeExecution(ctx context.Context, nodeType string, duration time.Duration, failed bool)

	// RecordNodeSkip records a node skipped due to an upstream failure.
	RecordNodeSkip(ctx context.Context, nodeType string)

	// RecordRun records a flow run completion.
	RecordRun(ctx context.Context, success bool, duration time.Duration)

	// RecordAutosave records a flow persistence attempt.
	RecordAutosave(ctx context.Context, success bool)
}

type otelMetrics struct {
	nodeExecutions metric.Int64Counter
	nodeLatency    metric.Float64Histogram
	nodeErrors     metric.Int64Counter
	nodeSkips      metric.Int64Counter
	flowRuns       metric.Int64Counter
	runLatency     metric.Float64Histogram
	autosaves      metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("promptflow")

	nodeExecutions, err := meter.Int64Counter("promptflow.node.executions",
		metric.WithDescription("Number of node executions"),
	)
	if err != nil {
		return nil, err
	}

	nodeLatency, err := meter.Float64Histogram("promptflow.node.latency_ms",
		metric.WithDescription("Node execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	nodeErrors, err := meter.Int64Counter("promptflow.node.errors",
		metric.WithDescription("Number of node-local execution errors"),
	)
	if err != nil {
		return nil, err
	}

	nodeSkips, err := meter.Int64Counter("promptflow.node.skips",
		metric.WithDescription("Number of nodes skipped after upstream failure"),
	)
	if err != nil {
		return nil, err
	}

	flowRuns, err := meter.Int64Counter("promptflow.flow.runs",
		metric.WithDescription("Number of flow runs"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("promptflow.flow.latency_ms",
		metric.WithDescription("Flow run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	autosaves, err := meter.Int64Counter("promptflow.autosave.attempts",
		metric.WithDescription("Number of flow persistence attempts"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		nodeExecutions: nodeExecutions,
		nodeLatency:    nodeLatency,
		nodeErrors:     nodeErrors,
		nodeSkips:      nodeSkips,
		flowRuns:       flowRuns,
		runLatency:     runLatency,
		autosaves:      autosaves,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder backed by OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider; configure it first:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordNodeExecution records a node execution.
func (m *otelMetrics) RecordNodeExecution(ctx context.Context, nodeType string, duration time.Duration, failed bool) {
	attrs := []attribute.KeyValue{
		attribute.String("node_type", nodeType),
	}
	m.nodeExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.nodeLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if failed {
		m.nodeErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordNodeSkip records a skipped node.
func (m *otelMetrics) RecordNodeSkip(ctx context.Context, nodeType string) {
	m.nodeSkips.Add(ctx, 1, metric.WithAttributes(
		attribute.String("node_type", nodeType),
	))
}

// RecordRun records a flow run.
func (m *otelMetrics) RecordRun(ctx context.Context, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.flowRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.runLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordAutosave records a persistence attempt.
func (m *otelMetrics) RecordAutosave(ctx context.Context, success bool) {
	m.autosaves.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", success),
	))
}
