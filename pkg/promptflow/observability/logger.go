// Package observability provides structured logging, metrics, and tracing
// for the execution engine.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger returns a logger carrying flow and run context.
func EnrichLogger(logger *slog.Logger, flowID, runID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("flow_id", flowID),
		slog.String("run_id", runID),
	)
}

// LogRunStart logs the start of a flow run.
func LogRunStart(logger *slog.Logger, flowID, runID string, nodeCount int) {
	if logger == nil {
		return
	}
	logger.Info("flow run starting",
		slog.String("flow_id", flowID),
		slog.String("run_id", runID),
		slog.Int("nodes", nodeCount),
	)
}

// LogRunComplete logs successful flow run completion.
func LogRunComplete(logger *slog.Logger, flowID, runID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("flow run completed",
		slog.String("flow_id", flowID),
		slog.String("run_id", runID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogRunError logs a flow-level run failure.
func LogRunError(logger *slog.Logger, flowID, runID string, err error) {
	if logger == nil {
		return
	}
	logger.Error("flow run failed",
		slog.String("flow_id", flowID),
		slog.String("run_id", runID),
		slog.String("error", err.Error()),
	)
}

// LogNodeStart logs node execution start.
func LogNodeStart(logger *slog.Logger, nodeID, nodeType string) {
	if logger == nil {
		return
	}
	logger.Debug("node starting",
		slog.String("node_id", nodeID),
		slog.String("node_type", nodeType),
	)
}

// LogNodeComplete logs successful node completion.
func LogNodeComplete(logger *slog.Logger, nodeID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("node completed",
		slog.String("node_id", nodeID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogNodeError logs a node-local execution error.
func LogNodeError(logger *slog.Logger, nodeID, errText string) {
	if logger == nil {
		return
	}
	logger.Warn("node failed",
		slog.String("node_id", nodeID),
		slog.String("error", errText),
	)
}

// LogNodeSkipped logs a node skipped because an upstream dependency failed.
func LogNodeSkipped(logger *slog.Logger, nodeID, failedUpstream string) {
	if logger == nil {
		return
	}
	logger.Debug("node skipped",
		slog.String("node_id", nodeID),
		slog.String("failed_upstream", failedUpstream),
	)
}

// LogAutosave logs a successful flow save.
func LogAutosave(logger *slog.Logger, flowID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("flow saved",
		slog.String("flow_id", flowID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogAutosaveError logs a save failure (non-fatal, retried on the next cycle).
func LogAutosaveError(logger *slog.Logger, flowID string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("flow save failed",
		slog.String("flow_id", flowID),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation. The returned
// function reports the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
