package promptflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/promptflow/promptflow/pkg/promptflow/provider"
)

// Context provides execution context to executors. It extends
// context.Context with engine services and run metadata.
//
// Context is immutable after creation. The runner derives per-node contexts
// with the node id set and the logger enriched.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with run and node
	// context during execution. Never nil; defaults to slog.Default().
	Logger() *slog.Logger

	// Provider returns the collaborator client, or nil if not configured.
	// Executors that need it fail with a node-local error when nil.
	Provider() provider.Client

	// RunID returns the unique identifier for this run.
	// Auto-generated if not configured.
	RunID() string

	// NodeID returns the node currently executing.
	// Empty before execution starts.
	NodeID() string
}

type executionContext struct {
	context.Context

	logger   *slog.Logger
	provider provider.Client
	runID    string
	nodeID   string
}

// Logger returns the configured logger.
func (c *executionContext) Logger() *slog.Logger {
	return c.logger
}

// Provider returns the collaborator client.
func (c *executionContext) Provider() provider.Client {
	return c.provider
}

// RunID returns the run identifier.
func (c *executionContext) RunID() string {
	return c.runID
}

// NodeID returns the current node identifier.
func (c *executionContext) NodeID() string {
	return c.nodeID
}

// ContextOption configures a Context.
type ContextOption func(*executionContext)

// WithLogger sets the logger for the context.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *executionContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProvider sets the collaborator client for the context.
func WithProvider(client provider.Client) ContextOption {
	return func(c *executionContext) {
		c.provider = client
	}
}

// WithRunID sets the run identifier. If not set, a UUID is generated.
func WithRunID(id string) ContextOption {
	return func(c *executionContext) {
		c.runID = id
	}
}

// NewContext creates an execution context from a standard context.
//
// Example:
//
//	ctx := promptflow.NewContext(context.Background(),
//	    promptflow.WithProvider(client),
//	    promptflow.WithRunID("run-123"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	ec := &executionContext{
		Context: ctx,
		logger:  slog.Default(),
		runID:   uuid.New().String(),
	}
	for _, opt := range opts {
		opt(ec)
	}
	return ec
}

// withNodeID derives a per-node context with an enriched logger.
func (c *executionContext) withNodeID(nodeID string) *executionContext {
	return &executionContext{
		Context:  c.Context,
		logger:   c.logger.With("run_id", c.runID, "node_id", nodeID),
		provider: c.provider,
		runID:    c.runID,
		nodeID:   nodeID,
	}
}
