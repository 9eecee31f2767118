// Package promptflow implements the flow execution engine for the prompt
// pipeline editor: graph compilation, executor dispatch, local and remote
// execution, and the state that streams back to the editor.
package promptflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph compilation.
var (
	// ErrCycle indicates the executable node set is not a DAG.
	ErrCycle = errors.New("graph contains a cycle")

	// ErrUnknownNodeType indicates a node's type tag has no registered executor.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrTooManyAdapters indicates a node exceeds MaxAdapterInputs.
	ErrTooManyAdapters = errors.New("too many adapter inputs")
)

// Sentinel errors for execution.
var (
	// ErrNilContext indicates Run was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrRunInFlight indicates a run was requested while another is active.
	ErrRunInFlight = errors.New("a run is already in flight")

	// ErrConnectionLost indicates the remote channel dropped mid-run.
	ErrConnectionLost = errors.New("connection lost during execution")
)

// CycleError reports a failed topological sort. It deliberately names no
// specific node: any node on the cycle is equally at fault.
type CycleError struct {
	// Executable is the number of executable nodes in the graph.
	Executable int
	// Sorted is the number of steps produced before the sort stalled.
	Sorted int
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("graph contains a cycle (%d of %d nodes ordered); remove circular connections", e.Sorted, e.Executable)
}

// Unwrap returns ErrCycle for errors.Is support.
func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// CompileError wraps a per-node validation failure found while building a plan.
type CompileError struct {
	// NodeID is the offending node.
	NodeID string
	// NodeType is its type tag.
	NodeType string
	// Err is the underlying cause (ErrUnknownNodeType, ErrTooManyAdapters).
	Err error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("node %s (%s): %v", e.NodeID, e.NodeType, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// NodeError wraps an internal runner failure with node context. Executor
// results carry their own error text; NodeError is for faults in the engine
// itself (missing executor, recovered panic).
type NodeError struct {
	// NodeID is the identifier of the node that failed.
	NodeID string
	// Op is the operation that failed (e.g. "lookup", "execute").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %s: %v", e.NodeID, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *NodeError) Unwrap() error {
	return e.Err
}

// CancellationError captures the point at which a local run was abandoned.
// Cancellation is only observed between nodes, never mid-executor.
type CancellationError struct {
	// NodeID is the node that was about to execute.
	NodeID string
	// Cause is the context error (context.Canceled or DeadlineExceeded).
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancelled before node %s: %v", e.NodeID, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}
