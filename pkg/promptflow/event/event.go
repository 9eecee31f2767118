// Package event carries execution status deltas from the runner or bridge to
// any number of independent consumers (UI adapters, logging, tests). The
// publisher does not know its subscribers; consumers read typed events from
// a channel.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies an execution event.
type Type string

// Execution event types.
const (
	TypeRunStarted   Type = "execution.started"
	TypeNodeStatus   Type = "execution.node.status"
	TypeNodeOutput   Type = "execution.node.output"
	TypeRunCompleted Type = "execution.completed"
	TypeRunFailed    Type = "execution.failed"
)

// Event is one execution status delta. Node-scoped fields are empty for
// run-scoped events. Output holds the node's result record for
// TypeNodeOutput events (typed as any to keep this package free of engine
// imports).
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	FlowID    string    `json:"flow_id"`
	RunID     string    `json:"run_id"`
	NodeID    string    `json:"node_id,omitempty"`
	Status    string    `json:"status,omitempty"`
	Error     string    `json:"error,omitempty"`
	Output    any       `json:"output,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates an event with a fresh id and timestamp.
func New(t Type, flowID, runID string) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		FlowID:    flowID,
		RunID:     runID,
		Timestamp: time.Now(),
	}
}

// WithNode returns a copy scoped to the given node and status.
func (e Event) WithNode(nodeID, status string) Event {
	e.NodeID = nodeID
	e.Status = status
	return e
}

// WithOutput returns a copy carrying a node output payload.
func (e Event) WithOutput(output any) Event {
	e.Output = output
	return e
}

// WithError returns a copy carrying an error message.
func (e Event) WithError(msg string) Event {
	e.Error = msg
	return e
}
