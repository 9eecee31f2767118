// Package bridge runs flows over a remote execution channel. The client side
// (Bridge) packages a graph, sends it to a remote runner, and folds the
// streamed status messages into the same ExecutionState shape the local
// runner produces; observers cannot tell which mode ran. The server side
// (Server) accepts those requests and executes them with a local runner.
package bridge

import (
	"encoding/json"

	"github.com/promptflow/promptflow/pkg/promptflow"
)

// Wire message types.
const (
	MsgExecutionStart     = "execution.start"
	MsgExecutionStarted   = "execution.started"
	MsgNodeStatus         = "execution.node.status"
	MsgNodeCompleted      = "execution.node.completed"
	MsgNodeFailed         = "execution.node.failed"
	MsgExecutionCompleted = "execution.completed"
	MsgExecutionFailed    = "execution.failed"
)

// Message is the wire envelope.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage builds an envelope with a marshaled payload.
func NewMessage(msgType string, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// StartedPayload acknowledges an accepted run.
type StartedPayload struct {
	RunID string `json:"run_id"`
}

// NodeStatusPayload reports a non-terminal node transition
// (pending, running, skipped).
type NodeStatusPayload struct {
	NodeID string `json:"node_id"`
	Status string `json:"status"`
}

// NodeCompletedPayload reports a successful node with its output.
type NodeCompletedPayload struct {
	NodeID string                `json:"node_id"`
	Output promptflow.NodeOutput `json:"output"`
}

// NodeFailedPayload reports a node-local failure.
type NodeFailedPayload struct {
	NodeID string `json:"node_id"`
	Error  string `json:"error"`
}

// CompletedPayload ends a run with the full output map, letting the client
// reconcile any per-node messages that were lost or reordered.
type CompletedPayload struct {
	Outputs map[string]promptflow.NodeOutput `json:"outputs"`
}

// FailedPayload ends a run with a flow-level error (cycle, rejection).
type FailedPayload struct {
	Error string `json:"error"`
}
