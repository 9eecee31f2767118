package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/promptflow/promptflow/pkg/promptflow"
	"github.com/promptflow/promptflow/pkg/promptflow/event"
)

// connectionLostError is the flow-level error shown when the channel drops
// mid-run. Node results not yet reported are assumed lost.
const connectionLostError = "Connection lost during execution"

// Bridge executes flows on a remote runner and mirrors the streamed status
// back into an ExecutionState. One Execute call is in flight at a time,
// enforced by the gate; share the gate with a local Runner so the two modes
// exclude each other.
type Bridge struct {
	conn   Conn
	gate   *promptflow.ExecutionGate
	bus    *event.Bus
	logger *slog.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithGate sets the execution gate.
func WithGate(gate *promptflow.ExecutionGate) Option {
	return func(b *Bridge) {
		if gate != nil {
			b.gate = gate
		}
	}
}

// WithBus sets the event bus status events are mirrored to.
func WithBus(bus *event.Bus) Option {
	return func(b *Bridge) { b.bus = bus }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBridge creates a bridge over an established connection.
func NewBridge(conn Conn, opts ...Option) *Bridge {
	b := &Bridge{
		conn:   conn,
		gate:   promptflow.NewGate(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Gate returns the bridge's execution gate.
func (b *Bridge) Gate() *promptflow.ExecutionGate {
	return b.gate
}

// Execute sends the flow to the remote runner and folds its status stream
// until the run ends. The returned state has the same shape a local run
// produces.
//
// A transport failure mid-run ends the run with a flow-level error and
// ErrConnectionLost; nodes whose results never arrived keep their last
// reported status. Context cancellation stops waiting but cannot stop the
// remote run.
func (b *Bridge) Execute(ctx context.Context, req promptflow.RunRequest) (*promptflow.ExecutionState, error) {
	if err := b.gate.TryAcquire(req.FlowID); err != nil {
		return nil, err
	}
	defer b.gate.Release()

	start, err := NewMessage(MsgExecutionStart, req)
	if err != nil {
		return nil, fmt.Errorf("encode start request: %w", err)
	}
	if err := b.conn.Send(start); err != nil {
		return nil, fmt.Errorf("send start request: %w", err)
	}

	run := &remoteRun{
		bridge: b,
		flowID: req.FlowID,
		state:  promptflow.NewExecutionState(req.ProviderID),
		nodes:  make(map[string]promptflow.Node, len(req.Nodes)),
	}
	run.state.IsRunning = true
	for _, n := range req.Nodes {
		run.nodes[n.ID] = n
	}

	msgs := make(chan Message)
	readErr := make(chan error, 1)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			msg, err := b.conn.Receive()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case msgs <- msg:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			run.state.IsRunning = false
			run.state.GlobalError = ctx.Err().Error()
			return run.state, ctx.Err()

		case err := <-readErr:
			b.logger.Warn("connection lost during execution",
				slog.String("flow_id", req.FlowID),
				slog.String("error", err.Error()))
			run.state.IsRunning = false
			run.state.GlobalError = connectionLostError
			run.publish(event.New(event.TypeRunFailed, req.FlowID, run.runID).WithError(connectionLostError))
			return run.state, promptflow.ErrConnectionLost

		case msg := <-msgs:
			done, err := run.fold(msg)
			if done {
				return run.state, err
			}
		}
	}
}

// remoteRun is the folding state of one Execute call.
type remoteRun struct {
	bridge *Bridge
	flowID string
	runID  string
	state  *promptflow.ExecutionState
	nodes  map[string]promptflow.Node
}

func (r *remoteRun) publish(evt event.Event) {
	if r.bridge.bus != nil {
		r.bridge.bus.Publish(evt)
	}
}

// fold applies one wire message to the state. It returns done=true when the
// run has ended.
func (r *remoteRun) fold(msg Message) (bool, error) {
	switch msg.Type {
	case MsgExecutionStarted:
		var p StartedPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, nil
		}
		r.runID = p.RunID
		r.publish(event.New(event.TypeRunStarted, r.flowID, r.runID))

	case MsgNodeStatus:
		var p NodeStatusPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, nil
		}
		r.state.NodeStatus[p.NodeID] = promptflow.NodeStatus(p.Status)
		r.publish(event.New(event.TypeNodeStatus, r.flowID, r.runID).WithNode(p.NodeID, p.Status))

	case MsgNodeCompleted:
		var p NodeCompletedPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, nil
		}
		r.applyOutput(p.NodeID, p.Output, promptflow.StatusComplete)

	case MsgNodeFailed:
		var p NodeFailedPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, nil
		}
		r.applyOutput(p.NodeID, promptflow.NodeOutput{Error: p.Error}, promptflow.StatusError)

	case MsgExecutionCompleted:
		var p CompletedPayload
		if err := json.Unmarshal(msg.Payload, &p); err == nil {
			r.mergeFinalOutputs(p.Outputs)
		}
		r.state.IsRunning = false
		r.publish(event.New(event.TypeRunCompleted, r.flowID, r.runID))
		return true, nil

	case MsgExecutionFailed:
		var p FailedPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			p.Error = "execution failed"
		}
		r.state.IsRunning = false
		r.state.GlobalError = p.Error
		r.publish(event.New(event.TypeRunFailed, r.flowID, r.runID).WithError(p.Error))
		return true, errors.New(p.Error)
	}

	return false, nil
}

// applyOutput records a terminal per-node result, mirroring the local
// runner's write-back of textOutput results into node data.
func (r *remoteRun) applyOutput(nodeID string, output promptflow.NodeOutput, status promptflow.NodeStatus) {
	r.state.NodeStatus[nodeID] = status
	r.state.NodeOutputs[nodeID] = output

	if node, ok := r.nodes[nodeID]; ok &&
		node.Type == promptflow.TextOutputNodeType && node.Data != nil && output.Text != "" {
		node.Data["text"] = output.Text
	}

	r.publish(event.New(event.TypeNodeOutput, r.flowID, r.runID).
		WithNode(nodeID, string(status)).
		WithOutput(output))
}

// mergeFinalOutputs reconciles the run-final output map against the per-node
// messages seen so far. Per-node terminal statuses win: a final output never
// downgrades an error or complete, only fills in nodes still pending or
// running (messages can be lost or reordered on the wire).
func (r *remoteRun) mergeFinalOutputs(outputs map[string]promptflow.NodeOutput) {
	for nodeID, output := range outputs {
		r.state.NodeOutputs[nodeID] = output

		switch r.state.NodeStatus[nodeID] {
		case promptflow.StatusComplete, promptflow.StatusError, promptflow.StatusSkipped:
			continue
		}
		if output.HasError() {
			r.state.NodeStatus[nodeID] = promptflow.StatusError
		} else {
			r.state.NodeStatus[nodeID] = promptflow.StatusComplete
		}

		if node, ok := r.nodes[nodeID]; ok &&
			node.Type == promptflow.TextOutputNodeType && node.Data != nil && output.Text != "" {
			node.Data["text"] = output.Text
		}
	}
}
