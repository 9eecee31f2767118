package promptflow

import (
	"fmt"
	"time"

	"github.com/promptflow/promptflow/pkg/promptflow/event"
	"github.com/promptflow/promptflow/pkg/promptflow/observability"
)

// TextOutputNodeType tags the terminal display node. After a run the runner
// writes the resolved text back into the node's data so the flow document
// carries its results.
const TextOutputNodeType = "textOutput"

// RunRequest describes one flow execution.
type RunRequest struct {
	FlowID string `json:"flow_id"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`

	// ProviderID selects the AI provider for collaborator calls.
	ProviderID string `json:"provider_id"`

	// TriggerNodeID, when set, restricts execution to the trigger node and
	// its downstream closure. Nodes outside that set are seeded from
	// CachedOutputs instead of re-executing.
	TriggerNodeID string `json:"trigger_node_id,omitempty"`

	// CachedOutputs are prior results keyed by node id, consulted only for
	// trigger runs.
	CachedOutputs map[string]NodeOutput `json:"cached_outputs,omitempty"`
}

// Runner executes flows locally: it compiles the graph, walks the plan in
// order, dispatches each node to its registered executor, and publishes
// status events. A node-local failure never aborts the run; it skips the
// failed node's text-edge descendants and lets independent branches finish.
type Runner struct {
	registry *ExecutorRegistry
	gate     *ExecutionGate
	bus      *event.Bus
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithBus sets the event bus status events are published to.
func WithBus(bus *event.Bus) RunnerOption {
	return func(r *Runner) { r.bus = bus }
}

// WithGate sets the execution gate. Pass the same gate to the bridge so
// local and remote runs exclude each other.
func WithGate(gate *ExecutionGate) RunnerOption {
	return func(r *Runner) {
		if gate != nil {
			r.gate = gate
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) RunnerOption {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithSpanManager sets the trace span manager.
func WithSpanManager(s observability.SpanManager) RunnerOption {
	return func(r *Runner) {
		if s != nil {
			r.spans = s
		}
	}
}

// NewRunner creates a runner dispatching to the given registry.
func NewRunner(registry *ExecutorRegistry, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: registry,
		gate:     NewGate(),
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Gate returns the runner's execution gate.
func (r *Runner) Gate() *ExecutionGate {
	return r.gate
}

// Run executes the flow and returns its final state.
//
// Run fails up front with ErrRunInFlight when another run holds the gate and
// with a compile error when the graph is invalid; in both cases nothing has
// executed. After execution starts, node-local failures are recorded in the
// returned state, not as an error. Cancellation is honored between nodes
// only: a cancelled context stops the walk before the next node and returns
// a *CancellationError alongside the partial state.
//
// For textOutput nodes the resolved text is written back into Node.Data
// under the "text" key; the caller's node slice observes the update.
func (r *Runner) Run(ctx Context, req RunRequest) (*ExecutionState, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	if err := r.gate.TryAcquire(req.FlowID); err != nil {
		return nil, err
	}
	defer r.gate.Release()

	plan, err := BuildPlan(req.Nodes, req.Edges, r.registry)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Node, len(req.Nodes))
	for _, n := range req.Nodes {
		if _, ok := byID[n.ID]; !ok {
			byID[n.ID] = n
		}
	}

	// Trigger runs execute only the trigger's downstream closure; everything
	// upstream is seeded from cached outputs.
	var rerun map[string]bool
	if req.TriggerNodeID != "" {
		rerun = DownstreamNodeIDs(req.TriggerNodeID, req.Nodes, req.Edges)
	}

	state := NewExecutionState(req.ProviderID)
	state.IsRunning = true

	logger := observability.EnrichLogger(ctx.Logger(), req.FlowID, ctx.RunID())
	observability.LogRunStart(ctx.Logger(), req.FlowID, ctx.RunID(), len(plan))

	runCtx, runSpan := r.spans.StartRunSpan(ctx, req.FlowID, ctx.RunID())
	runStart := time.Now()

	r.publish(event.New(event.TypeRunStarted, req.FlowID, ctx.RunID()))

	for _, step := range plan {
		if rerun == nil || rerun[step.NodeID] {
			state.NodeStatus[step.NodeID] = StatusPending
			r.publishStatus(req.FlowID, ctx.RunID(), step.NodeID, StatusPending)
		} else if cached, ok := req.CachedOutputs[step.NodeID]; ok {
			state.NodeOutputs[step.NodeID] = cached
			if cached.HasError() {
				state.NodeStatus[step.NodeID] = StatusError
			} else {
				state.NodeStatus[step.NodeID] = StatusComplete
			}
		}
	}

	failed := false
	for _, step := range plan {
		if rerun != nil && !rerun[step.NodeID] {
			continue
		}

		if err := ctx.Err(); err != nil {
			cancel := &CancellationError{NodeID: step.NodeID, Cause: err}
			state.IsRunning = false
			state.GlobalError = cancel.Error()
			observability.LogRunError(ctx.Logger(), req.FlowID, ctx.RunID(), cancel)
			r.publish(event.New(event.TypeRunFailed, req.FlowID, ctx.RunID()).WithError(cancel.Error()))
			r.spans.EndSpanWithError(runSpan, cancel)
			r.metrics.RecordRun(runCtx, false, time.Since(runStart))
			return state, cancel
		}

		// Skip when any text-edge predecessor failed or was itself skipped.
		// Adapter edges carry auxiliary data and do not propagate skips.
		if upstream, bad := failedTextInput(step, state); bad {
			state.NodeStatus[step.NodeID] = StatusSkipped
			observability.LogNodeSkipped(logger, step.NodeID, upstream)
			r.metrics.RecordNodeSkip(runCtx, step.NodeType)
			r.publishStatus(req.FlowID, ctx.RunID(), step.NodeID, StatusSkipped)
			continue
		}

		state.NodeStatus[step.NodeID] = StatusRunning
		r.publishStatus(req.FlowID, ctx.RunID(), step.NodeID, StatusRunning)
		observability.LogNodeStart(logger, step.NodeID, step.NodeType)

		node := byID[step.NodeID]
		in := ExecInput{
			NodeData:      node.Data,
			Inputs:        collectOutputs(step.InputNodeIDs, state.NodeOutputs),
			AdapterInputs: collectOutputs(step.AdapterNodeIDs, state.NodeOutputs),
			ProviderID:    req.ProviderID,
			Model:         node.Data.String("model", ""),
		}

		nodeCtx, nodeSpan := r.spans.StartNodeSpan(runCtx, step.NodeID, step.NodeType)
		start := time.Now()
		result := r.invoke(ctx, step, in)
		elapsed := time.Since(start)
		result.Output.DurationMS = elapsed.Milliseconds()

		state.NodeOutputs[step.NodeID] = result.Output
		r.metrics.RecordNodeExecution(nodeCtx, step.NodeType, elapsed, !result.Success)

		if result.Success {
			state.NodeStatus[step.NodeID] = StatusComplete
			observability.LogNodeComplete(logger, step.NodeID, float64(elapsed.Milliseconds()))
			r.spans.EndSpanWithError(nodeSpan, nil)

			if node.Type == TextOutputNodeType && node.Data != nil {
				node.Data["text"] = result.Output.PrimaryText()
			}
		} else {
			failed = true
			state.NodeStatus[step.NodeID] = StatusError
			observability.LogNodeError(logger, step.NodeID, result.Output.Error)
			r.spans.EndSpanWithError(nodeSpan, fmt.Errorf("%s", result.Output.Error))
		}

		r.publishStatus(req.FlowID, ctx.RunID(), step.NodeID, state.NodeStatus[step.NodeID])
		r.publish(event.New(event.TypeNodeOutput, req.FlowID, ctx.RunID()).
			WithNode(step.NodeID, string(state.NodeStatus[step.NodeID])).
			WithOutput(result.Output))
	}

	state.IsRunning = false
	observability.LogRunComplete(ctx.Logger(), req.FlowID, ctx.RunID(), float64(time.Since(runStart).Milliseconds()))
	r.publish(event.New(event.TypeRunCompleted, req.FlowID, ctx.RunID()))
	r.spans.EndSpanWithError(runSpan, nil)
	r.metrics.RecordRun(runCtx, !failed, time.Since(runStart))

	return state, nil
}

// invoke dispatches one node, converting any executor panic into a
// node-local failure so one broken executor cannot take down the run.
func (r *Runner) invoke(ctx Context, step ExecutionStep, in ExecInput) (result Result) {
	exec, ok := r.registry.Get(step.NodeType)
	if !ok {
		nodeErr := &NodeError{NodeID: step.NodeID, Op: "lookup", Err: ErrUnknownNodeType}
		return Fail(nodeErr.Error())
	}

	defer func() {
		if rec := recover(); rec != nil {
			nodeErr := &NodeError{NodeID: step.NodeID, Op: "execute", Err: fmt.Errorf("panic: %v", rec)}
			result = Fail(nodeErr.Error())
		}
	}()

	nodeCtx := ctx
	if ec, ok := ctx.(*executionContext); ok {
		nodeCtx = ec.withNodeID(step.NodeID)
	}
	return exec(nodeCtx, in)
}

func (r *Runner) publish(evt event.Event) {
	if r.bus != nil {
		r.bus.Publish(evt)
	}
}

func (r *Runner) publishStatus(flowID, runID, nodeID string, status NodeStatus) {
	r.publish(event.New(event.TypeNodeStatus, flowID, runID).WithNode(nodeID, string(status)))
}

// failedTextInput returns the first text-edge predecessor whose terminal
// status poisons this node, if any. Predecessors absent from the plan (group
// nodes, dangling edge sources) carry no status and are ignored.
func failedTextInput(step ExecutionStep, state *ExecutionState) (string, bool) {
	for _, id := range step.InputNodeIDs {
		switch state.NodeStatus[id] {
		case StatusError, StatusSkipped:
			return id, true
		}
	}
	return "", false
}

// collectOutputs resolves upstream ids to their recorded outputs, preserving
// order and dropping ids with no output yet.
func collectOutputs(ids []string, outputs map[string]NodeOutput) []NodeOutput {
	out := make([]NodeOutput, 0, len(ids))
	for _, id := range ids {
		if o, ok := outputs[id]; ok {
			out = append(out, o)
		}
	}
	return out
}
