/*
Package promptflow compiles and executes prompt-processing flows.

# Overview

promptflow is a Go engine for node-based prompt pipelines: a flow is a
directed acyclic graph of typed nodes (prompt sources, AI transforms,
persona adapters, output sinks) connected by text and adapter edges. The
engine compiles the graph into a deterministic execution plan, runs each
node through a registered executor, and reports progress through an event
bus.

Key properties:
  - Node failures are values, not errors: a failed node marks its
    dependents skipped while independent branches keep running
  - Compilation rejects cycles, unknown node types, and adapter overload
    before any node executes
  - One run at a time per engine, enforced by a shared execution gate
  - OpenTelemetry integration for metrics and tracing

# Basic Usage

Register executors, build a run request, and run it:

	reg := promptflow.NewRegistry()
	executors.Register(reg)

	runner := promptflow.NewRunner(reg)

	state, err := runner.Run(promptflow.NewContext(context.Background()), promptflow.RunRequest{
	    FlowID: "flow-1",
	    Nodes: []promptflow.Node{
	        {ID: "prompt", Type: "initialPrompt", Data: config.Data{"text": "a quiet harbor"}},
	        {ID: "out", Type: "textOutput", Data: config.Data{}},
	    },
	    Edges: []promptflow.Edge{{Source: "prompt", Target: "out"}},
	})
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(state.NodeOutputs["out"].Text)

# Edges and Ports

An edge's target handle decides what it carries. Handles prefixed with
"adapter-" deliver persona data into a node's adapter ports (at most four
per node); every other edge is a text edge delivering the upstream node's
primary text. Skips propagate along text edges only: a persona source
failing does not silence the node it decorates.

# Partial Reruns

Setting TriggerNodeID on a request re-executes only that node and its
downstream closure. Everything else is seeded from CachedOutputs and keeps
its prior status:

	state, err := runner.Run(ctx, promptflow.RunRequest{
	    FlowID:        "flow-1",
	    Nodes:         nodes,
	    Edges:         edges,
	    TriggerNodeID: "enhance",
	    CachedOutputs: previous.NodeOutputs,
	})

# AI Collaborators

Executors that call AI endpoints read a provider.Client from the execution
context. Without one, those nodes fail node-locally and the rest of the
flow continues:

	client := provider.NewHTTPClient("http://localhost:8080/api")
	ctx := promptflow.NewContext(context.Background(),
	    promptflow.WithProvider(client))

# Remote Execution

The bridge subpackage runs flows on a remote engine over WebSocket with
the same semantics, folding streamed status messages into an
ExecutionState. bridge.Server exposes a local runner to remote editors.

# Error Handling

Flow-level failures carry typed errors:

	_, err := runner.Run(ctx, req)
	var cycleErr *promptflow.CycleError
	if errors.As(err, &cycleErr) {
	    log.Printf("cycle: %d of %d nodes sorted", cycleErr.Sorted, cycleErr.Executable)
	}

Executor panics are recovered into node-local errors; they never abort
the run.

# Thread Safety

  - ExecutorRegistry is safe for concurrent use
  - Runner is safe for concurrent use; the gate serializes runs
  - ExecutionState returned by Run belongs to the caller
  - event.Bus is safe for concurrent use

# Subpackages

  - executors: the built-in node executor set
  - provider: the AI endpoint client contract and HTTP implementation
  - bridge: WebSocket remote execution (client and server)
  - event: execution event bus
  - history: undo/redo snapshot management
  - autosave: debounced flow persistence (memory, SQLite)
  - observability: logging, metrics, and tracing helpers
*/
package promptflow
