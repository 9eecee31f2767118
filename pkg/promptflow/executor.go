package promptflow

import (
	"sort"

	"github.com/promptflow/promptflow/pkg/promptflow/config"
	"github.com/promptflow/promptflow/pkg/promptflow/registry"
)

// ExecInput is everything an executor sees for one node invocation: the
// node's own configuration plus the resolved outputs of its upstream
// dependencies, already split by port class.
type ExecInput struct {
	// NodeData is the node's editor-supplied configuration.
	NodeData config.Data

	// Inputs are the outputs of text-port predecessors, in plan order.
	Inputs []NodeOutput

	// AdapterInputs are the outputs of adapter-port predecessors.
	AdapterInputs []NodeOutput

	// ProviderID selects the AI provider for collaborator calls.
	ProviderID string

	// Model optionally overrides the provider's default model.
	Model string
}

// Result is an executor's outcome. Failures are values: an executor reports
// a node-local error through Output.Error and Success=false, never a panic,
// so the runner can continue independent branches.
type Result struct {
	Success bool
	Output  NodeOutput
}

// Fail builds an error result with the given message.
func Fail(msg string) Result {
	return Result{Output: NodeOutput{Error: msg}}
}

// Succeed builds a success result carrying the given output.
func Succeed(out NodeOutput) Result {
	return Result{Success: true, Output: out}
}

// Executor handles one node type. New kinds are added by registering a new
// function, never by modifying the dispatcher.
type Executor func(ctx Context, in ExecInput) Result

// ExecutorRegistry maps node type tags to executors. Construct one at the
// application's composition root and pass it to the runner and bridge server;
// there is no package-level instance.
type ExecutorRegistry struct {
	entries *registry.Registry[string, Executor]
}

// NewRegistry creates an empty executor registry.
func NewRegistry() *ExecutorRegistry {
	return &ExecutorRegistry{entries: registry.New[string, Executor]()}
}

// Register binds an executor to a node type tag, replacing any existing one.
func (r *ExecutorRegistry) Register(nodeType string, fn Executor) {
	r.entries.Register(nodeType, fn)
}

// Get returns the executor for a node type and whether it exists.
func (r *ExecutorRegistry) Get(nodeType string) (Executor, bool) {
	return r.entries.Get(nodeType)
}

// Has implements TypeSet; BuildPlan uses it to reject unknown tags.
func (r *ExecutorRegistry) Has(nodeType string) bool {
	return r.entries.Has(nodeType)
}

// Types returns all registered node type tags, sorted.
func (r *ExecutorRegistry) Types() []string {
	types := r.entries.Keys()
	sort.Strings(types)
	return types
}
