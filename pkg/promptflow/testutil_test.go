package promptflow

import (
	"strings"

	"github.com/promptflow/promptflow/pkg/promptflow/config"
)

// Test graph builders and executors used across tests.

func testNode(id, nodeType string) Node {
	return Node{ID: id, Type: nodeType, Data: config.Data{}}
}

func testEdge(source, target string) Edge {
	return Edge{Source: source, Target: target, TargetHandle: "input"}
}

func testAdapterEdge(source, target string) Edge {
	return Edge{Source: source, Target: target, TargetHandle: "adapter-0"}
}

// staticExec emits fixed text.
func staticExec(text string) Executor {
	return func(ctx Context, in ExecInput) Result {
		return Succeed(NodeOutput{Text: text})
	}
}

// mergeExec joins its text inputs, so chained outputs are observable.
func mergeExec() Executor {
	return func(ctx Context, in ExecInput) Result {
		parts := make([]string, 0, len(in.Inputs))
		for _, input := range in.Inputs {
			if t := input.PrimaryText(); t != "" {
				parts = append(parts, t)
			}
		}
		return Succeed(NodeOutput{Text: strings.Join(parts, "\n\n")})
	}
}

// failExec reports a node-local failure.
func failExec(msg string) Executor {
	return func(ctx Context, in ExecInput) Result {
		return Fail(msg)
	}
}

// panicExec simulates a broken executor.
func panicExec() Executor {
	return func(ctx Context, in ExecInput) Result {
		panic("executor exploded")
	}
}

// trackExec records execution order and passes inputs through.
func trackExec(order *[]string) Executor {
	merge := mergeExec()
	return func(ctx Context, in ExecInput) Result {
		*order = append(*order, ctx.NodeID())
		return merge(ctx, in)
	}
}

// testRegistry registers one executor under the "task" type plus any extras.
func testRegistry(extra map[string]Executor) *ExecutorRegistry {
	r := NewRegistry()
	r.Register("task", mergeExec())
	for nodeType, exec := range extra {
		r.Register(nodeType, exec)
	}
	return r
}
