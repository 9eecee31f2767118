package promptflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEdge_IsAdapter tests handle-prefix classification.
func TestEdge_IsAdapter(t *testing.T) {
	tests := []struct {
		name         string
		targetHandle string
		want         bool
	}{
		{"adapter handle", "adapter-0", true},
		{"adapter handle high index", "adapter-3", true},
		{"bare prefix", "adapter-", true},
		{"text handle", "input", false},
		{"empty handle", "", false},
		{"prefix substring only", "adapt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Edge{Source: "a", Target: "b", TargetHandle: tt.targetHandle}
			assert.Equal(t, tt.want, e.IsAdapter())
		})
	}
}

// TestInputNodeIDs tests classified input lookups preserve edge order.
func TestInputNodeIDs(t *testing.T) {
	edges := []Edge{
		testEdge("a", "sink"),
		testAdapterEdge("p1", "sink"),
		testEdge("b", "sink"),
		testAdapterEdge("p2", "sink"),
		testEdge("a", "other"),
	}

	assert.Equal(t, []string{"a", "b"}, TextInputNodeIDs("sink", edges))
	assert.Equal(t, []string{"p1", "p2"}, AdapterInputNodeIDs("sink", edges))
	assert.Empty(t, TextInputNodeIDs("unconnected", edges))
}

// TestDownstreamNodeIDs tests the forward closure, including the start node.
func TestDownstreamNodeIDs(t *testing.T) {
	nodes := []Node{
		testNode("a", "task"), testNode("b", "task"),
		testNode("c", "task"), testNode("d", "task"),
		testNode("island", "task"),
	}
	edges := []Edge{testEdge("a", "b"), testEdge("b", "c"), testEdge("d", "c")}

	down := DownstreamNodeIDs("a", nodes, edges)

	assert.True(t, down["a"])
	assert.True(t, down["b"])
	assert.True(t, down["c"])
	assert.False(t, down["d"])
	assert.False(t, down["island"])
}

// TestUpstreamNodeIDs tests the reverse closure.
func TestUpstreamNodeIDs(t *testing.T) {
	nodes := []Node{
		testNode("a", "task"), testNode("b", "task"), testNode("c", "task"),
	}
	edges := []Edge{testEdge("a", "b"), testEdge("b", "c")}

	up := UpstreamNodeIDs("c", nodes, edges)

	assert.True(t, up["a"])
	assert.True(t, up["b"])
	assert.True(t, up["c"])
}

// TestClosure_IgnoresAbsentNodes tests that edges into missing nodes do not
// leak ghosts into the closure.
func TestClosure_IgnoresAbsentNodes(t *testing.T) {
	nodes := []Node{testNode("a", "task")}
	edges := []Edge{testEdge("a", "ghost")}

	down := DownstreamNodeIDs("a", nodes, edges)

	assert.Equal(t, map[string]bool{"a": true}, down)
}
