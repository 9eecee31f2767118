package promptflow

import "github.com/promptflow/promptflow/pkg/promptflow/config"

// AdapterHandlePrefix marks target handles that carry auxiliary persona data.
// Edges landing on such handles are adapter edges; everything else is a text
// edge (the node's primary upstream content).
const AdapterHandlePrefix = "adapter-"

// GroupNodeType tags purely visual container nodes. They are never executed.
const GroupNodeType = "group"

// MaxAdapterInputs is the per-node cap on adapter edges.
const MaxAdapterInputs = 4

// Node is one task in a flow. The type tag selects the executor; Data is
// the node's editor-supplied configuration.
type Node struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Data config.Data `json:"data"`
}

// Edge is a directed dependency between two nodes. The target handle decides
// whether the edge carries text or adapter data.
type Edge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// IsAdapter reports whether the edge lands on an adapter handle.
func (e Edge) IsAdapter() bool {
	return len(e.TargetHandle) >= len(AdapterHandlePrefix) &&
		e.TargetHandle[:len(AdapterHandlePrefix)] == AdapterHandlePrefix
}

// TextInputNodeIDs returns the sources of all text edges into nodeID,
// in edge order.
func TextInputNodeIDs(nodeID string, edges []Edge) []string {
	ids := make([]string, 0)
	for _, e := range edges {
		if e.Target == nodeID && !e.IsAdapter() {
			ids = append(ids, e.Source)
		}
	}
	return ids
}

// AdapterInputNodeIDs returns the sources of all adapter edges into nodeID,
// in edge order.
func AdapterInputNodeIDs(nodeID string, edges []Edge) []string {
	ids := make([]string, 0)
	for _, e := range edges {
		if e.Target == nodeID && e.IsAdapter() {
			ids = append(ids, e.Source)
		}
	}
	return ids
}

// UpstreamNodeIDs returns all ancestors of startID reachable against edge
// direction, including startID itself. Edges referencing nodes outside the
// given node set are ignored.
func UpstreamNodeIDs(startID string, nodes []Node, edges []Edge) map[string]bool {
	return closure(startID, nodes, edges, func(e Edge) (string, string) {
		return e.Target, e.Source
	})
}

// DownstreamNodeIDs returns all descendants of startID reachable along edge
// direction, including startID itself.
func DownstreamNodeIDs(startID string, nodes []Node, edges []Edge) map[string]bool {
	return closure(startID, nodes, edges, func(e Edge) (string, string) {
		return e.Source, e.Target
	})
}

// closure is a BFS over edges, with from/to chosen by the follow function.
func closure(startID string, nodes []Node, edges []Edge, follow func(Edge) (from, to string)) map[string]bool {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}

	visited := map[string]bool{startID: true}
	queue := []string{startID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range edges {
			from, to := follow(e)
			if from == current && present[to] && !visited[to] {
				visited[to] = true
				queue = append(queue, to)
			}
		}
	}
	return visited
}
