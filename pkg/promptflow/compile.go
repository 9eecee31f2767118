package promptflow

// ExecutionStep is one entry of a compiled plan: a node plus its classified
// upstream dependencies. Steps are derived and recomputed on every run.
type ExecutionStep struct {
	NodeID         string   `json:"node_id"`
	NodeType       string   `json:"node_type"`
	InputNodeIDs   []string `json:"input_node_ids"`
	AdapterNodeIDs []string `json:"adapter_node_ids"`
}

// TypeSet answers whether a node type tag is known. *Registry implements it.
type TypeSet interface {
	Has(nodeType string) bool
}

// BuildPlan topologically sorts the executable nodes into an ordered plan
// using Kahn's algorithm.
//
// Group nodes are dropped and duplicate ids deduplicated before sorting, so a
// stray duplicate can never fabricate a false cycle. Edges with an endpoint
// outside the filtered set are ignored. When known is non-nil, every
// executable node's type must be registered; unknown tags fail here rather
// than at invocation time.
//
// Nodes reaching zero in-degree together are emitted in discovery order
// (FIFO), which makes the plan deterministic for identical input.
//
// Returns a *CycleError (zero steps) if the graph is not a DAG.
func BuildPlan(nodes []Node, edges []Edge, known TypeSet) ([]ExecutionStep, error) {
	seen := make(map[string]bool, len(nodes))
	executable := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == GroupNodeType || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		executable = append(executable, n)
	}

	byID := make(map[string]Node, len(executable))
	for _, n := range executable {
		byID[n.ID] = n
	}

	for _, n := range executable {
		if known != nil && !known.Has(n.Type) {
			return nil, &CompileError{NodeID: n.ID, NodeType: n.Type, Err: ErrUnknownNodeType}
		}
		if len(AdapterInputNodeIDs(n.ID, edges)) > MaxAdapterInputs {
			return nil, &CompileError{NodeID: n.ID, NodeType: n.Type, Err: ErrTooManyAdapters}
		}
	}

	adjacency := make(map[string][]string, len(executable))
	inDegree := make(map[string]int, len(executable))
	for id := range byID {
		inDegree[id] = 0
	}
	for _, e := range edges {
		if _, ok := byID[e.Source]; !ok {
			continue
		}
		if _, ok := byID[e.Target]; !ok {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		inDegree[e.Target]++
	}

	// Seed with zero in-degree nodes in declaration order for determinism.
	queue := make([]string, 0, len(executable))
	for _, n := range executable {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	steps := make([]ExecutionStep, 0, len(executable))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		steps = append(steps, ExecutionStep{
			NodeID:         id,
			NodeType:       byID[id].Type,
			InputNodeIDs:   TextInputNodeIDs(id, edges),
			AdapterNodeIDs: AdapterInputNodeIDs(id, edges),
		})

		for _, target := range adjacency[id] {
			inDegree[target]--
			if inDegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	if len(steps) < len(executable) {
		return nil, &CycleError{Executable: len(executable), Sorted: len(steps)}
	}

	return steps, nil
}
