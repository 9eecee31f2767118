package promptflow

// NodeStatus is the per-node execution state machine:
// idle -> pending -> running -> {complete | error | skipped}.
type NodeStatus string

// Node statuses.
const (
	StatusIdle     NodeStatus = "idle"
	StatusPending  NodeStatus = "pending"
	StatusRunning  NodeStatus = "running"
	StatusComplete NodeStatus = "complete"
	StatusError    NodeStatus = "error"
	StatusSkipped  NodeStatus = "skipped"
)

// Terminal reports whether the status is final for a run.
func (s NodeStatus) Terminal() bool {
	return s == StatusComplete || s == StatusError || s == StatusSkipped
}

// ExecutionState is the per-flow execution snapshot read by observers.
// The local runner and the bridge both produce this shape; callers cannot
// tell which mode ran.
type ExecutionState struct {
	IsRunning   bool                  `json:"is_running"`
	NodeStatus  map[string]NodeStatus `json:"node_status"`
	NodeOutputs map[string]NodeOutput `json:"node_outputs"`
	GlobalError string                `json:"global_error,omitempty"`
	ProviderID  string                `json:"provider_id"`
}

// NewExecutionState returns a reset state for the given provider.
func NewExecutionState(providerID string) *ExecutionState {
	return &ExecutionState{
		NodeStatus:  make(map[string]NodeStatus),
		NodeOutputs: make(map[string]NodeOutput),
		ProviderID:  providerID,
	}
}

// Reset clears all run-scoped fields at the start of a new run.
func (s *ExecutionState) Reset() {
	s.IsRunning = false
	s.NodeStatus = make(map[string]NodeStatus)
	s.NodeOutputs = make(map[string]NodeOutput)
	s.GlobalError = ""
}

// Clone returns a deep copy safe to hand to observers.
func (s *ExecutionState) Clone() *ExecutionState {
	out := &ExecutionState{
		IsRunning:   s.IsRunning,
		GlobalError: s.GlobalError,
		ProviderID:  s.ProviderID,
		NodeStatus:  make(map[string]NodeStatus, len(s.NodeStatus)),
		NodeOutputs: make(map[string]NodeOutput, len(s.NodeOutputs)),
	}
	for id, st := range s.NodeStatus {
		out.NodeStatus[id] = st
	}
	for id, o := range s.NodeOutputs {
		out.NodeOutputs[id] = o
	}
	return out
}

// Status returns the node's status, defaulting to idle.
func (s *ExecutionState) Status(nodeID string) NodeStatus {
	if st, ok := s.NodeStatus[nodeID]; ok {
		return st
	}
	return StatusIdle
}
