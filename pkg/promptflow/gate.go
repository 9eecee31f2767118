package promptflow

import "sync"

// ExecutionGate serializes runs: at most one flow executes at a time,
// whether locally or through the remote bridge. Share one gate between the
// runner and the bridge so both paths contend on the same lock.
type ExecutionGate struct {
	mu         sync.Mutex
	active     bool
	activeFlow string
}

// NewGate creates an execution gate.
func NewGate() *ExecutionGate {
	return &ExecutionGate{}
}

// TryAcquire claims the gate for flowID. Returns ErrRunInFlight if another
// run holds it; this never blocks waiting for the active run.
func (g *ExecutionGate) TryAcquire(flowID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active {
		return ErrRunInFlight
	}
	g.active = true
	g.activeFlow = flowID
	return nil
}

// Release frees the gate. Safe to call when not held.
func (g *ExecutionGate) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = false
	g.activeFlow = ""
}

// ActiveFlowID returns the flow currently holding the gate, if any.
func (g *ExecutionGate) ActiveFlowID() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.activeFlow, g.active
}
