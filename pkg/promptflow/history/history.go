// Package history implements undo/redo for flow graphs: bounded per-flow
// snapshot stacks plus debounce and batch scheduling that collapses bursty
// edits (dragging, typing) into single undo steps.
package history

import (
	"sync"

	"github.com/promptflow/promptflow/pkg/promptflow"
)

// MaxHistory bounds each flow's past stack; the oldest snapshot is evicted
// first.
const MaxHistory = 50

// Snapshot is a full copy of graph state at one instant.
type Snapshot struct {
	Nodes []promptflow.Node `json:"nodes"`
	Edges []promptflow.Edge `json:"edges"`
}

// Capture deep-copies the given graph into a snapshot, so later mutations of
// the live graph cannot corrupt history.
func Capture(nodes []promptflow.Node, edges []promptflow.Edge) Snapshot {
	snap := Snapshot{
		Nodes: make([]promptflow.Node, len(nodes)),
		Edges: make([]promptflow.Edge, len(edges)),
	}
	for i, n := range nodes {
		n.Data = n.Data.Clone()
		snap.Nodes[i] = n
	}
	copy(snap.Edges, edges)
	return snap
}

// flowHistory is one flow's past/future stacks.
type flowHistory struct {
	past   []Snapshot
	future []Snapshot
}

// Stack holds per-flow undo/redo stacks. Pure state, no timers; scheduling
// lives in Scheduler. Safe for concurrent use.
type Stack struct {
	mu     sync.Mutex
	max    int
	stacks map[string]*flowHistory
}

// NewStack creates an empty history stack with the default bound.
func NewStack() *Stack {
	return &Stack{max: MaxHistory, stacks: make(map[string]*flowHistory)}
}

func (s *Stack) getOrCreate(flowID string) *flowHistory {
	h, ok := s.stacks[flowID]
	if !ok {
		h = &flowHistory{}
		s.stacks[flowID] = h
	}
	return h
}

// Commit pushes a snapshot onto the past stack, evicting the oldest entry
// beyond the bound, and clears the future stack: committing after an undo
// forks history and the redo chain is gone.
func (s *Stack) Commit(flowID string, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.getOrCreate(flowID)
	h.past = append(h.past, snap)
	if len(h.past) > s.max {
		h.past = h.past[1:]
	}
	h.future = nil
}

// Undo pops the most recent past snapshot, pushing current onto the future
// stack. Returns false when there is nothing to undo.
func (s *Stack) Undo(flowID string, current Snapshot) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.stacks[flowID]
	if !ok || len(h.past) == 0 {
		return Snapshot{}, false
	}
	restored := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current)
	return restored, true
}

// Redo pops the most recent future snapshot, pushing current onto the past
// stack. Returns false when there is nothing to redo.
func (s *Stack) Redo(flowID string, current Snapshot) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.stacks[flowID]
	if !ok || len(h.future) == 0 {
		return Snapshot{}, false
	}
	restored := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current)
	return restored, true
}

// CanUndo reports whether the flow has past snapshots.
func (s *Stack) CanUndo(flowID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.stacks[flowID]
	return ok && len(h.past) > 0
}

// CanRedo reports whether the flow has future snapshots.
func (s *Stack) CanRedo(flowID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.stacks[flowID]
	return ok && len(h.future) > 0
}

// SeedInitial records the flow's starting state, only when its history is
// still empty, so the very first edit can be undone back to it.
func (s *Stack) SeedInitial(flowID string, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.getOrCreate(flowID)
	if len(h.past) == 0 {
		h.past = append(h.past, snap)
	}
}

// Clear drops all history for a flow.
func (s *Stack) Clear(flowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stacks, flowID)
}
