package history

// Manager is the undo/redo facade combining a Stack with a Scheduler.
// Construct one per application at the composition root; there is no
// package-level instance.
type Manager struct {
	stack     *Stack
	scheduler *Scheduler
}

// NewManager creates an undo manager.
func NewManager(opts ...SchedulerOption) *Manager {
	stack := NewStack()
	return &Manager{
		stack:     stack,
		scheduler: NewScheduler(stack, opts...),
	}
}

// PushSnapshot records a before-edit snapshot. Debounced pushes collapse a
// burst of edits into one undo step; immediate pushes commit right away,
// deduplicated within the batch window.
func (m *Manager) PushSnapshot(flowID string, before Snapshot, debounce bool) {
	m.scheduler.Schedule(flowID, before, debounce)
}

// FlushPending commits any held debounced snapshot immediately.
func (m *Manager) FlushPending(flowID string) {
	m.scheduler.FlushPending(flowID)
}

// Undo restores the previous snapshot. Any pending debounced snapshot is
// flushed first, so an undo right after a burst undoes that burst rather
// than skipping it.
func (m *Manager) Undo(flowID string, current Snapshot) (Snapshot, bool) {
	m.scheduler.FlushPending(flowID)
	return m.stack.Undo(flowID, current)
}

// Redo restores the next snapshot after an undo.
func (m *Manager) Redo(flowID string, current Snapshot) (Snapshot, bool) {
	return m.stack.Redo(flowID, current)
}

// CanUndo reports whether an undo step exists.
func (m *Manager) CanUndo(flowID string) bool {
	return m.stack.CanUndo(flowID)
}

// CanRedo reports whether a redo step exists.
func (m *Manager) CanRedo(flowID string) bool {
	return m.stack.CanRedo(flowID)
}

// SeedInitial records a flow's starting state if it has no history yet.
func (m *Manager) SeedInitial(flowID string, snap Snapshot) {
	m.stack.SeedInitial(flowID, snap)
}

// Clear drops all history and pending state for a flow.
func (m *Manager) Clear(flowID string) {
	m.scheduler.CancelPending(flowID)
	m.stack.Clear(flowID)
}
