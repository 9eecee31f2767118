package history

import (
	"sync"
	"time"
)

// Default scheduling windows.
const (
	// DebounceInterval is the trailing quiet period after a burst of edits
	// before the pending snapshot commits.
	DebounceInterval = 500 * time.Millisecond

	// BatchWindow groups near-simultaneous immediate commits (a node removal
	// plus its connected edge removals) into one undo step.
	BatchWindow = 50 * time.Millisecond
)

// Scheduler decides when snapshots reach the stack. Two modes:
//
//   - debounced: "first snapshot wins". The snapshot captured at the start
//     of a burst is held, each new edit resets the timer, and the held
//     snapshot commits once the burst goes quiet. Intermediate states of a
//     drag or typing run are never committed.
//
//   - immediate: committed at once, except that commits landing inside the
//     batch window of the previous one are dropped; the first commit already
//     captured the before state of the whole action.
type Scheduler struct {
	stack *Stack

	mu               sync.Mutex
	pendingTimers    map[string]*time.Timer
	pendingSnapshots map[string]Snapshot
	lastBatch        map[string]time.Time

	debounce time.Duration
	batch    time.Duration
	now      func() time.Time
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithDebounceInterval overrides the debounce quiet period.
func WithDebounceInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithBatchWindow overrides the immediate-commit batch window.
func WithBatchWindow(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.batch = d
		}
	}
}

// NewScheduler creates a scheduler committing into the given stack.
func NewScheduler(stack *Stack, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		stack:            stack,
		pendingTimers:    make(map[string]*time.Timer),
		pendingSnapshots: make(map[string]Snapshot),
		lastBatch:        make(map[string]time.Time),
		debounce:         DebounceInterval,
		batch:            BatchWindow,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule queues a before-edit snapshot for commit.
func (s *Scheduler) Schedule(flowID string, snap Snapshot, debounce bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if debounce {
		if _, held := s.pendingSnapshots[flowID]; !held {
			s.pendingSnapshots[flowID] = snap
		}
		if timer, ok := s.pendingTimers[flowID]; ok {
			timer.Stop()
		}
		s.pendingTimers[flowID] = time.AfterFunc(s.debounce, func() {
			s.commitPending(flowID)
		})
		return
	}

	if last, ok := s.lastBatch[flowID]; ok && s.now().Sub(last) < s.batch {
		return
	}

	s.flushPendingLocked(flowID)
	s.stack.Commit(flowID, snap)
	s.lastBatch[flowID] = s.now()
}

// commitPending is the debounce timer callback.
func (s *Scheduler) commitPending(flowID string) {
	s.mu.Lock()
	snap, held := s.pendingSnapshots[flowID]
	delete(s.pendingSnapshots, flowID)
	delete(s.pendingTimers, flowID)
	s.mu.Unlock()

	if held {
		s.stack.Commit(flowID, snap)
	}
}

// FlushPending commits any held debounced snapshot immediately.
func (s *Scheduler) FlushPending(flowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushPendingLocked(flowID)
}

func (s *Scheduler) flushPendingLocked(flowID string) {
	if timer, ok := s.pendingTimers[flowID]; ok {
		timer.Stop()
		delete(s.pendingTimers, flowID)
	}
	if snap, held := s.pendingSnapshots[flowID]; held {
		delete(s.pendingSnapshots, flowID)
		s.stack.Commit(flowID, snap)
	}
}

// CancelPending drops any held snapshot and timing state for a flow.
func (s *Scheduler) CancelPending(flowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.pendingTimers[flowID]; ok {
		timer.Stop()
		delete(s.pendingTimers, flowID)
	}
	delete(s.pendingSnapshots, flowID)
	delete(s.lastBatch, flowID)
}
