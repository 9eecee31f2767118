package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/promptflow/promptflow/pkg/promptflow/observability"
)

// SaveInterval is the default per-flow debounce: a flow saves once it has
// been quiet for this long after an edit.
const SaveInterval = 2 * time.Second

// Source supplies the current persistable state of a flow when its save
// timer fires. Returning false means the flow no longer exists and its
// pending save is dropped.
type Source interface {
	FlowRecord(flowID string) (FlowRecord, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(flowID string) (FlowRecord, bool)

// FlowRecord implements Source.
func (f SourceFunc) FlowRecord(flowID string) (FlowRecord, bool) {
	return f(flowID)
}

// Scheduler debounces flow saves. MarkDirty resets the flow's timer; the
// flow persists once edits go quiet. Save failures are logged and the flow
// stays dirty, so the next edit or FlushAll retries; they are never surfaced
// to the editing path.
type Scheduler struct {
	store   Store
	source  Source
	logger  *slog.Logger
	metrics observability.MetricsRecorder

	interval time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	dirty  map[string]bool
	closed bool
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSaveInterval overrides the debounce interval.
func WithSaveInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) SchedulerOption {
	return func(s *Scheduler) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewScheduler creates a save scheduler persisting into store, reading flow
// state from source.
func NewScheduler(store Store, source Source, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		store:    store,
		source:   source,
		logger:   slog.Default(),
		metrics:  observability.NoopMetrics{},
		interval: SaveInterval,
		timers:   make(map[string]*time.Timer),
		dirty:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkDirty records an edit and resets the flow's save timer.
func (s *Scheduler) MarkDirty(flowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.dirty[flowID] = true
	if timer, ok := s.timers[flowID]; ok {
		timer.Stop()
	}
	s.timers[flowID] = time.AfterFunc(s.interval, func() {
		s.save(context.Background(), flowID)
	})
}

// Dirty reports whether the flow has unsaved edits.
func (s *Scheduler) Dirty(flowID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty[flowID]
}

// Cancel drops the flow's pending save and dirty mark, e.g. when the flow
// is deleted.
func (s *Scheduler) Cancel(flowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[flowID]; ok {
		timer.Stop()
		delete(s.timers, flowID)
	}
	delete(s.dirty, flowID)
}

// FlushAll saves every dirty flow immediately. Call on shutdown.
func (s *Scheduler) FlushAll(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.dirty))
	for flowID := range s.dirty {
		ids = append(ids, flowID)
	}
	for flowID, timer := range s.timers {
		timer.Stop()
		delete(s.timers, flowID)
	}
	s.mu.Unlock()

	for _, flowID := range ids {
		s.save(ctx, flowID)
	}
}

// Close stops all timers and flushes dirty flows. The scheduler accepts no
// further MarkDirty calls.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.FlushAll(context.Background())
}

// save persists one flow if it is still dirty. Failure keeps the dirty
// mark for a later retry.
func (s *Scheduler) save(ctx context.Context, flowID string) {
	s.mu.Lock()
	delete(s.timers, flowID)
	if !s.dirty[flowID] {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	rec, ok := s.source.FlowRecord(flowID)
	if !ok {
		s.Cancel(flowID)
		return
	}

	elapsed := observability.TimedOperation()
	err := s.store.Save(ctx, rec)
	s.metrics.RecordAutosave(ctx, err == nil)
	if err != nil {
		observability.LogAutosaveError(s.logger, flowID, err)
		return
	}

	s.mu.Lock()
	delete(s.dirty, flowID)
	s.mu.Unlock()
	observability.LogAutosave(s.logger, flowID, elapsed())
}
