package autosave_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptflow/promptflow/pkg/promptflow/autosave"
)

// flakyStore wraps a MemoryStore and fails saves while failing is set.
type flakyStore struct {
	*autosave.MemoryStore

	mu      sync.Mutex
	failing bool
	saves   int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: autosave.NewMemoryStore()}
}

func (s *flakyStore) Save(ctx context.Context, rec autosave.FlowRecord) error {
	s.mu.Lock()
	s.saves++
	failing := s.failing
	s.mu.Unlock()

	if failing {
		return errors.New("disk full")
	}
	return s.MemoryStore.Save(ctx, rec)
}

func (s *flakyStore) setFailing(v bool) {
	s.mu.Lock()
	s.failing = v
	s.mu.Unlock()
}

func (s *flakyStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func staticSource(recs map[string]autosave.FlowRecord) autosave.Source {
	return autosave.SourceFunc(func(flowID string) (autosave.FlowRecord, bool) {
		rec, ok := recs[flowID]
		return rec, ok
	})
}

// TestScheduler_DebouncedSave tests that a burst of edits produces one save
// after the quiet interval.
func TestScheduler_DebouncedSave(t *testing.T) {
	store := newFlakyStore()
	scheduler := autosave.NewScheduler(store,
		staticSource(map[string]autosave.FlowRecord{"f1": flowRecord("f1", "My Flow")}),
		autosave.WithSaveInterval(20*time.Millisecond))
	defer scheduler.Close()

	scheduler.MarkDirty("f1")
	scheduler.MarkDirty("f1")
	scheduler.MarkDirty("f1")

	assert.True(t, scheduler.Dirty("f1"))

	require.Eventually(t, func() bool { return !scheduler.Dirty("f1") },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, store.saveCount())

	rec, err := store.Load(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "My Flow", rec.Name)
}

// TestScheduler_FailureKeepsDirty tests that a failed save leaves the flow
// dirty and a later flush retries it.
func TestScheduler_FailureKeepsDirty(t *testing.T) {
	store := newFlakyStore()
	store.setFailing(true)
	scheduler := autosave.NewScheduler(store,
		staticSource(map[string]autosave.FlowRecord{"f1": flowRecord("f1", "My Flow")}),
		autosave.WithSaveInterval(10*time.Millisecond))
	defer scheduler.Close()

	scheduler.MarkDirty("f1")

	require.Eventually(t, func() bool { return store.saveCount() >= 1 },
		time.Second, 5*time.Millisecond)
	assert.True(t, scheduler.Dirty("f1"))

	store.setFailing(false)
	scheduler.FlushAll(context.Background())

	assert.False(t, scheduler.Dirty("f1"))
	_, err := store.Load(context.Background(), "f1")
	assert.NoError(t, err)
}

// TestScheduler_Cancel tests that cancel drops the pending save.
func TestScheduler_Cancel(t *testing.T) {
	store := newFlakyStore()
	scheduler := autosave.NewScheduler(store,
		staticSource(map[string]autosave.FlowRecord{"f1": flowRecord("f1", "My Flow")}),
		autosave.WithSaveInterval(20*time.Millisecond))
	defer scheduler.Close()

	scheduler.MarkDirty("f1")
	scheduler.Cancel("f1")

	assert.False(t, scheduler.Dirty("f1"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, store.saveCount())
}

// TestScheduler_MissingFlowDropped tests that a flow gone from the source
// is cancelled rather than retried forever.
func TestScheduler_MissingFlowDropped(t *testing.T) {
	store := newFlakyStore()
	scheduler := autosave.NewScheduler(store,
		staticSource(nil),
		autosave.WithSaveInterval(10*time.Millisecond))
	defer scheduler.Close()

	scheduler.MarkDirty("gone")

	require.Eventually(t, func() bool { return !scheduler.Dirty("gone") },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, store.saveCount())
}

// TestScheduler_CloseFlushes tests that shutdown persists dirty flows
// without waiting for timers.
func TestScheduler_CloseFlushes(t *testing.T) {
	store := newFlakyStore()
	scheduler := autosave.NewScheduler(store,
		staticSource(map[string]autosave.FlowRecord{
			"f1": flowRecord("f1", "One"),
			"f2": flowRecord("f2", "Two"),
		}),
		autosave.WithSaveInterval(time.Hour))

	scheduler.MarkDirty("f1")
	scheduler.MarkDirty("f2")
	scheduler.Close()

	recs, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	// Closed scheduler ignores further edits.
	scheduler.MarkDirty("f1")
	assert.False(t, scheduler.Dirty("f1"))
}
