package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptflow/promptflow/pkg/promptflow/event"
)

func drain(sub *event.Subscription) []event.Event {
	var evts []event.Event
	for {
		select {
		case evt, ok := <-sub.C:
			if !ok {
				return evts
			}
			evts = append(evts, evt)
		default:
			return evts
		}
	}
}

// TestBus_FanOut tests that every subscriber sees every event.
func TestBus_FanOut(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	sub1 := bus.Subscribe()
	sub2 := bus.Subscribe()

	bus.Publish(event.New(event.TypeRunStarted, "f1", "r1"))
	bus.Publish(event.New(event.TypeRunCompleted, "f1", "r1"))

	for _, sub := range []*event.Subscription{sub1, sub2} {
		evts := drain(sub)
		require.Len(t, evts, 2)
		assert.Equal(t, event.TypeRunStarted, evts[0].Type)
		assert.Equal(t, event.TypeRunCompleted, evts[1].Type)
		assert.Equal(t, "f1", evts[0].FlowID)
		assert.Equal(t, "r1", evts[0].RunID)
	}
}

// TestBus_TypeFilter tests that typed subscriptions only see their types.
func TestBus_TypeFilter(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	sub := bus.Subscribe(event.TypeNodeStatus)

	bus.Publish(event.New(event.TypeRunStarted, "f1", "r1"))
	bus.Publish(event.New(event.TypeNodeStatus, "f1", "r1").WithNode("a", "running"))
	bus.Publish(event.New(event.TypeNodeOutput, "f1", "r1"))

	evts := drain(sub)
	require.Len(t, evts, 1)
	assert.Equal(t, event.TypeNodeStatus, evts[0].Type)
	assert.Equal(t, "a", evts[0].NodeID)
	assert.Equal(t, "running", evts[0].Status)
}

// TestBus_DropsWhenFull tests the non-blocking publish contract: a full
// subscriber buffer drops rather than stalls.
func TestBus_DropsWhenFull(t *testing.T) {
	var dropped []string
	bus := event.NewBus(
		event.WithBufferSize(1),
		event.WithOnDrop(func(evt event.Event, subscriberID string) {
			dropped = append(dropped, string(evt.Type))
		}),
	)
	defer bus.Close()

	sub := bus.Subscribe()

	bus.Publish(event.New(event.TypeRunStarted, "f1", "r1"))
	bus.Publish(event.New(event.TypeRunCompleted, "f1", "r1"))

	evts := drain(sub)
	require.Len(t, evts, 1)
	assert.Equal(t, event.TypeRunStarted, evts[0].Type)
	assert.Equal(t, []string{string(event.TypeRunCompleted)}, dropped)
}

// TestBus_Unsubscribe tests that an unsubscribed consumer stops receiving
// and its channel closes.
func TestBus_Unsubscribe(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()

	sub := bus.Subscribe()
	sub.Unsubscribe()
	sub.Unsubscribe() // idempotent

	bus.Publish(event.New(event.TypeRunStarted, "f1", "r1"))

	_, ok := <-sub.C
	assert.False(t, ok)
}

// TestBus_Close tests that close drops publishes and closes channels.
func TestBus_Close(t *testing.T) {
	bus := event.NewBus()
	sub := bus.Subscribe()

	bus.Close()
	bus.Close() // idempotent
	bus.Publish(event.New(event.TypeRunStarted, "f1", "r1"))

	_, ok := <-sub.C
	assert.False(t, ok)

	// Subscribing after close yields an already-closed channel.
	late := bus.Subscribe()
	_, ok = <-late.C
	assert.False(t, ok)
}

// TestEvent_Builders tests the event constructor and builder fields.
func TestEvent_Builders(t *testing.T) {
	evt := event.New(event.TypeNodeOutput, "f1", "r1").
		WithNode("a", "error").
		WithError("boom").
		WithOutput(map[string]string{"text": "x"})

	assert.NotEmpty(t, evt.ID)
	assert.False(t, evt.Timestamp.IsZero())
	assert.Equal(t, "a", evt.NodeID)
	assert.Equal(t, "error", evt.Status)
	assert.Equal(t, "boom", evt.Error)
	assert.NotNil(t, evt.Output)
}
