package observability_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tailored-agentic-units/relay/observability"
)

type captureObserver struct {
	mu     sync.Mutex
	events []observability.Event
}

func (o *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *captureObserver) getEvents() []observability.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events
}

func TestMultiObserver_BroadcastsToAllObservers(t *testing.T) {
	obs1 := &captureObserver{}
	obs2 := &captureObserver{}

	multi := observability.NewMultiObserver(obs1, obs2)

	event := observability.Event{
		Type:      observability.EventMessageForward,
		Timestamp: time.Now(),
		Source:    "a",
		Data:      map[string]any{"destination": "a/b/c"},
	}

	multi.OnEvent(context.Background(), event)

	for i, obs := range []*captureObserver{obs1, obs2} {
		events := obs.getEvents()
		if len(events) != 1 {
			t.Errorf("Observer %d: got %d events, want 1", i, len(events))
			continue
		}
		if events[0].Type != observability.EventMessageForward {
			t.Errorf("Observer %d: got type %v, want %v", i, events[0].Type, observability.EventMessageForward)
		}
	}
}

func TestMultiObserver_FiltersNilObservers(t *testing.T) {
	obs := &captureObserver{}
	multi := observability.NewMultiObserver(nil, obs, nil)

	multi.OnEvent(context.Background(), observability.Event{Type: observability.EventChildAdd})

	if got := len(obs.getEvents()); got != 1 {
		t.Errorf("got %d events, want 1", got)
	}
}

func TestMultiObserver_EmptyObservers(t *testing.T) {
	multi := observability.NewMultiObserver()

	// Must not panic with no observers.
	multi.OnEvent(context.Background(), observability.Event{Type: observability.EventRouterClose})
}
