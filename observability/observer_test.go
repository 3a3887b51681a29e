package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/tailored-agentic-units/relay/observability"
)

func TestObserver_NoOpObserver(t *testing.T) {
	observer := observability.NoOpObserver{}
	event := observability.Event{
		Type:      observability.EventMessageSend,
		Timestamp: time.Now(),
		Source:    "a/b",
		Data:      map[string]any{"id": "msg-1"},
	}

	observer.OnEvent(context.Background(), event)
}

func TestObserverRegistry_GetObserver(t *testing.T) {
	tests := []struct {
		name        string
		observerKey string
		wantErr     bool
	}{
		{
			name:        "noop observer exists",
			observerKey: "noop",
			wantErr:     false,
		},
		{
			name:        "slog observer exists",
			observerKey: "slog",
			wantErr:     false,
		},
		{
			name:        "unknown observer returns error",
			observerKey: "unknown",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer, err := observability.GetObserver(tt.observerKey)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetObserver() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && observer == nil {
				t.Error("GetObserver() returned nil observer for valid key")
			}
		})
	}
}

type testObserver struct{}

func (testObserver) OnEvent(ctx context.Context, event observability.Event) {}

func TestObserverRegistry_RegisterObserver(t *testing.T) {
	observability.RegisterObserver("test-observer", testObserver{})

	observer, err := observability.GetObserver("test-observer")
	if err != nil {
		t.Errorf("GetObserver() after registration failed: %v", err)
	}
	if observer == nil {
		t.Error("GetObserver() returned nil for registered observer")
	}
}
