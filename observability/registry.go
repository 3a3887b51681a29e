package observability

import (
	"fmt"
	"log/slog"
	"sync"
)

// observers registry maps observer names to implementations.
var (
	observers = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	}
	mutex sync.RWMutex
)

// GetObserver retrieves a registered observer by name. This enables
// configuration-driven observer selection: router configs name observers
// as strings that are resolved at construction time.
//
// Returns an error if the observer name is not registered.
func GetObserver(name string) (Observer, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	obs, exists := observers[name]
	if !exists {
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
	return obs, nil
}

// RegisterObserver registers a custom observer implementation under the
// given name, replacing any previous registration.
//
// Example:
//
//	type MyObserver struct{ logger *slog.Logger }
//	func (o *MyObserver) OnEvent(ctx context.Context, event Event) {
//	    o.logger.Info("event", "type", event.Type, "source", event.Source)
//	}
//
//	observability.RegisterObserver("my-observer", &MyObserver{logger})
func RegisterObserver(name string, observer Observer) {
	mutex.Lock()
	defer mutex.Unlock()

	observers[name] = observer
}
