// Package eventbus provides a typed property-change event source for a
// SelectionModel, replacing the Java original's PropertyChangeSupport.
//
// Grounded on the teacher's internal/app/state.go On/Emit listener registry,
// generalized from an int EventType enum to a string event name so callers
// outside this module can listen on events this package never anticipated,
// and carrying both the old and new value the way a PropertyChangeEvent
// does (the teacher's Emit only passes the new value).
package eventbus

import "sync"

// Property names emitted by a selection model.
const (
	PropertyState        = "state"
	PropertySelection    = "selection"
	PropertyImage        = "image"
	PropertyProgress     = "progress"
	PropertyPendingPaths = "pending-paths"
)

// Listener is called when a property changes, receiving the property's
// previous and new values.
type Listener func(old, new any)

// Bus is a typed, string-keyed event source. The zero value is ready to use.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// On registers listener to be called whenever Emit fires for event.
func (b *Bus) On(event string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listeners == nil {
		b.listeners = make(map[string][]Listener)
	}
	b.listeners[event] = append(b.listeners[event], listener)
}

// Emit calls every listener registered for event with (old, new).
func (b *Bus) Emit(event string, old, new any) {
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event]...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		listener(old, new)
	}
}
