// Package controller maintains the set of live (document type,
// connection) kernels, creating them on demand and tearing them down
// when their connection is removed.
package controller

import (
	"sync"

	"github.com/txn2/kusto-notebook/pkg/connection"
)

// EventType discriminates connection change events.
type EventType string

// Connection change event types.
const (
	ConnectionAdded   EventType = "added"
	ConnectionRemoved EventType = "removed"
)

// Event is a connection change notification.
type Event struct {
	Type EventType
	Info connection.Info
}

// Notifier fans connection change events out to subscribers.
type Notifier struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a handler for all future events.
func (n *Notifier) Subscribe(fn func(Event)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, fn)
}

// Publish delivers an event to every subscriber, in order.
func (n *Notifier) Publish(e Event) {
	n.mu.RLock()
	subs := make([]func(Event), len(n.subs))
	copy(subs, n.subs)
	n.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}
