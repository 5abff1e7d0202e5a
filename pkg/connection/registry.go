package connection

import (
	"fmt"
	"log/slog"
	"sync"
)

// Constructor builds a capability instance for a recognized Info. The
// constructor closes over its variant's dependencies; the binding table
// is built once at startup.
type Constructor func(info Info) (Capability, error)

// Recognizer reports whether a capability claims the given Info.
// Recognizers must be mutually exclusive over the Info union.
type Recognizer func(info Info) bool

type binding struct {
	construct  Constructor
	recognizes Recognizer
}

// Registry maps connection kinds to their capability implementations.
type Registry struct {
	mu       sync.RWMutex
	bindings map[Kind]binding
}

// NewRegistry creates an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{bindings: make(map[Kind]binding)}
}

// Register binds a kind to its capability implementation. Registering
// the same kind twice replaces the prior binding; that is almost always
// an accident, so it is logged, but it is not a hard error.
func (r *Registry) Register(kind Kind, construct Constructor, recognizes Recognizer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bindings[kind]; exists {
		slog.Warn("replacing registered connection capability", "kind", kind)
	}
	r.bindings[kind] = binding{construct: construct, recognizes: recognizes}
}

// Resolve looks up the capability claiming info and constructs an
// instance for it. Fails with ErrUnknownConnectionType when no
// registered capability claims the connection.
func (r *Registry) Resolve(info Info) (Capability, error) {
	r.mu.RLock()
	b, ok := r.bindings[info.Kind()]
	r.mu.RUnlock()

	if !ok || !b.recognizes(info) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConnectionType, info.Kind())
	}
	return b.construct(info)
}

// Kinds returns the registered kinds.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.bindings))
	for k := range r.bindings {
		kinds = append(kinds, k)
	}
	return kinds
}
