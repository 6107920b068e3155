package upstream

import (
	"context"
	"fmt"
	"sync"

	"github.com/wayfarer-ai/roc/domain"
)

// Registry dispatches a ServiceCallSpec to the Client registered for its
// Kind, avoiding a type switch anywhere else in the core.
type Registry struct {
	mu      sync.RWMutex
	clients map[domain.ServiceKind]Client
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[domain.ServiceKind]Client)}
}

// Register associates a Client with a ServiceKind, replacing any prior
// registration — callers swap in fakes for tests this way.
func (r *Registry) Register(kind domain.ServiceKind, c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[kind] = c
}

// Dispatch routes spec to its registered Client. If no client is
// registered for spec.Kind, the result is an Internal error — that is a
// wiring mistake in the embedding process, not a transient upstream
// failure.
func (r *Registry) Dispatch(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult {
	r.mu.RLock()
	c, ok := r.clients[spec.Kind]
	r.mu.RUnlock()

	if !ok {
		return domain.ServiceResult{
			Kind: spec.Kind, Key: spec.Key,
			ErrKind: domain.ErrorInternal,
			Detail:  fmt.Sprintf("no upstream client registered for %s", spec.Kind),
		}
	}
	return c.Call(ctx, spec)
}

// Has reports whether a client is registered for kind.
func (r *Registry) Has(kind domain.ServiceKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[kind]
	return ok
}
