// Package runtime owns the live-connection state of the server: the
// registry, the hub, and the channels feeding the supervised workers.
// It orchestrates delivery without containing business logic.
package runtime

import (
	"sort"
	"sync"

	"pairchat/contract"
	"pairchat/domain"
)

// registration ties one sink to the token handed out at attach time.
type registration struct {
	token contract.Registration
	sink  contract.EventSink
}

// Registry maps each identity to its single live connection.
// Attach overwrites any previous connection for the identity. Detach is a
// compare-and-delete on the registration token: the teardown of a
// superseded connection is a no-op instead of evicting its replacement.
type Registry struct {
	mu      sync.RWMutex
	last    contract.Registration
	entries map[domain.Identity]registration
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[domain.Identity]registration)}
}

func (r *Registry) Attach(id domain.Identity, sink contract.EventSink) contract.Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last++
	r.entries[id] = registration{token: r.last, sink: sink}
	return r.last
}

func (r *Registry) Detach(id domain.Identity, reg contract.Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.entries[id]; ok && cur.token == reg {
		delete(r.entries, id)
	}
}

func (r *Registry) Lookup(id domain.Identity) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cur, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return cur.sink, true
}

// Snapshot returns the sorted identities currently holding a registered
// connection. The result is a fresh slice owned by the caller.
func (r *Registry) Snapshot() []domain.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Identity, 0, len(r.entries))
	for id := range r.entries {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
