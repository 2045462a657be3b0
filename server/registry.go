// Package server implements the compositor side of the protocol: the
// global broker, surface and XDG role manager, SHM pool manager, seat
// input routing, output manager, and the scene graph that sits above
// all of them, wired to connections through the object and transport
// packages.
package server

import (
	"sort"
	"sync"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
)

// Global is one (name, interface, version) advertisement. Construction
// of the bound object itself happens at the connection that binds it
// (see Connection.dispatchRegistry) since it needs that connection's
// table and event sink — the broker only tracks the advertisement.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Registry is the server's global broker: one instance shared by every
// connection, coordinated by a coarse lock held only around add/remove,
// never during a client's own dispatch (spec's concurrency rule for
// this shared structure).
type Registry struct {
	mu      sync.RWMutex
	nextName uint32
	globals map[uint32]Global

	// subscribers are per-connection registry objects that must be told
	// about adds/removes as they happen (the event stream that
	// accompanies the registry's initial bind-time enumeration).
	subscribers map[uint32]Subscriber
}

// Subscriber receives global add/remove notifications. A connection's
// wl_registry object implements this to forward them as wire events.
type Subscriber interface {
	GlobalAdded(name uint32, iface string, version uint32)
	GlobalRemoved(name uint32)
}

func NewRegistry() *Registry {
	return &Registry{
		nextName:    1,
		globals:     map[uint32]Global{},
		subscribers: map[uint32]Subscriber{},
	}
}

// Advertise registers a new global, notifying every current subscriber.
func (r *Registry) Advertise(iface string, version uint32) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := r.nextName
	r.nextName++
	r.globals[name] = Global{Name: name, Interface: iface, Version: version}
	for _, sub := range r.subscribers {
		sub.GlobalAdded(name, iface, version)
	}
	return name
}

// Revoke withdraws a global by name. Subsequent binds of this name fail
// with NoInterface.
func (r *Registry) Revoke(name uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.globals[name]; !ok {
		return
	}
	delete(r.globals, name)
	for _, sub := range r.subscribers {
		sub.GlobalRemoved(name)
	}
}

// Subscribe attaches a connection's registry object so it receives
// subsequent add/remove notifications, and returns the current snapshot
// it must emit as its own initial `global` events.
func (r *Registry) Subscribe(connKey uint32, sub Subscriber) []Global {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[connKey] = sub
	out := make([]Global, 0, len(r.globals))
	for _, g := range r.globals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Unsubscribe detaches a connection's registry object, typically on
// disconnect.
func (r *Registry) Unsubscribe(connKey uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subscribers, connKey)
}

// Resolve looks up a global by name for a bind request, failing with
// NoInterface against a stale or unknown name.
func (r *Registry) Resolve(name uint32) (Global, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.globals[name]
	if !ok {
		return Global{}, wlerr.New(wlerr.NoInterface, "bind against a stale or unknown global name")
	}
	return g, nil
}

// NegotiateVersion implements the unilateral negotiation rule: the
// server never upgrades past what the client declared.
func NegotiateVersion(requested, supported uint32) uint32 {
	if requested > supported {
		return supported
	}
	return requested
}
