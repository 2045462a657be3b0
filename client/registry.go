package client

import (
	"sort"
	"sync"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/wire"
)

// Global is one global this client has seen advertised.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Registry mirrors the compositor's global broker: a snapshot of every
// global seen so far, kept current by the wl_registry.global and
// .global_remove events this client's bound wl_registry object receives.
type Registry struct {
	id      uint32
	display *Display

	mu      sync.RWMutex
	globals map[uint32]Global
}

func (r *Registry) handleGlobal(args []wire.Arg) {
	g := Global{Name: args[0].Uint, Interface: args[1].Str, Version: args[2].Uint}
	r.mu.Lock()
	r.globals[g.Name] = g
	r.mu.Unlock()
}

func (r *Registry) handleGlobalRemove(args []wire.Arg) {
	r.mu.Lock()
	delete(r.globals, args[0].Uint)
	r.mu.Unlock()
}

// GetGlobals returns every currently known global, sorted by name.
func (r *Registry) GetGlobals() []Global {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Global, 0, len(r.globals))
	for _, g := range r.globals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FindGlobal returns a known global advertising iface; when several do,
// which one is returned is not defined.
func (r *Registry) FindGlobal(iface string) (Global, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.globals {
		if g.Interface == iface {
			return g, true
		}
	}
	return Global{}, false
}

// Bind requests a new object for global g at version (capped to g's
// advertised maximum by the caller), returning the client-allocated id
// the caller should wrap with its own typed object (or
// Display.NewTrackedObject for a generic one).
func (r *Registry) Bind(g Global, version uint32) (uint32, error) {
	newID, err := r.display.table.Allocate()
	if err != nil {
		return 0, err
	}
	if err := r.display.NewTrackedObject(newID, g.Interface, version); err != nil {
		return 0, err
	}
	sig, _ := proto.WlRegistry.Request(0) // bind
	args := []wire.Arg{wire.ArgUint(g.Name), wire.ArgString(g.Interface), wire.ArgUint(version), wire.ArgNewID(newID)}
	if err := r.display.sendRequest(r.id, 0, args, sig); err != nil {
		return 0, wlerr.Wrap(wlerr.BrokenPipe, "send bind request", err)
	}
	return newID, nil
}
