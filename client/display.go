// Package client implements the client side of the protocol: a
// connection to a compositor's socket, the object table and dispatcher
// every bound object routes events through, the global registry, and a
// synchronous round-trip primitive built on wl_callback.
package client

import (
	"sync"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/object"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/transport"
	"github.com/ghostkellz/wzl-go/wire"
)

// EventHandler receives one event's decoded arguments.
type EventHandler func(args []wire.Arg)

// boundObject is the client-side counterpart to server.boundObject: a
// plain object.Object plus a per-opcode handler list, installed in the
// table under the id the compositor assigned (for the display/registry)
// or the id this client minted via a new_id request (everything else).
type boundObject struct {
	object.Object
	mu       sync.Mutex
	handlers map[uint16][]EventHandler
}

func newBoundObject(obj object.Object) *boundObject {
	return &boundObject{Object: obj, handlers: map[uint16][]EventHandler{}}
}

func (b *boundObject) on(opcode uint16, h EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[opcode] = append(b.handlers[opcode], h)
}

func (b *boundObject) Dispatch(opcode uint16, args []wire.Arg) error {
	b.mu.Lock()
	hs := append([]EventHandler(nil), b.handlers[opcode]...)
	b.mu.Unlock()
	for _, h := range hs {
		h(args)
	}
	return nil
}

// Display is a client's connection to a compositor: its object table,
// event dispatcher, and the bootstrap registry every client needs before
// it can bind anything else.
type Display struct {
	conn       *transport.Conn
	table      *object.Table
	dispatcher *object.Dispatcher
	registry   *Registry

	mu       sync.Mutex
	lastErr  error
}

// Connect dials displayName (empty for $WAYLAND_DISPLAY or the default),
// installs the display and registry objects, and performs the initial
// round-trip the registry needs to have seen every global the compositor
// advertises at connect time.
func Connect(displayName string) (*Display, error) {
	conn, err := transport.Dial(displayName)
	if err != nil {
		return nil, err
	}

	d := &Display{conn: conn}
	displayObj := newBoundObject(object.NewBase(object.DisplayID, "wl_display", 1))
	displayObj.on(0, d.handleError)
	displayObj.on(1, d.handleDeleteID)

	d.table = object.NewClientTable(displayObj)
	d.dispatcher = object.NewDispatcher(d.table, object.EventSignatures)

	regID, err := d.table.Allocate()
	if err != nil {
		conn.Close()
		return nil, err
	}
	registryObj := newBoundObject(object.NewBase(regID, "wl_registry", 1))
	if err := d.table.Install(registryObj); err != nil {
		conn.Close()
		return nil, err
	}
	d.registry = &Registry{id: regID, display: d, globals: map[uint32]Global{}}
	registryObj.on(0, d.registry.handleGlobal)
	registryObj.on(1, d.registry.handleGlobalRemove)

	sig, _ := proto.WlDisplay.Request(1) // get_registry
	if err := d.sendRequest(object.DisplayID, 1, []wire.Arg{wire.ArgNewID(regID)}, sig); err != nil {
		conn.Close()
		return nil, err
	}

	if err := d.Roundtrip(); err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

// Close tears down the underlying connection.
func (d *Display) Close() error { return d.conn.Close() }

// Registry returns the bootstrap global registry.
func (d *Display) Registry() *Registry { return d.registry }

// NewID allocates a fresh client-range object id, for callers building a
// new_id request this package has no purpose-built helper for.
func (d *Display) NewID() (uint32, error) { return d.table.Allocate() }

// Install registers obj (typically constructed via NewTrackedObject) in
// this display's table under the id it already carries.
func (d *Display) Install(obj object.Dispatchable) error { return d.table.Install(obj) }

// SendRequest encodes and writes a request; callers outside this package
// reach it when driving an interface this package has no typed wrapper
// for (virtual-input extensions, for instance).
func (d *Display) SendRequest(objID uint32, opcode uint16, args []wire.Arg, sig wire.Signature) error {
	return d.sendRequest(objID, opcode, args, sig)
}

func (d *Display) sendRequest(objID uint32, opcode uint16, args []wire.Arg, sig wire.Signature) error {
	return d.conn.Send(wire.Message{ObjectID: objID, Opcode: opcode, Args: args}, sig)
}

// AddListener attaches handler to objID's opcode, for objects installed
// via NewTrackedObject.
func (d *Display) AddListener(objID uint32, opcode uint16, handler EventHandler) error {
	obj, ok := d.table.Lookup(objID)
	if !ok {
		return wlerr.NewWithObject(wlerr.InvalidObject, objID, "add listener on unknown object")
	}
	bo, ok := obj.(*boundObject)
	if !ok {
		return wlerr.NewWithObject(wlerr.InvalidObject, objID, "object does not accept listeners")
	}
	bo.on(opcode, handler)
	return nil
}

// NewTrackedObject installs a client-side handle for a newly bound or
// newly created object (one named by a new_id argument this client
// supplied), so AddListener can subsequently attach event handlers to it.
func (d *Display) NewTrackedObject(id uint32, iface string, version uint32) error {
	return d.table.Install(newBoundObject(object.NewBase(id, iface, version)))
}

// Dispatch blocks for and handles exactly one incoming event.
func (d *Display) Dispatch() error {
	raw, err := d.conn.RecvRaw()
	if err != nil {
		return err
	}
	return d.dispatcher.Handle(object.RawMessage(raw), d.conn.PopFDs)
}

// Roundtrip blocks until every event sent before this call was processed,
// by waiting for a wl_callback tied to a wl_display.sync request.
func (d *Display) Roundtrip() error {
	cbID, err := d.table.Allocate()
	if err != nil {
		return err
	}
	done := make(chan struct{}, 1)
	cb := newBoundObject(object.NewBase(cbID, "wl_callback", 1))
	cb.on(0, func([]wire.Arg) { done <- struct{}{} })
	if err := d.table.Install(cb); err != nil {
		return err
	}

	sig, _ := proto.WlDisplay.Request(0) // sync
	if err := d.sendRequest(object.DisplayID, 0, []wire.Arg{wire.ArgNewID(cbID)}, sig); err != nil {
		return err
	}

	for {
		select {
		case <-done:
			return nil
		default:
		}
		if err := d.Dispatch(); err != nil {
			return err
		}
	}
}

// LastError returns the most recently received display.error event, if
// any, wrapped as a *wlerr.Error.
func (d *Display) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

func (d *Display) handleError(args []wire.Arg) {
	objID, code, msg := args[0].Object, args[1].Uint, args[2].Str
	d.mu.Lock()
	d.lastErr = wlerr.NewWithObject(wlerr.Code(code), objID, msg)
	d.mu.Unlock()
}

func (d *Display) handleDeleteID(args []wire.Arg) {
	d.table.Destroy(args[0].Uint)
}
