package server

import (
	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/object"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/transport"
	"github.com/ghostkellz/wzl-go/wire"
)

// boundObject adapts a plain domain object (Surface, Pool, Seat, ...) to
// object.Dispatchable by closing over the owning Connection in a
// function value rather than storing a connection pointer on the
// domain object itself, keeping every domain struct free of
// back-references to the connection that created it.
type boundObject struct {
	object.Object
	dispatch func(opcode uint16, args []wire.Arg) error
}

func (b *boundObject) Dispatch(opcode uint16, args []wire.Arg) error {
	return b.dispatch(opcode, args)
}

// Connection is one client's server-side connection: its object table,
// wire dispatcher, and the domain state (surfaces, pools, seat
// sub-objects) it has created so far.
type Connection struct {
	key        uint32 // identifies this connection to Registry's subscriber map
	conn       *transport.Conn
	table      *object.Table
	dispatcher *object.Dispatcher

	srv *Server

	regObjectID uint32 // this connection's wl_registry object id, once requested
	outputIDs   []uint32

	// pointers/keyboards/touches are every live wl_pointer/wl_keyboard/
	// wl_touch this connection has obtained from its wl_seat bind(s);
	// input injection walks these to address the right wire objects once
	// the scene graph names a focus surface this connection owns.
	pointers  []*Pointer
	keyboards []*Keyboard
	touches   []*Touch

	// gestures recognizes multi-touch gestures out of this connection's
	// touch stream; one recognizer is enough since this core only ever
	// advertises a single seat.
	gestures *GestureRecognizer
}

func newConnection(key uint32, c *transport.Conn, srv *Server) *Connection {
	conn := &Connection{key: key, conn: c, srv: srv}
	conn.table = object.NewClientTable(&boundObject{
		Object:   object.NewBase(object.DisplayID, "wl_display", 1),
		dispatch: conn.dispatchDisplay,
	})
	conn.dispatcher = object.NewDispatcher(conn.table, object.RequestSignatures)
	return conn
}

// Handle processes one raw incoming message, converting a protocol
// error into a display.error event and reporting whether the
// connection must now be torn down.
func (c *Connection) Handle(raw object.RawMessage) (fatal bool) {
	err := c.dispatcher.Handle(object.RawMessage(raw), c.popFDs)
	if err == nil {
		return false
	}
	werr, ok := err.(*wlerr.Error)
	if !ok {
		return true
	}
	if wlerr.Recovery(werr.Code) == wlerr.Retry {
		return false
	}
	c.sendDisplayError(werr.ObjectID, werr.Code, werr.Message)
	return true
}

func (c *Connection) popFDs(n int) ([]int, error) {
	return c.conn.PopFDs(n)
}

func (c *Connection) send(objID uint32, opcode uint16, args []wire.Arg, sig wire.Signature) {
	_ = c.conn.Send(wire.Message{ObjectID: objID, Opcode: opcode, Args: args}, sig)
}

func (c *Connection) sendDisplayError(objID uint32, code wlerr.Code, message string) {
	sig, _ := proto.WlDisplay.Event(0)
	c.send(object.DisplayID, 0, []wire.Arg{
		wire.ArgObject(objID), wire.ArgUint(uint32(code)), wire.ArgString(message),
	}, sig)
}

func (c *Connection) sendDeleteID(id uint32) {
	sig, _ := proto.WlDisplay.Event(1)
	c.send(object.DisplayID, 1, []wire.Arg{wire.ArgUint(id)}, sig)
}

func (c *Connection) destroyObject(id uint32) {
	c.table.Destroy(id)
	c.sendDeleteID(id)
}

func (c *Connection) removePointer(p *Pointer) {
	for i, cur := range c.pointers {
		if cur == p {
			c.pointers = append(c.pointers[:i], c.pointers[i+1:]...)
			return
		}
	}
}

func (c *Connection) removeKeyboard(k *Keyboard) {
	for i, cur := range c.keyboards {
		if cur == k {
			c.keyboards = append(c.keyboards[:i], c.keyboards[i+1:]...)
			return
		}
	}
}

func (c *Connection) removeTouch(t *Touch) {
	for i, cur := range c.touches {
		if cur == t {
			c.touches = append(c.touches[:i], c.touches[i+1:]...)
			return
		}
	}
}

// --- wl_display ---

func (c *Connection) dispatchDisplay(opcode uint16, args []wire.Arg) error {
	switch opcode {
	case 0: // sync
		callbackID := args[0].Object
		cb := &boundObject{Object: object.NewBase(callbackID, "wl_callback", 1), dispatch: func(uint16, []wire.Arg) error {
			return wlerr.NewWithObject(wlerr.InvalidMethod, callbackID, "wl_callback has no requests")
		}}
		if err := c.table.Install(cb); err != nil {
			return err
		}
		sig, _ := proto.WlCallback.Event(0)
		c.send(callbackID, 0, []wire.Arg{wire.ArgUint(0)}, sig)
		c.destroyObject(callbackID)
		return nil
	case 1: // get_registry
		regID := args[0].Object
		c.regObjectID = regID
		reg := &boundObject{Object: object.NewBase(regID, "wl_registry", 1), dispatch: func(opcode uint16, args []wire.Arg) error {
			return c.dispatchRegistry(opcode, args)
		}}
		if err := c.table.Install(reg); err != nil {
			return err
		}
		for _, g := range c.srv.Registry.Subscribe(c.key, c) {
			c.emitGlobal(g)
		}
		return nil
	default:
		return wlerr.NewWithObject(wlerr.InvalidMethod, object.DisplayID, "unknown wl_display opcode")
	}
}

// GlobalAdded/GlobalRemoved satisfy server.Subscriber: the registry
// broker calls these directly when another connection's activity
// changes the global set, so this connection's client sees it live.
func (c *Connection) GlobalAdded(name uint32, iface string, version uint32) {
	c.emitGlobal(Global{Name: name, Interface: iface, Version: version})
}

func (c *Connection) GlobalRemoved(name uint32) {
	sig, _ := proto.WlRegistry.Event(1)
	c.send(c.regObjectID, 1, []wire.Arg{wire.ArgUint(name)}, sig)
}

func (c *Connection) emitGlobal(g Global) {
	sig, _ := proto.WlRegistry.Event(0)
	c.send(c.regObjectID, 0, []wire.Arg{
		wire.ArgUint(g.Name), wire.ArgString(g.Interface), wire.ArgUint(g.Version),
	}, sig)
}

// --- wl_registry ---

func (c *Connection) dispatchRegistry(opcode uint16, args []wire.Arg) error {
	if opcode != 0 {
		return wlerr.NewWithObject(wlerr.InvalidMethod, c.regObjectID, "unknown wl_registry opcode")
	}
	name := args[0].Uint
	version := args[2].Uint
	newID := args[3].Object

	g, err := c.srv.Registry.Resolve(name)
	if err != nil {
		return err
	}
	bound := NegotiateVersion(version, g.Version)
	dispatchable, err := c.bindGlobal(g.Interface, newID, bound)
	if err != nil {
		return err
	}
	return c.table.Install(dispatchable)
}

// bindGlobal constructs the server-side object for one of the globals
// this connection advertises, wiring its requests back to this
// connection's dispatch methods.
func (c *Connection) bindGlobal(iface string, newID, version uint32) (object.Dispatchable, error) {
	switch iface {
	case "wl_compositor":
		return &boundObject{
			Object:   object.NewBase(newID, iface, version),
			dispatch: func(op uint16, a []wire.Arg) error { return c.dispatchCompositor(newID, op, a) },
		}, nil
	case "wl_shm":
		shm := NewShmGlobal(newID, c.srv.ShmFormats)
		bo := &boundObject{Object: shm, dispatch: func(op uint16, a []wire.Arg) error { return c.dispatchShm(shm, op, a) }}
		for _, f := range shm.Formats {
			sig, _ := proto.WlShm.Event(0)
			c.send(newID, 0, []wire.Arg{wire.ArgUint(uint32(f))}, sig)
		}
		return bo, nil
	case "wl_seat":
		seat := NewSeat(newID, c.srv.Seat.Name, c.srv.Seat.Capabilities, c.srv.Serials)
		bo := &boundObject{Object: seat, dispatch: func(op uint16, a []wire.Arg) error { return c.dispatchSeat(seat, op, a) }}
		sig, _ := proto.WlSeat.Event(0)
		c.send(newID, 0, []wire.Arg{wire.ArgUint(uint32(seat.Capabilities))}, sig)
		return bo, nil
	case "xdg_wm_base":
		wmBase := NewWmBase(newID, c.srv.Serials)
		return &boundObject{Object: wmBase, dispatch: func(op uint16, a []wire.Arg) error { return c.dispatchWmBase(wmBase, op, a) }}, nil
	case "wl_output":
		output := c.srv.Output
		c.outputIDs = append(c.outputIDs, newID)
		bo := &boundObject{Object: object.NewBase(newID, iface, version), dispatch: func(op uint16, a []wire.Arg) error {
			if op == 0 { // release
				for i, id := range c.outputIDs {
					if id == newID {
						c.outputIDs = append(c.outputIDs[:i], c.outputIDs[i+1:]...)
						break
					}
				}
				c.destroyObject(newID)
			}
			return c.dispatchOutput(op, a)
		}}
		c.emitOutputGeometry(newID, output)
		return bo, nil
	default:
		return nil, wlerr.New(wlerr.NoInterface, "unbindable global "+iface)
	}
}
