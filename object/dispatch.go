package object

import (
	"encoding/binary"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/wire"
)

// Dispatchable is a live object that can handle an incoming request (on
// the server side) or event (on the client side) addressed to it.
type Dispatchable interface {
	Object
	Dispatch(opcode uint16, args []wire.Arg) error
}

// RawMessage is the framing-only view a transport connection hands back:
// enough to resolve which object and signature apply, before argument
// decoding happens.
type RawMessage struct {
	ObjectID uint32
	Opcode   uint16
	Body     []byte
}

// FDPopper pulls exactly n out-of-band file descriptors off a
// connection's incoming queue, in arrival order.
type FDPopper func(n int) ([]int, error)

// SignatureSource resolves the wire signature for one object's opcode;
// server callers pass Interface.Request, client callers pass
// Interface.Event.
type SignatureSource func(iface *proto.Interface, opcode uint16) (wire.Signature, bool)

// RequestSignatures resolves a server-bound opcode against its request
// table.
func RequestSignatures(iface *proto.Interface, opcode uint16) (wire.Signature, bool) {
	return iface.Request(opcode)
}

// EventSignatures resolves a client-bound opcode against its event
// table.
func EventSignatures(iface *proto.Interface, opcode uint16) (wire.Signature, bool) {
	return iface.Event(opcode)
}

// Dispatcher resolves raw wire messages against a Table and a
// SignatureSource, decodes their arguments, and invokes the target
// object's Dispatch. It is the single chokepoint where an unknown
// object, interface, or opcode becomes an InvalidObject, NoInterface or
// InvalidMethod protocol error instead of a panic.
type Dispatcher struct {
	Table     *Table
	Resolve   SignatureSource
	Interface func(obj Object) (*proto.Interface, bool)
}

// NewDispatcher wires a Table to the request or event signature table,
// looking up each object's interface descriptor by name via proto.Lookup.
func NewDispatcher(table *Table, resolve SignatureSource) *Dispatcher {
	return &Dispatcher{
		Table:   table,
		Resolve: resolve,
		Interface: func(obj Object) (*proto.Interface, bool) {
			return proto.Lookup(obj.Interface())
		},
	}
}

// Handle decodes raw against the resolved signature and invokes the
// target's Dispatch, or returns a *wlerr.Error carrying the protocol
// error code a caller should turn into a display.error event before
// tearing the connection down.
func (d *Dispatcher) Handle(raw RawMessage, popFDs FDPopper) error {
	target, ok := d.Table.Lookup(raw.ObjectID)
	if !ok {
		if d.Table.Tombstoned(raw.ObjectID) {
			// Destroy already ran for this id; the peer hasn't seen our
			// delete_id yet, so this message was sent before it knew to
			// stop. Drop it rather than erroring the connection.
			return nil
		}
		return wlerr.NewWithObject(wlerr.InvalidObject, raw.ObjectID, "no such object")
	}
	dispatchable, ok := target.(Dispatchable)
	if !ok {
		return wlerr.NewWithObject(wlerr.InvalidObject, raw.ObjectID, "object does not accept messages")
	}

	iface, ok := d.Interface(target)
	if !ok {
		return wlerr.NewWithObject(wlerr.NoInterface, raw.ObjectID, "unknown interface "+target.Interface())
	}
	sig, ok := d.Resolve(iface, raw.Opcode)
	if !ok {
		return wlerr.NewWithObject(wlerr.InvalidMethod, raw.ObjectID, "opcode out of range for "+iface.Name)
	}

	nFDs := 0
	for _, a := range sig.Args {
		if a.Kind == wire.KindFD {
			nFDs++
		}
	}
	var fds []int
	if nFDs > 0 {
		var err error
		fds, err = popFDs(nFDs)
		if err != nil {
			return err
		}
	}

	buf := reframe(raw)
	msg, err := wire.Decode(buf, sig, fds)
	if err != nil {
		return err
	}

	if err := dispatchable.Dispatch(msg.Opcode, msg.Args); err != nil {
		return err
	}
	return nil
}

// reframe rebuilds the 8-byte header transport.Conn already parsed out
// of raw, so wire.Decode can re-validate size/id consistently instead of
// duplicating that logic here.
func reframe(raw RawMessage) []byte {
	buf := make([]byte, wire.HeaderSize+len(raw.Body))
	binary.LittleEndian.PutUint32(buf[0:4], raw.ObjectID)
	size := uint32(wire.HeaderSize + len(raw.Body))
	binary.LittleEndian.PutUint32(buf[4:8], size<<16|uint32(raw.Opcode))
	copy(buf[wire.HeaderSize:], raw.Body)
	return buf
}
