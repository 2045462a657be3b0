package object

import (
	"testing"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/wire"
)

type recordingSurface struct {
	Base
	lastOpcode uint16
	lastArgs   []wire.Arg
}

func (s *recordingSurface) Dispatch(opcode uint16, args []wire.Arg) error {
	s.lastOpcode = opcode
	s.lastArgs = args
	return nil
}

func newDispatchFixture(t *testing.T) (*Dispatcher, *recordingSurface, uint32) {
	t.Helper()
	table := NewClientTable(newStub(DisplayID))
	id, err := table.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	surface := &recordingSurface{Base: NewBase(id, "wl_surface", 6)}
	if err := table.Install(surface); err != nil {
		t.Fatal(err)
	}
	return NewDispatcher(table, RequestSignatures), surface, id
}

func encodeDamage(t *testing.T, id uint32) RawMessage {
	t.Helper()
	sig, ok := proto.WlSurface.Request(2) // damage
	if !ok {
		t.Fatal("wl_surface missing damage request")
	}
	msg := wire.Message{
		ObjectID: id,
		Opcode:   2,
		Args: []wire.Arg{
			wire.ArgInt(0), wire.ArgInt(0), wire.ArgInt(100), wire.ArgInt(100),
		},
	}
	buf, _, err := wire.Encode(msg, sig)
	if err != nil {
		t.Fatal(err)
	}
	return RawMessage{ObjectID: id, Opcode: 2, Body: buf[wire.HeaderSize:]}
}

func TestHandleDecodesAndDispatches(t *testing.T) {
	dispatcher, surface, id := newDispatchFixture(t)
	raw := encodeDamage(t, id)

	noFDs := func(n int) ([]int, error) { return nil, nil }
	if err := dispatcher.Handle(raw, noFDs); err != nil {
		t.Fatal(err)
	}
	if surface.lastOpcode != 2 {
		t.Fatalf("opcode = %d, want 2", surface.lastOpcode)
	}
	if len(surface.lastArgs) != 4 || surface.lastArgs[2].Int != 100 {
		t.Fatalf("unexpected decoded args: %+v", surface.lastArgs)
	}
}

func TestHandleUnknownObjectIsInvalidObject(t *testing.T) {
	dispatcher, _, _ := newDispatchFixture(t)
	raw := RawMessage{ObjectID: 0xdeadbeef, Opcode: 0, Body: nil}
	err := dispatcher.Handle(raw, func(n int) ([]int, error) { return nil, nil })
	if !wlerr.Is(err, wlerr.InvalidObject) {
		t.Fatalf("expected InvalidObject, got %v", err)
	}
}

func TestHandleTombstonedObjectIsSilentlyDropped(t *testing.T) {
	dispatcher, surface, id := newDispatchFixture(t)
	dispatcher.Table.Destroy(id)
	raw := encodeDamage(t, id)
	if err := dispatcher.Handle(raw, func(n int) ([]int, error) { return nil, nil }); err != nil {
		t.Fatalf("expected destroy race to be dropped silently, got %v", err)
	}
	if surface.lastOpcode != 0 {
		t.Fatal("dispatch ran against a destroyed object")
	}
}

func TestHandleUnknownOpcodeIsInvalidMethod(t *testing.T) {
	dispatcher, _, id := newDispatchFixture(t)
	raw := RawMessage{ObjectID: id, Opcode: 200, Body: nil}
	err := dispatcher.Handle(raw, func(n int) ([]int, error) { return nil, nil })
	if !wlerr.Is(err, wlerr.InvalidMethod) {
		t.Fatalf("expected InvalidMethod, got %v", err)
	}
}
