package client

import (
	"encoding/binary"
	"testing"

	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/transport"
	"github.com/ghostkellz/wzl-go/wire"
)

// reframeRaw rebuilds the 8-byte header transport.Conn already parsed out
// of a RawMessage, so this test can decode without depending on the
// object package's own (unexported) equivalent.
func reframeRaw(raw transport.RawMessage) []byte {
	buf := make([]byte, wire.HeaderSize+len(raw.Body))
	binary.LittleEndian.PutUint32(buf[0:4], raw.ObjectID)
	size := uint32(wire.HeaderSize + len(raw.Body))
	binary.LittleEndian.PutUint32(buf[4:8], size<<16|uint32(raw.Opcode))
	copy(buf[wire.HeaderSize:], raw.Body)
	return buf
}

// fakeCompositor answers exactly the bootstrap sequence Connect performs:
// get_registry followed by one global, then a sync callback.
func fakeCompositor(t *testing.T, ln *transport.Listener) {
	t.Helper()
	c, err := ln.Accept()
	if err != nil {
		t.Errorf("Accept: %v", err)
		return
	}
	defer c.Close()

	// get_registry
	raw, err := c.RecvRaw()
	if err != nil {
		t.Errorf("RecvRaw get_registry: %v", err)
		return
	}
	getRegistrySig, _ := proto.WlDisplay.Request(1)
	msg, err := wire.Decode(reframeRaw(raw), getRegistrySig, nil)
	if err != nil {
		t.Errorf("decode get_registry: %v", err)
		return
	}
	registryID := msg.Args[0].Object

	globalSig, _ := proto.WlRegistry.Event(0)
	if err := c.Send(wire.Message{ObjectID: registryID, Opcode: 0, Args: []wire.Arg{
		wire.ArgUint(1), wire.ArgString("wl_compositor"), wire.ArgUint(6),
	}}, globalSig); err != nil {
		t.Errorf("send global: %v", err)
		return
	}

	// sync
	raw, err = c.RecvRaw()
	if err != nil {
		t.Errorf("RecvRaw sync: %v", err)
		return
	}
	syncSig, _ := proto.WlDisplay.Request(0)
	msg, err = wire.Decode(reframeRaw(raw), syncSig, nil)
	if err != nil {
		t.Errorf("decode sync: %v", err)
		return
	}
	callbackID := msg.Args[0].Object

	doneSig, _ := proto.WlCallback.Event(0)
	if err := c.Send(wire.Message{ObjectID: callbackID, Opcode: 0, Args: []wire.Arg{wire.ArgUint(1)}}, doneSig); err != nil {
		t.Errorf("send callback done: %v", err)
	}
}

func TestConnectBootstrapsRegistry(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("WAYLAND_DISPLAY", "")

	ln, err := transport.Listen("wzl-client-test-0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	go fakeCompositor(t, ln)

	d, err := Connect("wzl-client-test-0")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer d.Close()

	g, ok := d.Registry().FindGlobal("wl_compositor")
	if !ok {
		t.Fatal("expected wl_compositor to be discovered during bootstrap")
	}
	if g.Version != 6 {
		t.Fatalf("expected version 6, got %d", g.Version)
	}
}
