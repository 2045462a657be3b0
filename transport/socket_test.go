package transport

import (
	"testing"

	"github.com/ghostkellz/wzl-go/wire"
)

func TestDialListenRoundTrip(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("WAYLAND_DISPLAY", "")

	ln, err := Listen("wzl-test-0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	serverDone := make(chan error, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			serverDone <- err
			return
		}
		defer c.Close()
		raw, err := c.RecvRaw()
		if err != nil {
			serverDone <- err
			return
		}
		sig, err := wire.ParseSignature("echo", "u")
		if err != nil {
			serverDone <- err
			return
		}
		msg, err := wire.Decode(reframe(raw), sig, nil)
		if err != nil {
			serverDone <- err
			return
		}
		serverDone <- c.Send(wire.Message{ObjectID: msg.ObjectID, Opcode: 1, Args: msg.Args}, sig)
	}()

	client, err := Dial("wzl-test-0")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	sig, err := wire.ParseSignature("echo", "u")
	if err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	if err := client.Send(wire.Message{ObjectID: 5, Opcode: 0, Args: []wire.Arg{wire.ArgUint(42)}}, sig); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if err := <-serverDone; err != nil {
		t.Fatalf("server side: %v", err)
	}

	raw, err := client.RecvRaw()
	if err != nil {
		t.Fatalf("RecvRaw: %v", err)
	}
	msg, err := wire.Decode(reframe(raw), sig, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if msg.Opcode != 1 || msg.Args[0].Uint != 42 {
		t.Fatalf("unexpected echoed message: %+v", msg)
	}
}

// reframe rebuilds the 8-byte header a RawMessage's caller already
// parsed out, mirroring object.Dispatcher's own reframing so this test
// can decode without depending on the object package.
func reframe(raw RawMessage) []byte {
	buf := make([]byte, wire.HeaderSize+len(raw.Body))
	putHeader(buf, raw.ObjectID, uint32(wire.HeaderSize+len(raw.Body)), raw.Opcode)
	copy(buf[wire.HeaderSize:], raw.Body)
	return buf
}

func putHeader(buf []byte, id, size uint32, opcode uint16) {
	buf[0] = byte(id)
	buf[1] = byte(id >> 8)
	buf[2] = byte(id >> 16)
	buf[3] = byte(id >> 24)
	word := size<<16 | uint32(opcode)
	buf[4] = byte(word)
	buf[5] = byte(word >> 8)
	buf[6] = byte(word >> 16)
	buf[7] = byte(word >> 24)
}
