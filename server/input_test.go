package server

import (
	"testing"

	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/transport"
	"github.com/ghostkellz/wzl-go/wire"
)

// fakeScene is a minimal SceneNotifier stand-in: input injection only
// needs SurfaceAt to resolve a hit, so the tests point it directly at
// whichever surface they want under the injected coordinates.
type fakeScene struct {
	surface *Surface
}

func (f *fakeScene) NotifyCommit(*Surface) {}

func (f *fakeScene) SurfaceAt(x, y wire.Fixed) (*Surface, wire.Fixed, wire.Fixed) {
	if f.surface == nil {
		return nil, 0, 0
	}
	return f.surface, x, y
}

// inputTestFixture wires a real loopback transport.Conn pair so
// Connection.send has somewhere to write, a Server with one registered
// surface, and a client-side reader that decodes whatever that
// connection emits.
type inputTestFixture struct {
	srv     *Server
	conn    *Connection
	surface *Surface
	client  *transport.Conn
}

func newInputFixture(t *testing.T, caps Capability) *inputTestFixture {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("WAYLAND_DISPLAY", "")

	const display = "wzl-input-test-0"
	ln, err := transport.Listen(display)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	accepted := make(chan *transport.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	client, err := transport.Dial(display)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	serverSide := <-accepted
	t.Cleanup(func() { serverSide.Close() })

	srv := &Server{
		Serials:      &SerialAllocator{},
		surfaceOwner: map[*Surface]*Connection{},
	}
	surface := NewSurface(50)
	fixtureScene := &fakeScene{surface: surface}
	srv.Scene = fixtureScene

	conn := newConnection(1, serverSide, srv)
	srv.registerSurface(surface, conn)

	seat := NewSeat(1, "seat0", caps, srv.Serials)
	if caps&CapPointer != 0 {
		p, err := seat.GetPointer(100)
		if err != nil {
			t.Fatalf("GetPointer: %v", err)
		}
		conn.pointers = append(conn.pointers, p)
	}
	if caps&CapKeyboard != 0 {
		k, err := seat.GetKeyboard(200)
		if err != nil {
			t.Fatalf("GetKeyboard: %v", err)
		}
		conn.keyboards = append(conn.keyboards, k)
	}
	if caps&CapTouch != 0 {
		tp, err := seat.GetTouch(300)
		if err != nil {
			t.Fatalf("GetTouch: %v", err)
		}
		conn.touches = append(conn.touches, tp)
	}

	return &inputTestFixture{srv: srv, conn: conn, surface: surface, client: client}
}

// recvEvent reads one message off the client side and decodes it against
// the given interface's event signature, failing the test on a mismatch.
func recvEvent(t *testing.T, c *transport.Conn, iface *proto.Interface, wantOpcode uint16) wire.Message {
	t.Helper()
	raw, err := c.RecvRaw()
	if err != nil {
		t.Fatalf("RecvRaw: %v", err)
	}
	if raw.Opcode != wantOpcode {
		t.Fatalf("expected opcode %d, got %d (object %d)", wantOpcode, raw.Opcode, raw.ObjectID)
	}
	sig, ok := iface.Event(raw.Opcode)
	if !ok {
		t.Fatalf("no signature for opcode %d", raw.Opcode)
	}
	msg, err := wire.Decode(raw.Body, sig, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	msg.ObjectID = raw.ObjectID
	return msg
}

func TestInjectPointerMotionEmitsEnterMotionFrame(t *testing.T) {
	f := newInputFixture(t, CapPointer)

	f.srv.InjectPointerMotion(1000, wire.FixedFromInt(5), wire.FixedFromInt(7))

	enter := recvEvent(t, f.client, proto.WlPointer, 0)
	if enter.ObjectID != 100 {
		t.Fatalf("expected enter on pointer 100, got %d", enter.ObjectID)
	}
	if enter.Args[1].Object != f.surface.ID() {
		t.Fatalf("expected enter to name surface %d, got %d", f.surface.ID(), enter.Args[1].Object)
	}

	motion := recvEvent(t, f.client, proto.WlPointer, 2)
	if motion.Args[0].Uint != 1000 {
		t.Fatalf("expected motion timestamp 1000, got %d", motion.Args[0].Uint)
	}

	recvEvent(t, f.client, proto.WlPointer, 5) // frame
}

func TestInjectPointerButtonUsesCurrentFocus(t *testing.T) {
	f := newInputFixture(t, CapPointer)

	f.srv.InjectPointerMotion(0, wire.FixedFromInt(1), wire.FixedFromInt(1))
	recvEvent(t, f.client, proto.WlPointer, 0) // enter
	recvEvent(t, f.client, proto.WlPointer, 2) // motion
	recvEvent(t, f.client, proto.WlPointer, 5) // frame

	f.srv.InjectPointerButton(2000, 272, true)
	button := recvEvent(t, f.client, proto.WlPointer, 3)
	if button.Args[2].Uint != 272 {
		t.Fatalf("expected button code 272, got %d", button.Args[2].Uint)
	}
	if button.Args[3].Uint != wlPointerButtonStatePressed {
		t.Fatalf("expected pressed state, got %d", button.Args[3].Uint)
	}
	recvEvent(t, f.client, proto.WlPointer, 5) // frame
}

func TestInjectPointerMotionLeavesPreviousSurfaceOnRefocus(t *testing.T) {
	f := newInputFixture(t, CapPointer)

	f.srv.InjectPointerMotion(0, wire.FixedFromInt(1), wire.FixedFromInt(1))
	recvEvent(t, f.client, proto.WlPointer, 0) // enter
	recvEvent(t, f.client, proto.WlPointer, 2) // motion
	recvEvent(t, f.client, proto.WlPointer, 5) // frame

	// A second motion with no scene surface drops focus, emitting leave
	// with no further enter/motion/frame to follow.
	f.srv.Scene.(*fakeScene).surface = nil
	f.srv.InjectPointerMotion(0, wire.FixedFromInt(1), wire.FixedFromInt(1))
	leave := recvEvent(t, f.client, proto.WlPointer, 1)
	if leave.ObjectID != 100 {
		t.Fatalf("expected leave on pointer 100, got %d", leave.ObjectID)
	}
}

func TestInjectKeyFollowsPointerFocusBySloppyPolicy(t *testing.T) {
	f := newInputFixture(t, CapPointer|CapKeyboard)

	f.srv.InjectPointerMotion(0, wire.FixedFromInt(1), wire.FixedFromInt(1))
	recvEvent(t, f.client, proto.WlPointer, 0)  // pointer enter
	recvEvent(t, f.client, proto.WlKeyboard, 1) // keyboard enter, driven by pointer focus
	recvEvent(t, f.client, proto.WlPointer, 2)  // motion
	recvEvent(t, f.client, proto.WlPointer, 5)  // frame

	f.srv.InjectKey(3000, 30, true)
	key := recvEvent(t, f.client, proto.WlKeyboard, 3)
	if key.Args[2].Uint != 30 {
		t.Fatalf("expected keycode 30, got %d", key.Args[2].Uint)
	}
	if key.Args[3].Uint != 1 {
		t.Fatalf("expected pressed state 1, got %d", key.Args[3].Uint)
	}
}

func TestInjectTouchDownMotionUpSequence(t *testing.T) {
	f := newInputFixture(t, CapTouch)

	f.srv.InjectTouchDown(100, 7, wire.FixedFromInt(3), wire.FixedFromInt(4))
	down := recvEvent(t, f.client, proto.WlTouch, 0)
	if down.Args[3].Int != 7 {
		t.Fatalf("expected touch id 7, got %d", down.Args[3].Int)
	}
	recvEvent(t, f.client, proto.WlTouch, 3) // frame

	f.srv.InjectTouchMotion(150, 7, wire.FixedFromInt(9), wire.FixedFromInt(10))
	recvEvent(t, f.client, proto.WlTouch, 2) // motion
	recvEvent(t, f.client, proto.WlTouch, 3) // frame

	f.srv.InjectTouchUp(200, 7)
	up := recvEvent(t, f.client, proto.WlTouch, 1)
	if up.Args[2].Int != 7 {
		t.Fatalf("expected up for touch id 7, got %d", up.Args[2].Int)
	}
	recvEvent(t, f.client, proto.WlTouch, 3) // frame
}

func TestSurfaceCommitEmitsOutputEnterAndLeave(t *testing.T) {
	f := newInputFixture(t, 0)
	f.srv.Output = NewOutput(0)
	f.conn.outputIDs = []uint32{900}

	f.surface.Attach(&Buffer{}, 0, 0)
	if err := f.surface.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	f.conn.syncSurfaceOutputs(f.surface)

	enter := recvEvent(t, f.client, proto.WlSurface, 0)
	if enter.ObjectID != f.surface.ID() {
		t.Fatalf("expected enter on surface %d, got %d", f.surface.ID(), enter.ObjectID)
	}
	if enter.Args[0].Object != 900 {
		t.Fatalf("expected enter to name output 900, got %d", enter.Args[0].Object)
	}

	// A second commit with the same mapped state must not re-emit enter.
	f.surface.Attach(&Buffer{}, 0, 0)
	if err := f.surface.Commit(); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	f.conn.syncSurfaceOutputs(f.surface)

	f.surface.Destroy()
	f.conn.syncSurfaceOutputs(f.surface)
	leave := recvEvent(t, f.client, proto.WlSurface, 1)
	if leave.Args[0].Object != 900 {
		t.Fatalf("expected leave to name output 900, got %d", leave.Args[0].Object)
	}
}

func TestInjectTouchCancelReachesEveryActivePoint(t *testing.T) {
	f := newInputFixture(t, CapTouch)

	f.srv.InjectTouchDown(0, 1, wire.FixedFromInt(0), wire.FixedFromInt(0))
	recvEvent(t, f.client, proto.WlTouch, 0) // down
	recvEvent(t, f.client, proto.WlTouch, 3) // frame

	f.srv.InjectTouchCancel()
	recvEvent(t, f.client, proto.WlTouch, 4) // cancel
}
