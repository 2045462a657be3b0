package virtual_pointer

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/ghostkellz/wzl-go/client"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/transport"
	"github.com/ghostkellz/wzl-go/wire"
)

func newTestManager(t *testing.T) *VirtualPointerManager {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("WAYLAND_DISPLAY", "")

	ln, err := transport.Listen("wzl-vptr-test-0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		for {
			raw, err := c.RecvRaw()
			if err != nil {
				return
			}
			if raw.ObjectID == 1 && raw.Opcode == 0 && len(raw.Body) >= 4 { // wl_display.sync
				doneSig, _ := proto.WlCallback.Event(0)
				cbID := binary.LittleEndian.Uint32(raw.Body)
				c.Send(wire.Message{ObjectID: cbID, Opcode: 0, Args: []wire.Arg{wire.ArgUint(0)}}, doneSig)
			}
		}
	}()

	d, err := client.Connect("wzl-vptr-test-0")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	mgrID, err := d.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	manager, err := NewVirtualPointerManager(d, mgrID)
	if err != nil {
		t.Fatalf("NewVirtualPointerManager: %v", err)
	}
	return manager
}

func TestVirtualPointerCreation(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Close()

	pointer, err := manager.CreatePointer(1)
	if err != nil {
		t.Fatalf("Failed to create virtual pointer: %v", err)
	}
	if pointer == nil {
		t.Fatal("Pointer should not be nil")
	}
	pointer.Close()
}

func TestVirtualPointerMotion(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Close()

	pointer, err := manager.CreatePointer(1)
	if err != nil {
		t.Fatalf("Failed to create virtual pointer: %v", err)
	}
	defer pointer.Close()

	if err := pointer.Motion(time.Now(), 10.0, 20.0); err != nil {
		t.Fatalf("Failed to send motion: %v", err)
	}
	if err := pointer.MotionAbsolute(time.Now(), 100, 200, 1920, 1080); err != nil {
		t.Fatalf("Failed to send absolute motion: %v", err)
	}
}

func TestVirtualPointerButtons(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Close()

	pointer, err := manager.CreatePointer(1)
	if err != nil {
		t.Fatalf("Failed to create virtual pointer: %v", err)
	}
	defer pointer.Close()

	if err := pointer.Button(time.Now(), BTN_LEFT, ButtonStatePressed); err != nil {
		t.Fatalf("Failed to press button: %v", err)
	}
	if err := pointer.Button(time.Now(), BTN_LEFT, ButtonStateReleased); err != nil {
		t.Fatalf("Failed to release button: %v", err)
	}
	if err := pointer.LeftClick(); err != nil {
		t.Fatalf("Failed left click: %v", err)
	}
	if err := pointer.RightClick(); err != nil {
		t.Fatalf("Failed right click: %v", err)
	}
	if err := pointer.MiddleClick(); err != nil {
		t.Fatalf("Failed middle click: %v", err)
	}
}

func TestVirtualPointerAxis(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Close()

	pointer, err := manager.CreatePointer(1)
	if err != nil {
		t.Fatalf("Failed to create virtual pointer: %v", err)
	}
	defer pointer.Close()

	if err := pointer.SetAxisSource(AxisSourceWheel); err != nil {
		t.Fatalf("Failed to set axis source: %v", err)
	}
	if err := pointer.Axis(time.Now(), AxisVertical, 10.0); err != nil {
		t.Fatalf("Failed to send axis event: %v", err)
	}
	if err := pointer.AxisStop(time.Now(), AxisVertical); err != nil {
		t.Fatalf("Failed to send axis stop: %v", err)
	}
	if err := pointer.AxisDiscrete(time.Now(), AxisVertical, 10.0, 1); err != nil {
		t.Fatalf("Failed to send axis discrete: %v", err)
	}
}

func TestVirtualPointerFrame(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Close()

	pointer, err := manager.CreatePointer(1)
	if err != nil {
		t.Fatalf("Failed to create virtual pointer: %v", err)
	}
	defer pointer.Close()

	if err := pointer.Frame(); err != nil {
		t.Fatalf("Failed to send frame: %v", err)
	}
}

func TestVirtualPointerDestroy(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Close()

	pointer, err := manager.CreatePointer(1)
	if err != nil {
		t.Fatalf("Failed to create virtual pointer: %v", err)
	}
	if err := pointer.Close(); err != nil {
		t.Fatalf("Failed to destroy pointer: %v", err)
	}
	if err := pointer.Motion(time.Now(), 10.0, 20.0); err == nil {
		t.Fatal("Expected error for operation on destroyed pointer")
	}
}

func TestConvenienceMethods(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Close()

	pointer, err := manager.CreatePointer(1)
	if err != nil {
		t.Fatalf("Failed to create virtual pointer: %v", err)
	}
	defer pointer.Close()

	if err := pointer.MoveRelative(10.0, 20.0); err != nil {
		t.Fatalf("Failed relative move: %v", err)
	}
	if err := pointer.ScrollVertical(10.0); err != nil {
		t.Fatalf("Failed vertical scroll: %v", err)
	}
	if err := pointer.ScrollHorizontal(5.0); err != nil {
		t.Fatalf("Failed horizontal scroll: %v", err)
	}
}

func TestButtonConstants(t *testing.T) {
	buttons := []uint32{BTN_LEFT, BTN_RIGHT, BTN_MIDDLE, BTN_SIDE, BTN_EXTRA}
	for _, button := range buttons {
		if button == 0 {
			t.Fatal("Button constant should not be zero")
		}
	}
	if BUTTON_STATE_RELEASED != 0 {
		t.Fatal("BUTTON_STATE_RELEASED should be 0")
	}
	if BUTTON_STATE_PRESSED != 1 {
		t.Fatal("BUTTON_STATE_PRESSED should be 1")
	}
}

func TestAxisConstants(t *testing.T) {
	if AXIS_VERTICAL_SCROLL != 0 {
		t.Fatal("AXIS_VERTICAL_SCROLL should be 0")
	}
	if AXIS_HORIZONTAL_SCROLL != 1 {
		t.Fatal("AXIS_HORIZONTAL_SCROLL should be 1")
	}
	sources := []uint32{AXIS_SOURCE_WHEEL, AXIS_SOURCE_FINGER, AXIS_SOURCE_CONTINUOUS, AXIS_SOURCE_WHEEL_TILT}
	for i, source := range sources {
		if source != uint32(i) {
			t.Fatalf("Axis source constant %d should be %d, got %d", i, i, source)
		}
	}
}

func TestDestroyedManagerOperations(t *testing.T) {
	manager := newTestManager(t)
	if err := manager.Close(); err != nil {
		t.Fatalf("Failed to close manager: %v", err)
	}
	if _, err := manager.CreatePointer(1); err == nil {
		t.Fatal("Expected error for creating pointer on destroyed manager")
	}
	if err := manager.Close(); err == nil {
		t.Fatal("Expected error for closing already closed manager")
	}
}
