package pointer_constraints

import (
	"encoding/binary"
	"testing"

	"github.com/ghostkellz/wzl-go/client"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/transport"
	"github.com/ghostkellz/wzl-go/wire"
)

func newTestManager(t *testing.T) PointerConstraintsManager {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("WAYLAND_DISPLAY", "")

	ln, err := transport.Listen("wzl-pconstraint-test-0")
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

	d, err := client.Connect("wzl-pconstraint-test-0")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	mgrID, err := d.NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	manager, err := NewPointerConstraintsManager(d, mgrID)
	if err != nil {
		t.Fatalf("NewPointerConstraintsManager: %v", err)
	}
	return manager
}

func TestLockPointer(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Destroy()

	locked, err := manager.LockPointer(1, 2, 0, LIFETIME_ONESHOT)
	if err != nil {
		t.Fatalf("Failed to lock pointer: %v", err)
	}
	if locked == nil {
		t.Fatal("Locked pointer should not be nil")
	}
	defer locked.Destroy()

	if err := locked.SetCursorPositionHint(10.5, 20.5); err != nil {
		t.Fatalf("Failed to set cursor position hint: %v", err)
	}
	if err := locked.SetRegion(0); err != nil {
		t.Fatalf("Failed to set region: %v", err)
	}
}

func TestLockPointerInvalidLifetime(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Destroy()

	if _, err := manager.LockPointer(1, 2, 0, 999); err == nil {
		t.Fatal("Expected error for invalid lifetime")
	}
}

func TestConfinePointer(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Destroy()

	confined, err := manager.ConfinePointer(1, 2, 3, LIFETIME_PERSISTENT)
	if err != nil {
		t.Fatalf("Failed to confine pointer: %v", err)
	}
	if confined == nil {
		t.Fatal("Confined pointer should not be nil")
	}
	defer confined.Destroy()

	if err := confined.SetRegion(4); err != nil {
		t.Fatalf("Failed to set region: %v", err)
	}
}

func TestConfinePointerInvalidLifetime(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Destroy()

	if _, err := manager.ConfinePointer(1, 2, 3, 999); err == nil {
		t.Fatal("Expected error for invalid lifetime")
	}
}

func TestLockedPointerDestroy(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Destroy()

	locked, err := manager.LockPointer(1, 2, 0, LIFETIME_ONESHOT)
	if err != nil {
		t.Fatalf("Failed to lock pointer: %v", err)
	}
	if err := locked.Destroy(); err != nil {
		t.Fatalf("Failed to destroy locked pointer: %v", err)
	}
	if err := locked.SetRegion(0); err == nil {
		t.Fatal("Expected error for operation on destroyed locked pointer")
	}
}

func TestConfinedPointerDestroy(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Destroy()

	confined, err := manager.ConfinePointer(1, 2, 0, LIFETIME_ONESHOT)
	if err != nil {
		t.Fatalf("Failed to confine pointer: %v", err)
	}
	if err := confined.Destroy(); err != nil {
		t.Fatalf("Failed to destroy confined pointer: %v", err)
	}
	if err := confined.SetRegion(0); err == nil {
		t.Fatal("Expected error for operation on destroyed confined pointer")
	}
}

func TestDestroyedManagerOperations(t *testing.T) {
	manager := newTestManager(t)
	if err := manager.Destroy(); err != nil {
		t.Fatalf("Failed to destroy manager: %v", err)
	}
	if _, err := manager.LockPointer(1, 2, 0, LIFETIME_ONESHOT); err == nil {
		t.Fatal("Expected error for lock on destroyed manager")
	}
	if _, err := manager.ConfinePointer(1, 2, 0, LIFETIME_ONESHOT); err == nil {
		t.Fatal("Expected error for confine on destroyed manager")
	}
	if err := manager.Destroy(); err == nil {
		t.Fatal("Expected error for destroying already destroyed manager")
	}
}

func TestConvenienceFunctions(t *testing.T) {
	manager := newTestManager(t)
	defer manager.Destroy()

	locked, err := LockPointerAtCurrentPosition(manager, 1, 2)
	if err != nil {
		t.Fatalf("LockPointerAtCurrentPosition failed: %v", err)
	}
	locked.Destroy()

	locked, err = LockPointerPersistent(manager, 1, 2)
	if err != nil {
		t.Fatalf("LockPointerPersistent failed: %v", err)
	}
	locked.Destroy()

	confined, err := ConfinePointerToRegion(manager, 1, 2, 3)
	if err != nil {
		t.Fatalf("ConfinePointerToRegion failed: %v", err)
	}
	confined.Destroy()
}

func TestLifetimeConstants(t *testing.T) {
	if LIFETIME_ONESHOT != 1 {
		t.Fatal("LIFETIME_ONESHOT should be 1")
	}
	if LIFETIME_PERSISTENT != 2 {
		t.Fatal("LIFETIME_PERSISTENT should be 2")
	}
}

func TestPointerConstraintsError(t *testing.T) {
	err := &PointerConstraintsError{Code: ERROR_ALREADY_CONSTRAINED, Message: "test error"}
	expected := "pointer constraints error 1: test error"
	if err.Error() != expected {
		t.Fatalf("Expected error message '%s', got '%s'", expected, err.Error())
	}
}
