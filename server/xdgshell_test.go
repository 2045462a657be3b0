package server

import "testing"

func TestSerialLessHandlesWraparound(t *testing.T) {
	if !SerialLess(0xFFFFFFFF, 0) {
		t.Fatal("0xFFFFFFFF must precede 0 under wraparound comparison")
	}
	if SerialLess(5, 5) {
		t.Fatal("a serial must not precede itself")
	}
	if !SerialLess(5, 6) {
		t.Fatal("5 must precede 6")
	}
}

func TestAckConfigureRejectsUnsentSerial(t *testing.T) {
	x := NewXDGSurface(1, NewSurface(2))
	if err := x.AckConfigure(42); err == nil {
		t.Fatal("acking a serial that was never sent must fail")
	}
}

func TestAckConfigureAcceptsAndPrunesSentSerial(t *testing.T) {
	serials := &SerialAllocator{}
	x := NewXDGSurface(1, NewSurface(2))
	s1 := x.Configure(serials)
	s2 := x.Configure(serials)
	if x.ReadyToCommit() {
		t.Fatal("surface with outstanding configures must not be ready to commit")
	}
	if err := x.AckConfigure(s1); err != nil {
		t.Fatalf("AckConfigure(s1): %v", err)
	}
	if x.ReadyToCommit() {
		t.Fatal("surface with s2 still outstanding must not be ready to commit")
	}
	if err := x.AckConfigure(s2); err != nil {
		t.Fatalf("AckConfigure(s2): %v", err)
	}
	if !x.ReadyToCommit() {
		t.Fatal("surface with every configure acked must be ready to commit")
	}
}

func TestAckConfigureIgnoresStaleAck(t *testing.T) {
	serials := &SerialAllocator{}
	x := NewXDGSurface(1, NewSurface(2))
	s1 := x.Configure(serials)
	s2 := x.Configure(serials)
	if err := x.AckConfigure(s2); err != nil {
		t.Fatalf("AckConfigure(s2): %v", err)
	}
	if err := x.AckConfigure(s1); err != nil {
		t.Fatalf("a stale ack must be ignored, not rejected: %v", err)
	}
}

func TestToplevelRoleAssignmentRejectsSecondRole(t *testing.T) {
	surface := NewSurface(2)
	x := NewXDGSurface(1, surface)
	if _, err := NewXDGToplevel(3, x); err != nil {
		t.Fatalf("NewXDGToplevel: %v", err)
	}
	if _, err := NewXDGPopup(4, x, nil, 0, 0, 0, 0); err == nil {
		t.Fatal("assigning xdg_popup to a surface that already has the toplevel role must fail")
	}
}
