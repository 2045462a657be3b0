package server

import (
	"testing"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/wire"
)

func TestSeatGetPointerRejectsMissingCapability(t *testing.T) {
	seat := NewSeat(1, "seat0", CapKeyboard, &SerialAllocator{})
	if _, err := seat.GetPointer(2); !wlerr.Is(err, wlerr.InvalidMethod) {
		t.Fatalf("expected InvalidMethod requesting a pointer from a keyboard-only seat, got %v", err)
	}
}

func TestSeatGetPointerSucceedsWithCapability(t *testing.T) {
	seat := NewSeat(1, "seat0", CapPointer, &SerialAllocator{})
	p, err := seat.GetPointer(2)
	if err != nil {
		t.Fatalf("GetPointer: %v", err)
	}
	if p.ID() != 2 {
		t.Fatalf("expected pointer id 2, got %d", p.ID())
	}
}

func TestPointerEnterReturnsPreviouslyFocusedSurface(t *testing.T) {
	seat := NewSeat(1, "seat0", CapPointer, &SerialAllocator{})
	p, _ := seat.GetPointer(2)
	s1 := NewSurface(10)
	s2 := NewSurface(11)

	if left := p.Enter(1, s1, wire.Fixed(0), wire.Fixed(0)); left != nil {
		t.Fatalf("expected no prior focus, got %v", left)
	}
	if left := p.Enter(2, s2, wire.Fixed(0), wire.Fixed(0)); left != s1 {
		t.Fatal("Enter must return the previously focused surface")
	}
	if p.Focused() != s2 {
		t.Fatal("Focused must reflect the latest Enter")
	}
}

func TestTouchTracksMultiplePointsByID(t *testing.T) {
	seat := NewSeat(1, "seat0", CapTouch, &SerialAllocator{})
	touch, _ := seat.GetTouch(2)
	surface := NewSurface(10)

	touch.Down(0, surface, wire.Fixed(100), wire.Fixed(200))
	touch.Down(1, surface, wire.Fixed(300), wire.Fixed(400))
	if len(touch.ActivePoints()) != 2 {
		t.Fatalf("expected 2 active points, got %d", len(touch.ActivePoints()))
	}
	touch.Up(0)
	if len(touch.ActivePoints()) != 1 {
		t.Fatalf("expected 1 active point after Up, got %d", len(touch.ActivePoints()))
	}
	touch.Cancel()
	if len(touch.ActivePoints()) != 0 {
		t.Fatal("Cancel must clear every active point")
	}
}
