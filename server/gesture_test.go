package server

import (
	"testing"

	"github.com/ghostkellz/wzl-go/wire"
)

func TestGestureRecognizerNeedsTwoPoints(t *testing.T) {
	g := NewGestureRecognizer()
	g.Down(0, wire.FixedFromInt(0), wire.FixedFromInt(0))
	if _, ok := g.Motion(0, wire.FixedFromInt(10), wire.FixedFromInt(0)); ok {
		t.Fatal("a single active point must not produce a gesture")
	}
}

func TestGestureRecognizerClassifiesPinch(t *testing.T) {
	g := NewGestureRecognizer()
	g.Down(0, wire.FixedFromInt(0), wire.FixedFromInt(0))
	g.Down(1, wire.FixedFromInt(100), wire.FixedFromInt(0))

	gesture, ok := g.Motion(0, wire.FixedFromInt(-50), wire.FixedFromInt(0))
	if !ok {
		t.Fatal("expected a gesture once two points moved apart")
	}
	if gesture.Kind != GesturePinch {
		t.Fatalf("expected GesturePinch, got %v", gesture.Kind)
	}
}

func TestGestureRecognizerUpRemovesPoint(t *testing.T) {
	g := NewGestureRecognizer()
	g.Down(0, wire.FixedFromInt(0), wire.FixedFromInt(0))
	g.Down(1, wire.FixedFromInt(100), wire.FixedFromInt(0))
	g.Up(1)
	if _, ok := g.Motion(0, wire.FixedFromInt(10), wire.FixedFromInt(0)); ok {
		t.Fatal("removing a point must drop below the two-point gesture threshold")
	}
}
