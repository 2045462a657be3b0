package server

import "testing"

func TestSurfaceCommitUnmapsWithoutBuffer(t *testing.T) {
	s := NewSurface(10)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if s.Mapped() {
		t.Fatal("surface with no attached buffer must not be mapped after commit")
	}
}

func TestSurfaceCommitMapsWithBuffer(t *testing.T) {
	s := NewSurface(10)
	buf := &Buffer{}
	s.Attach(buf, 0, 0)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !s.Mapped() {
		t.Fatal("surface with an attached buffer must be mapped after commit")
	}
}

func TestSurfaceDamageClearsOnCommit(t *testing.T) {
	s := NewSurface(10)
	s.Attach(&Buffer{}, 0, 0)
	s.Damage(Rect{0, 0, 10, 10})
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(s.AppliedDamage()) != 1 {
		t.Fatalf("expected one applied damage rect, got %d", len(s.AppliedDamage()))
	}
	s.Damage(Rect{0, 0, 5, 5})
	if err := s.Commit(); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	if len(s.AppliedDamage()) != 1 {
		t.Fatalf("damage from a prior commit must not accumulate, got %d", len(s.AppliedDamage()))
	}
}

func TestSurfaceCommitAfterDestroyFails(t *testing.T) {
	s := NewSurface(10)
	s.Destroy()
	if err := s.Commit(); err == nil {
		t.Fatal("commit on a destroyed surface must fail")
	}
}

func TestSurfaceRoleAssignedOnce(t *testing.T) {
	s := NewSurface(10)
	if err := s.SetRole(RoleXDGToplevel, nil); err != nil {
		t.Fatalf("first SetRole: %v", err)
	}
	if err := s.SetRole(RoleXDGPopup, nil); err == nil {
		t.Fatal("assigning a second role to the same surface must fail")
	}
}

func TestSurfaceCommitInvokesOnCommitHook(t *testing.T) {
	s := NewSurface(10)
	called := false
	s.OnCommit = func(*Surface) { called = true }
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if !called {
		t.Fatal("OnCommit hook was not invoked")
	}
}

func TestSurfaceCommitReleasesReplacedBuffer(t *testing.T) {
	s := NewSurface(10)
	first := &Buffer{}
	releases := 0
	first.OnRelease = func(*Buffer) { releases++ }
	s.Attach(first, 0, 0)
	if err := s.Commit(); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	if releases != 0 {
		t.Fatalf("a buffer must not release while it is still the applied one, got %d releases", releases)
	}

	second := &Buffer{}
	s.Attach(second, 0, 0)
	if err := s.Commit(); err != nil {
		t.Fatalf("second Commit: %v", err)
	}
	if releases != 1 {
		t.Fatalf("expected the displaced buffer to release exactly once, got %d", releases)
	}
}

func TestSurfaceDestroyReleasesAppliedBuffer(t *testing.T) {
	s := NewSurface(10)
	buf := &Buffer{}
	released := false
	buf.OnRelease = func(*Buffer) { released = true }
	s.Attach(buf, 0, 0)
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	s.Destroy()
	if !released {
		t.Fatal("destroying a surface must release its applied buffer")
	}
}

func TestRegionContainsRespectsSubtractOrder(t *testing.T) {
	r := NewRegion(1)
	r.Add(0, 0, 100, 100)
	r.Subtract(10, 10, 20, 20)
	if r.Contains(15, 15) {
		t.Fatal("point inside subtracted rect must not be contained")
	}
	if !r.Contains(5, 5) {
		t.Fatal("point outside subtracted rect must be contained")
	}
	r.Add(10, 10, 20, 20)
	if !r.Contains(15, 15) {
		t.Fatal("re-adding a rect after subtracting it must restore containment")
	}
}
