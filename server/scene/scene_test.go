package scene

import (
	"testing"

	"github.com/ghostkellz/wzl-go/server"
)

func TestFindViewAtRespectsStackingOrder(t *testing.T) {
	s := New()
	bottom := s.CreateView(1, server.NewSurface(10))
	top := s.CreateView(2, server.NewSurface(11))
	bottom.Map(0, 0, 100, 100)
	top.Map(0, 0, 100, 100)

	hit := s.FindViewAt(50, 50)
	if hit != top {
		t.Fatal("the later-created overlapping view must win hit-testing")
	}
}

func TestFindViewAtSkipsUnmapped(t *testing.T) {
	s := New()
	v := s.CreateView(1, server.NewSurface(10))
	if hit := s.FindViewAt(0, 0); hit != nil {
		t.Fatal("an unmapped view must not be hit")
	}
	v.Map(0, 0, 10, 10)
	if hit := s.FindViewAt(5, 5); hit != v {
		t.Fatal("a mapped view containing the point must be hit")
	}
}

func TestReparentMovesViewUnderNewParent(t *testing.T) {
	s := New()
	parent := s.CreateView(1, server.NewSurface(10))
	child := s.CreateView(2, server.NewSurface(11))
	s.Reparent(child, parent)
	if child.Parent != parent {
		t.Fatal("Reparent must set the child's Parent pointer")
	}
	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Fatal("Reparent must append child to the new parent's Children")
	}
}

func TestDamagedViewsCollectsOnlyMappedWithDamage(t *testing.T) {
	s := New()
	mapped := s.CreateView(1, server.NewSurface(10))
	mapped.Map(0, 0, 10, 10)
	mapped.AddDamage(server.Rect{X: 0, Y: 0, W: 5, H: 5})

	unmapped := s.CreateView(2, server.NewSurface(11))
	unmapped.AddDamage(server.Rect{X: 0, Y: 0, W: 5, H: 5})

	damaged := s.DamagedViews()
	if len(damaged) != 1 || damaged[0] != mapped {
		t.Fatalf("expected exactly the mapped damaged view, got %v", damaged)
	}
}

func TestNotifyCommitCreatesViewOnFirstCommit(t *testing.T) {
	s := New()
	surface := server.NewSurface(10)
	surface.OnCommit = func(sf *server.Surface) { s.NotifyCommit(sf) }
	surface.Damage(server.Rect{X: 0, Y: 0, W: 4, H: 4})

	if err := surface.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	v, ok := s.bySurface[surface]
	if !ok {
		t.Fatal("NotifyCommit must create a view for a surface with no prior create_view")
	}
	if v.Mapped {
		t.Fatal("a commit with no attached buffer must leave the view unmapped")
	}
}
