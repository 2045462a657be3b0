// Package scene implements the compositor's view tree: the ordered
// parent/children structure rendering and hit-testing walk, sitting
// above the surface and role machinery in package server.
package scene

import (
	"github.com/ghostkellz/wzl-go/server"
	"github.com/ghostkellz/wzl-go/wire"
)

// View is one node in the scene tree: a surface, a position, visibility,
// and an accumulated damage list.
type View struct {
	ID       uint32
	Surface  *server.Surface
	Parent   *View
	Children []*View

	X, Y, W, H int32
	Mapped     bool
	Damage     []server.Rect
}

// Scene owns the root list and an id index for O(1) lookup by view id
// (the id a create_view request names), plus a reverse index from
// surface to its view so NotifyCommit can resync without a linear scan.
type Scene struct {
	byID      map[uint32]*View
	bySurface map[*server.Surface]*View
	root      []*View
}

func New() *Scene {
	return &Scene{byID: map[uint32]*View{}, bySurface: map[*server.Surface]*View{}}
}

// CreateView registers a new view for surface, appending it to the root
// list. Reparenting under an existing view is done by a later call to
// Reparent — create_view always starts a view at the tree's root, which
// matches how a toplevel's view is born before any popup attaches
// beneath it.
func (s *Scene) CreateView(id uint32, surface *server.Surface) *View {
	v := &View{ID: id, Surface: surface}
	s.byID[id] = v
	s.bySurface[surface] = v
	s.root = append(s.root, v)
	return v
}

// NotifyCommit resyncs a view's mapped state and damage from its
// surface's last commit, creating the view on first commit if no
// create_view call has registered one yet (a plain wl_surface/wl_shell
// client has no explicit view-creation request of its own). It
// satisfies server.SceneNotifier.
func (s *Scene) NotifyCommit(surface *server.Surface) {
	v, ok := s.bySurface[surface]
	if !ok {
		v = s.CreateView(surface.ID(), surface)
	}
	if !surface.Mapped() {
		v.Unmap()
		return
	}
	w, h := int32(0), int32(0)
	if buf := surface.AppliedBuffer(); buf != nil {
		w, h = buf.Width(), buf.Height()
	}
	v.Map(v.X, v.Y, w, h)
	for _, r := range surface.AppliedDamage() {
		v.AddDamage(r)
	}
	surface.ClearAppliedDamage()
}

// Reparent moves child under parent, removing it from whatever list
// (root or another parent's children) it currently occupies.
func (s *Scene) Reparent(child, parent *View) {
	s.detach(child)
	child.Parent = parent
	parent.Children = append(parent.Children, child)
}

func (s *Scene) detach(v *View) {
	if v.Parent == nil {
		s.root = removeView(s.root, v)
		return
	}
	v.Parent.Children = removeView(v.Parent.Children, v)
	v.Parent = nil
}

func removeView(list []*View, target *View) []*View {
	out := list[:0]
	for _, v := range list {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}

func (v *View) Map(x, y, w, h int32) {
	v.X, v.Y, v.W, v.H = x, y, w, h
	v.Mapped = true
}

func (v *View) Unmap() { v.Mapped = false }

func (v *View) Move(x, y int32) { v.X, v.Y = x, y }

func (v *View) Resize(w, h int32) { v.W, v.H = w, h }

func (v *View) AddDamage(r server.Rect) { v.Damage = append(v.Damage, r) }

func (v *View) ClearDamage() { v.Damage = nil }

func (v *View) contains(x, y int32) bool {
	return v.Mapped && x >= v.X && x < v.X+v.W && y >= v.Y && y < v.Y+v.H
}

// FindViewAt returns the topmost mapped view whose bounds contain
// (x, y); ties are broken by stacking order, last-added wins. Views are
// walked in reverse root-list order (and, within each subtree, in
// reverse child order) so a later CreateView/Reparent call outranks an
// earlier one at the same point.
func (s *Scene) FindViewAt(x, y int32) *View {
	for i := len(s.root) - 1; i >= 0; i-- {
		if v := findIn(s.root[i], x, y); v != nil {
			return v
		}
	}
	return nil
}

// SurfaceAt hit-tests the view tree at global coordinates (x, y) and, on
// a hit, translates the point into the surface's own local coordinate
// space. It satisfies server.SceneNotifier so input injection can
// resolve pointer/touch focus without this package's View type leaking
// into server.
func (s *Scene) SurfaceAt(x, y wire.Fixed) (surface *server.Surface, localX, localY wire.Fixed) {
	v := s.FindViewAt(x.Int(), y.Int())
	if v == nil {
		return nil, 0, 0
	}
	return v.Surface, x - wire.FixedFromInt(v.X), y - wire.FixedFromInt(v.Y)
}

func findIn(v *View, x, y int32) *View {
	for i := len(v.Children) - 1; i >= 0; i-- {
		if hit := findIn(v.Children[i], x, y); hit != nil {
			return hit
		}
	}
	if v.contains(x, y) {
		return v
	}
	return nil
}

// DamagedViews returns every currently-mapped view with pending damage,
// for a frame pass to hand to the renderer; damage is not cleared here
// so the caller can decide when a frame has actually been presented
// before clearing it.
func (s *Scene) DamagedViews() []*View {
	var out []*View
	var walk func(v *View)
	walk = func(v *View) {
		if v.Mapped && len(v.Damage) > 0 {
			out = append(out, v)
		}
		for _, c := range v.Children {
			walk(c)
		}
	}
	for _, v := range s.root {
		walk(v)
	}
	return out
}
