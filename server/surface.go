package server

import (
	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/object"
)

// BufferTransform enumerates the eight dihedral transforms a compositor
// may apply to a surface's buffer before compositing.
type BufferTransform int

const (
	TransformNormal BufferTransform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Rect is a surface-space damage rectangle.
type Rect struct {
	X, Y, W, H int32
}

// Role tags the at-most-once semantic purpose of a surface.
type Role int

const (
	RoleNone Role = iota
	RoleXDGToplevel
	RoleXDGPopup
	RoleCursor
	RoleDragIcon
)

// SurfaceState is one half of a surface's double-buffered state.
type SurfaceState struct {
	Buffer         *Buffer
	AttachX        int32
	AttachY        int32
	Damage         []Rect
	FrameCallbacks []uint32
	OpaqueRegion   *Region
	InputRegion    *Region
	Transform      BufferTransform
	Scale          int32
}

// Region is a set of rectangles, built up by wl_region.add/subtract.
// Subtraction is resolved lazily: subtracted rectangles are recorded and
// Contains checks add-then-subtract in insertion order, which is
// sufficient for input/opaque region semantics (no renderer consumes
// this directly — this core only evaluates point containment for
// pointer focus).
type Region struct {
	object.Base
	ops []regionOp
}

type regionOp struct {
	rect    Rect
	subtract bool
}

func NewRegion(id uint32) *Region {
	return &Region{Base: object.NewBase(id, "wl_region", 1)}
}

func (r *Region) Add(x, y, w, h int32) { r.ops = append(r.ops, regionOp{Rect{x, y, w, h}, false}) }
func (r *Region) Subtract(x, y, w, h int32) {
	r.ops = append(r.ops, regionOp{Rect{x, y, w, h}, true})
}

func (r *Region) Contains(x, y int32) bool {
	in := false
	for _, op := range r.ops {
		hit := x >= op.rect.X && x < op.rect.X+op.rect.W && y >= op.rect.Y && y < op.rect.Y+op.rect.H
		if hit {
			in = !op.subtract
		}
	}
	return in
}

// Surface is a container of double-buffered state plus at-most-one role
// assignment (invariant i in the commit/role model).
type Surface struct {
	object.Base

	pending SurfaceState
	applied SurfaceState

	role      Role
	roleState interface{}

	mapped    bool
	destroyed bool

	// outputs tracks which wl_output globals this surface currently
	// overlaps, so a transition in or out of mapped state can be turned
	// into the matching wl_surface.enter/leave event exactly once.
	outputs OutputMembership

	// OnCommit, if set, is invoked after every successful commit so the
	// scene graph can resync its view of this surface's mapped state and
	// damage without this package depending on server/scene directly.
	OnCommit func(s *Surface)
}

func NewSurface(id uint32) *Surface {
	s := &Surface{Base: object.NewBase(id, "wl_surface", 6)}
	s.pending.Scale = 1
	s.applied.Scale = 1
	return s
}

func (s *Surface) Attach(buf *Buffer, x, y int32) {
	s.pending.Buffer = buf
	s.pending.AttachX = x
	s.pending.AttachY = y
}

func (s *Surface) Damage(r Rect) {
	s.pending.Damage = append(s.pending.Damage, r)
}

func (s *Surface) AddFrameCallback(callbackID uint32) {
	s.pending.FrameCallbacks = append(s.pending.FrameCallbacks, callbackID)
}

func (s *Surface) SetOpaqueRegion(r *Region) { s.pending.OpaqueRegion = r }
func (s *Surface) SetInputRegion(r *Region)  { s.pending.InputRegion = r }
func (s *Surface) SetBufferTransform(t BufferTransform) { s.pending.Transform = t }
func (s *Surface) SetBufferScale(scale int32)           { s.pending.Scale = scale }

// SetRole assigns state the first time a role is attached to this
// surface; a second attempt with any role fails with InvalidMethod
// (invariant i).
func (s *Surface) SetRole(role Role, state interface{}) error {
	if s.role != RoleNone {
		return wlerr.NewWithObject(wlerr.InvalidMethod, s.ID(), "surface already has a role")
	}
	s.role = role
	s.roleState = state
	return nil
}

func (s *Surface) Role() Role             { return s.role }
func (s *Surface) RoleState() interface{} { return s.roleState }
func (s *Surface) Mapped() bool           { return s.mapped }

// AppliedBuffer, AppliedDamage and ClearAppliedDamage expose the last
// committed state to observers outside this package (the scene graph)
// without handing out the whole SurfaceState.
func (s *Surface) AppliedBuffer() *Buffer { return s.applied.Buffer }
func (s *Surface) AppliedDamage() []Rect  { return s.applied.Damage }
func (s *Surface) ClearAppliedDamage()    { s.applied.Damage = nil }

// Commit atomically swaps pending into applied. Frame callbacks and
// damage move rather than copy (the teacher's own pattern of moving
// slices out at a transition point, mirrored from
// wlclient/client.go's listener-map swap). A commit with no attached
// buffer unmaps the surface (invariant iii); damage clears on commit
// (invariant iv). The buffer this commit displaces is released back to
// the client immediately — this core has no in-flight render fence of
// its own, so a replaced buffer is by definition no longer needed once a
// newer one has taken its place; FrameCompleter.Complete covers the
// slower path where an actual renderer is still drawing from it.
func (s *Surface) Commit() error {
	if s.destroyed {
		return wlerr.NewWithObject(wlerr.InvalidObject, s.ID(), "commit on destroyed surface")
	}
	prevBuffer := s.applied.Buffer
	s.applied = s.pending
	s.pending = SurfaceState{Scale: s.pending.Scale, Transform: s.pending.Transform}
	s.mapped = s.applied.Buffer != nil

	if prevBuffer != nil && prevBuffer != s.applied.Buffer {
		prevBuffer.Release()
	}

	if s.OnCommit != nil {
		s.OnCommit(s)
	}
	return nil
}

// Destroy tears the surface down; any role object attached to it is the
// caller's responsibility to destroy too (invariant ii — enforced by the
// dispatcher that owns both object lifetimes, not by Surface itself).
// Whatever buffer was still applied at destruction releases immediately,
// since no further commit will ever come along to displace it.
func (s *Surface) Destroy() {
	s.destroyed = true
	s.mapped = false
	if s.applied.Buffer != nil {
		s.applied.Buffer.Release()
	}
}
