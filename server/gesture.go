package server

import (
	"math"

	"github.com/ghostkellz/wzl-go/wire"
)

// GestureKind identifies a recognized multi-finger gesture.
type GestureKind int

const (
	GestureSwipe GestureKind = iota
	GesturePinch
	GestureRotate
)

// Gesture is a high-level event derived from the raw touch stream: a
// center point plus scale/rotation magnitudes, emitted above the
// down/motion/up/frame sequence rather than in place of it.
type Gesture struct {
	Kind     GestureKind
	CenterX  wire.Fixed
	CenterY  wire.Fixed
	Scale    float64 // 1.0 = no change, pinch only
	Rotation float64 // radians, rotate only
}

// GestureRecognizer consumes the raw touch id/position stream a Touch
// object maintains and emits Gesture events once two or more points are
// active. It holds no reference to the Touch object itself — the seat's
// dispatch code feeds it Down/Motion/Up calls as they occur.
type GestureRecognizer struct {
	points map[int32]gesturePoint
}

type gesturePoint struct {
	x, y        float64
	startX, startY float64
}

func NewGestureRecognizer() *GestureRecognizer {
	return &GestureRecognizer{points: map[int32]gesturePoint{}}
}

func (g *GestureRecognizer) Down(id int32, x, y wire.Fixed) {
	fx, fy := x.Float64(), y.Float64()
	g.points[id] = gesturePoint{x: fx, y: fy, startX: fx, startY: fy}
}

// Motion updates a point's position and, once at least two points are
// active, classifies how two of them moved since they began: pinch when
// their distance changed by more than 5%, otherwise rotate when the
// angle between them turned by more than 0.05 rad, otherwise swipe (also
// when they have not moved at all). Only one Gesture is returned per
// call, chosen in that fixed order.
func (g *GestureRecognizer) Motion(id int32, x, y wire.Fixed) (Gesture, bool) {
	p, ok := g.points[id]
	if !ok {
		return Gesture{}, false
	}
	p.x, p.y = x.Float64(), y.Float64()
	g.points[id] = p

	if len(g.points) < 2 {
		return Gesture{}, false
	}

	ids := make([]int32, 0, len(g.points))
	for k := range g.points {
		ids = append(ids, k)
	}

	var cx, cy, startDist, curDist, startAngle, curAngle float64
	n := float64(len(ids))
	for _, k := range ids {
		pt := g.points[k]
		cx += pt.x
		cy += pt.y
	}
	cx /= n
	cy /= n

	if len(ids) >= 2 {
		a, b := g.points[ids[0]], g.points[ids[1]]
		startDist = dist(a.startX, a.startY, b.startX, b.startY)
		curDist = dist(a.x, a.y, b.x, b.y)
		startAngle = math.Atan2(b.startY-a.startY, b.startX-a.startX)
		curAngle = math.Atan2(b.y-a.y, b.x-a.x)
	}

	scale := 1.0
	if startDist > 0 {
		scale = curDist / startDist
	}
	rotation := curAngle - startAngle

	switch {
	case math.Abs(scale-1.0) > 0.05:
		return Gesture{Kind: GesturePinch, CenterX: wire.FixedFromFloat64(cx), CenterY: wire.FixedFromFloat64(cy), Scale: scale}, true
	case math.Abs(rotation) > 0.05:
		return Gesture{Kind: GestureRotate, CenterX: wire.FixedFromFloat64(cx), CenterY: wire.FixedFromFloat64(cy), Rotation: rotation}, true
	default:
		return Gesture{Kind: GestureSwipe, CenterX: wire.FixedFromFloat64(cx), CenterY: wire.FixedFromFloat64(cy)}, true
	}
}

func (g *GestureRecognizer) Up(id int32) {
	delete(g.points, id)
}

func (g *GestureRecognizer) Cancel() {
	g.points = map[int32]gesturePoint{}
}

func dist(x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	return math.Sqrt(dx*dx + dy*dy)
}
