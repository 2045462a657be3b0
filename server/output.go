package server

import "github.com/ghostkellz/wzl-go/object"

// Subpixel enumerates the physical subpixel arrangement an output
// advertises.
type Subpixel int32

const (
	SubpixelUnknown Subpixel = iota
	SubpixelNone
	SubpixelHorizontalRGB
	SubpixelHorizontalBGR
	SubpixelVerticalRGB
	SubpixelVerticalBGR
)

// Mode is one advertised display mode.
type Mode struct {
	Width, Height int32
	RefreshMHz    int32
	Current       bool
	Preferred     bool
}

// Output represents one physical display. Geometry/mode/scale are
// advertised at bind time and batched under a trailing done event.
type Output struct {
	object.Base

	X, Y                 int32
	PhysicalWidthMM      int32
	PhysicalHeightMM     int32
	SubpixelArrangement  Subpixel
	Make, Model          string
	Transform            BufferTransform
	Scale                int32
	Modes                []Mode
}

func NewOutput(id uint32) *Output {
	return &Output{Base: object.NewBase(id, "wl_output", 4), Scale: 1}
}

// OutputMembership tracks which outputs a surface currently overlaps, so
// Connection.syncSurfaceOutputs emits wl_surface.enter/leave once per
// transition rather than on every commit.
type OutputMembership struct {
	outputs map[*Output]struct{}
}

func (m *OutputMembership) Enter(o *Output) (entered bool) {
	if m.outputs == nil {
		m.outputs = map[*Output]struct{}{}
	}
	if _, already := m.outputs[o]; already {
		return false
	}
	m.outputs[o] = struct{}{}
	return true
}

func (m *OutputMembership) Leave(o *Output) (left bool) {
	if _, ok := m.outputs[o]; !ok {
		return false
	}
	delete(m.outputs, o)
	return true
}

// PreferredScale returns the highest scale among the outputs a surface
// currently spans, per the multi-output buffer-scale negotiation rule.
func (m *OutputMembership) PreferredScale() int32 {
	best := int32(1)
	for o := range m.outputs {
		if o.Scale > best {
			best = o.Scale
		}
	}
	return best
}
