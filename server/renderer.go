package server

// BufferSource resolves a buffer reference to whichever backing storage
// a renderer understands: an SHM pool window, or (for the dmabuf
// extension this core only advertises for discovery) a plane set.
type BufferSource interface {
	ShmWindow() (fd int, offset, stride int32, format uint32, ok bool)
}

// ShmWindow satisfies BufferSource for an SHM-backed Buffer.
func (b *Buffer) ShmWindow() (fd int, offset, stride int32, format uint32, ok bool) {
	return b.pool.fd, b.offset, b.stride, uint32(b.format), true
}

// FrameView is the renderer-facing projection of one scene view: enough
// to composite it without the renderer depending on server/scene's
// tree structure.
type FrameView struct {
	Surface      *Surface
	X, Y, W, H   int32
	Transform    BufferTransform
	Scale        int32
	Damage       []Rect
	Buffer       BufferSource
}

// Renderer is the external boundary this core exposes: given a batch of
// views for one output, it draws a frame and reports completion.
// Nothing in this repository implements Renderer — software/EGL/Vulkan
// backends are external collaborators per scope.
type Renderer interface {
	RenderFrame(output *Output, views []FrameView) error
}

// FrameCompleter converts a renderer's per-output frame-complete
// notification into the per-surface frame callbacks and buffer release
// events the protocol promises: every view's registered frame callbacks
// fire once, and its buffer is released if the surface's applied buffer
// has since changed or the surface was destroyed.
type FrameCompleter struct {
	// EmitCallback is called once per pending frame-callback id with the
	// presentation timestamp (milliseconds, as the wl_callback.done event
	// carries); the connection layer supplies this to actually write the
	// wire event.
	EmitCallback func(callbackID uint32, timestampMS uint32)
}

// Complete fires every callback queued on view.Surface's last applied
// commit, then clears them so they become inert (fired-once invariant).
// It also releases view.Buffer if the surface has since moved on to a
// different buffer or been destroyed — the case a renderer hits when it
// is still drawing from a buffer a newer commit (or a destroy) has
// already superseded by the time the frame finishes.
func (f *FrameCompleter) Complete(view FrameView, timestampMS uint32) {
	surface := view.Surface
	for _, cb := range surface.applied.FrameCallbacks {
		if f.EmitCallback != nil {
			f.EmitCallback(cb, timestampMS)
		}
	}
	surface.applied.FrameCallbacks = nil

	if buf, ok := view.Buffer.(*Buffer); ok && buf != nil {
		if surface.destroyed || surface.applied.Buffer != buf {
			buf.Release()
		}
	}
}
