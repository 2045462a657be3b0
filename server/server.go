package server

import (
	"sync/atomic"

	"github.com/ghostkellz/wzl-go/internal/config"
	"github.com/ghostkellz/wzl-go/internal/wlog"
	"github.com/ghostkellz/wzl-go/object"
	"github.com/ghostkellz/wzl-go/proto"
	"github.com/ghostkellz/wzl-go/transport"
	"github.com/ghostkellz/wzl-go/wire"
)

// SceneNotifier receives a post-commit notification for a surface so the
// scene graph can resync its view tree without this package importing
// server/scene (scene imports server, not the reverse). SurfaceAt lets
// input injection hit-test the view tree for pointer/touch focus the
// same way, again without an import back into scene.
type SceneNotifier interface {
	NotifyCommit(surface *Surface)
	SurfaceAt(x, y wire.Fixed) (surface *Surface, localX, localY wire.Fixed)
}

// SeatTemplate is the capability set new wl_seat binds are constructed
// with; there is exactly one seat in this core (multi-seat is listed as
// a non-goal).
type SeatTemplate struct {
	Name         string
	Capabilities Capability
}

// Server is the shared state every accepted Connection dispatches
// against: the global broker, the one seat and output this core
// advertises, the shared serial source for XDG configure events, and
// (optionally) a scene graph kept in sync with surface commits.
type Server struct {
	Registry   *Registry
	Serials    *SerialAllocator
	ShmFormats []proto.ShmFormat
	Seat       SeatTemplate
	Output     *Output
	Scene      SceneNotifier

	listener *transport.Listener
	nextKey  uint32
	closing  atomic.Bool

	// surfaceOwner tracks which connection created each live surface, so
	// input injection knows which client's wl_pointer/wl_keyboard/wl_touch
	// objects to address once the scene graph names a hit surface.
	surfaceOwner  map[*Surface]*Connection
	pointerFocus  *Surface
	keyboardFocus *Surface
}

// New builds a Server from configuration, advertising the core globals
// every client expects to see on its first registry enumeration.
func New(cfg *config.Config) *Server {
	srv := &Server{
		Registry: NewRegistry(),
		Serials:  &SerialAllocator{},
		Seat: SeatTemplate{
			Name:         cfg.Seat.Name,
			Capabilities: seatCapabilities(cfg.Seat),
		},
		Output:       outputFromConfig(cfg),
		surfaceOwner: map[*Surface]*Connection{},
	}
	srv.ShmFormats = shmFormatsFromConfig(cfg)

	srv.Registry.Advertise("wl_compositor", 6)
	srv.Registry.Advertise("wl_shm", 1)
	srv.Registry.Advertise("wl_seat", 9)
	srv.Registry.Advertise("wl_output", 4)
	srv.Registry.Advertise("xdg_wm_base", 6)
	return srv
}

func seatCapabilities(cfg config.SeatConfig) Capability {
	var caps Capability
	if cfg.Pointer {
		caps |= CapPointer
	}
	if cfg.Keyboard {
		caps |= CapKeyboard
	}
	if cfg.Touch {
		caps |= CapTouch
	}
	return caps
}

func outputFromConfig(cfg *config.Config) *Output {
	o := NewOutput(0)
	if len(cfg.Outputs) == 0 {
		o.Modes = []Mode{{Width: 1920, Height: 1080, RefreshMHz: 60000, Current: true, Preferred: true}}
		return o
	}
	oc := cfg.Outputs[0]
	o.PhysicalWidthMM = oc.WidthMM
	o.PhysicalHeightMM = oc.HeightMM
	o.Make = oc.Name
	if oc.Scale > 0 {
		o.Scale = oc.Scale
	}
	o.Modes = []Mode{{Width: oc.Width, Height: oc.Height, RefreshMHz: oc.RefreshMHz, Current: true, Preferred: true}}
	return o
}

func shmFormatsFromConfig(cfg *config.Config) []proto.ShmFormat {
	formats := make([]proto.ShmFormat, 0, len(cfg.Shm.Formats))
	for _, name := range cfg.Shm.Formats {
		if f, ok := proto.ShmFormatByName(name); ok {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		formats = []proto.ShmFormat{proto.ShmFormatARGB8888, proto.ShmFormatXRGB8888}
	}
	return formats
}

// Serve listens on the given display name (empty for the default) and
// accepts connections until the listener is closed or accept fails.
func (s *Server) Serve(displayName string) error {
	l, err := transport.Listen(displayName)
	if err != nil {
		return err
	}
	s.listener = l
	wlog.Info().Str("socket", l.Path()).Msg("listening")

	for {
		c, err := l.Accept()
		if err != nil {
			if s.closing.Load() {
				return nil
			}
			return err
		}
		s.nextKey++
		key := s.nextKey
		conn := newConnection(key, c, s)
		go s.serveConn(key, conn)
	}
}

func (s *Server) serveConn(key uint32, conn *Connection) {
	log := wlog.Conn(connLabel(key))
	defer func() {
		s.Registry.Unsubscribe(key)
		conn.conn.Close()
	}()
	for {
		raw, err := conn.conn.RecvRaw()
		if err != nil {
			log.Debug().Err(err).Msg("connection closed")
			return
		}
		if conn.Handle(object.RawMessage(raw)) {
			log.Info().Msg("connection torn down after fatal protocol error")
			return
		}
	}
}

func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	s.closing.Store(true)
	return s.listener.Close()
}

// registerSurface records which connection owns surf, so a later
// pointer/touch hit-test against the scene graph knows whose
// wl_pointer/wl_touch objects to address.
func (s *Server) registerSurface(surf *Surface, c *Connection) {
	s.surfaceOwner[surf] = c
}

// unregisterSurface drops surf's ownership record and clears it from
// whatever input focus it held, so a destroyed surface can never again
// be addressed by injected input.
func (s *Server) unregisterSurface(surf *Surface) {
	if s.pointerFocus == surf {
		s.pointerFocus = nil
	}
	if s.keyboardFocus == surf {
		s.keyboardFocus = nil
	}
	delete(s.surfaceOwner, surf)
}

// CompleteFrame is the hook an external renderer calls once it has
// finished drawing a batch of views for one output: each view's queued
// frame callbacks fire and its buffer releases if this core has moved
// past it since the frame was handed to the renderer. A view whose
// surface is no longer registered (destroyed mid-render) is skipped.
func (s *Server) CompleteFrame(views []FrameView, timestampMS uint32) {
	for _, v := range views {
		owner, ok := s.surfaceOwner[v.Surface]
		if !ok {
			continue
		}
		owner.completeFrame(v, timestampMS)
	}
}

func connLabel(key uint32) string {
	return "c" + itoa(key)
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
