// Package transport is the connection/multiplexing layer: one
// UNIX-domain stream socket plus a FIFO of received out-of-band file
// descriptors (outgoing ones ride with their message), framed send/recv, and the suspension
// semantics a cooperative dispatch loop needs. It is deliberately
// ignorant of object ids,
// interfaces, and signatures beyond what it needs to frame a message —
// those are the object and proto packages' job.
package transport

import (
	"net"
	"os"
	"path/filepath"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
)

// DefaultDisplayName is used when $WAYLAND_DISPLAY is unset.
const DefaultDisplayName = "wayland-0"

// ResolveSocketPath resolves the standard transport rule: a UNIX socket at
// $XDG_RUNTIME_DIR/$WAYLAND_DISPLAY, defaulting the display name to
// "wayland-0". An absolute override is returned unchanged.
func ResolveSocketPath(override string) (string, error) {
	name := override
	if name == "" {
		name = os.Getenv("WAYLAND_DISPLAY")
	}
	if name == "" {
		name = DefaultDisplayName
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	runDir := os.Getenv("XDG_RUNTIME_DIR")
	if runDir == "" {
		return "", wlerr.New(wlerr.PermissionDenied, "XDG_RUNTIME_DIR is not set")
	}
	return filepath.Join(runDir, name), nil
}

// Dial connects to a compositor's socket, resolving path the way
// ResolveSocketPath does when displayName is not already absolute.
func Dial(displayName string) (*Conn, error) {
	path, err := ResolveSocketPath(displayName)
	if err != nil {
		return nil, err
	}
	c, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, wlerr.Wrap(wlerr.BrokenPipe, "dial wayland socket", err)
	}
	return newConn(c), nil
}

// Listener accepts client connections on a compositor's socket.
type Listener struct {
	ln   *net.UnixListener
	path string
}

// Listen binds a compositor-side socket at the resolved path, removing a
// stale socket file left over from a previous run (a common post-crash
// state for a UNIX-domain listener).
func Listen(displayName string) (*Listener, error) {
	path, err := ResolveSocketPath(displayName)
	if err != nil {
		return nil, err
	}
	_ = os.Remove(path)
	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, wlerr.Wrap(wlerr.BrokenPipe, "listen on wayland socket", err)
	}
	return &Listener{ln: ln, path: path}, nil
}

func (l *Listener) Path() string { return l.path }

// Accept blocks for the next client connection.
func (l *Listener) Accept() (*Conn, error) {
	c, err := l.ln.AcceptUnix()
	if err != nil {
		return nil, wlerr.Wrap(wlerr.BrokenPipe, "accept wayland connection", err)
	}
	return newConn(c), nil
}

// Close stops accepting and removes the socket file.
func (l *Listener) Close() error {
	err := l.ln.Close()
	_ = os.Remove(l.path)
	return err
}
