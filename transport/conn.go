package transport

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/wire"
)

// maxAncillaryFDs bounds a single recvmsg's ancillary buffer; Wayland
// messages never carry more than a handful of fds each, so this is a
// generous ceiling rather than a protocol limit.
const maxAncillaryFDs = 32

// RawMessage is a received message before its signature has been
// resolved: the signature is resolved by the dispatcher before argument
// parsing, so Conn hands back only the framing and the
// payload bytes, not decoded arguments.
type RawMessage struct {
	ObjectID uint32
	Opcode   uint16
	Body     []byte // excludes the 8-byte header
}

// Conn owns one stream socket and one FIFO of received FDs: fdQueue
// holds fds received but not yet claimed by a decode call, in arrival
// order. Outgoing fds are not queued; Send attaches them to their message.
type Conn struct {
	conn *net.UnixConn

	sendMu sync.Mutex

	recvMu  sync.Mutex
	fdQueue []int
}

func newConn(c *net.UnixConn) *Conn {
	return &Conn{conn: c}
}

// Send encodes msg against sig and writes it as one contiguous payload,
// with any 'h' arguments attached as ancillary data on the first write so
// receive-side ordering is preserved. A transient EAGAIN is retried, and
// a short write (WriteMsgUnix returning fewer bytes than the payload with
// a nil error) resends only the unwritten remainder rather than assuming
// the whole message landed; other errors are reported as
// BrokenPipe/PermissionDenied.
func (c *Conn) Send(msg wire.Message, sig wire.Signature) error {
	payload, fds, err := wire.Encode(msg, sig)
	if err != nil {
		return err
	}

	var oob []byte
	if len(fds) > 0 {
		oob = unix.UnixRights(fds...)
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	written := 0
	for written < len(payload) {
		n, _, err := c.conn.WriteMsgUnix(payload[written:], oob, nil)
		if err == nil {
			written += n
			oob = nil // ancillary fds travel with the first segment only
			continue
		}
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			time.Sleep(time.Millisecond)
			continue
		}
		if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
			return wlerr.Wrap(wlerr.BrokenPipe, "send on closed connection", err)
		}
		if errors.Is(err, unix.EPIPE) || errors.Is(err, unix.ECONNRESET) {
			return wlerr.Wrap(wlerr.BrokenPipe, "send", err)
		}
		if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
			return wlerr.Wrap(wlerr.PermissionDenied, "send", err)
		}
		return wlerr.Wrap(wlerr.BrokenPipe, "send", err)
	}
	return nil
}

// RecvRaw reads one message's header and body, draining any ancillary
// FDs received during those reads into the incoming FIFO in arrival
// order.
func (c *Conn) RecvRaw() (RawMessage, error) {
	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	header, err := c.readAtLeast(wire.HeaderSize)
	if err != nil {
		return RawMessage{}, err
	}
	id, opcode, size := wire.PeekHeader(header)
	if size < wire.HeaderSize {
		return RawMessage{}, wlerr.New(wlerr.MalformedMessage, "declared size smaller than header")
	}

	body := header[wire.HeaderSize:]
	remaining := int(size) - wire.HeaderSize - len(body)
	if remaining > 0 {
		rest, err := c.readAtLeast(remaining)
		if err != nil {
			return RawMessage{}, err
		}
		body = append(body, rest...)
	} else if remaining < 0 {
		// readAtLeast returns exactly the bytes requested, so after a
		// HeaderSize read body is empty and remaining is never negative;
		// this branch only guards the accounting.
		return RawMessage{}, wlerr.New(wlerr.MalformedMessage, "short read accounting error")
	}

	return RawMessage{ObjectID: id, Opcode: opcode, Body: body[:int(size)-wire.HeaderSize]}, nil
}

// readAtLeast reads exactly n bytes, draining any ancillary FDs that
// arrive alongside them into c.fdQueue.
func (c *Conn) readAtLeast(n int) ([]byte, error) {
	buf := make([]byte, n)
	off := 0
	oob := make([]byte, unix.CmsgSpace(maxAncillaryFDs*4))
	for off < n {
		rawConn, err := c.conn.SyscallConn()
		if err != nil {
			return nil, wlerr.Wrap(wlerr.BrokenPipe, "recv", err)
		}
		var (
			nRead, nOOB int
			readErr     error
		)
		ctrlErr := rawConn.Read(func(fd uintptr) bool {
			nRead, nOOB, _, _, readErr = unix.Recvmsg(int(fd), buf[off:], oob, 0)
			if readErr == unix.EAGAIN {
				return false // ask runtime to wait for readability
			}
			return true
		})
		if ctrlErr != nil {
			return nil, wlerr.Wrap(wlerr.BrokenPipe, "recv", ctrlErr)
		}
		if readErr != nil {
			if errors.Is(readErr, unix.ECONNRESET) {
				return nil, wlerr.Wrap(wlerr.ConnectionReset, "recv", readErr)
			}
			return nil, wlerr.Wrap(wlerr.BrokenPipe, "recv", readErr)
		}
		if nRead == 0 {
			return nil, wlerr.Wrap(wlerr.BrokenPipe, "recv", io.EOF)
		}
		if nOOB > 0 {
			cmsgs, err := unix.ParseSocketControlMessage(oob[:nOOB])
			if err == nil {
				for _, cmsg := range cmsgs {
					fds, err := unix.ParseUnixRights(&cmsg)
					if err == nil {
						c.fdQueue = append(c.fdQueue, fds...)
					}
				}
			}
		}
		off += nRead
	}
	return buf, nil
}

// PopFDs removes exactly n file descriptors from the front of the
// incoming FIFO, in the order they were received. An underflow (fewer
// fds queued than a signature's 'h' tokens require) is MalformedMessage.
func (c *Conn) PopFDs(n int) ([]int, error) {
	if n == 0 {
		return nil, nil
	}
	if len(c.fdQueue) < n {
		return nil, wlerr.New(wlerr.MalformedMessage, "file descriptor queue underflow")
	}
	fds := append([]int(nil), c.fdQueue[:n]...)
	c.fdQueue = c.fdQueue[n:]
	return fds, nil
}

// Flush is a semantic no-op: Send writes eagerly.
func (c *Conn) Flush() error { return nil }

// Close closes the underlying socket.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// FD exposes the raw socket descriptor for callers that need to register
// it with an external event loop.
func (c *Conn) FD() (uintptr, error) {
	raw, err := c.conn.SyscallConn()
	if err != nil {
		return 0, err
	}
	var fd uintptr
	err = raw.Control(func(f uintptr) { fd = f })
	return fd, err
}
