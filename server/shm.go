package server

import (
	"golang.org/x/sys/unix"

	"github.com/ghostkellz/wzl-go/internal/wlerr"
	"github.com/ghostkellz/wzl-go/object"
	"github.com/ghostkellz/wzl-go/proto"
)

// Pool is a FD-backed shared-memory pool the server has mapped for
// read. Growing is allowed (resize only ever increases size); shrinking
// is rejected. The pool's FD, and its mapping, must outlive every
// buffer carved from it.
type Pool struct {
	object.Base

	fd       int
	size     int32
	data     []byte
	refCount int
	destroyRequested bool
}

// NewPool maps fd (already positioned at offset 0) into this process's
// address space, mirroring the unix.Mmap(fd, 0, size, PROT_READ|
// PROT_WRITE, MAP_SHARED) call the mazei513 reference client uses on
// the client side of the same protocol.
func NewPool(id uint32, fd int, size int32) (*Pool, error) {
	if size <= 0 {
		return nil, wlerr.NewWithObject(wlerr.InvalidSize, id, "pool size must be positive")
	}
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, wlerr.Wrap(wlerr.MmapFailed, "mmap shm pool", err)
	}
	return &Pool{
		Base: object.NewBase(id, "wl_shm_pool", 1),
		fd:   fd,
		size: size,
		data: data,
	}, nil
}

// Resize grows the pool's mapping. A request to shrink is a protocol
// error (pool size may only grow).
func (p *Pool) Resize(newSize int32) error {
	if newSize < p.size {
		return wlerr.NewWithObject(wlerr.InvalidSize, p.ID(), "shm pool resize must not shrink")
	}
	if newSize == p.size {
		return nil
	}
	if err := unix.Munmap(p.data); err != nil {
		return wlerr.Wrap(wlerr.MmapFailed, "unmap shm pool for resize", err)
	}
	data, err := unix.Mmap(p.fd, 0, int(newSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return wlerr.Wrap(wlerr.MmapFailed, "remap shm pool", err)
	}
	p.data = data
	p.size = newSize
	return nil
}

// CreateBuffer carves a (offset, w, h, stride, format) window out of the
// pool, validating bounds and the advertised format set.
func (p *Pool) CreateBuffer(id uint32, offset, w, h, stride int32, format proto.ShmFormat, supported []proto.ShmFormat) (*Buffer, error) {
	ok := false
	for _, f := range supported {
		if f == format {
			ok = true
			break
		}
	}
	if !ok {
		return nil, wlerr.NewWithObject(wlerr.InvalidFormat, id, "format not advertised by this wl_shm")
	}
	if stride <= 0 || w <= 0 || h <= 0 {
		return nil, wlerr.NewWithObject(wlerr.InvalidSize, id, "non-positive buffer dimension")
	}
	if bpp := format.BytesPerPixel(); bpp > 0 && stride < w*int32(bpp) {
		return nil, wlerr.NewWithObject(wlerr.InvalidStride, id, "stride shorter than one row")
	}
	if offset < 0 || int64(offset)+int64(stride)*int64(h) > int64(p.size) {
		return nil, wlerr.NewWithObject(wlerr.InvalidSize, id, "buffer window exceeds pool bounds")
	}
	p.refCount++
	return &Buffer{
		Base:   object.NewBase(id, "wl_buffer", 1),
		pool:   p,
		offset: offset,
		width:  w,
		height: h,
		stride: stride,
		format: format,
	}, nil
}

// Destroy marks the pool for release once every carved buffer is
// destroyed; the mapping is only actually torn down when refCount
// reaches zero.
func (p *Pool) Destroy() error {
	p.destroyRequested = true
	return p.releaseIfUnused()
}

func (p *Pool) releaseIfUnused() error {
	if !p.destroyRequested || p.refCount > 0 {
		return nil
	}
	return unix.Munmap(p.data)
}

func (p *Pool) bufferDestroyed() error {
	p.refCount--
	return p.releaseIfUnused()
}

// Buffer is a handle onto either an SHM pool window (this package's only
// producer) or a dmabuf plane set (constructed directly by the
// linux-dmabuf extension, out of this core's scope beyond discovery).
type Buffer struct {
	object.Base

	pool   *Pool
	offset int32
	width  int32
	height int32
	stride int32
	format proto.ShmFormat

	released bool
	// OnRelease is invoked when Release is called, letting a connection
	// emit the wl_buffer.release wire event without this package
	// depending on transport directly.
	OnRelease func(b *Buffer)
}

func (b *Buffer) Bytes() []byte {
	return b.pool.data[b.offset : b.offset+b.stride*b.height]
}

func (b *Buffer) Width() int32            { return b.width }
func (b *Buffer) Height() int32           { return b.height }
func (b *Buffer) Stride() int32           { return b.stride }
func (b *Buffer) Format() proto.ShmFormat { return b.format }

// Release emits the release protocol: the compositor calls this once it
// has drawn its last frame sampling b, after which the client may mutate
// b's memory again.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	if b.OnRelease != nil {
		b.OnRelease(b)
	}
}

// Destroy releases this buffer's claim on its pool's reference count.
func (b *Buffer) Destroy() error {
	return b.pool.bufferDestroyed()
}

// ShmGlobal is the wl_shm global: it advertises the server's supported
// format set at bind time and mints pools.
type ShmGlobal struct {
	object.Base
	Formats []proto.ShmFormat
}

func NewShmGlobal(id uint32, formats []proto.ShmFormat) *ShmGlobal {
	return &ShmGlobal{Base: object.NewBase(id, "wl_shm", 1), Formats: formats}
}

func (s *ShmGlobal) CreatePool(poolID uint32, fd int, size int32) (*Pool, error) {
	return NewPool(poolID, fd, size)
}
