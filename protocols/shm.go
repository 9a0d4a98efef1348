package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// ShmInterface is the wl_shm global interface name.
const ShmInterface = "wl_shm"

// wl_shm request opcodes
const (
	opShmCreatePool = 0
)

// wl_shm event opcodes
const (
	evShmFormat = 0
)

// wl_shm_pool request opcodes
const (
	opShmPoolCreateBuffer = 0
	opShmPoolDestroy      = 1
	opShmPoolResize       = 2
)

// wl_buffer request opcodes
const (
	opBufferDestroy = 0
)

// wl_buffer event opcodes
const (
	evBufferRelease = 0
)

// Pixel formats from the wl_shm.format enum. Only the two formats every
// compositor must support are named, the rest pass through as raw values.
const (
	ShmFormatARGB8888 = 0
	ShmFormatXRGB8888 = 1
)

// Shm is a wl_shm proxy.
type Shm struct {
	wl.BaseProxy
	version uint32
	handler func(format uint32)
}

// NewShm prepares a shm proxy for binding.
func NewShm(ctx *wl.Context, version uint32) *Shm {
	s := &Shm{version: version}
	s.SetContext(ctx)
	return s
}

// Version returns the bound version.
func (s *Shm) Version() uint32 {
	return s.version
}

// SetFormatHandler installs the handler for advertised pixel formats.
func (s *Shm) SetFormatHandler(h func(format uint32)) {
	s.handler = h
}

// CreatePool creates a shared memory pool backed by fd. The fd travels
// as SCM_RIGHTS ancillary data, not in the message body.
func (s *Shm) CreatePool(fd uintptr, size int32) (*ShmPool, error) {
	ctx := s.Context()
	p := &ShmPool{}
	p.SetContext(ctx)
	p.SetID(ctx.AllocateID())
	ctx.Register(p)
	if err := ctx.SendRequestWithFDs(s, opShmCreatePool, []int{int(fd)}, p.ID(), fd, size); err != nil {
		ctx.Unregister(p)
		return nil, err
	}
	return p, nil
}

// Dispatch decodes wl_shm events.
func (s *Shm) Dispatch(event *wl.Event) {
	if event.Opcode == evShmFormat && s.handler != nil {
		s.handler(event.Uint32())
	}
}

// ShmPool is a wl_shm_pool proxy.
type ShmPool struct {
	wl.BaseProxy
}

// CreateBuffer creates a buffer backed by a slice of the pool.
func (p *ShmPool) CreateBuffer(offset, width, height, stride int32, format uint32) (*Buffer, error) {
	ctx := p.Context()
	b := &Buffer{}
	b.SetContext(ctx)
	b.SetID(ctx.AllocateID())
	ctx.Register(b)
	if err := ctx.SendRequest(p, opShmPoolCreateBuffer, b.ID(), offset, width, height, stride, format); err != nil {
		ctx.Unregister(b)
		return nil, err
	}
	return b, nil
}

// Resize grows the pool. The pool can never shrink.
func (p *ShmPool) Resize(size int32) error {
	return p.Context().SendRequest(p, opShmPoolResize, size)
}

// Destroy destroys the pool. Buffers created from it stay valid.
func (p *ShmPool) Destroy() error {
	err := p.Context().SendRequest(p, opShmPoolDestroy)
	if err == nil {
		p.Context().Unregister(p)
	}
	return err
}

// Buffer is a wl_buffer proxy.
type Buffer struct {
	wl.BaseProxy
	onRelease func()
}

// SetReleaseHandler installs the handler called when the compositor is
// done reading the buffer.
func (b *Buffer) SetReleaseHandler(h func()) {
	b.onRelease = h
}

// Destroy destroys the buffer.
func (b *Buffer) Destroy() error {
	err := b.Context().SendRequest(b, opBufferDestroy)
	if err == nil {
		b.Context().Unregister(b)
	}
	return err
}

// Dispatch decodes wl_buffer events.
func (b *Buffer) Dispatch(event *wl.Event) {
	if event.Opcode == evBufferRelease && b.onRelease != nil {
		b.onRelease()
	}
}
