package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// Interface names for the core surface globals.
const (
	CompositorInterface    = "wl_compositor"
	SubcompositorInterface = "wl_subcompositor"
)

// wl_compositor request opcodes
const (
	opCompositorCreateSurface = 0
	opCompositorCreateRegion  = 1
)

// wl_surface request opcodes
const (
	opSurfaceDestroy            = 0
	opSurfaceAttach             = 1
	opSurfaceDamage             = 2
	opSurfaceFrame              = 3
	opSurfaceSetOpaqueRegion    = 4
	opSurfaceSetInputRegion     = 5
	opSurfaceCommit             = 6
	opSurfaceSetBufferTransform = 7
	opSurfaceSetBufferScale     = 8
	opSurfaceDamageBuffer       = 9
)

// wl_surface event opcodes
const (
	evSurfaceEnter = 0
	evSurfaceLeave = 1
)

// wl_subcompositor request opcodes
const (
	opSubcompositorDestroy       = 0
	opSubcompositorGetSubsurface = 1
)

// wl_subsurface request opcodes
const (
	opSubsurfaceDestroy    = 0
	opSubsurfaceSetPosition = 1
	opSubsurfacePlaceAbove  = 2
	opSubsurfacePlaceBelow  = 3
	opSubsurfaceSetSync     = 4
	opSubsurfaceSetDesync   = 5
)

// Compositor is a wl_compositor proxy.
type Compositor struct {
	wl.BaseProxy
	version uint32
}

// NewCompositor prepares a compositor proxy for binding.
func NewCompositor(ctx *wl.Context, version uint32) *Compositor {
	c := &Compositor{version: version}
	c.SetContext(ctx)
	return c
}

// Version returns the bound version.
func (c *Compositor) Version() uint32 {
	return c.version
}

// CreateSurface creates a new wl_surface.
func (c *Compositor) CreateSurface() (*Surface, error) {
	ctx := c.Context()
	s := &Surface{version: c.version}
	s.SetContext(ctx)
	s.SetID(ctx.AllocateID())
	ctx.Register(s)
	if err := ctx.SendRequest(c, opCompositorCreateSurface, s.ID()); err != nil {
		ctx.Unregister(s)
		return nil, err
	}
	return s, nil
}

// SurfaceEvent is implemented by all wl_surface event types.
type SurfaceEvent interface {
	isSurfaceEvent()
}

// SurfaceEnter reports that the surface started overlapping an output.
// Output is the proxy id of the wl_output.
type SurfaceEnter struct {
	Output uint32
}

// SurfaceLeave reports that the surface stopped overlapping an output.
type SurfaceLeave struct {
	Output uint32
}

func (SurfaceEnter) isSurfaceEvent() {}
func (SurfaceLeave) isSurfaceEvent() {}

// Surface is a wl_surface proxy.
type Surface struct {
	wl.BaseProxy
	version uint32
	handler func(SurfaceEvent)
}

// Version returns the version the surface was created with.
func (s *Surface) Version() uint32 {
	return s.version
}

// SetHandler installs the event handler.
func (s *Surface) SetHandler(h func(SurfaceEvent)) {
	s.handler = h
}

// Attach sets the pending buffer. A nil buffer detaches.
func (s *Surface) Attach(buffer *Buffer, x, y int32) error {
	var bufferArg interface{}
	if buffer != nil {
		bufferArg = buffer
	}
	return s.Context().SendRequest(s, opSurfaceAttach, bufferArg, x, y)
}

// Damage marks a region in surface coordinates as needing repaint.
func (s *Surface) Damage(x, y, width, height int32) error {
	return s.Context().SendRequest(s, opSurfaceDamage, x, y, width, height)
}

// DamageBuffer marks a region in buffer coordinates as needing repaint.
// Falls back to surface-coordinate damage on compositors older than
// version 4.
func (s *Surface) DamageBuffer(x, y, width, height int32) error {
	if s.version < 4 {
		return s.Damage(x, y, width, height)
	}
	return s.Context().SendRequest(s, opSurfaceDamageBuffer, x, y, width, height)
}

// SetBufferScale sets the buffer scale factor. Requires version 3.
func (s *Surface) SetBufferScale(scale int32) error {
	if s.version < 3 {
		return nil
	}
	return s.Context().SendRequest(s, opSurfaceSetBufferScale, scale)
}

// Commit atomically applies all pending state.
func (s *Surface) Commit() error {
	return s.Context().SendRequest(s, opSurfaceCommit)
}

// Destroy destroys the surface.
func (s *Surface) Destroy() error {
	err := s.Context().SendRequest(s, opSurfaceDestroy)
	if err == nil {
		s.Context().Unregister(s)
	}
	return err
}

// Dispatch decodes wl_surface events.
func (s *Surface) Dispatch(event *wl.Event) {
	if s.handler == nil {
		return
	}
	switch event.Opcode {
	case evSurfaceEnter:
		s.handler(SurfaceEnter{Output: event.Uint32()})
	case evSurfaceLeave:
		s.handler(SurfaceLeave{Output: event.Uint32()})
	}
}

// Subcompositor is a wl_subcompositor proxy.
type Subcompositor struct {
	wl.BaseProxy
	version uint32
}

// NewSubcompositor prepares a subcompositor proxy for binding.
func NewSubcompositor(ctx *wl.Context, version uint32) *Subcompositor {
	s := &Subcompositor{version: version}
	s.SetContext(ctx)
	return s
}

// Version returns the bound version.
func (s *Subcompositor) Version() uint32 {
	return s.version
}

// GetSubsurface turns surface into a subsurface of parent.
func (s *Subcompositor) GetSubsurface(surface, parent *Surface) (*Subsurface, error) {
	ctx := s.Context()
	sub := &Subsurface{}
	sub.SetContext(ctx)
	sub.SetID(ctx.AllocateID())
	ctx.Register(sub)
	if err := ctx.SendRequest(s, opSubcompositorGetSubsurface, sub.ID(), surface.ID(), parent.ID()); err != nil {
		ctx.Unregister(sub)
		return nil, err
	}
	return sub, nil
}

// Subsurface is a wl_subsurface proxy.
type Subsurface struct {
	wl.BaseProxy
}

// SetPosition schedules a position change relative to the parent.
func (s *Subsurface) SetPosition(x, y int32) error {
	return s.Context().SendRequest(s, opSubsurfaceSetPosition, x, y)
}

// SetSync puts the subsurface into synchronized mode.
func (s *Subsurface) SetSync() error {
	return s.Context().SendRequest(s, opSubsurfaceSetSync)
}

// SetDesync puts the subsurface into desynchronized mode.
func (s *Subsurface) SetDesync() error {
	return s.Context().SendRequest(s, opSubsurfaceSetDesync)
}

// Destroy destroys the subsurface.
func (s *Subsurface) Destroy() error {
	err := s.Context().SendRequest(s, opSubsurfaceDestroy)
	if err == nil {
		s.Context().Unregister(s)
	}
	return err
}

// Dispatch is a no-op, wl_subsurface has no events.
func (s *Subsurface) Dispatch(event *wl.Event) {}
