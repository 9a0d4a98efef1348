package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// wl_pointer request opcodes
const (
	opPointerSetCursor = 0
	opPointerRelease   = 1
)

// wl_pointer event opcodes
const (
	evPointerEnter        = 0
	evPointerLeave        = 1
	evPointerMotion       = 2
	evPointerButton       = 3
	evPointerAxis         = 4
	evPointerFrame        = 5
	evPointerAxisSource   = 6
	evPointerAxisStop     = 7
	evPointerAxisDiscrete = 8
)

// Pointer button states.
const (
	ButtonStateReleased = 0
	ButtonStatePressed  = 1
)

// Scroll axes.
const (
	AxisVerticalScroll   = 0
	AxisHorizontalScroll = 1
)

// Scroll axis sources.
const (
	AxisSourceWheel      = 0
	AxisSourceFinger     = 1
	AxisSourceContinuous = 2
	AxisSourceWheelTilt  = 3
)

// PointerEvent is implemented by all wl_pointer event types.
type PointerEvent interface {
	isPointerEvent()
}

// PointerEnter carries the wl_pointer.enter event. Surface is the
// object id of the entered wl_surface.
type PointerEnter struct {
	Serial  uint32
	Surface uint32
	X, Y    float64
}

// PointerLeave carries the wl_pointer.leave event.
type PointerLeave struct {
	Serial  uint32
	Surface uint32
}

// PointerMotion carries the wl_pointer.motion event.
type PointerMotion struct {
	Time uint32
	X, Y float64
}

// PointerButton carries the wl_pointer.button event.
type PointerButton struct {
	Serial uint32
	Time   uint32
	Button uint32
	State  uint32
}

// PointerAxis carries the wl_pointer.axis event.
type PointerAxis struct {
	Time  uint32
	Axis  uint32
	Value float64
}

// PointerFrame carries the wl_pointer.frame event (version 5).
type PointerFrame struct{}

// PointerAxisSource carries the wl_pointer.axis_source event (version 5).
type PointerAxisSource struct {
	Source uint32
}

// PointerAxisStop carries the wl_pointer.axis_stop event (version 5).
type PointerAxisStop struct {
	Time uint32
	Axis uint32
}

// PointerAxisDiscrete carries the wl_pointer.axis_discrete event
// (version 5).
type PointerAxisDiscrete struct {
	Axis     uint32
	Discrete int32
}

func (PointerEnter) isPointerEvent()        {}
func (PointerLeave) isPointerEvent()        {}
func (PointerMotion) isPointerEvent()       {}
func (PointerButton) isPointerEvent()       {}
func (PointerAxis) isPointerEvent()         {}
func (PointerFrame) isPointerEvent()        {}
func (PointerAxisSource) isPointerEvent()   {}
func (PointerAxisStop) isPointerEvent()     {}
func (PointerAxisDiscrete) isPointerEvent() {}

// Pointer is a wl_pointer proxy.
type Pointer struct {
	wl.BaseProxy
	version uint32
	handler func(PointerEvent)
}

// Version returns the version of the parent seat.
func (p *Pointer) Version() uint32 {
	return p.version
}

// SetHandler installs the event handler.
func (p *Pointer) SetHandler(h func(PointerEvent)) {
	p.handler = h
}

// SetCursor attaches surface as the cursor image from the next enter.
// A nil surface hides the cursor.
func (p *Pointer) SetCursor(serial uint32, surface *Surface, hotspotX, hotspotY int32) error {
	var surfaceArg interface{}
	if surface != nil {
		surfaceArg = surface
	}
	return p.Context().SendRequest(p, opPointerSetCursor, serial, surfaceArg, hotspotX, hotspotY)
}

// Release releases the pointer. Only valid on version 3 and above.
func (p *Pointer) Release() error {
	err := p.Context().SendRequest(p, opPointerRelease)
	if err == nil {
		p.Context().Unregister(p)
	}
	return err
}

// Dispatch decodes wl_pointer events.
func (p *Pointer) Dispatch(event *wl.Event) {
	if p.handler == nil {
		return
	}
	switch event.Opcode {
	case evPointerEnter:
		p.handler(PointerEnter{
			Serial:  event.Uint32(),
			Surface: event.Uint32(),
			X:       event.Fixed().Float64(),
			Y:       event.Fixed().Float64(),
		})
	case evPointerLeave:
		p.handler(PointerLeave{
			Serial:  event.Uint32(),
			Surface: event.Uint32(),
		})
	case evPointerMotion:
		p.handler(PointerMotion{
			Time: event.Uint32(),
			X:    event.Fixed().Float64(),
			Y:    event.Fixed().Float64(),
		})
	case evPointerButton:
		p.handler(PointerButton{
			Serial: event.Uint32(),
			Time:   event.Uint32(),
			Button: event.Uint32(),
			State:  event.Uint32(),
		})
	case evPointerAxis:
		p.handler(PointerAxis{
			Time:  event.Uint32(),
			Axis:  event.Uint32(),
			Value: event.Fixed().Float64(),
		})
	case evPointerFrame:
		p.handler(PointerFrame{})
	case evPointerAxisSource:
		p.handler(PointerAxisSource{Source: event.Uint32()})
	case evPointerAxisStop:
		p.handler(PointerAxisStop{
			Time: event.Uint32(),
			Axis: event.Uint32(),
		})
	case evPointerAxisDiscrete:
		p.handler(PointerAxisDiscrete{
			Axis:     event.Uint32(),
			Discrete: event.Int32(),
		})
	}
}
