package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// wl_touch request opcodes
const (
	opTouchRelease = 0
)

// wl_touch event opcodes
const (
	evTouchDown   = 0
	evTouchUp     = 1
	evTouchMotion = 2
	evTouchFrame  = 3
	evTouchCancel = 4
)

// TouchEvent is implemented by all wl_touch event types.
type TouchEvent interface {
	isTouchEvent()
}

// TouchDown carries the wl_touch.down event.
type TouchDown struct {
	Serial  uint32
	Time    uint32
	Surface uint32
	TouchID int32
	X, Y    float64
}

// TouchUp carries the wl_touch.up event.
type TouchUp struct {
	Serial  uint32
	Time    uint32
	TouchID int32
}

// TouchMotion carries the wl_touch.motion event.
type TouchMotion struct {
	Time    uint32
	TouchID int32
	X, Y    float64
}

// TouchFrame carries the wl_touch.frame event.
type TouchFrame struct{}

// TouchCancel carries the wl_touch.cancel event.
type TouchCancel struct{}

func (TouchDown) isTouchEvent()   {}
func (TouchUp) isTouchEvent()     {}
func (TouchMotion) isTouchEvent() {}
func (TouchFrame) isTouchEvent()  {}
func (TouchCancel) isTouchEvent() {}

// Touch is a wl_touch proxy.
type Touch struct {
	wl.BaseProxy
	version uint32
	handler func(TouchEvent)
}

// Version returns the version of the parent seat.
func (t *Touch) Version() uint32 {
	return t.version
}

// SetHandler installs the event handler.
func (t *Touch) SetHandler(h func(TouchEvent)) {
	t.handler = h
}

// Release releases the touch device. Only valid on version 3 and above.
func (t *Touch) Release() error {
	err := t.Context().SendRequest(t, opTouchRelease)
	if err == nil {
		t.Context().Unregister(t)
	}
	return err
}

// Dispatch decodes wl_touch events.
func (t *Touch) Dispatch(event *wl.Event) {
	if t.handler == nil {
		return
	}
	switch event.Opcode {
	case evTouchDown:
		t.handler(TouchDown{
			Serial:  event.Uint32(),
			Time:    event.Uint32(),
			Surface: event.Uint32(),
			TouchID: event.Int32(),
			X:       event.Fixed().Float64(),
			Y:       event.Fixed().Float64(),
		})
	case evTouchUp:
		t.handler(TouchUp{
			Serial:  event.Uint32(),
			Time:    event.Uint32(),
			TouchID: event.Int32(),
		})
	case evTouchMotion:
		t.handler(TouchMotion{
			Time:    event.Uint32(),
			TouchID: event.Int32(),
			X:       event.Fixed().Float64(),
			Y:       event.Fixed().Float64(),
		})
	case evTouchFrame:
		t.handler(TouchFrame{})
	case evTouchCancel:
		t.handler(TouchCancel{})
	}
}
