package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// wl_keyboard request opcodes
const (
	opKeyboardRelease = 0
)

// wl_keyboard event opcodes
const (
	evKeyboardKeymap     = 0
	evKeyboardEnter      = 1
	evKeyboardLeave      = 2
	evKeyboardKey        = 3
	evKeyboardModifiers  = 4
	evKeyboardRepeatInfo = 5
)

// Keymap formats.
const (
	KeymapFormatNoKeymap = 0
	KeymapFormatXkbV1    = 1
)

// Key states.
const (
	KeyStateReleased = 0
	KeyStatePressed  = 1
)

// KeyboardEvent is implemented by all wl_keyboard event types.
type KeyboardEvent interface {
	isKeyboardEvent()
}

// KeyboardKeymap carries the wl_keyboard.keymap event. The fd is owned
// by the receiver and must be closed after use.
type KeyboardKeymap struct {
	Format uint32
	Fd     uintptr
	Size   uint32
}

// KeyboardEnter carries the wl_keyboard.enter event. Keys holds the
// raw scancodes of keys already held down, packed as little-endian
// uint32s.
type KeyboardEnter struct {
	Serial  uint32
	Surface uint32
	Keys    []byte
}

// KeyboardLeave carries the wl_keyboard.leave event.
type KeyboardLeave struct {
	Serial  uint32
	Surface uint32
}

// KeyboardKey carries the wl_keyboard.key event.
type KeyboardKey struct {
	Serial uint32
	Time   uint32
	Key    uint32
	State  uint32
}

// KeyboardModifiers carries the wl_keyboard.modifiers event.
type KeyboardModifiers struct {
	Serial        uint32
	ModsDepressed uint32
	ModsLatched   uint32
	ModsLocked    uint32
	Group         uint32
}

// KeyboardRepeatInfo carries the wl_keyboard.repeat_info event
// (version 4). Rate is in characters per second, Delay in
// milliseconds; a zero rate disables repeat.
type KeyboardRepeatInfo struct {
	Rate  int32
	Delay int32
}

func (KeyboardKeymap) isKeyboardEvent()     {}
func (KeyboardEnter) isKeyboardEvent()      {}
func (KeyboardLeave) isKeyboardEvent()      {}
func (KeyboardKey) isKeyboardEvent()        {}
func (KeyboardModifiers) isKeyboardEvent()  {}
func (KeyboardRepeatInfo) isKeyboardEvent() {}

// Keyboard is a wl_keyboard proxy.
type Keyboard struct {
	wl.BaseProxy
	version uint32
	handler func(KeyboardEvent)
}

// Version returns the version of the parent seat.
func (k *Keyboard) Version() uint32 {
	return k.version
}

// SetHandler installs the event handler.
func (k *Keyboard) SetHandler(h func(KeyboardEvent)) {
	k.handler = h
}

// Release releases the keyboard. Only valid on version 3 and above.
func (k *Keyboard) Release() error {
	err := k.Context().SendRequest(k, opKeyboardRelease)
	if err == nil {
		k.Context().Unregister(k)
	}
	return err
}

// Dispatch decodes wl_keyboard events.
func (k *Keyboard) Dispatch(event *wl.Event) {
	if k.handler == nil {
		return
	}
	switch event.Opcode {
	case evKeyboardKeymap:
		k.handler(KeyboardKeymap{
			Format: event.Uint32(),
			Fd:     event.Fd(),
			Size:   event.Uint32(),
		})
	case evKeyboardEnter:
		k.handler(KeyboardEnter{
			Serial:  event.Uint32(),
			Surface: event.Uint32(),
			Keys:    event.Array(),
		})
	case evKeyboardLeave:
		k.handler(KeyboardLeave{
			Serial:  event.Uint32(),
			Surface: event.Uint32(),
		})
	case evKeyboardKey:
		k.handler(KeyboardKey{
			Serial: event.Uint32(),
			Time:   event.Uint32(),
			Key:    event.Uint32(),
			State:  event.Uint32(),
		})
	case evKeyboardModifiers:
		k.handler(KeyboardModifiers{
			Serial:        event.Uint32(),
			ModsDepressed: event.Uint32(),
			ModsLatched:   event.Uint32(),
			ModsLocked:    event.Uint32(),
			Group:         event.Uint32(),
		})
	case evKeyboardRepeatInfo:
		k.handler(KeyboardRepeatInfo{
			Rate:  event.Int32(),
			Delay: event.Int32(),
		})
	}
}
