package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// SeatInterface is the wl_seat interface name.
const SeatInterface = "wl_seat"

// wl_seat request opcodes
const (
	opSeatGetPointer  = 0
	opSeatGetKeyboard = 1
	opSeatGetTouch    = 2
	opSeatRelease     = 3
)

// wl_seat event opcodes
const (
	evSeatCapabilities = 0
	evSeatName         = 1
)

// Seat capability bits.
const (
	SeatCapabilityPointer  = 0x1
	SeatCapabilityKeyboard = 0x2
	SeatCapabilityTouch    = 0x4
)

// SeatEvent is implemented by all wl_seat event types.
type SeatEvent interface {
	isSeatEvent()
}

// SeatCapabilities carries the wl_seat.capabilities event.
type SeatCapabilities struct {
	Capabilities uint32
}

// SeatName carries the wl_seat.name event.
type SeatName struct {
	Name string
}

func (SeatCapabilities) isSeatEvent() {}
func (SeatName) isSeatEvent()         {}

// Seat is a wl_seat proxy.
type Seat struct {
	wl.BaseProxy
	version uint32
	handler func(SeatEvent)
}

// NewSeat creates an unbound wl_seat proxy for the given context.
func NewSeat(ctx *wl.Context, version uint32) *Seat {
	s := &Seat{version: version}
	s.SetContext(ctx)
	return s
}

// Version returns the version the seat was bound with.
func (s *Seat) Version() uint32 {
	return s.version
}

// SetHandler installs the event handler.
func (s *Seat) SetHandler(h func(SeatEvent)) {
	s.handler = h
}

// GetPointer creates a wl_pointer for this seat.
func (s *Seat) GetPointer() (*Pointer, error) {
	p := &Pointer{version: s.version}
	p.SetContext(s.Context())
	p.SetID(s.Context().AllocateID())
	s.Context().Register(p)

	if err := s.Context().SendRequest(s, opSeatGetPointer, p.ID()); err != nil {
		s.Context().Unregister(p)
		return nil, err
	}
	return p, nil
}

// GetKeyboard creates a wl_keyboard for this seat.
func (s *Seat) GetKeyboard() (*Keyboard, error) {
	k := &Keyboard{version: s.version}
	k.SetContext(s.Context())
	k.SetID(s.Context().AllocateID())
	s.Context().Register(k)

	if err := s.Context().SendRequest(s, opSeatGetKeyboard, k.ID()); err != nil {
		s.Context().Unregister(k)
		return nil, err
	}
	return k, nil
}

// GetTouch creates a wl_touch for this seat.
func (s *Seat) GetTouch() (*Touch, error) {
	t := &Touch{version: s.version}
	t.SetContext(s.Context())
	t.SetID(s.Context().AllocateID())
	s.Context().Register(t)

	if err := s.Context().SendRequest(s, opSeatGetTouch, t.ID()); err != nil {
		s.Context().Unregister(t)
		return nil, err
	}
	return t, nil
}

// Release releases the seat. Only valid on version 5 and above.
func (s *Seat) Release() error {
	err := s.Context().SendRequest(s, opSeatRelease)
	if err == nil {
		s.Context().Unregister(s)
	}
	return err
}

// Dispatch decodes wl_seat events.
func (s *Seat) Dispatch(event *wl.Event) {
	if s.handler == nil {
		return
	}
	switch event.Opcode {
	case evSeatCapabilities:
		s.handler(SeatCapabilities{Capabilities: event.Uint32()})
	case evSeatName:
		s.handler(SeatName{Name: event.String()})
	}
}
