// Package seat tracks wl_seat globals, manages their input devices and
// funnels all input through per-seat event queues. Keyboard input is
// translated through a keymap and extended with key repeat.
package seat

import (
	"sync"

	"github.com/bnema/wlturbo/wl"

	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/internal/logger"
	"github.com/wlkit/wlkit/keymap"
	"github.com/wlkit/wlkit/protocols"
)

// maxVersion is the highest wl_seat version this package understands.
const maxVersion = 7

// Event is implemented by all seat lifecycle events.
type Event interface {
	isEvent()
}

// Added announces a new seat. ID is the registry global name.
type Added struct {
	ID      uint32
	Version uint32
}

// NameChanged carries the seat's name.
type NameChanged struct {
	ID   uint32
	Name string
}

// CapabilitiesChanged reports which device classes the seat offers.
type CapabilitiesChanged struct {
	ID          uint32
	HasPointer  bool
	HasKeyboard bool
	HasTouch    bool
}

// Removed announces that a seat disappeared.
type Removed struct {
	ID uint32
}

func (Added) isEvent()               {}
func (NameChanged) isEvent()         {}
func (CapabilitiesChanged) isEvent() {}
func (Removed) isEvent()             {}

// InputEvent is implemented by everything delivered on a seat's input
// queue: the keyboard events from this package plus wrapped pointer and
// touch protocol events.
type InputEvent interface {
	isInputEvent()
}

// PointerInput wraps one wl_pointer event.
type PointerInput struct {
	Event protocols.PointerEvent
}

// TouchInput wraps one wl_touch event.
type TouchInput struct {
	Event protocols.TouchEvent
}

func (PointerInput) isInputEvent() {}
func (TouchInput) isInputEvent()  {}

// Seat is one tracked wl_seat with its devices.
type Seat struct {
	mu    sync.Mutex
	id    uint32
	proxy *protocols.Seat
	name  string
	caps  uint32

	pointer  *protocols.Pointer
	kbProxy  *protocols.Keyboard
	touch    *protocols.Touch
	keyboard *keyboard

	pointerSink *eventqueue.Source[InputEvent]
	touchSink   *eventqueue.Source[InputEvent]

	src   eventqueue.Source[InputEvent]
	drain eventqueue.Drain[InputEvent]
}

// ID returns the registry global name of the seat.
func (s *Seat) ID() uint32 {
	return s.id
}

// Name returns the seat name, empty until the compositor sends it.
func (s *Seat) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// HasPointer reports whether the seat currently offers a pointer.
func (s *Seat) HasPointer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caps&protocols.SeatCapabilityPointer != 0
}

// HasKeyboard reports whether the seat currently offers a keyboard.
func (s *Seat) HasKeyboard() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caps&protocols.SeatCapabilityKeyboard != 0
}

// HasTouch reports whether the seat currently offers touch.
func (s *Seat) HasTouch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caps&protocols.SeatCapabilityTouch != 0
}

// Pointer returns the seat's pointer proxy, nil without the capability.
func (s *Seat) Pointer() *protocols.Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer
}

// Proxy returns the underlying wl_seat.
func (s *Seat) Proxy() *protocols.Seat {
	return s.proxy
}

// Events returns the drain of the seat's input queue. Input routed to a
// focused surface's queue does not show up here.
func (s *Seat) Events() eventqueue.Drain[InputEvent] {
	return s.drain
}

// pushPointer delivers a pointer event to the focused surface's queue,
// falling back to the seat queue while no focus route exists.
func (s *Seat) pushPointer(ev InputEvent) {
	s.mu.Lock()
	sink := s.pointerSink
	s.mu.Unlock()
	if sink != nil {
		sink.Push(ev)
		return
	}
	s.src.Push(ev)
}

func (s *Seat) setPointerSink(sink *eventqueue.Source[InputEvent]) {
	s.mu.Lock()
	s.pointerSink = sink
	s.mu.Unlock()
}

func (s *Seat) pushTouch(ev InputEvent) {
	s.mu.Lock()
	sink := s.touchSink
	s.mu.Unlock()
	if sink != nil {
		sink.Push(ev)
		return
	}
	s.src.Push(ev)
}

func (s *Seat) setTouchSink(sink *eventqueue.Source[InputEvent]) {
	s.mu.Lock()
	s.touchSink = sink
	s.mu.Unlock()
}

// InputRouter resolves a wl_surface proxy id, as carried by the enter
// events of every device class, to that surface's input queue.
type InputRouter func(surfaceProxyID uint32) (eventqueue.Source[InputEvent], bool)

// Manager binds wl_seat globals as they appear, mirrors their
// capabilities into devices and republishes lifecycle changes.
type Manager struct {
	mu       sync.Mutex
	ctx      *wl.Context
	engine   keymap.Engine
	composer keymap.Composer
	router   InputRouter
	seats    []*Seat
	src      eventqueue.Source[Event]
}

// NewManager returns a manager and the drain of its lifecycle queue.
// ctx is the connection context new seat proxies are created on. engine
// may be nil, keyboards then fall back to the built-in layout.
func NewManager(ctx *wl.Context, engine keymap.Engine) (*Manager, eventqueue.Drain[Event]) {
	src, drain := eventqueue.New[Event]()
	return &Manager{ctx: ctx, engine: engine, src: src}, drain
}

// SetComposer installs the dead-key composer new keyboards feed their
// keysyms through. Without one, keys pass through uncomposed.
func (m *Manager) SetComposer(c keymap.Composer) {
	m.mu.Lock()
	m.composer = c
	m.mu.Unlock()
}

// SetInputRouter makes input follow focus: device events are queued to
// the focused surface's input queue instead of the seat queue.
func (m *Manager) SetInputRouter(r InputRouter) {
	m.mu.Lock()
	m.router = r
	m.mu.Unlock()
}

// routeFor resolves a surface proxy id through the installed router.
func (m *Manager) routeFor(surfaceProxyID uint32) (eventqueue.Source[InputEvent], bool) {
	m.mu.Lock()
	r := m.router
	m.mu.Unlock()
	if r == nil || surfaceProxyID == 0 {
		return eventqueue.Source[InputEvent]{}, false
	}
	return r(surfaceProxyID)
}

func (m *Manager) currentComposer() keymap.Composer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.composer
}

// HandleGlobal binds a wl_seat global. It is meant to be registered as
// the registry handler for the wl_seat interface.
func (m *Manager) HandleGlobal(registry *wl.Registry, name uint32, version uint32) {
	if version > maxVersion {
		version = maxVersion
	}
	proxy := protocols.NewSeat(m.ctx, version)
	if err := registry.Bind(name, protocols.SeatInterface, version, proxy); err != nil {
		logger.Warn("seat bind failed", "name", name, "err", err)
		return
	}

	src, drain := eventqueue.New[InputEvent]()
	s := &Seat{id: name, proxy: proxy, src: src, drain: drain}
	proxy.SetHandler(func(ev protocols.SeatEvent) {
		m.handleSeatEvent(s, ev)
	})

	m.mu.Lock()
	m.seats = append(m.seats, s)
	m.mu.Unlock()
	m.src.Push(Added{ID: name, Version: version})
}

func (m *Manager) handleSeatEvent(s *Seat, ev protocols.SeatEvent) {
	switch ev := ev.(type) {
	case protocols.SeatName:
		s.mu.Lock()
		s.name = ev.Name
		s.mu.Unlock()
		m.src.Push(NameChanged{ID: s.id, Name: ev.Name})
	case protocols.SeatCapabilities:
		m.updateCapabilities(s, ev.Capabilities)
	}
}

// updateCapabilities creates and destroys devices so they match the
// advertised capability set. Capabilities can come and go many times
// over a seat's life.
func (m *Manager) updateCapabilities(s *Seat, caps uint32) {
	s.mu.Lock()
	prev := s.caps
	s.caps = caps
	s.mu.Unlock()

	gained := caps &^ prev
	lost := prev &^ caps

	if gained&protocols.SeatCapabilityPointer != 0 {
		p, err := s.proxy.GetPointer()
		if err != nil {
			logger.Warn("get_pointer failed", "seat", s.id, "err", err)
		} else {
			p.SetHandler(func(ev protocols.PointerEvent) {
				switch pe := ev.(type) {
				case protocols.PointerEnter:
					if sink, ok := m.routeFor(pe.Surface); ok {
						s.setPointerSink(&sink)
					} else {
						s.setPointerSink(nil)
					}
					s.pushPointer(PointerInput{Event: ev})
				case protocols.PointerLeave:
					s.pushPointer(PointerInput{Event: ev})
					s.setPointerSink(nil)
				default:
					s.pushPointer(PointerInput{Event: ev})
				}
			})
			s.mu.Lock()
			s.pointer = p
			s.mu.Unlock()
		}
	}
	if lost&protocols.SeatCapabilityPointer != 0 {
		s.mu.Lock()
		p := s.pointer
		s.pointer = nil
		s.mu.Unlock()
		s.setPointerSink(nil)
		if p != nil {
			releasePointer(p)
		}
	}

	if gained&protocols.SeatCapabilityKeyboard != 0 {
		kb, err := s.proxy.GetKeyboard()
		if err != nil {
			logger.Warn("get_keyboard failed", "seat", s.id, "err", err)
		} else {
			state := newKeyboard(m.engine, m.currentComposer(), s.src, m.routeFor)
			kb.SetHandler(state.handle)
			s.mu.Lock()
			s.kbProxy = kb
			s.keyboard = state
			s.mu.Unlock()
		}
	}
	if lost&protocols.SeatCapabilityKeyboard != 0 {
		s.mu.Lock()
		kb := s.kbProxy
		state := s.keyboard
		s.kbProxy = nil
		s.keyboard = nil
		s.mu.Unlock()
		if state != nil {
			state.releaseState()
		}
		if kb != nil {
			releaseKeyboard(kb)
		}
	}

	if gained&protocols.SeatCapabilityTouch != 0 {
		tp, err := s.proxy.GetTouch()
		if err != nil {
			logger.Warn("get_touch failed", "seat", s.id, "err", err)
		} else {
			tp.SetHandler(func(ev protocols.TouchEvent) {
				switch te := ev.(type) {
				case protocols.TouchDown:
					if sink, ok := m.routeFor(te.Surface); ok {
						s.setTouchSink(&sink)
					} else {
						s.setTouchSink(nil)
					}
					s.pushTouch(TouchInput{Event: ev})
				case protocols.TouchCancel:
					s.pushTouch(TouchInput{Event: ev})
					s.setTouchSink(nil)
				default:
					s.pushTouch(TouchInput{Event: ev})
				}
			})
			s.mu.Lock()
			s.touch = tp
			s.mu.Unlock()
		}
	}
	if lost&protocols.SeatCapabilityTouch != 0 {
		s.mu.Lock()
		tp := s.touch
		s.touch = nil
		s.mu.Unlock()
		s.setTouchSink(nil)
		if tp != nil {
			releaseTouch(tp)
		}
	}

	m.src.Push(CapabilitiesChanged{
		ID:          s.id,
		HasPointer:  caps&protocols.SeatCapabilityPointer != 0,
		HasKeyboard: caps&protocols.SeatCapabilityKeyboard != 0,
		HasTouch:    caps&protocols.SeatCapabilityTouch != 0,
	})
}

// Device release requests exist since version 3. On older seats the
// proxies are only unregistered locally.
func releasePointer(p *protocols.Pointer) {
	if p.Version() >= 3 {
		if err := p.Release(); err != nil {
			logger.Debug("pointer release failed", "err", err)
		}
		return
	}
	p.Context().Unregister(p)
}

func releaseKeyboard(k *protocols.Keyboard) {
	if k.Version() >= 3 {
		if err := k.Release(); err != nil {
			logger.Debug("keyboard release failed", "err", err)
		}
		return
	}
	k.Context().Unregister(k)
}

func releaseTouch(t *protocols.Touch) {
	if t.Version() >= 3 {
		if err := t.Release(); err != nil {
			logger.Debug("touch release failed", "err", err)
		}
		return
	}
	t.Context().Unregister(t)
}

// Prune drops seats whose registry global vanished. Removing an already
// removed seat is a no-op.
func (m *Manager) Prune(globals map[uint32]wl.Global) {
	m.mu.Lock()
	var removed []*Seat
	kept := m.seats[:0]
	for _, s := range m.seats {
		if _, ok := globals[s.id]; ok {
			kept = append(kept, s)
		} else {
			removed = append(removed, s)
		}
	}
	m.seats = kept
	m.mu.Unlock()

	for _, s := range removed {
		m.teardown(s)
		m.src.Push(Removed{ID: s.id})
	}
}

// Remove drops a single seat by id. Unknown ids are ignored.
func (m *Manager) Remove(id uint32) {
	m.mu.Lock()
	var target *Seat
	kept := m.seats[:0]
	for _, s := range m.seats {
		if s.id == id && target == nil {
			target = s
		} else {
			kept = append(kept, s)
		}
	}
	m.seats = kept
	m.mu.Unlock()

	if target == nil {
		return
	}
	m.teardown(target)
	m.src.Push(Removed{ID: id})
}

func (m *Manager) teardown(s *Seat) {
	m.updateCapabilities(s, 0)
	if s.proxy.Version() >= 5 {
		if err := s.proxy.Release(); err != nil {
			logger.Debug("seat release failed", "id", s.id, "err", err)
		}
		return
	}
	s.proxy.Context().Unregister(s.proxy)
}

// Get returns the seat with the given id.
func (m *Manager) Get(id uint32) (*Seat, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.seats {
		if s.id == id {
			return s, true
		}
	}
	return nil, false
}

// Seats returns every tracked seat.
func (m *Manager) Seats() []*Seat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Seat(nil), m.seats...)
}
