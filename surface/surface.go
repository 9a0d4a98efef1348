// Package surface manages wl_surface objects and derives a per-surface
// scale factor from the outputs the surface currently overlaps.
package surface

import (
	"sync"

	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/protocols"
	"github.com/wlkit/wlkit/seat"
)

// OutputLookup resolves output proxy ids, as carried by wl_surface
// enter and leave events, to output state.
type OutputLookup interface {
	ScaleByProxyID(proxyID uint32) (int32, bool)
	IDByProxyID(proxyID uint32) (uint32, bool)
}

// Event is implemented by all per-surface events.
type Event interface {
	isEvent()
}

// Enter reports the surface starting to overlap an output. OutputID is
// the output's registry global name.
type Enter struct {
	OutputID uint32
}

// Leave reports the surface no longer overlapping an output.
type Leave struct {
	OutputID uint32
}

// Scale reports a change of the surface's derived scale factor. It is
// only delivered when the factor actually changes.
type Scale struct {
	Factor int32
}

func (Enter) isEvent() {}
func (Leave) isEvent() {}
func (Scale) isEvent() {}

// Surface wraps a wl_surface and tracks which outputs it overlaps. The
// derived scale is the maximum committed scale of those outputs, never
// below one.
type Surface struct {
	mu      sync.Mutex
	proxy   *protocols.Surface
	lookup  OutputLookup
	entered map[uint32]struct{}
	scale   int32
	src     eventqueue.Source[Event]

	inputSrc   eventqueue.Source[seat.InputEvent]
	inputDrain eventqueue.Drain[seat.InputEvent]
}

func newSurface(proxy *protocols.Surface, lookup OutputLookup, src eventqueue.Source[Event]) *Surface {
	inputSrc, inputDrain := eventqueue.New[seat.InputEvent]()
	return &Surface{
		proxy:      proxy,
		lookup:     lookup,
		entered:    make(map[uint32]struct{}),
		scale:      1,
		src:        src,
		inputSrc:   inputSrc,
		inputDrain: inputDrain,
	}
}

// Proxy returns the underlying wl_surface.
func (s *Surface) Proxy() *protocols.Surface {
	return s.proxy
}

// Inputs returns the drain of the surface's input queue. Seat input
// lands here while the surface holds the matching focus.
func (s *Surface) Inputs() eventqueue.Drain[seat.InputEvent] {
	return s.inputDrain
}

// Scale returns the current derived scale factor.
func (s *Surface) Scale() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

func (s *Surface) handleEnter(outputProxyID uint32) {
	s.mu.Lock()
	s.entered[outputProxyID] = struct{}{}
	events := s.recomputeLocked(outputProxyID, true)
	s.mu.Unlock()
	for _, ev := range events {
		s.src.Push(ev)
	}
}

func (s *Surface) handleLeave(outputProxyID uint32) {
	s.mu.Lock()
	delete(s.entered, outputProxyID)
	events := s.recomputeLocked(outputProxyID, false)
	s.mu.Unlock()
	for _, ev := range events {
		s.src.Push(ev)
	}
}

// refresh recomputes the scale after output state changed elsewhere,
// emitting Scale only when the factor moved. Outputs that vanished
// without a leave event are dropped from the entered set here.
func (s *Surface) refresh() {
	s.mu.Lock()
	for proxyID := range s.entered {
		if _, ok := s.lookup.IDByProxyID(proxyID); !ok {
			delete(s.entered, proxyID)
		}
	}
	events := s.recomputeLocked(0, false)
	// recomputeLocked with proxy id zero never resolves an output, so
	// only the Scale event can come out of a refresh.
	s.mu.Unlock()
	for _, ev := range events {
		s.src.Push(ev)
	}
}

func (s *Surface) recomputeLocked(changedProxyID uint32, entered bool) []Event {
	var events []Event
	if changedProxyID != 0 {
		if id, ok := s.lookup.IDByProxyID(changedProxyID); ok {
			if entered {
				events = append(events, Enter{OutputID: id})
			} else {
				events = append(events, Leave{OutputID: id})
			}
		}
	}
	scale := int32(1)
	for proxyID := range s.entered {
		if factor, ok := s.lookup.ScaleByProxyID(proxyID); ok && factor > scale {
			scale = factor
		}
	}
	if scale != s.scale {
		s.scale = scale
		events = append(events, Scale{Factor: scale})
	}
	return events
}

// Manager creates managed surfaces and fans output state changes out to
// them.
type Manager struct {
	mu         sync.Mutex
	compositor *protocols.Compositor
	lookup     OutputLookup
	surfaces   []*Surface
}

// NewManager returns a manager creating surfaces on the given
// compositor.
func NewManager(compositor *protocols.Compositor, lookup OutputLookup) *Manager {
	return &Manager{compositor: compositor, lookup: lookup}
}

// CreateSurface creates a wl_surface and returns it with the drain of
// its event queue.
func (m *Manager) CreateSurface() (*Surface, eventqueue.Drain[Event], error) {
	proxy, err := m.compositor.CreateSurface()
	if err != nil {
		return nil, eventqueue.Drain[Event]{}, err
	}
	src, drain := eventqueue.New[Event]()
	s := newSurface(proxy, m.lookup, src)
	proxy.SetHandler(func(ev protocols.SurfaceEvent) {
		switch ev := ev.(type) {
		case protocols.SurfaceEnter:
			s.handleEnter(ev.Output)
		case protocols.SurfaceLeave:
			s.handleLeave(ev.Output)
		}
	})
	m.mu.Lock()
	m.surfaces = append(m.surfaces, s)
	m.mu.Unlock()
	return s, drain, nil
}

// Destroy destroys a managed surface. Destroying a surface twice is a
// no-op the second time.
func (m *Manager) Destroy(s *Surface) error {
	m.mu.Lock()
	found := false
	kept := m.surfaces[:0]
	for _, existing := range m.surfaces {
		if existing == s {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	m.surfaces = kept
	m.mu.Unlock()
	if !found {
		return nil
	}
	return s.proxy.Destroy()
}

// InputSourceByProxyID resolves a wl_surface proxy id to the surface's
// input queue. It is the input router seat managers route focus with.
func (m *Manager) InputSourceByProxyID(proxyID uint32) (eventqueue.Source[seat.InputEvent], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.surfaces {
		if s.proxy.ID() == proxyID {
			return s.inputSrc, true
		}
	}
	return eventqueue.Source[seat.InputEvent]{}, false
}

// RefreshScales recomputes every surface's scale. Call it after output
// scales changed or outputs disappeared.
func (m *Manager) RefreshScales() {
	m.mu.Lock()
	surfaces := append([]*Surface(nil), m.surfaces...)
	m.mu.Unlock()
	for _, s := range surfaces {
		s.refresh()
	}
}
