// Package output tracks wl_output globals over their whole lifetime and
// republishes their state as queue events.
package output

import (
	"sync"

	"github.com/bnema/wlturbo/wl"

	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/internal/logger"
	"github.com/wlkit/wlkit/protocols"
)

// maxVersion is the highest wl_output version this package understands.
const maxVersion = 4

// Mode is one advertised output mode.
type Mode struct {
	Flags   uint32
	Width   int32
	Height  int32
	Refresh int32
}

// Info is a snapshot of an output's committed state. ID is the registry
// global name, stable for the lifetime of the output and reused by the
// lifecycle events.
type Info struct {
	ID             uint32
	Version        uint32
	X, Y           int32
	PhysicalWidth  int32
	PhysicalHeight int32
	Subpixel       int32
	Make           string
	Model          string
	Transform      int32
	Modes          []Mode
	Scale          int32
	Name           string
	Description    string
}

// Event is implemented by all output lifecycle events.
type Event interface {
	isEvent()
}

// Added announces a new output. Its state arrives with the first Done.
type Added struct {
	ID      uint32
	Version uint32
}

// Done reports that an atomic batch of state changes was committed.
type Done struct {
	ID uint32
}

// ScaleChanged reports a committed scale factor change.
type ScaleChanged struct {
	ID    uint32
	Scale int32
}

// Removed announces that an output disappeared.
type Removed struct {
	ID uint32
}

func (Added) isEvent()        {}
func (Done) isEvent()         {}
func (ScaleChanged) isEvent() {}
func (Removed) isEvent()      {}

type entry struct {
	id      uint32
	proxy   *protocols.Output
	release func()
	info    Info
	pending Info
}

// Manager binds wl_output globals as they appear and keeps their state.
// All methods are safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	ctx     *wl.Context
	entries []*entry
	sinks   []eventqueue.Source[Event]
}

// NewManager returns a manager and the drain of its lifecycle queue.
// ctx is the connection context new output proxies are created on.
func NewManager(ctx *wl.Context) (*Manager, eventqueue.Drain[Event]) {
	src, drain := eventqueue.New[Event]()
	m := &Manager{ctx: ctx, sinks: []eventqueue.Source[Event]{src}}
	return m, drain
}

// Subscribe adds another sink that receives every lifecycle event
// pushed from now on.
func (m *Manager) Subscribe(sink eventqueue.Source[Event]) {
	m.mu.Lock()
	m.sinks = append(m.sinks, sink)
	m.mu.Unlock()
}

// HandleGlobal binds a wl_output global. It is meant to be registered
// as the registry handler for the wl_output interface.
func (m *Manager) HandleGlobal(registry *wl.Registry, name uint32, version uint32) {
	if version > maxVersion {
		version = maxVersion
	}
	proxy := protocols.NewOutput(m.ctx, version)
	if err := registry.Bind(name, protocols.OutputInterface, version, proxy); err != nil {
		logger.Warn("output bind failed", "name", name, "err", err)
		return
	}

	e := &entry{id: name, proxy: proxy}
	e.release = func() {
		if version >= 3 {
			if err := proxy.Release(); err != nil {
				logger.Debug("output release failed", "name", name, "err", err)
			}
			return
		}
		proxy.Context().Unregister(proxy)
	}
	e.info = Info{ID: name, Version: version, Scale: 1}
	e.pending = e.info
	proxy.SetHandler(func(ev protocols.OutputEvent) {
		m.handleOutputEvent(e, ev)
	})

	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	m.push(Added{ID: name, Version: version})
}

func (m *Manager) handleOutputEvent(e *entry, ev protocols.OutputEvent) {
	m.mu.Lock()
	var out []Event
	switch ev := ev.(type) {
	case protocols.OutputGeometry:
		e.pending.X = ev.X
		e.pending.Y = ev.Y
		e.pending.PhysicalWidth = ev.PhysicalWidth
		e.pending.PhysicalHeight = ev.PhysicalHeight
		e.pending.Subpixel = ev.Subpixel
		e.pending.Make = ev.Make
		e.pending.Model = ev.Model
		e.pending.Transform = ev.Transform
	case protocols.OutputMode:
		mode := Mode{Flags: ev.Flags, Width: ev.Width, Height: ev.Height, Refresh: ev.Refresh}
		replaced := false
		for i, existing := range e.pending.Modes {
			if existing.Width == mode.Width && existing.Height == mode.Height && existing.Refresh == mode.Refresh {
				e.pending.Modes[i] = mode
				replaced = true
				break
			}
		}
		if !replaced {
			e.pending.Modes = append(e.pending.Modes, mode)
		}
	case protocols.OutputScale:
		if ev.Factor >= 1 {
			e.pending.Scale = ev.Factor
		}
	case protocols.OutputName:
		e.pending.Name = ev.Name
	case protocols.OutputDescription:
		e.pending.Description = ev.Description
	case protocols.OutputDone:
		prevScale := e.info.Scale
		e.info = e.pending
		e.info.Modes = append([]Mode(nil), e.pending.Modes...)
		out = append(out, Done{ID: e.id})
		if e.info.Scale != prevScale {
			out = append(out, ScaleChanged{ID: e.id, Scale: e.info.Scale})
		}
	}
	m.mu.Unlock()
	for _, lifecycleEvent := range out {
		m.push(lifecycleEvent)
	}
}

// Prune drops outputs whose registry global vanished. The registry
// snapshot comes from wl.Registry.GetGlobals. Removing an already
// removed output is a no-op.
func (m *Manager) Prune(globals map[uint32]wl.Global) {
	m.mu.Lock()
	var removed []*entry
	kept := m.entries[:0]
	for _, e := range m.entries {
		if _, ok := globals[e.id]; ok {
			kept = append(kept, e)
		} else {
			removed = append(removed, e)
		}
	}
	m.entries = kept
	m.mu.Unlock()

	for _, e := range removed {
		if e.release != nil {
			e.release()
		}
		m.push(Removed{ID: e.id})
	}
}

// Remove drops a single output by id. Unknown ids are ignored, so the
// call is idempotent.
func (m *Manager) Remove(id uint32) {
	m.mu.Lock()
	var target *entry
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.id == id && target == nil {
			target = e
		} else {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	m.mu.Unlock()

	if target == nil {
		return
	}
	if target.release != nil {
		target.release()
	}
	m.push(Removed{ID: id})
}

// Get returns the committed state of the output with the given id.
func (m *Manager) Get(id uint32) (Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.id == id {
			return e.info, true
		}
	}
	return Info{}, false
}

// Outputs returns the committed state of every tracked output.
func (m *Manager) Outputs() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Info, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.info)
	}
	return out
}

// ScaleByProxyID resolves an output proxy id, as carried by
// wl_surface.enter, to the output's committed scale.
func (m *Manager) ScaleByProxyID(proxyID uint32) (int32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.proxy.ID() == proxyID {
			return e.info.Scale, true
		}
	}
	return 0, false
}

// IDByProxyID resolves an output proxy id to its registry global name.
func (m *Manager) IDByProxyID(proxyID uint32) (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.proxy.ID() == proxyID {
			return e.id, true
		}
	}
	return 0, false
}

func (m *Manager) push(ev Event) {
	m.mu.Lock()
	sinks := append([]eventqueue.Source[Event](nil), m.sinks...)
	m.mu.Unlock()
	for _, s := range sinks {
		s.Push(ev)
	}
}
