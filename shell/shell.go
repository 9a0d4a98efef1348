// Package shell gives surfaces a role, either an xdg_toplevel window
// or a wlr layer surface, and merges role events with the per-surface
// output events into one queue.
package shell

import (
	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/internal/logger"
	"github.com/wlkit/wlkit/protocols"
	"github.com/wlkit/wlkit/seat"
	"github.com/wlkit/wlkit/surface"
)

// Event is implemented by everything a shell surface delivers.
type Event interface {
	isEvent()
}

// Configure is a committed xdg_toplevel configure. The serial is
// already acknowledged, the client just applies the new size.
type Configure struct {
	Width  int32
	Height int32
	States []uint32
}

// Closed asks the window to close.
type Closed struct{}

// LayerConfigure is an acknowledged layer surface configure.
type LayerConfigure struct {
	Width  uint32
	Height uint32
}

// SurfaceEvent wraps a per-surface event, output enter and leave plus
// scale changes.
type SurfaceEvent struct {
	Event surface.Event
}

// Input wraps seat input routed to this surface while it holds focus.
type Input struct {
	Event seat.InputEvent
}

func (Configure) isEvent()      {}
func (Closed) isEvent()         {}
func (LayerConfigure) isEvent() {}
func (SurfaceEvent) isEvent()   {}
func (Input) isEvent()          {}

// Xdg creates toplevel windows on an xdg_wm_base.
type Xdg struct {
	wm       *protocols.WmBase
	surfaces *surface.Manager
}

// NewXdg wraps a bound xdg_wm_base.
func NewXdg(wm *protocols.WmBase, surfaces *surface.Manager) *Xdg {
	return &Xdg{wm: wm, surfaces: surfaces}
}

// Window is a toplevel shell surface.
type Window struct {
	s        *surface.Surface
	sdrain   eventqueue.Drain[surface.Event]
	xdg      *protocols.XdgSurface
	toplevel *protocols.XdgToplevel
	src      eventqueue.Source[Event]
	drain    eventqueue.Drain[Event]
	manager  *surface.Manager
}

// CreateWindow creates a mapped-ready toplevel with title and app id
// set. The caller commits the surface to start the initial configure
// sequence.
func (x *Xdg) CreateWindow(title, appID string) (*Window, error) {
	s, sdrain, err := x.surfaces.CreateSurface()
	if err != nil {
		return nil, err
	}
	xdgSurface, err := x.wm.GetXdgSurface(s.Proxy())
	if err != nil {
		return nil, err
	}
	toplevel, err := xdgSurface.GetToplevel()
	if err != nil {
		return nil, err
	}

	src, drain := eventqueue.New[Event]()
	w := &Window{s: s, sdrain: sdrain, xdg: xdgSurface, toplevel: toplevel, src: src, drain: drain, manager: x.surfaces}

	var pending protocols.ToplevelConfigure
	toplevel.SetConfigureHandler(func(c protocols.ToplevelConfigure) {
		pending = c
	})
	toplevel.SetCloseHandler(func() {
		src.Push(Closed{})
	})
	xdgSurface.SetConfigureHandler(func(serial uint32) {
		if err := xdgSurface.AckConfigure(serial); err != nil {
			logger.Warn("ack_configure failed", "err", err)
			return
		}
		src.Push(Configure{Width: pending.Width, Height: pending.Height, States: pending.States})
	})

	if title != "" {
		if err := toplevel.SetTitle(title); err != nil {
			return nil, err
		}
	}
	if appID != "" {
		if err := toplevel.SetAppID(appID); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Surface returns the managed surface under the window.
func (w *Window) Surface() *surface.Surface {
	return w.s
}

// Toplevel returns the xdg_toplevel for requests like SetMaximized.
func (w *Window) Toplevel() *protocols.XdgToplevel {
	return w.toplevel
}

// PollEvents drains role events, per-surface events and routed seat
// input in arrival order within each queue, role events first.
func (w *Window) PollEvents(cb func(Event)) {
	w.drain.Poll(cb)
	w.sdrain.Poll(func(ev surface.Event) {
		cb(SurfaceEvent{Event: ev})
	})
	w.s.Inputs().Poll(func(ev seat.InputEvent) {
		cb(Input{Event: ev})
	})
}

// Close destroys the role objects and the surface.
func (w *Window) Close() error {
	if err := w.toplevel.Destroy(); err != nil {
		return err
	}
	if err := w.xdg.Destroy(); err != nil {
		return err
	}
	return w.manager.Destroy(w.s)
}
