// Package wlkit connects to a Wayland compositor and assembles the
// toolkit: output and seat tracking, surfaces with scale handling,
// cursors, clipboard and drag-and-drop, and the shell roles.
//
// Events are never delivered from the socket reader directly. Every
// subsystem pushes into its own queue and the application drains the
// queues on its own schedule.
package wlkit

import (
	"fmt"

	"github.com/bnema/wlturbo/wl"

	"github.com/wlkit/wlkit/clipboard"
	"github.com/wlkit/wlkit/cursor"
	"github.com/wlkit/wlkit/datadevice"
	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/internal/logger"
	"github.com/wlkit/wlkit/keymap"
	"github.com/wlkit/wlkit/output"
	"github.com/wlkit/wlkit/protocols"
	"github.com/wlkit/wlkit/seat"
	"github.com/wlkit/wlkit/shell"
	"github.com/wlkit/wlkit/surface"
	"github.com/wlkit/wlkit/toplevel"
)

// Options configure Connect. The zero value works on any compositor.
type Options struct {
	// Socket overrides WAYLAND_DISPLAY.
	Socket string
	// KeymapEngine compiles compositor keymaps. Without one, keyboards
	// run on the built-in US layout.
	KeymapEngine keymap.Engine
	// Composer folds keysyms into dead-key sequences. Without one, keys
	// pass through uncomposed.
	Composer keymap.Composer
	// CursorTheme overrides XCURSOR_THEME.
	CursorTheme string
	// CursorLoader overrides the filesystem theme loader.
	CursorLoader cursor.Loader
}

// Environment is a live connection with all managers wired up.
type Environment struct {
	display  *wl.Display
	registry *wl.Registry

	outputs     *output.Manager
	outputDrain eventqueue.Drain[output.Event]
	scaleDrain  eventqueue.Drain[output.Event]
	seats       *seat.Manager
	seatDrain   eventqueue.Drain[seat.Event]
	surfaces    *surface.Manager
	cursors     *cursor.Manager

	compositor    *protocols.Compositor
	subcompositor *protocols.Subcompositor
	shm           *protocols.Shm
	ddm           *datadevice.Manager

	xdg     *shell.Xdg
	layer   *shell.Layer
	foreign *toplevel.Tracker
}

// Connect dials the compositor and binds everything the toolkit needs.
// It fails with ErrMissingGlobal when the compositor lacks one of the
// core globals.
func Connect(o Options) (*Environment, error) {
	display, err := wl.Connect(o.Socket)
	if err != nil {
		return nil, err
	}

	env := &Environment{display: display, registry: display.GetRegistry()}
	ctx := display.Context()
	env.outputs, env.outputDrain = output.NewManager(ctx)
	scaleSrc, scaleDrain := eventqueue.New[output.Event]()
	env.outputs.Subscribe(scaleSrc)
	env.scaleDrain = scaleDrain
	env.seats, env.seatDrain = seat.NewManager(ctx, o.KeymapEngine)
	if o.Composer != nil {
		env.seats.SetComposer(o.Composer)
	}

	env.registry.AddHandler(protocols.OutputInterface, env.outputs.HandleGlobal)
	env.registry.AddHandler(protocols.SeatInterface, env.seats.HandleGlobal)

	// First roundtrip lists the globals and binds outputs and seats,
	// the second collects the initial burst of events for everything
	// bound along the way.
	if err := display.Roundtrip(); err != nil {
		display.Close()
		return nil, err
	}
	if err := env.bindCore(); err != nil {
		display.Close()
		return nil, err
	}
	if err := display.Roundtrip(); err != nil {
		display.Close()
		return nil, err
	}

	env.surfaces = surface.NewManager(env.compositor, env.outputs)
	env.seats.SetInputRouter(env.surfaces.InputSourceByProxyID)
	env.cursors = cursor.NewManager(env.compositor, env.shm, o.cursorLoader(), o.CursorTheme, env.outputs)
	env.bindOptional()
	return env, nil
}

func (o Options) cursorLoader() cursor.Loader {
	if o.CursorLoader != nil {
		return o.CursorLoader
	}
	return cursor.FileLoader{}
}

// bindCore binds the globals the toolkit cannot run without.
func (e *Environment) bindCore() error {
	ctx := e.display.Context()

	g, ok := e.registry.FindGlobal(protocols.CompositorInterface)
	if !ok {
		return fmt.Errorf("%s: %w", protocols.CompositorInterface, ErrMissingGlobal)
	}
	compositor := protocols.NewCompositor(ctx, capVersion(g.Version, 4))
	if err := e.registry.Bind(g.Name, g.Interface, compositor.Version(), compositor); err != nil {
		return err
	}
	e.compositor = compositor

	g, ok = e.registry.FindGlobal(protocols.ShmInterface)
	if !ok {
		return fmt.Errorf("%s: %w", protocols.ShmInterface, ErrMissingGlobal)
	}
	shm := protocols.NewShm(ctx, capVersion(g.Version, 1))
	if err := e.registry.Bind(g.Name, g.Interface, shm.Version(), shm); err != nil {
		return err
	}
	e.shm = shm

	g, ok = e.registry.FindGlobal(protocols.DataDeviceManagerInterface)
	if !ok {
		return fmt.Errorf("%s: %w", protocols.DataDeviceManagerInterface, ErrMissingGlobal)
	}
	ddm := protocols.NewDataDeviceManager(ctx, capVersion(g.Version, 3))
	if err := e.registry.Bind(g.Name, g.Interface, ddm.Version(), ddm); err != nil {
		return err
	}
	e.ddm = datadevice.NewManager(ddm)

	// The subcompositor is universal in practice but nothing in the
	// toolkit hard-requires it.
	if g, ok = e.registry.FindGlobal(protocols.SubcompositorInterface); ok {
		sub := protocols.NewSubcompositor(ctx, 1)
		if err := e.registry.Bind(g.Name, g.Interface, 1, sub); err != nil {
			return err
		}
		e.subcompositor = sub
	}
	return nil
}

// bindOptional binds the shell and window management globals that a
// compositor may legitimately not offer.
func (e *Environment) bindOptional() {
	ctx := e.display.Context()

	if g, ok := e.registry.FindGlobal(protocols.WmBaseInterface); ok {
		wm := protocols.NewWmBase(ctx, capVersion(g.Version, 3))
		if err := e.registry.Bind(g.Name, g.Interface, wm.Version(), wm); err != nil {
			logger.Warn("xdg_wm_base bind failed", "err", err)
		} else {
			e.xdg = shell.NewXdg(wm, e.surfaces)
		}
	}
	if g, ok := e.registry.FindGlobal(protocols.LayerShellInterface); ok {
		ls := protocols.NewLayerShell(ctx, capVersion(g.Version, 4))
		if err := e.registry.Bind(g.Name, g.Interface, ls.Version(), ls); err != nil {
			logger.Warn("layer shell bind failed", "err", err)
		} else {
			e.layer = shell.NewLayer(ls, e.surfaces)
		}
	}
	if g, ok := e.registry.FindGlobal(protocols.ForeignToplevelManagerInterface); ok {
		fm := protocols.NewForeignToplevelManager(ctx, capVersion(g.Version, 3))
		if err := e.registry.Bind(g.Name, g.Interface, fm.Version(), fm); err != nil {
			logger.Warn("foreign toplevel bind failed", "err", err)
		} else {
			e.foreign = toplevel.NewTracker(fm)
		}
	}
}

func capVersion(advertised, max uint32) uint32 {
	if advertised > max {
		return max
	}
	return advertised
}

// Dispatch reads and decodes pending events, then reconciles the
// managers: vanished globals are pruned and surface scales refreshed
// when outputs changed.
func (e *Environment) Dispatch() error {
	if err := e.display.Dispatch(); err != nil {
		return err
	}
	e.reconcile()
	return nil
}

// Roundtrip flushes all requests and waits until the compositor has
// processed them, dispatching everything that arrives meanwhile.
func (e *Environment) Roundtrip() error {
	if err := e.display.Roundtrip(); err != nil {
		return err
	}
	e.reconcile()
	return nil
}

func (e *Environment) reconcile() {
	globals := e.registry.GetGlobals()
	e.outputs.Prune(globals)
	e.seats.Prune(globals)

	refresh := false
	e.scaleDrain.Poll(func(ev output.Event) {
		switch ev.(type) {
		case output.ScaleChanged, output.Removed:
			refresh = true
		}
	})
	if refresh {
		e.surfaces.RefreshScales()
		e.cursors.RefreshScale()
	}
}

// Outputs returns the output manager.
func (e *Environment) Outputs() *output.Manager {
	return e.outputs
}

// OutputEvents returns the drain of output lifecycle events.
func (e *Environment) OutputEvents() eventqueue.Drain[output.Event] {
	return e.outputDrain
}

// Seats returns the seat manager.
func (e *Environment) Seats() *seat.Manager {
	return e.seats
}

// SeatEvents returns the drain of seat lifecycle events.
func (e *Environment) SeatEvents() eventqueue.Drain[seat.Event] {
	return e.seatDrain
}

// Surfaces returns the surface manager.
func (e *Environment) Surfaces() *surface.Manager {
	return e.surfaces
}

// Cursors returns the cursor manager.
func (e *Environment) Cursors() *cursor.Manager {
	return e.cursors
}

// Shm returns the bound wl_shm.
func (e *Environment) Shm() *protocols.Shm {
	return e.shm
}

// Compositor returns the bound wl_compositor.
func (e *Environment) Compositor() *protocols.Compositor {
	return e.compositor
}

// Subcompositor returns the bound wl_subcompositor, nil when the
// compositor does not offer one.
func (e *Environment) Subcompositor() *protocols.Subcompositor {
	return e.subcompositor
}

// DataDevices returns the data device manager.
func (e *Environment) DataDevices() *datadevice.Manager {
	return e.ddm
}

// Clipboard builds a clipboard for the given seat.
func (e *Environment) Clipboard(s *seat.Seat) (*clipboard.Clipboard, error) {
	device, err := e.ddm.GetDevice(s.Proxy())
	if err != nil {
		return nil, err
	}
	return clipboard.New(e.ddm, device, e.Roundtrip), nil
}

// Xdg returns the toplevel shell. The error wraps ErrMissingGlobal
// when the compositor has no xdg_wm_base.
func (e *Environment) Xdg() (*shell.Xdg, error) {
	if e.xdg == nil {
		return nil, fmt.Errorf("%s: %w", protocols.WmBaseInterface, ErrMissingGlobal)
	}
	return e.xdg, nil
}

// LayerShell returns the layer shell. The error wraps ErrMissingGlobal
// when the compositor has no zwlr_layer_shell_v1.
func (e *Environment) LayerShell() (*shell.Layer, error) {
	if e.layer == nil {
		return nil, fmt.Errorf("%s: %w", protocols.LayerShellInterface, ErrMissingGlobal)
	}
	return e.layer, nil
}

// ForeignToplevels returns the foreign window tracker. The error wraps
// ErrMissingGlobal when the protocol is not offered.
func (e *Environment) ForeignToplevels() (*toplevel.Tracker, error) {
	if e.foreign == nil {
		return nil, fmt.Errorf("%s: %w", protocols.ForeignToplevelManagerInterface, ErrMissingGlobal)
	}
	return e.foreign, nil
}

// HasXdg reports whether the compositor offers xdg_wm_base.
func (e *Environment) HasXdg() bool { return e.xdg != nil }

// HasLayerShell reports whether the compositor offers the layer shell.
func (e *Environment) HasLayerShell() bool { return e.layer != nil }

// HasForeignToplevels reports whether foreign toplevel management is
// offered.
func (e *Environment) HasForeignToplevels() bool { return e.foreign != nil }

// Close tears the connection down.
func (e *Environment) Close() error {
	return e.display.Close()
}
