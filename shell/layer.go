package shell

import (
	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/internal/logger"
	"github.com/wlkit/wlkit/protocols"
	"github.com/wlkit/wlkit/seat"
	"github.com/wlkit/wlkit/surface"
)

// Layout describes where a layer surface sits and how much space it
// claims.
type Layout struct {
	Namespace     string
	Layer         uint32
	Anchor        uint32
	Width         uint32
	Height        uint32
	ExclusiveZone int32
	// Margins from the anchored edges: top, right, bottom, left.
	MarginTop    int32
	MarginRight  int32
	MarginBottom int32
	MarginLeft   int32
	Keyboard     uint32
}

// BarBottom is the layout of a bottom status bar of the given height,
// spanning the full output width and reserving its space.
func BarBottom(height uint32) Layout {
	return Layout{
		Namespace:     "bar",
		Layer:         protocols.LayerTop,
		Anchor:        protocols.AnchorBottom | protocols.AnchorLeft | protocols.AnchorRight,
		Height:        height,
		ExclusiveZone: int32(height),
	}
}

// BarTop is BarBottom anchored to the top edge.
func BarTop(height uint32) Layout {
	l := BarBottom(height)
	l.Anchor = protocols.AnchorTop | protocols.AnchorLeft | protocols.AnchorRight
	return l
}

// Overlay covers the whole output on the overlay layer without
// reserving space.
func Overlay() Layout {
	return Layout{
		Namespace: "overlay",
		Layer:     protocols.LayerOverlay,
		Anchor:    protocols.AnchorTop | protocols.AnchorBottom | protocols.AnchorLeft | protocols.AnchorRight,
	}
}

// Layer creates layer surfaces on a zwlr_layer_shell_v1.
type Layer struct {
	shell    *protocols.LayerShell
	surfaces *surface.Manager
}

// NewLayer wraps a bound layer shell.
func NewLayer(shell *protocols.LayerShell, surfaces *surface.Manager) *Layer {
	return &Layer{shell: shell, surfaces: surfaces}
}

// LayerWindow is a surface with the layer surface role.
type LayerWindow struct {
	s       *surface.Surface
	sdrain  eventqueue.Drain[surface.Event]
	role    *protocols.LayerSurface
	src     eventqueue.Source[Event]
	drain   eventqueue.Drain[Event]
	manager *surface.Manager
}

// CreateSurface creates a layer surface per layout. A nil output lets
// the compositor choose. The caller commits to start the configure
// sequence.
func (l *Layer) CreateSurface(output *protocols.Output, layout Layout) (*LayerWindow, error) {
	s, sdrain, err := l.surfaces.CreateSurface()
	if err != nil {
		return nil, err
	}
	role, err := l.shell.GetLayerSurface(s.Proxy(), output, layout.Layer, layout.Namespace)
	if err != nil {
		return nil, err
	}

	src, drain := eventqueue.New[Event]()
	w := &LayerWindow{s: s, sdrain: sdrain, role: role, src: src, drain: drain, manager: l.surfaces}

	role.SetConfigureHandler(func(c protocols.LayerSurfaceConfigure) {
		if err := role.AckConfigure(c.Serial); err != nil {
			logger.Warn("layer ack_configure failed", "err", err)
			return
		}
		src.Push(LayerConfigure{Width: c.Width, Height: c.Height})
	})
	role.SetClosedHandler(func() {
		src.Push(Closed{})
	})

	if err := role.SetSize(layout.Width, layout.Height); err != nil {
		return nil, err
	}
	if err := role.SetAnchor(layout.Anchor); err != nil {
		return nil, err
	}
	if err := role.SetExclusiveZone(layout.ExclusiveZone); err != nil {
		return nil, err
	}
	if layout.MarginTop != 0 || layout.MarginRight != 0 || layout.MarginBottom != 0 || layout.MarginLeft != 0 {
		if err := role.SetMargin(layout.MarginTop, layout.MarginRight, layout.MarginBottom, layout.MarginLeft); err != nil {
			return nil, err
		}
	}
	if layout.Keyboard != protocols.KeyboardInteractivityNone {
		if err := role.SetKeyboardInteractivity(layout.Keyboard); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Surface returns the managed surface under the layer window.
func (w *LayerWindow) Surface() *surface.Surface {
	return w.s
}

// Role returns the layer surface for later layout changes.
func (w *LayerWindow) Role() *protocols.LayerSurface {
	return w.role
}

// PollEvents drains role events, per-surface events and routed seat
// input.
func (w *LayerWindow) PollEvents(cb func(Event)) {
	w.drain.Poll(cb)
	w.sdrain.Poll(func(ev surface.Event) {
		cb(SurfaceEvent{Event: ev})
	})
	w.s.Inputs().Poll(func(ev seat.InputEvent) {
		cb(Input{Event: ev})
	})
}

// Close destroys the role object and the surface.
func (w *LayerWindow) Close() error {
	if err := w.role.Destroy(); err != nil {
		return err
	}
	return w.manager.Destroy(w.s)
}
