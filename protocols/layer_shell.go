package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// LayerShellInterface is the zwlr_layer_shell_v1 global interface name.
const LayerShellInterface = "zwlr_layer_shell_v1"

// zwlr_layer_shell_v1 request opcodes
const (
	opLayerShellGetLayerSurface = 0
	opLayerShellDestroy         = 1
)

// zwlr_layer_surface_v1 request opcodes
const (
	opLayerSurfaceSetSize                  = 0
	opLayerSurfaceSetAnchor                = 1
	opLayerSurfaceSetExclusiveZone         = 2
	opLayerSurfaceSetMargin                = 3
	opLayerSurfaceSetKeyboardInteractivity = 4
	opLayerSurfaceGetPopup                 = 5
	opLayerSurfaceAckConfigure             = 6
	opLayerSurfaceDestroy                  = 7
	opLayerSurfaceSetLayer                 = 8
)

// zwlr_layer_surface_v1 event opcodes
const (
	evLayerSurfaceConfigure = 0
	evLayerSurfaceClosed    = 1
)

// Layers from the zwlr_layer_shell_v1.layer enum.
const (
	LayerBackground = 0
	LayerBottom     = 1
	LayerTop        = 2
	LayerOverlay    = 3
)

// Anchor bits from the zwlr_layer_surface_v1.anchor enum.
const (
	AnchorTop    = 1
	AnchorBottom = 2
	AnchorLeft   = 4
	AnchorRight  = 8
)

// Keyboard interactivity modes from
// zwlr_layer_surface_v1.keyboard_interactivity.
const (
	KeyboardInteractivityNone      = 0
	KeyboardInteractivityExclusive = 1
	KeyboardInteractivityOnDemand  = 2
)

// LayerShell is a zwlr_layer_shell_v1 proxy.
type LayerShell struct {
	wl.BaseProxy
	version uint32
}

// NewLayerShell prepares a layer shell proxy for binding.
func NewLayerShell(ctx *wl.Context, version uint32) *LayerShell {
	l := &LayerShell{version: version}
	l.SetContext(ctx)
	return l
}

// Version returns the bound version.
func (l *LayerShell) Version() uint32 {
	return l.version
}

// GetLayerSurface assigns the layer surface role. A nil output lets the
// compositor pick one.
func (l *LayerShell) GetLayerSurface(surface *Surface, output *Output, layer uint32, namespace string) (*LayerSurface, error) {
	ctx := l.Context()
	s := &LayerSurface{version: l.version}
	s.SetContext(ctx)
	s.SetID(ctx.AllocateID())
	ctx.Register(s)
	var outputArg interface{}
	if output != nil {
		outputArg = output
	}
	if err := ctx.SendRequest(l, opLayerShellGetLayerSurface, s.ID(), surface.ID(), outputArg, layer, namespace); err != nil {
		ctx.Unregister(s)
		return nil, err
	}
	return s, nil
}

// Destroy destroys the layer shell. Requires version 3, earlier
// versions only unregister locally.
func (l *LayerShell) Destroy() error {
	if l.version < 3 {
		l.Context().Unregister(l)
		return nil
	}
	err := l.Context().SendRequest(l, opLayerShellDestroy)
	if err == nil {
		l.Context().Unregister(l)
	}
	return err
}

// LayerSurfaceConfigure carries the configure event. The size is a
// suggestion the client acks and may adjust within its anchoring.
type LayerSurfaceConfigure struct {
	Serial uint32
	Width  uint32
	Height uint32
}

// LayerSurface is a zwlr_layer_surface_v1 proxy.
type LayerSurface struct {
	wl.BaseProxy
	version     uint32
	onConfigure func(LayerSurfaceConfigure)
	onClosed    func()
}

// Version returns the version inherited from the layer shell.
func (s *LayerSurface) Version() uint32 {
	return s.version
}

// SetConfigureHandler installs the handler for configure events. The
// handler must arrange for AckConfigure to be called.
func (s *LayerSurface) SetConfigureHandler(h func(LayerSurfaceConfigure)) {
	s.onConfigure = h
}

// SetClosedHandler installs the handler for the closed event. After
// closed the surface must be destroyed and not reused.
func (s *LayerSurface) SetClosedHandler(h func()) {
	s.onClosed = h
}

// SetSize sets the desired surface size. Zero in a dimension asks the
// compositor to choose based on anchors.
func (s *LayerSurface) SetSize(width, height uint32) error {
	return s.Context().SendRequest(s, opLayerSurfaceSetSize, width, height)
}

// SetAnchor anchors the surface to the given edges.
func (s *LayerSurface) SetAnchor(anchor uint32) error {
	return s.Context().SendRequest(s, opLayerSurfaceSetAnchor, anchor)
}

// SetExclusiveZone reserves space along the anchored edge.
func (s *LayerSurface) SetExclusiveZone(zone int32) error {
	return s.Context().SendRequest(s, opLayerSurfaceSetExclusiveZone, zone)
}

// SetMargin sets the margins from the anchored edges.
func (s *LayerSurface) SetMargin(top, right, bottom, left int32) error {
	return s.Context().SendRequest(s, opLayerSurfaceSetMargin, top, right, bottom, left)
}

// SetKeyboardInteractivity sets how the surface takes keyboard focus.
func (s *LayerSurface) SetKeyboardInteractivity(mode uint32) error {
	return s.Context().SendRequest(s, opLayerSurfaceSetKeyboardInteractivity, mode)
}

// SetLayer moves the surface to another layer. Requires version 2.
func (s *LayerSurface) SetLayer(layer uint32) error {
	if s.version < 2 {
		return nil
	}
	return s.Context().SendRequest(s, opLayerSurfaceSetLayer, layer)
}

// AckConfigure acknowledges a configure event.
func (s *LayerSurface) AckConfigure(serial uint32) error {
	return s.Context().SendRequest(s, opLayerSurfaceAckConfigure, serial)
}

// Destroy destroys the layer surface.
func (s *LayerSurface) Destroy() error {
	err := s.Context().SendRequest(s, opLayerSurfaceDestroy)
	if err == nil {
		s.Context().Unregister(s)
	}
	return err
}

// Dispatch decodes zwlr_layer_surface_v1 events.
func (s *LayerSurface) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case evLayerSurfaceConfigure:
		if s.onConfigure == nil {
			return
		}
		s.onConfigure(LayerSurfaceConfigure{
			Serial: event.Uint32(),
			Width:  event.Uint32(),
			Height: event.Uint32(),
		})
	case evLayerSurfaceClosed:
		if s.onClosed != nil {
			s.onClosed()
		}
	}
}
