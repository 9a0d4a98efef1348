package protocols

import (
	"encoding/binary"

	"github.com/bnema/wlturbo/wl"
)

// WmBaseInterface is the xdg_wm_base global interface name.
const WmBaseInterface = "xdg_wm_base"

// xdg_wm_base request opcodes
const (
	opWmBaseDestroy          = 0
	opWmBaseCreatePositioner = 1
	opWmBaseGetXdgSurface    = 2
	opWmBasePong             = 3
)

// xdg_wm_base event opcodes
const (
	evWmBasePing = 0
)

// xdg_surface request opcodes
const (
	opXdgSurfaceDestroy           = 0
	opXdgSurfaceGetToplevel       = 1
	opXdgSurfaceGetPopup          = 2
	opXdgSurfaceSetWindowGeometry = 3
	opXdgSurfaceAckConfigure      = 4
)

// xdg_surface event opcodes
const (
	evXdgSurfaceConfigure = 0
)

// xdg_toplevel request opcodes
const (
	opToplevelDestroy         = 0
	opToplevelSetParent       = 1
	opToplevelSetTitle        = 2
	opToplevelSetAppID        = 3
	opToplevelShowWindowMenu  = 4
	opToplevelMove            = 5
	opToplevelResize          = 6
	opToplevelSetMaxSize      = 7
	opToplevelSetMinSize      = 8
	opToplevelSetMaximized    = 9
	opToplevelUnsetMaximized  = 10
	opToplevelSetFullscreen   = 11
	opToplevelUnsetFullscreen = 12
	opToplevelSetMinimized    = 13
)

// xdg_toplevel event opcodes
const (
	evToplevelConfigure = 0
	evToplevelClose     = 1
)

// States from the xdg_toplevel.state enum.
const (
	ToplevelStateMaximized  = 1
	ToplevelStateFullscreen = 2
	ToplevelStateResizing   = 3
	ToplevelStateActivated  = 4
)

// WmBase is an xdg_wm_base proxy. Ping events are answered with pong
// automatically during dispatch.
type WmBase struct {
	wl.BaseProxy
	version uint32
}

// NewWmBase prepares a wm base proxy for binding.
func NewWmBase(ctx *wl.Context, version uint32) *WmBase {
	w := &WmBase{version: version}
	w.SetContext(ctx)
	return w
}

// Version returns the bound version.
func (w *WmBase) Version() uint32 {
	return w.version
}

// GetXdgSurface creates an xdg_surface role object for the given
// surface.
func (w *WmBase) GetXdgSurface(surface *Surface) (*XdgSurface, error) {
	ctx := w.Context()
	x := &XdgSurface{version: w.version}
	x.SetContext(ctx)
	x.SetID(ctx.AllocateID())
	ctx.Register(x)
	if err := ctx.SendRequest(w, opWmBaseGetXdgSurface, x.ID(), surface.ID()); err != nil {
		ctx.Unregister(x)
		return nil, err
	}
	return x, nil
}

// Destroy destroys the wm base.
func (w *WmBase) Destroy() error {
	err := w.Context().SendRequest(w, opWmBaseDestroy)
	if err == nil {
		w.Context().Unregister(w)
	}
	return err
}

// Dispatch decodes xdg_wm_base events.
func (w *WmBase) Dispatch(event *wl.Event) {
	if event.Opcode == evWmBasePing {
		serial := event.Uint32()
		if err := w.Context().SendRequest(w, opWmBasePong, serial); err != nil {
			// Unanswered pings get the client disconnected, nothing
			// more to do here than report it.
			return
		}
	}
}

// XdgSurface is an xdg_surface proxy.
type XdgSurface struct {
	wl.BaseProxy
	version   uint32
	configure func(serial uint32)
}

// Version returns the version inherited from the wm base.
func (x *XdgSurface) Version() uint32 {
	return x.version
}

// SetConfigureHandler installs the handler for configure events. The
// handler must arrange for AckConfigure to be called.
func (x *XdgSurface) SetConfigureHandler(h func(serial uint32)) {
	x.configure = h
}

// GetToplevel assigns the toplevel role.
func (x *XdgSurface) GetToplevel() (*XdgToplevel, error) {
	ctx := x.Context()
	t := &XdgToplevel{version: x.version}
	t.SetContext(ctx)
	t.SetID(ctx.AllocateID())
	ctx.Register(t)
	if err := ctx.SendRequest(x, opXdgSurfaceGetToplevel, t.ID()); err != nil {
		ctx.Unregister(t)
		return nil, err
	}
	return t, nil
}

// SetWindowGeometry sets the visible bounds of the window.
func (x *XdgSurface) SetWindowGeometry(xPos, y, width, height int32) error {
	return x.Context().SendRequest(x, opXdgSurfaceSetWindowGeometry, xPos, y, width, height)
}

// AckConfigure acknowledges a configure event.
func (x *XdgSurface) AckConfigure(serial uint32) error {
	return x.Context().SendRequest(x, opXdgSurfaceAckConfigure, serial)
}

// Destroy destroys the xdg surface.
func (x *XdgSurface) Destroy() error {
	err := x.Context().SendRequest(x, opXdgSurfaceDestroy)
	if err == nil {
		x.Context().Unregister(x)
	}
	return err
}

// Dispatch decodes xdg_surface events.
func (x *XdgSurface) Dispatch(event *wl.Event) {
	if event.Opcode == evXdgSurfaceConfigure && x.configure != nil {
		x.configure(event.Uint32())
	}
}

// ToplevelConfigure carries the xdg_toplevel.configure event. Width
// and height of zero leave the size up to the client.
type ToplevelConfigure struct {
	Width  int32
	Height int32
	States []uint32
}

// XdgToplevel is an xdg_toplevel proxy.
type XdgToplevel struct {
	wl.BaseProxy
	version     uint32
	onConfigure func(ToplevelConfigure)
	onClose     func()
}

// Version returns the version inherited from the wm base.
func (t *XdgToplevel) Version() uint32 {
	return t.version
}

// SetConfigureHandler installs the handler for configure events.
func (t *XdgToplevel) SetConfigureHandler(h func(ToplevelConfigure)) {
	t.onConfigure = h
}

// SetCloseHandler installs the handler for close events.
func (t *XdgToplevel) SetCloseHandler(h func()) {
	t.onClose = h
}

// SetTitle sets the window title.
func (t *XdgToplevel) SetTitle(title string) error {
	return t.Context().SendRequest(t, opToplevelSetTitle, title)
}

// SetAppID sets the application id.
func (t *XdgToplevel) SetAppID(appID string) error {
	return t.Context().SendRequest(t, opToplevelSetAppID, appID)
}

// SetMinSize sets the minimum window size.
func (t *XdgToplevel) SetMinSize(width, height int32) error {
	return t.Context().SendRequest(t, opToplevelSetMinSize, width, height)
}

// SetMaxSize sets the maximum window size.
func (t *XdgToplevel) SetMaxSize(width, height int32) error {
	return t.Context().SendRequest(t, opToplevelSetMaxSize, width, height)
}

// SetMaximized requests the maximized state.
func (t *XdgToplevel) SetMaximized() error {
	return t.Context().SendRequest(t, opToplevelSetMaximized)
}

// UnsetMaximized leaves the maximized state.
func (t *XdgToplevel) UnsetMaximized() error {
	return t.Context().SendRequest(t, opToplevelUnsetMaximized)
}

// SetFullscreen requests fullscreen, on a specific output when output
// is non-nil.
func (t *XdgToplevel) SetFullscreen(output *Output) error {
	var outputArg interface{}
	if output != nil {
		outputArg = output
	}
	return t.Context().SendRequest(t, opToplevelSetFullscreen, outputArg)
}

// UnsetFullscreen leaves fullscreen.
func (t *XdgToplevel) UnsetFullscreen() error {
	return t.Context().SendRequest(t, opToplevelUnsetFullscreen)
}

// SetMinimized requests the minimized state.
func (t *XdgToplevel) SetMinimized() error {
	return t.Context().SendRequest(t, opToplevelSetMinimized)
}

// Destroy destroys the toplevel.
func (t *XdgToplevel) Destroy() error {
	err := t.Context().SendRequest(t, opToplevelDestroy)
	if err == nil {
		t.Context().Unregister(t)
	}
	return err
}

// Dispatch decodes xdg_toplevel events.
func (t *XdgToplevel) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case evToplevelConfigure:
		if t.onConfigure == nil {
			return
		}
		width := event.Int32()
		height := event.Int32()
		t.onConfigure(ToplevelConfigure{
			Width:  width,
			Height: height,
			States: decodeUint32Array(event.Array()),
		})
	case evToplevelClose:
		if t.onClose != nil {
			t.onClose()
		}
	}
}

// decodeUint32Array unpacks a wl array of native-endian uint32 values.
func decodeUint32Array(raw []byte) []uint32 {
	n := len(raw) / 4
	if n == 0 {
		return nil
	}
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return out
}
