package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// ForeignToplevelManagerInterface is the
// zwlr_foreign_toplevel_management_unstable_v1 manager interface name.
const ForeignToplevelManagerInterface = "zwlr_foreign_toplevel_manager_v1"

// zwlr_foreign_toplevel_manager_v1 request opcodes
const (
	opForeignManagerStop = 0
)

// zwlr_foreign_toplevel_manager_v1 event opcodes
const (
	evForeignManagerToplevel = 0
	evForeignManagerFinished = 1
)

// zwlr_foreign_toplevel_handle_v1 request opcodes
const (
	opForeignHandleSetMaximized    = 0
	opForeignHandleUnsetMaximized  = 1
	opForeignHandleSetMinimized    = 2
	opForeignHandleUnsetMinimized  = 3
	opForeignHandleActivate        = 4
	opForeignHandleClose           = 5
	opForeignHandleSetRectangle    = 6
	opForeignHandleDestroy         = 7
	opForeignHandleSetFullscreen   = 8
	opForeignHandleUnsetFullscreen = 9
)

// zwlr_foreign_toplevel_handle_v1 event opcodes
const (
	evForeignHandleTitle       = 0
	evForeignHandleAppID       = 1
	evForeignHandleOutputEnter = 2
	evForeignHandleOutputLeave = 3
	evForeignHandleState       = 4
	evForeignHandleDone        = 5
	evForeignHandleClosed      = 6
)

// States from the zwlr_foreign_toplevel_handle_v1.state enum.
const (
	ForeignStateMaximized  = 0
	ForeignStateMinimized  = 1
	ForeignStateActivated  = 2
	ForeignStateFullscreen = 3
)

// ForeignToplevelManager is a zwlr_foreign_toplevel_manager_v1 proxy.
type ForeignToplevelManager struct {
	wl.BaseProxy
	version    uint32
	onToplevel func(*ForeignToplevelHandle)
	onFinished func()
}

// NewForeignToplevelManager prepares a manager proxy for binding.
func NewForeignToplevelManager(ctx *wl.Context, version uint32) *ForeignToplevelManager {
	m := &ForeignToplevelManager{version: version}
	m.SetContext(ctx)
	return m
}

// Version returns the bound version.
func (m *ForeignToplevelManager) Version() uint32 {
	return m.version
}

// SetToplevelHandler installs the handler for newly announced windows.
// The handle arrives with no metadata, the title, app id and state land
// on the handle before its first done event.
func (m *ForeignToplevelManager) SetToplevelHandler(h func(*ForeignToplevelHandle)) {
	m.onToplevel = h
}

// SetFinishedHandler installs the handler for the finished event sent
// after Stop.
func (m *ForeignToplevelManager) SetFinishedHandler(h func()) {
	m.onFinished = h
}

// Stop asks the compositor to stop sending toplevel events. The
// finished event confirms.
func (m *ForeignToplevelManager) Stop() error {
	return m.Context().SendRequest(m, opForeignManagerStop)
}

// Dispatch decodes manager events. The toplevel event carries a
// server-allocated new_id, the handle proxy is created and registered
// here.
func (m *ForeignToplevelManager) Dispatch(event *wl.Event) {
	switch event.Opcode {
	case evForeignManagerToplevel:
		ctx := m.Context()
		h := &ForeignToplevelHandle{version: m.version}
		h.SetContext(ctx)
		h.SetID(event.Uint32())
		ctx.Register(h)
		if m.onToplevel != nil {
			m.onToplevel(h)
		}
	case evForeignManagerFinished:
		m.Context().Unregister(m)
		if m.onFinished != nil {
			m.onFinished()
		}
	}
}

// ForeignHandleEvent is implemented by all handle event types.
type ForeignHandleEvent interface {
	isForeignHandleEvent()
}

// ForeignHandleTitle carries a title change.
type ForeignHandleTitle struct {
	Title string
}

// ForeignHandleAppID carries an app id change.
type ForeignHandleAppID struct {
	AppID string
}

// ForeignHandleOutputEnter reports the window appearing on an output.
// Output is the proxy id of the wl_output.
type ForeignHandleOutputEnter struct {
	Output uint32
}

// ForeignHandleOutputLeave reports the window leaving an output.
type ForeignHandleOutputLeave struct {
	Output uint32
}

// ForeignHandleState carries the full current state set.
type ForeignHandleState struct {
	States []uint32
}

// ForeignHandleDone marks the end of an atomic batch of property
// events.
type ForeignHandleDone struct{}

// ForeignHandleClosed reports that the window was closed. The handle is
// inert afterwards.
type ForeignHandleClosed struct{}

func (ForeignHandleTitle) isForeignHandleEvent()       {}
func (ForeignHandleAppID) isForeignHandleEvent()       {}
func (ForeignHandleOutputEnter) isForeignHandleEvent() {}
func (ForeignHandleOutputLeave) isForeignHandleEvent() {}
func (ForeignHandleState) isForeignHandleEvent()       {}
func (ForeignHandleDone) isForeignHandleEvent()        {}
func (ForeignHandleClosed) isForeignHandleEvent()      {}

// ForeignToplevelHandle is a zwlr_foreign_toplevel_handle_v1 proxy.
type ForeignToplevelHandle struct {
	wl.BaseProxy
	version uint32
	handler func(ForeignHandleEvent)
}

// Version returns the version inherited from the manager.
func (h *ForeignToplevelHandle) Version() uint32 {
	return h.version
}

// SetHandler installs the event handler.
func (h *ForeignToplevelHandle) SetHandler(fn func(ForeignHandleEvent)) {
	h.handler = fn
}

// Activate asks the compositor to activate the window via the given
// seat.
func (h *ForeignToplevelHandle) Activate(seat *Seat) error {
	return h.Context().SendRequest(h, opForeignHandleActivate, seat.ID())
}

// Close asks the window to close.
func (h *ForeignToplevelHandle) Close() error {
	return h.Context().SendRequest(h, opForeignHandleClose)
}

// SetMaximized requests the maximized state.
func (h *ForeignToplevelHandle) SetMaximized() error {
	return h.Context().SendRequest(h, opForeignHandleSetMaximized)
}

// UnsetMaximized leaves the maximized state.
func (h *ForeignToplevelHandle) UnsetMaximized() error {
	return h.Context().SendRequest(h, opForeignHandleUnsetMaximized)
}

// SetMinimized requests the minimized state.
func (h *ForeignToplevelHandle) SetMinimized() error {
	return h.Context().SendRequest(h, opForeignHandleSetMinimized)
}

// UnsetMinimized leaves the minimized state.
func (h *ForeignToplevelHandle) UnsetMinimized() error {
	return h.Context().SendRequest(h, opForeignHandleUnsetMinimized)
}

// SetFullscreen requests fullscreen. Requires version 2.
func (h *ForeignToplevelHandle) SetFullscreen() error {
	if h.version < 2 {
		return nil
	}
	var outputArg interface{}
	return h.Context().SendRequest(h, opForeignHandleSetFullscreen, outputArg)
}

// UnsetFullscreen leaves fullscreen. Requires version 2.
func (h *ForeignToplevelHandle) UnsetFullscreen() error {
	if h.version < 2 {
		return nil
	}
	return h.Context().SendRequest(h, opForeignHandleUnsetFullscreen)
}

// Destroy destroys the handle.
func (h *ForeignToplevelHandle) Destroy() error {
	err := h.Context().SendRequest(h, opForeignHandleDestroy)
	if err == nil {
		h.Context().Unregister(h)
	}
	return err
}

// Dispatch decodes handle events.
func (h *ForeignToplevelHandle) Dispatch(event *wl.Event) {
	if h.handler == nil {
		return
	}
	switch event.Opcode {
	case evForeignHandleTitle:
		h.handler(ForeignHandleTitle{Title: event.String()})
	case evForeignHandleAppID:
		h.handler(ForeignHandleAppID{AppID: event.String()})
	case evForeignHandleOutputEnter:
		h.handler(ForeignHandleOutputEnter{Output: event.Uint32()})
	case evForeignHandleOutputLeave:
		h.handler(ForeignHandleOutputLeave{Output: event.Uint32()})
	case evForeignHandleState:
		h.handler(ForeignHandleState{States: decodeUint32Array(event.Array())})
	case evForeignHandleDone:
		h.handler(ForeignHandleDone{})
	case evForeignHandleClosed:
		h.handler(ForeignHandleClosed{})
	}
}
