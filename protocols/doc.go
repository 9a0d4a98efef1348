// Package protocols contains hand-written client proxies for the
// Wayland protocol objects the toolkit wraps: wl_output, wl_seat and
// its input devices, wl_surface, wl_shm, the data-device family,
// xdg-shell, wlr-layer-shell and wlr-foreign-toplevel-management.
//
// Each proxy embeds wl.BaseProxy, sends requests through the shared
// wl.Context and decodes its events in Dispatch, forwarding them to a
// single typed handler as a tagged-union event value. Wire
// encoding/decoding itself is owned by the wlturbo runtime.
package protocols
