// Package toplevel watches the windows of other clients through the
// wlr foreign toplevel protocol. Properties arrive in batches and only
// become visible once the compositor commits them with done.
package toplevel

import (
	"sync"

	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/internal/logger"
	"github.com/wlkit/wlkit/protocols"
)

// State is a committed snapshot of a foreign window.
type State struct {
	Title      string
	AppID      string
	Maximized  bool
	Minimized  bool
	Activated  bool
	Fullscreen bool
	// Outputs holds the proxy ids of the outputs the window shows on.
	Outputs []uint32
}

// Event is implemented by all tracker events.
type Event interface {
	isEvent()
}

// Added announces a window after its first committed state.
type Added struct {
	Window *Window
}

// Changed reports a committed state change.
type Changed struct {
	Window *Window
}

// Closed reports the window going away. Its last state stays readable.
type Closed struct {
	Window *Window
}

// Finished reports the compositor confirming Stop, no more events will
// follow.
type Finished struct{}

func (Added) isEvent()    {}
func (Changed) isEvent()  {}
func (Closed) isEvent()   {}
func (Finished) isEvent() {}

// Window is one tracked foreign window.
type Window struct {
	mu        sync.Mutex
	handle    *protocols.ForeignToplevelHandle
	current   State
	pending   State
	announced bool
}

// State returns the last committed state.
func (w *Window) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.current
	s.Outputs = append([]uint32(nil), w.current.Outputs...)
	return s
}

// Activate asks the compositor to focus the window on the given seat.
func (w *Window) Activate(seat *protocols.Seat) error {
	return w.handle.Activate(seat)
}

// Close asks the window to close itself.
func (w *Window) Close() error {
	return w.handle.Close()
}

// SetMaximized requests the maximized state.
func (w *Window) SetMaximized() error {
	return w.handle.SetMaximized()
}

// SetMinimized requests the minimized state.
func (w *Window) SetMinimized() error {
	return w.handle.SetMinimized()
}

// apply folds one handle event into the window, returning the tracker
// event to publish, if any.
func (w *Window) apply(ev protocols.ForeignHandleEvent) Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch ev := ev.(type) {
	case protocols.ForeignHandleTitle:
		w.pending.Title = ev.Title
	case protocols.ForeignHandleAppID:
		w.pending.AppID = ev.AppID
	case protocols.ForeignHandleOutputEnter:
		w.pending.Outputs = append(w.pending.Outputs, ev.Output)
	case protocols.ForeignHandleOutputLeave:
		kept := w.pending.Outputs[:0]
		for _, id := range w.pending.Outputs {
			if id != ev.Output {
				kept = append(kept, id)
			}
		}
		w.pending.Outputs = kept
	case protocols.ForeignHandleState:
		w.pending.Maximized = false
		w.pending.Minimized = false
		w.pending.Activated = false
		w.pending.Fullscreen = false
		for _, s := range ev.States {
			switch s {
			case protocols.ForeignStateMaximized:
				w.pending.Maximized = true
			case protocols.ForeignStateMinimized:
				w.pending.Minimized = true
			case protocols.ForeignStateActivated:
				w.pending.Activated = true
			case protocols.ForeignStateFullscreen:
				w.pending.Fullscreen = true
			}
		}
	case protocols.ForeignHandleDone:
		w.current = w.pending
		w.current.Outputs = append([]uint32(nil), w.pending.Outputs...)
		if !w.announced {
			w.announced = true
			return Added{Window: w}
		}
		return Changed{Window: w}
	case protocols.ForeignHandleClosed:
		return Closed{Window: w}
	}
	return nil
}

// Tracker subscribes to the foreign toplevel manager and keeps all
// windows.
type Tracker struct {
	mu      sync.Mutex
	proxy   *protocols.ForeignToplevelManager
	windows []*Window
	src     eventqueue.Source[Event]
	drain   eventqueue.Drain[Event]
}

// NewTracker wraps a bound foreign toplevel manager. Its events drain
// from Events.
func NewTracker(proxy *protocols.ForeignToplevelManager) *Tracker {
	src, drain := eventqueue.New[Event]()
	t := &Tracker{proxy: proxy, src: src, drain: drain}
	if proxy != nil {
		proxy.SetToplevelHandler(t.addWindow)
		proxy.SetFinishedHandler(func() {
			t.src.Push(Finished{})
		})
	}
	return t
}

func (t *Tracker) addWindow(handle *protocols.ForeignToplevelHandle) {
	w := &Window{handle: handle}
	handle.SetHandler(func(ev protocols.ForeignHandleEvent) {
		t.handleWindowEvent(w, ev)
	})
	t.mu.Lock()
	t.windows = append(t.windows, w)
	t.mu.Unlock()
}

func (t *Tracker) handleWindowEvent(w *Window, ev protocols.ForeignHandleEvent) {
	out := w.apply(ev)
	if out == nil {
		return
	}
	if _, closed := out.(Closed); closed {
		t.mu.Lock()
		kept := t.windows[:0]
		for _, existing := range t.windows {
			if existing != w {
				kept = append(kept, existing)
			}
		}
		t.windows = kept
		t.mu.Unlock()
		if w.handle != nil {
			if err := w.handle.Destroy(); err != nil {
				logger.Debug("foreign handle destroy failed", "err", err)
			}
		}
	}
	t.src.Push(out)
}

// Events returns the drain of tracker events.
func (t *Tracker) Events() eventqueue.Drain[Event] {
	return t.drain
}

// Windows returns all currently tracked windows.
func (t *Tracker) Windows() []*Window {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Window(nil), t.windows...)
}

// Stop asks the compositor to end the stream, Finished confirms.
func (t *Tracker) Stop() error {
	return t.proxy.Stop()
}
