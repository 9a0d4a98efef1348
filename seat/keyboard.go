package seat

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bnema/wlturbo/wl"

	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/internal/logger"
	"github.com/wlkit/wlkit/keymap"
	"github.com/wlkit/wlkit/protocols"
)

// defaultRepeatRate and defaultRepeatDelay apply until the compositor
// sends repeat_info.
const (
	defaultRepeatRate  = 25 // presses per second
	defaultRepeatDelay = 600 * time.Millisecond
)

// FocusEnter reports keyboard focus entering a surface. Surface is the
// wl_surface proxy id.
type FocusEnter struct {
	Serial  uint32
	Surface uint32
}

// FocusLeave reports keyboard focus leaving the surface.
type FocusLeave struct {
	Serial  uint32
	Surface uint32
}

// KeyPress reports a key going down, or a synthesized repeat when
// Repeated is set. Code is the xkb key code.
type KeyPress struct {
	Serial   uint32
	Time     uint32
	Code     uint32
	Sym      uint32
	Text     string
	Repeated bool
}

// KeyRelease reports a key going up. Repeated marks the synthetic
// release inside a repeat pair.
type KeyRelease struct {
	Serial   uint32
	Time     uint32
	Code     uint32
	Sym      uint32
	Repeated bool
}

// ModifiersChanged reports a change of the modifier state.
type ModifiersChanged struct {
	Serial    uint32
	Modifiers keymap.Modifiers
}

func (FocusEnter) isInputEvent()       {}
func (FocusLeave) isInputEvent()       {}
func (KeyPress) isInputEvent()         {}
func (KeyRelease) isInputEvent()       {}
func (ModifiersChanged) isInputEvent() {}

// keyboard interprets wl_keyboard events for one seat. All methods run
// on the dispatch goroutine except the repeat callback, which pushes to
// the queue from the repeater goroutine.
type keyboard struct {
	engine   keymap.Engine
	composer keymap.Composer
	state    keymap.State
	src      eventqueue.Source[InputEvent]
	route    InputRouter

	sinkMu sync.Mutex
	sink   *eventqueue.Source[InputEvent]

	focus       uint32
	repeatRate  int32
	repeatDelay time.Duration
	repeatKey   uint32
	rep         repeater
}

func newKeyboard(engine keymap.Engine, composer keymap.Composer, src eventqueue.Source[InputEvent], route InputRouter) *keyboard {
	if composer == nil {
		composer = keymap.NoCompose{}
	}
	return &keyboard{
		engine:      engine,
		composer:    composer,
		state:       keymap.US().NewState(),
		src:         src,
		route:       route,
		repeatRate:  defaultRepeatRate,
		repeatDelay: defaultRepeatDelay,
	}
}

// push delivers an event to the focused surface's queue, falling back
// to the seat queue while no focus route exists.
func (k *keyboard) push(ev InputEvent) {
	k.sinkMu.Lock()
	sink := k.sink
	k.sinkMu.Unlock()
	if sink != nil {
		sink.Push(ev)
		return
	}
	k.src.Push(ev)
}

func (k *keyboard) setSink(sink *eventqueue.Source[InputEvent]) {
	k.sinkMu.Lock()
	k.sink = sink
	k.sinkMu.Unlock()
}

func (k *keyboard) handle(ev protocols.KeyboardEvent) {
	switch ev := ev.(type) {
	case protocols.KeyboardKeymap:
		k.loadKeymap(ev)
	case protocols.KeyboardEnter:
		k.focus = ev.Surface
		if k.route != nil {
			if sink, ok := k.route(ev.Surface); ok {
				k.setSink(&sink)
			} else {
				k.setSink(nil)
			}
		}
		k.push(FocusEnter{Serial: ev.Serial, Surface: ev.Surface})
	case protocols.KeyboardLeave:
		k.rep.cancel()
		k.repeatKey = 0
		surface := k.focus
		k.focus = 0
		// The leave still belongs to the surface that had focus, the
		// route resets only after it is delivered.
		k.push(FocusLeave{Serial: ev.Serial, Surface: surface})
		k.setSink(nil)
	case protocols.KeyboardKey:
		k.handleKey(ev)
	case protocols.KeyboardModifiers:
		k.state.UpdateMask(ev.ModsDepressed, ev.ModsLatched, ev.ModsLocked, ev.Group)
		k.push(ModifiersChanged{Serial: ev.Serial, Modifiers: k.state.Modifiers()})
	case protocols.KeyboardRepeatInfo:
		k.repeatRate = ev.Rate
		if ev.Delay > 0 {
			k.repeatDelay = time.Duration(ev.Delay) * time.Millisecond
		}
		if ev.Rate <= 0 {
			k.rep.cancel()
			k.repeatKey = 0
		}
	}
}

func (k *keyboard) loadKeymap(ev protocols.KeyboardKeymap) {
	defer func() {
		if err := unix.Close(int(ev.Fd)); err != nil {
			logger.Debug("keymap fd close failed", "err", err)
		}
	}()
	if ev.Format != protocols.KeymapFormatXkbV1 || k.engine == nil {
		k.state = keymap.US().NewState()
		return
	}
	data, err := wl.MapMemory(int(ev.Fd), int(ev.Size))
	if err != nil {
		logger.Warn("keymap mmap failed", "err", err)
		k.state = keymap.US().NewState()
		return
	}
	defer func() {
		if err := wl.UnmapMemory(data); err != nil {
			logger.Debug("keymap munmap failed", "err", err)
		}
	}()
	km, err := k.engine.Parse(ev.Format, data)
	if err != nil {
		logger.Warn("keymap parse failed, using built-in layout", "err", err)
		k.state = keymap.US().NewState()
		return
	}
	k.state = km.NewState()
}

func (k *keyboard) handleKey(ev protocols.KeyboardKey) {
	code := ev.Key + keymap.EvdevOffset
	sym := k.state.KeySym(code)

	if ev.State == protocols.KeyStatePressed {
		text := k.state.UTF8(code)
		switch res := k.composer.Feed(sym); res.Status {
		case keymap.ComposeComposing, keymap.ComposeCancelled:
			// The key was swallowed into a dead-key sequence.
			return
		case keymap.ComposeComposed:
			text = res.Text
		}
		k.push(KeyPress{Serial: ev.Serial, Time: ev.Time, Code: code, Sym: sym, Text: text})
		if k.repeats(code, sym) && k.repeatRate > 0 {
			k.startRepeat(code)
		}
		return
	}

	if code == k.repeatKey {
		k.rep.cancel()
		k.repeatKey = 0
	}
	k.push(KeyRelease{Serial: ev.Serial, Time: ev.Time, Code: code, Sym: sym})
}

// startRepeat arms the repeater for code, replacing any running repeat.
// Each firing synthesizes a release and press pair for the held key.
func (k *keyboard) startRepeat(code uint32) {
	k.repeatKey = code
	interval := time.Second / time.Duration(k.repeatRate)
	state := k.state
	k.rep.start(k.repeatDelay, interval, func() {
		sym := state.KeySym(code)
		k.push(KeyRelease{Code: code, Sym: sym, Repeated: true})
		k.push(KeyPress{Code: code, Sym: sym, Text: state.UTF8(code), Repeated: true})
	})
}

// repeats reports whether a key takes part in key repeat. Keys that
// produce text repeat, as do the common editing and movement keys.
// Modifier and lock keys never repeat.
func (k *keyboard) repeats(code, sym uint32) bool {
	if k.state.UTF8(code) != "" {
		return true
	}
	switch sym {
	case keymap.SymBackspace, keymap.SymDelete, keymap.SymTab, keymap.SymReturn,
		keymap.SymLeft, keymap.SymRight, keymap.SymUp, keymap.SymDown,
		keymap.SymPageUp, keymap.SymPageDown, keymap.SymHome, keymap.SymEnd:
		return true
	}
	return false
}

// release tears the keyboard down, stopping any in-flight repeat.
func (k *keyboard) releaseState() {
	k.rep.cancel()
	k.repeatKey = 0
}
