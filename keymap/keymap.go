// Package keymap defines the narrow surface the rest of the toolkit
// needs from a keymap engine, plus a built-in US layout used when no
// engine is wired in or the compositor sends no keymap.
package keymap

// EvdevOffset is the distance between raw evdev key codes, as carried
// by wl_keyboard.key, and xkb key codes.
const EvdevOffset = 8

// Keymap formats from wl_keyboard.keymap_format.
const (
	FormatNoKeymap = 0
	FormatXkbV1    = 1
)

// Modifier mask bits, laid out like the xkb core modifiers.
const (
	MaskShift = 1 << 0
	MaskCaps  = 1 << 1
	MaskCtrl  = 1 << 2
	MaskAlt   = 1 << 3
	MaskNum   = 1 << 4
	MaskLogo  = 1 << 6
)

// Modifiers is a decoded modifier state.
type Modifiers struct {
	Shift    bool
	CapsLock bool
	Ctrl     bool
	Alt      bool
	NumLock  bool
	Logo     bool
}

// FromMask decodes the effective modifier mask of a
// wl_keyboard.modifiers event.
func FromMask(depressed, latched, locked uint32) Modifiers {
	mask := depressed | latched | locked
	return Modifiers{
		Shift:    mask&MaskShift != 0,
		CapsLock: mask&MaskCaps != 0,
		Ctrl:     mask&MaskCtrl != 0,
		Alt:      mask&MaskAlt != 0,
		NumLock:  mask&MaskNum != 0,
		Logo:     mask&MaskLogo != 0,
	}
}

// Engine parses compositor-provided keymap data. Implementations wrap
// an xkb compiler; the toolkit itself ships none.
type Engine interface {
	// Parse compiles keymap data in the given wl_keyboard.keymap_format
	// into a usable keymap.
	Parse(format uint32, data []byte) (Keymap, error)
}

// Keymap is a compiled keymap.
type Keymap interface {
	// NewState returns a fresh modifier and group state for this map.
	NewState() State
}

// State is the live interpretation state for one keyboard.
type State interface {
	// UpdateMask applies a wl_keyboard.modifiers event.
	UpdateMask(depressed, latched, locked, group uint32)
	// Modifiers returns the current decoded modifier state.
	Modifiers() Modifiers
	// KeySym resolves an xkb key code to a keysym, zero when the code
	// maps to nothing.
	KeySym(code uint32) uint32
	// UTF8 resolves an xkb key code to the text it produces, empty
	// when it produces none.
	UTF8(code uint32) string
}

// ComposeStatus is the outcome of feeding one keysym to a Composer.
type ComposeStatus int

const (
	// ComposeNothing means the keysym is not part of a sequence and
	// should be handled as-is.
	ComposeNothing ComposeStatus = iota
	// ComposeComposing means the keysym started or continued a
	// sequence and should be swallowed.
	ComposeComposing
	// ComposeComposed means a sequence completed, Text holds the
	// result.
	ComposeComposed
	// ComposeCancelled means the pending sequence was aborted.
	ComposeCancelled
)

// ComposeResult carries the outcome of a compose step.
type ComposeResult struct {
	Status ComposeStatus
	Text   string
}

// Composer folds keysyms into dead-key sequences. The zero default,
// NoCompose, never composes.
type Composer interface {
	Feed(sym uint32) ComposeResult
}

// NoCompose is a Composer that passes every keysym through.
type NoCompose struct{}

// Feed always reports ComposeNothing.
func (NoCompose) Feed(uint32) ComposeResult {
	return ComposeResult{Status: ComposeNothing}
}
