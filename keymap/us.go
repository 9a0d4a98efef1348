package keymap

import (
	"sync"
	"unicode"
)

// Keysym values for keys that produce no text. The printable ASCII
// range maps keysym == codepoint, so only specials need names.
const (
	SymEscape    = 0xff1b
	SymBackspace = 0xff08
	SymTab       = 0xff09
	SymReturn    = 0xff0d
	SymLeft      = 0xff51
	SymUp        = 0xff52
	SymRight     = 0xff53
	SymDown      = 0xff54
	SymHome      = 0xff50
	SymEnd       = 0xff57
	SymPageUp    = 0xff55
	SymPageDown  = 0xff56
	SymInsert    = 0xff63
	SymDelete    = 0xffff
	SymShiftL    = 0xffe1
	SymShiftR    = 0xffe2
	SymCtrlL     = 0xffe3
	SymCtrlR     = 0xffe4
	SymAltL      = 0xffe9
	SymAltR      = 0xffea
	SymSuperL    = 0xffeb
	SymSuperR    = 0xffec
	SymCapsLock  = 0xffe5
	SymNumLock   = 0xff7f
	SymF1        = 0xffbe
)

// usKey is one key of the US layout, base and shifted level.
type usKey struct {
	base    rune
	shifted rune
	sym     uint32 // non-zero for keys without text
}

// usLayout is keyed by xkb key code (evdev code + 8). Row by row of a
// standard US QWERTY keyboard.
var usLayout = map[uint32]usKey{
	9:  {sym: SymEscape},
	10: {base: '1', shifted: '!'},
	11: {base: '2', shifted: '@'},
	12: {base: '3', shifted: '#'},
	13: {base: '4', shifted: '$'},
	14: {base: '5', shifted: '%'},
	15: {base: '6', shifted: '^'},
	16: {base: '7', shifted: '&'},
	17: {base: '8', shifted: '*'},
	18: {base: '9', shifted: '('},
	19: {base: '0', shifted: ')'},
	20: {base: '-', shifted: '_'},
	21: {base: '=', shifted: '+'},
	22: {sym: SymBackspace},
	23: {sym: SymTab},
	24: {base: 'q', shifted: 'Q'},
	25: {base: 'w', shifted: 'W'},
	26: {base: 'e', shifted: 'E'},
	27: {base: 'r', shifted: 'R'},
	28: {base: 't', shifted: 'T'},
	29: {base: 'y', shifted: 'Y'},
	30: {base: 'u', shifted: 'U'},
	31: {base: 'i', shifted: 'I'},
	32: {base: 'o', shifted: 'O'},
	33: {base: 'p', shifted: 'P'},
	34: {base: '[', shifted: '{'},
	35: {base: ']', shifted: '}'},
	36: {sym: SymReturn},
	37: {sym: SymCtrlL},
	38: {base: 'a', shifted: 'A'},
	39: {base: 's', shifted: 'S'},
	40: {base: 'd', shifted: 'D'},
	41: {base: 'f', shifted: 'F'},
	42: {base: 'g', shifted: 'G'},
	43: {base: 'h', shifted: 'H'},
	44: {base: 'j', shifted: 'J'},
	45: {base: 'k', shifted: 'K'},
	46: {base: 'l', shifted: 'L'},
	47: {base: ';', shifted: ':'},
	48: {base: '\'', shifted: '"'},
	49: {base: '`', shifted: '~'},
	50: {sym: SymShiftL},
	51: {base: '\\', shifted: '|'},
	52: {base: 'z', shifted: 'Z'},
	53: {base: 'x', shifted: 'X'},
	54: {base: 'c', shifted: 'C'},
	55: {base: 'v', shifted: 'V'},
	56: {base: 'b', shifted: 'B'},
	57: {base: 'n', shifted: 'N'},
	58: {base: 'm', shifted: 'M'},
	59: {base: ',', shifted: '<'},
	60: {base: '.', shifted: '>'},
	61: {base: '/', shifted: '?'},
	62: {sym: SymShiftR},
	64: {sym: SymAltL},
	65: {base: ' ', shifted: ' '},
	66: {sym: SymCapsLock},
	105: {sym: SymCtrlR},
	108: {sym: SymAltR},
	110: {sym: SymHome},
	111: {sym: SymUp},
	112: {sym: SymPageUp},
	113: {sym: SymLeft},
	114: {sym: SymRight},
	115: {sym: SymEnd},
	116: {sym: SymDown},
	117: {sym: SymPageDown},
	118: {sym: SymInsert},
	119: {sym: SymDelete},
	133: {sym: SymSuperL},
	134: {sym: SymSuperR},
}

// US returns the built-in US QWERTY keymap. It is the fallback used
// when no Engine is configured or the compositor announces
// FormatNoKeymap.
func US() Keymap {
	return usKeymap{}
}

type usKeymap struct{}

func (usKeymap) NewState() State {
	return &usState{}
}

type usState struct {
	mu   sync.Mutex
	mods Modifiers
}

func (s *usState) UpdateMask(depressed, latched, locked, group uint32) {
	s.mu.Lock()
	s.mods = FromMask(depressed, latched, locked)
	s.mu.Unlock()
}

func (s *usState) Modifiers() Modifiers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mods
}

func (s *usState) KeySym(code uint32) uint32 {
	key, ok := usLayout[code]
	if !ok {
		return 0
	}
	if key.sym != 0 {
		return key.sym
	}
	r := s.levelRune(key)
	return uint32(r)
}

func (s *usState) UTF8(code uint32) string {
	key, ok := usLayout[code]
	if !ok || key.sym != 0 {
		return ""
	}
	return string(s.levelRune(key))
}

// levelRune picks the shift level. Caps lock upcases letters only,
// matching how the layout behaves on a real keymap.
func (s *usState) levelRune(key usKey) rune {
	mods := s.Modifiers()
	if mods.Shift {
		return key.shifted
	}
	if mods.CapsLock && unicode.IsLetter(key.base) {
		return unicode.ToUpper(key.base)
	}
	return key.base
}
