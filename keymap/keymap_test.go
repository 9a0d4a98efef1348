package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromMask(t *testing.T) {
	tests := []struct {
		name      string
		depressed uint32
		latched   uint32
		locked    uint32
		want      Modifiers
	}{
		{name: "none"},
		{
			name:      "ctrl held",
			depressed: MaskCtrl,
			want:      Modifiers{Ctrl: true},
		},
		{
			name:      "shift latched",
			latched:   MaskShift,
			want:      Modifiers{Shift: true},
		},
		{
			name:   "caps and num locked",
			locked: MaskCaps | MaskNum,
			want:   Modifiers{CapsLock: true, NumLock: true},
		},
		{
			name:      "combined across fields",
			depressed: MaskAlt | MaskLogo,
			locked:    MaskCaps,
			want:      Modifiers{Alt: true, Logo: true, CapsLock: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromMask(tt.depressed, tt.latched, tt.locked))
		})
	}
}

func TestUSBaseLevel(t *testing.T) {
	state := US().NewState()

	// evdev KEY_A is 30, xkb code 38.
	assert.Equal(t, "a", state.UTF8(30+EvdevOffset))
	assert.Equal(t, uint32('a'), state.KeySym(30+EvdevOffset))
	assert.Equal(t, "1", state.UTF8(10))
	assert.Equal(t, " ", state.UTF8(65))
}

func TestUSShiftLevel(t *testing.T) {
	state := US().NewState()
	state.UpdateMask(MaskShift, 0, 0, 0)

	assert.Equal(t, "A", state.UTF8(38))
	assert.Equal(t, "!", state.UTF8(10))
	assert.Equal(t, uint32('Q'), state.KeySym(24))
}

func TestUSCapsLockUpcasesLettersOnly(t *testing.T) {
	state := US().NewState()
	state.UpdateMask(0, 0, MaskCaps, 0)

	assert.Equal(t, "A", state.UTF8(38))
	assert.Equal(t, "1", state.UTF8(10), "caps lock must not shift digits")
}

func TestUSSpecialKeysProduceNoText(t *testing.T) {
	state := US().NewState()

	assert.Equal(t, uint32(SymReturn), state.KeySym(36))
	assert.Empty(t, state.UTF8(36))
	assert.Equal(t, uint32(SymEscape), state.KeySym(9))
	assert.Empty(t, state.UTF8(9))
}

func TestUSUnknownCode(t *testing.T) {
	state := US().NewState()
	assert.Zero(t, state.KeySym(250))
	assert.Empty(t, state.UTF8(250))
}

func TestNoComposePassesThrough(t *testing.T) {
	var c Composer = NoCompose{}
	res := c.Feed(uint32('a'))
	assert.Equal(t, ComposeNothing, res.Status)
	assert.Empty(t, res.Text)
}
