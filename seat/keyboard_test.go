package seat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/keymap"
	"github.com/wlkit/wlkit/protocols"
)

func newTestKeyboard() (*keyboard, eventqueue.Drain[InputEvent]) {
	src, drain := eventqueue.New[InputEvent]()
	return newKeyboard(nil, nil, src, nil), drain
}

func poll(d eventqueue.Drain[InputEvent]) []InputEvent {
	var got []InputEvent
	d.Poll(func(ev InputEvent) { got = append(got, ev) })
	return got
}

// waitFor polls until cond sees the wanted events or the deadline hits.
func waitFor(t *testing.T, d eventqueue.Drain[InputEvent], cond func([]InputEvent) bool) []InputEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var all []InputEvent
	for time.Now().Before(deadline) {
		all = append(all, poll(d)...)
		if cond(all) {
			return all
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for events, got %d", len(all))
	return nil
}

func countRepeats(events []InputEvent, code uint32) (presses, releases int) {
	for _, ev := range events {
		switch ev := ev.(type) {
		case KeyPress:
			if ev.Repeated && ev.Code == code {
				presses++
			}
		case KeyRelease:
			if ev.Repeated && ev.Code == code {
				releases++
			}
		}
	}
	return presses, releases
}

func TestKeyPressCarriesSymAndText(t *testing.T) {
	kb, drain := newTestKeyboard()
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 0, Delay: 0})

	// evdev KEY_A = 30.
	kb.handle(protocols.KeyboardKey{Serial: 1, Time: 10, Key: 30, State: protocols.KeyStatePressed})
	kb.handle(protocols.KeyboardKey{Serial: 2, Time: 20, Key: 30, State: protocols.KeyStateReleased})

	events := poll(drain)
	require.Len(t, events, 2)
	press, ok := events[0].(KeyPress)
	require.True(t, ok)
	assert.Equal(t, uint32(38), press.Code, "xkb code is evdev code plus eight")
	assert.Equal(t, "a", press.Text)
	assert.Equal(t, uint32('a'), press.Sym)
	assert.False(t, press.Repeated)
	release, ok := events[1].(KeyRelease)
	require.True(t, ok)
	assert.Equal(t, uint32(38), release.Code)
}

func TestModifiersFlowThroughState(t *testing.T) {
	kb, drain := newTestKeyboard()
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 0, Delay: 0})

	kb.handle(protocols.KeyboardModifiers{Serial: 1, ModsDepressed: 1}) // shift
	kb.handle(protocols.KeyboardKey{Serial: 2, Time: 10, Key: 30, State: protocols.KeyStatePressed})

	events := poll(drain)
	require.Len(t, events, 2)
	mods, ok := events[0].(ModifiersChanged)
	require.True(t, ok)
	assert.True(t, mods.Modifiers.Shift)
	press := events[1].(KeyPress)
	assert.Equal(t, "A", press.Text)
}

func TestRepeatSynthesizesReleasePressPairs(t *testing.T) {
	kb, drain := newTestKeyboard()
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 50, Delay: 20})

	kb.handle(protocols.KeyboardKey{Serial: 1, Time: 1, Key: 30, State: protocols.KeyStatePressed})
	events := waitFor(t, drain, func(all []InputEvent) bool {
		p, r := countRepeats(all, 38)
		return p >= 3 && p == r
	})
	kb.handle(protocols.KeyboardKey{Serial: 2, Time: 2, Key: 30, State: protocols.KeyStateReleased})

	presses, releases := countRepeats(events, 38)
	assert.GreaterOrEqual(t, presses, 3)
	assert.Equal(t, presses, releases, "each repeat is a release and press pair")
}

func TestRepeatStopsOnRelease(t *testing.T) {
	kb, drain := newTestKeyboard()
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 50, Delay: 10})

	kb.handle(protocols.KeyboardKey{Serial: 1, Time: 1, Key: 30, State: protocols.KeyStatePressed})
	waitFor(t, drain, func(all []InputEvent) bool {
		p, _ := countRepeats(all, 38)
		return p >= 1
	})
	kb.handle(protocols.KeyboardKey{Serial: 2, Time: 2, Key: 30, State: protocols.KeyStateReleased})

	// After release and cancel no further repeats may arrive.
	poll(drain)
	time.Sleep(100 * time.Millisecond)
	presses, _ := countRepeats(poll(drain), 38)
	assert.Zero(t, presses)
}

func TestRepeatStopsOnFocusLeave(t *testing.T) {
	kb, drain := newTestKeyboard()
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 50, Delay: 10})

	kb.handle(protocols.KeyboardEnter{Serial: 1, Surface: 7})
	kb.handle(protocols.KeyboardKey{Serial: 2, Time: 1, Key: 30, State: protocols.KeyStatePressed})
	waitFor(t, drain, func(all []InputEvent) bool {
		p, _ := countRepeats(all, 38)
		return p >= 1
	})
	kb.handle(protocols.KeyboardLeave{Serial: 3, Surface: 7})

	poll(drain)
	time.Sleep(100 * time.Millisecond)
	presses, _ := countRepeats(poll(drain), 38)
	assert.Zero(t, presses)
}

func TestSecondKeyTakesOverRepeat(t *testing.T) {
	kb, drain := newTestKeyboard()
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 50, Delay: 10})

	kb.handle(protocols.KeyboardKey{Serial: 1, Time: 1, Key: 30, State: protocols.KeyStatePressed}) // a
	kb.handle(protocols.KeyboardKey{Serial: 2, Time: 2, Key: 48, State: protocols.KeyStatePressed}) // b

	waitFor(t, drain, func(all []InputEvent) bool {
		p, _ := countRepeats(all, 56)
		return p >= 2
	})
	kb.handle(protocols.KeyboardKey{Serial: 3, Time: 3, Key: 48, State: protocols.KeyStateReleased})

	// Only the most recent key repeats, never both at once.
	poll(drain)
	time.Sleep(100 * time.Millisecond)
	aPresses, _ := countRepeats(poll(drain), 38)
	assert.Zero(t, aPresses, "first key must stop repeating once the second starts")
}

func TestRepeatRateZeroDisablesRepeat(t *testing.T) {
	kb, drain := newTestKeyboard()
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 0, Delay: 10})

	kb.handle(protocols.KeyboardKey{Serial: 1, Time: 1, Key: 30, State: protocols.KeyStatePressed})
	time.Sleep(100 * time.Millisecond)

	presses, _ := countRepeats(poll(drain), 38)
	assert.Zero(t, presses)
}

func TestModifierKeysDoNotRepeat(t *testing.T) {
	kb, drain := newTestKeyboard()
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 50, Delay: 10})

	// evdev KEY_LEFTSHIFT = 42, xkb 50.
	kb.handle(protocols.KeyboardKey{Serial: 1, Time: 1, Key: 42, State: protocols.KeyStatePressed})
	time.Sleep(100 * time.Millisecond)

	presses, _ := countRepeats(poll(drain), 50)
	assert.Zero(t, presses)
}

func TestInputFollowsKeyboardFocus(t *testing.T) {
	seatSrc, seatDrain := eventqueue.New[InputEvent]()
	surfaceSrc, surfaceDrain := eventqueue.New[InputEvent]()
	route := func(id uint32) (eventqueue.Source[InputEvent], bool) {
		if id == 7 {
			return surfaceSrc, true
		}
		return eventqueue.Source[InputEvent]{}, false
	}
	kb := newKeyboard(nil, nil, seatSrc, route)
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 0, Delay: 0})

	kb.handle(protocols.KeyboardEnter{Serial: 1, Surface: 7})
	kb.handle(protocols.KeyboardKey{Serial: 2, Time: 1, Key: 30, State: protocols.KeyStatePressed})
	kb.handle(protocols.KeyboardKey{Serial: 3, Time: 2, Key: 30, State: protocols.KeyStateReleased})
	kb.handle(protocols.KeyboardLeave{Serial: 4, Surface: 7})

	assert.Empty(t, poll(seatDrain), "focused input bypasses the seat queue")
	events := poll(surfaceDrain)
	require.Len(t, events, 4)
	_, ok := events[0].(FocusEnter)
	assert.True(t, ok)
	_, ok = events[3].(FocusLeave)
	assert.True(t, ok, "the leave still belongs to the surface losing focus")

	// With focus gone the seat queue is the fallback again.
	kb.handle(protocols.KeyboardKey{Serial: 5, Time: 3, Key: 30, State: protocols.KeyStatePressed})
	assert.Empty(t, poll(surfaceDrain))
	assert.Len(t, poll(seatDrain), 1)
}

func TestUnroutableFocusFallsBackToSeatQueue(t *testing.T) {
	seatSrc, seatDrain := eventqueue.New[InputEvent]()
	route := func(uint32) (eventqueue.Source[InputEvent], bool) {
		return eventqueue.Source[InputEvent]{}, false
	}
	kb := newKeyboard(nil, nil, seatSrc, route)
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 0, Delay: 0})

	kb.handle(protocols.KeyboardEnter{Serial: 1, Surface: 9})
	kb.handle(protocols.KeyboardKey{Serial: 2, Time: 1, Key: 30, State: protocols.KeyStatePressed})

	assert.Len(t, poll(seatDrain), 2)
}

// sequenceComposer swallows its trigger sym and completes on the next
// feed.
type sequenceComposer struct {
	trigger   uint32
	composing bool
	text      string
}

func (c *sequenceComposer) Feed(sym uint32) keymap.ComposeResult {
	if c.composing {
		c.composing = false
		return keymap.ComposeResult{Status: keymap.ComposeComposed, Text: c.text}
	}
	if sym == c.trigger {
		c.composing = true
		return keymap.ComposeResult{Status: keymap.ComposeComposing}
	}
	return keymap.ComposeResult{Status: keymap.ComposeNothing}
}

func TestComposerSwallowsAndCompletesSequences(t *testing.T) {
	src, drain := eventqueue.New[InputEvent]()
	kb := newKeyboard(nil, &sequenceComposer{trigger: 'a', text: "á"}, src, nil)
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 0, Delay: 0})

	// evdev KEY_A = 30 starts the sequence and is swallowed.
	kb.handle(protocols.KeyboardKey{Serial: 1, Time: 1, Key: 30, State: protocols.KeyStatePressed})
	assert.Empty(t, poll(drain))

	// evdev KEY_B = 48 completes it and carries the composed text.
	kb.handle(protocols.KeyboardKey{Serial: 2, Time: 2, Key: 48, State: protocols.KeyStatePressed})
	events := poll(drain)
	require.Len(t, events, 1)
	press := events[0].(KeyPress)
	assert.Equal(t, "á", press.Text)
}

func TestNoComposerPassesKeysThrough(t *testing.T) {
	kb, drain := newTestKeyboard()
	kb.handle(protocols.KeyboardRepeatInfo{Rate: 0, Delay: 0})

	kb.handle(protocols.KeyboardKey{Serial: 1, Time: 1, Key: 30, State: protocols.KeyStatePressed})
	events := poll(drain)
	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].(KeyPress).Text)
}

func TestRepeaterCancelIsIdempotent(t *testing.T) {
	var r repeater
	r.cancel()
	fired := make(chan struct{}, 1)
	r.start(5*time.Millisecond, 5*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	<-fired
	r.cancel()
	r.cancel()
}
