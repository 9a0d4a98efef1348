package toplevel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlkit/wlkit/protocols"
)

func pollEvents(t *Tracker) []Event {
	var got []Event
	t.Events().Poll(func(ev Event) { got = append(got, ev) })
	return got
}

func TestWindowAnnouncedOnFirstDone(t *testing.T) {
	tracker := NewTracker(nil)
	w := &Window{}
	tracker.windows = append(tracker.windows, w)

	tracker.handleWindowEvent(w, protocols.ForeignHandleTitle{Title: "editor"})
	tracker.handleWindowEvent(w, protocols.ForeignHandleAppID{AppID: "org.example.editor"})
	assert.Empty(t, pollEvents(tracker), "properties stay invisible until done")
	assert.Empty(t, w.State().Title)

	tracker.handleWindowEvent(w, protocols.ForeignHandleDone{})

	events := pollEvents(tracker)
	require.Len(t, events, 1)
	added, ok := events[0].(Added)
	require.True(t, ok)
	assert.Same(t, w, added.Window)
	state := w.State()
	assert.Equal(t, "editor", state.Title)
	assert.Equal(t, "org.example.editor", state.AppID)
}

func TestSubsequentDoneIsChanged(t *testing.T) {
	tracker := NewTracker(nil)
	w := &Window{}
	tracker.windows = append(tracker.windows, w)

	tracker.handleWindowEvent(w, protocols.ForeignHandleDone{})
	pollEvents(tracker)

	tracker.handleWindowEvent(w, protocols.ForeignHandleState{States: []uint32{protocols.ForeignStateActivated}})
	tracker.handleWindowEvent(w, protocols.ForeignHandleDone{})

	events := pollEvents(tracker)
	require.Len(t, events, 1)
	_, ok := events[0].(Changed)
	assert.True(t, ok)
	assert.True(t, w.State().Activated)
}

func TestStateSetReplacesPreviousSet(t *testing.T) {
	w := &Window{}
	w.apply(protocols.ForeignHandleState{States: []uint32{protocols.ForeignStateMaximized, protocols.ForeignStateActivated}})
	w.apply(protocols.ForeignHandleDone{})
	require.True(t, w.State().Maximized)

	w.apply(protocols.ForeignHandleState{States: []uint32{protocols.ForeignStateMinimized}})
	w.apply(protocols.ForeignHandleDone{})

	state := w.State()
	assert.False(t, state.Maximized, "missing states clear")
	assert.False(t, state.Activated)
	assert.True(t, state.Minimized)
}

func TestOutputEnterLeave(t *testing.T) {
	w := &Window{}
	w.apply(protocols.ForeignHandleOutputEnter{Output: 4})
	w.apply(protocols.ForeignHandleOutputEnter{Output: 5})
	w.apply(protocols.ForeignHandleDone{})
	assert.Equal(t, []uint32{4, 5}, w.State().Outputs)

	w.apply(protocols.ForeignHandleOutputLeave{Output: 4})
	w.apply(protocols.ForeignHandleDone{})
	assert.Equal(t, []uint32{5}, w.State().Outputs)
}

func TestClosedRemovesWindow(t *testing.T) {
	tracker := NewTracker(nil)
	w := &Window{}
	tracker.windows = append(tracker.windows, w)
	tracker.handleWindowEvent(w, protocols.ForeignHandleTitle{Title: "gone"})
	tracker.handleWindowEvent(w, protocols.ForeignHandleDone{})
	pollEvents(tracker)

	tracker.handleWindowEvent(w, protocols.ForeignHandleClosed{})

	events := pollEvents(tracker)
	require.Len(t, events, 1)
	closed, ok := events[0].(Closed)
	require.True(t, ok)
	assert.Same(t, w, closed.Window)
	assert.Empty(t, tracker.Windows())
	assert.Equal(t, "gone", w.State().Title, "last state stays readable")
}
