package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/seat"
)

type fakeLookup struct {
	scales map[uint32]int32 // keyed by output proxy id
	names  map[uint32]uint32
}

func (f fakeLookup) ScaleByProxyID(proxyID uint32) (int32, bool) {
	s, ok := f.scales[proxyID]
	return s, ok
}

func (f fakeLookup) IDByProxyID(proxyID uint32) (uint32, bool) {
	n, ok := f.names[proxyID]
	return n, ok
}

func newTestSurface(lookup fakeLookup) (*Surface, eventqueue.Drain[Event]) {
	src, drain := eventqueue.New[Event]()
	return newSurface(nil, lookup, src), drain
}

func poll(d eventqueue.Drain[Event]) []Event {
	var got []Event
	d.Poll(func(ev Event) { got = append(got, ev) })
	return got
}

func TestScaleIsMaxOverEnteredOutputs(t *testing.T) {
	lookup := fakeLookup{
		scales: map[uint32]int32{10: 1, 11: 2, 12: 3},
		names:  map[uint32]uint32{10: 1, 11: 2, 12: 3},
	}
	s, drain := newTestSurface(lookup)

	s.handleEnter(10)
	assert.Equal(t, int32(1), s.Scale())
	events := poll(drain)
	require.Len(t, events, 1)
	assert.Equal(t, Enter{OutputID: 1}, events[0])

	s.handleEnter(12)
	assert.Equal(t, int32(3), s.Scale())
	events = poll(drain)
	require.Len(t, events, 2)
	assert.Equal(t, Enter{OutputID: 3}, events[0])
	assert.Equal(t, Scale{Factor: 3}, events[1])

	s.handleEnter(11)
	assert.Equal(t, int32(3), s.Scale(), "lower-scale output must not lower the max")
	events = poll(drain)
	require.Len(t, events, 1, "no Scale event when factor unchanged")
	assert.Equal(t, Enter{OutputID: 2}, events[0])
}

func TestScaleDropsOnLeave(t *testing.T) {
	lookup := fakeLookup{
		scales: map[uint32]int32{10: 1, 11: 2},
		names:  map[uint32]uint32{10: 1, 11: 2},
	}
	s, drain := newTestSurface(lookup)
	s.handleEnter(10)
	s.handleEnter(11)
	poll(drain)

	s.handleLeave(11)
	assert.Equal(t, int32(1), s.Scale())
	events := poll(drain)
	require.Len(t, events, 2)
	assert.Equal(t, Leave{OutputID: 2}, events[0])
	assert.Equal(t, Scale{Factor: 1}, events[1])
}

func TestScaleNeverBelowOne(t *testing.T) {
	s, drain := newTestSurface(fakeLookup{})
	s.handleLeave(42)
	assert.Equal(t, int32(1), s.Scale())
	assert.Empty(t, poll(drain), "unknown output produces no events")
}

func TestRefreshPicksUpOutputScaleChange(t *testing.T) {
	lookup := fakeLookup{
		scales: map[uint32]int32{10: 1},
		names:  map[uint32]uint32{10: 1},
	}
	s, drain := newTestSurface(lookup)
	s.handleEnter(10)
	poll(drain)

	lookup.scales[10] = 2
	s.refresh()
	events := poll(drain)
	require.Len(t, events, 1)
	assert.Equal(t, Scale{Factor: 2}, events[0])

	// Refresh without a change stays silent.
	s.refresh()
	assert.Empty(t, poll(drain))
}

func TestRefreshIgnoresVanishedOutputs(t *testing.T) {
	lookup := fakeLookup{
		scales: map[uint32]int32{10: 2},
		names:  map[uint32]uint32{10: 1},
	}
	s, drain := newTestSurface(lookup)
	s.handleEnter(10)
	poll(drain)
	require.Equal(t, int32(2), s.Scale())

	delete(lookup.scales, 10)
	s.refresh()
	events := poll(drain)
	require.Len(t, events, 1)
	assert.Equal(t, Scale{Factor: 1}, events[0])
}

func TestRefreshDropsVanishedOutputsFromEnteredSet(t *testing.T) {
	lookup := fakeLookup{
		scales: map[uint32]int32{10: 3},
		names:  map[uint32]uint32{10: 1},
	}
	s, drain := newTestSurface(lookup)
	s.handleEnter(10)
	poll(drain)
	require.Equal(t, int32(3), s.Scale())

	// The output goes away without a leave event.
	delete(lookup.scales, 10)
	delete(lookup.names, 10)
	s.refresh()
	require.Equal(t, int32(1), s.Scale())

	// A later global reusing the proxy id must not resurrect the stale
	// membership.
	lookup.scales[10] = 3
	lookup.names[10] = 2
	s.refresh()
	assert.Equal(t, int32(1), s.Scale())
	assert.Empty(t, s.entered)
}

func TestInputsQueueIsPerSurface(t *testing.T) {
	a, _ := newTestSurface(fakeLookup{})
	b, _ := newTestSurface(fakeLookup{})

	a.inputSrc.Push(seat.KeyPress{Code: 38})

	var got []seat.InputEvent
	a.Inputs().Poll(func(ev seat.InputEvent) { got = append(got, ev) })
	require.Len(t, got, 1)
	var other []seat.InputEvent
	b.Inputs().Poll(func(ev seat.InputEvent) { other = append(other, ev) })
	assert.Empty(t, other)
}
