package output

import (
	"testing"

	"github.com/bnema/wlturbo/wl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlkit/wlkit/protocols"
)

// addEntry inserts a tracked output without a live connection.
func addEntry(m *Manager, id uint32, version uint32, release func()) *entry {
	proxy := protocols.NewOutput(nil, version)
	proxy.SetID(id + 100)
	e := &entry{id: id, proxy: proxy, release: release}
	e.info = Info{ID: id, Version: version, Scale: 1}
	e.pending = e.info
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()
	m.push(Added{ID: id, Version: version})
	return e
}

func drainAll(d interface{ Poll(func(Event)) }) []Event {
	var got []Event
	d.Poll(func(ev Event) { got = append(got, ev) })
	return got
}

func TestStateCommitsOnDone(t *testing.T) {
	m, drain := NewManager(nil)
	e := addEntry(m, 1, 4, nil)

	m.handleOutputEvent(e, protocols.OutputGeometry{X: 0, Y: 0, PhysicalWidth: 600, PhysicalHeight: 340, Make: "ACME", Model: "HD27"})
	m.handleOutputEvent(e, protocols.OutputMode{Flags: protocols.ModeCurrent, Width: 1920, Height: 1080, Refresh: 60000})
	m.handleOutputEvent(e, protocols.OutputName{Name: "DP-1"})

	info, ok := m.Get(1)
	require.True(t, ok)
	assert.Empty(t, info.Make, "state must not leak before done")
	assert.Empty(t, info.Modes)

	m.handleOutputEvent(e, protocols.OutputDone{})

	info, ok = m.Get(1)
	require.True(t, ok)
	assert.Equal(t, "ACME", info.Make)
	assert.Equal(t, "DP-1", info.Name)
	require.Len(t, info.Modes, 1)
	assert.Equal(t, int32(1920), info.Modes[0].Width)

	events := drainAll(drain)
	require.Len(t, events, 2)
	assert.Equal(t, Added{ID: 1, Version: 4}, events[0])
	assert.Equal(t, Done{ID: 1}, events[1])
}

func TestScaleChangedOnlyOnChange(t *testing.T) {
	m, drain := NewManager(nil)
	e := addEntry(m, 7, 4, nil)
	drainAll(drain)

	m.handleOutputEvent(e, protocols.OutputScale{Factor: 2})
	m.handleOutputEvent(e, protocols.OutputDone{})
	events := drainAll(drain)
	require.Len(t, events, 2)
	assert.Equal(t, ScaleChanged{ID: 7, Scale: 2}, events[1])

	// Same scale committed again produces no ScaleChanged.
	m.handleOutputEvent(e, protocols.OutputScale{Factor: 2})
	m.handleOutputEvent(e, protocols.OutputDone{})
	events = drainAll(drain)
	require.Len(t, events, 1)
	assert.Equal(t, Done{ID: 7}, events[0])
}

func TestScaleBelowOneIgnored(t *testing.T) {
	m, _ := NewManager(nil)
	e := addEntry(m, 3, 4, nil)

	m.handleOutputEvent(e, protocols.OutputScale{Factor: 0})
	m.handleOutputEvent(e, protocols.OutputDone{})

	info, _ := m.Get(3)
	assert.Equal(t, int32(1), info.Scale)
}

func TestRemoveIsIdempotent(t *testing.T) {
	m, drain := NewManager(nil)
	released := 0
	addEntry(m, 5, 3, func() { released++ })
	drainAll(drain)

	m.Remove(5)
	m.Remove(5)
	m.Remove(5)

	assert.Equal(t, 1, released, "release must run exactly once")
	events := drainAll(drain)
	require.Len(t, events, 1)
	assert.Equal(t, Removed{ID: 5}, events[0])

	_, ok := m.Get(5)
	assert.False(t, ok)
}

func TestPruneDropsVanishedGlobals(t *testing.T) {
	m, drain := NewManager(nil)
	addEntry(m, 1, 3, nil)
	addEntry(m, 2, 3, nil)
	drainAll(drain)

	m.Prune(map[uint32]wl.Global{
		1: {Name: 1, Interface: protocols.OutputInterface, Version: 3},
	})

	events := drainAll(drain)
	require.Len(t, events, 1)
	assert.Equal(t, Removed{ID: 2}, events[0])
	_, ok := m.Get(1)
	assert.True(t, ok)
	_, ok = m.Get(2)
	assert.False(t, ok)

	// A second prune with the same snapshot removes nothing further.
	m.Prune(map[uint32]wl.Global{
		1: {Name: 1, Interface: protocols.OutputInterface, Version: 3},
	})
	assert.Empty(t, drainAll(drain))
}

func TestProxyIDLookups(t *testing.T) {
	m, _ := NewManager(nil)
	e := addEntry(m, 9, 4, nil)
	m.handleOutputEvent(e, protocols.OutputScale{Factor: 3})
	m.handleOutputEvent(e, protocols.OutputDone{})

	scale, ok := m.ScaleByProxyID(e.proxy.ID())
	require.True(t, ok)
	assert.Equal(t, int32(3), scale)

	id, ok := m.IDByProxyID(e.proxy.ID())
	require.True(t, ok)
	assert.Equal(t, uint32(9), id)

	_, ok = m.ScaleByProxyID(9999)
	assert.False(t, ok)
}
