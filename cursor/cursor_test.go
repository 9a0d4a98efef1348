package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScales map[uint32]int32

func (f fakeScales) ScaleByProxyID(proxyID uint32) (int32, bool) {
	s, ok := f[proxyID]
	return s, ok
}

func TestScaleFollowsEnteredOutputs(t *testing.T) {
	scales := fakeScales{10: 1, 11: 2}
	m := NewManager(nil, nil, nil, "", scales)
	require.Equal(t, int32(1), m.Scale())

	m.handleOutputEnter(10)
	assert.Equal(t, int32(1), m.Scale())
	m.handleOutputEnter(11)
	assert.Equal(t, int32(2), m.Scale())
	m.handleOutputLeave(11)
	assert.Equal(t, int32(1), m.Scale())
}

func TestRefreshScalePicksUpOutputChange(t *testing.T) {
	scales := fakeScales{10: 1}
	m := NewManager(nil, nil, nil, "", scales)
	m.handleOutputEnter(10)
	require.Equal(t, int32(1), m.Scale())

	scales[10] = 3
	m.RefreshScale()
	assert.Equal(t, int32(3), m.Scale())

	delete(scales, 10)
	m.RefreshScale()
	assert.Equal(t, int32(1), m.Scale())
}

func TestNilLookupPinsScaleToOne(t *testing.T) {
	m := NewManager(nil, nil, nil, "", nil)
	m.handleOutputEnter(10)
	m.RefreshScale()
	assert.Equal(t, int32(1), m.Scale())
}
