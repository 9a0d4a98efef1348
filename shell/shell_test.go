package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wlkit/wlkit/protocols"
)

func TestBarBottomLayout(t *testing.T) {
	l := BarBottom(35)

	assert.Equal(t, uint32(protocols.LayerTop), l.Layer)
	assert.Equal(t, uint32(protocols.AnchorBottom|protocols.AnchorLeft|protocols.AnchorRight), l.Anchor)
	assert.Equal(t, uint32(0), l.Width, "width zero spans the output")
	assert.Equal(t, uint32(35), l.Height)
	assert.Equal(t, int32(35), l.ExclusiveZone, "the bar reserves its own height")
}

func TestBarTopLayout(t *testing.T) {
	l := BarTop(20)
	assert.Equal(t, uint32(protocols.AnchorTop|protocols.AnchorLeft|protocols.AnchorRight), l.Anchor)
	assert.Equal(t, int32(20), l.ExclusiveZone)
}

func TestOverlayLayout(t *testing.T) {
	l := Overlay()
	assert.Equal(t, uint32(protocols.LayerOverlay), l.Layer)
	assert.Equal(t, int32(0), l.ExclusiveZone)
	anchorAll := uint32(protocols.AnchorTop | protocols.AnchorBottom | protocols.AnchorLeft | protocols.AnchorRight)
	assert.Equal(t, anchorAll, l.Anchor)
}
