package datadevice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/protocols"
)

func newTestDevice() *Device {
	src, drain := eventqueue.New[Event]()
	return &Device{offers: make(map[uint32]*Offer), src: src, drain: drain}
}

func pollEvents(d *Device) []Event {
	var got []Event
	d.Events().Poll(func(ev Event) { got = append(got, ev) })
	return got
}

func TestOfferAccumulatesMimeTypes(t *testing.T) {
	o := newOffer(nil)
	o.handle(protocols.DataOfferOffer{MimeType: "text/plain;charset=utf-8"})
	o.handle(protocols.DataOfferOffer{MimeType: "text/plain"})
	o.handle(protocols.DataOfferOffer{MimeType: "text/html"})

	assert.Equal(t, []string{"text/plain;charset=utf-8", "text/plain", "text/html"}, o.MimeTypes())
	assert.True(t, o.Offers("text/html"))
	assert.False(t, o.Offers("image/png"))
}

func TestSourceSurfacesDragEvents(t *testing.T) {
	s := &Source{}
	var target string
	dropped := false
	var finished *Source
	s.SetTargetHandler(func(mime string) { target = mime })
	s.SetDropHandler(func() { dropped = true })
	s.SetFinishedHandler(func(src *Source) { finished = src })

	s.handle(protocols.DataSourceTarget{MimeType: "text/plain"})
	assert.Equal(t, "text/plain", target)

	s.handle(protocols.DataSourceAction{Action: protocols.DndActionMove})
	assert.Equal(t, uint32(protocols.DndActionMove), s.Action())

	s.handle(protocols.DataSourceDndDropPerformed{})
	assert.True(t, dropped)

	s.handle(protocols.DataSourceDndFinished{})
	require.Same(t, s, finished)
	assert.False(t, s.Cancelled(), "a finished transfer is not a cancelled one")
}

func TestOfferDropTargetRequestsAreNilSafe(t *testing.T) {
	o := newOffer(nil)
	require.NoError(t, o.Accept(1, "text/plain"))
	require.NoError(t, o.SetActions(protocols.DndActionCopy, protocols.DndActionCopy))
	require.NoError(t, o.Finish())
}

func TestOfferTracksSelectedAction(t *testing.T) {
	o := newOffer(nil)
	assert.Equal(t, uint32(protocols.DndActionNone), o.Action())
	o.handle(protocols.DataOfferAction{Action: protocols.DndActionCopy})
	assert.Equal(t, uint32(protocols.DndActionCopy), o.Action())
}

func TestOfferSourceActions(t *testing.T) {
	o := newOffer(nil)
	o.handle(protocols.DataOfferSourceActions{Actions: protocols.DndActionCopy | protocols.DndActionMove})
	assert.Equal(t, uint32(protocols.DndActionCopy|protocols.DndActionMove), o.SourceActions())
}

func TestTakeOfferRejectsForeignIDs(t *testing.T) {
	d := newTestDevice()
	o := newOffer(nil)
	d.trackOffer(o, 33)

	got, err := d.takeOffer(33)
	require.NoError(t, err)
	assert.Same(t, o, got)

	// The id was consumed, a second reference is foreign.
	_, err = d.takeOffer(33)
	assert.ErrorIs(t, err, ErrForeignOffer)

	_, err = d.takeOffer(99)
	assert.ErrorIs(t, err, ErrForeignOffer)
}

func TestTakeOfferZeroMeansEmpty(t *testing.T) {
	d := newTestDevice()
	got, err := d.takeOffer(0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSelectionFlow(t *testing.T) {
	d := newTestDevice()
	o := newOffer(nil)
	o.handle(protocols.DataOfferOffer{MimeType: "text/plain"})
	d.trackOffer(o, 5)

	d.handle(protocols.DataDeviceSelection{Offer: 5})

	assert.Same(t, o, d.Selection())
	events := pollEvents(d)
	require.Len(t, events, 1)
	sel, ok := events[0].(SelectionChanged)
	require.True(t, ok)
	assert.Same(t, o, sel.Offer)

	// Clearing the selection delivers a nil offer.
	d.handle(protocols.DataDeviceSelection{Offer: 0})
	assert.Nil(t, d.Selection())
	events = pollEvents(d)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].(SelectionChanged).Offer)
}

func TestSelectionWithUnknownOfferIsDropped(t *testing.T) {
	d := newTestDevice()
	d.handle(protocols.DataDeviceSelection{Offer: 77})

	assert.Nil(t, d.Selection())
	assert.Empty(t, pollEvents(d), "a foreign offer must not become the selection")
}

func TestDragFlow(t *testing.T) {
	d := newTestDevice()
	o := newOffer(nil)
	d.trackOffer(o, 9)

	d.handle(protocols.DataDeviceEnter{Serial: 1, Surface: 4, X: 10, Y: 20, Offer: 9})
	d.handle(protocols.DataDeviceMotion{Time: 2, X: 11, Y: 21})
	d.handle(protocols.DataDeviceDrop{})
	d.handle(protocols.DataDeviceLeave{})

	events := pollEvents(d)
	require.Len(t, events, 4)
	enter := events[0].(DndEnter)
	assert.Same(t, o, enter.Offer)
	assert.Equal(t, 10.0, enter.X)
	assert.IsType(t, DndMotion{}, events[1])
	assert.IsType(t, DndDrop{}, events[2])
	assert.IsType(t, DndLeave{}, events[3])
}

func TestPipeDeliversEOFAfterWriterCloses(t *testing.T) {
	r, w, err := pipe()
	require.NoError(t, err)
	defer r.Close()

	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	buf := make([]byte, 16)
	n, _ := r.Read(buf)
	assert.Equal(t, "payload", string(buf[:n]))
	_, err = r.Read(buf)
	assert.Error(t, err, "closed writer must end the stream")
}
