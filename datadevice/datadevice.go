// Package datadevice wraps the wl_data_device family for selection and
// drag-and-drop transfers. Offers are tracked per device, and an offer
// id the device never announced is rejected instead of trusted.
package datadevice

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/wlkit/wlkit/eventqueue"
	"github.com/wlkit/wlkit/internal/logger"
	"github.com/wlkit/wlkit/protocols"
)

// ErrForeignOffer is returned when the compositor references a data
// offer this device never saw announced.
var ErrForeignOffer = errors.New("data offer was not announced on this device")

// Event is implemented by all data device events.
type Event interface {
	isEvent()
}

// SelectionChanged reports a new selection, Offer is nil when the
// selection was cleared.
type SelectionChanged struct {
	Offer *Offer
}

// DndEnter reports a drag entering a surface.
type DndEnter struct {
	Serial  uint32
	Surface uint32
	X, Y    float64
	Offer   *Offer
}

// DndLeave reports the drag leaving the surface.
type DndLeave struct{}

// DndMotion reports drag motion.
type DndMotion struct {
	Time uint32
	X, Y float64
}

// DndDrop reports the drop.
type DndDrop struct{}

func (SelectionChanged) isEvent() {}
func (DndEnter) isEvent()        {}
func (DndLeave) isEvent()        {}
func (DndMotion) isEvent()       {}
func (DndDrop) isEvent()         {}

// Offer is a data offer with its advertised mime types.
type Offer struct {
	mu            sync.Mutex
	proxy         *protocols.DataOffer
	mimes         []string
	sourceActions uint32
	action        uint32
}

func newOffer(proxy *protocols.DataOffer) *Offer {
	o := &Offer{proxy: proxy}
	if proxy != nil {
		proxy.SetHandler(o.handle)
	}
	return o
}

func (o *Offer) handle(ev protocols.DataOfferEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch ev := ev.(type) {
	case protocols.DataOfferOffer:
		o.mimes = append(o.mimes, ev.MimeType)
	case protocols.DataOfferSourceActions:
		o.sourceActions = ev.Actions
	case protocols.DataOfferAction:
		o.action = ev.Action
	}
}

// MimeTypes returns the advertised mime types in announcement order.
func (o *Offer) MimeTypes() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.mimes...)
}

// Offers reports whether the offer advertises the mime type.
func (o *Offer) Offers(mime string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, m := range o.mimes {
		if m == mime {
			return true
		}
	}
	return false
}

// SourceActions returns the drag actions the source allows.
func (o *Offer) SourceActions() uint32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sourceActions
}

// Action returns the drag action the compositor last selected.
func (o *Offer) Action() uint32 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.action
}

// Accept tells the source whether the drop target can take the mime
// type. An empty mime type rejects the offer.
func (o *Offer) Accept(serial uint32, mime string) error {
	if o.proxy == nil {
		return nil
	}
	return o.proxy.Accept(serial, mime)
}

// SetActions announces the actions the drop target supports and the one
// it prefers.
func (o *Offer) SetActions(actions, preferred uint32) error {
	if o.proxy == nil {
		return nil
	}
	return o.proxy.SetActions(actions, preferred)
}

// Finish tells the source the drag-and-drop transfer succeeded. The
// target must call it after the drop's final Receive, the source only
// releases its data then.
func (o *Offer) Finish() error {
	if o.proxy == nil {
		return nil
	}
	return o.proxy.Finish()
}

// Receive starts a transfer of the offer in the given mime type. The
// returned reader delivers the contents and must be closed. flush runs
// after the request is sent, it should flush the connection so the
// source side sees the request before the first read blocks.
func (o *Offer) Receive(mime string, flush func() error) (io.ReadCloser, error) {
	r, w, err := pipe()
	if err != nil {
		return nil, err
	}
	if err := o.proxy.Receive(mime, w.Fd()); err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	// Our duplicate of the write end must go away, otherwise the pipe
	// never reports EOF.
	if err := w.Close(); err != nil {
		logger.Debug("pipe close failed", "err", err)
	}
	if flush != nil {
		if err := flush(); err != nil {
			r.Close()
			return nil, err
		}
	}
	return r, nil
}

func (o *Offer) destroy() {
	if o.proxy == nil {
		return
	}
	if err := o.proxy.Destroy(); err != nil {
		logger.Debug("data offer destroy failed", "err", err)
	}
}

// SourceData supplies the bytes for one mime type of a local source.
type SourceData func(mime string, w io.Writer) error

// Source is a local data source offered to other clients.
type Source struct {
	proxy     *protocols.DataSource
	write     SourceData
	mimes     []string
	mu        sync.Mutex
	cancelled bool
	action    uint32
	onCancel  func(*Source)
	onTarget  func(mime string)
	onDrop    func()
	onFinish  func(*Source)
}

// SetTargetHandler installs the handler reporting which mime type the
// current drop target would accept, empty when none.
func (s *Source) SetTargetHandler(h func(mime string)) {
	s.mu.Lock()
	s.onTarget = h
	s.mu.Unlock()
}

// SetDropHandler installs the handler called when the drop was
// performed and Send requests may still follow.
func (s *Source) SetDropHandler(h func()) {
	s.mu.Lock()
	s.onDrop = h
	s.mu.Unlock()
}

// SetFinishedHandler installs the handler called when the target
// finished the drag-and-drop transfer. The source is destroyed before
// the handler runs.
func (s *Source) SetFinishedHandler(h func(*Source)) {
	s.mu.Lock()
	s.onFinish = h
	s.mu.Unlock()
}

// Action returns the drag action the compositor last selected.
func (s *Source) Action() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.action
}

// Cancelled reports whether the compositor replaced or dropped the
// source.
func (s *Source) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// MimeTypes returns the mime types the source was created with.
func (s *Source) MimeTypes() []string {
	return append([]string(nil), s.mimes...)
}

func (s *Source) handle(ev protocols.DataSourceEvent) {
	switch ev := ev.(type) {
	case protocols.DataSourceSend:
		s.send(ev)
	case protocols.DataSourceTarget:
		s.mu.Lock()
		cb := s.onTarget
		s.mu.Unlock()
		if cb != nil {
			cb(ev.MimeType)
		}
	case protocols.DataSourceAction:
		s.mu.Lock()
		s.action = ev.Action
		s.mu.Unlock()
	case protocols.DataSourceDndDropPerformed:
		s.mu.Lock()
		cb := s.onDrop
		s.mu.Unlock()
		if cb != nil {
			cb()
		}
	case protocols.DataSourceDndFinished:
		s.mu.Lock()
		cb := s.onFinish
		s.mu.Unlock()
		s.destroyProxy()
		if cb != nil {
			cb(s)
		}
	case protocols.DataSourceCancelled:
		s.mu.Lock()
		s.cancelled = true
		cb := s.onCancel
		s.mu.Unlock()
		s.destroyProxy()
		if cb != nil {
			cb(s)
		}
	}
}

func (s *Source) destroyProxy() {
	if s.proxy == nil {
		return
	}
	if err := s.proxy.Destroy(); err != nil {
		logger.Debug("data source destroy failed", "err", err)
	}
}

// send writes the requested mime type to the transfer fd on its own
// goroutine, the dispatch loop must not block on a slow reader.
func (s *Source) send(ev protocols.DataSourceSend) {
	f := os.NewFile(ev.Fd, "datadevice-send")
	if f == nil {
		return
	}
	go func() {
		defer f.Close()
		if err := s.write(ev.MimeType, f); err != nil {
			logger.Debug("data source write failed", "mime", ev.MimeType, "err", err)
		}
	}()
}

// Device is the per-seat data device.
type Device struct {
	mu        sync.Mutex
	proxy     *protocols.DataDevice
	offers    map[uint32]*Offer // keyed by offer proxy id
	selection *Offer
	dnd       *Offer
	src       eventqueue.Source[Event]
	drain     eventqueue.Drain[Event]
}

// Events returns the drain of the device's event queue.
func (d *Device) Events() eventqueue.Drain[Event] {
	return d.drain
}

// Selection returns the current selection offer, nil when empty.
func (d *Device) Selection() *Offer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selection
}

func (d *Device) handle(ev protocols.DataDeviceEvent) {
	switch ev := ev.(type) {
	case protocols.DataDeviceDataOffer:
		d.trackOffer(newOffer(ev.Offer), ev.Offer.ID())
	case protocols.DataDeviceSelection:
		offer, err := d.takeOffer(ev.Offer)
		if err != nil {
			logger.Error("selection references unknown offer", "id", ev.Offer)
			return
		}
		d.mu.Lock()
		old := d.selection
		d.selection = offer
		d.mu.Unlock()
		if old != nil {
			old.destroy()
		}
		d.src.Push(SelectionChanged{Offer: offer})
	case protocols.DataDeviceEnter:
		offer, err := d.takeOffer(ev.Offer)
		if err != nil {
			logger.Error("drag references unknown offer", "id", ev.Offer)
			return
		}
		d.mu.Lock()
		d.dnd = offer
		d.mu.Unlock()
		d.src.Push(DndEnter{Serial: ev.Serial, Surface: ev.Surface, X: ev.X, Y: ev.Y, Offer: offer})
	case protocols.DataDeviceLeave:
		d.mu.Lock()
		old := d.dnd
		d.dnd = nil
		d.mu.Unlock()
		if old != nil {
			old.destroy()
		}
		d.src.Push(DndLeave{})
	case protocols.DataDeviceMotion:
		d.src.Push(DndMotion{Time: ev.Time, X: ev.X, Y: ev.Y})
	case protocols.DataDeviceDrop:
		d.src.Push(DndDrop{})
	}
}

func (d *Device) trackOffer(o *Offer, id uint32) {
	d.mu.Lock()
	d.offers[id] = o
	d.mu.Unlock()
}

// takeOffer resolves an offer id announced earlier and removes it from
// the pending set. A zero id is an empty offer, a non-zero id the
// device never announced is a protocol violation from our point of
// view and fails with ErrForeignOffer.
func (d *Device) takeOffer(id uint32) (*Offer, error) {
	if id == 0 {
		return nil, nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	o, ok := d.offers[id]
	if !ok {
		return nil, fmt.Errorf("offer %d: %w", id, ErrForeignOffer)
	}
	delete(d.offers, id)
	return o, nil
}

// SetSelection offers source as the new selection. A nil source clears
// it.
func (d *Device) SetSelection(source *Source, serial uint32) error {
	var proxy *protocols.DataSource
	if source != nil {
		proxy = source.proxy
	}
	return d.proxy.SetSelection(proxy, serial)
}

// StartDrag begins a drag of source from origin. icon may be nil.
func (d *Device) StartDrag(source *Source, origin, icon *protocols.Surface, serial uint32) error {
	var proxy *protocols.DataSource
	if source != nil {
		proxy = source.proxy
	}
	return d.proxy.StartDrag(proxy, origin, icon, serial)
}

// Manager creates sources and per-seat devices.
type Manager struct {
	proxy *protocols.DataDeviceManager
}

// NewManager wraps a bound wl_data_device_manager.
func NewManager(proxy *protocols.DataDeviceManager) *Manager {
	return &Manager{proxy: proxy}
}

// NewSource creates a source advertising the given mime types, with
// write supplying the bytes on demand. onCancel, if non-nil, runs when
// the compositor cancels the source.
func (m *Manager) NewSource(mimes []string, write SourceData, onCancel func(*Source)) (*Source, error) {
	proxy, err := m.proxy.CreateDataSource()
	if err != nil {
		return nil, err
	}
	s := &Source{proxy: proxy, write: write, mimes: append([]string(nil), mimes...), onCancel: onCancel}
	proxy.SetHandler(s.handle)
	for _, mime := range mimes {
		if err := proxy.Offer(mime); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// GetDevice creates the data device for a seat.
func (m *Manager) GetDevice(seat *protocols.Seat) (*Device, error) {
	proxy, err := m.proxy.GetDataDevice(seat)
	if err != nil {
		return nil, err
	}
	src, drain := eventqueue.New[Event]()
	d := &Device{proxy: proxy, offers: make(map[uint32]*Offer), src: src, drain: drain}
	proxy.SetHandler(d.handle)
	return d, nil
}
