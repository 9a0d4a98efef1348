package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// DataDeviceManagerInterface is the wl_data_device_manager global
// interface name.
const DataDeviceManagerInterface = "wl_data_device_manager"

// wl_data_device_manager request opcodes
const (
	opDDMCreateDataSource = 0
	opDDMGetDataDevice    = 1
)

// wl_data_source request opcodes
const (
	opDataSourceOffer      = 0
	opDataSourceDestroy    = 1
	opDataSourceSetActions = 2
)

// wl_data_source event opcodes
const (
	evDataSourceTarget           = 0
	evDataSourceSend             = 1
	evDataSourceCancelled        = 2
	evDataSourceDndDropPerformed = 3
	evDataSourceDndFinished      = 4
	evDataSourceAction           = 5
)

// wl_data_device request opcodes
const (
	opDataDeviceStartDrag    = 0
	opDataDeviceSetSelection = 1
	opDataDeviceRelease      = 2
)

// wl_data_device event opcodes
const (
	evDataDeviceDataOffer = 0
	evDataDeviceEnter     = 1
	evDataDeviceLeave     = 2
	evDataDeviceMotion    = 3
	evDataDeviceDrop      = 4
	evDataDeviceSelection = 5
)

// wl_data_offer request opcodes
const (
	opDataOfferAccept     = 0
	opDataOfferReceive    = 1
	opDataOfferDestroy    = 2
	opDataOfferFinish     = 3
	opDataOfferSetActions = 4
)

// wl_data_offer event opcodes
const (
	evDataOfferOffer         = 0
	evDataOfferSourceActions = 1
	evDataOfferAction        = 2
)

// Drag-and-drop action bits from wl_data_device_manager.dnd_action.
const (
	DndActionNone = 0
	DndActionCopy = 1
	DndActionMove = 2
	DndActionAsk  = 4
)

// DataDeviceManager is a wl_data_device_manager proxy.
type DataDeviceManager struct {
	wl.BaseProxy
	version uint32
}

// NewDataDeviceManager prepares a manager proxy for binding.
func NewDataDeviceManager(ctx *wl.Context, version uint32) *DataDeviceManager {
	m := &DataDeviceManager{version: version}
	m.SetContext(ctx)
	return m
}

// Version returns the bound version.
func (m *DataDeviceManager) Version() uint32 {
	return m.version
}

// CreateDataSource creates a new data source.
func (m *DataDeviceManager) CreateDataSource() (*DataSource, error) {
	ctx := m.Context()
	s := &DataSource{version: m.version}
	s.SetContext(ctx)
	s.SetID(ctx.AllocateID())
	ctx.Register(s)
	if err := ctx.SendRequest(m, opDDMCreateDataSource, s.ID()); err != nil {
		ctx.Unregister(s)
		return nil, err
	}
	return s, nil
}

// GetDataDevice creates a data device for the given seat.
func (m *DataDeviceManager) GetDataDevice(seat *Seat) (*DataDevice, error) {
	ctx := m.Context()
	d := &DataDevice{version: m.version}
	d.SetContext(ctx)
	d.SetID(ctx.AllocateID())
	ctx.Register(d)
	if err := ctx.SendRequest(m, opDDMGetDataDevice, d.ID(), seat.ID()); err != nil {
		ctx.Unregister(d)
		return nil, err
	}
	return d, nil
}

// DataSourceEvent is implemented by all wl_data_source event types.
type DataSourceEvent interface {
	isDataSourceEvent()
}

// DataSourceTarget reports the mime type currently accepted by the
// target, empty if none.
type DataSourceTarget struct {
	MimeType string
}

// DataSourceSend asks for the contents in the given mime type to be
// written to Fd. The receiver owns closing Fd.
type DataSourceSend struct {
	MimeType string
	Fd       uintptr
}

// DataSourceCancelled reports that the source has been replaced or the
// drag was abandoned.
type DataSourceCancelled struct{}

// DataSourceDndDropPerformed reports that the drop happened.
type DataSourceDndDropPerformed struct{}

// DataSourceDndFinished reports that the target has finished with the
// data.
type DataSourceDndFinished struct{}

// DataSourceAction reports the action the compositor selected.
type DataSourceAction struct {
	Action uint32
}

func (DataSourceTarget) isDataSourceEvent()           {}
func (DataSourceSend) isDataSourceEvent()             {}
func (DataSourceCancelled) isDataSourceEvent()        {}
func (DataSourceDndDropPerformed) isDataSourceEvent() {}
func (DataSourceDndFinished) isDataSourceEvent()      {}
func (DataSourceAction) isDataSourceEvent()           {}

// DataSource is a wl_data_source proxy.
type DataSource struct {
	wl.BaseProxy
	version uint32
	handler func(DataSourceEvent)
}

// Version returns the version the source was created with.
func (s *DataSource) Version() uint32 {
	return s.version
}

// SetHandler installs the event handler.
func (s *DataSource) SetHandler(h func(DataSourceEvent)) {
	s.handler = h
}

// Offer advertises a mime type.
func (s *DataSource) Offer(mimeType string) error {
	return s.Context().SendRequest(s, opDataSourceOffer, mimeType)
}

// SetActions sets the allowed drag-and-drop actions. Requires version 3.
func (s *DataSource) SetActions(actions uint32) error {
	if s.version < 3 {
		return nil
	}
	return s.Context().SendRequest(s, opDataSourceSetActions, actions)
}

// Destroy destroys the data source.
func (s *DataSource) Destroy() error {
	err := s.Context().SendRequest(s, opDataSourceDestroy)
	if err == nil {
		s.Context().Unregister(s)
	}
	return err
}

// Dispatch decodes wl_data_source events.
func (s *DataSource) Dispatch(event *wl.Event) {
	if s.handler == nil {
		return
	}
	switch event.Opcode {
	case evDataSourceTarget:
		s.handler(DataSourceTarget{MimeType: event.String()})
	case evDataSourceSend:
		s.handler(DataSourceSend{MimeType: event.String(), Fd: event.Fd()})
	case evDataSourceCancelled:
		s.handler(DataSourceCancelled{})
	case evDataSourceDndDropPerformed:
		s.handler(DataSourceDndDropPerformed{})
	case evDataSourceDndFinished:
		s.handler(DataSourceDndFinished{})
	case evDataSourceAction:
		s.handler(DataSourceAction{Action: event.Uint32()})
	}
}

// DataDeviceEvent is implemented by all wl_data_device event types.
type DataDeviceEvent interface {
	isDataDeviceEvent()
}

// DataDeviceDataOffer announces a new offer object created by the
// compositor. The offer's mime types arrive on the offer itself before
// the enter or selection event that references it.
type DataDeviceDataOffer struct {
	Offer *DataOffer
}

// DataDeviceEnter reports a drag entering a surface.
type DataDeviceEnter struct {
	Serial  uint32
	Surface uint32
	X, Y    float64
	Offer   uint32
}

// DataDeviceLeave reports a drag leaving the surface.
type DataDeviceLeave struct{}

// DataDeviceMotion reports drag motion over the surface.
type DataDeviceMotion struct {
	Time uint32
	X, Y float64
}

// DataDeviceDrop reports that the drag was dropped on the surface.
type DataDeviceDrop struct{}

// DataDeviceSelection advertises the current selection. Offer is the
// proxy id of a previously announced wl_data_offer, zero when the
// selection is empty.
type DataDeviceSelection struct {
	Offer uint32
}

func (DataDeviceDataOffer) isDataDeviceEvent() {}
func (DataDeviceEnter) isDataDeviceEvent()     {}
func (DataDeviceLeave) isDataDeviceEvent()     {}
func (DataDeviceMotion) isDataDeviceEvent()    {}
func (DataDeviceDrop) isDataDeviceEvent()      {}
func (DataDeviceSelection) isDataDeviceEvent() {}

// DataDevice is a wl_data_device proxy.
type DataDevice struct {
	wl.BaseProxy
	version uint32
	handler func(DataDeviceEvent)
}

// Version returns the version the device was created with.
func (d *DataDevice) Version() uint32 {
	return d.version
}

// SetHandler installs the event handler.
func (d *DataDevice) SetHandler(h func(DataDeviceEvent)) {
	d.handler = h
}

// StartDrag starts a drag-and-drop operation. Source and icon may be
// nil.
func (d *DataDevice) StartDrag(source *DataSource, origin *Surface, icon *Surface, serial uint32) error {
	var sourceArg, iconArg interface{}
	if source != nil {
		sourceArg = source
	}
	if icon != nil {
		iconArg = icon
	}
	return d.Context().SendRequest(d, opDataDeviceStartDrag, sourceArg, origin, iconArg, serial)
}

// SetSelection sets the selection to the given source. A nil source
// clears the selection.
func (d *DataDevice) SetSelection(source *DataSource, serial uint32) error {
	var sourceArg interface{}
	if source != nil {
		sourceArg = source
	}
	return d.Context().SendRequest(d, opDataDeviceSetSelection, sourceArg, serial)
}

// Release destroys the data device. Requires version 2.
func (d *DataDevice) Release() error {
	if d.version < 2 {
		d.Context().Unregister(d)
		return nil
	}
	err := d.Context().SendRequest(d, opDataDeviceRelease)
	if err == nil {
		d.Context().Unregister(d)
	}
	return err
}

// Dispatch decodes wl_data_device events. The data_offer event carries
// a server-allocated new_id, the offer proxy is created and registered
// here before being handed to the handler.
func (d *DataDevice) Dispatch(event *wl.Event) {
	if d.handler == nil {
		return
	}
	switch event.Opcode {
	case evDataDeviceDataOffer:
		ctx := d.Context()
		offer := &DataOffer{version: d.version}
		offer.SetContext(ctx)
		offer.SetID(event.Uint32())
		ctx.Register(offer)
		d.handler(DataDeviceDataOffer{Offer: offer})
	case evDataDeviceEnter:
		d.handler(DataDeviceEnter{
			Serial:  event.Uint32(),
			Surface: event.Uint32(),
			X:       event.Fixed().Float64(),
			Y:       event.Fixed().Float64(),
			Offer:   event.Uint32(),
		})
	case evDataDeviceLeave:
		d.handler(DataDeviceLeave{})
	case evDataDeviceMotion:
		d.handler(DataDeviceMotion{
			Time: event.Uint32(),
			X:    event.Fixed().Float64(),
			Y:    event.Fixed().Float64(),
		})
	case evDataDeviceDrop:
		d.handler(DataDeviceDrop{})
	case evDataDeviceSelection:
		d.handler(DataDeviceSelection{Offer: event.Uint32()})
	}
}

// DataOfferEvent is implemented by all wl_data_offer event types.
type DataOfferEvent interface {
	isDataOfferEvent()
}

// DataOfferOffer advertises one mime type the offer can deliver.
type DataOfferOffer struct {
	MimeType string
}

// DataOfferSourceActions reports the actions the source side allows.
type DataOfferSourceActions struct {
	Actions uint32
}

// DataOfferAction reports the action the compositor selected.
type DataOfferAction struct {
	Action uint32
}

func (DataOfferOffer) isDataOfferEvent()         {}
func (DataOfferSourceActions) isDataOfferEvent() {}
func (DataOfferAction) isDataOfferEvent()        {}

// DataOffer is a wl_data_offer proxy created by the compositor.
type DataOffer struct {
	wl.BaseProxy
	version uint32
	handler func(DataOfferEvent)
}

// Version returns the version inherited from the data device.
func (o *DataOffer) Version() uint32 {
	return o.version
}

// SetHandler installs the event handler.
func (o *DataOffer) SetHandler(h func(DataOfferEvent)) {
	o.handler = h
}

// Accept indicates whether the given mime type is acceptable. An empty
// mime type rejects the offer.
func (o *DataOffer) Accept(serial uint32, mimeType string) error {
	return o.Context().SendRequest(o, opDataOfferAccept, serial, mimeType)
}

// Receive asks for the offer contents in the given mime type to be
// written to fd. The fd travels as SCM_RIGHTS ancillary data and can be
// closed by the caller afterwards.
func (o *DataOffer) Receive(mimeType string, fd uintptr) error {
	return o.Context().SendRequestWithFDs(o, opDataOfferReceive, []int{int(fd)}, mimeType, fd)
}

// Finish notifies the source that the drag-and-drop transfer completed.
// Requires version 3.
func (o *DataOffer) Finish() error {
	if o.version < 3 {
		return nil
	}
	return o.Context().SendRequest(o, opDataOfferFinish)
}

// SetActions sets the actions the destination accepts and the preferred
// one. Requires version 3.
func (o *DataOffer) SetActions(actions, preferred uint32) error {
	if o.version < 3 {
		return nil
	}
	return o.Context().SendRequest(o, opDataOfferSetActions, actions, preferred)
}

// Destroy destroys the offer.
func (o *DataOffer) Destroy() error {
	err := o.Context().SendRequest(o, opDataOfferDestroy)
	if err == nil {
		o.Context().Unregister(o)
	}
	return err
}

// Dispatch decodes wl_data_offer events.
func (o *DataOffer) Dispatch(event *wl.Event) {
	if o.handler == nil {
		return
	}
	switch event.Opcode {
	case evDataOfferOffer:
		o.handler(DataOfferOffer{MimeType: event.String()})
	case evDataOfferSourceActions:
		o.handler(DataOfferSourceActions{Actions: event.Uint32()})
	case evDataOfferAction:
		o.handler(DataOfferAction{Action: event.Uint32()})
	}
}
