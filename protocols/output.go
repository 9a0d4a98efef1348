package protocols

import (
	"github.com/bnema/wlturbo/wl"
)

// OutputInterface is the wl_output interface name.
const OutputInterface = "wl_output"

// wl_output request opcodes
const (
	opOutputRelease = 0
)

// wl_output event opcodes
const (
	evOutputGeometry    = 0
	evOutputMode        = 1
	evOutputDone        = 2
	evOutputScale       = 3
	evOutputName        = 4
	evOutputDescription = 5
)

// Subpixel layouts advertised by wl_output.geometry.
const (
	SubpixelUnknown       = 0
	SubpixelNone          = 1
	SubpixelHorizontalRGB = 2
	SubpixelHorizontalBGR = 3
	SubpixelVerticalRGB   = 4
	SubpixelVerticalBGR   = 5
)

// Output transforms advertised by wl_output.geometry.
const (
	TransformNormal     = 0
	Transform90         = 1
	Transform180        = 2
	Transform270        = 3
	TransformFlipped    = 4
	TransformFlipped90  = 5
	TransformFlipped180 = 6
	TransformFlipped270 = 7
)

// wl_output.mode flags.
const (
	ModeCurrent   = 0x1
	ModePreferred = 0x2
)

// OutputEvent is implemented by all wl_output event types.
type OutputEvent interface {
	isOutputEvent()
}

// OutputGeometry carries the wl_output.geometry event.
type OutputGeometry struct {
	X, Y                          int32
	PhysicalWidth, PhysicalHeight int32
	Subpixel                      int32
	Make, Model                   string
	Transform                     int32
}

// OutputMode carries the wl_output.mode event.
type OutputMode struct {
	Flags         uint32
	Width, Height int32
	Refresh       int32
}

// OutputDone carries the wl_output.done event.
type OutputDone struct{}

// OutputScale carries the wl_output.scale event.
type OutputScale struct {
	Factor int32
}

// OutputName carries the wl_output.name event (version 4).
type OutputName struct {
	Name string
}

// OutputDescription carries the wl_output.description event (version 4).
type OutputDescription struct {
	Description string
}

func (OutputGeometry) isOutputEvent()    {}
func (OutputMode) isOutputEvent()        {}
func (OutputDone) isOutputEvent()        {}
func (OutputScale) isOutputEvent()       {}
func (OutputName) isOutputEvent()        {}
func (OutputDescription) isOutputEvent() {}

// Output is a wl_output proxy.
type Output struct {
	wl.BaseProxy
	version uint32
	handler func(OutputEvent)
}

// NewOutput creates an unbound wl_output proxy for the given context.
// Bind it through the registry before use.
func NewOutput(ctx *wl.Context, version uint32) *Output {
	o := &Output{version: version}
	o.SetContext(ctx)
	return o
}

// Version returns the version the output was bound with.
func (o *Output) Version() uint32 {
	return o.version
}

// SetHandler installs the event handler. Events arriving with no
// handler installed are dropped.
func (o *Output) SetHandler(h func(OutputEvent)) {
	o.handler = h
}

// Release releases the output. Only valid on version 3 and above;
// callers gate on Version.
func (o *Output) Release() error {
	err := o.Context().SendRequest(o, opOutputRelease)
	if err == nil {
		o.Context().Unregister(o)
	}
	return err
}

// Dispatch decodes wl_output events.
func (o *Output) Dispatch(event *wl.Event) {
	if o.handler == nil {
		return
	}
	switch event.Opcode {
	case evOutputGeometry:
		o.handler(OutputGeometry{
			X:              event.Int32(),
			Y:              event.Int32(),
			PhysicalWidth:  event.Int32(),
			PhysicalHeight: event.Int32(),
			Subpixel:       event.Int32(),
			Make:           event.String(),
			Model:          event.String(),
			Transform:      event.Int32(),
		})
	case evOutputMode:
		o.handler(OutputMode{
			Flags:   event.Uint32(),
			Width:   event.Int32(),
			Height:  event.Int32(),
			Refresh: event.Int32(),
		})
	case evOutputDone:
		o.handler(OutputDone{})
	case evOutputScale:
		o.handler(OutputScale{Factor: event.Int32()})
	case evOutputName:
		o.handler(OutputName{Name: event.String()})
	case evOutputDescription:
		o.handler(OutputDescription{Description: event.String()})
	}
}
