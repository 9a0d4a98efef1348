// Package clipboard is a selection owner and reader built on the data
// device. Reading negotiates a mime type, with the local preference
// list deciding between the types both sides understand.
package clipboard

import (
	"errors"
	"io"
	"sync"

	"github.com/wlkit/wlkit/datadevice"
)

// ErrEmpty is returned when no client currently owns the selection. An
// empty clipboard is a normal condition, not a failure.
var ErrEmpty = errors.New("clipboard is empty")

// ErrNoCommonMime is returned when the selection owner offers none of
// the requested mime types.
var ErrNoCommonMime = errors.New("no mime type in common with the selection owner")

// TextMimeTypes are the types a plain text selection is offered under,
// most specific first.
var TextMimeTypes = []string{
	"text/plain;charset=utf-8",
	"UTF8_STRING",
	"text/plain",
	"STRING",
	"TEXT",
}

// Negotiate picks the transfer mime type. The first entry of local that
// the remote side offers wins, so local preference order decides.
func Negotiate(local, offered []string) (string, bool) {
	for _, want := range local {
		for _, have := range offered {
			if want == have {
				return want, true
			}
		}
	}
	return "", false
}

// Clipboard owns and reads the selection of one seat.
type Clipboard struct {
	manager *datadevice.Manager
	device  *datadevice.Device
	flush   func() error

	mu    sync.Mutex
	owned *datadevice.Source
}

// New returns a clipboard for the given device. flush is called after
// requests that another client waits on, it should flush the
// connection.
func New(manager *datadevice.Manager, device *datadevice.Device, flush func() error) *Clipboard {
	return &Clipboard{manager: manager, device: device, flush: flush}
}

// Set takes the selection, offering contents under their mime types.
// serial is the input event serial that justifies the take.
func (c *Clipboard) Set(contents map[string][]byte, serial uint32) error {
	mimes := make([]string, 0, len(contents))
	for mime := range contents {
		mimes = append(mimes, mime)
	}
	source, err := c.manager.NewSource(mimes, func(mime string, w io.Writer) error {
		data, ok := contents[mime]
		if !ok {
			return nil
		}
		_, err := w.Write(data)
		return err
	}, c.sourceCancelled)
	if err != nil {
		return err
	}
	if err := c.device.SetSelection(source, serial); err != nil {
		return err
	}
	c.mu.Lock()
	c.owned = source
	c.mu.Unlock()
	return nil
}

// SetText takes the selection with plain text content.
func (c *Clipboard) SetText(text string, serial uint32) error {
	contents := make(map[string][]byte, len(TextMimeTypes))
	for _, mime := range TextMimeTypes {
		contents[mime] = []byte(text)
	}
	return c.Set(contents, serial)
}

// Clear gives the selection up if this clipboard owns it.
func (c *Clipboard) Clear(serial uint32) error {
	c.mu.Lock()
	c.owned = nil
	c.mu.Unlock()
	return c.device.SetSelection(nil, serial)
}

// Owns reports whether this clipboard still owns the selection.
func (c *Clipboard) Owns() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owned != nil && !c.owned.Cancelled()
}

func (c *Clipboard) sourceCancelled(s *datadevice.Source) {
	c.mu.Lock()
	if c.owned == s {
		c.owned = nil
	}
	c.mu.Unlock()
}

// Get opens the selection for reading in the first preferred mime type
// the owner offers. It returns ErrEmpty without an owner and
// ErrNoCommonMime when preferences and offer do not intersect.
func (c *Clipboard) Get(preferred []string) (io.ReadCloser, string, error) {
	offer := c.device.Selection()
	if offer == nil {
		return nil, "", ErrEmpty
	}
	mime, ok := Negotiate(preferred, offer.MimeTypes())
	if !ok {
		return nil, "", ErrNoCommonMime
	}
	r, err := offer.Receive(mime, c.flush)
	if err != nil {
		return nil, "", err
	}
	return r, mime, nil
}

// GetText reads the selection as text.
func (c *Clipboard) GetText() (string, error) {
	r, _, err := c.Get(TextMimeTypes)
	if err != nil {
		return "", err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
