package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Xcursor file constants.
const (
	xcursorMagic     = 0x72756358 // "Xcur" little endian
	xcursorImageType = 0xfffd0002
	xcursorHeaderLen = 16
	xcursorTocLen    = 12
	xcursorImageLen  = 36
)

var errTruncated = errors.New("xcursor: truncated file")

// Image is one cursor frame. Pixels are ARGB8888, row major,
// premultiplied, little endian per pixel.
type Image struct {
	Size     uint32 // nominal size the frame was designed for
	Width    uint32
	Height   uint32
	HotspotX uint32
	HotspotY uint32
	Delay    uint32 // milliseconds, zero for static cursors
	Pixels   []byte
}

// ParseXcursor decodes an Xcursor file into all of its frames, across
// every nominal size the file carries.
func ParseXcursor(data []byte) ([]Image, error) {
	if len(data) < xcursorHeaderLen {
		return nil, errTruncated
	}
	if binary.LittleEndian.Uint32(data[0:]) != xcursorMagic {
		return nil, errors.New("xcursor: bad magic")
	}
	ntoc := binary.LittleEndian.Uint32(data[12:])
	if uint64(xcursorHeaderLen)+uint64(ntoc)*xcursorTocLen > uint64(len(data)) {
		return nil, errTruncated
	}

	var images []Image
	for i := uint32(0); i < ntoc; i++ {
		off := xcursorHeaderLen + int(i)*xcursorTocLen
		chunkType := binary.LittleEndian.Uint32(data[off:])
		position := binary.LittleEndian.Uint32(data[off+8:])
		if chunkType != xcursorImageType {
			continue
		}
		img, err := parseImageChunk(data, int(position))
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return nil, errors.New("xcursor: no image chunks")
	}
	return images, nil
}

func parseImageChunk(data []byte, pos int) (Image, error) {
	if pos < 0 || pos+xcursorImageLen > len(data) {
		return Image{}, errTruncated
	}
	chunk := data[pos:]
	if binary.LittleEndian.Uint32(chunk[4:]) != xcursorImageType {
		return Image{}, errors.New("xcursor: toc points at non-image chunk")
	}
	img := Image{
		Size:     binary.LittleEndian.Uint32(chunk[8:]),
		Width:    binary.LittleEndian.Uint32(chunk[16:]),
		Height:   binary.LittleEndian.Uint32(chunk[20:]),
		HotspotX: binary.LittleEndian.Uint32(chunk[24:]),
		HotspotY: binary.LittleEndian.Uint32(chunk[28:]),
		Delay:    binary.LittleEndian.Uint32(chunk[32:]),
	}
	// Dimension sanity, the format caps cursors at 32k a side.
	if img.Width > 0x7fff || img.Height > 0x7fff {
		return Image{}, fmt.Errorf("xcursor: implausible image %dx%d", img.Width, img.Height)
	}
	n := int(img.Width) * int(img.Height) * 4
	start := pos + xcursorImageLen
	if start+n > len(data) {
		return Image{}, errTruncated
	}
	img.Pixels = chunk[xcursorImageLen : xcursorImageLen+n]
	return img, nil
}

// BestSize filters frames to the nominal size closest to want,
// preserving frame order for animations.
func BestSize(images []Image, want uint32) []Image {
	if len(images) == 0 {
		return nil
	}
	best := images[0].Size
	for _, img := range images {
		if diff(img.Size, want) < diff(best, want) {
			best = img.Size
		}
	}
	var out []Image
	for _, img := range images {
		if img.Size == best {
			out = append(out, img)
		}
	}
	return out
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
