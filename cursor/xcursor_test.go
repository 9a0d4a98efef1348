package cursor

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildXcursor assembles a minimal Xcursor file from frames.
func buildXcursor(frames []Image) []byte {
	var buf []byte
	u32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		buf = append(buf, b[:]...)
	}

	u32(xcursorMagic)
	u32(xcursorHeaderLen)
	u32(0x10000) // file version
	u32(uint32(len(frames)))

	pos := xcursorHeaderLen + len(frames)*xcursorTocLen
	positions := make([]int, len(frames))
	for i, f := range frames {
		positions[i] = pos
		pos += xcursorImageLen + len(f.Pixels)
	}
	for i, f := range frames {
		u32(xcursorImageType)
		u32(f.Size)
		u32(uint32(positions[i]))
	}
	for _, f := range frames {
		u32(xcursorImageLen)
		u32(xcursorImageType)
		u32(f.Size)
		u32(1) // chunk version
		u32(f.Width)
		u32(f.Height)
		u32(f.HotspotX)
		u32(f.HotspotY)
		u32(f.Delay)
		buf = append(buf, f.Pixels...)
	}
	return buf
}

func solidFrame(size, w, h uint32) Image {
	return Image{
		Size:     size,
		Width:    w,
		Height:   h,
		HotspotX: 1,
		HotspotY: 2,
		Pixels:   make([]byte, w*h*4),
	}
}

func TestParseXcursorRoundTrip(t *testing.T) {
	want := solidFrame(24, 24, 24)
	data := buildXcursor([]Image{want})

	images, err := ParseXcursor(data)
	require.NoError(t, err)
	require.Len(t, images, 1)
	got := images[0]
	assert.Equal(t, uint32(24), got.Size)
	assert.Equal(t, uint32(24), got.Width)
	assert.Equal(t, uint32(1), got.HotspotX)
	assert.Equal(t, uint32(2), got.HotspotY)
	assert.Len(t, got.Pixels, 24*24*4)
}

func TestParseXcursorBadMagic(t *testing.T) {
	data := buildXcursor([]Image{solidFrame(24, 24, 24)})
	data[0] = 'Y'
	_, err := ParseXcursor(data)
	assert.Error(t, err)
}

func TestParseXcursorTruncated(t *testing.T) {
	data := buildXcursor([]Image{solidFrame(24, 24, 24)})
	_, err := ParseXcursor(data[:len(data)-8])
	assert.ErrorIs(t, err, errTruncated)

	_, err = ParseXcursor(data[:10])
	assert.ErrorIs(t, err, errTruncated)
}

func TestParseXcursorNoImages(t *testing.T) {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:], xcursorMagic)
	binary.LittleEndian.PutUint32(buf[4:], xcursorHeaderLen)
	binary.LittleEndian.PutUint32(buf[8:], 0x10000)
	binary.LittleEndian.PutUint32(buf[12:], 0)
	_, err := ParseXcursor(buf[:])
	assert.Error(t, err)
}

func TestBestSizePicksClosest(t *testing.T) {
	images := []Image{
		solidFrame(16, 16, 16),
		solidFrame(24, 24, 24),
		solidFrame(48, 48, 48),
	}
	got := BestSize(images, 20)
	require.Len(t, got, 1)
	assert.Equal(t, uint32(16), got[0].Size)

	got = BestSize(images, 48)
	require.Len(t, got, 1)
	assert.Equal(t, uint32(48), got[0].Size)
}

func TestBestSizeKeepsAnimationFrames(t *testing.T) {
	images := []Image{
		solidFrame(24, 24, 24),
		solidFrame(24, 24, 24),
		solidFrame(48, 48, 48),
	}
	got := BestSize(images, 24)
	assert.Len(t, got, 2)
}

func TestSizeForScale(t *testing.T) {
	assert.Equal(t, uint32(16), SizeForScale(1))
	assert.Equal(t, uint32(48), SizeForScale(2))
	assert.Equal(t, uint32(80), SizeForScale(3))
	assert.Equal(t, uint32(16), SizeForScale(0), "scale clamps to one")
}

func writeTheme(t *testing.T, base, name string, inherits string, cursors map[string][]Image) {
	t.Helper()
	dir := filepath.Join(base, name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cursors"), 0o755))
	if inherits != "" {
		index := "[Icon Theme]\nInherits=" + inherits + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.theme"), []byte(index), 0o644))
	}
	for cursorName, frames := range cursors {
		path := filepath.Join(dir, "cursors", cursorName)
		require.NoError(t, os.WriteFile(path, buildXcursor(frames), 0o644))
	}
}

func TestFileLoaderResolvesInheritance(t *testing.T) {
	base := t.TempDir()
	writeTheme(t, base, "fancy", "plain", map[string][]Image{
		"grabbing": {solidFrame(24, 24, 24)},
	})
	writeTheme(t, base, "plain", "", map[string][]Image{
		"left_ptr": {solidFrame(24, 24, 24)},
	})

	theme, err := FileLoader{Paths: []string{base}}.Load("fancy")
	require.NoError(t, err)

	_, ok := theme.Cursor("grabbing", 24)
	assert.True(t, ok)
	_, ok = theme.Cursor("left_ptr", 24)
	assert.True(t, ok, "missing cursors fall back to the inherited theme")
	_, ok = theme.Cursor("no-such-cursor", 24)
	assert.False(t, ok)
}

func TestFileLoaderUnknownTheme(t *testing.T) {
	_, err := FileLoader{Paths: []string{t.TempDir()}}.Load("nope")
	assert.Error(t, err)
}
