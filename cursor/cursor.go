// Package cursor renders themed pointer cursors into shared memory and
// attaches them to pointers, scaled to the output the pointer is on.
package cursor

import (
	"os"
	"sync"

	"github.com/bnema/wlturbo/wl"

	"github.com/wlkit/wlkit/internal/logger"
	"github.com/wlkit/wlkit/protocols"
)

// DefaultName is the cursor shown when no explicit name is set.
const DefaultName = "left_ptr"

// SizeForScale derives the nominal cursor size for a scale factor.
func SizeForScale(scale int32) uint32 {
	if scale < 1 {
		scale = 1
	}
	return uint32(32*scale - 16)
}

// OutputLookup resolves output proxy ids, as carried by the enter
// events of the cursor surface, to the output's committed scale.
type OutputLookup interface {
	ScaleByProxyID(proxyID uint32) (int32, bool)
}

// lastCursor remembers the cursor shown on a pointer so a scale change
// can redraw it.
type lastCursor struct {
	pointer *protocols.Pointer
	serial  uint32
	name    string
}

// Manager owns the cursor theme and the surface cursors are drawn on.
// The cursor size follows the outputs that surface overlaps.
type Manager struct {
	mu         sync.Mutex
	compositor *protocols.Compositor
	shm        *protocols.Shm
	loader     Loader
	lookup     OutputLookup
	themeName  string
	theme      Theme
	surface    *protocols.Surface
	buffer     *protocols.Buffer
	entered    map[uint32]struct{}
	scale      int32
	last       *lastCursor
}

// NewManager returns a cursor manager. The theme name defaults to the
// XCURSOR_THEME environment variable. A nil loader means SetCursor
// degrades to doing nothing; a nil lookup pins the scale to one.
func NewManager(compositor *protocols.Compositor, shm *protocols.Shm, loader Loader, themeName string, lookup OutputLookup) *Manager {
	if themeName == "" {
		themeName = os.Getenv("XCURSOR_THEME")
	}
	return &Manager{
		compositor: compositor,
		shm:        shm,
		loader:     loader,
		lookup:     lookup,
		themeName:  themeName,
		entered:    make(map[uint32]struct{}),
		scale:      1,
	}
}

// Scale returns the scale cursors are currently rendered at.
func (m *Manager) Scale() int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scale
}

// SetCursor shows the named cursor on the pointer, sized for the outputs
// the cursor is on. An empty name selects the default arrow. Failures to
// load or render the cursor are logged and swallowed, a missing cursor
// never takes the application down.
func (m *Manager) SetCursor(pointer *protocols.Pointer, serial uint32, name string) error {
	if name == "" {
		name = DefaultName
	}
	m.mu.Lock()
	m.last = &lastCursor{pointer: pointer, serial: serial, name: name}
	scale := m.scale
	m.mu.Unlock()
	return m.show(pointer, serial, name, scale)
}

func (m *Manager) show(pointer *protocols.Pointer, serial uint32, name string, scale int32) error {
	img, ok := m.lookupImage(name, SizeForScale(scale))
	if !ok {
		logger.Warn("cursor unavailable, leaving pointer image unchanged", "name", name)
		return nil
	}

	surface, err := m.render(img, scale)
	if err != nil {
		logger.Warn("cursor render failed", "name", name, "err", err)
		return nil
	}
	return pointer.SetCursor(serial, surface, int32(img.HotspotX)/scale, int32(img.HotspotY)/scale)
}

// Hide removes the cursor image from the pointer and forgets it, a
// later scale change will not bring it back.
func (m *Manager) Hide(pointer *protocols.Pointer, serial uint32) error {
	m.mu.Lock()
	m.last = nil
	m.mu.Unlock()
	return pointer.SetCursor(serial, nil, 0, 0)
}

// handleOutputEnter and handleOutputLeave track the outputs the cursor
// surface overlaps. They feed RefreshScale's recomputation.
func (m *Manager) handleOutputEnter(outputProxyID uint32) {
	m.mu.Lock()
	m.entered[outputProxyID] = struct{}{}
	m.mu.Unlock()
	m.RefreshScale()
}

func (m *Manager) handleOutputLeave(outputProxyID uint32) {
	m.mu.Lock()
	delete(m.entered, outputProxyID)
	m.mu.Unlock()
	m.RefreshScale()
}

// RefreshScale recomputes the cursor scale from the entered outputs and
// redraws the visible cursor when it moved. Call it after output scales
// changed or outputs disappeared.
func (m *Manager) RefreshScale() {
	m.mu.Lock()
	scale := int32(1)
	if m.lookup != nil {
		for proxyID := range m.entered {
			if factor, ok := m.lookup.ScaleByProxyID(proxyID); ok && factor > scale {
				scale = factor
			}
		}
	}
	changed := scale != m.scale
	m.scale = scale
	last := m.last
	m.mu.Unlock()

	if !changed || last == nil {
		return
	}
	if err := m.show(last.pointer, last.serial, last.name, scale); err != nil {
		logger.Warn("cursor redraw failed", "name", last.name, "err", err)
	}
}

func (m *Manager) lookupImage(name string, size uint32) (Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.theme == nil {
		if m.loader == nil {
			return Image{}, false
		}
		theme, err := m.loader.Load(m.themeName)
		if err != nil {
			logger.Warn("cursor theme load failed", "theme", m.themeName, "err", err)
			return Image{}, false
		}
		m.theme = theme
	}
	frames, ok := m.theme.Cursor(name, size)
	if !ok || len(frames) == 0 {
		return Image{}, false
	}
	// Animated cursors show their first frame.
	return frames[0], true
}

// render draws the image into a fresh shm buffer on the manager's
// cursor surface.
func (m *Manager) render(img Image, scale int32) (*protocols.Surface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.surface == nil {
		s, err := m.compositor.CreateSurface()
		if err != nil {
			return nil, err
		}
		s.SetHandler(func(ev protocols.SurfaceEvent) {
			switch ev := ev.(type) {
			case protocols.SurfaceEnter:
				m.handleOutputEnter(ev.Output)
			case protocols.SurfaceLeave:
				m.handleOutputLeave(ev.Output)
			}
		})
		m.surface = s
	}
	if m.buffer != nil {
		if err := m.buffer.Destroy(); err != nil {
			logger.Debug("cursor buffer destroy failed", "err", err)
		}
		m.buffer = nil
	}

	width := int32(img.Width)
	height := int32(img.Height)
	stride := width * 4
	size := int64(stride) * int64(height)

	fd, err := wl.CreateAnonymousFile(size)
	if err != nil {
		return nil, err
	}
	data, err := wl.MapMemory(fd, int(size))
	if err != nil {
		closeFd(fd)
		return nil, err
	}
	copy(data, img.Pixels)

	pool, err := m.shm.CreatePool(uintptr(fd), int32(size))
	if err != nil {
		unmap(data)
		closeFd(fd)
		return nil, err
	}
	buffer, err := pool.CreateBuffer(0, width, height, stride, protocols.ShmFormatARGB8888)
	if err != nil {
		unmap(data)
		closeFd(fd)
		return nil, err
	}
	// The compositor holds its own reference through the pool, the
	// local mapping and fd are no longer needed.
	if err := pool.Destroy(); err != nil {
		logger.Debug("cursor pool destroy failed", "err", err)
	}
	unmap(data)
	closeFd(fd)

	if err := m.surface.Attach(buffer, 0, 0); err != nil {
		return nil, err
	}
	if err := m.surface.SetBufferScale(scale); err != nil {
		return nil, err
	}
	if err := m.surface.DamageBuffer(0, 0, width, height); err != nil {
		return nil, err
	}
	if err := m.surface.Commit(); err != nil {
		return nil, err
	}
	m.buffer = buffer
	return m.surface, nil
}

func closeFd(fd int) {
	if err := os.NewFile(uintptr(fd), "cursor-shm").Close(); err != nil {
		logger.Debug("cursor fd close failed", "err", err)
	}
}

func unmap(data []byte) {
	if err := wl.UnmapMemory(data); err != nil {
		logger.Debug("cursor munmap failed", "err", err)
	}
}
