package cursor

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wlkit/wlkit/internal/logger"
)

// Theme resolves cursor names to frames at a requested nominal size.
type Theme interface {
	// Cursor returns the frames for name, false when the theme has no
	// cursor of that name.
	Cursor(name string, size uint32) ([]Image, bool)
}

// Loader loads cursor themes. The toolkit ships FileLoader for the
// usual icon directories, anything else can be plugged in.
type Loader interface {
	Load(theme string) (Theme, error)
}

// FileLoader finds Xcursor themes in the standard icon paths.
type FileLoader struct {
	// Paths overrides the search path when non-empty.
	Paths []string
}

// searchPaths returns the icon directories in precedence order,
// following the conventions of libwayland-cursor.
func (l FileLoader) searchPaths() []string {
	if len(l.Paths) > 0 {
		return l.Paths
	}
	var paths []string
	if p := os.Getenv("XCURSOR_PATH"); p != "" {
		paths = append(paths, filepath.SplitList(p)...)
	}
	home := os.Getenv("HOME")
	if home != "" {
		paths = append(paths, filepath.Join(home, ".icons"))
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "icons"))
	} else if home != "" {
		paths = append(paths, filepath.Join(home, ".local", "share", "icons"))
	}
	paths = append(paths, "/usr/share/icons", "/usr/share/pixmaps")
	return paths
}

// Load resolves a theme by name, walking its inheritance chain so that
// lookups fall back the way X applications expect. An unknown theme
// name falls back to "default".
func (l FileLoader) Load(theme string) (Theme, error) {
	if theme == "" {
		theme = "default"
	}
	t := &fileTheme{loader: l, cache: make(map[string][]Image)}
	seen := make(map[string]bool)
	queue := []string{theme}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, base := range l.searchPaths() {
			dir := filepath.Join(base, name)
			if info, err := os.Stat(filepath.Join(dir, "cursors")); err == nil && info.IsDir() {
				t.dirs = append(t.dirs, filepath.Join(dir, "cursors"))
			}
			queue = append(queue, readInherits(filepath.Join(dir, "index.theme"))...)
		}
	}
	if len(t.dirs) == 0 {
		return nil, fmt.Errorf("cursor theme %q not found", theme)
	}
	return t, nil
}

// readInherits extracts the Inherits list from an index.theme file.
func readInherits(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var inherits []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "Inherits") {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		for _, name := range strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		}) {
			inherits = append(inherits, name)
		}
	}
	return inherits
}

type fileTheme struct {
	loader FileLoader
	dirs   []string
	cache  map[string][]Image
}

func (t *fileTheme) Cursor(name string, size uint32) ([]Image, bool) {
	all, ok := t.cache[name]
	if !ok {
		all = t.loadCursor(name)
		t.cache[name] = all
	}
	if len(all) == 0 {
		return nil, false
	}
	return BestSize(all, size), true
}

func (t *fileTheme) loadCursor(name string) []Image {
	for _, dir := range t.dirs {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		images, err := ParseXcursor(data)
		if err != nil {
			logger.Debug("cursor file unreadable", "path", path, "err", err)
			continue
		}
		return images
	}
	return nil
}
