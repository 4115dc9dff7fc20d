package themeatlas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Preference keys read and written by the theme.
const (
	BlendThemesKey = "/GUI/BlendThemes"
	ThemeKey       = "/GUI/Theme"
)

// Preferences is a string key/value store with defaults.
type Preferences interface {
	Read(key, def string) string
	Write(key, value string) error
}

// BlendThemes reports whether loaded themes are recoloured toward the
// recolour palette. Defaults to true.
func BlendThemes(p Preferences) bool {
	v, err := strconv.ParseBool(p.Read(BlendThemesKey, "true"))
	if err != nil {
		return true
	}
	return v
}

// SetBlendThemes stores the blend flag.
func SetBlendThemes(p Preferences, on bool) error {
	return p.Write(BlendThemesKey, strconv.FormatBool(on))
}

// ThemeChoice returns the selected theme id, or def when unset.
func ThemeChoice(p Preferences, def ThemeID) ThemeID {
	return ThemeID(p.Read(ThemeKey, string(def)))
}

// SetThemeChoice stores the selected theme id.
func SetThemeChoice(p Preferences, id ThemeID) error {
	return p.Write(ThemeKey, string(id))
}

// MemoryPreferences keeps preferences in a map. The zero value is ready to
// use.
type MemoryPreferences struct {
	values map[string]string
}

func (m *MemoryPreferences) Read(key, def string) string {
	if v, ok := m.values[key]; ok {
		return v
	}
	return def
}

func (m *MemoryPreferences) Write(key, value string) error {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// TOMLPreferences keeps preferences in a TOML file; every Write rewrites
// the file.
type TOMLPreferences struct {
	path   string
	values map[string]string
}

// OpenTOMLPreferences loads path. A missing file yields empty preferences.
func OpenTOMLPreferences(path string) (*TOMLPreferences, error) {
	p := &TOMLPreferences{path: path, values: make(map[string]string)}
	if _, err := toml.DecodeFile(path, &p.values); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return nil, fmt.Errorf("preferences %s: %w", path, err)
	}
	return p, nil
}

func (p *TOMLPreferences) Read(key, def string) string {
	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

func (p *TOMLPreferences) Write(key, value string) error {
	p.values[key] = value
	return p.flush()
}

func (p *TOMLPreferences) flush() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p.path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(p.values); err != nil {
		f.Close()
		return fmt.Errorf("preferences %s: %w", p.path, err)
	}
	return f.Close()
}
