// Package manifest loads a TOML description of theme resources: the
// colours and images to register, in order, plus atlas and recolour
// settings.
//
//	atlas_width = 440
//
//	[[colour]]
//	name = "background"
//	value = "#1e1e1eff"
//
//	[[image]]
//	name = "cursor"
//	file = "cursor.png"
//	mask = "cursor-mask.png"
//	flags = ["cursor"]
//
//	[[image]]
//	name = "arrow-down"
//	rotate_from = "arrow-right"
//	clockwise = true
//
//	[[recolour]]
//	from = "#808080"
//	to = "#3366cc"
//
//	[[theme]]
//	id = "dark"
//	name = "Dark"
//	appearance = "dark"
//
// Files are resolved relative to the manifest.
package manifest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/setanarut/themeatlas"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("manifest: invalid")

type Colour struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

type Image struct {
	Name       string   `toml:"name"`
	File       string   `toml:"file"`
	Mask       string   `toml:"mask"`
	Flags      []string `toml:"flags"`
	RotateFrom string   `toml:"rotate_from"`
	Clockwise  bool     `toml:"clockwise"`
}

type Theme struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	Appearance string `toml:"appearance"`
}

type Pair struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Manifest is the decoded file. Load fills the unexported fields.
type Manifest struct {
	AtlasWidth  int      `toml:"atlas_width"`
	BorderWidth *int     `toml:"border_width"`
	Threshold   int      `toml:"threshold"`
	BlendMode   string   `toml:"blend_mode"`
	Colours     []Colour `toml:"colour"`
	Images      []Image  `toml:"image"`
	Recolour    []Pair   `toml:"recolour"`
	Theme       []Theme  `toml:"theme"`

	dir     string
	colours []color.NRGBA
	images  []image.Image
	flags   []themeatlas.ResourceFlags
	pairs   []themeatlas.RecolourPair
	mode    themeatlas.BlendMode
	themes  []themeatlas.RegisteredTheme
}

// Load reads, decodes and validates the manifest at path, decoding every
// referenced image.
func Load(path string) (*Manifest, error) {
	m := &Manifest{dir: filepath.Dir(path)}
	md, err := toml.DecodeFile(path, m)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("manifest %s: unknown key %q: %w", path, undecoded[0].String(), ErrInvalid)
	}
	if err := m.resolve(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

func (m *Manifest) resolve() error {
	seen := make(map[string]bool)
	for _, c := range m.Colours {
		if c.Name == "" || seen[c.Name] {
			return fmt.Errorf("colour %q: empty or duplicate name: %w", c.Name, ErrInvalid)
		}
		seen[c.Name] = true
		v, err := ParseColour(c.Value)
		if err != nil {
			return fmt.Errorf("colour %q: %w", c.Name, err)
		}
		m.colours = append(m.colours, v)
	}

	index := make(map[string]int)
	for i, im := range m.Images {
		if im.Name == "" {
			return fmt.Errorf("image %d: no name: %w", i, ErrInvalid)
		}
		if _, dup := index[im.Name]; dup {
			return fmt.Errorf("image %q: duplicate name: %w", im.Name, ErrInvalid)
		}
		flags, err := ParseFlags(im.Flags)
		if err != nil {
			return fmt.Errorf("image %q: %w", im.Name, err)
		}

		var img image.Image
		switch {
		case im.RotateFrom != "":
			src, ok := index[im.RotateFrom]
			if !ok {
				return fmt.Errorf("image %q: rotate_from %q is not an earlier image: %w", im.Name, im.RotateFrom, ErrInvalid)
			}
			// Placeholder, replaced by the rotation at registration.
			img = m.images[src]
		case im.File != "":
			img, err = m.decode(im.File)
			if err != nil {
				return fmt.Errorf("image %q: %w", im.Name, err)
			}
			if im.Mask != "" {
				mask, err := m.decode(im.Mask)
				if err != nil {
					return fmt.Errorf("image %q mask: %w", im.Name, err)
				}
				if mask.Bounds().Dx() < img.Bounds().Dx() || mask.Bounds().Dy() < img.Bounds().Dy() {
					return fmt.Errorf("image %q: mask smaller than image: %w", im.Name, ErrInvalid)
				}
				img = themeatlas.MaskedImage(img, mask)
			}
		default:
			return fmt.Errorf("image %q: needs file or rotate_from: %w", im.Name, ErrInvalid)
		}
		if img.Bounds().Empty() {
			return fmt.Errorf("image %q: no pixels: %w", im.Name, ErrInvalid)
		}
		index[im.Name] = i
		m.images = append(m.images, img)
		m.flags = append(m.flags, flags)
	}

	for _, p := range m.Recolour {
		from, err := ParseColour(p.From)
		if err != nil {
			return fmt.Errorf("recolour from: %w", err)
		}
		to, err := ParseColour(p.To)
		if err != nil {
			return fmt.Errorf("recolour to: %w", err)
		}
		m.pairs = append(m.pairs, themeatlas.RecolourPair{From: from, To: to})
	}

	ids := make(map[string]bool)
	for _, th := range m.Theme {
		if th.ID == "" || ids[th.ID] {
			return fmt.Errorf("theme %q: empty or duplicate id: %w", th.ID, ErrInvalid)
		}
		ids[th.ID] = true
		app, err := ParseAppearance(th.Appearance)
		if err != nil {
			return fmt.Errorf("theme %q: %w", th.ID, err)
		}
		m.themes = append(m.themes, themeatlas.RegisteredTheme{
			ID:         themeatlas.ThemeID(th.ID),
			Name:       th.Name,
			Appearance: app,
		})
	}

	mode, err := themeatlas.ParseBlendMode(m.BlendMode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	m.mode = mode
	return nil
}

func (m *Manifest) decode(name string) (image.Image, error) {
	f, err := os.Open(filepath.Join(m.dir, filepath.FromSlash(name)))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// Register registers the manifest resources on r in file order. It has
// the signature themeatlas.New expects.
func (m *Manifest) Register(r *themeatlas.Registry) {
	for i, c := range m.Colours {
		r.RegisterColour(m.colours[i], c.Name)
	}
	for i, im := range m.Images {
		idx, _ := r.RegisterImage(m.images[i], im.Name, m.flags[i])
		if im.RotateFrom != "" {
			src, _ := r.LookupImage(im.RotateFrom)
			r.RotateImageInto(idx, src, im.Clockwise)
		}
	}
}

// Themes returns the declared themes, ready for Theme.RegisterTheme.
func (m *Manifest) Themes() []themeatlas.RegisteredTheme {
	return append([]themeatlas.RegisteredTheme(nil), m.themes...)
}

// Apply overlays the manifest settings on opts.
func (m *Manifest) Apply(opts themeatlas.Options) themeatlas.Options {
	if m.AtlasWidth > 0 {
		opts.Atlas.Width = m.AtlasWidth
	}
	if m.BorderWidth != nil {
		opts.Atlas.BorderWidth = *m.BorderWidth
	}
	if m.Threshold > 0 {
		opts.RecolourThreshold = m.Threshold
	}
	if m.BlendMode != "" {
		opts.BlendMode = m.mode
	}
	if len(m.pairs) > 0 {
		opts.RecolourPairs = append([]themeatlas.RecolourPair(nil), m.pairs...)
	}
	return opts
}

// ParseFlags combines flag names as printed by themeatlas.ResourceFlags.
func ParseFlags(names []string) (themeatlas.ResourceFlags, error) {
	var flags themeatlas.ResourceFlags
	for _, n := range names {
		f, ok := themeatlas.ParseFlag(n)
		if !ok {
			return 0, fmt.Errorf("unknown flag %q: %w", n, ErrInvalid)
		}
		flags |= f
	}
	return flags, nil
}

// ParseAppearance maps the names printed by PreferredSystemAppearance.String
// back to their value. Empty selects AppearanceLight.
func ParseAppearance(s string) (themeatlas.PreferredSystemAppearance, error) {
	for _, a := range []themeatlas.PreferredSystemAppearance{
		themeatlas.AppearanceLight,
		themeatlas.AppearanceDark,
		themeatlas.AppearanceHighContrastDark,
	} {
		if s == a.String() {
			return a, nil
		}
	}
	if s == "" {
		return themeatlas.AppearanceLight, nil
	}
	return 0, fmt.Errorf("unknown appearance %q: %w", s, ErrInvalid)
}

// ParseColour accepts "#rgb", "#rrggbb" and "#rrggbbaa".
func ParseColour(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, ErrInvalid)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, ErrInvalid)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
