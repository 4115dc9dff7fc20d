package themeatlas

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"sync"
)

// ThemeID names a theme, e.g. "light" or "dark".
type ThemeID string

const (
	ThemeLight        ThemeID = "light"
	ThemeDark         ThemeID = "dark"
	ThemeHighContrast ThemeID = "high-contrast"
	ThemeClassic      ThemeID = "classic"
	// ThemeCustom is the user-edited theme kept only in the Store.
	ThemeCustom ThemeID = "custom"
)

// PreferredSystemAppearance is the OS-level appearance a theme suits best.
type PreferredSystemAppearance int

const (
	AppearanceLight PreferredSystemAppearance = iota
	AppearanceDark
	AppearanceHighContrastDark
)

func (a PreferredSystemAppearance) String() string {
	switch a {
	case AppearanceDark:
		return "dark"
	case AppearanceHighContrastDark:
		return "high-contrast-dark"
	default:
		return "light"
	}
}

// RegisteredTheme describes a theme shipped with the program. Data is an
// optional bundle (see Theme.Bundle) used before the Store is consulted.
type RegisteredTheme struct {
	ID         ThemeID
	Name       string
	Appearance PreferredSystemAppearance
	Data       []byte
}

// Options configures a Theme.
type Options struct {
	Atlas AtlasOptions

	// Recolouring applied by RecolourTheme.
	RecolourThreshold int
	BlendMode         BlendMode
	RecolourPairs     []RecolourPair

	// CompressTable stores bundle rectangle tables zstd compressed.
	CompressTable bool

	Store       Store
	Codec       ImageCodec
	Preferences Preferences
	Logger      *slog.Logger
}

// DefaultOptions returns options with an in-memory store and preferences.
func DefaultOptions() Options {
	return Options{
		Atlas:             DefaultAtlasOptions(),
		RecolourThreshold: DefaultRecolourThreshold,
		BlendMode:         BlendHSL,
		CompressTable:     true,
	}
}

// Theme owns the resource registry of an application together with the
// caches it is loaded from. Create one at the composition root and pass it
// to whatever needs resource lookups.
//
// The registry methods are promoted from the embedded *Registry. A Theme
// is not safe for concurrent use, except for the appearance observer
// methods which may be called from any goroutine.
type Theme struct {
	*Registry

	opts     Options
	log      *slog.Logger
	register func(*Registry)
	inited   bool

	themes  []RegisteredTheme
	current ThemeID

	mu           sync.Mutex
	appearance   PreferredSystemAppearance
	onAppearance func(PreferredSystemAppearance)
}

// New returns a Theme whose resources are registered by register on the
// first call to EnsureInitialised. register must perform the same
// registrations in the same order on every run: the order fixes both the
// indices and the atlas layout.
func New(opts Options, register func(*Registry)) *Theme {
	if opts.Store == nil {
		opts.Store = &MemStore{}
	}
	if opts.Codec == nil {
		opts.Codec = PNGCodec{}
	}
	if opts.Preferences == nil {
		opts.Preferences = &MemoryPreferences{}
	}
	if opts.Atlas.Width <= 0 {
		opts.Atlas = DefaultAtlasOptions()
	}
	if opts.RecolourThreshold <= 0 {
		opts.RecolourThreshold = DefaultRecolourThreshold
	}
	var zero color.NRGBA
	if opts.Atlas.BorderColour == zero {
		opts.Atlas.BorderColour = DefaultAtlasOptions().BorderColour
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Theme{
		Registry: NewRegistry(opts.Codec),
		opts:     opts,
		log:      log,
		register: register,
	}
}

// EnsureInitialised runs the registration function once.
func (t *Theme) EnsureInitialised() {
	if t.inited {
		return
	}
	t.inited = true
	if t.register != nil {
		t.register(t.Registry)
	}
	t.log.Debug("theme resources registered", "images", t.NumImages(), "colours", t.NumColours())
}

// Options returns the configuration the theme was created with.
func (t *Theme) Options() Options { return t.opts }

// SetRecolourPairs replaces the palette used by RecolourTheme.
func (t *Theme) SetRecolourPairs(pairs ...RecolourPair) {
	t.opts.RecolourPairs = append([]RecolourPair(nil), pairs...)
}

// SetRecolourer replaces the threshold and blend mode used by
// RecolourBitmap and RecolourTheme.
func (t *Theme) SetRecolourer(rc Recolourer) {
	t.opts.RecolourThreshold = rc.Threshold
	t.opts.BlendMode = rc.Mode
}

// RegisterTheme adds a selectable theme. Registering an id twice panics.
func (t *Theme) RegisterTheme(rt RegisteredTheme) {
	if _, ok := t.lookupTheme(rt.ID); ok {
		configPanic(DuplicateName, string(rt.ID), "theme already registered")
	}
	t.themes = append(t.themes, rt)
}

// Themes returns the registered themes in registration order.
func (t *Theme) Themes() []RegisteredTheme {
	return append([]RegisteredTheme(nil), t.themes...)
}

func (t *Theme) lookupTheme(id ThemeID) (RegisteredTheme, bool) {
	for _, rt := range t.themes {
		if rt.ID == id {
			return rt, true
		}
	}
	return RegisteredTheme{}, false
}

// Current returns the id of the last theme passed to LoadTheme.
func (t *Theme) Current() ThemeID { return t.current }

// FallbackThemeID picks the first registered theme suited to the current
// system appearance, else the first registered theme, else ThemeLight.
func (t *Theme) FallbackThemeID() ThemeID {
	app := t.PreferredSystemAppearance()
	for _, rt := range t.themes {
		if rt.Appearance == app {
			return rt.ID
		}
	}
	if len(t.themes) > 0 {
		return t.themes[0].ID
	}
	return ThemeLight
}

// LoadTheme loads the cache of id, falling back to compiled-in defaults for
// anything it does not provide, then recolours when the blend preference
// is on. The result has the meaning of ReadImageCache with okIfNotFound set.
func (t *Theme) LoadTheme(id ThemeID) (bool, error) {
	ok, err := t.ReadImageCache(id, true)
	t.current = id
	if BlendThemes(t.opts.Preferences) && len(t.opts.RecolourPairs) > 0 {
		t.RecolourTheme()
	}
	return ok, err
}

// LoadPreferredTheme loads the theme chosen in preferences. An unset or
// unknown choice selects FallbackThemeID.
func (t *Theme) LoadPreferredTheme() (bool, error) {
	id := ThemeChoice(t.opts.Preferences, "")
	if _, known := t.lookupTheme(id); !known && id != ThemeCustom {
		if id != "" {
			t.log.Warn("unknown theme in preferences", "theme", id)
		}
		id = t.FallbackThemeID()
	}
	return t.LoadTheme(id)
}

// SetOnPreferredSystemAppearanceChanged installs handler as the single
// appearance observer and returns the previous one. nil removes it.
func (t *Theme) SetOnPreferredSystemAppearanceChanged(handler func(PreferredSystemAppearance)) func(PreferredSystemAppearance) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev := t.onAppearance
	t.onAppearance = handler
	return prev
}

// PreferredSystemAppearanceChanged records a new OS appearance and calls
// the observer synchronously on the calling goroutine; this is whatever
// goroutine detected the change, not necessarily a UI thread.
func (t *Theme) PreferredSystemAppearanceChanged(app PreferredSystemAppearance) {
	t.mu.Lock()
	t.appearance = app
	h := t.onAppearance
	t.mu.Unlock()
	if h != nil {
		h(app)
	}
}

// PreferredSystemAppearance returns the last reported OS appearance.
func (t *Theme) PreferredSystemAppearance() PreferredSystemAppearance {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appearance
}

// RecolourBitmap recolours image i toward to, using the theme threshold
// and blend mode. It returns the number of pixels changed. The base image
// is kept, so the next RecolourTheme, LoadTheme or ReadImageCache discards
// the change; use ReplaceImage to keep it.
func (t *Theme) RecolourBitmap(i ImageIndex, from, to color.Color) int {
	pair := RecolourPair{
		From: color.NRGBAModel.Convert(from).(color.NRGBA),
		To:   color.NRGBAModel.Convert(to).(color.NRGBA),
	}
	img := cloneNRGBA(t.Image(i))
	n := t.recolourer().Recolour(img, pair)
	t.setPixels(i, img)
	return n
}

// RecolourTheme applies the theme's recolour pairs to every image not
// flagged FlagSkip or FlagInternal, then rebuilds derived images. Each
// pass starts from the images as loaded, so repeating it changes nothing.
func (t *Theme) RecolourTheme() int {
	rc := t.recolourer()
	total := 0
	for i := range t.images {
		e := &t.images[i]
		if e.flags.Has(FlagSkip) || e.flags.Has(FlagInternal) {
			continue
		}
		img := cloneNRGBA(e.base)
		total += rc.Recolour(img, t.opts.RecolourPairs...)
		t.setPixels(ImageIndex(i), img)
	}
	t.rederive()
	t.log.Debug("theme recoloured", "pairs", len(t.opts.RecolourPairs), "pixels", total)
	return total
}

func (t *Theme) recolourer() Recolourer {
	return Recolourer{Threshold: t.opts.RecolourThreshold, Mode: t.opts.BlendMode}
}

// SelectTheme stores id as the preferred theme. Only registered themes and
// ThemeCustom can be selected.
func (t *Theme) SelectTheme(id ThemeID) error {
	if _, ok := t.lookupTheme(id); !ok && id != ThemeCustom {
		return fmt.Errorf("select %q: %w", id, ErrUnknownTheme)
	}
	return SetThemeChoice(t.opts.Preferences, id)
}
