package themeatlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recolouredSample(t *testing.T, store Store) *Theme {
	t.Helper()
	th := newSampleTheme(store)
	th.SetRecolourPairs(RecolourPair{From: testGray, To: testAccent})
	th.EnsureInitialised()
	return th
}

func TestRecolourTheme_Idempotent(t *testing.T) {
	th := recolouredSample(t, &MemStore{})
	knob, _ := th.LookupImage("knob")
	logo, _ := th.LookupImage("logo")

	n := th.RecolourTheme()
	assert.GreaterOrEqual(t, n, 81)
	once := cloneNRGBA(th.Image(knob))
	assert.NotEqual(t, testGray, once.NRGBAAt(0, 0))
	assert.Equal(t, testGray, th.Image(logo).NRGBAAt(0, 0), "FlagSkip images are left alone")

	th.RecolourTheme()
	assert.Equal(t, once.Pix, th.Image(knob).Pix)
	assert.Equal(t, testGray, th.images[knob].base.NRGBAAt(0, 0), "base untouched")
}

func TestRecolourTheme_RederivesInternal(t *testing.T) {
	th := newSampleTheme(&MemStore{})
	th.EnsureInitialised()
	arrow, _ := th.LookupImage("arrow")
	rotated, _ := th.LookupImage("arrow-rotated")
	src := th.Image(arrow)
	th.SetRecolourPairs(RecolourPair{From: src.NRGBAAt(0, 0), To: testAccent})
	th.opts.RecolourThreshold = 0

	th.RecolourTheme()
	assert.Equal(t, rotate90(th.Image(arrow), true).Pix, th.Image(rotated).Pix)
}

func TestLoadTheme_BlendPreference(t *testing.T) {
	store := &MemStore{}
	require.NoError(t, newSampleTheme(store).CreateImageCache(ThemeLight, true))

	th := recolouredSample(t, store)
	knob, _ := th.LookupImage("knob")
	ok, err := th.LoadTheme(ThemeLight)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ThemeLight, th.Current())
	assert.NotEqual(t, testGray, th.Image(knob).NRGBAAt(0, 0))

	require.NoError(t, SetBlendThemes(th.opts.Preferences, false))
	ok, err = th.LoadTheme(ThemeLight)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, testGray, th.Image(knob).NRGBAAt(0, 0))

	ok, err = th.LoadTheme("NoSuchTheme")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ThemeID("NoSuchTheme"), th.Current())
}

func TestFallbackThemeID(t *testing.T) {
	th := newSampleTheme(&MemStore{})
	assert.Equal(t, ThemeLight, th.FallbackThemeID())

	th.RegisterTheme(RegisteredTheme{ID: ThemeClassic, Appearance: AppearanceLight})
	th.RegisterTheme(RegisteredTheme{ID: ThemeDark, Appearance: AppearanceDark})
	assert.Equal(t, ThemeClassic, th.FallbackThemeID())

	th.PreferredSystemAppearanceChanged(AppearanceDark)
	assert.Equal(t, ThemeDark, th.FallbackThemeID())

	th.PreferredSystemAppearanceChanged(AppearanceHighContrastDark)
	assert.Equal(t, ThemeClassic, th.FallbackThemeID())

	requireConfigPanic(t, DuplicateName, func() {
		th.RegisterTheme(RegisteredTheme{ID: ThemeDark})
	})
	assert.Len(t, th.Themes(), 2)
}

func TestLoadPreferredTheme(t *testing.T) {
	store := &MemStore{}
	require.NoError(t, newSampleTheme(store).CreateImageCache(ThemeDark, true))

	th := newSampleTheme(store)
	th.RegisterTheme(RegisteredTheme{ID: ThemeLight, Appearance: AppearanceLight})
	th.RegisterTheme(RegisteredTheme{ID: ThemeDark, Appearance: AppearanceDark})

	ok, err := th.LoadPreferredTheme()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ThemeLight, th.Current())

	require.NoError(t, th.SelectTheme(ThemeDark))
	ok, err = th.LoadPreferredTheme()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, th.Current())

	require.NoError(t, SetThemeChoice(th.opts.Preferences, "retired"))
	th.PreferredSystemAppearanceChanged(AppearanceDark)
	_, err = th.LoadPreferredTheme()
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, th.Current())

	assert.ErrorIs(t, th.SelectTheme("retired"), ErrUnknownTheme)
	assert.NoError(t, th.SelectTheme(ThemeCustom))
	assert.Equal(t, ThemeCustom, ThemeChoice(th.opts.Preferences, ThemeLight))
}

func TestAppearanceObserver(t *testing.T) {
	th := New(DefaultOptions(), nil)
	var first, second []PreferredSystemAppearance

	assert.Nil(t, th.SetOnPreferredSystemAppearanceChanged(func(a PreferredSystemAppearance) {
		first = append(first, a)
	}))
	th.PreferredSystemAppearanceChanged(AppearanceDark)

	prev := th.SetOnPreferredSystemAppearanceChanged(func(a PreferredSystemAppearance) {
		second = append(second, a)
	})
	require.NotNil(t, prev)
	th.PreferredSystemAppearanceChanged(AppearanceHighContrastDark)

	assert.Equal(t, []PreferredSystemAppearance{AppearanceDark}, first)
	assert.Equal(t, []PreferredSystemAppearance{AppearanceHighContrastDark}, second)
	assert.Equal(t, AppearanceHighContrastDark, th.PreferredSystemAppearance())
	assert.Equal(t, "high-contrast-dark", th.PreferredSystemAppearance().String())

	th.SetOnPreferredSystemAppearanceChanged(nil)
	th.PreferredSystemAppearanceChanged(AppearanceLight)
	assert.Len(t, second, 1)
}

func TestNew_Defaults(t *testing.T) {
	th := New(Options{}, nil)
	opts := th.Options()
	assert.Equal(t, DefaultAtlasOptions(), opts.Atlas)
	assert.NotNil(t, opts.Store)
	assert.NotNil(t, opts.Codec)
	assert.True(t, BlendThemes(opts.Preferences))

	th.EnsureInitialised()
	assert.Zero(t, th.NumImages())
	a := th.BuildAtlas()
	assert.Equal(t, 1, a.Bounds().Dy())
}

func TestSetRecolourer(t *testing.T) {
	th := New(Options{}, nil)
	assert.Equal(t, DefaultRecolourThreshold, th.Options().RecolourThreshold)

	th.SetRecolourer(Recolourer{Threshold: 0, Mode: BlendRamp})
	assert.Equal(t, 0, th.Options().RecolourThreshold)
	assert.Equal(t, BlendRamp, th.Options().BlendMode)
}

func TestRecolourBitmap_NotKeptByRecolourTheme(t *testing.T) {
	th := newSampleTheme(&MemStore{})
	th.EnsureInitialised()
	knob, _ := th.LookupImage("knob")

	assert.Equal(t, 81, th.RecolourBitmap(knob, testGray, testAccent))
	assert.NotEqual(t, testGray, th.Image(knob).NRGBAAt(4, 4))

	th.RecolourTheme()
	assert.Equal(t, testGray, th.Image(knob).NRGBAAt(4, 4))
}
