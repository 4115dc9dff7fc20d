package themeatlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponents_SaveLoad(t *testing.T) {
	store := &MemStore{}
	src := newSampleTheme(store)
	src.EnsureInitialised()
	knob, _ := src.LookupImage("knob")
	src.ReplaceImage(knob, solid(9, 9, testAccent))
	require.NoError(t, src.SaveComponents(ThemeCustom))

	assert.Contains(t, store.Names(), "custom/Components/knob.png")
	assert.NotContains(t, store.Names(), "custom/Components/arrow-rotated.png")

	dst := newSampleTheme(store)
	n, err := dst.LoadComponents(ThemeCustom, false)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, testAccent, dst.Image(knob).NRGBAAt(3, 3))
	for i := range src.NumImages() {
		assert.Equal(t, src.Image(ImageIndex(i)).Pix, dst.Image(ImageIndex(i)).Pix, src.ImageName(ImageIndex(i)))
	}
}

func TestComponents_Partial(t *testing.T) {
	store := &MemStore{}
	src := newSampleTheme(store)
	require.NoError(t, src.SaveComponents(ThemeCustom))
	require.NoError(t, store.Remove("custom/Components/play.png"))

	knob, _ := src.LookupImage("knob")
	store.Put("custom/Components/knob.png", []byte("garbage"))
	dst := newSampleTheme(store)
	_, err := dst.LoadComponents(ThemeCustom, true)
	assert.ErrorIs(t, err, ErrCacheCorrupt)
	assert.Equal(t, testGray, dst.Image(knob).NRGBAAt(0, 0))

	require.NoError(t, store.Remove("custom/Components/knob.png"))
	n, err := dst.LoadComponents(ThemeCustom, true)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestComponents_Missing(t *testing.T) {
	th := newSampleTheme(&MemStore{})
	n, err := th.LoadComponents(ThemeCustom, true)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = th.LoadComponents(ThemeCustom, false)
	assert.ErrorIs(t, err, ErrCacheMissing)
}

func TestComponents_CorruptLeavesRegistryUntouched(t *testing.T) {
	store := &MemStore{}
	src := newSampleTheme(store)
	src.EnsureInitialised()
	knob, _ := src.LookupImage("knob")
	src.ReplaceImage(knob, solid(9, 9, testAccent))
	require.NoError(t, src.SaveComponents(ThemeCustom))
	// knob decodes fine and comes first; arrow is unreadable.
	store.Put("custom/Components/arrow.png", []byte("garbage"))

	dst := newSampleTheme(store)
	dst.EnsureInitialised()
	gen := dst.Generation()
	n, err := dst.LoadComponents(ThemeCustom, true)
	require.ErrorIs(t, err, ErrCacheCorrupt)
	assert.Zero(t, n)
	assert.Equal(t, gen, dst.Generation())
	assert.Equal(t, testGray, dst.Image(knob).NRGBAAt(0, 0))

	arrow, _ := dst.LookupImage("arrow")
	rotated, _ := dst.LookupImage("arrow-rotated")
	assert.Equal(t, rotate90(dst.Image(arrow), true).Pix, dst.Image(rotated).Pix)
}
