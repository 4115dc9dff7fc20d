package utils

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestExtractPalette_SolidImage(t *testing.T) {
	want := color.NRGBA{R: 200, G: 40, B: 40, A: 255}
	img := solid(32, 32, want)
	// Transparent padding must not show up in the palette.
	padded := image.NewNRGBA(image.Rect(0, 0, 40, 32))
	for y := range 32 {
		for x := range 32 {
			padded.SetNRGBA(x, y, want)
		}
	}

	for _, src := range []image.Image{img, padded} {
		for _, m := range []PaletteMethod{PaletteMethodDominantColor, PaletteMethodKMeans} {
			p, err := ExtractPalette(src, 3, m)
			require.NoError(t, err, m.String())
			require.NotEmpty(t, p)
			wc, _ := colorful.MakeColor(want)
			assert.Less(t, p[0].DistanceRgb(wc), 0.05, m.String())
		}
	}

	_, err := ExtractPalette(img, 0, PaletteMethodKMeans)
	assert.ErrorIs(t, err, ErrEmptyPalette)
}

func TestSelectDiverse(t *testing.T) {
	black := colorful.Color{}
	nearBlack := colorful.Color{R: 0.02, G: 0.02, B: 0.02}
	white := colorful.Color{R: 1, G: 1, B: 1}
	got := selectDiverse([]weightedColor{
		{Col: nearBlack, Weight: 5},
		{Col: black, Weight: 10},
		{Col: white, Weight: 1},
	}, 2)
	assert.Equal(t, []colorful.Color{black, white}, got)
	assert.Nil(t, selectDiverse(nil, 3))
}

func TestSortPaletteByBrightness(t *testing.T) {
	p := []colorful.Color{{R: 1, G: 1, B: 1}, {G: 0.5}, {B: 0.5}}
	SortPaletteByBrightness(p)
	assert.Equal(t, []colorful.Color{{B: 0.5}, {G: 0.5}, {R: 1, G: 1, B: 1}}, p)
}

func TestAccentColour(t *testing.T) {
	gray := colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	blue := colorful.Color{R: 0.2, G: 0.4, B: 0.8}
	got, ok := AccentColour([]colorful.Color{gray, blue})
	require.True(t, ok)
	assert.Equal(t, blue, got)
	_, ok = AccentColour(nil)
	assert.False(t, ok)
}

func TestAccentPairs(t *testing.T) {
	accent := color.NRGBA{R: 30, G: 160, B: 60, A: 255}
	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	pairs, err := AccentPairs(solid(16, 16, accent), PaletteMethodDominantColor, gray)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, gray, pairs[0].From)
	assert.InDelta(t, float64(accent.G), float64(pairs[0].To.G), 3)
}

func TestPaletteImageRoundTrip(t *testing.T) {
	palette := []colorful.Color{{R: 1}, {G: 1}}
	img := PaletteImage(palette, 4)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Rect)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, img.NRGBAAt(5, 3))

	path := filepath.Join(t.TempDir(), "palette.png")
	require.NoError(t, SavePalette(palette, 4, path))
	back, err := ReadImage(path)
	require.NoError(t, err)
	assert.Equal(t, img.Rect, back.Bounds())
	r, _, _, _ := back.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r)

	assert.ErrorIs(t, SavePalette(nil, 4, path), ErrEmptyPalette)
	_, err = ReadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestParsePaletteMethod(t *testing.T) {
	for _, m := range []PaletteMethod{PaletteMethodDominantColor, PaletteMethodKMeans} {
		got, err := ParsePaletteMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParsePaletteMethod("median-cut")
	assert.Error(t, err)
}
