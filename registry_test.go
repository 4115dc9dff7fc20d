package themeatlas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_IndicesAreDenseAndStable(t *testing.T) {
	r := NewRegistry(nil)
	var idx []ImageIndex
	for i, name := range []string{"A", "B", "C"} {
		ix, _ := r.RegisterImage(solid(2+i, 2, testGray), name, FlagNone)
		idx = append(idx, ix)
	}
	assert.Equal(t, []ImageIndex{0, 1, 2}, idx)

	r.ReplaceImage(1, solid(3, 2, testAccent))
	rc := Recolourer{Threshold: DefaultRecolourThreshold}
	rc.Recolour(r.Image(0), RecolourPair{From: testGray, To: testAccent})

	for i, name := range []string{"A", "B", "C"} {
		assert.Equal(t, name, r.ImageName(ImageIndex(i)))
		got, ok := r.LookupImage(name)
		require.True(t, ok)
		assert.Equal(t, ImageIndex(i), got)
	}
	assert.Equal(t, 3, r.NumImages())
}

func TestRegistry_Colours(t *testing.T) {
	r := NewRegistry(nil)
	a := r.RegisterColour(color.RGBA{R: 1, G: 2, B: 3, A: 255}, "a")
	b := r.RegisterColour(color.NRGBA{R: 200, G: 100, B: 50, A: 128}, "b")
	assert.Equal(t, ColourIndex(0), a)
	assert.Equal(t, ColourIndex(1), b)
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 128}, r.Colour(b))

	gen := r.Generation()
	r.SetColour(a, testAccent)
	assert.Equal(t, testAccent, r.Colour(a))
	assert.Greater(t, r.Generation(), gen)
	assert.Equal(t, "a", r.ColourName(a))

	_, ok := r.LookupColour("missing")
	assert.False(t, ok)
}

func TestRegistry_ConfigPanics(t *testing.T) {
	r := NewRegistry(nil)
	r.RegisterColour(testGray, "gray")
	r.RegisterImage(solid(1, 1, testGray), "dot", FlagNone)

	requireConfigPanic(t, DuplicateName, func() { r.RegisterColour(testAccent, "gray") })
	requireConfigPanic(t, DuplicateName, func() { r.RegisterImage(solid(1, 1, testGray), "dot", FlagNone) })
	requireConfigPanic(t, ZeroSize, func() { r.RegisterImage(image.NewNRGBA(image.Rectangle{}), "empty", FlagNone) })
	requireConfigPanic(t, BadImageData, func() { r.RegisterImageData([]byte("not a png"), "junk", FlagNone) })
	requireConfigPanic(t, BadIndex, func() { r.Image(5) })
	requireConfigPanic(t, BadIndex, func() { r.Colour(-1) })
	requireConfigPanic(t, ZeroSize, func() { r.ReplaceImage(0, image.NewNRGBA(image.Rectangle{})) })
	requireConfigPanic(t, BadIndex, func() { r.RotateImageInto(0, 0, true) })
}

func TestRegistry_RegisterImageData(t *testing.T) {
	src := gradient(5, 7, 9)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	r := NewRegistry(nil)
	i, flags := r.RegisterImageData(buf.Bytes(), "grad", FlagCursor|FlagSkip)
	assert.Equal(t, FlagCursor|FlagPaired|FlagSkip, flags)
	assert.Equal(t, flags, r.ImageFlags(i))
	assert.Equal(t, src.Pix, r.Image(i).Pix)
	assert.Equal(t, src.Pix, r.DefaultImage(i).Pix)
	assert.Equal(t, image.Pt(5, 7), r.ImageSize(i))
}

func TestRegistry_ImagesStartAtOrigin(t *testing.T) {
	big := gradient(10, 10, 0)
	sub := big.SubImage(image.Rect(3, 4, 8, 9))

	r := NewRegistry(nil)
	i, _ := r.RegisterImage(sub, "sub", FlagNone)
	got := r.Image(i)
	assert.Equal(t, image.Rect(0, 0, 5, 5), got.Rect)
	assert.Equal(t, big.NRGBAAt(3, 4), got.NRGBAAt(0, 0))
	assert.Equal(t, big.NRGBAAt(7, 8), got.NRGBAAt(4, 4))
}

func TestRegistry_Bitmap(t *testing.T) {
	r := NewRegistry(nil)
	i, _ := r.RegisterImage(solid(2, 2, color.NRGBA{R: 200, A: 128}), "half", FlagNone)
	bm := r.Bitmap(i)
	assert.Same(t, bm, r.Bitmap(i))
	assert.Equal(t, color.RGBA{R: 100, A: 128}, bm.RGBAAt(0, 0))

	r.ReplaceImage(i, solid(2, 2, testAccent))
	assert.NotSame(t, bm, r.Bitmap(i))
	assert.Equal(t, color.RGBA(testAccent), r.Bitmap(i).RGBAAt(1, 1))
}

func TestRegistry_ReplaceImageRepack(t *testing.T) {
	th := newSampleTheme(&MemStore{})
	th.BuildAtlas()
	knob, ok := th.LookupImage("knob")
	require.True(t, ok)
	_, packed := th.AtlasRect(knob)
	require.True(t, packed)
	assert.False(t, th.NeedsRepack())

	th.ReplaceImage(knob, solid(9, 9, testAccent))
	_, packed = th.AtlasRect(knob)
	assert.True(t, packed, "same size keeps the placement")
	assert.False(t, th.NeedsRepack())

	th.ReplaceImage(knob, solid(11, 9, testAccent))
	_, packed = th.AtlasRect(knob)
	assert.False(t, packed)
	assert.True(t, th.NeedsRepack())

	th.BuildAtlas()
	assert.False(t, th.NeedsRepack())
	rect, packed := th.AtlasRect(knob)
	require.True(t, packed)
	assert.Equal(t, image.Pt(11, 9), rect.Size())
}

func TestRegistry_RotateImageInto(t *testing.T) {
	r := NewRegistry(nil)
	src, _ := r.RegisterImage(gradient(3, 5, 0), "src", FlagNone)
	cw, _ := r.RegisterImage(solid(1, 1, testGray), "cw", FlagNone)
	ccw, _ := r.RegisterImage(solid(1, 1, testGray), "ccw", FlagNone)
	r.RotateImageInto(cw, src, true)
	r.RotateImageInto(ccw, src, false)

	assert.True(t, r.ImageFlags(cw).Has(FlagInternal))
	assert.Equal(t, image.Pt(5, 3), r.ImageSize(cw))
	assert.Equal(t, image.Pt(5, 3), r.ImageSize(ccw))

	s := r.Image(src)
	// Clockwise: the bottom-left source pixel becomes the top-left one.
	assert.Equal(t, s.NRGBAAt(0, 4), r.Image(cw).NRGBAAt(0, 0))
	assert.Equal(t, s.NRGBAAt(0, 0), r.Image(cw).NRGBAAt(4, 0))
	// Counter-clockwise: the top-right source pixel becomes the top-left one.
	assert.Equal(t, s.NRGBAAt(2, 0), r.Image(ccw).NRGBAAt(0, 0))
}
