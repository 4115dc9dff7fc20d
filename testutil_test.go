package themeatlas

import (
	"image"
	"image/color"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Rect, c)
	return img
}

// gradient returns an image in which every pixel differs, including alpha.
func gradient(w, h int, seed uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x*13) + seed,
				G: uint8(y*29) + seed,
				B: uint8(x*y) ^ seed,
				A: uint8(64 + (x+y)*7%192),
			})
		}
	}
	return img
}

var (
	testGray   = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	testAccent = color.NRGBA{R: 40, G: 90, B: 200, A: 255}
)

// sampleResources registers a small but varied resource set.
func sampleResources(r *Registry) {
	r.RegisterColour(color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, "background")
	r.RegisterColour(color.NRGBA{R: 0xfe, G: 0x01, B: 0x80, A: 0x7f}, "highlight")
	r.RegisterImage(gradient(16, 16, 1), "play", FlagNone)
	r.RegisterImage(gradient(12, 20, 2), "cursor", FlagCursor)
	r.RegisterImage(gradient(12, 20, 3), "cursor-mask", FlagCursor)
	r.RegisterImage(gradient(100, 8, 4), "slider", FlagNewLine)
	r.RegisterImage(solid(9, 9, testGray), "knob", FlagNone)
	r.RegisterImage(solid(9, 9, testGray), "logo", FlagSkip)
	src, _ := r.RegisterImage(gradient(6, 14, 5), "arrow", FlagNone)
	dst, _ := r.RegisterImage(gradient(14, 6, 6), "arrow-rotated", FlagNone)
	r.RotateImageInto(dst, src, true)
}

func newSampleTheme(store Store) *Theme {
	opts := DefaultOptions()
	opts.Store = store
	return New(opts, sampleResources)
}
