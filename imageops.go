package themeatlas

import (
	"image"
	"image/color"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// copyRect copies the r-sized block of src starting at sp into dst at r.
// NRGBA sources are copied byte for byte: routing them through the
// premultiplied draw path rounds colour channels of translucent pixels.
func copyRect(dst *image.NRGBA, r image.Rectangle, src image.Image, sp image.Point) {
	s, ok := src.(*image.NRGBA)
	if !ok {
		draw.Draw(dst, r, src, sp, draw.Src)
		return
	}
	r = r.Intersect(dst.Rect)
	n := r.Dx() * 4
	for y := 0; y < r.Dy(); y++ {
		di := dst.PixOffset(r.Min.X, r.Min.Y+y)
		si := s.PixOffset(sp.X, sp.Y+y)
		copy(dst.Pix[di:di+n], s.Pix[si:si+n])
	}
}

// toNRGBA copies img into a new non-premultiplied buffer whose bounds
// start at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	copyRect(dst, dst.Rect, img, b.Min)
	return dst
}

func cloneNRGBA(img *image.NRGBA) *image.NRGBA {
	if img == nil {
		return nil
	}
	out := &image.NRGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(out.Pix, img.Pix)
	return out
}

// premultiplied converts img to the alpha-premultiplied form used for
// compositing.
func premultiplied(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// subImage copies r out of atlas into an origin-based buffer.
func subImage(atlas image.Image, r image.Rectangle) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	copyRect(dst, dst.Rect, atlas, r.Min)
	return dst
}

// pasteSubImage copies src into dst with its top-left corner at at.
func pasteSubImage(dst *image.NRGBA, src image.Image, at image.Point) {
	sb := src.Bounds()
	copyRect(dst, image.Rectangle{Min: at, Max: at.Add(sb.Size())}, src, sb.Min)
}

func fillRect(dst *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(dst.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dst.SetNRGBA(x, y, c)
		}
	}
}

// MakeImageWithAlpha returns an origin-based NRGBA copy of img, keeping its
// alpha channel.
func MakeImageWithAlpha(img image.Image) *image.NRGBA {
	return toNRGBA(img)
}

// MaskedImage combines an opaque image with a grayscale mask: mask luminance
// becomes the alpha of the result, white fully opaque and black fully
// transparent. The mask is sampled from its own bounds origin and must be at
// least as large as img.
func MaskedImage(img, mask image.Image) *image.NRGBA {
	b := img.Bounds()
	alpha := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	mb := mask.Bounds()
	for y := range b.Dy() {
		for x := range b.Dx() {
			g := color.GrayModel.Convert(mask.At(mb.Min.X+x, mb.Min.Y+y)).(color.Gray)
			alpha.SetAlpha(x, y, color.Alpha{A: g.Y})
		}
	}
	dst := image.NewNRGBA(alpha.Rect)
	draw.DrawMask(dst, dst.Bounds(), img, b.Min, alpha, image.Point{}, draw.Src)
	return dst
}

// rotate90 rotates img a quarter turn.
func rotate90(img image.Image, clockwise bool) *image.NRGBA {
	f := gift.Rotate90()
	if clockwise {
		f = gift.Rotate270()
	}
	g := gift.New(f)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}
