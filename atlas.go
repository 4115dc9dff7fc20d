package themeatlas

import (
	"image"
	"image/color"

	"github.com/setanarut/themeatlas/internal/format"
)

// AtlasOptions controls atlas geometry.
type AtlasOptions struct {
	Width        int
	BorderWidth  int
	SwatchSize   int
	BorderColour color.NRGBA
}

// DefaultAtlasOptions returns the geometry of the stock themes.
func DefaultAtlasOptions() AtlasOptions {
	return AtlasOptions{
		Width:        DefaultAtlasWidth,
		BorderWidth:  DefaultBorderWidth,
		SwatchSize:   DefaultSwatchSize,
		BorderColour: color.NRGBA{R: 0xf2, G: 0xb0, B: 0x27, A: 0xff},
	}
}

// PackedImage is the placement of one image inside an atlas. Rect has the
// exact pixel size of the image.
type PackedImage struct {
	Index ImageIndex
	Name  string
	Flags ResourceFlags
	Rect  image.Rectangle
}

// PackedColour is the swatch of one colour inside an atlas.
type PackedColour struct {
	Index ColourIndex
	Name  string
	Rect  image.Rectangle
}

// Atlas is a composite image of every non-internal image of a registry
// followed by a block of colour swatches.
type Atlas struct {
	Image   *image.NRGBA
	Images  []PackedImage
	Colours []PackedColour
}

// BuildAtlas packs the images of r in index order, skipping FlagInternal,
// then the colours, and renders the result. Packing errors panic with a
// *ConfigError, as they can only come from bad registrations.
func BuildAtlas(r *Registry, opts AtlasOptions) *Atlas {
	if opts.Width <= 0 {
		opts.Width = DefaultAtlasWidth
	}
	if opts.SwatchSize <= 0 {
		opts.SwatchSize = DefaultSwatchSize
	}

	p := NewFlowPacker(opts.Width, opts.BorderWidth)
	a := &Atlas{}
	for i := range r.images {
		e := &r.images[i]
		if e.flags.Has(FlagInternal) {
			continue
		}
		p.Flags = e.flags
		size := e.img.Rect.Size()
		p.GetNextPosition(size.X, size.Y)
		a.Images = append(a.Images, PackedImage{
			Index: ImageIndex(i),
			Name:  e.name,
			Flags: e.flags,
			Rect:  p.RectInner(),
		})
	}

	if len(r.colours) > 0 {
		p.SetColourGroup()
		for i := range r.colours {
			p.GetNextPosition(opts.SwatchSize, opts.SwatchSize)
			a.Colours = append(a.Colours, PackedColour{
				Index: ColourIndex(i),
				Name:  r.colours[i].name,
				Rect:  p.RectInner(),
			})
		}
	}

	a.Image = image.NewNRGBA(image.Rect(0, 0, opts.Width, max(p.Height(), 1)))
	b := opts.BorderWidth
	if b > 0 {
		for _, pi := range a.Images {
			fillRect(a.Image, pi.Rect.Inset(-b), opts.BorderColour)
		}
		for _, pc := range a.Colours {
			fillRect(a.Image, pc.Rect.Inset(-b), opts.BorderColour)
		}
	}
	for _, pi := range a.Images {
		pasteSubImage(a.Image, r.images[pi.Index].img, pi.Rect.Min)
	}
	for _, pc := range a.Colours {
		fillRect(a.Image, pc.Rect, r.colours[pc.Index].value)
	}
	return a
}

// Bounds returns the atlas image bounds.
func (a *Atlas) Bounds() image.Rectangle { return a.Image.Rect }

func (a *Atlas) table() *format.Table {
	t := &format.Table{
		Width:   a.Image.Rect.Dx(),
		Height:  a.Image.Rect.Dy(),
		Entries: make([]format.Entry, 0, len(a.Images)+len(a.Colours)),
	}
	for _, pi := range a.Images {
		t.Entries = append(t.Entries, format.Entry{
			Kind:  format.KindImage,
			Flags: uint8(pi.Flags),
			Name:  pi.Name,
			Rect:  pi.Rect,
		})
	}
	for _, pc := range a.Colours {
		t.Entries = append(t.Entries, format.Entry{
			Kind: format.KindColour,
			Name: pc.Name,
			Rect: pc.Rect,
		})
	}
	return t
}

// swatchCentre is the pixel a colour is sampled from.
func swatchCentre(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}
