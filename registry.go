package themeatlas

import (
	"bytes"
	"image"
	"image/color"
)

// ColourIndex identifies a registered colour.
type ColourIndex int

// ImageIndex identifies a registered image.
type ImageIndex int

type colourEntry struct {
	name  string
	value color.NRGBA
	def   color.NRGBA
}

type imageEntry struct {
	name  string
	flags ResourceFlags

	def    *image.NRGBA // compiled-in fallback
	base   *image.NRGBA // as loaded, before any recolour pass
	img    *image.NRGBA // current pixels
	bitmap *image.RGBA  // premultiplied copy of img, built on first use

	rect   image.Rectangle // placement in the current atlas, empty if unpacked
	derive *derivation
}

type derivation struct {
	from      ImageIndex
	clockwise bool
}

// Registry holds the colour and image resources of a theme in registration
// order. Indices are dense, start at zero and never change; the registry is
// append-only.
//
// A Registry is not safe for concurrent mutation. Generation can be used to
// detect that a reload or recolour happened since a bitmap was read.
type Registry struct {
	codec ImageCodec

	colours      []colourEntry
	colourByName map[string]ColourIndex

	images      []imageEntry
	imageByName map[string]ImageIndex

	generation uint64
	repack     bool
}

// NewRegistry returns an empty registry. codec decodes the data passed to
// RegisterImageData; nil selects PNGCodec.
func NewRegistry(codec ImageCodec) *Registry {
	if codec == nil {
		codec = PNGCodec{}
	}
	return &Registry{
		codec:        codec,
		colourByName: make(map[string]ColourIndex),
		imageByName:  make(map[string]ImageIndex),
	}
}

// RegisterColour appends a colour and returns its index. A duplicate name
// panics with a *ConfigError.
func (r *Registry) RegisterColour(c color.Color, name string) ColourIndex {
	if _, dup := r.colourByName[name]; dup {
		configPanic(DuplicateName, name, "colour already registered")
	}
	v := color.NRGBAModel.Convert(c).(color.NRGBA)
	idx := ColourIndex(len(r.colours))
	r.colours = append(r.colours, colourEntry{name: name, value: v, def: v})
	r.colourByName[name] = idx
	return idx
}

// RegisterImage appends an image with img as its compiled-in default. The
// returned flags are normalized (FlagCursor implies FlagPaired). Duplicate
// names and zero-sized images panic with a *ConfigError.
func (r *Registry) RegisterImage(img image.Image, name string, flags ResourceFlags) (ImageIndex, ResourceFlags) {
	if _, dup := r.imageByName[name]; dup {
		configPanic(DuplicateName, name, "image already registered")
	}
	if img == nil || img.Bounds().Empty() {
		configPanic(ZeroSize, name, "image has no pixels")
	}
	flags = flags.Normalize()
	def := toNRGBA(img)
	idx := ImageIndex(len(r.images))
	r.images = append(r.images, imageEntry{
		name:  name,
		flags: flags,
		def:   def,
		base:  cloneNRGBA(def),
		img:   cloneNRGBA(def),
	})
	r.imageByName[name] = idx
	return idx, flags
}

// RegisterImageData decodes data with the registry codec and registers the
// result. Undecodable data panics: compiled-in images are part of the
// program.
func (r *Registry) RegisterImageData(data []byte, name string, flags ResourceFlags) (ImageIndex, ResourceFlags) {
	img, err := r.codec.Decode(bytes.NewReader(data))
	if err != nil {
		configPanic(BadImageData, name, "%v", err)
	}
	return r.RegisterImage(img, name, flags)
}

func (r *Registry) colour(i ColourIndex) *colourEntry {
	if i < 0 || int(i) >= len(r.colours) {
		configPanic(BadIndex, "", "colour %d of %d", i, len(r.colours))
	}
	return &r.colours[i]
}

func (r *Registry) image(i ImageIndex) *imageEntry {
	if i < 0 || int(i) >= len(r.images) {
		configPanic(BadIndex, "", "image %d of %d", i, len(r.images))
	}
	return &r.images[i]
}

// NumColours returns the number of registered colours.
func (r *Registry) NumColours() int { return len(r.colours) }

// NumImages returns the number of registered images.
func (r *Registry) NumImages() int { return len(r.images) }

// Generation increments whenever images or colours change.
func (r *Registry) Generation() uint64 { return r.generation }

// Colour returns the current value of colour i.
func (r *Registry) Colour(i ColourIndex) color.NRGBA { return r.colour(i).value }

// SetColour overrides the value of colour i.
func (r *Registry) SetColour(i ColourIndex, c color.Color) {
	r.colour(i).value = color.NRGBAModel.Convert(c).(color.NRGBA)
	r.generation++
}

// ColourName returns the registered name of colour i.
func (r *Registry) ColourName(i ColourIndex) string { return r.colour(i).name }

// LookupColour finds a colour by name.
func (r *Registry) LookupColour(name string) (ColourIndex, bool) {
	i, ok := r.colourByName[name]
	return i, ok
}

// Image returns the current pixels of image i. The buffer is owned by the
// registry and is replaced, not mutated, by theme reloads.
func (r *Registry) Image(i ImageIndex) *image.NRGBA { return r.image(i).img }

// DefaultImage returns the compiled-in pixels of image i.
func (r *Registry) DefaultImage(i ImageIndex) *image.NRGBA { return r.image(i).def }

// Bitmap returns image i in premultiplied form, ready for compositing.
func (r *Registry) Bitmap(i ImageIndex) *image.RGBA {
	e := r.image(i)
	if e.bitmap == nil {
		e.bitmap = premultiplied(e.img)
	}
	return e.bitmap
}

// ImageSize returns the pixel size of image i.
func (r *Registry) ImageSize(i ImageIndex) image.Point { return r.image(i).img.Rect.Size() }

// ImageName returns the registered name of image i.
func (r *Registry) ImageName(i ImageIndex) string { return r.image(i).name }

// ImageFlags returns the normalized flags of image i.
func (r *Registry) ImageFlags(i ImageIndex) ResourceFlags { return r.image(i).flags }

// LookupImage finds an image by name.
func (r *Registry) LookupImage(name string) (ImageIndex, bool) {
	i, ok := r.imageByName[name]
	return i, ok
}

// AtlasRect returns where image i sits in the most recently built or
// loaded atlas.
func (r *Registry) AtlasRect(i ImageIndex) (image.Rectangle, bool) {
	rect := r.image(i).rect
	return rect, !rect.Empty()
}

// NeedsRepack reports whether an image changed size since the atlas was
// built or loaded, so the stored placements can no longer be reused.
func (r *Registry) NeedsRepack() bool { return r.repack }

// ReplaceImage swaps the pixels of image i. The new image is also the base
// for later recolour passes. If the size differs from the atlas placement,
// the placement is dropped and NeedsRepack reports true.
func (r *Registry) ReplaceImage(i ImageIndex, img image.Image) {
	e := r.image(i)
	if img == nil || img.Bounds().Empty() {
		configPanic(ZeroSize, e.name, "replacement has no pixels")
	}
	n := toNRGBA(img)
	if !e.rect.Empty() && e.rect.Size() != n.Rect.Size() {
		e.rect = image.Rectangle{}
		r.repack = true
	}
	e.base = n
	e.img = cloneNRGBA(n)
	e.bitmap = nil
	r.generation++
}

// RotateImageInto fills image dst with image src turned a quarter turn and
// marks dst FlagInternal. The derivation is remembered and replayed after
// every theme load. dst and src must differ.
func (r *Registry) RotateImageInto(dst, src ImageIndex, clockwise bool) {
	s := r.image(src)
	d := r.image(dst)
	if dst == src {
		configPanic(BadIndex, d.name, "cannot rotate an image into itself")
	}
	d.flags |= FlagInternal
	d.derive = &derivation{from: src, clockwise: clockwise}
	d.img = rotate90(s.img, clockwise)
	d.base = cloneNRGBA(d.img)
	d.bitmap = nil
	d.rect = image.Rectangle{}
	r.generation++
}

// setPixels installs recoloured pixels without touching the base.
func (r *Registry) setPixels(i ImageIndex, img *image.NRGBA) {
	e := r.image(i)
	e.img = img
	e.bitmap = nil
	r.generation++
}

// install places pixels sliced from an atlas at rect.
func (r *Registry) install(i ImageIndex, img *image.NRGBA, rect image.Rectangle) {
	e := &r.images[i]
	e.base = img
	e.img = cloneNRGBA(img)
	e.bitmap = nil
	e.rect = rect
}

// adoptAtlas records the placements of a freshly built atlas.
func (r *Registry) adoptAtlas(a *Atlas) {
	for i := range r.images {
		r.images[i].rect = image.Rectangle{}
	}
	for _, p := range a.Images {
		r.images[p.Index].rect = p.Rect
	}
	r.repack = false
}

// resetToDefaults restores every colour and image to its compiled-in value.
func (r *Registry) resetToDefaults() {
	for i := range r.colours {
		r.colours[i].value = r.colours[i].def
	}
	for i := range r.images {
		e := &r.images[i]
		if e.derive != nil {
			continue
		}
		e.base = cloneNRGBA(e.def)
		e.img = cloneNRGBA(e.def)
		e.bitmap = nil
		e.rect = image.Rectangle{}
	}
	r.repack = false
	r.generation++
}

// rederive replays RotateImageInto for derived images in index order.
func (r *Registry) rederive() {
	for i := range r.images {
		if d := r.images[i].derive; d != nil {
			r.RotateImageInto(ImageIndex(i), d.from, d.clockwise)
		}
	}
}
