package themeatlas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"

	"github.com/setanarut/themeatlas/internal/format"
)

// Store layout of one theme.
const (
	cacheImageFile = "ImageCache.png"
	cacheTableFile = "ImageCache.rects"
	componentsDir  = "Components"
	themeCodeFile  = "ThemeAsCode.go"
)

func themePath(id ThemeID, name string) string {
	return string(id) + "/" + name
}

// BuildAtlas packs the current images and colours with the theme's atlas
// options and records the placements in the registry.
func (t *Theme) BuildAtlas() *Atlas {
	t.EnsureInitialised()
	a := BuildAtlas(t.Registry, t.opts.Atlas)
	t.adoptAtlas(a)
	return a
}

// encodeAtlas returns the encoded atlas image and rectangle table.
func (t *Theme) encodeAtlas(a *Atlas) (png, table []byte, err error) {
	var buf bytes.Buffer
	if err := t.opts.Codec.Encode(&buf, a.Image); err != nil {
		return nil, nil, fmt.Errorf("encode atlas: %w", err)
	}
	table, err = format.EncodeTable(a.table())
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), table, nil
}

// Bundle packs the theme and returns it as a single blob suitable for
// RegisteredTheme.Data.
func (t *Theme) Bundle() ([]byte, error) {
	a := t.BuildAtlas()
	png, table, err := t.encodeAtlas(a)
	if err != nil {
		return nil, err
	}
	return format.EncodeBundle(table, png, t.opts.CompressTable)
}

// CreateImageCache packs the theme and saves it in the Store under id.
// With binarySave the atlas PNG and the rectangle table are written as
// separate files; otherwise the bundle is written as Go source (see
// SaveThemeAsCode). A failure affects only the files: the registry keeps
// its contents.
func (t *Theme) CreateImageCache(id ThemeID, binarySave bool) error {
	if !binarySave {
		return t.SaveThemeAsCode(id)
	}
	a := t.BuildAtlas()
	png, table, err := t.encodeAtlas(a)
	if err != nil {
		return err
	}
	if err := writeAll(t.opts.Store, themePath(id, cacheImageFile), png); err != nil {
		return fmt.Errorf("theme %q: write atlas: %w", id, err)
	}
	if err := writeAll(t.opts.Store, themePath(id, cacheTableFile), table); err != nil {
		return fmt.Errorf("theme %q: write table: %w", id, err)
	}
	t.log.Info("theme cache written",
		"theme", id,
		"width", a.Image.Rect.Dx(),
		"height", a.Image.Rect.Dy(),
		"images", len(a.Images),
		"colours", len(a.Colours))
	return nil
}

// ReadImageCache loads the cache of id into the registry. The registered
// bundle for id is used when present, otherwise the Store files.
//
// ok reports whether a cache was applied. Whatever the outcome, every
// resource afterwards holds either its cached value or its compiled-in
// default. When no cache exists err is nil if okIfNotFound, and wraps
// ErrCacheMissing otherwise. A cache that exists but cannot be used yields
// an error wrapping ErrCacheCorrupt; corrupt Store files are removed so
// they are rebuilt rather than retried.
func (t *Theme) ReadImageCache(id ThemeID, okIfNotFound bool) (ok bool, err error) {
	t.EnsureInitialised()
	t.resetToDefaults()
	defer t.rederive()

	table, png, fromStore, err := t.readCache(id)
	if errors.Is(err, ErrCacheMissing) {
		t.log.Warn("theme cache not found, using defaults", "theme", id)
		if okIfNotFound {
			return false, nil
		}
		return false, err
	}
	// An incomplete cache is as useless as a corrupt one; other read errors
	// leave the files alone.
	discard := fromStore && errors.Is(err, fs.ErrNotExist)
	if err == nil {
		if err = t.applyCache(table, png); err != nil {
			discard = fromStore
		}
	}
	if err != nil {
		t.resetToDefaults()
		err = fmt.Errorf("theme %q: %w: %w", id, ErrCacheCorrupt, err)
		t.log.Warn("theme cache unusable, using defaults", "theme", id, "reason", err)
		if discard {
			t.removeCache(id)
		}
		return false, err
	}
	t.log.Debug("theme cache loaded", "theme", id, "store", fromStore)
	return true, nil
}

func (t *Theme) readCache(id ThemeID) (table, png []byte, fromStore bool, err error) {
	if rt, ok := t.lookupTheme(id); ok && len(rt.Data) > 0 {
		table, png, err = format.DecodeBundle(rt.Data)
		return table, png, false, err
	}

	png, err = readAll(t.opts.Store, themePath(id, cacheImageFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, false, fmt.Errorf("theme %q: %w", id, ErrCacheMissing)
	}
	if err != nil {
		return nil, nil, true, err
	}
	table, err = readAll(t.opts.Store, themePath(id, cacheTableFile))
	if err != nil {
		return nil, nil, true, fmt.Errorf("rectangle table: %w", err)
	}
	return table, png, true, nil
}

func (t *Theme) removeCache(id ThemeID) {
	for _, name := range []string{cacheImageFile, cacheTableFile} {
		if err := t.opts.Store.Remove(themePath(id, name)); err != nil {
			t.log.Warn("cannot remove corrupt cache", "theme", id, "file", name, "err", err)
		}
	}
}

// applyCache validates every row it uses before touching the registry.
// Rows naming unknown resources are ignored, bad rectangles included.
func (t *Theme) applyCache(tableBytes, png []byte) error {
	tbl, err := format.DecodeTable(tableBytes)
	if err != nil {
		return err
	}
	atlas, err := t.opts.Codec.Decode(bytes.NewReader(png))
	if err != nil {
		return fmt.Errorf("decode atlas: %w", err)
	}
	bounds := atlas.Bounds()

	images := tbl.Index(format.KindImage)
	imageRows := make(map[int]format.Entry, len(images))
	for i := range t.images {
		if t.images[i].flags.Has(FlagInternal) {
			continue
		}
		if pe, ok := images[t.images[i].name]; ok {
			if err := pe.Check(bounds); err != nil {
				return err
			}
			imageRows[i] = pe
		}
	}
	colours := tbl.Index(format.KindColour)
	colourRows := make(map[int]format.Entry, len(colours))
	for i := range t.colours {
		if pe, ok := colours[t.colours[i].name]; ok {
			if err := pe.Check(bounds); err != nil {
				return err
			}
			colourRows[i] = pe
		}
	}

	for i, pe := range imageRows {
		t.install(ImageIndex(i), subImage(atlas, pe.Rect), pe.Rect.Sub(bounds.Min))
	}
	for i, pe := range colourRows {
		mid := swatchCentre(pe.Rect)
		t.colours[i].value = color.NRGBAModel.Convert(atlas.At(mid.X, mid.Y)).(color.NRGBA)
	}
	t.generation++
	return nil
}

// AtlasImage decodes the atlas of id without applying it to the registry.
func (t *Theme) AtlasImage(id ThemeID) (image.Image, error) {
	_, png, _, err := t.readCache(id)
	if err != nil {
		return nil, err
	}
	return t.opts.Codec.Decode(bytes.NewReader(png))
}
