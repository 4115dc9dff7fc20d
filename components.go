package themeatlas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
)

func componentPath(id ThemeID, name string) string {
	return themePath(id, componentsDir+"/"+name+".png")
}

// SaveComponents writes every non-internal image of the theme as its own
// PNG under <id>/Components, for editing in an image editor.
func (t *Theme) SaveComponents(id ThemeID) error {
	t.EnsureInitialised()
	var errs []error
	for i := range t.images {
		e := &t.images[i]
		if e.flags.Has(FlagInternal) {
			continue
		}
		var buf bytes.Buffer
		if err := t.opts.Codec.Encode(&buf, e.img); err != nil {
			errs = append(errs, fmt.Errorf("component %q: %w", e.name, err))
			continue
		}
		if err := writeAll(t.opts.Store, componentPath(id, e.name), buf.Bytes()); err != nil {
			errs = append(errs, fmt.Errorf("component %q: %w", e.name, err))
		}
	}
	return errors.Join(errs...)
}

// LoadComponents reads the per-image PNGs saved by SaveComponents and
// installs each one found with ReplaceImage. It returns how many were
// loaded. Finding none is an error wrapping ErrCacheMissing unless
// okIfNotFound; an undecodable file is an error wrapping ErrCacheCorrupt.
// Every file is decoded before any is installed, so on error the registry
// is left as it was.
func (t *Theme) LoadComponents(id ThemeID, okIfNotFound bool) (int, error) {
	t.EnsureInitialised()
	found := make(map[ImageIndex]image.Image)
	for i := range t.images {
		e := &t.images[i]
		if e.flags.Has(FlagInternal) {
			continue
		}
		b, err := readAll(t.opts.Store, componentPath(id, e.name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("component %q: %w", e.name, err)
		}
		img, err := t.opts.Codec.Decode(bytes.NewReader(b))
		if err != nil {
			return 0, fmt.Errorf("component %q: %w: %w", e.name, ErrCacheCorrupt, err)
		}
		if img.Bounds().Empty() {
			return 0, fmt.Errorf("component %q: %w: empty image", e.name, ErrCacheCorrupt)
		}
		found[ImageIndex(i)] = img
	}
	if len(found) == 0 {
		if !okIfNotFound {
			return 0, fmt.Errorf("theme %q components: %w", id, ErrCacheMissing)
		}
		return 0, nil
	}
	for i, img := range found {
		t.ReplaceImage(i, img)
	}
	t.rederive()
	t.log.Debug("theme components loaded", "theme", id, "count", len(found))
	return len(found), nil
}
