package themeatlas

import (
	"bytes"
	"fmt"
	"go/format"
	"html"
	"image"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// goIdent turns a resource name such as "close-button.hilite" into an
// exported Go identifier fragment, "CloseButtonHilite".
func goIdent(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	title := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	id := b.String()
	if id == "" || unicode.IsDigit(rune(id[0])) {
		id = "X" + id
	}
	return id
}

// identSet hands out unique identifiers with a fixed prefix.
type identSet map[string]int

func (s identSet) next(prefix, name string) string {
	id := prefix + goIdent(name)
	s[id]++
	if n := s[id]; n > 1 {
		id = fmt.Sprintf("%s_%d", id, n)
	}
	return id
}

// WriteImageDefs writes Go source declaring an index constant for every
// image and colour, and a table of atlas rectangles keyed by resource name.
// The atlas is rebuilt first so the rectangles match the current images.
func (t *Theme) WriteImageDefs(w io.Writer, pkg string) error {
	a := t.BuildAtlas()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by themeatlas. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	fmt.Fprintf(&buf, "import \"image\"\n\n")

	ids := identSet{}
	buf.WriteString("// Image indices.\nconst (\n")
	for i := range t.images {
		e := &t.images[i]
		fmt.Fprintf(&buf, "%s = %d // %s %s\n", ids.next("Bmp", e.name), i, e.name, e.flags)
	}
	buf.WriteString(")\n\n// Colour indices.\nconst (\n")
	for i := range t.colours {
		fmt.Fprintf(&buf, "%s = %d // %s\n", ids.next("Clr", t.colours[i].name), i, t.colours[i].name)
	}
	buf.WriteString(")\n\n")

	b := a.Bounds()
	fmt.Fprintf(&buf, "// AtlasBounds is the size of the packed atlas.\nvar AtlasBounds = image.Rect(0, 0, %d, %d)\n\n", b.Dx(), b.Dy())
	buf.WriteString("// ImageRects maps image names to their atlas placement.\nvar ImageRects = map[string]image.Rectangle{\n")
	for _, p := range a.Images {
		r := p.Rect
		fmt.Fprintf(&buf, "%q: image.Rect(%d, %d, %d, %d),\n", p.Name, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
	}
	buf.WriteString("}\n\n// ColourRects maps colour names to their swatch.\nvar ColourRects = map[string]image.Rectangle{\n")
	for _, p := range a.Colours {
		r := p.Rect
		fmt.Fprintf(&buf, "%q: image.Rect(%d, %d, %d, %d),\n", p.Name, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
	}
	buf.WriteString("}\n")
	return writeGoSource(w, buf.Bytes())
}

// WriteImageMap writes an HTML image map of the atlas whose areas are
// titled with the resource names.
func (t *Theme) WriteImageMap(w io.Writer, atlasFile string) error {
	a := t.BuildAtlas()
	var buf bytes.Buffer
	b := a.Bounds()
	fmt.Fprintf(&buf, "<img src=\"%s\" width=\"%d\" height=\"%d\" usemap=\"#themeatlas\">\n",
		html.EscapeString(atlasFile), b.Dx(), b.Dy())
	buf.WriteString("<map name=\"themeatlas\">\n")
	area := func(name string, r image.Rectangle) {
		n := html.EscapeString(name)
		fmt.Fprintf(&buf, "<area shape=\"rect\" coords=\"%d,%d,%d,%d\" title=\"%s\" alt=\"%s\">\n",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, n, n)
	}
	for _, p := range a.Images {
		area(p.Name, p.Rect)
	}
	for _, p := range a.Colours {
		area(p.Name, p.Rect)
	}
	buf.WriteString("</map>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteBundleAsCode writes bundle as a Go byte slice variable, for use as
// RegisteredTheme.Data.
func WriteBundleAsCode(w io.Writer, pkg, varName string, bundle []byte) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by themeatlas. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	fmt.Fprintf(&buf, "var %s = []byte{", varName)
	for i, c := range bundle {
		if i%16 == 0 {
			buf.WriteString("\n")
		}
		fmt.Fprintf(&buf, "0x%02x,", c)
	}
	buf.WriteString("\n}\n")
	return writeGoSource(w, buf.Bytes())
}

func writeGoSource(w io.Writer, src []byte) error {
	out, err := format.Source(src)
	if err != nil {
		return fmt.Errorf("format generated source: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// SaveThemeAsCode writes the bundle of the theme as Go source into the
// Store at <id>/ThemeAsCode.go.
func (t *Theme) SaveThemeAsCode(id ThemeID) error {
	bundle, err := t.Bundle()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WriteBundleAsCode(&buf, "themes", goIdent(string(id))+"Theme", bundle); err != nil {
		return err
	}
	if err := writeAll(t.opts.Store, themePath(id, themeCodeFile), buf.Bytes()); err != nil {
		return fmt.Errorf("theme %q: write code: %w", id, err)
	}
	t.log.Info("theme code written", "theme", id, "bytes", len(bundle))
	return nil
}
