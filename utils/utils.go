// Package utils holds helpers around themeatlas that need image files or
// palette analysis: reading and writing images, extracting the dominant
// colours of an atlas and turning them into recolour pairs.
package utils

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/setanarut/themeatlas"
)

// ErrEmptyPalette is returned when an image yields no usable colours.
var ErrEmptyPalette = errors.New("utils: empty palette")

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod is the inverse of PaletteMethod.String.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch s {
	case "dominantcolor", "dominant", "":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, fmt.Errorf("unknown palette method %q", s)
}

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ya, yb := luminance(a), luminance(b)
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		}
		return 0
	})
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// opaqueOnly hides transparent pixels from the palette extractors; atlas
// padding is transparent and would otherwise dominate.
type opaqueOnly struct{ image.Image }

func (o opaqueOnly) At(x, y int) color.Color {
	c := o.Image.At(x, y)
	if _, _, _, a := c.RGBA(); a < 0x8000 {
		return color.Transparent
	}
	return c
}

func extractDominant(img image.Image, k int) []colorful.Color {
	candidates := dominantcolor.FindWeight(opaqueOnly{img}, max(24, k*8))
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		if c.RGBA.A == 0 {
			continue
		}
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{Col: col.Clamped(), Weight: max(c.Weight, 1e-6)})
	}
	return selectDiverse(weighted, k)
}

// selectDiverse greedily picks k colours that are far apart in Lab while
// favouring heavily weighted ones. The heaviest colour always comes first.
func selectDiverse(cands []weightedColor, k int) []colorful.Color {
	if k <= 0 || len(cands) == 0 {
		return nil
	}
	type item struct {
		col colorful.Color
		lab [3]float64
		w   float64
	}
	items := make([]item, 0, len(cands))
	maxW := 0.0
	for _, c := range cands {
		l, a, b := c.Col.Lab()
		items = append(items, item{col: c.Col, lab: [3]float64{l, a, b}, w: c.Weight})
		maxW = max(maxW, c.Weight)
	}
	k = min(k, len(items))

	selected := make([]bool, len(items))
	picked := make([]int, 0, k)
	seed := 0
	for i := range items {
		if items[i].w > items[seed].w {
			seed = i
		}
	}
	picked = append(picked, seed)
	selected[seed] = true

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i := range items {
			if selected[i] {
				continue
			}
			minD2 := math.MaxFloat64
			for _, s := range picked {
				d0 := items[i].lab[0] - items[s].lab[0]
				d1 := items[i].lab[1] - items[s].lab[1]
				d2 := items[i].lab[2] - items[s].lab[2]
				minD2 = min(minD2, d0*d0+d1*d1+d2*d2)
			}
			score := math.Sqrt(minD2) * (0.55 + 0.45*math.Sqrt(items[i].w/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		selected[best] = true
		picked = append(picked, best)
	}

	out := make([]colorful.Color, 0, len(picked))
	for _, i := range picked {
		out = append(out, items[i].col)
	}
	return out
}

func extractKMeans(img image.Image, k int) []colorful.Color {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	// Subsample to keep kmeans tractable on large atlases.
	const maxSamples = 12000
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/maxSamples)) + 1
	}

	dataset := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			r, g, bl, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			// Undo premultiplication so translucent pixels keep their hue.
			dataset = append(dataset, clusters.Coordinates{
				float64(r) / float64(a),
				float64(g) / float64(a),
				float64(bl) / float64(a),
			})
		}
	}
	if len(dataset) == 0 {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, min(max(k*4, k+2), len(dataset)))
	if err != nil || len(cc) == 0 {
		return nil
	}
	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		weighted = append(weighted, weightedColor{Col: col, Weight: float64(len(c.Observations))})
	}
	return selectDiverse(weighted, k)
}

// ExtractPalette returns up to k representative colours of the opaque
// pixels of img. A k-means run that fails falls back to the dominant colour
// method.
func ExtractPalette(img image.Image, k int, method PaletteMethod) ([]colorful.Color, error) {
	if k <= 0 {
		return nil, fmt.Errorf("palette size %d: %w", k, ErrEmptyPalette)
	}
	var p []colorful.Color
	if method == PaletteMethodKMeans {
		p = extractKMeans(img, k)
	}
	if len(p) == 0 {
		p = extractDominant(img, k)
	}
	if len(p) == 0 {
		return nil, ErrEmptyPalette
	}
	return p, nil
}

// AccentColour picks the most saturated colour of palette, breaking ties
// toward the earlier entry.
func AccentColour(palette []colorful.Color) (colorful.Color, bool) {
	if len(palette) == 0 {
		return colorful.Color{}, false
	}
	best, bestS := palette[0], -1.0
	for _, c := range palette {
		if _, s, _ := c.Hsl(); s > bestS {
			best, bestS = c, s
		}
	}
	return best, true
}

// ToNRGBA converts a palette colour to an opaque NRGBA value.
func ToNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// AccentPairs builds recolour pairs mapping each of from toward the accent
// colour of img.
func AccentPairs(img image.Image, method PaletteMethod, from ...color.NRGBA) ([]themeatlas.RecolourPair, error) {
	palette, err := ExtractPalette(img, 6, method)
	if err != nil {
		return nil, err
	}
	accent, _ := AccentColour(palette)
	to := ToNRGBA(accent)
	pairs := make([]themeatlas.RecolourPair, 0, len(from))
	for _, f := range from {
		pairs = append(pairs, themeatlas.RecolourPair{From: f, To: to})
	}
	return pairs, nil
}

// ReadImage decodes a PNG or JPEG file.
func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SaveImage writes img as PNG.
func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PaletteImage renders palette as a strip of tileSize squares.
func PaletteImage(palette []colorful.Color, tileSize int) *image.NRGBA {
	if tileSize <= 0 {
		tileSize = 64
	}
	img := image.NewNRGBA(image.Rect(0, 0, tileSize*len(palette), tileSize))
	for i, c := range palette {
		v := ToNRGBA(c)
		for y := range tileSize {
			for x := i * tileSize; x < (i+1)*tileSize; x++ {
				img.SetNRGBA(x, y, v)
			}
		}
	}
	return img
}

// SavePalette writes PaletteImage(palette, tileSize) as PNG.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return ErrEmptyPalette
	}
	return SaveImage(PaletteImage(palette, tileSize), filename)
}
