package themeatlas

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/mat"
)

// DefaultRecolourThreshold accepts pixels up to 30 levels of RGB distance
// from the source colour.
const DefaultRecolourThreshold = 30 * 30

// MaxColourDistance is the largest value ColourDistance can return. A
// threshold of MaxColourDistance matches every pixel.
const MaxColourDistance = 3 * 255 * 255

// ColourDistance returns the squared Euclidean distance between a and b in
// 8-bit RGB. Alpha is ignored.
func ColourDistance(a, b color.Color) int {
	ca := color.NRGBAModel.Convert(a).(color.NRGBA)
	cb := color.NRGBAModel.Convert(b).(color.NRGBA)
	return nrgbaDistance(ca, cb)
}

func nrgbaDistance(a, b color.NRGBA) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// BlendMode selects how a matching pixel takes on the target colour.
type BlendMode int

const (
	// BlendHSL keeps the pixel's HSL lightness and takes hue and saturation
	// from the target.
	BlendHSL BlendMode = iota
	// BlendYIQ keeps the pixel's luma and takes the I/Q chroma of the target.
	BlendYIQ
	// BlendRamp maps each channel piecewise linearly so that the source
	// colour lands on the target while black and white stay fixed.
	BlendRamp
)

func (m BlendMode) String() string {
	switch m {
	case BlendHSL:
		return "hsl"
	case BlendYIQ:
		return "yiq"
	case BlendRamp:
		return "ramp"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
}

// ParseBlendMode is the inverse of BlendMode.String.
func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(s) {
	case "hsl", "":
		return BlendHSL, nil
	case "yiq":
		return BlendYIQ, nil
	case "ramp":
		return BlendRamp, nil
	}
	return BlendHSL, fmt.Errorf("unknown blend mode %q", s)
}

// RecolourPair maps pixels near From toward To.
type RecolourPair struct {
	From color.NRGBA
	To   color.NRGBA
}

// Recolourer rewrites pixels within Threshold of a pair's From colour.
type Recolourer struct {
	Threshold int
	Mode      BlendMode
}

// Recolour rewrites img in place and returns the number of pixels changed.
// Each pixel is tested against the pairs in order using its original value
// and the first pair within the threshold decides its fate, so one pair's
// output is never matched by a later pair. A pair whose From equals To
// claims its pixels and leaves them untouched.
func (rc Recolourer) Recolour(img *image.NRGBA, pairs ...RecolourPair) int {
	if len(pairs) == 0 {
		return 0
	}
	blend := rc.blender()
	changed := 0
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			px := img.Pix[i : i+4 : i+4]
			c := color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
			for _, p := range pairs {
				if nrgbaDistance(c, p.From) > rc.Threshold {
					continue
				}
				if p.From != p.To {
					out := blend(c, p)
					if out != c {
						px[0], px[1], px[2] = out.R, out.G, out.B
						changed++
					}
				}
				break
			}
		}
	}
	return changed
}

func (rc Recolourer) blender() func(c color.NRGBA, p RecolourPair) color.NRGBA {
	switch rc.Mode {
	case BlendYIQ:
		return newYIQBlender().blend
	case BlendRamp:
		return blendRamp
	default:
		return blendHSL
	}
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func blendHSL(c color.NRGBA, p RecolourPair) color.NRGBA {
	_, _, l := toColorful(c).Hsl()
	h, s, _ := toColorful(p.To).Hsl()
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}

func blendRamp(c color.NRGBA, p RecolourPair) color.NRGBA {
	return color.NRGBA{
		R: rampChannel(c.R, p.From.R, p.To.R),
		G: rampChannel(c.G, p.From.G, p.To.G),
		B: rampChannel(c.B, p.From.B, p.To.B),
		A: c.A,
	}
}

func rampChannel(c, from, to uint8) uint8 {
	ci, f, t := int(c), int(from), int(to)
	if ci <= f {
		if f == 0 {
			return to
		}
		return uint8(ci * t / f)
	}
	return uint8(t + (ci-f)*(255-t)/(255-f))
}

// NTSC RGB to YIQ.
var yiqForward = mat.NewDense(3, 3, []float64{
	0.299, 0.587, 0.114,
	0.5959, -0.2746, -0.3213,
	0.2115, -0.5227, 0.3112,
})

var yiqInverse = func() *mat.Dense {
	var inv mat.Dense
	if err := inv.Inverse(yiqForward); err != nil {
		panic(err)
	}
	return &inv
}()

type yiqBlender struct {
	rgb, yiq, to *mat.VecDense
}

func newYIQBlender() *yiqBlender {
	return &yiqBlender{
		rgb: mat.NewVecDense(3, nil),
		yiq: mat.NewVecDense(3, nil),
		to:  mat.NewVecDense(3, nil),
	}
}

func (y *yiqBlender) toYIQ(dst *mat.VecDense, c color.NRGBA) {
	y.rgb.SetVec(0, float64(c.R)/255)
	y.rgb.SetVec(1, float64(c.G)/255)
	y.rgb.SetVec(2, float64(c.B)/255)
	dst.MulVec(yiqForward, y.rgb)
}

func (y *yiqBlender) blend(c color.NRGBA, p RecolourPair) color.NRGBA {
	y.toYIQ(y.yiq, c)
	y.toYIQ(y.to, p.To)
	y.yiq.SetVec(1, y.to.AtVec(1))
	y.yiq.SetVec(2, y.to.AtVec(2))
	y.rgb.MulVec(yiqInverse, y.yiq)
	out := colorful.Color{R: y.rgb.AtVec(0), G: y.rgb.AtVec(1), B: y.rgb.AtVec(2)}.Clamped()
	r, g, b := out.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}
