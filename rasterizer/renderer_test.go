package rasterizer

import (
	"image"
	"image/color"
	"testing"

	"github.com/tdewolff/test"

	"github.com/vellum-gfx/vellum"
	"github.com/vellum-gfx/vellum/svg"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func aliasedOptions() Options {
	opts := DefaultOptions()
	opts.AntiAliasing = false
	return opts
}

func renderSVG(t *testing.T, source string, width, height int, opts Options) *image.RGBA {
	t.Helper()
	doc, _, err := svg.ParseString(source)
	test.That(t, err == nil)
	img, err := New(opts).Render(doc, width, height)
	test.That(t, err == nil)
	return img
}

func TestRenderZeroSize(t *testing.T) {
	doc := vellum.NewDocument()
	_, err := Draw(doc, 0, 10)
	test.T(t, err, ErrZeroSize)
	_, err = Draw(doc, 10, -1)
	test.T(t, err, ErrZeroSize)
}

func TestRenderEmptyDocument(t *testing.T) {
	img := renderSVG(t, `<svg width="10" height="10"></svg>`, 10, 10, aliasedOptions())
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			test.T(t, img.RGBAAt(x, y), white)
		}
	}
}

func TestRenderBackground(t *testing.T) {
	opts := aliasedOptions()
	opts.Background = color.RGBA{10, 20, 30, 255}
	img := renderSVG(t, `<svg width="4" height="4"></svg>`, 4, 4, opts)
	test.T(t, img.RGBAAt(2, 2), color.RGBA{10, 20, 30, 255})
}

// Solid circle: with AA off the filled pixel set is exactly the centers
// within the radius.
func TestRenderSolidCircle(t *testing.T) {
	img := renderSVG(t, `<svg width="10" height="10"><circle cx="5" cy="5" r="3" fill="rgb(255,0,0)"/></svg>`,
		10, 10, aliasedOptions())
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			dx := float64(x) + 0.5 - 5.0
			dy := float64(y) + 0.5 - 5.0
			want := white
			if dx*dx+dy*dy <= 9.0 {
				want = red
			}
			test.T(t, img.RGBAAt(x, y), want, "pixel", x, y)
		}
	}
}

// Even-odd donut: the inner square shows the background; nonzero fills it.
func TestRenderEvenOddDonut(t *testing.T) {
	source := `<svg width="20" height="20"><path d="M2,2 L18,2 L18,18 L2,18 Z M6,6 L14,6 L14,14 L6,14 Z" fill="black" fill-rule="evenodd"/></svg>`
	img := renderSVG(t, source, 20, 20, aliasedOptions())
	test.T(t, img.RGBAAt(4, 4), black, "frame")
	test.T(t, img.RGBAAt(10, 10), white, "hole")
	test.T(t, img.RGBAAt(1, 1), white, "outside")

	source = `<svg width="20" height="20"><path d="M2,2 L18,2 L18,18 L2,18 Z M6,6 L14,6 L14,14 L6,14 Z" fill="black" fill-rule="nonzero"/></svg>`
	img = renderSVG(t, source, 20, 20, aliasedOptions())
	test.T(t, img.RGBAAt(4, 4), black)
	test.T(t, img.RGBAAt(10, 10), black, "nonzero fills the hole")
}

// Dashed stroke: 2-pixel-tall black runs with transparent gaps.
func TestRenderDashedStroke(t *testing.T) {
	source := `<svg width="100" height="10"><line x1="0" y1="5" x2="100" y2="5" stroke="black" stroke-width="2" stroke-dasharray="10 5"/></svg>`
	img := renderSVG(t, source, 100, 10, aliasedOptions())

	on := func(x int) bool {
		cx := float64(x) + 0.5
		for _, start := range []float64{0.0, 15.0, 30.0, 45.0, 60.0, 75.0, 90.0} {
			if start <= cx && cx <= start+10.0 {
				return true
			}
		}
		return false
	}
	for x := 0; x < 100; x++ {
		want := white
		if on(x) {
			want = black
		}
		test.T(t, img.RGBAAt(x, 4), want, "pixel", x, 4)
		test.T(t, img.RGBAAt(x, 5), want, "pixel", x, 5)
	}
	// outside the 2-pixel band
	test.T(t, img.RGBAAt(5, 2), white)
	test.T(t, img.RGBAAt(5, 7), white)
}

// viewBox scaling: a 50-unit rect in a 100-unit viewBox covers device pixels
// 50..150 of a 200x200 raster.
func TestRenderViewBox(t *testing.T) {
	source := `<svg width="200" height="200" viewBox="0 0 100 100"><rect x="25" y="25" width="50" height="50" fill="blue"/></svg>`
	img := renderSVG(t, source, 200, 200, aliasedOptions())
	test.T(t, img.RGBAAt(100, 100), blue)
	test.T(t, img.RGBAAt(50, 50), blue)
	test.T(t, img.RGBAAt(149, 149), blue)
	test.T(t, img.RGBAAt(49, 100), white)
	test.T(t, img.RGBAAt(150, 150), white)
	test.T(t, img.RGBAAt(40, 40), white)
}

// Smooth cubic: the reflected S segment draws an S-shape through the curve's
// anchor points.
func TestRenderSmoothCubic(t *testing.T) {
	source := `<svg width="100" height="100"><path d="M10,50 C10,10 40,10 40,50 S70,90 70,50" stroke="black" fill="none"/></svg>`
	img := renderSVG(t, source, 100, 100, aliasedOptions())

	// anchors of both arches are painted
	anyBlack := func(x0, x1, y0, y1 int) bool {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if img.RGBAAt(x, y) == black {
					return true
				}
			}
		}
		return false
	}
	test.That(t, anyBlack(9, 11, 40, 50), "start anchor")
	test.That(t, anyBlack(39, 41, 45, 55), "middle anchor")
	test.That(t, anyBlack(69, 71, 50, 58), "end anchor")
	// the first arch rises (small y), the second dips (large y)
	found := false
	for y := 15; y < 25; y++ {
		if img.RGBAAt(25, y) == black {
			found = true
		}
	}
	test.That(t, found, "first arch near y=20")
	found = false
	for y := 75; y < 85; y++ {
		if img.RGBAAt(55, y) == black {
			found = true
		}
	}
	test.That(t, found, "second arch near y=80")
	// fill=none leaves the inside of the arches unpainted
	test.T(t, img.RGBAAt(25, 45), white)
}

func TestRenderBoundaryShapes(t *testing.T) {
	// zero-radius circle and zero-sized rect paint nothing
	img := renderSVG(t, `<svg width="10" height="10">
<circle cx="5" cy="5" r="0" fill="black"/>
<rect x="1" y="1" width="0" height="5" fill="black"/>
<circle cx="5" cy="5" r="-3" fill="black"/></svg>`, 10, 10, aliasedOptions())
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			test.T(t, img.RGBAAt(x, y), white)
		}
	}
}

func TestRenderDegenerateTransform(t *testing.T) {
	// a determinant-zero transform collapses the shape to nothing visible
	img := renderSVG(t, `<svg width="10" height="10"><rect width="8" height="8" fill="black" transform="scale(0)"/></svg>`,
		10, 10, aliasedOptions())
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			test.T(t, img.RGBAAt(x, y), white)
		}
	}
}

func TestRenderTransformAssociativity(t *testing.T) {
	// a nested group transform renders identically to the composed transform
	nested := `<svg width="40" height="40"><g transform="translate(4,6)"><rect width="8" height="8" transform="scale(2)" fill="black"/></g></svg>`
	composed := `<svg width="40" height="40"><rect width="8" height="8" transform="translate(4,6) scale(2)" fill="black"/></svg>`
	a := renderSVG(t, nested, 40, 40, aliasedOptions())
	b := renderSVG(t, composed, 40, 40, aliasedOptions())
	test.T(t, a.Pix, b.Pix)
}

func TestRenderStrokeWidthScales(t *testing.T) {
	// stroke width is multiplied by the transform's uniform scale factor
	source := `<svg width="40" height="40"><line x1="5" y1="10" x2="15" y2="10" stroke="black" stroke-width="2" transform="scale(2)"/></svg>`
	img := renderSVG(t, source, 40, 40, aliasedOptions())
	// the stroke band spans y in [18,22) at width 4
	test.T(t, img.RGBAAt(20, 18), black)
	test.T(t, img.RGBAAt(20, 21), black)
	test.T(t, img.RGBAAt(20, 25), white)
	test.T(t, img.RGBAAt(20, 16), white)
}

func TestRenderOpacity(t *testing.T) {
	source := `<svg width="4" height="4"><rect width="4" height="4" fill="red" fill-opacity="0.5"/></svg>`
	img := renderSVG(t, source, 4, 4, aliasedOptions())
	c := img.RGBAAt(2, 2)
	test.T(t, c.R, uint8(255))
	test.That(t, 126 <= c.G && c.G <= 129, "green", c.G)
	test.That(t, 126 <= c.B && c.B <= 129)
}

func TestRenderPaintOrder(t *testing.T) {
	source := `<svg width="10" height="10"><rect width="10" height="10" fill="red"/><rect width="10" height="10" fill="blue"/></svg>`
	img := renderSVG(t, source, 10, 10, aliasedOptions())
	test.T(t, img.RGBAAt(5, 5), blue, "later shapes paint over earlier ones")
}

func TestRenderStrokedCircleRing(t *testing.T) {
	source := `<svg width="40" height="40"><circle cx="20" cy="20" r="10" fill="none" stroke="black" stroke-width="4"/></svg>`
	img := renderSVG(t, source, 40, 40, aliasedOptions())
	test.T(t, img.RGBAAt(20, 20), white, "center stays empty")
	test.T(t, img.RGBAAt(20+10, 20), black, "ring on the radius")
	test.T(t, img.RGBAAt(20, 20-10), black)
	test.T(t, img.RGBAAt(20, 2), white, "outside the ring")
}

func TestRenderText(t *testing.T) {
	source := `<svg width="40" height="20"><text x="2" y="16" font-size="14" fill="black">I</text></svg>`
	img := renderSVG(t, source, 40, 20, aliasedOptions())
	// the vertical bar of I sits in the middle glyph column
	painted := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if img.RGBAAt(x, y) == black {
				painted++
			}
		}
	}
	test.That(t, 10 < painted, "glyph pixels painted:", painted)
}

func TestRenderAAModesOnCircle(t *testing.T) {
	for _, mode := range []AAMode{Coverage4x, Coverage8x, Coverage16x, Analytical} {
		opts := DefaultOptions()
		opts.AAMode = mode
		img := renderSVG(t, `<svg width="20" height="20"><circle cx="10" cy="10" r="6" fill="black"/></svg>`, 20, 20, opts)
		test.T(t, img.RGBAAt(10, 10), black, "interior", mode)
		test.T(t, img.RGBAAt(1, 1), white, "exterior", mode)

		// boundary pixels are blended
		gray := false
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				c := img.RGBAAt(x, y)
				if c != black && c != white {
					gray = true
				}
			}
		}
		test.That(t, gray, "mode", mode, "produced no partial coverage")
	}
}
