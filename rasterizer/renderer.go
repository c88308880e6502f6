package rasterizer

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/vellum-gfx/vellum"
)

// ErrZeroSize is returned when the output raster has no pixels.
var ErrZeroSize = errors.New("rasterizer: output size must be positive")

// ellipseSegments is the polygon resolution for circle and ellipse shapes.
const ellipseSegments = 64

// minStrokeWidth is the device-space width below which strokes are invisible.
const minStrokeWidth = 0.1

// Options are the render settings. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Background clears the buffer before drawing. The raster is opaque; a
	// translucent background is composited over white.
	Background color.RGBA
	// AntiAliasing is the master switch; when false AAMode is ignored.
	AntiAliasing bool
	AAMode       AAMode
	// FlatnessTolerance is the maximum curve deviation in device pixels.
	FlatnessTolerance float64
	// FillRule applies to shapes that do not set their own.
	FillRule vellum.FillRule
}

// DefaultOptions returns a white background, 4x coverage AA and the default
// flatness tolerance.
func DefaultOptions() Options {
	return Options{
		Background:        color.RGBA{255, 255, 255, 255},
		AntiAliasing:      true,
		AAMode:            Coverage4x,
		FlatnessTolerance: vellum.FlattenTolerance,
		FillRule:          vellum.NonZero,
	}
}

// Renderer rasterizes documents with a fixed set of options. A render call
// takes read-only access to the document and allocates its tessellation and
// edge buffers per call, so independent documents may render concurrently.
type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	if opts.FlatnessTolerance <= 0.0 {
		opts.FlatnessTolerance = vellum.FlattenTolerance
	}
	return &Renderer{opts: opts}
}

// Draw renders the document with default options.
func Draw(doc *vellum.Document, width, height int) (*image.RGBA, error) {
	return New(DefaultOptions()).Render(doc, width, height)
}

// Render rasterizes the document onto a fresh width by height RGB image.
// Shapes paint in document order; degenerate shapes paint nothing.
func (r *Renderer) Render(doc *vellum.Document, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrZeroSize
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := blendColors(color.RGBA{255, 255, 255, 255}, r.opts.Background, float64(r.opts.Background.A)/255.0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	view := doc.ViewBoxMatrix(float64(width), float64(height))
	for _, shape := range doc.Shapes {
		r.renderShape(img, shape, view)
	}
	return img, nil
}

func (r *Renderer) aaMode() AAMode {
	if !r.opts.AntiAliasing {
		return NoAA
	}
	return r.opts.AAMode
}

// subPath is a flattened sub-path in device space.
type subPath struct {
	points []vellum.Point
	closed bool
}

func (r *Renderer) renderShape(img *image.RGBA, shape vellum.Shape, view vellum.Matrix) {
	_, style, transform := shape.Info()
	m := view.Mul(transform)
	scale := m.ScaleFactor()

	var subPaths []subPath
	fillable := true

	switch s := shape.(type) {
	case *vellum.PathShape:
		subPaths = r.flattenPath(s.Path, m, scale)
	case *vellum.RectShape:
		if s.Width <= 0.0 || s.Height <= 0.0 || s.RX < 0.0 || s.RY < 0.0 {
			return
		}
		if 0.0 < s.RX || 0.0 < s.RY {
			subPaths = r.flattenPath(vellum.RoundedRectangle(s.X, s.Y, s.Width, s.Height, s.RX, s.RY), m, scale)
		} else {
			subPaths = []subPath{{transformPoints(m, []vellum.Point{
				{X: s.X, Y: s.Y},
				{X: s.X + s.Width, Y: s.Y},
				{X: s.X + s.Width, Y: s.Y + s.Height},
				{X: s.X, Y: s.Y + s.Height},
			}), true}}
		}
	case *vellum.CircleShape:
		if s.R <= 0.0 {
			return
		}
		subPaths = []subPath{{transformPoints(m, ellipseVertices(s.CX, s.CY, s.R, s.R)), true}}
	case *vellum.EllipseShape:
		if s.RX <= 0.0 || s.RY <= 0.0 {
			return
		}
		subPaths = []subPath{{transformPoints(m, ellipseVertices(s.CX, s.CY, s.RX, s.RY)), true}}
	case *vellum.LineShape:
		subPaths = []subPath{{transformPoints(m, []vellum.Point{
			{X: s.X1, Y: s.Y1},
			{X: s.X2, Y: s.Y2},
		}), false}}
		fillable = false
	case *vellum.TextShape:
		r.renderText(img, s, m, style)
		return
	case *vellum.Group:
		for _, child := range s.Children {
			r.renderShape(img, child, m)
		}
		return
	}

	// non-finite geometry renders nothing
	for _, sp := range subPaths {
		for _, p := range sp.points {
			if !p.IsFinite() {
				return
			}
		}
	}
	if len(subPaths) == 0 {
		return
	}

	if fillable {
		if fill := style.FillColor(); 0 < fill.A {
			polys := make([][]vellum.Point, 0, len(subPaths))
			for _, sp := range subPaths {
				if 3 <= len(sp.points) {
					polys = append(polys, sp.points)
				}
			}
			r.fill(img, polys, fill, style.FillRule(r.opts.FillRule))
		}
	}

	if stroke := style.StrokeColor(); 0 < stroke.A {
		ss := style.StrokeStyle()
		ss.Width *= scale
		if ss.Width < minStrokeWidth {
			return
		}
		dashes := make([]float64, len(ss.Dashes))
		for i, d := range ss.Dashes {
			dashes[i] = d * scale
		}
		offset := ss.DashOffset * scale

		for _, sp := range subPaths {
			for _, run := range vellum.ApplyDashes(sp.points, sp.closed, dashes, offset) {
				closed := sp.closed && len(ss.Dashes) == 0 // dash runs are open
				outline := vellum.ExpandStroke(run, closed, ss)
				if 3 <= len(outline) {
					r.fill(img, [][]vellum.Point{outline}, stroke, vellum.NonZero)
				}
			}
		}
	}
}

// flattenPath tessellates the path in user space with the tolerance scaled to
// device pixels, then transforms the polylines into device space.
func (r *Renderer) flattenPath(p *vellum.Path, m vellum.Matrix, scale float64) []subPath {
	tolerance := r.opts.FlatnessTolerance
	if vellum.Epsilon < scale {
		tolerance /= scale
	}
	var subPaths []subPath
	for _, poly := range p.Flatten(tolerance) {
		subPaths = append(subPaths, subPath{transformPoints(m, poly.Points), poly.Closed})
	}
	return subPaths
}

func transformPoints(m vellum.Matrix, pts []vellum.Point) []vellum.Point {
	out := make([]vellum.Point, len(pts))
	for i, p := range pts {
		out[i] = m.Dot(p)
	}
	return out
}

func ellipseVertices(cx, cy, rx, ry float64) []vellum.Point {
	pts := make([]vellum.Point, ellipseSegments)
	for i := 0; i < ellipseSegments; i++ {
		theta := 2.0 * math.Pi * float64(i) / ellipseSegments
		sintheta, costheta := math.Sincos(theta)
		pts[i] = vellum.Point{X: cx + rx*costheta, Y: cy + ry*sintheta}
	}
	return pts
}

// fill rasterizes the sub-paths and blends the color into the image with
// source-over compositing, coverage scaling the paint's alpha.
func (r *Renderer) fill(img *image.RGBA, subPaths [][]vellum.Point, c color.RGBA, rule vellum.FillRule) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	coverage := Rasterize(subPaths, width, height, rule, r.aaMode())

	alpha := float64(c.A) / 255.0
	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			cov := coverage[row+x]
			if cov <= 0.0 {
				continue
			}
			dst := img.RGBAAt(x, y)
			img.SetRGBA(x, y, blendColors(dst, c, alpha*cov))
		}
	}
}

// RGBBytes returns the image as tightly packed row-major RGB bytes, the form
// texture uploaders consume.
func RGBBytes(img *image.RGBA) []byte {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	out := make([]byte, 0, width*height*3)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out
}

// blendColors composites src over dst with effective alpha a on an opaque
// destination.
func blendColors(dst, src color.RGBA, a float64) color.RGBA {
	if a <= 0.0 {
		return dst
	} else if 1.0 < a {
		a = 1.0
	}
	inv := 1.0 - a
	return color.RGBA{
		uint8(float64(dst.R)*inv + float64(src.R)*a + 0.5),
		uint8(float64(dst.G)*inv + float64(src.G)*a + 0.5),
		uint8(float64(dst.B)*inv + float64(src.B)*a + 0.5),
		255,
	}
}

// renderText draws the text with the built-in 5x7 bitmap font, each set glyph
// bit becoming a filled square scaled by fontSize/7. A real outline-font
// backend is a collaborator concern.
func (r *Renderer) renderText(img *image.RGBA, s *vellum.TextShape, m vellum.Matrix, style vellum.Style) {
	fill := style.FillColor()
	if fill.A == 0 || s.FontSize <= 0.0 {
		return
	}
	cell := s.FontSize / glyphRows

	var squares [][]vellum.Point
	penX := s.X
	for _, ch := range s.Text {
		cols, ok := glyphColumns(ch)
		if !ok {
			penX += glyphAdvance * cell
			continue
		}
		for i := 0; i < glyphCols; i++ {
			for j := 0; j < glyphRows; j++ {
				if cols[i]&(1<<uint(j)) == 0 {
					continue
				}
				x0 := penX + float64(i)*cell
				y0 := s.Y + (float64(j)-glyphRows)*cell
				squares = append(squares, transformPoints(m, []vellum.Point{
					{X: x0, Y: y0},
					{X: x0 + cell, Y: y0},
					{X: x0 + cell, Y: y0 + cell},
					{X: x0, Y: y0 + cell},
				}))
			}
		}
		penX += glyphAdvance * cell
	}
	if 0 < len(squares) {
		r.fill(img, squares, fill, vellum.NonZero)
	}
}
