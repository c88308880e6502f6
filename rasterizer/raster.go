// Package rasterizer renders vellum scenes into RGB raster images using a
// scanline polygon fill with coverage-based anti-aliasing.
package rasterizer

import (
	"math"
	"sort"

	"github.com/vellum-gfx/vellum"
)

// AAMode selects how pixel coverage is sampled.
type AAMode int

const (
	// NoAA takes a single sample at the pixel center.
	NoAA AAMode = iota
	// Coverage4x uses a 4-sample rotated-grid pattern.
	Coverage4x
	// Coverage8x uses an 8-sample pattern.
	Coverage8x
	// Coverage16x uses a 16-sample jittered-grid pattern.
	Coverage16x
	// Analytical accumulates exact inside-span lengths on 8 sublines per pixel.
	Analytical
)

var pattern4x = []vellum.Point{
	{X: 0.375, Y: 0.125},
	{X: 0.875, Y: 0.375},
	{X: 0.125, Y: 0.625},
	{X: 0.625, Y: 0.875},
}

var pattern8x = []vellum.Point{
	{X: 0.5625, Y: 0.3125},
	{X: 0.4375, Y: 0.6875},
	{X: 0.8125, Y: 0.5625},
	{X: 0.3125, Y: 0.1875},
	{X: 0.1875, Y: 0.8125},
	{X: 0.0625, Y: 0.4375},
	{X: 0.6875, Y: 0.9375},
	{X: 0.9375, Y: 0.0625},
}

var pattern16x = []vellum.Point{
	{X: 0.0625, Y: 0.0625}, {X: 0.1875, Y: 0.3125}, {X: 0.3125, Y: 0.1875}, {X: 0.4375, Y: 0.4375},
	{X: 0.5625, Y: 0.0625}, {X: 0.6875, Y: 0.3125}, {X: 0.8125, Y: 0.1875}, {X: 0.9375, Y: 0.4375},
	{X: 0.0625, Y: 0.5625}, {X: 0.1875, Y: 0.8125}, {X: 0.3125, Y: 0.6875}, {X: 0.4375, Y: 0.9375},
	{X: 0.5625, Y: 0.5625}, {X: 0.6875, Y: 0.8125}, {X: 0.8125, Y: 0.6875}, {X: 0.9375, Y: 0.9375},
}

var pattern1x = []vellum.Point{{X: 0.5, Y: 0.5}}

func samplePattern(mode AAMode) []vellum.Point {
	switch mode {
	case Coverage4x:
		return pattern4x
	case Coverage8x:
		return pattern8x
	case Coverage16x:
		return pattern16x
	}
	return pattern1x
}

// edge is one non-horizontal polygon segment in the edge table.
type edge struct {
	yMin    float64
	yMax    float64
	xAtYMin float64
	dxPerY  float64
	dir     int // +1 when the segment runs downward, -1 upward
}

const edgeEpsilon = 1e-6

// newEdge builds an edge from a segment. Horizontal segments carry no winding
// and are discarded.
func newEdge(p0, p1 vellum.Point) (edge, bool) {
	dy := p1.Y - p0.Y
	if math.Abs(dy) <= edgeEpsilon {
		return edge{}, false
	}
	if 0.0 < dy {
		return edge{p0.Y, p1.Y, p0.X, (p1.X - p0.X) / dy, 1}, true
	}
	return edge{p1.Y, p0.Y, p1.X, (p0.X - p1.X) / -dy, -1}, true
}

// xAt returns the edge's x at scanline y.
func (e edge) xAt(y float64) float64 {
	return e.xAtYMin + (y-e.yMin)*e.dxPerY
}

// crosses is true when the scanline at y crosses the edge. The top end is
// inclusive and the bottom exclusive so shared vertices count once.
func (e edge) crosses(y float64) bool {
	return e.yMin <= y && y < e.yMax
}

// buildEdgeTable collects the edges of all sub-paths into one table so that
// sub-paths cut holes into each other according to the fill rule. Every
// sub-path is treated as closed, with an implicit segment from its last to
// its first point.
func buildEdgeTable(subPaths [][]vellum.Point) []edge {
	var edges []edge
	for _, poly := range subPaths {
		n := len(poly)
		if n < 2 {
			continue
		}
		for i := 0; i < n; i++ {
			if e, ok := newEdge(poly[i], poly[(i+1)%n]); ok {
				edges = append(edges, e)
			}
		}
	}
	return edges
}

func inside(winding int, rule vellum.FillRule) bool {
	if rule == vellum.EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// winding sums the directions of all edges crossed by a rightward ray from
// the sample point.
func winding(x, y float64, edges []edge) int {
	w := 0
	for _, e := range edges {
		if e.crosses(y) && x < e.xAt(y) {
			w += e.dir
		}
	}
	return w
}

// pixelCoverage computes the coverage of pixel (px,py) in [0,1].
func pixelCoverage(px, py int, edges []edge, rule vellum.FillRule, mode AAMode) float64 {
	if mode == Analytical {
		return analyticalCoverage(px, py, edges, rule)
	}

	samples := samplePattern(mode)
	hits := 0
	for _, s := range samples {
		if inside(winding(float64(px)+s.X, float64(py)+s.Y, edges), rule) {
			hits++
		}
	}
	return float64(hits) / float64(len(samples))
}

// analyticalCoverage walks 8 sublines through the pixel and accumulates the
// inside-span lengths clipped to the pixel's x range.
func analyticalCoverage(px, py int, edges []edge, rule vellum.FillRule) float64 {
	const ySteps = 8
	left := float64(px)
	right := float64(px + 1)

	type crossing struct {
		x   float64
		dir int
	}

	coverage := 0.0
	for yi := 0; yi < ySteps; yi++ {
		y := float64(py) + (float64(yi)+0.5)/ySteps

		var crossings []crossing
		w0 := 0 // winding already accumulated left of the pixel
		for _, e := range edges {
			if !e.crosses(y) {
				continue
			}
			x := e.xAt(y)
			if x <= left {
				w0 += e.dir
			} else {
				crossings = append(crossings, crossing{x, e.dir})
			}
		}
		sort.Slice(crossings, func(i, j int) bool { return crossings[i].x < crossings[j].x })

		w := w0
		lastX := left
		for _, c := range crossings {
			x := math.Min(c.x, right)
			if inside(w, rule) {
				coverage += x - lastX
			}
			lastX = x
			w += c.dir
			if right <= c.x {
				// remaining crossings are right of the pixel; the winding at
				// lastX=right no longer changes the accumulated span
				break
			}
		}
		if inside(w, rule) && lastX < right {
			coverage += right - lastX
		}
	}
	cov := coverage / ySteps
	if cov < 0.0 {
		return 0.0
	} else if 1.0 < cov {
		return 1.0
	}
	return cov
}

// Rasterize computes a row-major width*height coverage buffer in [0,1] for
// the union of the sub-paths under the given fill rule. Only pixels within
// the sub-paths' bounding box clipped to the image are visited.
func Rasterize(subPaths [][]vellum.Point, width, height int, rule vellum.FillRule, mode AAMode) []float64 {
	coverage := make([]float64, width*height)
	if width <= 0 || height <= 0 {
		return coverage
	}

	edges := buildEdgeTable(subPaths)
	if len(edges) == 0 {
		return coverage
	}

	bbox := vellum.EmptyBBox()
	for _, poly := range subPaths {
		for _, p := range poly {
			bbox = bbox.Expand(p)
		}
	}

	yMin := int(math.Floor(bbox.Min.Y))
	yMax := int(math.Ceil(bbox.Max.Y))
	xMin := int(math.Floor(bbox.Min.X))
	xMax := int(math.Ceil(bbox.Max.X))
	if yMin < 0 {
		yMin = 0
	}
	if height-1 < yMax {
		yMax = height - 1
	}
	if xMin < 0 {
		xMin = 0
	}
	if width-1 < xMax {
		xMax = width - 1
	}

	for y := yMin; y <= yMax; y++ {
		// edges touching this pixel row
		var active []edge
		for _, e := range edges {
			if e.yMin <= float64(y+1) && float64(y) <= e.yMax {
				active = append(active, e)
			}
		}
		if len(active) == 0 {
			continue
		}
		for x := xMin; x <= xMax; x++ {
			if cov := pixelCoverage(x, y, active, rule, mode); 0.0 < cov {
				coverage[y*width+x] = cov
			}
		}
	}
	return coverage
}

// RasterizePolygon rasterizes a single closed polygon.
func RasterizePolygon(polygon []vellum.Point, width, height int, rule vellum.FillRule, mode AAMode) []float64 {
	return Rasterize([][]vellum.Point{polygon}, width, height, rule, mode)
}
