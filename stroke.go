package vellum

import (
	"math"
)

// LineCap is the shape terminating an open stroke.
type LineCap int

const (
	ButtCap LineCap = iota
	RoundCap
	SquareCap
)

// LineJoin is the shape connecting two stroked segments.
type LineJoin int

const (
	MiterJoin LineJoin = iota
	RoundJoin
	BevelJoin
)

// StrokeStyle are the resolved stroke parameters of a shape.
type StrokeStyle struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
	Dashes     []float64
	DashOffset float64
}

// DefaultStrokeStyle returns the SVG stroke defaults.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{
		Width:      1.0,
		Cap:        ButtCap,
		Join:       MiterJoin,
		MiterLimit: 4.0,
	}
}

func (s StrokeStyle) HalfWidth() float64 {
	return s.Width / 2.0
}

// intersectLines returns the intersection of the infinite lines through p0
// with direction d0 and through p1 with direction d1. Parallel lines have no
// intersection.
func intersectLines(p0, d0, p1, d1 Point) (Point, bool) {
	denom := d0.PerpDot(d1)
	if math.Abs(denom) < Epsilon {
		return Point{}, false
	}
	t := p1.Sub(p0).PerpDot(d1) / denom
	return p0.Add(d0.Mul(t)), true
}

// strokeArc appends points along the circular arc of the given radius around
// center, from the angle of start to that of end, going clockwise or counter
// clockwise. The start point itself is not appended. Segment count follows
// arc length so caps and joins stay smooth at any width.
func strokeArc(center Point, radius float64, start, end Point, clockwise bool, out []Point) []Point {
	theta0 := start.Sub(center).Angle()
	theta1 := end.Sub(center).Angle()
	delta := theta1 - theta0
	if clockwise {
		if 0.0 < delta {
			delta -= 2.0 * math.Pi
		}
	} else {
		if delta < 0.0 {
			delta += 2.0 * math.Pi
		}
	}

	segments := int(math.Abs(delta) * radius / 2.0)
	if segments < 4 {
		segments = 4
	}
	for i := 1; i <= segments; i++ {
		theta := theta0 + delta*float64(i)/float64(segments)
		sintheta, costheta := math.Sincos(theta)
		out = append(out, center.Add(Point{costheta, sintheta}.Mul(radius)))
	}
	return out
}

// zeroLengthCaps returns the outline of a degenerate segment: a full disc for
// round caps, an axis-aligned square for square caps, nothing for butt caps.
func zeroLengthCaps(p Point, style StrokeStyle) []Point {
	hw := style.HalfWidth()
	switch style.Cap {
	case RoundCap:
		const segments = 16
		out := make([]Point, segments)
		for i := 0; i < segments; i++ {
			sintheta, costheta := math.Sincos(2.0 * math.Pi * float64(i) / segments)
			out[i] = p.Add(Point{costheta, sintheta}.Mul(hw))
		}
		return out
	case SquareCap:
		return []Point{
			{p.X - hw, p.Y - hw},
			{p.X + hw, p.Y - hw},
			{p.X + hw, p.Y + hw},
			{p.X - hw, p.Y + hw},
		}
	}
	return nil
}

// strokeExpander builds the outline of a stroked polyline as two offset
// sides that are concatenated into one closed polygon.
type strokeExpander struct {
	style       StrokeStyle
	left, right []Point
}

func (e *strokeExpander) startCap(p, dir Point) {
	hw := e.style.HalfWidth()
	perp := dir.Rot90CCW()
	left := p.Add(perp.Mul(hw))
	right := p.Sub(perp.Mul(hw))

	switch e.style.Cap {
	case SquareCap:
		e.left = append(e.left, left.Sub(dir.Mul(hw)), left)
		e.right = append(e.right, right.Sub(dir.Mul(hw)), right)
	case RoundCap:
		// the cap arc runs from the right offset around the back to the left
		// offset; it opens the left side so the polygon's closing edge meets
		// it next to the right offset
		e.left = append(e.left, strokeArc(p, hw, right, left, true, nil)...)
		e.right = append(e.right, right)
	default: // ButtCap
		e.left = append(e.left, left)
		e.right = append(e.right, right)
	}
}

func (e *strokeExpander) endCap(p, dir Point) {
	hw := e.style.HalfWidth()
	perp := dir.Rot90CCW()
	left := p.Add(perp.Mul(hw))
	right := p.Sub(perp.Mul(hw))

	switch e.style.Cap {
	case SquareCap:
		e.left = append(e.left, left, left.Add(dir.Mul(hw)))
		e.right = append(e.right, right, right.Add(dir.Mul(hw)))
	case RoundCap:
		e.left = append(e.left, left)
		e.left = strokeArc(p, hw, left, right, true, e.left)
		e.right = append(e.right, right)
	default:
		e.left = append(e.left, left)
		e.right = append(e.right, right)
	}
}

// join connects the incoming and outgoing segment offsets around vertex p.
// The inner side is the intersection of the inner offset lines when it lies
// within four half-widths of the vertex, and both inner offset points
// otherwise; the outer side follows the join style, with miter falling back
// to bevel when the miter ratio exceeds the limit.
func (e *strokeExpander) join(p, inDir, outDir Point) {
	hw := e.style.HalfWidth()
	inPerp := inDir.Rot90CCW()
	outPerp := outDir.Rot90CCW()

	inLeft := p.Add(inPerp.Mul(hw))
	inRight := p.Sub(inPerp.Mul(hw))
	outLeft := p.Add(outPerp.Mul(hw))
	outRight := p.Sub(outPerp.Mul(hw))

	cross := inDir.PerpDot(outDir)
	if math.Abs(cross) < 1e-4 && 0.0 < inDir.Dot(outDir) {
		// nearly straight
		e.left = append(e.left, outLeft)
		e.right = append(e.right, outRight)
		return
	}
	leftTurn := 0.0 < cross

	innerJoin := func(a, b Point) []Point {
		// the intersection runs away for near-reversal turns where the
		// offsets overlap anyway; keep the outline bounded
		if q, ok := intersectLines(a, inDir, b, outDir); ok && q.Sub(p).Length() <= 4.0*hw {
			return []Point{q}
		}
		return []Point{a, b}
	}

	join := e.style.Join
	var miter Point
	if join == MiterJoin {
		miterDir := inPerp.Add(outPerp).Norm(1.0)
		cosHalf := miterDir.Dot(inPerp)
		if math.Abs(cosHalf) < 0.01 {
			cosHalf = 0.01
		}
		miterLength := hw / cosHalf
		if e.style.MiterLimit < miterLength/hw {
			join = BevelJoin
		} else if leftTurn {
			miter = p.Sub(miterDir.Mul(miterLength))
		} else {
			miter = p.Add(miterDir.Mul(miterLength))
		}
	}

	if leftTurn {
		// outer side is the right side
		e.left = append(e.left, innerJoin(inLeft, outLeft)...)
		switch join {
		case MiterJoin:
			e.right = append(e.right, miter)
		case RoundJoin:
			e.right = append(e.right, inRight)
			e.right = strokeArc(p, hw, inRight, outRight, false, e.right)
		default: // BevelJoin
			e.right = append(e.right, inRight, outRight)
		}
	} else {
		// outer side is the left side
		switch join {
		case MiterJoin:
			e.left = append(e.left, miter)
		case RoundJoin:
			e.left = append(e.left, inLeft)
			e.left = strokeArc(p, hw, inLeft, outLeft, true, e.left)
		default:
			e.left = append(e.left, inLeft, outLeft)
		}
		e.right = append(e.right, innerJoin(inRight, outRight)...)
	}
}

// ExpandStroke converts a polyline and a stroke style into the closed polygon
// outlining the stroke. Open polylines get caps at both ends, closed ones a
// join at every vertex including the seam. The result is meant to be filled
// with the NonZero rule; sharp inner turns may self-intersect.
func ExpandStroke(pts []Point, closed bool, style StrokeStyle) []Point {
	// drop coincident neighbors so segment directions are well defined
	var vertices []Point
	for _, p := range pts {
		if len(vertices) == 0 || Epsilon < p.Sub(vertices[len(vertices)-1]).Length() {
			vertices = append(vertices, p)
		}
	}
	if closed && 2 <= len(vertices) && vertices[0].Equals(vertices[len(vertices)-1]) {
		vertices = vertices[:len(vertices)-1]
	}

	n := len(vertices)
	if style.HalfWidth() < 0.01 {
		return nil
	}
	if n == 1 && 2 <= len(pts) {
		// a zero-length segment renders its caps joined at a point
		return zeroLengthCaps(vertices[0], style)
	}
	if n < 2 {
		return nil
	}
	if closed && n < 3 {
		closed = false
	}

	directions := make([]Point, 0, n)
	for i := 0; i < n-1; i++ {
		directions = append(directions, vertices[i+1].Sub(vertices[i]).Norm(1.0))
	}
	if closed {
		directions = append(directions, vertices[0].Sub(vertices[n-1]).Norm(1.0))
	}

	e := &strokeExpander{style: style}
	if closed {
		// The join at the first vertex is emitted twice, once at the start
		// and once after the wrap segment, so both offset rings close and
		// the bridges between the rings coincide and cancel under NonZero.
		for i := 0; i <= n; i++ {
			idx := i % n
			e.join(vertices[idx], directions[(idx-1+n)%n], directions[idx])
		}
	} else {
		e.startCap(vertices[0], directions[0])
		for i := 1; i < n-1; i++ {
			e.join(vertices[i], directions[i-1], directions[i])
		}
		e.endCap(vertices[n-1], directions[len(directions)-1])
	}

	out := make([]Point, 0, len(e.left)+len(e.right))
	out = append(out, e.left...)
	for i := len(e.right) - 1; 0 <= i; i-- {
		out = append(out, e.right[i])
	}
	return out
}
