package vellum

import (
	"math"
)

// FlattenTolerance is the default maximum deviation in device pixels between
// a curve and its flattened polyline.
const FlattenTolerance = 0.5

// maxFlattenDepth caps the recursive subdivision of Béziers.
const maxFlattenDepth = 10

// Polyline is a flattened sub-path.
type Polyline struct {
	Points []Point
	Closed bool
}

// perpDistance returns the perpendicular distance from p to the line through a and b.
// When a and b coincide it degenerates to the point distance.
func perpDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	d := ab.Length()
	if d < Epsilon {
		return p.Sub(a).Length()
	}
	return math.Abs(ab.PerpDot(p.Sub(a))) / d
}

// flattenQuad appends the polyline of the quadratic Bézier p0,p1,p2 to out,
// excluding p0 which the previous command contributed.
func flattenQuad(p0, p1, p2 Point, tolerance float64, depth int, out []Point) []Point {
	if perpDistance(p1, p0, p2) <= tolerance || maxFlattenDepth <= depth {
		return append(out, p2)
	}

	// De Casteljau at t=0.5
	q0 := p0.Interpolate(p1, 0.5)
	q1 := p1.Interpolate(p2, 0.5)
	mid := q0.Interpolate(q1, 0.5)

	out = flattenQuad(p0, q0, mid, tolerance, depth+1, out)
	return flattenQuad(mid, q1, p2, tolerance, depth+1, out)
}

// flattenCube appends the polyline of the cubic Bézier p0,p1,p2,p3 to out,
// excluding p0 which the previous command contributed.
func flattenCube(p0, p1, p2, p3 Point, tolerance float64, depth int, out []Point) []Point {
	d1 := perpDistance(p1, p0, p3)
	d2 := perpDistance(p2, p0, p3)
	if math.Max(d1, d2) <= tolerance || maxFlattenDepth <= depth {
		return append(out, p3)
	}

	q0 := p0.Interpolate(p1, 0.5)
	q1 := p1.Interpolate(p2, 0.5)
	q2 := p2.Interpolate(p3, 0.5)
	r0 := q0.Interpolate(q1, 0.5)
	r1 := q1.Interpolate(q2, 0.5)
	mid := r0.Interpolate(r1, 0.5)

	out = flattenCube(p0, q0, r0, mid, tolerance, depth+1, out)
	return flattenCube(mid, r1, q2, p3, tolerance, depth+1, out)
}

// ellipseToCenter converts an SVG endpoint arc parameterization to a center
// parameterization, returning the center, possibly scaled-up radii, and the
// start and delta angles in radians.
// See https://www.w3.org/TR/SVG/implnote.html#ArcImplementationNotes
func ellipseToCenter(x1, y1, rx, ry, phi float64, large, sweep bool, x2, y2 float64) (float64, float64, float64, float64, float64, float64) {
	if x1 == x2 && y1 == y2 {
		return x1, y1, rx, ry, 0.0, 0.0
	}

	sinphi, cosphi := math.Sincos(phi)
	x1p := cosphi*(x1-x2)/2.0 + sinphi*(y1-y2)/2.0
	y1p := -sinphi*(x1-x2)/2.0 + cosphi*(y1-y2)/2.0

	// scale radii up when the end points cannot be connected by the ellipse
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if 1.0 < lambda {
		rx *= math.Sqrt(lambda)
		ry *= math.Sqrt(lambda)
	}

	sq := (rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p) / (rx*rx*y1p*y1p + ry*ry*x1p*x1p)
	if sq < 0.0 {
		sq = 0.0
	}
	coef := math.Sqrt(sq)
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := coef * -ry * x1p / rx
	cx := cosphi*cxp - sinphi*cyp + (x1+x2)/2.0
	cy := sinphi*cxp + cosphi*cyp + (y1+y2)/2.0

	theta := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta2 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	delta := theta2 - theta
	if !sweep && 0.0 < delta {
		delta -= 2.0 * math.Pi
	} else if sweep && delta < 0.0 {
		delta += 2.0 * math.Pi
	}
	return cx, cy, rx, ry, theta, delta
}

// ellipsePoint returns the point on the ellipse at angle theta.
func ellipsePoint(cx, cy, rx, ry, phi, theta float64) Point {
	sintheta, costheta := math.Sincos(theta)
	sinphi, cosphi := math.Sincos(phi)
	return Point{
		cx + rx*costheta*cosphi - ry*sintheta*sinphi,
		cy + rx*costheta*sinphi + ry*sintheta*cosphi,
	}
}

// flattenArc appends the polyline of the elliptical arc from start to end to
// out, excluding the start point. The arc is split into segments of at most
// 90 degrees, each approximated by a cubic Bézier with control point offset
// k = 4/3 tan(dtheta/4), which is then flattened.
func flattenArc(start Point, rx, ry, rot float64, large, sweep bool, end Point, tolerance float64, out []Point) []Point {
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx < Epsilon || ry < Epsilon || start.Equals(end) {
		return append(out, end)
	}

	phi := rot * math.Pi / 180.0
	cx, cy, rx, ry, theta, delta := ellipseToCenter(start.X, start.Y, rx, ry, phi, large, sweep, end.X, end.Y)
	if delta == 0.0 {
		return append(out, end)
	}

	segments := int(math.Ceil(math.Abs(delta) / (math.Pi / 2.0)))
	dtheta := delta / float64(segments)
	k := 4.0 / 3.0 * math.Tan(dtheta/4.0)

	sinphi, cosphi := math.Sincos(phi)
	deriv := func(th float64) Point {
		sinth, costh := math.Sincos(th)
		return Point{
			-rx*sinth*cosphi - ry*costh*sinphi,
			-rx*sinth*sinphi + ry*costh*cosphi,
		}
	}

	p0 := start
	for i := 1; i <= segments; i++ {
		theta0 := theta + float64(i-1)*dtheta
		theta1 := theta + float64(i)*dtheta
		p3 := ellipsePoint(cx, cy, rx, ry, phi, theta1)
		if i == segments {
			p3 = end // avoid drift on the final segment
		}
		p1 := p0.Add(deriv(theta0).Mul(k))
		p2 := p3.Sub(deriv(theta1).Mul(k))
		out = flattenCube(p0, p1, p2, p3, tolerance, 0, out)
		p0 = p3
	}
	return out
}

// Flatten tessellates the path into one polyline per sub-path with the given
// tolerance, the maximum deviation between a curve and its polyline. A fresh
// slice is returned on every call; the path itself is not modified.
func (p *Path) Flatten(tolerance float64) []Polyline {
	if tolerance <= 0.0 {
		tolerance = FlattenTolerance
	}

	var polys []Polyline
	var cur []Point
	flush := func(closed bool) {
		if 2 <= len(cur) {
			polys = append(polys, Polyline{cur, closed})
		}
		cur = nil
	}

	var pos, start Point
	i := 0
	for _, cmd := range p.cmds {
		switch cmd {
		case MoveToCmd:
			flush(false)
			pos = Point{p.d[i], p.d[i+1]}
			start = pos
			cur = append(cur, pos)
		case LineToCmd:
			pos = Point{p.d[i], p.d[i+1]}
			cur = append(cur, pos)
		case QuadToCmd:
			cp := Point{p.d[i], p.d[i+1]}
			end := Point{p.d[i+2], p.d[i+3]}
			cur = flattenQuad(pos, cp, end, tolerance, 0, cur)
			pos = end
		case CubeToCmd:
			cp1 := Point{p.d[i], p.d[i+1]}
			cp2 := Point{p.d[i+2], p.d[i+3]}
			end := Point{p.d[i+4], p.d[i+5]}
			cur = flattenCube(pos, cp1, cp2, end, tolerance, 0, cur)
			pos = end
		case ArcToCmd:
			rx, ry, rot := p.d[i], p.d[i+1], p.d[i+2]
			large, sweep := p.d[i+3] == 1.0, p.d[i+4] == 1.0
			end := Point{p.d[i+5], p.d[i+6]}
			cur = flattenArc(pos, rx, ry, rot, large, sweep, end, tolerance, cur)
			pos = end
		case CloseCmd:
			if 0 < len(cur) && !cur[len(cur)-1].Equals(start) {
				cur = append(cur, start)
			}
			pos = start
			flush(true)
		}
		i += cmdLen(cmd)
	}
	flush(false)
	return polys
}
