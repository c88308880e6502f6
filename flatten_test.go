package vellum

import (
	"math"
	"testing"

	"github.com/tdewolff/test"
)

// distToPolyline returns the distance from p to the nearest polyline segment.
func distToPolyline(p Point, pts []Point) float64 {
	best := math.Inf(1)
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		ab := b.Sub(a)
		t := 0.0
		if Epsilon < ab.Dot(ab) {
			t = p.Sub(a).Dot(ab) / ab.Dot(ab)
		}
		if t < 0.0 {
			t = 0.0
		} else if 1.0 < t {
			t = 1.0
		}
		if d := p.Sub(a.Add(ab.Mul(t))).Length(); d < best {
			best = d
		}
	}
	return best
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	u := 1.0 - t
	q := p0.Mul(u * u * u)
	q = q.Add(p1.Mul(3.0 * u * u * t))
	q = q.Add(p2.Mul(3.0 * u * t * t))
	return q.Add(p3.Mul(t * t * t))
}

func quadAt(p0, p1, p2 Point, t float64) Point {
	u := 1.0 - t
	return p0.Mul(u * u).Add(p1.Mul(2.0 * u * t)).Add(p2.Mul(t * t))
}

func TestFlattenLine(t *testing.T) {
	p := &Path{}
	p.MoveTo(0.0, 0.0)
	p.LineTo(10.0, 0.0)
	polys := p.Flatten(0.5)
	test.T(t, len(polys), 1)
	test.T(t, len(polys[0].Points), 2)
	test.That(t, !polys[0].Closed)
}

func TestFlattenCubicWithinTolerance(t *testing.T) {
	p0, p1, p2, p3 := Point{0.0, 0.0}, Point{10.0, 40.0}, Point{30.0, -40.0}, Point{40.0, 0.0}
	for _, tolerance := range []float64{0.1, 0.5, 2.0} {
		p := &Path{}
		p.MoveTo(p0.X, p0.Y)
		p.CubeTo(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y)
		polys := p.Flatten(tolerance)
		test.T(t, len(polys), 1)
		pts := polys[0].Points
		test.T(t, pts[0], p0)
		test.T(t, pts[len(pts)-1], p3)

		worst := 0.0
		for i := 0; i <= 500; i++ {
			q := cubicAt(p0, p1, p2, p3, float64(i)/500.0)
			if d := distToPolyline(q, pts); worst < d {
				worst = d
			}
		}
		test.That(t, worst <= tolerance+0.01, "deviation", worst, "tolerance", tolerance)
	}
}

func TestFlattenQuadWithinTolerance(t *testing.T) {
	p0, p1, p2 := Point{0.0, 0.0}, Point{20.0, 30.0}, Point{40.0, 0.0}
	p := &Path{}
	p.MoveTo(p0.X, p0.Y)
	p.QuadTo(p1.X, p1.Y, p2.X, p2.Y)
	polys := p.Flatten(0.25)
	pts := polys[0].Points

	worst := 0.0
	for i := 0; i <= 500; i++ {
		q := quadAt(p0, p1, p2, float64(i)/500.0)
		if d := distToPolyline(q, pts); worst < d {
			worst = d
		}
	}
	test.That(t, worst <= 0.26, "deviation", worst)
}

func TestFlattenSmootherWithSmallerTolerance(t *testing.T) {
	mk := func(tolerance float64) int {
		p := &Path{}
		p.MoveTo(0.0, 0.0)
		p.CubeTo(0.0, 40.0, 40.0, 40.0, 40.0, 0.0)
		return len(p.Flatten(tolerance)[0].Points)
	}
	test.That(t, mk(2.0) < mk(0.1))
}

func TestFlattenArcEndpoints(t *testing.T) {
	p := &Path{}
	p.MoveTo(0.0, 0.0)
	p.ArcTo(5.0, 5.0, 0.0, false, true, 10.0, 0.0)
	polys := p.Flatten(0.1)
	pts := polys[0].Points
	test.T(t, pts[0], Point{0.0, 0.0})
	test.That(t, pts[len(pts)-1].Equals(Point{10.0, 0.0}))

	// sweep=true sweeps positive angles, running through (5,-5)
	found := false
	for _, q := range pts {
		if q.Sub(Point{5.0, -5.0}).Length() < 0.3 {
			found = true
		}
	}
	test.That(t, found)

	// every point lies on the circle of radius 5 around (5,0)
	for _, q := range pts {
		test.That(t, math.Abs(q.Sub(Point{5.0, 0.0}).Length()-5.0) < 0.15)
	}
}

func TestFlattenArcSweepFlag(t *testing.T) {
	p := &Path{}
	p.MoveTo(0.0, 0.0)
	p.ArcTo(5.0, 5.0, 0.0, false, false, 10.0, 0.0)
	pts := p.Flatten(0.1)[0].Points
	for _, q := range pts[1 : len(pts)-1] {
		test.That(t, -Epsilon < q.Y, "sweep=false stays on the positive-y side")
	}
}

func TestFlattenArcLargeFlag(t *testing.T) {
	p := &Path{}
	p.MoveTo(0.0, 0.0)
	p.ArcTo(10.0, 10.0, 0.0, true, true, 10.0, 0.0)
	pts := p.Flatten(0.1)[0].Points
	length := 0.0
	for i := 0; i+1 < len(pts); i++ {
		length += pts[i+1].Sub(pts[i]).Length()
	}
	// the large arc covers far more than the half circumference of r=10
	test.That(t, 40.0 < length)
}

func TestFlattenClose(t *testing.T) {
	p := Rectangle(0.0, 0.0, 10.0, 10.0)
	polys := p.Flatten(0.5)
	test.T(t, len(polys), 1)
	test.That(t, polys[0].Closed)
	pts := polys[0].Points
	test.That(t, pts[0].Equals(pts[len(pts)-1]))
}

func TestFlattenMultipleSubPaths(t *testing.T) {
	p := Rectangle(0.0, 0.0, 10.0, 10.0)
	p.Append(Rectangle(20.0, 0.0, 5.0, 5.0))
	polys := p.Flatten(0.5)
	test.T(t, len(polys), 2)
}

func TestFlattenSinglePointSubPath(t *testing.T) {
	p := &Path{}
	p.MoveTo(5.0, 5.0)
	test.T(t, len(p.Flatten(0.5)), 0)
}
