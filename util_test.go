package vellum

import (
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func TestPointOps(t *testing.T) {
	p := Point{3.0, 4.0}
	test.That(t, math.Abs(p.Length()-5.0) < Epsilon)
	test.T(t, p.Add(Point{1.0, 1.0}), Point{4.0, 5.0})
	test.T(t, p.Sub(Point{1.0, 1.0}), Point{2.0, 3.0})
	test.T(t, p.Mul(2.0), Point{6.0, 8.0})
	test.T(t, p.Rot90CCW(), Point{-4.0, 3.0})
	test.T(t, p.Rot90CW(), Point{4.0, -3.0})
	test.That(t, math.Abs(p.Dot(p.Rot90CCW())) < Epsilon)
	test.That(t, p.Norm(1.0).Equals(Point{0.6, 0.8}))
	test.That(t, Point{}.Norm(1.0).IsZero())
	test.That(t, Point{0.0, 0.0}.Interpolate(Point{10.0, 20.0}, 0.5).Equals(Point{5.0, 10.0}))
	test.That(t, !Point{math.NaN(), 0.0}.IsFinite())
	test.That(t, !Point{math.Inf(1), 0.0}.IsFinite())
	test.That(t, Point{1.0, 2.0}.IsFinite())
}

func TestMatrixCompose(t *testing.T) {
	p := Point{1.0, 0.0}

	m := Identity.Translate(10.0, 5.0)
	test.That(t, m.Dot(p).Equals(Point{11.0, 5.0}))

	m = Identity.Scale(2.0, 3.0)
	test.That(t, m.Dot(p).Equals(Point{2.0, 0.0}))

	m = Identity.Rotate(90.0)
	test.That(t, m.Dot(p).Equals(Point{0.0, 1.0}))

	// right-to-left evaluation: scale first, then translate
	m = Identity.Translate(10.0, 0.0).Scale(2.0, 2.0)
	test.That(t, m.Dot(p).Equals(Point{12.0, 0.0}))

	// vector transform ignores translation
	test.That(t, m.DotVec(p).Equals(Point{2.0, 0.0}))
}

func TestMatrixInv(t *testing.T) {
	m := Identity.Translate(3.0, -7.0).Rotate(33.0).Scale(2.0, 0.5)
	inv, ok := m.Inv()
	test.That(t, ok)
	q := inv.Mul(m)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			test.That(t, math.Abs(q[i][j]-Identity[i][j]) < 1e-9)
		}
	}

	_, ok = Identity.Scale(0.0, 0.0).Inv()
	test.That(t, !ok)
}

func TestMatrixDetScale(t *testing.T) {
	test.That(t, math.Abs(Identity.Det()-1.0) < Epsilon)
	test.That(t, math.Abs(Identity.Scale(2.0, 3.0).Det()-6.0) < Epsilon)
	test.That(t, math.Abs(Identity.Scale(1.0, 0.0).Det()) < Epsilon)

	test.That(t, math.Abs(Identity.ScaleFactor()-1.0) < Epsilon)
	test.That(t, math.Abs(Identity.Scale(2.0, 4.0).ScaleFactor()-3.0) < Epsilon)
	// rotation does not change the scale factor
	test.That(t, math.Abs(Identity.Rotate(71.0).Scale(2.0, 2.0).ScaleFactor()-2.0) < 1e-9)
}

func TestBBox(t *testing.T) {
	b := EmptyBBox()
	test.That(t, b.Empty())

	b = b.Expand(Point{2.0, 3.0})
	test.That(t, !b.Empty())
	test.T(t, b.Min, Point{2.0, 3.0})
	test.T(t, b.Max, Point{2.0, 3.0})

	b = b.Expand(Point{-1.0, 5.0})
	test.T(t, b.Min, Point{-1.0, 3.0})
	test.T(t, b.Max, Point{2.0, 5.0})

	test.That(t, b.Contains(Point{0.0, 4.0}))
	test.That(t, !b.Contains(Point{3.0, 4.0}))

	q := EmptyBBox().Expand(Point{0.0, 0.0}).Expand(Point{1.0, 4.0})
	i := b.Intersect(q)
	test.T(t, i.Min, Point{0.0, 3.0})
	test.T(t, i.Max, Point{1.0, 4.0})

	far := EmptyBBox().Expand(Point{100.0, 100.0}).Expand(Point{101.0, 101.0})
	test.That(t, b.Intersect(far).Empty())

	test.T(t, b.Add(EmptyBBox()), b)
	test.T(t, EmptyBBox().Add(b), b)
}
