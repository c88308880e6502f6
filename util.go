// Package vellum provides the scene model and 2D geometry of an SVG
// rasterizing engine: points, affine transforms, paths with adaptive Bézier
// flattening, stroke expansion with SVG cap/join/dash semantics, and the
// typed shape document that the svg and rasterizer packages operate on.
package vellum

import (
	"fmt"
	"math"
)

const Epsilon = 1e-10

// equal returns true if a and b are equal with tolerance Epsilon.
func equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// angleNorm returns the angle theta in the range [0,2PI).
func angleNorm(theta float64) float64 {
	theta = math.Mod(theta, 2.0*math.Pi)
	if theta < 0.0 {
		theta += 2.0 * math.Pi
	}
	return theta
}

////////////////////////////////////////////////////////////////

// Point is a coordinate in 2D space. OP refers to the line that goes through the origin (0,0) and this point (x,y).
type Point struct {
	X, Y float64
}

// IsZero returns true if P is exactly zero.
func (p Point) IsZero() bool {
	return p.X == 0.0 && p.Y == 0.0
}

// Equals returns true if P and Q are equal with tolerance Epsilon.
func (p Point) Equals(q Point) bool {
	return equal(p.X, q.X) && equal(p.Y, q.Y)
}

// Neg negates x and y.
func (p Point) Neg() Point {
	return Point{-p.X, -p.Y}
}

// Add adds Q to P.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub subtracts Q from P.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Mul multiplies x and y by f.
func (p Point) Mul(f float64) Point {
	return Point{f * p.X, f * p.Y}
}

// Div divides x and y by f.
func (p Point) Div(f float64) Point {
	return Point{p.X / f, p.Y / f}
}

// Rot90CW rotates the line OP by 90 degrees CW.
func (p Point) Rot90CW() Point {
	return Point{p.Y, -p.X}
}

// Rot90CCW rotates the line OP by 90 degrees CCW.
func (p Point) Rot90CCW() Point {
	return Point{-p.Y, p.X}
}

// Dot returns the dot product between OP and OQ, ie. zero if perpendicular and |OP|*|OQ| if aligned.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// PerpDot returns the perp dot product between OP and OQ, ie. zero if aligned and |OP|*|OQ| if perpendicular.
func (p Point) PerpDot(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the length of OP.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Angle returns the angle between the x-axis and OP.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// AngleBetween returns the angle between OP and OQ.
func (p Point) AngleBetween(q Point) float64 {
	return math.Atan2(p.PerpDot(q), p.Dot(q))
}

// Norm normalizes OP to be of certain length.
func (p Point) Norm(length float64) Point {
	d := p.Length()
	if equal(d, 0.0) {
		return Point{}
	}
	return Point{p.X / d * length, p.Y / d * length}
}

// Interpolate returns a point on PQ that is linearly interpolated by t, ie. t=0 returns P and t=1 returns Q.
func (p Point) Interpolate(q Point, t float64) Point {
	return Point{(1-t)*p.X + t*q.X, (1-t)*p.Y + t*q.Y}
}

// IsFinite returns true if both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

func (p Point) String() string {
	return fmt.Sprintf("[%g; %g]", p.X, p.Y)
}

////////////////////////////////////////////////////////////////

// BBox is an axis-aligned bounding box. The empty sentinel from EmptyBBox has
// min at +Inf and max at -Inf, so that expanding it by any point yields a box
// containing exactly that point.
type BBox struct {
	Min, Max Point
}

// EmptyBBox returns the empty bounding box sentinel.
func EmptyBBox() BBox {
	inf := math.Inf(1)
	return BBox{Point{inf, inf}, Point{-inf, -inf}}
}

// Empty returns true if the box contains no points.
func (b BBox) Empty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y
}

// Expand grows the box to contain p.
func (b BBox) Expand(p Point) BBox {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	return b
}

// Add grows the box to contain q.
func (b BBox) Add(q BBox) BBox {
	if q.Empty() {
		return b
	} else if b.Empty() {
		return q
	}
	return b.Expand(q.Min).Expand(q.Max)
}

// Intersect returns the intersection of both boxes, which may be empty.
func (b BBox) Intersect(q BBox) BBox {
	b.Min.X = math.Max(b.Min.X, q.Min.X)
	b.Min.Y = math.Max(b.Min.Y, q.Min.Y)
	b.Max.X = math.Min(b.Max.X, q.Max.X)
	b.Max.Y = math.Min(b.Max.Y, q.Max.Y)
	return b
}

// Contains returns true if p lies inside or on the boundary of the box.
func (b BBox) Contains(p Point) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X && b.Min.Y <= p.Y && p.Y <= b.Max.Y
}

func (b BBox) String() string {
	return fmt.Sprintf("[%g; %g]--[%g; %g]", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
}

// bboxOf returns the bounding box of a set of points.
func bboxOf(pts []Point) BBox {
	b := EmptyBBox()
	for _, p := range pts {
		b = b.Expand(p)
	}
	return b
}

////////////////////////////////////////////////////////////////

// Matrix is used for affine transformations. Be aware that concatenating
// transformation functions will be evaluated right-to-left! So
// Identity.Rotate(30).Translate(20,0) will first translate 20 points
// horizontally and then rotate 30 degrees counter clockwise.
type Matrix [2][3]float64

var Identity = Matrix{
	{1.0, 0.0, 0.0},
	{0.0, 1.0, 0.0},
}

func (m Matrix) Mul(q Matrix) Matrix {
	return Matrix{{
		m[0][0]*q[0][0] + m[0][1]*q[1][0],
		m[0][0]*q[0][1] + m[0][1]*q[1][1],
		m[0][0]*q[0][2] + m[0][1]*q[1][2] + m[0][2],
	}, {
		m[1][0]*q[0][0] + m[1][1]*q[1][0],
		m[1][0]*q[0][1] + m[1][1]*q[1][1],
		m[1][0]*q[0][2] + m[1][1]*q[1][2] + m[1][2],
	}}
}

// Dot transforms point p.
func (m Matrix) Dot(p Point) Point {
	return Point{
		m[0][0]*p.X + m[0][1]*p.Y + m[0][2],
		m[1][0]*p.X + m[1][1]*p.Y + m[1][2],
	}
}

// DotVec transforms p as a direction vector, ie. without translation.
func (m Matrix) DotVec(p Point) Point {
	return Point{
		m[0][0]*p.X + m[0][1]*p.Y,
		m[1][0]*p.X + m[1][1]*p.Y,
	}
}

func (m Matrix) Translate(x, y float64) Matrix {
	return m.Mul(Matrix{
		{1.0, 0.0, x},
		{0.0, 1.0, y},
	})
}

// Rotate rotates by rot degrees counter clockwise.
func (m Matrix) Rotate(rot float64) Matrix {
	sintheta, costheta := math.Sincos(rot * math.Pi / 180.0)
	return m.Mul(Matrix{
		{costheta, -sintheta, 0.0},
		{sintheta, costheta, 0.0},
	})
}

func (m Matrix) Scale(x, y float64) Matrix {
	return m.Mul(Matrix{
		{x, 0.0, 0.0},
		{0.0, y, 0.0},
	})
}

// Shear shears by the tangents x horizontally and y vertically.
func (m Matrix) Shear(x, y float64) Matrix {
	return m.Mul(Matrix{
		{1.0, x, 0.0},
		{y, 1.0, 0.0},
	})
}

// ShearX shears horizontally by rot degrees.
func (m Matrix) ShearX(rot float64) Matrix {
	return m.Shear(math.Tan(rot*math.Pi/180.0), 0.0)
}

// ShearY shears vertically by rot degrees.
func (m Matrix) ShearY(rot float64) Matrix {
	return m.Shear(0.0, math.Tan(rot*math.Pi/180.0))
}

func (m Matrix) RotateAt(rot, x, y float64) Matrix {
	return m.Translate(x, y).Rotate(rot).Translate(-x, -y)
}

func (m Matrix) Det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// Inv returns the inverse matrix. A singular matrix has no inverse; Inv
// returns Identity and false in that case.
func (m Matrix) Inv() (Matrix, bool) {
	det := m.Det()
	if equal(det, 0.0) {
		return Identity, false
	}
	return Matrix{{
		m[1][1] / det,
		-m[0][1] / det,
		-(m[1][1]*m[0][2] - m[0][1]*m[1][2]) / det,
	}, {
		-m[1][0] / det,
		m[0][0] / det,
		-(-m[1][0]*m[0][2] + m[0][0]*m[1][2]) / det,
	}}, true
}

// ScaleFactor returns the uniform scale factor of the transform, the average
// of the lengths of both axis vectors. It is used to scale stroke widths
// through transforms.
func (m Matrix) ScaleFactor() float64 {
	sx := math.Sqrt(m[0][0]*m[0][0] + m[1][0]*m[1][0])
	sy := math.Sqrt(m[0][1]*m[0][1] + m[1][1]*m[1][1])
	return (sx + sy) / 2.0
}

func (m Matrix) String() string {
	return fmt.Sprintf("[%g, %g, %g; %g, %g, %g; 0, 0, 1]", m[0][0], m[0][1], m[0][2], m[1][0], m[1][1], m[1][2])
}
