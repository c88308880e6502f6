package vellum

import (
	"image/color"
)

// FillRule decides whether a point is inside a polygon from the winding
// number of a ray cast from it.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

func (r FillRule) String() string {
	if r == EvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// Style holds the paint properties of a shape. A nil optional field means
// "not set here": the property is inherited from an enclosing group or falls
// back to the SVG default. FillNone and StrokeNone record an explicit "none",
// which suppresses painting even when a color would otherwise be inherited.
// Colors use straight (non-premultiplied) alpha.
type Style struct {
	Fill          *color.RGBA
	Stroke        *color.RGBA
	StrokeWidth   *float64
	Opacity       *float64
	FillOpacity   *float64
	StrokeOpacity *float64
	Rule          *FillRule
	FillNone      bool
	StrokeNone    bool

	Cap        *LineCap
	Join       *LineJoin
	MiterLimit *float64
	Dashes     []float64
	DashOffset *float64
}

// Inherit fills the unset properties of the style from parent and returns the
// result. An explicit none on the child wins over an inherited color.
func (s Style) Inherit(parent Style) Style {
	if s.Fill == nil && !s.FillNone {
		s.Fill = parent.Fill
		s.FillNone = parent.FillNone
	}
	if s.Stroke == nil && !s.StrokeNone {
		s.Stroke = parent.Stroke
		s.StrokeNone = parent.StrokeNone
	}
	if s.StrokeWidth == nil {
		s.StrokeWidth = parent.StrokeWidth
	}
	if s.Opacity == nil {
		s.Opacity = parent.Opacity
	}
	if s.FillOpacity == nil {
		s.FillOpacity = parent.FillOpacity
	}
	if s.StrokeOpacity == nil {
		s.StrokeOpacity = parent.StrokeOpacity
	}
	if s.Rule == nil {
		s.Rule = parent.Rule
	}
	if s.Cap == nil {
		s.Cap = parent.Cap
	}
	if s.Join == nil {
		s.Join = parent.Join
	}
	if s.MiterLimit == nil {
		s.MiterLimit = parent.MiterLimit
	}
	if s.Dashes == nil {
		s.Dashes = parent.Dashes
	}
	if s.DashOffset == nil {
		s.DashOffset = parent.DashOffset
	}
	return s
}

// scaleAlpha multiplies the alpha channel of a straight-alpha color.
func scaleAlpha(c color.RGBA, f float64) color.RGBA {
	if f < 0.0 {
		f = 0.0
	} else if 1.0 < f {
		f = 1.0
	}
	c.A = uint8(float64(c.A)*f + 0.5)
	return c
}

// FillColor resolves the effective fill paint. The SVG default fill is opaque
// black; an explicit none yields a fully transparent color.
func (s Style) FillColor() color.RGBA {
	if s.FillNone {
		return color.RGBA{}
	}
	c := color.RGBA{0, 0, 0, 255}
	if s.Fill != nil {
		c = *s.Fill
	}
	if s.FillOpacity != nil {
		c = scaleAlpha(c, *s.FillOpacity)
	}
	if s.Opacity != nil {
		c = scaleAlpha(c, *s.Opacity)
	}
	return c
}

// StrokeColor resolves the effective stroke paint. Without an explicit stroke
// color nothing is stroked.
func (s Style) StrokeColor() color.RGBA {
	if s.StrokeNone || s.Stroke == nil {
		return color.RGBA{}
	}
	c := *s.Stroke
	if s.StrokeOpacity != nil {
		c = scaleAlpha(c, *s.StrokeOpacity)
	}
	if s.Opacity != nil {
		c = scaleAlpha(c, *s.Opacity)
	}
	return c
}

// FillRule resolves the effective fill rule, with def the renderer default.
func (s Style) FillRule(def FillRule) FillRule {
	if s.Rule != nil {
		return *s.Rule
	}
	return def
}

// StrokeStyle resolves the stroke geometry parameters.
func (s Style) StrokeStyle() StrokeStyle {
	st := DefaultStrokeStyle()
	if s.StrokeWidth != nil {
		st.Width = *s.StrokeWidth
	}
	if s.Cap != nil {
		st.Cap = *s.Cap
	}
	if s.Join != nil {
		st.Join = *s.Join
	}
	if s.MiterLimit != nil {
		st.MiterLimit = *s.MiterLimit
	}
	st.Dashes = s.Dashes
	if s.DashOffset != nil {
		st.DashOffset = *s.DashOffset
	}
	return st
}
