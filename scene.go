package vellum

import (
	"fmt"
)

// Shape is a scene element: one of PathShape, RectShape, CircleShape,
// EllipseShape, LineShape, TextShape or Group. The set of variants is closed;
// renderers match exhaustively.
type Shape interface {
	isShape()

	// Info returns the id, style and local transform common to all shapes.
	Info() (string, Style, Matrix)
}

type PathShape struct {
	ID        string
	Style     Style
	Transform Matrix
	Path      *Path
}

type RectShape struct {
	ID            string
	Style         Style
	Transform     Matrix
	X, Y          float64
	Width, Height float64
	RX, RY        float64
}

type CircleShape struct {
	ID        string
	Style     Style
	Transform Matrix
	CX, CY    float64
	R         float64
}

type EllipseShape struct {
	ID        string
	Style     Style
	Transform Matrix
	CX, CY    float64
	RX, RY    float64
}

type LineShape struct {
	ID        string
	Style     Style
	Transform Matrix
	X1, Y1    float64
	X2, Y2    float64
}

type TextShape struct {
	ID        string
	Style     Style
	Transform Matrix
	X, Y      float64
	Text      string
	FontSize  float64
}

// Group holds child shapes. Groups only exist while authoring or parsing;
// Flatten consumes the group and yields independent top-level shapes.
type Group struct {
	ID        string
	Style     Style
	Transform Matrix
	Children  []Shape
}

func (s *PathShape) isShape()    {}
func (s *RectShape) isShape()    {}
func (s *CircleShape) isShape()  {}
func (s *EllipseShape) isShape() {}
func (s *LineShape) isShape()    {}
func (s *TextShape) isShape()    {}
func (s *Group) isShape()        {}

func (s *PathShape) Info() (string, Style, Matrix)    { return s.ID, s.Style, s.Transform }
func (s *RectShape) Info() (string, Style, Matrix)    { return s.ID, s.Style, s.Transform }
func (s *CircleShape) Info() (string, Style, Matrix)  { return s.ID, s.Style, s.Transform }
func (s *EllipseShape) Info() (string, Style, Matrix) { return s.ID, s.Style, s.Transform }
func (s *LineShape) Info() (string, Style, Matrix)    { return s.ID, s.Style, s.Transform }
func (s *TextShape) Info() (string, Style, Matrix)    { return s.ID, s.Style, s.Transform }
func (s *Group) Info() (string, Style, Matrix)        { return s.ID, s.Style, s.Transform }

// Flatten consumes the group and returns its children as independent shapes
// in source order. Each child's transform becomes group transform times child
// transform, and unset style properties are inherited from the group. Nested
// groups recurse.
func (g *Group) Flatten() []Shape {
	var out []Shape
	for _, child := range g.Children {
		switch s := child.(type) {
		case *Group:
			s.Transform = g.Transform.Mul(s.Transform)
			s.Style = s.Style.Inherit(g.Style)
			out = append(out, s.Flatten()...)
		case *PathShape:
			s.Transform = g.Transform.Mul(s.Transform)
			s.Style = s.Style.Inherit(g.Style)
			out = append(out, s)
		case *RectShape:
			s.Transform = g.Transform.Mul(s.Transform)
			s.Style = s.Style.Inherit(g.Style)
			out = append(out, s)
		case *CircleShape:
			s.Transform = g.Transform.Mul(s.Transform)
			s.Style = s.Style.Inherit(g.Style)
			out = append(out, s)
		case *EllipseShape:
			s.Transform = g.Transform.Mul(s.Transform)
			s.Style = s.Style.Inherit(g.Style)
			out = append(out, s)
		case *LineShape:
			s.Transform = g.Transform.Mul(s.Transform)
			s.Style = s.Style.Inherit(g.Style)
			out = append(out, s)
		case *TextShape:
			s.Transform = g.Transform.Mul(s.Transform)
			s.Style = s.Style.Inherit(g.Style)
			out = append(out, s)
		}
	}
	g.Children = nil
	return out
}

////////////////////////////////////////////////////////////////

// ViewBox is the SVG viewBox rectangle in user units.
type ViewBox struct {
	MinX, MinY    float64
	Width, Height float64
}

// Document is a parsed or authored scene: a canvas size, an optional viewBox
// and an ordered list of shapes. Document order is painting order. The
// document owns its shapes; the renderer takes read-only access.
type Document struct {
	Width, Height float64
	ViewBox       *ViewBox
	Shapes        []Shape
}

// DefaultCanvasWidth and DefaultCanvasHeight apply when the svg element
// carries no size.
const (
	DefaultCanvasWidth  = 800.0
	DefaultCanvasHeight = 600.0
)

// NewDocument returns an empty document with the default canvas size.
func NewDocument() *Document {
	return &Document{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight}
}

// AddShape appends a shape. Groups are flattened on the way in, keeping the
// shape list flat.
func (doc *Document) AddShape(s Shape) {
	if g, ok := s.(*Group); ok {
		doc.Shapes = append(doc.Shapes, g.Flatten()...)
		return
	}
	doc.Shapes = append(doc.Shapes, s)
}

// RemoveShape removes the shape at index i.
func (doc *Document) RemoveShape(i int) error {
	if i < 0 || len(doc.Shapes) <= i {
		return fmt.Errorf("shape index %d out of range", i)
	}
	doc.Shapes = append(doc.Shapes[:i], doc.Shapes[i+1:]...)
	return nil
}

// ReplaceShape replaces the shape at index i.
func (doc *Document) ReplaceShape(i int, s Shape) error {
	if i < 0 || len(doc.Shapes) <= i {
		return fmt.Errorf("shape index %d out of range", i)
	}
	doc.Shapes[i] = s
	return nil
}

// SetCanvasSize sets the canvas size in user units.
func (doc *Document) SetCanvasSize(w, h float64) error {
	if w <= 0.0 || h <= 0.0 {
		return fmt.Errorf("canvas size %gx%g must be positive", w, h)
	}
	doc.Width, doc.Height = w, h
	return nil
}

// ViewBoxMatrix returns the transform mapping viewBox coordinates onto a
// w by h device raster, or Identity when no usable viewBox is set.
func (doc *Document) ViewBoxMatrix(w, h float64) Matrix {
	vb := doc.ViewBox
	if vb == nil || vb.Width <= 0.0 || vb.Height <= 0.0 {
		return Identity
	}
	sx := w / vb.Width
	sy := h / vb.Height
	return Identity.Translate(-vb.MinX*sx, -vb.MinY*sy).Scale(sx, sy)
}
