package svg

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/minify/v2"
	minifysvg "github.com/tdewolff/minify/v2/svg"

	"github.com/vellum-gfx/vellum"
)

func writeNum(sb *strings.Builder, f float64) {
	sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}

func cssColor(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(float64(c.A)/255.0, 'g', 4, 64))
}

func writeStyleAttrs(sb *strings.Builder, style vellum.Style) {
	attr := func(name, val string) {
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteString(`="`)
		sb.WriteString(val)
		sb.WriteByte('"')
	}
	num := func(name string, f float64) {
		attr(name, strconv.FormatFloat(f, 'g', -1, 64))
	}

	if style.FillNone {
		attr("fill", "none")
	} else if style.Fill != nil {
		attr("fill", cssColor(*style.Fill))
	}
	if style.StrokeNone {
		attr("stroke", "none")
	} else if style.Stroke != nil {
		attr("stroke", cssColor(*style.Stroke))
	}
	if style.StrokeWidth != nil {
		num("stroke-width", *style.StrokeWidth)
	}
	if style.Opacity != nil {
		num("opacity", *style.Opacity)
	}
	if style.FillOpacity != nil {
		num("fill-opacity", *style.FillOpacity)
	}
	if style.StrokeOpacity != nil {
		num("stroke-opacity", *style.StrokeOpacity)
	}
	if style.Rule != nil {
		attr("fill-rule", style.Rule.String())
	}
	if style.Cap != nil {
		switch *style.Cap {
		case vellum.RoundCap:
			attr("stroke-linecap", "round")
		case vellum.SquareCap:
			attr("stroke-linecap", "square")
		default:
			attr("stroke-linecap", "butt")
		}
	}
	if style.Join != nil {
		switch *style.Join {
		case vellum.RoundJoin:
			attr("stroke-linejoin", "round")
		case vellum.BevelJoin:
			attr("stroke-linejoin", "bevel")
		default:
			attr("stroke-linejoin", "miter")
		}
	}
	if style.MiterLimit != nil {
		num("stroke-miterlimit", *style.MiterLimit)
	}
	if style.Dashes != nil {
		if len(style.Dashes) == 0 {
			attr("stroke-dasharray", "none")
		} else {
			var vals []string
			for _, d := range style.Dashes {
				vals = append(vals, strconv.FormatFloat(d, 'g', -1, 64))
			}
			attr("stroke-dasharray", strings.Join(vals, " "))
		}
	}
	if style.DashOffset != nil {
		num("stroke-dashoffset", *style.DashOffset)
	}
}

func writeTransformAttr(sb *strings.Builder, m vellum.Matrix) {
	if m == vellum.Identity {
		return
	}
	sb.WriteString(` transform="matrix(`)
	for i, f := range []float64{m[0][0], m[1][0], m[0][1], m[1][1], m[0][2], m[1][2]} {
		if 0 < i {
			sb.WriteByte(',')
		}
		writeNum(sb, f)
	}
	sb.WriteString(`)"`)
}

func writeIDAttr(sb *strings.Builder, id string) {
	if id != "" {
		sb.WriteString(` id="`)
		sb.WriteString(id)
		sb.WriteByte('"')
	}
}

// Write serializes the document as SVG text. Group structure is not
// reconstructed: flattened shapes serialize with their composed transform and
// resolved style, which parses back to an equal scene.
func Write(w io.Writer, doc *vellum.Document) error {
	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="`)
	writeNum(&sb, doc.Width)
	sb.WriteString(`" height="`)
	writeNum(&sb, doc.Height)
	sb.WriteByte('"')
	if doc.ViewBox != nil {
		sb.WriteString(` viewBox="`)
		for i, f := range []float64{doc.ViewBox.MinX, doc.ViewBox.MinY, doc.ViewBox.Width, doc.ViewBox.Height} {
			if 0 < i {
				sb.WriteByte(' ')
			}
			writeNum(&sb, f)
		}
		sb.WriteByte('"')
	}
	sb.WriteString(">")

	for _, shape := range doc.Shapes {
		writeShape(&sb, shape)
	}
	sb.WriteString("</svg>")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeShape(sb *strings.Builder, shape vellum.Shape) {
	common := func(id string, style vellum.Style, m vellum.Matrix) {
		writeIDAttr(sb, id)
		writeTransformAttr(sb, m)
		writeStyleAttrs(sb, style)
	}
	numAttr := func(name string, f float64) {
		sb.WriteByte(' ')
		sb.WriteString(name)
		sb.WriteString(`="`)
		writeNum(sb, f)
		sb.WriteByte('"')
	}

	switch s := shape.(type) {
	case *vellum.PathShape:
		sb.WriteString(`<path d="`)
		sb.WriteString(s.Path.String())
		sb.WriteByte('"')
		common(s.ID, s.Style, s.Transform)
		sb.WriteString("/>")
	case *vellum.RectShape:
		sb.WriteString("<rect")
		numAttr("x", s.X)
		numAttr("y", s.Y)
		numAttr("width", s.Width)
		numAttr("height", s.Height)
		if 0.0 < s.RX {
			numAttr("rx", s.RX)
		}
		if 0.0 < s.RY {
			numAttr("ry", s.RY)
		}
		common(s.ID, s.Style, s.Transform)
		sb.WriteString("/>")
	case *vellum.CircleShape:
		sb.WriteString("<circle")
		numAttr("cx", s.CX)
		numAttr("cy", s.CY)
		numAttr("r", s.R)
		common(s.ID, s.Style, s.Transform)
		sb.WriteString("/>")
	case *vellum.EllipseShape:
		sb.WriteString("<ellipse")
		numAttr("cx", s.CX)
		numAttr("cy", s.CY)
		numAttr("rx", s.RX)
		numAttr("ry", s.RY)
		common(s.ID, s.Style, s.Transform)
		sb.WriteString("/>")
	case *vellum.LineShape:
		sb.WriteString("<line")
		numAttr("x1", s.X1)
		numAttr("y1", s.Y1)
		numAttr("x2", s.X2)
		numAttr("y2", s.Y2)
		common(s.ID, s.Style, s.Transform)
		sb.WriteString("/>")
	case *vellum.TextShape:
		sb.WriteString("<text")
		numAttr("x", s.X)
		numAttr("y", s.Y)
		numAttr("font-size", s.FontSize)
		common(s.ID, s.Style, s.Transform)
		sb.WriteByte('>')
		sb.WriteString(s.Text)
		sb.WriteString("</text>")
	case *vellum.Group:
		sb.WriteString("<g")
		common(s.ID, s.Style, s.Transform)
		sb.WriteByte('>')
		for _, child := range s.Children {
			writeShape(sb, child)
		}
		sb.WriteString("</g>")
	}
}

// WriteMinified serializes the document and runs it through the SVG minifier.
func WriteMinified(w io.Writer, doc *vellum.Document) error {
	var buf bytes.Buffer
	if err := Write(&buf, doc); err != nil {
		return err
	}
	m := minify.New()
	m.AddFunc("image/svg+xml", minifysvg.Minify)
	return m.Minify("image/svg+xml", w, &buf)
}
