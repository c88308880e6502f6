package svg

import (
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"github.com/tdewolff/parse/v2/xml"
	"golang.org/x/image/colornames"

	"github.com/vellum-gfx/vellum"
)

// length unit factors to device pixels. Relative units (em, ex, %) are
// treated as 1x, a known limitation.
var unitFactors = map[string]float64{
	"":   1.0,
	"px": 1.0,
	"pt": 1.333,
	"pc": 16.0,
	"in": 96.0,
	"cm": 37.795,
	"mm": 3.7795,
	"em": 1.0,
	"ex": 1.0,
	"%":  1.0,
}

type group struct {
	transform vellum.Matrix
	style     vellum.Style
}

type svgParser struct {
	z     *parse.Input
	doc   *vellum.Document
	diags []Diagnostic

	groups []group

	intext   bool
	text     strings.Builder
	textElem *vellum.TextShape
}

// Parse reads an SVG document from r. It returns the parsed scene with groups
// flattened, the diagnostics for every construct that was skipped, and a
// fatal error when the XML is malformed or the root element is not svg. On a
// fatal error the document must be discarded.
func Parse(r io.Reader) (*vellum.Document, []Diagnostic, error) {
	z := parse.NewInput(r)
	defer z.Restore()

	svg := &svgParser{z: z}
	err := svg.parse(xml.NewLexer(z))
	if err != nil {
		return nil, svg.diags, err
	}
	return svg.doc, svg.diags, nil
}

// ParseString parses an SVG document from a string.
func ParseString(s string) (*vellum.Document, []Diagnostic, error) {
	return Parse(strings.NewReader(s))
}

func (svg *svgParser) diagf(format string, args ...interface{}) {
	svg.diags = diagf(svg.diags, format, args...)
}

func (svg *svgParser) top() group {
	return svg.groups[len(svg.groups)-1]
}

func (svg *svgParser) parse(l *xml.Lexer) error {
	skipDepth := 0
	for {
		tt, data := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return l.Err()
			}
			if svg.doc == nil {
				return parse.NewErrorLexer(svg.z, "expected svg root element")
			}
			return nil

		case xml.StartTagToken:
			tag := string(data[1:])

			attrs := map[string]string{}
			var attrNames []string
			for {
				tt, _ = l.Next()
				if tt != xml.AttributeToken {
					break
				}
				val := l.AttrVal()
				if 2 <= len(val) {
					val = val[1 : len(val)-1]
				}
				name := string(l.Text())
				if _, ok := attrs[name]; !ok {
					attrNames = append(attrNames, name)
				}
				attrs[name] = string(val)
			}
			void := tt == xml.StartTagCloseVoidToken

			if 0 < skipDepth {
				if !void {
					skipDepth++
				}
				continue
			}

			if svg.doc == nil {
				if tag != "svg" {
					return parse.NewErrorLexer(svg.z, "expected svg root element, got <%s>", tag)
				}
				svg.startRoot(attrs, attrNames)
				continue
			}

			switch tag {
			case "metadata", "title", "desc", "defs":
				if !void {
					skipDepth++
				}
			case "g":
				style, transform, _ := svg.parseCommonAttrs(attrs, attrNames)
				parent := svg.top()
				svg.groups = append(svg.groups, group{
					transform: parent.transform.Mul(transform),
					style:     style.Inherit(parent.style),
				})
				if void {
					svg.groups = svg.groups[:len(svg.groups)-1]
				}
			case "circle", "ellipse", "rect", "line", "path", "polygon", "polyline":
				svg.parseShape(tag, attrs, attrNames)
			case "text":
				svg.startText(attrs, attrNames)
				if void {
					svg.intext = false
					svg.textElem = nil
				}
			default:
				svg.diagf("unknown element <%s>", tag)
				if !void {
					skipDepth++
				}
			}

		case xml.TextToken:
			if svg.intext {
				svg.text.Write(data)
			}

		case xml.EndTagToken:
			if 0 < skipDepth {
				skipDepth--
				continue
			}
			tag := string(data[2 : len(data)-1])
			switch tag {
			case "g":
				if 1 < len(svg.groups) {
					svg.groups = svg.groups[:len(svg.groups)-1]
				}
			case "text":
				svg.endText()
			}
		}
	}
}

// startRoot reads the svg element's canvas size and viewBox and pushes the
// base group holding the root's own style and transform.
func (svg *svgParser) startRoot(attrs map[string]string, attrNames []string) {
	svg.doc = vellum.NewDocument()
	if v, ok := attrs["width"]; ok {
		if w, ok := svg.parseLength(v); ok && 0.0 < w {
			svg.doc.Width = w
		}
	}
	if v, ok := attrs["height"]; ok {
		if h, ok := svg.parseLength(v); ok && 0.0 < h {
			svg.doc.Height = h
		}
	}
	if v, ok := attrs["viewBox"]; ok {
		vals := svg.parseFloatList(v)
		if len(vals) != 4 {
			svg.diagf("bad viewBox %q", v)
		} else {
			svg.doc.ViewBox = &vellum.ViewBox{MinX: vals[0], MinY: vals[1], Width: vals[2], Height: vals[3]}
		}
	}

	style, transform, _ := svg.parseCommonAttrs(attrs, attrNames)
	svg.groups = []group{{transform: transform, style: style}}
}

// parseCommonAttrs merges the inline style declarations and the presentation
// attributes into a style, transform and id. Presentation attributes take
// priority over the style attribute.
func (svg *svgParser) parseCommonAttrs(attrs map[string]string, attrNames []string) (vellum.Style, vellum.Matrix, string) {
	var style vellum.Style
	transform := vellum.Identity
	id := ""

	if v, ok := attrs["style"]; ok {
		p := css.NewParser(parse.NewInputString(v), true)
		for {
			gt, _, name := p.Next()
			if gt == css.ErrorGrammar {
				break
			}
			if gt == css.DeclarationGrammar {
				val := ""
				for _, t := range p.Values() {
					val += string(t.Data)
				}
				svg.setStyleProp(&style, string(name), strings.TrimSpace(val))
			}
		}
	}

	for _, name := range attrNames {
		val := attrs[name]
		switch name {
		case "id":
			id = val
		case "transform":
			transform = svg.parseTransform(val)
		case "style":
			// handled above; presentation attributes override it
		default:
			svg.setStyleProp(&style, name, val)
		}
	}
	return style, transform, id
}

func (svg *svgParser) setStyleProp(style *vellum.Style, name, val string) {
	switch name {
	case "fill":
		if val == "none" {
			style.FillNone = true
			style.Fill = nil
			break
		}
		c := svg.parseColor(val)
		style.Fill = &c
		style.FillNone = false
	case "stroke":
		if val == "none" {
			style.StrokeNone = true
			style.Stroke = nil
			break
		}
		c := svg.parseColor(val)
		style.Stroke = &c
		style.StrokeNone = false
	case "stroke-width":
		if f, ok := svg.parseLength(val); ok {
			style.StrokeWidth = &f
		}
	case "opacity":
		if f, ok := svg.parseNumber(val); ok {
			style.Opacity = &f
		}
	case "fill-opacity":
		if f, ok := svg.parseNumber(val); ok {
			style.FillOpacity = &f
		}
	case "stroke-opacity":
		if f, ok := svg.parseNumber(val); ok {
			style.StrokeOpacity = &f
		}
	case "fill-rule":
		rule := vellum.NonZero
		if val == "evenodd" {
			rule = vellum.EvenOdd
		}
		style.Rule = &rule
	case "stroke-linecap":
		cap := vellum.ButtCap
		switch val {
		case "round":
			cap = vellum.RoundCap
		case "square":
			cap = vellum.SquareCap
		}
		style.Cap = &cap
	case "stroke-linejoin":
		join := vellum.MiterJoin
		switch val {
		case "round":
			join = vellum.RoundJoin
		case "bevel":
			join = vellum.BevelJoin
		}
		style.Join = &join
	case "stroke-miterlimit":
		if f, ok := svg.parseNumber(val); ok {
			style.MiterLimit = &f
		}
	case "stroke-dasharray":
		if val == "none" {
			style.Dashes = []float64{}
			break
		}
		style.Dashes = svg.parseFloatList(val)
	case "stroke-dashoffset":
		if f, ok := svg.parseLength(val); ok {
			style.DashOffset = &f
		}
	}
}

// parseShape materializes a shape element into the document, flattened: its
// transform is the composed group transform times its own, and unset style
// properties inherit from the enclosing groups.
func (svg *svgParser) parseShape(tag string, attrs map[string]string, attrNames []string) {
	style, transform, id := svg.parseCommonAttrs(attrs, attrNames)
	parent := svg.top()
	transform = parent.transform.Mul(transform)
	style = style.Inherit(parent.style)

	length := func(name string) float64 {
		v, ok := attrs[name]
		if !ok {
			return 0.0
		}
		f, _ := svg.parseLength(v)
		return f
	}

	switch tag {
	case "circle":
		svg.doc.Shapes = append(svg.doc.Shapes, &vellum.CircleShape{
			ID: id, Style: style, Transform: transform,
			CX: length("cx"), CY: length("cy"), R: length("r"),
		})
	case "ellipse":
		svg.doc.Shapes = append(svg.doc.Shapes, &vellum.EllipseShape{
			ID: id, Style: style, Transform: transform,
			CX: length("cx"), CY: length("cy"), RX: length("rx"), RY: length("ry"),
		})
	case "rect":
		svg.doc.Shapes = append(svg.doc.Shapes, &vellum.RectShape{
			ID: id, Style: style, Transform: transform,
			X: length("x"), Y: length("y"),
			Width: length("width"), Height: length("height"),
			RX: length("rx"), RY: length("ry"),
		})
	case "line":
		svg.doc.Shapes = append(svg.doc.Shapes, &vellum.LineShape{
			ID: id, Style: style, Transform: transform,
			X1: length("x1"), Y1: length("y1"),
			X2: length("x2"), Y2: length("y2"),
		})
	case "path":
		p, diags := ParsePathData(attrs["d"])
		svg.diags = append(svg.diags, diags...)
		if p.Empty() {
			svg.diagf("skipping path without usable data")
			return
		}
		svg.doc.Shapes = append(svg.doc.Shapes, &vellum.PathShape{
			ID: id, Style: style, Transform: transform, Path: p,
		})
	case "polygon", "polyline":
		vals := svg.parseFloatList(attrs["points"])
		p := &vellum.Path{}
		for i := 0; i+1 < len(vals); i += 2 {
			if i == 0 {
				p.MoveTo(vals[0], vals[1])
			} else {
				p.LineTo(vals[i], vals[i+1])
			}
		}
		if tag == "polygon" {
			p.Close()
		}
		if p.Empty() {
			svg.diagf("skipping %s without points", tag)
			return
		}
		svg.doc.Shapes = append(svg.doc.Shapes, &vellum.PathShape{
			ID: id, Style: style, Transform: transform, Path: p,
		})
	}
}

func (svg *svgParser) startText(attrs map[string]string, attrNames []string) {
	style, transform, id := svg.parseCommonAttrs(attrs, attrNames)
	parent := svg.top()

	fontSize := 12.0
	if v, ok := attrs["font-size"]; ok {
		if f, ok := svg.parseLength(v); ok && 0.0 < f {
			fontSize = f
		}
	}
	x, _ := svg.parseLength(attrs["x"])
	y, _ := svg.parseLength(attrs["y"])

	svg.intext = true
	svg.text.Reset()
	svg.textElem = &vellum.TextShape{
		ID:        id,
		Style:     style.Inherit(parent.style),
		Transform: parent.transform.Mul(transform),
		X:         x,
		Y:         y,
		FontSize:  fontSize,
	}
}

func (svg *svgParser) endText() {
	if svg.textElem != nil {
		svg.textElem.Text = strings.TrimSpace(svg.text.String())
		if svg.textElem.Text != "" {
			svg.doc.Shapes = append(svg.doc.Shapes, svg.textElem)
		}
		svg.textElem = nil
	}
	svg.intext = false
}

////////////////////////////////////////////////////////////////

// parseNumber parses a plain float.
func (svg *svgParser) parseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		svg.diagf("bad number %q", v)
		return 0.0, false
	}
	return f, true
}

// parseLength parses a numeric literal with an optional unit suffix and
// converts it to device pixels.
func (svg *svgParser) parseLength(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0.0, false
	}
	nn, _ := parse.Dimension([]byte(v))
	if nn == 0 {
		svg.diagf("bad length %q", v)
		return 0.0, false
	}
	num, err := strconv.ParseFloat(v[:nn], 64)
	if err != nil {
		svg.diagf("bad length %q", v)
		return 0.0, false
	}
	factor, ok := unitFactors[strings.ToLower(v[nn:])]
	if !ok {
		svg.diagf("unknown unit in %q", v)
		return num, true
	}
	return num * factor, true
}

func parseHexColor(v string) (color.RGBA, bool) {
	hexNibble := func(c byte) (uint8, bool) {
		switch {
		case '0' <= c && c <= '9':
			return c - '0', true
		case 'a' <= c && c <= 'f':
			return c - 'a' + 10, true
		case 'A' <= c && c <= 'F':
			return c - 'A' + 10, true
		}
		return 0, false
	}
	var rgb [6]uint8
	switch len(v) {
	case 4: // #RGB
		for i := 0; i < 3; i++ {
			n, ok := hexNibble(v[1+i])
			if !ok {
				return color.RGBA{}, false
			}
			rgb[2*i], rgb[2*i+1] = n, n
		}
	case 7: // #RRGGBB
		for i := 0; i < 6; i++ {
			n, ok := hexNibble(v[1+i])
			if !ok {
				return color.RGBA{}, false
			}
			rgb[i] = n
		}
	default:
		return color.RGBA{}, false
	}
	return color.RGBA{rgb[0]<<4 | rgb[1], rgb[2]<<4 | rgb[3], rgb[4]<<4 | rgb[5], 255}, true
}

// parseColorComponent parses an rgb() component, an integer 0-255 or a
// percentage.
func parseColorComponent(v string) (uint8, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if v[len(v)-1] == '%' {
		f, err := strconv.ParseFloat(v[:len(v)-1], 64)
		if err != nil {
			return 0, false
		}
		if f < 0.0 {
			f = 0.0
		} else if 100.0 < f {
			f = 100.0
		}
		return uint8(f/100.0*255.0 + 0.5), true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	if n < 0 {
		n = 0
	} else if 255 < n {
		n = 255
	}
	return uint8(n), true
}

// parseColor accepts #RGB, #RRGGBB, rgb(), rgba(), SVG named colors and
// currentColor. Invalid input falls back to opaque black with a diagnostic.
func (svg *svgParser) parseColor(v string) color.RGBA {
	black := color.RGBA{0, 0, 0, 255}
	v = strings.TrimSpace(v)
	if v == "" {
		return black
	}
	if v[0] == '#' {
		if c, ok := parseHexColor(v); ok {
			return c
		}
		svg.diagf("bad color %q", v)
		return black
	}
	if v == "currentColor" {
		return black
	}

	lower := strings.ToLower(v)
	if c, ok := colornames.Map[lower]; ok {
		return c
	}

	if strings.HasPrefix(lower, "rgb(") && strings.HasSuffix(lower, ")") {
		comps := strings.Split(lower[4:len(lower)-1], ",")
		if len(comps) == 3 {
			r, ok1 := parseColorComponent(comps[0])
			g, ok2 := parseColorComponent(comps[1])
			b, ok3 := parseColorComponent(comps[2])
			if ok1 && ok2 && ok3 {
				return color.RGBA{r, g, b, 255}
			}
		}
		svg.diagf("bad rgb() color %q", v)
		return black
	}
	if strings.HasPrefix(lower, "rgba(") && strings.HasSuffix(lower, ")") {
		comps := strings.Split(lower[5:len(lower)-1], ",")
		if len(comps) == 4 {
			r, ok1 := parseColorComponent(comps[0])
			g, ok2 := parseColorComponent(comps[1])
			b, ok3 := parseColorComponent(comps[2])
			a, err := strconv.ParseFloat(strings.TrimSpace(comps[3]), 64)
			if ok1 && ok2 && ok3 && err == nil {
				if a < 0.0 {
					a = 0.0
				} else if 1.0 < a {
					a = 1.0
				}
				return color.RGBA{r, g, b, uint8(a*255.0 + 0.5)}
			}
		}
		svg.diagf("bad rgba() color %q", v)
		return black
	}

	svg.diagf("unknown color %q", v)
	return black
}

// parseFloatList parses whitespace or comma separated numbers.
func (svg *svgParser) parseFloatList(v string) []float64 {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r'
	})
	vals := make([]float64, 0, len(fields))
	for _, field := range fields {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			svg.diagf("bad number %q in list", field)
			continue
		}
		vals = append(vals, f)
	}
	return vals
}

// parseTransform parses a sequence of transform functions, composed left to
// right so the first listed transform is the outermost.
func (svg *svgParser) parseTransform(v string) vellum.Matrix {
	m := vellum.Identity
	i, j := 0, 0
	var fun string
	for i < len(v) {
		if v[i] == '(' {
			fun = strings.ToLower(strings.TrimSpace(v[j:i]))
			j = i + 1
		} else if v[i] == ')' {
			d := svg.parseFloatList(v[j:i])
			switch fun {
			case "matrix":
				if len(d) != 6 {
					svg.diagf("bad transform matrix")
				} else {
					m = m.Mul(vellum.Matrix{{d[0], d[2], d[4]}, {d[1], d[3], d[5]}})
				}
			case "translate":
				if len(d) == 1 {
					m = m.Translate(d[0], 0.0)
				} else if len(d) == 2 {
					m = m.Translate(d[0], d[1])
				} else {
					svg.diagf("bad transform translate")
				}
			case "scale":
				if len(d) == 1 {
					m = m.Scale(d[0], d[0])
				} else if len(d) == 2 {
					m = m.Scale(d[0], d[1])
				} else {
					svg.diagf("bad transform scale")
				}
			case "rotate":
				if len(d) == 1 {
					m = m.Rotate(d[0])
				} else if len(d) == 3 {
					m = m.RotateAt(d[0], d[1], d[2])
				} else {
					svg.diagf("bad transform rotate")
				}
			case "skewx":
				if len(d) == 1 {
					m = m.ShearX(d[0])
				} else {
					svg.diagf("bad transform skewX")
				}
			case "skewy":
				if len(d) == 1 {
					m = m.ShearY(d[0])
				} else {
					svg.diagf("bad transform skewY")
				}
			default:
				svg.diagf("unknown transform function %q", fun)
			}
			j = i + 1
		}
		i++
	}
	return m
}
