package vellum

import (
	"math"
	"strconv"
	"strings"
)

// PathCmd is the type tag of a path command.
type PathCmd int

const (
	MoveToCmd PathCmd = iota
	LineToCmd
	QuadToCmd
	CubeToCmd
	ArcToCmd
	CloseCmd
)

// cmdLen returns the number of parameters the command stores in the d slice.
func cmdLen(cmd PathCmd) int {
	switch cmd {
	case MoveToCmd, LineToCmd:
		return 2
	case QuadToCmd:
		return 4
	case CubeToCmd:
		return 6
	case ArcToCmd:
		return 7
	}
	return 0
}

// Path is an ordered sequence of path commands with their parameters stored
// flat in d. All coordinates are absolute; the SVG path-data parser resolves
// relative commands and expands H/V/S/T before they reach this representation.
// Path geometry is never mutated during rendering; Flatten produces a fresh
// polyline on each call.
type Path struct {
	cmds []PathCmd
	d    []float64
	x0   float64 // start of current sub-path
	y0   float64
}

// Empty returns true if the path contains no commands.
func (p *Path) Empty() bool {
	return p == nil || len(p.cmds) == 0
}

// Copy returns a deep copy of the path.
func (p *Path) Copy() *Path {
	q := &Path{
		cmds: make([]PathCmd, len(p.cmds)),
		d:    make([]float64, len(p.d)),
		x0:   p.x0,
		y0:   p.y0,
	}
	copy(q.cmds, p.cmds)
	copy(q.d, p.d)
	return q
}

// Pos returns the current pen position.
func (p *Path) Pos() (float64, float64) {
	if len(p.cmds) > 0 && p.cmds[len(p.cmds)-1] == CloseCmd {
		return p.x0, p.y0
	}
	if len(p.d) > 1 {
		return p.d[len(p.d)-2], p.d[len(p.d)-1]
	}
	return 0.0, 0.0
}

// Append adds p2 to the end of p.
func (p *Path) Append(p2 *Path) {
	if p2.Empty() {
		return
	}
	p.cmds = append(p.cmds, p2.cmds...)
	p.d = append(p.d, p2.d...)
	p.x0, p.y0 = p2.x0, p2.y0
}

func (p *Path) MoveTo(x, y float64) {
	p.cmds = append(p.cmds, MoveToCmd)
	p.d = append(p.d, x, y)
	p.x0, p.y0 = x, y
}

func (p *Path) LineTo(x, y float64) {
	p.cmds = append(p.cmds, LineToCmd)
	p.d = append(p.d, x, y)
}

func (p *Path) QuadTo(x1, y1, x, y float64) {
	p.cmds = append(p.cmds, QuadToCmd)
	p.d = append(p.d, x1, y1, x, y)
}

func (p *Path) CubeTo(x1, y1, x2, y2, x, y float64) {
	p.cmds = append(p.cmds, CubeToCmd)
	p.d = append(p.d, x1, y1, x2, y2, x, y)
}

// ArcTo adds an elliptical arc with radii rx and ry and rot the rotation in
// degrees of the ellipse's x-axis with respect to the coordinate system.
// large and sweep are the SVG large-arc and sweep flags, and x,y the end point.
func (p *Path) ArcTo(rx, ry, rot float64, large, sweep bool, x, y float64) {
	flarge, fsweep := 0.0, 0.0
	if large {
		flarge = 1.0
	}
	if sweep {
		fsweep = 1.0
	}
	p.cmds = append(p.cmds, ArcToCmd)
	p.d = append(p.d, rx, ry, rot, flarge, fsweep, x, y)
}

func (p *Path) Close() {
	p.cmds = append(p.cmds, CloseCmd)
}

// Closed returns true if the last sub-path is closed.
func (p *Path) Closed() bool {
	return len(p.cmds) > 0 && p.cmds[len(p.cmds)-1] == CloseCmd
}

// Split splits the path into its sub-paths, each starting with its MoveTo.
func (p *Path) Split() []*Path {
	var ps []*Path
	var q *Path
	i := 0
	x0, y0 := 0.0, 0.0
	for _, cmd := range p.cmds {
		if cmd == MoveToCmd {
			if q != nil && len(q.cmds) > 1 {
				ps = append(ps, q)
			}
			q = &Path{}
			x0, y0 = p.d[i], p.d[i+1]
		} else if q == nil {
			// sub-path without a leading MoveTo starts at the origin
			q = &Path{}
			q.MoveTo(0.0, 0.0)
		}
		n := cmdLen(cmd)
		q.cmds = append(q.cmds, cmd)
		q.d = append(q.d, p.d[i:i+n]...)
		q.x0, q.y0 = x0, y0
		i += n
	}
	if q != nil && len(q.cmds) > 1 {
		ps = append(ps, q)
	}
	return ps
}

// Bounds returns the bounding box of the path's anchor and control points.
// It contains line and Bézier segments but is not necessarily tight for
// curves. An arc contributes only its end point expanded by its radii, so a
// large arc, or one whose radii get scaled up, can extend beyond the box.
func (p *Path) Bounds() BBox {
	b := EmptyBBox()
	i := 0
	for _, cmd := range p.cmds {
		switch cmd {
		case MoveToCmd, LineToCmd:
			b = b.Expand(Point{p.d[i], p.d[i+1]})
		case QuadToCmd:
			b = b.Expand(Point{p.d[i], p.d[i+1]}).Expand(Point{p.d[i+2], p.d[i+3]})
		case CubeToCmd:
			b = b.Expand(Point{p.d[i], p.d[i+1]}).Expand(Point{p.d[i+2], p.d[i+3]}).Expand(Point{p.d[i+4], p.d[i+5]})
		case ArcToCmd:
			end := Point{p.d[i+5], p.d[i+6]}
			b = b.Expand(end).Expand(end.Add(Point{p.d[i], p.d[i+1]})).Expand(end.Sub(Point{p.d[i], p.d[i+1]}))
		}
		i += cmdLen(cmd)
	}
	return b
}

// Equals returns true if both paths consist of the same commands with equal
// parameters within tolerance Epsilon.
func (p *Path) Equals(q *Path) bool {
	if len(p.cmds) != len(q.cmds) || len(p.d) != len(q.d) {
		return false
	}
	for i, cmd := range p.cmds {
		if cmd != q.cmds[i] {
			return false
		}
	}
	for i := range p.d {
		if !equal(p.d[i], q.d[i]) {
			return false
		}
	}
	return true
}

// String returns the path as SVG path data.
func (p *Path) String() string {
	var sb strings.Builder
	num := func(f float64) {
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	i := 0
	for _, cmd := range p.cmds {
		switch cmd {
		case MoveToCmd:
			sb.WriteByte('M')
			num(p.d[i])
			sb.WriteByte(' ')
			num(p.d[i+1])
		case LineToCmd:
			sb.WriteByte('L')
			num(p.d[i])
			sb.WriteByte(' ')
			num(p.d[i+1])
		case QuadToCmd:
			sb.WriteByte('Q')
			for j := 0; j < 4; j++ {
				if j > 0 {
					sb.WriteByte(' ')
				}
				num(p.d[i+j])
			}
		case CubeToCmd:
			sb.WriteByte('C')
			for j := 0; j < 6; j++ {
				if j > 0 {
					sb.WriteByte(' ')
				}
				num(p.d[i+j])
			}
		case ArcToCmd:
			sb.WriteByte('A')
			for j := 0; j < 7; j++ {
				if j > 0 {
					sb.WriteByte(' ')
				}
				num(p.d[i+j])
			}
		case CloseCmd:
			sb.WriteByte('z')
		}
		i += cmdLen(cmd)
	}
	return sb.String()
}

////////////////////////////////////////////////////////////////

// Rectangle returns a closed rectangle path at x,y of size w,h.
func Rectangle(x, y, w, h float64) *Path {
	p := &Path{}
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p
}

// RoundedRectangle returns a closed rectangle path with corner radii rx,ry.
// Radii are clamped to half the rectangle's size; a zero radius takes the
// other axis' value.
func RoundedRectangle(x, y, w, h, rx, ry float64) *Path {
	if rx == 0.0 {
		rx = ry
	}
	if ry == 0.0 {
		ry = rx
	}
	if rx <= 0.0 && ry <= 0.0 {
		return Rectangle(x, y, w, h)
	}
	rx = math.Min(rx, w/2.0)
	ry = math.Min(ry, h/2.0)

	p := &Path{}
	p.MoveTo(x+rx, y)
	p.LineTo(x+w-rx, y)
	p.ArcTo(rx, ry, 0.0, false, true, x+w, y+ry)
	p.LineTo(x+w, y+h-ry)
	p.ArcTo(rx, ry, 0.0, false, true, x+w-rx, y+h)
	p.LineTo(x+rx, y+h)
	p.ArcTo(rx, ry, 0.0, false, true, x, y+h-ry)
	p.LineTo(x, y+ry)
	p.ArcTo(rx, ry, 0.0, false, true, x+rx, y)
	p.Close()
	return p
}

// EllipsePath returns a closed ellipse path centered at x,y with radii rx,ry.
func EllipsePath(x, y, rx, ry float64) *Path {
	p := &Path{}
	p.MoveTo(x+rx, y)
	p.ArcTo(rx, ry, 0.0, false, true, x-rx, y)
	p.ArcTo(rx, ry, 0.0, false, true, x+rx, y)
	p.Close()
	return p
}

// CirclePath returns a closed circle path centered at x,y with radius r.
func CirclePath(x, y, r float64) *Path {
	return EllipsePath(x, y, r, r)
}
