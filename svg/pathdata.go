// Package svg parses a tolerant subset of SVG 1.1 into a vellum scene and
// serializes scenes back to SVG text.
package svg

import (
	"fmt"

	"github.com/tdewolff/parse/v2/strconv"

	"github.com/vellum-gfx/vellum"
)

// Diagnostic is a recoverable parse issue. The offending construct was
// skipped; the rest of the document parsed normally.
type Diagnostic struct {
	Message string
}

func (d Diagnostic) String() string {
	return d.Message
}

func diagf(diags []Diagnostic, format string, args ...interface{}) []Diagnostic {
	return append(diags, Diagnostic{fmt.Sprintf(format, args...)})
}

func isLetter(c byte) bool {
	return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z'
}

func skipCommaWhitespace(d []byte) int {
	i := 0
	for i < len(d) && (d[i] == ' ' || d[i] == ',' || d[i] == '\n' || d[i] == '\r' || d[i] == '\t') {
		i++
	}
	return i
}

// ParsePathData parses SVG path data into a path with absolute coordinates.
// Relative commands are resolved against the current point, H/V expand to
// LineTo and S/T to full curves with the reflected control point. An unknown
// command letter yields a diagnostic and skips ahead to the next letter.
func ParsePathData(data string) (*vellum.Path, []Diagnostic) {
	d := []byte(data)
	p := &vellum.Path{}
	var diags []Diagnostic

	var prevCmd byte
	cpx, cpy := 0.0, 0.0 // last control point for S/T reflection

	// readNums reads n comma/whitespace separated numbers at position i.
	readNums := func(i, n int) ([]float64, int, bool) {
		nums := make([]float64, n)
		for j := 0; j < n; j++ {
			i += skipCommaWhitespace(d[i:])
			f, k := strconv.ParseFloat(d[i:])
			if k == 0 {
				return nil, i, false
			}
			nums[j] = f
			i += k
		}
		return nums, i, true
	}

	i := 0
	for i < len(d) {
		i += skipCommaWhitespace(d[i:])
		if len(d) <= i {
			break
		}

		cmd := prevCmd
		if isLetter(d[i]) {
			cmd = d[i]
			i++
		} else if cmd == 'M' {
			cmd = 'L' // further coordinates after a moveto are lineto
		} else if cmd == 'm' {
			cmd = 'l'
		}

		x, y := p.Pos()
		var nums []float64
		var ok bool
		switch cmd {
		case 'M', 'm':
			if nums, i, ok = readNums(i, 2); !ok {
				break
			}
			if cmd == 'm' {
				nums[0] += x
				nums[1] += y
			}
			p.MoveTo(nums[0], nums[1])
		case 'Z', 'z':
			p.Close()
		case 'L', 'l':
			if nums, i, ok = readNums(i, 2); !ok {
				break
			}
			if cmd == 'l' {
				nums[0] += x
				nums[1] += y
			}
			p.LineTo(nums[0], nums[1])
		case 'H', 'h':
			if nums, i, ok = readNums(i, 1); !ok {
				break
			}
			if cmd == 'h' {
				nums[0] += x
			}
			p.LineTo(nums[0], y)
		case 'V', 'v':
			if nums, i, ok = readNums(i, 1); !ok {
				break
			}
			if cmd == 'v' {
				nums[0] += y
			}
			p.LineTo(x, nums[0])
		case 'C', 'c':
			if nums, i, ok = readNums(i, 6); !ok {
				break
			}
			if cmd == 'c' {
				for j := 0; j < 6; j += 2 {
					nums[j] += x
					nums[j+1] += y
				}
			}
			p.CubeTo(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
			cpx, cpy = nums[2], nums[3]
		case 'S', 's':
			if nums, i, ok = readNums(i, 4); !ok {
				break
			}
			if cmd == 's' {
				for j := 0; j < 4; j += 2 {
					nums[j] += x
					nums[j+1] += y
				}
			}
			x1, y1 := x, y
			if prevCmd == 'C' || prevCmd == 'c' || prevCmd == 'S' || prevCmd == 's' {
				x1, y1 = 2.0*x-cpx, 2.0*y-cpy
			}
			p.CubeTo(x1, y1, nums[0], nums[1], nums[2], nums[3])
			cpx, cpy = nums[0], nums[1]
		case 'Q', 'q':
			if nums, i, ok = readNums(i, 4); !ok {
				break
			}
			if cmd == 'q' {
				for j := 0; j < 4; j += 2 {
					nums[j] += x
					nums[j+1] += y
				}
			}
			p.QuadTo(nums[0], nums[1], nums[2], nums[3])
			cpx, cpy = nums[0], nums[1]
		case 'T', 't':
			if nums, i, ok = readNums(i, 2); !ok {
				break
			}
			if cmd == 't' {
				nums[0] += x
				nums[1] += y
			}
			x1, y1 := x, y
			if prevCmd == 'Q' || prevCmd == 'q' || prevCmd == 'T' || prevCmd == 't' {
				x1, y1 = 2.0*x-cpx, 2.0*y-cpy
			}
			p.QuadTo(x1, y1, nums[0], nums[1])
			cpx, cpy = x1, y1
		case 'A', 'a':
			if nums, i, ok = readNums(i, 7); !ok {
				break
			}
			if cmd == 'a' {
				nums[5] += x
				nums[6] += y
			}
			p.ArcTo(nums[0], nums[1], nums[2], nums[3] == 1.0, nums[4] == 1.0, nums[5], nums[6])
		default:
			diags = diagf(diags, "unknown path command %q", string(cmd))
			for i < len(d) && !isLetter(d[i]) {
				i++
			}
			prevCmd = 0
			continue
		}
		if !ok && cmd != 'Z' && cmd != 'z' {
			diags = diagf(diags, "bad number in path command %q", string(cmd))
			for i < len(d) && !isLetter(d[i]) {
				i++
			}
			prevCmd = 0
			continue
		}
		prevCmd = cmd
	}
	return p, diags
}
