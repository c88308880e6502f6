package vellum

import (
	"math"
)

// ApplyDashes walks the polyline along its arc length and splits it into the
// "on" runs of the dash pattern. Even indices of the dash array are on, odd
// indices off; an odd-length array is logically doubled first. The offset
// shifts the pattern start and may be negative. Every returned run is an open
// polyline and is capped at both ends by the stroker, also when the input was
// closed. With an empty or zero-length pattern the input is returned as its
// single run.
func ApplyDashes(pts []Point, closed bool, dashes []float64, offset float64) [][]Point {
	if len(dashes) == 0 {
		return [][]Point{pts}
	}
	if len(pts) < 2 {
		return nil
	}

	pattern := dashes
	if len(pattern)%2 != 0 {
		pattern = append(append([]float64{}, dashes...), dashes...)
	}

	total := 0.0
	for _, d := range pattern {
		total += d
	}
	if total < Epsilon {
		return [][]Point{pts}
	}

	// segment list, including the wrap segment for closed polylines
	n := len(pts)
	segs := n - 1
	if closed && !pts[0].Equals(pts[n-1]) {
		segs = n
	}
	segEnd := func(i int) Point {
		if i == n-1 {
			return pts[0]
		}
		return pts[i+1]
	}

	// position the walk inside the pattern according to the offset
	offset = math.Mod(offset, total)
	if offset < 0.0 {
		offset += total
	}
	index := 0
	remaining := pattern[0]
	for remaining <= offset {
		offset -= remaining
		index = (index + 1) % len(pattern)
		remaining = pattern[index]
	}
	remaining -= offset
	drawing := index%2 == 0

	var runs [][]Point
	var run []Point
	flush := func() {
		if 2 <= len(run) {
			runs = append(runs, run)
		}
		run = nil
	}

	if drawing {
		run = append(run, pts[0])
	}
	for i := 0; i < segs; i++ {
		p0, p1 := pts[i], segEnd(i)
		segLen := p1.Sub(p0).Length()
		walked := 0.0
		for Epsilon < segLen-walked {
			left := segLen - walked
			if remaining <= left {
				walked += remaining
				q := p0.Interpolate(p1, walked/segLen)
				if drawing {
					run = append(run, q)
					flush()
				}
				index = (index + 1) % len(pattern)
				remaining = pattern[index]
				drawing = !drawing
				if drawing {
					run = append(run, q)
				}
			} else {
				remaining -= left
				walked = segLen
				if drawing {
					run = append(run, p1)
				}
			}
		}
	}
	flush()
	return runs
}

// PolylineLength returns the arc length of the polyline, including the wrap
// segment when closed.
func PolylineLength(pts []Point, closed bool) float64 {
	length := 0.0
	for i := 0; i+1 < len(pts); i++ {
		length += pts[i+1].Sub(pts[i]).Length()
	}
	if closed && 1 < len(pts) && !pts[0].Equals(pts[len(pts)-1]) {
		length += pts[0].Sub(pts[len(pts)-1]).Length()
	}
	return length
}
