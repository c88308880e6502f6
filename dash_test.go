package vellum

import (
	"math"
	"testing"

	"github.com/tdewolff/test"
)

func runLength(run []Point) float64 {
	return PolylineLength(run, false)
}

func TestDashNoPattern(t *testing.T) {
	pts := []Point{{0.0, 0.0}, {10.0, 0.0}}
	runs := ApplyDashes(pts, false, nil, 0.0)
	test.T(t, len(runs), 1)
	test.T(t, len(runs[0]), 2)
}

func TestDashBasicPattern(t *testing.T) {
	pts := []Point{{0.0, 0.0}, {100.0, 0.0}}
	runs := ApplyDashes(pts, false, []float64{10.0, 5.0}, 0.0)
	test.T(t, len(runs), 7)
	for i, run := range runs {
		test.That(t, math.Abs(run[0].X-float64(i)*15.0) < 1e-9)
		test.That(t, math.Abs(runLength(run)-10.0) < 1e-9)
	}
}

func TestDashConservation(t *testing.T) {
	pts := []Point{{0.0, 0.0}, {40.0, 0.0}, {40.0, 33.0}, {12.0, 33.0}}
	total := PolylineLength(pts, false)

	runs := ApplyDashes(pts, false, []float64{7.0, 3.0, 2.0, 4.0}, 5.0)
	on := 0.0
	for _, run := range runs {
		on += runLength(run)
	}
	// on lengths plus off lengths cover the full arc length
	patternOn := (7.0 + 2.0) / (7.0 + 3.0 + 2.0 + 4.0)
	test.That(t, on <= total+1e-4)
	test.That(t, math.Abs(on-total*patternOn) < 7.0+1e-4, "on", on, "of", total)
}

func TestDashOddPatternDoubled(t *testing.T) {
	pts := []Point{{0.0, 0.0}, {100.0, 0.0}}
	runs := ApplyDashes(pts, false, []float64{10.0}, 0.0)
	// [10] behaves as [10 10]: on at 0, 20, 40, 60, 80
	test.T(t, len(runs), 5)
	for i, run := range runs {
		test.That(t, math.Abs(run[0].X-float64(i)*20.0) < 1e-9)
		test.That(t, math.Abs(runLength(run)-10.0) < 1e-9)
	}
}

func TestDashOffset(t *testing.T) {
	pts := []Point{{0.0, 0.0}, {100.0, 0.0}}
	runs := ApplyDashes(pts, false, []float64{10.0, 5.0}, 10.0)
	// offset 10 starts inside the gap; first dash begins at 5
	test.That(t, math.Abs(runs[0][0].X-5.0) < 1e-9)
	test.That(t, math.Abs(runLength(runs[0])-10.0) < 1e-9)

	// a negative offset wraps around the pattern: -5 behaves as 10
	runs = ApplyDashes(pts, false, []float64{10.0, 5.0}, -5.0)
	test.That(t, math.Abs(runs[0][0].X-5.0) < 1e-9)
	test.That(t, math.Abs(runLength(runs[0])-10.0) < 1e-9)
}

func TestDashAcrossVertices(t *testing.T) {
	// an L of two 10-long segments with a 15-long dash crosses the corner
	pts := []Point{{0.0, 0.0}, {10.0, 0.0}, {10.0, 10.0}}
	runs := ApplyDashes(pts, false, []float64{15.0, 5.0}, 0.0)
	test.T(t, len(runs), 1)
	test.That(t, math.Abs(runLength(runs[0])-15.0) < 1e-9)
	test.T(t, len(runs[0]), 3) // includes the corner vertex
}

func TestDashClosed(t *testing.T) {
	square := []Point{{0.0, 0.0}, {10.0, 0.0}, {10.0, 10.0}, {0.0, 10.0}}
	runs := ApplyDashes(square, true, []float64{10.0, 10.0}, 0.0)
	test.T(t, len(runs), 2)
	on := 0.0
	for _, run := range runs {
		on += runLength(run)
	}
	test.That(t, math.Abs(on-20.0) < 1e-9)
}

func TestDashZeroPattern(t *testing.T) {
	pts := []Point{{0.0, 0.0}, {10.0, 0.0}}
	runs := ApplyDashes(pts, false, []float64{0.0, 0.0}, 0.0)
	test.T(t, len(runs), 1)
}

func TestPolylineLength(t *testing.T) {
	square := []Point{{0.0, 0.0}, {10.0, 0.0}, {10.0, 10.0}, {0.0, 10.0}}
	test.That(t, math.Abs(PolylineLength(square, false)-30.0) < 1e-9)
	test.That(t, math.Abs(PolylineLength(square, true)-40.0) < 1e-9)
}
