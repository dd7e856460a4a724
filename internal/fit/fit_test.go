package fit

import (
	"testing"

	"github.com/rastertrace/vtracer/internal/geom"
)

func TestBuiltinFitterStraightLineTwoPoints(t *testing.T) {
	f := BuiltinFitter{}
	cubics := f.Fit([]geom.Point{{0, 0}, {10, 0}}, 1)
	if len(cubics) != 1 {
		t.Fatalf("expected 1 cubic, got %d", len(cubics))
	}
	c := cubics[0]
	if c.P0 != (geom.Point{0, 0}) || c.P3 != (geom.Point{10, 0}) {
		t.Fatalf("unexpected endpoints: %+v", c)
	}
}

func TestBuiltinFitterApproximatesCollinearPoints(t *testing.T) {
	f := BuiltinFitter{}
	pts := []geom.Point{{0, 0}, {2, 0}, {4, 0}, {6, 0}, {8, 0}, {10, 0}}
	cubics := f.Fit(pts, 0.5)
	if len(cubics) == 0 {
		t.Fatal("expected at least one cubic")
	}
	first := cubics[0]
	last := cubics[len(cubics)-1]
	if first.P0 != pts[0] {
		t.Fatalf("expected chain to start at first sample, got %+v", first.P0)
	}
	if last.P3 != pts[len(pts)-1] {
		t.Fatalf("expected chain to end at last sample, got %+v", last.P3)
	}
}

func TestRetractClampsLongHandle(t *testing.T) {
	c := Cubic{
		P0: geom.Point{X: 0, Y: 0},
		P1: geom.Point{X: 100, Y: 0},
		P2: geom.Point{X: 10, Y: 0},
		P3: geom.Point{X: 10, Y: 0},
	}
	out := retract(c, 0.5)
	chord := c.P0.Dist(c.P3)
	if d := out.P0.Dist(out.P1); d > chord*0.5+1e-6 {
		t.Fatalf("expected handle distance clamped to %v, got %v", chord*0.5, d)
	}
}

func TestRetractDisabledByZeroFactor(t *testing.T) {
	c := Cubic{P0: geom.Point{0, 0}, P1: geom.Point{100, 0}, P2: geom.Point{10, 0}, P3: geom.Point{10, 0}}
	out := retract(c, 0)
	if out != c {
		t.Fatal("expected retract with factor<=0 to be a no-op")
	}
}

func TestRunSegmentsAtCorners(t *testing.T) {
	// a closed square ring (5 points, last==first)
	pts := []geom.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	cubics := Run(pts, []int{0, 1, 2, 3}, Options{MaxError: 1, RetractFactor: 0.5})
	if len(cubics) < 4 {
		t.Fatalf("expected at least 4 segments for a 4-corner square, got %d", len(cubics))
	}
}

func TestRunTooShortReturnsNil(t *testing.T) {
	pts := []geom.Point{{0, 0}, {1, 1}}
	if cubics := Run(pts, nil, Options{}); cubics != nil {
		t.Fatalf("expected nil for degenerate ring, got %v", cubics)
	}
}

func TestCatmullRomFallbackUsedOnDuplicatePoints(t *testing.T) {
	pts := []geom.Point{{5, 5}, {5, 5}, {5, 5}, {5, 5}}
	c := catmullRomFallback(pts)
	if c.P0 != pts[0] || c.P3 != pts[len(pts)-1] {
		t.Fatalf("unexpected fallback endpoints: %+v", c)
	}
}
