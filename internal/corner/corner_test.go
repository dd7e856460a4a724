package corner

import (
	"testing"

	"github.com/rastertrace/vtracer/internal/geom"
)

func closedSquare() []geom.Point {
	var pts []geom.Point
	for x := 0.0; x < 10; x++ {
		pts = append(pts, geom.Point{X: x, Y: 0})
	}
	for y := 0.0; y < 10; y++ {
		pts = append(pts, geom.Point{X: 10, Y: y})
	}
	for x := 10.0; x > 0; x-- {
		pts = append(pts, geom.Point{X: x, Y: 10})
	}
	for y := 10.0; y > 0; y-- {
		pts = append(pts, geom.Point{X: 0, Y: y})
	}
	pts = append(pts, pts[0])
	return pts
}

func TestDetectFindsFourCornersOnSquare(t *testing.T) {
	pts := closedSquare()
	corners := Detect(pts, Options{AngleThreshold: 130, NMSWindow: 3})
	if len(corners) < 4 {
		t.Fatalf("expected at least 4 corners on a square, got %d: %v", len(corners), corners)
	}
}

func TestTurningAngleStraightIs180(t *testing.T) {
	a := geom.Point{X: 0, Y: 0}
	b := geom.Point{X: 1, Y: 0}
	c := geom.Point{X: 2, Y: 0}
	if angle := turningAngleDeg(a, b, c); angle < 180-1e-6 {
		t.Fatalf("expected ~180 degrees for straight line, got %v", angle)
	}
}

func TestTurningAngleRightAngleIsNinety(t *testing.T) {
	a := geom.Point{X: 0, Y: 0}
	b := geom.Point{X: 1, Y: 0}
	c := geom.Point{X: 1, Y: 1}
	angle := turningAngleDeg(a, b, c)
	if angle < 89 || angle > 91 {
		t.Fatalf("expected ~90 degrees, got %v", angle)
	}
}

func TestNonMaxSuppressKeepsSharpest(t *testing.T) {
	scores := []float64{10, 5, 20, 5, 30}
	candidates := []int{0, 1, 2, 3, 4}
	kept := nonMaxSuppress(candidates, scores, 5, 1)
	found := false
	for _, k := range kept {
		if k == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sharpest local candidate (index 1) to survive, got %v", kept)
	}
}

func TestDetectTooFewPointsReturnsNil(t *testing.T) {
	pts := []geom.Point{{0, 0}, {1, 1}}
	if corners := Detect(pts, Options{AngleThreshold: 30, NMSWindow: 1}); corners != nil {
		t.Fatalf("expected nil for degenerate polyline, got %v", corners)
	}
}
