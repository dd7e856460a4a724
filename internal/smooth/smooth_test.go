package smooth

import (
	"testing"

	"github.com/rastertrace/vtracer/internal/geom"
)

func closedSquare() []geom.Point {
	return []geom.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
}

func TestRunZeroIterationsIsNoOp(t *testing.T) {
	pts := closedSquare()
	out := Run(pts, nil, Options{Iterations: 0})
	if len(out) != len(pts) {
		t.Fatal("expected zero iterations to be a no-op")
	}
}

func TestRunSmoothsAwayCorner(t *testing.T) {
	pts := closedSquare()
	out := Run(pts, nil, Options{Iterations: 1})
	if len(out) <= len(pts) {
		t.Fatalf("expected Chaikin pass to increase point count, in=%d out=%d", len(pts), len(out))
	}
	for _, p := range out {
		if p == (geom.Point{X: 0, Y: 0}) {
			t.Fatal("expected original sharp corner to be cut away when unpinned")
		}
	}
}

func TestRunPinsCorner(t *testing.T) {
	pts := closedSquare()
	out := Run(pts, []int{0}, Options{Iterations: 1})
	found := false
	for _, p := range out {
		if p == (geom.Point{X: 0, Y: 0}) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected pinned corner to survive smoothing")
	}
}

func TestRunPinsCornerAcrossMultipleIterations(t *testing.T) {
	pts := closedSquare()
	out := Run(pts, []int{0}, Options{Iterations: 3})
	found := false
	for _, p := range out {
		if p == (geom.Point{X: 0, Y: 0}) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected pinned corner to survive across multiple Chaikin iterations, not just the first")
	}
}

func TestRunClampsIterations(t *testing.T) {
	pts := closedSquare()
	out5 := Run(pts, nil, Options{Iterations: 5})
	out3 := Run(pts, nil, Options{Iterations: 3})
	if len(out5) != len(out3) {
		t.Fatalf("expected iterations to clamp to 3: got %d vs %d", len(out5), len(out3))
	}
}
