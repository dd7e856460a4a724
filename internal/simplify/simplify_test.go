package simplify

import (
	"testing"

	"github.com/rastertrace/vtracer/internal/geom"
)

func closedSquareStaircase() []geom.Point {
	// A square whose right edge is drawn as a staircase.
	return []geom.Point{
		{0, 0}, {5, 0}, {10, 0},
		{10, 1}, {9, 1}, {9, 2}, {10, 2},
		{10, 10},
		{0, 10},
		{0, 0},
	}
}

func TestRunReducesPointCount(t *testing.T) {
	pts := closedSquareStaircase()
	out := Run(pts, Options{RadialEps: 0, RDPEps: 0.5, StaircaseMax: 50})
	if len(out) >= len(pts) {
		t.Fatalf("expected simplification to reduce points: in=%d out=%d", len(pts), len(out))
	}
	if out[0] != out[len(out)-1] {
		t.Fatal("expected result to remain closed")
	}
}

func TestRadialFilterDropsCloseDuplicates(t *testing.T) {
	pts := []geom.Point{{0, 0}, {0.01, 0}, {5, 0}, {5, 5}, {0, 5}, {0, 0}}
	out := radialFilter(pts, 1.0)
	if len(out) >= len(pts) {
		t.Fatalf("expected radial filter to drop near-duplicate point")
	}
}

func TestRDPOpenCollapsesStraightLineToStart(t *testing.T) {
	pts := []geom.Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	out := rdpOpen(pts, 0.5)
	if len(out) != 1 {
		// rdpOpen returns collapsed-to-start representation used by rdpClosed;
		// verify it at least keeps the start point.
		t.Fatalf("expected straight line to collapse, got %d points", len(out))
	}
	if out[0] != pts[0] {
		t.Fatal("expected first point preserved")
	}
}

func TestRemoveStaircasesZeroMaxIsNoOp(t *testing.T) {
	pts := closedSquareStaircase()
	out := removeStaircases(pts, 0) // maxPct<=0 means no-op
	if len(out) != len(pts) {
		t.Fatal("expected no-op when maxPct<=0")
	}
}

func TestRunShortInputPassesThrough(t *testing.T) {
	pts := []geom.Point{{0, 0}, {1, 1}, {2, 2}}
	out := Run(pts, Options{RDPEps: 1})
	if len(out) != len(pts) {
		t.Fatal("expected fewer than 4 points to pass through unchanged")
	}
}
