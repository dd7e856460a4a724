package contour

import (
	"testing"

	"github.com/rastertrace/vtracer/internal/geom"
)

func solidField(b []bool) []uint8 {
	g := make([]uint8, len(b))
	for i, v := range b {
		if v {
			g[i] = 0
		} else {
			g[i] = 255
		}
	}
	return g
}

func TestTraceSquareYieldsOneClosedContour(t *testing.T) {
	w, h := 4, 4
	b := make([]bool, w*h)
	for y := 1; y < 3; y++ {
		for x := 1; x < 3; x++ {
			b[y*w+x] = true
		}
	}
	g := solidField(b)

	contours := Trace(b, g, w, h)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	c := contours[0]
	if len(c.Points) < 3 {
		t.Fatalf("expected >=3 points, got %d", len(c.Points))
	}
	if c.Points[0] != c.Points[len(c.Points)-1] {
		t.Fatalf("expected closed contour (first == last)")
	}
}

func TestTraceEmptyBitmapYieldsNoContours(t *testing.T) {
	w, h := 4, 4
	b := make([]bool, w*h)
	g := solidField(b)
	if contours := Trace(b, g, w, h); len(contours) != 0 {
		t.Fatalf("expected no contours for empty bitmap, got %d", len(contours))
	}
}

func TestTraceFullBitmapYieldsOneContourCoveringCanvas(t *testing.T) {
	w, h := 2, 2
	b := make([]bool, w*h)
	for i := range b {
		b[i] = true
	}
	g := solidField(b)
	contours := Trace(b, g, w, h)
	if len(contours) != 1 {
		t.Fatalf("expected exactly one closed contour for an all-foreground bitmap, got %d", len(contours))
	}
	bbox := geom.BBox(contours[0].Points)
	if bbox.MinX > 0 || bbox.MinY > 0 || bbox.MaxX < float64(w-1) || bbox.MaxY < float64(h-1) {
		t.Fatalf("expected the contour to cover the full canvas, got bbox %+v", bbox)
	}
}

func TestTraceMooreSingleBlob(t *testing.T) {
	w, h := 5, 5
	b := make([]bool, w*h)
	for y := 1; y < 4; y++ {
		for x := 1; x < 4; x++ {
			b[y*w+x] = true
		}
	}
	contours := TraceMoore(b, w, h)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	if len(contours[0].Points) < 3 {
		t.Fatalf("expected >= 3 points")
	}
}
