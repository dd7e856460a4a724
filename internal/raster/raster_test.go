package raster

import "testing"

func TestOffset(t *testing.T) {
	if got := Offset(4, 1, 1); got != 20 {
		t.Fatalf("Offset(4,1,1) = %d, want 20", got)
	}
}

func TestAtAndOpaque(t *testing.T) {
	data := make([]byte, 4*4*4)
	// pixel (2,1): row 1, col 2 -> opaque red.
	o := Offset(4, 2, 1)
	data[o], data[o+1], data[o+2], data[o+3] = 200, 10, 20, 255

	r, g, b, a := At(data, 4, 2, 1)
	if r != 200 || g != 10 || b != 20 || a != 255 {
		t.Fatalf("unexpected pixel %d %d %d %d", r, g, b, a)
	}
	if !Opaque(a) {
		t.Fatal("expected opaque")
	}
	if Opaque(50) {
		t.Fatal("expected 50 to be below opaque threshold")
	}
}
