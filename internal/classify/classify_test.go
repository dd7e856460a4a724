package classify

import (
	"testing"

	"github.com/rastertrace/vtracer/internal/palette"
	"github.com/rastertrace/vtracer/internal/raster"
)

func setPixel(data []byte, w, x, y int, r, g, b, a uint8) {
	o := raster.Offset(w, x, y)
	data[o], data[o+1], data[o+2], data[o+3] = r, g, b, a
}

func TestClassifyAssignsNearestAndSentinel(t *testing.T) {
	w, h := 2, 1
	data := make([]byte, 4*w*h)
	setPixel(data, w, 0, 0, 0, 0, 0, 255)
	setPixel(data, w, 1, 0, 0, 0, 0, 0) // transparent

	pal := palette.Palette{{0, 0, 0}, {255, 255, 255}}
	out := Classify(data, w, h, pal)
	if out[0] != 0 {
		t.Fatalf("expected index 0 for black pixel, got %d", out[0])
	}
	if out[1] != raster.Sentinel {
		t.Fatalf("expected sentinel for transparent pixel, got %d", out[1])
	}
}

func TestDenoiseRemovesIsolatedPixel(t *testing.T) {
	w, h := 3, 3
	m := []byte{
		0, 0, 0,
		0, 1, 0,
		0, 0, 0,
	}
	out := Denoise(m, w, h)
	if out[4] != 0 {
		t.Fatalf("expected isolated center pixel to be denoised to 0, got %d", out[4])
	}
}

func TestDenoisePreservesSentinel(t *testing.T) {
	w, h := 3, 1
	m := []byte{0, raster.Sentinel, 0}
	out := Denoise(m, w, h)
	if out[1] != raster.Sentinel {
		t.Fatalf("expected sentinel preserved, got %d", out[1])
	}
}
