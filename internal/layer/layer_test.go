package layer

import (
	"testing"

	"github.com/rastertrace/vtracer/internal/palette"
	"github.com/rastertrace/vtracer/internal/raster"
)

func TestRemoveSmallComponentsDropsSpeck(t *testing.T) {
	w, h := 6, 1
	b := []bool{true, true, true, true, false, true} // speck at index 5
	removeSmallComponents(b, w, h, 2)
	if b[5] {
		t.Fatal("expected isolated speck to be removed")
	}
	if !b[0] || !b[1] || !b[2] || !b[3] {
		t.Fatal("expected large component to survive")
	}
}

func TestClosingFillsOnePixelGap(t *testing.T) {
	w, h := 5, 1
	b := []bool{true, true, false, true, true}
	closing(b, w, h)
	if !b[2] {
		t.Fatal("expected closing to fill the single-pixel gap")
	}
}

func TestDilate4GrowsByOne(t *testing.T) {
	w, h := 3, 3
	b := make([]bool, w*h)
	b[4] = true // center
	out := dilate4(b, w, h)
	for _, i := range []int{1, 3, 5, 7} {
		if !out[i] {
			t.Fatalf("expected neighbor %d to be dilated", i)
		}
	}
	if out[0] {
		t.Fatal("expected corner to remain false (4-neighborhood only)")
	}
}

func TestErode4ShrinksIsolatedPixel(t *testing.T) {
	w, h := 3, 3
	b := make([]bool, w*h)
	b[4] = true
	out := erode4(b, w, h)
	if out[4] {
		t.Fatal("expected isolated pixel with no foreground neighbors to erode away")
	}
}

func TestColorConstrainedDilateRespectsSentinel(t *testing.T) {
	w, h := 3, 1
	b := []bool{true, false, false}
	pixelMap := []byte{0, raster.Sentinel, 0}
	out := colorConstrainedDilate(b, pixelMap, w, h)
	if out[1] {
		t.Fatal("expected dilation to be blocked by sentinel pixel")
	}
}

func TestBuildBinaryModeProducesBitmapAndField(t *testing.T) {
	w, h := 4, 4
	data := make([]byte, 4*w*h)
	pixelMap := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := raster.Offset(w, x, y)
			if x < 2 {
				data[o], data[o+1], data[o+2], data[o+3] = 0, 0, 0, 255
				pixelMap[y*w+x] = 0
			} else {
				data[o], data[o+1], data[o+2], data[o+3] = 255, 255, 255, 255
				pixelMap[y*w+x] = 1
			}
		}
	}
	pal := palette.Palette{{0, 0, 0}, {255, 255, 255}}
	built := Build(data, w, h, pixelMap, pal, 0, Options{BinaryMode: true})
	if len(built.B) != w*h || len(built.G) != w*h {
		t.Fatalf("unexpected sizes B=%d G=%d", len(built.B), len(built.G))
	}
	if !built.B[0] {
		t.Fatal("expected pixel (0,0) to belong to layer 0")
	}
	if built.B[w*h-1] {
		t.Fatal("expected pixel in layer 1 to not belong to layer 0")
	}
}
