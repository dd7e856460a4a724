package palette

import "testing"

func fillSolid(data []byte, w, h int, r, g, b, a uint8) {
	for i := 0; i < w*h; i++ {
		data[i*4], data[i*4+1], data[i*4+2], data[i*4+3] = r, g, b, a
	}
}

func TestBuildSingleColorCollapses(t *testing.T) {
	w, h := 8, 8
	data := make([]byte, 4*w*h)
	fillSolid(data, w, h, 10, 20, 30, 255)

	pal := Build(data, w, h, Options{K: 4})
	if len(pal) != 1 {
		t.Fatalf("expected single-color image to yield one palette entry, got %d: %+v", len(pal), pal)
	}
}

func TestBuildAllTransparentFallsBackToGray(t *testing.T) {
	w, h := 4, 4
	data := make([]byte, 4*w*h) // alpha 0 everywhere
	pal := Build(data, w, h, Options{K: 4})
	if len(pal) != 1 || pal[0] != (Color{128, 128, 128}) {
		t.Fatalf("expected gray fallback, got %+v", pal)
	}
}

func TestSortByLuminanceAscending(t *testing.T) {
	pal := Palette{{255, 255, 255}, {0, 0, 0}, {128, 128, 128}}
	pal.SortByLuminance()
	for i := 1; i < len(pal); i++ {
		if pal[i].Sum() < pal[i-1].Sum() {
			t.Fatalf("palette not sorted ascending: %+v", pal)
		}
	}
}

func TestBrightestSnapsNearWhite(t *testing.T) {
	pal := Palette{{0, 0, 0}, {240, 245, 250}}
	pal = postMerge(pal, 35)
	idx := pal.Brightest()
	if pal[idx] != (Color{255, 255, 255}) {
		t.Fatalf("expected near-white entry snapped to pure white, got %+v", pal[idx])
	}
}

func TestForceMergeBiasesTowardBrighter(t *testing.T) {
	// Two bright, close colors where the dimmer one carries far more
	// sample weight: the merge must still move toward the brighter color.
	bright := Color{250, 250, 245}
	dim := Color{220, 220, 215}
	merged, _ := brightBiasedMean(dim, 100, bright, 1)
	if merged.Sum() <= dim.Sum() {
		t.Fatalf("expected force-merge to bias toward the brighter color despite its lower weight, got %+v", merged)
	}
}

func TestNearestIndex(t *testing.T) {
	pal := Palette{{0, 0, 0}, {255, 255, 255}}
	if idx := pal.NearestIndex(Color{10, 10, 10}); idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	if idx := pal.NearestIndex(Color{240, 240, 240}); idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
}

func TestKGreaterThanDistinctSamplesDoesNotLoop(t *testing.T) {
	w, h := 4, 4
	data := make([]byte, 4*w*h)
	fillSolid(data, w, h, 5, 5, 5, 255)
	pal := Build(data, w, h, Options{K: 64})
	if len(pal) >= 64 {
		t.Fatalf("expected far fewer centers than K for a single-color sample, got %d", len(pal))
	}
}
