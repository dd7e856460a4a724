package analyzer

import "testing"

func fillSolid(data []byte, w, h int, r, g, b, a uint8) {
	for i := 0; i < w*h; i++ {
		data[i*4], data[i*4+1], data[i*4+2], data[i*4+3] = r, g, b, a
	}
}

func TestAnalyzeSolidColorRecommendsLineart(t *testing.T) {
	w, h := 16, 16
	data := make([]byte, 4*w*h)
	fillSolid(data, w, h, 0, 0, 0, 255)
	res := Analyze(data, w, h)
	if res.Preset != "lineart" {
		t.Fatalf("expected lineart for a single-color image, got %q (clusters=%d)", res.Preset, res.ClusterCnt)
	}
}

func TestAnalyzeEmptyImageFallsBackToIllustration(t *testing.T) {
	w, h := 4, 4
	data := make([]byte, 4*w*h) // all transparent
	res := Analyze(data, w, h)
	if res.Preset != "illustration" {
		t.Fatalf("expected illustration fallback for an all-transparent image, got %q", res.Preset)
	}
	if res.SuggestedK != 8 {
		t.Fatalf("expected default suggested K of 8, got %d", res.SuggestedK)
	}
}

func TestHistogramDropsSparseBins(t *testing.T) {
	w, h := 4, 4
	data := make([]byte, 4*w*h)
	fillSolid(data, w, h, 100, 100, 100, 255)
	// Overwrite a single pixel with a distinct, low-count color.
	data[0], data[1], data[2], data[3] = 5, 5, 5, 255
	bins := histogram(data, w, h)
	for _, bn := range bins {
		if bn.r == 8 && bn.g == 8 && bn.b == 8 {
			t.Fatal("expected a single-pixel-count bin to be dropped as sparse")
		}
	}
}

func TestGreedyClusterMergesNearbyBins(t *testing.T) {
	bins := []bin{
		{r: 10, g: 10, b: 10, count: 100},
		{r: 12, g: 11, b: 9, count: 90},
		{r: 200, g: 200, b: 200, count: 80},
	}
	cls := greedyCluster(bins, 25)
	if len(cls) != 2 {
		t.Fatalf("expected two clusters (near pair merged, far bin separate), got %d", len(cls))
	}
}

func TestBracketPresetRanges(t *testing.T) {
	cases := map[int]string{3: "simple", 8: "simple", 9: "logo", 32: "logo", 33: "illustration"}
	for c, want := range cases {
		if got := bracketPreset(c); got != want {
			t.Fatalf("bracketPreset(%d) = %q, want %q", c, got, want)
		}
	}
}
