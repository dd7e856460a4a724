package svgout

import (
	"strings"
	"testing"

	"github.com/rastertrace/vtracer/internal/geom"
	"github.com/rastertrace/vtracer/internal/palette"
	"github.com/rastertrace/vtracer/internal/pipeline"
)

func TestRenderEmptyResultStillProducesSVG(t *testing.T) {
	res := pipeline.Result{SourceW: 10, SourceH: 10, WorkW: 10, WorkH: 10}
	out := Render(res)
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>") {
		t.Fatalf("expected well-formed empty svg, got %q", out)
	}
	if !strings.Contains(out, `fill="#ffffff"`) {
		t.Fatal("expected white background fallback when palette is empty")
	}
}

func TestRenderPolygonLayer(t *testing.T) {
	res := pipeline.Result{
		SourceW: 4, SourceH: 4, WorkW: 4, WorkH: 4,
		Palette: palette.Palette{{R: 0, G: 0, B: 0}},
		Layers: []pipeline.Layer{
			{
				Color: palette.Color{R: 0, G: 0, B: 0},
				Paths: []pipeline.Path{
					{Points: []geom.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
				},
			},
		},
	}
	out := Render(res)
	if !strings.Contains(out, `fill="#000000"`) {
		t.Fatalf("expected black fill, got %q", out)
	}
	if !strings.Contains(out, "M0.00,0.00") {
		t.Fatalf("expected polygon path to start with M, got %q", out)
	}
}

func TestRenderHoleUsesEvenOddFillRule(t *testing.T) {
	res := pipeline.Result{
		SourceW: 4, SourceH: 4, WorkW: 4, WorkH: 4,
		Layers: []pipeline.Layer{
			{
				Color: palette.Color{R: 10, G: 20, B: 30},
				Paths: []pipeline.Path{
					{Points: []geom.Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}}},
					{Points: []geom.Point{{1, 1}, {2, 1}, {2, 2}, {1, 2}}, IsHole: true},
				},
			},
		},
	}
	out := Render(res)
	if !strings.Contains(out, `fill-rule="evenodd"`) {
		t.Fatalf("expected evenodd fill-rule when a subpath is a hole, got %q", out)
	}
}

func TestRenderGapFillAddsStroke(t *testing.T) {
	res := pipeline.Result{
		SourceW: 4, SourceH: 4, WorkW: 4, WorkH: 4,
		Layers: []pipeline.Layer{
			{
				Color: palette.Color{R: 1, G: 2, B: 3},
				Paths: []pipeline.Path{
					{Points: []geom.Point{{0, 0}, {1, 0}, {1, 1}}, GapFill: true},
				},
			},
		},
	}
	out := Render(res)
	if !strings.Contains(out, `stroke="#010203"`) {
		t.Fatalf("expected gap-fill stroke matching fill color, got %q", out)
	}
}

func TestHexColorFormatsLowercase(t *testing.T) {
	if got := hexColor(palette.Color{R: 255, G: 0, B: 16}); got != "#ff0010" {
		t.Fatalf("hexColor = %q, want #ff0010", got)
	}
}
