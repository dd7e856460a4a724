// Package vtracer converts raster images into layered vector (SVG)
// graphics: palette construction, per-pixel classification, per-color
// layer extraction, contour tracing, simplification, and cubic-Bézier
// fitting.
package vtracer

import (
	"fmt"
	"log"

	"github.com/rastertrace/vtracer/internal/geom"
	"github.com/rastertrace/vtracer/internal/pipeline"
	"github.com/rastertrace/vtracer/internal/simplify"
	"github.com/rastertrace/vtracer/internal/svgout"
)

// Image is a rectangle of RGBA pixels, row-major, top-left origin.
type Image struct {
	Width, Height int
	Data          []byte // length 4*Width*Height
}

// Options configures one Vectorize call. Zero-value fields fall back
// to DefaultOptions' values where a zero would otherwise be ambiguous
// (e.g. NumColors 0 means "use the default of 16", not K=0).
type Options struct {
	NumColors      int
	ColorTolerance float64
	PathTolerance  float64
	Smoothness     int
	MinPathLength  int
	Mode           string // "spline" or "polygon"
	BinaryMode     bool
	BlurSigma      float64
	Morphology     bool
	ContourMethod  string // "marching", "vtracer", "hybrid"
	Logger         *log.Logger
}

// DefaultOptions returns the library's baseline tunables, equivalent to
// the "illustration" preset with no overrides.
func DefaultOptions() Options {
	p := pipeline.Presets["illustration"]
	return optionsFromPreset(p)
}

// OptionsFromPreset returns the full option bundle for a named preset
// tag, or an error if the tag is unrecognized.
func OptionsFromPreset(tag string) (Options, error) {
	p, ok := pipeline.Presets[tag]
	if !ok {
		return Options{}, fmt.Errorf("vtracer: unknown preset %q", tag)
	}
	return optionsFromPreset(p), nil
}

func optionsFromPreset(p pipeline.Preset) Options {
	return Options{
		NumColors:      p.NumColors,
		ColorTolerance: p.ColorTolerance,
		PathTolerance:  p.PathTolerance,
		Smoothness:     p.Smoothness,
		MinPathLength:  p.MinPathLength,
		Mode:           p.Mode,
		BinaryMode:     p.BinaryMode,
		BlurSigma:      p.BlurSigma,
		Morphology:     p.Morphology,
		ContourMethod:  p.ContourMethod,
	}
}

// VectorResult is the pipeline's output (spec §6).
type VectorResult struct {
	SVG                         string
	Width, Height               int
	ViewBoxWidth, ViewBoxHeight int
	Layers                      int
	Paths                       int
	Colors                      []string
	Engine                      string

	result pipeline.Result
}

// Vectorize runs the full pipeline with explicit options.
func Vectorize(img Image, opts Options) (VectorResult, error) {
	preset, err := resolvePreset(opts)
	if err != nil {
		return VectorResult{}, err
	}
	return run(img, preset, opts.Logger)
}

// VectorizeWithPreset runs the full pipeline under a named preset
// bundle. An empty tag triggers automatic preset recommendation via
// the Image Analyzer.
func VectorizeWithPreset(img Image, presetTag string) (VectorResult, error) {
	if presetTag == "" {
		if img.Width <= 0 || img.Height <= 0 || len(img.Data) != 4*img.Width*img.Height {
			return VectorResult{}, fmt.Errorf("vtracer: invalid image buffer")
		}
		tag, _ := pipeline.Recommend(img.Data, img.Width, img.Height)
		presetTag = tag
	}
	p, ok := pipeline.Presets[presetTag]
	if !ok {
		return VectorResult{}, fmt.Errorf("vtracer: unknown preset %q", presetTag)
	}
	return run(img, p, nil)
}

// resolvePreset builds a pipeline.Preset from an explicit Options
// value, using the "illustration" bundle as a base for any field an
// Options zero value leaves ambiguous.
func resolvePreset(opts Options) (pipeline.Preset, error) {
	base := pipeline.Presets["illustration"]
	if opts.NumColors > 0 {
		base.NumColors = opts.NumColors
	}
	if opts.ColorTolerance > 0 {
		base.ColorTolerance = opts.ColorTolerance
	}
	if opts.PathTolerance > 0 {
		base.PathTolerance = opts.PathTolerance
	}
	base.Smoothness = clampInt(opts.Smoothness, 0, 3)
	if opts.MinPathLength > 0 {
		base.MinPathLength = opts.MinPathLength
	}
	if opts.Mode != "" {
		if opts.Mode != "spline" && opts.Mode != "polygon" {
			return pipeline.Preset{}, fmt.Errorf("vtracer: unknown mode %q", opts.Mode)
		}
		base.Mode = opts.Mode
	}
	base.BinaryMode = opts.BinaryMode
	if opts.BlurSigma > 0 {
		base.BlurSigma = opts.BlurSigma
	}
	base.Morphology = opts.Morphology
	if opts.ContourMethod != "" {
		base.ContourMethod = opts.ContourMethod
	}
	return base, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func run(img Image, preset pipeline.Preset, logger *log.Logger) (VectorResult, error) {
	res, err := pipeline.Run(img.Data, img.Width, img.Height, preset, logger)
	if err != nil {
		return VectorResult{}, err
	}

	pathCount := 0
	colors := make([]string, 0, len(res.Layers))
	for _, l := range res.Layers {
		pathCount += len(l.Paths)
		colors = append(colors, fmt.Sprintf("rgb(%d,%d,%d)", l.Color.R, l.Color.G, l.Color.B))
	}

	return VectorResult{
		SVG:           svgout.Render(res),
		Width:         res.SourceW,
		Height:        res.SourceH,
		ViewBoxWidth:  res.WorkW,
		ViewBoxHeight: res.WorkH,
		Layers:        len(res.Layers),
		Paths:         pathCount,
		Colors:        colors,
		Engine:        "vtracer",
		result:        res,
	}, nil
}

// Idempotent reports whether two results agree up to palette merge
// tolerance and layer count, the round-trip property spec §8 requires
// (SPEC_FULL.md supplement).
func (r *VectorResult) Idempotent(other *VectorResult) bool {
	if r.Layers != other.Layers {
		return false
	}
	if len(r.result.Palette) != len(other.result.Palette) {
		return false
	}
	const mergeTolerance = 50 * 50
	for i, c := range r.result.Palette {
		if c.DistSq(other.result.Palette[i]) > mergeTolerance {
			return false
		}
	}
	return true
}

// Simplify re-simplifies an already-serialized path's "d" attribute at
// a caller-supplied tolerance, without re-running the whole pipeline
// (SPEC_FULL.md supplement; §8's simplify(d,level) then simplify(d,0)
// identity property needs this entry point to be testable directly).
func Simplify(d string, level float64) (string, error) {
	pts, err := parsePathPolygon(d)
	if err != nil {
		return "", err
	}
	if level <= 0 {
		return serializePolygon(pts), nil
	}
	simplified := simplify.Run(pts, simplify.Options{RDPEps: level})
	return serializePolygon(simplified), nil
}

func parsePathPolygon(d string) ([]geom.Point, error) {
	var pts []geom.Point
	var x, y float64
	i := 0
	for i < len(d) {
		switch d[i] {
		case 'M', 'L':
			i++
			n, nx, ny, ok := scanPair(d, i)
			if !ok {
				return nil, fmt.Errorf("vtracer: malformed path %q", d)
			}
			x, y = nx, ny
			pts = append(pts, geom.Point{X: x, Y: y})
			i = n
		case 'C', 'c':
			// Spline-mode output (the pipeline's default): C x1,y1 x2,y2
			// x,y. Only the on-curve endpoint joins the polygon
			// approximation; the control points don't.
			i++
			n1, _, _, ok1 := scanPair(d, i)
			if !ok1 {
				return nil, fmt.Errorf("vtracer: malformed path %q", d)
			}
			n2, _, _, ok2 := scanPair(d, skipSep(d, n1))
			if !ok2 {
				return nil, fmt.Errorf("vtracer: malformed path %q", d)
			}
			n3, nx, ny, ok3 := scanPair(d, skipSep(d, n2))
			if !ok3 {
				return nil, fmt.Errorf("vtracer: malformed path %q", d)
			}
			x, y = nx, ny
			pts = append(pts, geom.Point{X: x, Y: y})
			i = n3
		case 'Z', 'z':
			i++
		default:
			i++
		}
	}
	if len(pts) > 0 {
		pts = append(pts, pts[0])
	}
	return pts, nil
}

func skipSep(d string, i int) int {
	for i < len(d) && (d[i] == ' ' || d[i] == ',') {
		i++
	}
	return i
}

func scanPair(d string, start int) (next int, x, y float64, ok bool) {
	i := start
	xs, i2 := scanNumber(d, i)
	if xs == "" {
		return start, 0, 0, false
	}
	i = i2
	if i < len(d) && d[i] == ',' {
		i++
	}
	ys, i3 := scanNumber(d, i)
	if ys == "" {
		return start, 0, 0, false
	}
	var fx, fy float64
	fmt.Sscanf(xs, "%f", &fx)
	fmt.Sscanf(ys, "%f", &fy)
	return i3, fx, fy, true
}

func scanNumber(d string, start int) (string, int) {
	i := start
	for i < len(d) && (d[i] == '-' || d[i] == '.' || (d[i] >= '0' && d[i] <= '9')) {
		i++
	}
	return d[start:i], i
}

func simplifyPoints(pts []geom.Point, eps float64) []geom.Point {
	if len(pts) < 4 {
		return pts
	}
	n := len(pts) - 1
	body := pts[:n]
	maxDist, idx := -1.0, -1
	for i := 1; i < n; i++ {
		if dist := geom.PerpDist(body[i], body[0], body[n-1]); dist > maxDist {
			maxDist = dist
			idx = i
		}
	}
	if idx == -1 || maxDist <= eps {
		return []geom.Point{body[0], body[n-1], body[0]}
	}
	left := simplifyPoints(append(body[:idx:idx], body[0]), eps)
	right := simplifyPoints(append(body[idx:], body[0]), eps)
	out := append(left[:len(left)-1], right...)
	return out
}

func serializePolygon(pts []geom.Point) string {
	if len(pts) == 0 {
		return ""
	}
	out := fmt.Sprintf("M%.2f,%.2f", pts[0].X, pts[0].Y)
	for _, p := range pts[1 : len(pts)-1] {
		out += fmt.Sprintf("L%.2f,%.2f", p.X, p.Y)
	}
	return out + "Z"
}
