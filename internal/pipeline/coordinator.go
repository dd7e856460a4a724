// Package pipeline implements the Pipeline Coordinator (spec §4.10):
// preset-driven orchestration from raw pixels to emitted paths.
package pipeline

import (
	"fmt"
	"image"
	"log"
	"sort"
	"sync"

	"golang.org/x/image/draw"

	"github.com/rastertrace/vtracer/internal/analyzer"
	"github.com/rastertrace/vtracer/internal/classify"
	"github.com/rastertrace/vtracer/internal/contour"
	"github.com/rastertrace/vtracer/internal/corner"
	"github.com/rastertrace/vtracer/internal/fit"
	"github.com/rastertrace/vtracer/internal/geom"
	"github.com/rastertrace/vtracer/internal/layer"
	"github.com/rastertrace/vtracer/internal/palette"
	"github.com/rastertrace/vtracer/internal/raster"
	"github.com/rastertrace/vtracer/internal/simplify"
	"github.com/rastertrace/vtracer/internal/smooth"
)

// Path is one emitted closed contour, already fitted (or left as a
// straight-line polygon per the contour size policy).
type Path struct {
	Cubics  []fit.Cubic
	Points  []geom.Point // used when Cubics is empty (polygon mode)
	IsHole  bool
	Area    float64
	BBox    geom.Rect
	GapFill bool
}

// Layer is one palette color's collected, filtered paths.
type Layer struct {
	Color palette.Color
	Paths []Path
}

// Result is the coordinator's output: layers sorted dark to bright,
// plus the dimensions needed for SVG serialization.
type Result struct {
	Palette          palette.Palette
	Layers           []Layer
	SourceW, SourceH int
	WorkW, WorkH     int
}

// Run executes the full pipeline for one image under one resolved
// preset bundle.
func Run(data []byte, w, h int, opts Preset, logger *log.Logger) (Result, error) {
	if w <= 0 || h <= 0 {
		return Result{}, fmt.Errorf("vtracer: invalid image dimensions %dx%d", w, h)
	}
	if len(data) != 4*w*h {
		return Result{}, fmt.Errorf("vtracer: image buffer length %d does not match %dx%d RGBA", len(data), w, h)
	}

	workData, workW, workH := upscaleIfNeeded(data, w, h, opts)
	logf(logger, "working size %dx%d (source %dx%d)", workW, workH, w, h)

	var pal palette.Palette
	var otsuT float64
	if opts.BinaryMode {
		pal = palette.Palette{{R: 0, G: 0, B: 0}}
		otsuT = otsuThreshold(workData, workW, workH)
	} else {
		pal = palette.Build(workData, workW, workH, palette.Options{
			K:        opts.NumColors,
			LogoLike: opts.LogoLike,
			Logger:   logger,
		})
	}
	if len(pal) == 0 {
		return Result{Palette: pal, SourceW: w, SourceH: h, WorkW: workW, WorkH: workH}, nil
	}

	pixelMap := buildPixelMap(workData, workW, workH, pal, opts)

	noiseFloor := noiseFloorFor(opts, workW, workH)
	holeFloor := noiseFloor / 2

	layers := make([]Layer, len(pal))
	var wg sync.WaitGroup
	for i := range pal {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			layers[idx] = buildLayer(workData, workW, workH, pixelMap, pal, idx, opts, otsuT, noiseFloor, holeFloor, logger)
		}(i)
	}
	wg.Wait()

	if opts.FragDropEligible {
		layers = dropFragmentedLayers(layers, workW, workH)
	}
	if !opts.SkipGlobalFilter {
		layers = globalSmallLayerFilter(layers)
	}

	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].Color.Sum() < layers[j].Color.Sum()
	})

	return Result{
		Palette: pal,
		Layers:  layers,
		SourceW: w, SourceH: h,
		WorkW: workW, WorkH: workH,
	}, nil
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}

// upscaleIfNeeded implements spec §4.10 step 1: images smaller than 256
// in their larger dimension are upscaled before any analysis.
func upscaleIfNeeded(data []byte, w, h int, opts Preset) ([]byte, int, int) {
	maxSide := w
	if h > maxSide {
		maxSide = h
	}
	if maxSide >= 256 {
		return data, w, h
	}
	scale := (256 + maxSide - 1) / maxSide
	dstW, dstH := w*scale, h*scale

	src := &image.NRGBA{Pix: data, Stride: 4 * w, Rect: image.Rect(0, 0, w, h)}
	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))

	var scaler draw.Interpolator = draw.BiLinear
	if opts.NearestUpscale {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst.Pix, dstW, dstH
}

// buildPixelMap assigns each opaque pixel its nearest palette index,
// denoising unless the preset requests verbatim preservation.
func buildPixelMap(data []byte, w, h int, pal palette.Palette, opts Preset) []byte {
	var m []byte
	if opts.BinaryMode {
		m = make([]byte, w*h)
		for i := 0; i < w*h; i++ {
			_, _, _, a := raster.At(data, w, i%w, i/w)
			if raster.Opaque(a) {
				m[i] = 0
			} else {
				m[i] = raster.Sentinel
			}
		}
	} else {
		m = classify.Classify(data, w, h, pal)
	}
	if !opts.SkipDenoise {
		m = classify.Denoise(m, w, h)
	}
	return m
}

func buildLayer(data []byte, w, h int, pixelMap []byte, pal palette.Palette, idx int, opts Preset, otsuT float64, noiseFloor, holeFloor float64, logger *log.Logger) Layer {
	built := layer.Build(data, w, h, pixelMap, pal, idx, layer.Options{
		BinaryMode:   opts.BinaryMode,
		BlurSigma:    opts.BlurSigma,
		MinRatio:     0,
		Morphology:   opts.Morphology,
		DilatePixels: opts.DilatePixels,
	})

	fgCount := 0
	for _, v := range built.B {
		if v {
			fgCount++
		}
	}
	if fgCount < opts.MinPathLength {
		return Layer{Color: pal[idx]}
	}

	g := built.G
	if opts.BinaryMode {
		g = remapThreshold(g, otsuT)
	}

	contours := contour.Trace(built.B, g, w, h)
	if opts.ContourMethod == "hybrid" && len(contours) == 0 && fgCount > 0 {
		contours = contour.TraceMoore(built.B, w, h)
	}

	var paths []Path
	for _, c := range contours {
		area := c.Area
		isHole := area < 0
		floor := noiseFloor
		if isHole {
			floor = holeFloor
		}
		if abs64(area) < floor {
			continue
		}
		paths = append(paths, buildPath(c, opts, isHole, noiseFloor))
	}

	logf(logger, "layer %d: %d foreground px, %d paths", idx, fgCount, len(paths))
	return Layer{Color: pal[idx], Paths: paths}
}

// buildPath applies the contour size policy (spec §4.9): tiny contours
// and pixel-preset contours become straight-line polygons; everything
// else runs the full simplify -> corner -> smooth -> fit chain.
func buildPath(c contour.Contour, opts Preset, isHole bool, noiseFloor float64) Path {
	pts := c.Points
	area := abs64(c.Area)
	bbox := geom.BBox(pts)

	if opts.Mode == "polygon" {
		filtered := simplify.Run(pts, simplify.Options{RDPEps: 0.75, StaircaseMax: 0})
		return Path{Points: filtered, IsHole: isHole, Area: area, BBox: bbox, GapFill: opts.GapFill && !isHole}
	}
	if area < max64(30, 3*noiseFloor) || len(pts) < 12 {
		return Path{Points: pts, IsHole: isHole, Area: area, BBox: bbox, GapFill: opts.GapFill && !isHole}
	}

	scale := 1.0
	if area < 500 || geom.Perimeter(pts) < 40 {
		scale = 3
	}
	work := scalePoints(pts, scale)

	simplified := simplify.Run(work, simplify.Options{
		RadialEps:    0.5,
		RDPEps:       opts.PathTolerance,
		StaircaseMax: 70,
	})

	corners := corner.Detect(simplified, corner.Options{
		AngleThreshold: opts.AngleThreshold,
		NMSWindow:      2,
	})

	smoothed := smooth.Run(simplified, corners, smooth.Options{Iterations: opts.Smoothness})

	perim := geom.Perimeter(smoothed)
	fitErr := max64(0.8, opts.PathTolerance) + min64(0.5, (perim-100)/500)

	retractFactor := 0.4
	if geom.Perimeter(smoothed) < 20 {
		retractFactor = 0.6
	}

	cubics := fit.Run(smoothed, corners, fit.Options{
		MaxError:      fitErr,
		RetractFactor: retractFactorOrZero(isHole, retractFactor),
	})

	if scale != 1 {
		cubics = scaleCubics(cubics, 1/scale)
	}

	return Path{Cubics: cubics, IsHole: isHole, Area: area, BBox: bbox, GapFill: opts.GapFill && !isHole}
}

func retractFactorOrZero(isHole bool, factor float64) float64 {
	if isHole {
		return 0
	}
	return factor
}

func scalePoints(pts []geom.Point, s float64) []geom.Point {
	if s == 1 {
		return pts
	}
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = geom.Point{X: p.X * s, Y: p.Y * s}
	}
	return out
}

func scaleCubics(cs []fit.Cubic, s float64) []fit.Cubic {
	out := make([]fit.Cubic, len(cs))
	for i, c := range cs {
		out[i] = fit.Cubic{
			P0: c.P0.Scale(s), P1: c.P1.Scale(s),
			P2: c.P2.Scale(s), P3: c.P3.Scale(s),
		}
	}
	return out
}

// noiseFloorFor implements spec §4.10 item 5.
func noiseFloorFor(opts Preset, w, h int) float64 {
	switch opts.NoiseFloorMode {
	case "pixel":
		return 1
	case "logo":
		return clamp64(float64(w*h)*0.001, 25, 200)
	default:
		return clamp64(float64(w*h)*0.0001, 4, 50)
	}
}

// dropFragmentedLayers implements spec §4.10 item 6.
func dropFragmentedLayers(layers []Layer, w, h int) []Layer {
	out := make([]Layer, 0, len(layers))
	for _, l := range layers {
		if len(l.Paths) == 0 {
			out = append(out, l)
			continue
		}
		total, maxArea := 0.0, 0.0
		for _, p := range l.Paths {
			total += p.Area
			if p.Area > maxArea {
				maxArea = p.Area
			}
		}
		if total < 0.005*float64(w*h) && maxArea < 300 && len(l.Paths) > 10 {
			continue
		}
		out = append(out, l)
	}
	return out
}

// globalSmallLayerFilter implements spec §4.10 item 7.
func globalSmallLayerFilter(layers []Layer) []Layer {
	maxBBox := 0.0
	for _, l := range layers {
		for _, p := range l.Paths {
			if a := p.BBox.Area(); a > maxBBox {
				maxBBox = a
			}
		}
	}
	if maxBBox == 0 {
		return layers
	}
	threshold := clamp64(maxBBox/500, 4, 100)

	out := make([]Layer, 0, len(layers))
	for _, l := range layers {
		total := 0.0
		for _, p := range l.Paths {
			total += p.BBox.Area()
		}
		if len(l.Paths) > 0 && total < threshold {
			continue
		}
		out = append(out, l)
	}
	return out
}

func remapThreshold(g []uint8, t float64) []uint8 {
	if t <= 0 || t >= 255 {
		return g
	}
	out := make([]uint8, len(g))
	for i, v := range g {
		fv := float64(v)
		var nv float64
		if fv <= t {
			nv = fv / t * 128
		} else {
			nv = 128 + (fv-t)/(255-t)*127
		}
		out[i] = clampByte(nv)
	}
	return out
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clamp64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// otsuThreshold computes Otsu's method over a 256-bin luminance
// histogram of opaque pixels, used to threshold binary-preset layers.
func otsuThreshold(data []byte, w, h int) float64 {
	var hist [256]int
	total := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := raster.At(data, w, x, y)
			if !raster.Opaque(a) {
				continue
			}
			lum := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
			hist[clampByte(lum)]++
			total++
		}
	}
	if total == 0 {
		return 128
	}

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB, wF float64
	best := -1.0
	threshold := 128.0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF = float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = float64(t)
		}
	}
	return threshold
}

// Recommend exposes the Image Analyzer's recommendation to callers that
// want automatic preset selection (VectorizeWithPreset's "" tag).
func Recommend(data []byte, w, h int) (string, int) {
	r := analyzer.Analyze(data, w, h)
	return r.Preset, r.SuggestedK
}
