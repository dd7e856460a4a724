// Package layer implements the Layer Builder (spec §4.4): per-palette
// binary bitmaps and continuous alpha fields, optional Gaussian
// blurring, small-component removal, closing morphology, and
// color-constrained dilation.
package layer

import (
	"math"

	"github.com/rastertrace/vtracer/internal/palette"
	"github.com/rastertrace/vtracer/internal/raster"
)

// Options configures one layer build.
type Options struct {
	BinaryMode   bool
	BlurSigma    float64
	MinRatio     float64 // small-component removal divisor; 0 disables the floor-by-ratio rule beyond the hard minimum of 4
	Morphology   bool
	DilatePixels int
}

// Built holds one palette index's bitmap and alpha/luminance field.
type Built struct {
	B []bool
	G []uint8
}

// Build constructs the binary layer and alpha field for palette index
// idx.
func Build(data []byte, w, h int, pixelMap []byte, pal palette.Palette, idx int, opts Options) Built {
	b := make([]bool, w*h)
	for i, v := range pixelMap {
		b[i] = int(v) == idx
	}

	var g []uint8
	if opts.BinaryMode {
		g = luminanceField(data, w, h, opts.BlurSigma)
	} else {
		g = alphaField(data, w, h, pal, idx, opts.BlurSigma)
	}

	removeSmallComponents(b, w, h, opts.MinRatio)

	if opts.Morphology {
		closing(b, w, h)
	}

	if opts.DilatePixels > 0 {
		for i := 0; i < opts.DilatePixels; i++ {
			b = colorConstrainedDilate(b, pixelMap, w, h)
		}
	}

	return Built{B: b, G: g}
}

// alphaField computes, for every pixel, smoothstep(t) with
// t = sqrt(d(p,pal[idx]) / (d(p,pal[idx]) + d(p,nearestOther))), d being
// Euclidean RGB distance, so the marching squares threshold of 128 lands
// on the perceptual color boundary (spec §4.4.3, §3 invariant).
func alphaField(data []byte, w, h int, pal palette.Palette, idx int, sigma float64) []uint8 {
	out := make([]uint8, w*h)
	target := pal[idx]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			r, g, b, a := raster.At(data, w, x, y)
			if !raster.Opaque(a) {
				out[i] = 255
				continue
			}
			c := palette.Color{R: r, G: g, B: b}
			di := math.Sqrt(float64(c.DistSq(target)))
			do := math.Sqrt(nearestOtherDistSq(pal, idx, c))
			denom := di + do
			t := 0.0
			if denom > 1e-9 {
				t = math.Sqrt(di / denom)
			}
			out[i] = smoothstep(t)
		}
	}
	if sigma > 0 {
		out = gaussianBlurGray(out, w, h, sigma)
	}
	return out
}

func nearestOtherDistSq(pal palette.Palette, idx int, c palette.Color) float64 {
	best := math.MaxFloat64
	for j, pc := range pal {
		if j == idx {
			continue
		}
		if d := float64(pc.DistSq(c)); d < best {
			best = d
		}
	}
	if best == math.MaxFloat64 {
		return 0
	}
	return best
}

func smoothstep(t float64) uint8 {
	v := 255 * (3*t*t - 2*t*t*t)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}

// luminanceField derives a grayscale field from source luminance for
// binary-mode layers (K<=2 or lineart), auto-inverting when more than
// 40% of opaque pixels fall below the 128 threshold (spec §4.4.2).
func luminanceField(data []byte, w, h int, sigma float64) []uint8 {
	out := make([]uint8, w*h)
	opaqueCount, belowCount := 0, 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			r, g, b, a := raster.At(data, w, x, y)
			if !raster.Opaque(a) {
				out[i] = 255
				continue
			}
			lum := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
			v := uint8(clamp(lum, 0, 255))
			out[i] = v
			opaqueCount++
			if v < 128 {
				belowCount++
			}
		}
	}
	if sigma > 0 {
		out = gaussianBlurGray(out, w, h, sigma)
	}
	if opaqueCount > 0 && float64(belowCount)/float64(opaqueCount) > 0.4 {
		for i, v := range out {
			out[i] = 255 - v
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
