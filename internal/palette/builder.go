// Package palette builds a small, perceptually separated color palette
// from an image's pixels: weighted K-Means++ seeding and Lloyd
// iteration over quantized samples, adaptive post-merge, and an
// edge-color filter that drops anti-aliasing artifacts sitting between
// two dominant colors (spec §4.1).
package palette

import (
	"log"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/rastertrace/vtracer/internal/raster"
)

// Options configures palette construction.
type Options struct {
	K int
	// LogoLike selects the larger merge threshold (T=45) used by the
	// logo and simple presets; every other preset uses T=35.
	LogoLike bool
	Logger   *log.Logger
}

func (o Options) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

type weightedColor struct {
	c Color
	w int
}

// Build constructs a palette of length <= opts.K from an opaque-pixel
// sample of the image. An all-transparent or otherwise empty image
// yields the single-gray fallback the spec requires for an
// unrepresentable empty palette.
func Build(data []byte, w, h int, opts Options) Palette {
	if opts.K < 1 {
		opts.K = 1
	}
	if opts.K > 64 {
		opts.K = 64
	}

	freq := sampleQuantized(data, w, h)
	if len(freq) == 0 {
		return Palette{{128, 128, 128}}
	}

	weighted := make([]weightedColor, 0, len(freq))
	for packed, count := range freq {
		weighted = append(weighted, weightedColor{c: unpack(packed), w: count})
	}

	centers := seedKMeansPlusPlus(weighted, opts.K, opts.Logger)
	centers = lloyd(weighted, centers, opts)

	pal := make(Palette, len(centers))
	copy(pal, centers)

	threshold := 35.0
	if opts.LogoLike {
		threshold = 45.0
	}
	pal = postMerge(pal, threshold)
	pal = filterEdgeColors(pal, weighted)

	pal.SortByLuminance()
	return pal
}

// sampleQuantized walks opaque pixels at the spec-mandated stride,
// snapping each channel to the nearest multiple of 2 (7-bit
// quantization), and returns a frequency map keyed by packed 24-bit
// color.
func sampleQuantized(data []byte, w, h int) map[uint32]int {
	n := w * h
	if n == 0 {
		return nil
	}
	stride := (n + 500000 - 1) / 500000
	if stride < 1 {
		stride = 1
	}
	freq := make(map[uint32]int)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if i%stride == 0 {
				_, _, _, a := raster.At(data, w, x, y)
				if raster.Opaque(a) {
					r, g, b, _ := raster.At(data, w, x, y)
					qr, qg, qb := quant2(r), quant2(g), quant2(b)
					freq[pack(qr, qg, qb)]++
				}
			}
			i++
		}
	}
	return freq
}

func quant2(v uint8) uint8 {
	q := (uint16(v) + 1) &^ 1
	if q > 255 {
		q = 254
	}
	return uint8(q)
}

func pack(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func unpack(p uint32) Color {
	return Color{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p)}
}

// seedKMeansPlusPlus seeds up to k centers: the heaviest sample first,
// then roulette selection over D^2*weight, falling back to the
// remaining sample with the largest D^2 (farthest from every seed,
// weight not considered) when the roulette draw fails to land in any
// bucket (spec
// §4.1, §9's Open Question: the always-true degenerate guard in the
// source is treated here as an explicit farthest-point fallback).
func seedKMeansPlusPlus(weighted []weightedColor, k int, logger *log.Logger) []Color {
	if len(weighted) == 0 {
		return nil
	}
	heaviest := 0
	for i := 1; i < len(weighted); i++ {
		if weighted[i].w > weighted[heaviest].w {
			heaviest = i
		}
	}

	centers := make([]Color, 0, k)
	centers = append(centers, weighted[heaviest].c)

	used := make([]bool, len(weighted))
	used[heaviest] = true

	score := make([]float64, len(weighted))
	for len(centers) < k && len(centers) < len(weighted) {
		total := 0.0
		for i, wc := range weighted {
			if used[i] {
				score[i] = 0
				continue
			}
			d := nearestSq(wc.c, centers)
			score[i] = float64(d) * float64(wc.w)
			total += score[i]
		}
		if total <= 0 {
			// All remaining candidates are exact center duplicates;
			// nothing more to seed distinctly.
			break
		}

		target := rand.Float64() * total
		cum := 0.0
		chosen := -1
		for i, s := range score {
			if used[i] {
				continue
			}
			cum += s
			if cum >= target {
				chosen = i
				break
			}
		}
		if chosen < 0 {
			chosen = farthestRemaining(weighted, used, centers)
			if logger != nil {
				logger.Printf("palette: roulette draw missed a bucket, falling back to farthest-point seed")
			}
		}
		if chosen < 0 {
			break
		}
		centers = append(centers, weighted[chosen].c)
		used[chosen] = true
	}
	return centers
}

func farthestRemaining(weighted []weightedColor, used []bool, centers []Color) int {
	best := -1
	bestD := -1
	for i, wc := range weighted {
		if used[i] {
			continue
		}
		d := nearestSq(wc.c, centers)
		if d > bestD {
			bestD = d
			best = i
		}
	}
	return best
}

func nearestSq(c Color, centers []Color) int {
	best := math.MaxInt32
	for _, ctr := range centers {
		if d := c.DistSq(ctr); d < best {
			best = d
		}
	}
	return best
}

// lloyd runs up to 10 rounds of weighted assignment + mean recomputation,
// accumulating each center's weighted sum in a gonum VecDense the way
// the teacher accumulates superpixel statistics into dense vectors.
func lloyd(weighted []weightedColor, centers []Color, opts Options) []Color {
	if len(centers) == 0 {
		return centers
	}
	k := len(centers)
	assign := make([]int, len(weighted))

	for round := 0; round < 10; round++ {
		for i, wc := range weighted {
			best := 0
			bestD := weighted[i].c.DistSq(centers[0])
			for c := 1; c < k; c++ {
				if d := wc.c.DistSq(centers[c]); d < bestD {
					bestD = d
					best = c
				}
			}
			assign[i] = best
		}

		sums := make([]*mat.VecDense, k)
		totals := make([]float64, k)
		for c := range sums {
			sums[c] = mat.NewVecDense(3, nil)
		}
		for i, wc := range weighted {
			c := assign[i]
			w := float64(wc.w)
			v := mat.NewVecDense(3, []float64{float64(wc.c.R) * w, float64(wc.c.G) * w, float64(wc.c.B) * w})
			sums[c].AddVec(sums[c], v)
			totals[c] += w
		}

		maxMove := 0.0
		newCenters := make([]Color, k)
		for c := range newCenters {
			if totals[c] <= 0 {
				newCenters[c] = centers[c]
				continue
			}
			r := sums[c].AtVec(0) / totals[c]
			g := sums[c].AtVec(1) / totals[c]
			b := sums[c].AtVec(2) / totals[c]
			nc := Color{R: clamp255(r), G: clamp255(g), B: clamp255(b)}
			newCenters[c] = nc
			if d := float64(nc.DistSq(centers[c])); d > maxMove {
				maxMove = d
			}
		}
		centers = newCenters
		opts.logf("palette: kmeans round %d maxMove=%.2f", round, maxMove)
		if maxMove <= 4 {
			break
		}
	}
	return centers
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
