// Package classify implements the Pixel Classifier (spec §4.3):
// nearest-palette assignment per opaque pixel, followed by an optional
// 3x3 mode-filter denoise pass.
package classify

import (
	"github.com/rastertrace/vtracer/internal/palette"
	"github.com/rastertrace/vtracer/internal/raster"
)

// Classify assigns every pixel to its nearest palette index, writing
// raster.Sentinel for transparent pixels.
func Classify(data []byte, w, h int, pal palette.Palette) []byte {
	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := raster.At(data, w, x, y)
			idx := y*w + x
			if !raster.Opaque(a) {
				out[idx] = raster.Sentinel
				continue
			}
			c := palette.Color{R: r, G: g, B: b}
			out[idx] = byte(pal.NearestIndex(c))
		}
	}
	return out
}

// Denoise runs 2 double-buffered 3x3 mode-filter passes over the
// pixel-color map, skipped entirely for the pixel preset (spec §4.3).
// Transparent pixels (raster.Sentinel) are never touched or counted as
// neighbors.
func Denoise(m []byte, w, h int) []byte {
	cur := m
	for pass := 0; pass < 2; pass++ {
		next := make([]byte, len(cur))
		copy(next, cur)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				center := cur[idx]
				if center == raster.Sentinel {
					continue
				}
				counts := make(map[byte]int)
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := x+dx, y+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						v := cur[ny*w+nx]
						if v == raster.Sentinel {
							continue
						}
						counts[v]++
					}
				}
				modeColor, modeCount := mode(counts)
				centerCount := counts[center]
				if centerCount == 1 || (modeColor != center && modeCount >= 5) {
					next[idx] = modeColor
				}
			}
		}
		cur = next
	}
	return cur
}

func mode(counts map[byte]int) (byte, int) {
	var best byte
	bestCount := -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best, bestCount
}
