package palette

import "math"

// postMerge repeatedly sorts by luminance, snaps a near-white brightest
// entry to pure white, and greedily merges any pair closer than an
// adaptive threshold, until a full pass finds nothing to merge (spec
// §4.1 post-merge).
func postMerge(pal Palette, baseThreshold float64) Palette {
	weights := make([]int, len(pal))
	for i := range weights {
		weights[i] = 1
	}

	for {
		pal.SortByLuminance()
		snapBrightestToWhite(pal)

		merged := false
		for i := 0; i < len(pal); i++ {
			for j := i + 1; j < len(pal); j++ {
				doMerge, brightForce := shouldMerge(pal[i], pal[j], baseThreshold)
				if !doMerge {
					continue
				}
				if brightForce {
					pal[i], weights[i] = brightBiasedMean(pal[i], weights[i], pal[j], weights[j])
				} else {
					pal[i], weights[i] = weightedMean(pal[i], weights[i], pal[j], weights[j])
				}
				pal = append(pal[:j], pal[j+1:]...)
				weights = append(weights[:j], weights[j+1:]...)
				merged = true
				break
			}
			if merged {
				break
			}
		}
		if !merged {
			break
		}
	}
	return pal
}

// snapBrightestToWhite snaps the brightest entry to pure white when it
// is both very light and nearly achromatic in Lab space (spec §4.1).
// go-colorful reports L in [0,1] and a/b at the same 1/100 scale, so
// L > 0.95 and chroma < 0.08 are 95 and 8 in CIE Lab units.
func snapBrightestToWhite(pal Palette) {
	if len(pal) == 0 {
		return
	}
	b := pal.Brightest()
	l, a, bb := pal[b].Colorful().Lab()
	chroma := math.Hypot(a, bb)
	if l > 0.95 && chroma < 0.08 {
		pal[b] = Color{255, 255, 255}
	}
}

// shouldMerge reports whether a and b should merge, and whether the
// merge is the bright/close force case (spec §4.1), which biases the
// result toward the brighter color instead of a plain weighted mean.
func shouldMerge(a, b Color, baseThreshold float64) (merge, brightForce bool) {
	d2 := float64(a.DistSq(b))

	if minLum(a, b) > 210 && d2 < 2500 {
		return true, true
	}

	t2 := baseThreshold * baseThreshold
	if a.Neutral() && b.Neutral() {
		t2 *= 16
	}
	return d2 < t2, false
}

func minLum(a, b Color) int {
	la, lb := a.Sum()/3, b.Sum()/3
	if la < lb {
		return la
	}
	return lb
}

// weightedMean merges b into a using a plain count-weighted running
// mean, for ordinary (non-force) merges.
func weightedMean(a Color, wa int, b Color, wb int) (Color, int) {
	total := wa + wb
	if total == 0 {
		return a, 0
	}
	r := (int(a.R)*wa + int(b.R)*wb) / total
	g := (int(a.G)*wa + int(b.G)*wb) / total
	bl := (int(a.B)*wa + int(b.B)*wb) / total
	return Color{R: uint8(r), G: uint8(g), B: uint8(bl)}, total
}

// brightBiasedMean merges a and b 3:1 toward whichever is brighter by
// Lab lightness, regardless of sample weight, per the spec's bright/close
// force-merge rule: the result must move toward the brighter color even
// when the dimmer entry carries more samples.
func brightBiasedMean(a Color, wa int, b Color, wb int) (Color, int) {
	total := wa + wb
	bright, dim := a, b
	la, _, _ := a.Colorful().Lab()
	lb, _, _ := b.Colorful().Lab()
	if lb > la {
		bright, dim = b, a
	}
	r := (int(bright.R)*3 + int(dim.R)) / 4
	g := (int(bright.G)*3 + int(dim.G)) / 4
	bl := (int(bright.B)*3 + int(dim.B)) / 4
	return Color{R: uint8(r), G: uint8(g), B: uint8(bl)}, total
}
