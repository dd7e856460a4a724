package palette

import "math"

// Edge-color classification runs in Lab space (via Color.Colorful().Lab())
// rather than raw RGB, so "distance" tracks human-perceived color
// difference instead of channel-wise Euclidean distance. go-colorful
// reports Lab at 1/100 of the CIE scale (L in [0,1]), so the constants
// below are 30 and 12 CIE Lab units.
const (
	edgeIndependentDist = 0.30 // farther than this from every main color, preserved
	edgePerpDist        = 0.12 // perpendicular tolerance for "on the segment"
)

// filterEdgeColors drops palette entries that sit geometrically between
// two "main" colors (likely anti-aliasing artifacts), applied only when
// the palette is small enough that every entry can plausibly be
// inspected against every other (spec §4.1: K <= 16).
func filterEdgeColors(pal Palette, weighted []weightedColor) Palette {
	if len(pal) > 16 || len(pal) < 3 {
		return pal
	}

	shares := pixelShares(pal, weighted)
	mains := mainColors(pal, shares)
	if len(mains) < 2 {
		return pal
	}

	keep := make(Palette, 0, len(pal))
	for i, c := range pal {
		if isMain(i, mains) {
			keep = append(keep, c)
			continue
		}
		if isEdgeColor(c, pal, mains) {
			continue
		}
		keep = append(keep, c)
	}
	if len(keep) == 0 {
		return pal
	}
	return keep
}

func pixelShares(pal Palette, weighted []weightedColor) []float64 {
	counts := make([]int, len(pal))
	total := 0
	for _, wc := range weighted {
		idx := pal.NearestIndex(wc.c)
		counts[idx] += wc.w
		total += wc.w
	}
	shares := make([]float64, len(pal))
	if total == 0 {
		return shares
	}
	for i, c := range counts {
		shares[i] = float64(c) / float64(total)
	}
	return shares
}

// mainColors classifies palette indices with share >= max(0.005, 0.1/K)
// as main, raising by weight until at least 2 are selected.
func mainColors(pal Palette, shares []float64) []int {
	k := len(pal)
	minShare := math.Max(0.005, 0.1/float64(k))

	var mains []int
	for i, s := range shares {
		if s >= minShare {
			mains = append(mains, i)
		}
	}
	if len(mains) >= 2 {
		return mains
	}

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	// Selection sort by descending share; k is tiny (<=16).
	for i := 0; i < len(order); i++ {
		best := i
		for j := i + 1; j < len(order); j++ {
			if shares[order[j]] > shares[order[best]] {
				best = j
			}
		}
		order[i], order[best] = order[best], order[i]
	}
	seen := make(map[int]bool)
	for _, idx := range mains {
		seen[idx] = true
	}
	for _, idx := range order {
		if len(mains) >= 2 {
			break
		}
		if !seen[idx] {
			mains = append(mains, idx)
			seen[idx] = true
		}
	}
	return mains
}

func isMain(idx int, mains []int) bool {
	for _, m := range mains {
		if m == idx {
			return true
		}
	}
	return false
}

// isEdgeColor reports whether c projects onto the segment between two
// main colors at parameter t in [0.1, 0.9] with perpendicular Lab
// distance < edgePerpDist, and is not "independent" (farther than
// edgeIndependentDist from every main, in Lab space).
func isEdgeColor(c Color, pal Palette, mains []int) bool {
	cL, ca, cb := c.Colorful().Lab()

	minDistToMain := math.MaxFloat64
	for _, mi := range mains {
		mL, ma, mb := pal[mi].Colorful().Lab()
		if d := labDist(cL, ca, cb, mL, ma, mb); d < minDistToMain {
			minDistToMain = d
		}
	}
	if minDistToMain > edgeIndependentDist {
		return false // independent color, preserved
	}

	for i := 0; i < len(mains); i++ {
		for j := i + 1; j < len(mains); j++ {
			a, b := pal[mains[i]], pal[mains[j]]
			t, perp := projectOntoSegment(c, a, b)
			if t >= 0.1 && t <= 0.9 && perp < edgePerpDist {
				return true
			}
		}
	}
	return false
}

// projectOntoSegment returns the projection parameter t and the
// perpendicular distance of c onto the segment a-b in Lab space.
func projectOntoSegment(c, a, b Color) (t, perp float64) {
	aL, aa, ab := a.Colorful().Lab()
	bL, ba, bb := b.Colorful().Lab()
	cL, ca, cb := c.Colorful().Lab()

	abx, aby, abz := bL-aL, ba-aa, bb-ab
	lenSq := abx*abx + aby*aby + abz*abz
	if lenSq < 1e-9 {
		return 0, labDist(cL, ca, cb, aL, aa, ab)
	}
	acx, acy, acz := cL-aL, ca-aa, cb-ab
	t = (acx*abx + acy*aby + acz*abz) / lenSq

	px, py, pz := aL+t*abx, aa+t*aby, ab+t*abz
	dx, dy, dz := cL-px, ca-py, cb-pz
	perp = math.Sqrt(dx*dx + dy*dy + dz*dz)
	return t, perp
}

func labDist(l1, a1, b1, l2, a2, b2 float64) float64 {
	dl, da, db := l1-l2, a1-a2, b1-b2
	return math.Sqrt(dl*dl + da*da + db*db)
}
