// Package simplify implements the Contour Simplifier (spec §4.6):
// radial pre-filtering, closed-path Ramer-Douglas-Peucker reduction,
// and staircase removal.
package simplify

import "github.com/rastertrace/vtracer/internal/geom"

// Options configures one simplify pass.
type Options struct {
	RadialEps    float64
	RDPEps       float64
	StaircaseMax int
}

// Run applies the full simplify chain to a closed polyline.
func Run(pts []geom.Point, opts Options) []geom.Point {
	if len(pts) < 4 {
		return pts
	}
	pts = radialFilter(pts, opts.RadialEps)
	pts = rdpClosed(pts, opts.RDPEps)
	pts = removeStaircases(pts, opts.StaircaseMax)
	return pts
}

// radialFilter drops any point closer than eps to the last kept point,
// a cheap pre-filter before the more expensive RDP pass.
func radialFilter(pts []geom.Point, eps float64) []geom.Point {
	if eps <= 0 || len(pts) < 3 {
		return pts
	}
	out := []geom.Point{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		if pts[i].Dist(out[len(out)-1]) >= eps {
			out = append(out, pts[i])
		}
	}
	out = append(out, pts[len(pts)-1])
	if len(out) < 3 {
		return pts
	}
	return out
}

// rdpClosed runs Ramer-Douglas-Peucker on a closed polyline by picking
// the two mutually farthest-apart points as the initial split, then
// recursing on each half independently (spec §4.6's farthest-point-first
// split rule, which avoids RDP's open-path bias toward the first/last
// vertex on a loop).
func rdpClosed(pts []geom.Point, eps float64) []geom.Point {
	if eps <= 0 || len(pts) < 4 {
		return pts
	}
	n := len(pts) - 1 // last point repeats first
	body := pts[:n]

	i1, i2 := farthestPair(body)
	if i1 == i2 {
		return pts
	}
	if i1 > i2 {
		i1, i2 = i2, i1
	}

	arc1 := rdpOpen(wrapSlice(body, i1, i2), eps)
	arc2 := rdpOpen(wrapSlice(body, i2, i1), eps)

	out := append([]geom.Point{}, arc1...)
	out = append(out, arc2...)
	out = append(out, out[0])
	return out
}

func wrapSlice(pts []geom.Point, from, to int) []geom.Point {
	n := len(pts)
	var out []geom.Point
	for i := from; ; i = (i + 1) % n {
		out = append(out, pts[i])
		if i == to {
			break
		}
	}
	return out
}

func farthestPair(pts []geom.Point) (int, int) {
	best := -1.0
	bi, bj := 0, 0
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if d := pts[i].DistSq(pts[j]); d > best {
				best = d
				bi, bj = i, j
			}
		}
	}
	return bi, bj
}

// rdpOpen runs classic RDP on an open polyline and returns the kept
// points without the final endpoint, so arcs that share an endpoint can
// be concatenated without duplicating it; the start point is always
// kept.
func rdpOpen(pts []geom.Point, eps float64) []geom.Point {
	if len(pts) < 3 {
		return pts[:min(1, len(pts))]
	}
	maxDist, idx := -1.0, -1
	a, b := pts[0], pts[len(pts)-1]
	for i := 1; i < len(pts)-1; i++ {
		d := geom.PerpDist(pts[i], a, b)
		if d > maxDist {
			maxDist = d
			idx = i
		}
	}
	if maxDist <= eps || idx == -1 {
		return []geom.Point{a}
	}
	left := rdpOpen(pts[:idx+1], eps)
	right := rdpOpen(pts[idx:], eps)
	return append(left, right...)
}

// removeStaircases collapses short horizontal/vertical zig-zag runs
// left behind by Marching Squares on axis-aligned boundaries, aborting
// if it would remove more than max% of points (spec §4.6 safety guard).
func removeStaircases(pts []geom.Point, maxPct int) []geom.Point {
	if len(pts) < 6 || maxPct <= 0 {
		return pts
	}
	n := len(pts) - 1
	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}

	removed := 0
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		c := pts[(i+2)%n]
		if isStairStep(a, b, c) {
			keep[(i+1)%n] = false
			removed++
		}
	}
	if removed*100 > maxPct*n {
		return pts
	}

	var out []geom.Point
	for i := 0; i < n; i++ {
		if keep[i] {
			out = append(out, pts[i])
		}
	}
	if len(out) < 3 {
		return pts
	}
	out = append(out, out[0])
	return out
}

// staircaseMaxLen is the spec §4.6 length cap: only short H/V segments
// (the kind Marching Squares leaves behind on axis-aligned boundaries)
// qualify for staircase removal; long straight runs must be preserved.
const staircaseMaxLen = 2.5

func isStairStep(a, b, c geom.Point) bool {
	horiz1 := a.Y == b.Y
	vert1 := a.X == b.X
	horiz2 := b.Y == c.Y
	vert2 := b.X == c.X
	if !((horiz1 && vert2) || (vert1 && horiz2)) {
		return false
	}
	return a.Dist(b) < staircaseMaxLen && b.Dist(c) < staircaseMaxLen
}
