// Package smooth implements the Smoother (spec §4.8): Chaikin
// corner-cutting that pins detected corner positions across iterations.
package smooth

import "github.com/rastertrace/vtracer/internal/geom"

// Options configures one smoothing pass.
type Options struct {
	Iterations int // clamped to [0,3]
}

// cornerSnapDist is the proximity threshold (spec §4.8) for matching a
// point against a saved corner position.
const cornerSnapDist = 0.5

// Run applies k Chaikin iterations to a closed polyline, leaving points
// near a detected corner's *position* untouched so sharp features
// survive smoothing even though each pass reshapes the index space
// (corner indices are resolved to positions once, up front, then
// re-matched by proximity every pass).
func Run(pts []geom.Point, corners []int, opts Options) []geom.Point {
	k := opts.Iterations
	if k < 0 {
		k = 0
	}
	if k > 3 {
		k = 3
	}
	if k == 0 || len(pts) < 4 {
		return pts
	}

	n := len(pts) - 1
	positions := make([]geom.Point, 0, len(corners))
	for _, idx := range corners {
		if idx >= 0 && idx < n {
			positions = append(positions, pts[idx])
		}
	}

	cur := pts
	for iter := 0; iter < k; iter++ {
		cur = chaikinPass(cur, positions)
	}
	return cur
}

func chaikinPass(pts []geom.Point, corners []geom.Point) []geom.Point {
	n := len(pts) - 1
	if n < 3 {
		return pts
	}
	body := pts[:n]
	out := make([]geom.Point, 0, n*2)

	for i := 0; i < n; i++ {
		a := body[i]
		b := body[(i+1)%n]
		if nearAnyCorner(a, corners) {
			out = append(out, a)
			continue
		}
		q := a.Lerp(b, 0.25)
		r := a.Lerp(b, 0.75)
		out = append(out, q, r)
	}
	out = append(out, out[0])
	return out
}

func nearAnyCorner(p geom.Point, corners []geom.Point) bool {
	for _, c := range corners {
		if p.Dist(c) <= cornerSnapDist {
			return true
		}
	}
	return false
}
