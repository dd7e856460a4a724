// Package contour implements the Contour Tracer (spec §4.5): Marching
// Squares over a layer's binary bitmap and continuous field, with a
// Moore-neighborhood fallback tracer for the "hybrid" contour method.
package contour

import (
	"sort"

	"github.com/rastertrace/vtracer/internal/geom"
)

// Threshold is the marching-squares isovalue: the alpha/luminance field
// crosses a color boundary at 128 (spec §3 invariant).
const Threshold = 128.0

// Contour is one closed polyline with its signed area (outer > 0).
type Contour struct {
	Points []geom.Point
	Area   float64
}

// Trace runs Marching Squares over a w×h binary bitmap b and its
// companion continuous field g, returning closed contours sorted by
// descending absolute area (spec §4.5).
func Trace(b []bool, g []uint8, w, h int) []Contour {
	if w < 1 || h < 1 {
		return nil
	}

	segs := map[geom.Point][]geom.Point{}
	var order []geom.Point

	addSeg := func(a, b geom.Point) {
		if _, ok := segs[a]; !ok {
			order = append(order, a)
		}
		segs[a] = append(segs[a], b)
	}

	// Off-canvas samples are treated as background (spec §4.5's virtual
	// border), so a shape touching the edge of the bitmap still closes.
	val := func(x, y int) bool {
		if x < 0 || y < 0 || x >= w || y >= h {
			return false
		}
		return b[y*w+x]
	}
	field := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 255
		}
		return float64(g[y*w+x])
	}

	for cy := -1; cy < h; cy++ {
		for cx := -1; cx < w; cx++ {
			tl := val(cx, cy)
			tr := val(cx+1, cy)
			br := val(cx+1, cy+1)
			bl := val(cx, cy+1)

			idx := 0
			if tl {
				idx |= 8
			}
			if tr {
				idx |= 4
			}
			if br {
				idx |= 2
			}
			if bl {
				idx |= 1
			}
			if idx == 0 || idx == 15 {
				continue
			}

			top := interp(geom.Point{X: float64(cx), Y: float64(cy)}, geom.Point{X: float64(cx + 1), Y: float64(cy)}, field(cx, cy), field(cx+1, cy))
			right := interp(geom.Point{X: float64(cx + 1), Y: float64(cy)}, geom.Point{X: float64(cx + 1), Y: float64(cy + 1)}, field(cx+1, cy), field(cx+1, cy+1))
			bottom := interp(geom.Point{X: float64(cx + 1), Y: float64(cy + 1)}, geom.Point{X: float64(cx), Y: float64(cy + 1)}, field(cx+1, cy+1), field(cx, cy+1))
			left := interp(geom.Point{X: float64(cx), Y: float64(cy + 1)}, geom.Point{X: float64(cx), Y: float64(cy)}, field(cx, cy+1), field(cx, cy))

			for _, e := range edgesFor(idx, top, right, bottom, left) {
				addSeg(e[0], e[1])
			}
		}
	}

	used := map[geom.Point]map[int]bool{}
	var contours []Contour
	for _, start := range order {
		outs := segs[start]
		for oi := range outs {
			if used[start] != nil && used[start][oi] {
				continue
			}
			pts := walk(start, oi, segs, used)
			if len(pts) < 3 {
				continue
			}
			if !geom.Closed(pts) {
				pts = append(pts, pts[0])
			}
			contours = append(contours, Contour{Points: pts, Area: geom.ShoelaceArea(pts)})
		}
	}

	sort.SliceStable(contours, func(i, j int) bool {
		return abs(contours[i].Area) > abs(contours[j].Area)
	})
	return contours
}

func walk(start geom.Point, startIdx int, segs map[geom.Point][]geom.Point, used map[geom.Point]map[int]bool) []geom.Point {
	pts := []geom.Point{start}
	cur := start
	idx := startIdx
	for {
		if used[cur] == nil {
			used[cur] = map[int]bool{}
		}
		used[cur][idx] = true
		next := segs[cur][idx]
		if next == pts[0] {
			pts = append(pts, next)
			return pts
		}
		pts = append(pts, next)

		outs := segs[next]
		found := -1
		for i := range outs {
			if used[next] == nil || !used[next][i] {
				found = i
				break
			}
		}
		if found == -1 {
			return pts
		}
		cur = next
		idx = found
	}
}

// interp finds the sub-pixel crossing point of Threshold along segment
// a-b, clamping t into [0.1, 0.9] to avoid degenerate near-vertex hits
// (spec §4.5 edge-interpolation rule).
func interp(a, b geom.Point, va, vb float64) geom.Point {
	t := 0.5
	if vb != va {
		t = (Threshold - va) / (vb - va)
	}
	if t < 0.1 {
		t = 0.1
	}
	if t > 0.9 {
		t = 0.9
	}
	return a.Lerp(b, t)
}

// edgesFor returns the directed segment(s) for one of the marching
// squares' 14 non-trivial cases (indices 1-14), oriented so that the
// interior (true) region is always on the left of travel.
func edgesFor(idx int, top, right, bottom, left geom.Point) [][2]geom.Point {
	switch idx {
	case 1:
		return [][2]geom.Point{{left, bottom}}
	case 2:
		return [][2]geom.Point{{bottom, right}}
	case 3:
		return [][2]geom.Point{{left, right}}
	case 4:
		return [][2]geom.Point{{right, top}}
	case 5:
		return [][2]geom.Point{{left, top}, {right, bottom}}
	case 6:
		return [][2]geom.Point{{bottom, top}}
	case 7:
		return [][2]geom.Point{{left, top}}
	case 8:
		return [][2]geom.Point{{top, left}}
	case 9:
		return [][2]geom.Point{{top, bottom}}
	case 10:
		return [][2]geom.Point{{top, right}, {bottom, left}}
	case 11:
		return [][2]geom.Point{{top, right}}
	case 12:
		return [][2]geom.Point{{right, left}}
	case 13:
		return [][2]geom.Point{{right, bottom}}
	case 14:
		return [][2]geom.Point{{bottom, left}}
	default:
		return nil
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
