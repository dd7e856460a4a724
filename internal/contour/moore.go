package contour

import "github.com/rastertrace/vtracer/internal/geom"

// dirs8 walks clockwise starting from "west", matching the backtrack
// convention in MeKo-Christian-pogo's Moore tracer.
var dirs8 = [8][2]int{
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
}

// TraceMoore walks the 8-connected boundary of every foreground
// component in b. The "hybrid" contour method calls it when Marching
// Squares returns no contour at all for a layer that has foreground
// pixels (SPEC_FULL.md supplement).
func TraceMoore(b []bool, w, h int) []Contour {
	visited := make([]bool, w*h)
	var out []Contour

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !b[i] || visited[i] {
				continue
			}
			if !isBoundary(b, w, h, x, y) {
				continue
			}
			pts := walkMoore(b, w, h, x, y, visited)
			if len(pts) < 3 {
				continue
			}
			pts = prunePoints(pts)
			if len(pts) < 3 {
				continue
			}
			if !geom.Closed(pts) {
				pts = append(pts, pts[0])
			}
			out = append(out, Contour{Points: pts, Area: geom.ShoelaceArea(pts)})
		}
	}
	return out
}

func isBoundary(b []bool, w, h, x, y int) bool {
	for _, d := range dirs8 {
		nx, ny := x+d[0], y+d[1]
		if nx < 0 || ny < 0 || nx >= w || ny >= h || !b[ny*w+nx] {
			return true
		}
	}
	return false
}

func walkMoore(b []bool, w, h, sx, sy int, visited []bool) []geom.Point {
	startPt := geom.Point{X: float64(sx), Y: float64(sy)}
	pts := []geom.Point{startPt}
	visited[sy*w+sx] = true

	cx, cy := sx, sy
	backtrack := 0
	for step := 0; step < w*h*8; step++ {
		found := -1
		for k := 0; k < 8; k++ {
			di := (backtrack + k) % 8
			nx, ny := cx+dirs8[di][0], cy+dirs8[di][1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if b[ny*w+nx] {
				found = di
				cx, cy = nx, ny
				break
			}
		}
		if found == -1 {
			break
		}
		visited[cy*w+cx] = true
		pts = append(pts, geom.Point{X: float64(cx), Y: float64(cy)})
		backtrack = (found + 5) % 8
		if cx == sx && cy == sy {
			break
		}
	}
	return pts
}

// prunePoints removes collinear interior points, matching the tracer's
// cleanup pass before handing the polyline to the simplifier.
func prunePoints(pts []geom.Point) []geom.Point {
	if len(pts) < 3 {
		return pts
	}
	out := pts[:1]
	for i := 1; i < len(pts)-1; i++ {
		prev, cur, next := out[len(out)-1], pts[i], pts[i+1]
		if geom.PerpDist(cur, prev, next) > 1e-9 {
			out = append(out, cur)
		}
	}
	out = append(out, pts[len(pts)-1])
	return out
}
