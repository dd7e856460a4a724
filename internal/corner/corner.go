// Package corner implements the Corner Detector (spec §4.7): multi-scale
// turning-angle analysis over a closed polyline with local-minimum and
// non-maximum suppression.
package corner

import (
	"math"

	"github.com/rastertrace/vtracer/internal/geom"
)

// Radii are the two neighborhood scales used for the turning-angle scan.
var Radii = []int{4, 6}

// Options configures corner detection.
type Options struct {
	AngleThreshold float64 // degrees; below this, a vertex is a candidate corner
	NMSWindow      int
}

// Detect returns the indices into pts (a closed polyline, pts[0]==pts[len-1])
// that are classified as corners.
func Detect(pts []geom.Point, opts Options) []int {
	n := len(pts) - 1
	if n < 3 {
		return nil
	}
	body := pts[:n]

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = math.MaxFloat64
	}
	for _, r := range Radii {
		for i := 0; i < n; i++ {
			a := body[wrap(i-r, n)]
			b := body[i]
			c := body[wrap(i+r, n)]
			angle := turningAngleDeg(a, b, c)
			if angle < scores[i] {
				scores[i] = angle
			}
		}
	}

	var candidates []int
	for i, s := range scores {
		if s <= opts.AngleThreshold {
			candidates = append(candidates, i)
		}
	}

	return nonMaxSuppress(candidates, scores, n, opts.NMSWindow)
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// turningAngleDeg is the angle at b between the rays b->a and b->c, in
// [0,180]; 180 means straight through, 90 a right-angle turn, and 0 a
// full reversal, so sharper corners score lower.
func turningAngleDeg(a, b, c geom.Point) float64 {
	v1 := geom.Point{X: b.X - a.X, Y: b.Y - a.Y}
	v2 := geom.Point{X: c.X - b.X, Y: c.Y - b.Y}
	n1 := math.Hypot(v1.X, v1.Y)
	n2 := math.Hypot(v2.X, v2.Y)
	if n1 < 1e-9 || n2 < 1e-9 {
		return 180
	}
	cos := (v1.X*v2.X + v1.Y*v2.Y) / (n1 * n2)
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return 180 - math.Acos(cos)*180/math.Pi
}

// nonMaxSuppress keeps, within any window of NMSWindow indices (cyclic),
// only the candidate with the sharpest (lowest) turning angle.
func nonMaxSuppress(candidates []int, scores []float64, n, window int) []int {
	if window <= 0 || len(candidates) == 0 {
		return candidates
	}
	isCandidate := make([]bool, n)
	for _, c := range candidates {
		isCandidate[c] = true
	}

	var kept []int
	for _, c := range candidates {
		best := true
		for d := -window; d <= window; d++ {
			if d == 0 {
				continue
			}
			j := wrap(c+d, n)
			if isCandidate[j] && scores[j] < scores[c] {
				best = false
				break
			}
			if isCandidate[j] && scores[j] == scores[c] && j < c {
				best = false
				break
			}
		}
		if best {
			kept = append(kept, c)
		}
	}
	return kept
}
