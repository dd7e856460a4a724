// Package fit implements the Curve Fitter (spec §4.9): corner-bounded
// segmentation, an external-fitter contract, and a built-in
// least-squares cubic Bézier fitter with handle retraction.
package fit

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rastertrace/vtracer/internal/geom"
)

// Cubic is one cubic Bézier segment: P0/P3 are on-curve endpoints,
// P1/P2 are control handles.
type Cubic struct {
	P0, P1, P2, P3 geom.Point
}

// Fitter is the external-fitter contract (spec §4.9): given a chain of
// points and a maximum allowed error, return one or more cubics
// approximating it.
type Fitter interface {
	Fit(points []geom.Point, maxError float64) []Cubic
}

// Options configures a fit pass.
type Options struct {
	MaxError      float64
	RetractFactor float64 // handle length cap as a multiple of chord length; 0 disables retraction
	Fitter        Fitter  // nil uses the built-in least-squares fitter
}

// Run segments a closed, corner-annotated polyline at each corner index
// and fits one chain of cubics per segment, in order.
func Run(pts []geom.Point, corners []int, opts Options) []Cubic {
	n := len(pts) - 1
	if n < 2 {
		return nil
	}
	f := opts.Fitter
	if f == nil {
		f = BuiltinFitter{}
	}

	segs := segment(pts[:n], corners)
	var out []Cubic
	for _, seg := range segs {
		cubics := f.Fit(seg, opts.MaxError)
		for i := range cubics {
			cubics[i] = retract(cubics[i], opts.RetractFactor)
		}
		out = append(out, cubics...)
	}
	return out
}

// segment splits a closed point ring into chains bounded by corner
// indices, each chain sharing its boundary point with its neighbors.
// With fewer than two corners the whole ring is one chain starting and
// ending at index 0.
func segment(body []geom.Point, corners []int) [][]geom.Point {
	n := len(body)
	if len(corners) < 2 {
		return [][]geom.Point{append(append([]geom.Point{}, body...), body[0])}
	}

	sorted := append([]int{}, corners...)
	insertionSort(sorted)

	var segs [][]geom.Point
	for i := 0; i < len(sorted); i++ {
		from := sorted[i]
		to := sorted[(i+1)%len(sorted)]
		segs = append(segs, wrapRing(body, from, to, n))
	}
	return segs
}

func wrapRing(pts []geom.Point, from, to, n int) []geom.Point {
	var out []geom.Point
	for i := from; ; i = (i + 1) % n {
		out = append(out, pts[i])
		if i == to {
			break
		}
	}
	return out
}

func insertionSort(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// retract clamps each handle's distance from its endpoint to at most
// factor times the chord length P0-P3, preventing overshoot on noisy
// short segments (spec §4.9).
func retract(c Cubic, factor float64) Cubic {
	if factor <= 0 {
		return c
	}
	chord := c.P0.Dist(c.P3)
	limit := chord * factor

	if d := c.P0.Dist(c.P1); d > limit && d > 1e-9 {
		t := limit / d
		c.P1 = c.P0.Lerp(c.P1, t)
	}
	if d := c.P3.Dist(c.P2); d > limit && d > 1e-9 {
		t := limit / d
		c.P2 = c.P3.Lerp(c.P2, t)
	}
	return c
}

// BuiltinFitter is the fallback least-squares cubic fitter: chord-length
// parametrization, endpoint tangent estimation, and a 2x2 normal-equation
// solve (via gonum) for the two tangent magnitudes, falling back to a
// Catmull-Rom-style handle placement when the system is near-singular
// (spec §7 class 4).
type BuiltinFitter struct{}

func (BuiltinFitter) Fit(points []geom.Point, maxError float64) []Cubic {
	if len(points) < 2 {
		return nil
	}
	if len(points) == 2 {
		return []Cubic{straightLine(points[0], points[1])}
	}

	u := chordLengthParametrize(points)
	t0 := tangent(points[1], points[0])
	t1 := tangent(points[len(points)-2], points[len(points)-1])

	c, ok := fitOneSegment(points, u, t0, t1)
	if !ok {
		return []Cubic{catmullRomFallback(points)}
	}
	if maxError > 0 && maxErrorOf(points, u, c) > maxError && len(points) > 4 {
		mid := len(points) / 2
		left := BuiltinFitter{}.Fit(points[:mid+1], maxError)
		right := BuiltinFitter{}.Fit(points[mid:], maxError)
		return append(left, right...)
	}
	return []Cubic{c}
}

func straightLine(a, b geom.Point) Cubic {
	return Cubic{P0: a, P1: a.Lerp(b, 1.0/3), P2: a.Lerp(b, 2.0/3), P3: b}
}

func chordLengthParametrize(points []geom.Point) []float64 {
	u := make([]float64, len(points))
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += points[i].Dist(points[i-1])
		u[i] = total
	}
	if total < 1e-9 {
		for i := range u {
			u[i] = float64(i) / float64(len(u)-1)
		}
		return u
	}
	for i := range u {
		u[i] /= total
	}
	return u
}

func tangent(from, to geom.Point) geom.Point {
	d := geom.Point{X: to.X - from.X, Y: to.Y - from.Y}
	n := math.Sqrt(d.X*d.X + d.Y*d.Y)
	if n < 1e-9 {
		return geom.Point{X: 1, Y: 0}
	}
	return geom.Point{X: d.X / n, Y: d.Y / n}
}

func bezierBasis(t float64) (b0, b1, b2, b3 float64) {
	mt := 1 - t
	b0 = mt * mt * mt
	b1 = 3 * mt * mt * t
	b2 = 3 * mt * t * t
	b3 = t * t * t
	return
}

// fitOneSegment solves for tangent magnitudes alpha0, alpha1 minimizing
// squared error of the cubic P0 + a0*t0*3*b1 + ... against the sample
// points, via the standard 2x2 normal-equation system (Schneider 1990).
func fitOneSegment(points []geom.Point, u []float64, t0, t1 geom.Point) (Cubic, bool) {
	p0 := points[0]
	p3 := points[len(points)-1]

	var c [2][2]float64
	var x [2]float64

	for i, pt := range points {
		b0, b1, b2, b3 := bezierBasis(u[i])
		a1 := geom.Point{X: t0.X * b1, Y: t0.Y * b1}
		a2 := geom.Point{X: t1.X * b2, Y: t1.Y * b2}

		c[0][0] += a1.X*a1.X + a1.Y*a1.Y
		c[0][1] += a1.X*a2.X + a1.Y*a2.Y
		c[1][0] = c[0][1]
		c[1][1] += a2.X*a2.X + a2.Y*a2.Y

		rhs := geom.Point{
			X: pt.X - (b0*p0.X + b3*p3.X),
			Y: pt.Y - (b0*p0.Y + b3*p3.Y),
		}
		x[0] += a1.X*rhs.X + a1.Y*rhs.Y
		x[1] += a2.X*rhs.X + a2.Y*rhs.Y
	}

	det := c[0][0]*c[1][1] - c[0][1]*c[1][0]
	if det*det < 1e-12 {
		return Cubic{}, false
	}

	m := mat.NewDense(2, 2, []float64{c[0][0], c[0][1], c[1][0], c[1][1]})
	rhs := mat.NewVecDense(2, []float64{x[0], x[1]})
	var sol mat.VecDense
	if err := sol.SolveVec(m, rhs); err != nil {
		return Cubic{}, false
	}
	alpha0, alpha1 := sol.AtVec(0), sol.AtVec(1)

	chord := p0.Dist(p3)
	epsilon := chord * 1e-6
	if alpha0 < epsilon || alpha1 < epsilon {
		alpha0 = chord / 3
		alpha1 = chord / 3
	}

	return Cubic{
		P0: p0,
		P1: geom.Point{X: p0.X + t0.X*alpha0, Y: p0.Y + t0.Y*alpha0},
		P2: geom.Point{X: p3.X + t1.X*alpha1, Y: p3.Y + t1.Y*alpha1},
		P3: p3,
	}, true
}

func maxErrorOf(points []geom.Point, u []float64, c Cubic) float64 {
	maxE := 0.0
	for i, pt := range points {
		b0, b1, b2, b3 := bezierBasis(u[i])
		bx := b0*c.P0.X + b1*c.P1.X + b2*c.P2.X + b3*c.P3.X
		by := b0*c.P0.Y + b1*c.P1.Y + b2*c.P2.Y + b3*c.P3.Y
		d := pt.DistSq(geom.Point{X: bx, Y: by})
		if d > maxE {
			maxE = d
		}
	}
	return maxE
}

// catmullRomFallback places handles from the neighboring chord
// directions when the normal-equation solve is singular (collinear or
// duplicate samples), per §7 class 4's documented fallback-of-fallback.
func catmullRomFallback(points []geom.Point) Cubic {
	p0 := points[0]
	p3 := points[len(points)-1]
	mid := points[len(points)/2]

	t0 := tangent(p0, mid)
	t1 := tangent(mid, p3)
	chord := p0.Dist(p3) / 3

	return Cubic{
		P0: p0,
		P1: geom.Point{X: p0.X + t0.X*chord, Y: p0.Y + t0.Y*chord},
		P2: geom.Point{X: p3.X - t1.X*chord, Y: p3.Y - t1.Y*chord},
		P3: p3,
	}
}
