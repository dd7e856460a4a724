package palette

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a palette entry: an 8-bit RGB triple (spec §3).
type Color struct {
	R, G, B uint8
}

// Sum is the luminance surrogate the palette is sorted by.
func (c Color) Sum() int { return int(c.R) + int(c.G) + int(c.B) }

// DistSq returns the squared Euclidean RGB distance to another color.
func (c Color) DistSq(o Color) int {
	dr := int(c.R) - int(o.R)
	dg := int(c.G) - int(o.G)
	db := int(c.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// Neutral reports whether the color's channel spread is small enough to
// be considered achromatic (spec §4.1 post-merge neutral rule).
func (c Color) Neutral() bool {
	maxc := max3(c.R, c.G, c.B)
	minc := min3(c.R, c.G, c.B)
	return int(maxc)-int(minc) < 30
}

func max3(a, b, c uint8) uint8 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c uint8) uint8 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Colorful converts to a go-colorful color in [0,1] space, used for Lab
// distance and luminance computations.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Palette is the ordered, luminance-sorted set of colors a vectorize
// invocation resolves pixels against.
type Palette []Color

// SortByLuminance orders the palette dark -> bright (spec §3 invariant)
// by the raw channel sum r+g+b; linear-RGB relative luminance via
// go-colorful only breaks ties among colors with identical r+g+b.
func (p Palette) SortByLuminance() {
	sort.SliceStable(p, func(i, j int) bool {
		si := p[i].Sum()
		sj := p[j].Sum()
		if si != sj {
			return si < sj
		}
		ri, gi, bi := p[i].Colorful().LinearRgb()
		rj, gj, bj := p[j].Colorful().LinearRgb()
		yi := 0.2126*ri + 0.7152*gi + 0.0722*bi
		yj := 0.2126*rj + 0.7152*gj + 0.0722*bj
		return yi < yj
	})
}

// Brightest returns the index of the brightest palette entry by Lab
// lightness; the caller renders bright->dark and uses this entry as the
// background fill (spec §6) and as the post-merge white-snap candidate.
func (p Palette) Brightest() int {
	best := 0
	bestL, _, _ := p[0].Colorful().Lab()
	for i := 1; i < len(p); i++ {
		if l, _, _ := p[i].Colorful().Lab(); l > bestL {
			bestL = l
			best = i
		}
	}
	return best
}

// NearestIndex returns the index of the palette entry nearest c by
// squared RGB distance.
func (p Palette) NearestIndex(c Color) int {
	best := 0
	bestD := p[0].DistSq(c)
	for i := 1; i < len(p); i++ {
		if d := p[i].DistSq(c); d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}
