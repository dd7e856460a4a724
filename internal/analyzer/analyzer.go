// Package analyzer implements the Image Analyzer (spec §4.2): a cheap
// greedy color-clustering pass over a quantized histogram that
// recommends a preset tag and a starting palette size, without ever
// touching the real K-Means++ the Palette Builder will later run.
package analyzer

import (
	"image"
	"sort"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/rastertrace/vtracer/internal/raster"
)

// Result is the Analyzer's output.
type Result struct {
	Preset      string
	SuggestedK  int
	UniqueBins  int
	ClusterCnt  int
	VarianceHint float64
}

type bin struct {
	r, g, b uint8
	count   int
}

// Analyze classifies an image and recommends a preset + palette size.
func Analyze(data []byte, w, h int) Result {
	bins := histogram(data, w, h)
	u := len(bins)
	if u == 0 {
		return Result{Preset: "illustration", SuggestedK: 8}
	}

	clustersAt25 := greedyCluster(bins, 25)
	c := len(clustersAt25)
	v := float64(u) / float64(max1(c))

	var presetTag string
	switch {
	case c <= 4:
		presetTag = "lineart"
	case u < 256 && c < 64 && v < 3:
		presetTag = "pixel"
	case u > 5000 && c > 100:
		presetTag = "photo"
	case c > 4 && c < 64:
		reclustered := greedyCluster(bins, 90)
		presetTag = bracketPreset(len(reclustered))
	default:
		presetTag = bracketPreset(c)
	}

	k := suggestK(data, w, h, clustersAt25, presetTag)

	return Result{
		Preset:       presetTag,
		SuggestedK:   k,
		UniqueBins:   u,
		ClusterCnt:   c,
		VarianceHint: v,
	}
}

func bracketPreset(c int) string {
	switch {
	case c <= 8:
		return "simple"
	case c <= 32:
		return "logo"
	default:
		return "illustration"
	}
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// histogram builds the 5-bit quantized (snap to multiples of 8)
// histogram over opaque pixels, discarding bins with fewer than 10
// samples.
func histogram(data []byte, w, h int) []bin {
	counts := make(map[uint32]int)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := raster.At(data, w, x, y)
			if !raster.Opaque(a) {
				continue
			}
			qr, qg, qb := snap8(r), snap8(g), snap8(b)
			key := uint32(qr)<<16 | uint32(qg)<<8 | uint32(qb)
			counts[key]++
		}
	}
	bins := make([]bin, 0, len(counts))
	for key, cnt := range counts {
		if cnt < 10 {
			continue
		}
		bins = append(bins, bin{r: uint8(key >> 16), g: uint8(key >> 8), b: uint8(key), count: cnt})
	}
	return bins
}

func snap8(v uint8) uint8 {
	q := (uint16(v) + 4) / 8 * 8
	if q > 255 {
		q = 248
	}
	return uint8(q)
}

type cluster struct {
	r, g, b float64
	weight  float64
}

// greedyCluster assigns bins, heaviest first, to the nearest existing
// cluster center within threshold or starts a new cluster, updating
// the center as a running weighted mean.
func greedyCluster(bins []bin, threshold float64) []cluster {
	ordered := make([]bin, len(bins))
	copy(ordered, bins)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].count > ordered[j].count })

	var cls []cluster
	t2 := threshold * threshold
	for _, bn := range ordered {
		best := -1
		bestD := t2
		for i, cl := range cls {
			dr := cl.r - float64(bn.r)
			dg := cl.g - float64(bn.g)
			db := cl.b - float64(bn.b)
			d := dr*dr + dg*dg + db*db
			if d <= bestD {
				bestD = d
				best = i
			}
		}
		if best < 0 {
			cls = append(cls, cluster{r: float64(bn.r), g: float64(bn.g), b: float64(bn.b), weight: float64(bn.count)})
			continue
		}
		c := &cls[best]
		total := c.weight + float64(bn.count)
		c.r = (c.r*c.weight + float64(bn.r)*float64(bn.count)) / total
		c.g = (c.g*c.weight + float64(bn.g)*float64(bn.count)) / total
		c.b = (c.b*c.weight + float64(bn.b)*float64(bn.count)) / total
		c.weight = total
	}
	return cls
}

// suggestK cross-checks the greedy cluster count against two
// independent signals: a weighted dominant-color extraction
// (cenkalti/dominantcolor) and an elbow-method sweep over
// muesli/kmeans, both run on the same pixel data the histogram was
// built from. Neither signal overrides the documented preset decision
// table above; they only refine the numeric suggestion a caller feeds
// into the Palette Builder.
func suggestK(data []byte, w, h int, greedy []cluster, presetTag string) int {
	base := len(greedy)
	if base < 1 {
		base = 1
	}
	if base > 64 {
		base = 64
	}

	img := toImage(data, w, h)
	dominant := dominantcolor.FindWeight(img, max1(base*2))
	domCount := len(dominant)

	elbow := kmeansElbow(data, w, h, min(base, 16))

	k := base
	if domCount > 0 {
		k = (k + domCount) / 2
	}
	if elbow > 0 {
		k = (k + elbow) / 2
	}

	switch presetTag {
	case "lineart":
		k = min(k, 4)
	case "pixel":
		k = clampInt(k, 4, 32)
	case "photo":
		k = clampInt(k, 16, 64)
	}
	return clampInt(k, 1, 64)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toImage(data []byte, w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, data)
	return img
}

// kmeansElbow runs muesli/kmeans over a capped sample for a range of K
// and returns the K at which adding another cluster stops meaningfully
// reducing within-cluster variance (the classic elbow heuristic).
func kmeansElbow(data []byte, w, h, maxK int) int {
	if maxK < 2 {
		return maxK
	}
	obs := sampleObservations(data, w, h, 3000)
	if len(obs) < maxK {
		return len(obs)
	}

	var prevWCSS float64
	best := maxK
	for k := 2; k <= maxK; k++ {
		km := kmeans.New()
		cs, err := km.Partition(obs, k)
		if err != nil {
			continue
		}
		wcss := withinClusterSS(cs)
		if k > 2 && prevWCSS > 0 {
			drop := (prevWCSS - wcss) / prevWCSS
			if drop < 0.1 {
				best = k - 1
				break
			}
		}
		prevWCSS = wcss
		best = k
	}
	return best
}

func withinClusterSS(cs clusters.Clusters) float64 {
	total := 0.0
	for _, c := range cs {
		for _, o := range c.Observations {
			d := o.Distance(c.Center)
			total += d * d
		}
	}
	return total
}

func sampleObservations(data []byte, w, h, maxSamples int) clusters.Observations {
	n := w * h
	step := 1
	if n > maxSamples {
		step = n / maxSamples
		if step < 1 {
			step = 1
		}
	}
	obs := make(clusters.Observations, 0, maxSamples)
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if i%step == 0 {
				r, g, b, a := raster.At(data, w, x, y)
				if raster.Opaque(a) {
					obs = append(obs, clusters.Coordinates{float64(r), float64(g), float64(b)})
				}
			}
			i++
		}
	}
	return obs
}
