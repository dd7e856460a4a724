package layer

import "github.com/rastertrace/vtracer/internal/raster"

// removeSmallComponents drops 4-connected components of b smaller than
// max(4, floor(largestComponent/minRatio)) (spec §4.4.5).
func removeSmallComponents(b []bool, w, h int, minRatio float64) {
	labels := make([]int, w*h)
	for i := range labels {
		labels[i] = -1
	}

	var sizes []int
	next := 0
	stack := make([]int, 0, 64)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !b[i] || labels[i] != -1 {
				continue
			}
			size := 0
			stack = stack[:0]
			stack = append(stack, i)
			labels[i] = next
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				size++
				cx, cy := cur%w, cur/w
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := cx+d[0], cy+d[1]
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					ni := ny*w + nx
					if b[ni] && labels[ni] == -1 {
						labels[ni] = next
						stack = append(stack, ni)
					}
				}
			}
			sizes = append(sizes, size)
			next++
		}
	}

	if len(sizes) == 0 {
		return
	}
	maxSize := 0
	for _, s := range sizes {
		if s > maxSize {
			maxSize = s
		}
	}
	floor := 4
	if minRatio > 0 {
		f := int(float64(maxSize) / minRatio)
		if f > floor {
			floor = f
		}
	}

	for i, lbl := range labels {
		if lbl >= 0 && sizes[lbl] < floor {
			b[i] = false
		}
	}
}

// closing applies 4-neighborhood dilation followed by erosion, never
// opening (spec §4.4.6).
func closing(b []bool, w, h int) {
	dilated := dilate4(b, w, h)
	eroded := erode4(dilated, w, h)
	copy(b, eroded)
}

func dilate4(b []bool, w, h int) []bool {
	out := make([]bool, len(b))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if b[i] {
				out[i] = true
				continue
			}
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				if b[ny*w+nx] {
					out[i] = true
					break
				}
			}
		}
	}
	return out
}

func erode4(b []bool, w, h int) []bool {
	out := make([]bool, len(b))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !b[i] {
				continue
			}
			keep := true
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				if !b[ny*w+nx] {
					keep = false
					break
				}
			}
			out[i] = keep
		}
	}
	return out
}

// colorConstrainedDilate dilates b by one pixel, but only into pixels
// whose classify map entry is not the sentinel (spec §4.4.7).
func colorConstrainedDilate(b []bool, pixelMap []byte, w, h int) []bool {
	out := make([]bool, len(b))
	copy(out, b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if b[i] || pixelMap[i] == raster.Sentinel {
				continue
			}
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				if b[ny*w+nx] {
					out[i] = true
					break
				}
			}
		}
	}
	return out
}
