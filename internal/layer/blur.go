package layer

import (
	"image"
	"image/color"

	"github.com/disintegration/gift"
)

// gaussianBlurGray applies a separable Gaussian blur to a flat grayscale
// field, per SPEC_FULL.md's filtering section.
func gaussianBlurGray(out []uint8, w, h int, sigma float64) []uint8 {
	src := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.SetGray(x, y, color.Gray{Y: out[y*w+x]})
		}
	}

	g := gift.New(gift.GaussianBlur(float32(sigma)))
	dst := image.NewGray(g.Bounds(src.Bounds()))
	g.Draw(dst, src)

	blurred := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			blurred[y*w+x] = dst.GrayAt(x, y).Y
		}
	}
	return blurred
}
