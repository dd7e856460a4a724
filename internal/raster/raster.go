// Package raster holds the flat-buffer pixel helpers shared by every
// pipeline stage. No stage allocates an image.Image for internal
// bookkeeping; everything reads/writes the same W*H*4 byte slice the
// public Image type carries, addressed through these helpers.
package raster

// OpaqueThreshold is the alpha value at and above which a pixel is
// considered opaque (spec §3).
const OpaqueThreshold = 128

// Offset returns the byte offset of pixel (x,y) in a row-major RGBA
// buffer of width w.
func Offset(w, x, y int) int {
	return (y*w + x) * 4
}

// At reads the RGBA channels of pixel (x,y).
func At(data []byte, w, x, y int) (r, g, b, a uint8) {
	o := Offset(w, x, y)
	return data[o], data[o+1], data[o+2], data[o+3]
}

// Opaque reports whether alpha a marks the pixel opaque.
func Opaque(a uint8) bool {
	return a >= OpaqueThreshold
}

// Sentinel is the pixel-color-map value meaning "transparent / not
// assigned" (spec §3).
const Sentinel = 255
