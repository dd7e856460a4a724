// Package svgout serializes a pipeline.Result into an SVG string. The
// spec treats this as a trivial, out-of-scope component; no templating
// library is pulled in for a fixed three-element tag shape.
package svgout

import (
	"strconv"
	"strings"

	"github.com/rastertrace/vtracer/internal/fit"
	"github.com/rastertrace/vtracer/internal/geom"
	"github.com/rastertrace/vtracer/internal/palette"
	"github.com/rastertrace/vtracer/internal/pipeline"
)

// Render builds the SVG document for one pipeline result.
func Render(res pipeline.Result) string {
	var b strings.Builder

	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="`)
	writeInt(&b, res.SourceW)
	b.WriteString(`" height="`)
	writeInt(&b, res.SourceH)
	b.WriteString(`" viewBox="0 0 `)
	writeInt(&b, res.WorkW)
	b.WriteByte(' ')
	writeInt(&b, res.WorkH)
	b.WriteString(`">`)

	bg := "#ffffff"
	if len(res.Palette) > 0 {
		bg = hexColor(res.Palette[res.Palette.Brightest()])
	}
	b.WriteString(`<rect width="100%" height="100%" fill="`)
	b.WriteString(bg)
	b.WriteString(`"/>`)

	for i := len(res.Layers) - 1; i >= 0; i-- {
		writeLayer(&b, res.Layers[i])
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func writeLayer(b *strings.Builder, l pipeline.Layer) {
	if len(l.Paths) == 0 {
		return
	}

	var d strings.Builder
	hasHole := false
	gapFill := false
	for _, p := range l.Paths {
		writeSubpath(&d, p)
		if p.IsHole {
			hasHole = true
		}
		if p.GapFill {
			gapFill = true
		}
	}

	fill := hexColor(l.Color)
	b.WriteString(`<path d="`)
	b.WriteString(d.String())
	b.WriteString(`" fill="`)
	b.WriteString(fill)
	b.WriteByte('"')
	if hasHole {
		b.WriteString(` fill-rule="evenodd"`)
	}
	if gapFill {
		b.WriteString(` stroke="`)
		b.WriteString(fill)
		b.WriteString(`" stroke-width="1" stroke-linejoin="round"`)
	}
	b.WriteString(`/>`)
}

func writeSubpath(d *strings.Builder, p pipeline.Path) {
	if len(p.Cubics) > 0 {
		writeCubicSubpath(d, p.Cubics)
		return
	}
	writePolygonSubpath(d, p.Points)
}

func writeCubicSubpath(d *strings.Builder, cubics []fit.Cubic) {
	d.WriteString("M")
	writePoint(d, cubics[0].P0)
	for _, c := range cubics {
		d.WriteString("C")
		writePoint(d, c.P1)
		d.WriteByte(' ')
		writePoint(d, c.P2)
		d.WriteByte(' ')
		writePoint(d, c.P3)
	}
	d.WriteString("Z")
}

func writePolygonSubpath(d *strings.Builder, pts []geom.Point) {
	if len(pts) == 0 {
		return
	}
	d.WriteString("M")
	writePoint(d, pts[0])
	for _, p := range pts[1:] {
		d.WriteString("L")
		writePoint(d, p)
	}
	d.WriteString("Z")
}

func writePoint(d *strings.Builder, p geom.Point) {
	d.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
	d.WriteByte(',')
	d.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
}

func writeInt(b *strings.Builder, v int) {
	b.WriteString(strconv.Itoa(v))
}

func hexColor(c palette.Color) string {
	const hexDigits = "0123456789abcdef"
	buf := [7]byte{'#'}
	buf[1], buf[2] = hexDigits[c.R>>4], hexDigits[c.R&0xf]
	buf[3], buf[4] = hexDigits[c.G>>4], hexDigits[c.G&0xf]
	buf[5], buf[6] = hexDigits[c.B>>4], hexDigits[c.B&0xf]
	return string(buf[:])
}
