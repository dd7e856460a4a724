package main

import (
	"flag"
	"image"
	"image/draw"
	_ "image/png"
	"log"
	"os"

	"github.com/rastertrace/vtracer"
)

func main() {
	// Parse the input PNG path, preset tag, and output SVG path.
	inPath := flag.String("in", "", "input PNG path")
	outPath := flag.String("out", "out.svg", "output SVG path")
	preset := flag.String("preset", "", "preset tag (empty = auto-detect)")
	flag.Parse()

	if *inPath == "" {
		log.Fatal("vtracer: -in is required")
	}

	// Read the source image.
	img := readImage(*inPath)

	// Run the pipeline under the requested (or auto-detected) preset.
	result, err := vtracer.VectorizeWithPreset(img, *preset)
	if err != nil {
		log.Fatalf("vtracer: %v", err)
	}

	// Write the SVG output.
	if err := os.WriteFile(*outPath, []byte(result.SVG), 0o644); err != nil {
		log.Fatalf("vtracer: writing output: %v", err)
	}
	log.Printf("wrote %s: %d layers, %d paths", *outPath, result.Layers, result.Paths)
}

func readImage(path string) vtracer.Image {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("vtracer: %v", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		log.Fatalf("vtracer: decoding %s: %v", path, err)
	}

	b := src.Bounds()
	rgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

	return vtracer.Image{Width: b.Dx(), Height: b.Dy(), Data: rgba.Pix}
}
