package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Writes synthetic slides in the three aspect ratios a slideshow usually
// mixes, so the normalizer and transitions can be checked by eye.
func main() {
	outDir := flag.String("out", "input/images", "Output folder")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("[-] Cannot create %s: %v", *outDir, err)
	}

	samples := []struct {
		name string
		w, h int
		bg   color.NRGBA
	}{
		{"1_landscape_4x3.png", 1600, 1200, color.NRGBA{235, 240, 250, 255}},
		{"2_wide_16x9.png", 1920, 1080, color.NRGBA{250, 240, 225, 255}},
		{"3_square_1x1.jpg", 1080, 1080, color.NRGBA{225, 250, 235, 255}},
	}

	fmt.Println("=== Sample slide generation ===")
	for i, s := range samples {
		img := createTestImage(s.w, s.h, s.bg)
		path := filepath.Join(*outDir, s.name)
		if err := imaging.Save(img, path); err != nil {
			log.Fatalf("[-] Failed to save %s: %v", path, err)
		}
		fmt.Printf("[%d/%d] %s (%dx%d)\n", i+1, len(samples), path, s.w, s.h)
	}
	fmt.Println("[+++] Done")
}

// createTestImage draws a slide with title, content and footer blocks plus a
// border, so cropping or stretching is easy to spot.
func createTestImage(width, height int, bg color.NRGBA) *image.NRGBA {
	img := imaging.New(width, height, bg)

	border := color.NRGBA{200, 40, 40, 255}
	t := width / 80
	drawRect(img, 0, 0, width, t, border)
	drawRect(img, 0, height-t, width, height, border)
	drawRect(img, 0, 0, t, height, border)
	drawRect(img, width-t, 0, width, height, border)

	// Title and subtitle
	drawRect(img, width/10, height/10, width*9/10, height/5, color.NRGBA{50, 50, 60, 255})
	drawRect(img, width/10, height/4, width*7/10, height*3/10, color.NRGBA{90, 90, 100, 255})

	// Two content columns
	drawRect(img, width/10, height*2/5, width*9/20, height*3/4, color.NRGBA{40, 110, 200, 255})
	drawRect(img, width*11/20, height*2/5, width*9/10, height*3/4, color.NRGBA{40, 170, 90, 255})

	// Footer
	drawRect(img, width/10, height*17/20, width*9/10, height*9/10, color.NRGBA{120, 120, 120, 255})

	return img
}

// drawRect draws a filled rectangle
func drawRect(img *image.NRGBA, x1, y1, x2, y2 int, c color.NRGBA) {
	r := image.Rect(x1, y1, x2, y2).Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}
