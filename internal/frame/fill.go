package frame

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// FillPolicy paints the canvas behind a letterboxed image.
type FillPolicy interface {
	Background(src image.Image, size image.Point) *image.NRGBA
}

// SolidFill paints a single color.
type SolidFill struct {
	Color color.Color
}

func (f SolidFill) Background(_ image.Image, size image.Point) *image.NRGBA {
	c := f.Color
	if c == nil {
		c = color.White
	}
	return imaging.New(size.X, size.Y, c)
}

// BlurFill stretches the whole source over the canvas, ignoring its aspect
// ratio, and applies a Gaussian blur with sigma = Radius.
type BlurFill struct {
	Radius float64
}

func (f BlurFill) Background(src image.Image, size image.Point) *image.NRGBA {
	bg := imaging.Resize(src, size.X, size.Y, imaging.Lanczos)
	if f.Radius > 0 {
		bg = imaging.Blur(bg, f.Radius)
	}
	// Blurring a source with transparent areas leaves them transparent.
	return imaging.Overlay(imaging.New(size.X, size.Y, color.Black), bg, image.Point{}, 1.0)
}
