// Package frame fits source images into a fixed output frame without
// cropping or distortion.
package frame

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Normalizer produces frames of exactly Size.
type Normalizer struct {
	Size image.Point
	Fill FillPolicy
	// Upscale enlarges images smaller than Size. When false the image keeps
	// its original size if it already fits (thumbnail behaviour).
	Upscale bool
}

func NewNormalizer(width, height int, fill FillPolicy) *Normalizer {
	return &Normalizer{
		Size:    image.Pt(width, height),
		Fill:    fill,
		Upscale: true,
	}
}

// FitSize returns the largest size with the source aspect ratio that fits in
// W x H. Wider-than-target images are limited by width, the rest by height.
func FitSize(w, h, W, H int) (int, int) {
	if w <= 0 || h <= 0 {
		return W, H
	}
	imgRatio := float64(w) / float64(h)
	targetRatio := float64(W) / float64(H)

	var nw, nh int
	if imgRatio > targetRatio {
		nw = W
		nh = int(math.Round(float64(W) / imgRatio))
	} else {
		nh = H
		nw = int(math.Round(float64(H) * imgRatio))
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	if nw > W {
		nw = W
	}
	if nh > H {
		nh = H
	}
	return nw, nh
}

// Normalize returns an opaque frame of n.Size with img centered on the
// fill policy's background.
func (n *Normalizer) Normalize(img image.Image) *image.NRGBA {
	W, H := n.Size.X, n.Size.Y
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	nw, nh := FitSize(w, h, W, H)
	if !n.Upscale && w <= W && h <= H {
		nw, nh = w, h
	}

	fill := n.Fill
	if fill == nil {
		fill = SolidFill{}
	}
	canvas := fill.Background(img, n.Size)

	scaled := img
	if nw != w || nh != h {
		scaled = imaging.Resize(img, nw, nh, imaging.Lanczos)
	}

	pos := image.Pt((W-nw)/2, (H-nh)/2)
	return imaging.Overlay(canvas, scaled, pos, 1.0)
}
