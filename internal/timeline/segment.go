// Package timeline composes still slides into one time-indexed segment and
// rasterizes it frame by frame.
package timeline

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Slide is one still frame shown for Duration seconds.
type Slide struct {
	Image    image.Image
	Duration float64
	Label    string
}

// Layer is a still image, or a solid filler when Image is nil, visible on
// [Start, End). Motion describes how it enters during [Start, Start+Ramp).
type Layer struct {
	Label  string
	Image  image.Image
	Fill   color.Color
	Start  float64
	End    float64
	Motion Motion
	Ramp   float64
}

func (l Layer) IsFiller() bool { return l.Image == nil }

func (l Layer) activeAt(t float64) bool {
	return t >= l.Start && t < l.End
}

// Segment is an ordered stack of layers on a local time axis starting at 0.
// Later layers are drawn on top of earlier ones.
type Segment struct {
	Size     image.Point
	Duration float64
	Layers   []Layer
}

// FromSlide wraps a single slide into a segment.
func FromSlide(s Slide) Segment {
	b := s.Image.Bounds()
	return Segment{
		Size:     image.Pt(b.Dx(), b.Dy()),
		Duration: s.Duration,
		Layers: []Layer{{
			Label: s.Label,
			Image: s.Image,
			Start: 0,
			End:   s.Duration,
		}},
	}
}

// Truncate cuts the segment at d. Layers starting at or after d are dropped.
func (s Segment) Truncate(d float64) Segment {
	if d >= s.Duration {
		return s.clone()
	}
	out := Segment{Size: s.Size, Duration: d}
	for _, l := range s.Layers {
		if l.Start >= d {
			continue
		}
		if l.End > d {
			l.End = d
		}
		out.Layers = append(out.Layers, l)
	}
	return out
}

// Shift moves every layer by offset seconds.
func (s Segment) Shift(offset float64) Segment {
	out := s.clone()
	for i := range out.Layers {
		out.Layers[i].Start += offset
		out.Layers[i].End += offset
	}
	out.Duration += offset
	return out
}

// Resize scales every image layer to size, ignoring aspect ratio.
func (s Segment) Resize(size image.Point) Segment {
	if s.Size == size {
		return s.clone()
	}
	out := s.clone()
	out.Size = size
	resized := make(map[image.Image]image.Image)
	for i, l := range out.Layers {
		if l.IsFiller() {
			continue
		}
		if r, ok := resized[l.Image]; ok {
			out.Layers[i].Image = r
			continue
		}
		r := imaging.Resize(l.Image, size.X, size.Y, imaging.Lanczos)
		resized[l.Image] = r
		out.Layers[i].Image = r
	}
	return out
}

// Lead returns the index of the first image layer, the one that carries the
// entrance motion when the segment is appended to another.
func (s Segment) Lead() int {
	for i, l := range s.Layers {
		if !l.IsFiller() {
			return i
		}
	}
	return -1
}

func (s Segment) clone() Segment {
	out := s
	out.Layers = append([]Layer(nil), s.Layers...)
	return out
}
