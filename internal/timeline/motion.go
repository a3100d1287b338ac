package timeline

import (
	"image"
	"math"
)

// Motion is how a layer enters the frame.
type Motion int

const (
	Static Motion = iota
	FadeIn
	EnterFromLeft
	EnterFromTop
)

func (m Motion) String() string {
	switch m {
	case FadeIn:
		return "fade-in"
	case EnterFromLeft:
		return "enter-left"
	case EnterFromTop:
		return "enter-top"
	default:
		return "static"
	}
}

// State is where and how opaque a layer is drawn at a given moment.
type State struct {
	Offset image.Point
	Alpha  uint8
}

// StateAt evaluates the layer's motion at time t. Progress is linear over
// [Start, Start+Ramp) and clamped to 1 afterwards.
func (l Layer) StateAt(t float64, size image.Point) State {
	p := progress(t, l.Start, l.Ramp)
	switch l.Motion {
	case FadeIn:
		return State{Alpha: uint8(math.Round(lerp(0, 255, p)))}
	case EnterFromLeft:
		return State{Offset: image.Pt(int(math.Round(lerp(-float64(size.X), 0, p))), 0), Alpha: 255}
	case EnterFromTop:
		return State{Offset: image.Pt(0, int(math.Round(lerp(-float64(size.Y), 0, p)))), Alpha: 255}
	default:
		return State{Alpha: 255}
	}
}

func progress(t, start, ramp float64) float64 {
	if ramp <= 0 {
		return 1
	}
	p := (t - start) / ramp
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
