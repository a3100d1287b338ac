package assemble

import (
	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
)

// DurationPolicy decides how long each of n slides is shown.
type DurationPolicy interface {
	Durations(n int) ([]float64, error)
}

// EvenSplit divides Total equally between all slides, cover included.
type EvenSplit struct {
	Total float64
}

func (p EvenSplit) Durations(n int) ([]float64, error) {
	if p.Total <= 0 {
		return nil, apperr.Configf("duration", "total duration must be positive, got %g", p.Total)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = p.Total / float64(n)
	}
	return out, nil
}

// Fixed shows every slide for PerSlide seconds.
type Fixed struct {
	PerSlide float64
}

func (p Fixed) Durations(n int) ([]float64, error) {
	if p.PerSlide <= 0 {
		return nil, apperr.Configf("slide_duration", "must be positive, got %g", p.PerSlide)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = p.PerSlide
	}
	return out, nil
}
