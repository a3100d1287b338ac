// Package assemble turns an ordered list of frames into a single renderable
// timeline with its audio binding.
package assemble

import (
	"image"
	"image/color"
	"math"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
	"github.com/Tala2812/Vertical-Video-Maker/internal/audio"
	"github.com/Tala2812/Vertical-Video-Maker/internal/timeline"
)

// Frame is a normalized image waiting for its duration.
type Frame struct {
	Image image.Image
	Label string
}

// Renderable is everything the encoder needs. Background shows wherever no
// layer covers the frame.
type Renderable struct {
	Timeline   timeline.Segment
	FPS        int
	Audio      *audio.Binding
	Slides     []timeline.Slide
	Background color.Color
}

// Duration of the video in seconds.
func (r *Renderable) Duration() float64 { return r.Timeline.Duration }

// Frames is the number of video frames, round(duration * fps).
func (r *Renderable) Frames() int {
	return int(math.Round(r.Timeline.Duration * float64(r.FPS)))
}

// Size is the output frame size.
func (r *Renderable) Size() image.Point { return r.Timeline.Size }

// Renderer rasterizes the timeline over the background.
func (r *Renderable) Renderer() *timeline.Renderer {
	return timeline.NewRenderer(r.Timeline, r.Background)
}

type Assembler struct {
	Compositor *timeline.Compositor
	Spec       timeline.Spec
	Durations  DurationPolicy
}

func New(c *timeline.Compositor, spec timeline.Spec, durations DurationPolicy) *Assembler {
	if c == nil {
		c = timeline.NewCompositor(nil)
	}
	return &Assembler{Compositor: c, Spec: spec, Durations: durations}
}

// Assemble assigns durations, folds the slides left to right through the
// compositor and binds track (may be nil) to the resulting length.
func (a *Assembler) Assemble(frames []Frame, track *audio.Track, fps int) (*Renderable, error) {
	if len(frames) == 0 {
		return nil, &apperr.EmptyInputError{}
	}
	if fps <= 0 {
		return nil, apperr.Configf("fps", "must be positive, got %d", fps)
	}
	policy := a.Durations
	if policy == nil {
		policy = Fixed{PerSlide: 1}
	}
	durations, err := policy.Durations(len(frames))
	if err != nil {
		return nil, err
	}

	slides := make([]timeline.Slide, len(frames))
	for i, f := range frames {
		slides[i] = timeline.Slide{Image: f.Image, Duration: durations[i], Label: f.Label}
	}
	if err := a.checkOverlap(slides); err != nil {
		return nil, err
	}

	seg := timeline.FromSlide(slides[0])
	for _, s := range slides[1:] {
		seg, err = a.Compositor.Compose(seg, timeline.FromSlide(s), a.Spec)
		if err != nil {
			return nil, err
		}
	}

	return &Renderable{
		Timeline:   seg,
		FPS:        fps,
		Audio:      audio.Reconcile(track, seg.Duration),
		Slides:     slides,
		Background: a.Compositor.Filler,
	}, nil
}

// checkOverlap rejects an overlap that does not fit inside every slide
// taking part in a transition, before any compositing starts.
func (a *Assembler) checkOverlap(slides []timeline.Slide) error {
	o := a.Spec.Effective()
	if o < 0 {
		return apperr.Configf("overlap", "must not be negative, got %g", o)
	}
	if o == 0 || len(slides) < 2 {
		return nil
	}
	for _, s := range slides {
		if o >= s.Duration {
			return apperr.Configf("overlap",
				"%.3fs transition does not fit in slide %q of %.3fs", o, s.Label, s.Duration)
		}
	}
	return nil
}
