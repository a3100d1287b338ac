package timeline

import (
	"fmt"
	"image/color"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
)

// Kind selects the transition between two adjacent slides.
type Kind int

const (
	None Kind = iota
	Fade
	SlideRight
	SlideDown
)

var kindNames = map[Kind]string{
	None:       "none",
	Fade:       "fade",
	SlideRight: "slide-right",
	SlideDown:  "slide-down",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a normalized transition name to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return None, apperr.Configf("transition", "unknown transition %q", name)
}

// Spec is a transition kind plus the time both slides share.
type Spec struct {
	Kind    Kind
	Overlap float64
}

// Effective reports the overlap actually applied; cuts never overlap.
func (s Spec) Effective() float64 {
	if s.Kind == None {
		return 0
	}
	return s.Overlap
}

type composeFunc func(a, b Segment, overlap float64, filler color.Color) Segment

var compositors = map[Kind]composeFunc{
	None:       composeCut,
	Fade:       composeFade,
	SlideRight: composeSlide(EnterFromLeft),
	SlideDown:  composeSlide(EnterFromTop),
}

// Compositor joins segments pairwise. Filler is the neutral color shown
// under transitions.
type Compositor struct {
	Filler color.Color
}

func NewCompositor(filler color.Color) *Compositor {
	if filler == nil {
		filler = color.Black
	}
	return &Compositor{Filler: filler}
}

// Compose appends b to a with the given transition. The result keeps a's
// frame size; b is resized when it differs.
func (c *Compositor) Compose(a, b Segment, spec Spec) (Segment, error) {
	fn, ok := compositors[spec.Kind]
	if !ok {
		return Segment{}, apperr.Configf("transition", "unsupported transition %v", spec.Kind)
	}
	if a.Duration <= 0 || b.Duration <= 0 {
		return Segment{}, apperr.Configf("duration", "segments must have positive duration (got %.3fs and %.3fs)", a.Duration, b.Duration)
	}
	o := spec.Effective()
	if o < 0 {
		return Segment{}, apperr.Configf("overlap", "must not be negative, got %g", o)
	}
	if o >= a.Duration || o >= b.Duration {
		return Segment{}, apperr.Configf("overlap",
			"%.3fs transition does not fit between clips of %.3fs and %.3fs", o, a.Duration, b.Duration)
	}
	if b.Size != a.Size {
		b = b.Resize(a.Size)
	}
	if o == 0 {
		fn = composeCut
	}
	return fn(a, b, o, c.Filler), nil
}

func composeCut(a, b Segment, _ float64, _ color.Color) Segment {
	return join(a, b.Shift(a.Duration))
}

// composeFade: a ends at dA-o/2, a filler covers [dA-o/2, dA) and b fades
// in over [dA-o, dA), so the picture passes through the neutral color.
func composeFade(a, b Segment, o float64, filler color.Color) Segment {
	dA := a.Duration
	head := a.Truncate(dA - o/2)
	head.Layers = append(head.Layers, Layer{
		Label: "filler",
		Fill:  filler,
		Start: dA - o/2,
		End:   dA,
	})
	return join(head, withEntrance(b, FadeIn, o).Shift(dA-o))
}

// composeSlide: a holds until dA-o, then b moves in over a filler.
func composeSlide(m Motion) composeFunc {
	return func(a, b Segment, o float64, filler color.Color) Segment {
		dA := a.Duration
		head := a.Truncate(dA - o)
		head.Layers = append(head.Layers, Layer{
			Label: "filler",
			Fill:  filler,
			Start: dA - o,
			End:   dA,
		})
		return join(head, withEntrance(b, m, o).Shift(dA-o))
	}
}

func withEntrance(s Segment, m Motion, ramp float64) Segment {
	out := s.clone()
	if i := out.Lead(); i >= 0 {
		out.Layers[i].Motion = m
		out.Layers[i].Ramp = ramp
	}
	return out
}

func join(head, tail Segment) Segment {
	out := Segment{
		Size:     head.Size,
		Duration: tail.Duration,
		Layers:   make([]Layer, 0, len(head.Layers)+len(tail.Layers)),
	}
	if head.Duration > out.Duration {
		out.Duration = head.Duration
	}
	out.Layers = append(out.Layers, head.Layers...)
	out.Layers = append(out.Layers, tail.Layers...)
	return out
}
