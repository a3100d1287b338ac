package timeline

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func slide(w, h int, c color.NRGBA, d float64, label string) Segment {
	return FromSlide(Slide{Image: fill(w, h, c), Duration: d, Label: label})
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComposeDuration(t *testing.T) {
	c := NewCompositor(color.Black)
	tests := []struct {
		name   string
		kind   Kind
		d1, d2 float64
		o      float64
		want   float64
	}{
		{"fade", Fade, 2, 3, 0.5, 4.5},
		{"slide-right", SlideRight, 1.5, 1.5, 0.5, 2.5},
		{"slide-down", SlideDown, 4, 1, 0.25, 4.75},
		{"cut", None, 2, 3, 0.5, 5},
		{"fade without overlap", Fade, 2, 3, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := slide(10, 20, red, tt.d1, "a")
			b := slide(10, 20, blue, tt.d2, "b")
			seg, err := c.Compose(a, b, Spec{Kind: tt.kind, Overlap: tt.o})
			if err != nil {
				t.Fatalf("Compose failed: %v", err)
			}
			if !almostEqual(seg.Duration, tt.want) {
				t.Errorf("duration = %f, want %f", seg.Duration, tt.want)
			}
		})
	}
}

func TestComposeRejectsLongOverlap(t *testing.T) {
	c := NewCompositor(nil)
	for _, kind := range []Kind{Fade, SlideRight, SlideDown} {
		a := slide(10, 20, red, 1, "a")
		b := slide(10, 20, blue, 0.5, "b")
		_, err := c.Compose(a, b, Spec{Kind: kind, Overlap: 0.5})
		var cfgErr *apperr.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%v: expected ConfigError, got %v", kind, err)
		}
	}

	// A cut ignores the overlap entirely.
	a := slide(10, 20, red, 1, "a")
	b := slide(10, 20, blue, 0.5, "b")
	if _, err := c.Compose(a, b, Spec{Kind: None, Overlap: 0.5}); err != nil {
		t.Errorf("cut should not validate overlap: %v", err)
	}
}

func TestFadeLayout(t *testing.T) {
	c := NewCompositor(color.Black)
	seg, err := c.Compose(slide(10, 20, red, 2, "a"), slide(10, 20, blue, 2, "b"), Spec{Kind: Fade, Overlap: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(seg.Layers) != 3 {
		t.Fatalf("expected a, filler, b layers; got %d", len(seg.Layers))
	}
	a, filler, b := seg.Layers[0], seg.Layers[1], seg.Layers[2]

	if !almostEqual(a.End, 1.75) {
		t.Errorf("a should end at dA-o/2 = 1.75, got %f", a.End)
	}
	if !filler.IsFiller() || !almostEqual(filler.Start, 1.75) || !almostEqual(filler.End, 2) {
		t.Errorf("filler should span [1.75, 2), got [%f, %f)", filler.Start, filler.End)
	}
	if !almostEqual(b.Start, 1.5) || b.Motion != FadeIn || !almostEqual(b.Ramp, 0.5) {
		t.Errorf("b should fade in from 1.5 over 0.5s, got start=%f motion=%v ramp=%f", b.Start, b.Motion, b.Ramp)
	}
}

func TestSlideRightLayout(t *testing.T) {
	c := NewCompositor(color.Black)
	seg, err := c.Compose(slide(10, 20, red, 2, "a"), slide(10, 20, blue, 2, "b"), Spec{Kind: SlideRight, Overlap: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	a, filler, b := seg.Layers[0], seg.Layers[1], seg.Layers[2]
	if !almostEqual(a.End, 1.5) {
		t.Errorf("a should hold until 1.5, got %f", a.End)
	}
	if !almostEqual(filler.Start, 1.5) || !almostEqual(filler.End, 2) {
		t.Errorf("filler should span [1.5, 2), got [%f, %f)", filler.Start, filler.End)
	}
	if b.Motion != EnterFromLeft || !almostEqual(b.Start, 1.5) || !almostEqual(b.End, 3.5) {
		t.Errorf("unexpected b layer: %+v", b)
	}
}

func TestComposeResizesMismatchedClip(t *testing.T) {
	c := NewCompositor(color.Black)
	a := slide(18, 32, red, 2, "a")
	b := slide(40, 40, blue, 2, "b")

	seg, err := c.Compose(a, b, Spec{Kind: SlideRight, Overlap: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if seg.Size != image.Pt(18, 32) {
		t.Errorf("segment size = %v, want first clip size", seg.Size)
	}
	for _, l := range seg.Layers {
		if l.IsFiller() {
			continue
		}
		if l.Image.Bounds().Size() != image.Pt(18, 32) {
			t.Errorf("layer %s has size %v", l.Label, l.Image.Bounds().Size())
		}
	}
}

func TestFoldKeepsOrder(t *testing.T) {
	c := NewCompositor(color.Black)
	seg := slide(10, 20, red, 1.5, "s0")
	for i := 1; i < 4; i++ {
		var err error
		seg, err = c.Compose(seg, slide(10, 20, blue, 1.5, "s"+string(rune('0'+i))), Spec{Kind: Fade, Overlap: 0.5})
		if err != nil {
			t.Fatal(err)
		}
	}
	if !almostEqual(seg.Duration, 4.5) {
		t.Errorf("4 slides of 1.5s with 3 fades: duration %f, want 4.5", seg.Duration)
	}
	var labels []string
	prev := -1.0
	for _, l := range seg.Layers {
		if l.IsFiller() {
			continue
		}
		labels = append(labels, l.Label)
		if l.Start < prev {
			t.Errorf("layer %s starts before its predecessor", l.Label)
		}
		prev = l.Start
	}
	want := []string{"s0", "s1", "s2", "s3"}
	if len(labels) != len(want) {
		t.Fatalf("labels = %v", labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels = %v, want %v", labels, want)
			break
		}
	}
}

func TestTruncateAndShift(t *testing.T) {
	seg := slide(4, 4, red, 2, "a")
	seg.Layers = append(seg.Layers, Layer{Label: "late", Fill: color.White, Start: 1.8, End: 2})

	cut := seg.Truncate(1.5)
	if len(cut.Layers) != 1 || !almostEqual(cut.Layers[0].End, 1.5) || !almostEqual(cut.Duration, 1.5) {
		t.Errorf("unexpected truncation: %+v", cut)
	}
	if len(seg.Layers) != 2 {
		t.Error("Truncate must not modify the receiver")
	}

	moved := cut.Shift(3)
	if !almostEqual(moved.Layers[0].Start, 3) || !almostEqual(moved.Duration, 4.5) {
		t.Errorf("unexpected shift: %+v", moved)
	}
	if cut.Layers[0].Start != 0 {
		t.Error("Shift must not modify the receiver")
	}
}

func TestRenderSlideRight(t *testing.T) {
	c := NewCompositor(color.Black)
	seg, err := c.Compose(slide(10, 4, red, 2, "a"), slide(10, 4, blue, 2, "b"), Spec{Kind: SlideRight, Overlap: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(seg, color.Black)

	if got := r.FrameAt(0.5).RGBAAt(5, 2); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("before transition = %v, want red", got)
	}

	// Halfway: b's right half covers the left half of the frame.
	mid := r.FrameAt(1.75)
	if got := mid.RGBAAt(2, 2); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("left half at midpoint = %v, want blue", got)
	}
	if got := mid.RGBAAt(8, 2); got != black {
		t.Errorf("right half at midpoint = %v, want filler", got)
	}

	if got := r.FrameAt(2.5).RGBAAt(9, 3); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("after transition = %v, want blue", got)
	}
}

func TestRenderSlideDown(t *testing.T) {
	c := NewCompositor(color.Black)
	seg, err := c.Compose(slide(4, 10, red, 2, "a"), slide(4, 10, blue, 2, "b"), Spec{Kind: SlideDown, Overlap: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	mid := NewRenderer(seg, color.Black).FrameAt(1.75)
	if got := mid.RGBAAt(2, 2); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top half at midpoint = %v, want blue", got)
	}
	if got := mid.RGBAAt(2, 8); got != black {
		t.Errorf("bottom half at midpoint = %v, want filler", got)
	}
}

func TestRenderFade(t *testing.T) {
	c := NewCompositor(color.Black)
	seg, err := c.Compose(slide(4, 4, red, 2, "a"), slide(4, 4, blue, 2, "b"), Spec{Kind: Fade, Overlap: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRenderer(seg, color.Black)

	// Quarter of the way in b is ~25% over red.
	early := r.FrameAt(1.625).RGBAAt(1, 1)
	if early.R < 150 || early.B < 40 || early.B > 90 {
		t.Errorf("early fade pixel = %v, want mostly red with some blue", early)
	}

	// Past dA-o/2 only the filler is under b.
	late := r.FrameAt(1.875).RGBAAt(1, 1)
	if late.R != 0 || late.B < 150 {
		t.Errorf("late fade pixel = %v, want blue over black", late)
	}

	if got := r.FrameAt(3).RGBAAt(1, 1); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("after fade = %v, want blue", got)
	}
}

func TestRendererReusesStaticFrames(t *testing.T) {
	r := NewRenderer(slide(4, 4, red, 2, "a"), color.Black)
	first := r.FrameAt(0.1)
	first.SetRGBA(0, 0, color.RGBA{1, 2, 3, 255})
	second := r.FrameAt(0.2)
	if second != first {
		t.Fatal("expected the same canvas")
	}
	// Unchanged layers: the canvas is not redrawn.
	if got := second.RGBAAt(0, 0); got != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("static frame was redrawn: %v", got)
	}
	// Past the end nothing is active and the background is drawn.
	if got := r.FrameAt(5).RGBAAt(0, 0); got != black {
		t.Errorf("after end = %v, want background", got)
	}
}

func TestParseKind(t *testing.T) {
	for k, name := range kindNames {
		got, err := ParseKind(name)
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseKind("wipe"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
