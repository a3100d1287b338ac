package timeline

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/Tala2812/Vertical-Video-Maker/internal/system"
)

// Renderer rasterizes a segment into RGBA canvases. It is not safe for
// concurrent use; the returned canvas is reused and only valid until the
// next call.
type Renderer struct {
	seg    Segment
	base   *image.Uniform
	canvas *image.RGBA

	lastKey []layerKey
	valid   bool
}

type layerKey struct {
	index int
	state State
}

// NewRenderer renders seg on top of the background color bg.
func NewRenderer(seg Segment, bg color.Color) *Renderer {
	if bg == nil {
		bg = color.Black
	}
	return &Renderer{
		seg:  seg,
		base: image.NewUniform(bg),
	}
}

// Size is the frame size of the rendered segment.
func (r *Renderer) Size() image.Point { return r.seg.Size }

// FrameAt draws the segment at time t. Consecutive calls whose visible
// layers and motion states are unchanged return the previous canvas without
// redrawing.
func (r *Renderer) FrameAt(t float64) *image.RGBA {
	return r.FrameInto(nil, t)
}

// FrameInto is FrameAt with a caller-provided canvas. A nil dst uses the
// renderer's own buffer. A dst of the wrong size is replaced.
func (r *Renderer) FrameInto(dst *image.RGBA, t float64) *image.RGBA {
	key := r.keyAt(t)

	if dst == nil {
		if r.canvas == nil {
			r.canvas = system.GetImage(image.Rectangle{Max: r.seg.Size})
		}
		dst = r.canvas
	}
	if dst.Bounds().Size() != r.seg.Size {
		dst = image.NewRGBA(image.Rectangle{Max: r.seg.Size})
	}

	if dst == r.canvas && r.valid && sameKeys(key, r.lastKey) {
		return dst
	}

	bounds := dst.Bounds()
	draw.Draw(dst, bounds, r.base, image.Point{}, draw.Src)
	for _, k := range key {
		r.drawLayer(dst, r.seg.Layers[k.index], k.state)
	}

	if dst == r.canvas {
		r.lastKey = key
		r.valid = true
	}
	return dst
}

// Close returns the internal canvas to the shared pool.
func (r *Renderer) Close() {
	if r.canvas != nil {
		system.PutImage(r.canvas)
		r.canvas = nil
		r.valid = false
	}
}

func (r *Renderer) keyAt(t float64) []layerKey {
	var key []layerKey
	for i, l := range r.seg.Layers {
		if !l.activeAt(t) {
			continue
		}
		key = append(key, layerKey{index: i, state: l.StateAt(t, r.seg.Size)})
	}
	return key
}

func (r *Renderer) drawLayer(dst *image.RGBA, l Layer, st State) {
	if st.Alpha == 0 {
		return
	}
	bounds := dst.Bounds()
	if l.IsFiller() {
		draw.Draw(dst, bounds, image.NewUniform(l.Fill), image.Point{}, draw.Over)
		return
	}

	src := l.Image
	sb := src.Bounds()
	// Layers smaller than the frame are centered.
	origin := image.Pt((r.seg.Size.X-sb.Dx())/2, (r.seg.Size.Y-sb.Dy())/2).Add(st.Offset)
	rect := image.Rectangle{Min: origin, Max: origin.Add(sb.Size())}.Intersect(bounds)
	if rect.Empty() {
		return
	}
	sp := sb.Min.Add(rect.Min.Sub(origin))

	if st.Alpha == 255 {
		draw.Draw(dst, rect, src, sp, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: st.Alpha})
	draw.DrawMask(dst, rect, src, sp, mask, image.Point{}, draw.Over)
}

func sameKeys(a, b []layerKey) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
