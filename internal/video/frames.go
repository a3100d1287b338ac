package video

import (
	"io"

	"github.com/Tala2812/Vertical-Video-Maker/internal/assemble"
	"github.com/Tala2812/Vertical-Video-Maker/internal/timeline"
)

// FrameReader renders frames on demand and exposes them as a raw RGBA
// byte stream, one frame after another.
type FrameReader struct {
	renderer *timeline.Renderer
	fps      float64
	total    int
	next     int
	buf      []byte

	Progress func(done, total int)
}

func NewFrameReader(r *assemble.Renderable) *FrameReader {
	return &FrameReader{
		renderer: r.Renderer(),
		fps:      float64(r.FPS),
		total:    r.Frames(),
	}
}

func (f *FrameReader) Read(p []byte) (int, error) {
	for len(f.buf) == 0 {
		if f.next >= f.total {
			return 0, io.EOF
		}
		frame := f.renderer.FrameAt(float64(f.next) / f.fps)
		f.buf = frame.Pix
		f.next++
	}
	n := copy(p, f.buf)
	f.buf = f.buf[n:]
	if len(f.buf) == 0 && f.Progress != nil {
		f.Progress(f.next, f.total)
	}
	return n, nil
}

func (f *FrameReader) Close() error {
	f.renderer.Close()
	return nil
}
