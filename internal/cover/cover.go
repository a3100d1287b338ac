// Package cover builds the title slide from the first image of a run.
package cover

import (
	"image"
	"image/color"
	"log"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/Tala2812/Vertical-Video-Maker/internal/frame"
)

// Style controls the cover caption.
type Style struct {
	// Anchor is the top-left corner of the text block. Its X also sets the
	// horizontal margin the text has to fit in.
	Anchor       image.Point
	Sizes        []float64
	FontPath     string
	ShadowOffset int
	ShadowColor  color.Color
	TextColor    color.Color
	LineSpacing  float64
}

func DefaultStyle() Style {
	return Style{
		Anchor:       image.Pt(50, 50),
		Sizes:        []float64{96, 80, 64, 48, 36, 28, 20, 14},
		ShadowOffset: 2,
		ShadowColor:  color.NRGBA{0, 0, 0, 160},
		TextColor:    color.White,
		LineSpacing:  1.2,
	}
}

type Builder struct {
	Normalizer *frame.Normalizer
	Style      Style
}

// NewBuilder prepares a cover of width x height over a blurred copy of the
// source. Sources smaller than the frame are not enlarged.
func NewBuilder(width, height int, blurRadius float64, style Style) *Builder {
	n := frame.NewNormalizer(width, height, frame.BlurFill{Radius: blurRadius})
	n.Upscale = false
	return &Builder{Normalizer: n, Style: style}
}

// Build normalizes first and writes text on it. Empty text leaves the
// picture alone.
func (b *Builder) Build(first image.Image, text string) (*image.NRGBA, error) {
	if first == nil {
		return nil, errors.New("cover: no source image")
	}
	canvas := b.Normalizer.Normalize(first)
	text = strings.TrimSpace(text)
	if text == "" {
		return canvas, nil
	}

	lines := strings.Split(text, "\n")
	face := b.pickFace(lines, canvas.Bounds().Dx())
	defer face.Close()

	b.drawLines(canvas, face, lines)
	return canvas, nil
}

func (b *Builder) drawLines(dst *image.NRGBA, face font.Face, lines []string) {
	st := b.Style
	m := face.Metrics()
	spacing := st.LineSpacing
	if spacing <= 0 {
		spacing = 1
	}
	step := fixed.Int26_6(float64(m.Height) * spacing)
	shadow := st.ShadowColor
	if shadow == nil {
		shadow = color.NRGBA{0, 0, 0, 160}
	}
	fg := st.TextColor
	if fg == nil {
		fg = color.White
	}

	d := &font.Drawer{Dst: dst, Face: face}
	for i, line := range lines {
		base := fixed.P(st.Anchor.X, st.Anchor.Y).Add(fixed.Point26_6{Y: m.Ascent + step*fixed.Int26_6(i)})

		if off := st.ShadowOffset; off > 0 {
			d.Src = image.NewUniform(shadow)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					d.Dot = base.Add(fixed.P(dx*off, dy*off))
					d.DrawString(line)
				}
			}
		}

		d.Src = image.NewUniform(fg)
		d.Dot = base
		d.DrawString(line)
	}
}

// pickFace returns the largest configured size whose widest line fits
// between the margins. The bundled Go Bold face is used when no font file is
// set or it cannot be read; the bitmap face is the last resort.
func (b *Builder) pickFace(lines []string, width int) font.Face {
	f, err := b.loadFont()
	if err != nil {
		log.Printf("[!] Cover font unavailable, using bitmap face: %v", err)
		return basicfont.Face7x13
	}

	maxWidth := width - 2*b.Style.Anchor.X
	sizes := b.Style.Sizes
	if len(sizes) == 0 {
		sizes = DefaultStyle().Sizes
	}

	var face font.Face
	for _, size := range sizes {
		if face != nil {
			face.Close()
		}
		face, err = opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Printf("[!] Cover font size %.0f failed: %v", size, err)
			face = nil
			continue
		}
		if widest(face, lines) <= maxWidth {
			return face
		}
	}
	if face == nil {
		return basicfont.Face7x13
	}
	return face
}

func (b *Builder) loadFont() (*opentype.Font, error) {
	if b.Style.FontPath != "" {
		data, err := os.ReadFile(b.Style.FontPath)
		if err == nil {
			var f *opentype.Font
			if f, err = opentype.Parse(data); err == nil {
				return f, nil
			}
		}
		log.Printf("[!] Cannot use font %s, falling back to Go Bold: %v", b.Style.FontPath, err)
	}
	return opentype.Parse(gobold.TTF)
}

func widest(face font.Face, lines []string) int {
	w := 0
	for _, line := range lines {
		if lw := font.MeasureString(face, line).Ceil(); lw > w {
			w = lw
		}
	}
	return w
}

// Save writes the cover as JPEG or PNG depending on the extension of path.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(92)); err != nil {
		return errors.Wrapf(err, "save cover %s", path)
	}
	return nil
}
