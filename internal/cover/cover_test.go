package cover

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func source() image.Image {
	return imaging.New(64, 48, color.NRGBA{40, 90, 160, 255})
}

func changedPixels(a, b *image.NRGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if a.NRGBAAt(x, y) != b.NRGBAAt(x, y) {
				n++
			}
		}
	}
	return n
}

func TestBuildWithoutText(t *testing.T) {
	b := NewBuilder(180, 320, 5, DefaultStyle())
	img, err := b.Build(source(), "   ")
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(180, 320) {
		t.Errorf("size = %v", img.Bounds().Size())
	}
	if b.Normalizer.Upscale {
		t.Error("cover should not enlarge small sources")
	}
}

func TestBuildDrawsText(t *testing.T) {
	b := NewBuilder(300, 400, 5, DefaultStyle())
	plain, err := b.Build(source(), "")
	if err != nil {
		t.Fatal(err)
	}
	titled, err := b.Build(source(), "My cover\nsecond line")
	if err != nil {
		t.Fatal(err)
	}

	text := image.Rect(40, 40, 260, 200)
	if changedPixels(plain, titled, text) == 0 {
		t.Error("no text drawn near the anchor")
	}
	bottom := image.Rect(0, 380, 300, 400)
	if n := changedPixels(plain, titled, bottom); n != 0 {
		t.Errorf("%d pixels changed far from the text block", n)
	}
}

func TestPickFaceFitsWidth(t *testing.T) {
	b := NewBuilder(300, 400, 0, DefaultStyle())
	lines := []string{"A fairly long cover title"}
	face := b.pickFace(lines, 300)
	defer face.Close()
	if w := widest(face, lines); w > 300-2*50 {
		t.Errorf("text is %dpx wide, limit %d", w, 200)
	}

	big := b.pickFace([]string{"Hi"}, 1080)
	defer big.Close()
	if big.Metrics().Height.Ceil() <= face.Metrics().Height.Ceil() {
		t.Error("short text on a wide frame should get a larger face")
	}
}

func TestMissingFontFallsBack(t *testing.T) {
	style := DefaultStyle()
	style.FontPath = filepath.Join(t.TempDir(), "missing.ttf")
	b := NewBuilder(200, 300, 0, style)
	if _, err := b.Build(source(), "Title"); err != nil {
		t.Fatalf("missing font should fall back, got %v", err)
	}
}

func TestBuildNilSource(t *testing.T) {
	if _, err := NewBuilder(10, 10, 0, DefaultStyle()).Build(nil, "x"); err == nil {
		t.Error("expected error for nil source")
	}
}

func TestSave(t *testing.T) {
	img := imaging.New(30, 40, color.White)
	for _, name := range []string{"cover.jpg", "cover.png"} {
		path := filepath.Join(t.TempDir(), name)
		if err := Save(img, path); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		back, err := imaging.Open(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if back.Bounds().Size() != image.Pt(30, 40) {
			t.Errorf("%s: size %v", name, back.Bounds().Size())
		}
	}
	if err := Save(img, filepath.Join(t.TempDir(), "cover.bmp2")); err == nil {
		t.Error("expected error for unknown extension")
	}
}
