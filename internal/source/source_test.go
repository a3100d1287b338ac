package source

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
)

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := imaging.Save(imaging.New(w, h, color.NRGBA{10, 20, 30, 255}), path); err != nil {
		t.Fatal(err)
	}
}

func TestIsImage(t *testing.T) {
	for name, want := range map[string]bool{
		"a.jpg": true, "b.JPEG": true, "c.Png": true, "d.gif": false, "e.pdf": false, "noext": false,
	} {
		if got := IsImage(name); got != want {
			t.Errorf("IsImage(%q) = %v", name, got)
		}
	}
}

func TestOpenDirectoryAndFiles(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "b.PNG"), 4, 3)
	writeImage(t, filepath.Join(dir, "a.jpg"), 16, 9)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644); err != nil {
		t.Fatal(err)
	}
	single := filepath.Join(t.TempDir(), "square.png")
	writeImage(t, single, 5, 5)

	src, err := Open([]string{single, dir}, 72)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if src.Len() != 3 {
		t.Fatalf("Len = %d, want 3", src.Len())
	}
	wantNames := []string{"square.png", "a.jpg", "b.PNG"}
	wantSizes := []image.Point{{5, 5}, {16, 9}, {4, 3}}
	for i := range wantNames {
		if got := filepath.Base(src.Name(i)); got != wantNames[i] {
			t.Errorf("Name(%d) = %s, want %s", i, got, wantNames[i])
		}
		img, err := src.Decode(i)
		if err != nil {
			t.Fatalf("Decode(%d): %v", i, err)
		}
		if img.Bounds().Size() != wantSizes[i] {
			t.Errorf("Decode(%d) size = %v, want %v", i, img.Bounds().Size(), wantSizes[i])
		}
	}
}

func TestDecodeBrokenImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("not a jpeg"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewImageSource(path).Decode(0)
	var asset *apperr.AssetError
	if !errors.As(err, &asset) || asset.Path != path {
		t.Fatalf("expected AssetError for %s, got %v", path, err)
	}
	if apperr.IsFatal(err) {
		t.Error("a broken image must not abort the run")
	}
}

func TestOpenBrokenPDF(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "deck.pdf")
	if err := os.WriteFile(pdf, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	img := filepath.Join(dir, "a.png")
	writeImage(t, img, 2, 2)

	src, err := Open([]string{pdf, img}, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if src.Len() != 2 {
		t.Fatalf("Len = %d, want 2", src.Len())
	}
	var asset *apperr.AssetError
	if _, err := src.Decode(0); !errors.As(err, &asset) {
		t.Errorf("expected AssetError for broken pdf, got %v", err)
	}
	if _, err := src.Decode(1); err != nil {
		t.Errorf("image after broken pdf: %v", err)
	}
}

func TestOpenRejectsMissingPaths(t *testing.T) {
	var cfgErr *apperr.ConfigError
	if _, err := Open(nil, 0); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for no paths, got %v", err)
	}
	if _, err := Open([]string{filepath.Join(t.TempDir(), "missing.png")}, 0); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for missing path, got %v", err)
	}
}

func TestLiteralSelector(t *testing.T) {
	var cfgErr *apperr.ConfigError
	if _, err := (Literal{}).Select(); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %v", err)
	}
	sel, err := Literal{Images: []string{"a.png"}, Audio: "a.mp3"}.Select()
	if err != nil || len(sel.Images) != 1 || sel.Audio != "a.mp3" {
		t.Errorf("unexpected selection %+v, %v", sel, err)
	}
}

func TestDirectorySelector(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "2.png"), 2, 2)
	writeImage(t, filepath.Join(dir, "1.jpg"), 2, 2)
	if err := os.WriteFile(filepath.Join(dir, "track.mp3"), []byte("id3"), 0644); err != nil {
		t.Fatal(err)
	}

	sel, err := Directory{Dir: dir}.Select()
	if err != nil {
		t.Fatal(err)
	}
	if len(sel.Images) != 2 || filepath.Base(sel.Images[0]) != "1.jpg" {
		t.Errorf("images = %v", sel.Images)
	}
	if filepath.Base(sel.Audio) != "track.mp3" {
		t.Errorf("audio = %q, want track.mp3", sel.Audio)
	}

	sel, err = Directory{Dir: dir, Audio: "explicit.wav"}.Select()
	if err != nil || sel.Audio != "explicit.wav" {
		t.Errorf("explicit audio overridden: %+v, %v", sel, err)
	}

	var cfgErr *apperr.ConfigError
	if _, err := (Directory{Dir: t.TempDir()}).Select(); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for empty folder, got %v", err)
	}
}
