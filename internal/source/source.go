// Package source enumerates and decodes the images a slideshow is built
// from: plain image files, image folders and PDF decks.
package source

import (
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
)

// Source is an ordered list of decodable images.
type Source interface {
	Len() int
	Name(index int) string
	// Decode fails with an *apperr.AssetError naming the item.
	Decode(index int) (image.Image, error)
	Close() error
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImage reports whether path has a supported image extension, in any case.
func IsImage(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Open builds one source from files and folders, in argument order. Folders
// contribute their images sorted by name; PDFs contribute one image per page.
// A PDF that cannot be opened stays in the list and fails on Decode.
func Open(paths []string, dpi int) (Source, error) {
	if len(paths) == 0 {
		return nil, apperr.Configf("images", "no input paths given")
	}
	var parts multi
	var files []string
	flush := func() {
		if len(files) > 0 {
			parts = append(parts, &ImageSource{paths: files})
			files = nil
		}
	}

	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			parts.Close()
			return nil, apperr.Configf("images", "%v", err)
		}
		switch {
		case fi.IsDir():
			found, err := listImages(p)
			if err != nil {
				parts.Close()
				return nil, errors.Wrapf(err, "list %s", p)
			}
			files = append(files, found...)
		case isPDF(p):
			flush()
			pdf, err := NewPDFSource(p, dpi)
			if err != nil {
				parts = append(parts, failed{path: p, err: err})
				continue
			}
			parts = append(parts, pdf)
		default:
			files = append(files, p)
		}
	}
	flush()

	if len(parts) == 1 {
		return parts[0], nil
	}
	return parts, nil
}

func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && IsImage(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// multi concatenates sources.
type multi []Source

func (m multi) Len() int {
	n := 0
	for _, s := range m {
		n += s.Len()
	}
	return n
}

func (m multi) locate(index int) (Source, int) {
	for _, s := range m {
		if index < s.Len() {
			return s, index
		}
		index -= s.Len()
	}
	return nil, -1
}

func (m multi) Name(index int) string {
	s, i := m.locate(index)
	if s == nil {
		return ""
	}
	return s.Name(i)
}

func (m multi) Decode(index int) (image.Image, error) {
	s, i := m.locate(index)
	if s == nil {
		return nil, errors.Errorf("index %d out of range", index)
	}
	return s.Decode(i)
}

func (m multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// failed is a single entry that could not be opened.
type failed struct {
	path string
	err  error
}

func (f failed) Len() int        { return 1 }
func (f failed) Name(int) string { return f.path }
func (f failed) Close() error    { return nil }

func (f failed) Decode(int) (image.Image, error) {
	return nil, &apperr.AssetError{Path: f.path, Err: f.err}
}
