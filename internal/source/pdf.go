package source

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/pkg/errors"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
)

var errEmptyImage = errors.New("image has no pixels")

// PDFSource renders every page of a PDF as one slide.
type PDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewPDFSource(path string, dpi int) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, errors.Wrap(err, "open pdf")
	}
	if dpi <= 0 {
		dpi = 150
	}
	return &PDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *PDFSource) Len() int {
	return f.doc.NumPage()
}

func (f *PDFSource) Name(index int) string {
	return fmt.Sprintf("%s#%d", f.path, index+1)
}

func (f *PDFSource) Decode(index int) (image.Image, error) {
	img, err := f.doc.ImageDPI(index, float64(f.dpi))
	if err != nil {
		return nil, &apperr.AssetError{Path: f.Name(index), Err: err}
	}
	return img, nil
}

func (f *PDFSource) Close() error {
	return f.doc.Close()
}
