package source

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
)

// ImageSource decodes JPEG and PNG files, applying EXIF orientation.
type ImageSource struct {
	paths []string
}

func NewImageSource(paths ...string) *ImageSource {
	return &ImageSource{paths: paths}
}

func (s *ImageSource) Len() int { return len(s.paths) }

func (s *ImageSource) Name(index int) string { return s.paths[index] }

func (s *ImageSource) Decode(index int) (image.Image, error) {
	path := s.paths[index]
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &apperr.AssetError{Path: path, Err: err}
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, &apperr.AssetError{Path: path, Err: errEmptyImage}
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}
