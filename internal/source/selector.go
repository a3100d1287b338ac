package source

import (
	"log"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
	"github.com/Tala2812/Vertical-Video-Maker/internal/system"
)

// Selection is what a run is built from.
type Selection struct {
	Images []string
	Audio  string
}

// Selector decides which files take part in a run.
type Selector interface {
	Select() (*Selection, error)
}

// Literal uses exactly the paths it was given.
type Literal struct {
	Images []string
	Audio  string
}

func (l Literal) Select() (*Selection, error) {
	if len(l.Images) == 0 {
		return nil, apperr.Configf("images", "no images selected")
	}
	return &Selection{Images: append([]string(nil), l.Images...), Audio: l.Audio}, nil
}

// Directory takes every image of Dir and, unless Audio is set, the most
// recently modified audio file of AudioDir (Dir when empty).
type Directory struct {
	Dir      string
	AudioDir string
	Audio    string
}

func (d Directory) Select() (*Selection, error) {
	if d.Dir == "" {
		return nil, apperr.Configf("images", "no image directory given")
	}
	images, err := listImages(d.Dir)
	if err != nil {
		return nil, apperr.Configf("images", "%v", err)
	}
	if len(images) == 0 {
		return nil, apperr.Configf("images", "no jpg/png images in %s", d.Dir)
	}

	sel := &Selection{Images: images, Audio: d.Audio}
	if sel.Audio == "" {
		dir := d.AudioDir
		if dir == "" {
			dir = d.Dir
		}
		if latest, err := system.FindLatestAudio(dir); err == nil {
			log.Printf("[*] Using latest audio file: %s", latest)
			sel.Audio = latest
		}
	}
	return sel, nil
}
