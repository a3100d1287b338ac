// Package plan exports a timeline as a human readable YAML description.
package plan

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Tala2812/Vertical-Video-Maker/internal/assemble"
)

const Version = "1"

// Plan describes a complete rendered video
type Plan struct {
	Version  string  `yaml:"version"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	FPS      int     `yaml:"fps"`
	Duration float64 `yaml:"duration"` // Total duration in seconds
	Frames   int     `yaml:"frames"`
	Audio    *Audio  `yaml:"audio,omitempty"`
	Slides   []Slide `yaml:"slides"`
	Layers   []Layer `yaml:"layers"`
}

// Slide is one input image and the time it was given
type Slide struct {
	Label    string  `yaml:"label"`
	Duration float64 `yaml:"duration"`
}

// Layer is one visible element of the timeline
type Layer struct {
	Label  string  `yaml:"label"`
	Start  float64 `yaml:"start"`
	End    float64 `yaml:"end"`
	Motion string  `yaml:"motion"`
	Ramp   float64 `yaml:"ramp,omitempty"`
	Filler bool    `yaml:"filler,omitempty"`
}

type Audio struct {
	Path           string  `yaml:"path"`
	SourceDuration float64 `yaml:"source_duration"`
	Loops          int     `yaml:"loops"`
	Duration       float64 `yaml:"duration"`
}

// FromRenderable snapshots r. Times are rounded to the millisecond.
func FromRenderable(r *assemble.Renderable) *Plan {
	size := r.Size()
	p := &Plan{
		Version:  Version,
		Width:    size.X,
		Height:   size.Y,
		FPS:      r.FPS,
		Duration: ms(r.Duration()),
		Frames:   r.Frames(),
	}
	if a := r.Audio; a != nil {
		p.Audio = &Audio{
			Path:           a.Path,
			SourceDuration: ms(a.SourceDuration),
			Loops:          a.Loops,
			Duration:       ms(a.Duration),
		}
	}
	for _, s := range r.Slides {
		p.Slides = append(p.Slides, Slide{Label: s.Label, Duration: ms(s.Duration)})
	}
	for _, l := range r.Timeline.Layers {
		p.Layers = append(p.Layers, Layer{
			Label:  l.Label,
			Start:  ms(l.Start),
			End:    ms(l.End),
			Motion: l.Motion.String(),
			Ramp:   ms(l.Ramp),
			Filler: l.IsFiller(),
		})
	}
	return p
}

func ms(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// DefaultPath is the plan file next to a video: out.mp4 -> out.plan.yaml.
func DefaultPath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + ".plan.yaml"
}

// Marshal renders p as YAML.
func Marshal(p *Plan) ([]byte, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "marshal plan")
	}
	return data, nil
}

// Write writes a plan to a YAML file
func Write(p *Plan, path string) error {
	data, err := Marshal(p)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write plan %s", path)
}

// Read reads a plan from a YAML file
func Read(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read plan %s", path)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "parse plan %s", path)
	}
	return &p, nil
}
