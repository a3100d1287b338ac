// Package audio probes background tracks and fits them to a timeline.
package audio

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
)

// Track is an audio file with its probed duration in seconds.
type Track struct {
	Path     string
	Duration float64
}

// Binding describes how a track is laid under a timeline: played Loops extra
// times back to back and cut at Duration.
type Binding struct {
	Path           string
	SourceDuration float64
	Loops          int
	Duration       float64
	Looped         bool
}

// Prober returns ffprobe JSON output for a file.
type Prober func(ctx context.Context, path string) (string, error)

// FFProbe runs ffprobe through ffmpeg-go. A context deadline becomes the
// probe timeout.
func FFProbe(ctx context.Context, path string) (string, error) {
	var timeout time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return "", context.DeadlineExceeded
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
}

// Probe reads the duration of the file at path. Every failure is an
// AudioError.
func Probe(ctx context.Context, path string) (*Track, error) {
	return ProbeWith(ctx, path, FFProbe)
}

func ProbeWith(ctx context.Context, path string, probe Prober) (*Track, error) {
	out, err := probe(ctx, path)
	if err != nil {
		return nil, &apperr.AudioError{Path: path, Err: errors.Wrap(err, "ffprobe")}
	}
	d, err := parseDuration(out)
	if err != nil {
		return nil, &apperr.AudioError{Path: path, Err: err}
	}
	return &Track{Path: path, Duration: d}, nil
}

// parseDuration takes format.duration, falling back to the first audio
// stream when the container does not report one.
func parseDuration(probeJSON string) (float64, error) {
	if !gjson.Valid(probeJSON) {
		return 0, errors.New("ffprobe returned invalid JSON")
	}
	d := gjson.Get(probeJSON, "format.duration").Float()
	if d <= 0 {
		d = gjson.Get(probeJSON, `streams.#(codec_type=="audio").duration`).Float()
	}
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, errors.New("no usable duration")
	}
	return d, nil
}

// Reconcile fits t to a timeline of d seconds. Shorter tracks are looped and
// trimmed, longer ones trimmed. The binding always lasts exactly d.
func Reconcile(t *Track, d float64) *Binding {
	if t == nil || d <= 0 {
		return nil
	}
	b := &Binding{
		Path:           t.Path,
		SourceDuration: t.Duration,
		Duration:       d,
	}
	if t.Duration < d {
		b.Loops = int(math.Ceil(d/t.Duration)) - 1
		b.Looped = b.Loops > 0
	}
	return b
}
