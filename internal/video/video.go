// Package video encodes a rendered timeline to an H.264/AAC MP4 with ffmpeg.
package video

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/Tala2812/Vertical-Video-Maker/internal/assemble"
	"github.com/Tala2812/Vertical-Video-Maker/internal/config"
	"github.com/Tala2812/Vertical-Video-Maker/internal/system"
)

type Encoder interface {
	Encode(ctx context.Context, r *assemble.Renderable, out string) error
}

type FFmpegEncoder struct {
	Binary     string
	VideoCodec string
	Preset     string
	Quality    int
	Threads    int
	// Progress, when set, is called after every frame handed to ffmpeg.
	Progress func(done, total int)
}

// NewFFmpegEncoder resolves "auto" codec and zero thread settings against the
// host.
func NewFFmpegEncoder(cfg *config.Config) *FFmpegEncoder {
	codec := cfg.VideoEncoder
	if codec == "" || codec == "auto" {
		codec = system.GetBestH264Encoder(cfg.FFmpegPath)
	}
	return &FFmpegEncoder{
		Binary:     cfg.FFmpegPath,
		VideoCodec: codec,
		Preset:     cfg.Preset,
		Quality:    cfg.Quality,
		Threads:    system.EncoderThreads(cfg.Threads),
	}
}

// Encode streams every frame of r into ffmpeg. The video is written next to
// out under a temporary name and renamed once ffmpeg succeeds.
func (e *FFmpegEncoder) Encode(ctx context.Context, r *assemble.Renderable, out string) error {
	if r.Frames() <= 0 {
		return errors.New("nothing to encode: timeline has no frames")
	}
	part := fmt.Sprintf("%s.%s.part", out, uuid.NewString())
	defer func() {
		if err := os.Remove(part); err != nil && !os.IsNotExist(err) {
			log.Printf("[!] Could not remove temporary file %s: %v", part, err)
		}
	}()

	frames := NewFrameReader(r)
	frames.Progress = e.Progress
	defer frames.Close()

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary(), e.buildArgs(r, part)...)
	cmd.Stdin = frames
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "encoding cancelled")
		}
		return errors.Wrapf(err, "ffmpeg failed, output: %s", tail(output.String(), 2000))
	}
	if err := os.Rename(part, out); err != nil {
		return errors.Wrap(err, "move encoded video into place")
	}
	return nil
}

func (e *FFmpegEncoder) binary() string {
	if e.Binary == "" {
		return "ffmpeg"
	}
	return e.Binary
}

func (e *FFmpegEncoder) buildArgs(r *assemble.Renderable, out string) []string {
	size := r.Size()
	streams := []*ffmpeg.Stream{
		ffmpeg.Input("pipe:", ffmpeg.KwArgs{
			"format":    "rawvideo",
			"pix_fmt":   "rgba",
			"s":         fmt.Sprintf("%dx%d", size.X, size.Y),
			"framerate": r.FPS,
		}),
	}

	kwargs := ffmpeg.KwArgs{
		"c:v":      e.VideoCodec,
		"pix_fmt":  "yuv420p",
		"r":        r.FPS,
		"t":        fmt.Sprintf("%.3f", r.Duration()),
		"movflags": "+faststart",
		"format":   "mp4",
	}
	if e.Threads > 0 {
		kwargs["threads"] = e.Threads
	}
	for k, v := range qualityArgs(e.VideoCodec, e.Quality, e.Preset) {
		kwargs[k] = v
	}

	if a := r.Audio; a != nil {
		in := ffmpeg.KwArgs{}
		if a.Loops > 0 {
			in["stream_loop"] = a.Loops
		}
		streams = append(streams, ffmpeg.Input(a.Path, in).Audio())
		kwargs["c:a"] = "aac"
		kwargs["b:a"] = "192k"
	}

	return ffmpeg.Output(streams, out, kwargs).OverWriteOutput().GetArgs()
}

// qualityArgs maps the quality knob onto each encoder's own rate control.
func qualityArgs(codec string, quality int, preset string) ffmpeg.KwArgs {
	switch codec {
	case "h264_videotoolbox":
		if quality <= 0 {
			quality = 75
		}
		return ffmpeg.KwArgs{"b:v": fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		if quality <= 0 {
			quality = 23
		}
		return ffmpeg.KwArgs{"cq": quality}
	default:
		if quality <= 0 {
			quality = 23
		}
		if preset == "" {
			preset = config.DefaultPreset
		}
		return ffmpeg.KwArgs{"crf": quality, "preset": preset}
	}
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
