// Package engine runs the whole slideshow pipeline: decode, normalize, cover,
// assemble and encode.
package engine

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
	"github.com/Tala2812/Vertical-Video-Maker/internal/assemble"
	"github.com/Tala2812/Vertical-Video-Maker/internal/audio"
	"github.com/Tala2812/Vertical-Video-Maker/internal/config"
	"github.com/Tala2812/Vertical-Video-Maker/internal/cover"
	"github.com/Tala2812/Vertical-Video-Maker/internal/frame"
	"github.com/Tala2812/Vertical-Video-Maker/internal/plan"
	"github.com/Tala2812/Vertical-Video-Maker/internal/source"
	"github.com/Tala2812/Vertical-Video-Maker/internal/timeline"
	"github.com/Tala2812/Vertical-Video-Maker/internal/video"
)

const coverLabel = "cover"

type VideoProject struct {
	Config  *config.Config
	Source  source.Source
	Encoder video.Encoder
	// Probe reads the audio track; audio.Probe when nil.
	Probe func(ctx context.Context, path string) (*audio.Track, error)

	stats Stats
}

// Stats are the timings of the last run.
type Stats struct {
	Decoded  int
	Skipped  int
	Frames   int
	Prepare  time.Duration
	Encode   time.Duration
	Total    time.Duration
	Duration float64
}

func NewVideoProject(cfg *config.Config, src source.Source, enc video.Encoder) *VideoProject {
	return &VideoProject{
		Config:  cfg,
		Source:  src,
		Encoder: enc,
	}
}

func (p *VideoProject) Stats() Stats { return p.stats }

// Run builds the video. Nothing is written to the output path unless every
// step up to encoding succeeded.
func (p *VideoProject) Run(ctx context.Context) error {
	startTime := time.Now()

	r, err := p.Prepare(ctx)
	if err != nil {
		return err
	}

	if p.Config.PlanOutput != "" {
		if err := plan.Write(plan.FromRenderable(r), p.Config.PlanOutput); err != nil {
			log.Printf("[!] Could not write timeline plan: %v", err)
		} else {
			fmt.Printf("[*] Timeline plan: %s\n", p.Config.PlanOutput)
		}
	}

	if dir := filepath.Dir(p.Config.OutputVideo); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create output folder %s", dir)
		}
	}

	fmt.Printf("[*] Encoding %d frames (%.2fs) to %s...\n", r.Frames(), r.Duration(), p.Config.OutputVideo)
	encodeStart := time.Now()
	if err := p.Encoder.Encode(ctx, r, p.Config.OutputVideo); err != nil {
		return errors.Wrap(err, "encode video")
	}
	p.stats.Encode = time.Since(encodeStart)
	p.stats.Total = time.Since(startTime)

	fmt.Printf("[+++] Done! Video saved: %s\n", p.Config.OutputVideo)
	if p.Config.ShowStats {
		p.report()
	}
	return nil
}

// Prepare runs every step before encoding and returns the assembled
// timeline.
func (p *VideoProject) Prepare(ctx context.Context) (*assemble.Renderable, error) {
	start := time.Now()
	cfg := p.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	spec, err := TransitionSpec(cfg)
	if err != nil {
		return nil, err
	}
	fill, err := FillPolicy(cfg)
	if err != nil {
		return nil, err
	}
	filler, err := config.ParseColor(cfg.FillerColor)
	if err != nil {
		return nil, apperr.Configf("filler_color", "%v", err)
	}

	fmt.Println("--- [VERTICAL VIDEO MAKER] ---")
	fmt.Printf("[*] Images: %d | Audio: %s\n", p.Source.Len(), orNone(cfg.AudioPath))
	fmt.Printf("[*] Resolution: %dx%d @ %d FPS | Transition: %s (%.2fs) | Fill: %s\n",
		cfg.Width, cfg.Height, cfg.FPS, spec.Kind, spec.Effective(), cfg.Fill)
	fmt.Println("------------------------------")

	frames, err := p.decodeFrames(ctx, frame.NewNormalizer(cfg.Width, cfg.Height, fill))
	if err != nil {
		return nil, err
	}

	var track *audio.Track
	if cfg.AudioPath != "" {
		probe := p.Probe
		if probe == nil {
			probe = audio.Probe
		}
		track, err = probe(ctx, cfg.AudioPath)
		if err != nil {
			return nil, err
		}
		fmt.Printf("[*] Audio: %s (%.2fs)\n", track.Path, track.Duration)
	}

	a := assemble.New(timeline.NewCompositor(filler), spec, DurationPolicy(cfg))
	r, err := a.Assemble(frames, track, cfg.FPS)
	if err != nil {
		var empty *apperr.EmptyInputError
		if errors.As(err, &empty) {
			empty.Skipped = p.stats.Skipped
		}
		return nil, err
	}
	if r.Audio != nil && r.Audio.Looped {
		fmt.Printf("[*] Audio looped %d extra time(s) to %.2fs\n", r.Audio.Loops, r.Audio.Duration)
	}

	p.stats.Frames = r.Frames()
	p.stats.Duration = r.Duration()
	p.stats.Prepare = time.Since(start)
	return r, nil
}

// decodeFrames normalizes every readable image and puts the cover in front.
// Unreadable images are logged and skipped.
func (p *VideoProject) decodeFrames(ctx context.Context, n *frame.Normalizer) ([]assemble.Frame, error) {
	cfg := p.Config
	var frames []assemble.Frame
	coverDone := !cfg.Cover
	p.stats.Decoded, p.stats.Skipped = 0, 0

	total := p.Source.Len()
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := p.Source.Name(i)
		img, err := p.Source.Decode(i)
		if err != nil {
			if apperr.IsFatal(err) {
				return nil, err
			}
			log.Printf("[!] Skipping %s: %v", name, err)
			p.stats.Skipped++
			continue
		}

		if !coverDone {
			coverDone = true
			if c, err := p.buildCover(img); err != nil {
				log.Printf("[!] Cover skipped: %v", err)
			} else {
				frames = append(frames, assemble.Frame{Image: c, Label: coverLabel})
			}
		}

		frames = append(frames, assemble.Frame{Image: n.Normalize(img), Label: filepath.Base(name)})
		p.stats.Decoded++
		fmt.Printf("[>] Prepared: %d/%d\n", i+1, total)
	}
	return frames, nil
}

func (p *VideoProject) buildCover(first image.Image) (*image.NRGBA, error) {
	cfg := p.Config
	c, err := NewCoverBuilder(cfg).Build(first, cfg.CoverText)
	if err != nil {
		return nil, err
	}
	if cfg.CoverOutput != "" {
		if err := cover.Save(c, cfg.CoverOutput); err != nil {
			log.Printf("[!] %v", err)
		} else {
			fmt.Printf("[*] Cover saved: %s\n", cfg.CoverOutput)
		}
	}
	return c, nil
}

func (p *VideoProject) report() {
	st := p.stats
	fps := 0.0
	if st.Total > 0 {
		fps = float64(st.Frames) / st.Total.Seconds()
	}
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Images: %d decoded, %d skipped\n"+
			"Video: %.2fs, %d frames\n"+
			"Preparation: %.2fs\n"+
			"Encoding: %.2fs\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, st.Decoded, st.Skipped, st.Duration, st.Frames,
		st.Prepare.Seconds(), st.Encode.Seconds(), st.Total.Seconds(), fps,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Output: %s | Images: %d | Frames: %d | Total: %.2fs | Encode: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.OutputVideo),
		st.Decoded,
		st.Frames,
		st.Total.Seconds(),
		st.Encode.Seconds(),
		fps,
	)
	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Could not write benchmark.log: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(logEntry); err != nil {
		fmt.Printf("[!] Could not write benchmark.log: %v\n", err)
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
