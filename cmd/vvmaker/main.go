package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tala2812/Vertical-Video-Maker/internal/config"
	"github.com/Tala2812/Vertical-Video-Maker/internal/cover"
	"github.com/Tala2812/Vertical-Video-Maker/internal/engine"
	"github.com/Tala2812/Vertical-Video-Maker/internal/plan"
	"github.com/Tala2812/Vertical-Video-Maker/internal/source"
	"github.com/Tala2812/Vertical-Video-Maker/internal/system"
	"github.com/Tala2812/Vertical-Video-Maker/internal/video"
)

var version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "vvmaker",
		Short: "Build vertical slideshow videos from images and a soundtrack",
		Long: `vvmaker turns an ordered list of images into a 1080x1920 H.264/AAC video
with a title cover, transitions between slides and a looped or trimmed
soundtrack.

Examples:
  # Fade between three photos over six seconds with music
  vvmaker render --audio song.mp3 -d 6 -o story.mp4 a.jpg b.png c.jpg

  # Plain slideshow: white background, hard cuts, 4s per image
  vvmaker render --style classic photos/

  # Use every image in input/images and the newest track in input/audio
  vvmaker render`,
		SilenceUsage: true,
		Version:      version,
	}

	renderCmd = &cobra.Command{
		Use:   "render [images, folders or PDFs...]",
		Short: "Render a slideshow video",
		Long: `Render a slideshow video.

Transitions: 1 or fade, 2 or slide-right, 3 or slide-down, none.
Without arguments the images of input/images are used together with the
most recent audio file of input/audio.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return render(cmd.Context(), cfg)
		},
	}

	planCmd = &cobra.Command{
		Use:   "plan [images, folders or PDFs...]",
		Short: "Assemble the timeline without encoding and print it as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			return printPlan(cmd.Context(), cfg)
		},
	}

	coverCmd = &cobra.Command{
		Use:   "cover IMAGE",
		Short: "Build only the cover image",
		Long: `Build only the cover image. IMAGE may be a folder, in which case its most
recently modified image is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildCover(cmd, args[0])
		},
	}
)

func init() {
	for _, c := range []*cobra.Command{renderCmd, planCmd} {
		f := c.Flags()
		f.String("config", "", "YAML project file")
		f.String("audio", "", "Audio track (mp3, wav, ...)")
		f.String("audio-dir", "", "Use the most recent audio file of this folder")
		f.StringP("out", "o", config.DefaultOutput, "Output video path")
		f.Float64P("duration", "d", config.DefaultDuration, "Total duration split across all slides (seconds)")
		f.String("duration-mode", config.DurationModeSplit, "split (total duration) or fixed (per-slide duration)")
		f.Float64("slide-duration", config.DefaultDuration, "Seconds per slide in fixed mode")
		f.Int("fps", config.DefaultFPS, "Frames per second")
		f.Int("width", config.DefaultWidth, "Frame width")
		f.Int("height", config.DefaultHeight, "Frame height")
		f.StringP("transition", "t", config.TransitionFade, "1=fade, 2=slide-right, 3=slide-down, none")
		f.Float64("overlap", config.DefaultOverlap, "Transition length (seconds)")
		f.String("style", "", "Preset: classic or transitions")
		f.String("fill", config.FillBlur, "Letterbox fill: blur or solid")
		f.String("background", config.DefaultBackground, "Solid fill color")
		f.String("cover-text", "", "Caption drawn on the cover")
		f.Bool("no-cover", false, "Do not prepend a cover slide")
		f.String("cover-out", "", "Also save the cover image to this path")
		f.String("encoder", "libx264", "H.264 encoder, or auto to detect hardware encoders")
		f.Int("quality", 0, "Quality (0 = encoder default; x264: CRF, VideoToolbox: bitrate = Q*100kbit/s)")
		f.Int("threads", config.DefaultThreads, "Encoder threads (0 = one per physical core)")
		f.Int("dpi", config.DefaultDPI, "PDF render resolution")
		f.String("plan-out", "", "Write the timeline plan YAML to this path")
	}
	renderCmd.Flags().Bool("stats", false, "Print a performance report")

	coverCmd.Flags().String("text", "", "Caption")
	coverCmd.Flags().StringP("out", "o", config.DefaultCoverOutput, "Output image (jpg or png)")
	coverCmd.Flags().String("font", "", "TrueType font file")
	coverCmd.Flags().Int("width", config.DefaultWidth, "Cover width")
	coverCmd.Flags().Int("height", config.DefaultHeight, "Cover height")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(coverCmd)
}

// loadConfig layers defaults, the YAML file, the environment and finally
// the flags the user actually set.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	f := cmd.Flags()
	cfg := config.Default()
	if path, _ := f.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if f.Changed("style") {
		style, _ := f.GetString("style")
		if err := cfg.ApplyStyle(style); err != nil {
			return nil, err
		}
	}

	str := map[string]*string{
		"audio":         &cfg.AudioPath,
		"out":           &cfg.OutputVideo,
		"duration-mode": &cfg.DurationMode,
		"transition":    &cfg.Transition,
		"fill":          &cfg.Fill,
		"background":    &cfg.Background,
		"cover-text":    &cfg.CoverText,
		"cover-out":     &cfg.CoverOutput,
		"encoder":       &cfg.VideoEncoder,
		"plan-out":      &cfg.PlanOutput,
	}
	for name, dst := range str {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	ints := map[string]*int{
		"fps":     &cfg.FPS,
		"width":   &cfg.Width,
		"height":  &cfg.Height,
		"quality": &cfg.Quality,
		"threads": &cfg.Threads,
		"dpi":     &cfg.DPI,
	}
	for name, dst := range ints {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	floats := map[string]*float64{
		"duration":       &cfg.TotalDuration,
		"slide-duration": &cfg.SlideDuration,
		"overlap":        &cfg.Overlap,
	}
	for name, dst := range floats {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}
	if noCover, _ := f.GetBool("no-cover"); noCover {
		cfg.Cover = false
	}
	if f.Lookup("stats") != nil && f.Changed("stats") {
		cfg.ShowStats, _ = f.GetBool("stats")
	}
	cfg.BuildVersion = version

	var sel source.Selector
	audioDir, _ := f.GetString("audio-dir")
	switch {
	case len(args) > 0:
		sel = source.Literal{Images: args, Audio: cfg.AudioPath}
	case len(cfg.Images) > 0:
		sel = source.Literal{Images: cfg.Images, Audio: cfg.AudioPath}
	default:
		if audioDir == "" {
			audioDir = "input/audio"
		}
		sel = source.Directory{Dir: "input/images", AudioDir: audioDir, Audio: cfg.AudioPath}
		audioDir = ""
	}
	selection, err := sel.Select()
	if err != nil {
		return nil, err
	}
	cfg.Images = selection.Images
	cfg.AudioPath = selection.Audio
	if cfg.AudioPath == "" && audioDir != "" {
		latest, err := system.FindLatestAudio(audioDir)
		if err != nil {
			log.Printf("[!] %v", err)
		} else {
			fmt.Printf("[*] Selected audio: %s\n", latest)
			cfg.AudioPath = latest
		}
	}
	return cfg, cfg.Validate()
}

func newProject(cfg *config.Config) (*engine.VideoProject, error) {
	src, err := source.Open(cfg.Images, cfg.DPI)
	if err != nil {
		return nil, err
	}
	enc := video.NewFFmpegEncoder(cfg)
	if enc.VideoCodec != "libx264" {
		fmt.Printf("[*] Hardware encoder: %s\n", enc.VideoCodec)
	}
	every := cfg.FPS
	enc.Progress = func(done, total int) {
		if done%every == 0 || done == total {
			fmt.Printf("[>] Encoded: %d/%d\n", done, total)
		}
	}
	return engine.NewVideoProject(cfg, src, enc), nil
}

func render(ctx context.Context, cfg *config.Config) error {
	project, err := newProject(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := project.Source.Close(); err != nil {
			log.Printf("[!] Closing sources: %v", err)
		}
	}()
	return project.Run(ctx)
}

func printPlan(ctx context.Context, cfg *config.Config) error {
	project, err := newProject(cfg)
	if err != nil {
		return err
	}
	defer project.Source.Close()

	r, err := project.Prepare(ctx)
	if err != nil {
		return err
	}
	p := plan.FromRenderable(r)
	if cfg.PlanOutput != "" {
		if err := plan.Write(p, cfg.PlanOutput); err != nil {
			return err
		}
		fmt.Printf("[+++] Plan saved: %s\n", cfg.PlanOutput)
		return nil
	}
	data, err := plan.Marshal(p)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func buildCover(cmd *cobra.Command, input string) error {
	f := cmd.Flags()
	cfg := config.Default()
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	cfg.CoverText, _ = f.GetString("text")
	cfg.CoverFont, _ = f.GetString("font")
	cfg.Width, _ = f.GetInt("width")
	cfg.Height, _ = f.GetInt("height")
	out, _ := f.GetString("out")

	path, err := system.FindLatestImage(input)
	if err != nil {
		return err
	}
	img, err := source.NewImageSource(path).Decode(0)
	if err != nil {
		return err
	}
	c, err := engine.NewCoverBuilder(cfg).Build(img, cfg.CoverText)
	if err != nil {
		return err
	}
	if err := cover.Save(c, out); err != nil {
		return err
	}
	fmt.Printf("[+++] Cover saved: %s\n", out)
	return nil
}

func main() {
	log.SetFlags(log.LstdFlags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Printf("[-] Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
