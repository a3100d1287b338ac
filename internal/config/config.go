package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
)

const (
	DefaultWidth         = 1080
	DefaultHeight        = 1920
	DefaultFPS           = 30
	DefaultDuration      = 4.0
	DefaultOverlap       = 0.5
	DefaultBlurRadius    = 20.0
	DefaultOutput        = "output.mp4"
	DefaultCoverOutput   = "cover.jpg"
	DefaultThreads       = 4
	DefaultPreset        = "fast"
	DefaultDPI           = 150
	DefaultBackground    = "#ffffff"
	DefaultFillerColor   = "#000000"
	DefaultCoverAnchorX  = 50
	DefaultCoverAnchorY  = 50
	DefaultShadowOffset  = 2
	DefaultEnvPrefix     = "VVM_"
	DurationModeSplit    = "split"
	DurationModeFixed    = "fixed"
	FillBlur             = "blur"
	FillSolid            = "solid"
	StyleClassic         = "classic"
	StyleTransitions     = "transitions"
	TransitionNone       = "none"
	TransitionFade       = "fade"
	TransitionSlideRight = "slide-right"
	TransitionSlideDown  = "slide-down"
)

type Config struct {
	Images        []string `yaml:"images"`
	AudioPath     string   `yaml:"audio"`
	OutputVideo   string   `yaml:"output"`
	TotalDuration float64  `yaml:"duration"`
	SlideDuration float64  `yaml:"slide_duration"`
	DurationMode  string   `yaml:"duration_mode"`
	Width         int      `yaml:"width"`
	Height        int      `yaml:"height"`
	FPS           int      `yaml:"fps"`
	Transition    string   `yaml:"transition"`
	Overlap       float64  `yaml:"overlap"`
	Fill          string   `yaml:"fill"`
	Background    string   `yaml:"background"`
	FillerColor   string   `yaml:"filler_color"`
	BlurRadius    float64  `yaml:"blur_radius"`
	DPI           int      `yaml:"dpi"`

	Cover        bool   `yaml:"cover"`
	CoverText    string `yaml:"cover_text"`
	CoverFont    string `yaml:"cover_font"`
	CoverOutput  string `yaml:"cover_output"`
	CoverAnchorX int    `yaml:"cover_anchor_x"`
	CoverAnchorY int    `yaml:"cover_anchor_y"`
	ShadowOffset int    `yaml:"shadow_offset"`

	VideoEncoder string `yaml:"video_encoder"`
	Preset       string `yaml:"preset"`
	Quality      int    `yaml:"quality"`
	Threads      int    `yaml:"threads"`
	FFmpegPath   string `yaml:"ffmpeg"`

	PlanOutput   string `yaml:"plan_output"`
	ShowStats    bool   `yaml:"show_stats"`
	BuildVersion string `yaml:"-"`
}

// Default returns the "transitions" style: blurred fill, fade transitions and
// an even split of the total duration across all slides.
func Default() *Config {
	return &Config{
		OutputVideo:   DefaultOutput,
		TotalDuration: DefaultDuration,
		SlideDuration: DefaultDuration,
		DurationMode:  DurationModeSplit,
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		FPS:           DefaultFPS,
		Transition:    TransitionFade,
		Overlap:       DefaultOverlap,
		Fill:          FillBlur,
		Background:    DefaultBackground,
		FillerColor:   DefaultFillerColor,
		BlurRadius:    DefaultBlurRadius,
		DPI:           DefaultDPI,
		Cover:         true,
		CoverAnchorX:  DefaultCoverAnchorX,
		CoverAnchorY:  DefaultCoverAnchorY,
		ShadowOffset:  DefaultShadowOffset,
		VideoEncoder:  "libx264",
		Preset:        DefaultPreset,
		Threads:       DefaultThreads,
		FFmpegPath:    "ffmpeg",
	}
}

// ApplyStyle switches between the two pipeline variants. "classic" is the
// plain slideshow: white background, hard cuts, fixed time per image.
func (c *Config) ApplyStyle(style string) error {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", StyleTransitions:
		c.Fill = FillBlur
		c.Transition = TransitionFade
		c.DurationMode = DurationModeSplit
	case StyleClassic:
		c.Fill = FillSolid
		c.Transition = TransitionNone
		c.DurationMode = DurationModeFixed
	default:
		return apperr.Configf("style", "unknown style %q (want %s or %s)", style, StyleClassic, StyleTransitions)
	}
	return nil
}

// Load reads a YAML project file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &apperr.ConfigError{Field: path, Reason: err.Error()}
	}
	return cfg, nil
}

// ApplyEnv loads an optional .env file and applies VVM_* overrides.
func (c *Config) ApplyEnv() error {
	_ = godotenv.Load()

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(DefaultEnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	str("AUDIO", &c.AudioPath)
	str("OUTPUT", &c.OutputVideo)
	str("TRANSITION", &c.Transition)
	str("FILL", &c.Fill)
	str("COVER_TEXT", &c.CoverText)
	str("COVER_FONT", &c.CoverFont)
	str("VIDEO_ENCODER", &c.VideoEncoder)
	str("PRESET", &c.Preset)
	str("FFMPEG", &c.FFmpegPath)

	if v, ok := os.LookupEnv(DefaultEnvPrefix + "FPS"); ok && v != "" {
		fps, err := strconv.Atoi(v)
		if err != nil {
			return apperr.Configf(DefaultEnvPrefix+"FPS", "not an integer: %q", v)
		}
		c.FPS = fps
	}
	if v, ok := os.LookupEnv(DefaultEnvPrefix + "DURATION"); ok && v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperr.Configf(DefaultEnvPrefix+"DURATION", "not a number: %q", v)
		}
		c.TotalDuration = d
	}
	if v, ok := os.LookupEnv(DefaultEnvPrefix + "THREADS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.Configf(DefaultEnvPrefix+"THREADS", "not an integer: %q", v)
		}
		c.Threads = n
	}
	return nil
}

// Validate checks everything that can be checked before any image is opened.
// Overlap against actual slide durations is checked by the assembler.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return apperr.Configf("size", "width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return apperr.Configf("fps", "must be positive, got %d", c.FPS)
	}
	if c.OutputVideo == "" {
		return apperr.Configf("output", "output path is empty")
	}
	switch c.DurationMode {
	case DurationModeSplit:
		if c.TotalDuration <= 0 {
			return apperr.Configf("duration", "must be positive, got %g", c.TotalDuration)
		}
	case DurationModeFixed:
		if c.SlideDuration <= 0 {
			return apperr.Configf("slide_duration", "must be positive, got %g", c.SlideDuration)
		}
	default:
		return apperr.Configf("duration_mode", "unknown mode %q", c.DurationMode)
	}
	if _, err := NormalizeTransition(c.Transition); err != nil {
		return err
	}
	if c.Overlap < 0 {
		return apperr.Configf("overlap", "must not be negative, got %g", c.Overlap)
	}
	switch c.Fill {
	case FillBlur:
		if c.BlurRadius < 0 {
			return apperr.Configf("blur_radius", "must not be negative, got %g", c.BlurRadius)
		}
	case FillSolid:
		if _, err := ParseColor(c.Background); err != nil {
			return apperr.Configf("background", "%v", err)
		}
	default:
		return apperr.Configf("fill", "unknown fill policy %q", c.Fill)
	}
	if _, err := ParseColor(c.FillerColor); err != nil {
		return apperr.Configf("filler_color", "%v", err)
	}
	if c.Threads < 0 {
		return apperr.Configf("threads", "must not be negative, got %d", c.Threads)
	}
	return nil
}

// NormalizeTransition accepts the menu numbers 1-3 as well as names.
func NormalizeTransition(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", TransitionFade:
		return TransitionFade, nil
	case "2", TransitionSlideRight, "slideright", "slide_right":
		return TransitionSlideRight, nil
	case "3", TransitionSlideDown, "slidedown", "slide_down":
		return TransitionSlideDown, nil
	case "", "0", TransitionNone:
		return TransitionNone, nil
	}
	return "", apperr.Configf("transition", "invalid choice %q (1=fade, 2=slide-right, 3=slide-down, none)", v)
}

// ParseColor parses #rgb and #rrggbb hex colors.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
