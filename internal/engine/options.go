package engine

import (
	"image"

	"github.com/Tala2812/Vertical-Video-Maker/internal/apperr"
	"github.com/Tala2812/Vertical-Video-Maker/internal/assemble"
	"github.com/Tala2812/Vertical-Video-Maker/internal/config"
	"github.com/Tala2812/Vertical-Video-Maker/internal/cover"
	"github.com/Tala2812/Vertical-Video-Maker/internal/frame"
	"github.com/Tala2812/Vertical-Video-Maker/internal/timeline"
)

// TransitionSpec maps the configured transition and overlap.
func TransitionSpec(cfg *config.Config) (timeline.Spec, error) {
	name, err := config.NormalizeTransition(cfg.Transition)
	if err != nil {
		return timeline.Spec{}, err
	}
	kind, err := timeline.ParseKind(name)
	if err != nil {
		return timeline.Spec{}, err
	}
	return timeline.Spec{Kind: kind, Overlap: cfg.Overlap}, nil
}

// FillPolicy maps the configured background fill.
func FillPolicy(cfg *config.Config) (frame.FillPolicy, error) {
	switch cfg.Fill {
	case config.FillBlur:
		return frame.BlurFill{Radius: cfg.BlurRadius}, nil
	case config.FillSolid:
		c, err := config.ParseColor(cfg.Background)
		if err != nil {
			return nil, apperr.Configf("background", "%v", err)
		}
		return frame.SolidFill{Color: c}, nil
	}
	return nil, apperr.Configf("fill", "unknown fill policy %q", cfg.Fill)
}

// DurationPolicy maps the configured duration mode.
func DurationPolicy(cfg *config.Config) assemble.DurationPolicy {
	if cfg.DurationMode == config.DurationModeFixed {
		return assemble.Fixed{PerSlide: cfg.SlideDuration}
	}
	return assemble.EvenSplit{Total: cfg.TotalDuration}
}

// NewCoverBuilder applies the cover settings to the default caption style.
func NewCoverBuilder(cfg *config.Config) *cover.Builder {
	style := cover.DefaultStyle()
	style.Anchor = image.Pt(cfg.CoverAnchorX, cfg.CoverAnchorY)
	style.ShadowOffset = cfg.ShadowOffset
	style.FontPath = cfg.CoverFont
	return cover.NewBuilder(cfg.Width, cfg.Height, cfg.BlurRadius, style)
}
