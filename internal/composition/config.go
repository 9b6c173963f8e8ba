package composition

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ivlev/reelmotion/internal/captions"
	"github.com/ivlev/reelmotion/internal/director"
)

// ErrInvalidConfig is returned by New and Config.Validate for any construction-time violation.
var ErrInvalidConfig = errors.New("invalid composition config")

// Config is the immutable input of one render session, produced upstream by content generation.
type Config struct {
	HookText    string                `yaml:"hookText" json:"hookText"`
	// Script is shown as static text when WordTimings is empty.
	Script      string                `yaml:"script" json:"script"`
	CTAText     string                `yaml:"ctaText" json:"ctaText"`
	CTAURL      string                `yaml:"ctaUrl,omitempty" json:"ctaUrl,omitempty"`
	WordTimings []captions.WordTiming `yaml:"wordTimings" json:"wordTimings"`
	BrandColors BrandColors           `yaml:"brandColors" json:"brandColors"`
	AudioRef    string                `yaml:"audioRef,omitempty" json:"audioRef,omitempty"`
	Platform    Platform              `yaml:"platform" json:"platform"`
	// Scenes overrides the default Hook -> MainContent -> CTA plan.
	Scenes []director.Scene `yaml:"scenes,omitempty" json:"scenes,omitempty"`
}

// BrandColors are #RRGGBB hex strings.
type BrandColors struct {
	Primary   string `yaml:"primary" json:"primary"`
	Secondary string `yaml:"secondary" json:"secondary"`
	Accent    string `yaml:"accent" json:"accent"`
}

// Platform is the output canvas and timeline length.
type Platform struct {
	Preset              string `yaml:"preset,omitempty" json:"preset,omitempty"`
	Width               int    `yaml:"width" json:"width"`
	Height              int    `yaml:"height" json:"height"`
	FPS                 int    `yaml:"fps" json:"fps"`
	TotalDurationFrames int    `yaml:"totalDurationFrames" json:"totalDurationFrames"`
}

// PlatformSpec is a known publishing target.
type PlatformSpec struct {
	Width, Height, FPS int
	MaxSeconds         int // 0 means no limit
}

// Platforms lists the supported publishing targets.
var Platforms = map[string]PlatformSpec{
	"tiktok":          {Width: 1080, Height: 1920, FPS: 30, MaxSeconds: 180},
	"instagram_reels": {Width: 1080, Height: 1920, FPS: 30, MaxSeconds: 90},
	"youtube_shorts":  {Width: 1080, Height: 1920, FPS: 30, MaxSeconds: 60},
	"youtube":         {Width: 1920, Height: 1080, FPS: 30},
	"instagram_feed":  {Width: 1080, Height: 1080, FPS: 30, MaxSeconds: 60},
}

// PlatformNames returns the preset names in sorted order.
func PlatformNames() []string {
	names := make([]string, 0, len(Platforms))
	for name := range Platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolve fills zero dimensions from the preset.
func (p Platform) resolve() (Platform, PlatformSpec, error) {
	if p.Preset == "" {
		return p, PlatformSpec{}, nil
	}
	spec, ok := Platforms[p.Preset]
	if !ok {
		return p, spec, fmt.Errorf("unknown platform preset %q (known: %s)", p.Preset, strings.Join(PlatformNames(), ", "))
	}
	if p.Width == 0 {
		p.Width = spec.Width
	}
	if p.Height == 0 {
		p.Height = spec.Height
	}
	if p.FPS == 0 {
		p.FPS = spec.FPS
	}
	return p, spec, nil
}

// Resolved returns a copy of the config with preset dimensions filled in and
// the default scene plan applied when no scenes are given.
func (c Config) Resolved() (Config, error) {
	p, _, err := c.Platform.resolve()
	if err != nil {
		return c, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	c.Platform = p
	c.WordTimings = append([]captions.WordTiming(nil), c.WordTimings...)
	if len(c.Scenes) == 0 {
		if p.FPS > 0 {
			c.Scenes = director.DefaultScenes(p.FPS)
		}
	} else {
		c.Scenes = append([]director.Scene(nil), c.Scenes...)
	}
	return c, nil
}

// Validate runs every construction-time check New performs.
func (c Config) Validate() error {
	_, err := New(c)
	return err
}

func (c Config) validatePlatform() error {
	p, spec, err := c.Platform.resolve()
	if err != nil {
		return err
	}
	switch {
	case p.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d", p.FPS)
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("canvas must be positive, got %dx%d", p.Width, p.Height)
	case p.TotalDurationFrames <= 0:
		return fmt.Errorf("totalDurationFrames must be positive, got %d", p.TotalDurationFrames)
	case spec.MaxSeconds > 0 && p.TotalDurationFrames > spec.MaxSeconds*p.FPS:
		return fmt.Errorf("%d frames exceed the %ds limit of %s", p.TotalDurationFrames, spec.MaxSeconds, p.Preset)
	}
	return nil
}
