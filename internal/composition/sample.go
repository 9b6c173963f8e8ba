package composition

import (
	"fmt"
	"strings"

	"github.com/ivlev/reelmotion/internal/captions"
	"github.com/ivlev/reelmotion/internal/motion"
)

const sampleScript = `Stop scrolling. This changes everything.
You're spending 10 hours a week on marketing.
What if AI did it in 10 minutes?`

// SampleConfig returns a small but complete composition for the given preset.
// Word timings are spread evenly over the main content scene.
func SampleConfig(preset string) (Config, error) {
	spec, ok := Platforms[preset]
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown platform preset %q", ErrInvalidConfig, preset)
	}

	const seconds = 15
	cfg := Config{
		HookText: "Stop scrolling.",
		Script:   sampleScript,
		CTAText:  "Link in bio",
		BrandColors: BrandColors{
			Primary:   "#111827",
			Secondary: "#1f2937",
			Accent:    "#facc15",
		},
		Platform: Platform{
			Preset:              preset,
			TotalDurationFrames: seconds * spec.FPS,
		},
	}
	if spec.MaxSeconds > 0 && seconds > spec.MaxSeconds {
		cfg.Platform.TotalDurationFrames = spec.MaxSeconds * spec.FPS
	}

	words := strings.Fields(sampleScript)
	start, step := 3.0, 0.3
	for _, w := range words {
		cfg.WordTimings = append(cfg.WordTimings, captions.WordTiming{
			Word:  w,
			Start: start,
			End:   start + step*0.9,
		})
		start += step
	}
	// the narration has to finish before the video does
	last := motion.ToSeconds(cfg.Platform.TotalDurationFrames, spec.FPS)
	if end := cfg.WordTimings[len(cfg.WordTimings)-1].End; end > last {
		return Config{}, fmt.Errorf("%w: sample script runs to %.1fs, past %.1fs", ErrInvalidConfig, end, last)
	}
	return cfg, nil
}
