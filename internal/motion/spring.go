package motion

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
)

// ErrSpringConfig is returned for physically meaningless spring parameters.
var ErrSpringConfig = errors.New("invalid spring config")

// SpringTolerance is the relative distance from the target at which a spring counts as settled.
const SpringTolerance = 1e-3

// restEpsilon stops stepping once position and velocity no longer change the result.
const restEpsilon = 1e-9

// maxSettleSeconds bounds SettleFrames for nearly undamped springs.
const maxSettleSeconds = 60

// SpringConfig describes a damped harmonic oscillator: m·x'' + c·x' + k·(x - To) = 0.
type SpringConfig struct {
	Mass      float64 `yaml:"mass" json:"mass"`
	Damping   float64 `yaml:"damping" json:"damping"`
	Stiffness float64 `yaml:"stiffness" json:"stiffness"`
	From      float64 `yaml:"from" json:"from"`
	To        float64 `yaml:"to" json:"to"`
	// OvershootClamping stops the value at To instead of letting it oscillate past.
	OvershootClamping bool `yaml:"overshootClamping" json:"overshootClamping"`
}

// DefaultSpring settles from 0 to 1 with mild overshoot.
func DefaultSpring() SpringConfig {
	return SpringConfig{Mass: 1, Damping: 10, Stiffness: 100, From: 0, To: 1}
}

// Validate checks the physical parameters.
func (c SpringConfig) Validate() error {
	switch {
	case !(c.Mass > 0) || !finite(c.Mass):
		return fmt.Errorf("%w: mass must be positive, got %g", ErrSpringConfig, c.Mass)
	case !(c.Stiffness > 0) || !finite(c.Stiffness):
		return fmt.Errorf("%w: stiffness must be positive, got %g", ErrSpringConfig, c.Stiffness)
	case !(c.Damping >= 0) || !finite(c.Damping):
		return fmt.Errorf("%w: damping must be non-negative, got %g", ErrSpringConfig, c.Damping)
	case !finite(c.From) || !finite(c.To):
		return fmt.Errorf("%w: from/to must be finite", ErrSpringConfig)
	}
	return nil
}

// DampingRatio returns ζ = c / (2·sqrt(k·m)). Values below 1 oscillate.
func (c SpringConfig) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// AngularFrequency returns ω = sqrt(k/m).
func (c SpringConfig) AngularFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.Mass)
}

func (c SpringConfig) stepper(fps int) harmonica.Spring {
	return harmonica.NewSpring(harmonica.FPS(fps), c.AngularFrequency(), c.DampingRatio())
}

// Spring returns the spring position after frame elapsed frames at fps.
// The value is From at frame 0 and approaches To as frame grows. Each frame is one
// fixed harmonica step of 1/fps seconds, so equal inputs always give equal outputs.
func Spring(frame, fps int, cfg SpringConfig) float64 {
	if frame <= 0 {
		return cfg.From
	}

	s := cfg.stepper(fps)
	pos, vel := cfg.From, 0.0
	for i := 0; i < frame; i++ {
		pos, vel = s.Update(pos, vel, cfg.To)
		if cfg.OvershootClamping && overshot(cfg, pos) {
			return cfg.To
		}
		if math.Abs(pos-cfg.To) < restEpsilon && math.Abs(vel) < restEpsilon {
			return cfg.To
		}
	}
	return pos
}

// SettleFrames returns the first frame from which the spring stays within
// tol·|To-From| of To. It gives up after maxSettleSeconds.
func SettleFrames(fps int, cfg SpringConfig, tol float64) int {
	span := math.Abs(cfg.To - cfg.From)
	if span == 0 {
		return 0
	}
	limit := maxSettleSeconds * fps

	s := cfg.stepper(fps)
	pos, vel := cfg.From, 0.0
	settled := 1
	for i := 1; i <= limit; i++ {
		pos, vel = s.Update(pos, vel, cfg.To)
		if cfg.OvershootClamping && overshot(cfg, pos) {
			break
		}
		if math.Abs(pos-cfg.To) >= tol*span {
			settled = i + 1
		}
	}
	return settled
}

func overshot(cfg SpringConfig, pos float64) bool {
	if cfg.To >= cfg.From {
		return pos >= cfg.To
	}
	return pos <= cfg.To
}
