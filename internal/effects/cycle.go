package effects

import (
	"fmt"

	"github.com/ivlev/reelmotion/internal/motion"
)

// Cycle repeats a breakpoint curve forever. The curve's first input must be 0
// and its last input is the period.
type Cycle struct {
	curve  *motion.Interpolator
	period float64
	delay  int
}

// NewCycle builds a repeating curve over frames. delay frames pass before the
// first repetition starts; before that the curve holds its first value.
func NewCycle(xs, ys []float64, delay int) (*Cycle, error) {
	curve, err := motion.NewInterpolator(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("cycle: %w", err)
	}
	first, period := curve.Domain()
	if first != 0 {
		return nil, fmt.Errorf("cycle: %w: curve must start at 0, starts at %g", motion.ErrBreakpoints, first)
	}
	return &Cycle{curve: curve, period: period, delay: delay}, nil
}

// At returns the curve value for a frame.
func (c *Cycle) At(frame int) float64 {
	local := frame - c.delay
	if local < 0 {
		return c.curve.Value(0)
	}
	return c.curve.Value(motion.Loop(float64(local), c.period))
}

// Entrance slides an element in from Distance pixels away while fading it in.
type Entrance struct {
	fade     *motion.Interpolator
	spring   motion.SpringConfig
	fps      int
	distance float64
}

// NewEntrance returns an entrance whose fade lasts fadeSeconds and whose slide is spring driven.
func NewEntrance(fps int, fadeSeconds, distance float64, spring motion.SpringConfig) (*Entrance, error) {
	if err := spring.Validate(); err != nil {
		return nil, fmt.Errorf("entrance: %w", err)
	}
	fade, err := NewFade(fps, 0, fadeSeconds)
	if err != nil {
		return nil, fmt.Errorf("entrance: %w", err)
	}
	return &Entrance{fade: fade, spring: spring, fps: fps, distance: distance}, nil
}

// At returns the opacity and the remaining slide offset at a frame.
func (e *Entrance) At(frame int) (opacity, offset float64) {
	progress := motion.Spring(frame, e.fps, e.spring)
	return e.fade.Value(float64(frame)), e.distance * (1 - progress)
}

// settleFrame returns the frame from which the slide offset stays within tolerance.
func (e *Entrance) settleFrame() int {
	return motion.SettleFrames(e.fps, e.spring, motion.SpringTolerance)
}
