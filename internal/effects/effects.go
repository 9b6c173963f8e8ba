// Package effects holds deterministic motion primitives shared by scene render logic.
// Every effect is a pure function of a frame index, so frames can be evaluated in any order.
package effects

import (
	"fmt"

	"github.com/ivlev/reelmotion/internal/motion"
)

// Glitch jitters an element in short bursts. The offset is derived from the
// frame number by integer hashing, never from a random source.
type Glitch struct {
	Period    int     // frames between burst starts
	Burst     int     // frames each burst lasts
	Amplitude float64 // max offset in pixels
	Until     int     // no glitch from this frame on; 0 means forever
}

// Offset returns the glitch displacement for a frame.
func (g Glitch) Offset(frame int) (dx, dy float64) {
	if g.Period <= 0 || g.Burst <= 0 || frame < 0 {
		return 0, 0
	}
	if g.Until > 0 && frame >= g.Until {
		return 0, 0
	}
	if frame%g.Period >= g.Burst {
		return 0, 0
	}
	h := mix(uint32(frame))
	dx = (float64(h&0xffff)/0xffff*2 - 1) * g.Amplitude
	dy = (float64(h>>16)/0xffff*2 - 1) * g.Amplitude / 2
	return dx, dy
}

// mix is the murmur3 finalizer.
func mix(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x85ebca6b
	x ^= x >> 13
	x *= 0xc2b2ae35
	x ^= x >> 16
	return x
}

// Punch returns a scale that springs from `from` down (or up) to 1.
func Punch(frame, fps int, from float64, spring motion.SpringConfig) float64 {
	return motion.Lerp(from, 1, motion.Spring(frame, fps, spring))
}

// NewFade returns a 0 -> 1 opacity ramp over the given seconds starting at delay.
func NewFade(fps int, delay, seconds float64) (*motion.Interpolator, error) {
	start := float64(motion.ToFrame(delay, fps))
	end := start + float64(motion.Seconds(seconds, fps))
	in, err := motion.NewInterpolator([]float64{start, end}, []float64{0, 1})
	if err != nil {
		return nil, fmt.Errorf("fade: %w", err)
	}
	return in, nil
}
