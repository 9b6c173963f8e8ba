package captions

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrTimings is returned when word timings are unsorted, empty-windowed or overlapping.
var ErrTimings = errors.New("invalid word timings")

// WordTiming is a caption word with its spoken window in seconds, [Start, End).
type WordTiming struct {
	Word  string  `yaml:"word" json:"word"`
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
}

// Duration returns the spoken length of the word.
func (w WordTiming) Duration() float64 {
	return w.End - w.Start
}

// Contains reports whether t lies inside the word's window.
func (w WordTiming) Contains(t float64) bool {
	return w.Start <= t && t < w.End
}

// ValidateTimings checks that words are sorted, each window is non-empty and
// no two windows overlap. Touching windows (End == next Start) are allowed.
func ValidateTimings(words []WordTiming) error {
	for i, w := range words {
		if math.IsNaN(w.Start) || math.IsNaN(w.End) || math.IsInf(w.Start, 0) || math.IsInf(w.End, 0) {
			return fmt.Errorf("%w: word %d (%q) has non-finite bounds", ErrTimings, i, w.Word)
		}
		if w.Start < 0 {
			return fmt.Errorf("%w: word %d (%q) starts before zero", ErrTimings, i, w.Word)
		}
		if !(w.Start < w.End) {
			return fmt.Errorf("%w: word %d (%q) has start %.3f >= end %.3f", ErrTimings, i, w.Word, w.Start, w.End)
		}
		if strings.TrimSpace(w.Word) == "" {
			return fmt.Errorf("%w: word %d is blank", ErrTimings, i)
		}
		if i == 0 {
			continue
		}
		prev := words[i-1]
		if w.Start < prev.Start {
			return fmt.Errorf("%w: word %d (%q) starts before word %d (%q)", ErrTimings, i, w.Word, i-1, prev.Word)
		}
		if w.Start < prev.End {
			return fmt.Errorf("%w: word %d (%q) overlaps word %d (%q)", ErrTimings, i, w.Word, i-1, prev.Word)
		}
	}
	return nil
}
