package captions

import (
	"fmt"
	"sort"

	"github.com/ivlev/reelmotion/internal/motion"
)

// Phase describes where a word sits relative to the playback time.
type Phase string

const (
	PhaseFuture   Phase = "future"
	PhaseUpcoming Phase = "upcoming" // inside the pre-roll ramp
	PhaseActive   Phase = "active"
	PhasePast     Phase = "past"
)

// WordState is the resolved look of one caption word at one moment.
type WordState struct {
	Index     int
	Word      string
	Phase     Phase
	Opacity   float64
	Scale     float64
	Highlight bool
}

// Options tune the caption look. Zero values are replaced by defaults.
type Options struct {
	PreRoll        float64 // seconds the fade-in ends before a word starts
	DimOpacity     float64 // resting opacity of non-active words
	HighlightScale float64 // target scale of the active word
	Spring         motion.SpringConfig
	PageSize       int // words per caption page
}

// DefaultOptions returns TikTok-style caption settings.
func DefaultOptions() Options {
	return Options{
		PreRoll:        0.15,
		DimOpacity:     0.5,
		HighlightScale: 1.1,
		Spring:         motion.SpringConfig{Mass: 1, Damping: 12, Stiffness: 200, From: 0, To: 1},
		PageSize:       4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PreRoll <= 0 {
		o.PreRoll = d.PreRoll
	}
	if o.DimOpacity <= 0 {
		o.DimOpacity = d.DimOpacity
	}
	if o.HighlightScale <= 0 {
		o.HighlightScale = d.HighlightScale
	}
	if o.Spring == (motion.SpringConfig{}) {
		o.Spring = d.Spring
	}
	if o.PageSize <= 0 {
		o.PageSize = d.PageSize
	}
	return o
}

// Synchronizer maps playback time to caption word states.
// It holds no per-frame state; every call derives its answer from t alone.
type Synchronizer struct {
	words []WordTiming
	fps   int
	opts  Options
	ramps []*motion.Interpolator
	pages []Page
}

// New validates the timings and precomputes each word's opacity ramp.
func New(words []WordTiming, fps int, opts Options) (*Synchronizer, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("captions: fps must be positive, got %d", fps)
	}
	if err := ValidateTimings(words); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if opts.DimOpacity > 1 {
		return nil, fmt.Errorf("captions: dim opacity %.2f is above 1", opts.DimOpacity)
	}
	if err := opts.Spring.Validate(); err != nil {
		return nil, fmt.Errorf("captions: %w", err)
	}

	s := &Synchronizer{
		words: append([]WordTiming(nil), words...),
		fps:   fps,
		opts:  opts,
		ramps: make([]*motion.Interpolator, len(words)),
	}
	for i, w := range s.words {
		ramp, err := motion.NewInterpolator(
			[]float64{w.Start - opts.PreRoll, w.Start},
			[]float64{opts.DimOpacity, 1},
			motion.WithExtrapolate(motion.Clamp),
		)
		if err != nil {
			return nil, fmt.Errorf("captions: ramp for word %d: %w", i, err)
		}
		s.ramps[i] = ramp
	}
	s.pages = paginate(s.words, opts.PageSize)
	return s, nil
}

// Len returns the number of words.
func (s *Synchronizer) Len() int {
	return len(s.words)
}

// Words returns a copy of the timings.
func (s *Synchronizer) Words() []WordTiming {
	return append([]WordTiming(nil), s.words...)
}

// ActiveWordIndex returns the index of the word spoken at t, or -1 when t
// falls before, after or between words.
func (s *Synchronizer) ActiveWordIndex(t float64) int {
	// first word starting after t; only its predecessor can contain t
	i := sort.Search(len(s.words), func(k int) bool { return s.words[k].Start > t })
	if i == 0 {
		return -1
	}
	if s.words[i-1].Contains(t) {
		return i - 1
	}
	return -1
}

// State returns the look of word i at time t.
func (s *Synchronizer) State(i int, t float64) WordState {
	w := s.words[i]
	st := WordState{Index: i, Word: w.Word, Scale: 1, Opacity: s.opts.DimOpacity}

	switch {
	case t >= w.End:
		st.Phase = PhasePast
	case t >= w.Start:
		st.Phase = PhaseActive
		st.Opacity = 1
		st.Highlight = true
		elapsed := motion.ToFrame(t-w.Start, s.fps)
		pulse := motion.Spring(elapsed, s.fps, s.opts.Spring)
		st.Scale = motion.Lerp(1, s.opts.HighlightScale, pulse)
	case t >= w.Start-s.opts.PreRoll:
		st.Phase = PhaseUpcoming
		st.Opacity = s.ramps[i].Value(t)
	default:
		st.Phase = PhaseFuture
	}
	return st
}

// States returns the look of every word at time t.
func (s *Synchronizer) States(t float64) []WordState {
	if len(s.words) == 0 {
		return nil
	}
	out := make([]WordState, len(s.words))
	for i := range s.words {
		out[i] = s.State(i, t)
	}
	return out
}
