// Package composition turns an immutable ad configuration into per-frame visual state.
//
// New does all validation and precomputation. ComputeFrameState is a pure
// function of the frame number afterwards and is safe to call from any number
// of goroutines, in any order.
package composition

import (
	"fmt"

	"github.com/ivlev/reelmotion/internal/captions"
	"github.com/ivlev/reelmotion/internal/director"
	"github.com/ivlev/reelmotion/internal/motion"
)

// Composition is a validated configuration plus everything derived from it.
type Composition struct {
	cfg         Config
	colors      palette
	sched       *director.Scheduler
	captions    *captions.Synchronizer
	captionOpts captions.Options

	hook *hookRig
	main *mainRig
	cta  *ctaRig
}

// New validates cfg and builds a Composition. Every error wraps ErrInvalidConfig.
func New(cfg Config) (*Composition, error) {
	if err := cfg.validatePlatform(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	cfg, err := cfg.Resolved()
	if err != nil {
		return nil, err
	}
	p := cfg.Platform

	colors, err := newPalette(cfg.BrandColors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	sched, err := director.NewScheduler(cfg.Scenes, p.TotalDurationFrames)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	opts := captions.DefaultOptions()
	syncer, err := captions.New(cfg.WordTimings, p.FPS, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	c := &Composition{
		cfg:         cfg,
		colors:      colors,
		sched:       sched,
		captions:    syncer,
		captionOpts: opts,
	}
	if c.hook, err = newHookRig(p.FPS, p.Width); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.main, err = newMainRig(p.FPS, p.Height); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.cta, err = newCTARig(p.FPS, p.Height); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c, nil
}

// Config returns a copy of the resolved configuration.
func (c *Composition) Config() Config {
	cfg := c.cfg
	cfg.WordTimings = append([]captions.WordTiming(nil), c.cfg.WordTimings...)
	cfg.Scenes = append([]director.Scene(nil), c.cfg.Scenes...)
	return cfg
}

// FPS returns the frame rate.
func (c *Composition) FPS() int {
	return c.cfg.Platform.FPS
}

// TotalFrames returns the composition length in frames.
func (c *Composition) TotalFrames() int {
	return c.cfg.Platform.TotalDurationFrames
}

// Scheduler exposes the scene scheduler.
func (c *Composition) Scheduler() *director.Scheduler {
	return c.sched
}

// Captions exposes the caption synchronizer.
func (c *Composition) Captions() *captions.Synchronizer {
	return c.captions
}

// ClampFrame maps any frame number into [0, TotalFrames).
func (c *Composition) ClampFrame(frame int) int {
	if frame < 0 {
		return 0
	}
	if last := c.TotalFrames() - 1; frame > last {
		return last
	}
	return frame
}

// ComputeFrameState returns the visual state of a frame. Out-of-range frames are
// clamped to the nearest valid frame rather than rejected.
func (c *Composition) ComputeFrameState(frame int) FrameState {
	frame = c.ClampFrame(frame)
	fps := c.FPS()
	now := motion.ToSeconds(frame, fps)

	state := FrameState{
		Frame:           frame,
		Time:            now,
		Width:           c.cfg.Platform.Width,
		Height:          c.cfg.Platform.Height,
		ActiveWordIndex: c.captions.ActiveWordIndex(now),
	}

	for _, active := range c.sched.Active(frame) {
		sc := sceneContext{scene: active.Scene, localFrame: active.LocalFrame, frame: frame}
		state.Scenes = append(state.Scenes, active.Scene.Name)
		state.Elements = append(state.Elements, c.renderScene(sc)...)
	}
	mergeByZ(state.Elements)
	return state
}

func (c *Composition) renderScene(sc sceneContext) []Element {
	switch sc.scene.Kind {
	case director.KindHook:
		return c.renderHook(sc)
	case director.KindMainContent:
		return c.renderMainContent(sc)
	case director.KindCTA:
		return c.renderCTA(sc)
	default:
		// scheduler rejects unknown kinds
		return nil
	}
}
