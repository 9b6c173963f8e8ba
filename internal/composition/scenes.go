package composition

import (
	"fmt"
	"strings"

	"github.com/ivlev/reelmotion/internal/captions"
	"github.com/ivlev/reelmotion/internal/director"
	"github.com/ivlev/reelmotion/internal/effects"
	"github.com/ivlev/reelmotion/internal/motion"
)

// Motion presets. Damping 12 / stiffness 200 is the snappy "pop" used for text.
var (
	popSpring    = motion.SpringConfig{Mass: 1, Damping: 12, Stiffness: 200, From: 0, To: 1}
	smoothSpring = motion.SpringConfig{Mass: 1, Damping: 14, Stiffness: 120, From: 0, To: 1}
)

const (
	hookFadeSeconds   = 0.5
	hookPunchFrom     = 1.6
	shadowOffsetRatio = 0.008
	ctaFadeSeconds    = 0.3
	ctaPulseDelay     = 0.5
)

// sceneContext is what a scene's render logic sees for one frame.
type sceneContext struct {
	scene      director.Scene
	localFrame int
	frame      int // global
}

func (s sceneContext) id(role string) string {
	return s.scene.Name + "/" + role
}

// hookRig animates the opening pattern interrupt: fade, punch-in, glitch and a pulsing shadow.
type hookRig struct {
	fade   *motion.Interpolator
	shadow *motion.Interpolator
	glitch effects.Glitch
}

func newHookRig(fps, width int) (*hookRig, error) {
	fade, err := effects.NewFade(fps, 0, hookFadeSeconds)
	if err != nil {
		return nil, fmt.Errorf("hook: %w", err)
	}
	second := float64(fps)
	shadow, err := motion.NewInterpolator(
		[]float64{0, second, 2 * second, 3 * second},
		[]float64{0.2, 1, 0.4, 1},
	)
	if err != nil {
		return nil, fmt.Errorf("hook shadow: %w", err)
	}
	return &hookRig{
		fade:   fade,
		shadow: shadow,
		glitch: effects.Glitch{
			Period:    max(fps/2, 2),
			Burst:     max(fps/15, 1),
			Amplitude: float64(width) * 0.012,
			Until:     2 * fps,
		},
	}, nil
}

func (c *Composition) renderHook(sc sceneContext) []Element {
	w, h := float64(c.cfg.Platform.Width), float64(c.cfg.Platform.Height)
	f := sc.localFrame

	opacity := c.hook.fade.Value(float64(f))
	scale := effects.Punch(f, c.cfg.Platform.FPS, hookPunchFrom, popSpring)
	dx, dy := c.hook.glitch.Offset(f)
	size := w * 0.085
	x, y := w/2, h*0.42
	shadowShift := w * shadowOffsetRatio

	return []Element{
		{
			ID: sc.id("background"), Kind: KindBackground, Scene: sc.scene.Name,
			Opacity: 1, Scale: 1, TranslateX: w / 2, TranslateY: h / 2,
			Color: c.colors.primary.Hex(), ZOrder: zBackground,
		},
		{
			ID: sc.id("shadow"), Kind: KindText, Scene: sc.scene.Name, Text: c.cfg.HookText,
			Opacity: opacity * c.hook.shadow.Value(float64(f)), Scale: scale,
			TranslateX: x + shadowShift - dx, TranslateY: y + shadowShift - dy, Size: size,
			Color: c.colors.accent.Hex(), ZOrder: zShadow,
		},
		{
			ID: sc.id("text"), Kind: KindText, Scene: sc.scene.Name, Text: c.cfg.HookText,
			Opacity: opacity, Scale: scale,
			TranslateX: x + dx, TranslateY: y + dy, Size: size,
			Color: c.colors.text.Hex(), ZOrder: zContent,
		},
	}
}

// mainRig animates the caption block and the progress bar.
type mainRig struct {
	entrance *effects.Entrance
}

func newMainRig(fps, height int) (*mainRig, error) {
	entrance, err := effects.NewEntrance(fps, 0.3, float64(height)*0.05, smoothSpring)
	if err != nil {
		return nil, fmt.Errorf("main content: %w", err)
	}
	return &mainRig{entrance: entrance}, nil
}

func (c *Composition) renderMainContent(sc sceneContext) []Element {
	w, h := float64(c.cfg.Platform.Width), float64(c.cfg.Platform.Height)
	fps := c.cfg.Platform.FPS
	now := motion.ToSeconds(sc.frame, fps)

	elements := []Element{
		{
			ID: sc.id("background"), Kind: KindBackground, Scene: sc.scene.Name,
			Opacity: 1, Scale: 1, TranslateX: w / 2, TranslateY: h / 2,
			Color: c.colors.secondary.Hex(), ZOrder: zBackground,
		},
		{
			ID: sc.id("progress"), Kind: KindProgressBar, Scene: sc.scene.Name,
			Opacity: 0.9, Scale: c.progress(sc.frame),
			TranslateX: w / 2, TranslateY: h * 0.02, Size: h * 0.008,
			Color: c.colors.accent.Hex(), ZOrder: zOverlay,
		},
	}

	opacity, offset := c.main.entrance.At(sc.localFrame)

	words := c.captions.PageStates(now)
	if len(words) == 0 {
		return append(elements, c.scriptLines(sc, opacity, offset)...)
	}

	line := Element{
		ID: sc.id("captions"), Kind: KindCaptionLine, Scene: sc.scene.Name,
		Opacity: opacity, Scale: 1,
		TranslateX: w / 2, TranslateY: h*0.62 + offset, Size: w * 0.075,
		Color: c.colors.text.Hex(), ZOrder: zCaption,
		Children: make([]Element, 0, len(words)),
	}
	for _, ws := range words {
		line.Children = append(line.Children, c.captionWord(sc, ws))
	}
	return append(elements, line)
}

// scriptLines shows the script as static text when no word timings exist.
func (c *Composition) scriptLines(sc sceneContext, opacity, offset float64) []Element {
	var lines []string
	for _, l := range strings.Split(c.cfg.Script, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	w, h := float64(c.cfg.Platform.Width), float64(c.cfg.Platform.Height)
	size := w * 0.05
	lineHeight := size * 1.4
	top := h*0.55 - lineHeight*float64(len(lines)-1)/2 + offset

	out := make([]Element, 0, len(lines))
	for i, l := range lines {
		out = append(out, Element{
			ID: sc.id(fmt.Sprintf("script-%d", i)), Kind: KindText, Scene: sc.scene.Name, Text: l,
			Opacity: opacity, Scale: 1,
			TranslateX: w / 2, TranslateY: top + lineHeight*float64(i), Size: size,
			Color: c.colors.text.Hex(), ZOrder: zCaption,
		})
	}
	return out
}

func (c *Composition) captionWord(sc sceneContext, ws captions.WordState) Element {
	// colour follows the highlight pulse so the accent fades in with the pop
	highlight := 0.0
	if ws.Highlight {
		highlight = (ws.Scale - 1) / (c.captionOpts.HighlightScale - 1)
		highlight = max(highlight, 0.35)
	}
	return Element{
		ID:      fmt.Sprintf("%s/word-%d", sc.scene.Name, ws.Index),
		Kind:    KindCaptionWord,
		Scene:   sc.scene.Name,
		Text:    ws.Word,
		Opacity: ws.Opacity,
		Scale:   ws.Scale,
		Color:   blend(c.colors.text, c.colors.accent, highlight),
		ZOrder:  zCaption,
	}
}

func (c *Composition) progress(frame int) float64 {
	last := c.cfg.Platform.TotalDurationFrames - 1
	if last <= 0 {
		return 1
	}
	return float64(frame) / float64(last)
}

// ctaRig animates the closing call to action.
type ctaRig struct {
	entrance *effects.Entrance
	pulse    *effects.Cycle
	bounce   *effects.Cycle
}

func newCTARig(fps, height int) (*ctaRig, error) {
	entrance, err := effects.NewEntrance(fps, ctaFadeSeconds, float64(height)*0.25, popSpring)
	if err != nil {
		return nil, fmt.Errorf("cta: %w", err)
	}
	second := float64(fps)
	pulse, err := effects.NewCycle(
		[]float64{0, second / 2, second},
		[]float64{1, 1.08, 1},
		motion.ToFrame(ctaPulseDelay, fps),
	)
	if err != nil {
		return nil, fmt.Errorf("cta pulse: %w", err)
	}
	bounce, err := effects.NewCycle(
		[]float64{0, 0.4 * second, 0.8 * second},
		[]float64{0, -float64(height) * 0.015, 0},
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("cta bounce: %w", err)
	}
	return &ctaRig{entrance: entrance, pulse: pulse, bounce: bounce}, nil
}

func (c *Composition) renderCTA(sc sceneContext) []Element {
	w, h := float64(c.cfg.Platform.Width), float64(c.cfg.Platform.Height)
	f := sc.localFrame
	opacity, offset := c.cta.entrance.At(f)

	elements := []Element{
		{
			ID: sc.id("background"), Kind: KindBackground, Scene: sc.scene.Name,
			Opacity: 1, Scale: 1, TranslateX: w / 2, TranslateY: h / 2,
			Color: c.colors.primary.Hex(), ZOrder: zBackground,
		},
		{
			ID: sc.id("button"), Kind: KindButton, Scene: sc.scene.Name, Text: c.cfg.CTAText,
			Opacity: opacity, Scale: c.cta.pulse.At(f),
			TranslateX: w / 2, TranslateY: h*0.45 + offset, Size: w * 0.07,
			Color: c.colors.accent.Hex(), ZOrder: zContent,
		},
		{
			ID: sc.id("arrow"), Kind: KindArrow, Scene: sc.scene.Name,
			Opacity: opacity, Scale: 1,
			TranslateX: w / 2, TranslateY: h*0.58 + offset + c.cta.bounce.At(f), Size: w * 0.08,
			Color: c.colors.text.Hex(), ZOrder: zCaption,
		},
	}
	if c.cfg.CTAURL != "" {
		elements = append(elements, Element{
			ID: sc.id("qr"), Kind: KindQRCode, Scene: sc.scene.Name, Text: c.cfg.CTAURL,
			Opacity: opacity, Scale: 1,
			TranslateX: w / 2, TranslateY: h*0.75 + offset, Size: w * 0.28,
			Color: c.colors.text.Hex(), ZOrder: zContent,
		})
	}
	return elements
}
