package composition

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/ivlev/reelmotion/internal/captions"
	"github.com/ivlev/reelmotion/internal/director"
)

func adConfig() Config {
	return Config{
		HookText: "Stop scrolling.",
		Script:   "Stop scrolling.",
		CTAText:  "Link in bio",
		WordTimings: []captions.WordTiming{
			{Word: "Stop", Start: 3.0, End: 3.3},
			{Word: "scrolling.", Start: 3.3, End: 3.8},
		},
		BrandColors: BrandColors{Primary: "#101010", Secondary: "#202020", Accent: "#ff3366"},
		Platform:    Platform{Width: 1080, Height: 1920, FPS: 30, TotalDurationFrames: 450},
	}
}

func mustNew(t *testing.T, cfg Config) *Composition {
	t.Helper()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestEndToEndScenario(t *testing.T) {
	c := mustNew(t, adConfig())

	t.Run("hook fading in", func(t *testing.T) {
		state := c.ComputeFrameState(10)
		if !reflect.DeepEqual(state.Scenes, []string{"Hook"}) {
			t.Fatalf("expected only Hook, got %v", state.Scenes)
		}
		text, ok := state.Find("Hook/text")
		if !ok {
			t.Fatal("hook text missing")
		}
		if text.Opacity <= 0 || text.Opacity >= 1 {
			t.Errorf("expected partial fade, got opacity %v", text.Opacity)
		}
	})

	t.Run("main content highlights second word", func(t *testing.T) {
		state := c.ComputeFrameState(100)
		if !reflect.DeepEqual(state.Scenes, []string{"MainContent"}) {
			t.Fatalf("expected only MainContent, got %v", state.Scenes)
		}
		if state.ActiveWordIndex != 1 {
			t.Fatalf("expected active word 1, got %d", state.ActiveWordIndex)
		}
		line, ok := state.Find("MainContent/captions")
		if !ok || len(line.Children) != 2 {
			t.Fatalf("expected caption line with 2 words, got %+v", line)
		}
		active := line.Children[1]
		if active.Text != "scrolling." || active.Opacity != 1 {
			t.Errorf("unexpected active word %+v", active)
		}
		if line.Children[0].Opacity != captions.DefaultOptions().DimOpacity {
			t.Errorf("past word should rest dim, got %v", line.Children[0].Opacity)
		}
	})

	t.Run("cta settled", func(t *testing.T) {
		state := c.ComputeFrameState(400)
		if !reflect.DeepEqual(state.Scenes, []string{"CTA"}) {
			t.Fatalf("expected only CTA, got %v", state.Scenes)
		}
		button, ok := state.Find("CTA/button")
		if !ok {
			t.Fatal("cta button missing")
		}
		if button.Opacity != 1 {
			t.Errorf("expected settled entrance, got opacity %v", button.Opacity)
		}
		if _, ok := state.Find("CTA/qr"); ok {
			t.Error("qr element should only appear with a cta url")
		}
	})
}

func TestComputeFrameStateDeterministic(t *testing.T) {
	c := mustNew(t, adConfig())

	for frame := 0; frame < c.TotalFrames(); frame += 13 {
		a := c.ComputeFrameState(frame)
		b := c.ComputeFrameState(frame)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("frame %d evaluated differently", frame)
		}
	}
}

func TestComputeFrameStateParallel(t *testing.T) {
	c := mustNew(t, adConfig())
	total := c.TotalFrames()

	sequential := make([]FrameState, total)
	for f := 0; f < total; f++ {
		sequential[f] = c.ComputeFrameState(f)
	}

	parallel := make([]FrameState, total)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			// walk backwards so workers hit frames out of order
			for f := total - 1 - w; f >= 0; f -= 8 {
				parallel[f] = c.ComputeFrameState(f)
			}
		}(w)
	}
	wg.Wait()

	for f := range sequential {
		if !reflect.DeepEqual(sequential[f], parallel[f]) {
			t.Fatalf("frame %d differs between sequential and parallel evaluation", f)
		}
	}
}

func TestFramesAreClamped(t *testing.T) {
	c := mustNew(t, adConfig())

	if got := c.ComputeFrameState(-50); got.Frame != 0 || !reflect.DeepEqual(got, c.ComputeFrameState(0)) {
		t.Errorf("negative frame should clamp to 0, got frame %d", got.Frame)
	}
	if got := c.ComputeFrameState(10_000); got.Frame != 449 || !got.HasScene("CTA") {
		t.Errorf("frame past the end should clamp to 449, got frame %d scenes %v", got.Frame, got.Scenes)
	}
}

func TestElementsOrderedByZ(t *testing.T) {
	c := mustNew(t, adConfig())

	for _, frame := range []int{0, 100, 400} {
		state := c.ComputeFrameState(frame)
		for i := 1; i < len(state.Elements); i++ {
			if state.Elements[i].ZOrder < state.Elements[i-1].ZOrder {
				t.Fatalf("frame %d: element %s out of z-order", frame, state.Elements[i].ID)
			}
		}
		if state.Elements[0].Kind != KindBackground {
			t.Errorf("frame %d: background should be drawn first, got %s", frame, state.Elements[0].Kind)
		}
	}
}

func TestCaptionGapHasNoHighlight(t *testing.T) {
	cfg := adConfig()
	cfg.WordTimings = []captions.WordTiming{
		{Word: "one", Start: 3.0, End: 3.5},
		{Word: "two", Start: 4.5, End: 5.0},
	}
	c := mustNew(t, cfg)

	state := c.ComputeFrameState(120) // t = 4.0s, between the words
	if state.ActiveWordIndex != -1 {
		t.Errorf("expected no active word in the gap, got %d", state.ActiveWordIndex)
	}
	line, _ := state.Find("MainContent/captions")
	for _, w := range line.Children {
		if w.Scale != 1 {
			t.Errorf("word %q scaled during the gap: %v", w.Text, w.Scale)
		}
	}
}

func TestEmptyCaptionsRenderNoLine(t *testing.T) {
	cfg := adConfig()
	cfg.WordTimings = nil
	c := mustNew(t, cfg)

	state := c.ComputeFrameState(100)
	if _, ok := state.Find("MainContent/captions"); ok {
		t.Error("no caption line expected without word timings")
	}
	if state.ActiveWordIndex != -1 {
		t.Errorf("expected -1, got %d", state.ActiveWordIndex)
	}
}

func TestScriptShownWithoutWordTimings(t *testing.T) {
	cfg := adConfig()
	cfg.WordTimings = nil
	cfg.Script = "Stop scrolling.\n\nThis changes everything."
	c := mustNew(t, cfg)

	state := c.ComputeFrameState(200)
	first, ok := state.Find("MainContent/script-0")
	if !ok || first.Text != "Stop scrolling." || first.Kind != KindText {
		t.Fatalf("expected first script line, got %+v", first)
	}
	second, ok := state.Find("MainContent/script-1")
	if !ok || second.Text != "This changes everything." {
		t.Fatalf("expected second script line, got %+v", second)
	}
	if second.TranslateY <= first.TranslateY {
		t.Errorf("script lines should stack downwards: %v then %v", first.TranslateY, second.TranslateY)
	}
	if first.Opacity != 1 {
		t.Errorf("script should be fully visible after the entrance, got %v", first.Opacity)
	}

	// timed captions replace the static script
	timed := mustNew(t, adConfig())
	if _, ok := timed.ComputeFrameState(200).Find("MainContent/script-0"); ok {
		t.Error("script text should not show when word timings exist")
	}
}

func TestCrossfadeScenes(t *testing.T) {
	cfg := adConfig()
	cfg.Scenes = []director.Scene{
		{Name: "Hook", Kind: director.KindHook, StartFrame: 0, DurationFrames: 100},
		{Name: "MainContent", Kind: director.KindMainContent, StartFrame: 90, DurationFrames: 280},
		{Name: "CTA", Kind: director.KindCTA, StartFrame: 360},
	}
	cfg.CTAURL = "https://example.com/signup"
	c := mustNew(t, cfg)

	state := c.ComputeFrameState(95)
	if !reflect.DeepEqual(state.Scenes, []string{"Hook", "MainContent"}) {
		t.Fatalf("expected both scenes, got %v", state.Scenes)
	}

	if _, ok := c.ComputeFrameState(420).Find("CTA/qr"); !ok {
		t.Error("qr element expected with a cta url")
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		also   error
	}{
		{"zero fps", func(c *Config) { c.Platform.FPS = 0 }, nil},
		{"negative fps", func(c *Config) { c.Platform.FPS = -30 }, nil},
		{"zero duration", func(c *Config) { c.Platform.TotalDurationFrames = 0 }, nil},
		{"no canvas", func(c *Config) { c.Platform.Width = 0 }, nil},
		{"bad colour", func(c *Config) { c.BrandColors.Accent = "pink" }, nil},
		{"unknown preset", func(c *Config) { c.Platform.Preset = "myspace" }, nil},
		{"too long for preset", func(c *Config) {
			c.Platform.Preset = "youtube_shorts"
			c.Platform.TotalDurationFrames = 61 * 30
		}, nil},
		{"overlapping words", func(c *Config) {
			c.WordTimings[1].Start = 3.2
		}, captions.ErrTimings},
		{"unsorted words", func(c *Config) {
			c.WordTimings[0], c.WordTimings[1] = c.WordTimings[1], c.WordTimings[0]
		}, captions.ErrTimings},
		{"open-ended scene not last", func(c *Config) {
			c.Scenes = []director.Scene{
				{Name: "CTA", Kind: director.KindCTA},
				{Name: "Hook", Kind: director.KindHook, StartFrame: 10, DurationFrames: 10},
			}
		}, director.ErrSceneOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := adConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if tt.also != nil && !errors.Is(err, tt.also) {
				t.Errorf("expected %v in chain, got %v", tt.also, err)
			}
			if cfg.Validate() == nil {
				t.Error("Validate should agree with New")
			}
		})
	}
}

func TestPresetFillsCanvas(t *testing.T) {
	cfg := adConfig()
	cfg.Platform = Platform{Preset: "instagram_feed", TotalDurationFrames: 450}
	c := mustNew(t, cfg)

	p := c.Config().Platform
	if p.Width != 1080 || p.Height != 1080 || p.FPS != 30 {
		t.Errorf("preset not applied: %+v", p)
	}
}

func TestConfigFileRoundTrip(t *testing.T) {
	cfg, err := SampleConfig("tiktok")
	if err != nil {
		t.Fatalf("SampleConfig failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "ad.yaml")
	if err := WriteConfig(cfg, path); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := c.Captions().Len(); got != len(cfg.WordTimings) {
		t.Errorf("expected %d words, got %d", len(cfg.WordTimings), got)
	}
	if c.Config().Platform.Width != 1080 {
		t.Errorf("preset width not resolved: %+v", c.Config().Platform)
	}
}

func TestGenerateConfigPath(t *testing.T) {
	dir := t.TempDir()
	path := GenerateConfigPath(filepath.Join(dir, "compositions"), "tiktok")
	if filepath.Ext(path) != ".yaml" || !strings.HasPrefix(filepath.Base(path), "tiktok_") {
		t.Errorf("unexpected path %s", path)
	}

	cfg, err := SampleConfig("tiktok")
	if err != nil {
		t.Fatalf("SampleConfig failed: %v", err)
	}
	// WriteConfig creates the missing directory
	if err := WriteConfig(cfg, path); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
}

func TestReadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	if err := os.WriteFile(path, []byte("hookText: Hi\nctaTxt: Go\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadConfig(path); err == nil {
		t.Error("expected error for unknown key")
	}
}
