package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/reelmotion/internal/composition"
)

func initComposition(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ad.yaml")
	var out bytes.Buffer
	if err := runInit([]string{"-output", path, "-preset", "youtube_shorts", "-cta-url", "https://example.com"}, &out); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("init output does not mention the file: %s", out.String())
	}
	return path
}

func TestInitAndValidate(t *testing.T) {
	path := initComposition(t)

	var out bytes.Buffer
	if err := runValidate([]string{"-input", path}, &out); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	for _, want := range []string{"Hook", "MainContent", "CTA", "[0, 90)", "Озвучка: 3.00s"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("validate output missing %q:\n%s", want, out.String())
		}
	}
}

func TestValidateRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := "hookText: Hi\nctaText: Go\nbrandColors: {primary: '#000', secondary: nope, accent: '#fff'}\nplatform: {preset: tiktok, totalDurationFrames: 450}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := runValidate([]string{"-input", path}, &bytes.Buffer{}); err == nil {
		t.Error("expected validation error")
	}
}

func TestInspect(t *testing.T) {
	path := initComposition(t)

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		if err := runInspect([]string{"-input", path, "-frame", "10"}, &out); err != nil {
			t.Fatalf("inspect failed: %v", err)
		}
		var state composition.FrameState
		if err := yaml.Unmarshal(out.Bytes(), &state); err != nil {
			t.Fatalf("inspect output is not yaml: %v", err)
		}
		if state.Frame != 10 || len(state.Scenes) != 1 || state.Scenes[0] != "Hook" {
			t.Errorf("unexpected state: frame %d scenes %v", state.Frame, state.Scenes)
		}
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		if err := runInspect([]string{"-input", path, "-frame", "1790", "-json"}, &out); err != nil {
			t.Fatalf("inspect failed: %v", err)
		}
		var state composition.FrameState
		if err := json.Unmarshal(out.Bytes(), &state); err != nil {
			t.Fatalf("inspect output is not json: %v", err)
		}
		if _, ok := state.Find("CTA/qr"); !ok {
			t.Error("expected the qr element in the last frame")
		}
	})
}

func TestInitRejectsUnknownPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ad.yaml")
	if err := runInit([]string{"-output", path, "-preset", "myspace"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown preset")
	}
}
