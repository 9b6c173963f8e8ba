package engine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gen2brain/webp"

	"github.com/ivlev/reelmotion/internal/captions"
	"github.com/ivlev/reelmotion/internal/composition"
	"github.com/ivlev/reelmotion/internal/config"
	"github.com/ivlev/reelmotion/internal/renderer"
)

func testSession(t *testing.T, format string, from, to int) *RenderSession {
	t.Helper()
	comp, err := composition.New(composition.Config{
		HookText: "Stop scrolling.",
		CTAText:  "Link in bio",
		WordTimings: []captions.WordTiming{
			{Word: "Stop", Start: 3.0, End: 3.3},
			{Word: "scrolling.", Start: 3.3, End: 3.8},
		},
		BrandColors: composition.BrandColors{Primary: "#101010", Secondary: "#202020", Accent: "#ff3366"},
		Platform:    composition.Platform{Width: 1080, Height: 1920, FPS: 30, TotalDurationFrames: 450},
	})
	if err != nil {
		t.Fatalf("composition.New failed: %v", err)
	}
	fonts, err := renderer.LoadFonts("")
	if err != nil {
		t.Fatalf("LoadFonts failed: %v", err)
	}

	dir := t.TempDir()
	cfg := &config.Config{
		InputPath: "spring sale.yaml",
		OutputDir: dir,
		Format:    format,
		Quality:   75,
		Workers:   3,
		From:      from,
		To:        to,
		Scale:     0.1,
		ShowStats: true,
	}
	s, err := NewRenderSession(cfg, comp, fonts)
	if err != nil {
		t.Fatalf("NewRenderSession failed: %v", err)
	}
	s.BenchmarkLog = filepath.Join(dir, "benchmark.log")
	return s
}

func TestRenderSessionPNG(t *testing.T) {
	s := testSession(t, config.FormatPNG, 88, 95)

	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rep.Frames != 7 {
		t.Errorf("expected 7 frames, got %d", rep.Frames)
	}
	if !strings.HasPrefix(filepath.Base(rep.OutputDir), "spring_sale_") {
		t.Errorf("unexpected output dir %s", rep.OutputDir)
	}

	for frame := 88; frame < 95; frame++ {
		path := filepath.Join(rep.OutputDir, FrameName(frame, ".png"))
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("frame %d missing: %v", frame, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("frame %d is not a png: %v", frame, err)
		}
		if b := img.Bounds(); b.Dx() != 108 || b.Dy() != 192 {
			t.Errorf("frame %d has size %v", frame, b)
		}
	}
	if _, err := os.Stat(filepath.Join(rep.OutputDir, FrameName(95, ".png"))); !os.IsNotExist(err) {
		t.Error("frame outside the range was written")
	}

	logData, err := os.ReadFile(s.BenchmarkLog)
	if err != nil {
		t.Fatalf("benchmark log missing: %v", err)
	}
	if !strings.Contains(string(logData), rep.SessionID) {
		t.Errorf("benchmark log does not mention session %s: %s", rep.SessionID, logData)
	}
	t.Logf("%d frames in %v (%.1f fps)", rep.Frames, rep.Elapsed, rep.FPS())
}

func TestRenderSessionWebP(t *testing.T) {
	s := testSession(t, config.FormatWebP, 400, 402)

	rep, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	f, err := os.Open(filepath.Join(rep.OutputDir, FrameName(401, ".webp")))
	if err != nil {
		t.Fatalf("webp frame missing: %v", err)
	}
	defer f.Close()
	img, err := webp.Decode(f)
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if b := img.Bounds(); b != image.Rect(0, 0, 108, 192) {
		t.Errorf("unexpected size %v", b)
	}
}

func TestRenderSessionCancelled(t *testing.T) {
	s := testSession(t, config.FormatPNG, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if rep.Frames >= 450 {
		t.Errorf("cancelled session rendered everything (%d frames)", rep.Frames)
	}
}

func TestNewRenderSessionValidates(t *testing.T) {
	comp, err := composition.New(composition.Config{
		HookText:    "Hi",
		CTAText:     "Go",
		BrandColors: composition.BrandColors{Primary: "#000000", Secondary: "#111111", Accent: "#ffffff"},
		Platform:    composition.Platform{Width: 1080, Height: 1920, FPS: 30, TotalDurationFrames: 450},
	})
	if err != nil {
		t.Fatalf("composition.New failed: %v", err)
	}

	cfg := &config.Config{Format: "gif", Workers: 1, Scale: 1}
	if _, err := NewRenderSession(cfg, comp, nil); err == nil {
		t.Error("expected error for unknown format")
	}

	cfg = &config.Config{Format: config.FormatPNG, Workers: 1, Scale: 1, From: 500}
	if _, err := NewRenderSession(cfg, comp, nil); err == nil {
		t.Error("expected error for range past the end")
	}
}

func TestFrameName(t *testing.T) {
	if got := FrameName(42, ".png"); got != "frame_00042.png" {
		t.Errorf("FrameName = %s", got)
	}
}

func TestAppendLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.log")
	for _, line := range []string{"first\n", "second\n"} {
		if err := appendLog(path, line); err != nil {
			t.Fatalf("appendLog failed: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first\nsecond\n" {
		t.Errorf("unexpected log contents %q", data)
	}

	// a directory cannot be opened for appending
	if err := appendLog(t.TempDir(), "x\n"); err == nil {
		t.Error("expected error when the log path is a directory")
	}
}
