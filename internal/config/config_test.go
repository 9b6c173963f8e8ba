package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "REELMOTION_WORKERS=3\nREELMOTION_FORMAT=WEBP\nREELMOTION_OUTPUT_DIR=frames\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{EnvWorkers, EnvFormat, EnvOutputDir} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	d, err := LoadDefaults(Defaults{Workers: 8, Format: FormatPNG, OutputDir: "output"}, envFile)
	if err != nil {
		t.Fatalf("LoadDefaults failed: %v", err)
	}
	if d.Workers != 3 || d.Format != FormatWebP || d.OutputDir != "frames" {
		t.Errorf("unexpected defaults %+v", d)
	}
}

func TestLoadDefaultsProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("REELMOTION_WORKERS=3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvWorkers, "5")

	d, err := LoadDefaults(Defaults{Workers: 1}, envFile)
	if err != nil {
		t.Fatalf("LoadDefaults failed: %v", err)
	}
	if d.Workers != 5 {
		t.Errorf("expected process env to win, got %d workers", d.Workers)
	}
}

func TestLoadDefaultsMissingFileAndBadValue(t *testing.T) {
	fallback := Defaults{Workers: 2, Format: FormatPNG, OutputDir: "output"}

	t.Setenv(EnvWorkers, "")
	d, err := LoadDefaults(fallback, filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
	if d != fallback {
		t.Errorf("expected fallback, got %+v", d)
	}

	t.Setenv(EnvWorkers, "zero")
	if _, err := LoadDefaults(fallback, filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Error("expected error for non-numeric workers")
	}
}

func TestValidate(t *testing.T) {
	base := Config{Format: FormatPNG, Workers: 2, Scale: 1, Quality: 80}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{"ok", func(c *Config) {}, false},
		{"webp ok", func(c *Config) { c.Format = FormatWebP }, false},
		{"unknown format", func(c *Config) { c.Format = "gif" }, true},
		{"no workers", func(c *Config) { c.Workers = 0 }, true},
		{"zero scale", func(c *Config) { c.Scale = 0 }, true},
		{"webp quality", func(c *Config) { c.Format = FormatWebP; c.Quality = 0 }, true},
		{"range past end", func(c *Config) { c.From = 450 }, true},
		{"inverted range", func(c *Config) { c.From = 100; c.To = 50 }, true},
		{"sub range", func(c *Config) { c.From = 100; c.To = 200 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.modify(&c)
			err := c.Validate(450)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFrameRange(t *testing.T) {
	c := Config{From: 10}
	if from, to := c.FrameRange(450); from != 10 || to != 450 {
		t.Errorf("FrameRange = [%d, %d), expected [10, 450)", from, to)
	}
	c.To = 1000
	if _, to := c.FrameRange(450); to != 450 {
		t.Errorf("To beyond the end should clamp, got %d", to)
	}
}
