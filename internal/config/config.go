package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Frame image formats supported by the render session.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Environment variables that override built-in flag defaults.
const (
	EnvWorkers   = "REELMOTION_WORKERS"
	EnvFormat    = "REELMOTION_FORMAT"
	EnvOutputDir = "REELMOTION_OUTPUT_DIR"
)

// Config holds the settings of one render run. Composition content lives in
// the YAML file; this is only about how frames are exported.
type Config struct {
	InputPath    string
	OutputDir    string
	Format       string
	Quality      int
	Workers      int
	From         int
	To           int // exclusive; 0 means up to the last frame
	Scale        float64
	FontPath     string
	ShowStats    bool
	BuildVersion string
	SessionID    string
}

// Defaults are flag defaults after the environment has been applied.
type Defaults struct {
	Workers   int
	Format    string
	OutputDir string
}

// LoadDefaults reads .env files (missing files are fine) and the REELMOTION_*
// variables on top of the given fallbacks.
func LoadDefaults(fallback Defaults, envFiles ...string) (Defaults, error) {
	if err := loadEnvFiles(envFiles...); err != nil {
		return fallback, err
	}

	d := fallback
	if v := strings.TrimSpace(os.Getenv(EnvWorkers)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fallback, fmt.Errorf("%s: ожидается положительное число, получено %q", EnvWorkers, v)
		}
		d.Workers = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		d.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		d.OutputDir = v
	}
	return d, nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	// godotenv.Load never overrides variables already set in the process
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("загрузка .env: %w", err)
	}
	return nil
}

// Validate checks the run settings against a composition of totalFrames frames.
func (c *Config) Validate(totalFrames int) error {
	switch c.Format {
	case FormatPNG, FormatWebP:
	default:
		return fmt.Errorf("неизвестный формат кадров %q (png, webp)", c.Format)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers должно быть >= 1, получено %d", c.Workers)
	}
	if c.Scale <= 0 || c.Scale > 4 {
		return fmt.Errorf("scale должен быть в (0, 4], получено %v", c.Scale)
	}
	if c.Format == FormatWebP && (c.Quality < 1 || c.Quality > 100) {
		return fmt.Errorf("quality для webp должно быть в [1, 100], получено %d", c.Quality)
	}
	from, to := c.FrameRange(totalFrames)
	if from < 0 || from >= to {
		return fmt.Errorf("пустой диапазон кадров [%d, %d) при длительности %d", from, to, totalFrames)
	}
	return nil
}

// FrameRange resolves From/To against the composition length.
func (c *Config) FrameRange(totalFrames int) (int, int) {
	to := c.To
	if to <= 0 || to > totalFrames {
		to = totalFrames
	}
	return c.From, to
}
