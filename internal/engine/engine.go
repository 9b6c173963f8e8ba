package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/reelmotion/internal/composition"
	"github.com/ivlev/reelmotion/internal/config"
	"github.com/ivlev/reelmotion/internal/renderer"
	"github.com/ivlev/reelmotion/internal/system"
)

// DefaultBenchmarkLog is where ShowStats appends one line per run.
const DefaultBenchmarkLog = "benchmark.log"

// RenderSession exports a frame range of one composition as an image sequence.
type RenderSession struct {
	Config       *config.Config
	Composition  *composition.Composition
	Fonts        *renderer.FontSet
	Writer       FrameWriter
	BenchmarkLog string

	outDir string
}

// Report summarises a finished session.
type Report struct {
	SessionID string
	OutputDir string
	From, To  int
	Frames    int
	Elapsed   time.Duration
	Host      system.HostStats
}

// FPS is the effective export rate.
func (r Report) FPS() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Elapsed.Seconds()
}

func NewRenderSession(cfg *config.Config, comp *composition.Composition, fonts *renderer.FontSet) (*RenderSession, error) {
	if err := cfg.Validate(comp.TotalFrames()); err != nil {
		return nil, err
	}
	fw, err := NewFrameWriter(cfg.Format, cfg.Quality)
	if err != nil {
		return nil, err
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}
	return &RenderSession{
		Config:       cfg,
		Composition:  comp,
		Fonts:        fonts,
		Writer:       fw,
		BenchmarkLog: DefaultBenchmarkLog,
	}, nil
}

// OutputDir is the directory frames go to: <OutputDir>/<input name>_<session id>.
func (s *RenderSession) OutputDir() string {
	if s.outDir != "" {
		return s.outDir
	}
	name := "composition"
	if s.Config.InputPath != "" {
		base := filepath.Base(s.Config.InputPath)
		name = strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), " ", "_")
	}
	id := s.Config.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	s.outDir = filepath.Join(s.Config.OutputDir, fmt.Sprintf("%s_%s", name, id))
	return s.outDir
}

// Run renders every frame in the configured range. The first failing frame
// cancels the remaining work and its error is returned.
func (s *RenderSession) Run(ctx context.Context) (Report, error) {
	startTime := time.Now()
	cfg := s.Config
	platform := s.Composition.Config().Platform
	from, to := cfg.FrameRange(s.Composition.TotalFrames())
	total := to - from

	report := Report{SessionID: cfg.SessionID, OutputDir: s.OutputDir(), From: from, To: to}
	if err := os.MkdirAll(report.OutputDir, 0755); err != nil {
		return report, fmt.Errorf("не удалось создать папку кадров: %w", err)
	}

	workers := min(cfg.Workers, total)

	fmt.Println("--- [PROJECT: REELMOTION] ---")
	fmt.Printf("[*] Композиция: %s | Сессия: %s\n", cfg.InputPath, cfg.SessionID)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS | Масштаб: %.2f | Кадры: [%d, %d)\n",
		platform.Width, platform.Height, platform.FPS, cfg.Scale, from, to)
	fmt.Printf("[*] Формат: %s | Воркеры: %d | Шрифт: %s\n", cfg.Format, workers, s.Fonts.Name())
	fmt.Println("-----------------------------")

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int, workers)

	g.Go(func() error {
		defer close(jobs)
		for frame := from; frame < to; frame++ {
			select {
			case jobs <- frame:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var done atomic.Int64
	step := max(total/20, 1)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			// font faces are not safe for concurrent use, one rasterizer per worker
			r := renderer.NewRasterizer(s.Fonts, cfg.Scale)
			defer r.Close()

			for frame := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := s.renderFrame(r, frame, report.OutputDir); err != nil {
					return err
				}
				if n := done.Add(1); n%int64(step) == 0 || n == int64(total) {
					fmt.Printf("[>] Ready: %d/%d\n", n, total)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	report.Frames = int(done.Load())
	report.Elapsed = time.Since(startTime)
	if err != nil {
		return report, err
	}

	if cfg.ShowStats {
		report.Host = system.ReadHostStats()
		s.printStats(report)
	}
	return report, nil
}

func (s *RenderSession) renderFrame(r *renderer.Rasterizer, frame int, dir string) error {
	state := s.Composition.ComputeFrameState(frame)
	canvas := system.GetCanvas(r.Bounds(state))
	defer system.PutCanvas(canvas)

	if err := r.Draw(canvas, state); err != nil {
		return fmt.Errorf("кадр %d: %w", frame, err)
	}
	if _, err := writeFrame(s.Writer, dir, frame, canvas); err != nil {
		return fmt.Errorf("кадр %d: %w", frame, err)
	}
	return nil
}

func (s *RenderSession) printStats(rep Report) {
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Session: %s\n"+
			"Host: %s\n"+
			"Frames: %d\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		s.Config.BuildVersion, rep.SessionID, rep.Host, rep.Frames, rep.Elapsed.Seconds(), rep.FPS(),
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Session: %s | Input: %s | Frames: %d | Format: %s | Total: %.2fs | FPS: %.2f | Cores: %d\n",
		time.Now().Format("2006-01-02 15:04:05"),
		s.Config.BuildVersion,
		rep.SessionID,
		filepath.Base(s.Config.InputPath),
		rep.Frames,
		s.Config.Format,
		rep.Elapsed.Seconds(),
		rep.FPS(),
		rep.Host.LogicalCores,
	)

	logPath := s.BenchmarkLog
	if logPath == "" {
		logPath = DefaultBenchmarkLog
	}
	if err := appendLog(logPath, logEntry); err != nil {
		fmt.Printf("[!] Не удалось записать %s: %v\n", logPath, err)
	}
}

func appendLog(path, entry string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
