package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/reelmotion/internal/composition"
	"github.com/ivlev/reelmotion/internal/config"
	"github.com/ivlev/reelmotion/internal/engine"
	"github.com/ivlev/reelmotion/internal/renderer"
	"github.com/ivlev/reelmotion/internal/system"
)

// buildVersion is set with -ldflags "-X main.buildVersion=..."
var buildVersion = "dev"

const compositionsDir = "input/compositions"

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "render":
		err = runRender(args)
	case "inspect":
		err = runInspect(args, os.Stdout)
	case "validate":
		err = runValidate(args, os.Stdout)
	case "init":
		err = runInit(args, os.Stdout)
	case "-h", "-help", "--help", "help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		log.Fatalf("[-] Неизвестная команда: %s", os.Args[1])
	}

	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Использование: reelmotion <команда> [флаги]")
	fmt.Fprintln(w, "  render    экспорт кадров композиции в PNG/WebP")
	fmt.Fprintln(w, "  inspect   вывод состояния кадра в YAML/JSON")
	fmt.Fprintln(w, "  validate  проверка файла композиции")
	fmt.Fprintln(w, "  init      создание примера композиции")
}

// resolveInput falls back to the newest composition in input/compositions.
func resolveInput(input string) (string, error) {
	if input != "" {
		return input, nil
	}
	latest, err := system.FindLatestComposition(compositionsDir)
	if err != nil {
		return "", fmt.Errorf("%w. Положите YAML в %s/ или укажите -input", err, compositionsDir)
	}
	fmt.Printf("[*] Выбран файл: %s\n", latest)
	return latest, nil
}

func runRender(args []string) error {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	defaults, err := config.LoadDefaults(config.Defaults{Format: config.FormatPNG, OutputDir: "output"})
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	inputPtr := fs.String("input", "", "Путь к YAML композиции (по умолчанию: самый свежий файл в "+compositionsDir+"/)")
	outputPtr := fs.String("output", defaults.OutputDir, "Папка для кадров ($"+config.EnvOutputDir+")")
	fromPtr := fs.Int("from", 0, "Первый кадр")
	toPtr := fs.Int("to", 0, "Кадр, на котором остановиться (не включая; 0 - до конца)")
	workersPtr := fs.Int("workers", defaults.Workers, "Потоки (0 - авто по CPU и памяти, $"+config.EnvWorkers+")")
	formatPtr := fs.String("format", defaults.Format, "Формат кадров: png, webp ($"+config.EnvFormat+")")
	qualityPtr := fs.Int("quality", 80, "Качество WebP 1-100")
	scalePtr := fs.Float64("scale", 0.5, "Масштаб кадра относительно композиции")
	fontPtr := fs.String("font", "", "Путь к TTF/OTF шрифту (по умолчанию: Go Bold)")
	statsPtr := fs.Bool("stats", false, "Отчет о производительности и запись в benchmark.log")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input, err := resolveInput(*inputPtr)
	if err != nil {
		return err
	}
	comp, err := composition.Load(input)
	if err != nil {
		return fmt.Errorf("ошибка композиции: %w", err)
	}

	workers := *workersPtr
	if workers <= 0 {
		p := comp.Config().Platform
		frameBytes := int(float64(p.Width) * float64(p.Height) * *scalePtr * *scalePtr * 4)
		workers = system.DefaultWorkers(frameBytes)
	}

	fonts, err := renderer.LoadFonts(*fontPtr)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		InputPath:    input,
		OutputDir:    *outputPtr,
		Format:       strings.ToLower(*formatPtr),
		Quality:      *qualityPtr,
		Workers:      workers,
		From:         *fromPtr,
		To:           *toPtr,
		Scale:        *scalePtr,
		FontPath:     *fontPtr,
		ShowStats:    *statsPtr,
		BuildVersion: buildVersion,
	}

	session, err := engine.NewRenderSession(cfg, comp, fonts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := session.Run(ctx)
	if err != nil {
		return fmt.Errorf("ошибка рендера после %d кадров: %w", report.Frames, err)
	}

	fmt.Printf("[+++] Успех! Кадры: %s\n", report.OutputDir)
	return nil
}

func runInspect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	inputPtr := fs.String("input", "", "Путь к YAML композиции")
	framePtr := fs.Int("frame", 0, "Номер кадра")
	jsonPtr := fs.Bool("json", false, "Вывод в JSON вместо YAML")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input, err := resolveInput(*inputPtr)
	if err != nil {
		return err
	}
	comp, err := composition.Load(input)
	if err != nil {
		return fmt.Errorf("ошибка композиции: %w", err)
	}

	state := comp.ComputeFrameState(*framePtr)
	if state.Frame != *framePtr {
		fmt.Fprintf(os.Stderr, "[!] Кадр %d вне композиции, показан кадр %d\n", *framePtr, state.Frame)
	}

	if *jsonPtr {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(state); err != nil {
		return err
	}
	return enc.Close()
}

func runValidate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	inputPtr := fs.String("input", "", "Путь к YAML композиции")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input, err := resolveInput(*inputPtr)
	if err != nil {
		return err
	}
	comp, err := composition.Load(input)
	if err != nil {
		return fmt.Errorf("композиция некорректна: %w", err)
	}

	p := comp.Config().Platform
	fmt.Fprintf(out, "[+++] Композиция корректна: %s\n", input)
	fmt.Fprintf(out, "[*] %dx%d @ %d FPS, %d кадров, слов: %d\n", p.Width, p.Height, p.FPS, comp.TotalFrames(), comp.Captions().Len())
	if words := comp.Captions().Words(); len(words) > 0 {
		spoken, shortest := 0.0, words[0]
		for _, w := range words {
			spoken += w.Duration()
			if w.Duration() < shortest.Duration() {
				shortest = w
			}
		}
		fmt.Fprintf(out, "[*] Озвучка: %.2fs-%.2fs, речь %.2fs, самое короткое слово %q (%.2fs)\n",
			words[0].Start, words[len(words)-1].End, spoken, shortest.Word, shortest.Duration())
	}
	for _, s := range comp.Scheduler().Scenes() {
		start, end := comp.Scheduler().Window(s)
		fmt.Fprintf(out, "[*] %-12s %-12s [%d, %d)\n", s.Name, s.Kind, start, end)
	}
	return nil
}

func runInit(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	outputPtr := fs.String("output", "", "Путь к YAML (если пусто, генерируется в "+compositionsDir+"/)")
	presetPtr := fs.String("preset", "tiktok", "Пресет платформы: "+strings.Join(composition.PlatformNames(), ", "))
	ctaURLPtr := fs.String("cta-url", "", "Ссылка для QR-кода в финальной сцене")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := composition.SampleConfig(*presetPtr)
	if err != nil {
		return err
	}
	cfg.CTAURL = *ctaURLPtr

	path := *outputPtr
	if path == "" {
		path = composition.GenerateConfigPath(compositionsDir, *presetPtr)
	}
	if err := composition.WriteConfig(cfg, path); err != nil {
		return err
	}

	fmt.Fprintf(out, "[+++] Успех! Композиция сохранена: %s\n", path)
	return nil
}
