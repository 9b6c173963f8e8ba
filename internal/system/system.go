package system

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

var compositionExtensions = []string{".yaml", ".yml"}

// FindLatestComposition возвращает самый свежий YAML-файл композиции в dir.
func FindLatestComposition(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), compositionExtensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов композиции", dir)
	}

	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// HostStats описывает машину, на которой идет экспорт кадров.
type HostStats struct {
	CPUModel      string
	PhysicalCores int
	LogicalCores  int
	TotalMemory   uint64
	UsedPercent   float64
}

// ReadHostStats опрашивает gopsutil. Недоступные поля остаются нулевыми.
func ReadHostStats() HostStats {
	stats := HostStats{LogicalCores: runtime.NumCPU()}

	if n, err := cpu.Counts(false); err == nil {
		stats.PhysicalCores = n
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		stats.LogicalCores = n
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		stats.CPUModel = strings.TrimSpace(infos[0].ModelName)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.TotalMemory = vm.Total
		stats.UsedPercent = vm.UsedPercent
	}
	return stats
}

func (h HostStats) String() string {
	model := h.CPUModel
	if model == "" {
		model = "unknown CPU"
	}
	return fmt.Sprintf("%s | %d/%d cores | RAM %.1f GiB (%.0f%% used)",
		model, h.PhysicalCores, h.LogicalCores, float64(h.TotalMemory)/(1<<30), h.UsedPercent)
}

// DefaultWorkers подбирает число воркеров рендера: по ядру на воркер, но не
// больше, чем помещается холстов frameBytes в половину свободной памяти.
func DefaultWorkers(frameBytes int) int {
	workers := runtime.NumCPU()
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		workers = n
	}
	if frameBytes <= 0 {
		return workers
	}
	// каждый воркер держит холст и буфер кодировщика
	if vm, err := mem.VirtualMemory(); err == nil && vm.Available > 0 {
		fit := int(vm.Available / 2 / uint64(2*frameBytes))
		workers = min(workers, max(fit, 1))
	}
	return workers
}
