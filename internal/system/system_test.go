package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

func TestFindLatestComposition(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	files := []struct {
		name string
		age  time.Duration
	}{
		{"old.yaml", 3 * time.Hour},
		{"newest.YML", time.Hour},
		{"notes.txt", 0},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte("hookText: hi\n"), 0644); err != nil {
			t.Fatal(err)
		}
		stamp := now.Add(-f.age)
		if err := os.Chtimes(path, stamp, stamp); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatestComposition(dir)
	if err != nil {
		t.Fatalf("FindLatestComposition failed: %v", err)
	}
	if want := filepath.Join(dir, "newest.YML"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestFindLatestCompositionEmpty(t *testing.T) {
	if _, err := FindLatestComposition(t.TempDir()); err == nil {
		t.Error("expected error for directory without compositions")
	}
	if _, err := FindLatestComposition(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestCanvasPool(t *testing.T) {
	p := NewCanvasPool()
	rect := image.Rect(0, 0, 27, 48)

	a := p.Get(rect)
	if a.Rect != rect {
		t.Fatalf("expected canvas %v, got %v", rect, a.Rect)
	}
	p.Put(a)

	b := p.Get(rect)
	if b.Rect != rect {
		t.Errorf("reused canvas has wrong size %v", b.Rect)
	}

	// unknown sizes are dropped instead of polluting another pool
	p.Put(image.NewRGBA(image.Rect(0, 0, 5, 5)))
	if c := p.Get(image.Rect(0, 0, 5, 5)); c.Rect.Dx() != 5 {
		t.Errorf("unexpected canvas %v", c.Rect)
	}
	p.Put(nil)
}

func TestDefaultWorkers(t *testing.T) {
	if n := DefaultWorkers(0); n < 1 {
		t.Errorf("DefaultWorkers(0) = %d, expected at least 1", n)
	}
	if vm, err := mem.VirtualMemory(); err != nil || vm.Available == 0 {
		t.Skip("memory stats unavailable")
	}
	// a frame larger than any machine's memory still gets one worker
	if n := DefaultWorkers(1 << 50); n != 1 {
		t.Errorf("DefaultWorkers(huge) = %d, expected 1", n)
	}
}

func TestReadHostStats(t *testing.T) {
	stats := ReadHostStats()
	if stats.LogicalCores < 1 {
		t.Errorf("expected at least one logical core, got %d", stats.LogicalCores)
	}
	t.Logf("host: %s", stats)
}
