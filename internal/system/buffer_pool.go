package system

import (
	"image"
	"sync"
)

// CanvasPool переиспользует холсты *image.RGBA между кадрами, чтобы
// экспорт длинных последовательностей не нагружал GC.
// Для каждого размера кадра заводится отдельный sync.Pool.
type CanvasPool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewCanvasPool()

// NewCanvasPool создает пустой пул.
func NewCanvasPool() *CanvasPool {
	return &CanvasPool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// GetCanvas берет холст нужного размера из общего пула.
func GetCanvas(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutCanvas возвращает холст в общий пул.
func PutCanvas(img *image.RGBA) {
	globalPool.Put(img)
}

// Get возвращает холст размера rect. Содержимое не очищается:
// рисующий код обязан перезаписать весь кадр.
func (p *CanvasPool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, ok := p.pools[rect]
	p.mu.RUnlock()

	if !ok {
		p.mu.Lock()
		// Double check
		pool, ok = p.pools[rect]
		if !ok {
			pool = &sync.Pool{
				New: func() any {
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

// Put принимает только холсты, размер которых уже известен пулу.
func (p *CanvasPool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, ok := p.pools[img.Rect]
	p.mu.RUnlock()

	if ok {
		pool.Put(img)
	}
}
