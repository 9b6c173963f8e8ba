package renderer

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// FontSet is the parsed typeface used for all text. Load it once before
// rendering and share it between workers; it is read-only.
type FontSet struct {
	face *opentype.Font
	name string
}

// LoadFonts parses the font at path, or the bundled Go Bold face when path is empty.
func LoadFonts(path string) (*FontSet, error) {
	data := gobold.TTF
	name := "Go Bold"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data, name = b, path
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	return &FontSet{face: f, name: name}, nil
}

// Name returns the font source for logs.
func (fs *FontSet) Name() string {
	return fs.name
}

// faceCache hands out sized faces. font.Face keeps internal buffers, so a
// cache belongs to exactly one Rasterizer and is not shared between goroutines.
type faceCache struct {
	fonts *FontSet
	faces map[int]font.Face
}

func newFaceCache(fs *FontSet) *faceCache {
	return &faceCache{fonts: fs, faces: make(map[int]font.Face)}
}

// get returns a face for size pixels, rounded to half-pixel steps.
func (c *faceCache) get(size float64) (font.Face, error) {
	key := int(math.Round(size * 2))
	if key < 2 {
		key = 2
	}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(c.fonts.face, &opentype.FaceOptions{
		Size:    float64(key) / 2,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	c.faces[key] = f
	return f, nil
}

func (c *faceCache) close() {
	for k, f := range c.faces {
		f.Close()
		delete(c.faces, k)
	}
}
