package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"

	"github.com/ivlev/reelmotion/internal/composition"
)

type qrKey struct {
	content string
	size    int
}

type qrCache struct {
	images map[qrKey]image.Image
}

func newQRCache() *qrCache {
	return &qrCache{images: make(map[qrKey]image.Image)}
}

func (c *qrCache) get(content string, size int) (image.Image, error) {
	key := qrKey{content, size}
	if img, ok := c.images[key]; ok {
		return img, nil
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}
	q.BackgroundColor = color.White
	q.ForegroundColor = color.Black
	img := q.Image(size)
	c.images[key] = img
	return img, nil
}

func (r *Rasterizer) drawQR(dst *image.RGBA, e composition.Element) error {
	size := int(e.Size * e.Scale * r.Scale)
	if size <= 0 || e.Text == "" {
		return nil
	}
	img, err := r.qr.get(e.Text, size)
	if err != nil {
		return err
	}

	// the encoder may round the size up to fit its modules
	b := img.Bounds()
	cx, cy := int(e.TranslateX*r.Scale), int(e.TranslateY*r.Scale)
	at := image.Rect(cx-b.Dx()/2, cy-b.Dy()/2, cx-b.Dx()/2+b.Dx(), cy-b.Dy()/2+b.Dy())
	alpha := image.NewUniform(color.Alpha{A: uint8(clamp01(e.Opacity) * 255)})
	draw.DrawMask(dst, at, img, b.Min, alpha, image.Point{}, draw.Over)
	return nil
}
