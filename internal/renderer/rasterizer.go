// Package renderer draws a composition.FrameState into an RGBA canvas for previews
// and frame-sequence export. It never computes animation itself; all motion comes
// from the frame state.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/reelmotion/internal/composition"
)

// Rasterizer draws frame states. It caches font faces and QR codes, so each
// worker goroutine needs its own Rasterizer; the FontSet can be shared.
type Rasterizer struct {
	// Scale resizes the output relative to the composition canvas (1 = full size).
	Scale float64

	faces *faceCache
	qr    *qrCache
}

// NewRasterizer returns a Rasterizer drawing at the given output scale.
func NewRasterizer(fonts *FontSet, scale float64) *Rasterizer {
	if scale <= 0 {
		scale = 1
	}
	return &Rasterizer{
		Scale: scale,
		faces: newFaceCache(fonts),
		qr:    newQRCache(),
	}
}

// Close releases cached faces.
func (r *Rasterizer) Close() {
	r.faces.close()
}

// Bounds returns the output rectangle for a frame.
func (r *Rasterizer) Bounds(state composition.FrameState) image.Rectangle {
	w := int(math.Round(float64(state.Width) * r.Scale))
	h := int(math.Round(float64(state.Height) * r.Scale))
	return image.Rect(0, 0, w, h)
}

// Draw paints the frame onto dst, which must match Bounds(state).
// Elements are drawn in slice order, which the composition sorts by z-order.
func (r *Rasterizer) Draw(dst *image.RGBA, state composition.FrameState) error {
	if dst.Bounds() != r.Bounds(state) {
		return fmt.Errorf("canvas %v does not match frame %v", dst.Bounds(), r.Bounds(state))
	}
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	for _, e := range state.Elements {
		if e.Opacity <= 0 {
			continue
		}
		if err := r.drawElement(dst, e); err != nil {
			return fmt.Errorf("element %s: %w", e.ID, err)
		}
	}
	return nil
}

func (r *Rasterizer) drawElement(dst *image.RGBA, e composition.Element) error {
	switch e.Kind {
	case composition.KindBackground:
		fill(dst, dst.Bounds(), e.Color, e.Opacity)
		return nil
	case composition.KindText:
		return r.drawText(dst, e.Text, e.Size*e.Scale, e.TranslateX, e.TranslateY, e.Color, e.Opacity)
	case composition.KindCaptionLine:
		return r.drawCaptionLine(dst, e)
	case composition.KindProgressBar:
		h := e.Size * r.Scale
		y := e.TranslateY * r.Scale
		w := float64(dst.Bounds().Dx()) * clamp01(e.Scale)
		fill(dst, image.Rect(0, int(y-h/2), int(math.Round(w)), int(y+h/2)), e.Color, e.Opacity)
		return nil
	case composition.KindButton:
		return r.drawButton(dst, e)
	case composition.KindArrow:
		r.drawArrow(dst, e)
		return nil
	case composition.KindQRCode:
		return r.drawQR(dst, e)
	default:
		return fmt.Errorf("unknown element kind %q", e.Kind)
	}
}

// drawText centres text at (x, y) in composition pixels.
func (r *Rasterizer) drawText(dst *image.RGBA, text string, size, x, y float64, hex string, opacity float64) error {
	if text == "" {
		return nil
	}
	face, err := r.faces.get(size * r.Scale)
	if err != nil {
		return err
	}
	width := font.MeasureString(face, text)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(nrgba(hex, opacity)),
		Face: face,
		Dot:  centeredDot(face, x*r.Scale, y*r.Scale, width),
	}
	d.DrawString(text)
	return nil
}

// drawCaptionLine flows the word children left to right around the line centre.
func (r *Rasterizer) drawCaptionLine(dst *image.RGBA, line composition.Element) error {
	if len(line.Children) == 0 {
		return nil
	}

	type placed struct {
		word  composition.Element
		face  font.Face
		width fixed.Int26_6
	}
	words := make([]placed, 0, len(line.Children))
	base, err := r.faces.get(line.Size * r.Scale)
	if err != nil {
		return err
	}
	space := font.MeasureString(base, " ")

	var total fixed.Int26_6
	for i, w := range line.Children {
		face, err := r.faces.get(line.Size * w.Scale * r.Scale)
		if err != nil {
			return err
		}
		width := font.MeasureString(face, w.Text)
		words = append(words, placed{word: w, face: face, width: width})
		total += width
		if i > 0 {
			total += space
		}
	}

	cx, cy := line.TranslateX*r.Scale, line.TranslateY*r.Scale
	left := cx - fixedToFloat(total)/2
	for _, p := range words {
		w := p.word
		mid := left + fixedToFloat(p.width)/2
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(nrgba(w.Color, line.Opacity*w.Opacity)),
			Face: p.face,
			Dot:  centeredDot(p.face, mid+w.TranslateX*r.Scale, cy+w.TranslateY*r.Scale, p.width),
		}
		d.DrawString(w.Text)
		left += fixedToFloat(p.width + space)
	}
	return nil
}

func (r *Rasterizer) drawButton(dst *image.RGBA, e composition.Element) error {
	size := e.Size * e.Scale * r.Scale
	face, err := r.faces.get(size)
	if err != nil {
		return err
	}
	textW := fixedToFloat(font.MeasureString(face, e.Text))
	padX, padY := size*0.8, size*0.55
	cx, cy := e.TranslateX*r.Scale, e.TranslateY*r.Scale
	rect := rectF{cx - textW/2 - padX, cy - size/2 - padY, cx + textW/2 + padX, cy + size/2 + padY}

	fillRoundRect(dst, rect, (rect.y1-rect.y0)/2, e.Color, e.Opacity)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(nrgba(contrastText(e.Color), e.Opacity)),
		Face: face,
		Dot:  centeredDot(face, cx, cy, font.MeasureString(face, e.Text)),
	}
	d.DrawString(e.Text)
	return nil
}

func centeredDot(face font.Face, x, y float64, width fixed.Int26_6) fixed.Point26_6 {
	m := face.Metrics()
	// baseline so that the ascent/descent box is centred on y
	baseline := y + fixedToFloat(m.Ascent-m.Descent)/2
	return fixed.Point26_6{
		X: floatToFixed(x) - width/2,
		Y: floatToFixed(baseline),
	}
}

// nrgba parses a hex colour; malformed colours fall back to white.
func nrgba(hex string, opacity float64) color.NRGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{R: 1, G: 1, B: 1}
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(opacity) * 255))}
}

// contrastText picks black or white text for a filled shape.
func contrastText(fill string) string {
	c, err := colorful.Hex(fill)
	if err != nil {
		return "#ffffff"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}

func fill(dst *image.RGBA, rect image.Rectangle, hex string, opacity float64) {
	draw.Draw(dst, rect.Intersect(dst.Bounds()), image.NewUniform(nrgba(hex, opacity)), image.Point{}, draw.Over)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
