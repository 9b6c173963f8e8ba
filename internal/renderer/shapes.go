package renderer

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/ivlev/reelmotion/internal/composition"
)

type rectF struct {
	x0, y0, x1, y1 float64
}

// path rasterizes a closed shape inside bounds; coordinates are absolute canvas pixels.
type path struct {
	z      *vector.Rasterizer
	origin image.Point
	bounds image.Rectangle
}

func newPath(dst *image.RGBA, r rectF) (*path, bool) {
	bounds := image.Rect(
		int(math.Floor(r.x0)), int(math.Floor(r.y0)),
		int(math.Ceil(r.x1)), int(math.Ceil(r.y1)),
	)
	if bounds.Intersect(dst.Bounds()).Empty() {
		return nil, false
	}
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.DrawOp = draw.Src
	return &path{z: z, origin: bounds.Min, bounds: bounds}, true
}

func (p *path) moveTo(x, y float64) {
	p.z.MoveTo(float32(x-float64(p.origin.X)), float32(y-float64(p.origin.Y)))
}

func (p *path) lineTo(x, y float64) {
	p.z.LineTo(float32(x-float64(p.origin.X)), float32(y-float64(p.origin.Y)))
}

func (p *path) quadTo(cx, cy, x, y float64) {
	p.z.QuadTo(
		float32(cx-float64(p.origin.X)), float32(cy-float64(p.origin.Y)),
		float32(x-float64(p.origin.X)), float32(y-float64(p.origin.Y)),
	)
}

// fill rasterizes into a local mask first; DrawMask then clips against the canvas.
func (p *path) fill(dst *image.RGBA, hex string, opacity float64) {
	p.z.ClosePath()
	mask := image.NewAlpha(image.Rect(0, 0, p.bounds.Dx(), p.bounds.Dy()))
	p.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(dst, p.bounds, image.NewUniform(nrgba(hex, opacity)), image.Point{}, mask, image.Point{}, draw.Over)
}

func fillRoundRect(dst *image.RGBA, r rectF, radius float64, hex string, opacity float64) {
	p, ok := newPath(dst, r)
	if !ok {
		return
	}
	radius = math.Min(radius, math.Min(r.x1-r.x0, r.y1-r.y0)/2)

	p.moveTo(r.x0+radius, r.y0)
	p.lineTo(r.x1-radius, r.y0)
	p.quadTo(r.x1, r.y0, r.x1, r.y0+radius)
	p.lineTo(r.x1, r.y1-radius)
	p.quadTo(r.x1, r.y1, r.x1-radius, r.y1)
	p.lineTo(r.x0+radius, r.y1)
	p.quadTo(r.x0, r.y1, r.x0, r.y1-radius)
	p.lineTo(r.x0, r.y0+radius)
	p.quadTo(r.x0, r.y0, r.x0+radius, r.y0)
	p.fill(dst, hex, opacity)
}

// drawArrow draws a downward arrow whose bounding square has edge Size·Scale.
func (r *Rasterizer) drawArrow(dst *image.RGBA, e composition.Element) {
	s := e.Size * e.Scale * r.Scale
	cx, cy := e.TranslateX*r.Scale, e.TranslateY*r.Scale
	half := s / 2
	stem := s * 0.14

	p, ok := newPath(dst, rectF{cx - half, cy - half, cx + half, cy + half})
	if !ok {
		return
	}
	p.moveTo(cx-stem, cy-half)
	p.lineTo(cx+stem, cy-half)
	p.lineTo(cx+stem, cy)
	p.lineTo(cx+half, cy)
	p.lineTo(cx, cy+half)
	p.lineTo(cx-half, cy)
	p.lineTo(cx-stem, cy)
	p.fill(dst, e.Color, e.Opacity)
}
