package composition

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

const textHex = "#ffffff"

type palette struct {
	primary   colorful.Color
	secondary colorful.Color
	accent    colorful.Color
	text      colorful.Color
}

func newPalette(b BrandColors) (palette, error) {
	var p palette
	var err error
	if p.primary, err = parseHex("primary", b.Primary); err != nil {
		return p, err
	}
	if p.secondary, err = parseHex("secondary", b.Secondary); err != nil {
		return p, err
	}
	if p.accent, err = parseHex("accent", b.Accent); err != nil {
		return p, err
	}
	p.text, _ = colorful.Hex(textHex)
	return p, nil
}

func parseHex(name, hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return c, fmt.Errorf("brand color %s %q: %w", name, hex, err)
	}
	return c, nil
}

// blend mixes a toward b by t in [0, 1] and returns the hex string.
func blend(a, b colorful.Color, t float64) string {
	if t <= 0 {
		return a.Hex()
	}
	if t >= 1 {
		return b.Hex()
	}
	return a.BlendRgb(b, t).Clamped().Hex()
}
