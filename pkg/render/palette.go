package render

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/vanderheijden86/contribsnake/pkg/config"
	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// palette is a theme with its colors parsed.
type palette struct {
	background color.RGBA
	grid       color.RGBA
	levels     [model.MaxLevel + 1]color.RGBA
	snake      color.RGBA
	head       color.RGBA
	glow       color.RGBA
}

func newPalette(t config.Theme) (palette, error) {
	var p palette
	if len(t.Levels) != len(p.levels) {
		return p, fmt.Errorf("theme needs %d level colors, got %d", len(p.levels), len(t.Levels))
	}

	dst := []*color.RGBA{&p.background, &p.snake, &p.head, &p.glow}
	src := []string{t.Background, t.Snake, t.SnakeHead, t.Glow}
	for i := range p.levels {
		dst = append(dst, &p.levels[i])
		src = append(src, t.Levels[i])
	}
	for i, s := range src {
		c, err := parseHex(s)
		if err != nil {
			return p, err
		}
		*dst[i] = c
	}

	p.grid = p.levels[0]
	if t.Grid != "" {
		c, err := parseHex(t.Grid)
		if err != nil {
			return p, err
		}
		p.grid = c
	}
	return p, nil
}

// level returns the fill for a cell level, clamped to the palette.
func (p palette) level(l int) color.RGBA {
	return p.levels[min(max(l, 0), model.MaxLevel)]
}

// body returns the faded fill of body segment i (1-based from the head).
func (p palette) body(i, length int) color.RGBA {
	return blend(p.snake, p.background, bodyAlpha(i, length))
}

// bodyAlpha fades the raster body towards the background.
func bodyAlpha(i, length int) float64 {
	return 1 - float64(i)/float64(length)*0.6
}

// svgOpacity fades the vector body but never below 0.3.
func svgOpacity(i, length int) float64 {
	if i == 0 {
		return 1
	}
	return max(0.3, 1-float64(i)/float64(length)*0.7)
}

func parseHex(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q (want #rrggbb)", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// blend mixes fg over bg; channels are truncated.
func blend(fg, bg color.RGBA, alpha float64) color.RGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*alpha + float64(b)*(1-alpha))
	}
	return color.RGBA{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B), A: 0xff}
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
