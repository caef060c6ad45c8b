package render

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"time"

	"golang.org/x/image/draw"

	"github.com/vanderheijden86/contribsnake/pkg/metrics"
)

// writeGIF encodes every frame of the animation. Frames are drawn with gg
// and mapped onto a palette built from the theme.
func writeGIF(w io.Writer, s Scene, pal palette) error {
	defer metrics.Timer(metrics.RenderGIF)()

	r := newRasterizer(s, pal, 0)
	colors := gifPalette(pal, s.snakeLength())
	delay := gifDelay(s.Render.FrameDuration)
	bounds := image.Rect(0, 0, r.geo.width, r.geo.height)

	n := FrameCount(s.Path, s.snakeLength())
	anim := &gif.GIF{
		Image:     make([]*image.Paletted, 0, n),
		Delay:     make([]int, 0, n),
		LoopCount: 0,
	}
	for i := range n {
		r.draw(FrameAt(s.Path, s.snakeLength(), i))
		frame := image.NewPaletted(bounds, colors)
		draw.Draw(frame, bounds, r.dc.Image(), image.Point{}, draw.Src)
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encoding gif: %w", err)
	}
	return nil
}

// gifDelay converts a frame duration to GIF delay units (1/100 s).
func gifDelay(d time.Duration) int {
	return max(1, int(d/(10*time.Millisecond)))
}

// gifPalette holds every color a frame uses plus blends towards the
// background, which catch the antialiased cell edges.
func gifPalette(pal palette, snakeLength int) color.Palette {
	base := []color.RGBA{pal.background, pal.snake, pal.head, pal.glow}
	base = append(base, pal.levels[:]...)
	for i := 1; i < snakeLength; i++ {
		base = append(base, pal.body(i, snakeLength))
	}

	seen := make(map[color.RGBA]bool)
	out := make(color.Palette, 0, 256)
	add := func(c color.RGBA) {
		if !seen[c] && len(out) < 256 {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range base {
		add(c)
	}
	for _, alpha := range []float64{0.75, 0.5, 0.25} {
		for _, c := range base {
			add(blend(c, pal.background, alpha))
		}
	}
	return out
}
