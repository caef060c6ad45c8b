package render

import (
	"fmt"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/contribsnake/pkg/metrics"
	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// captionHeight is the strip under the PNG poster holding the caption.
const captionHeight = 24

// rasterizer draws frames onto a reusable gg context.
type rasterizer struct {
	dc    *gg.Context
	scene Scene
	pal   palette
	geo   geometry
	eaten map[model.Coord]int
}

func newRasterizer(s Scene, pal palette, extraHeight int) *rasterizer {
	geo := newGeometry(s.Grid, s.Render, s.Render.GIFPadding)
	return &rasterizer{
		dc:    gg.NewContext(geo.width, geo.height+extraHeight),
		scene: s,
		pal:   pal,
		geo:   geo,
		eaten: eatenAt(s.Path),
	}
}

// draw paints one frame: the grid with eaten cells emptied, then the snake
// from tail to head.
func (r *rasterizer) draw(f Frame) {
	dc := r.dc
	dc.SetColor(r.pal.background)
	dc.Clear()

	for col, column := range r.scene.Grid {
		for row, cell := range column {
			fill := r.pal.level(cell.Level)
			if k, ok := r.eaten[model.Coord{Col: col, Row: row}]; ok && k < f.Eaten {
				fill = r.pal.level(0)
			}
			r.cell(col, row, 0, float64(r.geo.radius), fill)
		}
	}

	length := r.scene.snakeLength()
	for i := len(f.Snake) - 1; i > 0; i-- {
		v := f.Snake[i]
		r.cell(v.Col, v.Row, 0, float64(r.geo.radius), r.pal.body(i, length))
	}
	if len(f.Snake) == 0 {
		return
	}

	head := f.Snake[0]
	if head.Count > 0 {
		r.cell(head.Col, head.Row, glowOffset, 4, r.pal.glow)
		r.cell(head.Col, head.Row, 1, 3, r.pal.head)
		return
	}
	r.cell(head.Col, head.Row, 0, 3, r.pal.head)
}

// cell fills a rounded square over (col,row), grown by grow pixels on
// every side.
func (r *rasterizer) cell(col, row, grow int, radius float64, c color.RGBA) {
	x, y := r.geo.origin(col, row)
	size := float64(r.geo.cell + 2*grow)
	r.dc.SetColor(c)
	r.dc.DrawRoundedRectangle(float64(x-grow), float64(y-grow), size, size, radius)
	r.dc.Fill()
}

// writePNG renders the snapshot frame with a caption strip underneath.
func writePNG(w io.Writer, s Scene, pal palette) error {
	defer metrics.Timer(metrics.RenderPNG)()

	r := newRasterizer(s, pal, captionHeight)
	r.draw(FrameAt(s.Path, s.snakeLength(), SnapshotIndex(s.Path, s.Render.SnapshotFraction)))

	dc := r.dc
	top := float64(r.geo.height)
	dc.SetColor(pal.grid)
	dc.DrawRectangle(0, top, float64(r.geo.width), captionHeight)
	dc.Fill()

	caption := s.Caption
	if caption == "" {
		caption = fmt.Sprintf("%d cells, %d eaten", s.Grid.TotalCells(), len(s.Path))
	}
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(pal.head)
	dc.DrawStringAnchored(caption, float64(r.geo.pad), top+captionHeight/2, 0, 0.35)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
