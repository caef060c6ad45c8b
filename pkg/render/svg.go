package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ajstarks/svgo"

	"github.com/vanderheijden86/contribsnake/pkg/metrics"
	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// glowOffset is how far the eating halo extends past the head cell.
const glowOffset = 3

func writeSVG(w io.Writer, s Scene, pal palette) error {
	defer metrics.Timer(metrics.RenderSVG)()

	geo := newGeometry(s.Grid, s.Render, s.Render.SVGPadding)
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(geo.width, geo.height)
	canvas.Title("GitHub contribution snake")
	canvas.Rect(0, 0, geo.width, geo.height, "fill:"+css(pal.background))

	if s.Render.AnimatedSVG && len(s.Path) > 0 {
		animatedSVG(canvas, s, pal, geo)
	} else {
		staticSVG(canvas, s, pal, geo)
	}

	canvas.End()
	return ew.err
}

// staticSVG freezes the snake at the snapshot frame.
func staticSVG(canvas *svg.SVG, s Scene, pal palette, geo geometry) {
	length := s.snakeLength()
	frame := FrameAt(s.Path, length, SnapshotIndex(s.Path, s.Render.SnapshotFraction))
	eaten := eatenAt(s.Path)

	for col, column := range s.Grid {
		for row, cell := range column {
			fill := pal.level(cell.Level)
			if k, ok := eaten[model.Coord{Col: col, Row: row}]; ok && k < frame.Eaten {
				fill = pal.level(0)
			}
			x, y := geo.origin(col, row)
			canvas.Roundrect(x, y, geo.cell, geo.cell, geo.radius, geo.radius, "fill:"+css(fill))
		}
	}

	for i := len(frame.Snake) - 1; i >= 0; i-- {
		v := frame.Snake[i]
		fill := pal.snake
		if i == 0 {
			fill = pal.head
		}
		x, y := geo.origin(v.Col, v.Row)
		canvas.Roundrect(x, y, geo.cell, geo.cell, geo.radius, geo.radius,
			fmt.Sprintf("fill:%s;fill-opacity:%.2f", css(fill), svgOpacity(i, length)))
	}
}

// animatedSVG loops the whole traversal with discrete SMIL animations: each
// eaten cell switches to the empty color when the head reaches it and each
// snake segment jumps from cell to cell once per frame. Animated shapes are
// groups around a plain rounded rect, so the rect inherits the animated fill,
// opacity and translation from its group.
func animatedSVG(canvas *svg.SVG, s Scene, pal palette, geo geometry) {
	length := s.snakeLength()
	frames := FrameCount(s.Path, length)
	dur := fmt.Sprintf("%.3fs", float64(frames)*s.Render.FrameDuration.Seconds())
	eaten := eatenAt(s.Path)
	empty := css(pal.level(0))

	for col, column := range s.Grid {
		for row, cell := range column {
			x, y := geo.origin(col, row)
			fill := css(pal.level(cell.Level))
			k, ok := eaten[model.Coord{Col: col, Row: row}]
			switch {
			case !ok || fill == empty:
				canvas.Roundrect(x, y, geo.cell, geo.cell, geo.radius, geo.radius, "fill:"+fill)
			case k == 0:
				canvas.Roundrect(x, y, geo.cell, geo.cell, geo.radius, geo.radius, "fill:"+empty)
			default:
				canvas.Group(attr("fill", fill))
				smil(canvas.Writer, "animate", dur,
					attr("attributeName", "fill"),
					attr("values", fill+";"+empty),
					attr("keyTimes", fmt.Sprintf("0;%.5f", float64(k)/float64(frames))))
				canvas.Roundrect(x, y, geo.cell, geo.cell, geo.radius, geo.radius)
				canvas.Gend()
			}
		}
	}

	glow := segmentTrack(s.Path, geo, frames, 0)
	for f := range frames {
		if f >= len(s.Path) || s.Path[f].Count <= 0 {
			glow.opacity[f] = "0"
		}
	}
	glow.offset(-glowOffset)
	glow.write(canvas, geo.cell+2*glowOffset, geo.radius+2, dur, attr("fill", css(pal.glow)))

	for i := length - 1; i >= 0; i-- {
		fill := pal.snake
		if i == 0 {
			fill = pal.head
		}
		track := segmentTrack(s.Path, geo, frames, i)
		track.write(canvas, geo.cell, geo.radius, dur,
			attr("fill", css(fill)), attr("fill-opacity", fmt.Sprintf("%.2f", svgOpacity(i, length))))
	}
}

// attr formats one XML attribute in the form svgo accepts as a raw attribute.
func attr(name, value string) string {
	return name + `="` + value + `"`
}

// smil writes a looping SMIL element that jumps between its values.
func smil(w io.Writer, tag, dur string, attrs ...string) {
	fmt.Fprintf(w, "<%s %s dur=\"%s\" calcMode=\"discrete\" repeatCount=\"indefinite\"/>\n",
		tag, strings.Join(attrs, " "), dur)
}

// track holds per-frame positions of one animated rectangle.
type track struct {
	x, y    []int
	opacity []string
}

// segmentTrack follows body segment i (0 is the head) through every frame.
// While the segment is off the path it stays put and is hidden.
func segmentTrack(path model.Path, geo geometry, frames, i int) track {
	t := track{
		x:       make([]int, frames),
		y:       make([]int, frames),
		opacity: make([]string, frames),
	}
	lastX, lastY := geo.origin(path[0].Col, path[0].Row)
	for f := range frames {
		pos := f - i
		visible := pos >= 0 && pos < len(path)
		if visible {
			lastX, lastY = geo.origin(path[pos].Col, path[pos].Row)
		}
		t.x[f], t.y[f] = lastX, lastY
		t.opacity[f] = "0"
		if visible {
			t.opacity[f] = "1"
		}
	}
	return t
}

func (t track) offset(d int) {
	for f := range t.x {
		t.x[f] += d
		t.y[f] += d
	}
}

// write emits the track as a translated group around a rect at the origin.
func (t track) write(canvas *svg.SVG, size, radius int, dur string, attrs ...string) {
	points := make([]string, len(t.x))
	for f := range t.x {
		points[f] = strconv.Itoa(t.x[f]) + "," + strconv.Itoa(t.y[f])
	}
	group := []string{attr("transform", "translate("+points[0]+")"), attr("opacity", t.opacity[0])}
	canvas.Group(append(group, attrs...)...)
	smil(canvas.Writer, "animateTransform", dur,
		attr("attributeName", "transform"), attr("type", "translate"), attr("values", strings.Join(points, ";")))
	smil(canvas.Writer, "animate", dur,
		attr("attributeName", "opacity"), attr("values", strings.Join(t.opacity, ";")))
	canvas.Roundrect(0, 0, size, size, radius, radius)
	canvas.Gend()
}

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
