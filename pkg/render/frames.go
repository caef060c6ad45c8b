package render

import (
	"github.com/vanderheijden86/contribsnake/pkg/config"
	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// geometry places cells on the canvas.
type geometry struct {
	cell   int
	step   int
	pad    int
	radius int
	width  int
	height int
}

func newGeometry(grid model.Grid, rc config.RenderConfig, pad int) geometry {
	g := geometry{
		cell:   rc.CellSize,
		step:   rc.CellSize + max(0, rc.CellSpacing),
		pad:    max(0, pad),
		radius: max(0, rc.CellRadius),
	}
	g.width = grid.Columns()*g.step - max(0, rc.CellSpacing) + 2*g.pad
	g.height = grid.Rows()*g.step - max(0, rc.CellSpacing) + 2*g.pad
	return g
}

func (g geometry) origin(col, row int) (x, y int) {
	return col*g.step + g.pad, row*g.step + g.pad
}

// Frame is the animation state after the head has moved Index times.
type Frame struct {
	Index int
	// Eaten is the length of the path prefix already eaten. Cells on that
	// prefix are drawn as level 0.
	Eaten int
	// Snake holds the visible segments, head first. Near the start and end
	// of the animation it is shorter than the configured length.
	Snake []model.Visit
}

// FrameCount is the number of frames needed for the head to cover the path
// and the tail to follow it off the last cell.
func FrameCount(path model.Path, snakeLength int) int {
	return len(path) + max(1, snakeLength)
}

// FrameAt returns frame idx of the animation.
func FrameAt(path model.Path, snakeLength, idx int) Frame {
	f := Frame{Index: idx, Eaten: min(idx+1, len(path))}
	for i := range max(1, snakeLength) {
		pos := idx - i
		if pos >= 0 && pos < len(path) {
			f.Snake = append(f.Snake, path[pos])
		}
	}
	return f
}

// SnapshotIndex is the frame a static image freezes on.
func SnapshotIndex(path model.Path, fraction float64) int {
	if len(path) == 0 {
		return 0
	}
	idx := int(float64(len(path)) * fraction)
	return min(max(idx, 0), len(path)-1)
}

// eatenAt maps each path cell to the frame in which the head reaches it.
func eatenAt(path model.Path) map[model.Coord]int {
	m := make(map[model.Coord]int, len(path))
	for i, v := range path {
		m[v.Coord()] = i
	}
	return m
}
