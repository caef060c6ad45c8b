// Package model defines the contribution grid and traversal path types shared by
// the data source, the planner and the renderers.
package model

import (
	"errors"
	"fmt"
)

// MaxLevel is the highest display intensity a cell can carry.
const MaxLevel = 4

// ErrInvalidCell is returned by Grid.Validate for out-of-range cell values.
var ErrInvalidCell = errors.New("invalid cell")

// Cell is one day of the contribution calendar.
type Cell struct {
	Count int    `json:"count"`
	Level int    `json:"level"`
	Date  string `json:"date,omitempty"`
}

// Grid is a column-major calendar: one column per week, one row per weekday.
// Columns may be shorter than Rows() (the first and last week of a calendar
// usually are), so every lookup must be checked against ColumnLen.
type Grid [][]Cell

// Columns returns the number of columns.
func (g Grid) Columns() int {
	return len(g)
}

// ColumnLen returns the actual number of cells in column col, or 0 if the
// column does not exist.
func (g Grid) ColumnLen(col int) int {
	if col < 0 || col >= len(g) {
		return 0
	}
	return len(g[col])
}

// Rows returns the nominal row count: the length of the longest column.
func (g Grid) Rows() int {
	rows := 0
	for _, column := range g {
		if len(column) > rows {
			rows = len(column)
		}
	}
	return rows
}

// TotalCells returns the number of cells actually present.
func (g Grid) TotalCells() int {
	total := 0
	for _, column := range g {
		total += len(column)
	}
	return total
}

// Contains reports whether (col, row) addresses a real cell.
func (g Grid) Contains(col, row int) bool {
	return col >= 0 && col < len(g) && row >= 0 && row < len(g[col])
}

// At returns the cell at (col, row). The second result is false when the
// coordinate is outside the grid.
func (g Grid) At(col, row int) (Cell, bool) {
	if !g.Contains(col, row) {
		return Cell{}, false
	}
	return g[col][row], true
}

// MaxCount returns the highest count in the grid.
func (g Grid) MaxCount() int {
	highest := 0
	for _, column := range g {
		for _, c := range column {
			if c.Count > highest {
				highest = c.Count
			}
		}
	}
	return highest
}

// Validate checks that counts are non-negative and levels are within 0..MaxLevel.
func (g Grid) Validate() error {
	for col, column := range g {
		for row, c := range column {
			if c.Count < 0 {
				return fmt.Errorf("%w: (%d,%d) has negative count %d", ErrInvalidCell, col, row, c.Count)
			}
			if c.Level < 0 || c.Level > MaxLevel {
				return fmt.Errorf("%w: (%d,%d) has level %d outside 0..%d", ErrInvalidCell, col, row, c.Level, MaxLevel)
			}
		}
	}
	return nil
}

// Coord addresses a grid cell.
type Coord struct {
	Col int
	Row int
}

// Manhattan returns the L1 distance between two coordinates.
func (c Coord) Manhattan(o Coord) int {
	return abs(c.Col-o.Col) + abs(c.Row-o.Row)
}

// Less orders coordinates by column, then row.
func (c Coord) Less(o Coord) bool {
	if c.Col != o.Col {
		return c.Col < o.Col
	}
	return c.Row < o.Row
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
