package testutil

import (
	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// T is the subset of testing.TB the assertions need. *testing.T and
// *rapid.T both satisfy it.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// AssertUniqueCoords verifies no coordinate appears twice in the path.
func AssertUniqueCoords(t T, path model.Path) {
	t.Helper()
	seen := make(map[model.Coord]int, len(path))
	for i, v := range path {
		if first, ok := seen[v.Coord()]; ok {
			t.Errorf("coordinate %v visited at steps %d and %d", v.Coord(), first, i)
		}
		seen[v.Coord()] = i
	}
}

// AssertAdjacentSteps verifies consecutive visits are one orthogonal step apart.
func AssertAdjacentSteps(t T, path model.Path) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		if d := path[i-1].Coord().Manhattan(path[i].Coord()); d != 1 {
			t.Errorf("step %d: %v -> %v has distance %d, want 1", i, path[i-1].Coord(), path[i].Coord(), d)
		}
	}
}

// AssertInBounds verifies every visit addresses a real cell and carries that
// cell's count.
func AssertInBounds(t T, grid model.Grid, path model.Path) {
	t.Helper()
	for i, v := range path {
		cell, ok := grid.At(v.Col, v.Row)
		if !ok {
			t.Errorf("step %d: %v is outside the grid (column length %d)", i, v.Coord(), grid.ColumnLen(v.Col))
			continue
		}
		if cell.Count != v.Count {
			t.Errorf("step %d: %v carries count %d, cell has %d", i, v.Coord(), v.Count, cell.Count)
		}
	}
}

// AssertValidPath runs every structural path check.
func AssertValidPath(t T, grid model.Grid, path model.Path) {
	t.Helper()
	AssertUniqueCoords(t, path)
	AssertAdjacentSteps(t, path)
	AssertInBounds(t, grid, path)
	if len(path) > grid.TotalCells() {
		t.Errorf("path length %d exceeds cell count %d", len(path), grid.TotalCells())
	}
}
