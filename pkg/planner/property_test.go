package planner

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/contribsnake/pkg/model"
	"github.com/vanderheijden86/contribsnake/pkg/testutil"
)

func raggedGridGen() *rapid.Generator[model.Grid] {
	return rapid.Custom(func(t *rapid.T) model.Grid {
		lens := rapid.SliceOfN(rapid.IntRange(0, 7), 0, 14).Draw(t, "lens")
		columns := make([][]int, len(lens))
		for col, n := range lens {
			columns[col] = rapid.SliceOfN(rapid.IntRange(0, 20), n, n).Draw(t, fmt.Sprintf("col%d", col))
		}
		return testutil.Counts(columns...)
	})
}

func TestPlanInvariants_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		grid := raggedGridGen().Draw(t, "grid")
		seed := rapid.Uint64().Draw(t, "seed")

		res := Plan(grid, WithSeed(seed))

		testutil.AssertValidPath(t, grid, res.Path)

		if res.Stats.Visited != len(res.Path) {
			t.Fatalf("visited %d != path length %d", res.Stats.Visited, len(res.Path))
		}
		if res.Stats.Visited > grid.TotalCells() {
			t.Fatalf("visited %d > total %d", res.Stats.Visited, grid.TotalCells())
		}
		if grid.TotalCells() == 0 {
			if len(res.Path) != 0 {
				t.Fatalf("cell-less grid produced path %v", res.Path)
			}
			return
		}
		if len(res.Path) == 0 {
			t.Fatal("non-empty grid produced an empty path")
		}

		start := res.Path[0]
		if start.Row != 0 {
			t.Fatalf("start %v is not the top of its column", start.Coord())
		}
		for col := 0; col < start.Col; col++ {
			if grid.ColumnLen(col) > 0 {
				t.Fatalf("start column %d skips non-empty column %d", start.Col, col)
			}
		}
	})
}

func TestPlanSeedDeterminism_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		grid := raggedGridGen().Draw(t, "grid")
		seed := rapid.Uint64().Draw(t, "seed")

		a := Plan(grid, WithSeed(seed)).Path
		b := Plan(grid, WithSeed(seed)).Path
		if len(a) != len(b) {
			t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("step %d differs: %+v vs %+v", i, a[i], b[i])
			}
		}
	})
}
