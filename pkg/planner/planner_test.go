package planner

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vanderheijden86/contribsnake/pkg/model"
	"github.com/vanderheijden86/contribsnake/pkg/testutil"
)

func coords(path model.Path) []model.Coord {
	return path.Coords()
}

func c(col, row int) model.Coord {
	return model.Coord{Col: col, Row: row}
}

func TestPlan_SingleColumn(t *testing.T) {
	grid := testutil.Counts([]int{5, 0, 3})

	res := Plan(grid, WithSeed(1))

	want := []model.Coord{c(0, 0), c(0, 1), c(0, 2)}
	if diff := cmp.Diff(want, coords(res.Path)); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if len(res.Path) > 6 {
		t.Errorf("path length %d exceeds 6", len(res.Path))
	}
	if res.Path[0].Count != 5 || res.Path[2].Count != 3 {
		t.Errorf("visits should carry source counts, got %+v", res.Path)
	}
	testutil.AssertValidPath(t, grid, res.Path)
}

func TestPlan_EmptyGrid(t *testing.T) {
	tests := []struct {
		name string
		grid model.Grid
	}{
		{"nil", nil},
		{"no_columns", model.Grid{}},
		{"zero_length_columns", model.Grid{{}, {}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Plan(tt.grid, WithSeed(1))
			if len(res.Path) != 0 {
				t.Errorf("expected empty path, got %v", res.Path)
			}
			if res.Stats.Coverage != 0 || res.Stats.Visited != 0 || res.Stats.Aborted {
				t.Errorf("unexpected stats for empty grid: %+v", res.Stats)
			}
		})
	}
}

func TestPlan_AllEmpty2x2(t *testing.T) {
	grid := testutil.Uniform(2, 2, 0)

	res := Plan(grid, WithSeed(7))

	if len(res.Path) != 4 {
		t.Fatalf("expected 4 visits, got %d: %v", len(res.Path), coords(res.Path))
	}
	if res.Stats.Coverage != 1 || !res.Stats.Complete() {
		t.Errorf("expected full coverage, got %+v", res.Stats)
	}
	// Equal distances resolve to the lower (col, row).
	want := []model.Coord{c(0, 0), c(0, 1), c(1, 1), c(1, 0)}
	if diff := cmp.Diff(want, coords(res.Path)); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	testutil.AssertValidPath(t, grid, res.Path)
}

func TestPlan_RaggedColumnsStayInBounds(t *testing.T) {
	grid := testutil.Counts([]int{0, 0, 0}, []int{0}, []int{0, 0, 0})

	res := Plan(grid, WithSeed(3))

	testutil.AssertValidPath(t, grid, res.Path)
	want := []model.Coord{c(0, 0), c(0, 1), c(0, 2)}
	if diff := cmp.Diff(want, coords(res.Path)); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if !res.Stats.Aborted || res.Stats.AbortReason != AbortTunnelBlocked {
		t.Errorf("expected tunnel abort, got %+v", res.Stats)
	}
	if res.Stats.Visited != 3 || res.Stats.TotalCells != 7 {
		t.Errorf("expected 3/7 coverage, got %d/%d", res.Stats.Visited, res.Stats.TotalCells)
	}
}

func TestPlan_ContributionsFirst(t *testing.T) {
	grid := testutil.Counts([]int{0, 0, 0}, []int{0, 0, 0}, []int{0, 0, 9})

	res := Plan(grid, WithSeed(11))

	want := []model.Coord{
		c(0, 0), c(1, 0), c(2, 0), c(2, 1), c(2, 2), // straight for the contribution, columns first
		c(1, 2), c(0, 2), c(0, 1), c(1, 1), // then the nearest empty cells
	}
	if diff := cmp.Diff(want, coords(res.Path)); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if res.Stats.PositiveVisited != 1 {
		t.Errorf("PositiveVisited = %d, want 1", res.Stats.PositiveVisited)
	}
	if res.Stats.DirectedSteps != 8 || res.Stats.RandomSteps != 0 {
		t.Errorf("expected 8 directed steps, got %+v", res.Stats)
	}
}

func TestPlan_StartSkipsEmptyLeadingColumns(t *testing.T) {
	tests := []struct {
		name string
		grid model.Grid
		want model.Coord
	}{
		{"first_column", testutil.Counts([]int{0, 1}, []int{2}), c(0, 0)},
		{"second_column", testutil.Counts([]int{}, []int{4, 0}), c(1, 0)},
		{"third_column", testutil.Counts([]int{}, []int{}, []int{0, 0}), c(2, 0)},
		{"beyond_scan_window", testutil.Counts([]int{}, []int{}, []int{}, []int{0, 3}), c(3, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Plan(tt.grid, WithSeed(1))
			if len(res.Path) == 0 {
				t.Fatal("expected a non-empty path")
			}
			if got := res.Path[0].Coord(); got != tt.want {
				t.Errorf("start = %v, want %v", got, tt.want)
			}
			testutil.AssertValidPath(t, tt.grid, res.Path)
		})
	}
}

func TestPlan_MaxStuckZeroAbortsImmediately(t *testing.T) {
	grid := testutil.Counts([]int{0, 0, 0}, []int{0}, []int{0, 0, 0})

	res := Plan(grid, WithSeed(3), WithMaxStuck(0))

	if res.Stats.AbortReason != AbortStuck {
		t.Errorf("AbortReason = %q, want %q", res.Stats.AbortReason, AbortStuck)
	}
	if res.Stats.Tunnels != 0 {
		t.Errorf("no tunnel should be attempted, got %d", res.Stats.Tunnels)
	}
}

func TestPlan_CompleteGridIsNotAborted(t *testing.T) {
	res := Plan(testutil.Uniform(3, 3, 1), WithSeed(5), WithMaxStuck(0))
	if res.Stats.Complete() && res.Stats.Aborted {
		t.Errorf("a fully covered grid should not be reported as aborted: %+v", res.Stats)
	}
}

func TestPlan_TerminatesOnAdversarialGrids(t *testing.T) {
	gen := testutil.NewDefault()
	tests := []struct {
		name string
		grid model.Grid
	}{
		{"disconnected_singletons", gen.Ragged(1, 0, 1, 0, 1, 0, 1)},
		{"tall_single_column", gen.Ragged(500)},
		{"single_row", gen.Rect(200, 1)},
		{"comb", gen.Ragged(7, 1, 7, 1, 7, 1, 7)},
		{"full_year", gen.Calendar(4, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan Result, 1)
			go func() { done <- Plan(tt.grid, WithSeed(99)) }()

			select {
			case res := <-done:
				testutil.AssertValidPath(t, tt.grid, res.Path)
				if res.Stats.Iterations > DefaultIterationFactor*tt.grid.Columns()*tt.grid.Rows() {
					t.Errorf("iterations %d exceed cap", res.Stats.Iterations)
				}
			case <-time.After(10 * time.Second):
				t.Fatal("planner did not terminate")
			}
		})
	}
}

func TestPlan_StraightLinesCoverFully(t *testing.T) {
	gen := testutil.NewDefault()
	for _, grid := range []model.Grid{gen.Ragged(500), gen.Rect(200, 1)} {
		res := Plan(grid, WithSeed(2))
		if !res.Stats.Complete() {
			t.Errorf("expected full coverage of a line, got %s", res.Stats)
		}
	}
}

func TestPlan_SeededRunsAreReproducible(t *testing.T) {
	grid := testutil.NewDefault().Calendar(2, 5)

	a := Plan(grid, WithSeed(1234))
	b := Plan(grid, WithSeed(1234))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different plans (-a +b):\n%s", diff)
	}

	r1 := rand.New(rand.NewPCG(8, 9))
	r2 := rand.New(rand.NewPCG(8, 9))
	if !cmp.Equal(Plan(grid, WithRand(r1)).Path, Plan(grid, WithRand(r2)).Path) {
		t.Error("identically seeded WithRand sources produced different paths")
	}
}

func TestPlan_DoesNotModifyGrid(t *testing.T) {
	grid := testutil.NewDefault().Calendar(0, 7)
	before := make(model.Grid, len(grid))
	for i := range grid {
		before[i] = append([]model.Cell(nil), grid[i]...)
	}

	Plan(grid, WithSeed(1))

	if diff := cmp.Diff(before, grid); diff != "" {
		t.Errorf("planner modified the grid (-before +after):\n%s", diff)
	}
}

func TestPlan_StepAccounting(t *testing.T) {
	gen := testutil.New(testutil.GeneratorConfig{Seed: 77, Density: 0.6})
	for seed := uint64(0); seed < 20; seed++ {
		grid := gen.Calendar(int(seed%7), int(seed%7)+1)
		res := Plan(grid, WithSeed(seed))
		s := res.Stats

		steps := s.DirectedSteps + s.RandomSteps + s.Tunnels + s.SweepSteps
		if steps != len(res.Path)-1 {
			t.Errorf("seed %d: %d counted steps for a path of %d", seed, steps, len(res.Path))
		}
		if s.Visited != s.PathLength || s.Visited > s.TotalCells {
			t.Errorf("seed %d: visited=%d path=%d total=%d", seed, s.Visited, s.PathLength, s.TotalCells)
		}
		if s.PositiveVisited != res.Path.PositiveVisits() {
			t.Errorf("seed %d: PositiveVisited=%d, path has %d", seed, s.PositiveVisited, res.Path.PositiveVisits())
		}
	}
}

func TestStats_String(t *testing.T) {
	res := Plan(testutil.Counts([]int{5, 0, 3}), WithSeed(1))
	got := res.Stats.String()
	for _, want := range []string{"2 moves", "visited 3/3 positions", "100.0% coverage", "found 2 contributions"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestStats_Moves(t *testing.T) {
	tests := []struct {
		pathLength int
		want       int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{6, 5},
	}
	for _, tt := range tests {
		s := Stats{PathLength: tt.pathLength}
		if got := s.Moves(); got != tt.want {
			t.Errorf("Moves() with path length %d = %d, want %d", tt.pathLength, got, tt.want)
		}
		if want := fmt.Sprintf("snake path: %d moves,", tt.want); !strings.HasPrefix(s.String(), want) {
			t.Errorf("String() = %q, want prefix %q", s.String(), want)
		}
	}
}

func TestWithIterationFactor(t *testing.T) {
	grid := testutil.Uniform(5, 7, 1)
	tests := []struct {
		factor int
		want   int
	}{
		{0, DefaultIterationFactor * 35},
		{-3, DefaultIterationFactor * 35},
		{1, 35},
		{4, 4 * 35},
	}
	for _, tt := range tests {
		p := New(grid, WithSeed(2), WithIterationFactor(tt.factor))
		if got := p.MaxIterations(); got != tt.want {
			t.Errorf("WithIterationFactor(%d): MaxIterations() = %d, want %d", tt.factor, got, tt.want)
		}
		if res := p.Run(); res.Stats.Iterations > tt.want {
			t.Errorf("WithIterationFactor(%d): %d iterations exceed the cap", tt.factor, res.Stats.Iterations)
		}
	}
}
