package planner

import (
	"fmt"

	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// AbortReason explains why the main loop stopped before covering the grid.
type AbortReason string

const (
	AbortNone          AbortReason = ""
	AbortStuck         AbortReason = "stuck limit reached"
	AbortTunnelBlocked AbortReason = "tunnel step blocked"
)

// Stats is the diagnostic summary of a plan. It is advisory; nothing should
// depend on it programmatically beyond tests.
type Stats struct {
	PathLength      int
	Visited         int
	TotalCells      int
	PositiveVisited int
	Coverage        float64 // Visited / TotalCells, 0 for an empty grid

	Iterations    int
	DirectedSteps int
	RandomSteps   int
	Tunnels       int
	SweepSteps    int

	Aborted     bool
	AbortReason AbortReason
}

func (s *Stats) fill(path model.Path, visited int) {
	s.PathLength = len(path)
	s.Visited = visited
	s.PositiveVisited = path.PositiveVisits()
	if s.TotalCells > 0 {
		s.Coverage = float64(visited) / float64(s.TotalCells)
	}
}

// Complete reports whether every cell was visited.
func (s Stats) Complete() bool {
	return s.TotalCells > 0 && s.Visited == s.TotalCells
}

// Moves is the number of steps between consecutive path cells.
func (s Stats) Moves() int {
	return max(0, s.PathLength-1)
}

func (s Stats) String() string {
	return fmt.Sprintf("snake path: %d moves, visited %d/%d positions (%.1f%% coverage), found %d contributions",
		s.Moves(), s.Visited, s.TotalCells, s.Coverage*100, s.PositiveVisited)
}
