// Package analysis derives calendar statistics that are shown next to the
// generated animation: activity spread, streaks, and how the active days are
// clustered on the grid.
package analysis

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// BusiestDay is the first cell holding the highest count.
type BusiestDay struct {
	At    model.Coord `json:"at"`
	Count int         `json:"count"`
	Date  string      `json:"date,omitempty"`
}

// Report summarizes a contribution grid.
type Report struct {
	Columns    int `json:"columns"`
	Rows       int `json:"rows"`
	Days       int `json:"days"`
	ActiveDays int `json:"active_days"`
	Total      int `json:"total"`

	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Median float64 `json:"median"`

	Busiest        BusiestDay              `json:"busiest"`
	LevelHistogram [model.MaxLevel + 1]int `json:"level_histogram"`

	// Streaks run in calendar order, which is column-major grid order.
	LongestStreak int `json:"longest_streak"`
	CurrentStreak int `json:"current_streak"`

	// Islands are 4-connected groups of active days.
	Islands       int `json:"islands"`
	LargestIsland int `json:"largest_island"`

	// CutCells are cells whose removal splits the grid in two. The ragged
	// first and last weeks are where they show up.
	CutCells int `json:"cut_cells"`
}

// Analyze computes a Report. An empty grid yields a zero Report with the
// dimensions filled in.
func Analyze(grid model.Grid) Report {
	r := Report{
		Columns: grid.Columns(),
		Rows:    grid.Rows(),
		Days:    grid.TotalCells(),
	}
	if r.Days == 0 {
		return r
	}

	counts := make([]float64, 0, r.Days)
	run := 0
	for col, column := range grid {
		for row, cell := range column {
			counts = append(counts, float64(cell.Count))
			r.Total += cell.Count
			r.LevelHistogram[min(max(cell.Level, 0), model.MaxLevel)]++

			if cell.Count > r.Busiest.Count {
				r.Busiest = BusiestDay{At: model.Coord{Col: col, Row: row}, Count: cell.Count, Date: cell.Date}
			}

			if cell.Count > 0 {
				r.ActiveDays++
				run++
				r.LongestStreak = max(r.LongestStreak, run)
			} else {
				run = 0
			}
		}
	}
	r.CurrentStreak = run

	if len(counts) > 1 {
		r.Mean, r.StdDev = stat.MeanStdDev(counts, nil)
	} else {
		r.Mean = counts[0]
	}
	slices.Sort(counts)
	r.Median = stat.Quantile(0.5, stat.Empirical, counts, nil)

	active := newLattice(grid, func(c model.Cell) bool { return c.Count > 0 })
	for _, comp := range topo.ConnectedComponents(active.g) {
		r.Islands++
		r.LargestIsland = max(r.LargestIsland, len(comp))
	}

	full := newLattice(grid, func(model.Cell) bool { return true })
	r.CutCells = len(findArticulationPoints(full.g))

	return r
}

// lattice is the grid seen as an undirected graph with an edge between
// orthogonal neighbors.
type lattice struct {
	g      *simple.UndirectedGraph
	stride int
}

func newLattice(grid model.Grid, keep func(model.Cell) bool) lattice {
	l := lattice{g: simple.NewUndirectedGraph(), stride: max(1, grid.Rows())}

	for col, column := range grid {
		for row, cell := range column {
			if keep(cell) {
				l.g.AddNode(simple.Node(l.id(col, row)))
			}
		}
	}
	for col, column := range grid {
		for row, cell := range column {
			if !keep(cell) {
				continue
			}
			for _, n := range [2]model.Coord{{Col: col + 1, Row: row}, {Col: col, Row: row + 1}} {
				other, ok := grid.At(n.Col, n.Row)
				if !ok || !keep(other) {
					continue
				}
				l.g.SetEdge(l.g.NewEdge(simple.Node(l.id(col, row)), simple.Node(l.id(n.Col, n.Row))))
			}
		}
	}
	return l
}

func (l lattice) id(col, row int) int64 {
	return int64(col*l.stride + row)
}

func (l lattice) coord(id int64) model.Coord {
	return model.Coord{Col: int(id) / l.stride, Row: int(id) % l.stride}
}

// CutCells lists the articulation cells of grid in (col,row) order.
func CutCells(grid model.Grid) []model.Coord {
	l := newLattice(grid, func(model.Cell) bool { return true })
	ap := findArticulationPoints(l.g)
	out := make([]model.Coord, 0, len(ap))
	for id := range ap {
		out = append(out, l.coord(id))
	}
	slices.SortFunc(out, func(a, b model.Coord) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return out
}

// findArticulationPoints runs Tarjan to find cut vertices in an undirected graph.
func findArticulationPoints(g graph.Undirected) map[int64]bool {
	var timeIdx int
	disc := make(map[int64]int)
	low := make(map[int64]int)
	parent := make(map[int64]int64)
	ap := make(map[int64]bool)

	const noParent int64 = -1

	var dfs func(v int64)
	dfs = func(v int64) {
		timeIdx++
		disc[v] = timeIdx
		low[v] = timeIdx
		childCount := 0

		it := g.From(v)
		for it.Next() {
			u := it.Node().ID()
			if disc[u] == 0 {
				parent[u] = v
				childCount++
				dfs(u)
				low[v] = min(low[v], low[u])

				if parent[v] == noParent && childCount > 1 {
					ap[v] = true
				}
				if parent[v] != noParent && low[u] >= disc[v] {
					ap[v] = true
				}
			} else if u != parent[v] {
				low[v] = min(low[v], disc[u])
			}
		}
	}

	nodes := g.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		if disc[id] == 0 {
			parent[id] = noParent
			dfs(id)
		}
	}
	return ap
}
