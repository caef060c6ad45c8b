// Package planner computes the snake's traversal of a contribution grid.
//
// The snake starts near the grid origin, heads for the nearest unvisited cell
// with contributions, then for the nearest unvisited empty cell, and only ever
// steps to an orthogonally adjacent cell it has not visited before. When it
// cannot make progress it falls back to a random neighbor, then to a single
// "tunnel" step toward a random unvisited cell, and finally gives up. The
// result is a heuristic, always-terminating walk; full coverage is not
// guaranteed.
//
// Planning is pure and single-threaded. Randomness comes only from the
// *rand.Rand supplied through WithRand or WithSeed, so seeded runs are
// reproducible.
package planner

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/vanderheijden86/contribsnake/pkg/debug"
	"github.com/vanderheijden86/contribsnake/pkg/model"
)

const (
	// DefaultMaxStuck is how many consecutive stuck iterations are tolerated
	// before the main loop gives up.
	DefaultMaxStuck = 5

	// DefaultIterationFactor bounds the main loop to factor*columns*rows
	// iterations.
	DefaultIterationFactor = 2

	// startScanColumns is how many leading columns are searched for a start cell.
	startScanColumns = 3
)

// Option configures a Planner.
type Option func(*Planner)

// WithRand sets the random source used to escape dead ends.
func WithRand(r *rand.Rand) Option {
	return func(p *Planner) {
		if r != nil {
			p.rng = r
		}
	}
}

// WithSeed seeds a fresh random source. Plans for the same grid and seed are
// identical.
func WithSeed(seed uint64) Option {
	return func(p *Planner) {
		p.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithMaxStuck overrides DefaultMaxStuck.
func WithMaxStuck(n int) Option {
	return func(p *Planner) {
		if n >= 0 {
			p.maxStuck = n
		}
	}
}

// WithIterationFactor overrides DefaultIterationFactor.
func WithIterationFactor(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.iterationFactor = n
		}
	}
}

// Result is a finished plan.
type Result struct {
	Path  model.Path
	Stats Stats
}

// Planner holds the state of one planning run: the read-only grid, the
// visited set and the path built so far.
type Planner struct {
	grid            model.Grid
	rng             *rand.Rand
	maxStuck        int
	iterationFactor int

	visited       map[model.Coord]bool
	path          model.Path
	contributions []model.Visit // count > 0, highest first
	emptySpaces   []model.Visit // count == 0, scan order
	stats         Stats
}

// New prepares a planner for grid. The grid is never modified.
func New(grid model.Grid, opts ...Option) *Planner {
	p := &Planner{
		grid:            grid,
		maxStuck:        DefaultMaxStuck,
		iterationFactor: DefaultIterationFactor,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		seed := uint64(time.Now().UnixNano())
		p.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return p
}

// Plan is shorthand for New(grid, opts...).Run().
func Plan(grid model.Grid, opts ...Option) Result {
	return New(grid, opts...).Run()
}

// Run computes the path. It always returns; an empty or cell-less grid yields
// an empty path.
func (p *Planner) Run() Result {
	defer debug.LogEnterExit("planner.Run")()

	total := p.grid.TotalCells()
	p.stats = Stats{TotalCells: total}
	p.visited = make(map[model.Coord]bool, total)
	p.path = make(model.Path, 0, total)

	if total == 0 {
		debug.Log("planner: grid has no cells, nothing to plan")
		return p.result()
	}

	p.partition()
	p.add(p.start())

	p.mainLoop()
	p.sweep()

	res := p.result()
	debug.Log("planner: %s", res.Stats)
	return res
}

// partition splits cells into contributions and empty spaces. Contributions
// are ordered by count descending; ties keep scan order.
func (p *Planner) partition() {
	p.contributions = p.contributions[:0]
	p.emptySpaces = p.emptySpaces[:0]
	for col, column := range p.grid {
		for row, cell := range column {
			v := model.Visit{Col: col, Row: row, Count: cell.Count}
			if cell.Count > 0 {
				p.contributions = append(p.contributions, v)
			} else {
				p.emptySpaces = append(p.emptySpaces, v)
			}
		}
	}
	sort.SliceStable(p.contributions, func(i, j int) bool {
		return p.contributions[i].Count > p.contributions[j].Count
	})
}

// start picks the first cell of the first non-empty column among the leading
// startScanColumns columns. If those are all empty the first cell of any
// column is used; a coordinate that addresses no cell is never returned.
func (p *Planner) start() model.Visit {
	limit := min(startScanColumns, len(p.grid))
	for col := 0; col < limit; col++ {
		if len(p.grid[col]) > 0 {
			return p.visit(col, 0)
		}
	}
	for col := limit; col < len(p.grid); col++ {
		if len(p.grid[col]) > 0 {
			return p.visit(col, 0)
		}
	}
	return model.Visit{}
}

// MaxIterations caps the main loop: the iteration factor times the bounding
// box of the grid.
func (p *Planner) MaxIterations() int {
	return p.iterationFactor * p.grid.Columns() * p.grid.Rows()
}

func (p *Planner) mainLoop() {
	maxIterations := p.MaxIterations()
	stuck := 0

	for p.stats.Iterations < maxIterations {
		cur := p.current()

		if target, ok := p.nearestTarget(cur); ok {
			if next, ok := p.stepToward(cur, target.Coord()); ok {
				p.add(next)
				p.stats.Iterations++
				p.stats.DirectedSteps++
				stuck = 0
				continue
			}
		}

		if next, ok := p.randomStep(cur); ok {
			p.add(next)
			p.stats.Iterations++
			p.stats.RandomSteps++
			stuck = 0
			continue
		}

		stuck++
		if stuck > p.maxStuck {
			p.abort(AbortStuck)
			return
		}

		unvisited := p.unvisited()
		if len(unvisited) == 0 {
			return
		}
		target := unvisited[p.rng.IntN(len(unvisited))]
		next, ok := p.stepToward(cur, target.Coord())
		if !ok {
			p.abort(AbortTunnelBlocked)
			return
		}
		p.add(next)
		p.stats.Iterations++
		p.stats.Tunnels++
		stuck = 0
	}
}

// sweep makes a last pass toward the nearest remaining cell, one step at a
// time, and stops at the first blocked step.
func (p *Planner) sweep() {
	remaining := p.unvisited()
	for len(remaining) > 0 {
		cur := p.current()
		closest := nearest(cur, remaining)
		next, ok := p.stepToward(cur, closest.Coord())
		if !ok {
			return
		}
		p.add(next)
		p.stats.SweepSteps++
		remaining = p.unvisited()
	}
}

func (p *Planner) abort(reason AbortReason) {
	if len(p.path) == p.stats.TotalCells {
		return
	}
	p.stats.Aborted = true
	p.stats.AbortReason = reason
	debug.Log("planner: main loop aborted (%s) at %d/%d cells", reason, len(p.path), p.stats.TotalCells)
}

func (p *Planner) add(v model.Visit) {
	p.path = append(p.path, v)
	p.visited[v.Coord()] = true
}

func (p *Planner) current() model.Coord {
	last, _ := p.path.Last()
	return last.Coord()
}

func (p *Planner) visit(col, row int) model.Visit {
	cell, _ := p.grid.At(col, row)
	return model.Visit{Col: col, Row: row, Count: cell.Count}
}

func (p *Planner) result() Result {
	p.stats.fill(p.path, len(p.visited))
	return Result{Path: p.path, Stats: p.stats}
}
