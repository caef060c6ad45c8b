package planner

import (
	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// neighborOffsets lists orthogonal steps in enumeration order: down, up,
// right, left (row +1, row -1, col +1, col -1).
var neighborOffsets = [4]model.Coord{
	{Col: 0, Row: 1},
	{Col: 0, Row: -1},
	{Col: 1, Row: 0},
	{Col: -1, Row: 0},
}

// nearestTarget returns the unvisited contribution closest to cur, or the
// closest unvisited empty cell once every contribution has been eaten.
func (p *Planner) nearestTarget(cur model.Coord) (model.Visit, bool) {
	if t, ok := p.nearestUnvisited(cur, p.contributions); ok {
		return t, true
	}
	return p.nearestUnvisited(cur, p.emptySpaces)
}

func (p *Planner) nearestUnvisited(cur model.Coord, candidates []model.Visit) (model.Visit, bool) {
	var best model.Visit
	bestDist := -1
	for _, c := range candidates {
		if p.visited[c.Coord()] {
			continue
		}
		if d := cur.Manhattan(c.Coord()); bestDist < 0 || closer(d, c.Coord(), bestDist, best.Coord()) {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

// nearest returns the candidate closest to cur. candidates must be non-empty.
func nearest(cur model.Coord, candidates []model.Visit) model.Visit {
	best := candidates[0]
	bestDist := cur.Manhattan(best.Coord())
	for _, c := range candidates[1:] {
		if d := cur.Manhattan(c.Coord()); closer(d, c.Coord(), bestDist, best.Coord()) {
			best, bestDist = c, d
		}
	}
	return best
}

// closer orders by distance, then by (col, row).
func closer(d int, c model.Coord, bestDist int, best model.Coord) bool {
	if d != bestDist {
		return d < bestDist
	}
	return c.Less(best)
}

// stepToward computes one orthogonal step from cur toward target, correcting
// the column first and the row second. The step is rejected when it leaves the
// grid, runs past the end of its column or lands on a visited cell.
func (p *Planner) stepToward(cur, target model.Coord) (model.Visit, bool) {
	next := cur
	switch {
	case cur.Col < target.Col:
		next.Col++
	case cur.Col > target.Col:
		next.Col--
	case cur.Row < target.Row:
		next.Row++
	case cur.Row > target.Row:
		next.Row--
	default:
		return model.Visit{}, false
	}
	if !p.open(next) {
		return model.Visit{}, false
	}
	return p.visit(next.Col, next.Row), true
}

// validMoves lists the unvisited orthogonal neighbors of cur.
func (p *Planner) validMoves(cur model.Coord) []model.Visit {
	var moves []model.Visit
	for _, off := range neighborOffsets {
		next := model.Coord{Col: cur.Col + off.Col, Row: cur.Row + off.Row}
		if p.open(next) {
			moves = append(moves, p.visit(next.Col, next.Row))
		}
	}
	return moves
}

// randomStep picks an open neighbor of cur, if any.
func (p *Planner) randomStep(cur model.Coord) (model.Visit, bool) {
	moves := p.validMoves(cur)
	if len(moves) == 0 {
		return model.Visit{}, false
	}
	return p.pickMove(moves), true
}

// pickMove chooses uniformly among moves onto contributions, or among all
// moves when none has contributions.
func (p *Planner) pickMove(moves []model.Visit) model.Visit {
	var preferred []model.Visit
	for _, m := range moves {
		if m.Count > 0 {
			preferred = append(preferred, m)
		}
	}
	if len(preferred) == 0 {
		preferred = moves
	}
	return preferred[p.rng.IntN(len(preferred))]
}

// unvisited lists every unvisited cell in column-major order.
func (p *Planner) unvisited() []model.Visit {
	var out []model.Visit
	for col, column := range p.grid {
		for row, cell := range column {
			if !p.visited[model.Coord{Col: col, Row: row}] {
				out = append(out, model.Visit{Col: col, Row: row, Count: cell.Count})
			}
		}
	}
	return out
}

func (p *Planner) open(c model.Coord) bool {
	return p.grid.Contains(c.Col, c.Row) && !p.visited[c]
}
