package model

// Visit is one step of the snake. Count mirrors the source cell so renderers
// can show the snake "eating" a contribution.
type Visit struct {
	Col   int `json:"col"`
	Row   int `json:"row"`
	Count int `json:"count"`
}

// Coord returns the visit's grid coordinate.
func (v Visit) Coord() Coord {
	return Coord{Col: v.Col, Row: v.Row}
}

// Path is the ordered traversal. Its order is the animation timeline.
type Path []Visit

// Coords returns the coordinates of every visit, in order.
func (p Path) Coords() []Coord {
	out := make([]Coord, len(p))
	for i, v := range p {
		out[i] = v.Coord()
	}
	return out
}

// PositiveVisits counts visits that landed on a cell with contributions.
func (p Path) PositiveVisits() int {
	n := 0
	for _, v := range p {
		if v.Count > 0 {
			n++
		}
	}
	return n
}

// Last returns the final visit. The second result is false for an empty path.
func (p Path) Last() (Visit, bool) {
	if len(p) == 0 {
		return Visit{}, false
	}
	return p[len(p)-1], true
}
