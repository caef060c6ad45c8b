// Package datasource turns a GitHub contribution calendar into a model.Grid.
// Calendars come from the GraphQL API, from a JSON file on disk, or from the
// sqlite cache sitting in front of the API.
package datasource

import (
	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// ContributionDay is one day as returned by the contributionCalendar query.
type ContributionDay struct {
	ContributionCount int    `json:"contributionCount"`
	Date              string `json:"date"`
	Color             string `json:"color,omitempty"`
}

// Week is one column of the calendar. The first and last weeks of a year are
// usually partial.
type Week struct {
	ContributionDays []ContributionDay `json:"contributionDays"`
}

// BuildGrid maps weeks onto a column-major grid and quantizes counts into
// levels relative to the busiest day. It also returns that maximum.
func BuildGrid(weeks []Week) (model.Grid, int) {
	maxCount := 0
	for _, w := range weeks {
		for _, d := range w.ContributionDays {
			if d.ContributionCount > maxCount {
				maxCount = d.ContributionCount
			}
		}
	}

	grid := make(model.Grid, len(weeks))
	for col, w := range weeks {
		grid[col] = make([]model.Cell, len(w.ContributionDays))
		for row, d := range w.ContributionDays {
			count := max(0, d.ContributionCount)
			grid[col][row] = model.Cell{
				Count: count,
				Level: Level(count, maxCount),
				Date:  d.Date,
			}
		}
	}
	return grid, maxCount
}

// Level buckets count into 0..4: count / max(1, maxCount/4), capped at 4.
func Level(count, maxCount int) int {
	if maxCount <= 0 || count <= 0 {
		return 0
	}
	step := max(1, maxCount/4)
	return min(model.MaxLevel, count/step)
}
