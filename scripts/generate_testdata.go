//go:build ignore

// generate_testdata.go writes sample contribution calendars for trying the
// CLI offline (snake --input ...) and for benchmarking the planner.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/calendars/sparse.json   (year, ~10% active days)
//	testdata/calendars/typical.json  (year, ~40% active days)
//	testdata/calendars/busy.json     (year, ~85% active days)
//	testdata/calendars/response.json (typical, wrapped as a GraphQL response)
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/contribsnake/internal/datasource"
	"github.com/vanderheijden86/contribsnake/pkg/model"
	"github.com/vanderheijden86/contribsnake/pkg/testutil"
)

type datasetSpec struct {
	name    string
	density float64
	desc    string
}

var datasets = []datasetSpec{
	{"sparse", 0.1, "a quiet year"},
	{"typical", 0.4, "a regular year"},
	{"busy", 0.85, "a very active year"},
}

func main() {
	outputDir := filepath.Join("testdata", "calendars")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for i, ds := range datasets {
		fmt.Printf("Generating %s calendar (%s)...\n", ds.name, ds.desc)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:     uint64(100 + i),
			Density:  ds.density,
			MaxCount: 15,
			Start:    time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		})
		// Starts on a Tuesday and ends on a Wednesday, like a real trailing year.
		weeks := toWeeks(gen.Calendar(2, 4))
		write(filepath.Join(outputDir, ds.name+".json"), weeks)

		if ds.name == "typical" {
			write(filepath.Join(outputDir, "response.json"), wrapResponse(weeks))
		}
	}

	fmt.Println("\nDone! Calendars written to", outputDir)
}

func toWeeks(grid model.Grid) []datasource.Week {
	weeks := make([]datasource.Week, len(grid))
	for col, column := range grid {
		for _, cell := range column {
			weeks[col].ContributionDays = append(weeks[col].ContributionDays, datasource.ContributionDay{
				ContributionCount: cell.Count,
				Date:              cell.Date,
			})
		}
	}
	return weeks
}

func wrapResponse(weeks []datasource.Week) any {
	return map[string]any{
		"data": map[string]any{
			"user": map[string]any{
				"contributionsCollection": map[string]any{
					"contributionCalendar": map[string]any{"weeks": weeks},
				},
			},
		},
	}
}

func write(path string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("  Written %s (%d bytes)\n", path, len(data))
}
