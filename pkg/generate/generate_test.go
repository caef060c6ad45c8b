package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vanderheijden86/contribsnake/internal/datasource"
	"github.com/vanderheijden86/contribsnake/pkg/config"
	"github.com/vanderheijden86/contribsnake/pkg/planner"
	"github.com/vanderheijden86/contribsnake/pkg/render"
	"github.com/vanderheijden86/contribsnake/pkg/testutil"
)

// weeksSource serves a fixed calendar.
type weeksSource struct {
	weeks []datasource.Week
	err   error
}

func (s weeksSource) Weeks(context.Context) ([]datasource.Week, error) { return s.weeks, s.err }
func (s weeksSource) String() string                                  { return "test weeks" }

func calendarWeeks(columns ...[]int) []datasource.Week {
	weeks := make([]datasource.Week, len(columns))
	for i, counts := range columns {
		for _, c := range counts {
			weeks[i].ContributionDays = append(weeks[i].ContributionDays, datasource.ContributionDay{ContributionCount: c})
		}
	}
	return weeks
}

func TestTargets(t *testing.T) {
	cfg := config.DefaultConfig()

	all := Targets(Options{Config: cfg})
	want := []Target{
		{cfg.Output.SVGLight, config.ThemeLight, render.FormatSVG},
		{cfg.Output.SVGDark, config.ThemeDark, render.FormatSVG},
		{cfg.Output.GIFDark, config.ThemeDark, render.FormatGIF},
		{cfg.Output.GIFLight, config.ThemeLight, render.FormatGIF},
	}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("default targets mismatch (-want +got):\n%s", diff)
	}

	dark := Targets(Options{Config: cfg, Themes: []string{"DARK"}, SkipGIF: true, PNG: true})
	want = []Target{
		{cfg.Output.SVGDark, config.ThemeDark, render.FormatSVG},
		{cfg.Output.PNG, config.ThemeDark, render.FormatPNG},
	}
	if diff := cmp.Diff(want, dark); diff != "" {
		t.Errorf("filtered targets mismatch (-want +got):\n%s", diff)
	}

	cfg.Output.GIFLight = ""
	if got := Targets(Options{Config: cfg, SkipSVG: true}); len(got) != 1 {
		t.Errorf("unnamed outputs should be skipped, got %v", got)
	}
}

func TestRun_WritesAllOutputs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Planner.Seed = 11
	dir := t.TempDir()

	res, err := Run(context.Background(), Options{
		Source: weeksSource{weeks: calendarWeeks([]int{0, 2, 0}, []int{4, 0, 1, 0}, []int{0, 3})},
		Config: cfg,
		OutDir: dir,
		PNG:    true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.MaxCount != 4 || res.Grid.TotalCells() != 9 {
		t.Errorf("grid: max=%d cells=%d", res.MaxCount, res.Grid.TotalCells())
	}
	testutil.AssertValidPath(t, res.Grid, res.Plan.Path)
	if res.Report.ActiveDays != 4 {
		t.Errorf("report active days = %d, want 4", res.Report.ActiveDays)
	}
	if len(res.Outputs) != 5 {
		t.Fatalf("outputs = %d, want 5", len(res.Outputs))
	}
	for _, o := range res.Outputs {
		if o.Err != nil {
			t.Errorf("%s: %v", o.Name, o.Err)
		}
		if filepath.Dir(o.Path) != dir || o.Size == 0 {
			t.Errorf("%s: path=%s size=%d", o.Name, o.Path, o.Size)
		}
	}
}

func TestRun_SeedIsReproducible(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Planner.Seed = 99
	grid := testutil.NewDefault().Calendar(2, 5)

	a := PlanGrid(grid, cfg.Planner)
	b := PlanGrid(grid, cfg.Planner)
	if diff := cmp.Diff(a.Path, b.Path); diff != "" {
		t.Errorf("seeded plans differ:\n%s", diff)
	}
}

func TestPlannerOptions(t *testing.T) {
	grid := testutil.Uniform(4, 3, 1)
	tests := []struct {
		name string
		pc   config.PlannerConfig
		want int
	}{
		{"zero keeps default", config.PlannerConfig{}, planner.DefaultIterationFactor * 12},
		{"default config", config.DefaultConfig().Planner, 2 * 12},
		{"iteration factor", config.PlannerConfig{Seed: 1, IterationFactor: 5}, 5 * 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := planner.New(grid, plannerOptions(tt.pc)...)
			if got := p.MaxIterations(); got != tt.want {
				t.Errorf("MaxIterations() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRun_NothingToAnimate(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Source: weeksSource{weeks: calendarWeeks([]int{}, []int{})},
		Config: config.DefaultConfig(),
		OutDir: t.TempDir(),
	})
	if !errors.Is(err, ErrNothingToAnimate) {
		t.Errorf("err = %v, want ErrNothingToAnimate", err)
	}
}

func TestRun_SourceError(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Source: weeksSource{err: datasource.ErrUserNotFound},
		Config: config.DefaultConfig(),
		OutDir: t.TempDir(),
	})
	if !errors.Is(err, datasource.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
	if _, err := Run(context.Background(), Options{Config: config.DefaultConfig()}); err == nil {
		t.Error("missing source should fail")
	}
}

func TestRender_PartialFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	delete(cfg.Themes, config.ThemeLight)
	grid := testutil.Counts([]int{1, 0}, []int{0, 2})
	path := PlanGrid(grid, config.PlannerConfig{Seed: 3}).Path

	outputs, err := Render(context.Background(), grid, path, Options{Config: cfg, OutDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected an error for the missing light theme")
	}
	if !strings.Contains(err.Error(), cfg.Output.SVGLight) {
		t.Errorf("error should name the failing file: %v", err)
	}

	var ok int
	for _, o := range outputs {
		if o.Err == nil {
			ok++
			if _, statErr := os.Stat(o.Path); statErr != nil {
				t.Errorf("%s reported success but is missing", o.Name)
			}
		}
	}
	if ok != 2 {
		t.Errorf("successful outputs = %d, want 2 (dark svg and gif)", ok)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	grid := testutil.Counts([]int{1, 0}, []int{0, 2})
	path := PlanGrid(grid, config.PlannerConfig{Seed: 3}).Path
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Render(ctx, grid, path, Options{Config: config.DefaultConfig(), OutDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
