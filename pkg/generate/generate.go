// Package generate runs the whole pipeline: load the calendar, plan the snake
// and render every configured output file in parallel.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/contribsnake/internal/datasource"
	"github.com/vanderheijden86/contribsnake/pkg/analysis"
	"github.com/vanderheijden86/contribsnake/pkg/config"
	"github.com/vanderheijden86/contribsnake/pkg/debug"
	"github.com/vanderheijden86/contribsnake/pkg/metrics"
	"github.com/vanderheijden86/contribsnake/pkg/model"
	"github.com/vanderheijden86/contribsnake/pkg/planner"
	"github.com/vanderheijden86/contribsnake/pkg/render"
)

// ErrNothingToAnimate is returned when the planner produced an empty path.
var ErrNothingToAnimate = errors.New("nothing to animate")

// DefaultConcurrency bounds parallel renders. GIF encoding is CPU bound.
const DefaultConcurrency = 4

// Target is one output file.
type Target struct {
	Name   string        `json:"name"`
	Theme  string        `json:"theme"`
	Format render.Format `json:"format"`
}

// Options controls Run.
type Options struct {
	Source datasource.Source
	Config config.Config

	// OutDir overrides Config.Output.Dir.
	OutDir string
	// Themes limits output to these theme names. Empty means all.
	Themes []string

	SkipSVG bool
	SkipGIF bool
	PNG     bool

	// Caption is printed on the PNG poster.
	Caption string

	Concurrency int
}

func (o Options) outDir() string {
	if o.OutDir != "" {
		return o.OutDir
	}
	return o.Config.Output.Dir
}

// Output reports one rendered file.
type Output struct {
	Target
	Path string `json:"path"`
	Size int64  `json:"size"`
	Err  error  `json:"-"`
}

// Result is everything a run produced.
type Result struct {
	Grid     model.Grid
	MaxCount int
	Plan     planner.Result
	Report   analysis.Report
	Outputs  []Output
}

// Targets lists the files opts asks for, in a stable order.
func Targets(opts Options) []Target {
	out := opts.Config.Output
	all := []struct {
		Target
		enabled bool
	}{
		{Target{out.SVGLight, config.ThemeLight, render.FormatSVG}, !opts.SkipSVG},
		{Target{out.SVGDark, config.ThemeDark, render.FormatSVG}, !opts.SkipSVG},
		{Target{out.GIFDark, config.ThemeDark, render.FormatGIF}, !opts.SkipGIF},
		{Target{out.GIFLight, config.ThemeLight, render.FormatGIF}, !opts.SkipGIF},
		{Target{out.PNG, config.ThemeDark, render.FormatPNG}, opts.PNG},
	}

	var targets []Target
	for _, t := range all {
		if !t.enabled || t.Name == "" {
			continue
		}
		if len(opts.Themes) > 0 && !slices.ContainsFunc(opts.Themes, func(s string) bool {
			return strings.EqualFold(s, t.Theme)
		}) {
			continue
		}
		targets = append(targets, t.Target)
	}
	return targets
}

// Run loads the grid, plans the path and renders every target.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Source == nil {
		return Result{}, fmt.Errorf("no calendar source configured")
	}

	grid, maxCount, err := datasource.LoadGrid(ctx, opts.Source)
	if err != nil {
		return Result{}, err
	}

	res := Result{Grid: grid, MaxCount: maxCount}
	res.Plan = PlanGrid(grid, opts.Config.Planner)
	if len(res.Plan.Path) == 0 {
		return res, ErrNothingToAnimate
	}
	res.Report = analysis.Analyze(grid)

	res.Outputs, err = Render(ctx, grid, res.Plan.Path, opts)
	return res, err
}

// PlanGrid runs the planner with the configured seed and limits.
func PlanGrid(grid model.Grid, pc config.PlannerConfig) planner.Result {
	defer metrics.Timer(metrics.Plan)()

	res := planner.Plan(grid, plannerOptions(pc)...)
	debug.Log("generate: %s", res.Stats)
	return res
}

// Render writes every target for an already planned path. Targets are
// rendered concurrently. A failing target does not stop the others; all
// failures are joined into the returned error.
func Render(ctx context.Context, grid model.Grid, path model.Path, opts Options) ([]Output, error) {
	if len(path) == 0 {
		return nil, ErrNothingToAnimate
	}
	targets := Targets(opts)
	if len(targets) == 0 {
		return nil, fmt.Errorf("no outputs selected")
	}
	dir := opts.outDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	outputs := make([]Output, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, t := range targets {
		g.Go(func() error {
			outputs[i] = Output{Target: t, Path: filepath.Join(dir, t.Name)}
			if err := ctx.Err(); err != nil {
				outputs[i].Err = err
				return nil
			}
			start := time.Now()
			outputs[i].Err = renderTarget(grid, path, opts, outputs[i])
			debug.LogTiming("render "+t.Name, time.Since(start))
			if outputs[i].Err == nil {
				if info, err := os.Stat(outputs[i].Path); err == nil {
					outputs[i].Size = info.Size()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outputs, err
	}

	var errs []error
	for _, o := range outputs {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Name, o.Err))
		}
	}
	debug.Log("generate: rendered %d/%d outputs into %s", len(outputs)-len(errs), len(outputs), dir)
	return outputs, errors.Join(errs...)
}

func renderTarget(grid model.Grid, path model.Path, opts Options, out Output) error {
	theme, err := opts.Config.Theme(out.Theme)
	if err != nil {
		return err
	}
	return render.Save(render.Options{
		Path:   out.Path,
		Format: out.Format,
		Scene: render.Scene{
			Grid:    grid,
			Path:    path,
			Theme:   theme,
			Render:  opts.Config.Render,
			Caption: opts.Caption,
		},
	})
}

// plannerOptions maps the planner config onto options. Zero values keep the
// planner defaults.
func plannerOptions(pc config.PlannerConfig) []planner.Option {
	var opts []planner.Option
	if pc.Seed != 0 {
		opts = append(opts, planner.WithSeed(pc.Seed))
	}
	if pc.MaxStuck > 0 {
		opts = append(opts, planner.WithMaxStuck(pc.MaxStuck))
	}
	if pc.IterationFactor > 0 {
		opts = append(opts, planner.WithIterationFactor(pc.IterationFactor))
	}
	return opts
}
