package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/contribsnake/internal/datasource"
	"github.com/vanderheijden86/contribsnake/pkg/config"
	"github.com/vanderheijden86/contribsnake/pkg/debug"
	"github.com/vanderheijden86/contribsnake/pkg/generate"
	"github.com/vanderheijden86/contribsnake/pkg/metrics"
	"github.com/vanderheijden86/contribsnake/pkg/ui"
	"github.com/vanderheijden86/contribsnake/pkg/version"
	"github.com/vanderheijden86/contribsnake/pkg/watcher"
)

type options struct {
	configPath string
	user       string
	input      string
	out        string
	theme      string
	cache      string
	cacheTTL   time.Duration
	seed       uint64
	noSVG      bool
	noGIF      bool
	png        bool
	watch      bool
	preview    bool
	copy       bool
	stats      bool
	debug      bool
	version    bool
	help       bool
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("snake", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/contribsnake/config.yaml)")
	fs.StringVar(&o.user, "user", "", "GitHub username (overrides GITHUB_USERNAME)")
	fs.StringVar(&o.input, "input", "", "Read the contribution weeks from a JSON file instead of GitHub")
	fs.StringVar(&o.out, "out", "", "Output directory (default dist)")
	fs.StringVar(&o.theme, "theme", "both", "Themes to render: light, dark or both")
	fs.StringVar(&o.cache, "cache", "", "Cache fetched calendars in this sqlite database")
	fs.DurationVar(&o.cacheTTL, "cache-ttl", 0, "How long a cached calendar stays fresh (default 6h)")
	fs.Uint64Var(&o.seed, "seed", 0, "Seed for the path planner; 0 picks a random one")
	fs.BoolVar(&o.noSVG, "no-svg", false, "Skip the SVG outputs")
	fs.BoolVar(&o.noGIF, "no-gif", false, "Skip the GIF outputs")
	fs.BoolVar(&o.png, "png", false, "Also write a PNG poster")
	fs.BoolVar(&o.watch, "watch", false, "Regenerate whenever --input changes")
	fs.BoolVar(&o.preview, "preview", false, "Play the snake in the terminal after generating")
	fs.BoolVar(&o.copy, "copy", false, "Copy the README embed snippet to the clipboard")
	fs.BoolVar(&o.stats, "stats", false, "Print a run summary and timing metrics")
	fs.BoolVar(&o.debug, "debug", false, "Log diagnostics to stderr (same as SNAKE_DEBUG=1)")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.BoolVar(&o.help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return o, fs, err
	}
	if fs.NArg() > 0 {
		return o, fs, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if o.watch && o.input == "" {
		return o, fs, errors.New("--watch needs --input")
	}
	if o.watch && o.preview {
		return o, fs, errors.New("--watch and --preview are mutually exclusive")
	}
	if o.noSVG && o.noGIF && !o.png {
		return o, fs, errors.New("nothing to generate: --no-svg and --no-gif without --png")
	}
	if _, err := themeNames(o.theme); err != nil {
		return o, fs, err
	}
	return o, fs, nil
}

// themeNames maps --theme to the generator's theme filter. nil means all.
func themeNames(s string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "all":
		return nil, nil
	case config.ThemeLight:
		return []string{config.ThemeLight}, nil
	case config.ThemeDark:
		return []string{config.ThemeDark}, nil
	default:
		return nil, fmt.Errorf("unknown theme %q (want light, dark or both)", s)
	}
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(o options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	if o.user != "" {
		cfg.Username = o.user
	}
	if o.out != "" {
		cfg.Output.Dir = o.out
	}
	if o.cache != "" {
		cfg.Cache.Path = o.cache
	}
	if o.cacheTTL > 0 {
		cfg.Cache.TTL = o.cacheTTL
	}
	if o.seed != 0 {
		cfg.Planner.Seed = o.seed
	}
	return cfg, cfg.Validate()
}

// buildSource picks the calendar source. The returned close func releases
// the cache, if one was opened.
func buildSource(o options, cfg config.Config, creds config.Creds) (datasource.Source, func() error, error) {
	noop := func() error { return nil }
	if o.input != "" {
		return datasource.FileSource{Path: o.input}, noop, nil
	}

	var clientOpts []datasource.ClientOption
	if cfg.APIURL != "" {
		clientOpts = append(clientOpts, datasource.WithEndpoint(cfg.APIURL))
	}
	api := datasource.APISource{
		Client:   datasource.NewGitHubClient(creds.Token, clientOpts...),
		Username: creds.Username,
	}
	if cfg.Cache.Path == "" {
		return api, noop, nil
	}

	cache, err := datasource.OpenCache(cfg.Cache.Path)
	if err != nil {
		return nil, noop, err
	}
	return datasource.CachedSource{API: api, Cache: cache, TTL: cfg.Cache.TTL}, cache.Close, nil
}

func previewTheme(themes []string) string {
	if len(themes) == 1 {
		return themes[0]
	}
	return config.ThemeDark
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if o.help {
		fmt.Fprintln(stdout, "Usage: snake [options]")
		fmt.Fprintln(stdout, "\nDraws a snake eating your GitHub contribution graph as SVG and GIF.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}
	if o.version {
		fmt.Fprintf(stdout, "snake %s\n", version.Version)
		return 0
	}
	if o.debug {
		debug.SetEnabled(true)
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	themes, _ := themeNames(o.theme)

	var creds config.Creds
	if o.input == "" {
		creds, err = config.Credentials(cfg.Username)
		ui.PrintHeader(stdout, creds.Username, creds.Token != "")
		if err != nil && ui.IsTerminal() {
			creds, err = ui.PromptCredentials(creds)
		}
		if err != nil {
			ui.PrintSetupHelp(stderr, err)
			return 1
		}
	}

	src, closeSrc, err := buildSource(o, cfg, creds)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := closeSrc(); err != nil {
			debug.Log("closing source: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	genOpts := generate.Options{
		Source:  src,
		Config:  cfg,
		Themes:  themes,
		SkipSVG: o.noSVG,
		SkipGIF: o.noGIF,
		PNG:     o.png,
		Caption: src.String(),
	}
	snippet := ui.EmbedSnippet(cfg.Output.Dir, cfg.Output.SVGDark, cfg.Output.SVGLight)

	var last generate.Result
	once := func(ctx context.Context) error {
		debug.Section("generate " + src.String())
		ui.PrintStart(stdout, src.String())
		res, err := generate.Run(ctx, genOpts)
		if len(res.Outputs) > 0 {
			ui.PrintResults(stdout, cfg.Output.Dir, res.Outputs)
		}
		if err != nil {
			return err
		}
		last = res

		if o.copy {
			if err := clipboard.WriteAll(snippet); err != nil {
				fmt.Fprintf(stderr, "Warning: copying embed snippet: %v\n", err)
			} else {
				fmt.Fprintln(stdout, ui.SuccessStyle.Render("Embed snippet copied to the clipboard."))
			}
		}
		if o.stats {
			md := ui.SummaryMarkdown(src.String(), res, snippet)
			fmt.Fprint(stdout, ui.RenderMarkdown(md, ui.TerminalWidth(80)))
			if report := metrics.Report(); report != "" {
				fmt.Fprint(stdout, report)
			}
			metrics.ResetAll()
		}
		return nil
	}

	if o.watch {
		fmt.Fprintf(stdout, "%s %s\n", ui.MutedStyle.Render("Watching"), ui.FileStyle.Render(o.input))
		err := watcher.Run(ctx, o.input, once, func(err error) {
			ui.PrintError(stderr, err)
		})
		if err != nil {
			ui.PrintError(stderr, err)
			return 1
		}
		return 0
	}

	if err := once(ctx); err != nil {
		ui.PrintError(stderr, err)
		return 1
	}

	if o.preview {
		theme, err := cfg.Theme(previewTheme(themes))
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		m := ui.NewPreview(src.String(), last.Grid, last.Plan.Path, theme, cfg.Render)
		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil &&
			!errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrInterrupted) {
			fmt.Fprintf(stderr, "Error running preview: %v\n", err)
			return 1
		}
	}
	return 0
}
