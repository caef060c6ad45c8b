// Package config handles loading and saving snake configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/contribsnake/config.yaml
//   - Cache:  ~/.cache/contribsnake/ (sqlite calendar cache)
//
// GitHub credentials never live in the YAML file; see Credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "contribsnake"

// ErrInvalidConfig is wrapped by Validate failures.
var ErrInvalidConfig = errors.New("invalid config")

// Theme is a color scheme. Colors are CSS hex strings (#rrggbb).
type Theme struct {
	Background string   `yaml:"background"`
	Grid       string   `yaml:"grid"`
	Levels     []string `yaml:"levels"` // exactly five, level 0..4
	Snake      string   `yaml:"snake"`
	SnakeHead  string   `yaml:"snake_head"`
	Glow       string   `yaml:"glow"` // head halo while eating a contribution
}

// RenderConfig holds geometry and timing shared by every renderer.
type RenderConfig struct {
	CellSize         int           `yaml:"cell_size"`
	CellSpacing      int           `yaml:"cell_spacing"`
	CellRadius       int           `yaml:"cell_radius"`
	SnakeLength      int           `yaml:"snake_length"`
	FrameDuration    time.Duration `yaml:"frame_duration"`
	GIFPadding       int           `yaml:"gif_padding"`
	SVGPadding       int           `yaml:"svg_padding"`
	SnapshotFraction float64       `yaml:"snapshot_fraction"` // where the static SVG freezes the snake
	AnimatedSVG      bool          `yaml:"animated_svg"`
}

// OutputConfig names the generated files.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	SVGLight string `yaml:"svg_light"`
	SVGDark  string `yaml:"svg_dark"`
	GIFDark  string `yaml:"gif_dark"`
	GIFLight string `yaml:"gif_light"`
	PNG      string `yaml:"png"`
}

// CacheConfig controls the sqlite calendar cache.
type CacheConfig struct {
	Path string        `yaml:"path,omitempty"` // empty disables caching
	TTL  time.Duration `yaml:"ttl,omitempty"`
}

// PlannerConfig tunes the path planner.
type PlannerConfig struct {
	Seed            uint64 `yaml:"seed,omitempty"` // 0 = random
	MaxStuck        int    `yaml:"max_stuck,omitempty"`
	IterationFactor int    `yaml:"iteration_factor,omitempty"` // main loop cap per grid cell
}

// Config is the top-level configuration.
type Config struct {
	Username string           `yaml:"username,omitempty"`
	APIURL   string           `yaml:"api_url,omitempty"`
	Render   RenderConfig     `yaml:"render"`
	Themes   map[string]Theme `yaml:"themes"`
	Output   OutputConfig     `yaml:"output"`
	Cache    CacheConfig      `yaml:"cache,omitempty"`
	Planner  PlannerConfig    `yaml:"planner,omitempty"`
}

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultAPIURL is GitHub's GraphQL endpoint.
const DefaultAPIURL = "https://api.github.com/graphql"

// DefaultConfig returns a Config matching GitHub's own contribution graph.
func DefaultConfig() Config {
	return Config{
		APIURL: DefaultAPIURL,
		Render: RenderConfig{
			CellSize:         11,
			CellSpacing:      3,
			CellRadius:       2,
			SnakeLength:      6,
			FrameDuration:    120 * time.Millisecond,
			GIFPadding:       30,
			SVGPadding:       10,
			SnapshotFraction: 0.25,
			AnimatedSVG:      true,
		},
		Themes: map[string]Theme{
			ThemeDark: {
				Background: "#0d1117",
				Grid:       "#21262d",
				Levels:     []string{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"},
				Snake:      "#f85149",
				SnakeHead:  "#ff6b6b",
				Glow:       "#ff9999",
			},
			ThemeLight: {
				Background: "#ffffff",
				Grid:       "#ebedf0",
				Levels:     []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
				Snake:      "#f85149",
				SnakeHead:  "#ff6b6b",
				Glow:       "#ff6666",
			},
		},
		Output: OutputConfig{
			Dir:      "dist",
			SVGLight: "github-contribution-grid-snake.svg",
			SVGDark:  "github-contribution-grid-snake-dark.svg",
			GIFDark:  "github-contribution-grid-snake.gif",
			GIFLight: "github-contribution-grid-snake-light.gif",
			PNG:      "github-contribution-grid-snake.png",
		},
		Cache: CacheConfig{
			TTL: 6 * time.Hour,
		},
		Planner: PlannerConfig{
			MaxStuck:        5,
			IterationFactor: 2,
		},
	}
}

// ConfigDir returns the XDG config directory.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// CacheDir returns the XDG cache directory.
func CacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cache", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultCachePath returns the default sqlite cache location.
func DefaultCachePath() string {
	dir := CacheDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "calendar.db")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Missing keys keep their
// defaults. Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// "themes: null" clears the map.
	if cfg.Themes == nil {
		cfg.Themes = DefaultConfig().Themes
	}

	cfg.Output.Dir = expandHome(cfg.Output.Dir)
	cfg.Cache.Path = expandHome(cfg.Cache.Path)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks geometry and palettes.
func (c Config) Validate() error {
	r := c.Render
	switch {
	case r.CellSize <= 0:
		return fmt.Errorf("%w: cell_size must be positive, got %d", ErrInvalidConfig, r.CellSize)
	case r.CellSpacing < 0:
		return fmt.Errorf("%w: cell_spacing must not be negative, got %d", ErrInvalidConfig, r.CellSpacing)
	case r.SnakeLength <= 0:
		return fmt.Errorf("%w: snake_length must be positive, got %d", ErrInvalidConfig, r.SnakeLength)
	case r.FrameDuration < 10*time.Millisecond:
		return fmt.Errorf("%w: frame_duration must be at least 10ms, got %v", ErrInvalidConfig, r.FrameDuration)
	case r.SnapshotFraction < 0 || r.SnapshotFraction > 1:
		return fmt.Errorf("%w: snapshot_fraction must be within 0..1, got %v", ErrInvalidConfig, r.SnapshotFraction)
	case c.Planner.MaxStuck < 0:
		return fmt.Errorf("%w: max_stuck must not be negative, got %d", ErrInvalidConfig, c.Planner.MaxStuck)
	case c.Planner.IterationFactor < 0:
		return fmt.Errorf("%w: iteration_factor must not be negative, got %d", ErrInvalidConfig, c.Planner.IterationFactor)
	}
	for name, t := range c.Themes {
		if len(t.Levels) != 5 {
			return fmt.Errorf("%w: theme %q needs 5 level colors, got %d", ErrInvalidConfig, name, len(t.Levels))
		}
		for _, col := range append([]string{t.Background, t.Snake, t.SnakeHead, t.Glow}, t.Levels...) {
			if !isHexColor(col) {
				return fmt.Errorf("%w: theme %q has invalid color %q", ErrInvalidConfig, name, col)
			}
		}
	}
	return nil
}

// Theme returns the named theme.
func (c Config) Theme(name string) (Theme, error) {
	t, ok := c.Themes[strings.ToLower(name)]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	return t, nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
