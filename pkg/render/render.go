// Package render draws a planned snake over a contribution grid. It writes
// SVG (static snapshot or SMIL animation), animated GIF and a PNG poster.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/contribsnake/pkg/config"
	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// Errors returned by Save and Write.
var (
	ErrEmptyGrid         = errors.New("grid has no cells")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Format is an output image format.
type Format string

// Supported formats.
const (
	FormatSVG Format = "svg"
	FormatGIF Format = "gif"
	FormatPNG Format = "png"
)

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return parseFormat(filepath.Ext(path))
}

func parseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatSVG, FormatGIF, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q (want svg, gif or png)", ErrUnsupportedFormat, s)
	}
}

// Scene is everything a renderer draws.
type Scene struct {
	Grid   model.Grid
	Path   model.Path
	Theme  config.Theme
	Render config.RenderConfig
	// Caption is printed under the PNG poster. Other formats ignore it.
	Caption string
}

func (s Scene) validate() error {
	if s.Grid.TotalCells() == 0 {
		return ErrEmptyGrid
	}
	if s.Render.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %d", s.Render.CellSize)
	}
	return nil
}

func (s Scene) snakeLength() int {
	return max(1, s.Render.SnakeLength)
}

// Options controls Save.
type Options struct {
	Path   string // output file; parent directories are created
	Format Format // inferred from Path when empty
	Scene  Scene
}

// Save renders the scene to opts.Path.
func Save(opts Options) error {
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	format := opts.Format
	if format == "" {
		f, err := FormatFromPath(opts.Path)
		if err != nil {
			return err
		}
		format = f
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	if err := Write(file, format, opts.Scene); err != nil {
		file.Close()
		os.Remove(opts.Path)
		return fmt.Errorf("rendering %s: %w", opts.Path, err)
	}
	return file.Close()
}

// Write renders the scene to w in the given format.
func Write(w io.Writer, format Format, scene Scene) error {
	if err := scene.validate(); err != nil {
		return err
	}
	pal, err := newPalette(scene.Theme)
	if err != nil {
		return err
	}

	switch format {
	case FormatSVG:
		return writeSVG(w, scene, pal)
	case FormatGIF:
		return writeGIF(w, scene, pal)
	case FormatPNG:
		return writePNG(w, scene, pal)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}
