package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/contribsnake/pkg/generate"
)

// EmbedSnippet is the README markdown showing the snake, switching between
// the dark and light SVG with the viewer's color scheme.
func EmbedSnippet(dir, darkSVG, lightSVG string) string {
	dark := filepath.ToSlash(filepath.Join(dir, darkSVG))
	light := filepath.ToSlash(filepath.Join(dir, lightSVG))
	return fmt.Sprintf(`<picture>
  <source media="(prefers-color-scheme: dark)" srcset="%s" />
  <source media="(prefers-color-scheme: light)" srcset="%s" />
  <img alt="GitHub contribution snake" src="%s" />
</picture>`, dark, light, light)
}

// SummaryMarkdown describes a finished run as markdown.
func SummaryMarkdown(source string, res generate.Result, snippet string) string {
	var sb strings.Builder
	r := res.Report
	st := res.Plan.Stats

	fmt.Fprintf(&sb, "# Snake for %s\n\n", source)

	sb.WriteString("## Calendar\n\n")
	fmt.Fprintf(&sb, "- **%d** contributions on **%d** of %d days\n", r.Total, r.ActiveDays, r.Days)
	if r.Busiest.Count > 0 {
		when := r.Busiest.Date
		if when == "" {
			when = r.Busiest.At.String()
		}
		fmt.Fprintf(&sb, "- busiest day: %s with %d\n", when, r.Busiest.Count)
	}
	fmt.Fprintf(&sb, "- mean %.2f, std dev %.2f, median %.0f per day\n", r.Mean, r.StdDev, r.Median)
	fmt.Fprintf(&sb, "- longest streak %d days, current streak %d\n", r.LongestStreak, r.CurrentStreak)
	fmt.Fprintf(&sb, "- %d islands of activity, the largest %d days\n\n", r.Islands, r.LargestIsland)

	sb.WriteString("## Path\n\n")
	fmt.Fprintf(&sb, "- %d moves covering %d/%d cells (%.1f%%)\n", st.Moves(), st.Visited, st.TotalCells, st.Coverage*100)
	fmt.Fprintf(&sb, "- %d contribution days eaten\n", st.PositiveVisited)
	fmt.Fprintf(&sb, "- steps: %d directed, %d random, %d tunnels, %d sweep\n", st.DirectedSteps, st.RandomSteps, st.Tunnels, st.SweepSteps)
	if st.Aborted {
		fmt.Fprintf(&sb, "- stopped early: %s\n", st.AbortReason)
	}
	sb.WriteString("\n")

	if len(res.Outputs) > 0 {
		sb.WriteString("## Files\n\n| File | Theme | Format | Size |\n|---|---|---|---|\n")
		for _, o := range res.Outputs {
			size := humanSize(o.Size)
			if o.Err != nil {
				size = "failed"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", o.Name, o.Theme, o.Format, size)
		}
		sb.WriteString("\n")
	}

	if snippet != "" {
		sb.WriteString("## Embed\n\n```html\n")
		sb.WriteString(snippet)
		sb.WriteString("\n```\n")
	}
	return sb.String()
}

// RenderMarkdown renders md for a terminal of the given width. It falls back
// to the raw markdown if glamour fails.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, " \n\r\t") + "\n"
}
