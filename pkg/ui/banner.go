package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/contribsnake/pkg/config"
	"github.com/vanderheijden86/contribsnake/pkg/generate"
)

// BannerTitle is the heading printed at startup.
const BannerTitle = "GitHub Contribution Snake Generator"

const ruleWidth = 56

// Banner returns the boxed heading, width cells wide including the border.
func Banner(width int) string {
	inner := max(width-2, runewidth.StringWidth(BannerTitle)+2)
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ColorPrimary).
		Foreground(ColorPrimary).
		Bold(true).
		Width(inner).
		Align(lipgloss.Center).
		Render(BannerTitle)
}

// Rule is a horizontal separator.
func Rule(ch string) string {
	return MutedStyle.Render(strings.Repeat(ch, ruleWidth/max(1, runewidth.StringWidth(ch))))
}

// Truncate shortens s to maxWidth cells, ending in suffix when cut.
func Truncate(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	suffixWidth := runewidth.StringWidth(suffix)
	if suffixWidth > maxWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// PrintHeader writes the banner and a masked view of the credentials.
func PrintHeader(w io.Writer, username string, hasToken bool) {
	fmt.Fprintln(w, Banner(ruleWidth+2))
	token := "Not set"
	if hasToken {
		token = "***"
	}
	if username == "" {
		username = "Not set"
	}
	fmt.Fprintf(w, "%s %s\n", MutedStyle.Render(config.EnvUsername+":"), ValueStyle.Render(username))
	fmt.Fprintf(w, "%s    %s\n", MutedStyle.Render(config.EnvToken+":"), ValueStyle.Render(token))
	fmt.Fprintln(w, Rule("-"))
}

// PrintSetupHelp explains how to provide credentials.
func PrintSetupHelp(w io.Writer, err error) {
	fmt.Fprintln(w, ErrorStyle.Render("SETUP REQUIRED"))
	fmt.Fprintln(w, Rule("="))
	if err != nil {
		fmt.Fprintln(w, WarningStyle.Render(err.Error()))
	}
	fmt.Fprintln(w, WarningStyle.Render("Set your GitHub credentials in a .env file at the project root:"))
	fmt.Fprintf(w, "  %s\n", FileStyle.Render(config.EnvUsername+"=your_username"))
	fmt.Fprintf(w, "  %s\n\n", FileStyle.Render(config.EnvToken+"=your_token"))
	fmt.Fprintln(w, config.TokenHelp)
	fmt.Fprintln(w, Rule("="))
}

// PrintStart announces a run.
func PrintStart(w io.Writer, source string) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render("Starting snake generation for"), ValueStyle.Render(source))
	fmt.Fprintln(w, Rule("-"))
}

// PrintResults lists generated files and marks failures.
func PrintResults(w io.Writer, dir string, outputs []generate.Output) {
	failed := 0
	for _, o := range outputs {
		if o.Err != nil {
			failed++
		}
	}
	if failed == 0 {
		fmt.Fprintf(w, "%s Check the '%s' folder for generated files:\n",
			SuccessStyle.Render("Snake generation complete!"), FileStyle.Render(dir))
	} else {
		fmt.Fprintf(w, "%s %d of %d outputs failed\n",
			ErrorStyle.Render("Snake generation incomplete!"), failed, len(outputs))
	}

	nameWidth := 0
	for _, o := range outputs {
		nameWidth = max(nameWidth, runewidth.StringWidth(o.Name))
	}
	for _, o := range outputs {
		pad := strings.Repeat(" ", nameWidth-runewidth.StringWidth(o.Name))
		if o.Err != nil {
			fmt.Fprintf(w, "  %s %s%s %s\n", ErrorStyle.Render("x"), FileStyle.Render(o.Name), pad,
				ErrorStyle.Render(Truncate(o.Err.Error(), 60, "...")))
			continue
		}
		fmt.Fprintf(w, "  %s %s%s %s\n", SuccessStyle.Render("•"), FileStyle.Render(o.Name), pad,
			MutedStyle.Render(fmt.Sprintf("(%s theme %s, %s)", o.Theme, strings.ToUpper(string(o.Format)), humanSize(o.Size))))
	}
	fmt.Fprintln(w, Rule("="))
}

// PrintError reports a failed run.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", ErrorStyle.Render("Error during snake generation:"), err)
	fmt.Fprintln(w, Rule("="))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
