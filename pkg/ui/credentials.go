package ui

import (
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/contribsnake/pkg/config"
)

// ErrNotInteractive is returned by PromptCredentials without a terminal.
var ErrNotInteractive = errors.New("stdin is not a terminal")

// IsTerminal reports whether stdin is connected to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// TerminalWidth returns the stdout width, or fallback when unknown.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// PromptCredentials asks for whatever part of c is missing. The token field
// is masked.
func PromptCredentials(c config.Creds) (config.Creds, error) {
	if !IsTerminal() {
		return c, ErrNotInteractive
	}

	var fields []huh.Field
	if c.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("GitHub username").
			Value(&c.Username).
			Validate(required("username")))
	}
	if c.Token == "" {
		fields = append(fields, huh.NewInput().
			Title("GitHub token").
			Description("Needs the read:user scope. https://github.com/settings/tokens").
			EchoMode(huh.EchoModePassword).
			Value(&c.Token).
			Validate(required("token")))
	}
	if len(fields) == 0 {
		return c, nil
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return c, err
	}
	c.Username = strings.TrimSpace(c.Username)
	c.Token = strings.TrimSpace(c.Token)
	return c, nil
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(what + " is required")
		}
		return nil
	}
}
