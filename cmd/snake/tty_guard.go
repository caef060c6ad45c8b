package main

import (
	"os"
	"strings"
)

// init runs before lipgloss first queries the terminal background. When the
// output is going to be captured (tests, --version, --help) that query can
// leak OSC/DSR sequences into it, so CI=1 is set to turn the probing off.
func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if shouldSuppressTTYQueries(os.Args[1:], os.Getenv("SNAKE_TEST_MODE") != "") {
		_ = os.Setenv("CI", "1")
	}
}

func shouldSuppressTTYQueries(args []string, envTest bool) bool {
	if envTest {
		return true
	}
	for _, arg := range args {
		switch strings.TrimLeft(arg, "-") {
		case "version", "help", "h":
			return true
		}
	}
	return false
}
