package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vanderheijden86/contribsnake/pkg/debug"
)

// Environment variable names.
const (
	EnvUsername = "GITHUB_USERNAME"
	EnvToken    = "GITHUB_TOKEN"
)

// ErrMissingCredentials is returned when the username or token is unset.
var ErrMissingCredentials = errors.New("missing GitHub credentials")

// Creds identifies the GitHub account to fetch.
type Creds struct {
	Username string
	Token    string
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding variables already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		debug.Log("config: no .env file found")
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	debug.Log("config: loaded %s", strings.Join(existing, ", "))
	return nil
}

// Credentials reads the username and token from the environment. username
// overrides GITHUB_USERNAME when non-empty. The error names every missing
// variable.
func Credentials(username string) (Creds, error) {
	c := Creds{
		Username: strings.TrimSpace(username),
		Token:    strings.TrimSpace(os.Getenv(EnvToken)),
	}
	if c.Username == "" {
		c.Username = strings.TrimSpace(os.Getenv(EnvUsername))
	}

	var missing []string
	if c.Username == "" {
		missing = append(missing, EnvUsername)
	}
	if c.Token == "" {
		missing = append(missing, EnvToken)
	}
	if len(missing) > 0 {
		return c, fmt.Errorf("%w: %s not set", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return c, nil
}

// TokenHelp explains how to create a token with the right scope.
const TokenHelp = `To get a GitHub token:
  1. Go to: https://github.com/settings/tokens
  2. Click 'Generate new token (classic)'
  3. Select 'read:user' scope
  4. Copy the generated token`
