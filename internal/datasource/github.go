package datasource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/contribsnake/pkg/debug"
)

// Errors returned by GitHubClient.
var (
	ErrUnauthorized = errors.New("github rejected the token")
	ErrUserNotFound = errors.New("github user not found")
	ErrGraphQL      = errors.New("github graphql error")
)

const contributionsQuery = `query($username: String!) {
  user(login: $username) {
    contributionsCollection {
      contributionCalendar {
        weeks {
          contributionDays {
            contributionCount
            date
            color
          }
        }
      }
    }
  }
}`

// HTTPDoer is the part of *http.Client the GitHub client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GitHubClient fetches contribution calendars over GraphQL.
type GitHubClient struct {
	endpoint string
	token    string
	http     HTTPDoer
}

// ClientOption configures a GitHubClient.
type ClientOption func(*GitHubClient)

// WithEndpoint overrides the GraphQL endpoint (tests, GitHub Enterprise).
func WithEndpoint(url string) ClientOption {
	return func(c *GitHubClient) {
		if url != "" {
			c.endpoint = url
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h HTTPDoer) ClientOption {
	return func(c *GitHubClient) {
		if h != nil {
			c.http = h
		}
	}
}

// NewGitHubClient creates a client authenticating with token.
func NewGitHubClient(token string, opts ...ClientOption) *GitHubClient {
	c := &GitHubClient{
		endpoint: "https://api.github.com/graphql",
		token:    token,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// calendarResponse is the full response shape. The calendar file loader
// accepts it too.
type calendarResponse struct {
	Data *struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					Weeks []Week `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

// FetchWeeks returns the contribution calendar of username.
func (c *GitHubClient) FetchWeeks(ctx context.Context, username string) ([]Week, error) {
	defer debug.LogEnterExit("datasource.FetchWeeks")()

	body, err := json.Marshal(graphQLRequest{
		Query:     contributionsQuery,
		Variables: map[string]any{"username": username},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching contributions: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	debug.Log("datasource: %s returned %d (%d bytes)", c.endpoint, resp.StatusCode, len(raw))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching contributions: status %d: %s", resp.StatusCode, snippet(raw))
	}

	return decodeCalendar(raw, username)
}

func decodeCalendar(raw []byte, username string) ([]Week, error) {
	var out calendarResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			if e.Type == "NOT_FOUND" {
				return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
			}
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(msgs, "; "))
	}
	if out.Data == nil || out.Data.User == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return out.Data.User.ContributionsCollection.ContributionCalendar.Weeks, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
