package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/vanderheijden86/contribsnake/pkg/debug"
	"github.com/vanderheijden86/contribsnake/pkg/metrics"
	"github.com/vanderheijden86/contribsnake/pkg/model"
)

// Source yields a contribution calendar.
type Source interface {
	Weeks(ctx context.Context) ([]Week, error)
	String() string
}

// FileSource reads a calendar JSON file.
type FileSource struct {
	Path string
}

// Weeks implements Source.
func (s FileSource) Weeks(context.Context) ([]Week, error) {
	return LoadWeeksFile(s.Path)
}

func (s FileSource) String() string {
	return "file " + s.Path
}

// WeeksFetcher is implemented by GitHubClient.
type WeeksFetcher interface {
	FetchWeeks(ctx context.Context, username string) ([]Week, error)
}

// APISource fetches a user's calendar from GitHub.
type APISource struct {
	Client   WeeksFetcher
	Username string
}

// Weeks implements Source.
func (s APISource) Weeks(ctx context.Context) ([]Week, error) {
	return s.Client.FetchWeeks(ctx, s.Username)
}

func (s APISource) String() string {
	return "github user " + s.Username
}

// CachedSource answers from the cache while the entry is fresh and refreshes
// it from the API otherwise. If the refresh fails a stale entry is used.
type CachedSource struct {
	API   APISource
	Cache *Cache
	TTL   time.Duration
	Now   func() time.Time // defaults to time.Now
}

// Weeks implements Source.
func (s CachedSource) Weeks(ctx context.Context) ([]Week, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	weeks, at, hit, err := s.Cache.Get(ctx, s.API.Username, s.TTL, now())
	if err != nil {
		debug.Log("datasource: cache read failed, ignoring: %v", err)
	}
	if hit {
		debug.Log("datasource: cache hit for %s (fetched %s)", s.API.Username, at.Format(time.RFC3339))
		return weeks, nil
	}

	weeks, fetchErr := s.API.Weeks(ctx)
	if fetchErr != nil {
		if stale, _, ok, _ := s.Cache.Get(ctx, s.API.Username, 0, now()); ok {
			debug.Log("datasource: fetch failed, serving stale cache: %v", fetchErr)
			return stale, nil
		}
		return nil, fetchErr
	}

	if err := s.Cache.Put(ctx, s.API.Username, weeks, now()); err != nil {
		debug.Log("datasource: cache write failed: %v", err)
	}
	return weeks, nil
}

func (s CachedSource) String() string {
	return s.API.String() + " (cached in " + s.Cache.Path() + ")"
}

// LoadGrid reads the calendar from src and builds the grid. It also returns
// the highest daily count.
func LoadGrid(ctx context.Context, src Source) (model.Grid, int, error) {
	defer metrics.Timer(metrics.Fetch)()

	weeks, err := src.Weeks(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("loading calendar from %s: %w", src, err)
	}
	grid, maxCount := BuildGrid(weeks)
	if err := grid.Validate(); err != nil {
		return nil, 0, fmt.Errorf("calendar from %s: %w", src, err)
	}
	debug.Log("datasource: %s -> %d weeks, %d days, max %d", src, grid.Columns(), grid.TotalCells(), maxCount)
	return grid, maxCount, nil
}
