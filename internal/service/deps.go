package service

import (
	"context"
	"errors"
	"time"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/guess"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/sirupsen/logrus"
)

// StatsProvider is the upstream box score and roster feed.
type StatsProvider interface {
	GameFinder(ctx context.Context, date time.Time) (stats.Table, error)
	BoxScore(ctx context.Context, gameID string) (players, teams stats.Table, err error)
	AllPlayers(ctx context.Context, season string) (stats.Table, error)
	PlayerInfo(ctx context.Context, playerID int64) (stats.Table, error)
}

// Cache stores JSON values with a TTL. Misses return cache.ErrCacheMiss.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SeasonStats reads the historical per-season averages.
type SeasonStats interface {
	ListBySeason(ctx context.Context, season string) ([]stats.SeasonPlayerRow, error)
	ListAll(ctx context.Context) ([]stats.SeasonPlayerRow, error)
	Seasons(ctx context.Context) ([]string, error)
}

// TeamDirectory resolves team names to conference and division.
type TeamDirectory interface {
	Directory(ctx context.Context) (guess.TeamDirectory, error)
}

// CacheTTL configures how long upstream data is kept.
type CacheTTL struct {
	Today   time.Duration
	Past    time.Duration
	Session time.Duration
}

// cached returns the value stored at key, or calls fetch and stores its result.
// Cache failures are logged and never fail the request.
func cached[T any](ctx context.Context, c Cache, log *logrus.Entry, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var v T
	err := c.GetJSON(ctx, key, &v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.WithError(err).WithField("key", key).Warn("cache read failed")
	}

	v, err = fetch(ctx)
	if err != nil {
		return v, err
	}
	if err := c.SetJSON(ctx, key, v, ttl); err != nil {
		log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
	return v, nil
}
