package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/sirupsen/logrus"
)

// Scoreboard is every game played on one date.
type Scoreboard struct {
	Date  string                `json:"date"`
	Games []stats.MatchupRecord `json:"games"`
}

// ScoreboardService pairs the game finder feed into matchups.
type ScoreboardService struct {
	provider StatsProvider
	cache    Cache
	ttl      CacheTTL
	loc      *time.Location
	now      func() time.Time
	log      *logrus.Entry
}

// NewScoreboardService creates a new scoreboard service
func NewScoreboardService(provider StatsProvider, c Cache, ttl CacheTTL, loc *time.Location, log *logrus.Entry) *ScoreboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &ScoreboardService{
		provider: provider,
		cache:    c,
		ttl:      ttl,
		loc:      loc,
		now:      time.Now,
		log:      log.WithField("component", "scoreboard"),
	}
}

// DefaultDate is yesterday in the configured timezone: last night's results.
func (s *ScoreboardService) DefaultDate() time.Time {
	y, m, d := s.now().In(s.loc).AddDate(0, 0, -1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// GetMatchups returns the paired games of date. A date without games yields an
// *stats.EmptyResultError.
func (s *ScoreboardService) GetMatchups(ctx context.Context, date time.Time) (*Scoreboard, error) {
	day := date.Format("2006-01-02")
	ttl := cache.TTLFor(date, s.now(), s.ttl.Today, s.ttl.Past)

	table, err := cached(ctx, s.cache, s.log, cache.GamesKey(date), ttl, func(ctx context.Context) (stats.Table, error) {
		return s.provider.GameFinder(ctx, date)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching games for %s: %w", day, err)
	}

	rows, err := stats.GameRowsFromTable(table)
	if err != nil {
		return nil, fmt.Errorf("reading games for %s: %w", day, err)
	}

	games, err := stats.PairGames(rows)
	if err != nil {
		var empty *stats.EmptyResultError
		if errors.As(err, &empty) {
			empty.Key = day
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"date": day, "games": len(games)}).Debug("scoreboard built")
	return &Scoreboard{Date: day, Games: games}, nil
}
