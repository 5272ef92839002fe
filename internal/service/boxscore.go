package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/sirupsen/logrus"
)

// GameDetail is everything the game page shows for one game. Index 0 and 1 of
// every array refer to the same team.
type GameDetail struct {
	GameID  string                `json:"game_id"`
	Header  [2]stats.TeamHeader   `json:"header"`
	Teams   [2]stats.TeamBoxScore `json:"teams"`
	Lineups [2]stats.TeamLineup   `json:"lineups"`
}

type boxTables struct {
	Players stats.Table `json:"players"`
	Teams   stats.Table `json:"teams"`
}

// BoxScoreService builds game detail pages from the traditional box score.
type BoxScoreService struct {
	provider StatsProvider
	cache    Cache
	ttl      CacheTTL
	log      *logrus.Entry
}

// NewBoxScoreService creates a new box score service
func NewBoxScoreService(provider StatsProvider, c Cache, ttl CacheTTL, log *logrus.Entry) *BoxScoreService {
	return &BoxScoreService{
		provider: provider,
		cache:    c,
		ttl:      ttl,
		log:      log.WithField("component", "boxscore"),
	}
}

// GetGameDetail aggregates a game's box score. When sortBy is set both team
// tables are ordered by that column, highest first.
func (s *BoxScoreService) GetGameDetail(ctx context.Context, gameID string, sortBy stats.BoxColumn) (*GameDetail, error) {
	tables, err := s.load(ctx, gameID, s.ttl.Today)
	if err != nil {
		return nil, err
	}

	playerRows, err := stats.PlayerGameRowsFromTable(tables.Players)
	if err != nil {
		return nil, fmt.Errorf("reading players of game %s: %w", gameID, err)
	}
	teamRows, err := stats.TeamSummaryRowsFromTable(tables.Teams)
	if err != nil {
		return nil, fmt.Errorf("reading teams of game %s: %w", gameID, err)
	}

	box, err := stats.AggregateBoxScore(gameID, playerRows)
	if err != nil {
		return nil, err
	}
	lineups, err := stats.SelectLineups(box)
	if err != nil {
		return nil, err
	}
	header, err := stats.GameHeader(gameID, teamRows)
	if err != nil {
		return nil, err
	}

	detail := &GameDetail{GameID: gameID, Header: header, Teams: box.Teams, Lineups: lineups}
	if sortBy != "" {
		for i, team := range detail.Teams {
			sorted, err := team.SortedBy(sortBy)
			if err != nil {
				return nil, err
			}
			detail.Teams[i] = sorted
		}
	}
	return detail, nil
}

// Warm loads a finished game's box score into the cache for the long TTL.
func (s *BoxScoreService) Warm(ctx context.Context, gameID string) error {
	if err := s.cache.Delete(ctx, cache.BoxScoreKey(gameID)); err != nil {
		s.log.WithError(err).WithField("game_id", gameID).Warn("cache delete failed")
	}
	_, err := s.load(ctx, gameID, s.ttl.Past)
	return err
}

func (s *BoxScoreService) load(ctx context.Context, gameID string, ttl time.Duration) (boxTables, error) {
	tables, err := cached(ctx, s.cache, s.log, cache.BoxScoreKey(gameID), ttl, func(ctx context.Context) (boxTables, error) {
		players, teams, err := s.provider.BoxScore(ctx, gameID)
		return boxTables{Players: players, Teams: teams}, err
	})
	if err != nil {
		return boxTables{}, fmt.Errorf("fetching box score %s: %w", gameID, err)
	}
	return tables, nil
}
