package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/fortuna/courtside/internal/stats"
	"github.com/sirupsen/logrus"
)

// LeaderboardService ranks players from the historical season dataset.
type LeaderboardService struct {
	repo SeasonStats
	log  *logrus.Entry
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(repo SeasonStats, log *logrus.Entry) *LeaderboardService {
	return &LeaderboardService{repo: repo, log: log.WithField("component", "leaderboard")}
}

// GetLeaderboard returns the top players of season for one stat. An unknown
// season yields an empty leaderboard.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, season, stat string) (stats.Leaderboard, error) {
	col, err := stats.ParseStatColumn(stat)
	if err != nil {
		return stats.Leaderboard{}, err
	}

	rows, err := s.repo.ListBySeason(ctx, season)
	if err != nil {
		return stats.Leaderboard{}, fmt.Errorf("loading season %s: %w", season, err)
	}

	lb, err := stats.TopPlayers(rows, season, col, stats.LeaderboardSize)
	if err != nil {
		return stats.Leaderboard{}, err
	}
	for _, b := range stats.DefaultBoards {
		if b.Stat == col {
			lb.Title = b.Title
		}
	}
	return lb, nil
}

// GetBoards returns every default leaderboard of season.
func (s *LeaderboardService) GetBoards(ctx context.Context, season string) ([]stats.Leaderboard, error) {
	rows, err := s.repo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("loading season %s: %w", season, err)
	}
	return stats.Boards(rows, season)
}

// GetTrend aggregates stat for every stored season, oldest first.
func (s *LeaderboardService) GetTrend(ctx context.Context, stat string, agg stats.Aggregation) ([]stats.TrendPoint, error) {
	col, err := stats.ParseStatColumn(stat)
	if err != nil {
		return nil, err
	}

	seasons, err := s.repo.Seasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading seasons: %w", err)
	}
	seasons = slices.Clone(seasons)
	slices.Sort(seasons)

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading season stats: %w", err)
	}
	return stats.SeasonTrend(rows, seasons, col, agg)
}

// Seasons lists the seasons with stored data, newest first. Before any data is
// loaded it falls back to the seasons the dataset is known to cover.
func (s *LeaderboardService) Seasons(ctx context.Context) ([]string, error) {
	seasons, err := s.repo.Seasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading seasons: %w", err)
	}
	if len(seasons) == 0 {
		return stats.KnownSeasons(), nil
	}
	return seasons, nil
}
