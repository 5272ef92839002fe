package rest

import (
	"context"
	"time"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/guess"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/fortuna/courtside/internal/store"
)

// Scoreboard lists the games of a date.
type Scoreboard interface {
	DefaultDate() time.Time
	GetMatchups(ctx context.Context, date time.Time) (*service.Scoreboard, error)
}

// BoxScores builds a game's detail page.
type BoxScores interface {
	GetGameDetail(ctx context.Context, gameID string, sortBy stats.BoxColumn) (*service.GameDetail, error)
}

// Leaders ranks players from the historical dataset.
type Leaders interface {
	GetLeaderboard(ctx context.Context, season, stat string) (stats.Leaderboard, error)
	GetBoards(ctx context.Context, season string) ([]stats.Leaderboard, error)
	GetTrend(ctx context.Context, stat string, agg stats.Aggregation) ([]stats.TrendPoint, error)
	Seasons(ctx context.Context) ([]string, error)
}

// Teams reads the static franchise table.
type Teams interface {
	GetAll(ctx context.Context) ([]store.Team, error)
	GetByID(ctx context.Context, teamID int64) (*store.Team, error)
}

// Guesses runs guessing game sessions.
type Guesses interface {
	Start(ctx context.Context) (*service.SessionView, error)
	Get(ctx context.Context, id string) (*service.SessionView, error)
	Guess(ctx context.Context, id, name string) (*service.SessionView, error)
	Restart(ctx context.Context, id string) (*service.SessionView, error)
	Search(ctx context.Context, query string, limit int) ([]guess.RosterEntry, error)
}

// Backfiller queues historical data loads.
type Backfiller interface {
	Enqueue(ctx context.Context, req backfill.Request) (*backfill.Job, error)
	GetStatus(ctx context.Context) (*backfill.StatusSummary, error)
}

// HealthChecker is a dependency that can report whether it is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
