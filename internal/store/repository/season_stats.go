package repository

import (
	"context"
	"fmt"

	"github.com/fortuna/courtside/internal/stats"
	"github.com/fortuna/courtside/internal/store"
)

const seasonColumns = `name, season, team, games_played, points_per_game, assists_per_game,
	rebounds_per_game, blocks_per_game, steals_per_game, fg_made_per_game,
	threes_made_per_game, field_goal_pct, three_point_pct, three_pointers_made`

// SeasonStatsRepository stores the historical per-season player averages.
type SeasonStatsRepository struct {
	db *store.Database
}

// NewSeasonStatsRepository creates a new season stats repository
func NewSeasonStatsRepository(db *store.Database) *SeasonStatsRepository {
	return &SeasonStatsRepository{db: db}
}

// ListBySeason returns one season's rows in load order.
func (r *SeasonStatsRepository) ListBySeason(ctx context.Context, season string) ([]stats.SeasonPlayerRow, error) {
	query := `SELECT ` + seasonColumns + ` FROM season_player_stats WHERE season = $1 ORDER BY row_id`

	var rows []stats.SeasonPlayerRow
	if err := r.db.DB().SelectContext(ctx, &rows, query, season); err != nil {
		return nil, fmt.Errorf("querying season %s: %w", season, err)
	}
	return rows, nil
}

// ListAll returns every stored row in load order.
func (r *SeasonStatsRepository) ListAll(ctx context.Context) ([]stats.SeasonPlayerRow, error) {
	query := `SELECT ` + seasonColumns + ` FROM season_player_stats ORDER BY row_id`

	var rows []stats.SeasonPlayerRow
	if err := r.db.DB().SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying season stats: %w", err)
	}
	return rows, nil
}

// Seasons lists the stored season tags, newest first.
func (r *SeasonStatsRepository) Seasons(ctx context.Context) ([]string, error) {
	var seasons []string
	if err := r.db.DB().SelectContext(ctx, &seasons,
		`SELECT DISTINCT season FROM season_player_stats ORDER BY season DESC`); err != nil {
		return nil, fmt.Errorf("querying seasons: %w", err)
	}
	return seasons, nil
}

// ReplaceSeason swaps a season's rows for rows in one transaction. Rows from
// other seasons are ignored. It returns the number of rows written.
func (r *SeasonStatsRepository) ReplaceSeason(ctx context.Context, season string, rows []stats.SeasonPlayerRow) (int, error) {
	tx, err := r.db.DB().BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM season_player_stats WHERE season = $1`, season); err != nil {
		return 0, fmt.Errorf("clearing season %s: %w", season, err)
	}

	insert := `INSERT INTO season_player_stats (` + seasonColumns + `) VALUES (
		:name, :season, :team, :games_played, :points_per_game, :assists_per_game,
		:rebounds_per_game, :blocks_per_game, :steals_per_game, :fg_made_per_game,
		:threes_made_per_game, :field_goal_pct, :three_point_pct, :three_pointers_made)`

	written := 0
	for _, row := range rows {
		if row.Season != season {
			continue
		}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return 0, fmt.Errorf("inserting %s %s: %w", season, row.Name, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing season %s: %w", season, err)
	}
	return written, nil
}
