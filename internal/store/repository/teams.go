package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fortuna/courtside/internal/guess"
	"github.com/fortuna/courtside/internal/store"
)

// ErrTeamNotFound is returned for an unknown team id.
var ErrTeamNotFound = errors.New("team not found")

// TeamRepository handles team data access
type TeamRepository struct {
	db *store.Database
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *store.Database) *TeamRepository {
	return &TeamRepository{db: db}
}

// GetAll returns all teams ordered by abbreviation.
func (r *TeamRepository) GetAll(ctx context.Context) ([]store.Team, error) {
	query := `
		SELECT team_id, abbreviation, city, name, conference, division
		FROM teams
		ORDER BY abbreviation
	`

	var teams []store.Team
	if err := r.db.DB().SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	return teams, nil
}

// GetByID finds a team by provider team id.
func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (*store.Team, error) {
	query := `
		SELECT team_id, abbreviation, city, name, conference, division
		FROM teams
		WHERE team_id = $1
	`

	var team store.Team
	err := r.db.DB().GetContext(ctx, &team, query, teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}
	return &team, nil
}

// Directory keys conference and division by "City Name".
func (r *TeamRepository) Directory(ctx context.Context) (guess.TeamDirectory, error) {
	teams, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	dir := make(guess.TeamDirectory, len(teams))
	for _, t := range teams {
		dir[t.FullName()] = guess.TeamMeta{Conference: t.Conference, Division: t.Division}
	}
	return dir, nil
}
