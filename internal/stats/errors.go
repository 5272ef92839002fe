package stats

import "fmt"

// EmptyResultError reports that the provider returned no data for a request.
// Callers render an empty state instead of failing.
type EmptyResultError struct {
	Resource string
	Key      string
}

func (e *EmptyResultError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("no %s found", e.Resource)
	}
	return fmt.Sprintf("no %s found for %s", e.Resource, e.Key)
}

// UnexpectedTeamCountError reports a box score that does not contain exactly two teams.
type UnexpectedTeamCountError struct {
	GameID string
	Count  int
}

func (e *UnexpectedTeamCountError) Error() string {
	return fmt.Sprintf("game %s: expected 2 teams in box score, got %d", e.GameID, e.Count)
}

// EmptyTeamError reports a team partition without any player rows.
type EmptyTeamError struct {
	TeamID int64
}

func (e *EmptyTeamError) Error() string {
	return fmt.Sprintf("team %d has no players in box score", e.TeamID)
}

// InvalidColumnError reports an unrecognized stat column name.
type InvalidColumnError struct {
	Column string
}

func (e *InvalidColumnError) Error() string {
	return fmt.Sprintf("unrecognized stat column %q", e.Column)
}

// SchemaError reports a raw table that is missing a column or carries a cell of the wrong type.
type SchemaError struct {
	Table  string
	Column string
	Row    int
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("table %s: column %s row %d: %s", e.Table, e.Column, e.Row, e.Reason)
	}
	return fmt.Sprintf("table %s: column %s: %s", e.Table, e.Column, e.Reason)
}
