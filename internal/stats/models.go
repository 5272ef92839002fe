package stats

import "database/sql"

// GameRow is one team's line for one game as returned by the game finder feed.
// Every game appears twice, once per side.
type GameRow struct {
	GameID           string          `json:"game_id"`
	GameDate         string          `json:"game_date"`
	TeamID           int64           `json:"team_id"`
	TeamAbbreviation string          `json:"team_abbreviation"`
	TeamName         string          `json:"team_name"`
	Matchup          string          `json:"matchup"`
	WL               string          `json:"wl"`
	Points           int64           `json:"pts"`
	FGM              sql.NullInt64   `json:"fgm"`
	FGA              sql.NullInt64   `json:"fga"`
	FG3M             sql.NullInt64   `json:"fg3m"`
	FG3A             sql.NullInt64   `json:"fg3a"`
	FTM              sql.NullInt64   `json:"ftm"`
	FTA              sql.NullInt64   `json:"fta"`
	OREB             sql.NullInt64   `json:"oreb"`
	DREB             sql.NullInt64   `json:"dreb"`
	REB              sql.NullInt64   `json:"reb"`
	AST              sql.NullInt64   `json:"ast"`
	STL              sql.NullInt64   `json:"stl"`
	BLK              sql.NullInt64   `json:"blk"`
	TOV              sql.NullInt64   `json:"tov"`
	PF               sql.NullInt64   `json:"pf"`
	PlusMinus        sql.NullFloat64 `json:"plus_minus"`
}

// MatchupSide is one team's view of a paired game.
type MatchupSide struct {
	TeamID       int64  `json:"team_id"`
	Abbreviation string `json:"abbreviation"`
	TeamName     string `json:"team_name,omitempty"`
	Points       int64  `json:"points"`
	LogoURL      string `json:"logo_url"`
}

// MatchupRecord pairs both sides of one game.
type MatchupRecord struct {
	GameID   string      `json:"game_id"`
	GameDate string      `json:"game_date,omitempty"`
	Side1    MatchupSide `json:"side1"`
	Side2    MatchupSide `json:"side2"`
	RecapURL string      `json:"recap_url"`
}

// PlayerGameRow is one player's raw line from the traditional box score.
// Shooting counts are nullable; players who did not play carry nulls.
type PlayerGameRow struct {
	GameID           string          `json:"game_id"`
	TeamID           int64           `json:"team_id"`
	TeamAbbreviation string          `json:"team_abbreviation"`
	TeamCity         string          `json:"team_city"`
	TeamName         string          `json:"team_name,omitempty"`
	PlayerID         int64           `json:"player_id"`
	PlayerName       string          `json:"player_name"`
	StartPosition    string          `json:"start_position"`
	Comment          string          `json:"comment,omitempty"`
	Minutes          string          `json:"min"`
	FGM              sql.NullInt64   `json:"fgm"`
	FGA              sql.NullInt64   `json:"fga"`
	FGPct            sql.NullFloat64 `json:"fg_pct"`
	FG3M             sql.NullInt64   `json:"fg3m"`
	FG3A             sql.NullInt64   `json:"fg3a"`
	FG3Pct           sql.NullFloat64 `json:"fg3_pct"`
	FTM              sql.NullInt64   `json:"ftm"`
	FTA              sql.NullInt64   `json:"fta"`
	FTPct            sql.NullFloat64 `json:"ft_pct"`
	OREB             sql.NullFloat64 `json:"oreb"`
	DREB             sql.NullFloat64 `json:"dreb"`
	REB              sql.NullFloat64 `json:"reb"`
	AST              sql.NullFloat64 `json:"ast"`
	STL              sql.NullFloat64 `json:"stl"`
	BLK              sql.NullFloat64 `json:"blk"`
	TO               sql.NullFloat64 `json:"to"`
	PF               sql.NullFloat64 `json:"pf"`
	PTS              sql.NullFloat64 `json:"pts"`
	PlusMinus        sql.NullFloat64 `json:"plus_minus"`
}

// PlayerLine is the derived, display-ready version of a PlayerGameRow.
// All counting stats are zero-filled.
type PlayerLine struct {
	PlayerID      int64   `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	TeamID        int64   `json:"team_id"`
	StartPosition string  `json:"start_position"`
	Comment       string  `json:"comment,omitempty"`
	Minutes       int     `json:"min"`
	FG            string  `json:"fg"`
	ThreePT       string  `json:"3pt"`
	FT            string  `json:"ft"`
	FGM           int64   `json:"fgm"`
	FGA           int64   `json:"fga"`
	FG3M          int64   `json:"fg3m"`
	FG3A          int64   `json:"fg3a"`
	FTM           int64   `json:"ftm"`
	FTA           int64   `json:"fta"`
	FGPct         float64 `json:"fg_pct"`
	FG3Pct        float64 `json:"fg3_pct"`
	FTPct         float64 `json:"ft_pct"`
	OREB          float64 `json:"oreb"`
	DREB          float64 `json:"dreb"`
	REB           float64 `json:"reb"`
	AST           float64 `json:"ast"`
	STL           float64 `json:"stl"`
	BLK           float64 `json:"blk"`
	TO            float64 `json:"to"`
	PF            float64 `json:"pf"`
	PTS           float64 `json:"pts"`
	PlusMinus     float64 `json:"+/-"`
	ImageURL      string  `json:"image_url"`

	// EFF ranks players internally and is never rendered.
	EFF float64 `json:"-"`
}

// Starter reports whether the feed flagged the player as a starter.
func (p PlayerLine) Starter() bool {
	return p.StartPosition != ""
}

// TeamBoxScore holds one team's player lines for one game in feed order.
type TeamBoxScore struct {
	TeamID           int64        `json:"team_id"`
	TeamAbbreviation string       `json:"team_abbreviation"`
	TeamCity         string       `json:"team_city"`
	Players          []PlayerLine `json:"players"`
}

// BoxScore is a game's two team partitions ordered by ascending team id.
type BoxScore struct {
	GameID string          `json:"game_id"`
	Teams  [2]TeamBoxScore `json:"teams"`
}

// TeamSummaryRow is the team-level line of a box score.
type TeamSummaryRow struct {
	GameID           string `json:"game_id"`
	TeamID           int64  `json:"team_id"`
	TeamName         string `json:"team_name"`
	TeamAbbreviation string `json:"team_abbreviation"`
	TeamCity         string `json:"team_city"`
	Points           int64  `json:"pts"`
}

// FullName joins city and nickname the way the team metadata table keys teams.
func (t TeamSummaryRow) FullName() string {
	return t.TeamCity + " " + t.TeamName
}

// SeasonPlayerRow is one player's per-game averages for one season.
type SeasonPlayerRow struct {
	Name              string          `json:"name" db:"name"`
	Season            string          `json:"season" db:"season"`
	Team              string          `json:"team,omitempty" db:"team"`
	GamesPlayed       sql.NullInt64   `json:"games_played" db:"games_played"`
	PointsPerGame     sql.NullFloat64 `json:"points_per_game" db:"points_per_game"`
	AssistsPerGame    sql.NullFloat64 `json:"assists_per_game" db:"assists_per_game"`
	ReboundsPerGame   sql.NullFloat64 `json:"rebounds_per_game" db:"rebounds_per_game"`
	BlocksPerGame     sql.NullFloat64 `json:"blocks_per_game" db:"blocks_per_game"`
	StealsPerGame     sql.NullFloat64 `json:"steals_per_game" db:"steals_per_game"`
	FGMadePerGame     sql.NullFloat64 `json:"fg_made_per_game" db:"fg_made_per_game"`
	ThreesMadePerGame sql.NullFloat64 `json:"threes_made_per_game" db:"threes_made_per_game"`
	FieldGoalPct      sql.NullFloat64 `json:"field_goal_pct" db:"field_goal_pct"`
	ThreePointPct     sql.NullFloat64 `json:"three_point_pct" db:"three_point_pct"`
	ThreePointersMade sql.NullFloat64 `json:"three_pointers_made" db:"three_pointers_made"`
}

// RosterRow is one entry of the active-player roster.
type RosterRow struct {
	PersonID         int64  `json:"person_id"`
	DisplayFirstLast string `json:"display_first_last"`
	TeamID           int64  `json:"team_id"`
	TeamCity         string `json:"team_city"`
	TeamName         string `json:"team_name"`
	TeamAbbreviation string `json:"team_abbreviation"`
	RosterStatus     int64  `json:"roster_status"`
}

// PlayerInfoRow is the biography row returned for a single player.
type PlayerInfoRow struct {
	PersonID        int64  `json:"person_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Birthdate       string `json:"birthdate"`
	School          string `json:"school"`
	Country         string `json:"country"`
	Jersey          string `json:"jersey"`
	Position        string `json:"position"`
	TeamID          int64  `json:"team_id"`
	TeamName        string `json:"team_name"`
	TeamCity        string `json:"team_city"`
	GamesPlayedFlag string `json:"games_played_flag"`
}
