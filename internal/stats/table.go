package stats

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is a raw result set addressed by column name, as produced by the stats
// provider (headers + rowSet) or by a CSV export.
type Table struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rowSet"`
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table carries the named column.
func (t Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

type rowReader struct {
	table string
	index map[string]int
	row   []any
	n     int
	err   error
}

func newReaders(t Table, required ...string) ([]*rowReader, error) {
	index := make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		index[h] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, &SchemaError{Table: t.Name, Column: col, Row: -1, Reason: "missing column"}
		}
	}

	readers := make([]*rowReader, 0, len(t.Rows))
	for n, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return nil, &SchemaError{
				Table:  t.Name,
				Column: "*",
				Row:    n,
				Reason: fmt.Sprintf("row has %d cells, header has %d", len(row), len(t.Headers)),
			}
		}
		readers = append(readers, &rowReader{table: t.Name, index: index, row: row, n: n})
	}
	return readers, nil
}

func (r *rowReader) fail(col, reason string) {
	if r.err == nil {
		r.err = &SchemaError{Table: r.table, Column: col, Row: r.n, Reason: reason}
	}
}

func (r *rowReader) cell(col string) (any, bool) {
	i, ok := r.index[col]
	if !ok {
		return nil, false
	}
	return r.row[i], true
}

// str reads a text cell. Absent columns and nulls read as "".
func (r *rowReader) str(col string) string {
	v, ok := r.cell(col)
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	default:
		r.fail(col, fmt.Sprintf("expected text, got %T", v))
		return ""
	}
}

func (r *rowReader) number(col string) (float64, bool) {
	v, ok := r.cell(col)
	if !ok || v == nil {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" || strings.EqualFold(s, "nan") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			r.fail(col, fmt.Sprintf("expected number, got %q", x))
			return 0, false
		}
		return f, true
	default:
		r.fail(col, fmt.Sprintf("expected number, got %T", v))
		return 0, false
	}
}

// integer reads a required integer cell.
func (r *rowReader) integer(col string) int64 {
	f, ok := r.number(col)
	if !ok {
		r.fail(col, "required value is null")
		return 0
	}
	return r.whole(col, f)
}

func (r *rowReader) nullInt(col string) sql.NullInt64 {
	f, ok := r.number(col)
	if !ok {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: r.whole(col, f), Valid: true}
}

// whole converts f to an integer, failing the row when it has a fractional part.
func (r *rowReader) whole(col string, f float64) int64 {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		r.fail(col, fmt.Sprintf("expected integer, got %v", f))
		return 0
	}
	return int64(f)
}

func (r *rowReader) nullFloat(col string) sql.NullFloat64 {
	f, ok := r.number(col)
	if !ok {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// GameRowsFromTable converts a game finder result set into GameRows in feed order.
func GameRowsFromTable(t Table) ([]GameRow, error) {
	readers, err := newReaders(t, "GAME_ID", "TEAM_ID", "TEAM_ABBREVIATION", "PTS")
	if err != nil {
		return nil, err
	}

	rows := make([]GameRow, 0, len(readers))
	for _, r := range readers {
		row := GameRow{
			GameID:           r.str("GAME_ID"),
			GameDate:         r.str("GAME_DATE"),
			TeamID:           r.integer("TEAM_ID"),
			TeamAbbreviation: r.str("TEAM_ABBREVIATION"),
			TeamName:         r.str("TEAM_NAME"),
			Matchup:          r.str("MATCHUP"),
			WL:               r.str("WL"),
			Points:           r.integer("PTS"),
			FGM:              r.nullInt("FGM"),
			FGA:              r.nullInt("FGA"),
			FG3M:             r.nullInt("FG3M"),
			FG3A:             r.nullInt("FG3A"),
			FTM:              r.nullInt("FTM"),
			FTA:              r.nullInt("FTA"),
			OREB:             r.nullInt("OREB"),
			DREB:             r.nullInt("DREB"),
			REB:              r.nullInt("REB"),
			AST:              r.nullInt("AST"),
			STL:              r.nullInt("STL"),
			BLK:              r.nullInt("BLK"),
			TOV:              r.nullInt("TOV"),
			PF:               r.nullInt("PF"),
			PlusMinus:        r.nullFloat("PLUS_MINUS"),
		}
		if r.err != nil {
			return nil, r.err
		}
		if row.GameID == "" {
			return nil, &SchemaError{Table: t.Name, Column: "GAME_ID", Row: r.n, Reason: "empty game id"}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// PlayerGameRowsFromTable converts a traditional box score player result set.
func PlayerGameRowsFromTable(t Table) ([]PlayerGameRow, error) {
	readers, err := newReaders(t, "GAME_ID", "TEAM_ID", "PLAYER_ID", "PLAYER_NAME", "START_POSITION")
	if err != nil {
		return nil, err
	}

	rows := make([]PlayerGameRow, 0, len(readers))
	for _, r := range readers {
		row := PlayerGameRow{
			GameID:           r.str("GAME_ID"),
			TeamID:           r.integer("TEAM_ID"),
			TeamAbbreviation: r.str("TEAM_ABBREVIATION"),
			TeamCity:         r.str("TEAM_CITY"),
			TeamName:         r.str("TEAM_NAME"),
			PlayerID:         r.integer("PLAYER_ID"),
			PlayerName:       r.str("PLAYER_NAME"),
			StartPosition:    r.str("START_POSITION"),
			Comment:          strings.TrimSpace(r.str("COMMENT")),
			Minutes:          r.str("MIN"),
			FGM:              r.nullInt("FGM"),
			FGA:              r.nullInt("FGA"),
			FGPct:            r.nullFloat("FG_PCT"),
			FG3M:             r.nullInt("FG3M"),
			FG3A:             r.nullInt("FG3A"),
			FG3Pct:           r.nullFloat("FG3_PCT"),
			FTM:              r.nullInt("FTM"),
			FTA:              r.nullInt("FTA"),
			FTPct:            r.nullFloat("FT_PCT"),
			OREB:             r.nullFloat("OREB"),
			DREB:             r.nullFloat("DREB"),
			REB:              r.nullFloat("REB"),
			AST:              r.nullFloat("AST"),
			STL:              r.nullFloat("STL"),
			BLK:              r.nullFloat("BLK"),
			TO:               r.nullFloat("TO"),
			PF:               r.nullFloat("PF"),
			PTS:              r.nullFloat("PTS"),
			PlusMinus:        r.nullFloat("PLUS_MINUS"),
		}
		if r.err != nil {
			return nil, r.err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TeamSummaryRowsFromTable converts the team result set of a box score.
func TeamSummaryRowsFromTable(t Table) ([]TeamSummaryRow, error) {
	readers, err := newReaders(t, "TEAM_ID", "TEAM_NAME", "TEAM_CITY", "PTS")
	if err != nil {
		return nil, err
	}

	rows := make([]TeamSummaryRow, 0, len(readers))
	for _, r := range readers {
		row := TeamSummaryRow{
			GameID:           r.str("GAME_ID"),
			TeamID:           r.integer("TEAM_ID"),
			TeamName:         r.str("TEAM_NAME"),
			TeamAbbreviation: r.str("TEAM_ABBREVIATION"),
			TeamCity:         r.str("TEAM_CITY"),
			Points:           r.nullInt("PTS").Int64,
		}
		if r.err != nil {
			return nil, r.err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SeasonPlayerRowsFromTable converts the historical per-season dataset.
// Stat columns are addressed by their recognized display names.
func SeasonPlayerRowsFromTable(t Table) ([]SeasonPlayerRow, error) {
	readers, err := newReaders(t, "Name", "Season")
	if err != nil {
		return nil, err
	}

	rows := make([]SeasonPlayerRow, 0, len(readers))
	for _, r := range readers {
		row := SeasonPlayerRow{
			Name:              strings.TrimSpace(r.str("Name")),
			Season:            strings.TrimSpace(r.str("Season")),
			Team:              r.str("Team"),
			GamesPlayed:       r.nullInt("Games Played"),
			PointsPerGame:     r.nullFloat(string(StatPointsPerGame)),
			AssistsPerGame:    r.nullFloat(string(StatAssistsPerGame)),
			ReboundsPerGame:   r.nullFloat(string(StatReboundsPerGame)),
			BlocksPerGame:     r.nullFloat(string(StatBlocksPerGame)),
			StealsPerGame:     r.nullFloat(string(StatStealsPerGame)),
			FGMadePerGame:     r.nullFloat(string(StatFGMadePerGame)),
			ThreesMadePerGame: r.nullFloat(string(StatThreesMadePerGame)),
			FieldGoalPct:      r.nullFloat(string(StatFieldGoalPct)),
			ThreePointPct:     r.nullFloat(string(StatThreePointPct)),
			ThreePointersMade: r.nullFloat(string(StatThreePointersMade)),
		}
		if r.err != nil {
			return nil, r.err
		}
		if row.Name == "" || row.Season == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RosterRowsFromTable converts the all-players result set. Rows missing a display
// name or team are dropped, matching how the roster is filtered for the game.
func RosterRowsFromTable(t Table) ([]RosterRow, error) {
	readers, err := newReaders(t, "PERSON_ID", "DISPLAY_FIRST_LAST")
	if err != nil {
		return nil, err
	}

	rows := make([]RosterRow, 0, len(readers))
	for _, r := range readers {
		teamID := r.nullInt("TEAM_ID")
		row := RosterRow{
			PersonID:         r.integer("PERSON_ID"),
			DisplayFirstLast: strings.TrimSpace(r.str("DISPLAY_FIRST_LAST")),
			TeamID:           teamID.Int64,
			TeamCity:         r.str("TEAM_CITY"),
			TeamName:         r.str("TEAM_NAME"),
			TeamAbbreviation: r.str("TEAM_ABBREVIATION"),
			RosterStatus:     r.nullInt("ROSTERSTATUS").Int64,
		}
		if r.err != nil {
			return nil, r.err
		}
		if row.DisplayFirstLast == "" || !teamID.Valid || teamID.Int64 == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// PlayerInfoRowsFromTable converts the player biography result set.
func PlayerInfoRowsFromTable(t Table) ([]PlayerInfoRow, error) {
	readers, err := newReaders(t, "PERSON_ID", "FIRST_NAME", "LAST_NAME", "TEAM_NAME", "TEAM_CITY")
	if err != nil {
		return nil, err
	}

	rows := make([]PlayerInfoRow, 0, len(readers))
	for _, r := range readers {
		row := PlayerInfoRow{
			PersonID:        r.integer("PERSON_ID"),
			FirstName:       r.str("FIRST_NAME"),
			LastName:        r.str("LAST_NAME"),
			Birthdate:       r.str("BIRTHDATE"),
			School:          r.str("SCHOOL"),
			Country:         r.str("COUNTRY"),
			Jersey:          r.str("JERSEY"),
			Position:        r.str("POSITION"),
			TeamID:          r.nullInt("TEAM_ID").Int64,
			TeamName:        r.str("TEAM_NAME"),
			TeamCity:        r.str("TEAM_CITY"),
			GamesPlayedFlag: r.str("GAMES_PLAYED_FLAG"),
		}
		if r.err != nil {
			return nil, r.err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
