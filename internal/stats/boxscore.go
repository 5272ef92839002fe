package stats

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseMinutes reads the feed's minutes cell into whole minutes.
//
// The feed packs playing time as "<minutes>.000000:<seconds>"; plain "<m>:<s>"
// and bare minute counts are accepted too. Seconds are dropped. Empty or
// unparseable values, which the feed uses for players who did not play, are 0.
func ParseMinutes(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 0 {
		return 0
	}
	return m
}

// Efficiency is the composite score used to rank players inside a team:
//
//	PTS + REB + AST + STL + BLK - TO - PF + FG_PCT*FGA + FT_PCT*FTA
//
// It approximates, and is deliberately not, the league's efficiency rating.
func Efficiency(p PlayerLine) float64 {
	return p.PTS + p.REB + p.AST + p.STL + p.BLK - p.TO - p.PF +
		p.FGPct*float64(p.FGA) + p.FTPct*float64(p.FTA)
}

// ShootingSplit formats a made/attempted pair for display.
func ShootingSplit(made, attempted int64) string {
	return fmt.Sprintf("%d - %d", made, attempted)
}

// DeriveLine zero-fills a raw player row and computes its display fields and EFF.
func DeriveLine(row PlayerGameRow) PlayerLine {
	line := PlayerLine{
		PlayerID:      row.PlayerID,
		PlayerName:    row.PlayerName,
		TeamID:        row.TeamID,
		StartPosition: row.StartPosition,
		Comment:       row.Comment,
		Minutes:       ParseMinutes(row.Minutes),
		FGM:           intOrZero(row.FGM),
		FGA:           intOrZero(row.FGA),
		FG3M:          intOrZero(row.FG3M),
		FG3A:          intOrZero(row.FG3A),
		FTM:           intOrZero(row.FTM),
		FTA:           intOrZero(row.FTA),
		FGPct:         floatOrZero(row.FGPct),
		FG3Pct:        floatOrZero(row.FG3Pct),
		FTPct:         floatOrZero(row.FTPct),
		OREB:          floatOrZero(row.OREB),
		DREB:          floatOrZero(row.DREB),
		REB:           floatOrZero(row.REB),
		AST:           floatOrZero(row.AST),
		STL:           floatOrZero(row.STL),
		BLK:           floatOrZero(row.BLK),
		TO:            floatOrZero(row.TO),
		PF:            floatOrZero(row.PF),
		PTS:           floatOrZero(row.PTS),
		PlusMinus:     floatOrZero(row.PlusMinus),
		ImageURL:      HeadshotURL(row.PlayerID),
	}
	line.FG = ShootingSplit(line.FGM, line.FGA)
	line.ThreePT = ShootingSplit(line.FG3M, line.FG3A)
	line.FT = ShootingSplit(line.FTM, line.FTA)
	line.EFF = Efficiency(line)
	return line
}

// AggregateBoxScore derives every player line of a game and partitions them into
// the two teams. Teams are ordered by ascending team id; players keep feed order.
func AggregateBoxScore(gameID string, rows []PlayerGameRow) (BoxScore, error) {
	if len(rows) == 0 {
		return BoxScore{}, &EmptyResultError{Resource: "box score", Key: gameID}
	}

	var teams []TeamBoxScore
	slot := make(map[int64]int, 2)
	for _, row := range rows {
		i, ok := slot[row.TeamID]
		if !ok {
			i = len(teams)
			slot[row.TeamID] = i
			teams = append(teams, TeamBoxScore{
				TeamID:           row.TeamID,
				TeamAbbreviation: row.TeamAbbreviation,
				TeamCity:         row.TeamCity,
			})
		}
		teams[i].Players = append(teams[i].Players, DeriveLine(row))
	}

	if len(teams) != 2 {
		return BoxScore{}, &UnexpectedTeamCountError{GameID: gameID, Count: len(teams)}
	}
	if teams[0].TeamID > teams[1].TeamID {
		teams[0], teams[1] = teams[1], teams[0]
	}

	return BoxScore{GameID: gameID, Teams: [2]TeamBoxScore{teams[0], teams[1]}}, nil
}

// BoxColumn names a numeric column of a team box score.
type BoxColumn string

const (
	ColMinutes   BoxColumn = "MIN"
	ColPoints    BoxColumn = "PTS"
	ColRebounds  BoxColumn = "REB"
	ColOffReb    BoxColumn = "OREB"
	ColDefReb    BoxColumn = "DREB"
	ColAssists   BoxColumn = "AST"
	ColSteals    BoxColumn = "STL"
	ColBlocks    BoxColumn = "BLK"
	ColTurnovers BoxColumn = "TO"
	ColFouls     BoxColumn = "PF"
	ColPlusMinus BoxColumn = "+/-"
	ColEFF       BoxColumn = "EFF"
)

var boxAccessors = map[BoxColumn]func(PlayerLine) float64{
	ColMinutes:   func(p PlayerLine) float64 { return float64(p.Minutes) },
	ColPoints:    func(p PlayerLine) float64 { return p.PTS },
	ColRebounds:  func(p PlayerLine) float64 { return p.REB },
	ColOffReb:    func(p PlayerLine) float64 { return p.OREB },
	ColDefReb:    func(p PlayerLine) float64 { return p.DREB },
	ColAssists:   func(p PlayerLine) float64 { return p.AST },
	ColSteals:    func(p PlayerLine) float64 { return p.STL },
	ColBlocks:    func(p PlayerLine) float64 { return p.BLK },
	ColTurnovers: func(p PlayerLine) float64 { return p.TO },
	ColFouls:     func(p PlayerLine) float64 { return p.PF },
	ColPlusMinus: func(p PlayerLine) float64 { return p.PlusMinus },
	ColEFF:       func(p PlayerLine) float64 { return p.EFF },
}

// ParseBoxColumn validates a box score column name.
func ParseBoxColumn(name string) (BoxColumn, error) {
	col := BoxColumn(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := boxAccessors[col]; !ok {
		return "", &InvalidColumnError{Column: name}
	}
	return col, nil
}

// SortedBy returns a copy of the team box score ordered by col, highest first.
// Equal values keep feed order. The receiver is left untouched.
func (t TeamBoxScore) SortedBy(col BoxColumn) (TeamBoxScore, error) {
	get, ok := boxAccessors[col]
	if !ok {
		return TeamBoxScore{}, &InvalidColumnError{Column: string(col)}
	}

	out := t
	out.Players = make([]PlayerLine, len(t.Players))
	copy(out.Players, t.Players)
	sort.SliceStable(out.Players, func(i, j int) bool {
		return get(out.Players[i]) > get(out.Players[j])
	})
	return out, nil
}

// TeamHeader is the scoreboard line for one team of a game.
type TeamHeader struct {
	TeamID       int64  `json:"team_id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Points       int64  `json:"points"`
	LogoURL      string `json:"logo_url"`
}

// GameHeader orders the two team summaries the same way AggregateBoxScore orders
// the box score partitions, so index 0 and 1 line up across both.
func GameHeader(gameID string, rows []TeamSummaryRow) ([2]TeamHeader, error) {
	var out [2]TeamHeader
	if len(rows) != 2 {
		return out, &UnexpectedTeamCountError{GameID: gameID, Count: len(rows)}
	}

	ordered := []TeamSummaryRow{rows[0], rows[1]}
	if ordered[0].TeamID > ordered[1].TeamID {
		ordered[0], ordered[1] = ordered[1], ordered[0]
	}
	for i, row := range ordered {
		out[i] = TeamHeader{
			TeamID:       row.TeamID,
			Name:         row.FullName(),
			Abbreviation: row.TeamAbbreviation,
			Points:       row.Points,
			LogoURL:      TeamLogoURL(row.TeamID),
		}
	}
	return out, nil
}

func intOrZero(v sql.NullInt64) int64 {
	if !v.Valid {
		return 0
	}
	return v.Int64
}

func floatOrZero(v sql.NullFloat64) float64 {
	if !v.Valid {
		return 0
	}
	return v.Float64
}
