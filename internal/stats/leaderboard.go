package stats

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// LeaderboardSize is how many players a leaderboard shows.
const LeaderboardSize = 5

// StatColumn is a recognized column of the historical season dataset. The values
// are the dataset's column headers and must match exactly.
type StatColumn string

const (
	StatPointsPerGame     StatColumn = "Points / Game"
	StatAssistsPerGame    StatColumn = "Assists / Game"
	StatReboundsPerGame   StatColumn = "Rebounds / Game"
	StatBlocksPerGame     StatColumn = "Blocks / Game"
	StatStealsPerGame     StatColumn = "Steals / Game"
	StatFGMadePerGame     StatColumn = "FG Made / Game"
	StatThreesMadePerGame StatColumn = "3PTs Made / Game"
	StatFieldGoalPct      StatColumn = "Field Goal %"
	StatThreePointPct     StatColumn = "Three-Pointers %"
	StatThreePointersMade StatColumn = "Three-Pointers Made"
)

var statAccessors = map[StatColumn]func(SeasonPlayerRow) sql.NullFloat64{
	StatPointsPerGame:     func(r SeasonPlayerRow) sql.NullFloat64 { return r.PointsPerGame },
	StatAssistsPerGame:    func(r SeasonPlayerRow) sql.NullFloat64 { return r.AssistsPerGame },
	StatReboundsPerGame:   func(r SeasonPlayerRow) sql.NullFloat64 { return r.ReboundsPerGame },
	StatBlocksPerGame:     func(r SeasonPlayerRow) sql.NullFloat64 { return r.BlocksPerGame },
	StatStealsPerGame:     func(r SeasonPlayerRow) sql.NullFloat64 { return r.StealsPerGame },
	StatFGMadePerGame:     func(r SeasonPlayerRow) sql.NullFloat64 { return r.FGMadePerGame },
	StatThreesMadePerGame: func(r SeasonPlayerRow) sql.NullFloat64 { return r.ThreesMadePerGame },
	StatFieldGoalPct:      func(r SeasonPlayerRow) sql.NullFloat64 { return r.FieldGoalPct },
	StatThreePointPct:     func(r SeasonPlayerRow) sql.NullFloat64 { return r.ThreePointPct },
	StatThreePointersMade: func(r SeasonPlayerRow) sql.NullFloat64 { return r.ThreePointersMade },
}

// ParseStatColumn validates a stat name against the recognized set.
func ParseStatColumn(name string) (StatColumn, error) {
	col := StatColumn(name)
	if _, ok := statAccessors[col]; !ok {
		return "", &InvalidColumnError{Column: name}
	}
	return col, nil
}

// Board pairs a stat with its display title.
type Board struct {
	Title string     `json:"title"`
	Stat  StatColumn `json:"stat"`
}

// DefaultBoards are the leaderboards shown for a season, in display order.
var DefaultBoards = []Board{
	{Title: "POINTS PER GAME", Stat: StatPointsPerGame},
	{Title: "BLOCKS PER GAME", Stat: StatBlocksPerGame},
	{Title: "FIELD GOALS MADE PER GAME", Stat: StatFGMadePerGame},
	{Title: "ASSISTS PER GAME", Stat: StatAssistsPerGame},
	{Title: "STEALS PER GAME", Stat: StatStealsPerGame},
	{Title: "THREE POINTERS MADE PER GAME", Stat: StatThreesMadePerGame},
	{Title: "REBOUNDS PER GAME", Stat: StatReboundsPerGame},
	{Title: "FIELD GOAL PERCENTAGE", Stat: StatFieldGoalPct},
	{Title: "THREE POINTERS PERCENTAGE", Stat: StatThreePointPct},
}

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Leaderboard is an ordered name to value ranking for one stat and season.
type Leaderboard struct {
	Title   string             `json:"title,omitempty"`
	Season  string             `json:"season"`
	Stat    StatColumn         `json:"stat"`
	Entries []LeaderboardEntry `json:"entries"`
}

// TopPlayers ranks the season's players by stat, highest first, and keeps the top n.
// Equal values keep dataset order and missing values sort last. An unknown season
// yields an empty leaderboard.
func TopPlayers(rows []SeasonPlayerRow, season string, stat StatColumn, n int) (Leaderboard, error) {
	get, ok := statAccessors[stat]
	if !ok {
		return Leaderboard{}, &InvalidColumnError{Column: string(stat)}
	}

	var inSeason []SeasonPlayerRow
	for _, r := range rows {
		if r.Season == season {
			inSeason = append(inSeason, r)
		}
	}

	sort.SliceStable(inSeason, func(i, j int) bool {
		a, b := get(inSeason[i]), get(inSeason[j])
		if !a.Valid || !b.Valid {
			return a.Valid && !b.Valid
		}
		return a.Float64 > b.Float64
	})

	if n > len(inSeason) {
		n = len(inSeason)
	}
	entries := make([]LeaderboardEntry, 0, n)
	for _, r := range inSeason[:n] {
		entries = append(entries, LeaderboardEntry{Name: r.Name, Value: get(r).Float64})
	}

	return Leaderboard{Season: season, Stat: stat, Entries: entries}, nil
}

// Boards builds every default leaderboard for a season.
func Boards(rows []SeasonPlayerRow, season string) ([]Leaderboard, error) {
	out := make([]Leaderboard, 0, len(DefaultBoards))
	for _, b := range DefaultBoards {
		lb, err := TopPlayers(rows, season, b.Stat, LeaderboardSize)
		if err != nil {
			return nil, err
		}
		lb.Title = b.Title
		out = append(out, lb)
	}
	return out, nil
}

// Aggregation folds one stat across all players of a season.
type Aggregation string

const (
	AggSum  Aggregation = "sum"
	AggMean Aggregation = "mean"
)

// TrendPoint is one season's aggregated value.
type TrendPoint struct {
	Season  string  `json:"season"`
	Value   float64 `json:"value"`
	Players int     `json:"players"`
}

// SeasonTrend aggregates stat for each season in the given order. Missing values
// are skipped; a season without values reports 0.
func SeasonTrend(rows []SeasonPlayerRow, seasons []string, stat StatColumn, agg Aggregation) ([]TrendPoint, error) {
	get, ok := statAccessors[stat]
	if !ok {
		return nil, &InvalidColumnError{Column: string(stat)}
	}
	if agg != AggSum && agg != AggMean {
		return nil, fmt.Errorf("unknown aggregation %q", agg)
	}

	type acc struct {
		sum float64
		n   int
	}
	bySeason := make(map[string]*acc, len(seasons))
	for _, s := range seasons {
		bySeason[s] = &acc{}
	}
	for _, r := range rows {
		a, ok := bySeason[r.Season]
		if !ok {
			continue
		}
		if v := get(r); v.Valid {
			a.sum += v.Float64
			a.n++
		}
	}

	points := make([]TrendPoint, 0, len(seasons))
	for _, s := range seasons {
		a := bySeason[s]
		p := TrendPoint{Season: s, Players: a.n}
		switch {
		case agg == AggSum:
			p.Value = a.sum
		case a.n > 0:
			p.Value = a.sum / float64(a.n)
		}
		points = append(points, p)
	}
	return points, nil
}

const (
	firstKnownSeason = 1996
	lastKnownSeason  = 2024
)

// SeasonTag formats the season starting in startYear, e.g. 2023 -> "2023-24".
func SeasonTag(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// ParseSeasonTag returns the starting year of a "YYYY-YY" season tag.
func ParseSeasonTag(tag string) (int, error) {
	parts := strings.Split(strings.TrimSpace(tag), "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid season tag %q", tag)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid season tag %q: %w", tag, err)
	}
	if SeasonTag(year) != strings.TrimSpace(tag) {
		return 0, fmt.Errorf("invalid season tag %q", tag)
	}
	return year, nil
}

// KnownSeasons lists the seasons the historical dataset covers, newest first.
func KnownSeasons() []string {
	seasons := make([]string, 0, lastKnownSeason-firstKnownSeason+1)
	for y := lastKnownSeason; y >= firstKnownSeason; y-- {
		seasons = append(seasons, SeasonTag(y))
	}
	return seasons
}
