package bref

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fortuna/courtside/internal/stats"
)

// TableName is the id of the per-game table on a season page.
const TableName = "per_game_stats"

// column maps an output header to the data-stat attributes the site has used for it.
type column struct {
	header string
	stats  []string
}

var perGameColumns = []column{
	{"Team", []string{"team_name_abbr", "team_id"}},
	{"Games Played", []string{"games", "g"}},
	{string(stats.StatPointsPerGame), []string{"pts_per_g"}},
	{string(stats.StatAssistsPerGame), []string{"ast_per_g"}},
	{string(stats.StatReboundsPerGame), []string{"trb_per_g"}},
	{string(stats.StatBlocksPerGame), []string{"blk_per_g"}},
	{string(stats.StatStealsPerGame), []string{"stl_per_g"}},
	{string(stats.StatFGMadePerGame), []string{"fg_per_g"}},
	{string(stats.StatThreesMadePerGame), []string{"fg3_per_g"}},
	{string(stats.StatFieldGoalPct), []string{"fg_pct"}},
	{string(stats.StatThreePointPct), []string{"fg3_pct"}},
}

var playerStats = []string{"name_display", "player"}

// ParsePerGame reads the per-game table of a season page into a raw table with
// the dataset's column names. Traded players appear once per team after a
// combined row; only the first row for each player is kept.
func ParsePerGame(r io.Reader, season string) (stats.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return stats.Table{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	tbl := doc.Find("table#" + TableName)
	if tbl.Length() == 0 {
		return stats.Table{}, &stats.SchemaError{Table: TableName, Column: "*", Row: -1, Reason: "table not found in page"}
	}

	headers := []string{"Name", "Season"}
	for _, c := range perGameColumns {
		headers = append(headers, c.header)
	}
	headers = append(headers, string(stats.StatThreePointersMade))

	out := stats.Table{Name: TableName, Headers: headers}
	seen := make(map[string]bool)

	tbl.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass("thead") {
			return
		}
		name := cellText(tr, playerStats)
		name = strings.TrimSpace(strings.TrimSuffix(name, "*"))
		if name == "" || name == "League Average" {
			return
		}
		key := playerKey(tr, name)
		if seen[key] {
			return
		}
		seen[key] = true

		row := []any{name, season}
		for _, c := range perGameColumns {
			row = append(row, cellText(tr, c.stats))
		}
		row = append(row, seasonThrees(cellText(tr, []string{"fg3_per_g"}), cellText(tr, []string{"games", "g"})))
		out.Rows = append(out.Rows, row)
	})

	return out, nil
}

// playerKey identifies the player of a row by the site's player id, falling back
// to the display name on pages that do not carry one.
func playerKey(tr *goquery.Selection, name string) string {
	for _, stat := range playerStats {
		cell := tr.Find(fmt.Sprintf(`[data-stat="%s"]`, stat))
		if id, ok := cell.Attr("data-append-csv"); ok && strings.TrimSpace(id) != "" {
			return "id:" + strings.TrimSpace(id)
		}
	}
	return "name:" + name
}

func cellText(tr *goquery.Selection, names []string) string {
	for _, name := range names {
		cell := tr.Find(fmt.Sprintf(`[data-stat="%s"]`, name))
		if cell.Length() > 0 {
			return strings.TrimSpace(cell.First().Text())
		}
	}
	return ""
}

// seasonThrees estimates total threes made from the per-game average, since the
// per-game page does not carry totals.
func seasonThrees(perGame, games string) string {
	pg, err := strconv.ParseFloat(perGame, 64)
	if err != nil {
		return ""
	}
	g, err := strconv.ParseFloat(games, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(math.Round(pg*g), 'f', -1, 64)
}
