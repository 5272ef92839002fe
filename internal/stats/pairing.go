package stats

// PairGames collapses the two team rows of every game into one MatchupRecord.
//
// The feed lists each game twice with no guaranteed order between the two
// sides. The first occurrence of a game id becomes Side1 and the last occurrence
// becomes Side2; records come out in order of first occurrence. The feed is
// trusted to carry exactly two rows per game and is not validated here.
func PairGames(rows []GameRow) ([]MatchupRecord, error) {
	if len(rows) == 0 {
		return nil, &EmptyResultError{Resource: "games"}
	}

	order := make([]string, 0, len(rows)/2)
	first := make(map[string]int, len(rows)/2)
	last := make(map[string]int, len(rows)/2)
	for i, row := range rows {
		if _, seen := first[row.GameID]; !seen {
			first[row.GameID] = i
			order = append(order, row.GameID)
		}
		last[row.GameID] = i
	}

	records := make([]MatchupRecord, 0, len(order))
	for _, gameID := range order {
		a := rows[first[gameID]]
		b := rows[last[gameID]]
		records = append(records, MatchupRecord{
			GameID:   gameID,
			GameDate: a.GameDate,
			Side1:    sideFromRow(a),
			Side2:    sideFromRow(b),
			RecapURL: RecapURL(gameID, a.TeamAbbreviation, b.TeamAbbreviation),
		})
	}
	return records, nil
}

func sideFromRow(row GameRow) MatchupSide {
	return MatchupSide{
		TeamID:       row.TeamID,
		Abbreviation: row.TeamAbbreviation,
		TeamName:     row.TeamName,
		Points:       row.Points,
		LogoURL:      TeamLogoURL(row.TeamID),
	}
}
