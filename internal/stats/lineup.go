package stats

// StartingFive returns the players the feed flagged as starters, in feed order.
// The feed is trusted on the count; anything other than five is passed through.
func StartingFive(team TeamBoxScore) []PlayerLine {
	starters := make([]PlayerLine, 0, 5)
	for _, p := range team.Players {
		if p.Starter() {
			starters = append(starters, p)
		}
	}
	return starters
}

// Leader returns the player with the highest EFF. Ties go to the player listed
// first in the feed.
func Leader(team TeamBoxScore) (PlayerLine, error) {
	if len(team.Players) == 0 {
		return PlayerLine{}, &EmptyTeamError{TeamID: team.TeamID}
	}

	best := team.Players[0]
	for _, p := range team.Players[1:] {
		if p.EFF > best.EFF {
			best = p
		}
	}
	return best, nil
}

// TeamLineup is the starting group and top performer of one team.
type TeamLineup struct {
	TeamID   int64        `json:"team_id"`
	Starters []PlayerLine `json:"starters"`
	Leader   PlayerLine   `json:"leader"`
}

// SelectLineups picks starters and leaders for both teams of a box score.
func SelectLineups(box BoxScore) ([2]TeamLineup, error) {
	var out [2]TeamLineup
	for i, team := range box.Teams {
		leader, err := Leader(team)
		if err != nil {
			return out, err
		}
		out[i] = TeamLineup{
			TeamID:   team.TeamID,
			Starters: StartingFive(team),
			Leader:   leader,
		}
	}
	return out, nil
}
