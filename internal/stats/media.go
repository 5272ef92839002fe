package stats

import (
	"fmt"
	"strings"
)

const (
	teamLogoURL  = "https://cdn.nba.com/logos/nba/%d/global/L/logo.svg"
	headshotURL  = "https://cdn.nba.com/headshots/nba/latest/1040x760/%d.png"
	gameRecapURL = "https://www.nba.com/game/%s-vs-%s-%s?watchRecap=true"
)

// TeamLogoURL returns the CDN logo for a team id.
func TeamLogoURL(teamID int64) string {
	return fmt.Sprintf(teamLogoURL, teamID)
}

// HeadshotURL returns the CDN headshot for a player id.
func HeadshotURL(playerID int64) string {
	return fmt.Sprintf(headshotURL, playerID)
}

// RecapURL links the game page with the recap tab selected.
func RecapURL(gameID, abbr1, abbr2 string) string {
	return fmt.Sprintf(gameRecapURL, strings.ToLower(abbr1), strings.ToLower(abbr2), gameID)
}
