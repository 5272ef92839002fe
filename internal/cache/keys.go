package cache

import (
	"fmt"
	"time"
)

const prefix = "courtside"

// GamesKey holds the raw game finder table for one date.
func GamesKey(date time.Time) string {
	return fmt.Sprintf("%s:games:%s", prefix, date.Format("2006-01-02"))
}

// BoxScoreKey holds the raw box score tables of one game.
func BoxScoreKey(gameID string) string {
	return fmt.Sprintf("%s:boxscore:%s", prefix, gameID)
}

// RosterKey holds the active roster of one season.
func RosterKey(season string) string {
	return fmt.Sprintf("%s:roster:%s", prefix, season)
}

// PlayerInfoKey holds one player's biography table.
func PlayerInfoKey(playerID int64) string {
	return fmt.Sprintf("%s:player:%d", prefix, playerID)
}

// SessionKey holds one guessing game.
func SessionKey(id string) string {
	return fmt.Sprintf("%s:guess:%s", prefix, id)
}

// TTLFor picks the lifetime of data about date: results for today and later may
// still change, older dates are final.
func TTLFor(date, now time.Time, today, past time.Duration) time.Duration {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.In(date.Location()).Date()
	day := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	current := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	if day.Before(current) {
		return past
	}
	return today
}
