package guess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/courtside/internal/stats"
)

var (
	ErrInactivePlayer    = errors.New("player has not played this season")
	ErrUnknownTeam       = errors.New("team missing from team metadata")
	ErrIncompleteProfile = errors.New("player profile is incomplete")
)

// TeamMeta is the static conference and division of a franchise.
type TeamMeta struct {
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

// TeamDirectory maps "City Name" team names to their metadata.
type TeamDirectory map[string]TeamMeta

var birthdateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Eligible reports whether a player can be drawn as the solution: only players
// who have appeared in a game this season are.
func Eligible(info stats.PlayerInfoRow) error {
	if info.GamesPlayedFlag != "Y" {
		return fmt.Errorf("player %d: %w", info.PersonID, ErrInactivePlayer)
	}
	return nil
}

// BuildProfile turns a player's biography row into the comparable profile.
// Age is the difference in calendar years between now and the birth year.
func BuildProfile(info stats.PlayerInfoRow, teams TeamDirectory, now time.Time) (PlayerProfile, error) {
	team := strings.TrimSpace(info.TeamCity + " " + info.TeamName)
	meta, ok := teams[team]
	if !ok {
		return PlayerProfile{}, fmt.Errorf("player %d team %q: %w", info.PersonID, team, ErrUnknownTeam)
	}

	birth, err := parseBirthdate(info.Birthdate)
	if err != nil {
		return PlayerProfile{}, fmt.Errorf("player %d birthdate: %w", info.PersonID, ErrIncompleteProfile)
	}

	jersey, err := strconv.ParseFloat(strings.TrimSpace(info.Jersey), 64)
	if err != nil {
		return PlayerProfile{}, fmt.Errorf("player %d jersey %q: %w", info.PersonID, info.Jersey, ErrIncompleteProfile)
	}

	p := PlayerProfile{
		PlayerID:   info.PersonID,
		Name:       strings.TrimSpace(info.FirstName + " " + info.LastName),
		Team:       team,
		Position:   info.Position,
		Age:        float64(now.Year() - birth.Year()),
		Country:    info.Country,
		College:    info.School,
		Conference: meta.Conference,
		Division:   meta.Division,
		Jersey:     jersey,
		ImageURL:   stats.HeadshotURL(info.PersonID),
	}
	if p.Position == "" || p.Country == "" {
		return PlayerProfile{}, fmt.Errorf("player %d: %w", info.PersonID, ErrIncompleteProfile)
	}
	return p, nil
}

func parseBirthdate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range birthdateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized birthdate %q", raw)
}
