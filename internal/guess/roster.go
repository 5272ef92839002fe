package guess

import (
	"errors"
	"sort"
	"strings"

	"github.com/fortuna/courtside/internal/stats"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxFuzzyDistance bounds how far a typed name may be from a roster name.
const maxFuzzyDistance = 3

var ErrPlayerNotFound = errors.New("player not found on active roster")

// RosterEntry is one active player a guess can name.
type RosterEntry struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	TeamID   int64  `json:"team_id"`
	Team     string `json:"team"`
}

// Roster resolves typed names to active players.
type Roster struct {
	entries []RosterEntry
	names   []string
}

// NewRoster builds a roster from the provider's all-players rows.
func NewRoster(rows []stats.RosterRow) *Roster {
	r := &Roster{
		entries: make([]RosterEntry, 0, len(rows)),
		names:   make([]string, 0, len(rows)),
	}
	for _, row := range rows {
		r.entries = append(r.entries, RosterEntry{
			PlayerID: row.PersonID,
			Name:     row.DisplayFirstLast,
			TeamID:   row.TeamID,
			Team:     strings.TrimSpace(row.TeamCity + " " + row.TeamName),
		})
		r.names = append(r.names, row.DisplayFirstLast)
	}
	return r
}

// Entries returns the roster in provider order.
func (r *Roster) Entries() []RosterEntry {
	return r.entries
}

// Len is the number of active players.
func (r *Roster) Len() int {
	return len(r.entries)
}

// Resolve finds the player a typed name refers to: exact match first, then a
// case-insensitive match, then the closest name within maxFuzzyDistance edits.
func (r *Roster) Resolve(name string) (RosterEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RosterEntry{}, ErrPlayerNotFound
	}

	for _, e := range r.entries {
		if e.Name == name {
			return e, nil
		}
	}
	for _, e := range r.entries {
		if strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}

	best, bestDistance := -1, maxFuzzyDistance+1
	lower := strings.ToLower(name)
	for i, e := range r.entries {
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(e.Name))
		if d < bestDistance {
			best, bestDistance = i, d
		}
	}
	if best < 0 {
		return RosterEntry{}, ErrPlayerNotFound
	}
	return r.entries[best], nil
}

// Suggest returns up to limit players whose names contain the query's letters in
// order, closest first.
func (r *Roster) Suggest(query string, limit int) []RosterEntry {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(query, r.names)
	sort.Stable(ranks)

	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	out := make([]RosterEntry, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, r.entries[rank.OriginalIndex])
	}
	return out
}
