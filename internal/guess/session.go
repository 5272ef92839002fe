package guess

import (
	"errors"
	"math/rand/v2"

	"github.com/fortuna/courtside/internal/stats"
)

// MaxGuesses is how many guesses a player gets before the game is lost.
const MaxGuesses = 10

var ErrGameOver = errors.New("game is already over")

// State is the lifecycle of one guessing game.
type State string

const (
	NotStarted State = "NOT_STARTED"
	InProgress State = "IN_PROGRESS"
	Won        State = "WON"
	Lost       State = "LOST"
)

// Finished reports whether no more guesses are accepted.
func (s State) Finished() bool {
	return s == Won || s == Lost
}

// GuessRecord is one scored guess.
type GuessRecord struct {
	Candidate PlayerProfile `json:"candidate"`
	Results   []FieldResult `json:"results"`
}

// Session is the full state of one game. It is a value: Guess returns a new
// Session and never modifies the receiver, so callers own persistence.
type Session struct {
	ID      string        `json:"id"`
	State   State         `json:"state"`
	Target  PlayerProfile `json:"target"`
	History []GuessRecord `json:"history"` // newest first
}

// NewSession starts a game against target.
func NewSession(id string, target PlayerProfile) Session {
	return Session{ID: id, State: NotStarted, Target: target}
}

// GuessCount is the number of guesses made so far.
func (s Session) GuessCount() int {
	return len(s.History)
}

// Remaining is the number of guesses left.
func (s Session) Remaining() int {
	if n := MaxGuesses - len(s.History); n > 0 {
		return n
	}
	return 0
}

// Guess scores candidate against the target and advances the state. A name
// match wins; reaching MaxGuesses without one loses.
func (s Session) Guess(candidate PlayerProfile) (Session, []FieldResult, error) {
	if s.State.Finished() {
		return s, nil, ErrGameOver
	}

	results := Compare(candidate, s.Target)

	next := s
	next.History = make([]GuessRecord, 0, len(s.History)+1)
	next.History = append(next.History, GuessRecord{Candidate: candidate, Results: results})
	next.History = append(next.History, s.History...)

	switch {
	case candidate.Name == s.Target.Name:
		next.State = Won
	case len(next.History) >= MaxGuesses:
		next.State = Lost
	default:
		next.State = InProgress
	}
	return next, results, nil
}

// PickTarget draws a roster entry uniformly at random.
func PickTarget(entries []RosterEntry, rng *rand.Rand) (RosterEntry, error) {
	if len(entries) == 0 {
		return RosterEntry{}, &stats.EmptyResultError{Resource: "active players"}
	}
	return entries[rng.IntN(len(entries))], nil
}
