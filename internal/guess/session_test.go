package guess

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/fortuna/courtside/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_WinOnNameMatch(t *testing.T) {
	target := profile("Jayson Tatum")
	s := NewSession("s1", target)
	assert.Equal(t, NotStarted, s.State)
	assert.Equal(t, MaxGuesses, s.Remaining())

	s, _, err := s.Guess(profile("Jaylen Brown"))
	require.NoError(t, err)
	assert.Equal(t, InProgress, s.State)

	s, results, err := s.Guess(target)
	require.NoError(t, err)
	assert.Equal(t, Won, s.State)
	assert.Equal(t, Match, results[0].Outcome)
	assert.Equal(t, 2, s.GuessCount())
	assert.Equal(t, "Jayson Tatum", s.History[0].Candidate.Name, "newest guess first")
	assert.Equal(t, "Jaylen Brown", s.History[1].Candidate.Name)

	_, _, err = s.Guess(profile("Derrick White"))
	assert.True(t, errors.Is(err, ErrGameOver))
}

func TestSession_LostAfterMaxGuesses(t *testing.T) {
	s := NewSession("s1", profile("Jayson Tatum"))

	var err error
	for i := 0; i < MaxGuesses; i++ {
		require.False(t, s.State.Finished(), "guess %d", i)
		s, _, err = s.Guess(profile(fmt.Sprintf("Player %d", i)))
		require.NoError(t, err)
	}
	assert.Equal(t, Lost, s.State)
	assert.Equal(t, 0, s.Remaining())

	_, _, err = s.Guess(profile("Jayson Tatum"))
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestSession_WinOnLastGuess(t *testing.T) {
	target := profile("Jayson Tatum")
	s := NewSession("s1", target)
	for i := 0; i < MaxGuesses-1; i++ {
		s, _, _ = s.Guess(profile(fmt.Sprintf("Player %d", i)))
	}
	s, _, err := s.Guess(target)
	require.NoError(t, err)
	assert.Equal(t, Won, s.State)
}

func TestSession_GuessDoesNotMutateReceiver(t *testing.T) {
	s := NewSession("s1", profile("Jayson Tatum"))
	s, _, _ = s.Guess(profile("A"))

	before := s
	_, _, err := s.Guess(profile("B"))
	require.NoError(t, err)
	assert.Equal(t, before, s)
	assert.Len(t, s.History, 1)
}

func TestPickTarget(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	_, err := PickTarget(nil, rng)
	var empty *stats.EmptyResultError
	assert.True(t, errors.As(err, &empty))

	entries := []RosterEntry{{PlayerID: 1, Name: "A"}, {PlayerID: 2, Name: "B"}}
	for i := 0; i < 20; i++ {
		e, err := PickTarget(entries, rng)
		require.NoError(t, err)
		assert.Contains(t, entries, e)
	}
}
