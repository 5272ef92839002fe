package stats

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairGames_SingleGame(t *testing.T) {
	rows := []GameRow{
		{GameID: "G1", TeamID: 1, TeamAbbreviation: "A", Points: 100},
		{GameID: "G1", TeamID: 2, TeamAbbreviation: "B", Points: 98},
	}

	records, err := PairGames(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "G1", rec.GameID)
	assert.Equal(t, "A", rec.Side1.Abbreviation)
	assert.Equal(t, int64(100), rec.Side1.Points)
	assert.Equal(t, "B", rec.Side2.Abbreviation)
	assert.Equal(t, int64(98), rec.Side2.Points)
	assert.Equal(t, TeamLogoURL(1), rec.Side1.LogoURL)
	assert.Equal(t, "https://www.nba.com/game/a-vs-b-G1?watchRecap=true", rec.RecapURL)
}

func TestPairGames_InterleavedFeed(t *testing.T) {
	rows := []GameRow{
		{GameID: "G2", TeamID: 3, TeamAbbreviation: "LAL", Points: 110},
		{GameID: "G1", TeamID: 1, TeamAbbreviation: "BOS", Points: 101},
		{GameID: "G3", TeamID: 5, TeamAbbreviation: "DEN", Points: 90},
		{GameID: "G1", TeamID: 2, TeamAbbreviation: "NYK", Points: 99},
		{GameID: "G3", TeamID: 6, TeamAbbreviation: "UTA", Points: 95},
		{GameID: "G2", TeamID: 4, TeamAbbreviation: "GSW", Points: 120},
	}

	records, err := PairGames(rows)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"G2", "G1", "G3"}, []string{records[0].GameID, records[1].GameID, records[2].GameID})
	assert.Equal(t, "LAL", records[0].Side1.Abbreviation)
	assert.Equal(t, "GSW", records[0].Side2.Abbreviation)
	assert.Equal(t, "BOS", records[1].Side1.Abbreviation)
	assert.Equal(t, "NYK", records[1].Side2.Abbreviation)
	assert.Equal(t, "DEN", records[2].Side1.Abbreviation)
	assert.Equal(t, "UTA", records[2].Side2.Abbreviation)
}

func TestPairGames_CountMatchesGames(t *testing.T) {
	for n := 1; n <= 15; n++ {
		var rows []GameRow
		for i := 0; i < n; i++ {
			rows = append(rows, GameRow{GameID: fmt.Sprintf("G%d", i), TeamID: int64(2 * i), TeamAbbreviation: "H"})
		}
		for i := n - 1; i >= 0; i-- {
			rows = append(rows, GameRow{GameID: fmt.Sprintf("G%d", i), TeamID: int64(2*i + 1), TeamAbbreviation: "V"})
		}

		records, err := PairGames(rows)
		require.NoError(t, err)
		require.Len(t, records, n)
		for _, rec := range records {
			assert.Equal(t, "H", rec.Side1.Abbreviation)
			assert.Equal(t, "V", rec.Side2.Abbreviation)
			assert.NotEqual(t, rec.Side1.TeamID, rec.Side2.TeamID)
		}
	}
}

func TestPairGames_Empty(t *testing.T) {
	_, err := PairGames(nil)

	var empty *EmptyResultError
	require.True(t, errors.As(err, &empty))
	assert.Equal(t, "games", empty.Resource)
}
