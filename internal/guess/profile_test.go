package guess

import (
	"testing"
	"time"

	"github.com/fortuna/courtside/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTeams = TeamDirectory{
	"Boston Celtics": {Conference: "East", Division: "Atlantic"},
}

func tatumInfo() stats.PlayerInfoRow {
	return stats.PlayerInfoRow{
		PersonID:        1628369,
		FirstName:       "Jayson",
		LastName:        "Tatum",
		Birthdate:       "1998-03-03T00:00:00",
		School:          "Duke",
		Country:         "USA",
		Jersey:          "0",
		Position:        "Forward-Guard",
		TeamID:          1610612738,
		TeamName:        "Celtics",
		TeamCity:        "Boston",
		GamesPlayedFlag: "Y",
	}
}

func TestBuildProfile(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	p, err := BuildProfile(tatumInfo(), testTeams, now)
	require.NoError(t, err)

	assert.Equal(t, "Jayson Tatum", p.Name)
	assert.Equal(t, "Boston Celtics", p.Team)
	assert.Equal(t, 26.0, p.Age)
	assert.Equal(t, 0.0, p.Jersey)
	assert.Equal(t, "East", p.Conference)
	assert.Equal(t, "Atlantic", p.Division)
	assert.Equal(t, "Duke", p.College)
	assert.Equal(t, stats.HeadshotURL(1628369), p.ImageURL)
}

func TestBuildProfile_DateOnlyBirthdate(t *testing.T) {
	info := tatumInfo()
	info.Birthdate = "1998-03-03"

	p, err := BuildProfile(info, testTeams, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 27.0, p.Age)
}

func TestBuildProfile_Errors(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		mutate func(*stats.PlayerInfoRow)
		want   error
	}{
		{"unknown team", func(i *stats.PlayerInfoRow) { i.TeamCity = "Seattle"; i.TeamName = "SuperSonics" }, ErrUnknownTeam},
		{"bad birthdate", func(i *stats.PlayerInfoRow) { i.Birthdate = "" }, ErrIncompleteProfile},
		{"no jersey", func(i *stats.PlayerInfoRow) { i.Jersey = "" }, ErrIncompleteProfile},
		{"no position", func(i *stats.PlayerInfoRow) { i.Position = "" }, ErrIncompleteProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tatumInfo()
			tt.mutate(&info)
			_, err := BuildProfile(info, testTeams, now)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEligible(t *testing.T) {
	info := tatumInfo()
	assert.NoError(t, Eligible(info))

	info.GamesPlayedFlag = "N"
	assert.ErrorIs(t, Eligible(info), ErrInactivePlayer)

	_, err := BuildProfile(info, testTeams, time.Now())
	assert.NoError(t, err, "inactive players can still be guessed")
}
