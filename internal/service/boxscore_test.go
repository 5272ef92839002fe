package service

import (
	"context"
	"testing"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGameID = "0022400500"

func boxScoreTables() (stats.Table, stats.Table) {
	players := stats.Table{
		Name:    "PlayerStats",
		Headers: []string{"GAME_ID", "TEAM_ID", "TEAM_ABBREVIATION", "TEAM_CITY", "PLAYER_ID", "PLAYER_NAME", "START_POSITION", "MIN", "FGM", "FGA", "FG_PCT", "REB", "AST", "PTS"},
		Rows: [][]any{
			{testGameID, 1610612752.0, "NYK", "New York", 1628973.0, "Jalen Brunson", "G", "36.000000:12", 10.0, 20.0, 0.5, 3.0, 7.0, 28.0},
			{testGameID, 1610612738.0, "BOS", "Boston", 1628369.0, "Jayson Tatum", "F", "38.000000:00", 11.0, 22.0, 0.5, 9.0, 5.0, 31.0},
			{testGameID, 1610612752.0, "NYK", "New York", 1626157.0, "Karl-Anthony Towns", "C", "34:10", 8.0, 15.0, 0.533, 12.0, 2.0, 22.0},
			{testGameID, 1610612738.0, "BOS", "Boston", 1627759.0, "Jaylen Brown", "", "30.000000:45", nil, nil, nil, 4.0, 3.0, 12.0},
		},
	}
	teams := stats.Table{
		Name:    "TeamStats",
		Headers: []string{"GAME_ID", "TEAM_ID", "TEAM_NAME", "TEAM_ABBREVIATION", "TEAM_CITY", "PTS"},
		Rows: [][]any{
			{testGameID, 1610612752.0, "Knicks", "NYK", "New York", 98.0},
			{testGameID, 1610612738.0, "Celtics", "BOS", "Boston", 100.0},
		},
	}
	return players, teams
}

func TestBoxScoreService_GetGameDetail(t *testing.T) {
	players, teams := boxScoreTables()
	provider := &fakeProvider{players: players, teams: teams}
	svc := NewBoxScoreService(provider, newMemCache(), testTTL, testLogger())

	detail, err := svc.GetGameDetail(context.Background(), testGameID, "")
	require.NoError(t, err)

	// Boston has the lower team id and comes first everywhere.
	assert.Equal(t, "Boston Celtics", detail.Header[0].Name)
	assert.Equal(t, int64(100), detail.Header[0].Points)
	assert.Equal(t, "New York Knicks", detail.Header[1].Name)
	assert.Equal(t, int64(1610612738), detail.Teams[0].TeamID)
	assert.Equal(t, int64(1610612752), detail.Teams[1].TeamID)

	celtics := detail.Teams[0]
	require.Len(t, celtics.Players, 2)
	assert.Equal(t, "Jayson Tatum", celtics.Players[0].PlayerName)
	assert.Equal(t, "0 - 0", celtics.Players[1].FG)
	assert.Equal(t, 30, celtics.Players[1].Minutes)

	require.Len(t, detail.Lineups[0].Starters, 1)
	assert.Equal(t, "Jayson Tatum", detail.Lineups[0].Leader.PlayerName)
	require.Len(t, detail.Lineups[1].Starters, 2)
	assert.Equal(t, "Jalen Brunson", detail.Lineups[1].Leader.PlayerName)
}

func TestBoxScoreService_SortedDetail(t *testing.T) {
	players, teams := boxScoreTables()
	provider := &fakeProvider{players: players, teams: teams}
	svc := NewBoxScoreService(provider, newMemCache(), testTTL, testLogger())

	detail, err := svc.GetGameDetail(context.Background(), testGameID, stats.ColRebounds)
	require.NoError(t, err)

	knicks := detail.Teams[1]
	require.Len(t, knicks.Players, 2)
	assert.Equal(t, "Karl-Anthony Towns", knicks.Players[0].PlayerName)

	_, err = svc.GetGameDetail(context.Background(), testGameID, stats.BoxColumn("XYZ"))
	var invalid *stats.InvalidColumnError
	assert.ErrorAs(t, err, &invalid)
}

func TestBoxScoreService_SingleTeamFeed(t *testing.T) {
	players, teams := boxScoreTables()
	players.Rows = players.Rows[:1]
	provider := &fakeProvider{players: players, teams: teams}
	svc := NewBoxScoreService(provider, newMemCache(), testTTL, testLogger())

	_, err := svc.GetGameDetail(context.Background(), testGameID, "")
	var count *stats.UnexpectedTeamCountError
	require.ErrorAs(t, err, &count)
	assert.Equal(t, 1, count.Count)
}

func TestBoxScoreService_CachesTables(t *testing.T) {
	players, teams := boxScoreTables()
	provider := &fakeProvider{players: players, teams: teams}
	c := newMemCache()
	svc := NewBoxScoreService(provider, c, testTTL, testLogger())

	for range 3 {
		_, err := svc.GetGameDetail(context.Background(), testGameID, "")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, provider.boxCalls)
	assert.Equal(t, testTTL.Today, c.ttl(cache.BoxScoreKey(testGameID)))
}

func TestBoxScoreService_Warm(t *testing.T) {
	players, teams := boxScoreTables()
	provider := &fakeProvider{players: players, teams: teams}
	c := newMemCache()
	svc := NewBoxScoreService(provider, c, testTTL, testLogger())

	_, err := svc.GetGameDetail(context.Background(), testGameID, "")
	require.NoError(t, err)

	require.NoError(t, svc.Warm(context.Background(), testGameID))
	assert.Equal(t, 2, provider.boxCalls)
	assert.Equal(t, testTTL.Past, c.ttl(cache.BoxScoreKey(testGameID)))
}
