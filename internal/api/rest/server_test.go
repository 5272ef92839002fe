package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/guess"
	"github.com/fortuna/courtside/internal/ingest/nba"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScoreboard struct {
	gotDate time.Time
	board   *service.Scoreboard
	err     error
}

func (f *fakeScoreboard) DefaultDate() time.Time {
	return time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
}

func (f *fakeScoreboard) GetMatchups(_ context.Context, date time.Time) (*service.Scoreboard, error) {
	f.gotDate = date
	return f.board, f.err
}

type fakeBoxScores struct {
	gotSort stats.BoxColumn
	err     error
}

func (f *fakeBoxScores) GetGameDetail(_ context.Context, gameID string, sortBy stats.BoxColumn) (*service.GameDetail, error) {
	f.gotSort = sortBy
	if f.err != nil {
		return nil, f.err
	}
	return &service.GameDetail{GameID: gameID}, nil
}

type fakeLeaders struct {
	gotSeason string
	gotAgg    stats.Aggregation
}

func (f *fakeLeaders) GetLeaderboard(_ context.Context, season, stat string) (stats.Leaderboard, error) {
	f.gotSeason = season
	col, err := stats.ParseStatColumn(stat)
	if err != nil {
		return stats.Leaderboard{}, err
	}
	return stats.Leaderboard{Season: season, Stat: col, Entries: []stats.LeaderboardEntry{{Name: "Joel Embiid", Value: 34.7}}}, nil
}

func (f *fakeLeaders) GetBoards(_ context.Context, season string) ([]stats.Leaderboard, error) {
	f.gotSeason = season
	return []stats.Leaderboard{{Season: season, Title: "POINTS PER GAME"}}, nil
}

func (f *fakeLeaders) GetTrend(_ context.Context, _ string, agg stats.Aggregation) ([]stats.TrendPoint, error) {
	f.gotAgg = agg
	return []stats.TrendPoint{{Season: "2023-24", Value: 1}}, nil
}

func (f *fakeLeaders) Seasons(context.Context) ([]string, error) {
	return []string{"2023-24", "2022-23"}, nil
}

type fakeGuesses struct {
	sessions map[string]*service.SessionView
}

func (f *fakeGuesses) Start(context.Context) (*service.SessionView, error) {
	view := &service.SessionView{ID: "s1", State: guess.NotStarted, Remaining: guess.MaxGuesses}
	f.sessions[view.ID] = view
	return view, nil
}

func (f *fakeGuesses) Get(_ context.Context, id string) (*service.SessionView, error) {
	view, ok := f.sessions[id]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	return view, nil
}

func (f *fakeGuesses) Guess(_ context.Context, id, name string) (*service.SessionView, error) {
	view, ok := f.sessions[id]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	if view.State.Finished() {
		return nil, guess.ErrGameOver
	}
	if name != "Jayson Tatum" {
		return nil, fmt.Errorf("resolving %q: %w", name, guess.ErrPlayerNotFound)
	}
	view.State = guess.Won
	view.Guesses++
	return view, nil
}

func (f *fakeGuesses) Restart(ctx context.Context, id string) (*service.SessionView, error) {
	if _, err := f.Get(ctx, id); err != nil {
		return nil, err
	}
	view := &service.SessionView{ID: id, State: guess.NotStarted, Remaining: guess.MaxGuesses}
	f.sessions[id] = view
	return view, nil
}

func (f *fakeGuesses) Search(_ context.Context, query string, _ int) ([]guess.RosterEntry, error) {
	return []guess.RosterEntry{{PlayerID: 1628369, Name: "Jayson Tatum", Team: "Boston Celtics"}}, nil
}

type fakeBackfill struct {
	got backfill.Request
}

func (f *fakeBackfill) Enqueue(_ context.Context, req backfill.Request) (*backfill.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f.got = req
	return &backfill.Job{JobID: "job-1", Source: req.Source, Status: backfill.JobStatusQueued}, nil
}

func (f *fakeBackfill) GetStatus(context.Context) (*backfill.StatusSummary, error) {
	msg := "Loading 2023-24"
	return &backfill.StatusSummary{ActiveJob: &backfill.Job{JobID: "job-1", Status: backfill.JobStatusRunning, StatusMessage: &msg}}, nil
}

type fakeTeams struct{}

func (fakeTeams) GetAll(context.Context) ([]store.Team, error) {
	return []store.Team{{TeamID: 1610612738, Abbreviation: "BOS", City: "Boston", Name: "Celtics", Conference: "East", Division: "Atlantic"}}, nil
}

func (fakeTeams) GetByID(_ context.Context, teamID int64) (*store.Team, error) {
	if teamID != 1610612738 {
		return nil, fmt.Errorf("%w: %d", repository.ErrTeamNotFound, teamID)
	}
	return &store.Team{TeamID: teamID, Abbreviation: "BOS"}, nil
}

type fakeCheck struct{ err error }

func (f fakeCheck) HealthCheck(context.Context) error { return f.err }

type testEnv struct {
	handler    http.Handler
	scoreboard *fakeScoreboard
	boxScores  *fakeBoxScores
	leaders    *fakeLeaders
	backfill   *fakeBackfill
}

func newTestEnv(t *testing.T, checks map[string]HealthChecker) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	env := &testEnv{
		scoreboard: &fakeScoreboard{board: &service.Scoreboard{Date: "2025-01-14", Games: []stats.MatchupRecord{{GameID: "0022400500"}}}},
		boxScores:  &fakeBoxScores{},
		leaders:    &fakeLeaders{},
		backfill:   &fakeBackfill{},
	}
	srv := NewServer("0", Dependencies{
		Scoreboard: env.scoreboard,
		BoxScores:  env.boxScores,
		Leaders:    env.leaders,
		Teams:      fakeTeams{},
		Guesses:    &fakeGuesses{sessions: map[string]*service.SessionView{}},
		Backfill:   env.backfill,
		DatasetDir: "/srv/datasets",
		Checks:     checks,
	}, logrus.NewEntry(log))
	env.handler = srv.Handler()
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, map[string]HealthChecker{"redis": fakeCheck{}})
	rec, body := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	env = newTestEnv(t, map[string]HealthChecker{"postgres": fakeCheck{err: errors.New("refused")}})
	rec, body = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestGetGamesByDate(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodGet, "/api/v1/games", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-01-14", body["date"])
	assert.Equal(t, "2025-01-14", env.scoreboard.gotDate.Format("2006-01-02"))

	rec, _ = env.do(t, http.MethodGet, "/api/v1/games?date=2024-12-25", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-12-25", env.scoreboard.gotDate.Format("2006-01-02"))

	rec, _ = env.do(t, http.MethodGet, "/api/v1/games?date=12/25/2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGamesByDate_EmptyDay(t *testing.T) {
	env := newTestEnv(t, nil)
	env.scoreboard.err = &stats.EmptyResultError{Resource: "games", Key: "2025-07-04"}

	rec, body := env.do(t, http.MethodGet, "/api/v1/games?date=2025-07-04", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-07-04", body["date"])
	assert.Empty(t, body["games"])
}

func TestGetGameBoxScore(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodGet, "/api/v1/games/0022400500/boxscore?sort=pts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0022400500", body["game_id"])
	assert.Equal(t, stats.ColPoints, env.boxScores.gotSort)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/games/0022400500/boxscore?sort=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGameBoxScore_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"malformed feed", &stats.UnexpectedTeamCountError{GameID: "g", Count: 1}, http.StatusBadGateway},
		{"empty team", &stats.EmptyTeamError{TeamID: 1}, http.StatusBadGateway},
		{"upstream", fmt.Errorf("fetching: %w", nba.ErrUpstream), http.StatusBadGateway},
		{"no data", &stats.EmptyResultError{Resource: "box score"}, http.StatusNotFound},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			env.boxScores.err = tt.err
			rec, body := env.do(t, http.MethodGet, "/api/v1/games/g/boxscore", nil)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "Failed to fetch box score", body["error"])
		})
	}
}

func TestGetLeaders(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodGet, "/api/v1/leaders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2023-24", body["season"])
	assert.Len(t, body["boards"], 1)

	rec, body = env.do(t, http.MethodGet, "/api/v1/leaders?season=2015-16&stat=Points+%2F+Game", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2015-16", env.leaders.gotSeason)
	assert.Equal(t, "Points / Game", body["stat"])

	rec, _ = env.do(t, http.MethodGet, "/api/v1/leaders?stat=Dunks", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLeaderTrend(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodGet, "/api/v1/leaders/trend", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(stats.StatThreePointersMade), body["stat"])
	assert.Equal(t, stats.AggSum, env.leaders.gotAgg)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/leaders/trend?agg=mean", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, stats.AggMean, env.leaders.gotAgg)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/leaders/trend?agg=median", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeams(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/teams", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := env.do(t, http.MethodGet, "/api/v1/teams/1610612738", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BOS", body["abbreviation"])

	rec, _ = env.do(t, http.MethodGet, "/api/v1/teams/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/teams/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuessFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodPost, "/api/v1/guess/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := body["id"].(string)

	rec, _ = env.do(t, http.MethodPost, "/api/v1/guess/sessions/"+id+"/guesses", map[string]string{"name": "Michael Jordan"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/v1/guess/sessions/"+id+"/guesses", map[string]string{"name": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/v1/guess/sessions/"+id+"/guesses", map[string]string{"name": "Jayson Tatum"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(guess.Won), body["state"])

	rec, _ = env.do(t, http.MethodPost, "/api/v1/guess/sessions/"+id+"/guesses", map[string]string{"name": "Jayson Tatum"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/v1/guess/sessions/"+id+"/restart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(guess.NotStarted), body["state"])

	rec, _ = env.do(t, http.MethodGet, "/api/v1/guess/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchPlayers(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodGet, "/api/v1/players/search?q=tatum", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])

	rec, _ = env.do(t, http.MethodGet, "/api/v1/players/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBackfillEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, body := env.do(t, http.MethodPost, "/api/v1/backfill", map[string]any{"season": "2023-24"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, backfill.SourceReference, env.backfill.got.Source)
	assert.Equal(t, []string{"2023-24"}, env.backfill.got.Seasons)
	job := body["job"].(map[string]any)
	assert.Equal(t, "job-1", job["job_id"])

	rec, _ = env.do(t, http.MethodPost, "/api/v1/backfill", map[string]any{"source": "csv"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = env.do(t, http.MethodGet, "/api/v1/backfill/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(backfill.JobStatusRunning), body["status"])
	assert.Equal(t, "Loading 2023-24", body["message"])
	assert.Empty(t, body["history"])
}

func TestBackfillDatasetPathStaysInDatasetDir(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"../../etc/passwd", "/etc/passwd", "stats/../../secret.csv", ""} {
		env.backfill.got = backfill.Request{}
		rec, _ := env.do(t, http.MethodPost, "/api/v1/backfill", map[string]any{"source": "csv", "path": path})
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Empty(t, env.backfill.got.Source, "%q must not be enqueued", path)
	}

	rec, _ := env.do(t, http.MethodPost, "/api/v1/backfill", map[string]any{"source": "csv", "path": "nba/seasons.csv"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, filepath.Join("/srv/datasets", "nba/seasons.csv"), env.backfill.got.Path)
}

func TestBackfillDatasetDisabledWithoutDir(t *testing.T) {
	fake := &fakeBackfill{}
	srv := NewServer("0", Dependencies{Backfill: fake}, logrus.NewEntry(logrus.New()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/backfill", strings.NewReader(`{"source":"csv","path":"seasons.csv"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, fake.got.Source)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)
	rec, _ := env.do(t, http.MethodOptions, "/api/v1/guess/sessions", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	handler := RecoveryMiddleware(logrus.NewEntry(log))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
