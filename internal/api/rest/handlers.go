package rest

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const healthTimeout = 2 * time.Second

// Handler contains dependencies for HTTP handlers
type Handler struct {
	scoreboard Scoreboard
	boxScores  BoxScores
	leaders    Leaders
	teams      Teams
	checks     map[string]HealthChecker
	log        *logrus.Entry
}

// NewHandler creates a new handler
func NewHandler(deps Dependencies, log *logrus.Entry) *Handler {
	return &Handler{
		scoreboard: deps.Scoreboard,
		boxScores:  deps.BoxScores,
		leaders:    deps.Leaders,
		teams:      deps.Teams,
		checks:     deps.Checks,
		log:        log,
	}
}

// HealthCheck reports the service and each backing store.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	components := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name].HealthCheck(ctx); err != nil {
			h.log.WithError(err).WithField("dependency", name).Warn("health check failed")
			components[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		components[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}
	respondJSON(w, status, map[string]any{
		"status":       state,
		"service":      "courtside",
		"dependencies": components,
	})
}

// GetGamesByDate returns the paired games of ?date=YYYY-MM-DD, last night by default.
func (h *Handler) GetGamesByDate(w http.ResponseWriter, r *http.Request) {
	date := h.scoreboard.DefaultDate()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, date.Location())
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = parsed
	}

	board, err := h.scoreboard.GetMatchups(r.Context(), date)
	var empty *stats.EmptyResultError
	if errors.As(err, &empty) {
		respondJSON(w, http.StatusOK, service.Scoreboard{
			Date:  date.Format("2006-01-02"),
			Games: []stats.MatchupRecord{},
		})
		return
	}
	if err != nil {
		respondServiceError(w, "Failed to fetch games", err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}

// GetGameBoxScore returns the detail page of one game, optionally ?sort=COLUMN.
func (h *Handler) GetGameBoxScore(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	var sortBy stats.BoxColumn
	if raw := r.URL.Query().Get("sort"); raw != "" {
		col, err := stats.ParseBoxColumn(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid sort column", err)
			return
		}
		sortBy = col
	}

	detail, err := h.boxScores.GetGameDetail(r.Context(), gameID, sortBy)
	if err != nil {
		respondServiceError(w, "Failed to fetch box score", err)
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// GetLeaders returns one leaderboard for ?stat=, or every default board when
// no stat is given. The season defaults to the newest stored one.
func (h *Handler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	season := r.URL.Query().Get("season")
	if season == "" {
		seasons, err := h.leaders.Seasons(r.Context())
		if err != nil {
			respondServiceError(w, "Failed to fetch seasons", err)
			return
		}
		if len(seasons) > 0 {
			season = seasons[0]
		}
	}

	stat := r.URL.Query().Get("stat")
	if stat == "" {
		boards, err := h.leaders.GetBoards(r.Context(), season)
		if err != nil {
			respondServiceError(w, "Failed to fetch leaderboards", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"season": season,
			"boards": boards,
		})
		return
	}

	board, err := h.leaders.GetLeaderboard(r.Context(), season, stat)
	if err != nil {
		respondServiceError(w, "Failed to fetch leaderboard", err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// GetLeaderTrend aggregates ?stat= over every stored season (?agg=sum|mean).
func (h *Handler) GetLeaderTrend(w http.ResponseWriter, r *http.Request) {
	stat := r.URL.Query().Get("stat")
	if stat == "" {
		stat = string(stats.StatThreePointersMade)
	}

	agg := stats.Aggregation(r.URL.Query().Get("agg"))
	switch agg {
	case "":
		agg = stats.AggSum
	case stats.AggSum, stats.AggMean:
	default:
		respondError(w, http.StatusBadRequest, "Invalid aggregation (use sum or mean)", nil)
		return
	}

	points, err := h.leaders.GetTrend(r.Context(), stat, agg)
	if err != nil {
		respondServiceError(w, "Failed to compute trend", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"stat":   stat,
		"agg":    agg,
		"points": points,
	})
}

// GetSeasons lists the seasons with leaderboard data, newest first.
func (h *Handler) GetSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.leaders.Seasons(r.Context())
	if err != nil {
		respondServiceError(w, "Failed to fetch seasons", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"seasons": seasons})
}

// GetTeams returns all franchises with their conference and division.
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, "Failed to fetch teams", err)
		return
	}
	respondJSON(w, http.StatusOK, teams)
}

// GetTeam returns a specific team by ID
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := strconv.ParseInt(mux.Vars(r)["teamID"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid team ID", err)
		return
	}

	team, err := h.teams.GetByID(r.Context(), teamID)
	if err != nil {
		respondServiceError(w, "Team not found", err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}
