package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/guess"
	"github.com/fortuna/courtside/internal/ingest/nba"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/fortuna/courtside/internal/store/repository"
)

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]any{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

// respondServiceError picks the status for an error coming out of a service.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	respondError(w, statusFor(err), message, err)
}

func statusFor(err error) int {
	var (
		empty  *stats.EmptyResultError
		column *stats.InvalidColumnError
		teams  *stats.UnexpectedTeamCountError
		team   *stats.EmptyTeamError
		schema *stats.SchemaError
	)
	switch {
	case errors.As(err, &column), errors.Is(err, backfill.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &empty),
		errors.Is(err, guess.ErrPlayerNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, repository.ErrTeamNotFound):
		return http.StatusNotFound
	case errors.Is(err, guess.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, guess.ErrUnknownTeam), errors.Is(err, guess.ErrIncompleteProfile):
		return http.StatusUnprocessableEntity
	case errors.As(err, &teams), errors.As(err, &team), errors.As(err, &schema), errors.Is(err, nba.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
