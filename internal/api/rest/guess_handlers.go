package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

const maxSearchLimit = 50

// GuessHandler serves the guessing game.
type GuessHandler struct {
	guesses Guesses
}

// NewGuessHandler wires the REST layer to the guessing game service.
func NewGuessHandler(guesses Guesses) *GuessHandler {
	return &GuessHandler{guesses: guesses}
}

type guessRequest struct {
	Name string `json:"name"`
}

// StartSession handles POST /api/v1/guess/sessions
func (h *GuessHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.guesses.Start(r.Context())
	if err != nil {
		respondServiceError(w, "Failed to start game", err)
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /api/v1/guess/sessions/{sessionID}
func (h *GuessHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.guesses.Get(r.Context(), mux.Vars(r)["sessionID"])
	if err != nil {
		respondServiceError(w, "Failed to fetch game", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SubmitGuess handles POST /api/v1/guess/sessions/{sessionID}/guesses
func (h *GuessHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Player name is required", nil)
		return
	}

	view, err := h.guesses.Guess(r.Context(), mux.Vars(r)["sessionID"], req.Name)
	if err != nil {
		respondServiceError(w, "Failed to score guess", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// RestartSession handles POST /api/v1/guess/sessions/{sessionID}/restart
func (h *GuessHandler) RestartSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.guesses.Restart(r.Context(), mux.Vars(r)["sessionID"])
	if err != nil {
		respondServiceError(w, "Failed to restart game", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// SearchPlayers handles GET /api/v1/players/search?q=&limit=
func (h *GuessHandler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "Query parameter q is required", nil)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= maxSearchLimit {
			limit = l
		}
	}

	players, err := h.guesses.Search(r.Context(), query, limit)
	if err != nil {
		respondServiceError(w, "Failed to search players", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"players": players,
		"count":   len(players),
	})
}
