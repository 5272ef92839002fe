package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server represents the REST API server
type Server struct {
	port   string
	server *http.Server
	router *mux.Router
}

// Dependencies are the services the API exposes. Backfill may be nil when no
// database is configured; its routes then answer 503. DatasetDir bounds the
// CSV files a backfill request may name.
type Dependencies struct {
	Scoreboard Scoreboard
	BoxScores  BoxScores
	Leaders    Leaders
	Teams      Teams
	Guesses    Guesses
	Backfill   Backfiller
	DatasetDir string
	Checks     map[string]HealthChecker
}

// NewServer creates a new REST API server
func NewServer(port string, deps Dependencies, log *logrus.Entry) *Server {
	handler := NewHandler(deps, log)
	guessHandler := NewGuessHandler(deps.Guesses)
	backfillHandler := NewBackfillHandler(deps.Backfill, deps.DatasetDir)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggingMiddleware(log))
	router.Use(CORSMiddleware)

	// Preflight requests are answered by CORSMiddleware.
	router.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Games
	api.HandleFunc("/games", handler.GetGamesByDate).Methods("GET")
	api.HandleFunc("/games/{gameID}/boxscore", handler.GetGameBoxScore).Methods("GET")

	// League leaders
	api.HandleFunc("/leaders", handler.GetLeaders).Methods("GET")
	api.HandleFunc("/leaders/trend", handler.GetLeaderTrend).Methods("GET")
	api.HandleFunc("/seasons", handler.GetSeasons).Methods("GET")

	// Teams
	api.HandleFunc("/teams", handler.GetTeams).Methods("GET")
	api.HandleFunc("/teams/{teamID}", handler.GetTeam).Methods("GET")

	// Guessing game
	api.HandleFunc("/players/search", guessHandler.SearchPlayers).Methods("GET")
	api.HandleFunc("/guess/sessions", guessHandler.StartSession).Methods("POST")
	api.HandleFunc("/guess/sessions/{sessionID}", guessHandler.GetSession).Methods("GET")
	api.HandleFunc("/guess/sessions/{sessionID}/guesses", guessHandler.SubmitGuess).Methods("POST")
	api.HandleFunc("/guess/sessions/{sessionID}/restart", guessHandler.RestartSession).Methods("POST")

	// Backfill operations
	api.HandleFunc("/backfill", backfillHandler.HandleBackfillRequest).Methods("POST")
	api.HandleFunc("/backfill/status", backfillHandler.HandleBackfillStatus).Methods("GET")

	return &Server{
		port:   port,
		router: router,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
