package rest

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/fortuna/courtside/internal/backfill"
)

// BackfillHandler proxies API calls to the backfill service.
type BackfillHandler struct {
	service    Backfiller
	datasetDir string
}

// NewBackfillHandler wires the REST layer to the backfill service. Dataset
// paths sent by clients resolve inside datasetDir; an empty datasetDir
// disables dataset loads over the API.
func NewBackfillHandler(service Backfiller, datasetDir string) *BackfillHandler {
	return &BackfillHandler{service: service, datasetDir: datasetDir}
}

type apiBackfillRequest struct {
	Source  string   `json:"source"`
	Seasons []string `json:"seasons"`
	Season  string   `json:"season"`
	Path    string   `json:"path"`
}

// HandleBackfillRequest handles POST /api/v1/backfill
func (h *BackfillHandler) HandleBackfillRequest(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		respondError(w, http.StatusServiceUnavailable, "Backfill is not configured", nil)
		return
	}

	var req apiBackfillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	backfillReq := backfill.Request{Source: backfill.Source(req.Source)}
	if backfillReq.Source == "" {
		backfillReq.Source = backfill.SourceReference
	}
	if backfillReq.Source == backfill.SourceDataset {
		path, ok := h.datasetPath(req.Path)
		if !ok {
			respondError(w, http.StatusBadRequest, "Dataset path must name a file inside the dataset directory", nil)
			return
		}
		backfillReq.Path = path
	}
	backfillReq.Seasons = append(backfillReq.Seasons, req.Seasons...)
	if req.Season != "" {
		backfillReq.Seasons = append(backfillReq.Seasons, req.Season)
	}

	job, err := h.service.Enqueue(r.Context(), backfillReq)
	if err != nil {
		respondServiceError(w, "Failed to enqueue backfill job", err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]any{
		"job": job,
	})
}

// datasetPath resolves a client path under the dataset directory, rejecting
// absolute paths and anything that climbs out of it.
func (h *BackfillHandler) datasetPath(p string) (string, bool) {
	if h.datasetDir == "" || p == "" || !filepath.IsLocal(p) {
		return "", false
	}
	return filepath.Join(h.datasetDir, p), true
}

// HandleBackfillStatus handles GET /api/v1/backfill/status
func (h *BackfillHandler) HandleBackfillStatus(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		respondError(w, http.StatusServiceUnavailable, "Backfill is not configured", nil)
		return
	}

	summary, err := h.service.GetStatus(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch status", err)
		return
	}

	respondJSON(w, http.StatusOK, buildStatusPayload(summary))
}

func buildStatusPayload(summary *backfill.StatusSummary) map[string]any {
	response := map[string]any{
		"status":  "idle",
		"message": "No active jobs",
	}

	if summary.ActiveJob != nil {
		response["status"] = summary.ActiveJob.Status
		if summary.ActiveJob.StatusMessage != nil {
			response["message"] = *summary.ActiveJob.StatusMessage
		}
		response["active_job"] = summary.ActiveJob
	}

	history := summary.History
	if history == nil {
		history = []*backfill.Job{}
	}
	response["history"] = history
	return response
}
