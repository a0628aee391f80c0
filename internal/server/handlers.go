package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/thromer/pc-boxscores/internal/archive"
	"github.com/thromer/pc-boxscores/internal/boxscore"
	"github.com/thromer/pc-boxscores/internal/logger"
	"github.com/thromer/pc-boxscores/internal/pipeline"
)

const defaultMaxBodyBytes = 4 << 20

var errNoRunner = errors.New("pipeline not configured")

// Handler contains dependencies for HTTP handlers
type Handler struct {
	runner       Runner
	maxBodyBytes int64
}

// NewHandler creates a new handler
func NewHandler(runner Runner, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{runner: runner, maxBodyBytes: maxBodyBytes}
}

// AnalyzeResponse is returned by POST /analyze and the process route
type AnalyzeResponse struct {
	Messages []string `json:"messages"`
}

// DiscoverRequest is the optional JSON body of POST /discover
type DiscoverRequest struct {
	Day       int  `json:"day"`
	Year      int  `json:"year"`
	Limit     int  `json:"limit"`
	KeepGoing bool `json:"keep_going"`
	DryRun    bool `json:"dry_run"`
	Archive   bool `json:"archive"`
}

// DiscoverResponse is returned by POST /discover
type DiscoverResponse struct {
	*pipeline.DiscoverResult
	Archived []pipeline.ArchiveResult `json:"archived,omitempty"`
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "pc-boxscores",
	})
}

// Metrics returns the in-process metrics snapshot
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, logger.GetMetricsSnapshot())
}

// Analyze runs the analyzer over the HTML in the request body. Nothing is
// posted; the messages are returned to the caller.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondError(w, http.StatusRequestEntityTooLarge, "Box score too large", err)
			return
		}
		respondError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}

	messages, err := boxscore.Analyze(string(body))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Failed to analyze box score", err)
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{Messages: messages})
}

// ProcessArchived analyzes an archived box score and sends its notifications
func (h *Handler) ProcessArchived(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		respondError(w, http.StatusServiceUnavailable, "Processing unavailable", errNoRunner)
		return
	}

	key := mux.Vars(r)["key"]
	messages, err := h.runner.ProcessArchived(r.Context(), key)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, archive.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, boxscore.ErrStructure), errors.Is(err, boxscore.ErrFormat), errors.Is(err, boxscore.ErrLookup):
			status = http.StatusUnprocessableEntity
		}
		respondError(w, status, "Failed to process box score", err)
		return
	}
	if messages == nil {
		messages = []string{}
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{Messages: messages})
}

// Discover walks the scoreboard for new games and optionally archives them
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	if h.runner == nil {
		respondError(w, http.StatusServiceUnavailable, "Discovery unavailable", errNoRunner)
		return
	}

	var req DiscoverRequest
	if r.ContentLength != 0 {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	result, err := h.runner.Discover(r.Context(), pipeline.DiscoverOptions{
		Day:       req.Day,
		Year:      req.Year,
		Limit:     req.Limit,
		KeepGoing: req.KeepGoing,
		DryRun:    req.DryRun,
	})
	if err != nil {
		respondError(w, http.StatusBadGateway, "Discovery failed", err)
		return
	}

	resp := DiscoverResponse{DiscoverResult: result}
	if req.Archive && !req.DryRun && len(result.NewGames) > 0 {
		archived, err := h.runner.ArchiveGames(r.Context(), result.NewGames)
		if err != nil {
			respondError(w, http.StatusBadGateway, "Archiving failed", err)
			return
		}
		resp.Archived = archived
	}

	respondJSON(w, http.StatusOK, resp)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode response", logger.Fields{"error": err.Error()})
	}
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
