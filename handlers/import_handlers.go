package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type importRequest struct {
	URL string `json:"url"`
}

// Import fetches and parses a product synchronously
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	result, err := h.importer.Import(r.Context(), req.URL)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ImportAsync queues an import and returns its task id
func (h *Handlers) ImportAsync(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, "url_required")
		return
	}

	task := h.tasks.Submit(url)
	log.Ctx(r.Context()).Info().Str("task_id", task.ID).Str("url", url).Msg("async import queued")

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"ok":     true,
		"taskId": task.ID,
		"status": task.Snapshot().Status,
	})
}

// GetTaskStatus returns the state of an import task
func (h *Handlers) GetTaskStatus(w http.ResponseWriter, r *http.Request) {
	task, exists := h.tasks.Get(mux.Vars(r)["taskId"])
	if !exists {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, task.Snapshot())
}

// GetTaskStats returns statistics about the task manager
func (h *Handlers) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":     h.tasks.Stats(),
		"timestamp": time.Now(),
	})
}
