package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"playstore/catalog"
	"playstore/importer"
	"playstore/models"
	"playstore/pricing"
	"playstore/scheduler"
	"playstore/services"
)

// Importer runs a synchronous product import
type Importer interface {
	Import(ctx context.Context, url string) (*models.ImportResult, error)
}

// TaskQueue runs imports in the background
type TaskQueue interface {
	Submit(url string) *models.ImportTask
	Get(taskID string) (*models.ImportTask, bool)
	Stats() scheduler.TaskStats
}

type Handlers struct {
	catalog   *services.CatalogService
	importer  Importer
	tasks     TaskQueue
	startedAt time.Time
}

func NewHandlers(catalog *services.CatalogService, importer Importer, tasks TaskQueue) *Handlers {
	return &Handlers{
		catalog:   catalog,
		importer:  importer,
		tasks:     tasks,
		startedAt: time.Now(),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 5<<20)).Decode(v)
}

// errorStatus maps domain errors to a status code and error code
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrIDAndNameRequired):
		return http.StatusBadRequest, "id_and_name_required"
	case errors.Is(err, catalog.ErrIDRequired):
		return http.StatusBadRequest, "id_required"
	case errors.Is(err, catalog.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, catalog.ErrDateRequired):
		return http.StatusBadRequest, "date_required"
	case errors.Is(err, catalog.ErrBadDate):
		return http.StatusBadRequest, "bad_date"
	case errors.Is(err, pricing.ErrInvalidRule):
		return http.StatusBadRequest, "invalid_rules"
	case errors.Is(err, services.ErrInvalidRoundStep):
		return http.StatusBadRequest, "bad_round_step"
	case errors.Is(err, importer.ErrURLRequired):
		return http.StatusBadRequest, "url_required"
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]interface{}{"ok": false, "error": code})
}

// writeFailure logs unexpected errors and writes the mapped error body
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, status, code)
}
