package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"playstore/models"
	"playstore/services"
)

// GetRates returns the rate table of a region
func (h *Handlers) GetRates(w http.ResponseWriter, r *http.Request) {
	region, rules := h.catalog.Rates(r.Context(), r.URL.Query().Get("region"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"region": region,
		"rules":  rules,
	})
}

// PutRates replaces the rate table of a region
func (h *Handlers) PutRates(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Region string                   `json:"region"`
		Rules  []services.RateRuleInput `json:"rules"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	overlaps, err := h.catalog.ReplaceRates(r.Context(), req.Region, req.Rules)
	if err != nil {
		writeFailure(w, r, err)
		return
	}

	warnings := make([]string, 0, len(overlaps))
	for _, o := range overlaps {
		warnings = append(warnings, o.String())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"warnings": warnings,
	})
}

// GetSettings returns the effective store settings
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Settings(r.Context()))
}

// PutSettings applies a partial settings update
func (h *Handlers) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req services.SettingsUpdate
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	settings, err := h.catalog.UpdateSettings(r.Context(), req)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"settings": settings,
	})
}

// ListGames returns the condensed catalog for the management page
func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	updatedAt, items := h.catalog.AdminList(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"updatedAt": updatedAt,
		"items":     items,
	})
}

// AddGame inserts a game at the end of the catalog
func (h *Handlers) AddGame(w http.ResponseWriter, r *http.Request) {
	var in models.GameInput
	if err := decodeBody(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	count, err := h.catalog.AddGame(r.Context(), in)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "count": count})
}

// DeleteGame removes one game
func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])

	count, err := h.catalog.DeleteGame(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "count": count})
}

// DeleteGamesByDiscountDate removes every game expiring on the given date
func (h *Handlers) DeleteGamesByDiscountDate(w http.ResponseWriter, r *http.Request) {
	removed, count, err := h.catalog.DeleteByDiscountDate(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"removed": removed,
		"count":   count,
	})
}

// DeleteAllGames empties the catalog
func (h *Handlers) DeleteAllGames(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteAll(r.Context()); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
