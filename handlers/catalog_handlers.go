package handlers

import (
	"net/http"
	"strconv"

	"playstore/catalog"
)

// GetMeta returns settings, freshness and discount availability
func (h *Handlers) GetMeta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Meta(r.Context()))
}

// GetDiscountDates returns the discount expiry histogram of a region
func (h *Handlers) GetDiscountDates(w http.ResponseWriter, r *http.Request) {
	region, dates := h.catalog.DiscountDates(r.Context(), r.URL.Query().Get("region"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"region": region,
		"dates":  dates,
	})
}

// GetGames lists one page of the priced catalog
func (h *Handlers) GetGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	until := q.Get("until")
	if until == "" {
		until = q.Get("discountedUntil")
	}

	result := h.catalog.Query(r.Context(), catalog.Query{
		Region:   q.Get("region"),
		Search:   q.Get("q"),
		Platform: q.Get("platform"),
		Until:    until,
		Sort:     q.Get("sort"),
		Page:     page,
	})
	writeJSON(w, http.StatusOK, result)
}
