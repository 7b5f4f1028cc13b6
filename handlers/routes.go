package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"playstore/config"
	"playstore/middleware"
)

// NewRouter registers every route of the service
func NewRouter(h *Handlers, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)

	// Health and monitoring endpoints
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/status", h.Status).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.RateLimit(cfg.AdminRateLimit))
	admin.Use(middleware.AdminAuth(middleware.AdminCredentials{
		User:     cfg.AdminUser,
		Pass:     cfg.AdminPass,
		PassHash: cfg.AdminPassHash,
	}))

	admin.HandleFunc("/rates", h.GetRates).Methods("GET")
	admin.HandleFunc("/rates", h.PutRates).Methods("PUT")
	admin.HandleFunc("/settings", h.GetSettings).Methods("GET")
	admin.HandleFunc("/settings", h.PutSettings).Methods("PUT")

	admin.HandleFunc("/games/list", h.ListGames).Methods("GET")
	admin.HandleFunc("/games/add", h.AddGame).Methods("POST")
	admin.HandleFunc("/games/by-discount-date", h.DeleteGamesByDiscountDate).Methods("DELETE")
	admin.HandleFunc("/games/{id}", h.DeleteGame).Methods("DELETE")
	admin.HandleFunc("/games", h.DeleteAllGames).Methods("DELETE")

	admin.HandleFunc("/import", h.Import).Methods("POST")
	admin.HandleFunc("/import/async", h.ImportAsync).Methods("POST")
	admin.HandleFunc("/tasks/stats", h.GetTaskStats).Methods("GET")
	admin.HandleFunc("/tasks/{taskId}", h.GetTaskStatus).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RateLimit(cfg.PublicRateLimit))
	api.HandleFunc("/meta", h.GetMeta).Methods("GET")
	api.HandleFunc("/discount-dates", h.GetDiscountDates).Methods("GET")
	api.HandleFunc("/games", h.GetGames).Methods("GET")

	r.HandleFunc("/ps95_manage", ManagePage(cfg.StaticDir)).Methods("GET")
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))

	return r
}
