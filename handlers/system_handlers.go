package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
	"time"
)

// Health reports liveness
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   "playstore",
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}

// Status reports catalog size, task counts and runtime figures
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"timestamp":    time.Now(),
		"uptime":       time.Since(h.startedAt).Round(time.Second).String(),
		"goroutines":   runtime.NumGoroutine(),
		"memory_usage": fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
		"total_games":  h.catalog.Count(r.Context()),
		"tasks":        h.tasks.Stats(),
	})
}

// ManagePage serves the admin page
func ManagePage(staticDir string) http.HandlerFunc {
	page := filepath.Join(staticDir, "admin.html")
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, page)
	}
}
