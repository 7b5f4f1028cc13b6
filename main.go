package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"playstore/config"
	"playstore/handlers"
	"playstore/importer"
	"playstore/repository"
	"playstore/scheduler"
	"playstore/scraper"
	"playstore/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		initLogger("info", "console")
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	initLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer closeStore()

	// The browser is launched on the first import
	fetcher := scraper.NewLazyFetcher(importer.FetcherOptions(cfg))
	defer fetcher.Close()

	imp := importer.FromConfig(cfg, fetcher)
	catalogService := services.NewCatalogService(docs, cfg)

	taskManager := scheduler.NewTaskManager(imp.Import, cfg.ImportWorkers, 100)
	defer taskManager.Stop()

	janitor := scheduler.NewJanitor(taskManager, cfg.CleanupSchedule, cfg.TaskRetention)
	if err := janitor.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start task cleanup")
	}
	defer janitor.Stop()

	if !cfg.AdminEnabled() {
		log.Warn().Msg("ADMIN_USER and ADMIN_PASS are not set, admin API is disabled")
	}

	h := handlers.NewHandlers(catalogService, imp, taskManager)
	router := handlers.NewRouter(h, cfg)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Addr()).
			Str("env", cfg.Env).
			Str("storage", cfg.StorageDriver).
			Int("games", catalogService.Count(ctx)).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func initLogger(levelName, format string) {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if format == "console" {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(output).With().Timestamp().Str("service", "playstore").Logger()
}
