package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/exhibitops/floorwatch/internal/adapter/driven/countapi"
	sqliteadapter "github.com/exhibitops/floorwatch/internal/adapter/driven/sqlite"
	httphandler "github.com/exhibitops/floorwatch/internal/adapter/driving/http"
	webhandler "github.com/exhibitops/floorwatch/internal/adapter/driving/web"
	"github.com/exhibitops/floorwatch/internal/application"
	"github.com/exhibitops/floorwatch/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"poll_interval", cfg.PollInterval,
		"window_minutes", cfg.WindowMinutes,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire stores.
	areaStore := sqliteadapter.NewAreaRepo(db)
	thresholdStore := sqliteadapter.NewThresholdRepo(db)
	countStore := sqliteadapter.NewCountRepo(db)
	legendStore := sqliteadapter.NewLegendRepo(db)

	// 6. Create services. The poll service only exists when an upstream
	// count API is configured; without one the dashboard serves stored
	// counts and the refresh endpoint reports the absence.
	statusSvc := application.NewStatusService(areaStore, thresholdStore)
	editorSvc := application.NewEditorService(thresholdStore)

	var pollSvc *application.PollService
	if cfg.HasCountSource() {
		countClient := countapi.NewClient(cfg.CountAPIURL, cfg.CountAPIToken)
		pollSvc = application.NewPollService(countClient, countStore, cfg.PollInterval, cfg.Window())
		go pollSvc.Start(ctx)
		slog.Info("count polling started", "url", cfg.CountAPIURL, "interval", cfg.PollInterval)
	} else {
		slog.Info("no count api configured, serving stored counts only")
	}

	// 7. Register API and web routes on a shared mux.
	apiHandler := httphandler.NewHandler(statusSvc, editorSvc, areaStore, legendStore, pollSvc, cfg.Window(), slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(statusSvc, legendStore, cfg.Window(), slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Log startup complete.
	slog.Info("floorwatch started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	// 11. Log shutdown complete.
	slog.Info("shutdown complete")
	return nil
}
