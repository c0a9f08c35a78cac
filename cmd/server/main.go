package main

import (
	"bemestar/internal/app"
	"bemestar/internal/config"
	"bemestar/internal/platform/logger"
	"bemestar/internal/service"
	"bemestar/internal/transport/rest"
	"bemestar/internal/transport/ws"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// @title Bem-Estar Questionnaire API
// @version 1.0
// @description One-question-per-page questionnaire sessions
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg := config.Load()
	base, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	log := base.WithSalt(cfg.LogHashSalt)
	defer log.Sync()

	ctx := context.Background()
	a, err := app.Open(ctx, cfg, log, app.Needs{Sessions: true, Responses: true})
	if err != nil {
		log.Fatal("startup failed", "error", err)
	}
	defer a.Close(context.Background())

	wsHub := ws.NewHub(log)
	defer wsHub.Close()

	wizardSvc := service.NewWizardService(a.Catalog, a.Sessions, a.Responses, a.SchemaVersion(), log)
	wizardSvc.SetBroadcaster(wsHub)
	wizardSvc.SetSubmitTimeout(cfg.SubmitTimeout)

	router := rest.NewRouter(&rest.Container{
		WizardService:      wizardSvc,
		CatalogService:     a.Catalogs,
		WSHub:              wsHub,
		Logger:             log,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting",
			"port", cfg.Port,
			"session_store", cfg.SessionStore,
			"sink", cfg.SinkDriver,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exited")
}
