package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/dealdesk/internal/app"
	"github.com/MrJamesThe3rd/dealdesk/internal/config"
	dealdeskHttp "github.com/MrJamesThe3rd/dealdesk/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/analytics"
	authHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/auth"
	contactHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/contact"
	dealHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/deal"
	documentHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/document"
	propertyHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/property"
	taskHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/task"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := app.Open(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := app.NewServices(cfg, db)

	if cfg.CDN.UploadURL == "" {
		slog.Warn("CDN_UPLOAD_URL is not set, uploads will fail")
	}

	router := dealdeskHttp.New(
		dealdeskHttp.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AuthRateLimit:  cfg.Auth.RateLimit,
		},
		svc.Auth,
		dealdeskHttp.Handlers{
			Auth:       authHandler.NewHandler(svc.Auth),
			Deals:      dealHandler.NewHandler(svc.Deals, svc.Export),
			Contacts:   contactHandler.NewHandler(svc.Contacts, svc.Importer),
			Properties: propertyHandler.NewHandler(svc.Properties),
			Tasks:      taskHandler.NewHandler(svc.Tasks),
			Documents:  documentHandler.NewHandler(svc.Documents),
			Analytics:  analyticsHandler.NewHandler(svc.Analytics),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      2 * cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "app", cfg.App.Name)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
