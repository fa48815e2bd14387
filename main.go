package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agrotrack/collections"
	"agrotrack/config"
	"agrotrack/handlers"
	"agrotrack/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logging, os.Stdout)
	slog.SetDefault(logger)

	exporter := services.NewExporter(cfg.Export.ExporterOptions(), logger)

	app := pocketbase.New()
	app.RootCmd.AddCommand(newExportCommand(app, exporter, cfg.Export.OutputDir))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app); err != nil {
			return err
		}
		if cfg.Seed {
			if err := collections.Seed(app); err != nil {
				logger.Warn("seed data failed", slog.String("error", err.Error()))
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Exports ──────────────────────────────────────────────
		se.Router.POST("/api/exports", handlers.HandleExport(exporter))
		se.Router.GET("/fleet/{table}/export/{format}", handlers.HandleFleetExport(app, exporter))

		// ── Observability ────────────────────────────────────────
		se.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.String(http.StatusOK, "AgroTrack: tablas exportables: "+strings.Join(services.FleetTableNames(), ", "))
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Error("app stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
