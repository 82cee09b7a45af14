// Command etl runs the mobility feature pipeline over a local policy-tracker
// CSV and population CSV, exposing health and Prometheus metrics endpoints
// for the duration of the run.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/covid-mobility-etl/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/covid-mobility-etl/internal/adapter/http"
	"github.com/couchcryptid/covid-mobility-etl/internal/config"
	"github.com/couchcryptid/covid-mobility-etl/internal/domain"
	"github.com/couchcryptid/covid-mobility-etl/internal/observability"
	"github.com/couchcryptid/covid-mobility-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loader := csvfile.NewTableLoader(cfg.InputPath, logger)
	populations := csvfile.NewPopulationProvider(cfg.PopulationPath, logger)
	p := pipeline.New(loader, populations, logger, metrics, cfg.Workers)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	table, runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("pipeline failed", "error", runErr)
	} else {
		summary := table.Summarize()
		logger.Info("mobility table ready for hand-off",
			"rows", summary.Rows,
			"countries", summary.Countries,
			"from", summary.MinDate.Format(domain.DateFormat),
			"to", summary.MaxDate.Format(domain.DateFormat),
			"generated_at", table.GeneratedAt,
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	if runErr != nil {
		os.Exit(1)
	}
}
