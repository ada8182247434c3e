package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/AngelCh415/leadpulse/internal/config"
	"github.com/AngelCh415/leadpulse/internal/httpx"
	"github.com/AngelCh415/leadpulse/internal/ingest"
	"github.com/AngelCh415/leadpulse/internal/metrics"
	"github.com/AngelCh415/leadpulse/internal/status"
	"github.com/AngelCh415/leadpulse/internal/store"
	"github.com/AngelCh415/leadpulse/internal/telemetry"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	funnel := status.DefaultFunnel
	if cfg.TaxonomyFile != "" {
		tax, err := status.LoadTaxonomy(cfg.TaxonomyFile)
		if err != nil {
			logger.Error("taxonomy error", slog.String("err", err.Error()))
			os.Exit(1)
		}
		funnel = status.NewFunnel(tax)
	}

	tel := telemetry.New()
	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	st := store.NewMemoryStore()
	etl := ingest.NewETL(cl, st, logger, cfg, tel)
	mSvc := metrics.NewService(st, funnel, tel, logger, cfg.Location(), cfg.TopCountries)

	if cfg.LeadsFile != "" {
		if _, err := etl.ImportPath(cfg.LeadsFile); err != nil {
			logger.Warn("initial import failed", slog.String("file", cfg.LeadsFile), slog.String("err", err.Error()))
		}
	}

	r := httpx.NewRouter(logger, etl, mSvc, st, tel)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port), slog.String("tz", cfg.DisplayTZ))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
