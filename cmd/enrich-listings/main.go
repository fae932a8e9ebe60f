package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/shopgen/internal/enrich"
	"github.com/angelmondragon/shopgen/pkg/config"
	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
	"github.com/angelmondragon/shopgen/pkg/logger"
	"github.com/angelmondragon/shopgen/pkg/metrics"
)

const (
	serviceName = "enrich-listings"
	jobName     = "enrich_listings"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		exit(context.Background(), logg, "failed to load config", err)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.ResolvedLogFormat(),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	reg := prometheus.NewRegistry()
	runMetrics := metrics.NewRunMetrics(reg)
	enricher := enrich.New(enrich.Params{
		Seed:    cfg.Enrich.Seed,
		Logger:  logg,
		Metrics: metrics.NewGenerationMetrics(reg),
	})

	started := time.Now()
	_, err = enricher.RunFile(ctx, cfg.Enrich.InputPath, cfg.Enrich.OutputPath)
	runMetrics.ObserveDuration(jobName, time.Since(started))
	if err != nil {
		runMetrics.IncFailure(jobName, string(pkgerrors.CodeOf(err)))
	} else {
		runMetrics.IncSuccess(jobName)
	}

	if cfg.Metrics.Enabled() {
		if snapErr := metrics.WriteSnapshot(cfg.Metrics.Path, reg); snapErr != nil {
			logg.Error(ctx, "failed to write metrics snapshot", snapErr)
		}
	}

	if err != nil {
		stop()
		exit(ctx, logg, "listing enrichment failed", err)
	}
}

func exit(ctx context.Context, logg *logger.Logger, msg string, err error) {
	dump := pkgerrors.Dump(err)
	logg.Error(logg.WithFields(ctx, map[string]any{
		"code":    dump.Code,
		"details": dump.Details,
		"chain":   dump.Chain,
	}), msg, err)
	os.Exit(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).ExitCode)
}
