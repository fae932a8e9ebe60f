package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/shopgen/internal/catalog"
	"github.com/angelmondragon/shopgen/internal/customers"
	"github.com/angelmondragon/shopgen/internal/export"
	"github.com/angelmondragon/shopgen/pkg/config"
	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
	"github.com/angelmondragon/shopgen/pkg/logger"
	"github.com/angelmondragon/shopgen/pkg/metrics"
	"github.com/angelmondragon/shopgen/pkg/security"
)

const (
	serviceName = "generate-customers"
	jobName     = "generate_customers"
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
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"seed": cfg.Generator.Seed,
	})

	reg := prometheus.NewRegistry()
	runMetrics := metrics.NewRunMetrics(reg)
	genMetrics := metrics.NewGenerationMetrics(reg)

	started := time.Now()
	err = run(ctx, cfg, logg, genMetrics, started)
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
		exit(ctx, logg, "customer generation failed", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, m *metrics.GenerationMetrics, now time.Time) error {
	gen := cfg.Generator

	key, err := security.GetOrCreateKey(gen.KeyPath)
	if err != nil {
		return err
	}
	cipher, err := security.NewFieldCipher(key)
	if err != nil {
		return err
	}

	products, _, err := catalog.NewLoader(logg, m).LoadFile(logg.WithField(ctx, "component", "catalog"), gen.CatalogPath, gen.ProductCap)
	if err != nil {
		return err
	}

	minBaskets, maxBaskets := gen.BasketRange()
	minProducts, maxProducts := gen.ProductRange()
	generator, err := customers.NewGenerator(customers.GeneratorParams{
		Context:   customers.NewGenerationContext(gen.Seed, now),
		Encryptor: cipher,
		Options: customers.Options{
			MinBaskets:  minBaskets,
			MaxBaskets:  maxBaskets,
			MinProducts: minProducts,
			MaxProducts: maxProducts,
			Country:     gen.Country,
		},
		Logger:  logg,
		Metrics: m,
	})
	if err != nil {
		return err
	}

	records, err := generator.Generate(logg.WithField(ctx, "component", "generator"), gen.NumCustomers, products)
	if err != nil {
		return err
	}

	if err := export.WriteJSONFile(gen.OutputPath, records); err != nil {
		return err
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"path":      gen.OutputPath,
		"customers": len(records),
	}), "customers written")
	return nil
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
