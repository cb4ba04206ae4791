// Package wire provides dependency injection for the haggle application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	cliadapter "github.com/example/haggle/internal/adapters/cli"
	"github.com/example/haggle/internal/adapters/gemini"
	"github.com/example/haggle/internal/adapters/httpapi"
	"github.com/example/haggle/internal/adapters/offline"
	"github.com/example/haggle/internal/adapters/sqlite"
	"github.com/example/haggle/internal/app"
	"github.com/example/haggle/internal/config"
	"github.com/example/haggle/internal/db"
	"github.com/example/haggle/internal/logging"
	"github.com/example/haggle/internal/ports/primary"
	"github.com/example/haggle/internal/ports/secondary"
)

var (
	cfg                *config.Config
	logger             *logging.Logger
	database           *sql.DB
	negotiationService primary.NegotiationService
	closers            []func() error
	once               sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the application logger.
func Logger() *logging.Logger {
	once.Do(initServices)
	return logger
}

// NegotiationService returns the singleton NegotiationService instance.
func NegotiationService() primary.NegotiationService {
	once.Do(initServices)
	return negotiationService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	ctx := context.Background()

	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logPath, err := db.ExpandHome(cfg.Logging.File)
	if err != nil {
		log.Fatalf("failed to resolve log file: %v", err)
	}
	logger, err = logging.NewLogger(logPath, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	closers = append(closers, logger.Close)

	// Get database connection
	database, err = db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	closers = append(closers, database.Close)

	// Create repository adapters (secondary ports) with injected DB
	negotiationRepo := sqlite.NewNegotiationRepository(database)
	generator := newGenerator(ctx, cfg.Generation, logger)

	// Create effect executor with injected repositories
	executor := app.NewEffectExecutor(negotiationRepo, logger.WithComponent("executor"))
	composer := app.NewOfferComposer(generator, cfg.Generation.Timeout, logger.WithComponent("composer"))

	// Create services (primary ports implementation)
	negotiationService = app.NewNegotiationService(negotiationRepo, composer, executor, logger.WithComponent("negotiation"), app.NegotiationServiceConfig{
		Rules:        cfg.Negotiation.Rules(),
		HistoryLimit: cfg.Negotiation.HistoryLimit,
	})
}

// newGenerator picks the text generator. Gemini without an API key degrades
// to the offline generator so every message uses its fallback text.
func newGenerator(ctx context.Context, gc config.GenerationConfig, logger *logging.Logger) secondary.TextGenerator {
	if gc.Provider == config.ProviderOffline {
		logger.Info("text generation disabled", "provider", gc.Provider)
		return offline.NewGenerator()
	}

	if !gc.HasAPIKey() {
		logger.Warn("GEMINI_API_KEY not set, using fallback messages")
		return offline.NewGenerator()
	}

	client, err := gemini.NewGenerator(ctx, gc.APIKey, gc.Model)
	if err != nil {
		logger.Warn("gemini unavailable, using fallback messages", "error", err)
		return offline.NewGenerator()
	}
	closers = append(closers, client.Close)

	logger.Debug("text generation ready", "provider", gc.Provider, "model", gc.Model, "rate_per_minute", gc.RatePerMinute)
	return gemini.NewLimitedGenerator(client, gc.RatePerMinute, gc.Burst)
}

// NegotiationAdapter returns a new NegotiationAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func NegotiationAdapter() *cliadapter.NegotiationAdapter {
	return NegotiationAdapterWithOutput(os.Stdout)
}

// NegotiationAdapterWithOutput returns a new NegotiationAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func NegotiationAdapterWithOutput(out io.Writer) *cliadapter.NegotiationAdapter {
	once.Do(initServices)
	return cliadapter.NewNegotiationAdapter(negotiationService, out)
}

// Router returns the HTTP API engine.
func Router() *gin.Engine {
	once.Do(initServices)
	return httpapi.NewRouter(negotiationService, logger, httpapi.RouterConfig{
		AllowedOrigin: cfg.Server.AllowedOrigin,
		HistoryLimit:  cfg.Negotiation.HistoryLimit,
	})
}

// Close releases the database, generator and log file, newest first.
func Close() error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	closers = nil
	return errors.Join(errs...)
}
