package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/osse101/playcredits/docs"
	"github.com/osse101/playcredits/internal/bootstrap"
	"github.com/osse101/playcredits/internal/config"
	"github.com/osse101/playcredits/internal/database"
	"github.com/osse101/playcredits/internal/logger"
	"github.com/osse101/playcredits/internal/server"
)

const shutdownTimeout = 30 * time.Second

// @title PlayCredits API
// @version 1.0
// @description Play-time credit accrual and periodic leaderboards.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	warnings, err := config.Audit(nil)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("Configuration warning", "detail", w)
	}

	ctx := context.Background()

	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbPool.Close()

	version, err := database.Migrate(ctx, dbPool)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("Database ready", "schema_version", version)

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}
	if err := bootstrap.RegisterEventHandlers(bus); err != nil {
		return err
	}

	repos := bootstrap.InitializeRepositories(dbPool)
	svcs, err := bootstrap.InitializeServices(cfg, repos, publisher)
	if err != nil {
		return err
	}

	if _, err := bootstrap.SyncGameCatalog(ctx, cfg.GameSeedPath, svcs.Catalog); err != nil {
		return err
	}

	workers := bootstrap.StartWorkers(cfg, svcs.Leaderboard, svcs.Calendar)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
	}, server.Services{
		DB:          dbPool,
		Catalog:     svcs.Catalog,
		Ledger:      svcs.Ledger,
		Leaderboard: svcs.Leaderboard,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stop:
		logger.Info("Received shutdown signal", "signal", sig.String())
	case runErr = <-serverErr:
		logger.Error("Server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Workers:            workers,
		ResilientPublisher: publisher,
	})

	return runErr
}
