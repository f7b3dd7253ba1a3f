package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/R4Lcoding/RaduBrowserServer/internal/accounts"
	"github.com/R4Lcoding/RaduBrowserServer/internal/browser"
	"github.com/R4Lcoding/RaduBrowserServer/internal/config"
	"github.com/R4Lcoding/RaduBrowserServer/internal/db"
	"github.com/R4Lcoding/RaduBrowserServer/internal/logging"
	"github.com/R4Lcoding/RaduBrowserServer/internal/search"
	"github.com/R4Lcoding/RaduBrowserServer/internal/sites"
	"github.com/R4Lcoding/RaduBrowserServer/internal/tracing"
)

func main() {
	cfg, err := config.Load(db.DriverFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// keep the prompt readable unless a level was asked for
	level := cfg.LogLevel
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	logger := logging.New(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.TraceEndpoint, cfg.ServiceName+"-client")
	if err != nil {
		log.Fatalf("tracing setup failed: %v", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	store, err := db.Open(ctx, db.Options{
		Driver:      cfg.StoreDriver,
		DataDir:     cfg.DataDir,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		log.Fatalf("store open failed: %v", err)
	}
	defer store.Close()

	accountDir := accounts.NewDirectory(store, logger)
	siteDir := sites.NewDirectory(store, accountDir, logger)
	if cfg.AdminUsername != "" {
		if err := accountDir.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatalf("admin bootstrap failed: %v", err)
		}
	}

	app := browser.NewApp(accountDir, siteDir, search.NewEngine(siteDir), logger, os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error(ctx, "browser stopped", "err", err)
	}
}
