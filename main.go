package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/R4Lcoding/RaduBrowserServer/internal/accounts"
	"github.com/R4Lcoding/RaduBrowserServer/internal/config"
	"github.com/R4Lcoding/RaduBrowserServer/internal/db"
	"github.com/R4Lcoding/RaduBrowserServer/internal/handlers"
	"github.com/R4Lcoding/RaduBrowserServer/internal/logging"
	appmiddleware "github.com/R4Lcoding/RaduBrowserServer/internal/middleware"
	"github.com/R4Lcoding/RaduBrowserServer/internal/search"
	"github.com/R4Lcoding/RaduBrowserServer/internal/sites"
	"github.com/R4Lcoding/RaduBrowserServer/internal/tracing"
)

func main() {
	cfg, err := config.Load(db.DriverFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, cfg.TraceEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatalf("tracing setup failed: %v", err)
	}

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
	if cfg.JWTSecret == "" {
		logger.Warn(ctx, "JWT_SECRET not set, /change_password and /admin/ban are disabled")
	}

	middleware.DefaultLogger = middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Slog().Handler(), slog.LevelInfo),
		NoColor: true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	// In-memory rate limiter: LOGIN_RATE_LIMIT login attempts per minute per IP
	loginRateLimiter := appmiddleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	defer loginRateLimiter.Stop()

	h := handlers.New(accountDir, siteDir, search.NewEngine(siteDir), logger,
		handlers.WithSessions([]byte(cfg.JWTSecret), cfg.TokenTTL))
	h.RegisterRoutes(r, loginRateLimiter.Limit)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info(ctx, "listening", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "shutdown error", "err", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "tracing shutdown error", "err", err)
	}
}
