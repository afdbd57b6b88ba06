// Package main runs the lottery HTTP service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	app "github.com/kierros-labs/lottery-service/internal/app"
	"github.com/kierros-labs/lottery-service/internal/app/httpapi"
	"github.com/kierros-labs/lottery-service/internal/app/metrics"
	"github.com/kierros-labs/lottery-service/internal/app/storage/postgres"
	"github.com/kierros-labs/lottery-service/internal/config"
	"github.com/kierros-labs/lottery-service/internal/logging"
	"github.com/kierros-labs/lottery-service/internal/middleware"
	"github.com/kierros-labs/lottery-service/internal/platform/migrations"
)

func main() {
	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.NewDefault("lotteryd").WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	log := logging.New("lotteryd", cfg.LogLevel)
	defer log.Sync()

	stores := app.Stores{}
	if cfg.DatabaseURL != "" {
		db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Error("database connection failed")
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := migrations.Apply(ctx, db.DB); err != nil {
			cancel()
			log.WithError(err).Error("migrations failed")
			os.Exit(1)
		}
		cancel()

		store := postgres.New(db)
		stores = app.Stores{Rounds: store, Tickets: store, Draws: store, Users: store}
		log.Info("using postgres storage")
	} else {
		log.Warn("DATABASE_URL not set; using in-memory storage")
	}

	application := app.New(stores, log)

	var auth mux.MiddlewareFunc
	publicKey, err := cfg.AuthPublicKey()
	if err != nil {
		log.WithError(err).Error("loading auth public key failed")
		os.Exit(1)
	}
	if publicKey != nil {
		authMW := middleware.NewAuthMiddleware(publicKey, cfg.AuthIssuer, cfg.AuthAudience, log, nil)
		auth = authMW.Handler
	} else {
		log.Warn("AUTH_PUBLIC_KEY_PATH not set; privileged routes are open")
	}

	handler := httpapi.NewHandler(application, auth)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, log)
	rateLimiter.StartCleanup(5 * time.Minute)

	chain := middleware.NewTracingMiddleware(log).Handler(
		middleware.NewCORSMiddleware(cfg.CORSAllowedOrigins).Handler(
			rateLimiter.Handler(
				metrics.InstrumentHandler(handler),
			),
		),
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      chain,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server error")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}
