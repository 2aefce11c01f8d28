// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"campaignhub/internal/cache"
	"campaignhub/internal/config"
	"campaignhub/internal/db"
	"campaignhub/internal/db/migrations"
	"campaignhub/internal/events"
	"campaignhub/internal/logger"
	"campaignhub/internal/routes"
	"campaignhub/internal/services"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.CreateDatabaseIfNotExists(ctx, cfg.DatabaseURL, log); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure database exists")
	}

	database, err := db.New(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := migrations.RunMigrations(ctx, database.DB, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	deps := routes.Dependencies{
		Logger:   log,
		Provider: services.NewWhatsAppClient(cfg.WhatsAppAPIURL, cfg.WhatsAppToken, cfg.WhatsAppPhoneNumberID, log),
		Events:   events.NoopPublisher{},
	}

	if cfg.RedisAddr != "" {
		client, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, metrics cache disabled")
		} else {
			defer client.Close()
			deps.MetricsCache = cache.NewMetricsCache(client)
			log.Info().Str("addr", cfg.RedisAddr).Msg("metrics cache enabled")
		}
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			log.Warn().Err(err).Msg("broker unavailable, events disabled")
		} else {
			defer publisher.Close()
			deps.Events = publisher
			log.Info().Str("exchange", cfg.AMQPExchange).Msg("event publishing enabled")
		}
	}

	if s3Config, err := config.NewS3Config(ctx); err != nil {
		log.Warn().Err(err).Msg("s3 unavailable, campaign export disabled")
	} else if s3Config.Enabled() {
		deps.S3 = s3Config
	}

	router := routes.SetupRoutes(database.DB, cfg, deps)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	shutdown(server, log)
}

// shutdown gives in-flight requests, including dispatch waves, time to
// finish.
func shutdown(server *http.Server, log zerolog.Logger) {
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}
	log.Info().Msg("server exiting")
}
