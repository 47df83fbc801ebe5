package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ombati/slot-scheduler/internal/adapters/cache"
	"github.com/ombati/slot-scheduler/internal/adapters/database"
	"github.com/ombati/slot-scheduler/internal/api/handlers"
	"github.com/ombati/slot-scheduler/internal/api/routes"
	"github.com/ombati/slot-scheduler/internal/application/services"
	"github.com/ombati/slot-scheduler/internal/domain/repositories"
	redisclient "github.com/ombati/slot-scheduler/internal/infrastructure/clients/redis"
	"github.com/ombati/slot-scheduler/internal/infrastructure/clients/sqldb"
	"github.com/ombati/slot-scheduler/internal/infrastructure/observability"
	"github.com/ombati/slot-scheduler/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("slot-scheduler", cfg.Env)

	// Authoritative booking store
	dbClient, err := sqldb.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database client")
	}
	defer dbClient.Close()
	log.Info().Str("driver", dbClient.Driver()).Msg("database client initialized")

	baseAdapter := database.NewBookingAdapter(dbClient)
	if err := baseAdapter.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure bookings schema")
	}

	// Optional read cache in front of the store
	var bookingRepo repositories.BookingRepository = baseAdapter
	if cfg.Redis.Enabled {
		redisClient, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without day cache")
		} else {
			defer redisClient.Close()
			bookingRepo = database.NewCachedBookingAdapter(baseAdapter, cache.NewRedisAdapter(redisClient))
			log.Info().Msg("booking repository wrapped with redis day cache")
		}
	}

	availabilityService, err := services.NewAvailabilityService(bookingRepo, &cfg.Schedule)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid schedule configuration")
	}
	bookingService := services.NewBookingService(bookingRepo, availabilityService)

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	bookingHandler := handlers.NewBookingHandler(bookingService)

	router := routes.NewRouter(availabilityHandler, bookingHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.Setup(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
