package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tiffinbox/ordering-service/internal/api"
	"github.com/tiffinbox/ordering-service/internal/cache"
	"github.com/tiffinbox/ordering-service/internal/config"
	"github.com/tiffinbox/ordering-service/internal/events"
	"github.com/tiffinbox/ordering-service/internal/repository"
	"github.com/tiffinbox/ordering-service/internal/service"
	"github.com/tiffinbox/ordering-service/pkg/db"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	dbCfg, err := db.LoadPostgresConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("load db config")
	}
	conn, err := db.NewPostgresConnection(dbCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect")
	}
	defer conn.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()

	publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	restaurantRepo := repository.NewRestaurantRepo(conn)
	offerRepo := repository.NewOfferRepo(conn)
	orderRepo := repository.NewOrderRepo(conn)
	offerCache := cache.NewOfferCache(rdb)

	orderSvc := service.NewOrderService(restaurantRepo, offerRepo, orderRepo, offerCache, publisher)
	offerSvc := service.NewOfferService(offerRepo, offerCache)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.NewRouter(orderSvc, offerSvc, cfg.Auth),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("server shutdown")
		}
		close(idleConnsClosed)
	}()

	logger.Info().Str("addr", cfg.HTTP.Addr).Msg("starting ordering-service")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("listen")
	}

	<-idleConnsClosed
	logger.Info().Msg("server stopped")
}
