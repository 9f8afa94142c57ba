package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/buyapp/order-service/internal/cache"
	"github.com/buyapp/order-service/internal/clients"
	"github.com/buyapp/order-service/internal/config"
	"github.com/buyapp/order-service/internal/domain"
	"github.com/buyapp/order-service/internal/events"
	"github.com/buyapp/order-service/internal/httpapi"
	"github.com/buyapp/order-service/internal/repository"
	"github.com/buyapp/order-service/internal/service"
)

// noopCache stands in when the Redis cache is disabled: every read misses
// and writes are dropped.
type noopCache struct{}

func (noopCache) Get(_ context.Context, _ string) (*domain.Cart, error) {
	return nil, cache.ErrCacheMiss
}

func (noopCache) Set(_ context.Context, _ string, _ *domain.Cart) error { return nil }

func (noopCache) Delete(_ context.Context, _ string) error { return nil }

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("service", "order-service").Logger()

	cfg := config.Load()
	ctx := context.Background()

	// MongoDB
	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName, repository.ConnectConfig{
		ConnectTimeout: cfg.MongoConnectTimeout,
		SelectTimeout:  cfg.MongoSelectTimeout,
		MaxPoolSize:    cfg.MongoMaxPoolSize,
		MinPoolSize:    cfg.MongoMinPoolSize,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	logger.Info().Str("uri", cfg.MongoURI).Msg("connected to MongoDB")

	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create cart indexes")
	}
	if err := orderRepo.CreateIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create order indexes")
	}

	// Redis cart cache
	var cartCache cache.CartCache = noopCache{}
	if cfg.CacheEnabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")
		cartCache = cache.NewRedisCache(redisClient)
	}

	// Outbound collaborators
	productClient := clients.NewProductClient(cfg.ProductBaseURL, cfg.ClientTimeout)
	userClient := clients.NewUserClient(cfg.UserBaseURL, cfg.ClientTimeout)

	// Order events
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.EventsEnabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("kafka publisher enabled")
	}

	cartService := service.NewCartService(cartRepo, cartCache, productClient, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, cartCache, productClient, userClient, publisher, logger)

	router := httpapi.NewRouter(cartService, orderService)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Msg("order service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down order service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := db.Client().Disconnect(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("mongo disconnect failed")
	}
	logger.Info().Msg("order service stopped")
}
