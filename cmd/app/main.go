package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/mlukyanov/airticket/config"
	"github.com/mlukyanov/airticket/internal/bootstrap"
	"github.com/mlukyanov/airticket/internal/cache"
	"github.com/mlukyanov/airticket/internal/kafka"
	"github.com/mlukyanov/airticket/internal/ratelimit"
	"github.com/mlukyanov/airticket/internal/repository"
	"github.com/mlukyanov/airticket/internal/service/booking"
	"github.com/mlukyanov/airticket/internal/service/flights"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second,
		time.Duration(cfg.Booking.SeatMapCacheTTL)*time.Second,
	)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	flightService := flights.NewFlightService(flightRepo, orderRepo, redisCache)
	bookingService := booking.NewBookingService(
		orderRepo,
		flightRepo,
		redisCache,
		producer,
		cfg.Kafka.OrdersTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	limiter := ratelimit.NewKeyedLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.Booking.RequestsPerSecond,
		Burst:             cfg.Booking.RequestBurst,
	})

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService, limiter); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
