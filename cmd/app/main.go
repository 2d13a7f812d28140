package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightbooking/api"
	"flightbooking/config"
	"flightbooking/internal/auth"
	"flightbooking/internal/boardingpass"
	"flightbooking/internal/bootstrap"
	"flightbooking/internal/cache"
	"flightbooking/internal/kafka"
	"flightbooking/internal/repository"
	"flightbooking/internal/service/booking"
	"flightbooking/internal/service/flights"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
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

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	boarding := boardingpass.NewGenerator(cfg.Auth.BoardingKey)
	manager := auth.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	flightService := flights.NewFlightService(flightRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		redisCache,
		producer,
		boarding,
		cfg.Kafka.NotificationsTopic,
		time.Duration(cfg.Booking.SeatHoldTTLSeconds)*time.Second,
	)

	authHandler := api.NewAuthHandler(userRepo, manager)
	flightHandler := api.NewFlightHandler(flightService)
	bookingHandler := api.NewBookingHandler(bookingService)

	if err := bootstrap.Run(ctx, cfg, manager, authHandler, flightHandler, bookingHandler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
