package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"flightbooking/config"
	"flightbooking/internal/domain"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context, key string) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, key string, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(key), payload, c.flightsTTL).Err()
}

// AcquireSeatHold fences a seat against concurrent booking attempts before
// the database transaction starts. The hold expires on its own; a committed
// booking makes it irrelevant, a failed one lets it lapse.
func (c *RedisCache) AcquireSeatHold(ctx context.Context, flightID, seatNumber string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, seatHoldKey(flightID, seatNumber), "held", ttl).Result()
}

func (c *RedisCache) ReleaseSeatHold(ctx context.Context, flightID, seatNumber string) error {
	return c.client.Del(ctx, seatHoldKey(flightID, seatNumber)).Err()
}

func flightsKey(key string) string {
	return "cache:flights:" + key
}

func seatHoldKey(flightID, seatNumber string) string {
	return fmt.Sprintf("hold:flight:%s:seat:%s", flightID, seatNumber)
}
