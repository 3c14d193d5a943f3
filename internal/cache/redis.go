package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mlukyanov/airticket/config"
	"github.com/mlukyanov/airticket/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache is a cache-aside layer over the flight list and per-flight
// seat maps. Entries expire on their TTL; the booking path additionally
// drops a flight's seat map as soon as a booking commits so readers do
// not see a stale grid for the whole TTL.
type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
	seatMapTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL, seatMapTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
		seatMapTTL: seatMapTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
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

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

func (c *RedisCache) GetSeatMap(ctx context.Context, flightID int64) (*domain.SeatMap, error) {
	data, err := c.client.Get(ctx, seatMapKey(flightID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var sm domain.SeatMap
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, err
	}
	return &sm, nil
}

func (c *RedisCache) SetSeatMap(ctx context.Context, sm *domain.SeatMap) error {
	payload, err := json.Marshal(sm)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, seatMapKey(sm.FlightID), payload, c.seatMapTTL).Err()
}

func (c *RedisCache) InvalidateSeatMap(ctx context.Context, flightID int64) error {
	return c.client.Del(ctx, seatMapKey(flightID)).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func seatMapKey(flightID int64) string {
	return fmt.Sprintf("cache:flight:%d:seatmap", flightID)
}
