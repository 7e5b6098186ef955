package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/skota27/bus_booking/internal/core/domain"
)

// seatCounterTTL bounds how stale a drifted counter can get before it is
// re-seeded from the route's durable count.
const seatCounterTTL = time.Hour

// SeatCache keeps the per-route soft seat counter in Redis. Adjustments use
// single INCR/DECR commands so concurrent callers never observe a
// read-modify-write window.
type SeatCache struct {
	client *redis.Client
}

func NewSeatCache(client *redis.Client) *SeatCache {
	return &SeatCache{client: client}
}

func seatKey(routeID uuid.UUID) string {
	return fmt.Sprintf("bus:%s:seats", routeID)
}

func (c *SeatCache) GetOrSeed(ctx context.Context, route *domain.BusRoute) (int, error) {
	key := seatKey(route.ID)

	count, err := c.client.Get(ctx, key).Int()
	if err == nil {
		return count, nil
	}

	if !errors.Is(err, redis.Nil) {
		return 0, err
	}

	if err := c.client.Set(ctx, key, route.SeatsAvailable, seatCounterTTL).Err(); err != nil {
		return 0, err
	}

	return route.SeatsAvailable, nil
}

func (c *SeatCache) Decrement(ctx context.Context, routeID uuid.UUID) error {
	return c.client.Decr(ctx, seatKey(routeID)).Err()
}

func (c *SeatCache) Increment(ctx context.Context, routeID uuid.UUID) error {
	return c.client.Incr(ctx, seatKey(routeID)).Err()
}
