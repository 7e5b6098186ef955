package rediscache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// lockTTL is the safety net for a crashed holder; each key is used for at
// most one reservation attempt, so expiry is the only release.
const lockTTL = 5 * time.Minute

// ReservationLock is a snapshot-scoped mutex: the key encodes the seat
// count the holder observed, so two requesters only collide when they are
// transacting against the same snapshot of remaining seats.
type ReservationLock struct {
	client *redis.Client
}

func NewReservationLock(client *redis.Client) *ReservationLock {
	return &ReservationLock{client: client}
}

func lockKey(routeID uuid.UUID, observedCount int) string {
	return fmt.Sprintf("lock:bus:%s:seats:%d", routeID, observedCount)
}

func (l *ReservationLock) TryAcquire(ctx context.Context, routeID uuid.UUID, observedCount int, holder string) (bool, error) {
	return l.client.SetNX(ctx, lockKey(routeID, observedCount), holder, lockTTL).Result()
}
