package rediscache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/skota27/bus_booking/internal/core/domain"
)

func TestGetOrSeed_ReturnsCachedCount(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewSeatCache(client)

	route := &domain.BusRoute{ID: uuid.New(), SeatsAvailable: 40}
	key := fmt.Sprintf("bus:%s:seats", route.ID)

	mockRedis.ExpectGet(key).SetVal("7")

	count, err := cache.GetOrSeed(context.Background(), route)

	assert.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestGetOrSeed_SeedsFromAuthoritativeCount(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewSeatCache(client)

	route := &domain.BusRoute{ID: uuid.New(), SeatsAvailable: 40}
	key := fmt.Sprintf("bus:%s:seats", route.ID)

	mockRedis.ExpectGet(key).RedisNil()
	mockRedis.ExpectSet(key, 40, time.Hour).SetVal("OK")

	count, err := cache.GetOrSeed(context.Background(), route)

	assert.NoError(t, err)
	assert.Equal(t, 40, count)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestGetOrSeed_PropagatesBackendError(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewSeatCache(client)

	route := &domain.BusRoute{ID: uuid.New(), SeatsAvailable: 40}
	key := fmt.Sprintf("bus:%s:seats", route.ID)

	mockRedis.ExpectGet(key).SetErr(errors.New("connection refused"))

	_, err := cache.GetOrSeed(context.Background(), route)

	assert.Error(t, err)
}

func TestDecrementAndIncrement(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewSeatCache(client)

	routeID := uuid.New()
	key := fmt.Sprintf("bus:%s:seats", routeID)

	mockRedis.ExpectDecr(key).SetVal(6)
	mockRedis.ExpectIncr(key).SetVal(7)

	assert.NoError(t, cache.Decrement(context.Background(), routeID))
	assert.NoError(t, cache.Increment(context.Background(), routeID))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}
