package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/skota27/bus_booking/internal/core/domain"
)

type RouteRepository interface {
	GetByID(ctx context.Context, routeID uuid.UUID) (*domain.BusRoute, error)
	List(ctx context.Context) ([]domain.BusRoute, error)
	DecrementSeats(ctx context.Context, routeID uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	FindByTransactionID(ctx context.Context, transactionID string) (*domain.Booking, error)
	Transition(ctx context.Context, transactionID string, status domain.BookingStatus, providerPayload string) (bool, error)
	FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]string, error)
}

// SeatCache is the soft per-route seat counter. It is never the system of
// record; entries expire and are re-seeded from the route's durable count.
type SeatCache interface {
	GetOrSeed(ctx context.Context, route *domain.BusRoute) (int, error)
	Decrement(ctx context.Context, routeID uuid.UUID) error
	Increment(ctx context.Context, routeID uuid.UUID) error
}

// ReservationLock guards one seat-count snapshot per route. Losing the race
// means immediate rejection, not queueing; keys expire on their own.
type ReservationLock interface {
	TryAcquire(ctx context.Context, routeID uuid.UUID, observedCount int, holder string) (bool, error)
}

type PaymentGateway interface {
	Initiate(ctx context.Context, requesterID, transactionID string, amount float64) (string, error)
	CheckStatus(ctx context.Context, transactionID string) (domain.PaymentVerdict, error)
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *domain.Booking, route *domain.BusRoute) error
}
