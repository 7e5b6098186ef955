package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skota27/bus_booking/internal/core/domain"
	"github.com/skota27/bus_booking/internal/core/ports/mocks"
	"github.com/skota27/bus_booking/internal/core/services"
)

type serviceMocks struct {
	routeRepo   *mocks.RouteRepository
	bookingRepo *mocks.BookingRepository
	seatCache   *mocks.SeatCache
	lock        *mocks.ReservationLock
	gateway     *mocks.PaymentGateway
	notifier    *mocks.Notifier
}

func newServiceWithMocks(t *testing.T) (*services.ReservationService, serviceMocks) {
	m := serviceMocks{
		routeRepo:   mocks.NewRouteRepository(t),
		bookingRepo: mocks.NewBookingRepository(t),
		seatCache:   mocks.NewSeatCache(t),
		lock:        mocks.NewReservationLock(t),
		gateway:     mocks.NewPaymentGateway(t),
		notifier:    mocks.NewNotifier(t),
	}

	svc := services.NewReservationService(m.routeRepo, m.bookingRepo, m.seatCache, m.lock, m.gateway, m.notifier)

	return svc, m
}

func reserveRequest(routeID, userID uuid.UUID) services.ReserveRequest {
	return services.ReserveRequest{
		RouteID:        routeID.String(),
		UserID:         userID.String(),
		PassengerName:  "Asha Rao",
		PassengerEmail: "asha@example.com",
		PassengerPhone: "9999999999",
	}
}

func TestReserve_Success(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	routeID := uuid.New()
	userID := uuid.New()

	route := &domain.BusRoute{ID: routeID, Name: "Night Express", Fare: 450, SeatsAvailable: 12}

	m.routeRepo.On("GetByID", ctx, routeID).Return(route, nil)
	m.seatCache.On("GetOrSeed", ctx, route).Return(3, nil)
	m.lock.On("TryAcquire", ctx, routeID, 3, userID.String()).Return(true, nil)
	m.seatCache.On("Decrement", ctx, routeID).Return(nil)
	m.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	m.gateway.On("Initiate", ctx, userID.String(), mock.AnythingOfType("string"), 450.0).
		Return("https://pay.example.com/redirect", nil)

	resp, err := svc.Reserve(ctx, reserveRequest(routeID, userID))

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, "https://pay.example.com/redirect", resp.PaymentURL)
		assert.Equal(t, string(domain.BookingPending), resp.Status)
		assert.True(t, strings.HasPrefix(resp.TransactionID, "TXN_"))
		assert.Equal(t, 450.0, resp.Amount)
	}
}

func TestReserve_NoSeats_RejectsBeforeLock(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	routeID := uuid.New()
	userID := uuid.New()

	route := &domain.BusRoute{ID: routeID, Fare: 450, SeatsAvailable: 20}

	m.routeRepo.On("GetByID", ctx, routeID).Return(route, nil)
	m.seatCache.On("GetOrSeed", ctx, route).Return(0, nil)

	resp, err := svc.Reserve(ctx, reserveRequest(routeID, userID))

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrNoSeatsAvailable)

	// The lock and ledger must stay untouched on the zero-seat path.
	m.lock.AssertNotCalled(t, "TryAcquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReserve_LockContention(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	routeID := uuid.New()
	userID := uuid.New()

	route := &domain.BusRoute{ID: routeID, Fare: 450, SeatsAvailable: 5}

	m.routeRepo.On("GetByID", ctx, routeID).Return(route, nil)
	m.seatCache.On("GetOrSeed", ctx, route).Return(2, nil)
	m.lock.On("TryAcquire", ctx, routeID, 2, userID.String()).Return(false, nil)

	resp, err := svc.Reserve(ctx, reserveRequest(routeID, userID))

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrReservationInProgress)

	m.seatCache.AssertNotCalled(t, "Decrement", mock.Anything, mock.Anything)
	m.bookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReserve_GatewayFailure_Compensates(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	routeID := uuid.New()
	userID := uuid.New()

	route := &domain.BusRoute{ID: routeID, Fare: 450, SeatsAvailable: 5}

	m.routeRepo.On("GetByID", ctx, routeID).Return(route, nil)
	m.seatCache.On("GetOrSeed", ctx, route).Return(2, nil)
	m.lock.On("TryAcquire", ctx, routeID, 2, userID.String()).Return(true, nil)
	m.seatCache.On("Decrement", ctx, routeID).Return(nil)
	m.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	m.gateway.On("Initiate", ctx, userID.String(), mock.AnythingOfType("string"), 450.0).
		Return("", &domain.GatewayError{Op: "initiate", Err: errors.New("connection refused")})

	// Compensation: the soft hold is released and the booking closed.
	m.seatCache.On("Increment", ctx, routeID).Return(nil)
	m.bookingRepo.On("Transition", ctx, mock.AnythingOfType("string"), domain.BookingFailed, "").Return(true, nil)

	resp, err := svc.Reserve(ctx, reserveRequest(routeID, userID))

	assert.Nil(t, resp)

	var gatewayErr *domain.GatewayError
	assert.True(t, errors.As(err, &gatewayErr))
}

func TestReserve_CacheUnavailable_FailsClosed(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	routeID := uuid.New()
	userID := uuid.New()

	route := &domain.BusRoute{ID: routeID, Fare: 450, SeatsAvailable: 5}

	m.routeRepo.On("GetByID", ctx, routeID).Return(route, nil)
	m.seatCache.On("GetOrSeed", ctx, route).Return(0, errors.New("redis: connection refused"))

	resp, err := svc.Reserve(ctx, reserveRequest(routeID, userID))

	assert.Nil(t, resp)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoSeatsAvailable)
}

func TestSettle_Success_ConsumesSeatAndNotifies(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	routeID := uuid.New()
	txn := "TXN_1700000000000_ab12cd34"

	booking := &domain.Booking{
		TransactionID:  txn,
		RouteID:        routeID,
		Status:         domain.BookingPending,
		PassengerEmail: "asha@example.com",
	}
	route := &domain.BusRoute{ID: routeID, Name: "Night Express", SeatsAvailable: 4}

	m.bookingRepo.On("FindByTransactionID", ctx, txn).Return(booking, nil)
	m.bookingRepo.On("Transition", ctx, txn, domain.BookingConfirmed, `{"status":"SUCCESS"}`).Return(true, nil)
	m.routeRepo.On("DecrementSeats", ctx, routeID).Return(nil)
	m.routeRepo.On("GetByID", ctx, routeID).Return(route, nil)
	m.notifier.On("BookingConfirmed", ctx, booking, route).Return(nil)

	resp, err := svc.Settle(ctx, txn, "SUCCESS", `{"status":"SUCCESS"}`)

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, string(domain.BookingConfirmed), resp.Status)
	}
}

func TestSettle_AlreadyTerminal_IsNoOp(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	txn := "TXN_1700000000000_ab12cd34"

	booking := &domain.Booking{
		TransactionID: txn,
		RouteID:       uuid.New(),
		Status:        domain.BookingConfirmed,
	}

	m.bookingRepo.On("FindByTransactionID", ctx, txn).Return(booking, nil)

	resp, err := svc.Settle(ctx, txn, "SUCCESS", `{"status":"SUCCESS"}`)

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, string(domain.BookingConfirmed), resp.Status)
	}

	// No second decrement, no second email.
	m.bookingRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.routeRepo.AssertNotCalled(t, "DecrementSeats", mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "BookingConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettle_ConcurrentLoser_ReturnsRecordedOutcome(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	routeID := uuid.New()
	txn := "TXN_1700000000000_ab12cd34"

	pending := &domain.Booking{TransactionID: txn, RouteID: routeID, Status: domain.BookingPending}
	confirmed := &domain.Booking{TransactionID: txn, RouteID: routeID, Status: domain.BookingConfirmed}

	// Both callers read PENDING; the other one wins the transition.
	m.bookingRepo.On("FindByTransactionID", ctx, txn).Return(pending, nil).Once()
	m.bookingRepo.On("Transition", ctx, txn, domain.BookingConfirmed, "").Return(false, nil)
	m.bookingRepo.On("FindByTransactionID", ctx, txn).Return(confirmed, nil).Once()

	resp, err := svc.Settle(ctx, txn, "SUCCESS", "")

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, string(domain.BookingConfirmed), resp.Status)
	}

	m.routeRepo.AssertNotCalled(t, "DecrementSeats", mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "BookingConfirmed", mock.Anything, mock.Anything, mock.Anything)
}

func TestSettle_Failed_ReleasesSoftHold(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	routeID := uuid.New()
	txn := "TXN_1700000000000_ab12cd34"

	booking := &domain.Booking{TransactionID: txn, RouteID: routeID, Status: domain.BookingPending}

	m.bookingRepo.On("FindByTransactionID", ctx, txn).Return(booking, nil)
	m.bookingRepo.On("Transition", ctx, txn, domain.BookingFailed, `{"status":"FAILURE"}`).Return(true, nil)
	m.seatCache.On("Increment", ctx, routeID).Return(nil)

	resp, err := svc.Settle(ctx, txn, "FAILURE", `{"status":"FAILURE"}`)

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, string(domain.BookingFailed), resp.Status)
	}

	m.routeRepo.AssertNotCalled(t, "DecrementSeats", mock.Anything, mock.Anything)
}

func TestSettle_Poll_PendingVerdict_NoMutation(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	txn := "TXN_1700000000000_ab12cd34"

	booking := &domain.Booking{TransactionID: txn, RouteID: uuid.New(), Status: domain.BookingPending}

	m.bookingRepo.On("FindByTransactionID", ctx, txn).Return(booking, nil)
	m.gateway.On("CheckStatus", ctx, txn).Return(domain.PaymentPending, nil)

	resp, err := svc.Settle(ctx, txn, "", "")

	assert.NoError(t, err)
	if assert.NotNil(t, resp) {
		assert.Equal(t, string(domain.BookingPending), resp.Status)
	}

	m.bookingRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettle_UnknownTransaction(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	txn := "TXN_does_not_exist"

	m.bookingRepo.On("FindByTransactionID", ctx, txn).Return(nil, domain.ErrUnknownTransaction)

	resp, err := svc.Settle(ctx, txn, "SUCCESS", "")

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, domain.ErrUnknownTransaction)
}

func TestSettle_WebhookAndPollConverge(t *testing.T) {
	svc, m := newServiceWithMocks(t)

	ctx := context.Background()
	routeID := uuid.New()
	txn := "TXN_1700000000000_ab12cd34"

	pending := &domain.Booking{TransactionID: txn, RouteID: routeID, Status: domain.BookingPending}
	confirmed := &domain.Booking{TransactionID: txn, RouteID: routeID, Status: domain.BookingConfirmed}
	route := &domain.BusRoute{ID: routeID, SeatsAvailable: 4}

	// First trigger (webhook) wins and performs the one durable mutation.
	m.bookingRepo.On("FindByTransactionID", ctx, txn).Return(pending, nil).Once()
	m.bookingRepo.On("Transition", ctx, txn, domain.BookingConfirmed, `{"status":"SUCCESS"}`).Return(true, nil).Once()
	m.routeRepo.On("DecrementSeats", ctx, routeID).Return(nil).Once()
	m.routeRepo.On("GetByID", ctx, routeID).Return(route, nil).Once()
	m.notifier.On("BookingConfirmed", ctx, pending, route).Return(nil).Once()

	// Second trigger (poll) observes the terminal state and stops early.
	m.bookingRepo.On("FindByTransactionID", ctx, txn).Return(confirmed, nil).Once()

	first, err := svc.Settle(ctx, txn, "SUCCESS", `{"status":"SUCCESS"}`)
	assert.NoError(t, err)

	second, err := svc.Settle(ctx, txn, "", "")
	assert.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	m.gateway.AssertNotCalled(t, "CheckStatus", mock.Anything, mock.Anything)
}
