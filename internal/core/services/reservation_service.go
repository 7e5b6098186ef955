package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skota27/bus_booking/internal/core/domain"
	"github.com/skota27/bus_booking/internal/core/ports"
)

type ReserveRequest struct {
	RouteID        string `json:"route_id" validate:"required,uuid"`
	UserID         string `json:"user_id" validate:"required,uuid"`
	PassengerName  string `json:"passenger_name" validate:"required,min=2,max=100"`
	PassengerEmail string `json:"passenger_email" validate:"required,email"`
	PassengerPhone string `json:"passenger_phone" validate:"required,min=7,max=15"`
}

type ReserveResponse struct {
	TransactionID string  `json:"transaction_id"`
	PaymentURL    string  `json:"payment_url"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
}

type SettleResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// ReservationService serializes seat reservation against the soft counter
// and funnels every provider verdict through one idempotent settlement
// entry point. The routes table stays untouched until a booking confirms.
type ReservationService struct {
	routeRepo   ports.RouteRepository
	bookingRepo ports.BookingRepository
	seatCache   ports.SeatCache
	lock        ports.ReservationLock
	gateway     ports.PaymentGateway
	notifier    ports.Notifier
}

func NewReservationService(
	routeRepo ports.RouteRepository,
	bookingRepo ports.BookingRepository,
	seatCache ports.SeatCache,
	lock ports.ReservationLock,
	gateway ports.PaymentGateway,
	notifier ports.Notifier,
) *ReservationService {
	return &ReservationService{
		routeRepo:   routeRepo,
		bookingRepo: bookingRepo,
		seatCache:   seatCache,
		lock:        lock,
		gateway:     gateway,
		notifier:    notifier,
	}
}

func newTransactionID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixMilli(), suffix)
}

func (s *ReservationService) Reserve(ctx context.Context, req ReserveRequest) (*ReserveResponse, error) {
	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return nil, errors.New("invalid route id")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	route, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	remaining, err := s.seatCache.GetOrSeed(ctx, route)
	if err != nil {
		// Fail closed: an unreachable counter must not admit a seat.
		return nil, fmt.Errorf("seat counter unavailable: %w", err)
	}

	if remaining <= 0 {
		return nil, domain.ErrNoSeatsAvailable
	}

	acquired, err := s.lock.TryAcquire(ctx, routeID, remaining, userID.String())
	if err != nil {
		return nil, fmt.Errorf("reservation lock unavailable: %w", err)
	}

	if !acquired {
		return nil, domain.ErrReservationInProgress
	}

	if err := s.seatCache.Decrement(ctx, routeID); err != nil {
		return nil, fmt.Errorf("seat counter unavailable: %w", err)
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:             uuid.New(),
		TransactionID:  newTransactionID(),
		UserID:         userID,
		RouteID:        routeID,
		Amount:         route.Fare,
		Status:         domain.BookingPending,
		PassengerName:  req.PassengerName,
		PassengerEmail: req.PassengerEmail,
		PassengerPhone: req.PassengerPhone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		s.releaseSeat(ctx, routeID, booking.TransactionID)
		return nil, err
	}

	paymentURL, err := s.gateway.Initiate(ctx, userID.String(), booking.TransactionID, booking.Amount)
	if err != nil {
		// No payment session exists, so the seat must not stay held.
		s.releaseSeat(ctx, routeID, booking.TransactionID)
		if _, terr := s.bookingRepo.Transition(ctx, booking.TransactionID, domain.BookingFailed, ""); terr != nil {
			log.Printf("failed to mark booking %s FAILED after gateway error: %v", booking.TransactionID, terr)
		}
		return nil, err
	}

	return &ReserveResponse{
		TransactionID: booking.TransactionID,
		PaymentURL:    paymentURL,
		Amount:        booking.Amount,
		Status:        string(domain.BookingPending),
	}, nil
}

func (s *ReservationService) releaseSeat(ctx context.Context, routeID uuid.UUID, transactionID string) {
	if err := s.seatCache.Increment(ctx, routeID); err != nil {
		log.Printf("failed to restore seat counter for route %s (txn %s): %v", routeID, transactionID, err)
	}
}

// Settle resolves a PENDING booking to a terminal state. It is the single
// entry point for both provider webhooks and status polling and is safe to
// call any number of times per transaction id: the first caller to observe
// a non-terminal state wins, everyone after gets the recorded outcome.
//
// reportedStatus carries the provider's pushed status (webhook); when empty
// the provider is polled instead. providerPayload is persisted verbatim on
// the winning transition.
func (s *ReservationService) Settle(ctx context.Context, transactionID, reportedStatus, providerPayload string) (*SettleResponse, error) {
	booking, err := s.bookingRepo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTransaction) {
			log.Printf("settlement for unknown transaction %s rejected", transactionID)
		}
		return nil, err
	}

	if booking.Status.IsTerminal() {
		return &SettleResponse{TransactionID: transactionID, Status: string(booking.Status)}, nil
	}

	var verdict domain.PaymentVerdict
	if reportedStatus != "" {
		verdict = domain.ClassifyReportedStatus(reportedStatus)
	} else {
		verdict, err = s.gateway.CheckStatus(ctx, transactionID)
		if err != nil {
			return nil, err
		}
	}

	switch verdict {
	case domain.PaymentSuccess:
		return s.confirm(ctx, booking, providerPayload)
	case domain.PaymentPending:
		return &SettleResponse{TransactionID: transactionID, Status: string(domain.BookingPending)}, nil
	default:
		return s.fail(ctx, booking, providerPayload)
	}
}

func (s *ReservationService) confirm(ctx context.Context, booking *domain.Booking, providerPayload string) (*SettleResponse, error) {
	applied, err := s.bookingRepo.Transition(ctx, booking.TransactionID, domain.BookingConfirmed, providerPayload)
	if err != nil {
		return nil, err
	}

	if !applied {
		return s.currentState(ctx, booking.TransactionID)
	}

	// Durable seat consumption happens exactly once, here. The reserve-path
	// cache decrement was only admission control.
	if err := s.routeRepo.DecrementSeats(ctx, booking.RouteID); err != nil {
		log.Printf("CONFIRMED booking %s: failed to decrement seats on route %s: %v", booking.TransactionID, booking.RouteID, err)
	}

	route, err := s.routeRepo.GetByID(ctx, booking.RouteID)
	if err != nil {
		log.Printf("CONFIRMED booking %s: route lookup for notification failed: %v", booking.TransactionID, err)
	} else if err := s.notifier.BookingConfirmed(ctx, booking, route); err != nil {
		log.Printf("CONFIRMED booking %s: confirmation notification failed: %v", booking.TransactionID, err)
	}

	return &SettleResponse{TransactionID: booking.TransactionID, Status: string(domain.BookingConfirmed)}, nil
}

func (s *ReservationService) fail(ctx context.Context, booking *domain.Booking, providerPayload string) (*SettleResponse, error) {
	applied, err := s.bookingRepo.Transition(ctx, booking.TransactionID, domain.BookingFailed, providerPayload)
	if err != nil {
		return nil, err
	}

	if !applied {
		return s.currentState(ctx, booking.TransactionID)
	}

	s.releaseSeat(ctx, booking.RouteID, booking.TransactionID)

	return &SettleResponse{TransactionID: booking.TransactionID, Status: string(domain.BookingFailed)}, nil
}

// currentState covers the losing side of a settlement race: the transition
// applied nothing, so report whatever the winner recorded.
func (s *ReservationService) currentState(ctx context.Context, transactionID string) (*SettleResponse, error) {
	booking, err := s.bookingRepo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	return &SettleResponse{TransactionID: transactionID, Status: string(booking.Status)}, nil
}

func (s *ReservationService) ListRoutes(ctx context.Context) ([]domain.BusRoute, error) {
	return s.routeRepo.List(ctx)
}

// RunSettlementPoller periodically re-drives settlement for bookings stuck
// in PENDING, feeding them through the same idempotent Settle entry point a
// webhook would use.
func (s *ReservationService) RunSettlementPoller(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	log.Println("Settlement poller started: checking stale PENDING bookings every 1 minute...")

	for {
		select {
		case <-ctx.Done():
			log.Println("Settlement poller stopped.")
			return
		case <-ticker.C:
			s.pollStaleBookings(ctx)
		}
	}
}

func (s *ReservationService) pollStaleBookings(ctx context.Context) {
	ids, err := s.bookingRepo.FindStalePending(ctx, 5*time.Minute, 100)
	if err != nil {
		log.Printf("Error fetching stale PENDING bookings: %v", err)
		return
	}

	if len(ids) == 0 {
		return
	}

	log.Printf("Found %d stale PENDING bookings. Polling provider...", len(ids))

	for _, id := range ids {
		resp, err := s.Settle(ctx, id, "", "")
		if err != nil {
			log.Printf("Failed to settle booking %s: %v", id, err)
			continue
		}

		if resp.Status != string(domain.BookingPending) {
			log.Printf("Booking %s settled to %s by poller.", id, resp.Status)
		}
	}
}
