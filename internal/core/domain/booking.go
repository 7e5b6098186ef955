package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingFailed    BookingStatus = "FAILED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// IsTerminal reports whether the booking can no longer change state.
// PENDING is the only non-terminal status.
func (s BookingStatus) IsTerminal() bool {
	return s != BookingPending
}

type Booking struct {
	ID              uuid.UUID
	TransactionID   string
	UserID          uuid.UUID
	RouteID         uuid.UUID
	Amount          float64
	Status          BookingStatus
	PassengerName   string
	PassengerEmail  string
	PassengerPhone  string
	PaymentResponse string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
