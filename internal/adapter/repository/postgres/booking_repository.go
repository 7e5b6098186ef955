package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/skota27/bus_booking/internal/core/domain"
)

const uniqueViolation = "23505"

type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
	INSERT INTO bookings (id, transaction_id, user_id, route_id, amount, status, passenger_name, passenger_email, passenger_phone, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.TransactionID,
		booking.UserID,
		booking.RouteID,
		booking.Amount,
		booking.Status,
		booking.PassengerName,
		booking.PassengerEmail,
		booking.PassengerPhone,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateTransaction
		}

		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) FindByTransactionID(ctx context.Context, transactionID string) (*domain.Booking, error) {
	query := `
	SELECT id, transaction_id, user_id, route_id, amount, status, passenger_name, passenger_email, passenger_phone, payment_response, created_at, updated_at
	FROM bookings
	WHERE transaction_id = $1
	`

	var booking domain.Booking
	var paymentResponse sql.NullString

	err := r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&booking.ID,
		&booking.TransactionID,
		&booking.UserID,
		&booking.RouteID,
		&booking.Amount,
		&booking.Status,
		&booking.PassengerName,
		&booking.PassengerEmail,
		&booking.PassengerPhone,
		&paymentResponse,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUnknownTransaction
		}

		return nil, err
	}

	if paymentResponse.Valid {
		booking.PaymentResponse = paymentResponse.String
	}

	return &booking, nil
}

// Transition moves a PENDING booking to a terminal status. The status guard
// in the WHERE clause is the idempotence guard: a booking already settled by
// a concurrent caller matches zero rows, and Transition reports false so the
// caller skips side effects.
func (r *BookingRepository) Transition(ctx context.Context, transactionID string, status domain.BookingStatus, providerPayload string) (bool, error) {
	query := `
	UPDATE bookings
	SET status = $1, payment_response = $2, updated_at = $3
	WHERE transaction_id = $4 AND status = 'PENDING'
	`

	var payload sql.NullString
	if providerPayload != "" {
		payload = sql.NullString{String: providerPayload, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query, status, payload, time.Now(), transactionID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *BookingRepository) FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]string, error) {
	query := `
	SELECT transaction_id FROM bookings
	WHERE status = 'PENDING' AND created_at < $1
	LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
