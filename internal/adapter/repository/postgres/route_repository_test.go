package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/skota27/bus_booking/internal/core/domain"
)

func TestGetByID_RouteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRouteRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM bus_routes").WillReturnError(sql.ErrNoRows)

	route, err := repo.GetByID(context.Background(), uuid.New())

	assert.Nil(t, route)
	assert.ErrorIs(t, err, domain.ErrRouteNotFound)
}

func TestGetByID_ReturnsRoute(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRouteRepository(db)

	routeID := uuid.New()
	departsAt := time.Now().Add(24 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"id", "name", "origin", "destination", "fare", "seats_available", "bus_type", "departs_at", "created_at",
	}).AddRow(routeID.String(), "Night Express", "Hyderabad", "Vijayawada", 450.0, 12, "Express", departsAt, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM bus_routes").WithArgs(routeID).WillReturnRows(rows)

	route, err := repo.GetByID(context.Background(), routeID)

	assert.NoError(t, err)
	if assert.NotNil(t, route) {
		assert.Equal(t, 12, route.SeatsAvailable)
		assert.Equal(t, 450.0, route.Fare)
		assert.True(t, route.HasSeats())
	}
}

func TestDecrementSeats_ConsumesOneSeat(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRouteRepository(db)

	mock.ExpectExec("UPDATE bus_routes").WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.DecrementSeats(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementSeats_NeverGoesNegative(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewRouteRepository(db)

	// seats_available > 0 guard matched nothing.
	mock.ExpectExec("UPDATE bus_routes").WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DecrementSeats(context.Background(), uuid.New())

	assert.Error(t, err)
}
