package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/skota27/bus_booking/internal/core/domain"
)

type RouteRepository struct {
	db *sql.DB
}

func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

func (r *RouteRepository) GetByID(ctx context.Context, routeID uuid.UUID) (*domain.BusRoute, error) {
	query := `
	SELECT id, name, origin, destination, fare, seats_available, bus_type, departs_at, created_at
	FROM bus_routes
	WHERE id = $1
	`

	var route domain.BusRoute

	err := r.db.QueryRowContext(ctx, query, routeID).Scan(
		&route.ID,
		&route.Name,
		&route.Origin,
		&route.Destination,
		&route.Fare,
		&route.SeatsAvailable,
		&route.BusType,
		&route.DepartsAt,
		&route.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrRouteNotFound
		}

		return nil, err
	}

	return &route, nil
}

func (r *RouteRepository) List(ctx context.Context) ([]domain.BusRoute, error) {
	query := `
	SELECT id, name, origin, destination, fare, seats_available, bus_type, departs_at, created_at
	FROM bus_routes
	ORDER BY departs_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var routes []domain.BusRoute
	for rows.Next() {
		var route domain.BusRoute
		if err := rows.Scan(
			&route.ID,
			&route.Name,
			&route.Origin,
			&route.Destination,
			&route.Fare,
			&route.SeatsAvailable,
			&route.BusType,
			&route.DepartsAt,
			&route.CreatedAt,
		); err != nil {
			return nil, err
		}

		routes = append(routes, route)
	}

	return routes, rows.Err()
}

// DecrementSeats consumes one durable seat. The seats_available guard keeps
// the count from ever going negative, whatever the cache believed.
func (r *RouteRepository) DecrementSeats(ctx context.Context, routeID uuid.UUID) error {
	query := `
	UPDATE bus_routes
	SET seats_available = seats_available - 1
	WHERE id = $1 AND seats_available > 0
	`

	result, err := r.db.ExecContext(ctx, query, routeID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return errors.New("no seats left to consume on route")
	}

	return nil
}
