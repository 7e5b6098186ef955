package domain

import (
	"time"

	"github.com/google/uuid"
)

type BusType string

const (
	BusExpress     BusType = "Express"
	BusSuperLuxury BusType = "Super Luxury"
	BusUltraDeluxe BusType = "Ultra Deluxe"
)

type BusRoute struct {
	ID             uuid.UUID
	Name           string
	Origin         string
	Destination    string
	Fare           float64
	SeatsAvailable int
	BusType        BusType
	DepartsAt      time.Time
	CreatedAt      time.Time
}

func (r *BusRoute) HasSeats() bool {
	return r.SeatsAvailable > 0
}
