package domain

import (
	"strings"
	"time"
)

// RideStatus is the lifecycle state the remote API reports for a ride.
type RideStatus string

const (
	RideUpcoming  RideStatus = "upcoming"
	RideCancelled RideStatus = "cancelled"
	RideCompleted RideStatus = "completed"
)

// Valid reports whether status is one of the known ride statuses.
func (status RideStatus) Valid() bool {
	switch status {
	case RideUpcoming, RideCancelled, RideCompleted:
		return true
	default:
		return false
	}
}

type Driver struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// VehicleRef is the vehicle as embedded in a ride listing.
type VehicleRef struct {
	ID          string `json:"_id,omitempty"`
	Company     string `json:"company"`
	Model       string `json:"model"`
	Color       string `json:"color"`
	PlateNumber string `json:"carNumber"`
}

// RideSummary is a ride as returned by the remote API. When is kept as the raw
// string the server sent; use WhenUTC to read it.
type RideSummary struct {
	ID             string      `json:"_id"`
	From           string      `json:"from"`
	To             string      `json:"to"`
	When           string      `json:"date"`
	SeatsAvailable int         `json:"seatsAvailable"`
	TotalSeats     int         `json:"totalSeats,omitempty"`
	PricePerSeat   float64     `json:"pricePerSeat"`
	Driver         Driver      `json:"driver"`
	Vehicle        *VehicleRef `json:"car,omitempty"`
	Status         RideStatus  `json:"status"`
}

// WhenUTC parses When. ok is false for empty or malformed timestamps.
func (r RideSummary) WhenUTC() (t time.Time, ok bool) {
	raw := strings.TrimSpace(r.When)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// Cancellable reports whether the owner may still cancel the ride.
func (r RideSummary) Cancellable() bool {
	return r.Status == RideUpcoming
}
