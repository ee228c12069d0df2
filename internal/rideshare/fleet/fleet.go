// Package fleet keeps the seat count of a ride consistent with the vehicle it
// is posted with.
package fleet

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

// SelectVehicle finds the vehicle with the given id.
func SelectVehicle(vehicles []domain.Vehicle, id string) (domain.Vehicle, error) {
	if id == "" {
		return domain.Vehicle{}, ErrVehicleNotFound
	}
	for _, v := range vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return domain.Vehicle{}, ErrVehicleNotFound
}

// Capacity is the number of seats a vehicle can offer. A vehicle that reports
// none offers none, so every posting on it fails ValidatePosting.
func Capacity(vehicle domain.Vehicle) int {
	return max(vehicle.SeatsAvailable, 0)
}

// ClampSeats bounds requested to [1, capacity].
func ClampSeats(requested int, vehicle domain.Vehicle) int {
	seats := min(requested, Capacity(vehicle))
	return max(seats, 1)
}

// ValidatePosting rejects a seat count the vehicle cannot carry.
func ValidatePosting(seats int, vehicle domain.Vehicle) error {
	if capacity := Capacity(vehicle); seats > capacity {
		return domain.NewSeatsExceedCapacity(capacity)
	}
	return nil
}

// ParseSeats reads a seat count from a form field. Anything that is not a
// positive integer counts as one seat.
func ParseSeats(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// ApplySelection selects a vehicle and clamps the draft's seats to it in one
// step, so the draft never holds a seat count its vehicle cannot carry.
func ApplySelection(draft domain.RidePostDraft, vehicles []domain.Vehicle, id string) (domain.RidePostDraft, error) {
	vehicle, err := SelectVehicle(vehicles, id)
	if err != nil {
		return draft, err
	}
	return draft.WithCar(vehicle.ID).WithSeats(ClampSeats(draft.Seats, vehicle)), nil
}

// ReconcileSelection drops a selected vehicle that is no longer registered.
func ReconcileSelection(draft domain.RidePostDraft, vehicles []domain.Vehicle) domain.RidePostDraft {
	if draft.CarID == "" {
		return draft
	}
	if _, err := SelectVehicle(vehicles, draft.CarID); err != nil {
		return draft.WithCar("")
	}
	return draft
}
