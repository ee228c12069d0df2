package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationKind names a locally detected problem with user input.
type ValidationKind string

const (
	MissingLocation      ValidationKind = "missing_location"
	InvalidDateFormat    ValidationKind = "invalid_date_format"
	MissingFields        ValidationKind = "missing_fields"
	NoVehicleAvailable   ValidationKind = "no_vehicle_available"
	VehicleNotSelected   ValidationKind = "vehicle_not_selected"
	MissingDateTime      ValidationKind = "missing_date_time"
	InvalidPrice         ValidationKind = "invalid_price"
	SeatsExceedCapacity  ValidationKind = "seats_exceed_capacity"
	MissingCredentials   ValidationKind = "missing_credentials"
	MissingProfileFields ValidationKind = "missing_profile_fields"
	InvalidSeats         ValidationKind = "invalid_seats"
	InvalidTab           ValidationKind = "invalid_tab"
)

// ValidationError is always produced before any network call. Title and
// Message are meant to be shown to the user as they are.
type ValidationError struct {
	Kind    ValidationKind
	Title   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is matches on Kind so that errors.Is(err, ErrSeatsExceedCapacity) holds for
// any capacity.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissingLocation      = &ValidationError{Kind: MissingLocation, Title: "Error", Message: "Please enter from and to locations"}
	ErrInvalidDateFormat    = &ValidationError{Kind: InvalidDateFormat, Title: "Error", Message: "Date must be in YYYY-MM-DD format"}
	ErrMissingFields        = &ValidationError{Kind: MissingFields, Title: "Error", Message: "Please fill all fields"}
	ErrNoVehicleAvailable   = &ValidationError{Kind: NoVehicleAvailable, Title: "Add a car first", Message: "You must add a car in Profile before posting a ride."}
	ErrVehicleNotSelected   = &ValidationError{Kind: VehicleNotSelected, Title: "Select Car", Message: "Please select a car to post this ride."}
	ErrMissingDateTime      = &ValidationError{Kind: MissingDateTime, Title: "Error", Message: "Please select date & time"}
	ErrInvalidPrice         = &ValidationError{Kind: InvalidPrice, Title: "Error", Message: "Enter a valid price"}
	ErrSeatsExceedCapacity  = &ValidationError{Kind: SeatsExceedCapacity, Title: "Error", Message: "Seats cannot exceed car seats."}
	ErrMissingCredentials   = &ValidationError{Kind: MissingCredentials, Title: "Error", Message: "Email and password are required"}
	ErrMissingProfileFields = &ValidationError{Kind: MissingProfileFields, Title: "Error", Message: "All fields are required"}
	ErrInvalidSeats         = &ValidationError{Kind: InvalidSeats, Title: "Error", Message: "Seats must be a positive number"}
	ErrInvalidTab           = &ValidationError{Kind: InvalidTab, Title: "Error", Message: "Unknown tab"}
)

// NewSeatsExceedCapacity reports the vehicle's capacity in the message.
func NewSeatsExceedCapacity(capacity int) *ValidationError {
	return &ValidationError{
		Kind:    SeatsExceedCapacity,
		Title:   "Error",
		Message: fmt.Sprintf("Seats cannot exceed car seats (%d).", capacity),
	}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// RemoteError is any failure of a call to the remote API: transport error or
// non-2xx answer. Message is the server's message when it sent one, otherwise a
// per-operation fallback.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether the server rejected the credentials or token.
func (e *RemoteError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

var ErrSessionNotFound = errors.New("session not found")
