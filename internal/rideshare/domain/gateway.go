package domain

import "context"

// Gateway is the remote ride-sharing API. Every call is made on behalf of the
// user whose bearer token travels in ctx. Failures are *RemoteError.
type Gateway interface {
	SearchRides(ctx context.Context, params WireSearchParams) ([]RideSummary, error)
	PostRide(ctx context.Context, body WirePostBody) (string, error)
	ListMyRides(ctx context.Context) ([]RideSummary, error)
	CancelRide(ctx context.Context, rideID string) error

	ListVehicles(ctx context.Context) ([]Vehicle, error)
	AddVehicle(ctx context.Context, input VehicleInput) (Vehicle, error)
	DeleteVehicle(ctx context.Context, vehicleID string) error

	CreateBooking(ctx context.Context, body WireBookingBody) (BookingSummary, error)
	ListMyBookings(ctx context.Context) ([]BookingSummary, error)
	CancelBooking(ctx context.Context, bookingID string) error

	Authenticate(ctx context.Context, req AuthRequest) (AuthResult, error)
	CurrentUser(ctx context.Context) (User, error)
}
