package composer

import (
	"strings"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
)

// BuildBookingRequest books a single seat, which is all the app offers.
func BuildBookingRequest(rideID string) (domain.WireBookingBody, error) {
	rideID = strings.TrimSpace(rideID)
	if rideID == "" {
		return domain.WireBookingBody{}, domain.ErrMissingFields
	}
	return domain.WireBookingBody{RideID: rideID, SeatsBooked: 1}, nil
}

// BuildAuthRequest checks credentials for a login or a registration.
// Registration additionally needs a name and a phone number.
func BuildAuthRequest(mode domain.AuthMode, creds domain.Credentials) (domain.AuthRequest, error) {
	if !mode.Valid() {
		mode = domain.AuthLogin
	}
	creds.Email = strings.TrimSpace(creds.Email)
	creds.Name = strings.TrimSpace(creds.Name)
	creds.Phone = strings.TrimSpace(creds.Phone)

	if creds.Email == "" || creds.Password == "" {
		return domain.AuthRequest{}, domain.ErrMissingCredentials
	}
	if mode == domain.AuthRegister {
		if creds.Name == "" || creds.Phone == "" {
			return domain.AuthRequest{}, domain.ErrMissingProfileFields
		}
	} else {
		creds.Name, creds.Phone = "", ""
	}
	return domain.AuthRequest{Mode: mode, Credentials: creds}, nil
}

func BuildVehicleRequest(input domain.VehicleInput) (domain.VehicleInput, error) {
	input.Company = strings.TrimSpace(input.Company)
	input.Model = strings.TrimSpace(input.Model)
	input.PlateNumber = strings.TrimSpace(input.PlateNumber)
	input.Color = strings.TrimSpace(input.Color)

	if input.Company == "" || input.Model == "" || input.PlateNumber == "" || input.Color == "" {
		return domain.VehicleInput{}, domain.ErrMissingFields
	}
	if input.SeatsAvailable <= 0 {
		return domain.VehicleInput{}, domain.ErrInvalidSeats
	}
	return input, nil
}
