package composer

import (
	"errors"
	"testing"
	"time"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/fleet"
)

func TestBuildSearchRequestOmitsEmptyDate(t *testing.T) {
	params, err := BuildSearchRequest(domain.RideSearchCriteria{From: "Pune", To: "Mumbai", Date: "", Seats: fleet.ParseSeats("1")})
	if err != nil {
		t.Fatalf("BuildSearchRequest() error = %v", err)
	}
	want := domain.WireSearchParams{From: "Pune", To: "Mumbai", Seats: "1"}
	if params != want {
		t.Fatalf("BuildSearchRequest() = %+v, want %+v", params, want)
	}
	values := params.Values()
	if _, ok := values["date"]; ok {
		t.Fatalf("query carries a date key: %s", values.Encode())
	}
	if got := values.Encode(); got != "from=Pune&seats=1&to=Mumbai" {
		t.Fatalf("query = %q", got)
	}
}

func TestBuildSearchRequestWithDate(t *testing.T) {
	params, err := BuildSearchRequest(domain.RideSearchCriteria{From: "Pune", To: "Mumbai", Date: "2025-06-10", Seats: 3})
	if err != nil {
		t.Fatalf("BuildSearchRequest() error = %v", err)
	}
	if params.Date != "2025-06-10" || params.Seats != "3" {
		t.Fatalf("BuildSearchRequest() = %+v", params)
	}
	if got := params.Values().Get("date"); got != "2025-06-10" {
		t.Fatalf("date param = %q", got)
	}
}

func TestBuildSearchRequestErrors(t *testing.T) {
	tests := []struct {
		name     string
		criteria domain.RideSearchCriteria
		want     error
	}{
		{"missing from", domain.RideSearchCriteria{To: "Mumbai", Seats: 1}, domain.ErrMissingLocation},
		{"blank to", domain.RideSearchCriteria{From: "Pune", To: "  ", Seats: 1}, domain.ErrMissingLocation},
		{"slashed date", domain.RideSearchCriteria{From: "Pune", To: "Mumbai", Date: "2024/1/1", Seats: 1}, domain.ErrInvalidDateFormat},
		{"word date", domain.RideSearchCriteria{From: "Pune", To: "Mumbai", Date: "Jan 1", Seats: 1}, domain.ErrInvalidDateFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildSearchRequest(tt.criteria)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

var swift = domain.Vehicle{ID: "c1", Company: "Maruti", Model: "Swift", PlateNumber: "MH12AB1234", Color: "White", SeatsAvailable: 4}

func validDraft() domain.RidePostDraft {
	when := time.Date(2025, 6, 10, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	return domain.NewRidePostDraft().
		WithFrom("Pune").
		WithTo("Mumbai").
		WithPrice("250").
		WithCar("c1").
		WithSeats(fleet.ParseSeats("2")).
		WithWhen(when, "2025-06-10")
}

func TestBuildPostRequest(t *testing.T) {
	body, err := BuildPostRequest(validDraft(), []domain.Vehicle{swift})
	if err != nil {
		t.Fatalf("BuildPostRequest() error = %v", err)
	}
	want := domain.WirePostBody{
		CarID:          "c1",
		From:           "Pune",
		To:             "Mumbai",
		Date:           "2025-06-10T04:00:00.000Z",
		SeatsAvailable: 2,
		PricePerSeat:   250,
	}
	if body != want {
		t.Fatalf("BuildPostRequest() = %+v, want %+v", body, want)
	}
}

func TestBuildPostRequestDerivesDateFromTimestamp(t *testing.T) {
	draft := validDraft()
	draft.Date = ""
	if _, err := BuildPostRequest(draft, []domain.Vehicle{swift}); err != nil {
		t.Fatalf("BuildPostRequest() error = %v", err)
	}
}

func TestBuildPostRequestValidationOrder(t *testing.T) {
	vehicles := []domain.Vehicle{swift}
	tests := []struct {
		name     string
		draft    func() domain.RidePostDraft
		vehicles []domain.Vehicle
		want     error
	}{
		{
			name:     "missing price beats missing vehicle",
			draft:    func() domain.RidePostDraft { return validDraft().WithPrice("") },
			vehicles: nil,
			want:     domain.ErrMissingFields,
		},
		{
			name:     "no vehicles regardless of other fields",
			draft:    func() domain.RidePostDraft { return validDraft().WithSeats(9).ClearWhen().WithPrice("abc") },
			vehicles: nil,
			want:     domain.ErrNoVehicleAvailable,
		},
		{
			name:     "no car chosen",
			draft:    func() domain.RidePostDraft { return validDraft().WithCar("").ClearWhen() },
			vehicles: vehicles,
			want:     domain.ErrVehicleNotSelected,
		},
		{
			name:     "car no longer registered",
			draft:    func() domain.RidePostDraft { return validDraft().WithCar("c9") },
			vehicles: vehicles,
			want:     domain.ErrVehicleNotSelected,
		},
		{
			name:     "date typed but no time picked",
			draft:    func() domain.RidePostDraft { d := validDraft().ClearWhen(); d.Date = "2025-06-10"; return d },
			vehicles: vehicles,
			want:     domain.ErrMissingDateTime,
		},
		{
			name:     "malformed date",
			draft:    func() domain.RidePostDraft { d := validDraft(); d.Date = "2024/1/1"; return d },
			vehicles: vehicles,
			want:     domain.ErrInvalidDateFormat,
		},
		{
			name:     "price not a number",
			draft:    func() domain.RidePostDraft { return validDraft().WithPrice("cheap") },
			vehicles: vehicles,
			want:     domain.ErrInvalidPrice,
		},
		{
			name:     "price zero",
			draft:    func() domain.RidePostDraft { return validDraft().WithPrice("0") },
			vehicles: vehicles,
			want:     domain.ErrInvalidPrice,
		},
		{
			name:     "price infinite",
			draft:    func() domain.RidePostDraft { return validDraft().WithPrice("Inf") },
			vehicles: vehicles,
			want:     domain.ErrInvalidPrice,
		},
		{
			name:     "five seats in a four seat car",
			draft:    func() domain.RidePostDraft { return validDraft().WithSeats(5) },
			vehicles: vehicles,
			want:     domain.ErrSeatsExceedCapacity,
		},
		{
			name:     "six seats typed",
			draft:    func() domain.RidePostDraft { return validDraft().WithSeats(fleet.ParseSeats("6")) },
			vehicles: vehicles,
			want:     domain.ErrSeatsExceedCapacity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPostRequest(tt.draft(), tt.vehicles)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildBookingRequest(t *testing.T) {
	body, err := BuildBookingRequest(" r1 ")
	if err != nil || body != (domain.WireBookingBody{RideID: "r1", SeatsBooked: 1}) {
		t.Fatalf("BuildBookingRequest() = %+v, %v", body, err)
	}
	if _, err := BuildBookingRequest(""); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("empty ride id error = %v", err)
	}
}

func TestBuildAuthRequest(t *testing.T) {
	login, err := BuildAuthRequest(domain.AuthLogin, domain.Credentials{Email: " a@b.c ", Password: "pw", Name: "ignored"})
	if err != nil {
		t.Fatalf("login error = %v", err)
	}
	if login.Path() != "/auth/login" || login.Credentials.Email != "a@b.c" || login.Credentials.Name != "" {
		t.Fatalf("login request = %+v", login)
	}

	if _, err := BuildAuthRequest(domain.AuthLogin, domain.Credentials{Email: "a@b.c"}); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("missing password error = %v", err)
	}
	if _, err := BuildAuthRequest(domain.AuthRegister, domain.Credentials{Email: "a@b.c", Password: "pw", Name: "Asha"}); !errors.Is(err, domain.ErrMissingProfileFields) {
		t.Fatalf("missing phone error = %v", err)
	}

	reg, err := BuildAuthRequest(domain.AuthRegister, domain.Credentials{Email: "a@b.c", Password: "pw", Name: "Asha", Phone: "999"})
	if err != nil || reg.Path() != "/auth/register" {
		t.Fatalf("register request = %+v, %v", reg, err)
	}
}

func TestBuildVehicleRequest(t *testing.T) {
	input := domain.VehicleInput{Company: "Maruti", Model: "Swift", PlateNumber: "MH12", Color: "White", SeatsAvailable: 4}
	if _, err := BuildVehicleRequest(input); err != nil {
		t.Fatalf("BuildVehicleRequest() error = %v", err)
	}

	noColor := input
	noColor.Color = " "
	if _, err := BuildVehicleRequest(noColor); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("missing color error = %v", err)
	}

	noSeats := input
	noSeats.SeatsAvailable = 0
	if _, err := BuildVehicleRequest(noSeats); !errors.Is(err, domain.ErrInvalidSeats) {
		t.Fatalf("zero seats error = %v", err)
	}
}
