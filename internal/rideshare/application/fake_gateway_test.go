package application

import (
	"context"
	"sync"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
)

// fakeGateway answers from canned data. Hooks, when set, replace the canned
// answer of their call.
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	rides    []domain.RideSummary
	myRides  []domain.RideSummary
	vehicles []domain.Vehicle
	bookings []domain.BookingSummary
	user     domain.User
	err      map[string]error

	posted   []domain.WirePostBody
	booked   []domain.WireBookingBody
	searched []domain.WireSearchParams

	onCreateBooking func(ctx context.Context, body domain.WireBookingBody) (domain.BookingSummary, error)
	onSearch        func(ctx context.Context, params domain.WireSearchParams) ([]domain.RideSummary, error)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: map[string]int{}, err: map[string]error{}}
}

func (g *fakeGateway) record(op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[op]++
	return g.err[op]
}

func (g *fakeGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) SearchRides(ctx context.Context, params domain.WireSearchParams) ([]domain.RideSummary, error) {
	err := g.record("SearchRides")
	g.mu.Lock()
	g.searched = append(g.searched, params)
	g.mu.Unlock()
	if g.onSearch != nil {
		return g.onSearch(ctx, params)
	}
	if err != nil {
		return nil, err
	}
	return g.rides, nil
}

func (g *fakeGateway) PostRide(_ context.Context, body domain.WirePostBody) (string, error) {
	if err := g.record("PostRide"); err != nil {
		return "", err
	}
	g.mu.Lock()
	g.posted = append(g.posted, body)
	g.mu.Unlock()
	return "ride-1", nil
}

func (g *fakeGateway) ListMyRides(context.Context) ([]domain.RideSummary, error) {
	if err := g.record("ListMyRides"); err != nil {
		return nil, err
	}
	return g.myRides, nil
}

func (g *fakeGateway) CancelRide(context.Context, string) error {
	return g.record("CancelRide")
}

func (g *fakeGateway) ListVehicles(context.Context) ([]domain.Vehicle, error) {
	if err := g.record("ListVehicles"); err != nil {
		return nil, err
	}
	return g.vehicles, nil
}

func (g *fakeGateway) AddVehicle(_ context.Context, input domain.VehicleInput) (domain.Vehicle, error) {
	if err := g.record("AddVehicle"); err != nil {
		return domain.Vehicle{}, err
	}
	return domain.Vehicle{
		ID:             "car-new",
		Company:        input.Company,
		Model:          input.Model,
		PlateNumber:    input.PlateNumber,
		Color:          input.Color,
		SeatsAvailable: input.SeatsAvailable,
	}, nil
}

func (g *fakeGateway) DeleteVehicle(context.Context, string) error {
	return g.record("DeleteVehicle")
}

func (g *fakeGateway) CreateBooking(ctx context.Context, body domain.WireBookingBody) (domain.BookingSummary, error) {
	err := g.record("CreateBooking")
	g.mu.Lock()
	g.booked = append(g.booked, body)
	g.mu.Unlock()
	if g.onCreateBooking != nil {
		return g.onCreateBooking(ctx, body)
	}
	if err != nil {
		return domain.BookingSummary{}, err
	}
	return domain.BookingSummary{ID: "booking-1", SeatsBooked: body.SeatsBooked, Status: domain.BookingConfirmed}, nil
}

func (g *fakeGateway) ListMyBookings(context.Context) ([]domain.BookingSummary, error) {
	if err := g.record("ListMyBookings"); err != nil {
		return nil, err
	}
	return g.bookings, nil
}

func (g *fakeGateway) CancelBooking(context.Context, string) error {
	return g.record("CancelBooking")
}

func (g *fakeGateway) Authenticate(_ context.Context, req domain.AuthRequest) (domain.AuthResult, error) {
	if err := g.record("Authenticate"); err != nil {
		return domain.AuthResult{}, err
	}
	user := g.user
	if user.Email == "" {
		user.Email = req.Credentials.Email
	}
	return domain.AuthResult{User: user, Token: "token-" + user.ID}, nil
}

func (g *fakeGateway) CurrentUser(ctx context.Context) (domain.User, error) {
	if err := g.record("CurrentUser"); err != nil {
		return domain.User{}, err
	}
	if domain.TokenFromContext(ctx) == "" {
		return domain.User{}, &domain.RemoteError{Op: "current user", Status: 401, Message: "missing token"}
	}
	return g.user, nil
}
