// Package rideshare wires the ride-sharing slice: handlers onto buses, and
// buses onto HTTP routes.
package rideshare

import (
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/application"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/infrastructure"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
)

type RideShareSlice struct {
	httpHandler *infrastructure.RideShareHTTPHandler
}

// NewRideShareSlice registers every handler of the slice on buses. Activity
// events are published on buses.Activity.
func NewRideShareSlice(
	buses application.Buses,
	deps application.Dependencies,
	auth *application.AuthService,
	logger pkgApp.AppLogger,
	opts infrastructure.HTTPOptions,
) *RideShareSlice {
	deps.Events = buses.Activity
	deps.Logger = logger

	buses.PostRide.RegisterHandler(application.PostRideCommand, application.NewPostRideHandler(deps))
	buses.BookRide.RegisterHandler(application.BookRideCommand, application.NewBookRideHandler(deps))
	buses.CancelRide.RegisterHandler(application.CancelRideCommand, application.NewCancelRideHandler(deps))
	buses.CancelBooking.RegisterHandler(application.CancelBookingCommand, application.NewCancelBookingHandler(deps))
	buses.AddVehicle.RegisterHandler(application.AddVehicleCommand, application.NewAddVehicleHandler(deps))
	buses.DeleteVehicle.RegisterHandler(application.DeleteVehicleCommand, application.NewDeleteVehicleHandler(deps))

	buses.SearchRides.RegisterHandler(application.SearchRidesQuery, application.NewSearchRidesHandler(deps))
	buses.ListMyRides.RegisterHandler(application.ListMyRidesQuery, application.NewListMyRidesHandler(deps))
	buses.ListMyBookings.RegisterHandler(application.ListMyBookingsQuery, application.NewListMyBookingsHandler(deps))
	buses.ListVehicles.RegisterHandler(application.ListVehiclesQuery, application.NewListVehiclesHandler(deps))
	buses.Refresh.RegisterHandler(application.RefreshQuery, application.NewRefreshHandler(deps))

	activityHandler := application.NewActivityEventHandler(logger)
	for _, name := range application.ActivityEvents {
		buses.Activity.RegisterHandler(name, activityHandler)
	}

	return &RideShareSlice{
		httpHandler: infrastructure.NewRideShareHTTPHandler(buses, auth, logger, opts),
	}
}

func (s *RideShareSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
