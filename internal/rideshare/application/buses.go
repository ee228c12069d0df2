package application

import (
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/reconciler"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
)

type (
	PostRideBus      = pkgApp.CommandBus[pkgDomain.Command[PostRideData], PostRideData]
	BookRideBus      = pkgApp.CommandBus[pkgDomain.Command[BookRideData], BookRideData]
	CancelRideBus    = pkgApp.CommandBus[pkgDomain.Command[CancelRideData], CancelRideData]
	CancelBookingBus = pkgApp.CommandBus[pkgDomain.Command[CancelBookingData], CancelBookingData]
	AddVehicleBus    = pkgApp.CommandBus[pkgDomain.Command[AddVehicleData], AddVehicleData]
	DeleteVehicleBus = pkgApp.CommandBus[pkgDomain.Command[DeleteVehicleData], DeleteVehicleData]

	SearchRidesBus    = pkgApp.QueryBus[pkgDomain.Query[SearchRidesData], SearchRidesData, reconciler.SearchOutcome]
	ListMyRidesBus    = pkgApp.QueryBus[pkgDomain.Query[ListMyRidesData], ListMyRidesData, RideList]
	ListMyBookingsBus = pkgApp.QueryBus[pkgDomain.Query[ListMyBookingsData], ListMyBookingsData, []domain.BookingSummary]
	ListVehiclesBus   = pkgApp.QueryBus[pkgDomain.Query[ListVehiclesData], ListVehiclesData, VehicleList]
	RefreshBus        = pkgApp.QueryBus[pkgDomain.Query[RefreshData], RefreshData, RefreshResult]

	ActivityBus = pkgApp.EventBus[pkgDomain.Event[ActivityData], ActivityData]
)

// Buses groups every bus the slice dispatches on.
type Buses struct {
	PostRide      PostRideBus
	BookRide      BookRideBus
	CancelRide    CancelRideBus
	CancelBooking CancelBookingBus
	AddVehicle    AddVehicleBus
	DeleteVehicle DeleteVehicleBus

	SearchRides    SearchRidesBus
	ListMyRides    ListMyRidesBus
	ListMyBookings ListMyBookingsBus
	ListVehicles   ListVehiclesBus
	Refresh        RefreshBus

	Activity ActivityBus
}
