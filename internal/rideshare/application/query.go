package application

import (
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/reconciler"
	pkgDomain "github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
)

const (
	SearchRidesQuery    = "SearchRides"
	ListMyRidesQuery    = "ListMyRides"
	ListMyBookingsQuery = "ListMyBookings"
	ListVehiclesQuery   = "ListVehicles"
	RefreshQuery        = "Refresh"
)

type SearchRidesData struct {
	Actor    domain.Actor
	Criteria domain.RideSearchCriteria
}

// ListMyRidesData asks for the driver's rides. Recent narrows the list to the
// latest upcoming ones shown under the posting form.
type ListMyRidesData struct {
	Actor  domain.Actor
	Recent bool
}

type ListMyBookingsData struct {
	Actor domain.Actor
}

type ListVehiclesData struct {
	Actor domain.Actor
}

// RefreshData re-fetches whatever the given view shows. Criteria is the
// search form as it currently stands and only matters for the search view.
type RefreshData struct {
	Actor    domain.Actor
	View     domain.Tab
	Criteria domain.RideSearchCriteria
}

type RideList struct {
	Rides  []domain.RideSummary `json:"rides"`
	Notice string               `json:"notice,omitempty"`
}

type VehicleList struct {
	Vehicles []domain.Vehicle `json:"vehicles"`
	Notice   string           `json:"notice,omitempty"`
}

// RefreshResult holds the lists a refresh re-fetched; the others stay nil.
// Ran is false when the refresh was skipped.
type RefreshResult struct {
	Ran      bool                      `json:"ran"`
	Search   *reconciler.SearchOutcome `json:"search,omitempty"`
	Recent   []domain.RideSummary      `json:"recent,omitempty"`
	Rides    []domain.RideSummary      `json:"rides,omitempty"`
	Bookings []domain.BookingSummary   `json:"bookings,omitempty"`
	Vehicles *VehicleList              `json:"vehicles,omitempty"`
}

type query[T any] struct {
	name string
	data T
}

func (q query[T]) QueryName() string {
	return q.name
}

func (q query[T]) Payload() T {
	return q.data
}

func NewSearchRidesQuery(data SearchRidesData) pkgDomain.Query[SearchRidesData] {
	return query[SearchRidesData]{name: SearchRidesQuery, data: data}
}

func NewListMyRidesQuery(data ListMyRidesData) pkgDomain.Query[ListMyRidesData] {
	return query[ListMyRidesData]{name: ListMyRidesQuery, data: data}
}

func NewListMyBookingsQuery(data ListMyBookingsData) pkgDomain.Query[ListMyBookingsData] {
	return query[ListMyBookingsData]{name: ListMyBookingsQuery, data: data}
}

func NewListVehiclesQuery(data ListVehiclesData) pkgDomain.Query[ListVehiclesData] {
	return query[ListVehiclesData]{name: ListVehiclesQuery, data: data}
}

func NewRefreshQuery(data RefreshData) pkgDomain.Query[RefreshData] {
	return query[RefreshData]{name: RefreshQuery, data: data}
}
