package application

import (
	"context"
	"errors"

	"github.com/mateusmacedo/go-rideshare-bff/internal/observability"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/composer"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/reconciler"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
)

const (
	searchFailedNotice   = "Failed to search rides"
	vehiclesFailedNotice = "Failed to fetch cars"
)

type searchRidesHandler struct {
	base
}

// Handle rejects bad criteria, but a failing API only empties the result and
// explains why in the notice.
func (h *searchRidesHandler) Handle(ctx context.Context, query pkgDomain.Query[SearchRidesData]) (reconciler.SearchOutcome, error) {
	if err := h.checkContext(ctx); err != nil {
		return reconciler.SearchOutcome{}, err
	}

	data := query.Payload()
	params, err := composer.BuildSearchRequest(data.Criteria)
	if err != nil {
		return reconciler.SearchOutcome{}, h.invalid(ctx, err, map[string]interface{}{"criteria": data.Criteria})
	}

	var outcome reconciler.SearchOutcome
	err = h.guarded(ctx, data.Actor, reconciler.ActionSearch, h.deps.IDGenerator(), func(ctx context.Context) error {
		rides, err := h.deps.Gateway.SearchRides(ctx, params)
		if err != nil {
			pkgApp.LogWarn(ctx, h.deps.Logger, "ride search failed", err, map[string]interface{}{"params": params})
			outcome = reconciler.SearchOutcome{Rides: []domain.RideSummary{}, Notice: remoteMessage(err, searchFailedNotice)}
			return nil
		}
		outcome = reconciler.MergeSearchResults(rides)
		return nil
	})
	if err != nil {
		return reconciler.SearchOutcome{}, err
	}

	pkgApp.LogDebug(ctx, h.deps.Logger, "rides found", map[string]interface{}{"count": len(outcome.Rides)})
	return outcome, nil
}

func NewSearchRidesHandler(deps Dependencies) pkgApp.QueryHandler[pkgDomain.Query[SearchRidesData], SearchRidesData, reconciler.SearchOutcome] {
	return &searchRidesHandler{base: newBase(deps)}
}

type listMyRidesHandler struct {
	base
}

// Handle returns every ride the driver posted, or only the recent upcoming
// ones. The recent list is secondary to the posting form, so a failure there
// yields an empty list rather than an error.
func (h *listMyRidesHandler) Handle(ctx context.Context, query pkgDomain.Query[ListMyRidesData]) (RideList, error) {
	if err := h.checkContext(ctx); err != nil {
		return RideList{}, err
	}

	data := query.Payload()
	rides, err := h.deps.Gateway.ListMyRides(ctx)
	if data.Recent {
		if err != nil {
			pkgApp.LogWarn(ctx, h.deps.Logger, "recent rides unavailable", err, map[string]interface{}{"user_id": data.Actor.UserID})
			return RideList{Rides: []domain.RideSummary{}}, nil
		}
		return RideList{Rides: reconciler.RecentPosted(rides, h.deps.Now(), h.deps.RecentLimit)}, nil
	}

	if err != nil {
		pkgApp.LogError(ctx, h.deps.Logger, "error listing rides", err, map[string]interface{}{"user_id": data.Actor.UserID})
		return RideList{}, err
	}
	if rides == nil {
		rides = []domain.RideSummary{}
	}
	return RideList{Rides: rides}, nil
}

func NewListMyRidesHandler(deps Dependencies) pkgApp.QueryHandler[pkgDomain.Query[ListMyRidesData], ListMyRidesData, RideList] {
	return &listMyRidesHandler{base: newBase(deps)}
}

type listMyBookingsHandler struct {
	base
}

func (h *listMyBookingsHandler) Handle(ctx context.Context, query pkgDomain.Query[ListMyBookingsData]) ([]domain.BookingSummary, error) {
	if err := h.checkContext(ctx); err != nil {
		return nil, err
	}

	data := query.Payload()
	bookings, err := h.deps.Gateway.ListMyBookings(ctx)
	if err != nil {
		pkgApp.LogError(ctx, h.deps.Logger, "error listing bookings", err, map[string]interface{}{"user_id": data.Actor.UserID})
		return nil, err
	}
	if bookings == nil {
		bookings = []domain.BookingSummary{}
	}
	return bookings, nil
}

func NewListMyBookingsHandler(deps Dependencies) pkgApp.QueryHandler[pkgDomain.Query[ListMyBookingsData], ListMyBookingsData, []domain.BookingSummary] {
	return &listMyBookingsHandler{base: newBase(deps)}
}

type listVehiclesHandler struct {
	base
}

func (h *listVehiclesHandler) Handle(ctx context.Context, query pkgDomain.Query[ListVehiclesData]) (VehicleList, error) {
	if err := h.checkContext(ctx); err != nil {
		return VehicleList{}, err
	}

	data := query.Payload()
	vehicles, err := h.deps.Gateway.ListVehicles(ctx)
	if err != nil {
		pkgApp.LogWarn(ctx, h.deps.Logger, "vehicles unavailable", err, map[string]interface{}{"user_id": data.Actor.UserID})
		return VehicleList{Vehicles: []domain.Vehicle{}, Notice: remoteMessage(err, vehiclesFailedNotice)}, nil
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	return VehicleList{Vehicles: vehicles}, nil
}

func NewListVehiclesHandler(deps Dependencies) pkgApp.QueryHandler[pkgDomain.Query[ListVehiclesData], ListVehiclesData, VehicleList] {
	return &listVehiclesHandler{base: newBase(deps)}
}

type refreshHandler struct {
	base
	search   pkgApp.QueryHandler[pkgDomain.Query[SearchRidesData], SearchRidesData, reconciler.SearchOutcome]
	myRides  pkgApp.QueryHandler[pkgDomain.Query[ListMyRidesData], ListMyRidesData, RideList]
	bookings pkgApp.QueryHandler[pkgDomain.Query[ListMyBookingsData], ListMyBookingsData, []domain.BookingSummary]
	vehicles pkgApp.QueryHandler[pkgDomain.Query[ListVehiclesData], ListVehiclesData, VehicleList]
}

// Handle re-fetches the lists of one view. A refresh is skipped while another
// refresh of the same view is running, and a search view refresh also while a
// search is running. Pending writes never block it.
func (h *refreshHandler) Handle(ctx context.Context, query pkgDomain.Query[RefreshData]) (RefreshResult, error) {
	if err := h.checkContext(ctx); err != nil {
		return RefreshResult{}, err
	}

	data := query.Payload()
	view := data.View
	if view == "" {
		view = domain.TabSearch
	}
	if !view.Valid() {
		return RefreshResult{}, h.invalid(ctx, domain.ErrInvalidTab, map[string]interface{}{"view": view})
	}

	if view == domain.TabSearch {
		if _, searching := h.deps.Guards.Pending(data.Actor.Token, reconciler.ActionSearch); searching {
			observability.RefreshesSkippedTotal.Inc()
			return RefreshResult{}, nil
		}
	}

	var result RefreshResult
	ran, err := h.deps.Guards.TryRefresh(ctx, refreshKey(data.Actor.Token, view), func(ctx context.Context) error {
		return h.refresh(ctx, data.Actor, view, data.Criteria, &result)
	})
	if !ran {
		observability.RefreshesSkippedTotal.Inc()
		return RefreshResult{}, nil
	}
	if err != nil {
		return RefreshResult{}, err
	}
	result.Ran = true
	return result, nil
}

func refreshKey(token string, view domain.Tab) string {
	return "refresh:" + token + ":" + string(view)
}

func (h *refreshHandler) refresh(ctx context.Context, actor domain.Actor, view domain.Tab, criteria domain.RideSearchCriteria, result *RefreshResult) error {
	switch view {
	case domain.TabSearch:
		if criteria.HasLocation() {
			outcome, err := h.search.Handle(ctx, NewSearchRidesQuery(SearchRidesData{Actor: actor, Criteria: criteria}))
			var verr *domain.ValidationError
			switch {
			case errors.As(err, &verr):
				outcome = reconciler.SearchOutcome{Rides: []domain.RideSummary{}, Notice: verr.Message}
			case err != nil:
				return err
			}
			result.Search = &outcome
		}
		recent, err := h.myRides.Handle(ctx, NewListMyRidesQuery(ListMyRidesData{Actor: actor, Recent: true}))
		if err != nil {
			return err
		}
		result.Recent = recent.Rides
	case domain.TabRides:
		rides, err := h.myRides.Handle(ctx, NewListMyRidesQuery(ListMyRidesData{Actor: actor}))
		if err != nil {
			return err
		}
		result.Rides = rides.Rides
	case domain.TabBookings:
		bookings, err := h.bookings.Handle(ctx, NewListMyBookingsQuery(ListMyBookingsData{Actor: actor}))
		if err != nil {
			return err
		}
		result.Bookings = bookings
	case domain.TabProfile:
		vehicles, err := h.vehicles.Handle(ctx, NewListVehiclesQuery(ListVehiclesData{Actor: actor}))
		if err != nil {
			return err
		}
		result.Vehicles = &vehicles
	}
	return nil
}

func NewRefreshHandler(deps Dependencies) pkgApp.QueryHandler[pkgDomain.Query[RefreshData], RefreshData, RefreshResult] {
	b := newBase(deps)
	return &refreshHandler{
		base:     b,
		search:   NewSearchRidesHandler(b.deps),
		myRides:  NewListMyRidesHandler(b.deps),
		bookings: NewListMyBookingsHandler(b.deps),
		vehicles: NewListVehiclesHandler(b.deps),
	}
}
