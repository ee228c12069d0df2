package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/application"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/fleet"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/reconciler"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/temporal"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
)

const defaultRequestTimeout = 20 * time.Second

// RideShareHTTPHandler is the surface the mobile app talks to. Everything
// but sign-in requires a bearer token of an open session.
type RideShareHTTPHandler struct {
	buses          application.Buses
	auth           *application.AuthService
	logger         pkgApp.AppLogger
	location       *time.Location
	now            func() time.Time
	requestTimeout time.Duration
}

type HTTPOptions struct {
	Location       *time.Location
	RequestTimeout time.Duration
	Now            func() time.Time
}

func NewRideShareHTTPHandler(buses application.Buses, auth *application.AuthService, logger pkgApp.AppLogger, opts HTTPOptions) *RideShareHTTPHandler {
	h := &RideShareHTTPHandler{
		buses:          buses,
		auth:           auth,
		logger:         logger,
		location:       opts.Location,
		now:            opts.Now,
		requestTimeout: opts.RequestTimeout,
	}
	if h.logger == nil {
		h.logger = pkgApp.NopLogger{}
	}
	if h.location == nil {
		h.location = time.UTC
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.requestTimeout <= 0 {
		h.requestTimeout = defaultRequestTimeout
	}
	return h
}

func (h *RideShareHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/{mode}", h.HandleAuthenticate)
	router.Get("/auth/me", h.HandleCurrentUser)

	router.Group(func(r chi.Router) {
		r.Use(h.requireSession)

		r.Post("/auth/logout", h.HandleLogout)
		r.Get("/session/tab", h.HandleGetTab)
		r.Put("/session/tab", h.HandleSetTab)

		r.Get("/rides/search", h.HandleSearchRides)
		r.Post("/rides", h.HandlePostRide)
		r.Post("/rides/draft/vehicle", h.HandleSelectVehicle)
		r.Post("/rides/draft/when", h.HandlePickWhen)
		r.Get("/rides/mine", h.HandleMyRides)
		r.Get("/rides/recent", h.HandleRecentRides)
		r.Delete("/rides/{rideID}", h.HandleCancelRide)

		r.Post("/bookings", h.HandleBookRide)
		r.Get("/bookings/mine", h.HandleMyBookings)
		r.Delete("/bookings/{bookingID}", h.HandleCancelBooking)

		r.Get("/cars", h.HandleListVehicles)
		r.Post("/cars", h.HandleAddVehicle)
		r.Delete("/cars/{carID}", h.HandleDeleteVehicle)

		r.Post("/refresh", h.HandleRefresh)
	})
}

func (h *RideShareHTTPHandler) HandleSearchRides(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := domain.RideSearchCriteria{
		From:  q.Get("from"),
		To:    q.Get("to"),
		Date:  q.Get("date"),
		Seats: fleet.ParseSeats(q.Get("seats")),
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	outcome, err := h.buses.SearchRides.Dispatch(ctx, application.NewSearchRidesQuery(application.SearchRidesData{
		Actor:    actorFrom(ctx),
		Criteria: criteria,
	}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *RideShareHTTPHandler) HandlePostRide(w http.ResponseWriter, r *http.Request) {
	var payload draftPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	actor := actorFrom(ctx)
	err := h.buses.PostRide.Dispatch(ctx, application.NewPostRideCommand(application.PostRideData{
		Actor: actor,
		Draft: payload.draft(),
	}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	recent, err := h.buses.ListMyRides.Dispatch(ctx, application.NewListMyRidesQuery(application.ListMyRidesData{Actor: actor, Recent: true}))
	if err != nil {
		recent = application.RideList{Rides: []domain.RideSummary{}}
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Ride posted successfully!",
		"draft":   newDraftView(domain.NewRidePostDraft()),
		"recent":  recent.Rides,
	})
}

// HandleSelectVehicle applies a vehicle choice to a draft and clamps its
// seats to the vehicle. A selection that no longer exists is cleared.
func (h *RideShareHTTPHandler) HandleSelectVehicle(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Draft draftPayload `json:"draft"`
		CarID string       `json:"carId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	list, err := h.buses.ListVehicles.Dispatch(ctx, application.NewListVehiclesQuery(application.ListVehiclesData{Actor: actorFrom(ctx)}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	draft := fleet.ReconcileSelection(payload.Draft.draft(), list.Vehicles)
	if payload.CarID != "" {
		if draft, err = fleet.ApplySelection(draft, list.Vehicles, payload.CarID); err != nil {
			h.writeError(ctx, w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draft":    newDraftView(draft),
		"vehicles": list.Vehicles,
		"notice":   list.Notice,
	})
}

// HandlePickWhen resolves the picked date and time into the draft's
// timestamp. Both parts are required; a date alone never becomes one.
func (h *RideShareHTTPHandler) HandlePickWhen(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Draft draftPayload `json:"draft"`
		Date  string       `json:"date"`
		Time  string       `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx := r.Context()
	draft := payload.Draft.draft()
	initial := temporal.InitialPick(draft.When, draft.Date, h.now().In(h.location), h.location)
	picker := formPicker{date: payload.Date, clock: payload.Time, location: h.location}

	when, err := temporal.PickDateTime(ctx, picker, initial)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	draft = draft.WithWhen(when, temporal.CanonicalDate(when))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"draft":   newDraftView(draft),
		"display": temporal.DisplayDateTime(when),
	})
}

func (h *RideShareHTTPHandler) HandleMyRides(w http.ResponseWriter, r *http.Request) {
	h.listMyRides(w, r, false)
}

func (h *RideShareHTTPHandler) HandleRecentRides(w http.ResponseWriter, r *http.Request) {
	h.listMyRides(w, r, true)
}

func (h *RideShareHTTPHandler) listMyRides(w http.ResponseWriter, r *http.Request, recent bool) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	list, err := h.buses.ListMyRides.Dispatch(ctx, application.NewListMyRidesQuery(application.ListMyRidesData{
		Actor:  actorFrom(ctx),
		Recent: recent,
	}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *RideShareHTTPHandler) HandleCancelRide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	err := h.buses.CancelRide.Dispatch(ctx, application.NewCancelRideCommand(application.CancelRideData{
		Actor:  actorFrom(ctx),
		RideID: chi.URLParam(r, "rideID"),
	}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Ride cancelled")
}

// HandleBookRide books a ride. When the app sends the criteria of the search
// the ride came from, the search is run again so the seat counts shown are
// current.
func (h *RideShareHTTPHandler) HandleBookRide(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RideID string     `json:"rideId"`
		From   string     `json:"from"`
		To     string     `json:"to"`
		Date   string     `json:"date"`
		Seats  seatsField `json:"seats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	actor := actorFrom(ctx)
	err := h.buses.BookRide.Dispatch(ctx, application.NewBookRideCommand(application.BookRideData{
		Actor:  actor,
		RideID: payload.RideID,
	}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	body := map[string]interface{}{"message": "Ride booked successfully!"}
	criteria := domain.RideSearchCriteria{From: payload.From, To: payload.To, Date: payload.Date, Seats: payload.Seats.seats()}
	if criteria.HasLocation() {
		outcome, err := h.buses.SearchRides.Dispatch(ctx, application.NewSearchRidesQuery(application.SearchRidesData{
			Actor:    actor,
			Criteria: criteria,
		}))
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			body["search"] = reconciler.SearchOutcome{Rides: []domain.RideSummary{}, Notice: verr.Message}
		case err != nil:
			pkgApp.LogWarn(ctx, h.logger, "search after booking failed", err, map[string]interface{}{"ride_id": payload.RideID})
		default:
			body["search"] = outcome
		}
	}
	writeJSON(w, http.StatusCreated, body)
}

func (h *RideShareHTTPHandler) HandleMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	bookings, err := h.buses.ListMyBookings.Dispatch(ctx, application.NewListMyBookingsQuery(application.ListMyBookingsData{Actor: actorFrom(ctx)}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func (h *RideShareHTTPHandler) HandleCancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	err := h.buses.CancelBooking.Dispatch(ctx, application.NewCancelBookingCommand(application.CancelBookingData{
		Actor:     actorFrom(ctx),
		BookingID: chi.URLParam(r, "bookingID"),
	}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Booking cancelled")
}

func (h *RideShareHTTPHandler) HandleListVehicles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	list, err := h.buses.ListVehicles.Dispatch(ctx, application.NewListVehiclesQuery(application.ListVehiclesData{Actor: actorFrom(ctx)}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *RideShareHTTPHandler) HandleAddVehicle(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Company        string     `json:"company"`
		Model          string     `json:"model"`
		PlateNumber    string     `json:"carNumber"`
		Color          string     `json:"color"`
		SeatsAvailable seatsField `json:"seatsAvailable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	actor := actorFrom(ctx)
	err := h.buses.AddVehicle.Dispatch(ctx, application.NewAddVehicleCommand(application.AddVehicleData{
		Actor: actor,
		Input: domain.VehicleInput{
			Company:        payload.Company,
			Model:          payload.Model,
			PlateNumber:    payload.PlateNumber,
			Color:          payload.Color,
			SeatsAvailable: payload.SeatsAvailable.raw,
		},
	}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	list, err := h.buses.ListVehicles.Dispatch(ctx, application.NewListVehiclesQuery(application.ListVehiclesData{Actor: actor}))
	if err != nil {
		pkgApp.LogWarn(ctx, h.logger, "vehicle list after add failed", err, nil)
		list = application.VehicleList{Vehicles: []domain.Vehicle{}}
	}
	writeJSON(w, http.StatusCreated, list)
}

func (h *RideShareHTTPHandler) HandleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()

	err := h.buses.DeleteVehicle.Dispatch(ctx, application.NewDeleteVehicleCommand(application.DeleteVehicleData{
		Actor:     actorFrom(ctx),
		VehicleID: chi.URLParam(r, "carID"),
	}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Car deleted")
}

func (h *RideShareHTTPHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		View  domain.Tab `json:"view"`
		From  string     `json:"from"`
		To    string     `json:"to"`
		Date  string     `json:"date"`
		Seats seatsField `json:"seats"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()

	result, err := h.buses.Refresh.Dispatch(ctx, application.NewRefreshQuery(application.RefreshData{
		Actor: actorFrom(ctx),
		View:  payload.View,
		Criteria: domain.RideSearchCriteria{
			From:  payload.From,
			To:    payload.To,
			Date:  payload.Date,
			Seats: payload.Seats.seats(),
		},
	}))
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *RideShareHTTPHandler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.requestTimeout)
}
