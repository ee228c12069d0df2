package application

import (
	"context"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/composer"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/reconciler"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
)

type postRideHandler struct {
	base
}

// Handle validates the draft against the vehicles registered right now and
// posts it. A failed vehicle fetch counts as having no vehicle.
func (h *postRideHandler) Handle(ctx context.Context, command pkgDomain.Command[PostRideData]) error {
	if err := h.checkContext(ctx); err != nil {
		return err
	}

	data := command.Payload()
	return h.guarded(ctx, data.Actor, reconciler.ActionPost, h.deps.IDGenerator(), func(ctx context.Context) error {
		vehicles, err := h.deps.Gateway.ListVehicles(ctx)
		if err != nil {
			pkgApp.LogWarn(ctx, h.deps.Logger, "vehicles unavailable while posting", err, map[string]interface{}{"user_id": data.Actor.UserID})
			vehicles = nil
		}

		body, err := composer.BuildPostRequest(data.Draft, vehicles)
		if err != nil {
			return h.invalid(ctx, err, map[string]interface{}{"user_id": data.Actor.UserID})
		}

		rideID, err := h.deps.Gateway.PostRide(ctx, body)
		if err != nil {
			pkgApp.LogError(ctx, h.deps.Logger, "error posting ride", err, map[string]interface{}{"ride": body})
			return err
		}

		pkgApp.LogInfo(ctx, h.deps.Logger, "ride posted", map[string]interface{}{"ride_id": rideID, "user_id": data.Actor.UserID})
		h.publish(ctx, RidePostedEvent, data.Actor, rideID)
		return nil
	})
}

func NewPostRideHandler(deps Dependencies) pkgApp.CommandHandler[pkgDomain.Command[PostRideData], PostRideData] {
	return &postRideHandler{base: newBase(deps)}
}

type bookRideHandler struct {
	base
}

func (h *bookRideHandler) Handle(ctx context.Context, command pkgDomain.Command[BookRideData]) error {
	if err := h.checkContext(ctx); err != nil {
		return err
	}

	data := command.Payload()
	body, err := composer.BuildBookingRequest(data.RideID)
	if err != nil {
		return h.invalid(ctx, err, map[string]interface{}{"user_id": data.Actor.UserID})
	}

	return h.guarded(ctx, data.Actor, reconciler.ActionBook, body.RideID, func(ctx context.Context) error {
		booking, err := h.deps.Gateway.CreateBooking(ctx, body)
		if err != nil {
			pkgApp.LogError(ctx, h.deps.Logger, "error booking ride", err, map[string]interface{}{"ride_id": body.RideID})
			return err
		}

		pkgApp.LogInfo(ctx, h.deps.Logger, "ride booked", map[string]interface{}{"ride_id": body.RideID, "booking_id": booking.ID})
		h.publish(ctx, RideBookedEvent, data.Actor, body.RideID)
		return nil
	})
}

func NewBookRideHandler(deps Dependencies) pkgApp.CommandHandler[pkgDomain.Command[BookRideData], BookRideData] {
	return &bookRideHandler{base: newBase(deps)}
}

type cancelRideHandler struct {
	base
}

func (h *cancelRideHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelRideData]) error {
	if err := h.checkContext(ctx); err != nil {
		return err
	}

	data := command.Payload()
	if data.RideID == "" {
		return h.invalid(ctx, domain.ErrMissingFields, nil)
	}

	return h.guarded(ctx, data.Actor, reconciler.ActionCancelRide, data.RideID, func(ctx context.Context) error {
		if err := h.deps.Gateway.CancelRide(ctx, data.RideID); err != nil {
			pkgApp.LogError(ctx, h.deps.Logger, "error cancelling ride", err, map[string]interface{}{"ride_id": data.RideID})
			return err
		}
		h.publish(ctx, RideCancelledEvent, data.Actor, data.RideID)
		return nil
	})
}

func NewCancelRideHandler(deps Dependencies) pkgApp.CommandHandler[pkgDomain.Command[CancelRideData], CancelRideData] {
	return &cancelRideHandler{base: newBase(deps)}
}

type cancelBookingHandler struct {
	base
}

func (h *cancelBookingHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelBookingData]) error {
	if err := h.checkContext(ctx); err != nil {
		return err
	}

	data := command.Payload()
	if data.BookingID == "" {
		return h.invalid(ctx, domain.ErrMissingFields, nil)
	}

	return h.guarded(ctx, data.Actor, reconciler.ActionCancelBooking, data.BookingID, func(ctx context.Context) error {
		if err := h.deps.Gateway.CancelBooking(ctx, data.BookingID); err != nil {
			pkgApp.LogError(ctx, h.deps.Logger, "error cancelling booking", err, map[string]interface{}{"booking_id": data.BookingID})
			return err
		}
		h.publish(ctx, BookingCancelledEvent, data.Actor, data.BookingID)
		return nil
	})
}

func NewCancelBookingHandler(deps Dependencies) pkgApp.CommandHandler[pkgDomain.Command[CancelBookingData], CancelBookingData] {
	return &cancelBookingHandler{base: newBase(deps)}
}

type addVehicleHandler struct {
	base
}

func (h *addVehicleHandler) Handle(ctx context.Context, command pkgDomain.Command[AddVehicleData]) error {
	if err := h.checkContext(ctx); err != nil {
		return err
	}

	data := command.Payload()
	input, err := composer.BuildVehicleRequest(data.Input)
	if err != nil {
		return h.invalid(ctx, err, map[string]interface{}{"user_id": data.Actor.UserID})
	}

	return h.guarded(ctx, data.Actor, reconciler.ActionAddVehicle, h.deps.IDGenerator(), func(ctx context.Context) error {
		vehicle, err := h.deps.Gateway.AddVehicle(ctx, input)
		if err != nil {
			pkgApp.LogError(ctx, h.deps.Logger, "error adding vehicle", err, map[string]interface{}{"plate_number": input.PlateNumber})
			return err
		}
		h.publish(ctx, VehicleAddedEvent, data.Actor, vehicle.ID)
		return nil
	})
}

func NewAddVehicleHandler(deps Dependencies) pkgApp.CommandHandler[pkgDomain.Command[AddVehicleData], AddVehicleData] {
	return &addVehicleHandler{base: newBase(deps)}
}

type deleteVehicleHandler struct {
	base
}

func (h *deleteVehicleHandler) Handle(ctx context.Context, command pkgDomain.Command[DeleteVehicleData]) error {
	if err := h.checkContext(ctx); err != nil {
		return err
	}

	data := command.Payload()
	if data.VehicleID == "" {
		return h.invalid(ctx, domain.ErrMissingFields, nil)
	}

	return h.guarded(ctx, data.Actor, reconciler.ActionDeleteVehicle, data.VehicleID, func(ctx context.Context) error {
		if err := h.deps.Gateway.DeleteVehicle(ctx, data.VehicleID); err != nil {
			pkgApp.LogError(ctx, h.deps.Logger, "error deleting vehicle", err, map[string]interface{}{"vehicle_id": data.VehicleID})
			return err
		}
		h.publish(ctx, VehicleDeletedEvent, data.Actor, data.VehicleID)
		return nil
	})
}

func NewDeleteVehicleHandler(deps Dependencies) pkgApp.CommandHandler[pkgDomain.Command[DeleteVehicleData], DeleteVehicleData] {
	return &deleteVehicleHandler{base: newBase(deps)}
}
