package application

import (
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	pkgDomain "github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
)

const (
	PostRideCommand      = "PostRide"
	BookRideCommand      = "BookRide"
	CancelRideCommand    = "CancelRide"
	CancelBookingCommand = "CancelBooking"
	AddVehicleCommand    = "AddVehicle"
	DeleteVehicleCommand = "DeleteVehicle"
)

// PostRideData carries the draft exactly as the driver left it. It is
// validated against the driver's vehicles as fetched at submission time.
type PostRideData struct {
	Actor domain.Actor
	Draft domain.RidePostDraft
}

type BookRideData struct {
	Actor  domain.Actor
	RideID string
}

type CancelRideData struct {
	Actor  domain.Actor
	RideID string
}

type CancelBookingData struct {
	Actor     domain.Actor
	BookingID string
}

type AddVehicleData struct {
	Actor domain.Actor
	Input domain.VehicleInput
}

type DeleteVehicleData struct {
	Actor     domain.Actor
	VehicleID string
}

// command is shared by every command of the slice; the name routes it on the bus.
type command[T any] struct {
	name string
	data T
}

func (c command[T]) CommandName() string {
	return c.name
}

func (c command[T]) Payload() T {
	return c.data
}

func NewPostRideCommand(data PostRideData) pkgDomain.Command[PostRideData] {
	return command[PostRideData]{name: PostRideCommand, data: data}
}

func NewBookRideCommand(data BookRideData) pkgDomain.Command[BookRideData] {
	return command[BookRideData]{name: BookRideCommand, data: data}
}

func NewCancelRideCommand(data CancelRideData) pkgDomain.Command[CancelRideData] {
	return command[CancelRideData]{name: CancelRideCommand, data: data}
}

func NewCancelBookingCommand(data CancelBookingData) pkgDomain.Command[CancelBookingData] {
	return command[CancelBookingData]{name: CancelBookingCommand, data: data}
}

func NewAddVehicleCommand(data AddVehicleData) pkgDomain.Command[AddVehicleData] {
	return command[AddVehicleData]{name: AddVehicleCommand, data: data}
}

func NewDeleteVehicleCommand(data DeleteVehicleData) pkgDomain.Command[DeleteVehicleData] {
	return command[DeleteVehicleData]{name: DeleteVehicleCommand, data: data}
}
