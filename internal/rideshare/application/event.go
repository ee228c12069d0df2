package application

import (
	"time"

	pkgDomain "github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
)

const (
	RidePostedEvent       = "RidePosted"
	RideBookedEvent       = "RideBooked"
	RideCancelledEvent    = "RideCancelled"
	BookingCancelledEvent = "BookingCancelled"
	VehicleAddedEvent     = "VehicleAdded"
	VehicleDeletedEvent   = "VehicleDeleted"
)

// ActivityEvents lists every event the slice publishes.
var ActivityEvents = []string{
	RidePostedEvent,
	RideBookedEvent,
	RideCancelledEvent,
	BookingCancelledEvent,
	VehicleAddedEvent,
	VehicleDeletedEvent,
}

// ActivityData records a write the remote API accepted.
type ActivityData struct {
	Action     string    `json:"action"`
	UserID     string    `json:"userId"`
	SubjectID  string    `json:"subjectId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type activityEvent struct {
	data ActivityData
}

func (e activityEvent) EventName() string {
	return e.data.Action
}

func (e activityEvent) Payload() ActivityData {
	return e.data
}

func NewActivityEvent(action, userID, subjectID string, at time.Time) pkgDomain.Event[ActivityData] {
	return activityEvent{data: ActivityData{
		Action:     action,
		UserID:     userID,
		SubjectID:  subjectID,
		OccurredAt: at.UTC(),
	}}
}
