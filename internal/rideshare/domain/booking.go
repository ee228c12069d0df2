package domain

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type BookingSummary struct {
	ID          string        `json:"_id"`
	Ride        RideSummary   `json:"ride"`
	SeatsBooked int           `json:"seatsBooked"`
	TotalPrice  float64       `json:"totalPrice"`
	Status      BookingStatus `json:"status"`
}

// Cancellable reports whether the passenger may still cancel the booking.
func (b BookingSummary) Cancellable() bool {
	return b.Status == BookingConfirmed
}
