package domain

import "time"

// RideSearchCriteria is what a passenger filters rides by. Date is optional and,
// when set, must be a canonical YYYY-MM-DD string.
type RideSearchCriteria struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Date  string `json:"date,omitempty"`
	Seats int    `json:"seats"`
}

// HasLocation reports whether either end of the route was filled in.
func (c RideSearchCriteria) HasLocation() bool {
	return c.From != "" || c.To != ""
}

// RidePostDraft is a ride being composed by a driver. It is a value: every
// With* method returns an updated copy and leaves the receiver untouched.
//
// Date mirrors When as a canonical date string; it is what the form displays
// and what gets format-checked before submission.
type RidePostDraft struct {
	From         string     `json:"from"`
	To           string     `json:"to"`
	When         *time.Time `json:"when,omitempty"`
	Date         string     `json:"date,omitempty"`
	Seats        int        `json:"seats"`
	PricePerSeat string     `json:"pricePerSeat"`
	CarID        string     `json:"carId,omitempty"`
}

// NewRidePostDraft returns the empty draft a form starts from.
func NewRidePostDraft() RidePostDraft {
	return RidePostDraft{Seats: 1}
}

func (d RidePostDraft) WithFrom(from string) RidePostDraft {
	d.From = from
	return d
}

func (d RidePostDraft) WithTo(to string) RidePostDraft {
	d.To = to
	return d
}

func (d RidePostDraft) WithPrice(price string) RidePostDraft {
	d.PricePerSeat = price
	return d
}

func (d RidePostDraft) WithSeats(seats int) RidePostDraft {
	d.Seats = seats
	return d
}

func (d RidePostDraft) WithCar(carID string) RidePostDraft {
	d.CarID = carID
	return d
}

// WithWhen commits a resolved timestamp together with its display date.
func (d RidePostDraft) WithWhen(when time.Time, date string) RidePostDraft {
	w := when
	d.When = &w
	d.Date = date
	return d
}

// ClearWhen drops both the timestamp and its display date.
func (d RidePostDraft) ClearWhen() RidePostDraft {
	d.When = nil
	d.Date = ""
	return d
}
