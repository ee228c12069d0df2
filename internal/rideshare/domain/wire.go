package domain

import (
	"net/url"
	"strconv"
)

// WireSearchParams is the exact query sent to the ride search endpoint. Date is
// left out entirely when empty; the remote API treats its presence as a filter.
type WireSearchParams struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Seats string `json:"seats"`
	Date  string `json:"date,omitempty"`
}

// Values encodes the params as a query string.
func (p WireSearchParams) Values() url.Values {
	v := url.Values{}
	v.Set("from", p.From)
	v.Set("to", p.To)
	v.Set("seats", p.Seats)
	if p.Date != "" {
		v.Set("date", p.Date)
	}
	return v
}

// WirePostBody is the exact body sent when publishing a ride.
type WirePostBody struct {
	CarID          string  `json:"carId"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	Date           string  `json:"date"`
	SeatsAvailable int     `json:"seatsAvailable"`
	PricePerSeat   float64 `json:"pricePerSeat"`
}

// WireBookingBody is the exact body sent when booking a ride.
type WireBookingBody struct {
	RideID      string `json:"rideId"`
	SeatsBooked int    `json:"seatsBooked"`
}

// AuthRequest is a validated login or registration; Credentials is the body.
type AuthRequest struct {
	Mode        AuthMode
	Credentials Credentials
}

// Path is the endpoint the request goes to.
func (r AuthRequest) Path() string {
	return "/auth/" + string(r.Mode)
}

// NewWireSearchParams stringifies the seat count the way the API expects it.
func NewWireSearchParams(from, to, date string, seats int) WireSearchParams {
	return WireSearchParams{From: from, To: to, Seats: strconv.Itoa(seats), Date: date}
}
