package composer

import (
	"math"
	"strconv"
	"strings"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/fleet"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/temporal"
)

// wireTimestampLayout is ISO-8601 in UTC with millisecond precision, the form
// the remote API stores and echoes back.
const wireTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// BuildPostRequest validates a ride draft against the driver's vehicles and
// encodes it. Checks run in a fixed order and the first failure is returned:
// missing fields, no vehicle registered, no vehicle selected, no resolved
// date and time, malformed date, bad price, and finally seat capacity.
func BuildPostRequest(draft domain.RidePostDraft, vehicles []domain.Vehicle) (domain.WirePostBody, error) {
	from := strings.TrimSpace(draft.From)
	to := strings.TrimSpace(draft.To)
	rawPrice := strings.TrimSpace(draft.PricePerSeat)
	if from == "" || to == "" || rawPrice == "" {
		return domain.WirePostBody{}, domain.ErrMissingFields
	}

	if len(vehicles) == 0 {
		return domain.WirePostBody{}, domain.ErrNoVehicleAvailable
	}

	vehicle, err := fleet.SelectVehicle(vehicles, draft.CarID)
	if err != nil {
		return domain.WirePostBody{}, domain.ErrVehicleNotSelected
	}

	if draft.When == nil {
		return domain.WirePostBody{}, domain.ErrMissingDateTime
	}

	date := strings.TrimSpace(draft.Date)
	if date == "" {
		date = temporal.CanonicalDate(*draft.When)
	}
	if !temporal.ValidateDateString(date) {
		return domain.WirePostBody{}, domain.ErrInvalidDateFormat
	}

	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return domain.WirePostBody{}, domain.ErrInvalidPrice
	}

	seats := max(draft.Seats, 1)
	if err := fleet.ValidatePosting(seats, vehicle); err != nil {
		return domain.WirePostBody{}, err
	}

	return domain.WirePostBody{
		CarID:          vehicle.ID,
		From:           from,
		To:             to,
		Date:           draft.When.UTC().Format(wireTimestampLayout),
		SeatsAvailable: seats,
		PricePerSeat:   price,
	}, nil
}
