// Package composer turns what the user typed into the exact requests the
// remote API accepts. Every check runs before any network call; a failure is
// always a *domain.ValidationError.
package composer

import (
	"strings"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/temporal"
)

// BuildSearchRequest validates search criteria and encodes them. A seat count
// below one searches for one seat.
func BuildSearchRequest(criteria domain.RideSearchCriteria) (domain.WireSearchParams, error) {
	from := strings.TrimSpace(criteria.From)
	to := strings.TrimSpace(criteria.To)
	if from == "" || to == "" {
		return domain.WireSearchParams{}, domain.ErrMissingLocation
	}

	date := strings.TrimSpace(criteria.Date)
	if !temporal.ValidateDateString(date) {
		return domain.WireSearchParams{}, domain.ErrInvalidDateFormat
	}

	return domain.NewWireSearchParams(from, to, date, max(criteria.Seats, 1)), nil
}
