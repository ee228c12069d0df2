// Package reconciler turns what the remote API returns into what the app
// shows, and makes sure no write is ever sent twice at the same time.
package reconciler

import (
	"sort"
	"time"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
)

const (
	NoRidesFoundNotice = "No rides found matching your criteria"
	DefaultRecentLimit = 5
)

// SearchOutcome is a search result ready for display. Notice is set when the
// user should be told something, such as nothing matching.
type SearchOutcome struct {
	Rides  []domain.RideSummary `json:"rides"`
	Notice string               `json:"notice,omitempty"`
}

// MergeSearchResults passes the rides through. An empty result is not an
// error; it only sets the notice.
func MergeSearchResults(rides []domain.RideSummary) SearchOutcome {
	if len(rides) == 0 {
		return SearchOutcome{Rides: []domain.RideSummary{}, Notice: NoRidesFoundNotice}
	}
	return SearchOutcome{Rides: rides}
}

// FilterUpcoming keeps rides that are not cancelled and start strictly after
// now. Rides with a missing or malformed timestamp are dropped.
func FilterUpcoming(rides []domain.RideSummary, now time.Time) []domain.RideSummary {
	out := make([]domain.RideSummary, 0, len(rides))
	for _, ride := range rides {
		if ride.Status == domain.RideCancelled {
			continue
		}
		when, ok := ride.WhenUTC()
		if !ok || !when.After(now) {
			continue
		}
		out = append(out, ride)
	}
	return out
}

// SortByWhenDescending returns a copy ordered newest first. Equal timestamps
// keep their input order and unparseable ones go last.
func SortByWhenDescending(rides []domain.RideSummary) []domain.RideSummary {
	type keyed struct {
		ride domain.RideSummary
		when time.Time
		ok   bool
	}
	items := make([]keyed, len(rides))
	for i, ride := range rides {
		when, ok := ride.WhenUTC()
		items[i] = keyed{ride: ride, when: when, ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].when.After(items[j].when)
	})

	out := make([]domain.RideSummary, len(items))
	for i, item := range items {
		out[i] = item.ride
	}
	return out
}

// RecentPosted picks the driver's latest rides: the newest limit rides by
// departure, of which only those still upcoming are shown. A non-positive
// limit uses DefaultRecentLimit.
func RecentPosted(rides []domain.RideSummary, now time.Time, limit int) []domain.RideSummary {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	sorted := SortByWhenDescending(rides)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return FilterUpcoming(sorted, now)
}
