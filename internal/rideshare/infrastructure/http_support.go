package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/fleet"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/reconciler"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/temporal"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
)

// draftPayload is a ride draft as the app sends it: seats and price may come
// as numbers or as the strings typed into the form.
type draftPayload struct {
	From         string     `json:"from"`
	To           string     `json:"to"`
	When         *time.Time `json:"when"`
	Date         string     `json:"date"`
	Seats        seatsField `json:"seats"`
	PricePerSeat priceField `json:"pricePerSeat"`
	CarID        string     `json:"carId"`
}

func (p draftPayload) draft() domain.RidePostDraft {
	draft := domain.NewRidePostDraft().
		WithFrom(p.From).
		WithTo(p.To).
		WithSeats(p.Seats.seats()).
		WithPrice(string(p.PricePerSeat)).
		WithCar(p.CarID)
	if p.When != nil {
		return draft.WithWhen(*p.When, p.Date)
	}
	draft.Date = p.Date
	return draft
}

type draftView struct {
	domain.RidePostDraft
	Display string `json:"display,omitempty"`
}

func newDraftView(draft domain.RidePostDraft) draftView {
	view := draftView{RidePostDraft: draft}
	if draft.When != nil {
		view.Display = temporal.DisplayDateTime(*draft.When)
	}
	return view
}

// seatsField accepts 2 as well as "2". Anything unreadable is zero.
type seatsField struct {
	raw int
}

func (f *seatsField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		f.raw = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.raw, _ = strconv.Atoi(strings.TrimSpace(s))
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// out of range float to int conversion is implementation defined
	switch {
	case n >= math.MaxInt32:
		f.raw = math.MaxInt32
	case n <= math.MinInt32:
		f.raw = math.MinInt32
	default:
		f.raw = int(n)
	}
	return nil
}

// seats is the count the form means: one when nothing sensible was typed.
func (f seatsField) seats() int {
	return fleet.ParseSeats(strconv.Itoa(f.raw))
}

// priceField keeps the price as typed so it can be validated as such.
type priceField string

func (f *priceField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = priceField(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	*f = priceField(data)
	return nil
}

// formPicker answers the date and time pickers from the values the app
// submitted. A missing value is a dismissed picker.
type formPicker struct {
	date     string
	clock    string
	location *time.Location
}

func (p formPicker) Pick(_ context.Context, mode temporal.Mode, initial time.Time) (time.Time, error) {
	switch mode {
	case temporal.ModeDate:
		date := strings.TrimSpace(p.date)
		if date == "" {
			return time.Time{}, temporal.ErrPickCancelled
		}
		t, ok := temporal.ParseDate(date, p.location)
		if !ok {
			return time.Time{}, domain.ErrInvalidDateFormat
		}
		return t, nil
	case temporal.ModeTime:
		if strings.TrimSpace(p.clock) == "" {
			return time.Time{}, temporal.ErrPickCancelled
		}
		t, err := time.ParseInLocation("15:04", strings.TrimSpace(p.clock), p.location)
		if err != nil {
			return time.Time{}, domain.ErrMissingDateTime
		}
		return temporal.Combine(initial, t), nil
	default:
		return time.Time{}, temporal.ErrPickCancelled
	}
}

type actorKey struct{}

func contextWithActor(ctx context.Context, actor domain.Actor) context.Context {
	ctx = context.WithValue(ctx, actorKey{}, actor)
	return domain.ContextWithToken(ctx, actor.Token)
}

func actorFrom(ctx context.Context) domain.Actor {
	actor, _ := ctx.Value(actorKey{}).(domain.Actor)
	return actor
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// writeError maps an error onto a status code and an {"error": "..."} body,
// the same shape the ride-sharing API uses.
func (h *RideShareHTTPHandler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, temporal.ErrPickCancelled):
		err = domain.ErrMissingDateTime
	case errors.Is(err, fleet.ErrVehicleNotFound):
		err = domain.ErrVehicleNotSelected
	}

	var verr *domain.ValidationError
	var remote *domain.RemoteError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": verr.Message,
			"kind":  string(verr.Kind),
			"title": verr.Title,
		})
	case errors.Is(err, reconciler.ErrActionInFlight):
		writeMessage(w, http.StatusConflict, "A previous request is still in progress")
	case errors.Is(err, domain.ErrSessionNotFound):
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
	case errors.As(err, &remote):
		status := http.StatusBadGateway
		if remote.Status >= 400 && remote.Status < 500 {
			status = remote.Status
		}
		writeMessage(w, status, remote.Message)
	case errors.Is(err, context.DeadlineExceeded):
		writeMessage(w, http.StatusGatewayTimeout, "Request timed out")
	default:
		pkgApp.LogError(ctx, h.logger, "unexpected error", err, nil)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	key := "message"
	if status >= 400 {
		key = "error"
	}
	writeJSON(w, status, map[string]string{key: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
