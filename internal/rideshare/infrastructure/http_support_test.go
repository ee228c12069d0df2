package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/application"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/composer"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/fleet"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/reconciler"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/temporal"
)

func TestWriteErrorStatus(t *testing.T) {
	h := NewRideShareHTTPHandler(application.Buses{}, nil, nil, HTTPOptions{})

	tests := []struct {
		name     string
		err      error
		status   int
		wantKind string
		wantMsg  string
	}{
		{name: "validation", err: domain.ErrInvalidPrice, status: http.StatusUnprocessableEntity, wantKind: "invalid_price", wantMsg: domain.ErrInvalidPrice.Message},
		{name: "capacity", err: domain.NewSeatsExceedCapacity(4), status: http.StatusUnprocessableEntity, wantKind: "seats_exceed_capacity", wantMsg: "Seats cannot exceed car seats (4)."},
		{name: "dismissed picker", err: fmt.Errorf("pick time: %w", temporal.ErrPickCancelled), status: http.StatusUnprocessableEntity, wantKind: "missing_date_time"},
		{name: "vanished vehicle", err: fleet.ErrVehicleNotFound, status: http.StatusUnprocessableEntity, wantKind: "vehicle_not_selected"},
		{name: "in flight", err: reconciler.ErrActionInFlight, status: http.StatusConflict},
		{name: "no session", err: domain.ErrSessionNotFound, status: http.StatusUnauthorized},
		{name: "remote client error", err: &domain.RemoteError{Op: "book", Status: 400, Message: "Ride is full"}, status: http.StatusBadRequest, wantMsg: "Ride is full"},
		{name: "remote server error", err: &domain.RemoteError{Op: "book", Status: 500, Message: "Failed to book ride"}, status: http.StatusBadGateway, wantMsg: "Failed to book ride"},
		{name: "deadline", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeError(context.Background(), rec, tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] == "" {
				t.Fatalf("body has no error message: %v", body)
			}
			if tt.wantKind != "" && body["kind"] != tt.wantKind {
				t.Fatalf("kind = %q, want %q", body["kind"], tt.wantKind)
			}
			if tt.wantMsg != "" && body["error"] != tt.wantMsg {
				t.Fatalf("error = %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestDraftPayloadAcceptsFormValues(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSeats int
		wantPrice string
	}{
		{name: "numbers", body: `{"seats":3,"pricePerSeat":250.5}`, wantSeats: 3, wantPrice: "250.5"},
		{name: "strings", body: `{"seats":"2","pricePerSeat":"300"}`, wantSeats: 2, wantPrice: "300"},
		{name: "garbage seats", body: `{"seats":"two","pricePerSeat":"abc"}`, wantSeats: 1, wantPrice: "abc"},
		{name: "nulls", body: `{"seats":null,"pricePerSeat":null}`, wantSeats: 1, wantPrice: ""},
		{name: "fraction", body: `{"seats":2.7,"pricePerSeat":100}`, wantSeats: 2, wantPrice: "100"},
		{name: "huge number", body: `{"seats":1e20,"pricePerSeat":100}`, wantSeats: math.MaxInt32, wantPrice: "100"},
		{name: "huge negative", body: `{"seats":-1e20,"pricePerSeat":100}`, wantSeats: 1, wantPrice: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload draftPayload
			if err := json.Unmarshal([]byte(tt.body), &payload); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			draft := payload.draft()
			if draft.Seats != tt.wantSeats {
				t.Fatalf("seats = %d, want %d", draft.Seats, tt.wantSeats)
			}
			if draft.PricePerSeat != tt.wantPrice {
				t.Fatalf("price = %q, want %q", draft.PricePerSeat, tt.wantPrice)
			}
		})
	}
}

func TestHugeSeatCountExceedsCapacity(t *testing.T) {
	body := `{"from":"Pune","to":"Mumbai","when":"2030-06-10T04:00:00Z","date":"2030-06-10","seats":1e20,"pricePerSeat":250,"carId":"c1"}`
	var payload draftPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	_, err := composer.BuildPostRequest(payload.draft(), []domain.Vehicle{{ID: "c1", SeatsAvailable: 4}})
	if !errors.Is(err, domain.ErrSeatsExceedCapacity) {
		t.Fatalf("BuildPostRequest() error = %v, want SeatsExceedCapacity", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer  abc ": "abc",
		"Basic abc":    "",
		"":             "",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		if got := bearerToken(r); got != want {
			t.Fatalf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestFormPicker(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	initial := time.Date(2025, 6, 1, 8, 15, 0, 0, ist)

	when, err := temporal.PickDateTime(context.Background(), formPicker{date: "2025-06-10", clock: "09:30", location: ist}, initial)
	if err != nil {
		t.Fatalf("PickDateTime() error = %v", err)
	}
	if !when.Equal(time.Date(2025, 6, 10, 9, 30, 0, 0, ist)) {
		t.Fatalf("when = %v", when)
	}

	_, err = temporal.PickDateTime(context.Background(), formPicker{date: "2025-06-10", location: ist}, initial)
	if !errors.Is(err, temporal.ErrPickCancelled) {
		t.Fatalf("date without time: error = %v, want ErrPickCancelled", err)
	}

	_, err = temporal.PickDateTime(context.Background(), formPicker{date: "2025-02-30", clock: "09:30", location: ist}, initial)
	if !errors.Is(err, domain.ErrInvalidDateFormat) {
		t.Fatalf("impossible date: error = %v", err)
	}
}
