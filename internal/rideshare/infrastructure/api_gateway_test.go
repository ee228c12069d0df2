package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *APIGateway {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewAPIGateway(ts.URL+"/api/", 2*time.Second, nil)
}

func TestAPIGatewaySearchRidesSendsQueryAndToken(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[{"_id":"r1","from":"Pune","to":"Mumbai","date":"2025-06-10T04:00:00.000Z","seatsAvailable":3,"pricePerSeat":250,"driver":{"name":"Asha","rating":4.8},"status":"upcoming"}]`))
	})

	ctx := domain.ContextWithToken(context.Background(), "tok")
	rides, err := gw.SearchRides(ctx, domain.NewWireSearchParams("Pune", "Mumbai", "", 1))
	if err != nil {
		t.Fatalf("SearchRides() error = %v", err)
	}
	if gotPath != "/api/rides/search" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if _, ok := gotQuery["date"]; ok {
		t.Fatalf("query carries a date key: %v", gotQuery)
	}
	if gotQuery["seats"][0] != "1" || gotQuery["from"][0] != "Pune" {
		t.Fatalf("query = %v", gotQuery)
	}
	if len(rides) != 1 || rides[0].Driver.Name != "Asha" || rides[0].Status != domain.RideUpcoming {
		t.Fatalf("rides = %+v", rides)
	}
}

func TestAPIGatewayPostRide(t *testing.T) {
	var got domain.WirePostBody
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/rides" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Ride posted","ride":{"_id":"r42"}}`))
	})

	body := domain.WirePostBody{CarID: "c1", From: "Pune", To: "Mumbai", Date: "2025-06-10T04:00:00.000Z", SeatsAvailable: 2, PricePerSeat: 250}
	id, err := gw.PostRide(context.Background(), body)
	if err != nil {
		t.Fatalf("PostRide() error = %v", err)
	}
	if id != "r42" {
		t.Fatalf("ride id = %q", id)
	}
	if got != body {
		t.Fatalf("body sent = %+v, want %+v", got, body)
	}
}

func TestAPIGatewayAddVehicleBareObject(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"c7","company":"Tata","model":"Nexon","carNumber":"MH12","color":"Blue","seatsAvailable":4}`))
	})

	v, err := gw.AddVehicle(context.Background(), domain.VehicleInput{Company: "Tata", Model: "Nexon", PlateNumber: "MH12", Color: "Blue", SeatsAvailable: 4})
	if err != nil {
		t.Fatalf("AddVehicle() error = %v", err)
	}
	if v.ID != "c7" || v.PlateNumber != "MH12" {
		t.Fatalf("vehicle = %+v", v)
	}
}

func TestAPIGatewayUsesServerErrorMessage(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Not enough seats available"}`))
	})

	_, err := gw.CreateBooking(context.Background(), domain.WireBookingBody{RideID: "r1", SeatsBooked: 1})
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v, want *domain.RemoteError", err)
	}
	if remote.Status != http.StatusBadRequest || remote.Message != "Not enough seats available" {
		t.Fatalf("remote error = %+v", remote)
	}
}

func TestAPIGatewayFallsBackToOperationMessage(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := gw.CancelBooking(context.Background(), "b1")
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v, want *domain.RemoteError", err)
	}
	if remote.Message != "Failed to cancel booking" || remote.Status != http.StatusInternalServerError {
		t.Fatalf("remote error = %+v", remote)
	}
}

func TestAPIGatewayUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	gw := NewAPIGateway(ts.URL, time.Second, nil)

	err := gw.CancelRide(context.Background(), "r1")
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error = %v, want *domain.RemoteError", err)
	}
	if remote.Status != 0 || remote.Message != "Failed to cancel ride" || remote.Err == nil {
		t.Fatalf("remote error = %+v", remote)
	}
}

func TestAPIGatewayAuthenticate(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var creds domain.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Phone != "999" {
			t.Errorf("credentials = %+v", creds)
		}
		_, _ = w.Write([]byte(`{"user":{"_id":"u1","name":"Asha","email":"a@b.c"},"token":"tok"}`))
	})

	res, err := gw.Authenticate(context.Background(), domain.AuthRequest{
		Mode:        domain.AuthRegister,
		Credentials: domain.Credentials{Name: "Asha", Email: "a@b.c", Password: "pw", Phone: "999"},
	})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if res.Token != "tok" || res.User.ID != "u1" {
		t.Fatalf("result = %+v", res)
	}
}

func TestAPIGatewayCurrentUserUnauthorized(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
	})

	_, err := gw.CurrentUser(domain.ContextWithToken(context.Background(), "stale"))
	var remote *domain.RemoteError
	if !errors.As(err, &remote) || !remote.Unauthorized() {
		t.Fatalf("error = %v, want an unauthorized RemoteError", err)
	}
}
