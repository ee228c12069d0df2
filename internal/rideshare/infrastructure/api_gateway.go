package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mateusmacedo/go-rideshare-bff/internal/observability"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
)

// DefaultAPITimeout bounds every call to the ride-sharing API.
const DefaultAPITimeout = 15 * time.Second

// Fallback messages for failures the API did not explain.
const (
	msgSearchFailed        = "Failed to search rides"
	msgPostFailed          = "Failed to post ride"
	msgListRidesFailed     = "Failed to fetch rides"
	msgCancelRideFailed    = "Failed to cancel ride"
	msgListCarsFailed      = "Failed to fetch cars"
	msgAddCarFailed        = "Failed to add car"
	msgDeleteCarFailed     = "Failed to delete car"
	msgBookFailed          = "Failed to book ride"
	msgListBookingsFailed  = "Failed to fetch bookings"
	msgCancelBookingFailed = "Failed to cancel booking"
	msgAuthFailed          = "Authentication failed"
	msgCurrentUserFailed   = "Failed to fetch user"
)

// APIGateway talks JSON to the ride-sharing API. The bearer token is taken
// from the request context, see domain.ContextWithToken.
type APIGateway struct {
	baseURL string
	client  *http.Client
	logger  pkgApp.AppLogger
}

func NewAPIGateway(baseURL string, timeout time.Duration, logger pkgApp.AppLogger) *APIGateway {
	if timeout <= 0 {
		timeout = DefaultAPITimeout
	}
	return NewAPIGatewayWithClient(baseURL, &http.Client{Timeout: timeout}, logger)
}

func NewAPIGatewayWithClient(baseURL string, client *http.Client, logger pkgApp.AppLogger) *APIGateway {
	if logger == nil {
		logger = pkgApp.NopLogger{}
	}
	return &APIGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

var _ domain.Gateway = (*APIGateway)(nil)

func (g *APIGateway) SearchRides(ctx context.Context, params domain.WireSearchParams) ([]domain.RideSummary, error) {
	var rides []domain.RideSummary
	err := g.do(ctx, call{op: "search_rides", method: http.MethodGet, path: "/rides/search", query: params.Values(), fallback: msgSearchFailed}, &rides)
	return rides, err
}

func (g *APIGateway) PostRide(ctx context.Context, body domain.WirePostBody) (string, error) {
	var raw json.RawMessage
	if err := g.do(ctx, call{op: "post_ride", method: http.MethodPost, path: "/rides", body: body, fallback: msgPostFailed}, &raw); err != nil {
		return "", err
	}
	var created struct {
		ID string `json:"_id"`
	}
	if err := decodeEnvelope(raw, "ride", &created); err != nil {
		return "", &domain.RemoteError{Op: "post_ride", Message: msgPostFailed, Err: err}
	}
	return created.ID, nil
}

func (g *APIGateway) ListMyRides(ctx context.Context) ([]domain.RideSummary, error) {
	var rides []domain.RideSummary
	err := g.do(ctx, call{op: "list_my_rides", method: http.MethodGet, path: "/rides/my-rides", fallback: msgListRidesFailed}, &rides)
	return rides, err
}

func (g *APIGateway) CancelRide(ctx context.Context, rideID string) error {
	return g.do(ctx, call{op: "cancel_ride", method: http.MethodDelete, path: "/rides/" + url.PathEscape(rideID), fallback: msgCancelRideFailed}, nil)
}

func (g *APIGateway) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	err := g.do(ctx, call{op: "list_vehicles", method: http.MethodGet, path: "/cars", fallback: msgListCarsFailed}, &vehicles)
	return vehicles, err
}

func (g *APIGateway) AddVehicle(ctx context.Context, input domain.VehicleInput) (domain.Vehicle, error) {
	var raw json.RawMessage
	if err := g.do(ctx, call{op: "add_vehicle", method: http.MethodPost, path: "/cars", body: input, fallback: msgAddCarFailed}, &raw); err != nil {
		return domain.Vehicle{}, err
	}
	var vehicle domain.Vehicle
	if err := decodeEnvelope(raw, "car", &vehicle); err != nil {
		return domain.Vehicle{}, &domain.RemoteError{Op: "add_vehicle", Message: msgAddCarFailed, Err: err}
	}
	return vehicle, nil
}

func (g *APIGateway) DeleteVehicle(ctx context.Context, vehicleID string) error {
	return g.do(ctx, call{op: "delete_vehicle", method: http.MethodDelete, path: "/cars/" + url.PathEscape(vehicleID), fallback: msgDeleteCarFailed}, nil)
}

func (g *APIGateway) CreateBooking(ctx context.Context, body domain.WireBookingBody) (domain.BookingSummary, error) {
	var raw json.RawMessage
	if err := g.do(ctx, call{op: "create_booking", method: http.MethodPost, path: "/bookings", body: body, fallback: msgBookFailed}, &raw); err != nil {
		return domain.BookingSummary{}, err
	}
	var booking domain.BookingSummary
	if err := decodeEnvelope(raw, "booking", &booking); err != nil {
		return domain.BookingSummary{}, &domain.RemoteError{Op: "create_booking", Message: msgBookFailed, Err: err}
	}
	return booking, nil
}

func (g *APIGateway) ListMyBookings(ctx context.Context) ([]domain.BookingSummary, error) {
	var bookings []domain.BookingSummary
	err := g.do(ctx, call{op: "list_my_bookings", method: http.MethodGet, path: "/bookings/my-bookings", fallback: msgListBookingsFailed}, &bookings)
	return bookings, err
}

func (g *APIGateway) CancelBooking(ctx context.Context, bookingID string) error {
	return g.do(ctx, call{op: "cancel_booking", method: http.MethodDelete, path: "/bookings/" + url.PathEscape(bookingID), fallback: msgCancelBookingFailed}, nil)
}

func (g *APIGateway) Authenticate(ctx context.Context, req domain.AuthRequest) (domain.AuthResult, error) {
	var result domain.AuthResult
	if err := g.do(ctx, call{op: "authenticate", method: http.MethodPost, path: req.Path(), body: req.Credentials, fallback: msgAuthFailed}, &result); err != nil {
		return domain.AuthResult{}, err
	}
	if result.Token == "" {
		return domain.AuthResult{}, &domain.RemoteError{Op: "authenticate", Message: msgAuthFailed}
	}
	return result, nil
}

func (g *APIGateway) CurrentUser(ctx context.Context) (domain.User, error) {
	var user domain.User
	err := g.do(ctx, call{op: "current_user", method: http.MethodGet, path: "/auth/me", fallback: msgCurrentUserFailed}, &user)
	return user, err
}

type call struct {
	op       string
	method   string
	path     string
	query    url.Values
	body     interface{}
	fallback string
}

// do sends c and decodes a 2xx body into out when out is not nil. Every
// failure comes back as *domain.RemoteError.
func (g *APIGateway) do(ctx context.Context, c call, out interface{}) (err error) {
	start := time.Now()
	status := 0
	defer func() {
		observability.RemoteCallsTotal.WithLabelValues(c.op, statusLabel(status, err)).Inc()
		observability.RemoteCallDuration.WithLabelValues(c.op).Observe(time.Since(start).Seconds())
	}()

	endpoint := g.baseURL + c.path
	if len(c.query) > 0 {
		endpoint += "?" + c.query.Encode()
	}

	var payload io.Reader
	if c.body != nil {
		data, err := json.Marshal(c.body)
		if err != nil {
			return &domain.RemoteError{Op: c.op, Message: c.fallback, Err: err}
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, endpoint, payload)
	if err != nil {
		return &domain.RemoteError{Op: c.op, Message: c.fallback, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := domain.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		pkgApp.LogWarn(ctx, g.logger, "ride-sharing API unreachable", err, map[string]interface{}{"operation": c.op})
		return &domain.RemoteError{Op: c.op, Message: c.fallback, Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.RemoteError{Op: c.op, Status: status, Message: c.fallback, Err: err}
	}

	if status < 200 || status > 299 {
		remote := &domain.RemoteError{Op: c.op, Status: status, Message: serverMessage(body, c.fallback)}
		pkgApp.LogDebug(ctx, g.logger, "ride-sharing API refused the call", map[string]interface{}{
			"operation": c.op,
			"status":    status,
			"message":   remote.Message,
		})
		return remote
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.RemoteError{Op: c.op, Status: status, Message: c.fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// serverMessage extracts the {"error": "..."} message the API sends with
// failures.
func serverMessage(body []byte, fallback string) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	switch {
	case payload.Error != "":
		return payload.Error
	case payload.Message != "":
		return payload.Message
	default:
		return fallback
	}
}

// decodeEnvelope accepts both a bare object and one wrapped under key.
func decodeEnvelope(raw json.RawMessage, key string, out interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New("empty response")
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return err
	}
	if inner, ok := wrapped[key]; ok && len(inner) > 0 && inner[0] == '{' {
		return json.Unmarshal(inner, out)
	}
	return json.Unmarshal(raw, out)
}

func statusLabel(status int, err error) string {
	if status == 0 {
		if err != nil {
			return "transport_error"
		}
		return "unknown"
	}
	return strconv.Itoa(status)
}
