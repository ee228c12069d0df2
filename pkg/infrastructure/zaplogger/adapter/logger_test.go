package adapter

import (
	"context"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerCarriesRequestIDAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	logger.Warn(ctx, "booking refused", map[string]interface{}{"ride_id": "r1"})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Level != zapcore.WarnLevel || got.Message != "booking refused" {
		t.Fatalf("unexpected entry: %+v", got)
	}
	fields := got.ContextMap()
	if fields["request_id"] != "req-42" {
		t.Fatalf("request_id missing: %v", fields)
	}
	if fields["ride_id"] != "r1" {
		t.Fatalf("ride_id missing: %v", fields)
	}
}

func TestNewZapAppLoggerFallsBackToInfo(t *testing.T) {
	if _, err := NewZapAppLogger("rideshare-bff", "not-a-level"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
