package infrastructure

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mateusmacedo/go-rideshare-bff/internal/observability"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
)

func TestObservabilityMiddlewareLabelsByRoute(t *testing.T) {
	router := chi.NewRouter()
	router.Use(ObservabilityMiddleware(pkgApp.NopLogger{}))
	router.Delete("/cars/{carID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	counter := observability.HTTPRequestsTotal.WithLabelValues(http.MethodDelete, "/cars/{carID}", "204")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"c1", "c2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cars/"+id, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Fatalf("requests counted = %v, want 2", got)
	}
}
