package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/application"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-rideshare-bff/pkg/infrastructure"
)

type acceptVehicle struct{}

func (acceptVehicle) Handle(context.Context, pkgDomain.Command[application.AddVehicleData]) error {
	return nil
}

type failingVehicleList struct{}

func (failingVehicleList) Handle(context.Context, pkgDomain.Query[application.ListVehiclesData]) (application.VehicleList, error) {
	return application.VehicleList{}, context.DeadlineExceeded
}

func TestAddVehicleAnswersWhenListingFails(t *testing.T) {
	logger := pkgApp.NopLogger{}
	buses := application.Buses{
		AddVehicle:   pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.AddVehicleData], application.AddVehicleData](logger),
		ListVehicles: pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListVehiclesData], application.ListVehiclesData, application.VehicleList](logger),
	}
	buses.AddVehicle.RegisterHandler(application.AddVehicleCommand, acceptVehicle{})
	buses.ListVehicles.RegisterHandler(application.ListVehiclesQuery, failingVehicleList{})
	h := NewRideShareHTTPHandler(buses, nil, logger, HTTPOptions{})

	body := `{"company":"Maruti","model":"Swift","carNumber":"MH12AB1234","color":"White","seatsAvailable":4}`
	req := httptest.NewRequest(http.MethodPost, "/api/cars", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleAddVehicle(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var list struct {
		Vehicles []json.RawMessage `json:"vehicles"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if list.Vehicles == nil || len(list.Vehicles) != 0 {
		t.Fatalf("vehicles = %v, want an empty list", list.Vehicles)
	}
}
