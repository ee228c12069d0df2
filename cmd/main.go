package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/mateusmacedo/go-rideshare-bff/internal/config"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/application"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/infrastructure"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/reconciler"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-rideshare-bff/pkg/infrastructure"
	channelsAdapter "github.com/mateusmacedo/go-rideshare-bff/pkg/infrastructure/channels/adapter"
	kafkaAdapter "github.com/mateusmacedo/go-rideshare-bff/pkg/infrastructure/kafka/adapter"
	rabbitmqAdapter "github.com/mateusmacedo/go-rideshare-bff/pkg/infrastructure/rabbitmq/adapter"
	redisAdapter "github.com/mateusmacedo/go-rideshare-bff/pkg/infrastructure/redis/adapter"
	zapAdapter "github.com/mateusmacedo/go-rideshare-bff/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	appLogger, err := zapAdapter.NewZapAppLogger(cfg.AppName, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	activityBus, closeEvents, err := newActivityBus(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("events backend %s: %w", cfg.EventsBackend, err)
	}
	defer func() {
		if err := closeEvents(); err != nil {
			pkgApp.LogWarn(context.Background(), appLogger, "error closing event bus", err, nil)
		}
	}()

	sessions, err := newSessionRepository(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	gateway := infrastructure.NewAPIGateway(cfg.APIBaseURL, cfg.APITimeout, appLogger)
	guards := reconciler.NewGuardRegistry()
	location := cfg.Location()

	buses := application.Buses{
		PostRide:      pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.PostRideData], application.PostRideData](appLogger),
		BookRide:      pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.BookRideData], application.BookRideData](appLogger),
		CancelRide:    pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelRideData], application.CancelRideData](appLogger),
		CancelBooking: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData](appLogger),
		AddVehicle:    pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.AddVehicleData], application.AddVehicleData](appLogger),
		DeleteVehicle: pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.DeleteVehicleData], application.DeleteVehicleData](appLogger),

		SearchRides:    pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.SearchRidesData], application.SearchRidesData, reconciler.SearchOutcome](appLogger),
		ListMyRides:    pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListMyRidesData], application.ListMyRidesData, application.RideList](appLogger),
		ListMyBookings: pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListMyBookingsData], application.ListMyBookingsData, []domain.BookingSummary](appLogger),
		ListVehicles:   pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListVehiclesData], application.ListVehiclesData, application.VehicleList](appLogger),
		Refresh:        pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.RefreshData], application.RefreshData, application.RefreshResult](appLogger),

		Activity: activityBus,
	}

	slice := rideshare.NewRideShareSlice(
		buses,
		application.Dependencies{
			Gateway:     gateway,
			Guards:      guards,
			IDGenerator: pkgInfra.GenerateUUID,
			RecentLimit: cfg.RecentRidesLimit,
			Now:         time.Now,
		},
		application.NewAuthService(gateway, sessions, guards, appLogger),
		appLogger,
		infrastructure.HTTPOptions{Location: location, RequestTimeout: cfg.RequestTimeout},
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-Id"},
	}).Handler)
	router.Use(infrastructure.ObservabilityMiddleware(appLogger))

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Route("/api", slice.RegisterRoutes)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		pkgApp.LogInfo(ctx, appLogger, "server starting", map[string]interface{}{
			"addr":           cfg.HTTPAddr,
			"api_base_url":   cfg.APIBaseURL,
			"events_backend": cfg.EventsBackend,
			"time_zone":      location.String(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	pkgApp.LogInfo(context.Background(), appLogger, "shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		pkgApp.LogError(context.Background(), appLogger, "error shutting server down", err, nil)
		return err
	}

	pkgApp.LogInfo(context.Background(), appLogger, "server stopped", nil)
	return nil
}

// newActivityBus builds the event bus activity events go out on. The returned
// func releases whatever the backend holds.
func newActivityBus(cfg config.Config, logger pkgApp.AppLogger) (application.ActivityBus, func() error, error) {
	noop := func() error { return nil }

	switch cfg.EventsBackend {
	case config.EventsChannels:
		bus := channelsAdapter.NewGoChannelEventBus[pkgDomain.Event[application.ActivityData], application.ActivityData](logger)
		return bus, bus.Close, nil
	case config.EventsRedis:
		client := redisAdapter.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		consumer, _ := os.Hostname()
		bus, err := redisAdapter.NewRedisEventBus[pkgDomain.Event[application.ActivityData], application.ActivityData](client, cfg.AppName, consumer, logger)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return bus, func() error {
			return errors.Join(bus.Close(), client.Close())
		}, nil
	case config.EventsKafka:
		bus, err := kafkaAdapter.NewKafkaEventBus[pkgDomain.Event[application.ActivityData], application.ActivityData](cfg.KafkaBrokers, cfg.AppName, cfg.AppName, logger)
		if err != nil {
			return nil, noop, err
		}
		return bus, bus.Close, nil
	case config.EventsRabbitMQ:
		bus, err := rabbitmqAdapter.NewRabbitMQEventBus[pkgDomain.Event[application.ActivityData], application.ActivityData](cfg.RabbitMQURL, cfg.RabbitMQExchange, cfg.AppName, logger)
		if err != nil {
			return nil, noop, err
		}
		return bus, bus.Close, nil
	default:
		return pkgInfra.NewSimpleEventBus[pkgDomain.Event[application.ActivityData], application.ActivityData](logger), noop, nil
	}
}

func newSessionRepository(cfg config.Config, logger pkgApp.AppLogger) (domain.SessionRepository, error) {
	if cfg.SessionDSN == "" {
		return infrastructure.NewInMemorySessionRepository(logger), nil
	}
	return infrastructure.NewGormSessionRepository(cfg.SessionDSN, logger)
}
