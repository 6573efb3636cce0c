package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logger "github.com/sirupsen/logrus"

	"signalrouter/src/connectors"
	"signalrouter/src/handler"
	"signalrouter/src/marketdata"
	"signalrouter/src/model"
	"signalrouter/src/repository"
	"signalrouter/src/routing"
	"signalrouter/src/security"
	"signalrouter/src/stream"
)

// alertFanout persists execution alerts and pushes them to connected
// dashboards. Persistence failures are logged, never propagated: the order
// already reached its terminal state.
type alertFanout struct {
	repo *repository.AlertRepository
	hub  *stream.Hub
}

func (f *alertFanout) Publish(ctx context.Context, alert *model.Alert) {
	if f.repo != nil {
		if err := f.repo.Create(ctx, alert); err != nil {
			logger.WithError(err).Error("server - failed to persist alert")
		}
	}
	if f.hub != nil {
		f.hub.Publish(ctx, alert)
	}
}

// persistPanics records handler panics in the exceptions table before
// handing them back to the recoverer. Persistence uses a detached context
// so a cancelled request cannot lose the record.
func persistPanics(exceptions *repository.ExceptionRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					exc := &model.Exception{
						Service: "signalrouter",
						Module:  "http",
						Method:  r.Method + " " + r.URL.Path,
						Message: fmt.Sprintf("%+v", rec),
						Stack:   string(debug.Stack()),
						Level:   "error",
					}
					if err := exceptions.Create(context.Background(), exc); err != nil {
						logger.WithError(err).Error("server - failed to persist exception")
					}
					panic(rec)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// StartServer wires the routing core, the stream hub and the simulator,
// then serves until SIGINT/SIGTERM.
func StartServer(port string) {
	connConfig := connectors.GetConfig()
	secConfig := security.GetConfig()

	credentials := connectors.NewCredentialStore(repository.NewLegacyCredentialRepository())
	if err := credentials.Load(context.Background()); err != nil {
		logger.WithError(err).Warn("server - stored legacy credentials unreadable, starting without them")
	}

	derivClient := connectors.NewDerivClient(connConfig)
	bridgeClient := connectors.NewBridgeClient(connConfig)
	legacyPrimary, err := connectors.NewIQOptionClient(connConfig.IQHost)
	if err != nil {
		logger.WithError(err).Fatal("server - invalid legacy broker host")
	}
	legacyFallback := connectors.NewIQFallbackClient(connConfig.IQFallbackHost)

	var bridgeProvider routing.OrderProvider
	if bridgeClient != nil {
		bridgeProvider = routing.NewBridgeProvider(bridgeClient, credentials)
	}

	selector := routing.NewSelector(
		connConfig,
		credentials,
		bridgeProvider,
		routing.NewDerivProvider(derivClient),
		routing.NewLegacyPrimaryProvider(legacyPrimary, credentials),
		routing.NewLegacyFallbackProvider(legacyFallback, credentials),
	)

	hub := stream.NewHub()
	alerts := &alertFanout{repo: repository.NewAlertRepository(), hub: hub}
	executor := routing.NewExecutor(selector, alerts)

	simCtx, stopSim := context.WithCancel(context.Background())
	simulator := marketdata.NewSimulator(marketdata.GetConfig(), repository.NewMarketDataRepository(), hub)
	go simulator.Run(simCtx)

	probe := connectors.NewNetworkProbe()

	// Router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(persistPanics(repository.NewExceptionRepository()))

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error(" \"/health error")
		}
	})

	r.Get("/ws", handler.StreamHandler(hub))

	r.Route("/api", func(r chi.Router) {
		r.Post("/trading/quick-order", handler.QuickOrderHandler(executor))

		r.Get("/market-data", handler.DefaultMarketDataHandler())
		r.Get("/market-data/{symbol}", handler.MarketDataBySymbolHandler(repository.NewMarketDataRepository()))
		r.Get("/symbols", handler.DefaultInstrumentsHandler())
		r.Get("/signals", handler.DefaultSignalsHandler())

		r.Get("/alerts", handler.DefaultAlertsHandler())
		r.Get("/alerts/unread-count", handler.UnreadAlertCountHandler(repository.NewAlertRepository()))
		r.Post("/alerts/{id}/read", handler.MarkAlertReadHandler(repository.NewAlertRepository()))

		r.Get("/deriv/diagnostics", handler.DerivDiagnosticsHandler(derivClient))
		r.Get("/deriv/status", handler.DerivStatusHandler(derivClient))
		r.Get("/iq-option/diagnostics", handler.LegacyDiagnosticsHandler(probe, credentials, connConfig.IQHost))

		r.Post("/iq-option/credentials", handler.SetCredentialsHandler(credentials, secConfig.AdminPassphraseHash))
		r.Get("/iq-option/credentials", handler.CredentialsStatusHandler(credentials))
	})

	// Graceful server
	// Server setup
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	stopSim()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
