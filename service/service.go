package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ONSdigital/dp-api-clients-go/v2/middleware"
	"github.com/ONSdigital/dp-catalog-api/api"
	"github.com/ONSdigital/dp-catalog-api/config"
	"github.com/ONSdigital/dp-catalog-api/handlers"
	"github.com/ONSdigital/dp-catalog-api/model"
	"github.com/ONSdigital/dp-healthcheck/healthcheck"
	"github.com/ONSdigital/log.go/v2/log"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Catalog represents the configuration to run the catalog service
type Catalog struct {
	store       Store
	model       *model.Model
	router      *mux.Router
	server      HTTPServer
	shutdown    time.Duration
	healthCheck HealthChecker
}

// Generate mocks of dependencies
//
//go:generate moq -pkg service_test -out moq_service_test.go . Dependencies HealthChecker HTTPServer Store

// Dependencies holds constructors/factories for all external dependencies
//
type Dependencies interface {
	Store(context.Context, *config.Config) (Store, error)
	HealthCheck(*config.Config, string, string, string) (HealthChecker, error)
	HttpServer(*config.Config, http.Handler) HTTPServer
}

// HealthChecker abstracts healthcheck.HealthCheck so we can create a mock.
//
type HealthChecker interface {
	AddCheck(string, healthcheck.Checker) error
	Start(context.Context)
	Stop()
	Handler(http.ResponseWriter, *http.Request)
}

// HTTPServer defines the required methods from the HTTP server
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Store is the record store the model runs on, plus what the service
// needs to monitor and release it.
//
type Store interface {
	model.Store
	Checker(context.Context, *healthcheck.CheckState) error
	Close(context.Context) error
}

// allowedMethods are the methods cross-origin callers may use when CORS
// is enabled.
var allowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// New returns a new Catalog service with dependencies initialised based on cfg and deps.
//
func New(ctx context.Context, buildTime, gitCommit, version string, cfg *config.Config, deps Dependencies) (*Catalog, error) {
	svc := &Catalog{
		shutdown: cfg.GracefulShutdownTimeout,
	}

	// Open the record store.
	//
	store, err := deps.Store(ctx, cfg)
	if err != nil {
		log.Error(ctx, "could not open the record store", err)
		return nil, err
	}
	svc.store = store
	svc.model = model.New(store, cfg.DatasetDeletePolicy)

	// Set up health checkers for enabled dependencies.
	//
	hc, err := deps.HealthCheck(cfg, buildTime, gitCommit, version)
	if err != nil {
		log.Fatal(ctx, "could not create health checker", err)
		svc.closeStore(ctx)
		return nil, err
	}
	svc.healthCheck = hc
	if err = svc.registerCheckers(ctx); err != nil {
		svc.closeStore(ctx)
		return nil, err
	}

	// Tie the collection routes to the model.
	//
	router := mux.NewRouter()
	if cfg.OtelEnabled {
		router.Use(otelmux.Middleware(cfg.OTServiceName))
	}
	api.Setup(ctx, router, cfg.APIPrefix, svc.model, handlers.Paging{
		DefaultSize: cfg.DefaultPageSize,
		MaxSize:     cfg.MaxPageSize,
	})
	router.HandleFunc("/health", hc.Handler)
	svc.router = router

	// Create new middleware chain with whitelisted handler for /health endpoint
	//
	middlewareChain := alice.New(middleware.Whitelist(middleware.HealthcheckFilter(hc.Handler)))

	if cfg.EnableCORS {
		log.Info(ctx, "cross-origin requests are enabled")
		corsHandler := gorillahandlers.CORS(
			gorillahandlers.AllowedMethods(allowedMethods),
			gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
			gorillahandlers.ExposedHeaders([]string{"Link"}),
		)
		middlewareChain = middlewareChain.Append(corsHandler)
	}

	if cfg.MaxConcurrentHandlers > 0 {
		middlewareChain = middlewareChain.Append(api.Limiter(cfg.MaxConcurrentHandlers))
	}

	var r http.Handler = middlewareChain.Then(router)
	if cfg.OtelEnabled {
		r = otelhttp.NewHandler(r, "/")
	}

	svc.server = deps.HttpServer(cfg, r)

	return svc, nil
}

func (svc *Catalog) registerCheckers(ctx context.Context) error {
	var hasErrors bool
	hc := svc.healthCheck

	if err := hc.AddCheck("SQLite", svc.store.Checker); err != nil {
		hasErrors = true
		log.Error(ctx, "error adding check for sqlite", err)
	}

	if hasErrors {
		return errors.New("Error(s) registering checkers for healthcheck")
	}
	return nil
}

// Router exposes the routes the service serves.
func (svc *Catalog) Router() *mux.Router {
	return svc.router
}

// Run starts the health checks and the http server. Server errors are
// reported on errs.
func (svc *Catalog) Run(ctx context.Context, errs chan<- error) {
	svc.healthCheck.Start(ctx)
	go func() {
		log.Info(ctx, "starting catalog service...")
		if err := svc.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "catalog service http server returned an error", err)
			errs <- err
		}
	}()
}

// Close gracefully shuts down the http server, then releases the store.
func (svc *Catalog) Close(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, svc.shutdown)
	defer cancel()

	// Gracefully shutdown the application closing any open resources.
	log.Info(shutdownCtx, "shutdown with timeout", log.Data{"timeout": svc.shutdown})

	shutdownStart := time.Now()
	svc.healthCheck.Stop()

	var errs []error
	if err := svc.server.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "failed to shutdown http server", err)
		errs = append(errs, err)
	}
	if err := svc.store.Close(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "failed to close the record store", err)
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.Info(shutdownCtx, "shutdown complete", log.Data{"duration": time.Since(shutdownStart)})

	return nil
}

func (svc *Catalog) closeStore(ctx context.Context) {
	if err := svc.store.Close(ctx); err != nil {
		log.Error(ctx, "failed to close the record store", err)
	}
}
