package steps

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	componenttest "github.com/ONSdigital/dp-component-test"
	"github.com/ONSdigital/dp-catalog-api/config"
	"github.com/ONSdigital/dp-catalog-api/service"
	"github.com/ONSdigital/dp-catalog-api/sqlite"
	"github.com/ONSdigital/dp-healthcheck/healthcheck"
	dphttp "github.com/ONSdigital/dp-net/v2/http"
	"github.com/ONSdigital/log.go/v2/log"
	"github.com/google/uuid"
)

// CatalogComponent runs the service against a fresh in-memory database
// for every scenario.
type CatalogComponent struct {
	DpHttpServer *dphttp.Server
	svc          *service.Catalog
	ApiFeature   *componenttest.APIFeature
	errChan      chan error
	cfg          *config.Config
	deps         *External
}

func NewCatalogComponent() (*CatalogComponent, error) {
	log.Namespace = "dp-catalog-api"

	os.Setenv("BIND_ADDR", "localhost:0")
	cfg, err := config.Get()
	if err != nil {
		return nil, fmt.Errorf("error getting config: %w", err)
	}

	c := &CatalogComponent{
		errChan: make(chan error, 1),
		cfg:     cfg,
	}
	c.Reset()

	return c, nil
}

// Initialiser starts the service on first use in a scenario and returns
// its handler.
func (c *CatalogComponent) Initialiser() (http.Handler, error) {
	if err := c.start(); err != nil {
		return nil, err
	}
	return c.deps.Handler, nil
}

func (c *CatalogComponent) start() error {
	if c.svc != nil {
		return nil
	}

	svc, err := service.New(context.Background(), "1", "1", "1", c.cfg, c.deps)
	if err != nil {
		return err
	}
	svc.Run(context.Background(), c.errChan)
	c.svc = svc

	return nil
}

// Reset stops any running service and points the next one at an empty
// database of its own.
func (c *CatalogComponent) Reset() {
	if err := c.Close(); err != nil {
		log.Error(context.Background(), "failed to stop catalog service", err)
	}

	c.cfg.DatabasePath = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	c.cfg.DatabaseMaxOpenConns = 1
	c.cfg.DatasetDeletePolicy = config.DeletePolicyBlock

	s := dphttp.NewServer("", http.NewServeMux())
	s.HandleOSSignals = false
	c.DpHttpServer = s
	c.deps = &External{Server: s}
}

func (c *CatalogComponent) Close() error {
	if c.svc == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.svc.Close(ctx)
	c.svc = nil
	return err
}

// External provides the real record store and a test-owned http server.
type External struct {
	Server  *dphttp.Server
	Handler http.Handler
	Records *sqlite.Store
}

func (e *External) Store(ctx context.Context, cfg *config.Config) (service.Store, error) {
	s, err := sqlite.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	e.Records = s
	return s, nil
}

func (e *External) HealthCheck(c *config.Config, s string, s2 string, s3 string) (service.HealthChecker, error) {
	hc := healthcheck.New(healthcheck.VersionInfo{}, time.Second, time.Second)
	return &hc, nil
}

func (e *External) HttpServer(cfg *config.Config, r http.Handler) service.HTTPServer {
	e.Server.Server.Addr = cfg.BindAddr
	e.Server.Server.Handler = r
	e.Handler = r

	return e.Server
}
