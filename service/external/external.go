package external

import (
	"context"
	"net/http"

	dphttp "github.com/ONSdigital/dp-net/v2/http"

	"github.com/ONSdigital/dp-catalog-api/config"
	"github.com/ONSdigital/dp-catalog-api/service"
	"github.com/ONSdigital/dp-catalog-api/sqlite"

	"github.com/ONSdigital/dp-healthcheck/healthcheck"
)

// External implements the service.Dependencies interface for actual external services.
type External struct{}

var _ service.Dependencies = &External{}

// Store opens the SQLite database named by cfg.DatabasePath.
func (*External) Store(ctx context.Context, cfg *config.Config) (service.Store, error) {
	s, err := sqlite.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (*External) HealthCheck(cfg *config.Config, buildTime, gitCommit, version string) (service.HealthChecker, error) {
	versionInfo, err := healthcheck.NewVersionInfo(buildTime, gitCommit, version)
	if err != nil {
		return nil, err
	}
	hc := healthcheck.New(versionInfo, cfg.HealthCheckCriticalTimeout, cfg.HealthCheckInterval)
	return &hc, nil
}

func (*External) HttpServer(cfg *config.Config, r http.Handler) service.HTTPServer {
	s := dphttp.NewServer(cfg.BindAddr, r)
	s.HandleOSSignals = false

	return s
}
