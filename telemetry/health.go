package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hellofresh/health-go/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const checkTimeout = 2 * time.Second

// NewHealth creates the health handler. The redis check is only registered when client is set.
func NewHealth(name, version string, client *redis.Client) (http.Handler, error) {
	opts := []health.Option{
		health.WithComponent(health.Component{Name: name, Version: version}),
	}

	if client != nil {
		opts = append(opts, health.WithChecks(health.Config{
			Name:    "redis",
			Timeout: checkTimeout,
			Check: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
		}))
	}

	h, err := health.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create health checks: %w", err)
	}

	return h.Handler(), nil
}

// NewObservabilityHandler serves /healthz and /metrics
func NewObservabilityHandler(healthz http.Handler, gatherer prometheus.Gatherer) http.Handler {
	router := http.NewServeMux()
	router.Handle("/healthz", healthz)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return router
}
