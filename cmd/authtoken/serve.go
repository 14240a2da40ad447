package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/layer-3/authtoken/adapters/events"
	"github.com/layer-3/authtoken/adapters/store"
	"github.com/layer-3/authtoken/adapters/tokenizer"
	"github.com/layer-3/authtoken/config"
	"github.com/layer-3/authtoken/ports"
	"github.com/layer-3/authtoken/service"
	"github.com/layer-3/authtoken/telemetry"
	transport "github.com/layer-3/authtoken/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

// backend bundles the store and event publisher selected by configuration
type backend struct {
	store     ports.Store
	publisher message.Publisher
	redis     *redis.Client
}

func (b *backend) Close() error {
	var errs []error
	if b.publisher != nil {
		errs = append(errs, b.publisher.Close())
	}
	if b.redis != nil {
		errs = append(errs, b.redis.Close())
	}
	return errors.Join(errs...)
}

func newBackend(ctx context.Context, cfg *config.Config, logger watermill.LoggerAdapter) (*backend, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}

		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{Client: client}, logger)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to create redis publisher: %w", err)
		}

		return &backend{
			store:     store.NewRedisStore(client, cfg.Store.LookupDelay),
			publisher: publisher,
			redis:     client,
		}, nil
	default:
		return &backend{
			store:     store.NewMemoryStore(cfg.Store.LookupDelay),
			publisher: gochannel.NewGoChannel(gochannel.Config{}, logger),
		}, nil
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := telemetry.ConfigureLogger(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracingConfig{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("failed to shut down tracer provider")
		}
	}()

	b, err := newBackend(ctx, cfg, telemetry.NewWatermillLogger(log.StandardLogger()))
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.WithError(err).Warn("failed to close backend")
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(registry)

	healthz, err := telemetry.NewHealth("authtoken", version, b.redis)
	if err != nil {
		return err
	}

	tokenService := service.NewTokenService(
		tokenizer.NewUUIDTokenizer(),
		b.store,
		service.WithEventPublisher(events.NewWatermillPublisher(b.publisher)),
		service.WithLogger(log.StandardLogger()),
	)

	router := transport.SetupRouter(tokenService, metrics, tracerProvider.Tracer("authtoken"), telemetry.Propagator())

	api := &http.Server{
		Addr:         cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Handler:      router,
	}

	observability := &http.Server{
		Addr:         cfg.Observability.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Handler:      telemetry.NewObservabilityHandler(healthz, registry),
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range []*http.Server{api, observability} {
		srv := srv
		g.Go(func() error {
			log.WithField("address", srv.Addr).Info("server is ready to handle requests")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		api.SetKeepAlivesEnabled(false)
		observability.SetKeepAlivesEnabled(false)

		return errors.Join(
			api.Shutdown(shutdownCtx),
			observability.Shutdown(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
