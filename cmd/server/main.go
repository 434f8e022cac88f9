// Package main provides the entry point for the user service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/auth-platform/user-service/internal/broker"
	"github.com/auth-platform/user-service/internal/config"
	"github.com/auth-platform/user-service/internal/events"
	httpapi "github.com/auth-platform/user-service/internal/http"
	"github.com/auth-platform/user-service/internal/memory"
	"github.com/auth-platform/user-service/internal/observability"
	"github.com/auth-platform/user-service/internal/postgres"
	"github.com/auth-platform/user-service/internal/user"
)

const (
	serviceName    = "user-service"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	obs, err := observability.New(observability.Config{
		ServiceName:     serviceName,
		ServiceVersion:  serviceVersion,
		Environment:     os.Getenv("ENVIRONMENT"),
		LogLevel:        cfg.Logging.Level,
		MetricsEnabled:  cfg.Metrics.Enabled,
		TracingEnabled:  cfg.Tracing.Enabled,
		TracingEndpoint: cfg.Tracing.Endpoint,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	logger := obs.Logger

	logger.WithField("config", cfg.LogSafe()).Info("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Entity store: PostgreSQL, or in-memory when no database is configured.
	var store user.Store
	var pingStore func() error
	if cfg.Database.URL != "" {
		pg, err := postgres.Connect(ctx, postgres.Config{
			URL:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			logger.Fatal("failed to connect to database", err)
		}
		defer pg.Close()
		store = pg
		pingStore = func() error { return pg.Ping(context.Background()) }
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		store = memory.NewStore()
		pingStore = func() error { return nil }
	}

	// Message broker: disabled when no URL is configured.
	msgBroker, err := newBroker(cfg.Broker, logger)
	if err != nil {
		logger.Fatal("failed to connect to broker", err)
	}
	defer msgBroker.Close()

	producer := events.NewProducer(msgBroker, logger, obs.Metrics)
	service := user.NewService(store, producer, logger, obs.Tracer)

	// The consumer runs detached from the request path for the whole
	// process lifetime.
	consumer := events.NewConsumer(msgBroker, cfg.Broker.Queue, logger, obs.Metrics)
	if err := consumer.Start(ctx); err != nil {
		logger.Error("failed to start event consumer", err)
	}

	router := httpapi.NewRouter(service, logger, obs.Metrics, httpapi.RouterConfig{
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		RequestTimeout: cfg.Server.RequestTimeout,
		ReadyChecks: map[string]func() error{
			"store": pingStore,
			"broker": func() error {
				if !msgBroker.Healthy() {
					return user.ErrBrokerDown
				}
				return nil
			},
		},
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Server.HTTPPort).Info("starting " + serviceName + " v" + serviceVersion)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", err)
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		logger.Error("observability shutdown error", err)
	}

	logger.Info("server stopped")
}

func newBroker(cfg config.BrokerConfig, logger *observability.Logger) (broker.Broker, error) {
	if cfg.URL == "" {
		logger.Warn("BROKER_URL not set, event publishing disabled")
		return broker.NewNoOpBroker(), nil
	}

	switch strings.ToLower(cfg.Type) {
	case "kafka":
		return broker.NewKafkaBroker(strings.Split(cfg.URL, ","), cfg.GroupID, logger)
	default:
		return broker.NewRabbitMQBroker(cfg.URL, cfg.Exchange, logger)
	}
}
