package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/jannathh/Scentify-Project/internal/auth"
	"github.com/jannathh/Scentify-Project/internal/catalog"
	"github.com/jannathh/Scentify-Project/internal/config"
	"github.com/jannathh/Scentify-Project/internal/event"
	handler "github.com/jannathh/Scentify-Project/internal/handler/http"
	"github.com/jannathh/Scentify-Project/internal/repository"
	"github.com/jannathh/Scentify-Project/internal/repository/memory"
	"github.com/jannathh/Scentify-Project/internal/repository/postgres"
	"github.com/jannathh/Scentify-Project/internal/repository/redis"
	"github.com/jannathh/Scentify-Project/internal/sensor"
	"github.com/jannathh/Scentify-Project/internal/service"
	"github.com/jannathh/Scentify-Project/pkg/breaker"
	"github.com/jannathh/Scentify-Project/pkg/database"
	"github.com/jannathh/Scentify-Project/pkg/health"
	pkgkafka "github.com/jannathh/Scentify-Project/pkg/kafka"
	"github.com/jannathh/Scentify-Project/pkg/middleware"
	"github.com/jannathh/Scentify-Project/pkg/tracing"
)

const (
	serviceName    = "storefront"
	serviceVersion = "0.1.0"

	clientCookieTTL = 365 * 24 * time.Hour
	janitorInterval = time.Minute
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool           *pgxpool.Pool
	redis          *goredis.Client
	producer       *pkgkafka.Producer
	sensorFeed     *sensor.KafkaFeed
	firestore      *sensor.FirestoreSource
	registry       *service.Registry
	loginLimiter   *middleware.RateLimiter
	httpServer     *http.Server
	tracerShutdown func(context.Context) error

	background sync.WaitGroup
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			_ = a.closeResources()
		}
	}()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	healthHandler := health.NewHandler()

	backend, err := a.slotBackend(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	events, err := a.eventPublisher(healthHandler)
	if err != nil {
		return nil, err
	}

	sensors, err := a.sensorSource(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	verifier, err := auth.NewDemoVerifier(bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("init credential verifier: %w", err)
	}

	a.registry = service.NewRegistry(service.Deps{
		Backend:      backend,
		Verifier:     verifier,
		Sensors:      sensors,
		Catalog:      cat,
		Events:       events,
		SlotTimeout:  cfg.SlotTimeout(),
		PaymentDelay: cfg.PaymentDelay(),
		Processing:   cfg.ScentProcessing(),
		Logger:       logger,
	})
	a.loginLimiter = middleware.NewRateLimiter(cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst, logger)

	cors := middleware.DefaultCORSConfig()
	cors.Environment = cfg.Environment
	if len(cfg.CORSAllowedOrigins) > 0 {
		cors.AllowedOrigins = cfg.CORSAllowedOrigins
	}

	router := handler.NewRouter(handler.RouterConfig{
		Registry:     a.registry,
		Catalog:      cat,
		Health:       healthHandler,
		Tokens:       auth.NewClientTokens(cfg.ClientSecret, clientCookieTTL),
		CORS:         cors,
		LoginLimiter: a.loginLimiter,
		SecureCookie: cfg.IsProduction(),
		Logger:       logger,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ok = true
	return a, nil
}

// slotBackend connects the configured persistence backend. Remote backends sit
// behind a circuit breaker and only degrade readiness when down.
func (a *App) slotBackend(ctx context.Context, h *health.Handler) (repository.Backend, error) {
	cfg, logger := a.cfg, a.logger

	var backend repository.Backend
	switch cfg.SlotBackend {
	case config.BackendRedis:
		client, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		backend = redis.New(client, cfg.SlotTTL())
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))

	case config.BackendPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, database.DefaultPoolOptions(), logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
			return nil, fmt.Errorf("register pool metrics: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("connected to PostgreSQL, migrations completed")
		backend = postgres.New(pool)

	default:
		logger.Warn("using in-memory slots, client state is lost on restart")
		return memory.New(), nil
	}

	h.RegisterOptional("slots", backend.Ping)
	return repository.WithBreaker(backend, breaker.DefaultConfig("slot-backend"), logger), nil
}

func (a *App) eventPublisher(h *health.Handler) (service.EventPublisher, error) {
	if !a.cfg.KafkaEnabled {
		return event.Noop{}, nil
	}
	a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers), a.logger)
	h.RegisterOptional("kafka", a.producer.Ping)
	a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.KafkaBrokers))
	return event.NewProducer(a.producer, a.logger), nil
}

func (a *App) sensorSource(ctx context.Context, h *health.Handler) (sensor.Source, error) {
	cfg, logger := a.cfg, a.logger

	switch cfg.SensorSource {
	case config.SensorFirestore:
		src, err := sensor.NewFirestoreSource(ctx, sensor.FirestoreConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsFile: cfg.FirebaseCredentialsFile,
			Collection:      cfg.SensorCollection,
			Document:        cfg.SensorDocument,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to firestore: %w", err)
		}
		a.firestore = src
		h.RegisterOptional("firestore", src.Ping)
		logger.Info("reading sensors from firestore",
			slog.String("document", cfg.SensorCollection+"/"+cfg.SensorDocument),
		)
		return src, nil

	case config.SensorKafka:
		a.sensorFeed = sensor.NewKafkaFeed(cfg.KafkaBrokers, cfg.SensorTopic, logger)
		h.RegisterOptional("sensor-feed", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, cfg.KafkaBrokers)
		})
		logger.Info("reading sensors from kafka", slog.String("topic", cfg.SensorTopic))
		return a.sensorFeed, nil

	default:
		logger.Info("using simulated sensors", slog.Duration("interval", cfg.SensorSimInterval()))
		return sensor.NewSimulator(cfg.SensorSimInterval()), nil
	}
}

// Run starts the HTTP server and background workers and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	workers, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	a.goBackground(func() { a.registry.Janitor(workers, janitorInterval, a.cfg.ClientIdleTTL()) })
	a.goBackground(func() { a.loginLimiter.Sweep(workers) })
	if a.sensorFeed != nil {
		a.goBackground(func() {
			if err := a.sensorFeed.Run(workers); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("sensor feed stopped", slog.String("error", err.Error()))
			}
		})
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	stopWorkers()
	return errors.Join(runErr, a.Shutdown())
}

func (a *App) goBackground(fn func()) {
	a.background.Add(1)
	go func() {
		defer a.background.Done()
		fn()
	}()
}

// Shutdown gracefully stops all components in order:
// 1. HTTP server (drain in-flight requests)
// 2. Client registry (dispose clients, flush pending events)
// 3. Background workers
// 4. Tracer, Kafka, sensors and stores
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.registry.Close()
	a.background.Wait()

	errs = append(errs, a.closeResources())

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// closeResources releases the external connections opened by NewApp.
func (a *App) closeResources() error {
	var errs []error

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.firestore != nil {
		if err := a.firestore.Close(); err != nil {
			a.logger.Error("firestore close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return errors.Join(errs...)
}
