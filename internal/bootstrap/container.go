package bootstrap

import (
	"context"
	"fmt"
	"time"

	"session-insight-be/internal/config"
	"session-insight-be/internal/controller"
	"session-insight-be/internal/pkg/logger"
	"session-insight-be/internal/pkg/metrics"
	"session-insight-be/internal/repository/contract"
	"session-insight-be/internal/repository/implementation"
	"session-insight-be/internal/repository/memory"
	"session-insight-be/internal/repository/redisstore"
	"session-insight-be/internal/service"
	"session-insight-be/pkg/access"
	"session-insight-be/pkg/analysis"
	"session-insight-be/pkg/lifecycle"

	pktNats "session-insight-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	backendMemory   = "memory"
	backendRedis    = "redis"
	backendPostgres = "postgres"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	PatientController controller.IPatientController
	AuthController    controller.IAuthController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	Sweepers        []*lifecycle.Sweeper

	Logger  logger.ILogger
	Metrics metrics.Provider

	closers []func() error
}

type options struct {
	clock  lifecycle.Clock
	logger logger.ILogger
	rdb    *redis.Client
}

type Option func(*options)

func WithClock(clock lifecycle.Clock) Option {
	return func(o *options) { o.clock = clock }
}

func WithLogger(log logger.ILogger) Option {
	return func(o *options) { o.logger = log }
}

// WithRedisClient supplies the client for the redis session store instead
// of dialing REDIS_URL.
func WithRedisClient(rdb *redis.Client) Option {
	return func(o *options) { o.rdb = rdb }
}

// NewContainer wires every component. A nil db selects the in-memory
// patient and account stores.
func NewContainer(db *gorm.DB, cfg *config.Config, opts ...Option) (*Container, error) {
	o := options{clock: lifecycle.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{}

	// 1. Core Facades
	sysLogger := o.logger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	}
	c.Logger = sysLogger
	c.Metrics = metrics.NewProvider(cfg.Telemetry.MetricsEnabled)

	// 2. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS unavailable, retention events stay local", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	// 3. Repositories
	sessionRepo, sessionBackend, err := c.sessionRepository(cfg, o)
	if err != nil {
		c.Close()
		return nil, err
	}

	var patientRepo contract.PatientRepository
	var userRepo contract.UserRepository
	patientBackend := backendPostgres
	if db != nil {
		patientRepo = implementation.NewPatientRepository(db, o.clock)
		userRepo = implementation.NewUserRepository(db)
	} else {
		patientBackend = backendMemory
		patientRepo = memory.NewPatientRepository(o.clock)
		userRepo = memory.NewUserRepository()
		sysLogger.Warn("BOOTSTRAP", "DB_CONNECTION_STRING not set, patients and accounts are kept in memory", nil)
	}

	// 4. Access
	jwtManager, err := access.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL, o.clock)
	if err != nil {
		c.Close()
		return nil, err
	}
	accountGate := access.NewAccountGate(jwtManager)
	sessionGate := access.SessionGate{}

	// 5. Services
	analysisClient := analysis.NewClient(cfg.Analysis.ServiceURL, cfg.Analysis.Timeout)
	publisherService := service.NewPublisherService(cfg.Keys.EventTopic, pubSub)

	sessionService := service.NewSessionService(
		sessionRepo,
		analysisClient,
		publisherService,
		c.Metrics,
		cfg.Retention.SessionHistoryLimit,
		o.clock,
		sysLogger,
	)
	patientService := service.NewPatientService(
		patientRepo,
		analysisClient,
		publisherService,
		c.Metrics,
		cfg.Retention.PatientRetention,
		o.clock,
		sysLogger,
	)
	authService := service.NewAuthService(userRepo, jwtManager, sysLogger)
	retentionService := service.NewRetentionService(publisherService, c.Metrics, o.clock, sysLogger)

	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Keys.EventTopic, forwarder, sysLogger)
	c.Sweepers = []*lifecycle.Sweeper{
		lifecycle.NewSweeper("patients", patientRepo, cfg.Retention.SweepInterval, o.clock, sysLogger, retentionService.OnPurge),
	}

	// 6. Controllers
	c.SessionController = controller.NewSessionController(sessionService, sessionGate)
	c.PatientController = controller.NewPatientController(patientService, accountGate)
	c.AuthController = controller.NewAuthController(authService)
	c.HealthController = controller.NewHealthController(sessionBackend, patientBackend)

	return c, nil
}

func (c *Container) sessionRepository(cfg *config.Config, o options) (contract.SessionRepository, string, error) {
	if cfg.App.SessionStore != config.SessionStoreRedis {
		return memory.NewSessionRepository(cfg.Retention.SessionWindow, cfg.Retention.SweepInterval, o.clock), backendMemory, nil
	}

	rdb := o.rdb
	if rdb == nil {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			return nil, "", fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opt)
		c.closers = append(c.closers, rdb.Close)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, "", fmt.Errorf("connect to redis: %w", err)
	}
	return redisstore.NewSessionRepository(rdb, cfg.Retention.SessionWindow, o.clock), backendRedis, nil
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return firstErr
}
