// Package bootstrap assembles the storage layer and services shared by the API server and the CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/andresdelrio/clubs/internal/repository"
	"github.com/andresdelrio/clubs/internal/service"
	"github.com/andresdelrio/clubs/pkg/cache"
	"github.com/andresdelrio/clubs/pkg/config"
	"github.com/andresdelrio/clubs/pkg/database"
)

// Container holds the opened connections and the services built on them.
type Container struct {
	DB     *sqlx.DB
	Redis  *redis.Client
	Logger *zap.Logger

	Metrics       *service.MetricsService
	Cache         *service.CacheService
	Enrollments   *service.EnrollmentService
	Clubs         *service.ClubService
	Students      *service.StudentService
	Configuration *service.ConfigurationService
	Reports       *service.ReportService
	Auth          *service.AuthService
}

// Options tweaks what Open does beyond connecting.
type Options struct {
	Migrate bool
}

// Open connects to Postgres (and Redis when report caching is on) and builds every service.
// A Redis failure only disables the report cache.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if opts.Migrate {
		applied, err := database.Migrate(ctx, db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("migrations applied", zap.Strings("files", applied))
		}
	}

	var rdb *redis.Client
	if cfg.Reports.CacheEnabled {
		rdb, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("report cache disabled", zap.Error(err))
			rdb = nil
		}
	}

	return build(cfg, db, rdb, logger), nil
}

func build(cfg *config.Config, db *sqlx.DB, rdb *redis.Client, logger *zap.Logger) *Container {
	timeout := cfg.Database.QueryTimeout
	validate := validator.New()

	sedes := repository.NewSedeRepository(db)
	clubs := repository.NewClubRepository(db)
	students := repository.NewStudentRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	configs := repository.NewConfigurationRepository(db)

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(rdb), metrics, cfg.Reports.CacheTTL, logger, rdb != nil)

	return &Container{
		DB:      db,
		Redis:   rdb,
		Logger:  logger,
		Metrics: metrics,
		Cache:   cacheSvc,
		Enrollments: service.NewEnrollmentService(db, enrollments, clubs, students, cacheSvc, metrics, logger,
			service.EnrollmentServiceConfig{QueryTimeout: timeout}),
		Clubs:         service.NewClubService(db, sedes, clubs, enrollments, cacheSvc, validate, logger, timeout),
		Students:      service.NewStudentService(db, sedes, students, logger, timeout),
		Configuration: service.NewConfigurationService(configs, logger, timeout),
		Reports: service.NewReportService(sedes, clubs, enrollments, cacheSvc, nil, nil, logger,
			service.ReportServiceConfig{QueryTimeout: timeout, CacheTTL: cfg.Reports.CacheTTL}),
		Auth: service.NewAuthService(service.AuthConfig{
			AccessCode:     cfg.Admin.AccessCode,
			AccessCodeHash: cfg.Admin.AccessCodeHash,
			TokenSecret:    cfg.Admin.JWTSecret,
			TokenExpiry:    cfg.Admin.JWTExpiration,
		}, logger),
	}
}

// Start launches background workers. Stop them with Close.
func (c *Container) Start(ctx context.Context) {
	c.Cache.StartInvalidation(ctx)
}

// Close stops workers and releases connections.
func (c *Container) Close() error {
	c.Cache.StopInvalidation()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("close redis", zap.Error(err))
		}
	}
	return c.DB.Close()
}
