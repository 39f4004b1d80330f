package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/andresdelrio/clubs/api/swagger"
	"github.com/andresdelrio/clubs/internal/bootstrap"
	"github.com/andresdelrio/clubs/internal/handler"
	"github.com/andresdelrio/clubs/internal/middleware"
	"github.com/andresdelrio/clubs/pkg/config"
	"github.com/andresdelrio/clubs/pkg/logger"
	corsmiddleware "github.com/andresdelrio/clubs/pkg/middleware/cors"
	reqidmiddleware "github.com/andresdelrio/clubs/pkg/middleware/requestid"
)

// @title Clubs API
// @version 1.0.0
// @description Club enrollment for school sedes
// @BasePath /api
// @schemes http

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Open(ctx, cfg, logr, bootstrap.Options{Migrate: true})
	if err != nil {
		logr.Fatal("failed to initialise storage", zap.Error(err))
	}
	defer app.Close() //nolint:errcheck
	app.Start(ctx)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(app.Metrics))

	metrics := handler.NewMetricsHandler(app.Metrics, app.DB)
	r.GET("/health", metrics.Health)
	r.GET("/ready", metrics.Ready)
	r.GET("/metrics", metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Routes{
		Clubs:           handler.NewClubHandler(app.Clubs),
		Enrollments:     handler.NewEnrollmentHandler(app.Enrollments),
		Students:        handler.NewStudentHandler(app.Students, cfg.Import.MaxFileSizeBytes),
		Configuration:   handler.NewConfigurationHandler(app.Configuration),
		Reports:         handler.NewReportHandler(app.Reports),
		Auth:            handler.NewAuthHandler(app.Auth),
		RequireAdmin:    middleware.AdminAuth(app.Auth),
		EnrollmentsOpen: middleware.EnrollmentsOpen(app.Configuration),
	}.Register(r.Group(cfg.APIPrefix))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
