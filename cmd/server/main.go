package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/item-analysis-service/internal/cache"
	"github.com/SAP-F-2025/item-analysis-service/internal/config"
	"github.com/SAP-F-2025/item-analysis-service/internal/handlers"
	"github.com/SAP-F-2025/item-analysis-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/item-analysis-service/internal/services"
	"github.com/SAP-F-2025/item-analysis-service/internal/utils"
	"github.com/SAP-F-2025/item-analysis-service/internal/validator"
	"github.com/SAP-F-2025/item-analysis-service/pkg"
	"github.com/gin-gonic/gin"
)

// @title           Item Analysis API
// @version         1.0
// @description     Item analysis, consolidated reports and progress tracking for classroom exams.

// @BasePath  /api/v1

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewDefaultLogger().LogError(err, "failed to load config")
		os.Exit(1)
	}

	slogger := utils.NewLogger(cfg.Environment)
	logger := utils.NewSlogLogger(slogger)

	// Dependencies
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "failed to connect database")
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.LogError(err, "failed to migrate database")
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.LogError(err, "failed to connect redis")
		os.Exit(1)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "failed to create event publisher")
		os.Exit(1)
	}
	defer publisher.Close()

	svc := services.NewServices(services.Dependencies{
		Repo:           postgres.NewRepository(db),
		Cache:          cache.NewRedisCache(redisClient, slogger),
		Publisher:      publisher,
		Logger:         slogger,
		Validator:      validator.New(),
		ReportCacheTTL: cfg.ReportCacheTTL,
	})

	var parse handlers.TokenParser
	if cfg.Auth.Enabled {
		parse = handlers.InitCasdoor(cfg.Auth)
	} else {
		logger.Warn("Token checks disabled, trusting " + handlers.DevUserHeader + " header")
	}

	// Routes
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestID(), utils.LoggerMiddleware(logger), utils.ContextLogger(logger))
	router.MaxMultipartMemory = 16 << 20

	handlers.NewHandlerManager(svc, logger).SetupRoutes(router, handlers.AuthMiddleware(parse, logger))

	// Server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.LogError(err, "server forced to shutdown")
		}
	}()

	logger.Info("starting server", "address", server.Addr, "environment", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.LogError(err, "server failed to start")
		os.Exit(1)
	}
}
