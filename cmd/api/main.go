// @title           PAD Champions API
// @version         1.0
// @description     Forum, resource library, screening events and AI screening relay for the PAD Champions outreach program.

// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/atanasster/pad-champions/docs" // Swagger docs import

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/config"
	"github.com/atanasster/pad-champions/internal/database"
	"github.com/atanasster/pad-champions/internal/job"
	"github.com/atanasster/pad-champions/internal/metrics"
	"github.com/atanasster/pad-champions/internal/repository"
	"github.com/atanasster/pad-champions/internal/router"
	"github.com/atanasster/pad-champions/internal/service"
	"github.com/atanasster/pad-champions/internal/util"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting PAD Champions API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	m := metrics.NewWithLogger(logger)

	// Database (retried until it comes up or the startup window ends)
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 2*time.Minute)
	db, err := database.Connect(connectCtx, dbConfig, 5*time.Second, logger)
	cancelConnect()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	if err := database.AutoMigrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	if err := database.RegisterMetricsCallbacks(db, m); err != nil {
		logger.Warn("Failed to register database metrics callbacks", zap.Error(err))
	}
	stopDBStats := database.StartDBStatsCollector(db, m, 15*time.Second)

	businessCollector := metrics.NewBusinessMetricsCollector(db, m, logger, 60*time.Second)
	businessCollector.Start()

	// Redis is optional: without it the unread cache, inbox pushes and
	// live updates are disabled.
	var rdb *redis.Client
	var broker client.LiveBroker
	if cfg.Redis.URL != "" || cfg.Redis.Host != "" {
		rdb, err = database.NewRedis(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, live updates disabled", zap.Error(err))
			rdb = nil
		} else {
			broker = client.NewRedisBroker(rdb)
		}
	}

	s3Client, err := client.NewS3Client(&cfg.S3)
	if err != nil {
		logger.Fatal("Failed to initialize S3 client", zap.Error(err))
	}
	logger.Info("S3 client initialized",
		zap.String("bucket", cfg.S3.Bucket),
		zap.String("region", cfg.S3.Region),
	)

	var genai client.GenAIClient
	if cfg.GenAI.APIKey != "" {
		openaiClient, err := client.NewOpenAIClient(cfg.GenAI, m, logger)
		if err != nil {
			logger.Warn("Failed to initialize screening assistant", zap.Error(err))
		} else {
			genai = openaiClient
			logger.Info("Screening assistant initialized", zap.String("model", cfg.GenAI.Model))
		}
	} else {
		logger.Warn("GENAI_API_KEY not set, screening assistant disabled")
	}

	tokens := util.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL)

	r := router.Setup(router.Config{
		DB:          db,
		Redis:       rdb,
		Logger:      logger,
		Tokens:      tokens,
		Metrics:     m,
		Blobs:       s3Client,
		Broker:      broker,
		GenAI:       genai,
		BasePath:    cfg.Server.BasePath,
		Resources:   cfg.Resources,
		GenAIConfig: cfg.GenAI,
		CORSOrigins: cfg.CORS.AllowedOrigins,
	})

	scheduler := job.NewScheduler(logger)
	cleaner := service.NewNotificationService(repository.NewNotificationRepository(db), rdb, m, logger)
	cleanupJob := job.NewNotificationCleanupJob(cleaner, cfg.Jobs.NotificationRetentionDays, logger)
	if err := scheduler.Register(cfg.Jobs.NotificationCleanupSchedule, cleanupJob); err != nil {
		logger.Warn("Notification cleanup not scheduled", zap.Error(err))
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("PAD Champions API started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	scheduler.Stop(cfg.Server.ShutdownTimeout)
	businessCollector.Stop()
	close(stopDBStats)
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
