package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mealtracker/config"
	"mealtracker/controllers"
	"mealtracker/routes"
	"mealtracker/services"
	"mealtracker/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Log)
	gin.SetMode(cfg.Server.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Now
	var (
		meals    services.MealStore
		profiles services.ProfileStore
		ready    controllers.ReadyFunc
	)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := config.OpenDB(cfg.Store)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Error("failed to get sql handle", "error", err)
			os.Exit(1)
		}
		defer sqlDB.Close()
		meals = services.NewGormMealStore(db, now)
		profiles = services.NewGormProfileStore(db)
		ready = sqlDB.PingContext
	default:
		meals = services.NewMemoryMealStore(now)
		profiles = services.NewMemoryProfileStore()
	}

	var (
		photos   services.PhotoDetector = services.HashPhotoDetector{}
		uploader services.PhotoStore
		pusher   services.Pusher
	)
	if cfg.AWS.Region != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		if cfg.AWS.RekognitionEnabled {
			photos = services.NewRekognitionDetector(rekognition.NewFromConfig(awsCfg), photos, logger)
		}
		if cfg.AWS.S3Bucket != "" {
			uploader = utils.NewPhotoUploader(s3.NewFromConfig(awsCfg), cfg.AWS.S3Bucket, photoBaseURL(cfg.AWS, awsCfg))
		}
		if cfg.AWS.SNSTopicARN != "" {
			pusher = services.NewPushService(sns.NewFromConfig(awsCfg), cfg.AWS.SNSTopicARN)
		}
	}

	hub := services.NewRealtimeHub()
	alerts := services.NewAlertBus(hub, pusher, logger)
	analytics := services.NewAnalyticsService(now, time.UTC)
	detector := services.NewCalorieDetector(photos, logger)
	mealSvc := services.NewMealService(meals, detector, analytics, alerts, uploader, logger)
	authSvc := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	router := routes.SetupRouter(routes.Handlers{
		Meals:          controllers.NewMealController(mealSvc, logger),
		Analytics:      controllers.NewAnalyticsController(mealSvc, logger),
		Photos:         controllers.NewPhotoController(uploader, logger),
		Alerts:         controllers.NewAlertController(alerts),
		Users:          controllers.NewUserController(profiles, logger),
		Auth:           controllers.NewAuthController(authSvc),
		Realtime:       controllers.NewRealtimeController(hub, cfg.CORS.AllowedOrigins),
		Health:         controllers.NewHealthController(cfg.Store.Driver, ready),
		Tokens:         authSvc,
		APISecret:      cfg.Auth.APISecret,
		RequireAuth:    cfg.Auth.Required,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}
	logger.Info("server exited")
}

// photoBaseURL prefers the CloudFront distribution over the bucket endpoint.
func photoBaseURL(cfg config.AWSConfig, awsCfg aws.Config) string {
	if cfg.CloudFrontURL != "" {
		return strings.TrimRight(cfg.CloudFrontURL, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, awsCfg.Region)
}
