package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/socio-africa/backend/internal/auth"
	"github.com/socio-africa/backend/internal/cache"
	"github.com/socio-africa/backend/internal/database"
	"github.com/socio-africa/backend/internal/handlers"
	"github.com/socio-africa/backend/internal/logger"
	"github.com/socio-africa/backend/internal/metrics"
	"github.com/socio-africa/backend/internal/middleware"
	"github.com/socio-africa/backend/internal/notify"
	"github.com/socio-africa/backend/internal/repository"
	"github.com/socio-africa/backend/internal/storage"
	"github.com/socio-africa/backend/internal/telemetry"
	"go.uber.org/zap"
)

const serviceName = "socio-backend"

func main() {
	if err := godotenv.Load(); err != nil {
		// Fine in production: config comes from the environment
	}

	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE")); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting socio backend")

	metrics.Initialize()

	if err := database.Initialize(); err != nil {
		logger.Fatal("Database initialization failed", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Database migration failed", zap.Error(err))
	}

	// Tracing is opt-in
	if os.Getenv("OTEL_ENABLED") == "true" {
		sampling := 1.0
		if s := os.Getenv("OTEL_SAMPLING_RATE"); s != "" {
			if parsed, err := strconv.ParseFloat(s, 64); err == nil {
				sampling = parsed
			}
		}
		tp, err := telemetry.InitTracer(telemetry.Config{
			ServiceName:  serviceName,
			Environment:  os.Getenv("ENVIRONMENT"),
			OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Enabled:      true,
			SamplingRate: sampling,
		})
		if err != nil {
			logger.Warn("Tracer initialization failed", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = tp.Shutdown(ctx)
			}()
		}
	}

	// Redis is optional; feeds just skip the cache without it
	var redisClient *cache.RedisClient
	if host := os.Getenv("REDIS_HOST"); host != "" {
		var err error
		redisClient, err = cache.NewRedisClient(host, os.Getenv("REDIS_PORT"), os.Getenv("REDIS_PASSWORD"))
		if err != nil {
			logger.Warn("Redis unavailable, continuing without feed cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Auth: validate against the platform auth service when configured,
	// otherwise run standalone with local JWTs.
	var authClient *auth.Client
	if authURL := os.Getenv("AUTH_SERVICE_URL"); authURL != "" {
		authClient = auth.NewClient(authURL)
		logger.Info("Using remote auth service", zap.String("url", authURL))
	}
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if authClient == nil && len(jwtSecret) == 0 {
		logger.Fatal("JWT_SECRET is required when AUTH_SERVICE_URL is not set")
	}

	authService := auth.NewService(authClient, jwtSecret, repository.NewUserRepository(database.DB))

	// Background notification fan-out
	dispatcher := notify.NewDispatcher(
		repository.NewUserRepository(database.DB),
		repository.NewFollowRepository(database.DB),
		repository.NewCommunityRepository(database.DB),
		repository.NewNotificationRepository(database.DB),
		os.Getenv("SITE_BASE_URL"),
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	h := handlers.NewHandlers(database.DB, authService, dispatcher)

	if redisClient != nil {
		h.SetRedisClient(redisClient)
	}

	// S3 uploads are optional in development
	if bucket := os.Getenv("AWS_BUCKET"); bucket != "" {
		uploader, err := storage.NewS3Uploader(os.Getenv("AWS_REGION"), bucket, os.Getenv("CDN_BASE_URL"))
		if err != nil {
			logger.Warn("S3 initialization failed, image uploads disabled", zap.Error(err))
		} else {
			if err := uploader.CheckBucketAccess(context.Background()); err != nil {
				logger.Warn("S3 bucket access check failed", zap.Error(err))
			}
			h.SetUploader(uploader)
		}
	}

	if os.Getenv("ENVIRONMENT") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.TracingMiddleware(serviceName))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"service":   serviceName,
			"timestamp": time.Now().UTC(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("Listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
