package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"events-hub.backend/internal/config"
	"events-hub.backend/internal/infrastructure/jobs"
	"events-hub.backend/internal/infrastructure/repositories"
	"events-hub.backend/internal/interfaces/http/handlers"
	"events-hub.backend/internal/interfaces/http/middleware"
	"events-hub.backend/internal/usecases"
	"events-hub.backend/pkg/jwt"
	"events-hub.backend/pkg/logger"
	"events-hub.backend/pkg/mailer"
	"events-hub.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis. An empty URL disables it and the resend cooldown
	// degrades to fail-open.
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("database not available: %v (endpoints will return errors)", err)
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)

	// Outbound mail: real sender when an API key is configured, log-only
	// otherwise
	var sender mailer.Sender
	if cfg.Mail.ResendAPIKey != "" {
		sender = mailer.NewResendSender(cfg.Mail.ResendAPIKey, cfg.Mail.FromAddress, cfg.Mail.FromName)
	} else {
		sender = mailer.NewLogSender()
	}

	resendGate := redis.NewThrottle("otp_resend", cfg.OTP.ResendCooldown)

	// Initialize usecases
	otpUsecase := usecases.NewOTPUsecase(otpRepo, sender, resendGate, cfg.OTP)
	authUsecase := usecases.NewAuthUsecase(userRepo, otpUsecase, jwtService)
	eventUsecase := usecases.NewEventUsecase(eventRepo)
	enrollmentUsecase := usecases.NewEnrollmentUsecase(enrollmentRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	eventHandler := handlers.NewEventHandler(eventUsecase)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentUsecase)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := jobs.NewNotificationScheduler(enrollmentRepo, sender, cfg.Scheduler)
	go scheduler.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		jwtService:        jwtService,
		authHandler:       authHandler,
		eventHandler:      eventHandler,
		enrollmentHandler: enrollmentHandler,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")
		scheduler.Stop()
		cancel()
	}()

	logger.Info(ctx, "Events Hub backend starting", zap.String("port", cfg.Server.Port))

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
