package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-appointment-booking/config"
	deliveryHttp "go-appointment-booking/internal/delivery/http"
	"go-appointment-booking/internal/delivery/http/handler"
	"go-appointment-booking/internal/delivery/http/middleware"
	"go-appointment-booking/internal/infrastructure/cache"
	"go-appointment-booking/internal/infrastructure/database"
	"go-appointment-booking/internal/infrastructure/messaging"
	"go-appointment-booking/internal/infrastructure/telemetry"
	"go-appointment-booking/internal/repository"
	"go-appointment-booking/internal/service"
	"go-appointment-booking/internal/usecase"
	"go-appointment-booking/pkg/jwt"
	"go-appointment-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	slotLocks         *service.SlotLockService
	kafkaPublisher    *messaging.KafkaEventPublisher
	shutdownTelemetry telemetry.ShutdownFunc
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.Log)
	app.Log = log
	log.Info("Configuration loaded successfully")

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}
	app.shutdownTelemetry = shutdownTelemetry

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Database migrations applied")
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	var publisher service.EventPublisher = service.NoopEventPublisher{}
	if cfg.Kafka.Enabled() {
		app.kafkaPublisher = messaging.NewKafkaEventPublisher(cfg.Kafka, log)
		publisher = app.kafkaPublisher
		log.Infof("Publishing appointment events to topic %s", cfg.Kafka.AppointmentTopic)
	} else {
		log.Info("KAFKA_BROKERS not set, appointment events disabled")
	}

	app.slotLocks = service.NewSlotLockService(log, cfg.Booking.LockCleanupInterval, cfg.Booking.LockStaleAfter)

	app.Server = app.initializeServer(publisher)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(cfg config.LogConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// initializeServer wires repositories, services, usecases and handlers
func (app *App) initializeServer(publisher service.EventPublisher) *http.Server {
	cfg, db, log := app.Config, app.DB, app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Repositories
	providerRepo := repository.NewProviderRepository()
	scheduleRepo := repository.NewProviderScheduleRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services
	auditService := service.NewAuditService(db, log, auditLogRepo)
	var slotCache service.BookedSlotCache = service.NoopBookedSlotCache{}
	if cfg.Booking.SlotCacheEnabled {
		slotCache = service.NewRedisBookedSlotCache(app.RedisClient, log)
	}

	// Usecases
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, providerRepo, scheduleRepo, appointmentRepo, slotCache, cfg.Booking.DefaultSlotMinutes)
	bookingUsecase := usecase.NewBookingUsecase(db, log, providerRepo, scheduleRepo, appointmentRepo, app.slotLocks, slotCache, auditService, publisher, usecase.BookingOptions{
		DefaultSlotMinutes:   cfg.Booking.DefaultSlotMinutes,
		RequireGridAlignment: cfg.Booking.RequireGridAlignment,
	})
	providerAppointmentUsecase := usecase.NewProviderAppointmentUsecase(db, log, appointmentRepo, auditService, publisher)
	scheduleUsecase := usecase.NewProviderScheduleUsecase(db, log, providerRepo, scheduleRepo, auditService, cfg.Booking.DefaultSlotMinutes)

	// Handlers
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, customValidator)
	providerAppointmentHandler := handler.NewProviderAppointmentHandler(providerAppointmentUsecase, customValidator)
	slotHandler := handler.NewSlotHandler(availabilityUsecase)
	scheduleHandler := handler.NewScheduleHandler(scheduleUsecase, customValidator)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient, log)
	corsHandler := middleware.NewCORS(cfg.App.CORSAllowedOrigins)

	router := deliveryHttp.NewRouter(log, appointmentHandler, providerAppointmentHandler, slotHandler, scheduleHandler, authMiddleware, corsHandler)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close(ctx)

	app.Log.Info("Server shutdown complete")
}

// Close releases background workers and connections.
// In-flight requests must have finished; publishers flush before the DB closes.
func (app *App) Close(ctx context.Context) {
	if app.slotLocks != nil {
		app.slotLocks.Stop()
	}

	if app.kafkaPublisher != nil {
		if err := app.kafkaPublisher.Close(); err != nil {
			app.Log.Warnf("Failed to close Kafka writer: %+v", err)
		}
	}

	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	if app.shutdownTelemetry != nil {
		if err := app.shutdownTelemetry(ctx); err != nil {
			app.Log.Warnf("Failed to flush traces: %+v", err)
		}
	}
}
