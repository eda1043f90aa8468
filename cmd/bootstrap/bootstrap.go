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

	"studio-booking/config"
	deliveryHttp "studio-booking/internal/delivery/http"
	"studio-booking/internal/delivery/http/handler"
	"studio-booking/internal/delivery/http/middleware"
	"studio-booking/internal/domain/availability"
	"studio-booking/internal/infrastructure/cache"
	"studio-booking/internal/infrastructure/database"
	"studio-booking/internal/infrastructure/mail"
	"studio-booking/internal/infrastructure/telemetry"
	"studio-booking/internal/repository"
	"studio-booking/internal/service"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/idgen"
	"studio-booking/pkg/jwt"
	"studio-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config        *config.Config
	DB            *gorm.DB
	RedisClient   *redis.Client
	Server        *http.Server
	SlotLocks     *service.SlotLockService
	Notifier      *service.NotificationService
	shutdownTrace func(context.Context) error
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	// Initialize database
	db, err := database.NewConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Infof("Database connected successfully (%s)", cfg.DB.Driver)

	occupied := availability.ParseStatusSet(cfg.Studio.OccupiedStatuses)
	if err := database.Migrate(db, occupied); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize Redis (optional)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize tracing
	shutdownTrace, err := telemetry.Setup(context.Background(), cfg.Otel)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to setup telemetry: %w", err)
	}
	app.shutdownTrace = shutdownTrace

	// Initialize all layers
	server, err := app.initializeServer(cfg, db, redisClient, occupied)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, occupied availability.StatusSet) (*http.Server, error) {
	log := logrus.StandardLogger()

	hours := availability.WorkingHours{
		Start:        cfg.Studio.WorkStart,
		End:          cfg.Studio.WorkEnd,
		SlotDuration: cfg.Studio.SlotDuration,
	}
	if !hours.Valid() {
		return nil, fmt.Errorf("invalid working hours %s-%s every %d minutes", hours.Start, hours.End, hours.SlotDuration)
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository()
	blockedSlotRepo := repository.NewBlockedSlotRepository()
	blockedDateRepo := repository.NewBlockedDateRepository()
	reviewRepo := repository.NewReviewRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	offeringRepo := repository.NewServiceOfferingRepository(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	app.SlotLocks = service.NewSlotLockService(log)
	availabilityCache := service.NewAvailabilityCacheService(redisClient, log, cfg.Redis.CacheTTL)
	sessionService := service.NewSessionService(redisClient, log)
	notifier := service.NewNotificationService(mail.NewSender(cfg.SMTP, log), log, cfg.Studio.Name, cfg.Studio.Inbox)
	app.Notifier = notifier
	ids := idgen.New()

	// Initialize usecases
	catalogUsecase := usecase.NewServiceCatalogUsecase(db, log, offeringRepo, auditService)
	if err := catalogUsecase.SeedDefaults(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to seed services: %w", err)
	}

	bookingUsecase := usecase.NewBookingUsecase(db, log, appointmentRepo, blockedSlotRepo, blockedDateRepo, reviewRepo,
		catalogUsecase, auditService, app.SlotLocks, availabilityCache, notifier, ids, usecase.BookingConfig{
			Hours:    hours,
			Occupied: occupied,
			Location: cfg.App.Location(),
		})
	blockingUsecase := usecase.NewBlockingUsecase(db, log, blockedSlotRepo, blockedDateRepo, auditService,
		app.SlotLocks, availabilityCache, hours)
	reviewUsecase := usecase.NewReviewUsecase(db, log, reviewRepo, auditService, ids)
	contactUsecase := usecase.NewContactUsecase(log, notifier, catalogUsecase)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	authUsecase := usecase.NewAdminAuthUsecase(db, log, cfg.Admin, jwtService, sessionService, auditService)

	// Initialize handlers
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, blockingUsecase, customValidator)
	adminHandler := handler.NewAdminHandler(bookingUsecase, blockingUsecase, customValidator)
	reviewHandler := handler.NewReviewHandler(reviewUsecase, customValidator)
	contactHandler := handler.NewContactHandler(contactUsecase, customValidator)
	serviceHandler := handler.NewServiceHandler(catalogUsecase, customValidator)
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, cfg.App.Env == "production")
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessionService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	requestMiddleware := middleware.NewRequestMiddleware(log)
	proxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
	if err != nil {
		return nil, err
	}
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, proxies)

	// Initialize router
	router := deliveryHttp.NewRouter(
		appointmentHandler,
		adminHandler,
		reviewHandler,
		contactHandler,
		serviceHandler,
		authHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		requestMiddleware,
		rateLimiter,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           otelhttp.NewHandler(httpRouter, cfg.Otel.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Let booking notifications already accepted finish sending
	if app.Notifier != nil {
		if err := app.Notifier.Close(ctx); err != nil {
			logrus.Errorf("Pending notifications not delivered: %v", err)
		}
	}

	if app.shutdownTrace != nil {
		if err := app.shutdownTrace(ctx); err != nil {
			logrus.Errorf("Failed to flush traces: %v", err)
		}
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background workers and closes connections (database, redis)
func (app *App) Close() {
	if app.SlotLocks != nil {
		app.SlotLocks.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
