package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"studio-booking/config"
	"studio-booking/internal/domain/availability"
	"studio-booking/internal/infrastructure/database"
	"studio-booking/internal/repository"
	"studio-booking/internal/service"
	"studio-booking/pkg/idgen"
	"studio-booking/pkg/jwt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// fixedNow is Monday 2025-06-02 08:00 UTC.
var fixedNow = time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)

type outbox struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (o *outbox) Send(ctx context.Context, to, subject, html string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, to+"|"+subject)
	return nil
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}

type testApp struct {
	db       *gorm.DB
	mail     *outbox
	booking  BookingUsecase
	blocking BlockingUsecase
	reviews  ReviewUsecase
	catalog  ServiceCatalogUsecase
	contact  ContactUsecase
	audit    AuditLogUsecase
	auth     AdminAuthUsecase
	sessions *service.SessionService
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type testOptions struct {
	occupied availability.StatusSet
	ids      *idgen.Generator
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWith(t, testOptions{})
}

func newTestAppWith(t *testing.T, opts testOptions) *testApp {
	t.Helper()

	if opts.occupied == nil {
		opts.occupied = availability.DefaultOccupied
	}
	if opts.ids == nil {
		opts.ids = idgen.New()
	}

	db, err := database.NewSQLiteConnection(":memory:", false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db, opts.occupied); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log := quietLogger()
	mail := &outbox{}

	appointmentRepo := repository.NewAppointmentRepository()
	blockedSlotRepo := repository.NewBlockedSlotRepository()
	blockedDateRepo := repository.NewBlockedDateRepository()
	reviewRepo := repository.NewReviewRepository()
	auditRepo := repository.NewAuditLogRepository()
	offeringRepo := repository.NewServiceOfferingRepository(db)

	auditService := service.NewAuditService(log, auditRepo)
	lockService := service.NewSlotLockService(log)
	t.Cleanup(lockService.Stop)
	cache := service.NewAvailabilityCacheService(nil, log, time.Minute)
	sessions := service.NewSessionService(nil, log)
	notifier := service.NewNotificationService(mail, log, "Test Studio", "studio@example.com")
	ids := opts.ids

	catalog := NewServiceCatalogUsecase(db, log, offeringRepo, auditService)

	app := &testApp{
		db:       db,
		mail:     mail,
		catalog:  catalog,
		sessions: sessions,
	}
	app.booking = NewBookingUsecase(db, log, appointmentRepo, blockedSlotRepo, blockedDateRepo, reviewRepo,
		catalog, auditService, lockService, cache, notifier, ids, BookingConfig{
			Hours:    availability.DefaultWorkingHours,
			Occupied: opts.occupied,
			Location: time.UTC,
			Now:      func() time.Time { return fixedNow },
		})
	app.blocking = NewBlockingUsecase(db, log, blockedSlotRepo, blockedDateRepo, auditService, lockService, cache,
		availability.DefaultWorkingHours)
	app.reviews = NewReviewUsecase(db, log, reviewRepo, auditService, ids)
	app.contact = NewContactUsecase(log, notifier, catalog)
	app.audit = NewAuditLogUsecase(db, log, auditRepo)
	app.auth = NewAdminAuthUsecase(db, log,
		config.AdminConfig{Username: "admin", Password: "s3cret"},
		jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", SessionMaxAge: time.Hour}),
		sessions, auditService)

	return app
}

func assertErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}
