package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"studio-booking/internal/converter"
	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/delivery/http/middleware"
	"studio-booking/internal/domain/availability"
	"studio-booking/internal/domain/entity"
	"studio-booking/internal/domain/repository"
	"studio-booking/internal/infrastructure/database"
	"studio-booking/internal/service"
	"studio-booking/pkg/idgen"
	"studio-booking/pkg/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSlotUnavailable         = errors.New("the selected time slot is no longer available")
	ErrInvalidStatus           = errors.New("invalid appointment status")
	ErrInvalidStatusTransition = errors.New("appointment status change is not allowed")
	ErrDateInPast              = errors.New("cannot book a slot in the past")
	ErrSlotOutsideHours        = errors.New("start time is not a bookable slot")
	ErrInvalidDateFormat       = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimeFormat       = errors.New("invalid time format, use HH:MM")

	errDuplicateKey = errors.New("duplicate key")
)

const (
	sourcePublic = "public"
	sourceAdmin  = "admin"

	maxIDAttempts = 3
)

// BookingConfig carries the studio rules the booking usecase applies.
// Occupied must be the set the database was migrated with.
type BookingConfig struct {
	Hours    availability.WorkingHours
	Occupied availability.StatusSet
	Location *time.Location
	Now      func() time.Time
}

type BookingUsecase interface {
	GetAvailableSlots(ctx context.Context, date string) (*dto.AvailableSlotsResponse, error)
	GetNext20Days(ctx context.Context) (*dto.AvailabilityWindowResponse, error)
	GetDocument(ctx context.Context) (*dto.AppointmentDocumentResponse, error)
	CreateBooking(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	CreateAdminAppointment(ctx context.Context, req *dto.AdminCreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, id int64) (*dto.AppointmentResponse, error)
	ListAppointments(ctx context.Context, status string) (*dto.AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, id int64) (*dto.AppointmentResponse, error)
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	blockedSlotRepo repository.BlockedSlotRepository
	blockedDateRepo repository.BlockedDateRepository
	reviewRepo      repository.ReviewRepository
	catalog         ServiceCatalogUsecase
	auditService    service.AuditService
	lockService     *service.SlotLockService
	cache           *service.AvailabilityCacheService
	notifier        *service.NotificationService
	ids             *idgen.Generator
	cfg             BookingConfig
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	blockedSlotRepo repository.BlockedSlotRepository,
	blockedDateRepo repository.BlockedDateRepository,
	reviewRepo repository.ReviewRepository,
	catalog ServiceCatalogUsecase,
	auditService service.AuditService,
	lockService *service.SlotLockService,
	cache *service.AvailabilityCacheService,
	notifier *service.NotificationService,
	ids *idgen.Generator,
	cfg BookingConfig,
) BookingUsecase {
	if cfg.Occupied == nil {
		cfg.Occupied = availability.DefaultOccupied
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &bookingUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		blockedSlotRepo: blockedSlotRepo,
		blockedDateRepo: blockedDateRepo,
		reviewRepo:      reviewRepo,
		catalog:         catalog,
		auditService:    auditService,
		lockService:     lockService,
		cache:           cache,
		notifier:        notifier,
		ids:             ids,
		cfg:             cfg,
	}
}

// GetAvailableSlots returns the free slots of one date
func (u *bookingUsecase) GetAvailableSlots(ctx context.Context, date string) (*dto.AvailableSlotsResponse, error) {
	if _, err := time.Parse(availability.DateLayout, date); err != nil {
		return nil, ErrInvalidDateFormat
	}

	version, verErr := u.cache.Version(ctx)
	if verErr != nil {
		u.log.Warnf("Failed to read availability cache version: %+v", verErr)
	} else if slots, hit := u.cache.GetSlots(ctx, version, date); hit {
		return &dto.AvailableSlotsResponse{Date: date, AvailableSlots: slots}, nil
	}

	in, err := u.loadInput(u.db.WithContext(ctx), date, date)
	if err != nil {
		u.log.Warnf("Failed to load availability for %s: %+v", date, err)
		return nil, err
	}

	slots := availability.AvailableSlots(date, in)
	if verErr == nil {
		u.cache.SetSlots(ctx, version, date, slots)
	}

	return &dto.AvailableSlotsResponse{Date: date, AvailableSlots: slots}, nil
}

// GetNext20Days returns the rolling window starting today in the studio time zone
func (u *bookingUsecase) GetNext20Days(ctx context.Context) (*dto.AvailabilityWindowResponse, error) {
	today := u.today()
	from := today.Format(availability.DateLayout)
	to := today.AddDate(0, 0, availability.Window-1).Format(availability.DateLayout)

	version, verErr := u.cache.Version(ctx)
	if verErr != nil {
		u.log.Warnf("Failed to read availability cache version: %+v", verErr)
	} else if days, hit := u.cache.GetWindow(ctx, version, from); hit {
		return &dto.AvailabilityWindowResponse{Days: days}, nil
	}

	in, err := u.loadInput(u.db.WithContext(ctx), from, to)
	if err != nil {
		u.log.Warnf("Failed to load availability window: %+v", err)
		return nil, err
	}

	days := availability.Next20Days(today, in)
	if verErr == nil {
		u.cache.SetWindow(ctx, version, from, days)
	}

	return &dto.AvailabilityWindowResponse{Days: days}, nil
}

// GetDocument returns the complete booking state for the admin dashboard
func (u *bookingUsecase) GetDocument(ctx context.Context) (*dto.AppointmentDocumentResponse, error) {
	db := u.db.WithContext(ctx)

	appointments, err := u.appointmentRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}

	blockedSlots, err := u.blockedSlotRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to find blocked slots: %+v", err)
		return nil, err
	}

	blockedDates, err := u.blockedDateRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to find blocked dates: %+v", err)
		return nil, err
	}

	return &dto.AppointmentDocumentResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		WorkingHours: u.cfg.Hours,
		BlockedSlots: converter.BlockedSlotsToResponses(blockedSlots),
		BlockedDates: converter.BlockedDatesToResponses(blockedDates),
	}, nil
}

// CreateBooking is the public booking path. The appointment always starts
// out pending regardless of what the client sent.
func (u *bookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.newAppointment(req, entity.AppointmentStatusPending)
	if err != nil {
		return nil, err
	}

	if err := u.reserve(ctx, appointment, sourcePublic); err != nil {
		return nil, err
	}

	title := ""
	if offering, err := u.catalog.FindBySlug(ctx, appointment.Service); err == nil && offering != nil {
		title = offering.Title
	}
	u.notifier.NotifyBooking(*appointment, title)

	return converter.AppointmentToResponse(appointment), nil
}

// CreateAdminAppointment lets the studio add an appointment from the
// dashboard. It is pending unless req.Confirmed asks for a pre-confirmed one.
func (u *bookingUsecase) CreateAdminAppointment(ctx context.Context, req *dto.AdminCreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	status := entity.AppointmentStatusPending
	if req.Confirmed {
		status = entity.AppointmentStatusConfirmed
	}

	appointment, err := u.newAppointment(&req.CreateAppointmentRequest, status)
	if err != nil {
		return nil, err
	}

	if err := u.reserve(ctx, appointment, sourceAdmin); err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *bookingUsecase) GetAppointment(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *bookingUsecase) ListAppointments(ctx context.Context, status string) (*dto.AppointmentListResponse, error) {
	db := u.db.WithContext(ctx)

	var (
		appointments []entity.Appointment
		err          error
	)
	if status == "" {
		appointments, err = u.appointmentRepo.FindAll(db)
	} else {
		s := entity.AppointmentStatus(status)
		if !s.Valid() {
			return nil, ErrInvalidStatus
		}
		appointments, err = u.appointmentRepo.FindByStatus(db, s)
	}
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateStatus applies one lifecycle step. Setting the current status again
// is a no-op.
func (u *bookingUsecase) UpdateStatus(ctx context.Context, id int64, status string) (*dto.AppointmentResponse, error) {
	next := entity.AppointmentStatus(status)
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if current == nil {
		return nil, ErrAppointmentNotFound
	}

	unlock := u.lockService.Lock(current.Date)
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if appointment.Status == next {
		return converter.AppointmentToResponse(appointment), nil
	}
	if !appointment.Status.CanTransitionTo(next) {
		return nil, ErrInvalidStatusTransition
	}

	// Entering the occupied set claims the slot; another holder wins.
	if u.cfg.Occupied.Contains(string(next)) && !u.cfg.Occupied.Contains(string(appointment.Status)) {
		taken, err := u.appointmentRepo.CountAt(tx, appointment.Date, appointment.StartTime, u.occupiedStatuses())
		if err != nil {
			u.log.Warnf("Failed to check slot occupancy: %+v", err)
			return nil, err
		}
		if taken > 0 {
			metrics.RecordSlotConflict()
			return nil, ErrSlotUnavailable
		}
	}

	previous := appointment.Status
	affected, err := u.appointmentRepo.UpdateStatus(tx, id, previous, next)
	if err != nil {
		if database.IsDuplicateKeyError(err) {
			return nil, ErrSlotUnavailable
		}
		u.log.Warnf("Failed to update appointment %d status: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidStatusTransition
	}

	if err := u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionAppointmentStatus,
		"appointment", strconv.FormatInt(id, 10), string(previous), string(next)); err != nil {
		return nil, err
	}

	updated, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload appointment %d: %+v", id, err)
		appointment.Status = next
		updated = appointment
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx)
	metrics.RecordStatusTransition(string(previous), string(next))
	u.log.Infof("Appointment %d status changed: %s -> %s", id, previous, next)

	return converter.AppointmentToResponse(updated), nil
}

func (u *bookingUsecase) DeleteAppointment(ctx context.Context, id int64) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if err := u.appointmentRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete appointment %d: %+v", id, err)
		return nil, err
	}

	if err := u.auditService.LogDelete(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionAppointmentDelete,
		"appointment", strconv.FormatInt(id, 10), converter.AppointmentToResponse(appointment)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx)
	u.log.Infof("Appointment deleted: id=%d", id)

	return converter.AppointmentToResponse(appointment), nil
}

func (u *bookingUsecase) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	db := u.db.WithContext(ctx)

	counts, err := u.appointmentRepo.CountByStatus(db)
	if err != nil {
		u.log.Warnf("Failed to count appointments: %+v", err)
		return nil, err
	}

	now := u.cfg.Now().In(u.cfg.Location)
	todayStr := now.Format(availability.DateLayout)
	nowClock := now.Format(availability.TimeLayout)

	upcoming, err := u.appointmentRepo.FindByDateRange(db, todayStr, "9999-12-31")
	if err != nil {
		u.log.Warnf("Failed to find upcoming appointments: %+v", err)
		return nil, err
	}

	var upcomingCount int64
	for _, a := range upcoming {
		if a.IsCancelled() {
			continue
		}
		if a.Date > todayStr || a.StartTime > nowClock {
			upcomingCount++
		}
	}

	in, err := u.loadInput(db, todayStr, todayStr)
	if err != nil {
		u.log.Warnf("Failed to load availability for today: %+v", err)
		return nil, err
	}
	todaySlots := availability.AvailableSlots(todayStr, in)

	reviewCounts, err := u.reviewRepo.Counts(db)
	if err != nil {
		u.log.Warnf("Failed to count reviews: %+v", err)
		return nil, err
	}

	stats := &dto.DashboardStatsResponse{
		PendingAppointments:   counts[entity.AppointmentStatusPending],
		ConfirmedAppointments: counts[entity.AppointmentStatusConfirmed],
		CancelledAppointments: counts[entity.AppointmentStatusCancelled],
		UpcomingAppointments:  upcomingCount,
		SlotsPerDay:           len(availability.GenerateAllSlots(u.cfg.Hours)),
		AvailableSlotsToday:   len(todaySlots),
		TodaySlots:            todaySlots,
		PendingReviews:        reviewCounts.Pending,
	}
	stats.TotalAppointments = stats.PendingAppointments + stats.ConfirmedAppointments + stats.CancelledAppointments

	return stats, nil
}

// newAppointment validates the requested slot and builds the record
func (u *bookingUsecase) newAppointment(req *dto.CreateAppointmentRequest, status entity.AppointmentStatus) (*entity.Appointment, error) {
	req.Normalize()

	date, err := time.ParseInLocation(availability.DateLayout, req.Date, u.cfg.Location)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	start, err := availability.ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	if !u.cfg.Hours.OnGrid(req.StartTime) {
		return nil, ErrSlotOutsideHours
	}

	slotStart := date.Add(time.Duration(start) * time.Minute)
	if slotStart.Before(u.cfg.Now().In(u.cfg.Location)) {
		return nil, ErrDateInPast
	}

	endTime := req.EndTime
	if endTime == "" {
		endTime, _ = u.cfg.Hours.SlotEnd(req.StartTime)
	} else {
		end, err := availability.ParseClock(endTime)
		if err != nil {
			return nil, ErrInvalidTimeFormat
		}
		if end <= start {
			return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidTimeFormat)
		}
	}

	return &entity.Appointment{
		ID:        u.ids.Next(),
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   endTime,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Service:   req.Service,
		Message:   req.Message,
		Status:    status,
	}, nil
}

// reserve inserts the appointment if its slot is still free.
//
// Flow:
// 1. Acquire the per-date lock
// 2. In one transaction: reject blocked dates, blocked slots and occupied slots
// 3. Insert; the partial unique index rejects any concurrent winner
// 4. On a key collision, tell a taken slot apart from a reused id and retry the latter
// 5. Invalidate cached availability
func (u *bookingUsecase) reserve(ctx context.Context, appointment *entity.Appointment, source string) error {
	unlock := u.lockService.Lock(appointment.Date)
	defer unlock()

	for attempt := 1; ; attempt++ {
		err := u.insertIfFree(ctx, appointment)
		if err == nil {
			break
		}
		if !errors.Is(err, errDuplicateKey) {
			return err
		}

		existing, findErr := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
		if findErr != nil {
			u.log.Warnf("Failed to inspect appointment key collision: %+v", findErr)
			return findErr
		}
		if existing == nil {
			metrics.RecordSlotConflict()
			return ErrSlotUnavailable
		}
		if attempt == maxIDAttempts {
			return fmt.Errorf("appointment id %d already in use after %d attempts", appointment.ID, attempt)
		}
		u.log.Warnf("Appointment id %d already in use, retrying with a new id", appointment.ID)
		appointment.ID = u.ids.Next()
	}

	u.cache.Invalidate(ctx)
	metrics.RecordAppointmentCreated(source)
	u.log.Infof("Appointment created: id=%d, date=%s, start=%s, status=%s, source=%s",
		appointment.ID, appointment.Date, appointment.StartTime, appointment.Status, source)

	return nil
}

// insertIfFree runs one check-then-insert transaction. A unique violation is
// returned as errDuplicateKey once the transaction is rolled back.
func (u *bookingUsecase) insertIfFree(ctx context.Context, appointment *entity.Appointment) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	dateBlocked, err := u.blockedDateRepo.Exists(tx, appointment.Date)
	if err != nil {
		u.log.Warnf("Failed to check blocked date %s: %+v", appointment.Date, err)
		return err
	}
	slotBlocked, err := u.blockedSlotRepo.ExistsAt(tx, appointment.Date, appointment.StartTime)
	if err != nil {
		u.log.Warnf("Failed to check blocked slot: %+v", err)
		return err
	}
	taken, err := u.appointmentRepo.CountAt(tx, appointment.Date, appointment.StartTime, u.occupiedStatuses())
	if err != nil {
		u.log.Warnf("Failed to check slot occupancy: %+v", err)
		return err
	}
	if dateBlocked || slotBlocked || taken > 0 {
		metrics.RecordSlotConflict()
		return ErrSlotUnavailable
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if database.IsDuplicateKeyError(err) {
			return errDuplicateKey
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return err
	}

	if err := u.auditService.LogCreate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionAppointmentCreate,
		"appointment", strconv.FormatInt(appointment.ID, 10), converter.AppointmentToResponse(appointment)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		if database.IsDuplicateKeyError(err) {
			return errDuplicateKey
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *bookingUsecase) loadInput(db *gorm.DB, from, to string) (availability.Input, error) {
	appointments, err := u.appointmentRepo.FindByDateRange(db, from, to)
	if err != nil {
		return availability.Input{}, err
	}
	blockedSlots, err := u.blockedSlotRepo.FindByDateRange(db, from, to)
	if err != nil {
		return availability.Input{}, err
	}
	blockedDates, err := u.blockedDateRepo.FindByDateRange(db, from, to)
	if err != nil {
		return availability.Input{}, err
	}

	return availability.Input{
		Reservations: converter.AppointmentsToReservations(appointments),
		Blocks:       converter.BlockedSlotsToBlocks(blockedSlots),
		BlockedDates: converter.BlockedDatesToStrings(blockedDates),
		Hours:        u.cfg.Hours,
		Occupied:     u.cfg.Occupied,
	}, nil
}

func (u *bookingUsecase) occupiedStatuses() []entity.AppointmentStatus {
	statuses := make([]entity.AppointmentStatus, 0, len(u.cfg.Occupied))
	for _, s := range u.cfg.Occupied.Sorted() {
		statuses = append(statuses, entity.AppointmentStatus(s))
	}
	return statuses
}

func (u *bookingUsecase) today() time.Time {
	now := u.cfg.Now().In(u.cfg.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.cfg.Location)
}
