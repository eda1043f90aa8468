package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"studio-booking/internal/converter"
	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/delivery/http/middleware"
	"studio-booking/internal/domain/availability"
	"studio-booking/internal/domain/entity"
	"studio-booking/internal/domain/repository"
	"studio-booking/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrBlockedSlotNotFound = errors.New("blocked slot not found")
	ErrBlockedDateNotFound = errors.New("blocked date not found")
)

const defaultBlockReason = "Unavailable"

type BlockingUsecase interface {
	ListBlockedSlots(ctx context.Context) (*dto.BlockedSlotListResponse, error)
	ReplaceBlockedSlots(ctx context.Context, inputs []dto.BlockedSlotInput) (*dto.BlockedSlotListResponse, error)
	BlockSlots(ctx context.Context, req *dto.BlockSlotsRequest) (*dto.BlockedSlotListResponse, error)
	UnblockSlot(ctx context.Context, req *dto.UnblockSlotRequest) error
	DeleteBlockedSlot(ctx context.Context, id int64) error
	ListBlockedDates(ctx context.Context) (*dto.BlockedDateListResponse, error)
	BlockDate(ctx context.Context, req *dto.BlockDateRequest) (*dto.BlockedDateResponse, error)
	UnblockDate(ctx context.Context, date string) error
}

type blockingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	blockedSlotRepo repository.BlockedSlotRepository
	blockedDateRepo repository.BlockedDateRepository
	auditService    service.AuditService
	lockService     *service.SlotLockService
	cache           *service.AvailabilityCacheService
	hours           availability.WorkingHours
}

func NewBlockingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	blockedSlotRepo repository.BlockedSlotRepository,
	blockedDateRepo repository.BlockedDateRepository,
	auditService service.AuditService,
	lockService *service.SlotLockService,
	cache *service.AvailabilityCacheService,
	hours availability.WorkingHours,
) BlockingUsecase {
	return &blockingUsecase{
		db:              db,
		log:             log,
		blockedSlotRepo: blockedSlotRepo,
		blockedDateRepo: blockedDateRepo,
		auditService:    auditService,
		lockService:     lockService,
		cache:           cache,
		hours:           hours,
	}
}

func (u *blockingUsecase) ListBlockedSlots(ctx context.Context) (*dto.BlockedSlotListResponse, error) {
	slots, err := u.blockedSlotRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find blocked slots: %+v", err)
		return nil, err
	}
	return blockedSlotList(slots), nil
}

// ReplaceBlockedSlots swaps the whole blocked-slot list for inputs.
// Duplicate (date, startTime) pairs keep their first occurrence.
func (u *blockingUsecase) ReplaceBlockedSlots(ctx context.Context, inputs []dto.BlockedSlotInput) (*dto.BlockedSlotListResponse, error) {
	slots := make([]entity.BlockedSlot, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		slot, err := u.newBlockedSlot(in.Date, in.StartTime, in.EndTime, in.Reason)
		if err != nil {
			return nil, err
		}
		key := slot.Date + " " + slot.StartTime
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		slots = append(slots, *slot)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	previous, err := u.blockedSlotRepo.FindAll(tx)
	if err != nil {
		u.log.Warnf("Failed to find blocked slots: %+v", err)
		return nil, err
	}

	if err := u.blockedSlotRepo.ReplaceAll(tx, slots); err != nil {
		u.log.Warnf("Failed to replace blocked slots: %+v", err)
		return nil, err
	}

	current, err := u.blockedSlotRepo.FindAll(tx)
	if err != nil {
		u.log.Warnf("Failed to find blocked slots: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionBlockedSlotsReplace,
		"blocked_slot", "*", converter.BlockedSlotsToResponses(previous), converter.BlockedSlotsToResponses(current)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx)
	u.log.Infof("Blocked slots replaced: %d entries", len(current))

	return blockedSlotList(current), nil
}

// BlockSlots blocks several start times of one date. Times that are already
// blocked are left as they are.
func (u *blockingUsecase) BlockSlots(ctx context.Context, req *dto.BlockSlotsRequest) (*dto.BlockedSlotListResponse, error) {
	slots := make([]entity.BlockedSlot, 0, len(req.StartTimes))
	for _, start := range req.StartTimes {
		slot, err := u.newBlockedSlot(req.Date, start, "", req.Reason)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}

	var blocked []entity.BlockedSlot
	err := u.lockService.WithLock(req.Date, func() error {
		tx := u.db.WithContext(ctx).Begin()
		defer tx.Rollback()

		if err := u.blockedSlotRepo.CreateMany(tx, slots); err != nil {
			u.log.Warnf("Failed to block slots: %+v", err)
			return err
		}

		var err error
		blocked, err = u.blockedSlotRepo.FindByDateRange(tx, req.Date, req.Date)
		if err != nil {
			u.log.Warnf("Failed to find blocked slots: %+v", err)
			return err
		}

		if err := u.auditService.LogCreate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionBlockedSlotCreate,
			"blocked_slot", req.Date, req); err != nil {
			return err
		}

		return tx.Commit().Error
	})
	if err != nil {
		return nil, err
	}

	u.cache.Invalidate(ctx)
	u.log.Infof("Blocked %d slot(s) on %s", len(slots), req.Date)

	return blockedSlotList(blocked), nil
}

func (u *blockingUsecase) UnblockSlot(ctx context.Context, req *dto.UnblockSlotRequest) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.blockedSlotRepo.DeleteAt(tx, req.Date, req.StartTime)
	if err != nil {
		u.log.Warnf("Failed to unblock slot: %+v", err)
		return err
	}
	if affected == 0 {
		return ErrBlockedSlotNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionBlockedSlotDelete,
		"blocked_slot", req.Date+" "+req.StartTime, req); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.cache.Invalidate(ctx)
	return nil
}

func (u *blockingUsecase) DeleteBlockedSlot(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	slot, err := u.blockedSlotRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find blocked slot %d: %+v", id, err)
		return err
	}
	if slot == nil {
		return ErrBlockedSlotNotFound
	}

	if err := u.blockedSlotRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete blocked slot %d: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionBlockedSlotDelete,
		"blocked_slot", strconv.FormatInt(id, 10), converter.BlockedSlotToResponse(slot)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.cache.Invalidate(ctx)
	return nil
}

func (u *blockingUsecase) ListBlockedDates(ctx context.Context) (*dto.BlockedDateListResponse, error) {
	dates, err := u.blockedDateRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find blocked dates: %+v", err)
		return nil, err
	}

	return &dto.BlockedDateListResponse{
		BlockedDates: converter.BlockedDatesToResponses(dates),
		Total:        len(dates),
	}, nil
}

// BlockDate closes a whole day. Existing appointments on it are kept.
func (u *blockingUsecase) BlockDate(ctx context.Context, req *dto.BlockDateRequest) (*dto.BlockedDateResponse, error) {
	if _, err := time.Parse(availability.DateLayout, req.Date); err != nil {
		return nil, ErrInvalidDateFormat
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultBlockReason
	}
	blocked := &entity.BlockedDate{Date: req.Date, Reason: reason}

	err := u.lockService.WithLock(req.Date, func() error {
		tx := u.db.WithContext(ctx).Begin()
		defer tx.Rollback()

		if err := u.blockedDateRepo.Create(tx, blocked); err != nil {
			u.log.Warnf("Failed to block date %s: %+v", req.Date, err)
			return err
		}

		if err := u.auditService.LogCreate(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionBlockedDateCreate,
			"blocked_date", req.Date, req); err != nil {
			return err
		}

		return tx.Commit().Error
	})
	if err != nil {
		return nil, err
	}

	u.cache.Invalidate(ctx)
	u.log.Infof("Date blocked: %s", req.Date)

	return &dto.BlockedDateResponse{
		Date:      blocked.Date,
		Reason:    blocked.Reason,
		CreatedAt: blocked.CreatedAt,
	}, nil
}

func (u *blockingUsecase) UnblockDate(ctx context.Context, date string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	affected, err := u.blockedDateRepo.Delete(tx, date)
	if err != nil {
		u.log.Warnf("Failed to unblock date %s: %+v", date, err)
		return err
	}
	if affected == 0 {
		return ErrBlockedDateNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionBlockedDateDelete,
		"blocked_date", date, nil); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.cache.Invalidate(ctx)
	u.log.Infof("Date unblocked: %s", date)
	return nil
}

func (u *blockingUsecase) newBlockedSlot(date, startTime, endTime, reason string) (*entity.BlockedSlot, error) {
	date = strings.TrimSpace(date)
	startTime = strings.TrimSpace(startTime)

	if _, err := time.Parse(availability.DateLayout, date); err != nil {
		return nil, ErrInvalidDateFormat
	}
	start, err := availability.ParseClock(startTime)
	if err != nil {
		return nil, ErrInvalidTimeFormat
	}

	if endTime == "" {
		endTime = availability.FormatClock(start + u.hours.SlotDuration)
	} else if _, err := availability.ParseClock(endTime); err != nil {
		return nil, ErrInvalidTimeFormat
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultBlockReason
	}

	return &entity.BlockedSlot{
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Reason:    reason,
	}, nil
}

func blockedSlotList(slots []entity.BlockedSlot) *dto.BlockedSlotListResponse {
	return &dto.BlockedSlotListResponse{
		BlockedSlots: converter.BlockedSlotsToResponses(slots),
		Total:        len(slots),
	}
}
