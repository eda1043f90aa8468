package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"studio-booking/internal/converter"
	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/delivery/http/middleware"
	"studio-booking/internal/domain/entity"
	"studio-booking/internal/domain/repository"
	"studio-booking/internal/service"
	"studio-booking/pkg/idgen"
	"studio-booking/pkg/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrInvalidReviewStatus = errors.New("invalid review status")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrEmptyReviewUpdate   = errors.New("no review fields to update")
)

type ReviewUsecase interface {
	Submit(ctx context.Context, req *dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error)
	ListApproved(ctx context.Context) (*dto.ReviewListResponse, error)
	ListAll(ctx context.Context, status string) (*dto.AdminReviewListResponse, error)
	Update(ctx context.Context, id int64, updates *dto.ReviewUpdates) (*dto.ReviewResponse, error)
	SetStatus(ctx context.Context, id int64, status string) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, id int64) error
}

type reviewUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	reviewRepo   repository.ReviewRepository
	auditService service.AuditService
	ids          *idgen.Generator
}

func NewReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reviewRepo repository.ReviewRepository,
	auditService service.AuditService,
	ids *idgen.Generator,
) ReviewUsecase {
	return &reviewUsecase{
		db:           db,
		log:          log,
		reviewRepo:   reviewRepo,
		auditService: auditService,
		ids:          ids,
	}
}

// Submit stores a new testimonial awaiting moderation
func (u *reviewUsecase) Submit(ctx context.Context, req *dto.SubmitReviewRequest) (*dto.SubmitReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	review := &entity.Review{
		ID:       u.ids.Next(),
		Name:     strings.TrimSpace(req.Name),
		Role:     strings.TrimSpace(req.Role),
		Content:  strings.TrimSpace(req.Content),
		Rating:   req.Rating,
		Category: strings.TrimSpace(req.Category),
		Email:    strings.TrimSpace(req.Email),
		Status:   entity.ReviewStatusPending,
	}

	if err := u.reviewRepo.Create(u.db.WithContext(ctx), review); err != nil {
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	metrics.RecordReviewSubmitted()
	u.log.Infof("Review submitted: id=%d, rating=%d", review.ID, review.Rating)

	return &dto.SubmitReviewResponse{ID: review.ID}, nil
}

// ListApproved is the public testimonial feed; emails are never exposed
func (u *reviewUsecase) ListApproved(ctx context.Context) (*dto.ReviewListResponse, error) {
	approved := entity.ReviewStatusApproved
	reviews, err := u.reviewRepo.FindAll(u.db.WithContext(ctx), &approved)
	if err != nil {
		u.log.Warnf("Failed to find approved reviews: %+v", err)
		return nil, err
	}

	return &dto.ReviewListResponse{
		Reviews: converter.ReviewsToResponses(reviews, false),
		Total:   len(reviews),
	}, nil
}

func (u *reviewUsecase) ListAll(ctx context.Context, status string) (*dto.AdminReviewListResponse, error) {
	db := u.db.WithContext(ctx)

	var filter *entity.ReviewStatus
	if status != "" {
		s := entity.ReviewStatus(status)
		if !s.Valid() {
			return nil, ErrInvalidReviewStatus
		}
		filter = &s
	}

	reviews, err := u.reviewRepo.FindAll(db, filter)
	if err != nil {
		u.log.Warnf("Failed to find reviews: %+v", err)
		return nil, err
	}

	counts, err := u.reviewRepo.Counts(db)
	if err != nil {
		u.log.Warnf("Failed to count reviews: %+v", err)
		return nil, err
	}

	return &dto.AdminReviewListResponse{
		Reviews: converter.ReviewsToResponses(reviews, true),
		Counts:  *counts,
	}, nil
}

// Update merges the non-nil fields of updates into the stored review
func (u *reviewUsecase) Update(ctx context.Context, id int64, updates *dto.ReviewUpdates) (*dto.ReviewResponse, error) {
	if updates == nil {
		return nil, ErrEmptyReviewUpdate
	}

	return u.modify(ctx, id, entity.AuditActionReviewUpdate, func(review *entity.Review) error {
		if updates.Name != nil {
			review.Name = strings.TrimSpace(*updates.Name)
		}
		if updates.Role != nil {
			review.Role = strings.TrimSpace(*updates.Role)
		}
		if updates.Content != nil {
			review.Content = strings.TrimSpace(*updates.Content)
		}
		if updates.Rating != nil {
			if *updates.Rating < 1 || *updates.Rating > 5 {
				return ErrInvalidRating
			}
			review.Rating = *updates.Rating
		}
		if updates.Category != nil {
			review.Category = strings.TrimSpace(*updates.Category)
		}
		if updates.Email != nil {
			review.Email = strings.TrimSpace(*updates.Email)
		}
		if updates.Status != nil {
			s := entity.ReviewStatus(*updates.Status)
			if !s.Valid() {
				return ErrInvalidReviewStatus
			}
			review.Status = s
		}
		return nil
	})
}

func (u *reviewUsecase) SetStatus(ctx context.Context, id int64, status string) (*dto.ReviewResponse, error) {
	s := entity.ReviewStatus(status)
	if !s.Valid() {
		return nil, ErrInvalidReviewStatus
	}

	return u.modify(ctx, id, entity.AuditActionReviewStatus, func(review *entity.Review) error {
		review.Status = s
		return nil
	})
}

func (u *reviewUsecase) Delete(ctx context.Context, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	review, err := u.reviewRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find review %d: %+v", id, err)
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}

	if err := u.reviewRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete review %d: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, middleware.ActorFromContext(ctx), entity.AuditActionReviewDelete,
		"review", strconv.FormatInt(id, 10), converter.ReviewToResponse(review, true)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.log.Infof("Review deleted: id=%d", id)
	return nil
}

// modify loads a review, applies change and saves it with an audit entry
// in one transaction.
func (u *reviewUsecase) modify(ctx context.Context, id int64, action string, change func(*entity.Review) error) (*dto.ReviewResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	review, err := u.reviewRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find review %d: %+v", id, err)
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	before := converter.ReviewToResponse(review, true)

	if err := change(review); err != nil {
		return nil, err
	}

	if err := u.reviewRepo.Update(tx, review); err != nil {
		u.log.Warnf("Failed to update review %d: %+v", id, err)
		return nil, err
	}

	after := converter.ReviewToResponse(review, true)
	if err := u.auditService.LogUpdate(ctx, tx, middleware.ActorFromContext(ctx), action,
		"review", strconv.FormatInt(id, 10), before, after); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return after, nil
}
