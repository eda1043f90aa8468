package usecase

import (
	"context"
	"errors"
	"strings"

	"studio-booking/internal/converter"
	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/delivery/http/middleware"
	"studio-booking/internal/domain/entity"
	"studio-booking/internal/domain/repository"
	"studio-booking/internal/infrastructure/database"
	"studio-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrServiceNotFound   = errors.New("service not found")
	ErrServiceSlugExists = errors.New("a service with this slug already exists")
	ErrInvalidPrice      = errors.New("starting price must not be negative")
)

type ServiceCatalogUsecase interface {
	List(ctx context.Context) (*dto.ServiceOfferingListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ServiceOfferingResponse, error)
	FindBySlug(ctx context.Context, slug string) (*dto.ServiceOfferingResponse, error)
	Create(ctx context.Context, req *dto.ServiceOfferingRequest) (*dto.ServiceOfferingResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.ServiceOfferingRequest) (*dto.ServiceOfferingResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SeedDefaults(ctx context.Context) error
}

type serviceCatalogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	offeringRepo repository.ServiceOfferingRepository
	auditService service.AuditService
}

func NewServiceCatalogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	offeringRepo repository.ServiceOfferingRepository,
	auditService service.AuditService,
) ServiceCatalogUsecase {
	return &serviceCatalogUsecase{
		db:           db,
		log:          log,
		offeringRepo: offeringRepo,
		auditService: auditService,
	}
}

func (u *serviceCatalogUsecase) List(ctx context.Context) (*dto.ServiceOfferingListResponse, error) {
	offerings, err := u.offeringRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to list services: %+v", err)
		return nil, err
	}

	return &dto.ServiceOfferingListResponse{
		Services: converter.ServiceOfferingsToResponses(offerings),
		Total:    len(offerings),
	}, nil
}

func (u *serviceCatalogUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.ServiceOfferingResponse, error) {
	offering, err := u.offeringRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if offering == nil {
		return nil, ErrServiceNotFound
	}

	return converter.ServiceOfferingToResponse(offering), nil
}

func (u *serviceCatalogUsecase) FindBySlug(ctx context.Context, slug string) (*dto.ServiceOfferingResponse, error) {
	if slug == "" {
		return nil, ErrServiceNotFound
	}
	offering, err := u.offeringRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if offering == nil {
		return nil, ErrServiceNotFound
	}

	return converter.ServiceOfferingToResponse(offering), nil
}

func (u *serviceCatalogUsecase) Create(ctx context.Context, req *dto.ServiceOfferingRequest) (*dto.ServiceOfferingResponse, error) {
	if req.StartingPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	slug := normalizeSlug(req.Slug)
	existing, err := u.offeringRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrServiceSlugExists
	}

	offering := &entity.ServiceOffering{
		Slug:          slug,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		CustomPricing: req.CustomPricing,
		SortOrder:     req.SortOrder,
	}

	if err := u.offeringRepo.Create(ctx, offering); err != nil {
		if database.IsDuplicateKeyError(err) {
			return nil, ErrServiceSlugExists
		}
		u.log.Warnf("Failed to create service: %+v", err)
		return nil, err
	}

	response := converter.ServiceOfferingToResponse(offering)
	u.audit(ctx, func(db *gorm.DB) error {
		return u.auditService.LogCreate(ctx, db, middleware.ActorFromContext(ctx), entity.AuditActionServiceCreate,
			"service_offering", offering.ID.String(), response)
	})

	return response, nil
}

func (u *serviceCatalogUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.ServiceOfferingRequest) (*dto.ServiceOfferingResponse, error) {
	if req.StartingPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	offering, err := u.offeringRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if offering == nil {
		return nil, ErrServiceNotFound
	}

	slug := normalizeSlug(req.Slug)
	if slug != offering.Slug {
		existing, err := u.offeringRepo.FindBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrServiceSlugExists
		}
	}

	before := converter.ServiceOfferingToResponse(offering)

	offering.Slug = slug
	offering.Title = strings.TrimSpace(req.Title)
	offering.Description = req.Description
	offering.StartingPrice = req.StartingPrice
	offering.CustomPricing = req.CustomPricing
	offering.SortOrder = req.SortOrder

	if err := u.offeringRepo.Update(ctx, offering); err != nil {
		if database.IsDuplicateKeyError(err) {
			return nil, ErrServiceSlugExists
		}
		u.log.Warnf("Failed to update service %s: %+v", id, err)
		return nil, err
	}

	response := converter.ServiceOfferingToResponse(offering)
	u.audit(ctx, func(db *gorm.DB) error {
		return u.auditService.LogUpdate(ctx, db, middleware.ActorFromContext(ctx), entity.AuditActionServiceUpdate,
			"service_offering", id.String(), before, response)
	})

	return response, nil
}

func (u *serviceCatalogUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	offering, err := u.offeringRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if offering == nil {
		return ErrServiceNotFound
	}

	if err := u.offeringRepo.Delete(ctx, id); err != nil {
		u.log.Warnf("Failed to delete service %s: %+v", id, err)
		return err
	}

	before := converter.ServiceOfferingToResponse(offering)
	u.audit(ctx, func(db *gorm.DB) error {
		return u.auditService.LogDelete(ctx, db, middleware.ActorFromContext(ctx), entity.AuditActionServiceDelete,
			"service_offering", id.String(), before)
	})

	return nil
}

// SeedDefaults fills an empty catalog with the standard offerings
func (u *serviceCatalogUsecase) SeedDefaults(ctx context.Context) error {
	count, err := u.offeringRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, offering := range entity.DefaultServiceOfferings() {
		offering := offering
		if err := u.offeringRepo.Create(ctx, &offering); err != nil {
			return err
		}
	}

	u.log.Infof("Seeded %d default services", len(entity.DefaultServiceOfferings()))
	return nil
}

// audit records catalog changes after the fact; a failed entry is logged
// but does not undo the change.
func (u *serviceCatalogUsecase) audit(ctx context.Context, write func(db *gorm.DB) error) {
	if err := write(u.db.WithContext(ctx)); err != nil {
		u.log.Warnf("Failed to audit service change: %+v", err)
	}
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

