package repository

import (
	"context"
	"errors"

	"studio-booking/internal/domain/entity"
	domainRepo "studio-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type serviceOfferingRepository struct {
	db *gorm.DB
}

func NewServiceOfferingRepository(db *gorm.DB) domainRepo.ServiceOfferingRepository {
	return &serviceOfferingRepository{db: db}
}

func (r *serviceOfferingRepository) Create(ctx context.Context, offering *entity.ServiceOffering) error {
	return r.db.WithContext(ctx).Create(offering).Error
}

func (r *serviceOfferingRepository) FindAll(ctx context.Context) ([]entity.ServiceOffering, error) {
	var offerings []entity.ServiceOffering
	if err := r.db.WithContext(ctx).Order("sort_order ASC, title ASC").Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *serviceOfferingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ServiceOffering, error) {
	var offering entity.ServiceOffering
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&offering).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offering, nil
}

func (r *serviceOfferingRepository) FindBySlug(ctx context.Context, slug string) (*entity.ServiceOffering, error) {
	var offering entity.ServiceOffering
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&offering).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offering, nil
}

func (r *serviceOfferingRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.ServiceOffering{}).Count(&total).Error
	return total, err
}

func (r *serviceOfferingRepository) Update(ctx context.Context, offering *entity.ServiceOffering) error {
	return r.db.WithContext(ctx).Save(offering).Error
}

func (r *serviceOfferingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ServiceOffering{}).Error
}
