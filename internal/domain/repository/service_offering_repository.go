package repository

import (
	"context"

	"studio-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type ServiceOfferingRepository interface {
	Create(ctx context.Context, offering *entity.ServiceOffering) error
	FindAll(ctx context.Context) ([]entity.ServiceOffering, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ServiceOffering, error)
	FindBySlug(ctx context.Context, slug string) (*entity.ServiceOffering, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, offering *entity.ServiceOffering) error
	Delete(ctx context.Context, id uuid.UUID) error
}
