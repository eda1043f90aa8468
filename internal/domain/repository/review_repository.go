package repository

import (
	"studio-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(db *gorm.DB, review *entity.Review) error
	FindByID(db *gorm.DB, id int64) (*entity.Review, error)
	FindAll(db *gorm.DB, status *entity.ReviewStatus) ([]entity.Review, error)
	Counts(db *gorm.DB) (*entity.ReviewCounts, error)
	Update(db *gorm.DB, review *entity.Review) error
	Delete(db *gorm.DB, id int64) error
}
