package repository

import (
	"errors"

	"studio-booking/internal/domain/entity"
	domainRepo "studio-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type reviewRepository struct{}

func NewReviewRepository() domainRepo.ReviewRepository {
	return &reviewRepository{}
}

func (r *reviewRepository) Create(db *gorm.DB, review *entity.Review) error {
	return db.Create(review).Error
}

func (r *reviewRepository) FindByID(db *gorm.DB, id int64) (*entity.Review, error) {
	var review entity.Review
	err := db.Where("id = ?", id).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

// FindAll returns reviews newest first, optionally filtered by status.
func (r *reviewRepository) FindAll(db *gorm.DB, status *entity.ReviewStatus) ([]entity.Review, error) {
	var reviews []entity.Review
	query := db.Order("created_at DESC, id DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Counts(db *gorm.DB) (*entity.ReviewCounts, error) {
	var rows []struct {
		Status entity.ReviewStatus
		Total  int64
	}
	err := db.Model(&entity.Review{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &entity.ReviewCounts{}
	for _, row := range rows {
		counts.Total += row.Total
		switch row.Status {
		case entity.ReviewStatusApproved:
			counts.Approved = row.Total
		case entity.ReviewStatusPending:
			counts.Pending = row.Total
		case entity.ReviewStatusRejected:
			counts.Rejected = row.Total
		}
	}
	return counts, nil
}

func (r *reviewRepository) Update(db *gorm.DB, review *entity.Review) error {
	return db.Save(review).Error
}

func (r *reviewRepository) Delete(db *gorm.DB, id int64) error {
	return db.Where("id = ?", id).Delete(&entity.Review{}).Error
}
