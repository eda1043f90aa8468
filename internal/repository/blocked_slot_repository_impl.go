package repository

import (
	"errors"

	"studio-booking/internal/domain/entity"
	domainRepo "studio-booking/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type blockedSlotRepository struct{}

func NewBlockedSlotRepository() domainRepo.BlockedSlotRepository {
	return &blockedSlotRepository{}
}

func (r *blockedSlotRepository) FindAll(db *gorm.DB) ([]entity.BlockedSlot, error) {
	var slots []entity.BlockedSlot
	if err := db.Order("date ASC, start_time ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *blockedSlotRepository) FindByDateRange(db *gorm.DB, from, to string) ([]entity.BlockedSlot, error) {
	var slots []entity.BlockedSlot
	err := db.Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *blockedSlotRepository) FindByID(db *gorm.DB, id int64) (*entity.BlockedSlot, error) {
	var slot entity.BlockedSlot
	err := db.Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *blockedSlotRepository) ExistsAt(db *gorm.DB, date, startTime string) (bool, error) {
	var count int64
	err := db.Model(&entity.BlockedSlot{}).
		Where("date = ? AND start_time = ?", date, startTime).
		Count(&count).Error
	return count > 0, err
}

// CreateMany inserts slots, skipping any (date, start_time) already blocked.
func (r *blockedSlotRepository) CreateMany(db *gorm.DB, slots []entity.BlockedSlot) error {
	if len(slots) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "start_time"}},
		DoNothing: true,
	}).Create(&slots).Error
}

// ReplaceAll deletes every blocked slot and inserts the given list. Call it
// inside a transaction.
func (r *blockedSlotRepository) ReplaceAll(db *gorm.DB, slots []entity.BlockedSlot) error {
	if err := db.Where("1 = 1").Delete(&entity.BlockedSlot{}).Error; err != nil {
		return err
	}
	return r.CreateMany(db, slots)
}

func (r *blockedSlotRepository) Delete(db *gorm.DB, id int64) error {
	return db.Where("id = ?", id).Delete(&entity.BlockedSlot{}).Error
}

func (r *blockedSlotRepository) DeleteAt(db *gorm.DB, date, startTime string) (int64, error) {
	result := db.Where("date = ? AND start_time = ?", date, startTime).Delete(&entity.BlockedSlot{})
	return result.RowsAffected, result.Error
}

type blockedDateRepository struct{}

func NewBlockedDateRepository() domainRepo.BlockedDateRepository {
	return &blockedDateRepository{}
}

func (r *blockedDateRepository) FindAll(db *gorm.DB) ([]entity.BlockedDate, error) {
	var dates []entity.BlockedDate
	if err := db.Order("date ASC").Find(&dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *blockedDateRepository) FindByDateRange(db *gorm.DB, from, to string) ([]entity.BlockedDate, error) {
	var dates []entity.BlockedDate
	err := db.Where("date >= ? AND date <= ?", from, to).Order("date ASC").Find(&dates).Error
	if err != nil {
		return nil, err
	}
	return dates, nil
}

func (r *blockedDateRepository) Exists(db *gorm.DB, date string) (bool, error) {
	var count int64
	err := db.Model(&entity.BlockedDate{}).Where("date = ?", date).Count(&count).Error
	return count > 0, err
}

// Create is idempotent: blocking an already blocked date keeps the first reason.
func (r *blockedDateRepository) Create(db *gorm.DB, blocked *entity.BlockedDate) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(blocked).Error
}

func (r *blockedDateRepository) Delete(db *gorm.DB, date string) (int64, error) {
	result := db.Where("date = ?", date).Delete(&entity.BlockedDate{})
	return result.RowsAffected, result.Error
}
