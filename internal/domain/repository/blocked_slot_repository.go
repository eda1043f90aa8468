package repository

import (
	"studio-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type BlockedSlotRepository interface {
	FindAll(db *gorm.DB) ([]entity.BlockedSlot, error)
	FindByDateRange(db *gorm.DB, from, to string) ([]entity.BlockedSlot, error)
	FindByID(db *gorm.DB, id int64) (*entity.BlockedSlot, error)
	ExistsAt(db *gorm.DB, date, startTime string) (bool, error)
	CreateMany(db *gorm.DB, slots []entity.BlockedSlot) error
	ReplaceAll(db *gorm.DB, slots []entity.BlockedSlot) error
	Delete(db *gorm.DB, id int64) error
	DeleteAt(db *gorm.DB, date, startTime string) (int64, error)
}

type BlockedDateRepository interface {
	FindAll(db *gorm.DB) ([]entity.BlockedDate, error)
	FindByDateRange(db *gorm.DB, from, to string) ([]entity.BlockedDate, error)
	Exists(db *gorm.DB, date string) (bool, error)
	Create(db *gorm.DB, blocked *entity.BlockedDate) error
	Delete(db *gorm.DB, date string) (int64, error)
}
