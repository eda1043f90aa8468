package repository

import (
	"studio-booking/internal/domain/entity"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id int64) (*entity.Appointment, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)
	FindByStatus(db *gorm.DB, status entity.AppointmentStatus) ([]entity.Appointment, error)
	FindByDateRange(db *gorm.DB, from, to string) ([]entity.Appointment, error)
	CountAt(db *gorm.DB, date, startTime string, statuses []entity.AppointmentStatus) (int64, error)
	CountByStatus(db *gorm.DB) (map[entity.AppointmentStatus]int64, error)
	UpdateStatus(db *gorm.DB, id int64, from, to entity.AppointmentStatus) (int64, error)
	Delete(db *gorm.DB, id int64) error
}
