package repository

import (
	"errors"

	"studio-booking/internal/domain/entity"
	domainRepo "studio-booking/internal/domain/repository"

	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id int64) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Order("date ASC, start_time ASC, id ASC").Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByStatus(db *gorm.DB, status entity.AppointmentStatus) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("status = ?", status).
		Order("date ASC, start_time ASC, id ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindByDateRange returns appointments with from <= date <= to. Dates are
// stored as YYYY-MM-DD so string comparison orders them correctly.
func (r *appointmentRepository) FindByDateRange(db *gorm.DB, from, to string) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, start_time ASC, id ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) CountAt(db *gorm.DB, date, startTime string, statuses []entity.AppointmentStatus) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).
		Where("date = ? AND start_time = ? AND status IN ?", date, startTime, statuses).
		Count(&count).Error
	return count, err
}

func (r *appointmentRepository) CountByStatus(db *gorm.DB) (map[entity.AppointmentStatus]int64, error) {
	var rows []struct {
		Status entity.AppointmentStatus
		Total  int64
	}
	err := db.Model(&entity.Appointment{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// UpdateStatus moves an appointment from one status to another. It returns
// affected rows: 0 means the appointment was no longer in the expected status.
func (r *appointmentRepository) UpdateStatus(db *gorm.DB, id int64, from, to entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Delete(db *gorm.DB, id int64) error {
	return db.Where("id = ?", id).Delete(&entity.Appointment{}).Error
}
