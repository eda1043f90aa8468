package entity

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo applies the appointment lifecycle. Same-status moves are
// allowed and treated as no-ops by callers.
//
//	pending   -> confirmed | cancelled
//	confirmed -> pending
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusPending
	}
	return false
}

// Appointment is a customer's request for a photography session in one slot
type Appointment struct {
	ID        int64             `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Date      string            `gorm:"type:varchar(10);not null;index" json:"date"`
	StartTime string            `gorm:"type:varchar(5);not null" json:"startTime"`
	EndTime   string            `gorm:"type:varchar(5);not null" json:"endTime"`
	Name      string            `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string            `gorm:"type:varchar(50)" json:"phone"`
	Email     string            `gorm:"type:varchar(255);not null" json:"email"`
	Service   string            `gorm:"type:varchar(100)" json:"service"`
	Message   string            `gorm:"type:text" json:"message"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if appointment is in pending status
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsConfirmed checks if appointment is confirmed
func (a *Appointment) IsConfirmed() bool {
	return a.Status == AppointmentStatusConfirmed
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}
