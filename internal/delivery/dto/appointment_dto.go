package dto

import (
	"strings"
	"time"

	"studio-booking/internal/domain/availability"
)

// Request DTOs

// CreateAppointmentRequest is the public booking form. patientName,
// patientEmail and patientPhone are accepted as aliases used by older forms.
type CreateAppointmentRequest struct {
	Date         string `json:"date" validate:"required,date"`
	StartTime    string `json:"startTime" validate:"required,hhmm"`
	EndTime      string `json:"endTime" validate:"omitempty,hhmm"`
	Name         string `json:"name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Phone        string `json:"phone" validate:"omitempty,max=50"`
	Service      string `json:"service" validate:"omitempty,max=100"`
	Message      string `json:"message" validate:"omitempty,max=5000"`
	PatientName  string `json:"patientName,omitempty" validate:"-"`
	PatientEmail string `json:"patientEmail,omitempty" validate:"-"`
	PatientPhone string `json:"patientPhone,omitempty" validate:"-"`
}

// Normalize trims input and folds the legacy aliases into the canonical fields.
func (r *CreateAppointmentRequest) Normalize() {
	if strings.TrimSpace(r.Name) == "" {
		r.Name = r.PatientName
	}
	if strings.TrimSpace(r.Email) == "" {
		r.Email = r.PatientEmail
	}
	if strings.TrimSpace(r.Phone) == "" {
		r.Phone = r.PatientPhone
	}
	r.Date = strings.TrimSpace(r.Date)
	r.StartTime = strings.TrimSpace(r.StartTime)
	r.EndTime = strings.TrimSpace(r.EndTime)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Service = strings.TrimSpace(r.Service)
	r.Message = strings.TrimSpace(r.Message)
}

// AdminCreateAppointmentRequest adds the pre-confirmation switch available
// to the dashboard.
type AdminCreateAppointmentRequest struct {
	CreateAppointmentRequest
	Confirmed bool `json:"confirmed"`
}

type UpdateAppointmentStatusRequest struct {
	ID     int64  `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type DeleteByIDRequest struct {
	ID int64 `json:"id" validate:"required"`
}

// LegacyUpdateRequest is the body of PUT /api/appointments: either a status
// change or a full blocked-slot replacement.
type LegacyUpdateRequest struct {
	AppointmentID *int64              `json:"appointmentId"`
	Status        string              `json:"status"`
	BlockedSlots  *[]BlockedSlotInput `json:"blockedSlots"`
}

// LegacyDeleteRequest is the body of DELETE /api/appointments.
type LegacyDeleteRequest struct {
	ID            *int64 `json:"id"`
	BlockedSlotID *int64 `json:"blockedSlotId"`
}

// Response DTOs

type AppointmentResponse struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type AvailableSlotsResponse struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
}

type AvailabilityWindowResponse struct {
	Days []availability.DayAvailability `json:"days"`
}

// AppointmentDocumentResponse is the full admin view of booking state.
type AppointmentDocumentResponse struct {
	Appointments []AppointmentResponse     `json:"appointments"`
	WorkingHours availability.WorkingHours `json:"workingHours"`
	BlockedSlots []BlockedSlotResponse     `json:"blockedSlots"`
	BlockedDates []BlockedDateResponse     `json:"blockedDates"`
}

type DashboardStatsResponse struct {
	TotalAppointments     int64    `json:"totalAppointments"`
	PendingAppointments   int64    `json:"pendingAppointments"`
	ConfirmedAppointments int64    `json:"confirmedAppointments"`
	CancelledAppointments int64    `json:"cancelledAppointments"`
	UpcomingAppointments  int64    `json:"upcomingAppointments"`
	SlotsPerDay           int      `json:"slotsPerDay"`
	AvailableSlotsToday   int      `json:"availableSlotsToday"`
	TodaySlots            []string `json:"todaySlots"`
	PendingReviews        int64    `json:"pendingReviews"`
}
