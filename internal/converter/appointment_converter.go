package converter

import (
	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/domain/availability"
	"studio-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:        appointment.ID,
		Date:      appointment.Date,
		StartTime: appointment.StartTime,
		EndTime:   appointment.EndTime,
		Name:      appointment.Name,
		Email:     appointment.Email,
		Phone:     appointment.Phone,
		Service:   appointment.Service,
		Message:   appointment.Message,
		Status:    string(appointment.Status),
		CreatedAt: appointment.CreatedAt,
		UpdatedAt: appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentsToReservations keeps only what the availability engine reads
func AppointmentsToReservations(appointments []entity.Appointment) []availability.Reservation {
	reservations := make([]availability.Reservation, len(appointments))
	for i, a := range appointments {
		reservations[i] = availability.Reservation{
			Date:      a.Date,
			StartTime: a.StartTime,
			Status:    string(a.Status),
		}
	}
	return reservations
}
