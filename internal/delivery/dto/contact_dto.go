package dto

// SendEmailRequest mirrors the website contact form field names.
type SendEmailRequest struct {
	FromName        string `json:"from_name" validate:"required,max=255"`
	FromEmail       string `json:"from_email" validate:"required,email,max=255"`
	FromPhone       string `json:"from_phone" validate:"omitempty,max=50"`
	ServiceType     string `json:"service_type" validate:"omitempty,max=100"`
	AppointmentDate string `json:"appointment_date" validate:"omitempty,date"`
	AppointmentTime string `json:"appointment_time" validate:"omitempty,hhmm"`
	Subject         string `json:"subject" validate:"omitempty,max=200"`
	Message         string `json:"message" validate:"required,max=5000"`
}
