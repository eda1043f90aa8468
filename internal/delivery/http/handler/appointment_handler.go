package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/delivery/http/middleware"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/response"
	"studio-booking/pkg/validator"
)

// AppointmentHandler serves the /api/appointments endpoints used by the
// booking form and the admin dashboard.
type AppointmentHandler struct {
	bookingUsecase  usecase.BookingUsecase
	blockingUsecase usecase.BlockingUsecase
	validator       *validator.CustomValidator
}

func NewAppointmentHandler(
	bookingUsecase usecase.BookingUsecase,
	blockingUsecase usecase.BlockingUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase:  bookingUsecase,
		blockingUsecase: blockingUsecase,
		validator:       validator,
	}
}

// GetAppointments handles availability queries and the admin document
// @Summary Availability or booking document
// @Description ?date=YYYY-MM-DD returns free slots, ?action=next20days the rolling window. Without parameters an admin session gets the full document.
// @Tags Appointments
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param action query string false "next20days"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /appointments [get]
func (h *AppointmentHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if date := query.Get("date"); date != "" {
		slots, err := h.bookingUsecase.GetAvailableSlots(r.Context(), date)
		if err != nil {
			writeBookingError(w, err, "Failed to get available slots")
			return
		}
		response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
		return
	}

	switch query.Get("action") {
	case "next20days":
		window, err := h.bookingUsecase.GetNext20Days(r.Context())
		if err != nil {
			response.InternalServerError(w, "Failed to get availability")
			return
		}
		response.Success(w, http.StatusOK, "Availability retrieved successfully", window)
		return
	case "":
	default:
		response.BadRequest(w, "Unknown action")
		return
	}

	if _, ok := middleware.GetAdminFromContext(r.Context()); !ok {
		response.Unauthorized(w, "Admin session is required")
		return
	}

	doc, err := h.bookingUsecase.GetDocument(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}
	response.Success(w, http.StatusOK, "Appointments retrieved successfully", doc)
}

// CreateAppointment handles the public booking form
// @Summary Book an appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Booking"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	req.Normalize()
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.CreateBooking(r.Context(), &req)
	if err != nil {
		writeBookingError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment request received", appointment)
}

// Update handles PUT /appointments: a status change when appointmentId is
// present, otherwise a blocked-slot replacement.
// @Summary Update appointment status or replace blocked slots
// @Tags Appointments
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.LegacyUpdateRequest true "Update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments [put]
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.LegacyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	switch {
	case req.AppointmentID != nil:
		statusReq := dto.UpdateAppointmentStatusRequest{ID: *req.AppointmentID, Status: req.Status}
		h.updateStatus(w, r, &statusReq)
	case req.BlockedSlots != nil:
		replace := dto.ReplaceBlockedSlotsRequest{BlockedSlots: *req.BlockedSlots}
		h.replaceBlockedSlots(w, r, &replace)
	default:
		response.BadRequest(w, "appointmentId or blockedSlots is required")
	}
}

// Delete handles DELETE /appointments with either id or blockedSlotId
// @Summary Delete an appointment or a blocked slot
// @Tags Appointments
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.LegacyDeleteRequest true "Delete"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments [delete]
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req dto.LegacyDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	switch {
	case req.BlockedSlotID != nil:
		if err := h.blockingUsecase.DeleteBlockedSlot(r.Context(), *req.BlockedSlotID); err != nil {
			writeBookingError(w, err, "Failed to delete blocked slot")
			return
		}
		response.Success(w, http.StatusOK, "Blocked slot deleted successfully", nil)
	case req.ID != nil:
		h.deleteAppointment(w, r, *req.ID)
	default:
		response.BadRequest(w, "id or blockedSlotId is required")
	}
}

// UpdateStatus handles POST /appointments/status
// @Summary Change appointment status
// @Tags Appointments
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateAppointmentStatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/status [post]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	h.updateStatus(w, r, &req)
}

// DeleteByID handles POST /appointments/delete
// @Summary Delete an appointment
// @Tags Appointments
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.DeleteByIDRequest true "Appointment"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments/delete [post]
func (h *AppointmentHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteByIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	h.deleteAppointment(w, r, req.ID)
}

// GetBlockedSlots handles the public blocked-slot list
// @Summary List blocked slots
// @Tags Appointments
// @Produce json
// @Success 200 {object} response.Response
// @Router /appointments/blocked [get]
func (h *AppointmentHandler) GetBlockedSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.blockingUsecase.ListBlockedSlots(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get blocked slots")
		return
	}
	response.Success(w, http.StatusOK, "Blocked slots retrieved successfully", slots)
}

// ReplaceBlockedSlots handles POST /appointments/blocked
// @Summary Replace all blocked slots
// @Tags Appointments
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.ReplaceBlockedSlotsRequest true "Blocked slots"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /appointments/blocked [post]
func (h *AppointmentHandler) ReplaceBlockedSlots(w http.ResponseWriter, r *http.Request) {
	var req dto.ReplaceBlockedSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	h.replaceBlockedSlots(w, r, &req)
}

func (h *AppointmentHandler) updateStatus(w http.ResponseWriter, r *http.Request, req *dto.UpdateAppointmentStatusRequest) {
	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.UpdateStatus(r.Context(), req.ID, req.Status)
	if err != nil {
		writeBookingError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) deleteAppointment(w http.ResponseWriter, r *http.Request, id int64) {
	appointment, err := h.bookingUsecase.DeleteAppointment(r.Context(), id)
	if err != nil {
		writeBookingError(w, err, "Failed to delete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", appointment)
}

func (h *AppointmentHandler) replaceBlockedSlots(w http.ResponseWriter, r *http.Request, req *dto.ReplaceBlockedSlotsRequest) {
	if err := h.validator.Validate(req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slots, err := h.blockingUsecase.ReplaceBlockedSlots(r.Context(), req.BlockedSlots)
	if err != nil {
		writeBookingError(w, err, "Failed to update blocked slots")
		return
	}

	response.Success(w, http.StatusOK, "Blocked slots updated successfully", slots)
}

// writeBookingError maps booking and blocking errors to responses
func writeBookingError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, usecase.ErrBlockedSlotNotFound):
		response.NotFound(w, "Blocked slot not found")
	case errors.Is(err, usecase.ErrBlockedDateNotFound):
		response.NotFound(w, "Blocked date not found")
	case errors.Is(err, usecase.ErrSlotUnavailable):
		response.Conflict(w, "The selected time slot is no longer available")
	case errors.Is(err, usecase.ErrInvalidStatusTransition):
		response.Conflict(w, "Appointment status change is not allowed")
	case errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrDateInPast),
		errors.Is(err, usecase.ErrSlotOutsideHours),
		errors.Is(err, usecase.ErrInvalidDateFormat),
		errors.Is(err, usecase.ErrInvalidTimeFormat):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
