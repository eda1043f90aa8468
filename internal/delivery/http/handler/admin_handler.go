package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/response"
	"studio-booking/pkg/validator"

	"github.com/gorilla/mux"
)

// AdminHandler serves the /api/admin appointment, blocking and dashboard
// endpoints.
type AdminHandler struct {
	bookingUsecase  usecase.BookingUsecase
	blockingUsecase usecase.BlockingUsecase
	validator       *validator.CustomValidator
}

func NewAdminHandler(
	bookingUsecase usecase.BookingUsecase,
	blockingUsecase usecase.BlockingUsecase,
	validator *validator.CustomValidator,
) *AdminHandler {
	return &AdminHandler{
		bookingUsecase:  bookingUsecase,
		blockingUsecase: blockingUsecase,
		validator:       validator,
	}
}

// ListAppointments handles listing appointments
// @Summary List appointments
// @Tags Admin
// @Security CookieAuth
// @Produce json
// @Param status query string false "pending, confirmed or cancelled"
// @Success 200 {object} response.Response
// @Router /admin/appointments [get]
func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.bookingUsecase.ListAppointments(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeBookingError(w, err, "Failed to get appointments")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Appointments retrieved successfully", appointments, &response.Meta{
		Total: int64(appointments.Total),
	})
}

// CreateAppointment handles dashboard bookings
// @Summary Create an appointment as admin
// @Tags Admin
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.AdminCreateAppointmentRequest true "Appointment"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/appointments [post]
func (h *AdminHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminCreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	req.Normalize()
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.CreateAdminAppointment(r.Context(), &req)
	if err != nil {
		writeBookingError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

// GetAppointment handles getting one appointment
// @Summary Get appointment by ID
// @Tags Admin
// @Security CookieAuth
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/appointments/{id} [get]
func (h *AdminHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	appointment, err := h.bookingUsecase.GetAppointment(r.Context(), id)
	if err != nil {
		writeBookingError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// DeleteAppointment handles removing an appointment
// @Summary Delete appointment
// @Tags Admin
// @Security CookieAuth
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/appointments/{id} [delete]
func (h *AdminHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	appointment, err := h.bookingUsecase.DeleteAppointment(r.Context(), id)
	if err != nil {
		writeBookingError(w, err, "Failed to delete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", appointment)
}

// UpdateAppointmentStatus handles a status change
// @Summary Change appointment status
// @Tags Admin
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param request body dto.StatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/appointments/{id}/status [put]
func (h *AdminHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid appointment ID")
	if !ok {
		return
	}

	var req dto.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeBookingError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

// Dashboard handles the admin overview
// @Summary Dashboard statistics
// @Tags Admin
// @Security CookieAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.bookingUsecase.GetDashboardStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get dashboard statistics")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard statistics retrieved successfully", stats)
}

// BlockSlots handles blocking start times of one date
// @Summary Block slots
// @Tags Admin
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.BlockSlotsRequest true "Slots"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/blocked-slots [post]
func (h *AdminHandler) BlockSlots(w http.ResponseWriter, r *http.Request) {
	var req dto.BlockSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	slots, err := h.blockingUsecase.BlockSlots(r.Context(), &req)
	if err != nil {
		writeBookingError(w, err, "Failed to block slots")
		return
	}

	response.Success(w, http.StatusCreated, "Slots blocked successfully", slots)
}

// UnblockSlot handles unblocking one slot by date and start time
// @Summary Unblock a slot
// @Tags Admin
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.UnblockSlotRequest true "Slot"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/blocked-slots [delete]
func (h *AdminHandler) UnblockSlot(w http.ResponseWriter, r *http.Request) {
	var req dto.UnblockSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.blockingUsecase.UnblockSlot(r.Context(), &req); err != nil {
		writeBookingError(w, err, "Failed to unblock slot")
		return
	}

	response.Success(w, http.StatusOK, "Slot unblocked successfully", nil)
}

// DeleteBlockedSlot handles removing a blocked slot by id
// @Summary Delete a blocked slot
// @Tags Admin
// @Security CookieAuth
// @Produce json
// @Param id path int true "Blocked slot ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/blocked-slots/{id} [delete]
func (h *AdminHandler) DeleteBlockedSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid blocked slot ID")
	if !ok {
		return
	}

	if err := h.blockingUsecase.DeleteBlockedSlot(r.Context(), id); err != nil {
		writeBookingError(w, err, "Failed to delete blocked slot")
		return
	}

	response.Success(w, http.StatusOK, "Blocked slot deleted successfully", nil)
}

// ListBlockedDates handles listing closed days
// @Summary List blocked dates
// @Tags Admin
// @Security CookieAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/blocked-dates [get]
func (h *AdminHandler) ListBlockedDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.blockingUsecase.ListBlockedDates(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get blocked dates")
		return
	}

	response.Success(w, http.StatusOK, "Blocked dates retrieved successfully", dates)
}

// BlockDate handles closing a whole day
// @Summary Block a date
// @Tags Admin
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.BlockDateRequest true "Date"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/blocked-dates [post]
func (h *AdminHandler) BlockDate(w http.ResponseWriter, r *http.Request) {
	var req dto.BlockDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	blocked, err := h.blockingUsecase.BlockDate(r.Context(), &req)
	if err != nil {
		writeBookingError(w, err, "Failed to block date")
		return
	}

	response.Success(w, http.StatusCreated, "Date blocked successfully", blocked)
}

// UnblockDate handles reopening a day
// @Summary Unblock a date
// @Tags Admin
// @Security CookieAuth
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/blocked-dates/{date} [delete]
func (h *AdminHandler) UnblockDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if err := h.validator.Var(date, "date"); err != nil {
		response.BadRequest(w, "Invalid date format, use YYYY-MM-DD")
		return
	}

	if err := h.blockingUsecase.UnblockDate(r.Context(), date); err != nil {
		writeBookingError(w, err, "Failed to unblock date")
		return
	}

	response.Success(w, http.StatusOK, "Date unblocked successfully", nil)
}

func pathID(w http.ResponseWriter, r *http.Request, message string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, http.StatusBadRequest, message, nil)
		return 0, false
	}
	return id, true
}
