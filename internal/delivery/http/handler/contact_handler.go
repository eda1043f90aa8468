package handler

import (
	"encoding/json"
	"net/http"

	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/response"
	"studio-booking/pkg/validator"
)

type ContactHandler struct {
	contactUsecase usecase.ContactUsecase
	validator      *validator.CustomValidator
}

func NewContactHandler(contactUsecase usecase.ContactUsecase, validator *validator.CustomValidator) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
		validator:      validator,
	}
}

// SendEmail handles the contact form
// @Summary Send a contact message to the studio
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body dto.SendEmailRequest true "Message"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /send-email [post]
func (h *ContactHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.SendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.contactUsecase.SendContact(r.Context(), &req); err != nil {
		response.InternalServerError(w, "Failed to send email")
		return
	}

	response.Success(w, http.StatusOK, "Email sent successfully", nil)
}
