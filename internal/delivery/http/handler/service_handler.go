package handler

import (
	"encoding/json"
	"net/http"

	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/response"
	"studio-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ServiceHandler struct {
	catalogUsecase usecase.ServiceCatalogUsecase
	validator      *validator.CustomValidator
}

func NewServiceHandler(catalogUsecase usecase.ServiceCatalogUsecase, validator *validator.CustomValidator) *ServiceHandler {
	return &ServiceHandler{
		catalogUsecase: catalogUsecase,
		validator:      validator,
	}
}

// List handles the public service catalog
// @Summary List services
// @Tags Services
// @Produce json
// @Success 200 {object} response.Response
// @Router /services [get]
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogUsecase.List(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get services")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Services retrieved successfully", services.Services, &response.Meta{
		Total: int64(services.Total),
	})
}

// Create handles adding a service
// @Summary Create a service
// @Tags Services
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.ServiceOfferingRequest true "Service"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/services [post]
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ServiceOfferingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	service, err := h.catalogUsecase.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "Failed to create service")
		return
	}

	response.Success(w, http.StatusCreated, "Service created successfully", service)
}

// Update handles editing a service
// @Summary Update a service
// @Tags Services
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param request body dto.ServiceOfferingRequest true "Service"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/services/{id} [put]
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid service ID", nil)
		return
	}

	var req dto.ServiceOfferingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	service, err := h.catalogUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to update service")
		return
	}

	response.Success(w, http.StatusOK, "Service updated successfully", service)
}

// Delete handles removing a service
// @Summary Delete a service
// @Tags Services
// @Security CookieAuth
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/services/{id} [delete]
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid service ID", nil)
		return
	}

	if err := h.catalogUsecase.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "Failed to delete service")
		return
	}

	response.Success(w, http.StatusOK, "Service deleted successfully", nil)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrServiceNotFound:
		response.NotFound(w, "Service not found")
	case usecase.ErrServiceSlugExists:
		response.Conflict(w, "A service with this slug already exists")
	case usecase.ErrInvalidPrice:
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
