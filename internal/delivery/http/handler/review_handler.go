package handler

import (
	"encoding/json"
	"net/http"

	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/response"
	"studio-booking/pkg/validator"
)

type ReviewHandler struct {
	reviewUsecase usecase.ReviewUsecase
	validator     *validator.CustomValidator
}

func NewReviewHandler(reviewUsecase usecase.ReviewUsecase, validator *validator.CustomValidator) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
		validator:     validator,
	}
}

// GetTestimonials handles the public testimonial feed
// @Summary List approved testimonials
// @Tags Testimonials
// @Produce json
// @Success 200 {object} response.Response
// @Router /testimonial [get]
func (h *ReviewHandler) GetTestimonials(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewUsecase.ListApproved(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get testimonials")
		return
	}

	response.Success(w, http.StatusOK, "Testimonials retrieved successfully", reviews)
}

// Submit handles a new testimonial
// @Summary Submit a testimonial
// @Tags Testimonials
// @Accept json
// @Produce json
// @Param request body dto.SubmitReviewRequest true "Testimonial"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /testimonial [post]
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	created, err := h.reviewUsecase.Submit(r.Context(), &req)
	if err != nil {
		writeReviewError(w, err, "Failed to submit testimonial")
		return
	}

	response.Success(w, http.StatusCreated, "Thank you! Your testimonial will appear once approved", created)
}

// Update handles PUT /testimonial with a partial update
// @Summary Update a testimonial
// @Tags Testimonials
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateReviewRequest true "Updates"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /testimonial [put]
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.reviewUsecase.Update(r.Context(), req.ReviewID, req.Updates)
	if err != nil {
		writeReviewError(w, err, "Failed to update testimonial")
		return
	}

	response.Success(w, http.StatusOK, "Testimonial updated successfully", review)
}

// Delete handles DELETE /testimonial
// @Summary Delete a testimonial
// @Tags Testimonials
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param request body dto.DeleteByIDRequest true "Testimonial"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /testimonial [delete]
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req dto.DeleteByIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.reviewUsecase.Delete(r.Context(), req.ID); err != nil {
		writeReviewError(w, err, "Failed to delete testimonial")
		return
	}

	response.Success(w, http.StatusOK, "Testimonial deleted successfully", nil)
}

// AdminList handles the moderation queue
// @Summary List all testimonials with counts
// @Tags Admin
// @Security CookieAuth
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} response.Response
// @Router /admin/testimonials [get]
func (h *ReviewHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewUsecase.ListAll(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeReviewError(w, err, "Failed to get testimonials")
		return
	}

	response.Success(w, http.StatusOK, "Testimonials retrieved successfully", reviews)
}

// SetStatus handles approving or rejecting a testimonial
// @Summary Moderate a testimonial
// @Tags Admin
// @Security CookieAuth
// @Accept json
// @Produce json
// @Param id path int true "Testimonial ID"
// @Param request body dto.ReviewStatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/testimonials/{id}/status [put]
func (h *ReviewHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Invalid testimonial ID")
	if !ok {
		return
	}

	var req dto.ReviewStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	review, err := h.reviewUsecase.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeReviewError(w, err, "Failed to update testimonial")
		return
	}

	response.Success(w, http.StatusOK, "Testimonial updated successfully", review)
}

func writeReviewError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrReviewNotFound:
		response.NotFound(w, "Testimonial not found")
	case usecase.ErrInvalidReviewStatus, usecase.ErrInvalidRating, usecase.ErrEmptyReviewUpdate:
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
