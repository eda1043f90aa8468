package dto

import (
	"time"

	"studio-booking/internal/domain/entity"
)

// Request DTOs

type SubmitReviewRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Role     string `json:"role" validate:"omitempty,max=255"`
	Content  string `json:"content" validate:"required,max=5000"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Category string `json:"category" validate:"omitempty,max=100"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
}

// ReviewUpdates is a partial update; nil fields are left unchanged.
type ReviewUpdates struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Role     *string `json:"role" validate:"omitempty,max=255"`
	Content  *string `json:"content" validate:"omitempty,min=1,max=5000"`
	Rating   *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Category *string `json:"category" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Status   *string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

type UpdateReviewRequest struct {
	ReviewID int64          `json:"reviewId" validate:"required"`
	Updates  *ReviewUpdates `json:"updates" validate:"required"`
}

type ReviewStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// Response DTOs

type ReviewResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	Category  string    `json:"category"`
	Email     string    `json:"email,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int              `json:"total"`
}

type AdminReviewListResponse struct {
	Reviews []ReviewResponse    `json:"reviews"`
	Counts  entity.ReviewCounts `json:"counts"`
}

type SubmitReviewResponse struct {
	ID int64 `json:"id"`
}
