package converter

import (
	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/domain/entity"
)

// ReviewToResponse converts a Review entity to ReviewResponse DTO.
// Email is only exposed when includeEmail is set.
func ReviewToResponse(review *entity.Review, includeEmail bool) *dto.ReviewResponse {
	if review == nil {
		return nil
	}

	response := &dto.ReviewResponse{
		ID:        review.ID,
		Name:      review.Name,
		Role:      review.Role,
		Content:   review.Content,
		Rating:    review.Rating,
		Category:  review.Category,
		Status:    string(review.Status),
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
	if includeEmail {
		response.Email = review.Email
	}
	return response
}

func ReviewsToResponses(reviews []entity.Review, includeEmail bool) []dto.ReviewResponse {
	responses := make([]dto.ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = *ReviewToResponse(&reviews[i], includeEmail)
	}
	return responses
}
