package converter

import (
	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/domain/entity"
)

func ServiceOfferingToResponse(offering *entity.ServiceOffering) *dto.ServiceOfferingResponse {
	if offering == nil {
		return nil
	}

	label := "Custom pricing"
	if !offering.CustomPricing {
		places := int32(2)
		if offering.StartingPrice.IsInteger() {
			places = 0
		}
		label = "Starting at $" + offering.StartingPrice.StringFixed(places)
	}

	return &dto.ServiceOfferingResponse{
		ID:            offering.ID,
		Slug:          offering.Slug,
		Title:         offering.Title,
		Description:   offering.Description,
		StartingPrice: offering.StartingPrice,
		PriceLabel:    label,
		CustomPricing: offering.CustomPricing,
		SortOrder:     offering.SortOrder,
		CreatedAt:     offering.CreatedAt,
		UpdatedAt:     offering.UpdatedAt,
	}
}

func ServiceOfferingsToResponses(offerings []entity.ServiceOffering) []dto.ServiceOfferingResponse {
	responses := make([]dto.ServiceOfferingResponse, len(offerings))
	for i := range offerings {
		responses[i] = *ServiceOfferingToResponse(&offerings[i])
	}
	return responses
}
