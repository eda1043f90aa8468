package converter

import (
	"studio-booking/internal/delivery/dto"
	"studio-booking/internal/domain/availability"
	"studio-booking/internal/domain/entity"
)

func BlockedSlotToResponse(slot *entity.BlockedSlot) *dto.BlockedSlotResponse {
	if slot == nil {
		return nil
	}

	return &dto.BlockedSlotResponse{
		ID:        slot.ID,
		Date:      slot.Date,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		Reason:    slot.Reason,
		CreatedAt: slot.CreatedAt,
	}
}

func BlockedSlotsToResponses(slots []entity.BlockedSlot) []dto.BlockedSlotResponse {
	responses := make([]dto.BlockedSlotResponse, len(slots))
	for i := range slots {
		responses[i] = *BlockedSlotToResponse(&slots[i])
	}
	return responses
}

func BlockedSlotsToBlocks(slots []entity.BlockedSlot) []availability.Block {
	blocks := make([]availability.Block, len(slots))
	for i, s := range slots {
		blocks[i] = availability.Block{
			ID:        s.ID,
			Date:      s.Date,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Reason:    s.Reason,
		}
	}
	return blocks
}

func BlockedDatesToResponses(dates []entity.BlockedDate) []dto.BlockedDateResponse {
	responses := make([]dto.BlockedDateResponse, len(dates))
	for i, d := range dates {
		responses[i] = dto.BlockedDateResponse{
			Date:      d.Date,
			Reason:    d.Reason,
			CreatedAt: d.CreatedAt,
		}
	}
	return responses
}

func BlockedDatesToStrings(dates []entity.BlockedDate) []string {
	values := make([]string, len(dates))
	for i, d := range dates {
		values[i] = d.Date
	}
	return values
}
