package dto

import "time"

// Request DTOs

type BlockedSlotInput struct {
	Date      string `json:"date" validate:"required,date"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"omitempty,hhmm"`
	Reason    string `json:"reason" validate:"omitempty,max=255"`
}

type ReplaceBlockedSlotsRequest struct {
	BlockedSlots []BlockedSlotInput `json:"blockedSlots" validate:"dive"`
}

type BlockSlotsRequest struct {
	Date       string   `json:"date" validate:"required,date"`
	StartTimes []string `json:"startTimes" validate:"required,min=1,dive,hhmm"`
	Reason     string   `json:"reason" validate:"omitempty,max=255"`
}

type UnblockSlotRequest struct {
	Date      string `json:"date" validate:"required,date"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
}

type BlockDateRequest struct {
	Date   string `json:"date" validate:"required,date"`
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

// Response DTOs

type BlockedSlotResponse struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type BlockedSlotListResponse struct {
	BlockedSlots []BlockedSlotResponse `json:"blockedSlots"`
	Total        int                   `json:"total"`
}

type BlockedDateResponse struct {
	Date      string    `json:"date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

type BlockedDateListResponse struct {
	BlockedDates []BlockedDateResponse `json:"blockedDates"`
	Total        int                   `json:"total"`
}
