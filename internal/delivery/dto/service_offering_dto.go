package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type ServiceOfferingRequest struct {
	Slug          string          `json:"slug" validate:"required,min=2,max=100"`
	Title         string          `json:"title" validate:"required,min=2,max=255"`
	Description   string          `json:"description"`
	StartingPrice decimal.Decimal `json:"startingPrice"`
	CustomPricing bool            `json:"customPricing"`
	SortOrder     int             `json:"sortOrder" validate:"gte=0"`
}

// Response DTOs

type ServiceOfferingResponse struct {
	ID            uuid.UUID       `json:"id"`
	Slug          string          `json:"slug"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	StartingPrice decimal.Decimal `json:"startingPrice"`
	PriceLabel    string          `json:"priceLabel"`
	CustomPricing bool            `json:"customPricing"`
	SortOrder     int             `json:"sortOrder"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type ServiceOfferingListResponse struct {
	Services []ServiceOfferingResponse `json:"services"`
	Total    int                       `json:"total"`
}
