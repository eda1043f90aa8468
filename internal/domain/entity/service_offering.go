package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ServiceOffering is one entry of the studio's service catalog
type ServiceOffering struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	Slug          string          `gorm:"type:varchar(100);uniqueIndex;not null"`
	Title         string          `gorm:"type:varchar(255);not null"`
	Description   string          `gorm:"type:text"`
	StartingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CustomPricing bool            `gorm:"default:false"`
	SortOrder     int             `gorm:"default:0"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

func (ServiceOffering) TableName() string {
	return "service_offerings"
}

func (s *ServiceOffering) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DefaultServiceOfferings seeds an empty catalog
func DefaultServiceOfferings() []ServiceOffering {
	return []ServiceOffering{
		{Slug: "wedding", Title: "Wedding Photography", Description: "Full-day coverage of your wedding, from preparation to the last dance.", StartingPrice: decimal.NewFromInt(1499), SortOrder: 1},
		{Slug: "portrait", Title: "Portrait Sessions", Description: "Individual, couple and family portraits in studio or on location.", StartingPrice: decimal.NewFromInt(299), SortOrder: 2},
		{Slug: "event", Title: "Event Coverage", Description: "Corporate events, parties and celebrations.", StartingPrice: decimal.NewFromInt(599), SortOrder: 3},
		{Slug: "destination", Title: "Destination Shoots", Description: "Sessions anywhere in the world, planned with you.", StartingPrice: decimal.Zero, CustomPricing: true, SortOrder: 4},
		{Slug: "commercial", Title: "Commercial Photography", Description: "Product, brand and editorial photography.", StartingPrice: decimal.NewFromInt(799), SortOrder: 5},
		{Slug: "editing", Title: "Photo Editing Services", Description: "Professional retouching and color grading.", StartingPrice: decimal.NewFromInt(49), SortOrder: 6},
	}
}
