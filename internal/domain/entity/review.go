package entity

import "time"

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}

// Review is a customer testimonial. Only approved reviews are public.
type Review struct {
	ID        int64        `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string       `gorm:"type:varchar(255);not null" json:"name"`
	Role      string       `gorm:"type:varchar(255)" json:"role"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	Rating    int          `gorm:"not null" json:"rating"`
	Category  string       `gorm:"type:varchar(100)" json:"category"`
	Email     string       `gorm:"type:varchar(255)" json:"email,omitempty"`
	Status    ReviewStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewCounts summarises reviews by status
type ReviewCounts struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
	Rejected int64 `json:"rejected"`
}
