package entity

import "time"

// BlockedSlot marks one slot of one date as unavailable for booking
type BlockedSlot struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_blocked_slots_date_start" json:"date"`
	StartTime string    `gorm:"type:varchar(5);not null;uniqueIndex:idx_blocked_slots_date_start" json:"startTime"`
	EndTime   string    `gorm:"type:varchar(5);not null" json:"endTime"`
	Reason    string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (BlockedSlot) TableName() string {
	return "blocked_slots"
}

// BlockedDate marks a whole day as unavailable
type BlockedDate struct {
	Date      string    `gorm:"type:varchar(10);primaryKey" json:"date"`
	Reason    string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (BlockedDate) TableName() string {
	return "blocked_dates"
}
