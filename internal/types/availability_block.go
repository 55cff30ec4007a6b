package types

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityBlock is a raw free interval reported for one user.
type AvailabilityBlock struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	StartTime time.Time `gorm:"column:start_time;not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"column:end_time;not null" json:"end_time"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (AvailabilityBlock) TableName() string { return "user_availability_blocks" }
