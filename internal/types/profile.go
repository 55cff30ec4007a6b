package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile mirrors the auth user one-to-one; the id is the auth user id,
// not generated locally.
type Profile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FullName  string         `gorm:"column:full_name" json:"full_name"`
	School    string         `gorm:"column:school" json:"school,omitempty"`
	Location  string         `gorm:"column:location" json:"location,omitempty"`
	Interests datatypes.JSON `gorm:"column:interests;type:jsonb" json:"interests,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
