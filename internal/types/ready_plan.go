package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const PlanStatusPending = "pending"

// ReadyPlan is a generated meetup proposal awaiting acceptance. Exactly one
// invitee per plan. CommitRuleMinAcceptances is persisted for downstream
// consumers; nothing in this service reads it back.
type ReadyPlan struct {
	ID                       uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID                   uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	City                     string         `gorm:"column:city;not null;index" json:"city"`
	TimeWindowStart          time.Time      `gorm:"column:time_window_start;not null" json:"time_window_start"`
	TimeWindowEnd            time.Time      `gorm:"column:time_window_end;not null" json:"time_window_end"`
	ProposedStartTime        time.Time      `gorm:"column:proposed_start_time;not null" json:"proposed_start_time"`
	ActivityType             string         `gorm:"column:activity_type;not null" json:"activity_type"`
	ActivityDescription      string         `gorm:"column:activity_description" json:"activity_description"`
	VenueOptions             datatypes.JSON `gorm:"column:venue_options;type:jsonb" json:"venue_options"`
	SelectedVenue            datatypes.JSON `gorm:"column:selected_venue;type:jsonb" json:"selected_venue"`
	InviteeIDs               datatypes.JSON `gorm:"column:invitee_ids;type:jsonb" json:"invitee_ids"`
	CommitRuleMinAcceptances int            `gorm:"column:commit_rule_min_acceptances;not null" json:"commit_rule_min_acceptances"`
	CommitRuleHours          int            `gorm:"column:commit_rule_hours;not null" json:"commit_rule_hours"`
	CommitRuleExpiresAt      time.Time      `gorm:"column:commit_rule_expires_at;not null" json:"commit_rule_expires_at"`
	SharedInterests          datatypes.JSON `gorm:"column:shared_interests;type:jsonb" json:"shared_interests"`
	CompatibilityScore       float64        `gorm:"column:compatibility_score" json:"compatibility_score"`
	Status                   string         `gorm:"column:status;not null;default:'pending'" json:"status"`
	CreatedAt                time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt                time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ReadyPlan) TableName() string { return "ready_plans" }
