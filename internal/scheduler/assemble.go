package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/SitaaronKL/thenetwork-backend/internal/types"
)

// Draft is everything one iteration resolved before persistence.
type Draft struct {
	Invitee         Candidate
	Window          Window
	ActivityType    string
	Description     string
	Venue           types.Venue
	VenueOptions    []types.Venue
	SharedInterests []string
}

// AssemblePlan turns a draft into the persistable record. The commit
// deadline is always the window start plus CommitRuleHours, regardless
// of which fallback produced the window.
func AssemblePlan(userID uuid.UUID, city string, d Draft) (*types.ReadyPlan, error) {
	venueOptions := d.VenueOptions
	if len(venueOptions) == 0 {
		venueOptions = []types.Venue{d.Venue}
	}

	optionsJSON, err := json.Marshal(venueOptions)
	if err != nil {
		return nil, fmt.Errorf("marshal venue options: %w", err)
	}
	venueJSON, err := json.Marshal(d.Venue)
	if err != nil {
		return nil, fmt.Errorf("marshal selected venue: %w", err)
	}
	inviteesJSON, err := json.Marshal([]string{d.Invitee.ID.String()})
	if err != nil {
		return nil, fmt.Errorf("marshal invitee ids: %w", err)
	}
	interests := d.SharedInterests
	if interests == nil {
		interests = []string{}
	}
	interestsJSON, err := json.Marshal(interests)
	if err != nil {
		return nil, fmt.Errorf("marshal shared interests: %w", err)
	}

	return &types.ReadyPlan{
		UserID:                   userID,
		City:                     city,
		TimeWindowStart:          d.Window.Start,
		TimeWindowEnd:            d.Window.End,
		ProposedStartTime:        d.Window.ProposedTime,
		ActivityType:             d.ActivityType,
		ActivityDescription:      d.Description,
		VenueOptions:             datatypes.JSON(optionsJSON),
		SelectedVenue:            datatypes.JSON(venueJSON),
		InviteeIDs:               datatypes.JSON(inviteesJSON),
		CommitRuleMinAcceptances: CommitRuleMinAcceptances,
		CommitRuleHours:          CommitRuleHours,
		CommitRuleExpiresAt:      d.Window.Start.Add(CommitRuleHours * time.Hour),
		SharedInterests:          datatypes.JSON(interestsJSON),
		CompatibilityScore:       d.Invitee.Similarity,
		Status:                   types.PlanStatusPending,
	}, nil
}
