// Package scheduler holds the plan-scheduling core: greedy candidate
// selection under a recency cap, creator/invitee availability
// intersection, and batch-scoped dedup of invitees, days, and venues.
// Every function is pure; all lookups and writes happen in the caller.
package scheduler

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxPlansPerBatch caps one generation request.
	MaxPlansPerBatch = 5

	// RecentPlanCap is the number of plans with the same invitee allowed
	// inside RecencyWindowDays before the invitee is skipped.
	RecentPlanCap     = 2
	RecencyWindowDays = 14

	// MinOverlap is the shortest usable creator/invitee overlap.
	MinOverlap = time.Hour

	// availabilityMatchBonus is added to a creator window's score when a
	// real invitee overlap exists. Fixed, not proportional to overlap size.
	availabilityMatchBonus = 0.2

	CommitRuleHours          = 24
	CommitRuleMinAcceptances = 2
)

// Candidate is one entry of the externally ranked connection list,
// ordered descending by compatibility upstream.
type Candidate struct {
	ID              uuid.UUID
	FullName        string
	School          string
	Similarity      float64
	SharedInterests []string
}

// Window is a scored interval of likely creator availability.
type Window struct {
	Start        time.Time
	End          time.Time
	ProposedTime time.Time
	Score        float64
}

// Block is a raw free interval reported for the invitee.
type Block struct {
	Start time.Time
	End   time.Time
}

// Config carries the scheduling knobs.
type Config struct {
	// AllowNextBestDay controls the day-collision tie-break. When false
	// (the default), a best-scored overlap landing on an already-used day
	// abandons the overlap list entirely and the selection falls through
	// to the creator's own windows. When true, the next-best overlap on a
	// free day is taken instead.
	AllowNextBestDay bool
}

// StepKind is the outcome of one orchestrator iteration.
type StepKind int

const (
	StepSelected StepKind = iota
	StepNoCandidate
	StepNoWindow
	StepNoVenue
	StepPersistFailed
)

func (k StepKind) String() string {
	switch k {
	case StepSelected:
		return "selected"
	case StepNoCandidate:
		return "no_candidate"
	case StepNoWindow:
		return "no_window"
	case StepNoVenue:
		return "no_venue"
	case StepPersistFailed:
		return "persist_failed"
	}
	return "unknown"
}

// DayKey is the calendar date of an instant, UTC, used to keep two plans
// in one batch off the same day.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SelectCandidate walks the ranked list once and returns the first
// candidate not already used in this batch and under the recency cap.
// On success the candidate is recorded in the returned state.
func SelectCandidate(st State, ranked []Candidate, recentCounts map[uuid.UUID]int) (Candidate, State, bool) {
	for _, c := range ranked {
		if st.HasInvitee(c.ID) {
			continue
		}
		if recentCounts[c.ID] >= RecentPlanCap {
			continue
		}
		return c, st.WithInvitee(c.ID), true
	}
	return Candidate{}, st, false
}
