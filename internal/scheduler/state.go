package scheduler

import (
	"strings"

	"github.com/google/uuid"
)

// State is the dedup state owned by one generation batch: invitees and
// day keys used so far, plus venue names (seeded from the user's prior
// plans in the city). State values are immutable; WithX methods return
// copies so the scheduling functions stay pure.
type State struct {
	usedInvitees map[uuid.UUID]struct{}
	usedDays     map[string]struct{}
	usedVenues   map[string]struct{}
}

func NewState(seedVenueNames []string) State {
	st := State{
		usedInvitees: map[uuid.UUID]struct{}{},
		usedDays:     map[string]struct{}{},
		usedVenues:   map[string]struct{}{},
	}
	for _, name := range seedVenueNames {
		if key := NormalizeVenueName(name); key != "" {
			st.usedVenues[key] = struct{}{}
		}
	}
	return st
}

// NormalizeVenueName is the venue dedup key: lowercased and trimmed.
func NormalizeVenueName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s State) HasInvitee(id uuid.UUID) bool {
	_, ok := s.usedInvitees[id]
	return ok
}

func (s State) HasDay(key string) bool {
	_, ok := s.usedDays[key]
	return ok
}

func (s State) HasVenue(name string) bool {
	_, ok := s.usedVenues[NormalizeVenueName(name)]
	return ok
}

func (s State) WithInvitee(id uuid.UUID) State {
	next := s.clone()
	next.usedInvitees[id] = struct{}{}
	return next
}

func (s State) WithDay(key string) State {
	next := s.clone()
	next.usedDays[key] = struct{}{}
	return next
}

func (s State) WithVenue(name string) State {
	next := s.clone()
	if key := NormalizeVenueName(name); key != "" {
		next.usedVenues[key] = struct{}{}
	}
	return next
}

func (s State) clone() State {
	next := State{
		usedInvitees: make(map[uuid.UUID]struct{}, len(s.usedInvitees)),
		usedDays:     make(map[string]struct{}, len(s.usedDays)),
		usedVenues:   make(map[string]struct{}, len(s.usedVenues)),
	}
	for id := range s.usedInvitees {
		next.usedInvitees[id] = struct{}{}
	}
	for key := range s.usedDays {
		next.usedDays[key] = struct{}{}
	}
	for name := range s.usedVenues {
		next.usedVenues[name] = struct{}{}
	}
	return next
}
