package scheduler

import (
	"github.com/SitaaronKL/thenetwork-backend/internal/types"
)

// PickVenue takes the provider's already-ranked list and returns the
// first venue not used earlier in the batch (or in the user's prior
// plans for this city). The pick is recorded in the returned state so
// the same venue cannot host two plans in one batch.
func PickVenue(st State, venues []types.Venue) (types.Venue, State, bool) {
	for _, v := range venues {
		if v.Name == "" {
			continue
		}
		if st.HasVenue(v.Name) {
			continue
		}
		return v, st.WithVenue(v.Name), true
	}
	return types.Venue{}, st, false
}

// PlaceholderVenue synthesizes a stand-in when the provider has nothing
// usable. Placeholders are never recorded as used: they are not real
// venues the dedup rule needs to protect.
func PlaceholderVenue(activityType, city string) types.Venue {
	name := "Local Restaurant"
	switch activityType {
	case "coffee":
		name = "Local Coffee Shop"
	case "walk":
		name = "Local Park"
	}
	return types.Venue{
		Name:     name,
		Address:  city,
		Rating:   4.5,
		Distance: "0.5 mi",
	}
}
