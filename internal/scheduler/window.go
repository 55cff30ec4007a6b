package scheduler

import (
	"sort"
)

// IntersectWindows clips every creator window against every invitee block
// and keeps the intersections lasting at least MinOverlap. The proposed
// time is the creator's original proposal when it still falls inside the
// clipped interval, otherwise the interval midpoint. Each overlap scores
// the creator window's score plus the availability-match bonus.
func IntersectWindows(creator []Window, invitee []Block) []Window {
	var overlaps []Window
	for _, w := range creator {
		for _, b := range invitee {
			if !(w.Start.Before(b.End) && w.End.After(b.Start)) {
				continue
			}
			start := w.Start
			if b.Start.After(start) {
				start = b.Start
			}
			end := w.End
			if b.End.Before(end) {
				end = b.End
			}
			if end.Sub(start) < MinOverlap {
				continue
			}
			proposed := w.ProposedTime
			if proposed.Before(start) || proposed.After(end) {
				proposed = start.Add(end.Sub(start) / 2)
			}
			overlaps = append(overlaps, Window{
				Start:        start,
				End:          end,
				ProposedTime: proposed,
				Score:        w.Score + availabilityMatchBonus,
			})
		}
	}
	return overlaps
}

// SelectWindow resolves the meeting window for one iteration, cascading:
//
//  1. the best-scored creator/invitee overlap whose day is still free
//     (with AllowNextBestDay, the best overlap on any free day);
//  2. the first creator window on a free day — reached when the invitee
//     reported no blocks, when no overlap met the minimum duration, or,
//     under the default tie-break, when the best overlap's day was taken;
//  3. the creator's highest-scored window, duplicate day allowed.
//
// Only an empty creator list yields no window. On success the chosen
// window's day key is recorded in the returned state.
func SelectWindow(st State, creator []Window, invitee []Block, cfg Config) (Window, State, bool) {
	overlaps := IntersectWindows(creator, invitee)
	sort.SliceStable(overlaps, func(i, j int) bool {
		return overlaps[i].Score > overlaps[j].Score
	})

	if len(overlaps) > 0 {
		if best := overlaps[0]; !st.HasDay(DayKey(best.Start)) {
			return best, st.WithDay(DayKey(best.Start)), true
		}
		if cfg.AllowNextBestDay {
			for _, ov := range overlaps[1:] {
				if !st.HasDay(DayKey(ov.Start)) {
					return ov, st.WithDay(DayKey(ov.Start)), true
				}
			}
		}
	}

	for _, w := range creator {
		if !st.HasDay(DayKey(w.Start)) {
			return w, st.WithDay(DayKey(w.Start)), true
		}
	}

	// Last resort: every day is taken, reuse the strongest window anyway.
	if len(creator) > 0 {
		best := creator[0]
		for _, w := range creator[1:] {
			if w.Score > best.Score {
				best = w
			}
		}
		return best, st.WithDay(DayKey(best.Start)), true
	}

	return Window{}, st, false
}
