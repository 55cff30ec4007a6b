package scheduler

import "strings"

const maxSharedInterests = 5

// fallbackActivities is rotated through when a candidate pair has no
// shared-interest signal, so consecutive iterations still vary.
var fallbackActivities = []string{"coffee", "walk", "casual_food", "museum", "art"}

// FallbackActivity maps an iteration index onto the rotation. The index
// is passed explicitly so activity diversity is testable on its own.
func FallbackActivity(iteration int) string {
	if iteration < 0 {
		iteration = -iteration
	}
	return fallbackActivities[iteration%len(fallbackActivities)]
}

// NormalizeInterests trims, drops empties, dedups case-insensitively
// while preserving order, and caps the list for the classifier prompt.
func NormalizeInterests(interests []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, raw := range interests {
		interest := strings.TrimSpace(raw)
		if interest == "" {
			continue
		}
		key := strings.ToLower(interest)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, interest)
		if len(out) == maxSharedInterests {
			break
		}
	}
	return out
}
