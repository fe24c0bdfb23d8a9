package diary

import "strings"

// MarkPersonalRecords flags, in place, every set whose weight strictly
// exceeds all previously recorded weights for the same exercise name.
// Sessions are expected newest-first (the query's sort), so the walk
// goes from the back of the slice to honor chronology. Purely a
// client-side heuristic.
func MarkPersonalRecords(sessions []Session) {
	best := make(map[string]float64)
	for si := len(sessions) - 1; si >= 0; si-- {
		session := &sessions[si]
		for ei := range session.Exercises {
			exercise := &session.Exercises[ei]
			if exercise.ExerciseName == nil {
				continue
			}
			name := strings.ToLower(*exercise.ExerciseName)
			for ki := range exercise.Sets {
				set := &exercise.Sets[ki]
				set.PersonalRecord = false
				if set.WeightKg == nil {
					continue
				}
				top, seen := best[name]
				if !seen || *set.WeightKg > top {
					best[name] = *set.WeightKg
					if seen {
						set.PersonalRecord = true
					}
				}
			}
		}
	}
}

// FilterByPersonalRecord keeps only the sessions whose PR presence
// matches want. Order is preserved.
func FilterByPersonalRecord(sessions []Session, want bool) []Session {
	filtered := make([]Session, 0, len(sessions))
	for i := range sessions {
		if sessions[i].HasPersonalRecord() == want {
			filtered = append(filtered, sessions[i])
		}
	}
	return filtered
}
