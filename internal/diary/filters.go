package diary

import "time"

// DateRange holds inclusive ISO date bounds (YYYY-MM-DD).
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Filters narrow the sessions fetch. Nil means "not filtering on it".
// PRAchieved is applied client-side only, the backend knows nothing
// about personal records.
type Filters struct {
	DateRange  *DateRange `json:"dateRange"`
	FocusArea  *string    `json:"focusArea"`
	PRAchieved *bool      `json:"prAchieved"`
}

// Merge shallow-merges the non-nil fields of other into a copy of f.
// An empty partial leaves everything unchanged.
func (f Filters) Merge(other Filters) Filters {
	if other.DateRange != nil {
		f.DateRange = other.DateRange
	}
	if other.FocusArea != nil {
		f.FocusArea = other.FocusArea
	}
	if other.PRAchieved != nil {
		f.PRAchieved = other.PRAchieved
	}
	return f
}

// DefaultFilters covers the trailing 30 days, no focus area, no PR flag.
func DefaultFilters(now time.Time) Filters {
	return Filters{
		DateRange: &DateRange{
			From: now.AddDate(0, 0, -30).Format(time.DateOnly),
			To:   now.Format(time.DateOnly),
		},
	}
}
