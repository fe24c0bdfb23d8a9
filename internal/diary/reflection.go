package diary

import "time"

// Challenge is a struggle noted in a weekly reflection, with an
// optional solution the user came up with.
type Challenge struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	Solution *string `json:"solution"`
}

// WeeklyReflection aggregates one calendar week of training: session
// counts, volume, PRs, and the averaged mood/sleep/soreness entries,
// plus the free-text parts.
type WeeklyReflection struct {
	ID                string      `json:"id"`
	UserID            string      `json:"userId"`
	WeekStartDate     time.Time   `json:"weekStartDate"`
	WeekEndDate       time.Time   `json:"weekEndDate"`
	PlannedSessions   int         `json:"plannedSessions"`
	CompletedSessions int         `json:"completedSessions"`
	TotalVolume       float64     `json:"totalVolume"`
	NewPRs            int         `json:"newPrs"`
	CardioMinutes     int         `json:"cardioMinutes"`
	AvgMood           float64     `json:"avgMood"`
	AvgSleep          float64     `json:"avgSleep"`
	AvgSoreness       float64     `json:"avgSoreness"`
	Challenges        []Challenge `json:"challenges"`
	Wins              []string    `json:"wins"`
	NextWeekFocus     string      `json:"nextWeekFocus"`
	NextWeekTarget    int         `json:"nextWeekSessionTarget"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// WeekStart returns the Monday midnight starting the week that
// contains t, in t's location. Used to resolve the "current week"
// reflection singleton.
func WeekStart(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -daysSinceMonday).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
