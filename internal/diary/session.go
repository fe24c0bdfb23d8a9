package diary

import (
	"encoding/json"
	"time"
)

// Session is a complete workout session with its exercises and sets,
// folded out of the flat view rows. Session-level fields keep the
// values of the first row seen for that session id.
type Session struct {
	SessionID         string          `json:"sessionId"`
	SessionDate       *time.Time      `json:"sessionDate"`
	DayLabel          *string         `json:"dayLabel"`
	DayOfWeek         *string         `json:"dayOfWeek"`
	FocusArea         *string         `json:"focusArea"`
	SessionNumber     *int            `json:"sessionNumber"`
	OverallDifficulty *int            `json:"overallDifficulty"`
	DurationMinutes   *int            `json:"durationMinutes"`
	Completed         *bool           `json:"sessionCompleted"`
	State             json.RawMessage `json:"sessionState"`
	WeekID            *string         `json:"weekId"`
	WeekNumber        *int            `json:"weekNumber"`
	PlanID            *string         `json:"planId"`
	Exercises         []Exercise      `json:"exercises"`
}

// IsCompleted treats a missing completed flag as not completed.
func (s *Session) IsCompleted() bool {
	return s.Completed != nil && *s.Completed
}

// HasPersonalRecord reports whether any set of any exercise in the
// session is flagged as a PR.
func (s *Session) HasPersonalRecord() bool {
	for i := range s.Exercises {
		for j := range s.Exercises[i].Sets {
			if s.Exercises[i].Sets[j].PersonalRecord {
				return true
			}
		}
	}
	return false
}

type Exercise struct {
	ExerciseRowID  string  `json:"exerciseRowId"`
	ExerciseID     *string `json:"exerciseId"`
	ExerciseName   *string `json:"exerciseName"`
	MuscleGroup    *string `json:"muscleGroup"`
	SetsPlanned    *int    `json:"setsPlanned"`
	RepScheme      *string `json:"repScheme"`
	RIR            *int    `json:"rir"`
	Equipment      *string `json:"equipment"`
	Tier           *string `json:"tier"`
	OrderInSession *int    `json:"orderInSession"`
	Sets           []Set   `json:"sets"`
}

type Set struct {
	SetID      string     `json:"setId"`
	SetNo      *int       `json:"setNo"`
	RepsDone   *int       `json:"repsDone"`
	WeightKg   *float64   `json:"weightKg"`
	RPE        *float64   `json:"rpe"`
	RecordedAt *time.Time `json:"recordedAt"`
	// PersonalRecord is a client-side heuristic flag, it is never
	// read from or written to the backend.
	PersonalRecord bool `json:"pr"`
}
