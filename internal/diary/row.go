package diary

import (
	"encoding/json"
	"time"
)

// FullViewRow is a single flat row of the workout_full_view join
// (plan -> week -> session -> exercise -> set). Any level below the
// plan can be absent, so every field is nullable and presence is
// checked on the id pointers, never on zero values.
type FullViewRow struct {
	PlanID     *string `json:"planId"`
	UserID     *string `json:"userId"`
	SplitType  *string `json:"splitType"`
	Goal       *string `json:"goal"`
	Level      *string `json:"level"`
	PlanStatus *string `json:"planStatus"`

	WeekID        *string    `json:"weekId"`
	WeekNumber    *int       `json:"weekNumber"`
	WeekStartDate *time.Time `json:"weekStartDate"`

	SessionID         *string         `json:"sessionId"`
	DayLabel          *string         `json:"dayLabel"`
	SessionDate       *time.Time      `json:"sessionDate"`
	DayOfWeek         *string         `json:"dayOfWeek"`
	FocusArea         *string         `json:"focusArea"`
	SessionNumber     *int            `json:"sessionNumber"`
	OverallDifficulty *int            `json:"overallDifficulty"`
	DurationMinutes   *int            `json:"durationMinutes"`
	SessionCompleted  *bool           `json:"sessionCompleted"`
	SessionState      json.RawMessage `json:"sessionState"`

	ExerciseRowID  *string `json:"exerciseRowId"`
	ExerciseID     *string `json:"exerciseId"`
	ExerciseName   *string `json:"exerciseName"`
	MuscleGroup    *string `json:"muscleGroup"`
	SetsPlanned    *int    `json:"setsPlanned"`
	RepScheme      *string `json:"repScheme"`
	RIR            *int    `json:"rir"`
	Equipment      *string `json:"equipment"`
	Tier           *string `json:"tier"`
	OrderInSession *int    `json:"orderInSession"`

	SetID      *string    `json:"setId"`
	SetNo      *int       `json:"setNo"`
	RepsDone   *int       `json:"repsDone"`
	WeightKg   *float64   `json:"weightKg"`
	RPE        *float64   `json:"rpe"`
	RecordedAt *time.Time `json:"recordedAt"`
}
