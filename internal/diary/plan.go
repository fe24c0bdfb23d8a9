package diary

import (
	"strings"
	"time"
)

// TrainingPlan is the user's active plan row. Days maps a lowercase
// weekday name ("monday" ...) to the exercises planned for it.
type TrainingPlan struct {
	PlanID     string              `json:"planId"`
	UserID     string              `json:"userId"`
	SplitType  *string             `json:"splitType"`
	Goal       *string             `json:"goal"`
	Level      *string             `json:"level"`
	PlanStatus *string             `json:"planStatus"`
	Days       map[string][]string `json:"days"`
}

// TodayWorkout holds the slice of the active plan scheduled for one
// weekday, derived locally and never persisted.
type TodayWorkout struct {
	Day       string   `json:"day"`
	Exercises []string `json:"exercises"`
}

// WorkoutForDay picks today's planned exercises out of the plan, nil
// when the plan has nothing scheduled for that day.
func (p *TrainingPlan) WorkoutForDay(t time.Time) *TodayWorkout {
	if p == nil || p.Days == nil {
		return nil
	}
	day := strings.ToLower(t.Weekday().String())
	exercises := p.Days[day]
	if len(exercises) == 0 {
		return nil
	}
	return &TodayWorkout{
		Day:       day,
		Exercises: exercises,
	}
}
