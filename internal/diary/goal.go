package diary

import "time"

// GoalType can be one of:
//   - short_term
//   - long_term
type GoalType string

const (
	GoalTypeShortTerm GoalType = "short_term"
	GoalTypeLongTerm  GoalType = "long_term"
)

func (gt GoalType) String() string {
	return string(gt)
}

func (gt GoalType) IsValid() bool {
	switch gt {
	case GoalTypeShortTerm, GoalTypeLongTerm:
		return true
	default:
		return false
	}
}

type Goal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	TargetDate  time.Time `json:"targetDate"`
	Type        GoalType  `json:"type"`
	// Progress is 0-100, Completed holds iff Progress == 100
	Progress  int       `json:"progress"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// Normalize clamps progress into [0, 100] and re-derives the
// completed flag from it.
func (g *Goal) Normalize() {
	if g.Progress < 0 {
		g.Progress = 0
	}
	if g.Progress > 100 {
		g.Progress = 100
	}
	g.Completed = g.Progress == 100
}
