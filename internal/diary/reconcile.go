package diary

// Reconcile folds the flat view rows into nested sessions. It is a
// single linear pass over the rows, keeping sessions in first-seen
// order and trusting the query's intra-session ordering (session date
// desc, order in session, set number).
//
// Rules, per level:
//   - a row without a session id is skipped;
//   - session fields are taken from the first row seen for that
//     session id, repeated rows never overwrite them;
//   - an exercise is created when its row id first appears within the
//     session, a row without an exercise row id contributes to the
//     session level only;
//   - a set is appended once per set id, duplicates produced by the
//     join fan-out are dropped.
//
// Reconcile never fails: missing fields stay nil and propagate as-is.
func Reconcile(rows []FullViewRow) []Session {
	sessions := make([]Session, 0, len(rows))
	sessionIdx := make(map[string]int)

	for i := range rows {
		row := &rows[i]
		if row.SessionID == nil {
			continue
		}

		si, ok := sessionIdx[*row.SessionID]
		if !ok {
			sessions = append(sessions, Session{
				SessionID:         *row.SessionID,
				SessionDate:       row.SessionDate,
				DayLabel:          row.DayLabel,
				DayOfWeek:         row.DayOfWeek,
				FocusArea:         row.FocusArea,
				SessionNumber:     row.SessionNumber,
				OverallDifficulty: row.OverallDifficulty,
				DurationMinutes:   row.DurationMinutes,
				Completed:         row.SessionCompleted,
				State:             row.SessionState,
				WeekID:            row.WeekID,
				WeekNumber:        row.WeekNumber,
				PlanID:            row.PlanID,
				Exercises:         []Exercise{},
			})
			si = len(sessions) - 1
			sessionIdx[*row.SessionID] = si
		}
		session := &sessions[si]

		if row.ExerciseRowID == nil {
			continue
		}

		// per-session exercise counts are small (< 20), a linear
		// scan beats keeping another map per session
		var exercise *Exercise
		for ei := range session.Exercises {
			if session.Exercises[ei].ExerciseRowID == *row.ExerciseRowID {
				exercise = &session.Exercises[ei]
				break
			}
		}
		if exercise == nil {
			session.Exercises = append(session.Exercises, Exercise{
				ExerciseRowID:  *row.ExerciseRowID,
				ExerciseID:     row.ExerciseID,
				ExerciseName:   row.ExerciseName,
				MuscleGroup:    row.MuscleGroup,
				SetsPlanned:    row.SetsPlanned,
				RepScheme:      row.RepScheme,
				RIR:            row.RIR,
				Equipment:      row.Equipment,
				Tier:           row.Tier,
				OrderInSession: row.OrderInSession,
				Sets:           []Set{},
			})
			exercise = &session.Exercises[len(session.Exercises)-1]
		}

		if row.SetID == nil {
			continue
		}

		duplicate := false
		for k := range exercise.Sets {
			if exercise.Sets[k].SetID == *row.SetID {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		exercise.Sets = append(exercise.Sets, Set{
			SetID:      *row.SetID,
			SetNo:      row.SetNo,
			RepsDone:   row.RepsDone,
			WeightKg:   row.WeightKg,
			RPE:        row.RPE,
			RecordedAt: row.RecordedAt,
		})
	}

	return sessions
}
