package diary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/traindiary/traindiary/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrPhotoNotFound = errors.New("progress photo not found")
)

// emptyJSONObject replaces malformed session state blobs; bad state
// must never surface as a fetch failure.
var emptyJSONObject = json.RawMessage(`{}`)

// Repo is the production Backend over Postgres. It reads the
// denormalized workout_full_view and the plans/goals/reflections/
// photos tables; row-level security is the database's concern.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

var _ Backend = (*Repo)(nil)

func (r *Repo) SessionRows(ctx context.Context, q SessionQuery) (_ []FullViewRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.sessionrows")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", q.UserID))
	span.SetAttributes(attribute.String("focus_area", q.FocusArea))
	if q.From != nil {
		span.SetAttributes(attribute.String("from", q.From.String()))
	}
	if q.To != nil {
		span.SetAttributes(attribute.String("to", q.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				v.plan_id, v.user_id, v.split_type, v.goal, v.level, v.plan_status,
				v.week_id, v.week_number, v.week_start_date,
				v.session_id, v.day_label, v.session_date, v.day_of_week, v.focus_area,
				v.session_number, v.overall_difficulty, v.duration_minutes,
				v.session_completed, v.session_state,
				v.exercise_row_id, v.exercise_id, v.exercise_name, v.muscle_group,
				v.sets_planned, v.rep_scheme, v.rir, v.equipment, v.tier, v.order_in_session,
				v.set_id, v.set_no, v.reps_done, v.weight_kg, v.rpe, v.recorded_at
			FROM workout_full_view v
				WHERE v.user_id = $1
				AND ($2::timestamp IS NULL OR v.session_date >= $2)
				AND ($3::timestamp IS NULL OR v.session_date <= $3)
				AND ($4::text = '' OR v.focus_area = $4)
				AND ($5::boolean IS FALSE OR v.session_completed IS TRUE)
			ORDER BY v.session_date DESC, v.order_in_session ASC, v.set_no ASC;`,
		q.UserID, q.From, q.To, q.FocusArea, q.CompletedOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	viewRows, err := rows2fullViewRows(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2fullViewRows: %w", err)
	}
	return viewRows, nil
}

func rows2fullViewRows(rows pgx.Rows) ([]FullViewRow, error) {
	var viewRows []FullViewRow
	for rows.Next() {
		var row FullViewRow
		var stateBytes []byte
		if err := rows.Scan(
			&row.PlanID, &row.UserID, &row.SplitType, &row.Goal, &row.Level, &row.PlanStatus,
			&row.WeekID, &row.WeekNumber, &row.WeekStartDate,
			&row.SessionID, &row.DayLabel, &row.SessionDate, &row.DayOfWeek, &row.FocusArea,
			&row.SessionNumber, &row.OverallDifficulty, &row.DurationMinutes,
			&row.SessionCompleted, &stateBytes,
			&row.ExerciseRowID, &row.ExerciseID, &row.ExerciseName, &row.MuscleGroup,
			&row.SetsPlanned, &row.RepScheme, &row.RIR, &row.Equipment, &row.Tier, &row.OrderInSession,
			&row.SetID, &row.SetNo, &row.RepsDone, &row.WeightKg, &row.RPE, &row.RecordedAt,
		); err != nil {
			return nil, err
		}

		// the state blob is kept verbatim, but a corrupt one is
		// defaulted to an empty object instead of failing the fetch
		if len(stateBytes) > 0 {
			if json.Valid(stateBytes) {
				row.SessionState = json.RawMessage(stateBytes)
			} else {
				row.SessionState = emptyJSONObject
			}
		}

		viewRows = append(viewRows, row)
	}

	if viewRows == nil {
		viewRows = make([]FullViewRow, 0)
	}

	return viewRows, nil
}

// ActivePlan returns the user's single active plan, or nil when there
// is none; "no active plan" is not an error.
func (r *Repo) ActivePlan(ctx context.Context, userID string) (_ *TrainingPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.activeplan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT plan_id, user_id, split_type, goal, level, plan_status, days
			FROM training_plans
				WHERE user_id = $1 AND plan_status = 'active'
			LIMIT 1;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, nil
	}

	var plan TrainingPlan
	var daysBytes []byte
	if err := rows.Scan(
		&plan.PlanID, &plan.UserID, &plan.SplitType, &plan.Goal, &plan.Level,
		&plan.PlanStatus, &daysBytes,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	plan.Days = make(map[string][]string)
	if len(daysBytes) > 0 {
		if err := json.Unmarshal(daysBytes, &plan.Days); err != nil {
			return nil, fmt.Errorf("unmarshal days for plan %s: %w", plan.PlanID, err)
		}
	}

	return &plan, nil
}

func (r *Repo) Goals(ctx context.Context, userID string) (_ []Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.goals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, title, description, target_date, type, progress, completed, created_at
			FROM goals
				WHERE user_id = $1
			ORDER BY created_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	goals := make([]Goal, 0)
	for rows.Next() {
		var g Goal
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetDate,
			&g.Type, &g.Progress, &g.Completed, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func (r *Repo) AddGoal(ctx context.Context, goal Goal) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.addgoal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO goals
				(user_id, title, description, target_date, type, progress, completed, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id;`,
		goal.UserID, goal.Title, goal.Description, goal.TargetDate,
		goal.Type, goal.Progress, goal.Completed, goal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&goal.ID); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.String("goal.id", goal.ID))
	return &goal, nil
}

func (r *Repo) UpdateGoal(ctx context.Context, goal Goal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.updategoal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", goal.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE goals SET title = $1, description = $2, target_date = $3, type = $4, progress = $5, completed = $6 WHERE id = $7;`,
		goal.Title, goal.Description, goal.TargetDate, goal.Type, goal.Progress, goal.Completed, goal.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *Repo) DeleteGoal(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.deletegoal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM goals WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *Repo) WeeklyReflections(ctx context.Context, userID string) (_ []WeeklyReflection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.weeklyreflections")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, user_id, week_start_date, week_end_date,
				planned_sessions, completed_sessions, total_volume, new_prs, cardio_minutes,
				avg_mood, avg_sleep, avg_soreness,
				challenges, wins, next_week_focus, next_week_session_target,
				created_at, updated_at
			FROM weekly_reflections
				WHERE user_id = $1
			ORDER BY week_start_date DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2reflections(rows)
}

func rows2reflections(rows pgx.Rows) ([]WeeklyReflection, error) {
	reflections := make([]WeeklyReflection, 0)
	for rows.Next() {
		var wr WeeklyReflection
		var challengesBytes, winsBytes []byte
		if err := rows.Scan(
			&wr.ID, &wr.UserID, &wr.WeekStartDate, &wr.WeekEndDate,
			&wr.PlannedSessions, &wr.CompletedSessions, &wr.TotalVolume, &wr.NewPRs, &wr.CardioMinutes,
			&wr.AvgMood, &wr.AvgSleep, &wr.AvgSoreness,
			&challengesBytes, &winsBytes, &wr.NextWeekFocus, &wr.NextWeekTarget,
			&wr.CreatedAt, &wr.UpdatedAt,
		); err != nil {
			return nil, err
		}

		wr.Challenges = make([]Challenge, 0)
		if len(challengesBytes) > 0 {
			if err := json.Unmarshal(challengesBytes, &wr.Challenges); err != nil {
				return nil, fmt.Errorf("unmarshal challenges for reflection %s: %w", wr.ID, err)
			}
		}
		wr.Wins = make([]string, 0)
		if len(winsBytes) > 0 {
			if err := json.Unmarshal(winsBytes, &wr.Wins); err != nil {
				return nil, fmt.Errorf("unmarshal wins for reflection %s: %w", wr.ID, err)
			}
		}

		reflections = append(reflections, wr)
	}
	return reflections, nil
}

// SaveWeeklyReflection upserts on (user_id, week_start_date): one
// reflection per user per calendar week.
func (r *Repo) SaveWeeklyReflection(ctx context.Context, reflection WeeklyReflection) (_ *WeeklyReflection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.savereflection")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", reflection.UserID))

	challengesJson, err := json.Marshal(reflection.Challenges)
	if err != nil {
		return nil, fmt.Errorf("marshal challenges: %w", err)
	}
	winsJson, err := json.Marshal(reflection.Wins)
	if err != nil {
		return nil, fmt.Errorf("marshal wins: %w", err)
	}

	now := time.Now()
	rows, err := r.db.Query(
		ctx,
		`INSERT INTO weekly_reflections
				(user_id, week_start_date, week_end_date,
				planned_sessions, completed_sessions, total_volume, new_prs, cardio_minutes,
				avg_mood, avg_sleep, avg_soreness,
				challenges, wins, next_week_focus, next_week_session_target,
				created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
			ON CONFLICT (user_id, week_start_date) DO UPDATE SET
				week_end_date = EXCLUDED.week_end_date,
				planned_sessions = EXCLUDED.planned_sessions,
				completed_sessions = EXCLUDED.completed_sessions,
				total_volume = EXCLUDED.total_volume,
				new_prs = EXCLUDED.new_prs,
				cardio_minutes = EXCLUDED.cardio_minutes,
				avg_mood = EXCLUDED.avg_mood,
				avg_sleep = EXCLUDED.avg_sleep,
				avg_soreness = EXCLUDED.avg_soreness,
				challenges = EXCLUDED.challenges,
				wins = EXCLUDED.wins,
				next_week_focus = EXCLUDED.next_week_focus,
				next_week_session_target = EXCLUDED.next_week_session_target,
				updated_at = EXCLUDED.updated_at
			RETURNING id, created_at;`,
		reflection.UserID, reflection.WeekStartDate, reflection.WeekEndDate,
		reflection.PlannedSessions, reflection.CompletedSessions, reflection.TotalVolume,
		reflection.NewPRs, reflection.CardioMinutes,
		reflection.AvgMood, reflection.AvgSleep, reflection.AvgSoreness,
		challengesJson, winsJson, reflection.NextWeekFocus, reflection.NextWeekTarget,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&reflection.ID, &reflection.CreatedAt); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}
	reflection.UpdatedAt = now

	span.SetAttributes(attribute.String("reflection.id", reflection.ID))
	return &reflection, nil
}

func (r *Repo) ProgressPhotos(ctx context.Context, userID string) (_ []ProgressPhoto, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.progressphotos")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, user_id, url, caption, description, date
			FROM progress_photos
				WHERE user_id = $1
			ORDER BY date DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	photos := make([]ProgressPhoto, 0)
	for rows.Next() {
		var p ProgressPhoto
		if err := rows.Scan(&p.ID, &p.UserID, &p.URL, &p.Caption, &p.Description, &p.Date); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, nil
}

func (r *Repo) AddProgressPhoto(ctx context.Context, photo ProgressPhoto) (_ *ProgressPhoto, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.addphoto")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO progress_photos
				(user_id, url, caption, description, date)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		photo.UserID, photo.URL, photo.Caption, photo.Description, photo.Date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	if err := rows.Scan(&photo.ID); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.String("photo.id", photo.ID))
	return &photo, nil
}

func (r *Repo) DeleteProgressPhoto(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.diary.deletephoto")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("photo.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM progress_photos WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
