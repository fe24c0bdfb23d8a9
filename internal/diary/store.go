package diary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/traindiary/traindiary/internal/telemetry/metrics"
	"github.com/traindiary/traindiary/internal/telemetry/tracing"
	"github.com/traindiary/traindiary/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=store_mocks_test.go -package=diary_test

// ErrNoUserID is returned by fetch actions invoked without a user id;
// no backend call is made in that case.
var ErrNoUserID = errors.New("no user id to scope the query")

// SessionQuery is what the store derives from its filters when asking
// the backend for view rows.
type SessionQuery struct {
	UserID        string
	From          *time.Time
	To            *time.Time
	FocusArea     string
	CompletedOnly bool
}

// Backend is the hosted-database client capability the store depends
// on. The production implementation is the pgx Repo; tests inject a
// generated mock.
type Backend interface {
	SessionRows(ctx context.Context, q SessionQuery) ([]FullViewRow, error)
	ActivePlan(ctx context.Context, userID string) (*TrainingPlan, error)
	Goals(ctx context.Context, userID string) ([]Goal, error)
	AddGoal(ctx context.Context, goal Goal) (*Goal, error)
	UpdateGoal(ctx context.Context, goal Goal) error
	DeleteGoal(ctx context.Context, id string) error
	WeeklyReflections(ctx context.Context, userID string) ([]WeeklyReflection, error)
	SaveWeeklyReflection(ctx context.Context, reflection WeeklyReflection) (*WeeklyReflection, error)
	ProgressPhotos(ctx context.Context, userID string) ([]ProgressPhoto, error)
	AddProgressPhoto(ctx context.Context, photo ProgressPhoto) (*ProgressPhoto, error)
	DeleteProgressPhoto(ctx context.Context, id string) error
}

// SessionsCache is the store's optional local cache for reconciled
// sessions; nil disables caching.
type SessionsCache interface {
	Get(q SessionQuery) ([]Session, bool)
	Set(q SessionQuery, sessions []Session)
	Clear()
}

// Domain is one of the independent data categories the store tracks,
// each with its own loading/error pair. A failure in one domain never
// touches the data or flags of another.
type Domain string

const (
	DomainSessions         Domain = "sessions"
	DomainCurrentPlan      Domain = "currentPlan"
	DomainGoals            Domain = "goals"
	DomainWeeklyReflection Domain = "weeklyReflection"
	DomainProgressPhotos   Domain = "progressPhotos"
	DomainStreak           Domain = "streak"
)

func (d Domain) IsValid() bool {
	switch d {
	case DomainSessions, DomainCurrentPlan, DomainGoals,
		DomainWeeklyReflection, DomainProgressPhotos, DomainStreak:
		return true
	default:
		return false
	}
}

// domainState carries the per-domain fetch bookkeeping. seq grows on
// every issued fetch; a response is applied only while its seq is
// still the latest, so an overlapping newer fetch supersedes an older
// in-flight one instead of racing with it.
type domainState struct {
	loading bool
	err     string
	seq     uint64
}

// Store is the single source of truth for the diary domains. It is
// explicitly constructed and holds no global state; every fetch goes
// through the injected Backend and lands here.
type Store struct {
	backend Backend
	cache   SessionsCache
	metrics *metrics.Manager
	now     func() time.Time

	mu                    sync.Mutex
	sessions              []Session
	selectedSession       *Session
	currentPlan           *TrainingPlan
	todayWorkout          *TodayWorkout
	goals                 []Goal
	weeklyReflections     []WeeklyReflection
	currentWeekReflection *WeeklyReflection
	progressPhotos        []ProgressPhoto
	streak                Streak
	filters               Filters
	domains               map[Domain]*domainState
}

type StoreOption func(*Store)

// WithSessionsCache plugs a local cache for reconciled sessions into
// the store.
func WithSessionsCache(cache SessionsCache) StoreOption {
	return func(s *Store) {
		s.cache = cache
	}
}

// WithMetrics makes the store report per-domain fetch outcomes, cache
// effectiveness and reconciled row counts.
func WithMetrics(m *metrics.Manager) StoreOption {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithClock overrides the store's notion of "now"; used by tests and
// by anything replaying historical data.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(backend Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend:  backend,
		now:      time.Now,
		sessions: []Session{},
		goals:    []Goal{},
		domains: map[Domain]*domainState{
			DomainSessions:         {},
			DomainCurrentPlan:      {},
			DomainGoals:            {},
			DomainWeeklyReflection: {},
			DomainProgressPhotos:   {},
			DomainStreak:           {},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.filters = DefaultFilters(s.now())
	return s
}

// begin moves the domain to loading, clears its error and hands back
// the sequence number of this fetch.
func (s *Store) begin(domain Domain) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.domains[domain]
	st.loading = true
	st.err = ""
	st.seq++
	return st.seq
}

// finish applies the fetch result unless a newer fetch for the same
// domain was issued meanwhile; stale responses are dropped whole.
func (s *Store) finish(domain Domain, seq uint64, apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.domains[domain]
	if st.seq != seq {
		log.Tracef("diary store: dropping stale %s response (seq %d, latest %d)", domain, seq, st.seq)
		s.countFetch(domain, "stale")
		return false
	}
	st.loading = false
	apply()
	s.countFetch(domain, "ok")
	return true
}

// fail records the failure on the domain's error slot. Previously
// loaded data stays as it was: stale but available.
func (s *Store) fail(domain Domain, seq uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.domains[domain]
	if st.seq != seq {
		return
	}
	st.loading = false
	st.err = err.Error()
	s.countFetch(domain, "error")
}

// countFetch is called with the store lock held.
func (s *Store) countFetch(domain Domain, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CounterDiaryFetches.WithLabelValues(string(domain), outcome).Inc()
}

// FetchSessions loads the flattened view rows for the user, scoped by
// the current filters, reconciles them and replaces the sessions
// list. On failure the previous sessions stay in place and only the
// sessions error slot is set.
func (s *Store) FetchSessions(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.fetchSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	if userID == "" {
		return ErrNoUserID
	}

	seq := s.begin(DomainSessions)

	s.mu.Lock()
	filters := s.filters
	s.mu.Unlock()
	query := buildSessionQuery(userID, filters)

	sessions, cached := s.cachedSessions(query)
	if !cached {
		rows, err := s.backend.SessionRows(ctx, query)
		if err != nil {
			s.fail(DomainSessions, seq, err)
			return fmt.Errorf("fetch sessions: %w", err)
		}
		span.SetAttributes(attribute.Int("rows", len(rows)))
		if s.metrics != nil {
			s.metrics.HistReconciledRows.Observe(float64(len(rows)))
		}
		sessions = Reconcile(rows)
		if s.cache != nil {
			s.cache.Set(query, sessions)
		}
	}

	MarkPersonalRecords(sessions)
	if filters.PRAchieved != nil {
		sessions = FilterByPersonalRecord(sessions, *filters.PRAchieved)
	}

	s.finish(DomainSessions, seq, func() {
		s.sessions = sessions
	})
	return nil
}

func (s *Store) cachedSessions(query SessionQuery) ([]Session, bool) {
	if s.cache == nil {
		return nil, false
	}
	sessions, ok := s.cache.Get(query)
	if s.metrics != nil {
		if ok {
			s.metrics.CounterSessionsCacheHits.Inc()
		} else {
			s.metrics.CounterSessionsCacheMisses.Inc()
		}
	}
	return sessions, ok
}

func buildSessionQuery(userID string, filters Filters) SessionQuery {
	query := SessionQuery{
		UserID:        userID,
		CompletedOnly: true,
	}
	if filters.DateRange != nil {
		if from, err := time.Parse(time.DateOnly, filters.DateRange.From); err == nil {
			query.From = &from
		}
		if to, err := time.Parse(time.DateOnly, filters.DateRange.To); err == nil {
			// inclusive upper bound on a date column
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
			query.To = &to
		}
	}
	if filters.FocusArea != nil {
		query.FocusArea = *filters.FocusArea
	}
	return query
}

// FetchCurrentPlan loads the single active plan. No active plan is a
// valid outcome (nil plan, no error), only genuine backend failures
// land in the error slot.
func (s *Store) FetchCurrentPlan(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.fetchCurrentPlan")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if userID == "" {
		return ErrNoUserID
	}

	seq := s.begin(DomainCurrentPlan)
	plan, err := s.backend.ActivePlan(ctx, userID)
	if err != nil {
		s.fail(DomainCurrentPlan, seq, err)
		return fmt.Errorf("fetch current plan: %w", err)
	}

	today := plan.WorkoutForDay(s.now())
	s.finish(DomainCurrentPlan, seq, func() {
		s.currentPlan = plan
		s.todayWorkout = today
	})
	return nil
}

func (s *Store) FetchGoals(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.fetchGoals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if userID == "" {
		return ErrNoUserID
	}

	seq := s.begin(DomainGoals)
	goals, err := s.backend.Goals(ctx, userID)
	if err != nil {
		s.fail(DomainGoals, seq, err)
		return fmt.Errorf("fetch goals: %w", err)
	}

	s.finish(DomainGoals, seq, func() {
		s.goals = goals
	})
	return nil
}

// AddGoal persists the goal and prepends it to the in-memory list.
// The in-memory list is only touched after the backend accepted the
// goal.
func (s *Store) AddGoal(ctx context.Context, goal Goal) (_ *Goal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.addGoal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if goal.UserID == "" {
		return nil, ErrNoUserID
	}
	if !goal.Type.IsValid() {
		return nil, fmt.Errorf("invalid goal type: %s", goal.Type)
	}
	goal.Normalize()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = s.now()
	}

	seq := s.begin(DomainGoals)
	added, err := s.backend.AddGoal(ctx, goal)
	if err != nil {
		s.fail(DomainGoals, seq, err)
		return nil, fmt.Errorf("add goal: %w", err)
	}

	s.finish(DomainGoals, seq, func() {
		s.goals = append([]Goal{*added}, s.goals...)
	})
	return added, nil
}

func (s *Store) UpdateGoal(ctx context.Context, goal Goal) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.updateGoal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", goal.ID))

	goal.Normalize()

	seq := s.begin(DomainGoals)
	if err := s.backend.UpdateGoal(ctx, goal); err != nil {
		s.fail(DomainGoals, seq, err)
		return fmt.Errorf("update goal: %w", err)
	}

	s.finish(DomainGoals, seq, func() {
		for i := range s.goals {
			if s.goals[i].ID == goal.ID {
				s.goals[i] = goal
				break
			}
		}
	})
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.deleteGoal")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("goal.id", id))

	seq := s.begin(DomainGoals)
	if err := s.backend.DeleteGoal(ctx, id); err != nil {
		s.fail(DomainGoals, seq, err)
		return fmt.Errorf("delete goal: %w", err)
	}

	s.finish(DomainGoals, seq, func() {
		kept := s.goals[:0]
		for _, g := range s.goals {
			if g.ID != id {
				kept = append(kept, g)
			}
		}
		s.goals = kept
	})
	return nil
}

// FetchWeeklyReflections loads the reflection history and resolves
// the current-week singleton against the locally computed Monday
// boundary.
func (s *Store) FetchWeeklyReflections(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.fetchWeeklyReflections")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if userID == "" {
		return ErrNoUserID
	}

	seq := s.begin(DomainWeeklyReflection)
	reflections, err := s.backend.WeeklyReflections(ctx, userID)
	if err != nil {
		s.fail(DomainWeeklyReflection, seq, err)
		return fmt.Errorf("fetch weekly reflections: %w", err)
	}

	current := currentWeekOf(reflections, s.now())
	s.finish(DomainWeeklyReflection, seq, func() {
		s.weeklyReflections = reflections
		s.currentWeekReflection = current
	})
	return nil
}

func currentWeekOf(reflections []WeeklyReflection, now time.Time) *WeeklyReflection {
	weekStart := WeekStart(now)
	for i := range reflections {
		r := reflections[i]
		if r.WeekStartDate.Year() == weekStart.Year() &&
			r.WeekStartDate.YearDay() == weekStart.YearDay() {
			return &r
		}
	}
	return nil
}

// SaveWeeklyReflection upserts the current week's reflection. A
// missing week boundary is filled in from the store clock.
func (s *Store) SaveWeeklyReflection(ctx context.Context, reflection WeeklyReflection) (_ *WeeklyReflection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.saveWeeklyReflection")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if reflection.UserID == "" {
		return nil, ErrNoUserID
	}
	if reflection.WeekStartDate.IsZero() {
		reflection.WeekStartDate = WeekStart(s.now())
		reflection.WeekEndDate = reflection.WeekStartDate.AddDate(0, 0, 6)
	}

	seq := s.begin(DomainWeeklyReflection)
	saved, err := s.backend.SaveWeeklyReflection(ctx, reflection)
	if err != nil {
		s.fail(DomainWeeklyReflection, seq, err)
		return nil, fmt.Errorf("save weekly reflection: %w", err)
	}

	s.finish(DomainWeeklyReflection, seq, func() {
		replaced := false
		for i := range s.weeklyReflections {
			if s.weeklyReflections[i].ID == saved.ID {
				s.weeklyReflections[i] = *saved
				replaced = true
				break
			}
		}
		if !replaced {
			s.weeklyReflections = append([]WeeklyReflection{*saved}, s.weeklyReflections...)
		}
		if currentWeekOf([]WeeklyReflection{*saved}, s.now()) != nil {
			s.currentWeekReflection = saved
		}
	})
	return saved, nil
}

// AddChallenge appends a challenge to the current week's reflection
// and persists the updated reflection.
func (s *Store) AddChallenge(ctx context.Context, userID string, challenge Challenge) (*WeeklyReflection, error) {
	reflection, err := s.currentReflectionFor(userID)
	if err != nil {
		return nil, err
	}
	if challenge.ID == "" {
		id, err := pkg.GenerateRandomString(16)
		if err != nil {
			return nil, fmt.Errorf("generate challenge id: %w", err)
		}
		challenge.ID = id
	}
	reflection.Challenges = append(reflection.Challenges, challenge)
	return s.SaveWeeklyReflection(ctx, *reflection)
}

// UpdateChallenge replaces a challenge by id within the current
// week's reflection and persists the result.
func (s *Store) UpdateChallenge(ctx context.Context, userID string, challenge Challenge) (*WeeklyReflection, error) {
	reflection, err := s.currentReflectionFor(userID)
	if err != nil {
		return nil, err
	}
	for i := range reflection.Challenges {
		if reflection.Challenges[i].ID == challenge.ID {
			reflection.Challenges[i] = challenge
			return s.SaveWeeklyReflection(ctx, *reflection)
		}
	}
	return nil, fmt.Errorf("challenge %s not found in current week", challenge.ID)
}

// RemoveChallenge drops a challenge by id from the current week's
// reflection and persists the result.
func (s *Store) RemoveChallenge(ctx context.Context, userID, challengeID string) (*WeeklyReflection, error) {
	reflection, err := s.currentReflectionFor(userID)
	if err != nil {
		return nil, err
	}
	kept := reflection.Challenges[:0]
	for _, c := range reflection.Challenges {
		if c.ID != challengeID {
			kept = append(kept, c)
		}
	}
	reflection.Challenges = kept
	return s.SaveWeeklyReflection(ctx, *reflection)
}

func (s *Store) currentReflectionFor(userID string) (*WeeklyReflection, error) {
	if userID == "" {
		return nil, ErrNoUserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentWeekReflection != nil {
		reflection := *s.currentWeekReflection
		return &reflection, nil
	}
	weekStart := WeekStart(s.now())
	return &WeeklyReflection{
		UserID:        userID,
		WeekStartDate: weekStart,
		WeekEndDate:   weekStart.AddDate(0, 0, 6),
		Challenges:    []Challenge{},
		Wins:          []string{},
	}, nil
}

func (s *Store) FetchProgressPhotos(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.fetchProgressPhotos")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if userID == "" {
		return ErrNoUserID
	}

	seq := s.begin(DomainProgressPhotos)
	photos, err := s.backend.ProgressPhotos(ctx, userID)
	if err != nil {
		s.fail(DomainProgressPhotos, seq, err)
		return fmt.Errorf("fetch progress photos: %w", err)
	}

	s.finish(DomainProgressPhotos, seq, func() {
		s.progressPhotos = photos
	})
	return nil
}

func (s *Store) AddProgressPhoto(ctx context.Context, photo ProgressPhoto) (_ *ProgressPhoto, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.addProgressPhoto")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if photo.UserID == "" {
		return nil, ErrNoUserID
	}
	if photo.Date.IsZero() {
		photo.Date = s.now()
	}

	seq := s.begin(DomainProgressPhotos)
	added, err := s.backend.AddProgressPhoto(ctx, photo)
	if err != nil {
		s.fail(DomainProgressPhotos, seq, err)
		return nil, fmt.Errorf("add progress photo: %w", err)
	}

	s.finish(DomainProgressPhotos, seq, func() {
		s.progressPhotos = append([]ProgressPhoto{*added}, s.progressPhotos...)
	})
	return added, nil
}

func (s *Store) RemoveProgressPhoto(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "diary.store.removeProgressPhoto")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("photo.id", id))

	seq := s.begin(DomainProgressPhotos)
	if err := s.backend.DeleteProgressPhoto(ctx, id); err != nil {
		s.fail(DomainProgressPhotos, seq, err)
		return fmt.Errorf("remove progress photo: %w", err)
	}

	s.finish(DomainProgressPhotos, seq, func() {
		kept := s.progressPhotos[:0]
		for _, p := range s.progressPhotos {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		s.progressPhotos = kept
	})
	return nil
}

// CalculateStreak recomputes the streak stats from the sessions
// currently held by the store. No backend round trip.
func (s *Store) CalculateStreak() Streak {
	s.mu.Lock()
	sessions := s.sessions
	s.mu.Unlock()

	streak := CalculateStreak(sessions, s.now())

	s.mu.Lock()
	s.streak = streak
	s.mu.Unlock()
	return streak
}

// SetFilters shallow-merges the partial filters into the current
// ones. It deliberately does not refetch: callers decide when to call
// FetchSessions again.
func (s *Store) SetFilters(partial Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.Merge(partial)
}

// SelectSession sets or clears (nil) the session inspected by the
// detail view. No effect on any other domain.
func (s *Store) SelectSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedSession = session
}

// ClearErrors wipes every domain's error slot, leaving data and
// loading flags alone.
func (s *Store) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.domains {
		st.err = ""
	}
}

func (s *Store) Sessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions
}

func (s *Store) SelectedSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedSession
}

func (s *Store) CurrentPlan() *TrainingPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPlan
}

func (s *Store) TodayWorkout() *TodayWorkout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.todayWorkout
}

func (s *Store) Goals() []Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals
}

func (s *Store) WeeklyReflections() []WeeklyReflection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weeklyReflections
}

func (s *Store) CurrentWeekReflection() *WeeklyReflection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentWeekReflection
}

func (s *Store) ProgressPhotos() []ProgressPhoto {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressPhotos
}

func (s *Store) Streak() Streak {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak
}

func (s *Store) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Loading reports whether a fetch for the domain is in flight.
func (s *Store) Loading(domain Domain) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.domains[domain]; ok {
		return st.loading
	}
	return false
}

// Err returns the domain's error message, empty when the last fetch
// succeeded or none ran yet.
func (s *Store) Err(domain Domain) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.domains[domain]; ok {
		return st.err
	}
	return ""
}
