package diary

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/traindiary/traindiary/internal/telemetry/tracing"
	"github.com/traindiary/traindiary/pkg"
)

type DeleteGoalResponse struct {
	DeletedID string `json:"deletedId"`
}

type UpdateGoalResponse struct {
	UpdatedID string `json:"updatedId"`
}

type DeletePhotoResponse struct {
	DeletedID string `json:"deletedId"`
}

type SessionsResponse struct {
	Sessions []Session `json:"sessions"`
	Total    int       `json:"total"`
}

type CurrentPlanResponse struct {
	Plan         *TrainingPlan `json:"plan"`
	TodayWorkout *TodayWorkout `json:"todayWorkout"`
}

type ReflectionsResponse struct {
	Reflections []WeeklyReflection `json:"reflections"`
	CurrentWeek *WeeklyReflection  `json:"currentWeek"`
}

// Handler exposes the diary stores over HTTP. Each request resolves
// the store of the user named in the route, so filters and per-domain
// state never cross user boundaries.
type Handler struct {
	stores *Stores
}

func NewHandler(stores *Stores) *Handler {
	return &Handler{
		stores: stores,
	}
}

// userID pulls the user scope from the route; every diary route nests
// under /diary/user/{userId}.
func userID(r *http.Request) string {
	return mux.Vars(r)["userId"]
}

func (handler *Handler) storeFor(r *http.Request) *Store {
	return handler.stores.For(userID(r))
}

func (handler *Handler) HandleGetSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.sessions")
	defer span.End()
	store := handler.storeFor(r)

	// query params are a partial filter update, merged before the fetch
	filters := Filters{}
	if from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to"); from != "" && to != "" {
		filters.DateRange = &DateRange{From: from, To: to}
	}
	if focusArea := r.URL.Query().Get("focus_area"); focusArea != "" {
		filters.FocusArea = &focusArea
	}
	if prStr := r.URL.Query().Get("pr_achieved"); prStr != "" {
		pr := prStr == "true"
		filters.PRAchieved = &pr
	}
	store.SetFilters(filters)

	if err := store.FetchSessions(ctx, userID(r)); err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get diary sessions: %s", err)
		http.Error(w, "failed to get sessions", http.StatusInternalServerError)
		return
	}

	sessions := store.Sessions()
	sessionsJson, err := json.Marshal(SessionsResponse{
		Sessions: sessions,
		Total:    len(sessions),
	})
	if err != nil {
		log.Errorf("failed to marshal sessions: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sessionsJson)
}

func (handler *Handler) HandleGetCurrentPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.currentplan")
	defer span.End()
	store := handler.storeFor(r)

	if err := store.FetchCurrentPlan(ctx, userID(r)); err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get current plan: %s", err)
		http.Error(w, "failed to get current plan", http.StatusInternalServerError)
		return
	}

	planJson, err := json.Marshal(CurrentPlanResponse{
		Plan:         store.CurrentPlan(),
		TodayWorkout: store.TodayWorkout(),
	})
	if err != nil {
		log.Errorf("failed to marshal current plan: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, planJson)
}

func (handler *Handler) HandleGetGoals(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.goals")
	defer span.End()
	store := handler.storeFor(r)

	if err := store.FetchGoals(ctx, userID(r)); err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get goals: %s", err)
		http.Error(w, "failed to get goals", http.StatusInternalServerError)
		return
	}

	goalsJson, err := json.Marshal(store.Goals())
	if err != nil {
		log.Errorf("failed to marshal goals: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, goalsJson)
}

func (handler *Handler) HandleAddGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.addgoal")
	defer span.End()
	store := handler.storeFor(r)

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var goal Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		log.Tracef("new goal, unmarshal json params: %s", err)
		http.Error(w, "add goal failed", http.StatusBadRequest)
		return
	}
	goal.UserID = userID(r)

	if goal.Title == "" {
		http.Error(w, "error, goal title empty", http.StatusBadRequest)
		return
	}

	added, err := store.AddGoal(ctx, goal)
	if err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		if pkg.IsUniqueViolationError(err) {
			http.Error(w, "goal already exists", http.StatusConflict)
			return
		}
		log.Errorf("failed to add goal [%s]: %s", goal.Title, err)
		http.Error(w, "error, failed to add goal", http.StatusInternalServerError)
		return
	}

	addedGoalJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal new goal: %s", err)
		http.Error(w, "error, failed to add goal", http.StatusInternalServerError)
		return
	}

	log.Debugf("new goal added: %s", addedGoalJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedGoalJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.updategoal")
	defer span.End()
	store := handler.storeFor(r)

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var goal Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		log.Errorf("update goal, unmarshal json params: %s", err)
		http.Error(w, "update goal failed", http.StatusBadRequest)
		return
	}
	goal.UserID = userID(r)

	if goal.ID == "" {
		http.Error(w, "error, goal id empty", http.StatusBadRequest)
		return
	}

	if err := store.UpdateGoal(ctx, goal); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			log.Debugf("goal %s not found", goal.ID)
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update goal [%s]: %s", goal.ID, err)
		http.Error(w, "error, failed to update goal", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateGoalResponse{
		UpdatedID: goal.ID,
	})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.deletegoal")
	defer span.End()
	store := handler.storeFor(r)

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := store.DeleteGoal(ctx, id); err != nil {
		if errors.Is(err, ErrGoalNotFound) {
			log.Debugf("goal %s not found", id)
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete goal %s: %s", id, err)
		http.Error(w, "goal not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteGoalResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func (handler *Handler) HandleGetReflections(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.reflections")
	defer span.End()
	store := handler.storeFor(r)

	if err := store.FetchWeeklyReflections(ctx, userID(r)); err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get weekly reflections: %s", err)
		http.Error(w, "failed to get weekly reflections", http.StatusInternalServerError)
		return
	}

	reflectionsJson, err := json.Marshal(ReflectionsResponse{
		Reflections: store.WeeklyReflections(),
		CurrentWeek: store.CurrentWeekReflection(),
	})
	if err != nil {
		log.Errorf("failed to marshal weekly reflections: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, reflectionsJson)
}

func (handler *Handler) HandleSaveReflection(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.savereflection")
	defer span.End()
	store := handler.storeFor(r)

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var reflection WeeklyReflection
	if err := json.NewDecoder(r.Body).Decode(&reflection); err != nil {
		log.Tracef("save reflection, unmarshal json params: %s", err)
		http.Error(w, "save reflection failed", http.StatusBadRequest)
		return
	}
	reflection.UserID = userID(r)

	saved, err := store.SaveWeeklyReflection(ctx, reflection)
	if err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to save weekly reflection: %s", err)
		http.Error(w, "error, failed to save weekly reflection", http.StatusInternalServerError)
		return
	}

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("failed to marshal saved reflection: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, savedJson, http.StatusCreated)
}

func (handler *Handler) HandleAddChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.addchallenge")
	defer span.End()
	store := handler.storeFor(r)

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var challenge Challenge
	if err := json.NewDecoder(r.Body).Decode(&challenge); err != nil {
		log.Tracef("add challenge, unmarshal json params: %s", err)
		http.Error(w, "add challenge failed", http.StatusBadRequest)
		return
	}
	if challenge.Text == "" {
		http.Error(w, "error, challenge text empty", http.StatusBadRequest)
		return
	}

	reflection, err := store.AddChallenge(ctx, userID(r), challenge)
	if err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add challenge: %s", err)
		http.Error(w, "error, failed to add challenge", http.StatusInternalServerError)
		return
	}

	reflectionJson, err := json.Marshal(reflection)
	if err != nil {
		log.Errorf("failed to marshal reflection: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reflectionJson, http.StatusCreated)
}

func (handler *Handler) HandleUpdateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.updatechallenge")
	defer span.End()
	store := handler.storeFor(r)

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var challenge Challenge
	if err := json.NewDecoder(r.Body).Decode(&challenge); err != nil {
		log.Tracef("update challenge, unmarshal json params: %s", err)
		http.Error(w, "update challenge failed", http.StatusBadRequest)
		return
	}
	if challenge.ID == "" {
		http.Error(w, "error, challenge id empty", http.StatusBadRequest)
		return
	}

	reflection, err := store.UpdateChallenge(ctx, userID(r), challenge)
	if err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to update challenge %s: %s", challenge.ID, err)
		http.Error(w, "error, failed to update challenge", http.StatusInternalServerError)
		return
	}

	reflectionJson, err := json.Marshal(reflection)
	if err != nil {
		log.Errorf("failed to marshal reflection: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, reflectionJson)
}

func (handler *Handler) HandleRemoveChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.removechallenge")
	defer span.End()
	store := handler.storeFor(r)

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	reflection, err := store.RemoveChallenge(ctx, userID(r), id)
	if err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to remove challenge %s: %s", id, err)
		http.Error(w, "error, failed to remove challenge", http.StatusInternalServerError)
		return
	}

	reflectionJson, err := json.Marshal(reflection)
	if err != nil {
		log.Errorf("failed to marshal reflection: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, reflectionJson)
}

func (handler *Handler) HandleGetPhotos(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.photos")
	defer span.End()
	store := handler.storeFor(r)

	if err := store.FetchProgressPhotos(ctx, userID(r)); err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get progress photos: %s", err)
		http.Error(w, "failed to get progress photos", http.StatusInternalServerError)
		return
	}

	photosJson, err := json.Marshal(store.ProgressPhotos())
	if err != nil {
		log.Errorf("failed to marshal progress photos: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, photosJson)
}

func (handler *Handler) HandleAddPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.addphoto")
	defer span.End()
	store := handler.storeFor(r)

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var photo ProgressPhoto
	if err := json.NewDecoder(r.Body).Decode(&photo); err != nil {
		log.Tracef("new photo, unmarshal json params: %s", err)
		http.Error(w, "add photo failed", http.StatusBadRequest)
		return
	}
	photo.UserID = userID(r)

	if photo.URL == "" {
		http.Error(w, "error, photo url empty", http.StatusBadRequest)
		return
	}

	added, err := store.AddProgressPhoto(ctx, photo)
	if err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add progress photo: %s", err)
		http.Error(w, "error, failed to add progress photo", http.StatusInternalServerError)
		return
	}

	addedPhotoJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal new photo: %s", err)
		http.Error(w, "error, failed to add progress photo", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedPhotoJson, http.StatusCreated)
}

func (handler *Handler) HandleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.deletephoto")
	defer span.End()
	store := handler.storeFor(r)

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	if err := store.RemoveProgressPhoto(ctx, id); err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			log.Debugf("progress photo %s not found", id)
			http.Error(w, "progress photo not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete progress photo %s: %s", id, err)
		http.Error(w, "progress photo not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeletePhotoResponse{
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

// HandleGetStreak recomputes the streak from fresh sessions, so the
// seven day mask and the change delta always reflect the latest data.
func (handler *Handler) HandleGetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.diary.streak")
	defer span.End()
	store := handler.storeFor(r)

	if err := store.FetchSessions(ctx, userID(r)); err != nil {
		if errors.Is(err, ErrNoUserID) {
			http.Error(w, "error, user id empty", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to get sessions for streak: %s", err)
		http.Error(w, "failed to calculate streak", http.StatusInternalServerError)
		return
	}

	streak := store.CalculateStreak()
	streakJson, err := json.Marshal(streak)
	if err != nil {
		log.Errorf("failed to marshal streak: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, streakJson)
}
