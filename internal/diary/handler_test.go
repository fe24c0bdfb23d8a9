package diary_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/traindiary/traindiary/internal/diary"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diaryRouter mirrors the routes the server registers for the diary
// handler so that mux path variables resolve in tests.
func diaryRouter(handler *diary.Handler) *mux.Router {
	r := mux.NewRouter()
	diaryR := r.PathPrefix("/diary/user/{userId}").Subrouter()
	diaryR.HandleFunc("/sessions", handler.HandleGetSessions).Methods("GET")
	diaryR.HandleFunc("/plan", handler.HandleGetCurrentPlan).Methods("GET")
	diaryR.HandleFunc("/streak", handler.HandleGetStreak).Methods("GET")
	diaryR.HandleFunc("/goals", handler.HandleGetGoals).Methods("GET")
	diaryR.HandleFunc("/goals", handler.HandleAddGoal).Methods("POST")
	diaryR.HandleFunc("/goals", handler.HandleUpdateGoal).Methods("PUT")
	diaryR.HandleFunc("/goals/{id}", handler.HandleDeleteGoal).Methods("DELETE")
	diaryR.HandleFunc("/reflections", handler.HandleGetReflections).Methods("GET")
	diaryR.HandleFunc("/reflections", handler.HandleSaveReflection).Methods("POST")
	diaryR.HandleFunc("/reflections/challenges", handler.HandleAddChallenge).Methods("POST")
	diaryR.HandleFunc("/reflections/challenges", handler.HandleUpdateChallenge).Methods("PUT")
	diaryR.HandleFunc("/reflections/challenges/{id}", handler.HandleRemoveChallenge).Methods("DELETE")
	diaryR.HandleFunc("/photos", handler.HandleGetPhotos).Methods("GET")
	diaryR.HandleFunc("/photos", handler.HandleAddPhoto).Methods("POST")
	diaryR.HandleFunc("/photos/{id}", handler.HandleDeletePhoto).Methods("DELETE")
	return r
}

func newHandlerTestSetup(t *testing.T) (*mux.Router, *MockBackend) {
	t.Helper()
	stores, backend := newTestStores(t)
	return diaryRouter(diary.NewHandler(stores)), backend
}

func TestHandler_GetSessions(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		SessionRows(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, q diary.SessionQuery) ([]diary.FullViewRow, error) {
			assert.Equal(t, "user-1", q.UserID)
			assert.Equal(t, "legs", q.FocusArea)
			require.NotNil(t, q.From)
			assert.Equal(t, "2026-08-01", q.From.Format(time.DateOnly))
			return testViewRows(), nil
		})

	req := httptest.NewRequest(
		"GET",
		"/diary/user/user-1/sessions?from=2026-08-01&to=2026-08-20&focus_area=legs",
		nil,
	)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp diary.SessionsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, "s1", resp.Sessions[0].SessionID)
}

func TestHandler_GetSessions_BackendError(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		SessionRows(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("db down"))

	req := httptest.NewRequest("GET", "/diary/user/user-1/sessions", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get sessions")
}

func TestHandler_GetCurrentPlan(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		ActivePlan(gomock.Any(), "user-1").
		Return(&diary.TrainingPlan{
			PlanID: "plan-1",
			UserID: "user-1",
			Days: map[string][]string{
				"saturday": {"Deadlift"},
			},
		}, nil)

	req := httptest.NewRequest("GET", "/diary/user/user-1/plan", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp diary.CurrentPlanResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Plan)
	assert.Equal(t, "plan-1", resp.Plan.PlanID)
	require.NotNil(t, resp.TodayWorkout)
	assert.Equal(t, []string{"Deadlift"}, resp.TodayWorkout.Exercises)
}

func TestHandler_GetStreak(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		SessionRows(gomock.Any(), gomock.Any()).
		Return([]diary.FullViewRow{
			viewRow(viewRowParams{
				sessionID: "s1", exerciseRowID: "e1", setID: "t1", setNo: 1,
				sessionDate: testNow, completed: true,
			}),
		}, nil)

	req := httptest.NewRequest("GET", "/diary/user/user-1/streak", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var streak diary.Streak
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &streak))
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.True(t, streak.LastSevenDays[6])
}

func TestHandler_AddGoal(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		AddGoal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, g diary.Goal) (*diary.Goal, error) {
			assert.Equal(t, "user-1", g.UserID)
			assert.Equal(t, "bench 100kg", g.Title)
			g.ID = "g1"
			return &g, nil
		})

	body := `{"title":"bench 100kg","type":"short_term","progress":10}`
	req := httptest.NewRequest("POST", "/diary/user/user-1/goals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var added diary.Goal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &added))
	assert.Equal(t, "g1", added.ID)
	assert.Equal(t, 10, added.Progress)
}

func TestHandler_AddGoal_Invalid(t *testing.T) {
	router, _ := newHandlerTestSetup(t)

	testCases := []struct {
		name        string
		body        string
		contentType string
		wantCode    int
	}{
		{
			name:        "wrong content type",
			body:        `{"title":"t","type":"short_term"}`,
			contentType: "text/plain",
			wantCode:    http.StatusBadRequest,
		},
		{
			name:        "broken json",
			body:        `{"title":`,
			contentType: "application/json",
			wantCode:    http.StatusBadRequest,
		},
		{
			name:        "empty title",
			body:        `{"title":"","type":"short_term"}`,
			contentType: "application/json",
			wantCode:    http.StatusBadRequest,
		},
		{
			name:        "bogus goal type",
			body:        `{"title":"t","type":"forever"}`,
			contentType: "application/json",
			wantCode:    http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/diary/user/user-1/goals", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", tc.contentType)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			assert.Equal(t, tc.wantCode, rr.Code)
		})
	}
}

func TestHandler_UpdateGoal_NotFound(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		UpdateGoal(gomock.Any(), gomock.Any()).
		Return(diary.ErrGoalNotFound)

	body := `{"id":"nope","title":"t","type":"short_term"}`
	req := httptest.NewRequest("PUT", "/diary/user/user-1/goals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_DeleteGoal(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		DeleteGoal(gomock.Any(), "g1").
		Return(nil)

	req := httptest.NewRequest("DELETE", "/diary/user/user-1/goals/g1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp diary.DeleteGoalResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "g1", resp.DeletedID)
}

func TestHandler_GetReflections(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	weekStart := diary.WeekStart(testNow)
	backend.EXPECT().
		WeeklyReflections(gomock.Any(), "user-1").
		Return([]diary.WeeklyReflection{
			{
				ID:            "r1",
				UserID:        "user-1",
				WeekStartDate: weekStart,
				WeekEndDate:   weekStart.AddDate(0, 0, 6),
			},
		}, nil)

	req := httptest.NewRequest("GET", "/diary/user/user-1/reflections", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp diary.ReflectionsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Reflections, 1)
	require.NotNil(t, resp.CurrentWeek)
	assert.Equal(t, "r1", resp.CurrentWeek.ID)
}

func TestHandler_SaveReflection(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		SaveWeeklyReflection(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, r diary.WeeklyReflection) (*diary.WeeklyReflection, error) {
			assert.Equal(t, "user-1", r.UserID)
			assert.Equal(t, 4, r.CompletedSessions)
			r.ID = "r1"
			return &r, nil
		})

	body := `{"completedSessions":4,"wins":["first pull up"]}`
	req := httptest.NewRequest("POST", "/diary/user/user-1/reflections", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var saved diary.WeeklyReflection
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.Equal(t, "r1", saved.ID)
	assert.Equal(t, []string{"first pull up"}, saved.Wins)
}

func TestHandler_Challenges(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		SaveWeeklyReflection(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, r diary.WeeklyReflection) (*diary.WeeklyReflection, error) {
			r.ID = "r1"
			return &r, nil
		})

	body := `{"text":"skipped warmups"}`
	req := httptest.NewRequest("POST", "/diary/user/user-1/reflections/challenges", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var reflection diary.WeeklyReflection
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reflection))
	require.Len(t, reflection.Challenges, 1)
	assert.NotEmpty(t, reflection.Challenges[0].ID)
	assert.Equal(t, "skipped warmups", reflection.Challenges[0].Text)
}

func TestHandler_RemoveChallenge(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	gomock.InOrder(
		// seed a challenge into the current week first
		backend.EXPECT().
			SaveWeeklyReflection(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, r diary.WeeklyReflection) (*diary.WeeklyReflection, error) {
				r.ID = "r1"
				return &r, nil
			}),
		backend.EXPECT().
			SaveWeeklyReflection(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, r diary.WeeklyReflection) (*diary.WeeklyReflection, error) {
				assert.Empty(t, r.Challenges)
				return &r, nil
			}),
	)

	addReq := httptest.NewRequest(
		"POST",
		"/diary/user/user-1/reflections/challenges",
		strings.NewReader(`{"id":"c1","text":"skipped warmups"}`),
	)
	addReq.Header.Set("Content-Type", "application/json")
	addRR := httptest.NewRecorder()
	router.ServeHTTP(addRR, addReq)
	require.Equal(t, http.StatusCreated, addRR.Code)

	removeReq := httptest.NewRequest("DELETE", "/diary/user/user-1/reflections/challenges/c1", nil)
	removeRR := httptest.NewRecorder()
	router.ServeHTTP(removeRR, removeReq)
	require.Equal(t, http.StatusOK, removeRR.Code)

	var reflection diary.WeeklyReflection
	require.NoError(t, json.Unmarshal(removeRR.Body.Bytes(), &reflection))
	assert.Empty(t, reflection.Challenges)
}

func TestHandler_Photos(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		ProgressPhotos(gomock.Any(), "user-1").
		Return([]diary.ProgressPhoto{
			{ID: "p1", UserID: "user-1", URL: "https://photos/1.jpg", Date: testNow},
		}, nil)

	req := httptest.NewRequest("GET", "/diary/user/user-1/photos", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var photos []diary.ProgressPhoto
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &photos))
	require.Len(t, photos, 1)
	assert.Equal(t, "p1", photos[0].ID)
}

func TestHandler_AddPhoto_EmptyURL(t *testing.T) {
	router, _ := newHandlerTestSetup(t)

	req := httptest.NewRequest(
		"POST",
		"/diary/user/user-1/photos",
		strings.NewReader(`{"caption":"week 1"}`),
	)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "photo url empty")
}

func TestHandler_DeletePhoto_NotFound(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	backend.EXPECT().
		DeleteProgressPhoto(gomock.Any(), "nope").
		Return(diary.ErrPhotoNotFound)

	req := httptest.NewRequest("DELETE", "/diary/user/user-1/photos/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_GetSessions_FiltersScopedPerUser(t *testing.T) {
	router, backend := newHandlerTestSetup(t)

	gomock.InOrder(
		backend.EXPECT().
			SessionRows(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, q diary.SessionQuery) ([]diary.FullViewRow, error) {
				assert.Equal(t, "alice", q.UserID)
				assert.Equal(t, "Legs", q.FocusArea)
				return testViewRows(), nil
			}),
		backend.EXPECT().
			SessionRows(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, q diary.SessionQuery) ([]diary.FullViewRow, error) {
				assert.Equal(t, "bob", q.UserID)
				// alice's focus filter must not scope bob's query
				assert.Empty(t, q.FocusArea)
				return nil, nil
			}),
	)

	aliceReq := httptest.NewRequest("GET", "/diary/user/alice/sessions?focus_area=Legs", nil)
	aliceRR := httptest.NewRecorder()
	router.ServeHTTP(aliceRR, aliceReq)
	require.Equal(t, http.StatusOK, aliceRR.Code)

	bobReq := httptest.NewRequest("GET", "/diary/user/bob/sessions", nil)
	bobRR := httptest.NewRecorder()
	router.ServeHTTP(bobRR, bobReq)
	require.Equal(t, http.StatusOK, bobRR.Code)

	var bobResp diary.SessionsResponse
	require.NoError(t, json.Unmarshal(bobRR.Body.Bytes(), &bobResp))
	// and bob never sees alice's session list
	assert.Empty(t, bobResp.Sessions)
	assert.Zero(t, bobResp.Total)
}
