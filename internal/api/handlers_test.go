package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/limetric/timelog/internal/analytics"
	"github.com/limetric/timelog/internal/api"
	errorvalues "github.com/limetric/timelog/internal/error_values"
	"github.com/limetric/timelog/internal/repository"
	"github.com/limetric/timelog/internal/service"
	"github.com/limetric/timelog/pkg/entity"
	jwtservice "github.com/limetric/timelog/pkg/jwt_service"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

const (
	username = "test_name"
	password = "test_password_123"
)

var userID = uuid.New()

type UserServiceMock struct {
	success bool
}

func (usmock *UserServiceMock) ChangeState(success bool) {
	usmock.success = success
}

func (usmock *UserServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:   userID,
			Name: req.Name,
		}, nil
	}
	return nil, errors.New("service error")
}

func (usmock *UserServiceMock) Login(ctx context.Context, name, password string) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:   userID,
			Name: name,
		}, nil
	}
	return nil, errors.New("service error")
}

func (usmock *UserServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:   id,
			Name: username,
		}, nil
	}
	return nil, errorvalues.ErrUserNotFound
}

func (usmock *UserServiceMock) GetByName(ctx context.Context, name string) (*entity.User, error) {
	if usmock.success {
		return &entity.User{
			ID:   userID,
			Name: name,
		}, nil
	}
	return nil, errorvalues.ErrUserNotFound
}

func (usmock *UserServiceMock) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	if usmock.success {
		return nil
	}
	return errorvalues.ErrUserNotFound
}

type mockState int

const (
	stateSuccess mockState = iota
	stateValidationError
	stateOverflowError
	stateNotFoundError
	stateRangeError
	stateServiceError
)

type activitiesServiceMock struct {
	state mockState
}

func (mock *activitiesServiceMock) ChangeState(state mockState) {
	mock.state = state
}

func (mock *activitiesServiceMock) CreateActivity(ctx context.Context, uid uuid.UUID, req *service.ActivityWriteRequest) (*entity.Activity, error) {
	switch mock.state {
	case stateValidationError:
		return nil, errorvalues.ErrDurationOutOfRange
	case stateOverflowError:
		return nil, errorvalues.ErrDayOverflow
	case stateServiceError:
		return nil, errors.New("service error")
	default:
		return &entity.Activity{
			ID:           1,
			UserID:       uid,
			ActivityDate: req.ActivityDate,
			Name:         req.Name,
			Category:     req.Category,
			Duration:     req.Duration,
		}, nil
	}
}

func (mock *activitiesServiceMock) UpdateActivity(ctx context.Context, id int64, uid uuid.UUID, req *service.ActivityWriteRequest) (*entity.Activity, error) {
	switch mock.state {
	case stateNotFoundError:
		return nil, errorvalues.ErrActivityNotFound
	case stateOverflowError:
		return nil, errorvalues.ErrDayOverflow
	case stateServiceError:
		return nil, errors.New("service error")
	default:
		return &entity.Activity{
			ID:           id,
			UserID:       uid,
			ActivityDate: req.ActivityDate,
			Name:         req.Name,
			Category:     req.Category,
			Duration:     req.Duration,
		}, nil
	}
}

func (mock *activitiesServiceMock) DeleteActivity(ctx context.Context, id int64, uid uuid.UUID) error {
	switch mock.state {
	case stateNotFoundError:
		return errorvalues.ErrActivityNotFound
	case stateServiceError:
		return errors.New("service error")
	default:
		return nil
	}
}

func (mock *activitiesServiceMock) GetByDate(ctx context.Context, uid uuid.UUID, date time.Time) ([]entity.Activity, error) {
	if mock.state == stateServiceError {
		return nil, errors.New("service error")
	}
	return []entity.Activity{
		{
			ID:           1,
			UserID:       uid,
			ActivityDate: date,
			Name:         "reading",
			Category:     entity.CategoryStudy,
			Duration:     45,
		},
	}, nil
}

func (mock *activitiesServiceMock) GetByRange(ctx context.Context, uid uuid.UUID, from, to time.Time) ([]entity.Activity, error) {
	switch mock.state {
	case stateRangeError:
		return nil, errorvalues.ErrRangeTooWide
	case stateServiceError:
		return nil, errors.New("service error")
	default:
		return []entity.Activity{
			{
				ID:           1,
				UserID:       uid,
				ActivityDate: from,
				Name:         "reading",
				Category:     entity.CategoryStudy,
				Duration:     45,
			},
		}, nil
	}
}

type goalsServiceMock struct {
	state mockState
}

func (mock *goalsServiceMock) ChangeState(state mockState) {
	mock.state = state
}

func (mock *goalsServiceMock) ListGoals(ctx context.Context, uid uuid.UUID) ([]entity.Goal, error) {
	if mock.state == stateServiceError {
		return nil, errors.New("service error")
	}
	return []entity.Goal{
		{
			ID:            1,
			UserID:        uid,
			Category:      entity.CategoryWork,
			TargetMinutes: 480,
		},
	}, nil
}

func (mock *goalsServiceMock) UpsertGoal(ctx context.Context, uid uuid.UUID, req *service.GoalWriteRequest) (*entity.Goal, error) {
	switch mock.state {
	case stateValidationError:
		return nil, errorvalues.ErrTargetOutOfRange
	case stateServiceError:
		return nil, errors.New("service error")
	default:
		return &entity.Goal{
			ID:            1,
			UserID:        uid,
			Category:      req.Category,
			TargetMinutes: req.TargetMinutes,
		}, nil
	}
}

func (mock *goalsServiceMock) DeleteGoal(ctx context.Context, id int64, uid uuid.UUID) error {
	switch mock.state {
	case stateNotFoundError:
		return errorvalues.ErrGoalNotFound
	case stateServiceError:
		return errors.New("service error")
	default:
		return nil
	}
}

func (mock *goalsServiceMock) GoalProgress(ctx context.Context, uid uuid.UUID, date time.Time) ([]analytics.GoalProgress, error) {
	if mock.state == stateServiceError {
		return nil, errors.New("service error")
	}
	return []analytics.GoalProgress{
		{
			GoalID:           1,
			Category:         entity.CategoryWork,
			TargetMinutes:    60,
			CurrentMinutes:   45,
			Percentage:       75,
			RemainingMinutes: 15,
			Status:           "75%",
		},
	}, nil
}

type statsServiceMock struct {
	state mockState
}

func (mock *statsServiceMock) ChangeState(state mockState) {
	mock.state = state
}

func (mock *statsServiceMock) DailySummary(ctx context.Context, uid uuid.UUID, date time.Time) (*service.DailySummary, error) {
	if mock.state == stateServiceError {
		return nil, errors.New("service error")
	}
	return &service.DailySummary{
		Date:         date,
		TotalMinutes: 45,
		TotalHours:   "0.8",
	}, nil
}

func (mock *statsServiceMock) WeeklySummary(ctx context.Context, uid uuid.UUID, anyDay time.Time) (*service.WeeklySummary, error) {
	if mock.state == stateServiceError {
		return nil, errors.New("service error")
	}
	return &service.WeeklySummary{
		WeekStart:    anyDay,
		TotalMinutes: 45,
	}, nil
}

func (mock *statsServiceMock) MonthlySummary(ctx context.Context, uid uuid.UUID, year int, month time.Month) (*service.MonthlySummary, error) {
	if mock.state == stateServiceError {
		return nil, errors.New("service error")
	}
	return &service.MonthlySummary{
		MonthStart:   time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		TotalMinutes: 45,
	}, nil
}

func (mock *statsServiceMock) RangeSummary(ctx context.Context, uid uuid.UUID, from, to time.Time) (*service.RangeSummary, error) {
	switch mock.state {
	case stateRangeError:
		return nil, errorvalues.ErrRangeTooWide
	case stateServiceError:
		return nil, errors.New("service error")
	default:
		return &service.RangeSummary{
			From:         from,
			To:           to,
			TotalMinutes: 45,
		}, nil
	}
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, target, body)
	return r.WithContext(context.WithValue(r.Context(), "User-ID", userID))
}

func TestRegister(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Name:     username,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	var req *http.Request
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
	})
	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})

	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Name:     username,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	var req *http.Request
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
		JwtService:  jwtservice.New("secret"),
	})
	t.Run("logged in", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestCreateActivity(t *testing.T) {
	aService := &activitiesServiceMock{}
	serv := api.New(&api.ServicesList{
		ActivitiesService: aService,
	})
	body, err := sonic.ConfigDefault.Marshal(api.ActivityRequest{
		Name:         "morning run",
		Category:     "Exercise",
		Duration:     30,
		ActivityDate: "2024-03-15",
	})
	require.NoError(t, err)

	testCases := []struct {
		Name         string
		State        mockState
		Body         io.Reader
		ExpectedCode int
	}{
		{"created", stateSuccess, bytes.NewReader(body), http.StatusCreated},
		{"validation error", stateValidationError, bytes.NewReader(body), http.StatusBadRequest},
		{"day overflow", stateOverflowError, bytes.NewReader(body), http.StatusConflict},
		{"service error", stateServiceError, bytes.NewReader(body), http.StatusInternalServerError},
		{"corrupted body", stateSuccess, bytes.NewReader([]byte("corrupted")), http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			aService.ChangeState(tc.State)
			rr := httptest.NewRecorder()
			r := authedRequest(http.MethodPost, "/api/v1/activities", tc.Body)
			serv.CreateActivity(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}

	t.Run("invalid activity date", func(t *testing.T) {
		badDate, err := sonic.ConfigDefault.Marshal(api.ActivityRequest{
			Name:         "morning run",
			Category:     "Exercise",
			Duration:     30,
			ActivityDate: "15.03.2024",
		})
		require.NoError(t, err)
		aService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodPost, "/api/v1/activities", bytes.NewReader(badDate))
		serv.CreateActivity(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})

	t.Run("unauthorized", func(t *testing.T) {
		aService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/activities", bytes.NewReader(body))
		serv.CreateActivity(rr, r)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestUpdateActivity(t *testing.T) {
	aService := &activitiesServiceMock{}
	serv := api.New(&api.ServicesList{
		ActivitiesService: aService,
	})
	body, err := sonic.ConfigDefault.Marshal(api.ActivityRequest{
		Name:         "evening run",
		Category:     "Exercise",
		Duration:     45,
		ActivityDate: "2024-03-16",
	})
	require.NoError(t, err)

	testCases := []struct {
		Name         string
		State        mockState
		ExpectedCode int
	}{
		{"updated", stateSuccess, http.StatusOK},
		{"not found", stateNotFoundError, http.StatusNotFound},
		{"destination day overflow", stateOverflowError, http.StatusConflict},
		{"service error", stateServiceError, http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			aService.ChangeState(tc.State)
			rr := httptest.NewRecorder()
			r := authedRequest(http.MethodPut, "/api/v1/activities/7", bytes.NewReader(body))
			r.SetPathValue("id", "7")
			serv.UpdateActivity(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}

	t.Run("invalid id", func(t *testing.T) {
		aService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodPut, "/api/v1/activities/abc", bytes.NewReader(body))
		r.SetPathValue("id", "abc")
		serv.UpdateActivity(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestDeleteActivity(t *testing.T) {
	aService := &activitiesServiceMock{}
	serv := api.New(&api.ServicesList{
		ActivitiesService: aService,
	})
	activityID := int64(12)

	testCases := []struct {
		Name         string
		State        mockState
		ExpectedCode int
	}{
		{"deleted", stateSuccess, http.StatusNoContent},
		{"not found", stateNotFoundError, http.StatusNotFound},
		{"service error", stateServiceError, http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			aService.ChangeState(tc.State)
			rr := httptest.NewRecorder()
			r := authedRequest(http.MethodDelete, "/api/v1/activities/"+strconv.FormatInt(activityID, 10), nil)
			r.SetPathValue("id", strconv.FormatInt(activityID, 10))
			serv.DeleteActivity(rr, r)
			assert.Equal(t, tc.ExpectedCode, rr.Result().StatusCode)
		})
	}

	t.Run("invalid id", func(t *testing.T) {
		aService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodDelete, "/api/v1/activities/abc", nil)
		r.SetPathValue("id", "abc")
		serv.DeleteActivity(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestGetActivitiesByDate(t *testing.T) {
	aService := &activitiesServiceMock{}
	serv := api.New(&api.ServicesList{
		ActivitiesService: aService,
	})

	t.Run("provided", func(t *testing.T) {
		aService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/activities/2024-03-15", nil)
		r.SetPathValue("date", "2024-03-15")
		serv.GetActivitiesByDate(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetActivitiesResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), resp.UserID)
		assert.Len(t, resp.Activities, 1)
	})
	t.Run("invalid date", func(t *testing.T) {
		aService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/activities/today", nil)
		r.SetPathValue("date", "today")
		serv.GetActivitiesByDate(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		aService.ChangeState(stateServiceError)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/activities/2024-03-15", nil)
		r.SetPathValue("date", "2024-03-15")
		serv.GetActivitiesByDate(rr, r)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestGetActivitiesByRange(t *testing.T) {
	aService := &activitiesServiceMock{}
	serv := api.New(&api.ServicesList{
		ActivitiesService: aService,
	})
	rangeRequest := func(start, end string) *http.Request {
		r := authedRequest(http.MethodGet, "/api/v1/activities/range/"+start+"/"+end, nil)
		r.SetPathValue("start", start)
		r.SetPathValue("end", end)
		return r
	}

	t.Run("provided", func(t *testing.T) {
		aService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		serv.GetActivitiesByRange(rr, rangeRequest("2024-03-01", "2024-03-15"))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("invalid start", func(t *testing.T) {
		aService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		serv.GetActivitiesByRange(rr, rangeRequest("yesterday", "2024-03-15"))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("range too wide", func(t *testing.T) {
		aService.ChangeState(stateRangeError)
		rr := httptest.NewRecorder()
		serv.GetActivitiesByRange(rr, rangeRequest("2024-01-01", "2024-06-01"))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		aService.ChangeState(stateServiceError)
		rr := httptest.NewRecorder()
		serv.GetActivitiesByRange(rr, rangeRequest("2024-03-01", "2024-03-15"))
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestGoalsHandlers(t *testing.T) {
	gService := &goalsServiceMock{}
	serv := api.New(&api.ServicesList{
		GoalsService: gService,
	})
	body, err := sonic.ConfigDefault.Marshal(api.GoalRequest{
		Category:      "Work",
		TargetMinutes: 480,
	})
	require.NoError(t, err)

	t.Run("list goals", func(t *testing.T) {
		gService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		serv.GetGoals(rr, authedRequest(http.MethodGet, "/api/v1/goals", nil))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.GetGoalsResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.Len(t, resp.Goals, 1)
	})
	t.Run("upsert goal", func(t *testing.T) {
		gService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		serv.UpsertGoal(rr, authedRequest(http.MethodPut, "/api/v1/goals", bytes.NewReader(body)))
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("upsert goal: validation error", func(t *testing.T) {
		gService.ChangeState(stateValidationError)
		rr := httptest.NewRecorder()
		serv.UpsertGoal(rr, authedRequest(http.MethodPut, "/api/v1/goals", bytes.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("upsert goal: corrupted body", func(t *testing.T) {
		gService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		serv.UpsertGoal(rr, authedRequest(http.MethodPut, "/api/v1/goals", bytes.NewReader([]byte("corrupted"))))
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("delete goal", func(t *testing.T) {
		gService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodDelete, "/api/v1/goals/3", nil)
		r.SetPathValue("id", "3")
		serv.DeleteGoal(rr, r)
		assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)
	})
	t.Run("delete goal: not found", func(t *testing.T) {
		gService.ChangeState(stateNotFoundError)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodDelete, "/api/v1/goals/3", nil)
		r.SetPathValue("id", "3")
		serv.DeleteGoal(rr, r)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
	t.Run("goal progress", func(t *testing.T) {
		gService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/goals/progress/2024-03-15", nil)
		r.SetPathValue("date", "2024-03-15")
		serv.GetGoalProgress(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var progress []analytics.GoalProgress
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&progress)
		require.NoError(t, err)
		require.Len(t, progress, 1)
		assert.Equal(t, 75, progress[0].Percentage)
	})
	t.Run("goal progress: invalid date", func(t *testing.T) {
		gService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/goals/progress/today", nil)
		r.SetPathValue("date", "today")
		serv.GetGoalProgress(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestStatsHandlers(t *testing.T) {
	sService := &statsServiceMock{}
	serv := api.New(&api.ServicesList{
		StatsService: sService,
	})

	t.Run("daily", func(t *testing.T) {
		sService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats/daily/2024-03-15", nil)
		r.SetPathValue("date", "2024-03-15")
		serv.GetDailyStats(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("daily: service error", func(t *testing.T) {
		sService.ChangeState(stateServiceError)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats/daily/2024-03-15", nil)
		r.SetPathValue("date", "2024-03-15")
		serv.GetDailyStats(rr, r)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("weekly", func(t *testing.T) {
		sService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats/weekly/2024-03-15", nil)
		r.SetPathValue("date", "2024-03-15")
		serv.GetWeeklyStats(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("monthly", func(t *testing.T) {
		sService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats/monthly/2024/3", nil)
		r.SetPathValue("year", "2024")
		r.SetPathValue("month", "3")
		serv.GetMonthlyStats(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("monthly: invalid month", func(t *testing.T) {
		sService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats/monthly/2024/13", nil)
		r.SetPathValue("year", "2024")
		r.SetPathValue("month", "13")
		serv.GetMonthlyStats(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("range", func(t *testing.T) {
		sService.ChangeState(stateSuccess)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats/range/2024-03-01/2024-03-15", nil)
		r.SetPathValue("start", "2024-03-01")
		r.SetPathValue("end", "2024-03-15")
		serv.GetRangeStats(rr, r)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("range: too wide", func(t *testing.T) {
		sService.ChangeState(stateRangeError)
		rr := httptest.NewRecorder()
		r := authedRequest(http.MethodGet, "/api/v1/stats/range/2024-01-01/2024-06-01", nil)
		r.SetPathValue("start", "2024-01-01")
		r.SetPathValue("end", "2024-06-01")
		serv.GetRangeStats(rr, r)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func testHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := api.GetUIDFromContext(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"uid": ` + uid.String() + `}`))
}

func TestAuthMiddleware(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	secret := "secret"
	cfg := setupAPITestDB(t)
	repo := repository.NewUsersRepo(cfg)
	userService := service.NewUserService(repo)
	serv := api.New(&api.ServicesList{
		UserService: userService,
		JwtService:  jwtservice.New(secret),
	})
	handler := serv.AuthMiddleware(http.HandlerFunc(testHandler))
	// Creating user to login
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Name:     username,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Run("creating user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	var token string
	var ok bool
	t.Run("logging in and getting token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
		if err != nil {
			t.Fatal(err)
		}
		token, ok = result["token"].(string)
		if !ok || token == "" {
			t.Error("invalid token")
		}
	})
	t.Run("successful auth", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
}

func TestUsersHandlersIntegrational(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	cfg := setupAPITestDB(t)
	repo := repository.NewUsersRepo(cfg)
	userService := service.NewUserService(repo)
	server := api.New(&api.ServicesList{
		UserService: userService,
		JwtService:  jwtservice.New("secret"),
	})
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Name:     username,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	var uid uuid.UUID
	t.Run("successfully registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		server.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
		result := make(map[string]any)
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
		if err != nil {
			t.Fatal(err)
		}
		defer rr.Result().Body.Close()
		uidStr, ok := result["uid"].(string)
		if ok {
			uid = uuid.MustParse(uidStr)
		} else {
			t.Error("invalid response body")
		}
	})
	t.Run("error registered: invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
		server.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("successfully logged in", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		server.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
		if err != nil {
			t.Fatal(err)
		}
		defer rr.Result().Body.Close()
		uidStr, ok := result["uid"].(string)
		var uidLogin uuid.UUID
		if ok {
			uidLogin = uuid.MustParse(uidStr)
		} else {
			t.Error("invalid response body")
		}
		assert.Equal(t, uid, uidLogin)
	})
	t.Run("error login: wrong password", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
			Name:     username,
			Password: password + "12345",
		})
		if err != nil {
			t.Fatal(err)
		}
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		server.Login(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Result().StatusCode)
	})
	t.Run("error login: user not found", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
			Name:     username + "dasdwdasd",
			Password: password,
		})
		if err != nil {
			t.Fatal(err)
		}
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		server.Login(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

type testPGConfig struct {
	connStr string
}

func (cfg *testPGConfig) ConnString() string {
	return cfg.connStr
}

func setupAPITestDB(t *testing.T) *testPGConfig {
	container, err := postgres.Run(context.Background(), "postgres:17",
		postgres.WithUsername("test_user"),
		postgres.WithDatabase("timelog"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatal("error running test container: " + err.Error())
	}
	connStr, err := container.ConnectionString(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	connStr += "sslmode=disable"
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatal(err)
	}
	err = goose.Up(conn, "../../migrations")
	if err != nil {
		t.Fatal(err)
	}

	conn.Close()
	t.Cleanup(func() {
		container.Terminate(context.Background())
	})
	return &testPGConfig{
		connStr: connStr,
	}
}
