package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"busreservation/internal/domain"
	"busreservation/internal/domain/models"
	"busreservation/internal/http/middleware"
	"busreservation/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type principalParser struct{}

func (principalParser) ParseToken(token string) (domain.Principal, error) {
	switch token {
	case "operator":
		return domain.Principal{ID: 2, Name: "NB Express", Role: domain.RoleOperator}, nil
	case "commuter":
		return domain.Principal{ID: 3, Name: "nimal", Role: domain.RoleCommuter}, nil
	}
	return domain.Principal{}, domain.AuthenticationError{Msg: "invalid token"}
}

type mockReservations struct{ mock.Mock }

func (m *mockReservations) Reserve(ctx context.Context, caller domain.Principal, scheduleID string, in services.ReservationInput) (models.Reservation, error) {
	args := m.Called(ctx, caller, scheduleID, in)
	return args.Get(0).(models.Reservation), args.Error(1)
}

func (m *mockReservations) ListForUser(ctx context.Context, caller domain.Principal) ([]models.Reservation, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]models.Reservation), args.Error(1)
}

type mockSchedules struct{ mock.Mock }

func (m *mockSchedules) Create(ctx context.Context, caller domain.Principal, in services.ScheduleInput) (models.Schedule, error) {
	args := m.Called(ctx, caller, in)
	return args.Get(0).(models.Schedule), args.Error(1)
}

func (m *mockSchedules) UpdateLegs(ctx context.Context, caller domain.Principal, token string, raw []byte) (models.Schedule, error) {
	args := m.Called(ctx, caller, token, raw)
	return args.Get(0).(models.Schedule), args.Error(1)
}

func (m *mockSchedules) Delete(ctx context.Context, caller domain.Principal, token string) error {
	return m.Called(ctx, caller, token).Error(0)
}

func (m *mockSchedules) ListForOperator(ctx context.Context, caller domain.Principal) ([]models.Schedule, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]models.Schedule), args.Error(1)
}

func newTestEngine(hd Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
	r := gin.New()
	r.Use(middleware.RequestID())
	auth := middleware.Auth(principalParser{})
	r.POST("/reserve", auth, hd.Reserve)
	r.PUT("/schedules/:scheduleId", auth, hd.UpdateSchedule)
	r.DELETE("/schedules/:scheduleId", auth, hd.DeleteSchedule)
	r.POST("/routes", hd.CreateRoute)
	return r
}

func do(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const reserveBody = `{"passengerName":"Nimal Perera","gender":"Male","mobileNumber":"0771234567",
	"boardingPlace":"Colombo","destinationPlace":"Kurunegala","seats":[2,4]}`

func TestReserveCreated(t *testing.T) {
	res := &mockReservations{}
	res.On("Reserve", mock.Anything, mock.MatchedBy(func(p domain.Principal) bool { return p.Name == "nimal" }), "TOKEN",
		mock.MatchedBy(func(in services.ReservationInput) bool {
			return assert.ObjectsAreEqual([]int{2, 4}, in.SeatNumbers)
		})).
		Return(models.Reservation{ReservationID: "241231-05-1234-2-4"}, nil)

	w := do(newTestEngine(Handler{Reservations: res}), http.MethodPost, "/reserve?scheduleId=TOKEN", "commuter", reserveBody)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "241231-05-1234-2-4", body["reservationId"])
	res.AssertExpectations(t)
}

func TestReserveSeatNumbersAlias(t *testing.T) {
	res := &mockReservations{}
	res.On("Reserve", mock.Anything, mock.Anything, "TOKEN",
		mock.MatchedBy(func(in services.ReservationInput) bool {
			return assert.ObjectsAreEqual([]int{7}, in.SeatNumbers)
		})).
		Return(models.Reservation{ReservationID: "x"}, nil)

	body := strings.Replace(reserveBody, `"seats":[2,4]`, `"seatNumbers":[7]`, 1)
	w := do(newTestEngine(Handler{Reservations: res}), http.MethodPost, "/reserve?scheduleId=TOKEN", "commuter", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	res.AssertExpectations(t)
}

func TestReserveConflictListsSeats(t *testing.T) {
	res := &mockReservations{}
	res.On("Reserve", mock.Anything, mock.Anything, "TOKEN", mock.Anything).
		Return(models.Reservation{}, domain.ConflictError{Resource: "seats", Msg: "Some seats are already reserved", Seats: []int{2, 4}})

	w := do(newTestEngine(Handler{Reservations: res}), http.MethodPost, "/reserve?scheduleId=TOKEN", "commuter", reserveBody)

	require.Equal(t, http.StatusConflict, w.Code)
	var body struct {
		UnavailableSeats []int `json:"unavailableSeats"`
		Details          struct {
			UnavailableSeats []int `json:"unavailableSeats"`
		} `json:"details"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []int{2, 4}, body.UnavailableSeats)
	assert.Equal(t, []int{2, 4}, body.Details.UnavailableSeats)
	assert.NotEmpty(t, body.RequestID)
}

func TestReserveRejectsBadPayload(t *testing.T) {
	res := &mockReservations{}
	r := newTestEngine(Handler{Reservations: res})

	w := do(r, http.MethodPost, "/reserve?scheduleId=TOKEN", "commuter", `{"passengerName":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/reserve?scheduleId=TOKEN", "commuter", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/reserve?scheduleId=TOKEN", "", reserveBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	res.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDomainErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ValidationError{Field: "schedule", Msg: "Only the schedule section can be updated"}, http.StatusBadRequest},
		{domain.AuthenticationError{}, http.StatusUnauthorized},
		{domain.AuthorizationError{Msg: "You are not authorized to update this schedule"}, http.StatusForbidden},
		{domain.NotFoundError{Resource: "schedule"}, http.StatusNotFound},
		{domain.ConflictError{Resource: "schedule", Msg: "schedule token already exists"}, http.StatusConflict},
		{domain.InternalError{Err: errors.New("connection reset")}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		sched := &mockSchedules{}
		sched.On("UpdateLegs", mock.Anything, mock.Anything, "T1", mock.Anything).Return(models.Schedule{}, tc.err)

		w := do(newTestEngine(Handler{Schedules: sched}), http.MethodPut, "/schedules/T1", "operator", `{"schedule":[]}`)
		assert.Equal(t, tc.status, w.Code, "error %v", tc.err)
		if tc.status == http.StatusInternalServerError {
			assert.NotContains(t, w.Body.String(), "connection reset")
		}
	}
}

func TestUpdateSchedulePassesRawBody(t *testing.T) {
	sched := &mockSchedules{}
	payload := `{"schedule":[{"departurePoint":"Colombo"}],"bus":{}}`
	sched.On("UpdateLegs", mock.Anything, mock.Anything, "T1", []byte(payload)).Return(models.Schedule{ScheduleToken: "T1"}, nil)

	w := do(newTestEngine(Handler{Schedules: sched}), http.MethodPut, "/schedules/T1", "operator", payload)
	assert.Equal(t, http.StatusOK, w.Code)
	sched.AssertExpectations(t)
}

func TestDeleteSchedule(t *testing.T) {
	sched := &mockSchedules{}
	sched.On("Delete", mock.Anything, mock.Anything, "T1").Return(nil)
	sched.On("Delete", mock.Anything, mock.Anything, "missing").Return(domain.NotFoundError{Resource: "schedule"})
	r := newTestEngine(Handler{Schedules: sched})

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/schedules/T1", "operator", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/schedules/missing", "operator", "").Code)
}

func TestCreateRouteRejectsHyphen(t *testing.T) {
	r := newTestEngine(Handler{})
	w := do(r, http.MethodPost, "/routes", "", `{"routeNumber":"05-A","startingPoint":"Colombo","endingPoint":"Kandy"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
