package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/config"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/attendance"
	summaryService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/summary"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/service/timesheet"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testServer struct {
	router     *chi.Mux
	clock      *clock.Fixed
	jwtService jwt.Service
	hub        *sse.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clk := clock.NewFixed(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	store := memory.NewStore(clk)
	store.SeedProfile(employee.Profile{ID: "emp-1", DisplayName: "Ana Reyes"})
	store.SeedProfile(employee.Profile{ID: "emp-2", DisplayName: "Ben Cruz"})

	schedule, err := employee.NewShiftSchedule("09:00", "18:00", 9)
	require.NoError(t, err)

	hub := sse.NewHub()
	summarySvc := summaryService.NewSummaryService(store, store, store, clk, sse.NewSummaryPublisher(hub))
	attendanceSvc := attendanceService.NewAttendanceService(
		store, store, summarySvc, timesheet.NewCalculator(), clk, time.UTC, schedule,
	)
	jwtSvc := jwt.NewJWTService(handlerTestSecret)

	cfg := &config.Config{App: config.AppConfig{Env: "test", AllowedOrigins: []string{"http://localhost:3000"}}}
	router := NewRouter(
		cfg,
		jwtSvc,
		NewAttendanceHandler(attendanceSvc),
		NewSummaryHandler(summarySvc, jwtSvc, hub, clk, time.UTC),
	)

	return &testServer{router: router, clock: clk, jwtService: jwtSvc, hub: hub}
}

func (s *testServer) token(t *testing.T, employeeID, role string) string {
	t.Helper()
	token, _, err := s.jwtService.GenerateAccessToken(employeeID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestRouter_PunchLifecycle(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.token(t, "emp-1", jwt.RoleEmployee)
	adminToken := s.token(t, "admin-1", jwt.RoleAdmin)

	w := s.do(t, http.MethodPost, "/api/v1/attendance/time-in", employeeToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]any)
	assert.Equal(t, "emp-1", data["employee_id"])
	assert.Equal(t, "2024-01-15", data["date"])
	assert.Nil(t, data["time_out"])

	w = s.do(t, http.MethodPost, "/api/v1/attendance/time-in", employeeToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	s.clock.Advance(9 * time.Hour)
	w = s.do(t, http.MethodPost, "/api/v1/attendance/time-out", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeEnvelope(t, w)["data"].(map[string]any)
	metrics := data["metrics"].(map[string]any)
	assert.Equal(t, 9.0, metrics["regular_hours"])
	assert.Equal(t, 0.0, metrics["overtime_hours"])
	assert.Equal(t, 0.0, metrics["late_minutes"])

	w = s.do(t, http.MethodPost, "/api/v1/attendance/time-out", employeeToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/attendance/today", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decodeEnvelope(t, w)["data"].(map[string]any)["time_out"])

	w = s.do(t, http.MethodGet, "/api/v1/attendance/my", employeeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decodeEnvelope(t, w)["data"].(map[string]any)["total_count"])

	w = s.do(t, http.MethodGet, "/api/v1/summaries/daily?date=2024-01-15", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decodeEnvelope(t, w)["data"].(map[string]any)
	daily := report["summary"].(map[string]any)
	assert.Equal(t, 9.0, daily["total_regular"])
	assert.Equal(t, 1.0, daily["total_employees"])
	records := report["records"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, "Ana Reyes", records[0].(map[string]any)["name"])

	w = s.do(t, http.MethodGet, "/api/v1/summaries/weekly", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	days := decodeEnvelope(t, w)["data"].(map[string]any)["days"].([]any)
	assert.Len(t, days, 1)
}

func TestRouter_Authorization(t *testing.T) {
	s := newTestServer(t)
	employeeToken := s.token(t, "emp-1", jwt.RoleEmployee)

	w := s.do(t, http.MethodPost, "/api/v1/attendance/time-in", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/attendance/time-in", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sseToken, _, err := s.jwtService.GenerateSSEToken("emp-1", jwt.RoleEmployee)
	require.NoError(t, err)
	w = s.do(t, http.MethodGet, "/api/v1/attendance/today", sseToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "SSE tokens are not access tokens")

	w = s.do(t, http.MethodGet, "/api/v1/summaries/daily", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/attendance?date=2024-01-15", employeeToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_UnknownEmployee(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/attendance/time-in", s.token(t, "ghost", jwt.RoleEmployee), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_DailyWithoutSummary(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/summaries/daily", s.token(t, "admin-1", jwt.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decodeEnvelope(t, w)["data"].(map[string]any)
	assert.Nil(t, report["summary"])
	assert.Empty(t, report["records"])
}

func TestRouter_InvalidDates(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.token(t, "admin-1", jwt.RoleAdmin)

	w := s.do(t, http.MethodGet, "/api/v1/attendance?date=15-01-2024", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp["error"].(map[string]any)["code"])

	w = s.do(t, http.MethodGet, "/api/v1/summaries/daily?date=yesterday", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/attendance/emp-1/2024-13-01/aggregate", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_AdminOverwrite(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.token(t, "admin-1", jwt.RoleAdmin)

	w := s.do(t, http.MethodPut, "/api/v1/attendance/emp-2/2024-01-14", adminToken, []byte("{not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, err := json.Marshal(map[string]string{
		"time_in":  "2024-01-14T09:30:00Z",
		"time_out": "2024-01-14T20:00:00Z",
	})
	require.NoError(t, err)
	w = s.do(t, http.MethodPut, "/api/v1/attendance/emp-2/2024-01-14", adminToken, body)
	require.Equal(t, http.StatusOK, w.Code)
	metrics := decodeEnvelope(t, w)["data"].(map[string]any)["metrics"].(map[string]any)
	assert.Equal(t, 9.0, metrics["regular_hours"])
	assert.Equal(t, 1.5, metrics["overtime_hours"])
	assert.Equal(t, 30.0, metrics["late_minutes"])

	w = s.do(t, http.MethodGet, "/api/v1/attendance?date=2024-01-14", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decodeEnvelope(t, w)["data"].(map[string]any)["total_count"])

	w = s.do(t, http.MethodPost, "/api/v1/attendance/emp-2/2024-01-14/aggregate", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/summaries/daily?date=2024-01-14", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	daily := decodeEnvelope(t, w)["data"].(map[string]any)["summary"].(map[string]any)
	assert.Equal(t, 1.0, daily["total_employees"], "retry does not double count")
	assert.Equal(t, 1.5, daily["total_overtime"])

	w = s.do(t, http.MethodPost, "/api/v1/attendance/emp-1/2024-01-14/aggregate", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ExportWeekly(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.token(t, "admin-1", jwt.RoleAdmin)
	employeeToken := s.token(t, "emp-1", jwt.RoleEmployee)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/attendance/time-in", employeeToken, nil).Code)
	s.clock.Advance(8 * time.Hour)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/attendance/time-out", employeeToken, nil).Code)

	w := s.do(t, http.MethodGet, "/api/v1/summaries/weekly/export", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.XLSXContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "weekly-summary-2024-01-15.xlsx")
	assert.NotZero(t, w.Body.Len())
}

type pendingAttendanceService struct {
	attendance.AttendanceService
}

func (pendingAttendanceService) RecordTimeOut(ctx context.Context, employeeID string) (attendance.Record, error) {
	return attendance.Record{}, &attendance.AggregationPendingError{
		EmployeeID: employeeID,
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Err:        errors.New("summary store unavailable"),
	}
}

func TestAttendanceHandler_TimeOutAggregationPending(t *testing.T) {
	handler := NewAttendanceHandler(pendingAttendanceService{})
	jwtSvc := jwt.NewJWTService(handlerTestSecret)
	token, _, err := jwtSvc.GenerateAccessToken("emp-1", jwt.RoleEmployee, time.Hour)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtSvc.JWTAuth()))
		r.Post("/time-out", handler.TimeOut)
	})

	req := httptest.NewRequest(http.MethodPost, "/time-out", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeEnvelope(t, w)
	errDetail := resp["error"].(map[string]any)
	assert.Equal(t, "AGGREGATION_PENDING", errDetail["code"])
	details := errDetail["details"].(map[string]any)
	assert.Equal(t, "emp-1", details["employee_id"])
	assert.Equal(t, "2024-01-15", details["date"])
}

func TestRouter_StreamRejectsBadTokens(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/summaries/stream", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	accessToken := s.token(t, "admin-1", jwt.RoleAdmin)
	w = s.do(t, http.MethodGet, "/api/v1/summaries/stream?token="+accessToken, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "access tokens are not SSE tokens")

	employeeSSE, _, err := s.jwtService.GenerateSSEToken("emp-1", jwt.RoleEmployee)
	require.NoError(t, err)
	w = s.do(t, http.MethodGet, "/api/v1/summaries/stream?token="+employeeSSE, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_StreamDeliversSummaryUpdates(t *testing.T) {
	s := newTestServer(t)
	server := httptest.NewServer(s.router)
	defer server.Close()

	adminToken := s.token(t, "admin-1", jwt.RoleAdmin)
	w := s.do(t, http.MethodPost, "/api/v1/summaries/stream/token", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sseToken := decodeEnvelope(t, w)["data"].(map[string]any)["token"].(string)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/summaries/stream?token="+sseToken, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && name != "":
				return name, data
			}
		}
	}

	name, _ := readEvent()
	require.Equal(t, "connected", name)

	employeeToken := s.token(t, "emp-1", jwt.RoleEmployee)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/attendance/time-in", employeeToken, nil).Code)
	s.clock.Advance(9 * time.Hour)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/attendance/time-out", employeeToken, nil).Code)

	name, data := readEvent()
	assert.Equal(t, sse.EventSummaryUpdated, name)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, "2024-01-15", payload["date"])
	assert.Equal(t, 1.0, payload["total_employees"])
}
