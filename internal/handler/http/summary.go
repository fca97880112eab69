package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/summary"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/export"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type SummaryHandler interface {
	Daily(w http.ResponseWriter, r *http.Request)
	Weekly(w http.ResponseWriter, r *http.Request)
	ExportWeekly(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type summaryHandlerImpl struct {
	summaryService summary.SummaryService
	jwtService     jwt.Service
	hub            *sse.Hub
	clock          clock.Clock
	location       *time.Location
}

func NewSummaryHandler(
	summaryService summary.SummaryService,
	jwtService jwt.Service,
	hub *sse.Hub,
	clk clock.Clock,
	location *time.Location,
) SummaryHandler {
	return &summaryHandlerImpl{
		summaryService: summaryService,
		jwtService:     jwtService,
		hub:            hub,
		clock:          clk,
		location:       location,
	}
}

type streamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// Daily implements SummaryHandler. The date defaults to today in the organization time zone.
func (h *summaryHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	date := attendance.DateOf(h.clock.Now().In(h.location))
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := parseDateParam("date", raw)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		date = parsed
	}

	var (
		daily *summary.DailySummary
		rows  []summary.EmployeeDailyBreakdown
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		s, err := h.summaryService.DailySummaryFor(ctx, date)
		if errors.Is(err, summary.ErrSummaryNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		daily = &s
		return nil
	})
	g.Go(func() error {
		var err error
		rows, err = h.summaryService.ListBreakdown(ctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp := summary.DailyReportResponse{Records: make([]summary.BreakdownResponse, 0, len(rows))}
	if daily != nil {
		s := summary.NewDailySummaryResponse(*daily)
		resp.Summary = &s
	}
	for _, row := range rows {
		resp.Records = append(resp.Records, summary.NewBreakdownResponse(row))
	}

	response.Success(w, resp)
}

// Weekly implements SummaryHandler.
func (h *summaryHandlerImpl) Weekly(w http.ResponseWriter, r *http.Request) {
	view, err := h.summaryService.WeeklyView(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary.NewWeeklyViewResponse(view))
}

// ExportWeekly implements SummaryHandler.
func (h *summaryHandlerImpl) ExportWeekly(w http.ResponseWriter, r *http.Request) {
	view, err := h.summaryService.WeeklyView(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("weekly-summary-%s.xlsx", h.clock.Now().In(h.location).Format(validator.DateLayout))
	w.Header().Set("Content-Type", export.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteWeekly(w, view); err != nil {
		slog.Error("Failed to write weekly export", "error", err)
	}
}

// StreamToken implements SummaryHandler.
func (h *summaryHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	employeeID, err := middleware.EmployeeID(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(employeeID, jwt.RoleAdmin)
	if err != nil {
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, streamTokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream implements SummaryHandler with server-sent summary updates
func (h *summaryHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	employeeID, role, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	if role != jwt.RoleAdmin {
		response.HandleError(w, auth.ErrAdminPrivilegeRequired)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(sse.TopicSummaries)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"employee_id\":%q}\n\n", employeeID)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", h.clock.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
