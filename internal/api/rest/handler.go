package rest

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stephaneglaugier91/daulingo/internal/aggregator"
	"github.com/stephaneglaugier91/daulingo/internal/api/rest/dto"
	"github.com/stephaneglaugier91/daulingo/internal/classifier"
	"github.com/stephaneglaugier91/daulingo/internal/domain"
	"github.com/stephaneglaugier91/daulingo/internal/ingest"
	"github.com/stephaneglaugier91/daulingo/internal/store"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// RecordActivity accepts raw activity events and appends them to the ledger
	// POST /api/v1/activity
	RecordActivity(c *gin.Context)

	// TriggerCompute runs batch classification over a date window
	// POST /api/v1/compute
	TriggerCompute(c *gin.Context)

	// GetRetention returns one retention cell or, without day_offset, the full curve
	// GET /api/v1/retention?cohort_date=<YYYY-MM-DD>&day_offset=<n>
	GetRetention(c *gin.Context)

	// GetActiveUsers returns DAU/WAU/MAU for a day
	// GET /api/v1/active-users?day=<YYYY-MM-DD>
	GetActiveUsers(c *gin.Context)

	// GetTimeseries returns per-day per-state user counts
	// GET /api/v1/timeseries?start=<YYYY-MM-DD>&end=<YYYY-MM-DD>&exclude_weekends=<bool>
	GetTimeseries(c *gin.Context)

	// GetTransitions returns day-over-day retention-to-Current rates
	// GET /api/v1/transitions?start=<YYYY-MM-DD>&end=<YYYY-MM-DD>
	GetTransitions(c *gin.Context)

	// GetStates lists the persisted engagement states
	// GET /api/v1/states
	GetStates(c *gin.Context)

	// GetDateRange returns the span of recorded and classified data
	// GET /api/v1/meta/date-range
	GetDateRange(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	ingester   *ingest.Service
	runner     *classifier.Runner
	aggregator *aggregator.Aggregator
	store      store.Store
}

// NewHandler creates a new REST API handler
func NewHandler(ingester *ingest.Service, runner *classifier.Runner, agg *aggregator.Aggregator, st store.Store) Handler {
	return &handler{
		ingester:   ingester,
		runner:     runner,
		aggregator: agg,
		store:      st,
	}
}

// RecordActivity accepts raw activity events and appends them to the ledger
func (h *handler) RecordActivity(c *gin.Context) {
	var req dto.RecordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	summary, err := h.ingester.Ingest(c.Request.Context(), req.ToIngestEvents())
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateActivity) {
			respondConflict(c, "Conflicting activity records", err.Error())
			return
		}
		respondInternalError(c, err, "Failed to record activity")
		return
	}

	c.JSON(http.StatusAccepted, dto.RecordActivityResponse{
		EventsSeen:    summary.EventsSeen,
		FactsUpserted: summary.FactsUpserted,
		UsersSeen:     summary.UsersSeen,
	})
}

// TriggerCompute runs batch classification over a date window
func (h *handler) TriggerCompute(c *gin.Context) {
	var req dto.TriggerComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	window, err := h.resolveWindow(c, req)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyLedger) {
			respondNotFound(c, "No activity recorded yet")
			return
		}
		respondInternalError(c, err, "Failed to resolve compute window")
		return
	}

	report, err := h.runner.Run(c.Request.Context(), window)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWindow) {
			respondBadRequest(c, "Invalid compute window")
			return
		}
		respondInternalError(c, err, "Failed to run classification")
		return
	}

	resp := dto.TriggerComputeResponse{
		RunID:             report.RunID,
		WindowStart:       domain.FormatDay(report.Window.Start),
		WindowEnd:         domain.FormatDay(report.Window.End),
		RiskWindow:        report.RiskWindow,
		UsersConsidered:   report.UsersConsidered,
		RowsWritten:       report.RowsWritten,
		WatermarkAdvanced: report.WatermarkAdvanced,
	}
	if len(report.UserFailures) > 0 {
		resp.UserFailures = make(map[string]string, len(report.UserFailures))
		for userID, ferr := range report.UserFailures {
			resp.UserFailures[userID] = ferr.Error()
		}
	}

	c.JSON(http.StatusOK, resp)
}

// resolveWindow fills in window bounds the request left open. The start
// defaults to the day after the watermark (or the earliest recorded day when
// no run has ever completed), the end to the latest recorded day.
func (h *handler) resolveWindow(c *gin.Context, req dto.TriggerComputeRequest) (classifier.Window, error) {
	ctx := c.Request.Context()

	var window classifier.Window
	if req.StartDate != "" {
		window.Start, _ = domain.ParseDay(req.StartDate)
	}
	if req.EndDate != "" {
		window.End, _ = domain.ParseDay(req.EndDate)
	}

	if window.Start.IsZero() || window.End.IsZero() {
		minDay, maxDay, err := h.store.ActivityDateRange(ctx)
		if err != nil {
			return classifier.Window{}, err
		}
		if window.End.IsZero() {
			window.End = maxDay
		}
		if window.Start.IsZero() {
			window.Start = minDay
			wm, ok, err := h.store.GetWatermark(ctx)
			if err != nil {
				return classifier.Window{}, err
			}
			if ok && domain.NextDay(wm).After(minDay) {
				window.Start = domain.NextDay(wm)
			}
		}
	}

	return window, nil
}

// GetRetention returns one retention cell or, without day_offset, the full curve
func (h *handler) GetRetention(c *gin.Context) {
	params, err := ParseRetentionQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if params.DayOffset != nil {
		point, err := h.aggregator.Retention(c.Request.Context(), params.Cohort(), *params.DayOffset)
		if err != nil {
			respondInternalError(c, err, "Failed to compute retention")
			return
		}
		c.JSON(http.StatusOK, dto.FromRetentionPoint(point))
		return
	}

	curve, err := h.aggregator.RetentionCurve(c.Request.Context(), params.Cohort())
	if err != nil {
		respondInternalError(c, err, "Failed to compute retention curve")
		return
	}

	points := make([]dto.RetentionPointResponse, 0, len(curve))
	for _, p := range curve {
		points = append(points, dto.FromRetentionPoint(p))
	}
	c.JSON(http.StatusOK, dto.RetentionCurveResponse{
		CohortDate: domain.FormatDay(params.Cohort()),
		Points:     points,
	})
}

// GetActiveUsers returns DAU/WAU/MAU for a day
func (h *handler) GetActiveUsers(c *gin.Context) {
	params, err := ParseActiveUsersQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	counts, err := h.aggregator.ActiveUsers(c.Request.Context(), params.Date())
	if err != nil {
		respondInternalError(c, err, "Failed to compute active users")
		return
	}

	c.JSON(http.StatusOK, dto.ActiveUsersResponse{
		Day:   domain.FormatDay(counts.Day),
		DAU:   counts.DAU,
		WAU:   counts.WAU,
		MAU:   counts.MAU,
		Stale: counts.Stale,
	})
}

// GetTimeseries returns per-day per-state user counts
func (h *handler) GetTimeseries(c *gin.Context) {
	params, err := ParseRangeQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	start, end := params.Range()
	counts, err := h.aggregator.Timeseries(c.Request.Context(), start, end, params.ExcludeWeekends)
	if err != nil {
		respondInternalError(c, err, "Failed to compute timeseries")
		return
	}

	resp := dto.TimeseriesResponse{
		Start:  domain.FormatDay(start),
		End:    domain.FormatDay(end),
		Counts: make([]dto.StateCountResponse, 0, len(counts)),
	}
	for _, sc := range counts {
		resp.Counts = append(resp.Counts, dto.StateCountResponse{
			Day:       domain.FormatDay(sc.Day),
			State:     sc.State,
			UserCount: sc.UserCount,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GetTransitions returns day-over-day retention-to-Current rates
func (h *handler) GetTransitions(c *gin.Context) {
	params, err := ParseRangeQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	start, end := params.Range()
	rates, err := h.aggregator.TransitionRates(c.Request.Context(), start, end)
	if err != nil {
		respondInternalError(c, err, "Failed to compute transition rates")
		return
	}

	resp := make([]dto.TransitionRateResponse, 0, len(rates))
	for _, r := range rates {
		resp = append(resp, dto.TransitionRateResponse{
			Day:       domain.FormatDay(r.Day),
			FromState: r.FromState,
			Total:     r.Total,
			Retained:  r.Retained,
			Rate:      r.Rate,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// GetStates lists the persisted engagement states
func (h *handler) GetStates(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatesResponse{States: domain.States})
}

// GetDateRange returns the span of recorded and classified data
func (h *handler) GetDateRange(c *gin.Context) {
	ctx := c.Request.Context()
	var resp dto.DateRangeResponse

	minAct, maxAct, err := h.store.ActivityDateRange(ctx)
	if err != nil && !errors.Is(err, domain.ErrEmptyLedger) {
		respondInternalError(c, err, "Failed to read activity date range")
		return
	}
	if err == nil {
		resp.ActivityStart = dayPtr(minAct)
		resp.ActivityEnd = dayPtr(maxAct)
	}

	minState, maxState, err := h.store.StateDateRange(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, err, "Failed to read state date range")
		return
	}
	if err == nil {
		resp.ClassifiedStart = dayPtr(minState)
		resp.ClassifiedEnd = dayPtr(maxState)
	}

	wm, ok, err := h.store.GetWatermark(ctx)
	if err != nil {
		respondInternalError(c, err, "Failed to read watermark")
		return
	}
	if ok {
		resp.Watermark = dayPtr(wm)
	}

	c.JSON(http.StatusOK, resp)
}

func dayPtr(day time.Time) *string {
	s := domain.FormatDay(day)
	return &s
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "daulingo-api",
	})
}
