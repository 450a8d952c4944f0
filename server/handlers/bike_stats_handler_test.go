package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bike-counter/models"
	services "bike-counter/service"
)

type stubStats struct {
	stats *models.MonthlyStats
	err   error
	got   models.MonthQuery
}

func (s *stubStats) GetMonthlyStats(ctx context.Context, q models.MonthQuery) (*models.MonthlyStats, error) {
	s.got = q
	return s.stats, s.err
}

func sampleStats() *models.MonthlyStats {
	day := time.Date(2014, time.January, 1, 0, 0, 0, 0, time.UTC)
	var result models.AggregationResult
	result.HourlyTotals[8] = 120
	result.WeekdayTotals[3] = 120
	result.TotalRides = 120
	result.BusiestDay = &day
	result.BusiestDayCount = 120
	return &models.MonthlyStats{
		Month:               1,
		Year:                2014,
		RecordCount:         24,
		Result:              result,
		BusiestWeekday:      3,
		BusiestWeekdayName:  "Wednesday",
		BusiestWeekdayCount: 120,
	}
}

func TestGetStats_Success(t *testing.T) {
	provider := &stubStats{stats: sampleStats()}
	h := NewBikeStatsHandler(provider, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bikes/stats?month=1&year=2014", nil)
	rr := httptest.NewRecorder()
	h.GetStats(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, models.MonthQuery{Month: 1, Year: 2014}, provider.got)

	var body models.MonthlyStatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "120", body.TotalRidesText)
	assert.Equal(t, "Wed, 01 Jan 2014 00:00:00 GMT (120)", body.BusiestDayText)
	assert.Equal(t, "Wednesday (120)", body.BusiestWeekdayText)
	assert.Equal(t, 120, body.Result.HourlyTotals[8])
}

func TestGetStats_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing month", "year=2014"},
		{"missing year", "month=1"},
		{"month not a number", "month=jan&year=2014"},
		{"year not a number", "month=1&year=twenty"},
		{"month too small", "month=0&year=2014"},
		{"month too large", "month=13&year=2014"},
		{"year before counter existed", "month=1&year=1999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubStats{stats: sampleStats()}
			h := NewBikeStatsHandler(provider, zap.NewNop())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bikes/stats?"+tt.query, nil)
			rr := httptest.NewRecorder()
			h.GetStats(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, ErrCodeInvalidQuery, body.Error)
			assert.Equal(t, models.MonthQuery{}, provider.got, "service must not be called")
		})
	}
}

func TestGetStats_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"no data", services.ErrNoData, http.StatusNotFound, ErrCodeNoData, NoDataMessage},
		{"fetch failed", fmt.Errorf("%w: timeout", services.ErrFetchFailed), http.StatusBadGateway, ErrCodeFetchFailed, FetchFailedMessage},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal, UnexpectedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBikeStatsHandler(&stubStats{err: tt.err}, zap.NewNop())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bikes/stats?month=2&year=2015", nil)
			rr := httptest.NewRecorder()
			h.GetStats(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestGetChart_Success(t *testing.T) {
	h := NewBikeStatsHandler(&stubStats{stats: sampleStats()}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bikes/chart?month=1&year=2014", nil)
	rr := httptest.NewRecorder()
	h.GetChart(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "January 2014")
	assert.Contains(t, rr.Body.String(), "Wednesday (120)")
}

func TestGetChart_NoData(t *testing.T) {
	h := NewBikeStatsHandler(&stubStats{err: services.ErrNoData}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bikes/chart?month=1&year=2030", nil)
	rr := httptest.NewRecorder()
	h.GetChart(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), NoDataMessage)
}

func TestGetChart_InvalidQuery(t *testing.T) {
	h := NewBikeStatsHandler(&stubStats{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bikes/chart?month=14&year=2014", nil)
	rr := httptest.NewRecorder()
	h.GetChart(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPing(t *testing.T) {
	rr := httptest.NewRecorder()
	Ping(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"pong"}`, rr.Body.String())
}
