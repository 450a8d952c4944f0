package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"bike-counter/chart"
	"bike-counter/models"
	services "bike-counter/service"
)

const (
	MONTH_QUERY_ARG = "month"
	YEAR_QUERY_ARG  = "year"
)

// User facing messages.
const (
	NoDataMessage      = "No data was found for the provided inputs. Try selecting a different month/year."
	FetchFailedMessage = ":( No bueno - unable to fetch data for the provided month/year. Try specifying different inputs or refresh the page."
	UnexpectedMessage  = "Nice work, you found a bug, er, I mean hidden feature!"
)

// Error codes of the JSON error body.
const (
	ErrCodeInvalidQuery = "invalid_query"
	ErrCodeNoData       = "no_data"
	ErrCodeFetchFailed  = "fetch_failed"
	ErrCodeInternal     = "internal_error"
)

var validate = validator.New()

// MonthlyStatsProvider produces the aggregated stats of a month.
type MonthlyStatsProvider interface {
	GetMonthlyStats(ctx context.Context, q models.MonthQuery) (*models.MonthlyStats, error)
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type BikeStatsHandler struct {
	stats  MonthlyStatsProvider
	logger *zap.Logger
}

func NewBikeStatsHandler(stats MonthlyStatsProvider, logger *zap.Logger) *BikeStatsHandler {
	return &BikeStatsHandler{stats: stats, logger: logger.Named("BikeStatsHandler")}
}

// GetStats serves the aggregated month as JSON.
// expects ?month={1-12}&year={yyyy}
func (h *BikeStatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	q, err := parseMonthQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrCodeInvalidQuery, Message: err.Error()})
		return
	}

	stats, err := h.stats.GetMonthlyStats(r.Context(), q)
	if err != nil {
		status, code, msg := h.classify(q, err)
		writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
		return
	}

	writeJSON(w, http.StatusOK, chart.NewMonthlyStatsResponse(stats))
}

// GetChart serves the aggregated month as an HTML bar chart.
// expects ?month={1-12}&year={yyyy}
func (h *BikeStatsHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	q, err := parseMonthQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stats, err := h.stats.GetMonthlyStats(r.Context(), q)
	if err != nil {
		status, _, msg := h.classify(q, err)
		http.Error(w, msg, status)
		return
	}

	c := chart.NewBarChart()
	c.SetSubtitle(fmt.Sprintf("%s | total rides: %s | busiest day: %s | busiest weekday: %s",
		chart.MonthTitle(q.Month, q.Year),
		chart.FormatTotalRides(stats),
		chart.FormatBusiestDay(stats.Result.BusiestDay, stats.Result.BusiestDayCount),
		chart.FormatBusiestWeekday(stats)))
	c.Update(stats.Result)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(w); err != nil {
		h.logger.Error("error rendering chart", zap.Error(err))
	}
}

// classify maps a service error to a status, an error code and a user message.
func (h *BikeStatsHandler) classify(q models.MonthQuery, err error) (int, string, string) {
	switch {
	case errors.Is(err, services.ErrNoData):
		h.logger.Info("no data for month", zap.Int("month", q.Month), zap.Int("year", q.Year))
		return http.StatusNotFound, ErrCodeNoData, NoDataMessage
	case errors.Is(err, services.ErrFetchFailed):
		h.logger.Error("error fetching data", zap.Int("month", q.Month), zap.Int("year", q.Year), zap.Error(err))
		return http.StatusBadGateway, ErrCodeFetchFailed, FetchFailedMessage
	default:
		h.logger.Error("unexpected error", zap.Int("month", q.Month), zap.Int("year", q.Year), zap.Error(err))
		return http.StatusInternalServerError, ErrCodeInternal, UnexpectedMessage
	}
}

func parseMonthQuery(vals url.Values) (models.MonthQuery, error) {
	var q models.MonthQuery

	monthStr := vals.Get(MONTH_QUERY_ARG)
	yearStr := vals.Get(YEAR_QUERY_ARG)
	if monthStr == "" || yearStr == "" {
		return q, errors.New("month and year query parameters are required")
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return q, fmt.Errorf("invalid month %q", monthStr)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return q, fmt.Errorf("invalid year %q", yearStr)
	}

	q.Month = month
	q.Year = year
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
