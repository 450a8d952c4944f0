package chart

import (
	"fmt"
	"strconv"
	"time"

	"bike-counter/models"
)

// utcLayout renders dates the way browsers print Date.toUTCString.
const utcLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// FormatTotalRides returns the ride total, or N/A when the month had no data.
func FormatTotalRides(stats *models.MonthlyStats) string {
	if stats == nil {
		return models.NotAvailable
	}
	return strconv.Itoa(stats.Result.TotalRides)
}

// FormatBusiestDay renders the busiest day and its total, e.g.
// "Wed, 01 Jan 2014 00:00:00 GMT (4123)". Absent days render as N/A.
func FormatBusiestDay(t *time.Time, count int) string {
	if t == nil {
		return models.NotAvailable
	}
	return fmt.Sprintf("%s (%d)", t.UTC().Format(utcLayout), count)
}

// FormatBusiestWeekday renders the busiest day of the week, e.g. "Tuesday (123)".
func FormatBusiestWeekday(stats *models.MonthlyStats) string {
	if stats == nil || stats.BusiestWeekday == models.NoWeekday {
		return models.NotAvailable
	}
	return fmt.Sprintf("%s (%d)", stats.BusiestWeekdayName, stats.BusiestWeekdayCount)
}

// NewMonthlyStatsResponse attaches the formatted facts to stats.
func NewMonthlyStatsResponse(stats *models.MonthlyStats) models.MonthlyStatsResponse {
	return models.MonthlyStatsResponse{
		MonthlyStats:       *stats,
		TotalRidesText:     FormatTotalRides(stats),
		BusiestDayText:     FormatBusiestDay(stats.Result.BusiestDay, stats.Result.BusiestDayCount),
		BusiestWeekdayText: FormatBusiestWeekday(stats),
	}
}

// MonthTitle renders a month as "January 2014".
func MonthTitle(month, year int) string {
	return fmt.Sprintf("%s %d", time.Month(month), year)
}
