package models

import "time"

const (
	HoursPerDay  = 24
	DaysPerWeek  = 7
	NoWeekday    = -1
	NotAvailable = "N/A"
)

// AggregationResult holds the per-hour, per-weekday and busiest-day totals
// computed from one query range of BikeCountRecords.
type AggregationResult struct {
	HourlyTotals    [HoursPerDay]int `json:"hourly_totals"`
	WeekdayTotals   [DaysPerWeek]int `json:"weekday_totals"`
	TotalRides      int              `json:"total_rides"`
	BusiestDay      *time.Time       `json:"busiest_day"`
	BusiestDayCount int              `json:"busiest_day_count"`
	SkippedRecords  int              `json:"skipped_records"`
}

// HasBusiestDay reports whether a busiest day was finalized.
func (r AggregationResult) HasBusiestDay() bool {
	return r.BusiestDay != nil
}

// MaxHourlyTotal returns the largest entry of HourlyTotals.
func (r AggregationResult) MaxHourlyTotal() int {
	highest := 0
	for _, v := range r.HourlyTotals {
		if v > highest {
			highest = v
		}
	}
	return highest
}
