package aggregator

import (
	"time"

	"bike-counter/models"
)

// noGroupDay marks that no valid record has been seen yet. Day-of-month is never 0.
const noGroupDay = 0

// Aggregate computes hourly, weekday and busiest-day totals for records,
// which are expected in ascending time order. It never fails: malformed
// records are skipped and counted in SkippedRecords.
func Aggregate(records []models.BikeCountRecord) models.AggregationResult {
	var out models.AggregationResult

	groupDay := noGroupDay
	groupTotal := 0
	var groupDate time.Time

	for _, raw := range records {
		rec, ok := ParseRecord(raw)
		if !ok {
			out.SkippedRecords++
			continue
		}

		day := rec.Time.Day()
		if groupDay == noGroupDay {
			groupDay = day
			groupDate = startOfDay(rec.Time)
		}

		if day != groupDay {
			if groupTotal > out.BusiestDayCount {
				busiest := groupDate
				out.BusiestDay = &busiest
				out.BusiestDayCount = groupTotal
			}
			groupDay = day
			groupDate = startOfDay(rec.Time)
			groupTotal = 0
		}

		groupTotal += rec.HourlyTotal
		out.TotalRides += rec.HourlyTotal
		out.HourlyTotals[rec.Time.Hour()] += rec.HourlyTotal
		out.WeekdayTotals[int(rec.Time.Weekday())] += rec.HourlyTotal
	}

	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BusiestWeekday returns the weekday index with the largest total and that
// total. Ties go to the lowest index. When no total is above zero the index
// is models.NoWeekday.
func BusiestWeekday(totals [models.DaysPerWeek]int) (int, int) {
	index, best := models.NoWeekday, 0
	for i, v := range totals {
		if v > best {
			index, best = i, v
		}
	}
	return index, best
}

var dayNames = [models.DaysPerWeek]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// DayName converts a weekday index (0=Sunday) to its English name.
func DayName(index int) string {
	if index < 0 || index >= len(dayNames) {
		return "Unknown"
	}
	return dayNames[index]
}
