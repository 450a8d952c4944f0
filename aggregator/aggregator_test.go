package aggregator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-counter/models"
)

func record(day, hour int, nb, sb string) models.BikeCountRecord {
	return models.BikeCountRecord{
		Date:            fmt.Sprintf("2014-01-%02dT%02d:00:00.000", day, hour),
		NorthboundCount: nb,
		SouthboundCount: sb,
	}
}

// fullDay returns 24 hourly records for a January 2014 day with the given counts.
func fullDay(day, nb, sb int) []models.BikeCountRecord {
	out := make([]models.BikeCountRecord, 0, models.HoursPerDay)
	for h := 0; h < models.HoursPerDay; h++ {
		out = append(out, record(day, h, fmt.Sprint(nb), fmt.Sprint(sb)))
	}
	return out
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func assertTotalsConsistent(t *testing.T, res models.AggregationResult) {
	t.Helper()
	assert.Equal(t, res.TotalRides, sum(res.HourlyTotals[:]))
	assert.Equal(t, res.TotalRides, sum(res.WeekdayTotals[:]))
}

func TestAggregate_EmptyInput(t *testing.T) {
	res := Aggregate(nil)

	assert.Equal(t, [models.HoursPerDay]int{}, res.HourlyTotals)
	assert.Equal(t, [models.DaysPerWeek]int{}, res.WeekdayTotals)
	assert.Zero(t, res.TotalRides)
	assert.Nil(t, res.BusiestDay)
	assert.Zero(t, res.BusiestDayCount)
	assert.False(t, res.HasBusiestDay())
}

func TestAggregate_DayClosedByFollowingRecord(t *testing.T) {
	records := append(fullDay(1, 1, 1), record(2, 0, "3", "4"))

	res := Aggregate(records)

	require.NotNil(t, res.BusiestDay)
	assert.Equal(t, time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC), *res.BusiestDay)
	assert.Equal(t, 48, res.BusiestDayCount)
	assert.Equal(t, 48+7, res.TotalRides)
	assert.Equal(t, 2+7, res.HourlyTotals[0])
	for h := 1; h < models.HoursPerDay; h++ {
		assert.Equal(t, 2, res.HourlyTotals[h], "hour %d", h)
	}
	// 2014-01-01 was a Wednesday, 2014-01-02 a Thursday.
	assert.Equal(t, 48, res.WeekdayTotals[time.Wednesday])
	assert.Equal(t, 7, res.WeekdayTotals[time.Thursday])
	assertTotalsConsistent(t, res)
}

func TestAggregate_LargerDayWinsOnceClosed(t *testing.T) {
	var records []models.BikeCountRecord
	records = append(records, fullDay(1, 1, 1)...) // 48
	records = append(records, fullDay(2, 2, 3)...) // 120
	records = append(records, record(3, 0, "1", "0"))

	res := Aggregate(records)

	require.NotNil(t, res.BusiestDay)
	assert.Equal(t, 2, res.BusiestDay.Day())
	assert.Equal(t, 120, res.BusiestDayCount)
	assertTotalsConsistent(t, res)
}

func TestAggregate_SmallerLaterDayDoesNotReplace(t *testing.T) {
	var records []models.BikeCountRecord
	records = append(records, fullDay(1, 5, 5)...) // 240
	records = append(records, fullDay(2, 1, 1)...) // 48
	records = append(records, record(3, 0, "1", "1"))

	res := Aggregate(records)

	require.NotNil(t, res.BusiestDay)
	assert.Equal(t, 1, res.BusiestDay.Day())
	assert.Equal(t, 240, res.BusiestDayCount)
}

func TestAggregate_EqualDayDoesNotReplace(t *testing.T) {
	var records []models.BikeCountRecord
	records = append(records, fullDay(1, 1, 1)...)
	records = append(records, fullDay(2, 1, 1)...)
	records = append(records, record(3, 0, "1", "1"))

	res := Aggregate(records)

	require.NotNil(t, res.BusiestDay)
	assert.Equal(t, 1, res.BusiestDay.Day())
}

func TestAggregate_LastGroupIsNeverFinalized(t *testing.T) {
	res := Aggregate(fullDay(1, 100, 100))

	assert.Nil(t, res.BusiestDay)
	assert.Zero(t, res.BusiestDayCount)
	assert.Equal(t, 4800, res.TotalRides)
}

func TestAggregate_LargestFinalDayIsIgnored(t *testing.T) {
	var records []models.BikeCountRecord
	records = append(records, fullDay(1, 1, 1)...)
	records = append(records, fullDay(2, 50, 50)...)

	res := Aggregate(records)

	require.NotNil(t, res.BusiestDay)
	assert.Equal(t, 1, res.BusiestDay.Day())
	assert.Equal(t, 48, res.BusiestDayCount)
}

func TestAggregate_MalformedRecordContributesNothing(t *testing.T) {
	good := append(fullDay(1, 1, 1), record(2, 0, "1", "1"))
	want := Aggregate(good)

	tests := []struct {
		name string
		bad  models.BikeCountRecord
	}{
		{"non-numeric northbound", record(1, 5, "abc", "10")},
		{"non-numeric southbound", record(1, 5, "10", "")},
		{"negative northbound", record(1, 5, "-50", "1")},
		{"negative southbound", record(1, 5, "3", "-1")},
		{"missing both", models.BikeCountRecord{Date: "2014-01-01T05:00:00.000"}},
		{"unparseable date", models.BikeCountRecord{Date: "yesterday", NorthboundCount: "9", SouthboundCount: "9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]models.BikeCountRecord, 0, len(good)+1)
			records = append(records, good[:10]...)
			records = append(records, tt.bad)
			records = append(records, good[10:]...)

			got := Aggregate(records)

			assert.Equal(t, want.HourlyTotals, got.HourlyTotals)
			assert.Equal(t, want.WeekdayTotals, got.WeekdayTotals)
			assert.Equal(t, want.TotalRides, got.TotalRides)
			assert.Equal(t, want.BusiestDay, got.BusiestDay)
			assert.Equal(t, want.BusiestDayCount, got.BusiestDayCount)
			assert.Equal(t, 1, got.SkippedRecords)
		})
	}
}

func TestAggregate_NegativeCountIsSkipped(t *testing.T) {
	res := Aggregate([]models.BikeCountRecord{
		{Date: "2014-01-01T05:00:00.000", NorthboundCount: "-50", SouthboundCount: "1"},
	})

	assert.Equal(t, 0, res.HourlyTotals[5])
	assert.Equal(t, 0, res.WeekdayTotals[time.Wednesday])
	assert.Equal(t, 0, res.TotalRides)
	assert.Equal(t, 1, res.SkippedRecords)
}

func TestAggregate_MalformedRecordIsNotADayBoundary(t *testing.T) {
	records := fullDay(1, 1, 1)
	records = append(records, record(2, 0, "n/a", "1"))

	res := Aggregate(records)

	assert.Nil(t, res.BusiestDay, "a skipped record on a new day must not close the previous day")
	assert.Equal(t, 48, res.TotalRides)
}

func TestAggregate_NonConsecutiveDaysStillCloseGroups(t *testing.T) {
	var records []models.BikeCountRecord
	records = append(records, fullDay(3, 2, 2)...)
	records = append(records, record(9, 12, "0", "0"))

	res := Aggregate(records)

	require.NotNil(t, res.BusiestDay)
	assert.Equal(t, 3, res.BusiestDay.Day())
	assert.Equal(t, 96, res.BusiestDayCount)
}

func TestAggregate_IsDeterministic(t *testing.T) {
	records := append(fullDay(4, 7, 3), fullDay(5, 1, 9)...)

	assert.Equal(t, Aggregate(records), Aggregate(records))
}

func TestBusiestWeekday(t *testing.T) {
	tests := []struct {
		name      string
		totals    [models.DaysPerWeek]int
		wantIndex int
		wantCount int
	}{
		{"all zero", [models.DaysPerWeek]int{}, models.NoWeekday, 0},
		{"single max", [models.DaysPerWeek]int{1, 2, 9, 3, 0, 0, 0}, 2, 9},
		{"tie goes to first", [models.DaysPerWeek]int{0, 5, 0, 5, 0, 0, 5}, 1, 5},
		{"saturday", [models.DaysPerWeek]int{1, 1, 1, 1, 1, 1, 2}, 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, count := BusiestWeekday(tt.totals)
			assert.Equal(t, tt.wantIndex, index)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "Sunday", DayName(0))
	assert.Equal(t, "Wednesday", DayName(3))
	assert.Equal(t, "Saturday", DayName(6))
	assert.Equal(t, "Unknown", DayName(7))
	assert.Equal(t, "Unknown", DayName(models.NoWeekday))
}
