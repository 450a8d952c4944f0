package util

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"bike-counter/chart"
	"bike-counter/models"
)

// ReadBikeCountsFromJSON loads counter records from a JSON array on disk, in
// the shape the open data API returns them.
func ReadBikeCountsFromJSON(filePath string) ([]models.BikeCountRecord, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var records []models.BikeCountRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bike counts: %w", err)
	}
	return records, nil
}

// PrintMonthlyStats writes the facts of a month followed by one line per hour.
func PrintMonthlyStats(w io.Writer, stats *models.MonthlyStats) {
	fmt.Fprintf(w, "Month: %s\n", chart.MonthTitle(stats.Month, stats.Year))
	fmt.Fprintf(w, "Records: %d (skipped %d)\n", stats.RecordCount, stats.Result.SkippedRecords)
	fmt.Fprintf(w, "Total rides: %s\n", chart.FormatTotalRides(stats))
	fmt.Fprintf(w, "Busiest day: %s\n", chart.FormatBusiestDay(stats.Result.BusiestDay, stats.Result.BusiestDayCount))
	fmt.Fprintf(w, "Busiest day of week: %s\n", chart.FormatBusiestWeekday(stats))

	c := chart.NewBarChart()
	c.Update(stats.Result)
	for _, b := range c.Bars() {
		fmt.Fprintf(w, "%02d:00 %8d %s\n", b.Hour, b.Value, b.Band)
	}
}
