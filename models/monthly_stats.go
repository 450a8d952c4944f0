package models

// MonthQuery selects one calendar month of counter data.
type MonthQuery struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2012,max=2100"`
}

// Month identifies a calendar month.
type Month struct {
	Month int
	Year  int
}

// MonthlyStats is the aggregated view of a month handed to the presentation layer.
type MonthlyStats struct {
	Month               int               `json:"month"`
	Year                int               `json:"year"`
	RecordCount         int               `json:"record_count"`
	Result              AggregationResult `json:"result"`
	BusiestWeekday      int               `json:"busiest_weekday"`
	BusiestWeekdayName  string            `json:"busiest_weekday_name"`
	BusiestWeekdayCount int               `json:"busiest_weekday_count"`
}

// MonthlyStatsResponse is the JSON body of the stats endpoint.
type MonthlyStatsResponse struct {
	MonthlyStats
	TotalRidesText     string `json:"total_rides_text"`
	BusiestDayText     string `json:"busiest_day_text"`
	BusiestWeekdayText string `json:"busiest_weekday_text"`
}
