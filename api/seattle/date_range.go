package seattle

import "fmt"

// FormatDateRange returns the ISO 8601 bounds of a calendar month: the first
// day of the month (inclusive) and the first day of the following month
// (exclusive). December rolls over into January of the next year.
func FormatDateRange(month, year int) (start, end string) {
	start = fmt.Sprintf("%d-%s-01", year, padMonth(month))
	if month == 12 {
		end = fmt.Sprintf("%d-01-01", year+1)
	} else {
		end = fmt.Sprintf("%d-%s-01", year, padMonth(month+1))
	}
	return start, end
}

// BuildWhereClause builds the SoQL $where filter selecting one month of records.
func BuildWhereClause(month, year int) string {
	start, end := FormatDateRange(month, year)
	return fmt.Sprintf("date>='%s' AND date<'%s'", start, end)
}

// padMonth zero-pads months below 10, required for ISO 8601 dates.
func padMonth(month int) string {
	return fmt.Sprintf("%02d", month)
}
