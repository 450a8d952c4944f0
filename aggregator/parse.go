package aggregator

import (
	"strconv"
	"strings"
	"time"

	"bike-counter/models"
)

// CountParse is the outcome of parsing one counter value.
type CountParse struct {
	Value int
	OK    bool
}

// ParseCount reads the leading integer of s. Surrounding whitespace and a
// leading '+' are accepted and trailing non-digits are ignored, so "12abc"
// parses as 12. A value with no leading digits is a failed parse, and so is a
// negative one: a counter never goes below zero.
func ParseCount(s string) CountParse {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && s[end] == '+' {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return CountParse{}
	}

	v, err := strconv.Atoi(s[:end])
	if err != nil || v < 0 {
		return CountParse{}
	}
	return CountParse{Value: v, OK: true}
}

// ParsedRecord is a BikeCountRecord whose fields all parsed.
type ParsedRecord struct {
	Time        time.Time
	Northbound  int
	Southbound  int
	HourlyTotal int
}

// ParseRecord validates a raw record. ok is false when either count or the
// date fails to parse.
func ParseRecord(r models.BikeCountRecord) (ParsedRecord, bool) {
	nb := ParseCount(r.NorthboundCount)
	sb := ParseCount(r.SouthboundCount)
	if !nb.OK || !sb.OK {
		return ParsedRecord{}, false
	}

	t, err := r.Time()
	if err != nil {
		return ParsedRecord{}, false
	}

	return ParsedRecord{
		Time:        t,
		Northbound:  nb.Value,
		Southbound:  sb.Value,
		HourlyTotal: nb.Value + sb.Value,
	}, true
}
