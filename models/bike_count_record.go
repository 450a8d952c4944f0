package models

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing BikeCountRecord.Date.
// The dataset serves floating timestamps without an offset; they are read as UTC.
var dateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// BikeCountRecord matches one row of the Fremont Bridge hourly counter dataset.
// Counts are delivered as numeric strings and may be malformed or missing.
type BikeCountRecord struct {
	Date            string `json:"date"`
	NorthboundCount string `json:"fremont_bridge_nb,omitempty"`
	SouthboundCount string `json:"fremont_bridge_sb,omitempty"`
}

// Time parses Date as a UTC timestamp.
func (r BikeCountRecord) Time() (time.Time, error) {
	s := strings.TrimSpace(r.Date)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized record date %q", r.Date)
}
