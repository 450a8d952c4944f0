package seattle

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"bike-counter/models"
)

//go:embed fixtures/bike_counts_sample.json
var sampleBikeCounts []byte

// maxGeneratedHourlyTotal matches the range of the page's random test data.
const maxGeneratedHourlyTotal = 20000

// SeattleOpenDataApiClientMock serves bike counts without touching the network.
// By default it answers from a recorded week of January 2014; other months
// come back empty. WithGenerated switches it to random counts for any month.
type SeattleOpenDataApiClientMock struct {
	records   []models.BikeCountRecord
	generated bool
	seed      uint64
}

// MockOption configures a SeattleOpenDataApiClientMock.
type MockOption func(*SeattleOpenDataApiClientMock)

// WithGenerated makes the mock return a full month of random hourly counts.
func WithGenerated(seed uint64) MockOption {
	return func(c *SeattleOpenDataApiClientMock) {
		c.generated = true
		c.seed = seed
	}
}

// WithRecords replaces the recorded sample with records.
func WithRecords(records []models.BikeCountRecord) MockOption {
	return func(c *SeattleOpenDataApiClientMock) {
		c.records = records
	}
}

// NewSeattleOpenDataApiClientMock creates a new instance of SeattleOpenDataApiClientMock
func NewSeattleOpenDataApiClientMock(opts ...MockOption) (*SeattleOpenDataApiClientMock, error) {
	c := &SeattleOpenDataApiClientMock{}
	if err := json.Unmarshal(sampleBikeCounts, &c.records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sample bike counts: %w", err)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetBikeCounts returns the records of the requested month.
func (c *SeattleOpenDataApiClientMock) GetBikeCounts(ctx context.Context, month, year int) ([]models.BikeCountRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.generated {
		return GenerateMonth(month, year, rand.New(rand.NewPCG(c.seed, uint64(year*100+month)))), nil
	}

	var out []models.BikeCountRecord
	for _, r := range c.records {
		t, err := r.Time()
		if err != nil {
			// keep malformed rows of the requested month so callers see them as the live feed would
			if inMonthPrefix(r.Date, month, year) {
				out = append(out, r)
			}
			continue
		}
		if int(t.Month()) == month && t.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func inMonthPrefix(date string, month, year int) bool {
	prefix := fmt.Sprintf("%d-%02d-", year, month)
	return len(date) >= len(prefix) && date[:len(prefix)] == prefix
}

// GenerateMonth builds one hourly record per hour of the month with counts
// drawn from rng so that each hourly total lies in [0, 20000].
func GenerateMonth(month, year int, rng *rand.Rand) []models.BikeCountRecord {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var out []models.BikeCountRecord
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		half := maxGeneratedHourlyTotal / 2
		out = append(out, models.BikeCountRecord{
			Date:            t.Format("2006-01-02T15:04:05.000"),
			NorthboundCount: fmt.Sprint(rng.IntN(half + 1)),
			SouthboundCount: fmt.Sprint(rng.IntN(half + 1)),
		})
	}
	return out
}
