package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"bike-counter/aggregator"
	"bike-counter/api/seattle"
	"bike-counter/models"
	"bike-counter/observability"
)

var (
	// ErrNoData is returned when the data source has no records for the month.
	ErrNoData = errors.New("no data for the requested month")
	// ErrFetchFailed wraps network and HTTP failures of the data source.
	ErrFetchFailed = errors.New("unable to fetch bike counts")
)

// BikeCountsCache is the cache the service reads through.
type BikeCountsCache interface {
	GetMonth(ctx context.Context, month, year int) ([]models.BikeCountRecord, error)
	SetMonth(ctx context.Context, month, year int, records []models.BikeCountRecord) error
}

type BikeCountsService struct {
	cache      BikeCountsCache
	seattleApi seattle.SeattleOpenDataAPI
	clock      clockwork.Clock
	fetchDelay time.Duration
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewBikeCountsService constructs a BikeCountsService. cache may be nil to always fetch.
func NewBikeCountsService(
	cache BikeCountsCache,
	seattleApi seattle.SeattleOpenDataAPI,
	clock clockwork.Clock,
	fetchDelay time.Duration,
	metrics *observability.Metrics,
	logger *zap.Logger) *BikeCountsService {

	return &BikeCountsService{
		cache:      cache,
		seattleApi: seattleApi,
		clock:      clock,
		fetchDelay: fetchDelay,
		metrics:    metrics,
		logger:     logger.Named("BikeCountsService"),
	}
}

// GetMonthlyStats fetches one month of counter records and aggregates them.
// The fetch is deferred by the configured delay; a cancelled ctx aborts the wait.
func (s *BikeCountsService) GetMonthlyStats(ctx context.Context, q models.MonthQuery) (*models.MonthlyStats, error) {
	if err := s.waitFetchDelay(ctx); err != nil {
		return nil, err
	}

	records, err := s.loadRecords(ctx, q.Month, q.Year)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	s.warnMalformed(records)
	result := aggregator.Aggregate(records)
	weekday, weekdayCount := aggregator.BusiestWeekday(result.WeekdayTotals)

	s.logger.Debug("aggregated month",
		zap.Int("month", q.Month),
		zap.Int("year", q.Year),
		zap.Int("records", len(records)),
		zap.Int("skipped", result.SkippedRecords),
		zap.Int("total_rides", result.TotalRides))

	return &models.MonthlyStats{
		Month:               q.Month,
		Year:                q.Year,
		RecordCount:         len(records),
		Result:              result,
		BusiestWeekday:      weekday,
		BusiestWeekdayName:  weekdayName(weekday),
		BusiestWeekdayCount: weekdayCount,
	}, nil
}

// Warm fetches a month straight from the data source and stores it in the cache.
// It reports whether anything was cached.
func (s *BikeCountsService) Warm(ctx context.Context, month, year int) (bool, error) {
	records, err := s.fetch(ctx, month, year)
	if err != nil {
		return false, err
	}
	if len(records) == 0 || s.cache == nil {
		return false, nil
	}
	if err := s.cache.SetMonth(ctx, month, year, records); err != nil {
		return false, err
	}
	return true, nil
}

func (s *BikeCountsService) waitFetchDelay(ctx context.Context) error {
	if s.fetchDelay <= 0 {
		return ctx.Err()
	}
	select {
	case <-s.clock.After(s.fetchDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *BikeCountsService) loadRecords(ctx context.Context, month, year int) ([]models.BikeCountRecord, error) {
	if s.cache != nil {
		cached, err := s.cache.GetMonth(ctx, month, year)
		switch {
		case err != nil:
			s.metrics.CacheLookups.WithLabelValues(observability.CacheError).Inc()
			s.logger.Warn("cache lookup failed, fetching instead",
				zap.Int("month", month), zap.Int("year", year), zap.Error(err))
		case cached != nil:
			s.metrics.CacheLookups.WithLabelValues(observability.CacheHit).Inc()
			return cached, nil
		default:
			s.metrics.CacheLookups.WithLabelValues(observability.CacheMiss).Inc()
		}
	}

	records, err := s.fetch(ctx, month, year)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(records) > 0 {
		if err := s.cache.SetMonth(ctx, month, year, records); err != nil {
			s.logger.Warn("failed to cache bike counts",
				zap.Int("month", month), zap.Int("year", year), zap.Error(err))
		}
	}
	return records, nil
}

func (s *BikeCountsService) fetch(ctx context.Context, month, year int) ([]models.BikeCountRecord, error) {
	start := s.clock.Now()
	records, err := s.seattleApi.GetBikeCounts(ctx, month, year)
	s.metrics.FetchDuration.Observe(s.clock.Since(start).Seconds())

	if err != nil {
		s.metrics.Fetches.WithLabelValues(observability.OutcomeError).Inc()
		s.logger.Error("fetch failed", zap.Int("month", month), zap.Int("year", year), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	if len(records) == 0 {
		s.metrics.Fetches.WithLabelValues(observability.OutcomeEmpty).Inc()
		s.logger.Info("no records for month", zap.Int("month", month), zap.Int("year", year))
		return records, nil
	}

	s.metrics.Fetches.WithLabelValues(observability.OutcomeSuccess).Inc()
	s.logger.Info("fetched bike counts",
		zap.Int("month", month), zap.Int("year", year), zap.Int("records", len(records)))
	return records, nil
}

func (s *BikeCountsService) warnMalformed(records []models.BikeCountRecord) {
	for _, r := range records {
		if _, ok := aggregator.ParseRecord(r); ok {
			continue
		}
		s.metrics.MalformedRecords.Inc()
		s.logger.Warn("skipping malformed record",
			zap.String("date", r.Date),
			zap.String("northbound", r.NorthboundCount),
			zap.String("southbound", r.SouthboundCount))
	}
}

func weekdayName(index int) string {
	if index == models.NoWeekday {
		return models.NotAvailable
	}
	return aggregator.DayName(index)
}
