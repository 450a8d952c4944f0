package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"bike-counter/models"
)

// refreshJobTimeout bounds one warm-up run across all months.
const refreshJobTimeout = 2 * time.Minute

// MonthWarmer fetches a month and stores it in the cache.
type MonthWarmer interface {
	Warm(ctx context.Context, month, year int) (bool, error)
}

// CachedMonthsLister lists the months currently held in the cache.
type CachedMonthsLister interface {
	CachedMonths(ctx context.Context) ([]models.Month, error)
}

// Month identifies a calendar month.
type Month = models.Month

// BikeCountsRefresherService periodically warms the cache for recent months
// and re-fetches every month already cached.
type BikeCountsRefresherService struct {
	warmer    MonthWarmer
	cached    CachedMonthsLister
	clock     clockwork.Clock
	scheduler *gocron.Scheduler
	logger    *zap.Logger
}

// NewBikeCountsRefresherService constructs a new refresher with dependencies.
// cached may be nil, in which case only the recent months are warmed.
func NewBikeCountsRefresherService(warmer MonthWarmer, cached CachedMonthsLister, clock clockwork.Clock, logger *zap.Logger) *BikeCountsRefresherService {
	return &BikeCountsRefresherService{
		warmer:    warmer,
		cached:    cached,
		clock:     clock,
		scheduler: gocron.NewScheduler(time.UTC),
		logger:    logger.Named("BikeCountsRefresherService"),
	}
}

// StartPeriodicJob schedules RefreshRecentMonths every interval, starting now.
// A non-positive interval disables the job.
func (r *BikeCountsRefresherService) StartPeriodicJob(interval time.Duration) error {
	if interval <= 0 {
		r.logger.Info("periodic refresh disabled")
		return nil
	}

	_, err := r.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshJobTimeout)
		defer cancel()

		r.logger.Info("running periodic bike counts refresher job")
		if err := r.RefreshRecentMonths(ctx); err != nil {
			r.logger.Warn("refresh finished with errors", zap.Error(err))
		} else {
			r.logger.Info("refresh completed successfully")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresher job: %w", err)
	}

	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (r *BikeCountsRefresherService) Stop() {
	r.scheduler.Stop()
}

// RefreshRecentMonths warms the current and the previous month, then every
// other month found in the cache. Every month is attempted; the joined errors
// of the failed ones are returned.
func (r *BikeCountsRefresherService) RefreshRecentMonths(ctx context.Context) error {
	var errs []error
	months := RecentMonths(r.clock.Now())
	if r.cached != nil {
		cached, err := r.cached.CachedMonths(ctx)
		if err != nil {
			r.logger.Warn("listing cached months failed", zap.Error(err))
			errs = append(errs, err)
		}
		months = mergeMonths(months, cached)
	}

	for _, m := range months {
		cached, err := r.warmer.Warm(ctx, m.Month, m.Year)
		if err != nil {
			r.logger.Warn("warm-up failed", zap.Int("month", m.Month), zap.Int("year", m.Year), zap.Error(err))
			errs = append(errs, fmt.Errorf("%04d-%02d: %w", m.Year, m.Month, err))
			continue
		}
		r.logger.Info("warmed month", zap.Int("month", m.Month), zap.Int("year", m.Year), zap.Bool("cached", cached))
	}
	return errors.Join(errs...)
}

// mergeMonths appends the entries of extra missing from base, keeping order.
func mergeMonths(base, extra []Month) []Month {
	seen := make(map[Month]bool, len(base)+len(extra))
	for _, m := range base {
		seen[m] = true
	}
	for _, m := range extra {
		if !seen[m] {
			seen[m] = true
			base = append(base, m)
		}
	}
	return base
}

// RecentMonths returns the month containing now (in UTC) and the one before it.
func RecentMonths(now time.Time) []Month {
	now = now.UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	previous := current.AddDate(0, -1, 0)
	return []Month{
		{Month: int(current.Month()), Year: current.Year()},
		{Month: int(previous.Month()), Year: previous.Year()},
	}
}
