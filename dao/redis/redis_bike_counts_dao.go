package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"bike-counter/db"
	"bike-counter/models"
)

// BIKE_COUNTS_KEY_FORMAT caches the raw records of one month, keyed by year and month.
const BIKE_COUNTS_KEY_FORMAT = "bike_counts_v1:%04d-%02d"

// BIKE_COUNTS_KEY_PATTERN matches every cached month.
const BIKE_COUNTS_KEY_PATTERN = "bike_counts_v1:*"

// RedisBikeCountsDAO caches fetched bike count records in Redis.
type RedisBikeCountsDAO struct {
	client db.RedisClient
	ttl    time.Duration
}

// NewRedisBikeCountsDAO initializes a RedisBikeCountsDAO. Entries expire after ttl.
func NewRedisBikeCountsDAO(client db.RedisClient, ttl time.Duration) *RedisBikeCountsDAO {
	return &RedisBikeCountsDAO{client: client, ttl: ttl}
}

// MonthKey returns the cache key of a month.
func MonthKey(month, year int) string {
	return fmt.Sprintf(BIKE_COUNTS_KEY_FORMAT, year, month)
}

// SetMonth caches the records of one month.
func (dao *RedisBikeCountsDAO) SetMonth(ctx context.Context, month, year int, records []models.BikeCountRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal bike counts for %04d-%02d: %w", year, month, err)
	}
	if err := dao.client.Set(ctx, MonthKey(month, year), string(data), dao.ttl); err != nil {
		return fmt.Errorf("failed to set bike counts in redis: %w", err)
	}
	return nil
}

// GetMonth returns the cached records of a month, or nil when nothing is cached.
func (dao *RedisBikeCountsDAO) GetMonth(ctx context.Context, month, year int) ([]models.BikeCountRecord, error) {
	str, err := dao.client.Get(ctx, MonthKey(month, year))
	if errors.Is(err, db.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bike counts from redis: %w", err)
	}

	var records []models.BikeCountRecord
	if err := json.Unmarshal([]byte(str), &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bike counts JSON: %w", err)
	}
	return records, nil
}

// DeleteMonth drops a cached month.
func (dao *RedisBikeCountsDAO) DeleteMonth(ctx context.Context, month, year int) error {
	if err := dao.client.Del(ctx, MonthKey(month, year)); err != nil {
		return fmt.Errorf("failed to delete bike counts from redis: %w", err)
	}
	return nil
}

// ParseMonthKey is the inverse of MonthKey.
func ParseMonthKey(key string) (models.Month, error) {
	var m models.Month
	var rest string
	n, _ := fmt.Sscanf(key, BIKE_COUNTS_KEY_FORMAT+"%s", &m.Year, &m.Month, &rest)
	if n != 2 || m.Month < 1 || m.Month > 12 {
		return models.Month{}, fmt.Errorf("not a bike counts key: %q", key)
	}
	return m, nil
}

// CachedMonths lists every cached month, in key order. Keys under the prefix
// that do not parse are skipped.
func (dao *RedisBikeCountsDAO) CachedMonths(ctx context.Context) ([]models.Month, error) {
	keys, err := dao.client.Keys(ctx, BIKE_COUNTS_KEY_PATTERN)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached months: %w", err)
	}
	sort.Strings(keys)

	months := make([]models.Month, 0, len(keys))
	for _, key := range keys {
		m, err := ParseMonthKey(key)
		if err != nil {
			continue
		}
		months = append(months, m)
	}
	return months, nil
}
