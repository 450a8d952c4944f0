package db

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type mockEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MockRedisClient simulates a Redis client in memory. Expiry follows the
// supplied clock so tests can advance time with a fake clock.
type MockRedisClient struct {
	data  map[string]mockEntry
	mu    sync.RWMutex
	clock clockwork.Clock
}

// NewMockRedisClient initializes a new MockRedisClient.
func NewMockRedisClient(clock clockwork.Clock) *MockRedisClient {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MockRedisClient{
		data:  make(map[string]mockEntry),
		clock: clock,
	}
}

// Set stores a key-value pair in the mock Redis.
func (m *MockRedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := mockEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.clock.Now().Add(ttl)
	}
	m.data[key] = entry
	return nil
}

// Get retrieves a value for a given key from the mock Redis.
func (m *MockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.data[key]
	if !ok || m.expired(entry) {
		return "", ErrCacheMiss
	}
	return entry.value, nil
}

// Del removes key.
func (m *MockRedisClient) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys returns the live keys matching pattern, sorted.
func (m *MockRedisClient) Keys(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := []string{}
	for k, entry := range m.data {
		if m.expired(entry) {
			continue
		}
		if ok, err := path.Match(pattern, k); err != nil {
			return nil, err
		} else if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Ping always succeeds.
func (m *MockRedisClient) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MockRedisClient) expired(e mockEntry) bool {
	return !e.expiresAt.IsZero() && !m.clock.Now().Before(e.expiresAt)
}
