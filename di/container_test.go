package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bike-counter/api/seattle"
	"bike-counter/config"
	"bike-counter/db"
	"bike-counter/models"
	"bike-counter/observability"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("PROJECT_ROOT", t.TempDir())
	return &config.Config{
		Env:       config.ENV_DEV,
		Port:      "0",
		PublicDir: t.TempDir(),
		SrcDir:    t.TempDir(),
		CacheTTL:  config.DEFAULT_CACHE_TTL,
	}
}

func TestNewContainer_Dev(t *testing.T) {
	cfg := testConfig(t)

	c, err := NewContainer(context.Background(), cfg, zap.NewNop(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &db.MockRedisClient{}, c.RedisClient)
	assert.IsType(t, &seattle.SeattleOpenDataApiClientMock{}, c.SeattleAPI)
	assert.NotNil(t, c.BikeCounterHttpServer)
	assert.NotNil(t, c.AssetBuilder)

	stats, err := c.BikeCountsService.GetMonthlyStats(context.Background(), models.MonthQuery{Month: 1, Year: 2014})
	require.NoError(t, err)
	assert.Equal(t, 168, stats.RecordCount)

	cached, err := c.BikeCountsDao.GetMonth(context.Background(), 1, 2014)
	require.NoError(t, err)
	assert.Len(t, cached, 168)
}

func TestNewContainer_Prod(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = config.ENV_PROD
	cfg.QueryLimit = config.DEFAULT_QUERY_LIMIT
	cfg.HTTPTimeout = config.DEFAULT_HTTP_TIMEOUT

	c, err := NewContainer(context.Background(), cfg, zap.NewNop(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &seattle.SeattleOpenDataApiClient{}, c.SeattleAPI)
}

func TestNewContainer_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisEnabled = true
	cfg.RedisAddress = mr.Addr()

	c, err := NewContainer(context.Background(), cfg, zap.NewNop(), observability.NewMetricsForTesting())
	require.NoError(t, err)

	assert.IsType(t, &db.CacheRedisClient{}, c.RedisClient)

	_, err = c.BikeCountsService.GetMonthlyStats(context.Background(), models.MonthQuery{Month: 1, Year: 2014})
	require.NoError(t, err)
	assert.True(t, mr.Exists("bike_counts_v1:2014-01"))

	assert.NoError(t, c.Close())
}

func TestNewContainer_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.RedisEnabled = true
	cfg.RedisAddress = addr

	_, err := NewContainer(context.Background(), cfg, zap.NewNop(), observability.NewMetricsForTesting())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestNewContainer_GeneratedMockMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.MockMode = config.MOCK_MODE_GENERATED
	cfg.MockSeed = 42

	c, err := NewContainer(context.Background(), cfg, zap.NewNop(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	defer c.Close()

	stats, err := c.BikeCountsService.GetMonthlyStats(context.Background(), models.MonthQuery{Month: 2, Year: 2016})
	require.NoError(t, err)
	assert.Equal(t, 29*24, stats.RecordCount)
	assert.Zero(t, stats.Result.SkippedRecords)
}

func TestNewContainer_RegistersRoutes(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t), zap.NewNop(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	defer c.Close()

	rr := httptest.NewRecorder()
	c.MuxRouter.ServeHTTP(rr, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestNewContainer_RefresherRewarmsCachedMonths(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t), zap.NewNop(), observability.NewMetricsForTesting())
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.BikeCountsDao.SetMonth(ctx, 1, 2014, []models.BikeCountRecord{}))

	// recent months come back empty from the sample and are not cached
	require.NoError(t, c.BikeCountsRefresherService.RefreshRecentMonths(ctx))

	records, err := c.BikeCountsDao.GetMonth(ctx, 1, 2014)
	require.NoError(t, err)
	assert.Len(t, records, 168)
}
