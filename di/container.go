package di

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"bike-counter/api"
	"bike-counter/api/seattle"
	"bike-counter/assets"
	"bike-counter/config"
	"bike-counter/dao/redis"
	"bike-counter/db"
	"bike-counter/observability"
	"bike-counter/server"
	"bike-counter/server/handlers"
	services "bike-counter/service"
	"bike-counter/util"
)

// Container holds all application dependencies.
type Container struct {
	Config                     *config.Config
	Logger                     *zap.Logger
	Metrics                    *observability.Metrics
	Clock                      clockwork.Clock
	RedisClient                db.RedisClient
	BikeCountsDao              *redis.RedisBikeCountsDAO
	SeattleAPI                 seattle.SeattleOpenDataAPI
	BikeCountsService          *services.BikeCountsService
	BikeCountsRefresherService *services.BikeCountsRefresherService
	BikeStatsHandler           *handlers.BikeStatsHandler
	MuxRouter                  *mux.Router
	Router                     *server.Router
	BikeCounterHttpServer      *server.BikeCounterHttpServer
	AssetBuilder               *assets.Builder

	closers []func() error
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) (*Container, error) {
	logger.Info("initializing container", zap.String("env", cfg.Env))
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Clock:   clockwork.NewRealClock(),
	}

	redisClient, err := c.newRedisClient(ctx)
	if err != nil {
		return nil, err
	}
	c.RedisClient = redisClient
	c.BikeCountsDao = redis.NewRedisBikeCountsDAO(redisClient, cfg.CacheTTL)

	seattleAPI, err := c.newSeattleAPI()
	if err != nil {
		c.Close()
		return nil, err
	}
	c.SeattleAPI = seattleAPI

	c.BikeCountsService = services.NewBikeCountsService(
		c.BikeCountsDao, seattleAPI, c.Clock, cfg.FetchDelay, metrics, logger)
	c.BikeCountsRefresherService = services.NewBikeCountsRefresherService(
		c.BikeCountsService, c.BikeCountsDao, c.Clock, logger)
	c.closers = append(c.closers, func() error {
		c.BikeCountsRefresherService.Stop()
		return nil
	})

	c.BikeStatsHandler = handlers.NewBikeStatsHandler(c.BikeCountsService, logger)
	c.MuxRouter = mux.NewRouter()
	c.Router = server.NewRouter(c.BikeStatsHandler, c.MuxRouter, cfg.PublicDir, logger)
	c.Router.RegisterRoutes()
	c.BikeCounterHttpServer = server.NewBikeCounterHttpServer(
		c.Router, c.MuxRouter, cfg.ListenAddr(), config.SHUTDOWN_TIMEOUT_SECONDS*time.Second, logger)

	c.AssetBuilder = assets.NewBuilder(cfg.SrcDir, cfg.PublicDir, metrics, logger)

	return c, nil
}

func (c *Container) newRedisClient(ctx context.Context) (db.RedisClient, error) {
	if !c.Config.RedisEnabled {
		c.Logger.Info("redis disabled, using in-memory cache")
		return db.NewMockRedisClient(c.Clock), nil
	}

	redisInternalClient := goredis.NewClient(db.NewRedisOptions(
		c.Config.RedisAddress, c.Config.RedisPassword, c.Config.RedisDB))

	redisClient, err := db.NewCacheRedisClient(ctx, redisInternalClient, c.Logger)
	if err != nil {
		redisInternalClient.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.closers = append(c.closers, redisClient.Close)
	return redisClient, nil
}

func (c *Container) newSeattleAPI() (seattle.SeattleOpenDataAPI, error) {
	if c.Config.IsProd() {
		c.Logger.Info("using Seattle open data api", zap.String("endpoint", config.SEATTLE_OPEN_DATA_ENDPOINT_BASE))
		httpClient := api.NewHTTPClient(config.SEATTLE_OPEN_DATA_ENDPOINT_BASE, c.Config.HTTPTimeout)
		return seattle.NewSeattleOpenDataApiClient(httpClient, config.FREMONT_BRIDGE_DATASET, c.Config.QueryLimit), nil
	}

	if c.Config.MockMode == config.MOCK_MODE_GENERATED {
		c.Logger.Info("using mock api with generated counts", zap.Int("seed", c.Config.MockSeed))
		return seattle.NewSeattleOpenDataApiClientMock(seattle.WithGenerated(uint64(c.Config.MockSeed)))
	}

	var opts []seattle.MockOption
	samplePath := config.GetResourcePath(config.BIKE_COUNTS_SAMPLE_RESOURCE)
	if _, err := os.Stat(samplePath); err == nil {
		records, err := util.ReadBikeCountsFromJSON(samplePath)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using mock api with local sample", zap.String("path", samplePath), zap.Int("records", len(records)))
		opts = append(opts, seattle.WithRecords(records))
	} else {
		c.Logger.Info("using mock api with embedded sample")
	}
	return seattle.NewSeattleOpenDataApiClientMock(opts...)
}

// Close releases the resources held by the container.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}
