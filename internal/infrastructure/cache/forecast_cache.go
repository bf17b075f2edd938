package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockwise/internal/application/ports"
	"github.com/jhoicas/stockwise/internal/domain/entity"
	"github.com/jhoicas/stockwise/pkg/config"
)

const (
	forecastKeyPrefix     = "forecast"
	forecastScanBatchSize = 100
)

var (
	_ ports.ForecastCache = (*redisForecastCache)(nil)
	_ ports.ForecastCache = noopForecastCache{}
)

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

type noopForecastCache struct{}

// NewForecastCache devuelve la caché Redis si está habilitada; si no, una no-op.
// El segundo valor cierra la conexión.
func NewForecastCache(ctx context.Context, cfg config.CacheConfig, log zerolog.Logger) (ports.ForecastCache, func() error, error) {
	if !cfg.Enabled {
		return NewNoopForecastCache(), func() error { return nil }, nil
	}
	client, ttl, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	c := &redisForecastCache{client: client, ttl: ttl, log: log.With().Str("component", "forecast_cache").Logger()}
	return c, client.Close, nil
}

// NewNoopForecastCache caché que nunca acierta.
func NewNoopForecastCache() ports.ForecastCache {
	return noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, key ports.ForecastCacheKey) ([]entity.ForecastPoint, bool) {
	payload, err := c.client.Get(ctx, BuildForecastKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn().Err(err).Str("product_id", key.ProductID).Msg("redis get falló")
		return nil, false
	}
	var points []entity.ForecastPoint
	if err := json.Unmarshal(payload, &points); err != nil {
		c.log.Warn().Err(err).Str("product_id", key.ProductID).Msg("pronóstico en caché ilegible")
		return nil, false
	}
	return points, true
}

func (c *redisForecastCache) Set(ctx context.Context, key ports.ForecastCacheKey, points []entity.ForecastPoint) {
	payload, err := json.Marshal(points)
	if err != nil {
		c.log.Warn().Err(err).Msg("no se pudo serializar el pronóstico")
		return
	}
	if err := c.client.Set(ctx, BuildForecastKey(key), payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("product_id", key.ProductID).Msg("redis set falló")
	}
}

func (c *redisForecastCache) InvalidateProduct(ctx context.Context, productID string) {
	if err := deleteKeysWithPrefix(ctx, c.client, productPrefix(productID), forecastScanBatchSize); err != nil {
		c.log.Warn().Err(err).Str("product_id", productID).Msg("no se pudo invalidar la caché del producto")
	}
}

func (noopForecastCache) Get(context.Context, ports.ForecastCacheKey) ([]entity.ForecastPoint, bool) {
	return nil, false
}

func (noopForecastCache) Set(context.Context, ports.ForecastCacheKey, []entity.ForecastPoint) {}

func (noopForecastCache) InvalidateProduct(context.Context, string) {}

// BuildForecastKey forecast:{product}:{model}:{horizonte}:{sha1(params)}.
func BuildForecastKey(key ports.ForecastCacheKey) string {
	sum := sha1.Sum([]byte(key.Params))
	return fmt.Sprintf("%s%s:%d:%s", productPrefix(key.ProductID), key.Model, key.HorizonDays, hex.EncodeToString(sum[:8]))
}

func productPrefix(productID string) string {
	return fmt.Sprintf("%s:%s:", forecastKeyPrefix, productID)
}
