package pricefeed

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"flea_market/pkg/contextx"
	"flea_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const DefaultKey = "ragfair:prices"

type HashClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
}

// Redis - живые цены барахолки в хэше: поле = шаблон, значение = цена в рублях.
type Redis struct {
	client HashClient
	key    string
}

func NewRedis(client HashClient) *Redis {
	return &Redis{
		client: client,
		key:    DefaultKey,
	}
}

func (r *Redis) WithKey(key string) *Redis {
	r.key = key
	return r
}

// Prices reads the whole hash. Fields that are not a positive number are skipped.
func (r *Redis) Prices(ctx context.Context) (map[string]float64, error) {
	values, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: hgetall %s: %w", r.key, err)
	}

	prices := make(map[string]float64, len(values))

	for tpl, raw := range values {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price <= 0 {
			logger(ctx).Warn(
				"bad live price",
				slog.String(logx.FieldTemplateID, tpl),
				slog.String("value", raw),
			)

			continue
		}

		prices[tpl] = price
	}

	return prices, nil
}

func (r *Redis) Publish(ctx context.Context, prices map[string]float64) error {
	if len(prices) == 0 {
		return nil
	}

	fields := make(map[string]any, len(prices))
	for tpl, price := range prices {
		fields[tpl] = strconv.FormatFloat(price, 'f', -1, 64)
	}

	if err := r.client.HSet(ctx, r.key, fields).Err(); err != nil {
		return fmt.Errorf("redis: hset %s: %w", r.key, err)
	}

	return nil
}
