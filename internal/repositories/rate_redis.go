package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-currency-converter/internal/logger"
	"github.com/sbilibin2017/gw-currency-converter/internal/models"
)

const updatedAtField = "updated_at"

// RateRedisRepository keeps the latest rate snapshot in a Redis hash so that
// several converter instances share it.
type RateRedisRepository struct {
	client *redis.Client
	key    string
	exp    time.Duration // expiration of the snapshot, 0 keeps it until replaced
}

// NewRateRedisRepository creates a repository storing rates for base under
// the key "rates:<base>".
func NewRateRedisRepository(client *redis.Client, base string, expiration time.Duration) *RateRedisRepository {
	return &RateRedisRepository{
		client: client,
		key:    fmt.Sprintf("rates:%s", base),
		exp:    expiration,
	}
}

// SetRates replaces the stored hash inside a single MULTI/EXEC.
func (r *RateRedisRepository) SetRates(ctx context.Context, snapshot models.RateSnapshot) error {
	values := make([]interface{}, 0, 2*len(snapshot.Rates)+2)
	for code, rate := range snapshot.Rates {
		values = append(values, code, strconv.FormatFloat(rate, 'f', -1, 64))
	}
	values = append(values, updatedAtField, snapshot.UpdatedAt.Format(time.RFC3339Nano))

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key, values...)
		if r.exp > 0 {
			pipe.Expire(ctx, r.key, r.exp)
		}
		return nil
	})

	logger.Log.Infow("set rates",
		"key", r.key,
		"rates", snapshot.Rates,
		"error", err,
	)

	return err
}

// GetRate returns the stored rate for code, or 0 when it is missing,
// malformed or Redis cannot be reached.
func (r *RateRedisRepository) GetRate(ctx context.Context, code string) float64 {
	val, err := r.client.HGet(ctx, r.key, code).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Errorw("get rate", "key", r.key, "code", code, "error", err)
		}
		return 0
	}

	rate, err := strconv.ParseFloat(val, 64)
	if err != nil {
		logger.Log.Errorw("get rate", "key", r.key, "code", code, "value", val, "error", err)
		return 0
	}
	return rate
}

// Snapshot returns the stored rates; empty when nothing is stored.
func (r *RateRedisRepository) Snapshot(ctx context.Context) models.RateSnapshot {
	vals, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		logger.Log.Errorw("get snapshot", "key", r.key, "error", err)
		return models.RateSnapshot{}
	}
	if len(vals) == 0 {
		return models.RateSnapshot{}
	}

	snapshot := models.RateSnapshot{Rates: make(map[string]float64, len(vals))}
	for field, val := range vals {
		if field == updatedAtField {
			if t, err := time.Parse(time.RFC3339Nano, val); err == nil {
				snapshot.UpdatedAt = t
			}
			continue
		}
		rate, err := strconv.ParseFloat(val, 64)
		if err != nil {
			logger.Log.Errorw("get snapshot", "key", r.key, "field", field, "value", val, "error", err)
			continue
		}
		snapshot.Rates[field] = rate
	}
	return snapshot
}
