package deliverylog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// DefaultRedisKey is the list key used when none is configured.
const DefaultRedisKey = "alertdispatch:delivery_log"

// RedisOptions configures a Redis-backed sink.
type RedisOptions struct {
	Client   redis.UniversalClient
	Key      string
	Capacity int
}

// Redis keeps the log in a capped Redis list so it survives restarts and is shared across replicas.
type Redis struct {
	client   redis.UniversalClient
	key      string
	totalKey string
	capacity int
}

var _ Sink = (*Redis)(nil)

// NewRedis creates a Redis-backed sink.
func NewRedis(opts RedisOptions) (*Redis, error) {
	if opts.Client == nil {
		return nil, errors.New("redis client is required")
	}
	key := strings.TrimSpace(opts.Key)
	if key == "" {
		key = DefaultRedisKey
	}
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Redis{
		client:   opts.Client,
		key:      key,
		totalKey: key + ":total",
		capacity: capacity,
	}, nil
}

// Append pushes the report and trims the list in a single transaction.
func (r *Redis) Append(ctx context.Context, report model.DeliveryReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode delivery report: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.key, data)
		pipe.LTrim(ctx, r.key, int64(-r.capacity), -1)
		pipe.Incr(ctx, r.totalKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis append: %w", err)
	}
	return nil
}

// List implements Sink.
func (r *Redis) List(ctx context.Context) ([]model.DeliveryReport, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	out := make([]model.DeliveryReport, 0, len(raw))
	for i, item := range raw {
		var rep model.DeliveryReport
		if err := json.Unmarshal([]byte(item), &rep); err != nil {
			return nil, fmt.Errorf("decode delivery report %d: %w", i, err)
		}
		out = append(out, rep)
	}
	return out, nil
}

// Len implements Sink.
func (r *Redis) Len(ctx context.Context) (int, error) {
	n, err := r.client.LLen(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis llen: %w", err)
	}
	return int(n), nil
}

// Total implements Sink.
func (r *Redis) Total(ctx context.Context) (int64, error) {
	n, err := r.client.Get(ctx, r.totalKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get: %w", err)
	}
	return n, nil
}

// Last implements Sink.
func (r *Redis) Last(ctx context.Context) (*model.DeliveryReport, error) {
	item, err := r.client.LIndex(ctx, r.key, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis lindex: %w", err)
	}

	var rep model.DeliveryReport
	if err := json.Unmarshal([]byte(item), &rep); err != nil {
		return nil, fmt.Errorf("decode delivery report: %w", err)
	}
	return &rep, nil
}
