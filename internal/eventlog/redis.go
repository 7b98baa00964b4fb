package eventlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLog implements Log on Redis Streams (XADD / XREAD). This is the
// transport the services use in production: streams give us durable
// append order, monotonic IDs and blocking cursor reads for free.
type RedisLog struct {
	client *redis.Client
}

// NewRedisLog connects to Redis and verifies the connection.
func NewRedisLog(ctx context.Context, addr string) (*RedisLog, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLog{client: client}, nil
}

// Append writes one event with a server-assigned ID.
func (l *RedisLog) Append(ctx context.Context, topic string, fields map[string]string) (string, error) {
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	id, err := l.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to append to %s: %w", topic, err)
	}
	return id, nil
}

// ReadFrom blocks on XREAD until events appear past the cursor or the
// block interval elapses. An elapsed interval yields an empty batch.
func (l *RedisLog) ReadFrom(ctx context.Context, topic, cursor string, opts ReadOptions) ([]Event, error) {
	count := opts.Count
	if count <= 0 {
		count = DefaultBatchSize
	}

	res, err := l.client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{topic, cursor},
		Count:   count,
		Block:   opts.Block, // 0 blocks indefinitely
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", topic, cursor, err)
	}

	var events []Event
	for _, stream := range res {
		for _, msg := range stream.Messages {
			fields := make(map[string]string, len(msg.Values))
			for k, v := range msg.Values {
				if s, ok := v.(string); ok {
					fields[k] = s
				}
			}
			events = append(events, Event{ID: msg.ID, Fields: fields})
		}
	}
	return events, nil
}

// Close releases the Redis connection.
func (l *RedisLog) Close() error {
	return l.client.Close()
}
