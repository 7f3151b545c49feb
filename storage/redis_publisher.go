package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"nba-boxscore-scraper/models"
	"nba-boxscore-scraper/utils"
)

const redisBatchSize = 500

// RedisPublisher appends every dataset row to a Redis stream for downstream
// consumers
type RedisPublisher struct {
	client *redis.Client
	stream string
	logger *utils.Logger
}

// NewRedisPublisher connects to redisURL and pings the server
func NewRedisPublisher(ctx context.Context, redisURL, stream string, logger *utils.Logger) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis, publishing to stream %s", stream)
	return &RedisPublisher{client: client, stream: stream, logger: logger}, nil
}

// NewRedisPublisherWithClient wraps an existing client
func NewRedisPublisherWithClient(client *redis.Client, stream string, logger *utils.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, stream: stream, logger: logger}
}

func (p *RedisPublisher) Name() string { return "redis" }

// WriteDataset publishes the records in pipelined batches
func (p *RedisPublisher) WriteDataset(ctx context.Context, ds *models.Dataset) error {
	for start := 0; start < ds.Len(); start += redisBatchSize {
		end := start + redisBatchSize
		if end > ds.Len() {
			end = ds.Len()
		}

		pipe := p.client.Pipeline()
		for _, r := range ds.Records[start:end] {
			values, err := streamValues(ds, r)
			if err != nil {
				return err
			}
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: p.stream,
				Values: values,
			})
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("publishing records %d-%d: %w", start, end-1, err)
		}
	}

	p.logger.Info("Published %d records to Redis stream %s", ds.Len(), p.stream)
	return nil
}

// streamValues builds the fields of one stream entry
func streamValues(ds *models.Dataset, r models.GameRecord) (map[string]interface{}, error) {
	data, err := json.Marshal(recordDocument(ds.Schema, r))
	if err != nil {
		return nil, fmt.Errorf("marshaling record %s %s: %w", r.Team, r.Date.Format(dateLayout), err)
	}
	return map[string]interface{}{
		"data":   string(data),
		"team":   r.Team,
		"date":   r.Date.Format(dateLayout),
		"run_id": ds.RunID,
	}, nil
}

// Close closes the Redis client
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
