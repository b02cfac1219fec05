package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cuongbtq/invoice-service/internal/domain"
	"github.com/cuongbtq/invoice-service/shared/redis"
)

const requestKeyPrefix = "request:"

// RequestStore tracks the lifecycle state of invoice-generation requests.
// Records are keyed by request ID; writes are last-write-wins.
type RequestStore interface {
	Put(ctx context.Context, record *domain.RequestRecord) error
	Get(ctx context.Context, requestID string) (*domain.RequestRecord, error)
}

// RedisRequestStore persists request records as JSON in Redis with no expiry
type RedisRequestStore struct {
	rdb    *goredis.Client
	logger *slog.Logger
}

// NewRedisRequestStore creates a request store backed by the shared Redis client
func NewRedisRequestStore(client *redis.Client, logger *slog.Logger) *RedisRequestStore {
	return &RedisRequestStore{
		rdb:    client.GetRDB(),
		logger: logger,
	}
}

func requestKey(requestID string) string {
	return requestKeyPrefix + requestID
}

// Put serializes the record and writes it under "request:<request_id>"
func (s *RedisRequestStore) Put(ctx context.Context, record *domain.RequestRecord) error {
	record.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal request record: %w", err)
	}

	if err := s.rdb.Set(ctx, requestKey(record.RequestID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store request record: %w", err)
	}

	s.logger.Debug("Request record stored",
		slog.String("request_id", record.RequestID),
		slog.String("state", record.CurrentState),
	)

	return nil
}

// Get returns the record for the request ID, or domain.ErrRequestNotFound
func (s *RedisRequestStore) Get(ctx context.Context, requestID string) (*domain.RequestRecord, error) {
	data, err := s.rdb.Get(ctx, requestKey(requestID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch request record: %w", err)
	}

	var record domain.RequestRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request record: %w", err)
	}

	return &record, nil
}
