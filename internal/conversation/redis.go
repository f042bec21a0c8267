package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "conversation:"

// sessionTTL keeps abandoned sessions from accumulating in redis. It is
// refreshed on every write, so active sessions never expire mid-use.
const sessionTTL = 24 * time.Hour

// RedisStore keeps session history in redis so multiple service instances
// can share conversational memory.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

type redisHistory struct {
	Records []Record `json:"records"`
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Record, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load history: %w", err)
	}

	var h redisHistory
	if err := json.Unmarshal([]byte(data), &h); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return h.Records, nil
}

func (s *RedisStore) AppendExchange(ctx context.Context, sessionID string, user, model Record) error {
	stampRecord(&user, RoleUser)
	stampRecord(&model, RoleModel)

	records, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}
	records = append(records, user, model)
	if len(records) > HistoryCap {
		records = records[len(records)-HistoryCap:]
	}

	data, err := json.Marshal(redisHistory{Records: records})
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+sessionID, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Del(ctx, redisKeyPrefix+sessionID).Result()
	if err != nil {
		return false, fmt.Errorf("clear history: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
