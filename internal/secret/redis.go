package secret

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "crew_secret_"
	redisIndexKey  = "crew_secret_index"
)

// RedisStore 将临时密钥保存在 redis 中，多个 API 实例可以共享登录状态。
// 写入顺序记录在一个有序集合中，超出容量时淘汰最早写入的条目。
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	capacity  int
	opTimeout time.Duration
	now       func() time.Time
}

// opTimeout 限制每次 Put/Get/Len 与 redis 交互的总时长，为 0 时只受调用方 ctx 约束
func NewRedisStore(client *redis.Client, capacity int, ttl, opTimeout time.Duration) (*RedisStore, error) {
	if err := checkOptions(capacity, ttl); err != nil {
		return nil, err
	}

	return &RedisStore{
		client:    client,
		ttl:       ttl,
		capacity:  capacity,
		opTimeout: opTimeout,
		now:       time.Now,
	}, nil
}

func (s *RedisStore) operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *RedisStore) Put(ctx context.Context, key, value string) error {
	ctx, cancel := s.operationContext(ctx)
	defer cancel()

	now := s.now()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKeyPrefix+key, value, s.ttl)
		pipe.ZAdd(ctx, redisIndexKey, redis.Z{Score: float64(now.UnixNano()), Member: key})
		// 索引中已经过期的条目直接清除
		pipe.ZRemRangeByScore(ctx, redisIndexKey, "-inf", fmt.Sprintf("(%d", now.Add(-s.ttl).UnixNano()))
		return nil
	})
	if err != nil {
		return err
	}

	return s.evict(ctx)
}

func (s *RedisStore) evict(ctx context.Context) error {
	size, err := s.client.ZCard(ctx, redisIndexKey).Result()
	if err != nil {
		return err
	}

	excess := size - int64(s.capacity)
	if excess <= 0 {
		return nil
	}

	oldest, err := s.client.ZPopMin(ctx, redisIndexKey, excess).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(oldest))
	for _, z := range oldest {
		keys = append(keys, redisKeyPrefix+z.Member.(string))
	}

	return s.client.Del(ctx, keys...).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := s.operationContext(ctx)
	defer cancel()

	value, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}

	return value, true, nil
}

func (s *RedisStore) Len(ctx context.Context) (int, error) {
	ctx, cancel := s.operationContext(ctx)
	defer cancel()

	cutoff := fmt.Sprintf("(%d", s.now().Add(-s.ttl).UnixNano())
	if err := s.client.ZRemRangeByScore(ctx, redisIndexKey, "-inf", cutoff).Err(); err != nil {
		return 0, err
	}

	size, err := s.client.ZCard(ctx, redisIndexKey).Result()
	if err != nil {
		return 0, err
	}

	return int(size), nil
}
