package secret

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore 是进程内的临时密钥存储，容量满时淘汰最久未使用的条目，进程重启后清空
type MemoryStore struct {
	cache *expirable.LRU[string, string]
}

func NewMemoryStore(capacity int, ttl time.Duration) (*MemoryStore, error) {
	if err := checkOptions(capacity, ttl); err != nil {
		return nil, err
	}

	return &MemoryStore{
		cache: expirable.NewLRU[string, string](capacity, nil, ttl),
	}, nil
}

func (s *MemoryStore) Put(_ context.Context, key, value string) error {
	// 对已存在的 key，Add 会同时刷新过期时间
	s.cache.Add(key, value)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := s.cache.Get(key)
	return value, ok, nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	return s.cache.Len(), nil
}
