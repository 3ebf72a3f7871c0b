package secret

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidOptions = errors.New("invalid secret store options")

// Store 保存 用户标识 -> 临时密钥 的映射，条目在写入 TTL 之后失效，与是否被读取无关
type Store interface {
	Put(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	Len(ctx context.Context) (int, error)
}

// 容量为 0 时 LRU 不限制大小，redis 则会立刻淘汰刚写入的条目，两者都不可接受
func checkOptions(capacity int, ttl time.Duration) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidOptions, capacity)
	}
	if ttl <= 0 {
		return fmt.Errorf("%w: ttl must be positive, got %s", ErrInvalidOptions, ttl)
	}
	return nil
}
