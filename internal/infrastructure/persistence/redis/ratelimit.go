package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/biblioteca/pkg/errors"
)

// RateLimitStore 限流计数存储(Redis)
// 设计说明:
// 1. 固定窗口计数:INCR+首次设置EXPIRE,实现简单,适合按小时的粗粒度限流
// 2. 计数Key按维度(如客户端IP)隔离:ratelimit:{key}
// 3. INCR与EXPIRE用pipeline一次往返,避免INCR成功后进程崩溃留下永不过期的Key
type RateLimitStore struct {
	client *redis.Client
}

// NewRateLimitStore 创建限流计数存储
func NewRateLimitStore(client *redis.Client) *RateLimitStore {
	return &RateLimitStore{client: client}
}

// Incr 递增计数并返回窗口内的当前值
// 窗口首次计数时设置过期时间(即窗口长度)
func (s *RateLimitStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// NX:只在Key没有过期时间时设置,保证窗口不被后续请求顺延
	pipe.ExpireNX(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, apperrors.Wrap(err, "限流计数失败")
	}

	return incr.Val(), nil
}

// Reset 清除计数(测试和管理用)
func (s *RateLimitStore) Reset(ctx context.Context, key string) error {
	redisKey := fmt.Sprintf("ratelimit:%s", key)
	if err := s.client.Del(ctx, redisKey).Err(); err != nil {
		return apperrors.Wrap(err, "清除限流计数失败")
	}
	return nil
}
