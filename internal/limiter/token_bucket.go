// Package limiter 令牌桶限流器实现
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient 限流器需要的Redis命令子集（*redis.Client 与 redis.Cmdable 均满足）
type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// TokenBucketLimiter 令牌桶限流器
type TokenBucketLimiter struct {
	client    RedisClient
	config    *Config
	keyPrefix string
}

// NewTokenBucketLimiter 创建令牌桶限流器
func NewTokenBucketLimiter(client RedisClient, config *Config) (*TokenBucketLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if config == nil || config.Rate <= 0 || config.Window <= 0 {
		return nil, fmt.Errorf("invalid limiter config")
	}

	keyPrefix := config.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "storefront:limiter:tb"
	}

	burst := config.Burst
	if burst <= 0 {
		burst = config.Rate
	}
	cfg := *config
	cfg.Burst = burst

	return &TokenBucketLimiter{
		client:    client,
		config:    &cfg,
		keyPrefix: keyPrefix,
	}, nil
}

// Redis Lua脚本：令牌桶算法
const tokenBucketScript = `
-- KEYS[1]: 令牌桶key
-- ARGV[1]: 容量(burst)
-- ARGV[2]: 补充速率(rate)
-- ARGV[3]: 时间窗口(window秒)
-- ARGV[4]: 请求令牌数
-- ARGV[5]: 当前时间戳

local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
local tokens_requested = tonumber(ARGV[4])
local now = tonumber(ARGV[5])

-- 获取当前桶状态
local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(bucket[1]) or capacity
local last_refill = tonumber(bucket[2]) or now

-- 计算需要补充的令牌数
local time_passed = math.max(0, now - last_refill)
local tokens_to_add = math.floor(time_passed * rate / window)
tokens = math.min(capacity, tokens + tokens_to_add)

-- 更新最后补充时间
last_refill = now

if tokens >= tokens_requested then
    -- 扣除令牌
    tokens = tokens - tokens_requested
    redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
    redis.call('EXPIRE', key, window * 2)
    return {1, tokens, 0} -- {允许, 剩余令牌, 重试时间}
else
    -- 令牌不足，计算重试时间
    local tokens_needed = tokens_requested - tokens
    local retry_after = math.ceil(tokens_needed * window / rate)
    redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
    redis.call('EXPIRE', key, window * 2)
    return {0, tokens, retry_after} -- {拒绝, 剩余令牌, 重试时间}
end
`

// getKey 生成Redis key
func (tb *TokenBucketLimiter) getKey(key string) string {
	return fmt.Sprintf("%s:%s", tb.keyPrefix, key)
}

// Allow 检查是否允许单个请求通过
func (tb *TokenBucketLimiter) Allow(ctx context.Context, key string) (*LimitResult, error) {
	return tb.AllowN(ctx, key, 1)
}

// AllowN 检查是否允许N个请求通过
func (tb *TokenBucketLimiter) AllowN(ctx context.Context, key string, n int64) (*LimitResult, error) {
	redisKey := tb.getKey(key)
	now := time.Now().Unix()

	result := tb.client.Eval(ctx, tokenBucketScript,
		[]string{redisKey},
		tb.config.Burst,                   // 容量
		tb.config.Rate,                    // 速率
		int64(tb.config.Window.Seconds()), // 时间窗口
		n,                                 // 请求令牌数
		now,                               // 当前时间
	)

	if result.Err() != nil {
		return nil, fmt.Errorf("failed to execute token bucket script: %w", result.Err())
	}

	values, ok := result.Val().([]interface{})
	if !ok || len(values) != 3 {
		return nil, fmt.Errorf("unexpected script result format")
	}

	allowed, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	retryAfter, _ := values[2].(int64)

	return &LimitResult{
		Allowed:    allowed == 1,
		Remaining:  remaining,
		RetryAfter: time.Duration(retryAfter) * time.Second,
	}, nil
}

// Reset 重置限流状态
func (tb *TokenBucketLimiter) Reset(ctx context.Context, key string) error {
	if err := tb.client.Del(ctx, tb.getKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset limiter key: %w", err)
	}
	return nil
}
