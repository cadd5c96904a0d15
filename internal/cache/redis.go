// Package cache 提供 Redis 缓存操作的封装
// 处理 JWT 黑名单、热门脚本排行等需要快速访问的数据
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"workshop-server/internal/config"
)

// RedisCache 封装 Redis 客户端，提供业务相关的缓存操作
type RedisCache struct {
	client *redis.Client // Redis 客户端实例
}

// NewRedisCache 创建 RedisCache 实例
// 参数:
//   - cfg: 应用配置（包含 Redis 连接信息）
//
// 返回:
//   - *RedisCache: 缓存实例
//   - error: 连接错误
func NewRedisCache(cfg *config.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Username: cfg.Redis.Username, // 部分云厂商的 Redis 需要用户名
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close 关闭 Redis 连接
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping 检查 Redis 连接是否正常
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// ==================== JWT 黑名单 ====================
// 用户登出后，Token 在剩余有效期内被加入黑名单

// BlacklistToken 将 Token 加入黑名单
// 参数:
//   - ctx: 上下文
//   - tokenHash: Token 的 SHA256 哈希值（不存储原始 Token）
//   - expireAt: Token 的过期时间，作为黑名单条目的 TTL
//
// 返回:
//   - error: Redis 操作错误
func (c *RedisCache) BlacklistToken(ctx context.Context, tokenHash string, expireAt time.Time) error {
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		// Token 已过期，无需加入黑名单
		return nil
	}
	return c.client.Set(ctx, "blacklist:"+tokenHash, 1, ttl).Err()
}

// IsTokenBlacklisted 检查 Token 是否在黑名单中
// 参数:
//   - ctx: 上下文
//   - tokenHash: Token 的哈希值
//
// 返回:
//   - bool: 是否在黑名单中
func (c *RedisCache) IsTokenBlacklisted(ctx context.Context, tokenHash string) bool {
	n, err := c.client.Exists(ctx, "blacklist:"+tokenHash).Result()
	if err != nil {
		// Redis 不可用时放行请求，Token 本身的签名和过期时间仍然有效
		return false
	}
	return n > 0
}

// ==================== 热门脚本排行 ====================
// 使用 Redis ZSet 记录脚本的浏览热度，供排行接口查询
// 持久化的浏览计数在数据库中递增，这里只是排行的辅助数据

const trendingKey = "trending:scripts"

// IncrScriptViews 递增脚本在排行榜中的热度
// 每次脚本被查看时调用，失败不影响主流程
// 参数:
//   - ctx: 上下文
//   - scriptID: 脚本ID
//
// 返回:
//   - error: Redis 操作错误
func (c *RedisCache) IncrScriptViews(ctx context.Context, scriptID int64) error {
	return c.client.ZIncrBy(ctx, trendingKey, 1, strconv.FormatInt(scriptID, 10)).Err()
}

// GetTrendingScripts 获取热度最高的脚本ID列表
// 参数:
//   - ctx: 上下文
//   - limit: 返回的最大数量
//
// 返回:
//   - []int64: 按热度降序排列的脚本ID
//   - error: Redis 操作错误
func (c *RedisCache) GetTrendingScripts(ctx context.Context, limit int64) ([]int64, error) {
	members, err := c.client.ZRevRange(ctx, trendingKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RemoveScriptFromTrending 将脚本从排行榜中移除
// 脚本被删除时调用
// 参数:
//   - ctx: 上下文
//   - scriptID: 脚本ID
//
// 返回:
//   - error: Redis 操作错误
func (c *RedisCache) RemoveScriptFromTrending(ctx context.Context, scriptID int64) error {
	return c.client.ZRem(ctx, trendingKey, strconv.FormatInt(scriptID, 10)).Err()
}
