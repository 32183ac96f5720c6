package service

import (
	"context"
	"mlda_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// LeaderboardCache 用 Redis 有序集合镜像 users.xp，数据库始终是权威数据。
// Redis 未启用时为 nil，所有方法都可以在 nil 上安全调用。
type LeaderboardCache struct {
	Redis *redis.Client
	Key   string
}

func NewLeaderboardCache(rdb *redis.Client, key string) *LeaderboardCache {
	if rdb == nil {
		return nil
	}
	return &LeaderboardCache{Redis: rdb, Key: key}
}

func (c *LeaderboardCache) Enabled() bool {
	return c != nil && c.Redis != nil
}

// AddXP 在事务提交之后调用
func (c *LeaderboardCache) AddXP(ctx context.Context, userID string, xp int) error {
	if !c.Enabled() || xp == 0 {
		return nil
	}
	return c.Redis.ZIncrBy(ctx, c.Key, float64(xp), userID).Err()
}

// Top 返回经验值最高的 limit 个用户 ID 和分数
func (c *LeaderboardCache) Top(ctx context.Context, limit int) ([]redis.Z, error) {
	if !c.Enabled() {
		return nil, nil
	}
	return c.Redis.ZRevRangeWithScores(ctx, c.Key, 0, int64(limit-1)).Result()
}

// Warm 用数据库中的经验值整体重建有序集合
func (c *LeaderboardCache) Warm(ctx context.Context, users []model.User) error {
	if !c.Enabled() {
		return nil
	}
	members := make([]*redis.Z, 0, len(users))
	for _, u := range users {
		members = append(members, &redis.Z{Score: float64(u.XP), Member: u.ID})
	}
	_, err := c.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.Key)
		if len(members) > 0 {
			pipe.ZAdd(ctx, c.Key, members...)
		}
		return nil
	})
	return err
}
