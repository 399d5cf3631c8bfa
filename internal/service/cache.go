package service

import (
	"context"

	"blood_bank/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const statsCacheKey = "stats:dashboard"

func ownRequestsKey(userID string) string {
	return "requests:user:" + userID
}

// invalidate drops cache entries after a write. Failures are logged, not returned.
func invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if err := utils.DeleteCache(ctx, rdb, keys...); err != nil {
		logrus.WithFields(logrus.Fields{"keys": keys, "error": err.Error()}).Warn("Cache invalidation failed")
	}
}
