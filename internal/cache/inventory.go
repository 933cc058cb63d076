package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix = "user:%d"
	FeedKey       = "feed:anon"
)

const (
	UserTTL = 5 * time.Minute
	FeedTTL = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateFeed drops the cached anonymous feed page. Called on post create,
// delete, like, save, and comment so counts stay fresh.
func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedKey)
}
