// Package cache is the key-value collaborator used to memoize feed
// pages, trending pages and single-post reads. Values are opaque JSON
// blobs written in a single SET so a timed-out request can never leave
// a half-written entry behind.
package cache

import (
	"context"
	"fmt"
	"time"
)

type Cache interface {
	// Get returns the value and whether the key was present. A transport
	// error is returned as-is; callers treat it as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// SetTTL stores val under key for ttl in one atomic write.
	SetTTL(ctx context.Context, key string, val []byte, ttl time.Duration) error

	// Delete removes keys. Deleting an absent key is a no-op.
	Delete(ctx context.Context, keys ...string) error
}

// Key builders. The invalidation policy and every reader must agree on
// these, so they live here and nowhere else.

func PostKey(postID string) string {
	return "post:" + postID
}

func FeedKey(viewerID string, page, pageSize int) string {
	return fmt.Sprintf("feed:user=%s:page=%d:limit=%d", viewerID, page, pageSize)
}

func TrendingKey(limit int) string {
	return fmt.Sprintf("trending:limit=%d", limit)
}
