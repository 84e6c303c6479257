package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache keys and TTLs for denormalized feed data. Lists are invalidated
// aggressively on any write that can change their contents.
const (
	PostTTL      = 5 * time.Minute
	PostsListTTL = 30 * time.Second
)

// PostKey returns the cache key for a single post.
func PostKey(postID uint) string {
	return fmt.Sprintf("post:%d", postID)
}

// PostsListKey returns the cache key for a page of the feed.
func PostsListKey(page, limit int, authorEmail string) string {
	if authorEmail == "" {
		return fmt.Sprintf("posts:page:%d:limit:%d", page, limit)
	}
	return fmt.Sprintf("posts:page:%d:limit:%d:author:%s", page, limit, authorEmail)
}

// InvalidatePost removes the single-post entry and all feed pages. Feed
// pages embed engagement counts, so any change to the post or its
// reactions stales every page it could appear on.
func InvalidatePost(ctx context.Context, postID uint) {
	if client == nil {
		return
	}
	client.Del(ctx, PostKey(postID))
	InvalidatePostsList(ctx)
}

// InvalidatePostsList removes all cached feed pages.
func InvalidatePostsList(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "posts:page:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
