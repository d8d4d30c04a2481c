package feed

import (
	"time"

	"newsfeed-service/internal/store"
)

type Item struct {
	PostID       string    `json:"post_id"`
	AuthorID     string    `json:"author_id"`
	Content      string    `json:"content"`
	MediaURL     string    `json:"media_url,omitempty"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Page is the cacheable feed envelope returned to callers. It is
// rebuilt on cache miss and never persisted.
type Page struct {
	Items      []Item `json:"items"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	TotalItems int64  `json:"total_items"`
	HasMore    bool   `json:"has_more"`
}

func itemFromSummary(p store.PostSummary) Item {
	return Item{
		PostID:       p.ID,
		AuthorID:     p.AuthorID,
		Content:      p.Content,
		MediaURL:     p.MediaURL,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt,
	}
}
