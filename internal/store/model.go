package store

import "time"

// Post is the durable document behind every feed and trending read.
// Counters are only ever changed through atomic $inc updates.
type Post struct {
	ID           string     `bson:"_id" json:"id"`
	AuthorID     string     `bson:"author_id" json:"author_id"`
	Content      string     `bson:"content" json:"content"`
	MediaURL     string     `bson:"media_url,omitempty" json:"media_url,omitempty"`
	LikeCount    int64      `bson:"like_count" json:"like_count"`
	CommentCount int64      `bson:"comment_count" json:"comment_count"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	Deleted      bool       `bson:"deleted" json:"deleted"`
	DeletedAt    *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// PostSummary is the slice of a post that listing reads carry around.
type PostSummary struct {
	ID           string    `bson:"_id" json:"id"`
	AuthorID     string    `bson:"author_id" json:"author_id"`
	Content      string    `bson:"content" json:"content"`
	MediaURL     string    `bson:"media_url,omitempty" json:"media_url,omitempty"`
	LikeCount    int64     `bson:"like_count" json:"like_count"`
	CommentCount int64     `bson:"comment_count" json:"comment_count"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Follow is a directed edge: follower follows followee. The pair is
// unique; self-follows are rejected upstream but may exist in bad data.
type Follow struct {
	FollowerID string    `bson:"follower_id" json:"follower_id"`
	FolloweeID string    `bson:"followee_id" json:"followee_id"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
