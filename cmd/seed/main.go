package main

import (
	"context"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"newsfeed-service/configs"
	"newsfeed-service/internal/shared/mongox"
	"newsfeed-service/internal/store"
)

const (
	numUsers        = 25
	postsPerUser    = 8
	followsPerUser  = 6
	deletedFraction = 10 // one in N posts is soft-deleted
)

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	cfg := configs.LoadConfig()
	db := mongox.Open(cfg)
	ctx := context.Background()

	posts := db.Collection("posts")
	follows := db.Collection("follows")

	userIDs := make([]string, numUsers)
	for i := range userIDs {
		userIDs[i] = uuid.NewString()
	}

	var postDocs []any
	for _, uid := range userIDs {
		for i := 0; i < postsPerUser; i++ {
			created := time.Now().Add(-time.Duration(gofakeit.Number(0, 14*24)) * time.Hour)
			p := store.Post{
				ID:           uuid.NewString(),
				AuthorID:     uid,
				Content:      gofakeit.Sentence(12),
				LikeCount:    int64(gofakeit.Number(0, 500)),
				CommentCount: int64(gofakeit.Number(0, 120)),
				CreatedAt:    created,
			}
			if gofakeit.Number(1, deletedFraction) == 1 {
				deletedAt := created.Add(time.Hour)
				p.Deleted = true
				p.DeletedAt = &deletedAt
			}
			if gofakeit.Bool() {
				p.MediaURL = gofakeit.URL()
			}
			postDocs = append(postDocs, p)
		}
	}
	if _, err := posts.InsertMany(ctx, postDocs); err != nil {
		log.Fatalf("seed posts: %v", err)
	}
	log.Printf("seeded %d posts for %d users", len(postDocs), numUsers)

	var followDocs []any
	for _, uid := range userIDs {
		seen := map[string]bool{uid: true}
		for i := 0; i < followsPerUser; i++ {
			target := userIDs[gofakeit.Number(0, numUsers-1)]
			if seen[target] {
				continue
			}
			seen[target] = true
			followDocs = append(followDocs, store.Follow{
				FollowerID: uid,
				FolloweeID: target,
				CreatedAt:  time.Now(),
			})
		}
	}
	if _, err := follows.InsertMany(ctx, followDocs); err != nil {
		log.Fatalf("seed follows: %v", err)
	}
	log.Printf("seeded %d follow edges", len(followDocs))

	// Sanity check one viewer's resolvable author set.
	n, err := posts.CountDocuments(ctx, bson.M{"deleted": false})
	if err != nil {
		log.Fatalf("count posts: %v", err)
	}
	log.Printf("store now holds %d live posts", n)
}
