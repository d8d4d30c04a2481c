package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	colPosts   = "posts"
	colFollows = "follows"

	FieldLikeCount    = "like_count"
	FieldCommentCount = "comment_count"
)

// ErrNotFound is returned for point lookups that match no document.
var ErrNotFound = errors.New("store: not found")

type mongoStore struct {
	posts   *mongo.Collection
	follows *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{
		posts:   db.Collection(colPosts),
		follows: db.Collection(colFollows),
	}
}

func authorSetFilter(authorIDs []string, excludeDeleted bool) bson.M {
	filter := bson.M{"author_id": bson.M{"$in": authorIDs}}
	if excludeDeleted {
		filter["deleted"] = false
	}
	return filter
}

func (s *mongoStore) FindPostsByAuthorSet(ctx context.Context, authorIDs []string, excludeDeleted bool, skip, limit int64) ([]PostSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.posts.Find(ctx, authorSetFilter(authorIDs, excludeDeleted), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []PostSummary
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) CountPostsByAuthorSet(ctx context.Context, authorIDs []string, excludeDeleted bool) (int64, error) {
	return s.posts.CountDocuments(ctx, authorSetFilter(authorIDs, excludeDeleted))
}

func (s *mongoStore) FindFolloweeIDs(ctx context.Context, followerID string) ([]string, error) {
	raw, err := s.follows.Distinct(ctx, "followee_id", bson.M{"follower_id": followerID})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *mongoStore) FindPostByID(ctx context.Context, id string, includeDeleted bool) (*Post, error) {
	filter := bson.M{"_id": id}
	if !includeDeleted {
		filter["deleted"] = false
	}
	var p Post
	err := s.posts.FindOne(ctx, filter).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *mongoStore) AggregateTrendingCandidates(ctx context.Context) ([]PostSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"deleted": false}}},
		{{Key: "$project", Value: bson.M{
			"author_id":     1,
			"content":       1,
			"media_url":     1,
			"like_count":    1,
			"comment_count": 1,
			"created_at":    1,
		}}},
	}
	cur, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []PostSummary
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) IncrementPostCounter(ctx context.Context, id, field string, delta int64) error {
	res, err := s.posts.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
