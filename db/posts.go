package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mingle/apperr"
	"mingle/models"
)

func (m *Mongo) CreatePost(ctx context.Context, post *models.Post) error {
	// $push and $set on likes.<id> need real containers, not null
	if post.Likes == nil {
		post.Likes = map[string]bool{}
	}
	if post.Comments == nil {
		post.Comments = []string{}
	}

	ctx, cancel := m.op(ctx)
	defer cancel()

	if _, err := m.PostsCollection.InsertOne(ctx, post); err != nil {
		return apperr.Infrastructure("insert post", err)
	}
	return nil
}

func (m *Mongo) FindPostByID(ctx context.Context, id string) (*models.Post, error) {
	ctx, cancel := m.op(ctx)
	defer cancel()

	var post models.Post
	if err := m.PostsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, notFoundOr(err, "post")
	}
	return &post, nil
}

func (m *Mongo) FindPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	query := bson.M{}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Skip > 0 {
		opts.SetSkip(filter.Skip)
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	ctx, cancel := m.op(ctx)
	defer cancel()

	cursor, err := m.PostsCollection.Find(ctx, query, opts)
	if err != nil {
		return nil, apperr.Infrastructure("query posts", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, apperr.Infrastructure("decode posts", err)
	}
	return posts, nil
}

// SetLike touches only likes.<userID>, so concurrent likes by different users never clobber each other.
func (m *Mongo) SetLike(ctx context.Context, postID, userID string, liked bool) (*models.Post, error) {
	field := "likes." + userID
	update := bson.M{"$set": bson.M{"updatedAt": time.Now()}}
	if liked {
		update["$set"].(bson.M)[field] = true
	} else {
		update["$unset"] = bson.M{field: ""}
	}
	return m.updatePost(ctx, postID, update)
}

func (m *Mongo) AppendComment(ctx context.Context, postID, comment string) (*models.Post, error) {
	return m.updatePost(ctx, postID, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (m *Mongo) updatePost(ctx context.Context, postID string, update bson.M) (*models.Post, error) {
	ctx, cancel := m.op(ctx)
	defer cancel()

	var post models.Post
	if err := m.PostsCollection.FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, afterUpdate).Decode(&post); err != nil {
		return nil, notFoundOr(err, "post")
	}
	return &post, nil
}
