// ABOUTME: MongoDB implementation of the Store interface
// ABOUTME: Acquires the shared client through a ConnCache on every operation

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	usersCollection    = "users"
	blogsCollection    = "blogs"
	settingsCollection = "settings"
)

// settingsID is the fixed _id of the singleton settings document. Upserting
// against a constant key is what guarantees at most one record ever exists.
const settingsID = "site"

// MongoStore implements Store on MongoDB. Every operation acquires the
// shared client through the ConnCache, so the first request after startup
// (or after a failed attempt) triggers the dial.
type MongoStore struct {
	cache  *ConnCache
	dbName string
	logger *slog.Logger

	indexOnce sync.Once
}

// NewMongoStore creates a store backed by the given connection cache.
func NewMongoStore(cache *ConnCache, dbName string) *MongoStore {
	return &MongoStore{
		cache:  cache,
		dbName: dbName,
		logger: slog.Default().With("component", "store"),
	}
}

// collection acquires the shared client and returns the named collection.
func (s *MongoStore) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	client, err := s.cache.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	s.indexOnce.Do(func() {
		if err := s.ensureIndexes(ctx, client); err != nil {
			// Uniqueness is also checked application-side, so a failed
			// index build degrades rather than breaks the store.
			s.logger.Warn("failed to create indexes", "error", err)
		}
	})

	return client.Database(s.dbName).Collection(name), nil
}

// ensureIndexes creates the unique indexes backing duplicate-user detection.
func (s *MongoStore) ensureIndexes(ctx context.Context, client *mongo.Client) error {
	users := client.Database(s.dbName).Collection(usersCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

// CreateUser stores a new credential, rejecting duplicate email or username.
func (s *MongoStore) CreateUser(ctx context.Context, user *Credential) error {
	coll, err := s.collection(ctx, usersCollection)
	if err != nil {
		return err
	}

	count, err := coll.CountDocuments(ctx, bson.M{
		"$or": bson.A{
			bson.M{"email": user.Email},
			bson.M{"username": user.Username},
		},
	})
	if err != nil {
		return fmt.Errorf("checking for existing user: %w", err)
	}
	if count > 0 {
		return ErrDuplicateUser
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	if _, err := coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// GetUserByEmail looks up a credential by lowercase email.
func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*Credential, error) {
	coll, err := s.collection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	var user Credential
	if err := coll.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &user, nil
}

// GetUserByID retrieves a credential by ID.
func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*Credential, error) {
	coll, err := s.collection(ctx, usersCollection)
	if err != nil {
		return nil, err
	}

	var user Credential
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user by id: %w", err)
	}
	return &user, nil
}

// CreateBlog stores a new post, stamping both timestamps.
func (s *MongoStore) CreateBlog(ctx context.Context, post *BlogPost) error {
	coll, err := s.collection(ctx, blogsCollection)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("inserting blog: %w", err)
	}
	return nil
}

// GetBlog retrieves a post by ID.
func (s *MongoStore) GetBlog(ctx context.Context, id string) (*BlogPost, error) {
	coll, err := s.collection(ctx, blogsCollection)
	if err != nil {
		return nil, err
	}

	var post BlogPost
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding blog: %w", err)
	}
	return &post, nil
}

// ListBlogs returns all posts, newest first.
func (s *MongoStore) ListBlogs(ctx context.Context) ([]*BlogPost, error) {
	coll, err := s.collection(ctx, blogsCollection)
	if err != nil {
		return nil, err
	}

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("listing blogs: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []*BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decoding blogs: %w", err)
	}
	return posts, nil
}

// ReplaceBlog overwrites the mutable fields of a post and bumps updatedAt.
// Last write wins; no version check is made.
func (s *MongoStore) ReplaceBlog(ctx context.Context, post *BlogPost) (*BlogPost, error) {
	coll, err := s.collection(ctx, blogsCollection)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"title":     post.Title,
			"content":   post.Content,
			"author":    post.Author,
			"imageUrl":  post.ImageURL,
			"updatedAt": time.Now().UTC(),
		},
	}

	var updated BlogPost
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": post.ID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating blog: %w", err)
	}
	return &updated, nil
}

// DeleteBlog removes a post by ID.
func (s *MongoStore) DeleteBlog(ctx context.Context, id string) error {
	coll, err := s.collection(ctx, blogsCollection)
	if err != nil {
		return err
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting blog: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSettings returns the singleton settings record, creating it with the
// default URL if absent. The upsert against a fixed _id makes lazy creation
// race-free: concurrent first reads still produce exactly one document.
func (s *MongoStore) GetSettings(ctx context.Context) (*SiteSettings, error) {
	coll, err := s.collection(ctx, settingsCollection)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$setOnInsert": bson.M{
			"tiktokVideoUrl": DefaultTikTokURL,
			"updatedAt":      time.Now().UTC(),
		},
	}

	var settings SiteSettings
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": settingsID}, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&settings)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	return &settings, nil
}

// UpdateSettings replaces the TikTok embed URL, creating the record if needed.
func (s *MongoStore) UpdateSettings(ctx context.Context, tiktokVideoURL string) (*SiteSettings, error) {
	coll, err := s.collection(ctx, settingsCollection)
	if err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"tiktokVideoUrl": tiktokVideoURL,
			"updatedAt":      time.Now().UTC(),
		},
	}

	var settings SiteSettings
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": settingsID}, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&settings)
	if err != nil {
		return nil, fmt.Errorf("updating settings: %w", err)
	}
	return &settings, nil
}

// Close disconnects the underlying client via the cache.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.cache.Close(ctx)
}
