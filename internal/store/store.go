// ABOUTME: Store interface and data types for amld-site persistence
// ABOUTME: Defines Credential, BlogPost, SiteSettings and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateUser is returned when creating a user whose email or username is taken
var ErrDuplicateUser = errors.New("user already exists")

// RoleAdmin is the only role the bootstrap flow ever assigns. The field is an
// open string so future roles don't require a schema change.
const RoleAdmin = "admin"

// DefaultTikTokURL is the embed URL a fresh settings record starts with.
const DefaultTikTokURL = "https://www.tiktok.com/@alwaysbullish1"

// Credential is an administrator account. Records are created once via the
// bootstrap flow and never updated or deleted afterwards.
type Credential struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"` // stored lowercase
	PasswordHash string    `bson:"passwordHash"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// BlogPost is a single article. Content is an opaque rich-text blob; this
// layer never parses or sanitizes it.
type BlogPost struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Content   string    `bson:"content"`
	Author    string    `bson:"author"`
	ImageURL  string    `bson:"imageUrl,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// SiteSettings is a singleton record; the collection holds at most one
// document, created lazily on first read.
type SiteSettings struct {
	ID             string    `bson:"_id"`
	TikTokVideoURL string    `bson:"tiktokVideoUrl"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

// Store is the persistence interface for the site.
//
// Writes set createdAt/updatedAt themselves; callers never supply timestamps.
// Blog updates are full-document replaces with last-write-wins semantics —
// no optimistic concurrency check is made, matching the store's native
// consistency level.
type Store interface {
	// CreateUser stores a new credential. Returns ErrDuplicateUser if a
	// record with the same email or username already exists.
	CreateUser(ctx context.Context, user *Credential) error
	// GetUserByEmail looks up a credential by lowercase email.
	GetUserByEmail(ctx context.Context, email string) (*Credential, error)
	GetUserByID(ctx context.Context, id string) (*Credential, error)

	CreateBlog(ctx context.Context, post *BlogPost) error
	GetBlog(ctx context.Context, id string) (*BlogPost, error)
	// ListBlogs returns all posts, newest first.
	ListBlogs(ctx context.Context) ([]*BlogPost, error)
	// ReplaceBlog overwrites title/content/author/imageUrl of the post with
	// the given ID, preserving createdAt. Returns the stored document.
	ReplaceBlog(ctx context.Context, post *BlogPost) (*BlogPost, error)
	DeleteBlog(ctx context.Context, id string) error

	// GetSettings returns the singleton settings record, creating it with
	// DefaultTikTokURL if it does not exist yet.
	GetSettings(ctx context.Context) (*SiteSettings, error)
	UpdateSettings(ctx context.Context, tiktokVideoURL string) (*SiteSettings, error)

	Close(ctx context.Context) error
}
