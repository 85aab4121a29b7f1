// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows handler tests to run without MongoDB

package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu       sync.RWMutex
	users    map[string]*Credential // keyed by user ID
	byEmail  map[string]string      // lowercase email -> user ID
	byName   map[string]string      // username -> user ID
	blogs    map[string]*BlogPost   // keyed by blog ID
	settings *SiteSettings          // nil until first read or write
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:   make(map[string]*Credential),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
		blogs:   make(map[string]*BlogPost),
	}
}

// CreateUser stores a new credential, rejecting duplicates.
func (m *MockStore) CreateUser(ctx context.Context, user *Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[user.Email]; ok {
		return ErrDuplicateUser
	}
	if _, ok := m.byName[user.Username]; ok {
		return ErrDuplicateUser
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	// Make a copy to avoid external modification
	u := *user
	m.users[u.ID] = &u
	m.byEmail[u.Email] = u.ID
	m.byName[u.Username] = u.ID
	return nil
}

// GetUserByEmail looks up a credential by lowercase email.
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	result := *m.users[id]
	return &result, nil
}

// GetUserByID retrieves a credential by ID.
func (m *MockStore) GetUserByID(ctx context.Context, id string) (*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *u
	return &result, nil
}

// CreateBlog stores a new post, stamping both timestamps.
func (m *MockStore) CreateBlog(ctx context.Context, post *BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	p := *post
	m.blogs[p.ID] = &p
	return nil
}

// GetBlog retrieves a post by ID.
func (m *MockStore) GetBlog(ctx context.Context, id string) (*BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.blogs[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *p
	return &result, nil
}

// ListBlogs returns all posts, newest first.
func (m *MockStore) ListBlogs(ctx context.Context) ([]*BlogPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := make([]*BlogPost, 0, len(m.blogs))
	for _, p := range m.blogs {
		result := *p
		posts = append(posts, &result)
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

// ReplaceBlog overwrites the mutable fields of a post and bumps updatedAt.
func (m *MockStore) ReplaceBlog(ctx context.Context, post *BlogPost) (*BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.blogs[post.ID]
	if !ok {
		return nil, ErrNotFound
	}

	existing.Title = post.Title
	existing.Content = post.Content
	existing.Author = post.Author
	existing.ImageURL = post.ImageURL
	existing.UpdatedAt = time.Now().UTC()

	result := *existing
	return &result, nil
}

// DeleteBlog removes a post by ID.
func (m *MockStore) DeleteBlog(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blogs[id]; !ok {
		return ErrNotFound
	}
	delete(m.blogs, id)
	return nil
}

// GetSettings returns the singleton settings record, creating it on first read.
func (m *MockStore) GetSettings(ctx context.Context) (*SiteSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settings == nil {
		m.settings = &SiteSettings{
			ID:             "site",
			TikTokVideoURL: DefaultTikTokURL,
			UpdatedAt:      time.Now().UTC(),
		}
	}
	result := *m.settings
	return &result, nil
}

// UpdateSettings replaces the TikTok embed URL.
func (m *MockStore) UpdateSettings(ctx context.Context, tiktokVideoURL string) (*SiteSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settings == nil {
		m.settings = &SiteSettings{ID: "site"}
	}
	m.settings.TikTokVideoURL = tiktokVideoURL
	m.settings.UpdatedAt = time.Now().UTC()

	result := *m.settings
	return &result, nil
}

// Close is a no-op for the mock.
func (m *MockStore) Close(ctx context.Context) error {
	return nil
}
