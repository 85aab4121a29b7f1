// ABOUTME: Tests for the in-memory mock store
// ABOUTME: Covers user uniqueness, blog CRUD round-trips, and the settings singleton

package store

import (
	"context"
	"errors"
	"testing"
)

// Interface compliance checks.
var (
	_ Store = (*MockStore)(nil)
	_ Store = (*MongoStore)(nil)
)

func TestMockStore_CreateUser_Duplicates(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	first := &Credential{ID: "u1", Username: "sibe", Email: "a@x.com", Role: RoleAdmin}
	if err := m.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	tests := []struct {
		name string
		user *Credential
	}{
		{"same email", &Credential{ID: "u2", Username: "other", Email: "a@x.com"}},
		{"same username", &Credential{ID: "u3", Username: "sibe", Email: "b@x.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.CreateUser(ctx, tt.user); !errors.Is(err, ErrDuplicateUser) {
				t.Errorf("CreateUser() error = %v, want ErrDuplicateUser", err)
			}
		})
	}

	got, err := m.GetUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if got.ID != "u1" || got.Username != "sibe" {
		t.Errorf("GetUserByEmail() = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreateUser() did not stamp CreatedAt")
	}
}

func TestMockStore_BlogRoundTrip(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	post := &BlogPost{
		ID:      "b1",
		Title:   "AML basics",
		Content: "<p>know your customer</p>",
		Author:  "Sibe",
	}
	if err := m.CreateBlog(ctx, post); err != nil {
		t.Fatalf("CreateBlog() error = %v", err)
	}

	got, err := m.GetBlog(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBlog() error = %v", err)
	}
	if got.Title != post.Title || got.Content != post.Content || got.Author != post.Author {
		t.Errorf("GetBlog() = %+v, want fields of %+v", got, post)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("CreateBlog() did not stamp timestamps")
	}

	// Full replace overwrites all mutable fields.
	updated, err := m.ReplaceBlog(ctx, &BlogPost{
		ID:      "b1",
		Title:   "AML basics, revised",
		Content: "<p>revised</p>",
		Author:  "S. Sibe",
	})
	if err != nil {
		t.Fatalf("ReplaceBlog() error = %v", err)
	}
	if updated.Title != "AML basics, revised" || updated.Content != "<p>revised</p>" || updated.Author != "S. Sibe" {
		t.Errorf("ReplaceBlog() = %+v", updated)
	}
	if !updated.CreatedAt.Equal(got.CreatedAt) {
		t.Error("ReplaceBlog() must preserve CreatedAt")
	}
	if updated.UpdatedAt.Before(got.UpdatedAt) {
		t.Error("ReplaceBlog() must not move UpdatedAt backwards")
	}

	if err := m.DeleteBlog(ctx, "b1"); err != nil {
		t.Fatalf("DeleteBlog() error = %v", err)
	}
	if _, err := m.GetBlog(ctx, "b1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBlog() after delete error = %v, want ErrNotFound", err)
	}
	if err := m.DeleteBlog(ctx, "b1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteBlog() twice error = %v, want ErrNotFound", err)
	}
}

func TestMockStore_ReplaceBlog_Missing(t *testing.T) {
	m := NewMockStore()

	_, err := m.ReplaceBlog(context.Background(), &BlogPost{ID: "nope", Title: "t", Content: "c", Author: "a"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ReplaceBlog() error = %v, want ErrNotFound", err)
	}
}

func TestMockStore_SettingsSingleton(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()

	// First read lazily creates the record with the default URL.
	settings, err := m.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings.TikTokVideoURL != DefaultTikTokURL {
		t.Errorf("TikTokVideoURL = %q, want default", settings.TikTokVideoURL)
	}

	updated, err := m.UpdateSettings(ctx, "https://www.tiktok.com/@amldecoded/video/1")
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if updated.TikTokVideoURL != "https://www.tiktok.com/@amldecoded/video/1" {
		t.Errorf("TikTokVideoURL = %q", updated.TikTokVideoURL)
	}

	// A later read returns the updated value; no second record exists.
	again, err := m.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if again.TikTokVideoURL != updated.TikTokVideoURL {
		t.Errorf("GetSettings() = %q, want %q", again.TikTokVideoURL, updated.TikTokVideoURL)
	}
	if again.ID != updated.ID {
		t.Error("settings record was recreated under a different ID")
	}
}
