package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("store: not found")

// Submission is one sanitized contact-form entry.
type Submission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag labels blog posts; posts and tags are many-to-many.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category groups blog posts; posts and categories are many-to-many.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post is a blog post with its resolved tags and categories.
type Post struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Content    string     `json:"content"`
	Excerpt    string     `json:"excerpt"`
	Published  bool       `json:"published"`
	Tags       []Tag      `json:"tags"`
	Categories []Category `json:"categories"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// PostInput carries the writable post fields. Tags and Categories are names;
// the store upserts them by slug.
type PostInput struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	Published  bool     `json:"published"`
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
}

// PostFilters narrows and pages a published-post listing.
type PostFilters struct {
	Search   string
	Tag      string
	Category string
	Limit    int
	Offset   int
}

// PostList is one page of published posts.
type PostList struct {
	Posts   []Post `json:"posts"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	HasMore bool   `json:"hasMore"`
}

// Stats summarizes the blog content for the admin dashboard.
type Stats struct {
	TotalPosts     int `json:"total_posts"`
	PublishedPosts int `json:"published_posts"`
	DraftPosts     int `json:"draft_posts"`
	Tags           int `json:"tags"`
	Categories     int `json:"categories"`
}

// Store persists contact submissions and blog content.
type Store interface {
	InsertSubmission(ctx context.Context, sub Submission) error
	SubmissionsBetween(ctx context.Context, from, to time.Time) ([]Submission, error)

	ListPublishedPosts(ctx context.Context, filters PostFilters) (PostList, error)
	GetPostBySlug(ctx context.Context, slug string) (Post, error)
	CreatePost(ctx context.Context, input PostInput) (Post, error)
	UpdatePost(ctx context.Context, id string, input PostInput) (Post, error)
	DeletePost(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]Tag, error)
	ListCategories(ctx context.Context) ([]Category, error)
	Stats(ctx context.Context) (Stats, error)

	Close() error
}
