package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemorySubmissionsBetween(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	inside := Submission{Name: "Jo", Email: "jo@x.com", Message: "first message here", CreatedAt: day.Add(10 * time.Hour)}
	before := Submission{Name: "Al", Email: "al@x.com", Message: "too early message", CreatedAt: day.Add(-time.Hour)}
	after := Submission{Name: "Bo", Email: "bo@x.com", Message: "next day message!", CreatedAt: day.Add(25 * time.Hour)}

	for _, sub := range []Submission{inside, before, after} {
		if err := s.InsertSubmission(ctx, sub); err != nil {
			t.Fatalf("InsertSubmission error = %v", err)
		}
	}

	got, err := s.SubmissionsBetween(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("SubmissionsBetween error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Jo" {
		t.Fatalf("SubmissionsBetween = %+v, want only Jo", got)
	}
	if got[0].ID == "" {
		t.Fatalf("stored submission missing generated ID")
	}
}

func TestInMemoryPostLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	created, err := s.CreatePost(ctx, PostInput{
		Title:      "Hello, World!",
		Content:    "<p>First post content, long enough for an excerpt.</p>",
		Published:  true,
		Tags:       []string{"Go", "Web Dev"},
		Categories: []string{"Engineering"},
	})
	if err != nil {
		t.Fatalf("CreatePost error = %v", err)
	}
	if created.Slug != "hello-world" {
		t.Fatalf("slug = %q, want hello-world", created.Slug)
	}
	if created.Excerpt == "" || created.Excerpt[0] == '<' {
		t.Fatalf("excerpt = %q, want derived plain text", created.Excerpt)
	}
	if len(created.Tags) != 2 || len(created.Categories) != 1 {
		t.Fatalf("labels = %v / %v", created.Tags, created.Categories)
	}

	bySlug, err := s.GetPostBySlug(ctx, "hello-world")
	if err != nil || bySlug.ID != created.ID {
		t.Fatalf("GetPostBySlug = %+v, %v", bySlug, err)
	}

	updated, err := s.UpdatePost(ctx, created.ID, PostInput{
		Title:     "Hello, World!",
		Content:   "updated content body for the post",
		Published: false,
		Tags:      []string{"Go"},
	})
	if err != nil {
		t.Fatalf("UpdatePost error = %v", err)
	}
	if updated.Published {
		t.Fatalf("post still published after update")
	}
	if len(updated.Tags) != 1 {
		t.Fatalf("tags after update = %v", updated.Tags)
	}

	// Unpublished posts disappear from the public lookup.
	if _, err := s.GetPostBySlug(ctx, "hello-world"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetPostBySlug(draft) error = %v, want ErrNotFound", err)
	}

	if err := s.DeletePost(ctx, created.ID); err != nil {
		t.Fatalf("DeletePost error = %v", err)
	}
	if err := s.DeletePost(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeletePost error = %v, want ErrNotFound", err)
	}
}

func TestInMemoryListPublishedPostsFilters(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	mustCreate := func(title, content string, published bool, tags []string) Post {
		t.Helper()
		p, err := s.CreatePost(ctx, PostInput{Title: title, Content: content, Published: published, Tags: tags})
		if err != nil {
			t.Fatalf("CreatePost(%q) error = %v", title, err)
		}
		return p
	}

	mustCreate("Go concurrency", "channels and goroutines", true, []string{"Go"})
	mustCreate("CSS tricks", "selectors everywhere", true, []string{"Frontend"})
	mustCreate("Draft notes", "not ready yet", false, nil)

	all, err := s.ListPublishedPosts(ctx, PostFilters{})
	if err != nil {
		t.Fatalf("ListPublishedPosts error = %v", err)
	}
	if all.Total != 2 {
		t.Fatalf("total = %d, want 2 (drafts excluded)", all.Total)
	}

	byTag, err := s.ListPublishedPosts(ctx, PostFilters{Tag: "go"})
	if err != nil {
		t.Fatalf("ListPublishedPosts(tag) error = %v", err)
	}
	if byTag.Total != 1 || byTag.Posts[0].Title != "Go concurrency" {
		t.Fatalf("tag filter = %+v", byTag)
	}

	bySearch, err := s.ListPublishedPosts(ctx, PostFilters{Search: "selectors"})
	if err != nil {
		t.Fatalf("ListPublishedPosts(search) error = %v", err)
	}
	if bySearch.Total != 1 || bySearch.Posts[0].Title != "CSS tricks" {
		t.Fatalf("search filter = %+v", bySearch)
	}

	paged, err := s.ListPublishedPosts(ctx, PostFilters{Limit: 1})
	if err != nil {
		t.Fatalf("ListPublishedPosts(paged) error = %v", err)
	}
	if len(paged.Posts) != 1 || !paged.HasMore || paged.Page != 1 {
		t.Fatalf("paging = %+v", paged)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats error = %v", err)
	}
	if stats.TotalPosts != 3 || stats.PublishedPosts != 2 || stats.DraftPosts != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello, World!", "hello-world"},
		{"  Spaces   Everywhere  ", "spaces-everywhere"},
		{"Already-Slugged", "already-slugged"},
		{"100% Go!", "100-go"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("<p>short</p>", 150); got != "short" {
		t.Fatalf("Excerpt(short) = %q", got)
	}
	long := Excerpt("<div>aaaaa bbbbb ccccc ddddd eeeee</div>", 10)
	if long != "aaaaa bbbb..." {
		t.Fatalf("Excerpt(long) = %q", long)
	}
}
