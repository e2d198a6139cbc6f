package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryStore keeps content in process memory. It backs local development
// without a database and the handler tests.
type InMemoryStore struct {
	mu          sync.RWMutex
	submissions []Submission
	posts       map[string]Post
	tags        map[string]Tag      // by slug
	categories  map[string]Category // by slug
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		posts:      make(map[string]Post),
		tags:       make(map[string]Tag),
		categories: make(map[string]Category),
	}
}

func (s *InMemoryStore) InsertSubmission(_ context.Context, sub Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	s.submissions = append(s.submissions, sub)
	return nil
}

func (s *InMemoryStore) SubmissionsBetween(_ context.Context, from, to time.Time) ([]Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Submission
	for _, sub := range s.submissions {
		if !sub.CreatedAt.Before(from) && sub.CreatedAt.Before(to) {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) ListPublishedPosts(_ context.Context, filters PostFilters) (PostList, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Post
	for _, p := range s.posts {
		if !p.Published {
			continue
		}
		if !matchesFilters(p, filters) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	return PostList{
		Posts:   append([]Post{}, matched[offset:end]...),
		Total:   total,
		Page:    filters.Offset/limit + 1,
		Limit:   limit,
		HasMore: filters.Offset+limit < total,
	}, nil
}

func matchesFilters(p Post, filters PostFilters) bool {
	if q := strings.ToLower(strings.TrimSpace(filters.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Content), q) &&
			!strings.Contains(strings.ToLower(p.Excerpt), q) {
			return false
		}
	}
	if tag := strings.TrimSpace(filters.Tag); tag != "" {
		found := false
		for _, t := range p.Tags {
			if t.Slug == tag {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if cat := strings.TrimSpace(filters.Category); cat != "" {
		found := false
		for _, c := range p.Categories {
			if c.Slug == cat {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *InMemoryStore) GetPostBySlug(_ context.Context, slug string) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.Slug == slug && p.Published {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

func (s *InMemoryStore) CreatePost(_ context.Context, input PostInput) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p := Post{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Slug:      Slugify(input.Title),
		Content:   input.Content,
		Excerpt:   input.Excerpt,
		Published: input.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.Excerpt == "" {
		p.Excerpt = Excerpt(p.Content, 150)
	}
	for _, existing := range s.posts {
		if existing.Slug == p.Slug {
			p.Slug = p.Slug + "-" + p.ID[:8]
			break
		}
	}
	p.Tags = s.upsertTags(input.Tags)
	p.Categories = s.upsertCategories(input.Categories)
	s.posts[p.ID] = p
	return p, nil
}

func (s *InMemoryStore) UpdatePost(_ context.Context, id string, input PostInput) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	p.Title = input.Title
	p.Content = input.Content
	p.Excerpt = input.Excerpt
	if p.Excerpt == "" {
		p.Excerpt = Excerpt(p.Content, 150)
	}
	p.Published = input.Published
	p.UpdatedAt = time.Now().UTC()
	p.Tags = s.upsertTags(input.Tags)
	p.Categories = s.upsertCategories(input.Categories)
	s.posts[id] = p
	return p, nil
}

func (s *InMemoryStore) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *InMemoryStore) ListTags(_ context.Context) ([]Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) ListCategories(_ context.Context) ([]Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{
		TotalPosts: len(s.posts),
		Tags:       len(s.tags),
		Categories: len(s.categories),
	}
	for _, p := range s.posts {
		if p.Published {
			st.PublishedPosts++
		} else {
			st.DraftPosts++
		}
	}
	return st, nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

// SubmissionCount reports stored submissions; test helper.
func (s *InMemoryStore) SubmissionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions)
}

func (s *InMemoryStore) upsertTags(names []string) []Tag {
	out := make([]Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		t, ok := s.tags[slug]
		if !ok {
			t = Tag{ID: uuid.NewString(), Name: name, Slug: slug}
		}
		t.Name = name
		s.tags[slug] = t
		out = append(out, t)
	}
	return out
}

func (s *InMemoryStore) upsertCategories(names []string) []Category {
	out := make([]Category, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		c, ok := s.categories[slug]
		if !ok {
			c = Category{ID: uuid.NewString(), Name: name, Slug: slug}
		}
		c.Name = name
		s.categories[slug] = c
		out = append(out, c)
	}
	return out
}
