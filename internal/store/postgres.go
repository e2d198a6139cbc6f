package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists portfolio content in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS contact_submissions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_contact_submissions_created ON contact_submissions (created_at);`,
		`CREATE TABLE IF NOT EXISTS blog_posts (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL,
			excerpt TEXT NOT NULL DEFAULT '',
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_published_created ON blog_posts (published, created_at);`,
		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS post_tags (
			post_id TEXT NOT NULL REFERENCES blog_posts(id) ON DELETE CASCADE,
			tag_id TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (post_id, tag_id)
		);`,
		`CREATE TABLE IF NOT EXISTS post_categories (
			post_id TEXT NOT NULL REFERENCES blog_posts(id) ON DELETE CASCADE,
			category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
			PRIMARY KEY (post_id, category_id)
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) InsertSubmission(ctx context.Context, sub Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO contact_submissions (id, name, email, message, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		sub.ID, sub.Name, sub.Email, sub.Message, sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) SubmissionsBetween(ctx context.Context, from, to time.Time) ([]Submission, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, email, message, created_at
		 FROM contact_submissions
		 WHERE created_at >= $1 AND created_at < $2
		 ORDER BY created_at DESC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Message, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

func (s *PostgresStore) ListPublishedPosts(ctx context.Context, filters PostFilters) (PostList, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	where := []string{"p.published = TRUE"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(filters.Search); q != "" {
		pattern := "%" + q + "%"
		ph := arg(pattern)
		where = append(where, fmt.Sprintf("(p.title ILIKE %s OR p.content ILIKE %s OR p.excerpt ILIKE %s)", ph, ph, ph))
	}
	if tag := strings.TrimSpace(filters.Tag); tag != "" {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id = p.id AND t.slug = %s)",
			arg(tag)))
	}
	if cat := strings.TrimSpace(filters.Category); cat != "" {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_categories pc JOIN categories c ON c.id = pc.category_id WHERE pc.post_id = p.id AND c.slug = %s)",
			arg(cat)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM blog_posts p WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return PostList{}, fmt.Errorf("count posts: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.published, p.created_at, p.updated_at
		 FROM blog_posts p WHERE %s
		 ORDER BY p.created_at DESC
		 LIMIT %s OFFSET %s`,
		cond, arg(limit), arg(offset))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return PostList{}, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]Post, 0, limit)
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Published, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return PostList{}, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return PostList{}, fmt.Errorf("iterate posts: %w", err)
	}

	if err := s.attachLabels(ctx, posts); err != nil {
		return PostList{}, err
	}

	return PostList{
		Posts:   posts,
		Total:   total,
		Page:    offset/limit + 1,
		Limit:   limit,
		HasMore: offset+limit < total,
	}, nil
}

func (s *PostgresStore) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	var p Post
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, slug, content, excerpt, published, created_at, updated_at
		 FROM blog_posts WHERE slug = $1 AND published = TRUE`,
		slug,
	).Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("query post by slug: %w", err)
	}

	posts := []Post{p}
	if err := s.attachLabels(ctx, posts); err != nil {
		return Post{}, err
	}
	return posts[0], nil
}

func (s *PostgresStore) CreatePost(ctx context.Context, input PostInput) (Post, error) {
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

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Post{}, fmt.Errorf("begin create post: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Keep slugs unique without failing the write: fall back to a suffixed slug.
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1)`, p.Slug).Scan(&exists); err != nil {
		return Post{}, fmt.Errorf("check slug: %w", err)
	}
	if exists {
		p.Slug = p.Slug + "-" + p.ID[:8]
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO blog_posts (id, title, slug, content, excerpt, published, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Title, p.Slug, p.Content, p.Excerpt, p.Published, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return Post{}, fmt.Errorf("insert post: %w", err)
	}

	if p.Tags, err = replacePostLabels(ctx, tx, "tags", "post_tags", "tag_id", p.ID, input.Tags); err != nil {
		return Post{}, err
	}
	if p.Categories, err = replacePostCategories(ctx, tx, p.ID, input.Categories); err != nil {
		return Post{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Post{}, fmt.Errorf("commit create post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) UpdatePost(ctx context.Context, id string, input PostInput) (Post, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Post{}, fmt.Errorf("begin update post: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	var p Post
	err = tx.QueryRow(ctx,
		`UPDATE blog_posts
		 SET title = $2, content = $3, excerpt = $4, published = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING id, title, slug, content, excerpt, published, created_at, updated_at`,
		id, input.Title, input.Content, input.Excerpt, input.Published, now,
	).Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("update post: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
		return Post{}, fmt.Errorf("clear post tags: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
		return Post{}, fmt.Errorf("clear post categories: %w", err)
	}
	if p.Tags, err = replacePostLabels(ctx, tx, "tags", "post_tags", "tag_id", id, input.Tags); err != nil {
		return Post{}, err
	}
	if p.Categories, err = replacePostCategories(ctx, tx, id, input.Categories); err != nil {
		return Post{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Post{}, fmt.Errorf("commit update post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, slug FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *PostgresStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM blog_posts),
			(SELECT COUNT(*) FROM blog_posts WHERE published),
			(SELECT COUNT(*) FROM blog_posts WHERE NOT published),
			(SELECT COUNT(*) FROM tags),
			(SELECT COUNT(*) FROM categories)`,
	).Scan(&st.TotalPosts, &st.PublishedPosts, &st.DraftPosts, &st.Tags, &st.Categories)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// attachLabels loads tags and categories for the given posts in two queries.
func (s *PostgresStore) attachLabels(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
		posts[i].Tags = []Tag{}
		posts[i].Categories = []Category{}
	}

	rows, err := s.pool.Query(ctx,
		`SELECT pt.post_id, t.id, t.name, t.slug
		 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
		 WHERE pt.post_id = ANY($1)
		 ORDER BY t.name`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("query post tags: %w", err)
	}
	for rows.Next() {
		var postID string
		var t Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			rows.Close()
			return fmt.Errorf("scan post tag: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Tags = append(posts[i].Tags, t)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate post tags: %w", err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT pc.post_id, c.id, c.name, c.slug
		 FROM post_categories pc JOIN categories c ON c.id = pc.category_id
		 WHERE pc.post_id = ANY($1)
		 ORDER BY c.name`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("query post categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var postID string
		var c Category
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Slug); err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Categories = append(posts[i].Categories, c)
		}
	}
	return rows.Err()
}

// replacePostLabels upserts tag names by slug and links them to the post.
func replacePostLabels(ctx context.Context, tx pgx.Tx, labelTable, joinTable, joinCol, postID string, names []string) ([]Tag, error) {
	out := make([]Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		slug := Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		var t Tag
		err := tx.QueryRow(ctx,
			fmt.Sprintf(`INSERT INTO %s (id, name, slug) VALUES ($1, $2, $3)
			 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id, name, slug`, labelTable),
			uuid.NewString(), name, slug,
		).Scan(&t.ID, &t.Name, &t.Slug)
		if err != nil {
			return nil, fmt.Errorf("upsert %s %q: %w", labelTable, name, err)
		}

		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (post_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`, joinTable, joinCol),
			postID, t.ID,
		); err != nil {
			return nil, fmt.Errorf("link %s %q: %w", labelTable, name, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func replacePostCategories(ctx context.Context, tx pgx.Tx, postID string, names []string) ([]Category, error) {
	tags, err := replacePostLabels(ctx, tx, "categories", "post_categories", "category_id", postID, names)
	if err != nil {
		return nil, err
	}
	cats := make([]Category, len(tags))
	for i, t := range tags {
		cats[i] = Category(t)
	}
	return cats, nil
}
