package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nwert/folio/internal/store"
)

const (
	defaultPostLimit = 10
	maxPostLimit     = 50
)

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := intQuery(q.Get("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := intQuery(q.Get("limit"), defaultPostLimit)
	if limit < 1 || limit > maxPostLimit {
		limit = defaultPostLimit
	}

	list, err := s.store.ListPublishedPosts(r.Context(), store.PostFilters{
		Search:   strings.TrimSpace(q.Get("search")),
		Tag:      strings.TrimSpace(q.Get("tag")),
		Category: strings.TrimSpace(q.Get("category")),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		s.logger.Error("list posts failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := s.store.GetPostBySlug(r.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		s.logger.Error("get post failed", zap.Error(err), zap.String("slug", slug))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	if !bearerMatches(r, s.cfg.AdminToken) {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input store.PostInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		respondError(w, http.StatusBadRequest, "Title and content are required")
		return
	}

	post, err := s.store.CreatePost(r.Context(), input)
	if err != nil {
		s.logger.Error("create post failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create blog post")
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	if !bearerMatches(r, s.cfg.AdminToken) {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	var input store.PostInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	post, err := s.store.UpdatePost(r.Context(), id, input)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		s.logger.Error("update post failed", zap.Error(err), zap.String("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to update blog post")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if !bearerMatches(r, s.cfg.AdminToken) {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	err := s.store.DeletePost(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		s.logger.Error("delete post failed", zap.Error(err), zap.String("id", id))
		respondError(w, http.StatusInternalServerError, "Failed to delete blog post")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.ListTags(r.Context())
	if err != nil {
		s.logger.Error("list tags failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, tags)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.logger.Error("list categories failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.Error("blog stats failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
