package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nwert/folio/internal/assistant"
	"github.com/nwert/folio/internal/config"
	"github.com/nwert/folio/internal/gate"
	"github.com/nwert/folio/internal/mail"
	"github.com/nwert/folio/internal/observability"
	"github.com/nwert/folio/internal/store"
)

// Mailer sends one outbound email and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) (string, error)
}

type Server struct {
	cfg            config.Config
	store          store.Store
	assistant      *assistant.Service
	mailer         Mailer
	contactLimiter *gate.Limiter
	metrics        *observability.Metrics
	logger         *zap.Logger
	upgrader       websocket.Upgrader

	sleep func(time.Duration) // injectable for retry tests
}

func New(cfg config.Config, st store.Store, svc *assistant.Service, mailer Mailer, contactLimiter *gate.Limiter, metrics *observability.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:            cfg,
		store:          st,
		assistant:      svc,
		mailer:         mailer,
		contactLimiter: contactLimiter,
		metrics:        metrics,
		logger:         logger,
		sleep:          time.Sleep,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same origin
				// unless explicitly opened up for a separate frontend host.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/api/contact", s.handleContact)
	r.Post("/api/chat", s.handleChat)
	r.Get("/api/chat/ws", s.handleChatWS)

	r.Get("/api/blog/posts", s.handleListPosts)
	r.Get("/api/blog/posts/{slug}", s.handleGetPost)
	r.Post("/api/blog/posts", s.handleCreatePost)
	r.Put("/api/blog/posts/{id}", s.handleUpdatePost)
	r.Delete("/api/blog/posts/{id}", s.handleDeletePost)
	r.Get("/api/blog/tags", s.handleListTags)
	r.Get("/api/blog/categories", s.handleListCategories)
	r.Get("/api/blog/stats", s.handleStats)

	r.Post("/api/cron/daily-summary", s.handleDailySummary)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ready",
		"store_mode": s.storeMode(),
		"chat":       s.assistant != nil,
	})
}

func (s *Server) storeMode() string {
	if s.cfg.DatabaseURL != "" {
		return "postgres"
	}
	return "in-memory"
}

// instrument counts requests by chi route pattern and response status.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// bearerMatches checks an Authorization header against a configured secret.
// An unconfigured secret never matches; the guarded surface stays closed.
func bearerMatches(r *http.Request, secret string) bool {
	if strings.TrimSpace(secret) == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+secret
}

type errorResponse struct {
	Error string `json:"error"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
