// Package httpapi serves search, feature flags, content listings and the
// contact form over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/letmevibethatforyou/sitesearch"
	"github.com/letmevibethatforyou/sitesearch/aggregate"
	"github.com/letmevibethatforyou/sitesearch/catalog"
)

// maxLimit caps the limit query parameter.
const maxLimit = 50

// BlogSource is the blog catalog as seen by the API.
type BlogSource interface {
	Posts(ctx context.Context) ([]catalog.Post, error)
	Post(ctx context.Context, slug string) (catalog.Post, error)
}

// Config wires the API's dependencies.
type Config struct {
	Index    *aggregate.Index
	Projects *catalog.Projects
	Blog     BlogSource
	// Contact handles POST /api/contact; nil disables the route.
	Contact http.Handler
	Weights sitesearch.Weights
	Limit   int
	// Gatherer and Registerer default to a fresh registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Logger     *slog.Logger
}

// Server holds the handlers.
type Server struct {
	cfg     Config
	metrics *Metrics
	logger  *slog.Logger
}

// NewServer builds the router.
func NewServer(cfg Config) http.Handler {
	if cfg.Registerer == nil || cfg.Gatherer == nil {
		reg := prometheus.NewRegistry()
		cfg.Registerer, cfg.Gatherer = reg, reg
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Limit <= 0 {
		cfg.Limit = sitesearch.MaxResults
	}
	if cfg.Weights == (sitesearch.Weights{}) {
		cfg.Weights = sitesearch.DefaultWeights()
	}

	s := &Server{
		cfg:     cfg,
		metrics: NewMetrics(cfg.Registerer),
		logger:  cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.search)
		r.Get("/flags", s.getFlags)
		r.Post("/flags/refresh", s.refreshFlags)
		r.Get("/projects", s.listProjects)
		r.Get("/blog", s.listPosts)
		r.Get("/blog/{slug}", s.getPost)
		if cfg.Contact != nil {
			r.Method(http.MethodPost, "/contact", cfg.Contact)
		}
	})
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": s.cfg.Index.Searcher().Size(),
		"loaded_at": s.cfg.Index.Searcher().LoadedAt(),
	})
}

// search handles GET /api/search?q=&kind=&tag=&limit=.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")

	opts := []sitesearch.SearchOption{sitesearch.WithWeights(s.cfg.Weights)}

	limit := s.cfg.Limit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxLimit {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and "+strconv.Itoa(maxLimit))
			return
		}
		limit = n
	}
	opts = append(opts, sitesearch.WithLimit(limit))

	if v := q.Get("kind"); v != "" {
		var kinds []sitesearch.Expression
		for _, k := range strings.Split(v, ",") {
			kind := sitesearch.Kind(strings.TrimSpace(k))
			if !kind.Valid() {
				writeError(w, http.StatusBadRequest, "unknown kind "+strconv.Quote(string(kind)))
				return
			}
			kinds = append(kinds, sitesearch.KindIs(kind))
		}
		opts = append(opts, sitesearch.Or(kinds...))
	}
	for _, tag := range q["tag"] {
		if tag = strings.TrimSpace(tag); tag != "" {
			opts = append(opts, sitesearch.HasTag(tag))
		}
	}

	results, err := s.cfg.Index.Searcher().Search(r.Context(), query, opts...)
	if err != nil {
		if errors.Is(err, sitesearch.ErrCanceled) {
			return
		}
		if errors.Is(err, sitesearch.ErrInvalidOption) || errors.Is(err, sitesearch.ErrInvalidExpression) {
			writeError(w, http.StatusBadRequest, "Invalid search parameters")
			return
		}
		s.logger.ErrorContext(r.Context(), "search failed", "query", query, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.metrics.ObserveSearch(strings.TrimSpace(query), len(results.Items))
	if results.Items == nil {
		results.Items = []sitesearch.ScoredDocument{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) getFlags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Index.Flags())
}

func (s *Server) refreshFlags(w http.ResponseWriter, r *http.Request) {
	f, err := s.cfg.Index.Refresh(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": "Flag refresh failed",
			"flags": f,
		})
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// listProjects handles GET /api/projects, optionally filtered by ?category=.
func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	var projects []catalog.Project
	if category := r.URL.Query().Get("category"); category != "" {
		projects = s.cfg.Projects.ByCategory(category)
	} else if r.URL.Query().Get("featured") == "true" {
		projects = s.cfg.Projects.Featured()
	} else {
		projects = s.cfg.Projects.All()
	}
	if projects == nil {
		projects = []catalog.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) blogEnabled(w http.ResponseWriter) bool {
	if s.cfg.Blog == nil || !s.cfg.Index.Flags().BlogEnabled {
		writeError(w, http.StatusNotFound, "Not found")
		return false
	}
	return true
}

// listPosts handles GET /api/blog. Post bodies are omitted.
func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	if !s.blogEnabled(w) {
		return
	}
	posts, err := s.cfg.Blog.Posts(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list posts", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	for i := range posts {
		posts[i].Content = ""
	}
	if posts == nil {
		posts = []catalog.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	if !s.blogEnabled(w) {
		return
	}
	post, err := s.cfg.Blog.Post(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, catalog.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to read post", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, post)
}
