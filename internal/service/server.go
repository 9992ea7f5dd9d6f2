// Package service implements the MediaLog REST API on top of the storage
// layer.
package service

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/medialog/internal/auth"
	"github.com/mmynk/medialog/internal/middleware"
	"github.com/mmynk/medialog/internal/storage"
	"github.com/mmynk/medialog/internal/validation"
)

// Config wires the API's dependencies.
type Config struct {
	Store         storage.Store
	Authenticator auth.Authenticator
	JWTManager    *auth.JWTManager
	Logger        *slog.Logger

	// CORSOrigins lists allowed browser origins; empty allows any.
	CORSOrigins []string

	// Registry receives the HTTP metrics and backs /metrics. A nil Registry
	// gets a fresh one.
	Registry *prometheus.Registry
}

// deps is shared by the individual services.
type deps struct {
	store     storage.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// Server is the REST API.
type Server struct {
	router *chi.Mux
}

// NewServer builds the router with every route and middleware mounted.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	d := &deps{store: cfg.Store, validator: validation.New(), logger: logger}
	authSvc := NewAuthService(d, cfg.Authenticator, cfg.JWTManager)
	itemSvc := NewItemService(d)
	catalogSvc := NewCatalogService(d)

	requireAuth := middleware.RequireAuth(cfg.JWTManager)
	metrics := middleware.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(logger))
	r.Use(metrics.Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, messageBody{Message: "Medialog API is running"}, logger)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"}, logger)
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Post("/login", authSvc.Login)
	r.Post("/users", authSvc.Signup)
	r.Get("/tags", catalogSvc.ListTags)
	r.Get("/creators", catalogSvc.ListCreators)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/users/{id}", authSvc.GetUser)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemSvc.List)
			r.Post("/", itemSvc.Create)
			r.Get("/{id}", itemSvc.Get)
			r.Patch("/{id}", itemSvc.Update)
			r.Delete("/{id}", itemSvc.Delete)
			r.Post("/{id}/tags", itemSvc.ReplaceTags)
			r.Post("/{id}/creators", itemSvc.ReplaceCreators)
		})

		r.Post("/tags", catalogSvc.CreateTag)
		r.Post("/creators", catalogSvc.CreateCreator)
		r.Get("/categories", catalogSvc.ListCategories)
		r.Post("/categories", catalogSvc.CreateCategory)
	})

	return &Server{router: r}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
