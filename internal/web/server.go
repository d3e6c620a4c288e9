// Package web exposes the store's operations over a JSON-only HTTP API.
// Grounded on the teacher's internal/web.Server: same chi router and
// middleware stack, generalized from a code-search UI to a JSON API
// with no HTML views.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vecbase/vecbase/internal/snapshot"
	"github.com/vecbase/vecbase/internal/store"
)

// Server is the HTTP server for the store's JSON API.
type Server struct {
	config Config
	router *chi.Mux
	h      *handler
}

// Config holds what the HTTP layer needs to bind and route requests.
type Config struct {
	Host       string
	Port       int
	Store      *store.Store
	Snapshotter *snapshot.Snapshotter
}

// NewServer builds a Server with its full middleware stack and route
// table wired up.
func NewServer(cfg Config) *Server {
	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		h:      &handler{store: cfg.Store, snapshotter: cfg.Snapshotter},
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.h.health)

	s.router.Route("/libraries", func(r chi.Router) {
		r.Post("/", s.h.createLibrary)
		r.Route("/{libraryID}", func(r chi.Router) {
			r.Get("/", s.h.getLibrary)
			r.Put("/", s.h.updateLibrary)
			r.Delete("/", s.h.deleteLibrary)
			r.Post("/index", s.h.indexLibrary)
			r.Post("/search", s.h.search)

			r.Get("/chunks/count", s.h.chunkCount)
			r.Get("/chunks", s.h.listLibraryChunks)

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", s.h.createDocument)
				r.Route("/{documentID}", func(r chi.Router) {
					r.Get("/", s.h.getDocument)
					r.Put("/", s.h.updateDocument)
					r.Delete("/", s.h.deleteDocument)

					r.Get("/chunks", s.h.listDocumentChunks)
					r.Post("/chunks", s.h.createChunk)
					r.Post("/chunks/bulk", s.h.bulkCreateChunks)
					r.Route("/chunks/{chunkID}", func(r chi.Router) {
						r.Get("/", s.h.getChunk)
						r.Put("/", s.h.updateChunk)
						r.Delete("/", s.h.deleteChunk)
					})
				})
			})
		})
	})
}

// Router exposes the chi router, primarily for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until it exits.
func (s *Server) ListenAndServe() error {
	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	return http.ListenAndServe(addr, s.router)
}
