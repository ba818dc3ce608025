// Package server implements the labelpress HTTP API.
//
// The API wraps the same pipeline the CLI uses: POST a dataset (or inline
// records) and get rendered artifacts back, either directly or as a stored
// document that can be fetched and previewed page by page. The symbol
// library is exposed as a small CRUD surface for picker UIs.
//
// # Endpoints
//
//	GET  /healthz                     liveness probe
//	GET  /api/version                 build information
//	POST /api/render                  render and return one artifact
//	POST /api/sheets                  render and store a document
//	GET  /api/documents/{id}          stored document as PDF
//	GET  /api/documents/{id}/preview  one page as PNG, optionally resized
//	GET  /api/library                 list symbols
//	POST /api/library                 add symbols
//	PUT  /api/library                 replace all symbols
//	DELETE /api/library/{item}        remove one symbol
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/labelpress/labelpress/pkg/fonts"
	"github.com/labelpress/labelpress/pkg/library"
	"github.com/labelpress/labelpress/pkg/pipeline"
)

// DefaultJobTTL is how long stored documents stay fetchable.
const DefaultJobTTL = time.Hour

// Config holds server dependencies and settings.
type Config struct {
	Addr    string
	Logger  *log.Logger
	Library library.Store
	Fonts   *fonts.Table
	JobTTL  time.Duration
}

// Server routes API requests to the pipeline runner and the symbol
// library.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	docs   *documents
	router chi.Router
}

// New creates a server around the given runner. Missing config fields get
// working defaults: a memory library, a plain font table, and the default
// document TTL.
func New(cfg Config, runner *pipeline.Runner) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Library == nil {
		cfg.Library = library.NewMemoryStore()
	}
	if cfg.Fonts == nil {
		cfg.Fonts = fonts.NewTable()
	}
	if cfg.JobTTL == 0 {
		cfg.JobTTL = DefaultJobTTL
	}

	s := &Server{
		cfg:    cfg,
		runner: runner,
		docs:   newDocuments(cfg.JobTTL),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Post("/render", s.handleRender)
		r.Post("/sheets", s.handleCreateSheet)
		r.Get("/documents/{id}", s.handleDocument)
		r.Get("/documents/{id}/preview", s.handlePreview)

		r.Get("/library", s.handleLibraryList)
		r.Post("/library", s.handleLibraryAdd)
		r.Put("/library", s.handleLibraryReplace)
		r.Delete("/library/{item}", s.handleLibraryRemove)
	})
	return r
}

// Handler returns the server's HTTP handler, for mounting and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the listener fails or the process
// is stopped. The document sweeper runs alongside it.
func (s *Server) ListenAndServe() error {
	stop := s.docs.startSweeper()
	defer stop()

	s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, s.router)
}
