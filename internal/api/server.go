package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/mdxmigrate/internal/config"
	"github.com/dgallion1/mdxmigrate/internal/csf"
	"github.com/dgallion1/mdxmigrate/internal/headings"
	"github.com/dgallion1/mdxmigrate/internal/parser"
)

// Server is the HTTP preview API: it runs either pipeline on a posted
// document and returns the result without touching the file system.
type Server struct {
	router     chi.Router
	parser     parser.Parser
	splitter   *csf.Splitter
	normalizer *headings.Normalizer
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(splitter *csf.Splitter, normalizer *headings.Normalizer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		parser:     parser.NewMDXParser(),
		splitter:   splitter,
		normalizer: normalizer,
		log:        log,
		cfg:        cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}
		r.Use(BodyLimit(s.cfg.MaxUploadBytes))

		r.Post("/api/convert/csf", s.handleConvertCSF)
		r.Post("/api/convert/headings", s.handleConvertHeadings)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
