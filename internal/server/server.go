package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wcatz/heritage-timeline/internal/catalog"
	"github.com/wcatz/heritage-timeline/internal/config"
	"github.com/wcatz/heritage-timeline/internal/generator"
	"github.com/wcatz/heritage-timeline/internal/layout"
)

// Server holds the HTTP server state, config and catalog.
type Server struct {
	cfg      *config.Config
	builder  *generator.Builder
	cfgPath  string
	cliArgs  map[string]string
	log      zerolog.Logger
	mu       sync.RWMutex
	webFS    fs.FS
	partials *template.Template
	staticFS http.FileSystem
	mux      *http.ServeMux
	handler  http.Handler
}

// New creates a new Server with the given embedded filesystem and config
// path. An empty path serves the built-in config and catalog.
func New(webFS fs.FS, cfgPath string, cliArgs map[string]string, log zerolog.Logger) (*Server, error) {
	s := &Server{
		cfgPath: cfgPath,
		cliArgs: cliArgs,
		log:     log.With().Str("component", "server").Logger(),
		webFS:   webFS,
		mux:     http.NewServeMux(),
	}

	if err := s.ReloadConfig(); err != nil {
		return nil, err
	}

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	s.registerRoutes()
	s.handler = s.logRequests(s.mux)
	return s, nil
}

func (s *Server) loadTemplates() error {
	// Parse partial templates (these are standalone fragments)
	partials, err := template.New("").ParseFS(s.webFS,
		"templates/partials/*.html",
	)
	if err != nil {
		return fmt.Errorf("parsing partial templates: %w", err)
	}
	s.partials = partials

	// Static file server
	staticSub, err := fs.Sub(s.webFS, "static")
	if err != nil {
		return fmt.Errorf("creating static FS: %w", err)
	}
	s.staticFS = http.FS(staticSub)

	return nil
}

// pageTemplate creates a fresh template set with layout, partials and a
// specific page.
func (s *Server) pageTemplate(page string) (*template.Template, error) {
	return template.New("").ParseFS(s.webFS,
		"templates/layout.html",
		"templates/partials/*.html",
		"templates/"+page,
	)
}

// ReloadConfig reloads the YAML config and the catalog it points at.
func (s *Server) ReloadConfig() error {
	cfg, err := config.LoadOrDefault(s.cfgPath, s.cliArgs)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cat, err := catalog.Open(cfg.CatalogFile(s.cfgPath))
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	builder := generator.NewBuilder(cfg, cat, layout.NewEngine(cfg.LayoutOptions()))

	s.mu.Lock()
	s.cfg = cfg
	s.builder = builder
	s.mu.Unlock()

	s.log.Info().Int("events", cat.Len()).Str("config", s.ConfigPath()).Msg("config loaded")
	return nil
}

// Config returns the current config (read-locked).
func (s *Server) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Builder returns the current document builder (read-locked).
func (s *Server) Builder() *generator.Builder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builder
}

// snapshot returns the config and builder from the same reload.
func (s *Server) snapshot() (*config.Config, *generator.Builder) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, s.builder
}

// ConfigPath returns the absolute path to the config file, or "" for the
// built-in config.
func (s *Server) ConfigPath() string {
	if s.cfgPath == "" {
		return ""
	}
	abs, err := filepath.Abs(s.cfgPath)
	if err != nil {
		return s.cfgPath
	}
	return abs
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	fmt.Printf("heritage-timeline web UI: http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s)
}

// renderPage renders a full page template (layout + page).
func (s *Server) renderPage(w http.ResponseWriter, page string, data map[string]interface{}) {
	tmpl, err := s.pageTemplate(page)
	if err != nil {
		s.log.Error().Err(err).Str("page", page).Msg("template error")
		http.Error(w, "template error: "+err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.log.Error().Err(err).Str("page", page).Msg("render error")
		http.Error(w, "render error: "+err.Error(), 500)
	}
}

// renderPartial renders a partial template (HTMX response).
func (s *Server) renderPartial(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.partials.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error().Err(err).Str("partial", name).Msg("render error")
		http.Error(w, "render error: "+err.Error(), 500)
	}
}
