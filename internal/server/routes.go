package server

import "net/http"

func (s *Server) registerRoutes() {
	// Static files
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(s.staticFS)))

	// Pages
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/timeline.svg", s.handleSVG)

	// API endpoints (HTMX + JSON)
	s.mux.HandleFunc("/api/layout", s.handleLayout)
	s.mux.HandleFunc("/api/event", s.handleEvent)
	s.mux.HandleFunc("/api/categories", s.handleCategories)
	s.mux.HandleFunc("/api/config/reload", s.handleConfigReload)
	s.mux.HandleFunc("/api/profile/save", s.handleProfileSave)
	s.mux.HandleFunc("/api/palette/color", s.handlePaletteColor)
	s.mux.HandleFunc("/api/palette/activate", s.handlePaletteActivate)
}
