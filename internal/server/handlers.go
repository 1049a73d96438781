package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/wcatz/heritage-timeline/internal/catalog"
	"github.com/wcatz/heritage-timeline/internal/config"
	"github.com/wcatz/heritage-timeline/internal/generator"
	"github.com/wcatz/heritage-timeline/internal/layout"
)

// categoryView is a toggle button on the index page.
type categoryView struct {
	generator.CategoryInfo
	ToggleURL string
}

// eventCard is the data for the event.html partial.
type eventCard struct {
	Placement    layout.Placement
	Color        string
	CategoryName string
	Icon         string
}

// Page handlers

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	cfg, builder := s.snapshot()
	sel, err := selectionFromRequest(r, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	hover := r.URL.Query().Get("hover")
	doc := builder.BuildSelection(sel, layout.State{Hovered: hover})

	var cats []categoryView
	for _, c := range doc.Categories {
		cat, _ := catalog.ParseCategory(c.Key)
		cats = append(cats, categoryView{
			CategoryInfo: c,
			ToggleURL:    "/" + selectionQuery(sel.Toggle(cat), ""),
		})
	}

	renderer := generator.NewSVGRenderer(cfg.SVG)
	renderer.Link = func(p layout.Placement) string {
		return "/" + selectionQuery(sel, p.Key)
	}

	var hovered *eventCard
	if p, ok := doc.Layout.Placement(hover); ok {
		card := newEventCard(doc, p)
		hovered = &card
	}

	s.renderPage(w, "index.html", map[string]interface{}{
		"Title":         doc.Title,
		"Subtitle":      doc.Subtitle,
		"ConfigPath":    s.ConfigPath(),
		"Categories":    cats,
		"Selected":      doc.Selected,
		"SVG":           template.HTML(inlineSVG(renderer.Render(doc))),
		"Hovered":       hovered,
		"EventCount":    doc.EventCount(),
		"Range":         doc.Layout.Range,
		"DefaultRange":  doc.Layout.DefaultRange,
		"CanSave":       s.cfgPath != "",
		"Palettes":      paletteNames(cfg),
		"ActivePalette": cfg.ActivePalette,
		"AllCategories": catalog.AllCategories(),
	})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	cfg, builder := s.snapshot()
	sel, err := selectionFromRequest(r, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc := builder.BuildSelection(sel, layout.State{Hovered: r.URL.Query().Get("hover")})
	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, generator.NewSVGRenderer(cfg.SVG).Render(doc))
}

// API handlers

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	cfg, builder := s.snapshot()
	sel, err := selectionFromRequest(r, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc := builder.BuildSelection(sel, layout.State{Hovered: r.URL.Query().Get("hover")})
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}
	cfg, builder := s.snapshot()
	sel, err := selectionFromRequest(r, cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc := builder.BuildSelection(sel, layout.State{Hovered: key})
	p, ok := doc.Layout.Placement(key)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.renderPartial(w, "event.html", newEventCard(doc, p))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cfg, builder := s.snapshot()
	sel, err := selectionFromRequest(r, cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, builder.CategoryInfos(sel))
}

func (s *Server) handleConfigReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return
	}
	if err := s.ReloadConfig(); err != nil {
		s.log.Error().Err(err).Msg("config reload failed")
		s.renderPartial(w, "config-status.html", map[string]interface{}{"Error": err.Error()})
		return
	}
	s.renderPartial(w, "config-status.html", map[string]interface{}{"Message": "config reloaded"})
}

func (s *Server) handleProfileSave(w http.ResponseWriter, r *http.Request) {
	if !s.editableForm(w, r) {
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if err := validateProfileName(name); err != nil {
		s.renderPartial(w, "config-status.html", map[string]interface{}{
			"Error": fmt.Sprintf("invalid profile name '%s': %v", name, err),
		})
		return
	}

	def := config.ProfileDef{Categories: r.Form["category"], Filename: name}
	if err := config.NewYAMLEditor(s.cfgPath).SaveProfile(name, def); err != nil {
		s.renderPartial(w, "config-status.html", map[string]interface{}{"Error": err.Error()})
		return
	}

	// Reload after saving
	if !s.reloadAfterEdit(w) {
		return
	}
	s.log.Info().Str("profile", name).Strs("categories", def.Categories).Msg("profile saved")
	s.renderPartial(w, "config-status.html", map[string]interface{}{"Message": fmt.Sprintf("profile '%s' saved", name)})
}

func (s *Server) handlePaletteColor(w http.ResponseWriter, r *http.Request) {
	if !s.editableForm(w, r) {
		return
	}
	palette := strings.TrimSpace(r.FormValue("palette"))
	category := r.FormValue("category")
	hex := strings.TrimSpace(r.FormValue("color"))
	if err := config.NewYAMLEditor(s.cfgPath).SetPaletteColor(palette, category, hex); err != nil {
		s.renderPartial(w, "config-status.html", map[string]interface{}{"Error": err.Error()})
		return
	}
	if !s.reloadAfterEdit(w) {
		return
	}
	s.log.Info().Str("palette", palette).Str("category", category).Str("color", hex).Msg("palette color set")
	s.renderPartial(w, "config-status.html", map[string]interface{}{
		"Message": fmt.Sprintf("%s set to %s in palette '%s'", category, hex, palette),
	})
}

func (s *Server) handlePaletteActivate(w http.ResponseWriter, r *http.Request) {
	if !s.editableForm(w, r) {
		return
	}
	name := strings.TrimSpace(r.FormValue("palette"))
	if err := config.NewYAMLEditor(s.cfgPath).SetActivePalette(name); err != nil {
		s.renderPartial(w, "config-status.html", map[string]interface{}{"Error": err.Error()})
		return
	}
	if !s.reloadAfterEdit(w) {
		return
	}
	s.log.Info().Str("palette", name).Msg("palette activated")
	s.renderPartial(w, "config-status.html", map[string]interface{}{"Message": fmt.Sprintf("palette '%s' active", name)})
}

// editableForm checks the method, that a config file is loaded and that the
// form parses. It writes the response and returns false otherwise.
func (s *Server) editableForm(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", 405)
		return false
	}
	if s.cfgPath == "" {
		s.renderPartial(w, "config-status.html", map[string]interface{}{"Error": "no config file to save to"})
		return false
	}
	if err := r.ParseForm(); err != nil {
		s.renderPartial(w, "config-status.html", map[string]interface{}{"Error": "parsing form: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) reloadAfterEdit(w http.ResponseWriter) bool {
	if err := s.ReloadConfig(); err != nil {
		s.renderPartial(w, "config-status.html", map[string]interface{}{"Error": "saved but reload failed: " + err.Error()})
		return false
	}
	return true
}

func paletteNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Palettes))
	for name := range cfg.Palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// selectionFromRequest reads the category selection from the query. Without
// any category parameter the configured default selection applies; an empty
// "category=" selects nothing. "toggle" flips one category afterwards.
func selectionFromRequest(r *http.Request, cfg *config.Config) (catalog.Selection, error) {
	q := r.URL.Query()
	sel := cfg.GetDefaultSelection()
	if vals, ok := q["category"]; ok {
		var names []string
		for _, v := range vals {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					names = append(names, part)
				}
			}
		}
		var err error
		if sel, err = catalog.NewSelection(names...); err != nil {
			return nil, err
		}
	}
	if t := q.Get("toggle"); t != "" {
		c, err := catalog.ParseCategory(t)
		if err != nil {
			return nil, err
		}
		sel = sel.Toggle(c)
	}
	return sel, nil
}

// selectionQuery encodes a selection and optional hover key as a query string.
func selectionQuery(sel catalog.Selection, hover string) string {
	v := url.Values{}
	keys := sel.Keys()
	if len(keys) == 0 {
		keys = []string{""}
	}
	v["category"] = keys
	if hover != "" {
		v.Set("hover", hover)
	}
	return "?" + v.Encode()
}

func newEventCard(doc *generator.Document, p layout.Placement) eventCard {
	return eventCard{
		Placement:    p,
		Color:        doc.Color(p.Event.Category.String()),
		CategoryName: p.Event.Category.Style().Name,
		Icon:         p.Event.Category.Style().Icon,
	}
}

// inlineSVG strips the XML declaration so the markup can be embedded in HTML.
func inlineSVG(svg string) string {
	if i := strings.Index(svg, "<svg"); i > 0 {
		return svg[i:]
	}
	return svg
}

// validateProfileName checks that a profile name is a plain identifier.
func validateProfileName(name string) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("name cannot contain path separators")
	}
	if name == "." || name == ".." || strings.HasPrefix(name, "..") {
		return fmt.Errorf("invalid name")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
