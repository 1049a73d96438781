package generator

import (
	"fmt"

	"github.com/wcatz/heritage-timeline/internal/catalog"
	"github.com/wcatz/heritage-timeline/internal/config"
	"github.com/wcatz/heritage-timeline/internal/layout"
)

// CategoryInfo describes one category toggle with its resolved color.
type CategoryInfo struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Classes  string `json:"classes"`
	Color    string `json:"color"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// Document is one rendered timeline: a titled category selection with its layout.
type Document struct {
	Name       string         `json:"name"`
	Title      string         `json:"title"`
	Subtitle   string         `json:"subtitle,omitempty"`
	Selected   []string       `json:"selected"`
	Categories []CategoryInfo `json:"categories"`
	Layout     layout.Result  `json:"layout"`
}

// Color returns the resolved color for a category key.
func (d *Document) Color(key string) string {
	for _, c := range d.Categories {
		if c.Key == key {
			return c.Color
		}
	}
	return "#64748b"
}

// EventCount returns the number of placed events.
func (d *Document) EventCount() int {
	return len(d.Layout.Placements)
}

// Builder assembles timeline documents from config, catalog and layout engine.
type Builder struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Engine  *layout.Engine
}

// NewBuilder creates a new document builder.
func NewBuilder(cfg *config.Config, cat *catalog.Catalog, engine *layout.Engine) *Builder {
	return &Builder{Config: cfg, Catalog: cat, Engine: engine}
}

// Build creates the document for a named profile.
func (b *Builder) Build(name string, p config.ProfileDef) (*Document, error) {
	sel, err := catalog.NewSelection(p.Categories...)
	if err != nil {
		return nil, fmt.Errorf("profile '%s': %w", name, err)
	}
	title := p.Title
	if title == "" {
		title = b.Config.Generator.Title
	}
	doc := b.BuildSelection(sel, layout.State{})
	doc.Name = name
	doc.Title = title
	return doc, nil
}

// BuildSelection lays out the events of the selected categories.
func (b *Builder) BuildSelection(sel catalog.Selection, st layout.State) *Document {
	events := sel.Filter(b.Catalog)
	return &Document{
		Name:       config.DefaultProfileName,
		Title:      b.Config.Generator.Title,
		Subtitle:   b.Config.Generator.Subtitle,
		Selected:   sel.Keys(),
		Categories: b.CategoryInfos(sel),
		Layout:     b.Engine.Compute(events, st),
	}
}

// CategoryInfos lists every category in display order with its selection state.
func (b *Builder) CategoryInfos(sel catalog.Selection) []CategoryInfo {
	var out []CategoryInfo
	for _, c := range catalog.AllCategories() {
		style := c.Style()
		out = append(out, CategoryInfo{
			Key:      c.String(),
			Name:     style.Name,
			Icon:     style.Icon,
			Classes:  style.Classes,
			Color:    b.Config.ResolveColor(c),
			Count:    b.Catalog.Count(c),
			Selected: sel.Has(c),
		})
	}
	return out
}
