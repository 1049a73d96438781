package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wcatz/heritage-timeline/internal/catalog"
	"github.com/wcatz/heritage-timeline/internal/layout"
)

// DefaultProfileName is used when the config defines no profiles.
const DefaultProfileName = "timeline"

// GeneratorSettings holds global generator config.
type GeneratorSettings struct {
	Title     string   `yaml:"title"`
	Subtitle  string   `yaml:"subtitle"`
	OutputDir string   `yaml:"output_dir"`
	Formats   []string `yaml:"formats"`
}

// CatalogSettings points at the event catalog. An empty path means the
// embedded dataset.
type CatalogSettings struct {
	Path string `yaml:"path"`
}

// LayoutSettings overrides the layout engine constants.
type LayoutSettings struct {
	MinDistance  float64       `yaml:"min_distance"`
	MaxLevels    int           `yaml:"max_levels"`
	BaseOffset   int           `yaml:"base_offset"`
	PaddingRatio float64       `yaml:"padding_ratio"`
	ClampMin     float64       `yaml:"clamp_min"`
	ClampMax     float64       `yaml:"clamp_max"`
	DefaultRange *layout.Range `yaml:"default_range"`
}

// SVGSettings controls the rendered SVG canvas.
type SVGSettings struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	FontFamily string `yaml:"font_family"`
	Background string `yaml:"background"`
	AxisColor  string `yaml:"axis_color"`
	TextColor  string `yaml:"text_color"`
	CardWidth  int    `yaml:"card_width"`
}

// ProfileDef is a named category selection rendered as its own timeline.
type ProfileDef struct {
	Title      string   `yaml:"title"`
	Categories []string `yaml:"categories"`
	Filename   string   `yaml:"filename"`
}

// ServerSettings holds web UI settings.
type ServerSettings struct {
	Port int `yaml:"port"`
}

// LoggingSettings holds logger settings.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config holds the entire YAML configuration.
type Config struct {
	Generator        GeneratorSettings            `yaml:"generator"`
	Catalog          CatalogSettings              `yaml:"catalog"`
	Layout           LayoutSettings               `yaml:"layout"`
	SVG              SVGSettings                  `yaml:"svg"`
	Palettes         map[string]map[string]string `yaml:"palettes"`
	ActivePalette    string                       `yaml:"active_palette"`
	DefaultSelection []string                     `yaml:"default_selection"`
	Profiles         map[string]ProfileDef        `yaml:"profiles"`
	Server           ServerSettings               `yaml:"server"`
	Logging          LoggingSettings              `yaml:"logging"`

	palette      map[string]string
	cliArgs      map[string]string
	profileOrder []string
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	c.cliArgs = map[string]string{}
	c.palette = c.resolvePalette()
	return c
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	if c.Generator.Title == "" {
		c.Generator.Title = "Timeline of Indian Heritage"
	}
	if c.Generator.Subtitle == "" {
		c.Generator.Subtitle = "Architecture, philosophy, devotion, music and literature through the centuries"
	}
	if len(c.Generator.Formats) == 0 {
		c.Generator.Formats = []string{"json", "svg"}
	}
	if c.SVG.Width <= 0 {
		c.SVG.Width = 1400
	}
	if c.SVG.Height <= 0 {
		c.SVG.Height = 900
	}
	if c.SVG.FontFamily == "" {
		c.SVG.FontFamily = "Helvetica, Arial, sans-serif"
	}
	if c.SVG.Background == "" {
		c.SVG.Background = "#ffffff"
	}
	if c.SVG.AxisColor == "" {
		c.SVG.AxisColor = "#1e293b"
	}
	if c.SVG.TextColor == "" {
		c.SVG.TextColor = "#0f172a"
	}
	if c.SVG.CardWidth <= 0 {
		c.SVG.CardWidth = 180
	}
	if len(c.DefaultSelection) == 0 {
		c.DefaultSelection = catalog.DefaultSelection().Keys()
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate checks that every category name, format and logging option is known.
func (c *Config) Validate() error {
	if _, err := catalog.NewSelection(c.DefaultSelection...); err != nil {
		return fmt.Errorf("default_selection: %w", err)
	}
	for name, p := range c.Profiles {
		if len(p.Categories) == 0 {
			return fmt.Errorf("profile '%s' has no categories", name)
		}
		if _, err := catalog.NewSelection(p.Categories...); err != nil {
			return fmt.Errorf("profile '%s': %w", name, err)
		}
	}
	for pname, colors := range c.Palettes {
		for key := range colors {
			if _, err := catalog.ParseCategory(key); err != nil {
				return fmt.Errorf("palette '%s': %w", pname, err)
			}
		}
	}
	if c.ActivePalette != "" {
		if _, ok := c.Palettes[c.ActivePalette]; !ok {
			return fmt.Errorf("active_palette '%s' not defined in config", c.ActivePalette)
		}
	}
	for _, f := range c.Generator.Formats {
		switch f {
		case "json", "svg":
		default:
			return fmt.Errorf("unknown output format '%s'", f)
		}
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown logging format '%s'", c.Logging.Format)
	}
	if err := c.LayoutOptions().Validate(); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	if c.Layout.DefaultRange != nil && c.Layout.DefaultRange.Min > c.Layout.DefaultRange.Max {
		return fmt.Errorf("layout.default_range: min %d > max %d", c.Layout.DefaultRange.Min, c.Layout.DefaultRange.Max)
	}
	return nil
}

// Load reads and parses a YAML config file.
func Load(path string, cliArgs map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	c, err := loadFromData(data, cliArgs)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadOrDefault loads path, or returns the default config when path is empty.
func LoadOrDefault(path string, cliArgs map[string]string) (*Config, error) {
	if path == "" {
		c := DefaultConfig()
		if cliArgs != nil {
			c.cliArgs = cliArgs
		}
		return c, nil
	}
	return Load(path, cliArgs)
}

// LoadFromBytes parses a YAML config from raw bytes (for validation).
func LoadFromBytes(data []byte) (*Config, error) {
	return loadFromData(data, nil)
}

func loadFromData(data []byte, cliArgs map[string]string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c.profileOrder = parseProfileKeyOrder(data)

	c.cliArgs = cliArgs
	if c.cliArgs == nil {
		c.cliArgs = make(map[string]string)
	}
	c.palette = c.resolvePalette()

	return &c, nil
}

func (c *Config) resolvePalette() map[string]string {
	if c.Palettes == nil {
		return map[string]string{}
	}
	p, ok := c.Palettes[c.ActivePalette]
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(p))
	for k, v := range p {
		out[strings.ToLower(k)] = v
	}
	return out
}

// CatalogPath returns the catalog path, honouring a CLI override.
func (c *Config) CatalogPath() string {
	if p, ok := c.cliArgs["catalog_path"]; ok && p != "" {
		return p
	}
	return c.Catalog.Path
}

// CatalogFile resolves the catalog path. A path from the config file is
// relative to the config's directory; an override is used as given.
func (c *Config) CatalogFile(cfgPath string) string {
	p := c.CatalogPath()
	if p != c.Catalog.Path {
		return p
	}
	if p == "" || filepath.IsAbs(p) || cfgPath == "" {
		return p
	}
	return filepath.Join(filepath.Dir(cfgPath), p)
}

// LayoutOptions converts the layout settings for the engine.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		MinDistance:  c.Layout.MinDistance,
		MaxLevels:    c.Layout.MaxLevels,
		BaseOffset:   c.Layout.BaseOffset,
		PaddingRatio: c.Layout.PaddingRatio,
		ClampMin:     c.Layout.ClampMin,
		ClampMax:     c.Layout.ClampMax,
		DefaultRange: c.Layout.DefaultRange,
	}
}

// ResolveColor returns the hex color for a category from the active palette,
// falling back to the category's built-in color.
func (c *Config) ResolveColor(cat catalog.Category) string {
	if hex, ok := c.palette[cat.String()]; ok {
		return hex
	}
	return cat.Style().Color
}

// GetDefaultSelection returns the configured initial selection.
func (c *Config) GetDefaultSelection() catalog.Selection {
	s, err := catalog.NewSelection(c.DefaultSelection...)
	if err != nil {
		return catalog.DefaultSelection()
	}
	return s
}

// GetProfiles returns profiles, optionally only the named one. Without any
// configured profiles a single profile built from default_selection is used.
func (c *Config) GetProfiles(name string) (map[string]ProfileDef, error) {
	all := c.Profiles
	if len(all) == 0 {
		all = map[string]ProfileDef{
			DefaultProfileName: {Title: c.Generator.Title, Categories: c.DefaultSelection},
		}
	}
	if name == "" {
		return all, nil
	}
	p, ok := all[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not defined in config", name)
	}
	return map[string]ProfileDef{name: p}, nil
}

// GetProfileOrder returns profile names in YAML order, or just the named one.
func (c *Config) GetProfileOrder(name string) ([]string, error) {
	if name != "" {
		if _, err := c.GetProfiles(name); err != nil {
			return nil, err
		}
		return []string{name}, nil
	}
	if len(c.Profiles) == 0 {
		return []string{DefaultProfileName}, nil
	}
	if len(c.profileOrder) > 0 {
		return c.profileOrder, nil
	}
	keys := make([]string, 0, len(c.Profiles))
	for k := range c.Profiles {
		keys = append(keys, k)
	}
	return keys, nil
}

// GetSelection returns the category selection for a profile.
func (c *Config) GetSelection(profile string) (catalog.Selection, error) {
	if profile == "" {
		return c.GetDefaultSelection(), nil
	}
	profiles, err := c.GetProfiles(profile)
	if err != nil {
		return nil, err
	}
	return catalog.NewSelection(profiles[profile].Categories...)
}

// parseProfileKeyOrder extracts profile key ordering from raw YAML.
func parseProfileKeyOrder(data []byte) []string {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil
	}
	root := node.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	profNode := findMappingKey(root, "profiles")
	if profNode == nil || profNode.Kind != yaml.MappingNode {
		return nil
	}
	var order []string
	for j := 0; j < len(profNode.Content)-1; j += 2 {
		order = append(order, profNode.Content[j].Value)
	}
	return order
}
