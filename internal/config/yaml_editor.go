package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/wcatz/heritage-timeline/internal/catalog"
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// YAMLEditor provides structured editing of the YAML config file using
// the yaml.v3 Node API, preserving comments and formatting.
type YAMLEditor struct {
	path string
}

// NewYAMLEditor creates a new editor for the given config file path.
func NewYAMLEditor(path string) *YAMLEditor {
	return &YAMLEditor{path: path}
}

// SaveProfile adds a profile or replaces an existing one with the same name.
func (e *YAMLEditor) SaveProfile(name string, p ProfileDef) error {
	if name == "" {
		return fmt.Errorf("profile name is empty")
	}
	if len(p.Categories) == 0 {
		return fmt.Errorf("profile '%s' has no categories", name)
	}
	sel, err := catalog.NewSelection(p.Categories...)
	if err != nil {
		return fmt.Errorf("profile '%s': %w", name, err)
	}

	doc, root, err := e.load()
	if err != nil {
		return err
	}

	profNode := findMappingKey(root, "profiles")
	if profNode == nil {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "profiles"},
			&yaml.Node{Kind: yaml.MappingNode},
		)
		profNode = root.Content[len(root.Content)-1]
	} else if profNode.Kind != yaml.MappingNode {
		// "profiles:" with no value
		*profNode = yaml.Node{Kind: yaml.MappingNode}
	}

	valueNode := &yaml.Node{Kind: yaml.MappingNode}
	if p.Title != "" {
		valueNode.Content = append(valueNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "title"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: p.Title},
		)
	}
	cats := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, k := range sel.Keys() {
		cats.Content = append(cats.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k})
	}
	valueNode.Content = append(valueNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "categories"},
		cats,
	)
	if p.Filename != "" {
		valueNode.Content = append(valueNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "filename"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: p.Filename},
		)
	}

	if idx := findMappingKeyIndex(profNode, name); idx >= 0 {
		profNode.Content[idx+1] = valueNode
	} else {
		profNode.Content = append(profNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			valueNode,
		)
	}

	return e.save(doc)
}

// DeleteProfile removes a profile entry from the config file.
func (e *YAMLEditor) DeleteProfile(name string) error {
	doc, root, err := e.load()
	if err != nil {
		return err
	}

	profNode := findMappingKey(root, "profiles")
	if profNode == nil {
		return fmt.Errorf("no profiles section in config")
	}

	idx := findMappingKeyIndex(profNode, name)
	if idx < 0 {
		return fmt.Errorf("profile '%s' not found", name)
	}

	// Remove the key-value pair (2 consecutive entries in Content)
	profNode.Content = append(profNode.Content[:idx], profNode.Content[idx+2:]...)

	return e.save(doc)
}

// SetPaletteColor sets or updates a category color in a named palette,
// creating the palette if needed.
func (e *YAMLEditor) SetPaletteColor(palette, category, hex string) error {
	if palette == "" {
		return fmt.Errorf("palette name is empty")
	}
	cat, err := catalog.ParseCategory(category)
	if err != nil {
		return err
	}
	if !hexColorRe.MatchString(hex) {
		return fmt.Errorf("invalid color '%s': want #rgb or #rrggbb", hex)
	}

	doc, root, err := e.load()
	if err != nil {
		return err
	}

	palettesNode := findMappingKey(root, "palettes")
	if palettesNode == nil {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "palettes"},
			&yaml.Node{Kind: yaml.MappingNode},
		)
		palettesNode = root.Content[len(root.Content)-1]
	} else if palettesNode.Kind != yaml.MappingNode {
		*palettesNode = yaml.Node{Kind: yaml.MappingNode}
	}

	paletteNode := findMappingKey(palettesNode, palette)
	if paletteNode == nil {
		palettesNode.Content = append(palettesNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: palette},
			&yaml.Node{Kind: yaml.MappingNode},
		)
		paletteNode = palettesNode.Content[len(palettesNode.Content)-1]
	} else if paletteNode.Kind != yaml.MappingNode {
		// "dark:" with no value
		*paletteNode = yaml.Node{Kind: yaml.MappingNode}
	}

	colorVal := findMappingKey(paletteNode, cat.String())
	if colorVal != nil {
		colorVal.Value = hex
		colorVal.Style = yaml.DoubleQuotedStyle
	} else {
		paletteNode.Content = append(paletteNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: cat.String()},
			&yaml.Node{Kind: yaml.ScalarNode, Value: hex, Style: yaml.DoubleQuotedStyle},
		)
	}

	return e.save(doc)
}

// SetActivePalette updates the active_palette key.
func (e *YAMLEditor) SetActivePalette(name string) error {
	doc, root, err := e.load()
	if err != nil {
		return err
	}

	palettesNode := findMappingKey(root, "palettes")
	if palettesNode == nil || findMappingKey(palettesNode, name) == nil {
		return fmt.Errorf("palette '%s' not found", name)
	}

	apNode := findMappingKey(root, "active_palette")
	if apNode != nil {
		apNode.Value = name
	} else {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "active_palette"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
		)
	}

	return e.save(doc)
}

func (e *YAMLEditor) load() (*yaml.Node, *yaml.Node, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	// an empty file is treated as an empty mapping
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil, fmt.Errorf("invalid YAML document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("root is not a mapping")
	}

	return &doc, root, nil
}

func (e *YAMLEditor) save(doc *yaml.Node) error {
	out, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("opening config for write: %w", err)
	}
	defer out.Close()

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

// findMappingKey finds the value node for a key in a MappingNode.
func findMappingKey(mapping *yaml.Node, key string) *yaml.Node {
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// findMappingKeyIndex returns the index of a key in a MappingNode's Content, or -1.
func findMappingKeyIndex(mapping *yaml.Node, key string) int {
	if mapping.Kind != yaml.MappingNode {
		return -1
	}
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}
