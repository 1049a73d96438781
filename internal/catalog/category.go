package catalog

import (
	"fmt"
	"strings"
)

// Category identifies one of the fixed thematic timelines.
type Category int

const (
	Architecture Category = iota
	Philosophy
	Bhaktas
	Music
	Literature
)

// Style is the display lookup for a category.
type Style struct {
	Name    string // display name
	Icon    string
	Classes string // utility classes used by the web UI
	Color   string // default hex color
}

var styles = [...]Style{
	Architecture: {Name: "Architecture", Icon: "building", Classes: "bg-blue-100 text-blue-800", Color: "#3b82f6"},
	Philosophy:   {Name: "Philosophy", Icon: "book", Classes: "bg-purple-100 text-purple-800", Color: "#a855f7"},
	Bhaktas:      {Name: "Bhaktas", Icon: "heart", Classes: "bg-pink-100 text-pink-800", Color: "#ec4899"},
	Music:        {Name: "Music", Icon: "music", Classes: "bg-green-100 text-green-800", Color: "#22c55e"},
	Literature:   {Name: "Literature", Icon: "book", Classes: "bg-orange-100 text-orange-800", Color: "#f97316"},
}

var keys = [...]string{
	Architecture: "architecture",
	Philosophy:   "philosophy",
	Bhaktas:      "bhaktas",
	Music:        "music",
	Literature:   "literature",
}

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{Architecture, Philosophy, Bhaktas, Music, Literature}
}

// UnknownCategoryError is returned when a name does not map to a category.
type UnknownCategoryError struct {
	Name string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category '%s'", e.Name)
}

// ParseCategory maps a category key (case-insensitive) to its Category.
func ParseCategory(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, k := range keys {
		if k == n {
			return Category(i), nil
		}
	}
	return 0, &UnknownCategoryError{Name: name}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c >= Architecture && c <= Literature
}

// String returns the category key, e.g. "architecture".
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return keys[c]
}

// Style returns the display style for c.
func (c Category) Style() Style {
	if !c.Valid() {
		return Style{Name: c.String(), Icon: "book", Color: "#64748b"}
	}
	return styles[c]
}

// MarshalText implements encoding.TextMarshaler so categories serialize as keys.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(keys[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
