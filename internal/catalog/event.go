package catalog

// Event is a single entry on a timeline. Events are never mutated after load.
type Event struct {
	Date        string   `json:"date" yaml:"date"`
	Year        int      `json:"year" yaml:"year"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Location    string   `json:"location" yaml:"location"`
	Label       string   `json:"label" yaml:"label"`
	Category    Category `json:"category" yaml:"category"`
}

// Catalog holds the loaded events grouped by category.
type Catalog struct {
	events map[Category][]Event
}

// New builds a catalog from per-category event lists. The slices are copied.
func New(events map[Category][]Event) *Catalog {
	c := &Catalog{events: make(map[Category][]Event, len(events))}
	for cat, list := range events {
		cp := make([]Event, len(list))
		copy(cp, list)
		for i := range cp {
			cp[i].Category = cat
		}
		c.events[cat] = cp
	}
	return c
}

// Categories returns the categories that have at least one event, in display order.
func (c *Catalog) Categories() []Category {
	var out []Category
	for _, cat := range AllCategories() {
		if len(c.events[cat]) > 0 {
			out = append(out, cat)
		}
	}
	return out
}

// Events returns a copy of the events for a category.
func (c *Catalog) Events(cat Category) []Event {
	list := c.events[cat]
	out := make([]Event, len(list))
	copy(out, list)
	return out
}

// Count returns the number of events in a category.
func (c *Catalog) Count(cat Category) int {
	return len(c.events[cat])
}

// Len returns the total number of events.
func (c *Catalog) Len() int {
	n := 0
	for _, list := range c.events {
		n += len(list)
	}
	return n
}
