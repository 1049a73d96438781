package catalog

// Selection is the set of categories currently shown.
type Selection map[Category]bool

// DefaultSelection returns the selection shown on first load.
func DefaultSelection() Selection {
	return Selection{Architecture: true}
}

// NewSelection builds a selection from category keys.
func NewSelection(names ...string) (Selection, error) {
	s := make(Selection, len(names))
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		s[c] = true
	}
	return s, nil
}

// Has reports whether c is selected.
func (s Selection) Has(c Category) bool {
	return s[c]
}

// Toggle returns a new selection with c flipped.
func (s Selection) Toggle(c Category) Selection {
	out := make(Selection, len(s)+1)
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	if out[c] {
		delete(out, c)
	} else {
		out[c] = true
	}
	return out
}

// Keys returns the selected category keys in display order.
func (s Selection) Keys() []string {
	var out []string
	for _, c := range AllCategories() {
		if s[c] {
			out = append(out, c.String())
		}
	}
	return out
}

// Filter returns the selected events in category display order, preserving
// each category's event order.
func (s Selection) Filter(c *Catalog) []Event {
	var out []Event
	for _, cat := range AllCategories() {
		if !s[cat] {
			continue
		}
		out = append(out, c.Events(cat)...)
	}
	return out
}
