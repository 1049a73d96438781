package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTestCatalog(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCategory(t *testing.T) {
	for _, c := range AllCategories() {
		got, err := ParseCategory(c.String())
		if err != nil {
			t.Fatalf("ParseCategory(%s) error: %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCategory(%s) = %v, want %v", c, got, c)
		}
	}
	if c, err := ParseCategory(" Music "); err != nil || c != Music {
		t.Errorf("ParseCategory(' Music ') = %v, %v", c, err)
	}

	_, err := ParseCategory("sculpture")
	var uce *UnknownCategoryError
	if !errors.As(err, &uce) {
		t.Fatalf("ParseCategory(sculpture) error = %v, want UnknownCategoryError", err)
	}
	if uce.Name != "sculpture" {
		t.Errorf("error name = %s, want sculpture", uce.Name)
	}
}

func TestCategoryStyle(t *testing.T) {
	if s := Bhaktas.Style(); s.Icon != "heart" || s.Name != "Bhaktas" {
		t.Errorf("Bhaktas style = %+v", s)
	}
	for _, c := range AllCategories() {
		if c.Style().Color == "" {
			t.Errorf("%s has no color", c)
		}
	}
	if Category(42).Valid() {
		t.Error("Category(42) should be invalid")
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1017-1137 CE", 1017, true},
		{"788 CE", 788, true},
		{"250 BCE", -250, true},
		{"500 BC", -500, true},
		{"1620", 1620, true},
		{"-300", -300, true},
		{"c. 800 CE", 0, false},
		{"", 0, false},
		{"Unknown", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseYear(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseYear(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if got := c.Categories(); !reflect.DeepEqual(got, AllCategories()) {
		t.Errorf("categories = %v, want all", got)
	}
	if c.Count(Architecture) != 11 {
		t.Errorf("architecture events = %d, want 11", c.Count(Architecture))
	}
	if c.Count(Music) != 10 {
		t.Errorf("music events = %d, want 10", c.Count(Music))
	}
	if c.Len() != 47 {
		t.Errorf("total events = %d, want 47", c.Len())
	}

	arch := c.Events(Architecture)
	if arch[0].Title != "Great Stupa, Sanchi" || arch[0].Year != -250 || arch[0].Date != "3rd century BCE" {
		t.Errorf("first temple = %+v", arch[0])
	}
	if arch[2].Date != "700" || arch[2].Description != "Built under Narasimhavarman II" {
		t.Errorf("temple without period = %+v", arch[2])
	}
	if arch[5].Description != "Built" || arch[5].Label != "Temple" {
		t.Errorf("temple without details = %+v", arch[5])
	}

	for _, ev := range c.Events(Music) {
		if ev.Title == "Hindustani-Carnatic Split" {
			if ev.Year != 1300 || ev.Label != "Music History" {
				t.Errorf("split event = %+v", ev)
			}
		}
		if ev.Category != Music {
			t.Errorf("%s category = %v, want music", ev.Title, ev.Category)
		}
	}
}

func TestHeritageTransforms(t *testing.T) {
	path := writeTestCatalog(t, "src.json", `{
  "categories": {
    "philosophy": { "thinkers": [
      { "name": "Ramanuja", "period": "1017-1137 CE", "school": "Vishishtadvaita" },
      { "name": "Anon", "period": "200 BCE", "details": "Sutras" }
    ]},
    "bhaktas": [ { "name": "Mirabai", "period": "1498-1547 CE", "deity": "Krishna" } ],
    "music_dance": {
      "theorists": [ { "name": "Matanga", "period": "800 CE" } ]
    },
    "literature": {
      "ramayana": [ { "name": "Kamban", "period": "1180 CE", "language": "Tamil" } ]
    }
  }
}`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	ph := c.Events(Philosophy)
	if ph[0].Year != 1017 || ph[0].Label != "Vishishtadvaita" || ph[0].Location != "India" {
		t.Errorf("thinker = %+v", ph[0])
	}
	if ph[1].Year != -200 || ph[1].Description != "Sutras" || ph[1].Label != "Philosophy" {
		t.Errorf("thinker without school = %+v", ph[1])
	}

	bh := c.Events(Bhaktas)[0]
	if bh.Description != "Krishna" || bh.Label != "Bhakti" {
		t.Errorf("bhakta = %+v", bh)
	}

	th := c.Events(Music)[0]
	if th.Description != "Music Theorist" || th.Label != "Theory" {
		t.Errorf("theorist = %+v", th)
	}

	ra := c.Events(Literature)[0]
	if ra.Location != "Tamil Speaking Region" || ra.Description != "Ramayana Author" {
		t.Errorf("ramayana author = %+v", ra)
	}

	if c.Count(Architecture) != 0 {
		t.Errorf("architecture = %d, want 0", c.Count(Architecture))
	}
}

func TestLoadUnparseableYear(t *testing.T) {
	path := writeTestCatalog(t, "bad.json", `{
  "categories": {
    "bhaktas": [
      { "name": "Andal", "period": "750 CE" },
      { "name": "Nobody", "period": "sometime" }
    ]
  }
}`)
	_, err := Load(path)
	var uye *UnparseableYearError
	if !errors.As(err, &uye) {
		t.Fatalf("Load() error = %v, want UnparseableYearError", err)
	}
	if uye.Category != Bhaktas || uye.Index != 1 || uye.Title != "Nobody" || uye.Date != "sometime" {
		t.Errorf("error = %+v", uye)
	}
}

func TestLoadFlatYAML(t *testing.T) {
	path := writeTestCatalog(t, "events.yaml", `
events:
  - category: music
    title: Tyagaraja
    date: "1767-1847 CE"
  - category: architecture
    title: Konark
    year: 1250
  - category: music
    title: Dikshitar
    date: "1775 CE"
    location: Tiruvarur
    label: Carnatic
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	music := c.Events(Music)
	if len(music) != 2 {
		t.Fatalf("music events = %d, want 2", len(music))
	}
	if music[0].Year != 1767 || music[0].Location != "India" || music[0].Label != "Music" {
		t.Errorf("first music event = %+v", music[0])
	}
	if music[1].Location != "Tiruvarur" || music[1].Label != "Carnatic" {
		t.Errorf("second music event = %+v", music[1])
	}
	arch := c.Events(Architecture)
	if arch[0].Date != "1250" || arch[0].Year != 1250 {
		t.Errorf("architecture event = %+v", arch[0])
	}
}

func TestLoadFlatUnknownCategory(t *testing.T) {
	path := writeTestCatalog(t, "events.json", `{"events": [{"category": "sculpture", "title": "x", "year": 1}]}`)
	_, err := Load(path)
	var uce *UnknownCategoryError
	if !errors.As(err, &uce) {
		t.Errorf("Load() error = %v, want UnknownCategoryError", err)
	}
}

func TestLoadFlatMissingYear(t *testing.T) {
	path := writeTestCatalog(t, "events.yml", `
events:
  - category: literature
    title: Someone
    date: "unknown"
`)
	_, err := Load(path)
	var uye *UnparseableYearError
	if !errors.As(err, &uye) {
		t.Errorf("Load() error = %v, want UnparseableYearError", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEventsIsCopy(t *testing.T) {
	c := New(map[Category][]Event{Music: {{Title: "a", Year: 1}}})
	evs := c.Events(Music)
	evs[0].Title = "changed"
	if c.Events(Music)[0].Title != "a" {
		t.Error("Events() must return a copy")
	}
}

func TestSelectionFilter(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	s, err := NewSelection("music")
	if err != nil {
		t.Fatal(err)
	}
	evs := s.Filter(c)
	if len(evs) != c.Count(Music) {
		t.Errorf("filtered = %d, want %d", len(evs), c.Count(Music))
	}
	for _, ev := range evs {
		if ev.Category != Music {
			t.Errorf("%s has category %s, want music", ev.Title, ev.Category)
		}
	}

	// category display order, regardless of selection order
	s, _ = NewSelection("literature", "architecture")
	evs = s.Filter(c)
	if evs[0].Category != Architecture || evs[len(evs)-1].Category != Literature {
		t.Errorf("filter order: first %s last %s", evs[0].Category, evs[len(evs)-1].Category)
	}

	if evs := (Selection{}).Filter(c); len(evs) != 0 {
		t.Errorf("empty selection yields %d events", len(evs))
	}
}

func TestSelectionToggle(t *testing.T) {
	s := DefaultSelection()
	if !s.Has(Architecture) || len(s.Keys()) != 1 {
		t.Fatalf("default selection = %v", s.Keys())
	}
	s2 := s.Toggle(Music)
	if !reflect.DeepEqual(s2.Keys(), []string{"architecture", "music"}) {
		t.Errorf("after toggle on = %v", s2.Keys())
	}
	s3 := s2.Toggle(Architecture)
	if !reflect.DeepEqual(s3.Keys(), []string{"music"}) {
		t.Errorf("after toggle off = %v", s3.Keys())
	}
	if !s.Has(Architecture) || s.Has(Music) {
		t.Error("Toggle must not mutate the receiver")
	}
	if _, err := NewSelection("architecture", "dance"); err == nil {
		t.Error("expected error for unknown category")
	}
}
