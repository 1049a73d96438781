package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/heritage.json
var defaultData []byte

var leadingIntRe = regexp.MustCompile(`^[+-]?\d+`)

// UnparseableYearError reports a record whose year cannot be derived from its
// date label.
type UnparseableYearError struct {
	Category Category
	Index    int
	Title    string
	Date     string
}

func (e *UnparseableYearError) Error() string {
	return fmt.Sprintf("%s[%d] '%s': cannot derive year from date '%s'",
		e.Category, e.Index, e.Title, e.Date)
}

// ParseYear derives a signed year from a period label such as "1017-1137 CE"
// or "250 BCE". The integer prefix of the first space-separated token is used;
// a BCE/BC marker anywhere in the label makes a positive year negative.
func ParseYear(period string) (int, bool) {
	first := strings.TrimSpace(strings.Split(strings.TrimSpace(period), " ")[0])
	m := leadingIntRe.FindString(first)
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	if year > 0 && isBCE(period) {
		year = -year
	}
	return year, true
}

func isBCE(period string) bool {
	for _, f := range strings.Fields(strings.ToUpper(period)) {
		f = strings.Trim(f, ".,;()")
		if f == "BCE" || f == "BC" || f == "B.C.E" || f == "B.C" {
			return true
		}
	}
	return false
}

// Default returns the embedded heritage catalog.
func Default() (*Catalog, error) {
	return LoadBytes(defaultData, "heritage.json")
}

// Open loads the catalog at path, or the embedded catalog when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Load reads a catalog file. JSON files may use either the heritage source
// layout (top-level "categories") or the flat "events" list; YAML files use
// the flat layout.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return LoadBytes(data, filepath.Base(path))
}

// LoadBytes parses catalog data; name is only used to pick the format.
func LoadBytes(data []byte, name string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var f flatFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", name, err)
		}
		return f.build()
	default:
		var probe struct {
			Categories json.RawMessage `json:"categories"`
		}
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", name, err)
		}
		if len(probe.Categories) > 0 {
			var src heritageSource
			if err := json.Unmarshal(data, &src); err != nil {
				return nil, fmt.Errorf("parsing catalog %s: %w", name, err)
			}
			return src.build()
		}
		var f flatFile
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing catalog %s: %w", name, err)
		}
		return f.build()
	}
}

// flat layout

type flatEvent struct {
	Category    string `json:"category" yaml:"category"`
	Date        string `json:"date" yaml:"date"`
	Year        *int   `json:"year" yaml:"year"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Location    string `json:"location" yaml:"location"`
	Label       string `json:"label" yaml:"label"`
}

type flatFile struct {
	Events []flatEvent `json:"events" yaml:"events"`
}

func (f flatFile) build() (*Catalog, error) {
	grouped := make(map[Category][]Event)
	for i, fe := range f.Events {
		cat, err := ParseCategory(fe.Category)
		if err != nil {
			return nil, fmt.Errorf("event %d '%s': %w", i, fe.Title, err)
		}
		ev := Event{
			Date:        fe.Date,
			Title:       fe.Title,
			Description: fe.Description,
			Location:    orDefault(fe.Location, "India"),
			Label:       orDefault(fe.Label, cat.Style().Name),
			Category:    cat,
		}
		if fe.Year != nil {
			ev.Year = *fe.Year
			if ev.Date == "" {
				ev.Date = strconv.Itoa(ev.Year)
			}
		} else {
			y, ok := ParseYear(fe.Date)
			if !ok {
				return nil, &UnparseableYearError{Category: cat, Index: len(grouped[cat]), Title: fe.Title, Date: fe.Date}
			}
			ev.Year = y
		}
		grouped[cat] = append(grouped[cat], ev)
	}
	return New(grouped), nil
}

// heritage source layout

type temple struct {
	Name    string `json:"name"`
	Year    *int   `json:"year"`
	Period  string `json:"period"`
	Details string `json:"details"`
	Event   string `json:"event"`
}

type thinker struct {
	Name     string `json:"name"`
	Period   string `json:"period"`
	School   string `json:"school"`
	Details  string `json:"details"`
	Location string `json:"location"`
}

type bhakta struct {
	Name      string `json:"name"`
	Period    string `json:"period"`
	Tradition string `json:"tradition"`
	Deity     string `json:"deity"`
	Details   string `json:"details"`
	Location  string `json:"location"`
}

type artist struct {
	Name     string   `json:"name"`
	Period   string   `json:"period"`
	Title    string   `json:"title"`
	Works    []string `json:"works"`
	Details  string   `json:"details"`
	Language string   `json:"language"`
}

type heritageSource struct {
	Categories struct {
		Architecture struct {
			Temples []temple `json:"temples"`
		} `json:"architecture"`
		Philosophy struct {
			Thinkers []thinker `json:"thinkers"`
		} `json:"philosophy"`
		Bhaktas    []bhakta `json:"bhaktas"`
		MusicDance struct {
			Carnatic   []artist `json:"carnatic"`
			Theorists  []artist `json:"theorists"`
			Hindustani struct {
				Split *struct {
					Year    int    `json:"year"`
					Details string `json:"details"`
				} `json:"split"`
			} `json:"hindustani"`
			Dance []artist `json:"dance"`
		} `json:"music_dance"`
		Literature struct {
			Mahabharata []artist `json:"mahabharata"`
			Ramayana    []artist `json:"ramayana"`
			Other       []artist `json:"other"`
		} `json:"literature"`
	} `json:"categories"`
}

// sourceBuilder accumulates events per category and stops at the first
// unparseable record.
type sourceBuilder struct {
	events map[Category][]Event
	err    error
}

func (b *sourceBuilder) add(cat Category, period string, ev Event) {
	if b.err != nil {
		return
	}
	y, ok := ParseYear(period)
	if !ok {
		b.err = &UnparseableYearError{Category: cat, Index: len(b.events[cat]), Title: ev.Title, Date: period}
		return
	}
	ev.Date = period
	ev.Year = y
	b.addYear(cat, ev)
}

func (b *sourceBuilder) addYear(cat Category, ev Event) {
	if b.err != nil {
		return
	}
	ev.Category = cat
	b.events[cat] = append(b.events[cat], ev)
}

func (src heritageSource) build() (*Catalog, error) {
	b := &sourceBuilder{events: make(map[Category][]Event)}
	c := src.Categories

	for _, t := range c.Architecture.Temples {
		ev := Event{
			Title:       t.Name,
			Description: firstNonEmpty(t.Details, t.Event, "Built"),
			Location:    "India",
			Label:       "Temple",
		}
		if t.Year == nil {
			b.add(Architecture, t.Period, ev)
			continue
		}
		ev.Year = *t.Year
		ev.Date = firstNonEmpty(t.Period, strconv.Itoa(*t.Year))
		b.addYear(Architecture, ev)
	}

	for _, t := range c.Philosophy.Thinkers {
		b.add(Philosophy, t.Period, Event{
			Title:       t.Name,
			Description: joinTrim(t.School, t.Details),
			Location:    orDefault(t.Location, "India"),
			Label:       orDefault(t.School, "Philosophy"),
		})
	}

	for _, bh := range c.Bhaktas {
		b.add(Bhaktas, bh.Period, Event{
			Title:       bh.Name,
			Description: joinTrim(bh.Tradition, bh.Deity, bh.Details),
			Location:    orDefault(bh.Location, "India"),
			Label:       orDefault(bh.Tradition, "Bhakti"),
		})
	}

	md := c.MusicDance
	for _, m := range md.Carnatic {
		b.add(Music, m.Period, Event{
			Title:       m.Name,
			Description: orDefault(m.Title, "Carnatic Musician"),
			Location:    "South India",
			Label:       "Carnatic",
		})
	}
	for _, m := range md.Theorists {
		b.add(Music, m.Period, Event{
			Title:       m.Name,
			Description: firstNonEmpty(strings.Join(m.Works, ", "), m.Details, "Music Theorist"),
			Location:    "India",
			Label:       "Theory",
		})
	}
	if s := md.Hindustani.Split; s != nil {
		b.addYear(Music, Event{
			Date:        strconv.Itoa(s.Year),
			Year:        s.Year,
			Title:       "Hindustani-Carnatic Split",
			Description: s.Details,
			Location:    "India",
			Label:       "Music History",
		})
	}
	for _, m := range md.Dance {
		b.add(Music, m.Period, Event{
			Title:       m.Name,
			Description: orDefault(m.Details, "Dance Form"),
			Location:    "India",
			Label:       "Dance",
		})
	}

	lit := c.Literature
	for _, a := range lit.Mahabharata {
		b.add(Literature, a.Period, Event{
			Title:       a.Name,
			Description: orDefault(strings.Join(a.Works, ", "), "Mahabharata Author"),
			Location:    "Andhra Pradesh",
			Label:       "Mahabharata",
		})
	}
	for _, a := range lit.Ramayana {
		loc := "India"
		if a.Language != "" {
			loc = a.Language + " Speaking Region"
		}
		b.add(Literature, a.Period, Event{
			Title:       a.Name,
			Description: orDefault(strings.Join(a.Works, ", "), "Ramayana Author"),
			Location:    loc,
			Label:       "Ramayana",
		})
	}
	for _, a := range lit.Other {
		b.add(Literature, a.Period, Event{
			Title:       a.Name,
			Description: orDefault(strings.Join(a.Works, ", "), "Literary Figure"),
			Location:    "India",
			Label:       "Literature",
		})
	}

	if b.err != nil {
		return nil, b.err
	}
	return New(b.events), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinTrim(parts ...string) string {
	return strings.TrimSpace(strings.Join(parts, " "))
}
