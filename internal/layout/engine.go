package layout

import (
	"errors"
	"fmt"

	"github.com/wcatz/heritage-timeline/internal/catalog"
)

const (
	DefaultBaseOffset = 96

	// connectorBase is the connector length for a lane-0 event.
	connectorBase = 120

	zIndexHovered = 50
	zIndexDefault = 10
)

// Side says which side of the axis an event card is drawn on.
type Side string

const (
	Above Side = "above"
	Below Side = "below"
)

// Options tunes the layout. The zero value of a field means its default.
type Options struct {
	MinDistance  float64 `json:"min_distance"`
	MaxLevels    int     `json:"max_levels"`
	BaseOffset   int     `json:"base_offset"`
	PaddingRatio float64 `json:"padding_ratio"`
	ClampMin     float64 `json:"clamp_min"`
	ClampMax     float64 `json:"clamp_max"`
	DefaultRange *Range  `json:"default_range,omitempty"`
}

// DefaultOptions returns the standard layout constants.
func DefaultOptions() Options {
	r := DefaultRange()
	return Options{
		MinDistance:  DefaultMinDistance,
		MaxLevels:    DefaultMaxLevels,
		BaseOffset:   DefaultBaseOffset,
		PaddingRatio: DefaultPaddingRatio,
		ClampMin:     DefaultClampMin,
		ClampMax:     DefaultClampMax,
		DefaultRange: &r,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinDistance <= 0 {
		o.MinDistance = d.MinDistance
	}
	if o.MaxLevels <= 0 {
		o.MaxLevels = d.MaxLevels
	}
	if o.BaseOffset <= 0 {
		o.BaseOffset = d.BaseOffset
	}
	if o.PaddingRatio <= 0 {
		o.PaddingRatio = d.PaddingRatio
	}
	if o.ClampMin <= 0 {
		o.ClampMin = d.ClampMin
	}
	if o.ClampMax <= 0 {
		o.ClampMax = d.ClampMax
	}
	if o.DefaultRange == nil {
		o.DefaultRange = d.DefaultRange
	}
	return o
}

// Validate checks the clamp bounds after defaults are applied. Each bound
// must lie in [0,100] and min must be below max.
func (o Options) Validate() error {
	if o.ClampMin < 0 || o.ClampMin > 100 || o.ClampMax < 0 || o.ClampMax > 100 {
		return fmt.Errorf("clamp bounds must be within [0,100], got [%g,%g]", o.ClampMin, o.ClampMax)
	}
	eff := o.withDefaults()
	if eff.ClampMin >= eff.ClampMax {
		return fmt.Errorf("clamp_min %g must be below clamp_max %g", eff.ClampMin, eff.ClampMax)
	}
	return nil
}

// State is the per-pass UI state that affects layout output.
type State struct {
	Hovered string // placement key under the pointer, if any
}

// Placement is one event positioned on the axis.
type Placement struct {
	Key             string        `json:"key"`
	Event           catalog.Event `json:"event"`
	Position        float64       `json:"position"`
	Projected       float64       `json:"projected"`
	Lane            int           `json:"lane"`
	Side            Side          `json:"side"`
	VerticalOffset  int           `json:"vertical_offset"`
	ConnectorLength int           `json:"connector_length"`
	Highlighted     bool          `json:"highlighted"`
	ZIndex          int           `json:"z_index"`
}

// Result is a full layout pass.
type Result struct {
	Range        Range           `json:"range"`
	DefaultRange bool            `json:"default_range"`
	Centuries    []CenturyMarker `json:"centuries"`
	Placements   []Placement     `json:"placements"`
}

// Placement looks up a placement by key.
func (r Result) Placement(key string) (Placement, bool) {
	for _, p := range r.Placements {
		if p.Key == key {
			return p, true
		}
	}
	return Placement{}, false
}

// MaxLane returns the highest lane in use.
func (r Result) MaxLane() int {
	m := 0
	for _, p := range r.Placements {
		if p.Lane > m {
			m = p.Lane
		}
	}
	return m
}

// Engine composes range, century grid, position mapping and lane assignment.
type Engine struct {
	opts Options
}

// NewEngine creates an engine; unset options take their defaults.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Compute lays out events in the given order. With no events it falls back
// to the default range and returns only century markers.
func (e *Engine) Compute(events []catalog.Event, st State) Result {
	r, err := CalculateRangeWithPadding(events, e.opts.PaddingRatio)
	usedDefault := false
	if errors.Is(err, ErrEmptyInput) {
		r = *e.opts.DefaultRange
		usedDefault = true
	}

	projected := make([]float64, len(events))
	for i, ev := range events {
		projected[i] = Project(ev.Year, r)
	}
	lanes := AssignLanes(projected, e.opts.MinDistance, e.opts.MaxLevels)

	keys := NewKeyGenerator()
	placements := make([]Placement, len(events))
	for i, ev := range events {
		side := Above
		if i%2 != 0 {
			side = Below
		}
		offset := e.opts.BaseOffset * (lanes[i] + 1)
		p := Placement{
			Key:             keys.Next(ev.Category),
			Event:           ev,
			Position:        Clamp(projected[i], e.opts.ClampMin, e.opts.ClampMax),
			Projected:       projected[i],
			Lane:            lanes[i],
			Side:            side,
			VerticalOffset:  offset,
			ConnectorLength: connectorBase + offset - e.opts.BaseOffset,
			ZIndex:          zIndexDefault,
		}
		if st.Hovered != "" && p.Key == st.Hovered {
			p.Highlighted = true
			p.ZIndex = zIndexHovered
		}
		placements[i] = p
	}

	return Result{
		Range:        r,
		DefaultRange: usedDefault,
		Centuries:    VisibleCenturies(r),
		Placements:   placements,
	}
}
