package layout

import (
	"errors"
	"math"

	"github.com/wcatz/heritage-timeline/internal/catalog"
)

// ErrEmptyInput is returned when a range is requested for zero events.
var ErrEmptyInput = errors.New("layout: no events to lay out")

// DefaultPaddingRatio is the share of the year span added on each side.
const DefaultPaddingRatio = 0.10

// Range is the visible [Min, Max] year window.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// DefaultRange covers the full century grid, 6th BCE through 21st CE.
func DefaultRange() Range {
	return Range{Min: -600, Max: 2100}
}

// Degenerate reports whether the range has zero width.
func (r Range) Degenerate() bool {
	return r.Min == r.Max
}

// Contains reports whether year lies within the range, inclusive.
func (r Range) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// CalculateRange returns the padded window around the events' years.
func CalculateRange(events []catalog.Event) (Range, error) {
	return CalculateRangeWithPadding(events, DefaultPaddingRatio)
}

// CalculateRangeWithPadding is CalculateRange with an explicit padding ratio.
func CalculateRangeWithPadding(events []catalog.Event, ratio float64) (Range, error) {
	if len(events) == 0 {
		return Range{}, ErrEmptyInput
	}
	rawMin, rawMax := events[0].Year, events[0].Year
	for _, ev := range events[1:] {
		if ev.Year < rawMin {
			rawMin = ev.Year
		}
		if ev.Year > rawMax {
			rawMax = ev.Year
		}
	}
	padding := float64(rawMax-rawMin) * ratio
	return Range{
		Min: int(math.Floor(float64(rawMin) - padding)),
		Max: int(math.Ceil(float64(rawMax) + padding)),
	}, nil
}
