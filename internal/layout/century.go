package layout

import "fmt"

const (
	firstCentury = -6
	lastCentury  = 21
)

// Century is a gridline reference point at the midpoint of a century.
type Century struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Year  int    `json:"year"`
}

// CenturyMarker is a century placed on the horizontal axis.
type CenturyMarker struct {
	Century
	Position float64 `json:"position"`
}

var centuries = buildCenturies()

func buildCenturies() []Century {
	out := make([]Century, 0, lastCentury-firstCentury)
	for i := firstCentury; i <= lastCentury; i++ {
		if i == 0 {
			// there is no year zero
			continue
		}
		out = append(out, newCentury(i))
	}
	return out
}

func newCentury(i int) Century {
	if i < 0 {
		return Century{Index: i, Label: fmt.Sprintf("%dth BCE", -i), Year: i*100 + 50}
	}
	return Century{Index: i, Label: fmt.Sprintf("%dth CE", i), Year: i*100 - 50}
}

// Centuries returns the full static grid, 6th BCE through 21th CE.
func Centuries() []Century {
	out := make([]Century, len(centuries))
	copy(out, centuries)
	return out
}

// VisibleCenturies filters the grid to centuries whose representative year is
// inside r and spreads them evenly across the axis. A single marker sits at
// the midpoint.
func VisibleCenturies(r Range) []CenturyMarker {
	var visible []Century
	for _, c := range centuries {
		if r.Contains(c.Year) {
			visible = append(visible, c)
		}
	}

	markers := make([]CenturyMarker, len(visible))
	for i, c := range visible {
		pos := midpoint
		if len(visible) > 1 {
			pos = float64(i) / float64(len(visible)-1) * 100
		}
		markers[i] = CenturyMarker{Century: c, Position: pos}
	}
	return markers
}
