package layout

const (
	// DefaultClampMin and DefaultClampMax keep markers off the viewport edges.
	DefaultClampMin = 8.0
	DefaultClampMax = 92.0

	midpoint = 50.0
)

// Project maps a year to a percentage of r without clamping. A zero-width
// range maps every year to the midpoint.
func Project(year int, r Range) float64 {
	if r.Degenerate() {
		return midpoint
	}
	return float64(year-r.Min) / float64(r.Max-r.Min) * 100
}

// PositionOf maps a year onto the axis, clamped to [8, 92].
func PositionOf(year, minYear, maxYear int) float64 {
	return Clamp(Project(year, Range{Min: minYear, Max: maxYear}), DefaultClampMin, DefaultClampMax)
}

// Clamp limits p to [lo, hi].
func Clamp(p, lo, hi float64) float64 {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}
