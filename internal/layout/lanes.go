package layout

import "math"

const (
	DefaultMinDistance = 6.0
	DefaultMaxLevels   = 16
)

// laneState is the accumulator of the lane fold: positions and levels of
// every event placed so far, in order.
type laneState struct {
	positions []float64
	levels    []int
}

// AssignLanes returns a lane per position. Each position is compared with
// every earlier one, scanning from the nearest index back to the first; every
// collision closer than minDistance overwrites the level, so the colliding
// predecessor with the lowest index decides. Lane 0 means no collision.
func AssignLanes(positions []float64, minDistance float64, maxLevels int) []int {
	if maxLevels < 1 {
		maxLevels = DefaultMaxLevels
	}
	st := laneState{
		positions: make([]float64, 0, len(positions)),
		levels:    make([]int, 0, len(positions)),
	}
	for _, p := range positions {
		st = st.place(p, minDistance, maxLevels)
	}
	return st.levels
}

func (s laneState) place(p, minDistance float64, maxLevels int) laneState {
	level := 0
	for prev := len(s.positions) - 1; prev >= 0; prev-- {
		if math.Abs(p-s.positions[prev]) < minDistance {
			level = (s.levels[prev] + 1) % maxLevels
			if level == 0 {
				level = 1
			}
		}
	}
	return laneState{
		positions: append(s.positions, p),
		levels:    append(s.levels, level),
	}
}
