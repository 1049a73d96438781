package layout

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/wcatz/heritage-timeline/internal/catalog"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func eventsAt(years ...int) []catalog.Event {
	out := make([]catalog.Event, len(years))
	for i, y := range years {
		out[i] = catalog.Event{Year: y, Title: "e", Category: catalog.Architecture}
	}
	return out
}

func TestCalculateRange(t *testing.T) {
	tests := []struct {
		years    []int
		min, max int
	}{
		{[]int{1000, 2000}, 900, 2100},
		{[]int{2000, 1000, 1500}, 900, 2100},
		{[]int{-250, 1010}, -376, 1136},
		{[]int{0, 15}, -2, 17},
		{[]int{1200}, 1200, 1200},
		{[]int{1200, 1200, 1200}, 1200, 1200},
	}
	for _, tt := range tests {
		r, err := CalculateRange(eventsAt(tt.years...))
		if err != nil {
			t.Fatalf("CalculateRange(%v) error: %v", tt.years, err)
		}
		if r.Min != tt.min || r.Max != tt.max {
			t.Errorf("CalculateRange(%v) = [%d,%d], want [%d,%d]", tt.years, r.Min, r.Max, tt.min, tt.max)
		}
		for _, y := range tt.years {
			if !r.Contains(y) {
				t.Errorf("range [%d,%d] does not contain %d", r.Min, r.Max, y)
			}
		}
	}
}

func TestCalculateRangeEmpty(t *testing.T) {
	_, err := CalculateRange(nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("CalculateRange(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestPositionOfBounds(t *testing.T) {
	if got := PositionOf(900, 900, 2100); got != 8 {
		t.Errorf("PositionOf(min) = %v, want 8", got)
	}
	if got := PositionOf(2100, 900, 2100); got != 92 {
		t.Errorf("PositionOf(max) = %v, want 92", got)
	}
	if got := PositionOf(1500, 1000, 2000); !approx(got, 50) {
		t.Errorf("PositionOf(1500, 1000, 2000) = %v, want 50", got)
	}
	if got := PositionOf(1100, 1000, 2000); !approx(got, 10) {
		t.Errorf("PositionOf(1100, 1000, 2000) = %v, want 10", got)
	}
}

func TestPositionOfDegenerate(t *testing.T) {
	got := PositionOf(1200, 1200, 1200)
	if math.IsNaN(got) || got != 50 {
		t.Errorf("PositionOf on zero-width range = %v, want 50", got)
	}
	if got := Project(1300, Range{Min: 1200, Max: 1200}); got != 50 {
		t.Errorf("Project on zero-width range = %v, want 50", got)
	}
}

func TestProjectUnclamped(t *testing.T) {
	if got := Project(800, Range{Min: 900, Max: 1900}); !approx(got, -10) {
		t.Errorf("Project(800) = %v, want -10", got)
	}
}

func TestCenturies(t *testing.T) {
	cs := Centuries()
	if len(cs) != 27 {
		t.Fatalf("len(Centuries()) = %d, want 27", len(cs))
	}
	first, last := cs[0], cs[len(cs)-1]
	if first.Index != -6 || first.Label != "6th BCE" || first.Year != -550 {
		t.Errorf("first century = %+v, want {-6 6th BCE -550}", first)
	}
	if last.Index != 21 || last.Label != "21th CE" || last.Year != 2050 {
		t.Errorf("last century = %+v, want {21 21th CE 2050}", last)
	}
	for _, c := range cs {
		if c.Index == 0 {
			t.Error("century index 0 must not exist")
		}
		switch c.Index {
		case -1:
			if c.Label != "1th BCE" || c.Year != -50 {
				t.Errorf("century -1 = %+v", c)
			}
		case 1:
			if c.Label != "1th CE" || c.Year != 50 {
				t.Errorf("century 1 = %+v", c)
			}
		}
	}
}

func TestCenturiesIsCopy(t *testing.T) {
	cs := Centuries()
	cs[0].Label = "changed"
	if Centuries()[0].Label != "6th BCE" {
		t.Error("Centuries() must not expose the static grid")
	}
}

func TestVisibleCenturies(t *testing.T) {
	ms := VisibleCenturies(Range{Min: 900, Max: 2100})
	if len(ms) != 12 {
		t.Fatalf("visible centuries = %d, want 12", len(ms))
	}
	if ms[0].Label != "10th CE" || ms[0].Position != 0 {
		t.Errorf("first marker = %+v, want 10th CE at 0", ms[0])
	}
	if ms[11].Label != "21th CE" || ms[11].Position != 100 {
		t.Errorf("last marker = %+v, want 21th CE at 100", ms[11])
	}
	if !approx(ms[1].Position, 100.0/11) {
		t.Errorf("second marker position = %v, want %v", ms[1].Position, 100.0/11)
	}
}

func TestVisibleCenturiesSingleAndNone(t *testing.T) {
	ms := VisibleCenturies(Range{Min: 1100, Max: 1200})
	if len(ms) != 1 || ms[0].Year != 1150 || ms[0].Position != 50 {
		t.Errorf("single marker = %+v, want 1150 at 50", ms)
	}
	if ms := VisibleCenturies(Range{Min: 1200, Max: 1200}); len(ms) != 0 {
		t.Errorf("markers for [1200,1200] = %d, want 0", len(ms))
	}
}

func TestAssignLanes(t *testing.T) {
	got := AssignLanes([]float64{10, 12, 50}, DefaultMinDistance, DefaultMaxLevels)
	want := []int{0, 1, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AssignLanes(10,12,50) = %v, want %v", got, want)
	}
}

func TestAssignLanesLowestIndexCollisionWins(t *testing.T) {
	// event 2 collides with both; event 0 is scanned last and decides
	got := AssignLanes([]float64{10, 13, 11}, DefaultMinDistance, DefaultMaxLevels)
	want := []int{0, 1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AssignLanes(10,13,11) = %v, want %v", got, want)
	}
}

func TestAssignLanesChain(t *testing.T) {
	got := AssignLanes([]float64{0, 5, 10}, DefaultMinDistance, DefaultMaxLevels)
	want := []int{0, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AssignLanes(0,5,10) = %v, want %v", got, want)
	}
}

func TestAssignLanesWrapSkipsZero(t *testing.T) {
	got := AssignLanes([]float64{0, 5, 10}, DefaultMinDistance, 2)
	want := []int{0, 1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AssignLanes with maxLevels 2 = %v, want %v", got, want)
	}
}

func TestAssignLanesEmpty(t *testing.T) {
	if got := AssignLanes(nil, DefaultMinDistance, DefaultMaxLevels); len(got) != 0 {
		t.Errorf("AssignLanes(nil) = %v, want empty", got)
	}
}

func TestKeyGenerator(t *testing.T) {
	g := NewKeyGenerator()
	if k := g.Next(catalog.Architecture); k != "architecture-0" {
		t.Errorf("Next() = %s, want architecture-0", k)
	}
	if k := g.Next(catalog.Music); k != "music-1" {
		t.Errorf("Next() = %s, want music-1", k)
	}
	if k := NewKeyGenerator().Next(catalog.Bhaktas); k != "bhaktas-0" {
		t.Errorf("fresh Next() = %s, want bhaktas-0", k)
	}
}
